package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// NoopSender satisfies Sender without delivering anything. It is the default
// when no provider key is configured; the log line is the only visible effect,
// which keeps development and tests free of outbound mail.
type NoopSender struct {
	seq atomic.Uint64
}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

func (s *NoopSender) accept(req SendRequest) SendResult {
	id := fmt.Sprintf("noop-%d", s.seq.Add(1))
	slog.Info("email_event", "event", "noop_send",
		"message_id", id, "to", req.To, "subject", req.Subject)
	return SendResult{MessageID: id, SentAt: time.Now()}
}

// Send logs the request and reports success without delivering.
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	return s.accept(req), nil
}

// SendBatch logs each request and reports success without delivering.
func (s *NoopSender) SendBatch(_ context.Context, reqs []SendRequest) ([]SendResult, error) {
	results := make([]SendResult, 0, len(reqs))
	for _, req := range reqs {
		results = append(results, s.accept(req))
	}
	return results, nil
}
