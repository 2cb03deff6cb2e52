package middleware

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"coachdesk/internal/adapters/http/perf"
)

// DefaultSlowRequestMs is the default threshold for slow request warnings.
const DefaultSlowRequestMs = 200

var (
	slowRequestMs   int64
	slowRequestOnce sync.Once
)

// slowRequestThreshold returns the warn threshold in milliseconds. The env
// override is read once; later changes to the variable are ignored.
func slowRequestThreshold() float64 {
	slowRequestOnce.Do(func() {
		ms := DefaultSlowRequestMs
		if v := os.Getenv("COACHDESK_SLOW_REQUEST_MS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				ms = n
			}
		}
		atomic.StoreInt64(&slowRequestMs, int64(ms))
	})
	return float64(atomic.LoadInt64(&slowRequestMs))
}

// reqSeq numbers requests so the slow-request log lines can be correlated.
var reqSeq uint64

// timedResponse wraps http.ResponseWriter to capture the status code. A
// handler that never calls WriteHeader leaves the seeded 200 in place.
type timedResponse struct {
	http.ResponseWriter
	status int
}

func (tr *timedResponse) WriteHeader(code int) {
	tr.status = code
	tr.ResponseWriter.WriteHeader(code)
}

// timedResponsePool reduces allocations on the hot path. The wrapped
// ResponseWriter must be cleared before a writer goes back in the pool.
var timedResponsePool = sync.Pool{
	New: func() any { return &timedResponse{} },
}

// Timing returns middleware that times every request outside /static/.
// Normal requests log at DEBUG; requests over the threshold log at WARN.
// If collector is non-nil, each timed request is also recorded for the ops
// snapshot under a "METHOD /path" key.
func Timing(collector *perf.Collector) func(http.Handler) http.Handler {
	threshold := slowRequestThreshold()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if strings.HasPrefix(path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			reqID := atomic.AddUint64(&reqSeq, 1)

			tr := timedResponsePool.Get().(*timedResponse)
			tr.ResponseWriter = w
			tr.status = http.StatusOK
			defer func() {
				durationMs := float64(time.Since(start).Microseconds()) / 1000.0
				logRequest(reqID, r.Method, path, tr.status, durationMs, threshold)
				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Path:       r.Method + " " + path,
						StatusCode: tr.status,
						DurationMs: durationMs,
						Timestamp:  start,
					})
				}
				tr.ResponseWriter = nil
				timedResponsePool.Put(tr)
			}()

			next.ServeHTTP(tr, r)
		})
	}
}

func logRequest(reqID uint64, method, path string, status int, durationMs, threshold float64) {
	attrs := []any{
		"request_id", reqID,
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", durationMs,
	}
	if durationMs >= threshold {
		slog.Warn("slow_request", attrs...)
		return
	}
	slog.Debug("request", attrs...)
}
