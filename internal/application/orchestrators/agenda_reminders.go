package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"coachdesk/internal/adapters/email"
	"coachdesk/internal/domain/account"
	"coachdesk/internal/domain/agenda"
)

// AgendaStoreForReminders defines the store interface needed by the reminder job.
type AgendaStoreForReminders interface {
	ListByOwnerAndRange(ctx context.Context, ownerID string, from, to time.Time) ([]agenda.Event, error)
}

// AccountStoreForReminders lists the coaches to remind.
type AccountStoreForReminders interface {
	ListByRole(ctx context.Context, role string) ([]account.Account, error)
}

// AgendaRemindersDeps holds dependencies for the daily reminder job.
type AgendaRemindersDeps struct {
	AgendaStore  AgendaStoreForReminders
	AccountStore AccountStoreForReminders
	Email        email.Sender
	Now          func() time.Time
}

// ExecuteSendAgendaReminders emails each coach a summary of tomorrow's agenda.
// Coaches with an empty day get no email. Runs once per day from the cron
// scheduler; per-coach fetch failures are logged and skipped so one bad row
// cannot stall the whole run.
// PRE: none
// POST: one batch send attempted covering every coach with events tomorrow;
// returns the number of reminders queued
func ExecuteSendAgendaReminders(ctx context.Context, deps AgendaRemindersDeps) (int, error) {
	coaches, err := deps.AccountStore.ListByRole(ctx, account.RoleCoach)
	if err != nil {
		return 0, fmt.Errorf("list coaches: %w", err)
	}

	now := deps.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)

	var reqs []email.SendRequest
	for _, coach := range coaches {
		events, err := deps.AgendaStore.ListByOwnerAndRange(ctx, coach.ID, from, to)
		if err != nil {
			slog.Error("reminder_event", "event", "agenda_fetch_failed", "coach_id", coach.ID, "error", err)
			continue
		}
		if len(events) == 0 {
			continue
		}
		reqs = append(reqs, email.SendRequest{
			To:      []string{coach.Email},
			Subject: fmt.Sprintf("Your agenda for %s", from.Format("Mon 2 Jan")),
			HTML:    reminderBody(events),
		})
	}

	if len(reqs) == 0 {
		slog.Info("reminder_event", "event", "no_reminders_due", "date", from.Format("2006-01-02"))
		return 0, nil
	}

	if _, err := deps.Email.SendBatch(ctx, reqs); err != nil {
		return 0, fmt.Errorf("send reminders: %w", err)
	}

	slog.Info("reminder_event", "event", "reminders_sent", "count", len(reqs), "date", from.Format("2006-01-02"))
	return len(reqs), nil
}

func reminderBody(events []agenda.Event) string {
	var b strings.Builder
	b.WriteString("<p>Tomorrow's sessions:</p><ul>")
	for _, e := range events {
		b.WriteString(fmt.Sprintf("<li>%s — %s (%s", e.Timestamp.Format("15:04"), e.Title, e.Kind))
		if e.Location != "" {
			b.WriteString(", " + e.Location)
		}
		b.WriteString(")</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}
