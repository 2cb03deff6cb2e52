package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"coachdesk/internal/domain/account"
	"coachdesk/internal/domain/agenda"
)

// mockAgendaStore returns canned events per owner.
type mockAgendaStore struct {
	byOwner map[string][]agenda.Event
	failFor string
	// windows records the fetch ranges requested, for window assertions.
	windows [][2]time.Time
}

func (m *mockAgendaStore) ListByOwnerAndRange(_ context.Context, ownerID string, from, to time.Time) ([]agenda.Event, error) {
	m.windows = append(m.windows, [2]time.Time{from, to})
	if ownerID == m.failFor {
		return nil, errors.New("store down")
	}
	return m.byOwner[ownerID], nil
}

// TestExecuteSendAgendaReminders_SendsOnlyToBusyCoaches tests that coaches with
// an empty day are skipped.
func TestExecuteSendAgendaReminders_SendsOnlyToBusyCoaches(t *testing.T) {
	accounts := newMockAccountStore()
	accounts.seed(t, "coach-1", "busy@example.com", account.RoleCoach, "password-long-enough")
	accounts.seed(t, "coach-2", "idle@example.com", account.RoleCoach, "password-long-enough")
	accounts.seed(t, "admin-1", "admin@example.com", account.RoleAdmin, "password-long-enough")

	agendaStore := &mockAgendaStore{byOwner: map[string][]agenda.Event{
		"coach-1": {{
			ID: "evt-1", OwnerID: "coach-1", Title: "Morning session", Kind: agenda.KindTraining,
			Timestamp:     time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC),
			DurationHours: 1, Location: "Main gym",
		}},
	}}
	sender := &mockSender{}

	n, err := ExecuteSendAgendaReminders(context.Background(), AgendaRemindersDeps{
		AgendaStore:  agendaStore,
		AccountStore: accounts,
		Email:        sender,
		Now:          testNowFn, // 2026-02-10 09:00 UTC
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 || len(sender.sent) != 1 {
		t.Fatalf("queued %d reminders, sent %d, want 1", n, len(sender.sent))
	}
	req := sender.sent[0]
	if req.To[0] != "busy@example.com" {
		t.Errorf("reminder went to %v", req.To)
	}
	if !strings.Contains(req.HTML, "Morning session") || !strings.Contains(req.HTML, "09:00") {
		t.Errorf("body missing event details: %s", req.HTML)
	}
}

// TestExecuteSendAgendaReminders_WindowIsTomorrow tests the fetch window is
// the full next calendar day.
func TestExecuteSendAgendaReminders_WindowIsTomorrow(t *testing.T) {
	accounts := newMockAccountStore()
	accounts.seed(t, "coach-1", "c@example.com", account.RoleCoach, "password-long-enough")
	agendaStore := &mockAgendaStore{}

	if _, err := ExecuteSendAgendaReminders(context.Background(), AgendaRemindersDeps{
		AgendaStore:  agendaStore,
		AccountStore: accounts,
		Email:        &mockSender{},
		Now:          testNowFn,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(agendaStore.windows) != 1 {
		t.Fatalf("got %d fetches, want 1", len(agendaStore.windows))
	}
	wantFrom := time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)
	if got := agendaStore.windows[0]; !got[0].Equal(wantFrom) || !got[1].Equal(wantTo) {
		t.Errorf("window = [%v, %v), want [%v, %v)", got[0], got[1], wantFrom, wantTo)
	}
}

// TestExecuteSendAgendaReminders_SkipsFailedFetch tests one bad coach fetch
// does not stall the run.
func TestExecuteSendAgendaReminders_SkipsFailedFetch(t *testing.T) {
	accounts := newMockAccountStore()
	accounts.seed(t, "coach-1", "a@example.com", account.RoleCoach, "password-long-enough")
	accounts.seed(t, "coach-2", "b@example.com", account.RoleCoach, "password-long-enough")

	agendaStore := &mockAgendaStore{
		failFor: "coach-1",
		byOwner: map[string][]agenda.Event{
			"coach-2": {{
				ID: "evt-1", OwnerID: "coach-2", Title: "Call", Kind: agenda.KindCall,
				Timestamp:     time.Date(2026, 2, 11, 14, 0, 0, 0, time.UTC),
				DurationHours: 0.5,
			}},
		},
	}
	sender := &mockSender{}

	n, err := ExecuteSendAgendaReminders(context.Background(), AgendaRemindersDeps{
		AgendaStore:  agendaStore,
		AccountStore: accounts,
		Email:        sender,
		Now:          testNowFn,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("queued %d reminders, want 1", n)
	}
}
