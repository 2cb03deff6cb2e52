package agenda_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"coachdesk/internal/adapters/storage"
	agendaStore "coachdesk/internal/adapters/storage/agenda"
	domain "coachdesk/internal/domain/agenda"
)

// openTestStore creates an in-memory SQLite store with one seeded coach
// account to satisfy the owner foreign key. The raw handle is returned for
// tests that need to corrupt rows directly.
func openTestStore(t *testing.T) (*agendaStore.SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1) // in-memory DB is per-connection
	t.Cleanup(func() { db.Close() })

	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}
	_, err = db.Exec(`INSERT INTO account (id, email, role, created_at) VALUES ('coach-1', 'coach@example.com', 'coach', '2025-01-01T00:00:00Z')`)
	if err != nil {
		t.Fatalf("failed to seed account: %v", err)
	}
	return agendaStore.NewSQLiteStore(db), db
}

func testEvent(ts time.Time) domain.Event {
	return domain.Event{
		OwnerID:       "coach-1",
		Title:         "Strength block A",
		Kind:          domain.KindTraining,
		Timestamp:     ts,
		DurationHours: 1.5,
		Location:      "Gym floor",
		Notes:         "deload week",
		CreatedAt:     time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestSQLiteStore_InsertAssignsID(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, testEvent(time.Date(2025, 6, 12, 17, 30, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if id == domain.DraftID {
		t.Fatal("Insert() returned the draft sentinel as an ID")
	}

	got, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "Strength block A" || got.Kind != domain.KindTraining {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.Timestamp.Equal(time.Date(2025, 6, 12, 17, 30, 0, 0, time.UTC)) {
		t.Errorf("timestamp = %s, want 2025-06-12T17:30:00Z", got.Timestamp.Format(time.RFC3339))
	}
	if got.DurationHours != 1.5 || got.Location != "Gym floor" || got.Notes != "deload week" {
		t.Errorf("field mismatch: %+v", got)
	}
}

// TestSQLiteStore_ListByOwnerAndRange_HalfOpen verifies the fetched window is
// [from, to): an event one second before the start is excluded, one exactly
// at the end is excluded, one exactly at the start is included.
func TestSQLiteStore_ListByOwnerAndRange_HalfOpen(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	from := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	before := testEvent(from.Add(-time.Second))
	atStart := testEvent(from)
	inside := testEvent(time.Date(2025, 6, 12, 17, 30, 0, 0, time.UTC))
	atEnd := testEvent(to)

	for _, e := range []domain.Event{before, atStart, inside, atEnd} {
		if _, err := store.Insert(ctx, e); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got, err := store.ListByOwnerAndRange(ctx, "coach-1", from, to)
	if err != nil {
		t.Fatalf("ListByOwnerAndRange() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2 (at-start and inside)", len(got))
	}
	if !got[0].Timestamp.Equal(from) {
		t.Errorf("first event at %s, want window start", got[0].Timestamp.Format(time.RFC3339))
	}
	if !got[1].Timestamp.Equal(inside.Timestamp) {
		t.Errorf("second event at %s, want mid-week", got[1].Timestamp.Format(time.RFC3339))
	}
}

func TestSQLiteStore_ListByOwnerAndRange_FiltersOwner(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Insert(ctx, testEvent(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	got, err := store.ListByOwnerAndRange(ctx, "other-coach",
		time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListByOwnerAndRange() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d events for a different owner, want 0", len(got))
	}
}

// TestSQLiteStore_Update_TimestampOnly verifies a drag-reschedule patch
// changes the timestamp and nothing else.
func TestSQLiteStore_Update_TimestampOnly(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, testEvent(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	before, _ := store.GetByID(ctx, id)

	newTS := time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC)
	if err := store.Update(ctx, id, agendaStore.TimestampOnly(newTS)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	after, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !after.Timestamp.Equal(newTS) {
		t.Errorf("timestamp = %s, want %s", after.Timestamp.Format(time.RFC3339), newTS.Format(time.RFC3339))
	}
	if after.Title != before.Title || after.Kind != before.Kind ||
		after.DurationHours != before.DurationHours ||
		after.Location != before.Location || after.Notes != before.Notes {
		t.Errorf("non-timestamp fields changed: before %+v after %+v", before, after)
	}

	// Idempotence: re-sending the same patch leaves the row unchanged.
	if err := store.Update(ctx, id, agendaStore.TimestampOnly(newTS)); err != nil {
		t.Fatalf("second Update() error = %v", err)
	}
	again, _ := store.GetByID(ctx, id)
	if !again.Timestamp.Equal(newTS) {
		t.Errorf("idempotent re-patch drifted timestamp to %s", again.Timestamp.Format(time.RFC3339))
	}
}

func TestSQLiteStore_Update_FullPatch(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, testEvent(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	title := "Check-in call"
	kind := domain.KindCall
	dur := 0.5
	loc := ""
	notes := "reschedule request"
	if err := store.Update(ctx, id, agendaStore.Patch{
		Title: &title, Kind: &kind, DurationHours: &dur, Location: &loc, Notes: &notes,
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := store.GetByID(ctx, id)
	if got.Title != title || got.Kind != kind || got.DurationHours != dur || got.Location != loc || got.Notes != notes {
		t.Errorf("full patch not applied: %+v", got)
	}
}

// TestSQLiteStore_Update_UnknownID verifies patching a missing row reports
// sql.ErrNoRows instead of silently succeeding.
func TestSQLiteStore_Update_UnknownID(t *testing.T) {
	store, _ := openTestStore(t)

	err := store.Update(context.Background(), "no-such-event",
		agendaStore.TimestampOnly(time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC)))
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Update() unknown id error = %v, want sql.ErrNoRows", err)
	}
}

// TestSQLiteStore_ListByOwnerAndRange_SkipsMalformedRow verifies a row with a
// corrupted timestamp is dropped from the window instead of failing it.
func TestSQLiteStore_ListByOwnerAndRange_SkipsMalformedRow(t *testing.T) {
	store, db := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Insert(ctx, testEvent(time.Date(2025, 6, 12, 17, 30, 0, 0, time.UTC))); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	// Corrupt row written past the store's codec. The garbage text still sorts
	// inside the window so the range query picks it up.
	_, err := db.Exec(`INSERT INTO calendar_event (id, owner_id, title, kind, timestamp, duration_hours, created_at)
		VALUES ('bad-1', 'coach-1', 'Corrupted', 'training', '2025-06-10Tnot-a-time', 1, '2025-06-01T08:00:00Z')`)
	if err != nil {
		t.Fatalf("failed to insert corrupted row: %v", err)
	}

	got, err := store.ListByOwnerAndRange(ctx, "coach-1",
		time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListByOwnerAndRange() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1 (corrupted row skipped)", len(got))
	}
	if got[0].Title != "Strength block A" {
		t.Errorf("surviving event = %q, want the intact row", got[0].Title)
	}
}

func TestSQLiteStore_Delete_Idempotent(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, testEvent(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.GetByID(ctx, id); err == nil {
		t.Error("GetByID() after delete returned no error")
	}
	// Deleting twice is not an error.
	if err := store.Delete(ctx, id); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
}
