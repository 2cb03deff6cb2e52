package grid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	store "coachdesk/internal/adapters/storage/agenda"
	domain "coachdesk/internal/domain/agenda"
)

// fakeStore is an in-memory event store with toggleable failures. With
// normalizeUTC set it hands timestamps back in UTC the way the SQLite codec
// does, regardless of the zone they were written in.
type fakeStore struct {
	events       map[string]domain.Event
	nextID       int
	failAll      bool
	normalizeUTC bool

	updates []store.Patch
	deletes []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{events: map[string]domain.Event{}}
}

func (f *fakeStore) ListByOwnerAndRange(_ context.Context, ownerID string, from, to time.Time) ([]domain.Event, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	var out []domain.Event
	for _, e := range f.events {
		if e.OwnerID != ownerID {
			continue
		}
		if e.Timestamp.Before(from) || !e.Timestamp.Before(to) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (domain.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return domain.Event{}, errors.New("not found")
	}
	return e, nil
}

func (f *fakeStore) Insert(_ context.Context, e domain.Event) (string, error) {
	if f.failAll {
		return "", errors.New("store down")
	}
	if f.normalizeUTC {
		e.Timestamp = e.Timestamp.UTC()
	}
	f.nextID++
	e.ID = fmt.Sprintf("evt-%d", f.nextID)
	f.events[e.ID] = e
	return e.ID, nil
}

func (f *fakeStore) Update(_ context.Context, id string, p store.Patch) error {
	if f.failAll {
		return errors.New("store down")
	}
	f.updates = append(f.updates, p)
	e, ok := f.events[id]
	if !ok {
		return errors.New("not found")
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Kind != nil {
		e.Kind = *p.Kind
	}
	if p.Timestamp != nil {
		e.Timestamp = *p.Timestamp
	}
	if p.DurationHours != nil {
		e.DurationHours = *p.DurationHours
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	f.events[id] = e
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.deletes = append(f.deletes, id)
	if f.failAll {
		return errors.New("store down")
	}
	delete(f.events, id)
	return nil
}

func (f *fakeStore) seed(e domain.Event) string {
	f.nextID++
	e.ID = fmt.Sprintf("evt-%d", f.nextID)
	f.events[e.ID] = e
	return e.ID
}

func newTestController(fs *fakeStore, now time.Time) *Controller {
	deps := Deps{
		Events: fs,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return now },
	}
	return NewController(deps, "coach-1")
}

// Anchor Wednesday 2025-06-11, week Monday 2025-06-09 .. Sunday 2025-06-15.
var anchor = time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

func ts(day, hour, minute int) time.Time {
	return time.Date(2025, 6, day, hour, minute, 0, 0, time.UTC)
}

func TestFetchWeekMapsAndOrders(t *testing.T) {
	fs := newFakeStore()
	fs.seed(domain.Event{OwnerID: "coach-1", Title: "Thursday PM", Kind: domain.KindTraining,
		Timestamp: ts(12, 17, 30), DurationHours: 1})
	fs.seed(domain.Event{OwnerID: "coach-1", Title: "Monday AM", Kind: domain.KindCall,
		Timestamp: ts(9, 9, 0), DurationHours: 0.5})
	// Other owner and out-of-window rows must not appear.
	fs.seed(domain.Event{OwnerID: "coach-2", Title: "Other coach", Kind: domain.KindCall,
		Timestamp: ts(10, 9, 0), DurationHours: 1})
	fs.seed(domain.Event{OwnerID: "coach-1", Title: "Prior Sunday", Kind: domain.KindTraining,
		Timestamp: time.Date(2025, 6, 8, 23, 59, 59, 999000000, time.UTC), DurationHours: 1})

	c := newTestController(fs, anchor)
	c.FetchWeek(context.Background())

	if c.LoadFailed() {
		t.Fatal("LoadFailed = true for a healthy store")
	}
	got := c.Events()
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Event.Title != "Monday AM" || got[1].Event.Title != "Thursday PM" {
		t.Fatalf("wrong order: %q, %q", got[0].Event.Title, got[1].Event.Title)
	}
	if got[0].Position.DayIndex != 0 || got[0].Position.HourFraction != 9.0 {
		t.Errorf("Monday AM position = %+v, want {0 9}", got[0].Position)
	}
	if got[1].Position.DayIndex != 3 || got[1].Position.HourFraction != 17.5 {
		t.Errorf("Thursday PM position = %+v, want {3 17.5}", got[1].Position)
	}
}

// TestFetchWeekMapsInDisplayedZone verifies grid coordinates survive the
// create -> persist -> refetch cycle when the server runs outside UTC. The
// store hands back UTC instants, so the refetch must express them in the
// displayed week's zone before deriving day and hour.
func TestFetchWeekMapsInDisplayedZone(t *testing.T) {
	zone := time.FixedZone("UTC+12", 12*3600)
	fs := newFakeStore()
	fs.normalizeUTC = true
	c := newTestController(fs, time.Date(2025, 6, 11, 10, 0, 0, 0, zone))
	c.FetchWeek(context.Background())

	// Wednesday 14:00 local is 02:00 UTC, a different day-relative hour.
	draft, err := c.ClickCell(2, 14.0)
	if err != nil {
		t.Fatalf("ClickCell: %v", err)
	}
	draft.Title = "Afternoon block"
	if err := c.Submit(context.Background(), draft); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	got := c.Events()
	if len(got) != 1 {
		t.Fatalf("got %d events after create+refetch, want 1", len(got))
	}
	if pos := got[0].Position; pos.DayIndex != 2 || pos.HourFraction != 14.0 {
		t.Errorf("position after refetch = %+v, want {2 14}", pos)
	}
	want := time.Date(2025, 6, 11, 14, 0, 0, 0, zone)
	if !got[0].Event.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want the instant %v", got[0].Event.Timestamp, want)
	}
}

func TestFetchWeekDegradesToEmptyOnError(t *testing.T) {
	fs := newFakeStore()
	fs.seed(domain.Event{OwnerID: "coach-1", Title: "A", Kind: domain.KindTraining,
		Timestamp: ts(10, 9, 0), DurationHours: 1})
	c := newTestController(fs, anchor)
	c.FetchWeek(context.Background())
	if len(c.Events()) != 1 {
		t.Fatal("seed fetch failed")
	}

	fs.failAll = true
	c.FetchWeek(context.Background())
	if got := c.Events(); len(got) != 0 {
		t.Errorf("got %d events after failed fetch, want 0", len(got))
	}
	if !c.LoadFailed() {
		t.Error("LoadFailed = false after a failed fetch")
	}

	fs.failAll = false
	c.FetchWeek(context.Background())
	if c.LoadFailed() {
		t.Error("LoadFailed not cleared by a successful fetch")
	}
}

func TestFetchWeekClampsOutOfRangeRows(t *testing.T) {
	fs := newFakeStore()
	fs.seed(domain.Event{OwnerID: "coach-1", Title: "Too early", Kind: domain.KindTraining,
		Timestamp: ts(10, 4, 30), DurationHours: 1})
	c := newTestController(fs, anchor)
	c.FetchWeek(context.Background())

	got := c.Events()
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	if got[0].Position.HourFraction != float64(domain.GridFirstHour) {
		t.Errorf("hour fraction = %v, want clamped to %d", got[0].Position.HourFraction, domain.GridFirstHour)
	}
}

func TestClickCellSeedsDraft(t *testing.T) {
	c := newTestController(newFakeStore(), anchor)
	draft, err := c.ClickCell(2, 14.0)
	if err != nil {
		t.Fatalf("ClickCell: %v", err)
	}
	if c.Mode() != ModeCreating {
		t.Fatalf("mode = %v, want ModeCreating", c.Mode())
	}
	if !draft.IsDraft() {
		t.Error("draft carries a real ID before insert")
	}
	if draft.Kind != domain.KindTraining || draft.DurationHours != 1.0 {
		t.Errorf("defaults = kind %q duration %v, want training/1h", draft.Kind, draft.DurationHours)
	}
	want := ts(11, 14, 0) // Wednesday of the anchor week
	if !draft.Timestamp.Equal(want) {
		t.Errorf("draft timestamp = %v, want %v", draft.Timestamp, want)
	}

	if _, err := c.ClickCell(0, 9.0); !errors.Is(err, ErrNotIdle) {
		t.Errorf("second ClickCell error = %v, want ErrNotIdle", err)
	}
}

func TestSubmitCreateAssignsIDViaRefetch(t *testing.T) {
	fs := newFakeStore()
	c := newTestController(fs, anchor)
	c.FetchWeek(context.Background())

	draft, _ := c.ClickCell(3, 17.5)
	draft.Title = "Leg day"
	if err := c.Submit(context.Background(), draft); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if c.Mode() != ModeIdle {
		t.Fatalf("mode = %v after submit, want ModeIdle", c.Mode())
	}

	got := c.Events()
	if len(got) != 1 {
		t.Fatalf("got %d events after create+refetch, want exactly 1", len(got))
	}
	e := got[0].Event
	if e.ID == domain.DraftID {
		t.Error("event still carries the draft ID after refetch")
	}
	if e.Title != "Leg day" || !e.Timestamp.Equal(ts(12, 17, 30)) {
		t.Errorf("refetched event = %+v", e)
	}
}

func TestSubmitValidatesBeforeAnyWrite(t *testing.T) {
	fs := newFakeStore()
	c := newTestController(fs, anchor)
	draft, _ := c.ClickCell(0, 9.0)
	// Title left empty.
	if err := c.Submit(context.Background(), draft); !errors.Is(err, domain.ErrEmptyTitle) {
		t.Fatalf("Submit error = %v, want ErrEmptyTitle", err)
	}
	if c.Mode() != ModeCreating {
		t.Error("validation failure closed the modal")
	}
	if len(fs.events) != 0 {
		t.Error("validation failure reached the store")
	}
}

func TestSubmitEditAppliesFullPatchLocally(t *testing.T) {
	fs := newFakeStore()
	id := fs.seed(domain.Event{OwnerID: "coach-1", Title: "Old", Kind: domain.KindTraining,
		Timestamp: ts(10, 9, 0), DurationHours: 1, Location: "Gym"})
	c := newTestController(fs, anchor)
	c.FetchWeek(context.Background())

	draft, err := c.OpenEdit(id)
	if err != nil {
		t.Fatalf("OpenEdit: %v", err)
	}
	draft.Title = "New"
	draft.DurationHours = 1.5
	if err := c.Submit(context.Background(), draft); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	got := c.Events()[0].Event
	if got.Title != "New" || got.DurationHours != 1.5 || got.Location != "Gym" {
		t.Errorf("local event = %+v", got)
	}
	if stored := fs.events[id]; stored.Title != "New" {
		t.Errorf("store not patched: %+v", stored)
	}
	if len(fs.updates) != 1 || fs.updates[0].Title == nil || fs.updates[0].Timestamp == nil {
		t.Error("edit did not send a full patch")
	}
}

func TestDropChangesOnlyTimestamp(t *testing.T) {
	fs := newFakeStore()
	id := fs.seed(domain.Event{OwnerID: "coach-1", Title: "Session", Kind: domain.KindCheckIn,
		Timestamp: ts(10, 9, 0), DurationHours: 1, Location: "Studio", Notes: "bring bands"})
	c := newTestController(fs, anchor)
	c.FetchWeek(context.Background())
	before := c.Events()[0].Event

	if err := c.StartDrag(id); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	if err := c.Drop(context.Background(), 3, 14.0); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if c.Mode() != ModeIdle {
		t.Fatalf("mode = %v after drop, want ModeIdle", c.Mode())
	}

	after := c.Events()[0].Event
	want := ts(12, 14, 0)
	if !after.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", after.Timestamp, want)
	}
	if after.Title != before.Title || after.Kind != before.Kind ||
		after.DurationHours != before.DurationHours ||
		after.Location != before.Location || after.Notes != before.Notes {
		t.Errorf("drop changed more than the timestamp: %+v", after)
	}
	if pos := c.Events()[0].Position; pos.DayIndex != 3 || pos.HourFraction != 14.0 {
		t.Errorf("position = %+v, want {3 14}", pos)
	}
	if len(fs.updates) != 1 {
		t.Fatalf("got %d store updates, want 1", len(fs.updates))
	}
	if p := fs.updates[0]; p.Timestamp == nil || p.Title != nil || p.Notes != nil {
		t.Errorf("drop patch is not timestamp-only: %+v", p)
	}
}

func TestDropKeepsOptimisticChangeOnStoreFailure(t *testing.T) {
	fs := newFakeStore()
	id := fs.seed(domain.Event{OwnerID: "coach-1", Title: "Session", Kind: domain.KindTraining,
		Timestamp: ts(10, 9, 0), DurationHours: 1})
	c := newTestController(fs, anchor)
	c.FetchWeek(context.Background())

	fs.failAll = true
	if err := c.StartDrag(id); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	if err := c.Drop(context.Background(), 4, 10.0); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if got := c.Events()[0].Event.Timestamp; !got.Equal(ts(13, 10, 0)) {
		t.Errorf("optimistic timestamp rolled back: %v", got)
	}
}

func TestDeleteIsOptimistic(t *testing.T) {
	fs := newFakeStore()
	id := fs.seed(domain.Event{OwnerID: "coach-1", Title: "Session", Kind: domain.KindTraining,
		Timestamp: ts(10, 9, 0), DurationHours: 1})
	c := newTestController(fs, anchor)
	c.FetchWeek(context.Background())

	fs.failAll = true
	if err := c.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(c.Events()) != 0 {
		t.Error("event still in local list after delete")
	}
	if len(fs.deletes) != 1 || fs.deletes[0] != id {
		t.Errorf("store deletes = %v", fs.deletes)
	}
}

func TestWeekNavigationAbandonsModal(t *testing.T) {
	fs := newFakeStore()
	c := newTestController(fs, anchor)
	c.FetchWeek(context.Background())

	if _, err := c.ClickCell(0, 9.0); err != nil {
		t.Fatalf("ClickCell: %v", err)
	}
	c.NextWeek(context.Background())
	if c.Mode() != ModeIdle {
		t.Errorf("mode = %v after navigation, want ModeIdle", c.Mode())
	}
	if _, open := c.Draft(); open {
		t.Error("draft survived week navigation")
	}
	if got := c.Week().Monday; !got.Equal(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Monday = %v after NextWeek, want 2025-06-16", got)
	}

	c.PrevWeek(context.Background())
	if got := c.Week().Monday; !got.Equal(time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Monday = %v after PrevWeek, want 2025-06-09", got)
	}
}

func TestWeekLabelAndDates(t *testing.T) {
	c := newTestController(newFakeStore(), anchor)
	w := c.Week()
	if w.Label != "9 – 15 Jun 2025" {
		t.Errorf("label = %q", w.Label)
	}
	want := []int{9, 10, 11, 12, 13, 14, 15}
	for i, d := range want {
		if w.Dates[i] != d {
			t.Fatalf("dates = %v, want %v", w.Dates, want)
		}
	}
}
