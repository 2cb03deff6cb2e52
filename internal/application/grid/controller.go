// Package grid holds the weekly agenda view state machine. A Controller owns
// the in-memory event list for one visible week and is the only writer to it:
// every user gesture (cell click, drag, drop, edit, delete, week navigation)
// goes through a transition method here, so the flow can be driven and tested
// without a rendered page.
package grid

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	store "coachdesk/internal/adapters/storage/agenda"
	domain "coachdesk/internal/domain/agenda"
)

// Mode is the controller's interaction state. Only one modal can be open at a
// time and a drag excludes a modal, so the four modes are mutually exclusive.
type Mode int

const (
	ModeIdle     Mode = iota // no modal, no drag
	ModeCreating             // blank draft open in the event modal
	ModeEditing              // existing event open in the event modal
	ModeDragging             // pointer down on an event card
)

// Default values seeded into a draft on cell click.
const (
	DefaultDurationHours = 1.0
	DefaultKind          = domain.KindTraining
)

var (
	ErrNotIdle        = errors.New("another interaction is already in progress")
	ErrNoModalOpen    = errors.New("no create or edit modal is open")
	ErrNotDragging    = errors.New("no drag is in progress")
	ErrEventNotInWeek = errors.New("event is not in the displayed week")
)

// Week describes the visible week window.
type Week struct {
	Monday time.Time // midnight at the start of the window
	Sunday time.Time // last day of the window (date component)
	Dates  []int     // day-of-month numbers for Monday..Sunday
	Label  string    // header label, e.g. "9 – 15 Jun 2025"
}

// EventView pairs a persisted event with its grid coordinate for the
// displayed week. Position is always recomputed from Event.Timestamp.
type EventView struct {
	Event    domain.Event
	Position domain.GridPosition
}

// Deps carries the controller's collaborators.
type Deps struct {
	Events store.Store
	Logger *slog.Logger
	Now    func() time.Time
}

// Controller is the render state machine for one coach's weekly agenda.
// The event list is the only shared mutable state; it is mutated exclusively
// through the transition methods below. Interleaved refetches are
// last-write-wins: whichever response is applied later replaces the list.
type Controller struct {
	deps    Deps
	ownerID string

	mu         sync.Mutex
	mode       Mode
	week       Week
	events     []EventView
	loadFailed bool
	draft      domain.Event // modal contents while Creating or Editing
	draggingID string
}

// NewController creates a controller for ownerID anchored at the week
// containing deps.Now(). Call FetchWeek (or a navigation method) to load it.
func NewController(deps Deps, ownerID string) *Controller {
	c := &Controller{deps: deps, ownerID: ownerID}
	c.setWeek(deps.Now())
	return c
}

// Week returns the visible week window.
func (c *Controller) Week() Week {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.week
}

// Mode returns the current interaction mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Events returns the displayed events in timestamp order.
func (c *Controller) Events() []EventView {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]EventView, len(c.events))
	copy(out, c.events)
	return out
}

// LoadFailed reports whether the last fetch degraded to an empty list.
func (c *Controller) LoadFailed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadFailed
}

// Draft returns the event currently open in the modal.
func (c *Controller) Draft() (domain.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeCreating && c.mode != ModeEditing {
		return domain.Event{}, false
	}
	return c.draft, true
}

// setWeek recomputes the window from an anchor date. Caller holds no lock or
// the lock, both are fine: the method touches only c.week.
func (c *Controller) setWeek(anchor time.Time) {
	monday := domain.MondayOf(anchor)
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())
	sunday := domain.SundayOf(monday)
	c.week = Week{
		Monday: monday,
		Sunday: sunday,
		Dates:  domain.WeekDates(monday),
		Label:  domain.DisplayLabel(monday, sunday),
	}
}

// FetchWeek loads the visible week's events from the store and maps them to
// grid coordinates. The window is half-open: [Monday 00:00, next Monday 00:00).
// On a store error the grid degrades to an empty list with LoadFailed set
// rather than failing the whole view. Rows whose coordinate falls outside the
// visible hour range are clamped and logged as data errors.
// PRE: none
// POST: Events() reflects the store's rows for the window, or is empty with
// LoadFailed() true after a store error
func (c *Controller) FetchWeek(ctx context.Context) {
	c.mu.Lock()
	from := c.week.Monday
	monday := c.week.Monday
	c.mu.Unlock()
	to := from.AddDate(0, 0, 7)

	rows, err := c.deps.Events.ListByOwnerAndRange(ctx, c.ownerID, from, to)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.deps.Logger.Error("agenda_event", "event", "week_fetch_failed",
			"owner_id", c.ownerID, "week_start", from.Format("2006-01-02"), "error", err)
		c.events = nil
		c.loadFailed = true
		return
	}
	views := make([]EventView, 0, len(rows))
	for _, e := range rows {
		// The store hands back UTC timestamps; map them in the displayed
		// week's zone so the wall-clock fields line up with Monday's.
		pos := domain.ToGridPosition(e.Timestamp.In(monday.Location()), monday)
		clamped, changed := pos.ClampToVisible()
		if changed {
			c.deps.Logger.Warn("agenda_event", "event", "event_outside_visible_hours",
				"event_id", e.ID, "hour_fraction", pos.HourFraction)
		}
		views = append(views, EventView{Event: e, Position: clamped})
	}
	c.events = views
	c.loadFailed = false
}

// ClickCell opens the create modal seeded from the clicked cell.
// Transition: Idle -> Creating.
// PRE: dayIndex in 0..6
// POST: Draft() returns an unsaved event at the cell's timestamp with the
// default duration and kind
func (c *Controller) ClickCell(dayIndex int, hourFraction float64) (domain.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeIdle {
		return domain.Event{}, ErrNotIdle
	}
	pos := domain.GridPosition{DayIndex: dayIndex, HourFraction: hourFraction}
	c.draft = domain.Event{
		ID:            domain.DraftID,
		OwnerID:       c.ownerID,
		Kind:          DefaultKind,
		Timestamp:     domain.FromGridPosition(pos, c.week.Monday),
		DurationHours: DefaultDurationHours,
	}
	c.mode = ModeCreating
	return c.draft, nil
}

// OpenEdit opens the edit modal seeded with an existing event's full field
// set. Transition: Idle -> Editing.
func (c *Controller) OpenEdit(id string) (domain.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeIdle {
		return domain.Event{}, ErrNotIdle
	}
	for _, v := range c.events {
		if v.Event.ID == id {
			c.draft = v.Event
			c.mode = ModeEditing
			return c.draft, nil
		}
	}
	return domain.Event{}, ErrEventNotInWeek
}

// Cancel closes an open modal and discards the draft.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeCreating || c.mode == ModeEditing {
		c.mode = ModeIdle
		c.draft = domain.Event{}
	}
}

// Submit commits the modal. Transition: Creating|Editing -> Idle.
// Validation failures are returned before any store call and keep the modal
// open. On create the store assigns the ID and the week is refetched so the
// list carries server truth instead of the optimistic draft; on edit the full
// field set is written as one patch and applied locally.
// Write failures after validation are logged, not surfaced, and do not roll
// back local state.
// PRE: a modal is open; e carries the user's edited fields
// POST: mode is Idle on success; the event list reflects the submission
func (c *Controller) Submit(ctx context.Context, e domain.Event) error {
	c.mu.Lock()
	mode := c.mode
	base := c.draft
	c.mu.Unlock()
	if mode != ModeCreating && mode != ModeEditing {
		return ErrNoModalOpen
	}

	e.ID = base.ID
	e.OwnerID = c.ownerID
	if err := e.Validate(); err != nil {
		return err
	}

	switch mode {
	case ModeCreating:
		e.CreatedAt = c.deps.Now()
		id, err := c.deps.Events.Insert(ctx, e)
		if err != nil {
			c.deps.Logger.Error("agenda_event", "event", "event_create_failed",
				"owner_id", c.ownerID, "error", err)
		} else {
			c.deps.Logger.Info("agenda_event", "event", "event_created",
				"event_id", id, "owner_id", c.ownerID, "kind", e.Kind)
		}
		c.mu.Lock()
		c.mode = ModeIdle
		c.draft = domain.Event{}
		c.mu.Unlock()
		c.FetchWeek(ctx)

	case ModeEditing:
		patch := store.Patch{
			Title:         &e.Title,
			Kind:          &e.Kind,
			Timestamp:     &e.Timestamp,
			DurationHours: &e.DurationHours,
			Location:      &e.Location,
			Notes:         &e.Notes,
		}
		if err := c.deps.Events.Update(ctx, e.ID, patch); err != nil {
			c.deps.Logger.Error("agenda_event", "event", "event_update_failed",
				"event_id", e.ID, "error", err)
		}
		c.mu.Lock()
		c.applyLocal(e.ID, func(ev *domain.Event) {
			ev.Title = e.Title
			ev.Kind = e.Kind
			ev.Timestamp = e.Timestamp
			ev.DurationHours = e.DurationHours
			ev.Location = e.Location
			ev.Notes = e.Notes
		})
		c.mode = ModeIdle
		c.draft = domain.Event{}
		c.mu.Unlock()
	}
	return nil
}

// StartDrag records the dragged event. Transition: Idle -> Dragging.
// No state is committed until Drop.
func (c *Controller) StartDrag(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeIdle {
		return ErrNotIdle
	}
	for _, v := range c.events {
		if v.Event.ID == id {
			c.draggingID = id
			c.mode = ModeDragging
			return nil
		}
	}
	return ErrEventNotInWeek
}

// CancelDrag abandons an in-flight drag without moving anything.
func (c *Controller) CancelDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeDragging {
		c.mode = ModeIdle
		c.draggingID = ""
	}
}

// Drop reschedules the dragged event onto a cell. Transition: Dragging -> Idle.
// The new timestamp is resolved via FromGridPosition against the displayed
// week's Monday; only the timestamp changes, every other field is untouched.
// The local list is updated first (optimistic) and the store write is
// timestamp-only; a write failure is logged and the optimistic change stays.
// PRE: a drag is in progress; dayIndex in 0..6
// POST: the event's timestamp and grid position reflect the drop cell
func (c *Controller) Drop(ctx context.Context, dayIndex int, hourFraction float64) error {
	c.mu.Lock()
	if c.mode != ModeDragging {
		c.mu.Unlock()
		return ErrNotDragging
	}
	id := c.draggingID
	pos := domain.GridPosition{DayIndex: dayIndex, HourFraction: hourFraction}
	ts := domain.FromGridPosition(pos, c.week.Monday)
	c.applyLocal(id, func(ev *domain.Event) { ev.Timestamp = ts })
	c.mode = ModeIdle
	c.draggingID = ""
	c.mu.Unlock()

	if err := c.deps.Events.Update(ctx, id, store.TimestampOnly(ts)); err != nil {
		c.deps.Logger.Error("agenda_event", "event", "event_reschedule_failed",
			"event_id", id, "error", err)
	} else {
		c.deps.Logger.Info("agenda_event", "event", "event_rescheduled",
			"event_id", id, "timestamp", ts.Format(time.RFC3339))
	}
	return nil
}

// Delete removes an event from the local list immediately and issues the
// store delete. A store failure is logged and the local removal stays.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.mode != ModeIdle {
		c.mu.Unlock()
		return ErrNotIdle
	}
	kept := c.events[:0]
	for _, v := range c.events {
		if v.Event.ID != id {
			kept = append(kept, v)
		}
	}
	c.events = kept
	c.mu.Unlock()

	if err := c.deps.Events.Delete(ctx, id); err != nil {
		c.deps.Logger.Error("agenda_event", "event", "event_delete_failed",
			"event_id", id, "error", err)
	}
	return nil
}

// NextWeek shifts the window forward by 7 days and refetches. Any open modal
// or drag is abandoned.
func (c *Controller) NextWeek(ctx context.Context) {
	c.shiftWeek(ctx, 7)
}

// PrevWeek shifts the window back by 7 days and refetches. Any open modal or
// drag is abandoned.
func (c *Controller) PrevWeek(ctx context.Context) {
	c.shiftWeek(ctx, -7)
}

// GoToWeek jumps to the week containing anchor and refetches.
func (c *Controller) GoToWeek(ctx context.Context, anchor time.Time) {
	c.mu.Lock()
	c.abandonInteraction()
	c.setWeek(anchor)
	c.mu.Unlock()
	c.FetchWeek(ctx)
}

func (c *Controller) shiftWeek(ctx context.Context, days int) {
	c.mu.Lock()
	c.abandonInteraction()
	c.setWeek(c.week.Monday.AddDate(0, 0, days))
	c.mu.Unlock()
	c.FetchWeek(ctx)
}

// abandonInteraction discards any open modal or drag. Navigating away from an
// open create/edit form silently drops the draft. Caller holds the lock.
func (c *Controller) abandonInteraction() {
	if c.mode != ModeIdle {
		c.deps.Logger.Info("agenda_event", "event", "interaction_abandoned", "mode", int(c.mode))
	}
	c.mode = ModeIdle
	c.draft = domain.Event{}
	c.draggingID = ""
}

// applyLocal mutates one event in the local list and recomputes its grid
// position from the (possibly changed) timestamp. Caller holds the lock.
func (c *Controller) applyLocal(id string, mutate func(*domain.Event)) {
	for i := range c.events {
		if c.events[i].Event.ID == id {
			mutate(&c.events[i].Event)
			pos := domain.ToGridPosition(c.events[i].Event.Timestamp.In(c.week.Monday.Location()), c.week.Monday)
			c.events[i].Position, _ = pos.ClampToVisible()
			return
		}
	}
}
