package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	ics "github.com/arran4/golang-ical"

	"coachdesk/internal/adapters/http/middleware"
	"coachdesk/internal/application/grid"
	agendaDomain "coachdesk/internal/domain/agenda"
)

// gridControllers holds one live weekly-grid state machine per signed-in
// coach. The controller carries the interaction state (open modal, drag in
// flight, visible week) between requests, the same way the browser grid does.
var (
	gridMu          sync.Mutex
	gridControllers = map[string]*grid.Controller{}
)

// controllerFor returns the coach's grid controller, creating and loading it
// on first use.
func controllerFor(ctx context.Context, coachID string) *grid.Controller {
	gridMu.Lock()
	ctl, ok := gridControllers[coachID]
	if !ok {
		ctl = grid.NewController(grid.Deps{
			Events: stores.AgendaStore,
			Logger: slog.Default(),
			Now:    timeNow,
		}, coachID)
		gridControllers[coachID] = ctl
		gridMu.Unlock()
		ctl.FetchWeek(ctx)
		return ctl
	}
	gridMu.Unlock()
	return ctl
}

// releaseGridController drops the grid state for the signing-out coach.
func releaseGridController(ctx context.Context) {
	sess, ok := middleware.GetSessionFromContext(ctx)
	if !ok {
		return
	}
	gridMu.Lock()
	delete(gridControllers, sess.AccountID)
	gridMu.Unlock()
}

// weekPayload is the JSON shape of the visible week.
type weekPayload struct {
	Label      string           `json:"Label"`
	Monday     string           `json:"Monday"`
	Dates      []int            `json:"Dates"`
	FirstHour  int              `json:"FirstHour"`
	LastHour   int              `json:"LastHour"`
	Mode       int              `json:"Mode"`
	LoadFailed bool             `json:"LoadFailed"`
	Events     []grid.EventView `json:"Events"`
}

func writeWeek(w http.ResponseWriter, ctl *grid.Controller) {
	wk := ctl.Week()
	events := ctl.Events()
	if events == nil {
		events = []grid.EventView{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(weekPayload{
		Label:      wk.Label,
		Monday:     wk.Monday.Format("2006-01-02"),
		Dates:      wk.Dates,
		FirstHour:  agendaDomain.GridFirstHour,
		LastHour:   agendaDomain.GridLastHour,
		Mode:       int(ctl.Mode()),
		LoadFailed: ctl.LoadFailed(),
		Events:     events,
	})
}

// handleAgendaWeek handles GET /api/agenda/week?anchor=YYYY-MM-DD
// Without an anchor it returns the currently displayed week; with one it jumps
// to the week containing the anchor date first.
func handleAgendaWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireCoach(w, r)
	if !ok {
		return
	}
	ctl := controllerFor(r.Context(), sess.AccountID)

	if anchor := r.URL.Query().Get("anchor"); anchor != "" {
		t, err := time.Parse("2006-01-02", anchor)
		if err != nil {
			http.Error(w, "anchor must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		ctl.GoToWeek(r.Context(), t)
	} else {
		ctl.FetchWeek(r.Context())
	}
	writeWeek(w, ctl)
}

// handleAgendaWeekNext handles POST /api/agenda/week/next
func handleAgendaWeekNext(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireCoach(w, r)
	if !ok {
		return
	}
	ctl := controllerFor(r.Context(), sess.AccountID)
	ctl.NextWeek(r.Context())
	writeWeek(w, ctl)
}

// handleAgendaWeekPrev handles POST /api/agenda/week/prev
func handleAgendaWeekPrev(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireCoach(w, r)
	if !ok {
		return
	}
	ctl := controllerFor(r.Context(), sess.AccountID)
	ctl.PrevWeek(r.Context())
	writeWeek(w, ctl)
}

// gridStatus maps a controller transition error to an HTTP status.
// Wrong-state errors are conflicts, not client mistakes.
func gridStatus(err error) int {
	switch {
	case errors.Is(err, grid.ErrNotIdle),
		errors.Is(err, grid.ErrNoModalOpen),
		errors.Is(err, grid.ErrNotDragging):
		return http.StatusConflict
	case errors.Is(err, grid.ErrEventNotInWeek):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// handleAgendaClickCell handles POST /api/agenda/click
// Opens the create modal seeded from the clicked cell and returns the draft.
func handleAgendaClickCell(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireCoach(w, r)
	if !ok {
		return
	}
	var input struct {
		DayIndex     int     `json:"DayIndex"`
		HourFraction float64 `json:"HourFraction"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.DayIndex < 0 || input.DayIndex > 6 {
		http.Error(w, "DayIndex must be 0..6", http.StatusBadRequest)
		return
	}

	ctl := controllerFor(r.Context(), sess.AccountID)
	draft, err := ctl.ClickCell(input.DayIndex, input.HourFraction)
	if err != nil {
		http.Error(w, err.Error(), gridStatus(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(draft)
}

// handleAgendaOpenEdit handles POST /api/agenda/edit
// Opens the edit modal for an event in the displayed week.
func handleAgendaOpenEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireCoach(w, r)
	if !ok {
		return
	}
	var input struct {
		ID string `json:"ID"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	ctl := controllerFor(r.Context(), sess.AccountID)
	draft, err := ctl.OpenEdit(input.ID)
	if err != nil {
		http.Error(w, err.Error(), gridStatus(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(draft)
}

// handleAgendaSubmit handles POST /api/agenda/submit
// Commits the open modal. Validation failures come back 400 and leave the
// modal open; store write failures do not surface here.
func handleAgendaSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireCoach(w, r)
	if !ok {
		return
	}
	var input struct {
		Title         string  `json:"Title"`
		Kind          string  `json:"Kind"`
		Timestamp     string  `json:"Timestamp"`
		DurationHours float64 `json:"DurationHours"`
		Location      string  `json:"Location"`
		Notes         string  `json:"Notes"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	ts, err := time.Parse(time.RFC3339, input.Timestamp)
	if err != nil {
		http.Error(w, "Timestamp must be RFC3339", http.StatusBadRequest)
		return
	}

	ctl := controllerFor(r.Context(), sess.AccountID)
	err = ctl.Submit(r.Context(), agendaDomain.Event{
		Title:         input.Title,
		Kind:          input.Kind,
		Timestamp:     ts,
		DurationHours: input.DurationHours,
		Location:      input.Location,
		Notes:         input.Notes,
	})
	if err != nil {
		http.Error(w, err.Error(), gridStatus(err))
		return
	}
	writeWeek(w, ctl)
}

// handleAgendaCancel handles POST /api/agenda/cancel
// Closes an open modal or abandons a drag.
func handleAgendaCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireCoach(w, r)
	if !ok {
		return
	}
	ctl := controllerFor(r.Context(), sess.AccountID)
	ctl.Cancel()
	ctl.CancelDrag()
	w.WriteHeader(http.StatusNoContent)
}

// handleAgendaStartDrag handles POST /api/agenda/drag
func handleAgendaStartDrag(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireCoach(w, r)
	if !ok {
		return
	}
	var input struct {
		ID string `json:"ID"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	ctl := controllerFor(r.Context(), sess.AccountID)
	if err := ctl.StartDrag(input.ID); err != nil {
		http.Error(w, err.Error(), gridStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAgendaDrop handles POST /api/agenda/drop
// Reschedules the dragged event onto the target cell.
func handleAgendaDrop(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireCoach(w, r)
	if !ok {
		return
	}
	var input struct {
		DayIndex     int     `json:"DayIndex"`
		HourFraction float64 `json:"HourFraction"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.DayIndex < 0 || input.DayIndex > 6 {
		http.Error(w, "DayIndex must be 0..6", http.StatusBadRequest)
		return
	}

	ctl := controllerFor(r.Context(), sess.AccountID)
	if err := ctl.Drop(r.Context(), input.DayIndex, input.HourFraction); err != nil {
		http.Error(w, err.Error(), gridStatus(err))
		return
	}
	writeWeek(w, ctl)
}

// handleAgendaDeleteEvent handles DELETE /api/agenda/events?id=<id>
func handleAgendaDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != "DELETE" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireCoach(w, r)
	if !ok {
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	ctl := controllerFor(r.Context(), sess.AccountID)
	if err := ctl.Delete(r.Context(), id); err != nil {
		http.Error(w, err.Error(), gridStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// icsExportWeeks is the export window: 4 weeks back, 12 weeks forward.
const (
	icsWeeksBack    = 4
	icsWeeksForward = 12
)

// handleAgendaExportICS handles GET /api/agenda/export.ics
// Serves the coach's agenda as an iCalendar feed for external calendar apps.
func handleAgendaExportICS(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireCoach(w, r)
	if !ok {
		return
	}

	now := timeNow()
	monday := agendaDomain.MondayOf(now)
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())
	from := monday.AddDate(0, 0, -7*icsWeeksBack)
	to := monday.AddDate(0, 0, 7*icsWeeksForward)

	events, err := stores.AgendaStore.ListByOwnerAndRange(r.Context(), sess.AccountID, from, to)
	if err != nil {
		internalError(w, err)
		return
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//coachdesk//agenda//EN")
	for _, e := range events {
		ve := cal.AddEvent(fmt.Sprintf("%s@coachdesk", e.ID))
		ve.SetCreatedTime(e.CreatedAt)
		ve.SetDtStampTime(e.CreatedAt)
		ve.SetStartAt(e.Timestamp)
		ve.SetEndAt(e.Timestamp.Add(time.Duration(e.DurationHours * float64(time.Hour))))
		ve.SetSummary(e.Title)
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if e.Notes != "" {
			ve.SetDescription(e.Notes)
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="agenda.ics"`)
	if _, err := w.Write([]byte(cal.Serialize())); err != nil {
		slog.Error("agenda_event", "event", "ics_write_failed", "error", err)
	}
}
