package web

import (
	"bytes"
	"encoding/json"
	"net/http"

	"coachdesk/internal/domain/routine"
)

// renderMarkdown converts markdown notes to sanitized HTML for the client
// view. On a render failure the raw text is returned escaped.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return ""
	}
	return buf.String()
}

// handleRoutines handles GET/POST/DELETE for /api/routines
func handleRoutines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		sess, ok := requireCoach(w, r)
		if !ok {
			return
		}
		var routines []routine.Routine
		var err error
		if clientID := r.URL.Query().Get("client_id"); clientID != "" {
			routines, err = stores.RoutineStore.ListByClientID(ctx, clientID)
		} else {
			routines, err = stores.RoutineStore.ListByCoachID(ctx, sess.AccountID)
		}
		if err != nil {
			internalError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if routines == nil {
			w.Write([]byte("[]"))
			return
		}
		json.NewEncoder(w).Encode(routines)
		return
	}

	if r.Method == "POST" {
		sess, ok := requireCoach(w, r)
		if !ok {
			return
		}
		var input struct {
			ClientID string `json:"ClientID"`
			Name     string `json:"Name"`
			Notes    string `json:"Notes"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		rt := routine.Routine{
			ID:        generateID(),
			CoachID:   sess.AccountID,
			ClientID:  input.ClientID,
			Name:      input.Name,
			Notes:     input.Notes,
			CreatedAt: timeNow(),
			UpdatedAt: timeNow(),
		}
		if err := rt.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.RoutineStore.Save(ctx, rt); err != nil {
			internalError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(rt)
		return
	}

	if r.Method == "DELETE" {
		sess, ok := requireCoach(w, r)
		if !ok {
			return
		}
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		rt, err := stores.RoutineStore.GetByID(ctx, id)
		if err != nil {
			http.Error(w, "routine not found", http.StatusNotFound)
			return
		}
		if rt.CoachID != sess.AccountID {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if err := stores.RoutineStore.Delete(ctx, id); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleRoutineItems handles GET/POST/DELETE for /api/routines/items
func handleRoutineItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		if _, ok := requireCoach(w, r); !ok {
			return
		}
		routineID := r.URL.Query().Get("routine_id")
		if routineID == "" {
			http.Error(w, "routine_id is required", http.StatusBadRequest)
			return
		}
		rt, err := stores.RoutineStore.GetByID(ctx, routineID)
		if err != nil {
			http.Error(w, "routine not found", http.StatusNotFound)
			return
		}
		items, err := stores.RoutineStore.ListItems(ctx, routineID)
		if err != nil {
			internalError(w, err)
			return
		}
		if items == nil {
			items = []routine.Item{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"Routine":       rt,
			"RenderedNotes": renderMarkdown(rt.Notes),
			"Items":         items,
		})
		return
	}

	if r.Method == "POST" {
		if _, ok := requireCoach(w, r); !ok {
			return
		}
		var input struct {
			RoutineID   string `json:"RoutineID"`
			DayIndex    int    `json:"DayIndex"`
			Position    int    `json:"Position"`
			Exercise    string `json:"Exercise"`
			Sets        int    `json:"Sets"`
			Reps        string `json:"Reps"`
			RestSeconds int    `json:"RestSeconds"`
			Notes       string `json:"Notes"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		item := routine.Item{
			ID:          generateID(),
			RoutineID:   input.RoutineID,
			DayIndex:    input.DayIndex,
			Position:    input.Position,
			Exercise:    input.Exercise,
			Sets:        input.Sets,
			Reps:        input.Reps,
			RestSeconds: input.RestSeconds,
			Notes:       input.Notes,
		}
		if err := item.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.RoutineStore.SaveItem(ctx, item); err != nil {
			internalError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(item)
		return
	}

	if r.Method == "DELETE" {
		if _, ok := requireCoach(w, r); !ok {
			return
		}
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		if err := stores.RoutineStore.DeleteItem(ctx, id); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleMoveRoutineItem handles POST /api/routines/items/move
// Drag-reorder of one exercise slot: positions are renumbered densely and the
// whole ordering is rewritten in one transaction.
func handleMoveRoutineItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireCoach(w, r)
	if !ok {
		return
	}
	var input struct {
		RoutineID string `json:"RoutineID"`
		ItemID    string `json:"ItemID"`
		ToDay     int    `json:"ToDay"`
		ToPos     int    `json:"ToPos"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	rt, err := stores.RoutineStore.GetByID(ctx, input.RoutineID)
	if err != nil {
		http.Error(w, "routine not found", http.StatusNotFound)
		return
	}
	if rt.CoachID != sess.AccountID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	items, err := stores.RoutineStore.ListItems(ctx, input.RoutineID)
	if err != nil {
		internalError(w, err)
		return
	}
	moved, err := routine.MoveItem(items, input.ItemID, input.ToDay, input.ToPos)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.RoutineStore.ReplaceItems(ctx, input.RoutineID, moved); err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(moved)
}
