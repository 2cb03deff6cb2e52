package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"coachdesk/internal/application/orchestrators"
	"coachdesk/internal/domain/checkin"
)

// handleCheckIns handles GET (history) and POST (record) for /api/checkins
func handleCheckIns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		if _, ok := requireCoach(w, r); !ok {
			return
		}
		clientID := r.URL.Query().Get("client_id")
		if clientID == "" {
			http.Error(w, "client_id is required", http.StatusBadRequest)
			return
		}
		limit := 20
		if l := r.URL.Query().Get("limit"); l != "" {
			if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
				limit = n
			}
		}
		checkins, err := stores.CheckInStore.ListByClientID(ctx, clientID, limit)
		if err != nil {
			internalError(w, err)
			return
		}
		if checkins == nil {
			checkins = []checkin.CheckIn{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(checkins)
		return
	}

	if r.Method == "POST" {
		// The athlete app posts check-ins with the athlete's own session.
		var input struct {
			ClientID string  `json:"ClientID"`
			Date     string  `json:"Date"`
			WeightKg float64 `json:"WeightKg"`
			Mood     string  `json:"Mood"`
			Notes    string  `json:"Notes"`
			PhotoURL string  `json:"PhotoURL"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		date := timeNow()
		if input.Date != "" {
			d, err := time.Parse("2006-01-02", input.Date)
			if err != nil {
				http.Error(w, "Date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = d
		}

		deps := orchestrators.RecordCheckInDeps{
			CheckInStore: stores.CheckInStore,
			ClientStore:  stores.ClientStore,
			Now:          timeNow,
		}
		id, err := orchestrators.ExecuteRecordCheckIn(ctx, orchestrators.RecordCheckInInput{
			ClientID: input.ClientID,
			Date:     date,
			WeightKg: input.WeightKg,
			Mood:     input.Mood,
			Notes:    input.Notes,
			PhotoURL: input.PhotoURL,
		}, deps)
		if err != nil {
			if errors.Is(err, orchestrators.ErrClientNotActive) {
				http.Error(w, err.Error(), http.StatusForbidden)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"ID": id})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}
