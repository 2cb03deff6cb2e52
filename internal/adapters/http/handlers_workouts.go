package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"coachdesk/internal/application/orchestrators"
	"coachdesk/internal/application/projections"
)

// handleWorkouts handles POST /api/workouts (log one performed set)
func handleWorkouts(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		ClientID      string  `json:"ClientID"`
		RoutineItemID string  `json:"RoutineItemID"`
		Exercise      string  `json:"Exercise"`
		Reps          int     `json:"Reps"`
		WeightKg      float64 `json:"WeightKg"`
		Date          string  `json:"Date"`
		Notes         string  `json:"Notes"`
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

	deps := orchestrators.LogWorkoutSetDeps{
		WorkoutStore: stores.WorkoutStore,
		ClientStore:  stores.ClientStore,
		Now:          timeNow,
	}
	id, err := orchestrators.ExecuteLogWorkoutSet(r.Context(), orchestrators.LogWorkoutSetInput{
		ClientID:      input.ClientID,
		RoutineItemID: input.RoutineItemID,
		Exercise:      input.Exercise,
		Reps:          input.Reps,
		WeightKg:      input.WeightKg,
		Date:          date,
		Notes:         input.Notes,
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
}

// handleTrainingVolume handles GET /api/workouts/volume?client_id=&range=&compare=
func handleTrainingVolume(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireCoach(w, r); !ok {
		return
	}

	q := projections.GetTrainingVolumeQuery{
		ClientID: r.URL.Query().Get("client_id"),
		Range:    r.URL.Query().Get("range"),
		Compare:  r.URL.Query().Get("compare") == "true",
		Now:      timeNow(),
	}
	if q.Range == "" {
		q.Range = "month"
	}

	result, err := projections.QueryGetTrainingVolume(r.Context(), q, projections.GetTrainingVolumeDeps{
		WorkoutStore: stores.WorkoutStore,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
