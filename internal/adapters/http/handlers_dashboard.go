package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"coachdesk/internal/application/projections"
)

// handleDashboard handles GET /api/dashboard
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireCoach(w, r)
	if !ok {
		return
	}

	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{
		CoachID: sess.AccountID,
		Now:     timeNow(),
	}, projections.GetDashboardDeps{
		AgendaStore:  stores.AgendaStore,
		ClientStore:  stores.ClientStore,
		CheckInStore: stores.CheckInStore,
		FinanceDeps:  projections.GetFinanceSummaryDeps{FinanceStore: stores.FinanceStore},
	})
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handlePerfSnapshot handles GET /api/perf?hours=<n>&top=<n>
// Admin-only timing snapshot backing the ops page.
func handlePerfSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	if perfCollector == nil {
		http.Error(w, "perf collection disabled", http.StatusNotFound)
		return
	}

	hours := 1
	if h := r.URL.Query().Get("hours"); h != "" {
		if n, err := strconv.Atoi(h); err == nil && n > 0 && n <= 168 {
			hours = n
		}
	}
	topN := 10
	if t := r.URL.Query().Get("top"); t != "" {
		if n, err := strconv.Atoi(t); err == nil && n > 0 && n <= 50 {
			topN = n
		}
	}

	snap := perfCollector.Snapshot(timeNow().Add(-time.Duration(hours)*time.Hour), topN)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}
