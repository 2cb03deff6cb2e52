package web

import (
	"encoding/json"
	"net/http"
	"strings"

	clientStore "coachdesk/internal/adapters/storage/client"
	"coachdesk/internal/application/listutil"
	"coachdesk/internal/application/orchestrators"
)

// handleClients handles GET (roster list) and POST (register) for /api/clients
func handleClients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		sess, ok := requireCoach(w, r)
		if !ok {
			return
		}
		lp := listutil.Parse(r.URL.Query(), []string{"name", "email", "created_at"})

		filter := clientStore.ListFilter{
			CoachID: sess.AccountID,
			Status:  lp.Status,
			Search:  lp.Search,
		}
		total, err := stores.ClientStore.Count(ctx, filter)
		if err != nil {
			internalError(w, err)
			return
		}
		pageInfo := listutil.NewPageInfo(lp.Page, lp.PerPage, total)
		filter.Limit = pageInfo.PerPage
		filter.Offset = pageInfo.Offset()

		clients, err := stores.ClientStore.List(ctx, filter)
		if err != nil {
			internalError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"Clients":  clients,
			"PageInfo": pageInfo,
		})
		return
	}

	if r.Method == "POST" {
		sess, ok := requireCoach(w, r)
		if !ok {
			return
		}
		input := orchestrators.RegisterClientInput{}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input.Name = r.FormValue("Name")
			input.Email = r.FormValue("Email")
			input.Phone = r.FormValue("Phone")
			input.Goal = r.FormValue("Goal")
		} else {
			if err := strictDecode(r, &input); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
		}
		input.CoachID = sess.AccountID

		deps := orchestrators.RegisterClientDeps{
			ClientStore: stores.ClientStore,
			Email:       emailSender,
			Now:         timeNow,
		}
		id, err := orchestrators.ExecuteRegisterClient(ctx, input, deps)
		if err != nil {
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

// handleClientProfile handles GET /api/clients/profile?id=<id>
// Returns the client record with recent check-ins and assigned routines.
func handleClientProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
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

	cl, err := stores.ClientStore.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "client not found", http.StatusNotFound)
		return
	}
	if cl.CoachID != sess.AccountID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	// Secondary sections degrade to empty rather than failing the profile.
	checkins, err := stores.CheckInStore.ListByClientID(r.Context(), id, 10)
	if err != nil {
		checkins = nil
	}
	routines, err := stores.RoutineStore.ListByClientID(r.Context(), id)
	if err != nil {
		routines = nil
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"Client":   cl,
		"CheckIns": checkins,
		"Routines": routines,
	})
}

// handleArchiveClient handles POST /api/clients/archive
func handleArchiveClient(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireCoach(w, r)
	if !ok {
		return
	}

	var input struct {
		ClientID string `json:"ClientID"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		r.ParseForm()
		input.ClientID = r.FormValue("ClientID")
	} else {
		strictDecode(r, &input)
	}

	cl, err := stores.ClientStore.GetByID(r.Context(), input.ClientID)
	if err != nil {
		http.Error(w, "client not found", http.StatusNotFound)
		return
	}
	if cl.CoachID != sess.AccountID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if err := cl.Archive(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.ClientStore.Save(r.Context(), cl); err != nil {
		internalError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleRestoreClient handles POST /api/clients/restore
func handleRestoreClient(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireCoach(w, r)
	if !ok {
		return
	}

	var input struct {
		ClientID string `json:"ClientID"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		r.ParseForm()
		input.ClientID = r.FormValue("ClientID")
	} else {
		strictDecode(r, &input)
	}

	cl, err := stores.ClientStore.GetByID(r.Context(), input.ClientID)
	if err != nil {
		http.Error(w, "client not found", http.StatusNotFound)
		return
	}
	if cl.CoachID != sess.AccountID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if err := cl.Restore(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.ClientStore.Save(r.Context(), cl); err != nil {
		internalError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
