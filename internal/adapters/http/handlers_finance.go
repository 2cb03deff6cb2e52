package web

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"coachdesk/internal/application/projections"
	"coachdesk/internal/domain/finance"
)

// handleFinance handles POST (record) and DELETE for /api/finance
func handleFinance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "POST" {
		sess, ok := requireCoach(w, r)
		if !ok {
			return
		}
		var input struct {
			ClientID    string `json:"ClientID"`
			Kind        string `json:"Kind"`
			AmountCents int    `json:"AmountCents"`
			Description string `json:"Description"`
			Date        string `json:"Date"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		date, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			http.Error(w, "Date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		txn := finance.Transaction{
			ID:          generateID(),
			CoachID:     sess.AccountID,
			ClientID:    input.ClientID,
			Kind:        input.Kind,
			AmountCents: input.AmountCents,
			Description: input.Description,
			Date:        date,
			CreatedAt:   timeNow(),
		}
		if err := txn.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.FinanceStore.Save(ctx, txn); err != nil {
			internalError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(txn)
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
		if err := stores.FinanceStore.Delete(ctx, id); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleFinanceSummary handles GET /api/finance/summary?months=<n>
func handleFinanceSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireCoach(w, r)
	if !ok {
		return
	}

	months := 0
	if m := r.URL.Query().Get("months"); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n > 0 && n <= 36 {
			months = n
		}
	}

	result, err := projections.QueryGetFinanceSummary(r.Context(), projections.GetFinanceSummaryQuery{
		CoachID: sess.AccountID,
		Months:  months,
		Now:     timeNow(),
	}, projections.GetFinanceSummaryDeps{
		FinanceStore: stores.FinanceStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleFinanceExportCSV handles GET /api/finance/export.csv?from=&to=
// Exports the raw transaction ledger for the date range [from, to).
func handleFinanceExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireCoach(w, r)
	if !ok {
		return
	}

	now := timeNow()
	from := now.AddDate(-1, 0, 0).Format("2006-01-02")
	to := now.AddDate(0, 0, 1).Format("2006-01-02")
	if f := r.URL.Query().Get("from"); f != "" {
		if _, err := time.Parse("2006-01-02", f); err != nil {
			http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		from = f
	}
	if t := r.URL.Query().Get("to"); t != "" {
		if _, err := time.Parse("2006-01-02", t); err != nil {
			http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		to = t
	}

	txns, err := stores.FinanceStore.ListByCoachIDAndDateRange(r.Context(), sess.AccountID, from, to)
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"Date", "Kind", "Amount", "Description", "ClientID"})
	for _, t := range txns {
		cw.Write([]string{
			t.Date.Format("2006-01-02"),
			t.Kind,
			fmt.Sprintf("%.2f", float64(t.AmountCents)/100),
			t.Description,
			t.ClientID,
		})
	}
	cw.Flush()
}
