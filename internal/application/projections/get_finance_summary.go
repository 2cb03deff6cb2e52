package projections

import (
	"context"
	"fmt"
	"time"

	"coachdesk/internal/domain/finance"
)

// FinanceStoreForSummary defines the store interface needed by the finance summary.
type FinanceStoreForSummary interface {
	ListByCoachIDAndDateRange(ctx context.Context, coachID, from, to string) ([]finance.Transaction, error)
}

// GetFinanceSummaryQuery carries input for the finance summary projection.
type GetFinanceSummaryQuery struct {
	CoachID string
	Months  int       // number of trailing months to bucket, default 12
	Now     time.Time // optional: if zero, time.Now() is used
}

// MonthBucket aggregates one calendar month of transactions.
type MonthBucket struct {
	Label        string // "Jan 2026"
	IncomeCents  int
	ExpenseCents int
	NetCents     int
	NetDiffCents int // net change vs the previous bucket, 0 for the first
}

// GetFinanceSummaryResult carries the output of the finance summary projection.
type GetFinanceSummaryResult struct {
	Buckets           []MonthBucket // oldest first
	TotalIncomeCents  int
	TotalExpenseCents int
	TotalNetCents     int
}

// GetFinanceSummaryDeps holds dependencies for the finance summary projection.
type GetFinanceSummaryDeps struct {
	FinanceStore FinanceStoreForSummary
}

// QueryGetFinanceSummary groups a coach's transactions into calendar-month
// buckets with month-over-month net diffs, for the finance chart.
// PRE: query.CoachID is non-empty
// POST: returns one bucket per month oldest first, including empty months
func QueryGetFinanceSummary(ctx context.Context, query GetFinanceSummaryQuery, deps GetFinanceSummaryDeps) (GetFinanceSummaryResult, error) {
	if query.CoachID == "" {
		return GetFinanceSummaryResult{}, fmt.Errorf("coach_id is required")
	}
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}
	months := query.Months
	if months <= 0 {
		months = 12
	}

	// Window covers the first day of the oldest month through the first day
	// of next month, half-open.
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := thisMonth.AddDate(0, -(months - 1), 0)
	end := thisMonth.AddDate(0, 1, 0)

	txns, err := deps.FinanceStore.ListByCoachIDAndDateRange(ctx, query.CoachID,
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return GetFinanceSummaryResult{}, err
	}

	buckets := make([]MonthBucket, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		m := start.AddDate(0, i, 0)
		key := m.Format("2006-01")
		buckets[i].Label = m.Format("Jan 2006")
		index[key] = i
	}

	var result GetFinanceSummaryResult
	for _, t := range txns {
		i, ok := index[t.Date.Format("2006-01")]
		if !ok {
			continue
		}
		switch t.Kind {
		case finance.KindIncome:
			buckets[i].IncomeCents += t.AmountCents
			result.TotalIncomeCents += t.AmountCents
		case finance.KindExpense:
			buckets[i].ExpenseCents += t.AmountCents
			result.TotalExpenseCents += t.AmountCents
		}
	}

	for i := range buckets {
		buckets[i].NetCents = buckets[i].IncomeCents - buckets[i].ExpenseCents
		if i > 0 {
			buckets[i].NetDiffCents = buckets[i].NetCents - buckets[i-1].NetCents
		}
	}
	result.TotalNetCents = result.TotalIncomeCents - result.TotalExpenseCents
	result.Buckets = buckets
	return result, nil
}
