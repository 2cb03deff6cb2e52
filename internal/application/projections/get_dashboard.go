package projections

import (
	"context"
	"time"

	clientStore "coachdesk/internal/adapters/storage/client"
	"coachdesk/internal/domain/agenda"
	"coachdesk/internal/domain/checkin"
	"coachdesk/internal/domain/client"
)

// DashboardAgendaStore defines the agenda store interface needed by the dashboard.
type DashboardAgendaStore interface {
	ListByOwnerAndRange(ctx context.Context, ownerID string, from, to time.Time) ([]agenda.Event, error)
}

// DashboardClientStore defines the client store interface needed by the dashboard.
type DashboardClientStore interface {
	Count(ctx context.Context, filter clientStore.ListFilter) (int, error)
	List(ctx context.Context, filter clientStore.ListFilter) ([]client.Client, error)
}

// DashboardCheckInStore defines the check-in store interface needed by the dashboard.
type DashboardCheckInStore interface {
	ListLatestByCoachID(ctx context.Context, coachID string, limit int) ([]checkin.CheckIn, error)
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	CoachID string
	Now     time.Time // optional: if zero, time.Now() is used
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	AgendaStore  DashboardAgendaStore
	ClientStore  DashboardClientStore
	CheckInStore DashboardCheckInStore
	FinanceDeps  GetFinanceSummaryDeps
}

// CheckInWithClient pairs a check-in with its client's name for display.
type CheckInWithClient struct {
	CheckIn    checkin.CheckIn
	ClientName string
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	TodaysEvents      []agenda.Event
	WeekSessionCount  int // events in the current Monday-start week
	ActiveClientCount int
	RecentCheckIns    []CheckInWithClient
	MonthNetCents     int // current calendar month income minus expenses
}

// QueryGetDashboard aggregates the coach landing page. Each section degrades
// independently: a failed sub-query leaves its section zero-valued rather than
// failing the page.
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}
	var result DashboardResult

	// This week's sessions, with today's broken out for the schedule card.
	monday := agenda.MondayOf(now)
	weekStart := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	events, err := deps.AgendaStore.ListByOwnerAndRange(ctx, query.CoachID, weekStart, weekStart.AddDate(0, 0, 7))
	if err == nil {
		result.WeekSessionCount = len(events)
		for _, e := range events {
			if !e.Timestamp.Before(dayStart) && e.Timestamp.Before(dayEnd) {
				result.TodaysEvents = append(result.TodaysEvents, e)
			}
		}
	}

	// Roster size.
	count, err := deps.ClientStore.Count(ctx, clientStore.ListFilter{
		CoachID: query.CoachID,
		Status:  client.StatusActive,
	})
	if err == nil {
		result.ActiveClientCount = count
	}

	// Latest athlete check-ins, annotated with client names.
	checkins, err := deps.CheckInStore.ListLatestByCoachID(ctx, query.CoachID, 5)
	if err == nil && len(checkins) > 0 {
		names := map[string]string{}
		if clients, err := deps.ClientStore.List(ctx, clientStore.ListFilter{CoachID: query.CoachID}); err == nil {
			for _, c := range clients {
				names[c.ID] = c.Name
			}
		}
		for _, ci := range checkins {
			result.RecentCheckIns = append(result.RecentCheckIns, CheckInWithClient{
				CheckIn:    ci,
				ClientName: names[ci.ClientID],
			})
		}
	}

	// Month-to-date net.
	summary, err := QueryGetFinanceSummary(ctx, GetFinanceSummaryQuery{
		CoachID: query.CoachID,
		Months:  1,
		Now:     now,
	}, deps.FinanceDeps)
	if err == nil && len(summary.Buckets) > 0 {
		result.MonthNetCents = summary.Buckets[len(summary.Buckets)-1].NetCents
	}

	return result, nil
}
