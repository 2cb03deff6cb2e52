package projections

import (
	"context"
	"fmt"
	"time"

	"coachdesk/internal/domain/workout"
)

// TrainingVolumeWorkoutStore defines the workout store interface needed by
// the training volume projection.
type TrainingVolumeWorkoutStore interface {
	ListByClientIDAndDateRange(ctx context.Context, clientID, from, to string) ([]workout.Set, error)
}

// GetTrainingVolumeQuery carries input for the training volume projection.
type GetTrainingVolumeQuery struct {
	ClientID string
	Range    string    // "month" or "year"
	Compare  bool      // month range only: add a last-month series
	Now      time.Time // optional: if zero, time.Now() is used
}

// TrainingVolumeSeries represents a line on the graph.
type TrainingVolumeSeries struct {
	Name   string
	Values []float64 // tonnage (reps x kg) per bucket
}

// GetTrainingVolumeResult carries the output of the training volume projection.
type GetTrainingVolumeResult struct {
	Range     string
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD, exclusive
	Buckets   []string
	Series    []TrainingVolumeSeries
}

// GetTrainingVolumeDeps holds dependencies for the training volume projection.
type GetTrainingVolumeDeps struct {
	WorkoutStore TrainingVolumeWorkoutStore
}

// QueryGetTrainingVolume aggregates a client's logged tonnage for charting.
// Month range buckets by day-of-month, year range by month.
// PRE: query.ClientID is non-empty, query.Range is "month" or "year"
// POST: every series has one value per bucket
func QueryGetTrainingVolume(ctx context.Context, query GetTrainingVolumeQuery, deps GetTrainingVolumeDeps) (GetTrainingVolumeResult, error) {
	if query.ClientID == "" {
		return GetTrainingVolumeResult{}, fmt.Errorf("client_id is required")
	}
	if query.Range != "month" && query.Range != "year" {
		return GetTrainingVolumeResult{}, fmt.Errorf("range must be month or year")
	}
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}

	var start, end time.Time
	if query.Range == "month" {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
	} else {
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(1, 0, 0)
	}
	startDate := start.Format("2006-01-02")
	endDate := end.Format("2006-01-02")

	sets, err := deps.WorkoutStore.ListByClientIDAndDateRange(ctx, query.ClientID, startDate, endDate)
	if err != nil {
		return GetTrainingVolumeResult{}, err
	}

	buckets := buildVolumeBuckets(query.Range, now)
	series := []TrainingVolumeSeries{
		{Name: "This " + query.Range, Values: bucketTonnage(query.Range, buckets, sets)},
	}

	if query.Range == "month" && query.Compare {
		lmStart := start.AddDate(0, -1, 0)
		lmSets, err := deps.WorkoutStore.ListByClientIDAndDateRange(ctx, query.ClientID,
			lmStart.Format("2006-01-02"), start.Format("2006-01-02"))
		if err == nil {
			series = append(series, TrainingVolumeSeries{
				Name:   "Last month",
				Values: bucketTonnage(query.Range, buckets, lmSets),
			})
		}
	}

	return GetTrainingVolumeResult{
		Range:     query.Range,
		StartDate: startDate,
		EndDate:   endDate,
		Buckets:   buckets,
		Series:    series,
	}, nil
}

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func buildVolumeBuckets(rng string, now time.Time) []string {
	if rng == "year" {
		return monthNames[:]
	}
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	days := start.AddDate(0, 1, -1).Day()
	b := make([]string, 0, days)
	for i := 1; i <= days; i++ {
		b = append(b, fmt.Sprintf("%d", i))
	}
	return b
}

func bucketTonnage(rng string, buckets []string, sets []workout.Set) []float64 {
	index := make(map[string]int, len(buckets))
	for i, b := range buckets {
		index[b] = i
	}
	values := make([]float64, len(buckets))
	for _, s := range sets {
		var key string
		if rng == "year" {
			key = monthNames[int(s.Date.Month())-1]
		} else {
			key = fmt.Sprintf("%d", s.Date.Day())
		}
		if i, ok := index[key]; ok {
			values[i] += s.Volume()
		}
	}
	return values
}
