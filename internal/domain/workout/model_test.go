package workout_test

import (
	"testing"
	"time"

	"coachdesk/internal/domain/workout"
)

func TestSet_Validate(t *testing.T) {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	valid := workout.Set{ClientID: "cl-1", Exercise: "Squat", Reps: 5, WeightKg: 100, Date: date}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid set: Validate() error = %v", err)
	}

	bodyweight := workout.Set{ClientID: "cl-1", Exercise: "Pull-up", Reps: 10, Date: date}
	if err := bodyweight.Validate(); err != nil {
		t.Errorf("bodyweight set: Validate() error = %v", err)
	}

	cases := map[string]workout.Set{
		"empty client":    {Exercise: "Squat", Reps: 5, Date: date},
		"empty exercise":  {ClientID: "cl-1", Reps: 5, Date: date},
		"zero reps":       {ClientID: "cl-1", Exercise: "Squat", Date: date},
		"negative weight": {ClientID: "cl-1", Exercise: "Squat", Reps: 5, WeightKg: -20, Date: date},
		"zero date":       {ClientID: "cl-1", Exercise: "Squat", Reps: 5},
	}
	for name, s := range cases {
		if err := s.Validate(); err == nil {
			t.Errorf("%s: Validate() = nil, want error", name)
		}
	}
}

func TestSet_Volume(t *testing.T) {
	s := workout.Set{Reps: 5, WeightKg: 100}
	if got := s.Volume(); got != 500 {
		t.Errorf("Volume() = %v, want 500", got)
	}
}
