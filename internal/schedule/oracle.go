package schedule

import (
	"time"

	"playeasy/internal/models"
)

// MockOracle is a deterministic stand-in for a real reservation query.
// Today gets one fixed subset of the candidate slots, tomorrow another,
// any other date is fully open. A production oracle must keep the same
// contract: pure function of date and candidates, returns a subset.
type MockOracle struct {
	now func() time.Time
}

func NewMockOracle() *MockOracle {
	return &MockOracle{now: time.Now}
}

// NewMockOracleAt pins the evaluation instant, for tests.
func NewMockOracleAt(now func() time.Time) *MockOracle {
	return &MockOracle{now: now}
}

var (
	todayBookedIdx    = []int{1, 3}
	tomorrowBookedIdx = []int{0, 2}
)

// BookedSlots returns the already-taken subset of candidates for the date.
func (o *MockOracle) BookedSlots(date time.Time, candidates []models.TimeSlot) []models.TimeSlot {
	if len(candidates) == 0 {
		return nil
	}

	var indices []int
	switch {
	case sameDay(date, o.now()):
		indices = todayBookedIdx
	case sameDay(date, o.now().AddDate(0, 0, 1)):
		indices = tomorrowBookedIdx
	default:
		return nil
	}

	var booked []models.TimeSlot
	for _, i := range indices {
		if i < len(candidates) {
			booked = append(booked, candidates[i])
		}
	}
	return booked
}

// sameDay compares calendar dates, not timestamps.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
