// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package calendar

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/paris-guide/models"
)

func tour(id, date, start string, max, booked int) models.WalkingTour {
	return models.WalkingTour{
		ID:              id,
		Title:           "Marais walk",
		Date:            date,
		StartTime:       start,
		MaxParticipants: max,
		CurrentBookings: booked,
		Status:          models.TourScheduled,
	}
}

func TestAvailable(t *testing.T) {
	assert.Equal(t, 6, Available(tour("a", "2025-06-01", "10:00", 10, 4)))
	assert.Equal(t, 0, Available(tour("a", "2025-06-01", "10:00", 10, 10)))
	// Overbooked rows left by manual edits never go negative
	assert.Equal(t, 0, Available(tour("a", "2025-06-01", "10:00", 10, 12)))
}

func TestGroupByDate(t *testing.T) {
	cancelled := tour("x", "2025-06-02", "09:00", 10, 0)
	cancelled.Status = models.TourCancelled

	days := GroupByDate([]models.WalkingTour{
		tour("c", "2025-06-03", "14:00", 8, 8),
		tour("b", "2025-06-01", "14:00", 10, 2),
		tour("a", "2025-06-01", "10:00", 12, 0),
		cancelled,
	})

	type daySummary struct {
		Date      string
		IDs       []string
		Capacity  int
		Available int
		SoldOut   bool
	}
	var got []daySummary
	for _, d := range days {
		s := daySummary{Date: d.Date, Capacity: d.Capacity, Available: d.Available, SoldOut: d.SoldOut}
		for _, slot := range d.Tours {
			s.IDs = append(s.IDs, slot.ID)
		}
		got = append(got, s)
	}

	want := []daySummary{
		{Date: "2025-06-01", IDs: []string{"a", "b"}, Capacity: 22, Available: 20},
		{Date: "2025-06-03", IDs: []string{"c"}, Capacity: 8, Available: 0, SoldOut: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GroupByDate() mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, days[1].Tours[0].SoldOut)
	assert.Equal(t, 8, days[0].Tours[1].Available)
}

func TestGroupByDate_Empty(t *testing.T) {
	days := GroupByDate(nil)
	require.NotNil(t, days)
	assert.Empty(t, days)
}

func TestCheckCapacity(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, Paris)

	closed := tour("z", "2025-06-02", "10:00", 10, 0)
	closed.Status = models.TourCancelled

	tests := []struct {
		name      string
		tour      models.WalkingTour
		requested int
		wantErr   error
	}{
		{"fits", tour("a", "2025-06-02", "10:00", 10, 4), 6, nil},
		{"exactly last seats", tour("a", "2025-06-01", "10:00", 10, 9), 1, nil},
		{"too many", tour("a", "2025-06-02", "10:00", 10, 4), 7, ErrInsufficientCapacity},
		{"sold out", tour("a", "2025-06-02", "10:00", 10, 10), 1, ErrInsufficientCapacity},
		{"zero participants", tour("a", "2025-06-02", "10:00", 10, 0), 0, ErrInvalidParticipants},
		{"negative participants", tour("a", "2025-06-02", "10:00", 10, 0), -2, ErrInvalidParticipants},
		{"cancelled tour", closed, 1, ErrTourClosed},
		{"already started", tour("a", "2025-06-01", "07:30", 10, 0), 1, ErrTourClosed},
		{"past date", tour("a", "2025-05-30", "10:00", 10, 0), 1, ErrTourClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCapacity(tt.tour, tt.requested, now)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("2025-07-14", "18:30"))
	assert.Error(t, ValidateSchedule("14/07/2025", "18:30"))
	assert.Error(t, ValidateSchedule("2025-07-14", "6pm"))
	assert.Error(t, ValidateSchedule("2025-07-14", "25:00"))
}

func TestParseRange(t *testing.T) {
	// 23:30 UTC on May 31 is already June 1 in Paris
	now := time.Date(2025, 5, 31, 23, 30, 0, 0, time.UTC)

	from, to, err := ParseRange("", "", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", from)
	assert.Equal(t, "2025-07-31", to)

	from, to, err = ParseRange("2025-08-01", "2025-08-15", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-08-01", from)
	assert.Equal(t, "2025-08-15", to)

	_, _, err = ParseRange("2025-08-15", "2025-08-01", now)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, _, err = ParseRange("2025-01-01", "2027-01-01", now)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, _, err = ParseRange("tomorrow", "", now)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
