// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"
	_ "time/tzdata"

	"github.com/danielhkuo/paris-guide/models"
)

var (
	ErrInvalidParticipants  = errors.New("participants must be at least 1")
	ErrInsufficientCapacity = errors.New("not enough seats left on this tour")
	ErrTourClosed           = errors.New("tour is not open for booking")
	ErrInvalidRange         = errors.New("invalid date range")
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// DefaultWindowDays is how far ahead the calendar looks when no end date is given
	DefaultWindowDays = 60
	MaxWindowDays     = 366
)

// Paris is the timezone every tour date and start time is expressed in
var Paris = mustLoad("Europe/Paris")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Slot is a walking tour with its remaining seats
type Slot struct {
	models.WalkingTour
	Available int  `json:"available"`
	SoldOut   bool `json:"sold_out"`
}

// Day groups the departures of one calendar date
type Day struct {
	Date      string `json:"date"`
	Tours     []Slot `json:"tours"`
	Capacity  int    `json:"capacity"`
	Available int    `json:"available"`
	SoldOut   bool   `json:"sold_out"`
}

// Available returns the seats left on a tour, never negative
func Available(t models.WalkingTour) int {
	return max(0, t.MaxParticipants-t.CurrentBookings)
}

// GroupByDate builds the date -> tours map in one pass and returns the days in
// ascending order. Cancelled departures are left out.
func GroupByDate(tours []models.WalkingTour) []Day {
	byDate := make(map[string]*Day)
	for _, t := range tours {
		if t.Status == models.TourCancelled {
			continue
		}
		day, ok := byDate[t.Date]
		if !ok {
			day = &Day{Date: t.Date}
			byDate[t.Date] = day
		}
		avail := Available(t)
		day.Tours = append(day.Tours, Slot{WalkingTour: t, Available: avail, SoldOut: avail == 0})
		day.Capacity += t.MaxParticipants
		day.Available += avail
	}

	days := make([]Day, 0, len(byDate))
	for _, day := range byDate {
		sort.SliceStable(day.Tours, func(i, j int) bool {
			if day.Tours[i].StartTime != day.Tours[j].StartTime {
				return day.Tours[i].StartTime < day.Tours[j].StartTime
			}
			return day.Tours[i].ID < day.Tours[j].ID
		})
		day.SoldOut = day.Available == 0
		days = append(days, *day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	return days
}

// Bookable reports whether a departure still accepts bookings at now
func Bookable(t models.WalkingTour, now time.Time) error {
	if t.Status != models.TourScheduled {
		return ErrTourClosed
	}
	start, err := StartsAt(t)
	if err != nil {
		return ErrTourClosed
	}
	if !now.Before(start) {
		return ErrTourClosed
	}
	return nil
}

// CheckCapacity accepts a request only if requested <= available
func CheckCapacity(t models.WalkingTour, requested int, now time.Time) error {
	if requested < 1 {
		return ErrInvalidParticipants
	}
	if err := Bookable(t, now); err != nil {
		return err
	}
	if requested > Available(t) {
		return ErrInsufficientCapacity
	}
	return nil
}

// StartsAt combines the tour date and start time in Paris time
func StartsAt(t models.WalkingTour) (time.Time, error) {
	start := t.StartTime
	if start == "" {
		start = "00:00"
	}
	at, err := time.ParseInLocation(DateLayout+" "+TimeLayout, t.Date+" "+start, Paris)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid tour date %q %q: %w", t.Date, t.StartTime, err)
	}
	return at, nil
}

// ValidateSchedule checks the date and start time format of a departure
func ValidateSchedule(date, startTime string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	if _, err := time.Parse(TimeLayout, startTime); err != nil {
		return fmt.Errorf("start_time must be HH:MM")
	}
	return nil
}

// ParseRange resolves the from/to query parameters of the calendar.
// Empty from means today in Paris; empty to means from + DefaultWindowDays.
func ParseRange(from, to string, now time.Time) (string, string, error) {
	start := now.In(Paris)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	if from != "" {
		t, err := time.Parse(DateLayout, from)
		if err != nil {
			return "", "", ErrInvalidRange
		}
		start = t
	}

	end := start.AddDate(0, 0, DefaultWindowDays)
	if to != "" {
		t, err := time.Parse(DateLayout, to)
		if err != nil {
			return "", "", ErrInvalidRange
		}
		end = t
	}

	if end.Before(start) || end.Sub(start) > MaxWindowDays*24*time.Hour {
		return "", "", ErrInvalidRange
	}

	return start.Format(DateLayout), end.Format(DateLayout), nil
}
