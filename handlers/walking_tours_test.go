// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/testutil"
)

func validBooking(participants int) models.CreateBookingRequest {
	return models.CreateBookingRequest{
		GuestName:    "Camille Martin",
		GuestEmail:   "Camille@Example.com",
		Participants: participants,
	}
}

func TestCalendar(t *testing.T) {
	st := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewWalkingTourHandler(st, cfg)

	later := testutil.CreateTestWalkingTour(t, st, 5, 10)
	sooner := testutil.CreateTestWalkingTour(t, st, 2, 4)
	testutil.CreateTestWalkingTour(t, st, 90, 10) // outside the default window

	req := testutil.MakeRequest("GET", "/walking-tours/calendar", nil, nil)
	w := httptest.NewRecorder()
	handler.Calendar(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp CalendarResponse
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Days) != 2 {
		t.Fatalf("Expected 2 days in the default window, got %d", len(resp.Days))
	}
	if resp.Days[0].Date != sooner.Date || resp.Days[1].Date != later.Date {
		t.Errorf("Expected days ordered %s, %s; got %s, %s",
			sooner.Date, later.Date, resp.Days[0].Date, resp.Days[1].Date)
	}
	if resp.Days[0].Available != 4 || resp.Days[0].SoldOut {
		t.Errorf("Expected 4 seats available, got %d (sold out %v)", resp.Days[0].Available, resp.Days[0].SoldOut)
	}
}

func TestCalendarInvalidRange(t *testing.T) {
	st := testutil.SetupTestDB(t)
	handler := NewWalkingTourHandler(st, testutil.GetTestConfig())

	tests := []struct {
		name  string
		query string
	}{
		{"bad from", "?from=tomorrow"},
		{"to before from", "?from=2026-05-10&to=2026-05-01"},
		{"too wide", "?from=2026-01-01&to=2027-06-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/walking-tours/calendar"+tt.query, nil, nil)
			w := httptest.NewRecorder()
			handler.Calendar(w, req)
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestCreateBooking(t *testing.T) {
	st := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewWalkingTourHandler(st, cfg)

	tour := testutil.CreateTestWalkingTour(t, st, 3, 6)

	req := testutil.MakeRequest("POST", "/walking-tours/"+tour.ID+"/bookings", validBooking(2), nil)
	req.SetPathValue("id", tour.ID)
	w := httptest.NewRecorder()
	handler.CreateBooking(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.BookingResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.BookingID == "" {
		t.Error("Expected booking_id in response")
	}
	if resp.TotalCents != 7000 {
		t.Errorf("Expected total 7000 cents, got %d", resp.TotalCents)
	}
	if resp.DisplayTotal != "€70.00" {
		t.Errorf("Expected display total €70.00, got %s", resp.DisplayTotal)
	}
	if resp.SeatsLeft != 4 {
		t.Errorf("Expected 4 seats left, got %d", resp.SeatsLeft)
	}

	booking, err := st.Bookings.Get(context.Background(), resp.BookingID)
	if err != nil {
		t.Fatalf("Failed to load booking: %v", err)
	}
	if booking.GuestEmail != "camille@example.com" {
		t.Errorf("Expected normalized email, got %s", booking.GuestEmail)
	}
	if booking.IPHash == nil || *booking.IPHash == "" {
		t.Error("Expected hashed client IP to be stored")
	}
}

func TestCreateBookingValidation(t *testing.T) {
	st := testutil.SetupTestDB(t)
	handler := NewWalkingTourHandler(st, testutil.GetTestConfig())
	tour := testutil.CreateTestWalkingTour(t, st, 3, 6)

	tests := []struct {
		name           string
		tourID         string
		body           interface{}
		expectedStatus int
	}{
		{"missing name", tour.ID, models.CreateBookingRequest{GuestEmail: "a@b.fr", Participants: 1}, http.StatusBadRequest},
		{"invalid email", tour.ID, models.CreateBookingRequest{GuestName: "A", GuestEmail: "nope", Participants: 1}, http.StatusBadRequest},
		{"zero participants", tour.ID, validBooking(0), http.StatusBadRequest},
		{"too many for one booking", tour.ID, validBooking(MaxParticipantsPerBooking + 1), http.StatusBadRequest},
		{"more than seats left", tour.ID, validBooking(7), http.StatusConflict},
		{"unknown tour", "missing", validBooking(1), http.StatusNotFound},
		{"invalid JSON", tour.ID, "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/walking-tours/"+tt.tourID+"/bookings", tt.body, nil)
			req.SetPathValue("id", tt.tourID)
			w := httptest.NewRecorder()
			handler.CreateBooking(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestCreateBookingClosedTour(t *testing.T) {
	st := testutil.SetupTestDB(t)
	handler := NewWalkingTourHandler(st, testutil.GetTestConfig())
	tour := testutil.CreateTestWalkingTour(t, st, 3, 6)

	tour.Status = models.TourCancelled
	if err := st.WalkingTours.Update(context.Background(), tour); err != nil {
		t.Fatalf("Failed to cancel tour: %v", err)
	}

	req := testutil.MakeRequest("POST", "/walking-tours/"+tour.ID+"/bookings", validBooking(1), nil)
	req.SetPathValue("id", tour.ID)
	w := httptest.NewRecorder()
	handler.CreateBooking(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)
}

// TestConcurrentBookings verifies that simultaneous bookings never take more
// seats than the departure has
func TestConcurrentBookings(t *testing.T) {
	st := testutil.SetupTestDB(t)
	handler := NewWalkingTourHandler(st, testutil.GetTestConfig())

	seats := 5
	tour := testutil.CreateTestWalkingTour(t, st, 3, seats)

	numGuests := 12
	var successCount, conflictCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numGuests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/walking-tours/"+tour.ID+"/bookings", validBooking(1), nil)
			req.SetPathValue("id", tour.ID)
			w := httptest.NewRecorder()
			handler.CreateBooking(w, req)

			switch w.Code {
			case http.StatusCreated:
				successCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if int(successCount.Load()) != seats {
		t.Errorf("Expected %d successful bookings, got %d", seats, successCount.Load())
	}
	if int(conflictCount.Load()) != numGuests-seats {
		t.Errorf("Expected %d conflicts, got %d", numGuests-seats, conflictCount.Load())
	}

	stored, err := st.WalkingTours.Get(context.Background(), tour.ID)
	if err != nil {
		t.Fatalf("Failed to reload tour: %v", err)
	}
	if stored.CurrentBookings != seats {
		t.Errorf("Expected current_bookings %d, got %d", seats, stored.CurrentBookings)
	}
}

func TestCancelBookingReleasesSeats(t *testing.T) {
	st := testutil.SetupTestDB(t)
	handler := NewWalkingTourHandler(st, testutil.GetTestConfig())
	tour := testutil.CreateTestWalkingTour(t, st, 3, 4)

	req := testutil.MakeRequest("POST", "/walking-tours/"+tour.ID+"/bookings", validBooking(4), nil)
	req.SetPathValue("id", tour.ID)
	w := httptest.NewRecorder()
	handler.CreateBooking(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.BookingResponse
	testutil.AssertJSON(t, w, &created)
	if created.SeatsLeft != 0 {
		t.Fatalf("Expected tour to be full, %d seats left", created.SeatsLeft)
	}

	req = testutil.MakeRequest("POST", "/admin/bookings/"+created.BookingID+"/cancel", nil, nil)
	req.SetPathValue("id", created.BookingID)
	w = httptest.NewRecorder()
	handler.CancelBooking(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	// Cancelling twice is a state conflict
	req = testutil.MakeRequest("POST", "/admin/bookings/"+created.BookingID+"/cancel", nil, nil)
	req.SetPathValue("id", created.BookingID)
	w = httptest.NewRecorder()
	handler.CancelBooking(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)

	stored, err := st.WalkingTours.Get(context.Background(), tour.ID)
	if err != nil {
		t.Fatalf("Failed to reload tour: %v", err)
	}
	if stored.CurrentBookings != 0 {
		t.Errorf("Expected seats to be released, current_bookings is %d", stored.CurrentBookings)
	}
}

func TestDeleteWalkingTourWithBookings(t *testing.T) {
	st := testutil.SetupTestDB(t)
	handler := NewWalkingTourHandler(st, testutil.GetTestConfig())
	tour := testutil.CreateTestWalkingTour(t, st, 3, 4)

	req := testutil.MakeRequest("POST", "/walking-tours/"+tour.ID+"/bookings", validBooking(2), nil)
	req.SetPathValue("id", tour.ID)
	w := httptest.NewRecorder()
	handler.CreateBooking(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.BookingResponse
	testutil.AssertJSON(t, w, &created)

	del := func(expected int) {
		req := testutil.MakeRequest("DELETE", "/admin/walking-tours/"+tour.ID, nil, nil)
		req.SetPathValue("id", tour.ID)
		w := httptest.NewRecorder()
		handler.DeleteWalkingTour(w, req)
		testutil.AssertStatus(t, w, expected)
	}

	// Confirmed guests block the delete
	del(http.StatusConflict)

	req = testutil.MakeRequest("POST", "/admin/bookings/"+created.BookingID+"/cancel", nil, nil)
	req.SetPathValue("id", created.BookingID)
	w = httptest.NewRecorder()
	handler.CancelBooking(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	del(http.StatusNoContent)
	del(http.StatusNotFound)
}

func TestUpdateWalkingTourCapacityGuard(t *testing.T) {
	st := testutil.SetupTestDB(t)
	handler := NewWalkingTourHandler(st, testutil.GetTestConfig())
	tour := testutil.CreateTestWalkingTour(t, st, 3, 6)

	req := testutil.MakeRequest("POST", "/walking-tours/"+tour.ID+"/bookings", validBooking(3), nil)
	req.SetPathValue("id", tour.ID)
	w := httptest.NewRecorder()
	handler.CreateBooking(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	update := models.WalkingTourRequest{
		Title:           tour.Title,
		Date:            tour.Date,
		StartTime:       tour.StartTime,
		MaxParticipants: 2,
		PriceCents:      tour.PriceCents,
	}
	req = testutil.MakeRequest("PUT", "/admin/walking-tours/"+tour.ID, update, nil)
	req.SetPathValue("id", tour.ID)
	w = httptest.NewRecorder()
	handler.UpdateWalkingTour(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)

	update.MaxParticipants = 8
	req = testutil.MakeRequest("PUT", "/admin/walking-tours/"+tour.ID, update, nil)
	req.SetPathValue("id", tour.ID)
	w = httptest.NewRecorder()
	handler.UpdateWalkingTour(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var updated models.WalkingTour
	testutil.AssertJSON(t, w, &updated)
	if updated.MaxParticipants != 8 || updated.CurrentBookings != 3 {
		t.Errorf("Expected 8 seats with 3 booked, got %d/%d", updated.MaxParticipants, updated.CurrentBookings)
	}
}
