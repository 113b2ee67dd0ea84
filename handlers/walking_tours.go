// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/paris-guide/auth"
	"github.com/danielhkuo/paris-guide/calendar"
	"github.com/danielhkuo/paris-guide/cliparse"
	"github.com/danielhkuo/paris-guide/middleware"
	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/store"
)

// MaxParticipantsPerBooking caps a single booking request
const MaxParticipantsPerBooking = 20

type CalendarResponse struct {
	From string         `json:"from"`
	To   string         `json:"to"`
	Days []calendar.Day `json:"days"`
}

type WalkingTourHandler struct {
	st  *store.Store
	cfg cliparse.Config
	now func() time.Time
}

func NewWalkingTourHandler(st *store.Store, cfg cliparse.Config) *WalkingTourHandler {
	return &WalkingTourHandler{st: st, cfg: cfg, now: time.Now}
}

// Calendar handles GET /walking-tours/calendar?from=&to=
func (h *WalkingTourHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := calendar.ParseRange(q.Get("from"), q.Get("to"), h.now())
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "from and to must be YYYY-MM-DD, at most one year apart")
		return
	}

	tours, err := h.st.WalkingTours.ListRange(r.Context(), from, to)
	if err != nil {
		storeError(w, err, "Walking tour")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, CalendarResponse{
		From: from,
		To:   to,
		Days: calendar.GroupByDate(tours),
	})
}

// CreateBooking handles POST /walking-tours/{id}/bookings
func (h *WalkingTourHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	tourID := r.PathValue("id")

	var req models.CreateBookingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.GuestName = strings.TrimSpace(req.GuestName)
	if req.GuestName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "guest_name is required")
		return
	}
	email := normalizeEmail(req.GuestEmail)
	if email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "a valid guest_email is required")
		return
	}
	if req.Participants < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, calendar.ErrInvalidParticipants.Error())
		return
	}
	if req.Participants > MaxParticipantsPerBooking {
		middleware.ErrorResponse(w, http.StatusBadRequest, "too many participants for one booking")
		return
	}

	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.TokenSecret)
	booking := &models.Booking{
		WalkingTourID: tourID,
		GuestName:     req.GuestName,
		GuestEmail:    email,
		GuestPhone:    strings.TrimSpace(req.GuestPhone),
		Participants:  req.Participants,
		Notes:         req.Notes,
		IPHash:        &ipHash,
	}

	now := h.now()
	tour, err := h.st.Bookings.Create(r.Context(), booking, func(t models.WalkingTour) error {
		return calendar.CheckCapacity(t, req.Participants, now)
	})
	if err != nil {
		storeError(w, err, "Walking tour")
		return
	}

	slog.Info("booking created",
		"booking_id", booking.ID,
		"walking_tour_id", tourID,
		"participants", booking.Participants,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.BookingResponse{
		BookingID:    booking.ID,
		TotalCents:   booking.TotalCents,
		DisplayTotal: models.FormatPrice(booking.TotalCents),
		SeatsLeft:    calendar.Available(*tour),
	})
}

// AdminListWalkingTours handles GET /admin/walking-tours?from=&to=
// Unlike the public calendar, cancelled departures are included.
func (h *WalkingTourHandler) AdminListWalkingTours(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := calendar.ParseRange(q.Get("from"), q.Get("to"), h.now())
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "from and to must be YYYY-MM-DD, at most one year apart")
		return
	}

	tours, err := h.st.WalkingTours.ListRange(r.Context(), from, to)
	if err != nil {
		storeError(w, err, "Walking tour")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, tours)
}

// CreateWalkingTour handles POST /admin/walking-tours
func (h *WalkingTourHandler) CreateWalkingTour(w http.ResponseWriter, r *http.Request) {
	tour, ok := h.decodeWalkingTour(w, r)
	if !ok {
		return
	}

	if err := h.st.WalkingTours.Create(r.Context(), tour); err != nil {
		storeError(w, err, "Walking tour")
		return
	}

	slog.Info("walking tour created", "walking_tour_id", tour.ID, "date", tour.Date)
	middleware.JSONResponse(w, http.StatusCreated, tour)
}

// UpdateWalkingTour handles PUT /admin/walking-tours/{id}
func (h *WalkingTourHandler) UpdateWalkingTour(w http.ResponseWriter, r *http.Request) {
	tour, ok := h.decodeWalkingTour(w, r)
	if !ok {
		return
	}
	tour.ID = r.PathValue("id")

	if err := h.st.WalkingTours.Update(r.Context(), tour); err != nil {
		storeError(w, err, "Walking tour")
		return
	}

	updated, err := h.st.WalkingTours.Get(r.Context(), tour.ID)
	if err != nil {
		storeError(w, err, "Walking tour")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, updated)
}

// DeleteWalkingTour handles DELETE /admin/walking-tours/{id}
func (h *WalkingTourHandler) DeleteWalkingTour(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.st.WalkingTours.Delete(r.Context(), id); err != nil {
		storeError(w, err, "Walking tour")
		return
	}

	slog.Info("walking tour deleted", "walking_tour_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListBookings handles GET /admin/walking-tours/{id}/bookings
func (h *WalkingTourHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.st.WalkingTours.Get(r.Context(), id); err != nil {
		storeError(w, err, "Walking tour")
		return
	}

	bookings, err := h.st.Bookings.ListForTour(r.Context(), id)
	if err != nil {
		storeError(w, err, "Booking")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, bookings)
}

// CancelBooking handles POST /admin/bookings/{id}/cancel
func (h *WalkingTourHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.st.Bookings.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, err, "Booking")
		return
	}

	slog.Info("booking cancelled",
		"booking_id", booking.ID,
		"walking_tour_id", booking.WalkingTourID,
		"seats_released", booking.Participants,
	)
	middleware.JSONResponse(w, http.StatusOK, booking)
}

func (h *WalkingTourHandler) decodeWalkingTour(w http.ResponseWriter, r *http.Request) (*models.WalkingTour, bool) {
	var req models.WalkingTourRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return nil, false
	}
	if req.StartTime == "" {
		req.StartTime = "10:00"
	}
	if err := calendar.ValidateSchedule(req.Date, req.StartTime); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if req.MaxParticipants < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "max_participants must be at least 1")
		return nil, false
	}
	if req.PriceCents < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "price_cents cannot be negative")
		return nil, false
	}

	switch req.Status {
	case "":
		req.Status = models.TourScheduled
	case models.TourScheduled, models.TourCancelled, models.TourCompleted:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be scheduled, cancelled or completed")
		return nil, false
	}

	if req.Language == "" {
		req.Language = "en"
	}
	if req.TourID != nil && *req.TourID == "" {
		req.TourID = nil
	}

	return &models.WalkingTour{
		TourID:          req.TourID,
		Title:           req.Title,
		Date:            req.Date,
		StartTime:       req.StartTime,
		MeetingPoint:    req.MeetingPoint,
		Language:        req.Language,
		MaxParticipants: req.MaxParticipants,
		PriceCents:      req.PriceCents,
		Status:          req.Status,
	}, true
}
