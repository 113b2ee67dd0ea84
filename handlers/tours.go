// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/paris-guide/cliparse"
	"github.com/danielhkuo/paris-guide/middleware"
	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/store"
)

// TourHandler serves the services catalogue
type TourHandler struct {
	st  *store.Store
	cfg cliparse.Config
}

func NewTourHandler(st *store.Store, cfg cliparse.Config) *TourHandler {
	return &TourHandler{st: st, cfg: cfg}
}

// ListTours handles GET /tours
func (h *TourHandler) ListTours(w http.ResponseWriter, r *http.Request) {
	tours, err := h.st.Tours.List(r.Context(), true)
	if err != nil {
		storeError(w, err, "Tour")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, tours)
}

// GetTour handles GET /tours/{slug}
func (h *TourHandler) GetTour(w http.ResponseWriter, r *http.Request) {
	tour, err := h.st.Tours.GetActiveBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		storeError(w, err, "Tour")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, tour)
}

// AdminListTours handles GET /admin/tours, inactive tours included
func (h *TourHandler) AdminListTours(w http.ResponseWriter, r *http.Request) {
	tours, err := h.st.Tours.List(r.Context(), false)
	if err != nil {
		storeError(w, err, "Tour")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, tours)
}

// CreateTour handles POST /admin/tours
func (h *TourHandler) CreateTour(w http.ResponseWriter, r *http.Request) {
	tour, ok := h.decodeTour(w, r)
	if !ok {
		return
	}

	if err := h.st.Tours.Create(r.Context(), tour); err != nil {
		storeError(w, err, "Tour")
		return
	}

	slog.Info("tour created", "tour_id", tour.ID, "slug", tour.Slug)
	middleware.JSONResponse(w, http.StatusCreated, tour)
}

// UpdateTour handles PUT /admin/tours/{id}
func (h *TourHandler) UpdateTour(w http.ResponseWriter, r *http.Request) {
	tour, ok := h.decodeTour(w, r)
	if !ok {
		return
	}
	tour.ID = r.PathValue("id")

	if err := h.st.Tours.Update(r.Context(), tour); err != nil {
		storeError(w, err, "Tour")
		return
	}

	updated, err := h.st.Tours.Get(r.Context(), tour.ID)
	if err != nil {
		storeError(w, err, "Tour")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, updated)
}

// DeleteTour handles DELETE /admin/tours/{id}
func (h *TourHandler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.st.Tours.Delete(r.Context(), id); err != nil {
		storeError(w, err, "Tour")
		return
	}

	slog.Info("tour deleted", "tour_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *TourHandler) decodeTour(w http.ResponseWriter, r *http.Request) (*models.Tour, bool) {
	var req models.TourRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return nil, false
	}
	if req.PriceCents < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "price_cents cannot be negative")
		return nil, false
	}
	if req.DurationMinutes < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "duration_minutes cannot be negative")
		return nil, false
	}

	s, ok := resolveSlug(w, req.Slug, req.Title)
	if !ok {
		return nil, false
	}

	return &models.Tour{
		Slug:            s,
		Title:           req.Title,
		Summary:         req.Summary,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		ImageURL:        req.ImageURL,
		Featured:        req.Featured,
		SortOrder:       req.SortOrder,
		Active:          boolOr(req.Active, true),
	}, true
}
