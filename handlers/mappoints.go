// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"github.com/danielhkuo/paris-guide/cliparse"
	"github.com/danielhkuo/paris-guide/middleware"
	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/store"
)

type MapPointHandler struct {
	st  *store.Store
	cfg cliparse.Config
}

func NewMapPointHandler(st *store.Store, cfg cliparse.Config) *MapPointHandler {
	return &MapPointHandler{st: st, cfg: cfg}
}

// ListMapPoints handles GET /map-points?category= and GET /admin/map-points
func (h *MapPointHandler) ListMapPoints(w http.ResponseWriter, r *http.Request) {
	points, err := h.st.MapPoints.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		storeError(w, err, "Map point")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, points)
}

// CreateMapPoint handles POST /admin/map-points
func (h *MapPointHandler) CreateMapPoint(w http.ResponseWriter, r *http.Request) {
	point, ok := decodeMapPoint(w, r)
	if !ok {
		return
	}
	if err := h.st.MapPoints.Create(r.Context(), point); err != nil {
		storeError(w, err, "Map point")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, point)
}

// UpdateMapPoint handles PUT /admin/map-points/{id}
func (h *MapPointHandler) UpdateMapPoint(w http.ResponseWriter, r *http.Request) {
	point, ok := decodeMapPoint(w, r)
	if !ok {
		return
	}
	point.ID = r.PathValue("id")

	if err := h.st.MapPoints.Update(r.Context(), point); err != nil {
		storeError(w, err, "Map point")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, point)
}

// DeleteMapPoint handles DELETE /admin/map-points/{id}
func (h *MapPointHandler) DeleteMapPoint(w http.ResponseWriter, r *http.Request) {
	if err := h.st.MapPoints.Delete(r.Context(), r.PathValue("id")); err != nil {
		storeError(w, err, "Map point")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeMapPoint(w http.ResponseWriter, r *http.Request) (*models.MapPoint, bool) {
	var req models.MapPointRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return nil, false
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "coordinates out of range")
		return nil, false
	}

	return &models.MapPoint{
		Name:        req.Name,
		Description: req.Description,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ImageURL:    req.ImageURL,
		SortOrder:   req.SortOrder,
	}, true
}
