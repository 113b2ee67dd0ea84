// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/paris-guide/auth"
	"github.com/danielhkuo/paris-guide/checkout"
	"github.com/danielhkuo/paris-guide/cliparse"
	"github.com/danielhkuo/paris-guide/middleware"
	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/store"
)

// OrderStatusResponse is what the thank-you page polls after checkout
type OrderStatusResponse struct {
	Reference   string     `json:"reference"`
	Kind        string     `json:"kind"`
	Status      string     `json:"status"`
	AccessToken string     `json:"access_token,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type LouvreHandler struct {
	st      *store.Store
	cfg     cliparse.Config
	gateway *checkout.Gateway
	now     func() time.Time
}

func NewLouvreHandler(st *store.Store, cfg cliparse.Config) *LouvreHandler {
	return &LouvreHandler{
		st:      st,
		cfg:     cfg,
		gateway: checkout.NewGateway(cfg.CheckoutURL, cfg.CheckoutSecret),
		now:     time.Now,
	}
}

// ListTours handles GET /louvre-tours
func (h *LouvreHandler) ListTours(w http.ResponseWriter, r *http.Request) {
	tours, err := h.st.LouvreTours.List(r.Context(), true)
	if err != nil {
		storeError(w, err, "Louvre tour")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, tours)
}

// GetTour handles GET /louvre-tours/{slug}
// Stops are listed without their descriptions or media until purchase.
func (h *LouvreHandler) GetTour(w http.ResponseWriter, r *http.Request) {
	tour, err := h.st.LouvreTours.GetPublishedBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		storeError(w, err, "Louvre tour")
		return
	}

	stops, err := h.st.LouvreTours.Stops(r.Context(), tour.ID)
	if err != nil {
		storeError(w, err, "Louvre tour stop")
		return
	}

	preview := make([]models.LouvreTourStop, len(stops))
	for i, s := range stops {
		preview[i] = models.LouvreTourStop{
			ID:           s.ID,
			LouvreTourID: s.LouvreTourID,
			Position:     s.Position,
			Title:        s.Title,
			Room:         s.Room,
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.LouvreTourDetail{Tour: *tour, Stops: preview})
}

// Checkout handles POST /louvre-tours/{slug}/checkout
// It records a pending order and hands back the hosted checkout URL.
func (h *LouvreHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	tourSlug := r.PathValue("slug")

	var req models.CheckoutRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	email := normalizeEmail(req.Email)
	if email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	tour, err := h.st.LouvreTours.GetPublishedBySlug(r.Context(), tourSlug)
	if err != nil {
		storeError(w, err, "Louvre tour")
		return
	}

	order := &models.Order{
		Reference:    auth.GenerateReference(),
		Email:        email,
		Kind:         models.OrderLouvreTour,
		LouvreTourID: &tour.ID,
		AmountCents:  tour.PriceCents,
		Currency:     models.CurrencyEUR,
		Status:       models.OrderPending,
	}

	returnURL := h.cfg.PublicBaseURL + "/louvre/" + url.PathEscape(tour.Slug) +
		"/thanks?reference=" + url.QueryEscape(order.Reference)
	redirect, err := h.gateway.RedirectURL(*order, returnURL)
	if err != nil {
		slog.Error("failed to build checkout url", "tour_id", tour.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Checkout is unavailable for this tour")
		return
	}

	if err := h.st.Orders.Create(r.Context(), order); err != nil {
		storeError(w, err, "Order")
		return
	}

	slog.Info("checkout started", "reference", order.Reference, "tour_id", tour.ID)
	middleware.JSONResponse(w, http.StatusCreated, models.CheckoutResponse{
		Reference:   order.Reference,
		RedirectURL: redirect,
	})
}

// Guide handles GET /louvre-tours/{slug}/guide
// The X-Access-Token must belong to a paid order for this tour.
func (h *LouvreHandler) Guide(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.Header.Get("X-Access-Token"))
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Access token required")
		return
	}

	tour, err := h.st.LouvreTours.GetPublishedBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		storeError(w, err, "Louvre tour")
		return
	}

	order, err := h.st.Orders.GetByAccessToken(r.Context(), token)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		storeError(w, err, "Order")
		return
	}
	if order == nil || order.Kind != models.OrderLouvreTour ||
		order.LouvreTourID == nil || *order.LouvreTourID != tour.ID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Access token is not valid for this tour")
		return
	}

	stops, err := h.st.LouvreTours.Stops(r.Context(), tour.ID)
	if err != nil {
		storeError(w, err, "Louvre tour stop")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LouvreTourDetail{Tour: *tour, Stops: stops})
}

// Webhook handles POST /payments/webhook
// The body is signed by the checkout provider with the shared secret.
// Replays of an already applied status are acknowledged with 200.
func (h *LouvreHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, middleware.MaxJSONBody))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	if err := h.gateway.VerifyWebhook(body, r.Header.Get("X-Checkout-Signature")); err != nil {
		slog.Warn("rejected checkout webhook", "remote", middleware.GetClientIP(r), "error", err)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var event models.CheckoutWebhook
	if err := json.Unmarshal(body, &event); err != nil || event.Reference == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	status, err := checkout.OrderStatus(event.Status)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var token *string
	if status == models.OrderPaid {
		t := auth.GenerateAccessToken()
		token = &t
	}

	order, err := h.st.Orders.Settle(r.Context(), event.Reference, status, token, h.now().UTC())
	if errors.Is(err, store.ErrInvalidState) && order != nil && order.Status == status {
		slog.Info("duplicate checkout webhook", "reference", event.Reference, "status", status)
		middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Already processed"})
		return
	}
	if err != nil {
		storeError(w, err, "Order")
		return
	}

	slog.Info("order settled", "reference", order.Reference, "status", order.Status)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Order " + order.Status})
}

// OrderStatus handles GET /orders/{reference}
func (h *LouvreHandler) OrderStatus(w http.ResponseWriter, r *http.Request) {
	order, err := h.st.Orders.GetByReference(r.Context(), r.PathValue("reference"))
	if err != nil {
		storeError(w, err, "Order")
		return
	}

	resp := OrderStatusResponse{
		Reference: order.Reference,
		Kind:      order.Kind,
		Status:    order.Status,
		ExpiresAt: order.ExpiresAt,
	}
	if order.Status == models.OrderPaid && order.AccessToken != nil {
		resp.AccessToken = *order.AccessToken
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// AdminListOrders handles GET /admin/orders?status=
func (h *LouvreHandler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.st.Orders.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		storeError(w, err, "Order")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, orders)
}

// AdminListTours handles GET /admin/louvre-tours
func (h *LouvreHandler) AdminListTours(w http.ResponseWriter, r *http.Request) {
	tours, err := h.st.LouvreTours.List(r.Context(), false)
	if err != nil {
		storeError(w, err, "Louvre tour")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, tours)
}

// AdminGetTour handles GET /admin/louvre-tours/{id}
func (h *LouvreHandler) AdminGetTour(w http.ResponseWriter, r *http.Request) {
	tour, err := h.st.LouvreTours.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, err, "Louvre tour")
		return
	}
	stops, err := h.st.LouvreTours.Stops(r.Context(), tour.ID)
	if err != nil {
		storeError(w, err, "Louvre tour stop")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.LouvreTourDetail{Tour: *tour, Stops: stops})
}

// CreateTour handles POST /admin/louvre-tours
func (h *LouvreHandler) CreateTour(w http.ResponseWriter, r *http.Request) {
	tour, ok := decodeLouvreTour(w, r)
	if !ok {
		return
	}

	if err := h.st.LouvreTours.Create(r.Context(), tour); err != nil {
		storeError(w, err, "Louvre tour")
		return
	}

	slog.Info("louvre tour created", "tour_id", tour.ID, "slug", tour.Slug)
	middleware.JSONResponse(w, http.StatusCreated, tour)
}

// UpdateTour handles PUT /admin/louvre-tours/{id}
func (h *LouvreHandler) UpdateTour(w http.ResponseWriter, r *http.Request) {
	tour, ok := decodeLouvreTour(w, r)
	if !ok {
		return
	}
	tour.ID = r.PathValue("id")

	if err := h.st.LouvreTours.Update(r.Context(), tour); err != nil {
		storeError(w, err, "Louvre tour")
		return
	}

	updated, err := h.st.LouvreTours.Get(r.Context(), tour.ID)
	if err != nil {
		storeError(w, err, "Louvre tour")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, updated)
}

// DeleteTour handles DELETE /admin/louvre-tours/{id}
func (h *LouvreHandler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.st.LouvreTours.Delete(r.Context(), id); err != nil {
		storeError(w, err, "Louvre tour")
		return
	}

	slog.Info("louvre tour deleted", "tour_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// AddStop handles POST /admin/louvre-tours/{id}/stops
func (h *LouvreHandler) AddStop(w http.ResponseWriter, r *http.Request) {
	stop, ok := decodeLouvreStop(w, r)
	if !ok {
		return
	}
	stop.LouvreTourID = r.PathValue("id")

	if _, err := h.st.LouvreTours.Get(r.Context(), stop.LouvreTourID); err != nil {
		storeError(w, err, "Louvre tour")
		return
	}
	if err := h.st.LouvreTours.AddStop(r.Context(), stop); err != nil {
		storeError(w, err, "Louvre tour")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, stop)
}

// UpdateStop handles PUT /admin/louvre-stops/{id}
func (h *LouvreHandler) UpdateStop(w http.ResponseWriter, r *http.Request) {
	stop, ok := decodeLouvreStop(w, r)
	if !ok {
		return
	}
	stop.ID = r.PathValue("id")

	if err := h.st.LouvreTours.UpdateStop(r.Context(), stop); err != nil {
		storeError(w, err, "Louvre tour stop")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, stop)
}

// DeleteStop handles DELETE /admin/louvre-stops/{id}
func (h *LouvreHandler) DeleteStop(w http.ResponseWriter, r *http.Request) {
	if err := h.st.LouvreTours.DeleteStop(r.Context(), r.PathValue("id")); err != nil {
		storeError(w, err, "Louvre tour stop")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeLouvreTour(w http.ResponseWriter, r *http.Request) (*models.LouvreTour, bool) {
	var req models.LouvreTourRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return nil, false
	}
	if req.PriceCents <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "price_cents must be positive")
		return nil, false
	}
	s, ok := resolveSlug(w, req.Slug, req.Title)
	if !ok {
		return nil, false
	}

	return &models.LouvreTour{
		Slug:            s,
		Title:           req.Title,
		Description:     req.Description,
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
		CoverImage:      req.CoverImage,
		Published:       req.Published,
	}, true
}

func decodeLouvreStop(w http.ResponseWriter, r *http.Request) (*models.LouvreTourStop, bool) {
	var req models.LouvreStopRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return nil, false
	}

	return &models.LouvreTourStop{
		Position:    req.Position,
		Title:       req.Title,
		Description: req.Description,
		Room:        req.Room,
		ImageURL:    req.ImageURL,
		AudioURL:    req.AudioURL,
	}, true
}
