// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/csv"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/paris-guide/cliparse"
	"github.com/danielhkuo/paris-guide/middleware"
	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/store"
)

type NewsletterHandler struct {
	st  *store.Store
	cfg cliparse.Config
	now func() time.Time
}

func NewNewsletterHandler(st *store.Store, cfg cliparse.Config) *NewsletterHandler {
	return &NewsletterHandler{st: st, cfg: cfg, now: time.Now}
}

// Subscribe handles POST /newsletter/subscribe
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req models.SubscribeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if req.Locale == "" {
		req.Locale = "en"
	}

	sub := &models.Subscriber{Email: email, Locale: req.Locale, Source: req.Source}
	err := h.st.Subscribers.Subscribe(r.Context(), sub)
	if errors.Is(err, store.ErrConflict) {
		middleware.ErrorResponse(w, http.StatusConflict, "This email is already subscribed")
		return
	}
	if err != nil {
		storeError(w, err, "Subscriber")
		return
	}

	slog.Info("newsletter subscription", "subscriber_id", sub.ID, "source", sub.Source)
	middleware.JSONResponse(w, http.StatusCreated, models.MessageResponse{Message: "Subscribed"})
}

// Unsubscribe handles POST /newsletter/unsubscribe
func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req models.SubscribeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	if err := h.st.Subscribers.Unsubscribe(r.Context(), email); err != nil {
		storeError(w, err, "Subscription")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Unsubscribed"})
}

// ListSubscribers handles GET /admin/subscribers?active=true
func (h *NewsletterHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))
	subs, err := h.st.Subscribers.List(r.Context(), activeOnly)
	if err != nil {
		storeError(w, err, "Subscriber")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, subs)
}

// ExportSubscribers handles GET /admin/subscribers/export as CSV of active subscribers
func (h *NewsletterHandler) ExportSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.st.Subscribers.List(r.Context(), true)
	if err != nil {
		storeError(w, err, "Subscriber")
		return
	}

	filename := "subscribers-" + h.now().UTC().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	cw.Write([]string{"email", "locale", "source", "subscribed_at"})
	for _, s := range subs {
		cw.Write([]string{s.Email, s.Locale, s.Source, s.CreatedAt.UTC().Format(time.RFC3339)})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.Error("failed to write subscriber export", "error", err)
	}
}

// DeleteSubscriber handles DELETE /admin/subscribers/{id}
func (h *NewsletterHandler) DeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	if err := h.st.Subscribers.Delete(r.Context(), r.PathValue("id")); err != nil {
		storeError(w, err, "Subscriber")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
