// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/paris-guide/auth"
	"github.com/danielhkuo/paris-guide/checkout"
	"github.com/danielhkuo/paris-guide/cliparse"
	"github.com/danielhkuo/paris-guide/middleware"
	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/store"
)

// PreviewCards is how many flashcards a bundle shows without a city pass
const PreviewCards = 3

type BundleHandler struct {
	st  *store.Store
	cfg cliparse.Config
	now func() time.Time
}

func NewBundleHandler(st *store.Store, cfg cliparse.Config) *BundleHandler {
	return &BundleHandler{st: st, cfg: cfg, now: time.Now}
}

// ListPricing handles GET /pricing?city=
func (h *BundleHandler) ListPricing(w http.ResponseWriter, r *http.Request) {
	prices, err := h.st.Pricing.List(r.Context(), strings.ToLower(r.URL.Query().Get("city")), true)
	if err != nil {
		storeError(w, err, "Pricing")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, prices)
}

// ListBundles handles GET /bundles?city=
func (h *BundleHandler) ListBundles(w http.ResponseWriter, r *http.Request) {
	bundles, err := h.st.Bundles.List(r.Context(), r.URL.Query().Get("city"), true)
	if err != nil {
		storeError(w, err, "Bundle")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, bundles)
}

// GetBundle handles GET /bundles/{slug}
// Every card is returned with an X-Access-Token for an active city pass of
// the bundle's city; otherwise the first PreviewCards cards.
func (h *BundleHandler) GetBundle(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.st.Bundles.GetPublishedBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		storeError(w, err, "Bundle")
		return
	}

	full := h.hasCityPass(r.Context(), r.Header.Get("X-Access-Token"), bundle.City)
	limit := PreviewCards
	if full {
		limit = 0
	}

	cards, err := h.st.Flashcards.List(r.Context(), bundle.ID, limit)
	if err != nil {
		storeError(w, err, "Flashcard")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.BundleDetail{
		Bundle:     *bundle,
		Flashcards: cards,
		Preview:    !full,
	})
}

// hasCityPass reports whether token belongs to a paid, unexpired city pass for city
func (h *BundleHandler) hasCityPass(ctx context.Context, token, city string) bool {
	if token == "" {
		return false
	}

	order, err := h.st.Orders.GetByAccessToken(ctx, token)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("failed to look up city pass", "error", err)
		}
		return false
	}

	if order.Kind != models.OrderCityPass || order.City == nil || !strings.EqualFold(*order.City, city) {
		return false
	}
	return order.ExpiresAt != nil && h.now().Before(*order.ExpiresAt)
}

// PurchaseCityPass handles POST /city-pass/purchase
// Payment is simulated locally; the pass is active immediately.
func (h *BundleHandler) PurchaseCityPass(w http.ResponseWriter, r *http.Request) {
	var req models.CityPassRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	city := strings.ToLower(strings.TrimSpace(req.City))
	if city == "" || req.DurationDays < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "city and duration_days are required")
		return
	}

	price, err := h.st.Pricing.GetActive(r.Context(), city, req.DurationDays)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "No city pass is sold for this city and duration")
		return
	}
	if err != nil {
		storeError(w, err, "Pricing")
		return
	}

	receipt, err := checkout.Simulate(price.PriceCents, h.now())
	if err != nil {
		slog.Error("simulated payment failed", "error", err)
		middleware.ErrorResponse(w, http.StatusPaymentRequired, "Payment failed")
		return
	}

	token := auth.GenerateAccessToken()
	expiresAt := receipt.PaidAt.AddDate(0, 0, req.DurationDays)
	order := &models.Order{
		Reference:   receipt.Reference,
		Email:       email,
		Kind:        models.OrderCityPass,
		City:        &city,
		AmountCents: price.PriceCents,
		Currency:    price.Currency,
		Status:      receipt.Status,
		AccessToken: &token,
		ExpiresAt:   &expiresAt,
		PaidAt:      &receipt.PaidAt,
	}
	if err := h.st.Orders.Create(r.Context(), order); err != nil {
		storeError(w, err, "Order")
		return
	}

	slog.Info("city pass purchased",
		"reference", order.Reference,
		"city", city,
		"duration_days", req.DurationDays,
		"amount", models.FormatPrice(order.AmountCents),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.PurchaseResponse{
		Reference:   order.Reference,
		AccessToken: token,
		ExpiresAt:   &expiresAt,
	})
}

// AdminListBundles handles GET /admin/bundles?city=
func (h *BundleHandler) AdminListBundles(w http.ResponseWriter, r *http.Request) {
	bundles, err := h.st.Bundles.List(r.Context(), r.URL.Query().Get("city"), false)
	if err != nil {
		storeError(w, err, "Bundle")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, bundles)
}

// CreateBundle handles POST /admin/bundles
func (h *BundleHandler) CreateBundle(w http.ResponseWriter, r *http.Request) {
	bundle, ok := h.decodeBundle(w, r)
	if !ok {
		return
	}

	if err := h.st.Bundles.Create(r.Context(), bundle); err != nil {
		storeError(w, err, "Bundle")
		return
	}

	slog.Info("bundle created", "bundle_id", bundle.ID, "slug", bundle.Slug, "city", bundle.City)
	middleware.JSONResponse(w, http.StatusCreated, bundle)
}

// UpdateBundle handles PUT /admin/bundles/{id}
func (h *BundleHandler) UpdateBundle(w http.ResponseWriter, r *http.Request) {
	bundle, ok := h.decodeBundle(w, r)
	if !ok {
		return
	}
	bundle.ID = r.PathValue("id")

	if err := h.st.Bundles.Update(r.Context(), bundle); err != nil {
		storeError(w, err, "Bundle")
		return
	}

	updated, err := h.st.Bundles.Get(r.Context(), bundle.ID)
	if err != nil {
		storeError(w, err, "Bundle")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, updated)
}

// DeleteBundle handles DELETE /admin/bundles/{id}
func (h *BundleHandler) DeleteBundle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.st.Bundles.Delete(r.Context(), id); err != nil {
		storeError(w, err, "Bundle")
		return
	}

	slog.Info("bundle deleted", "bundle_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListFlashcards handles GET /admin/bundles/{id}/flashcards
func (h *BundleHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	bundleID := r.PathValue("id")
	if _, err := h.st.Bundles.Get(r.Context(), bundleID); err != nil {
		storeError(w, err, "Bundle")
		return
	}

	cards, err := h.st.Flashcards.List(r.Context(), bundleID, 0)
	if err != nil {
		storeError(w, err, "Flashcard")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, cards)
}

// CreateFlashcard handles POST /admin/bundles/{id}/flashcards
func (h *BundleHandler) CreateFlashcard(w http.ResponseWriter, r *http.Request) {
	card, ok := decodeFlashcard(w, r)
	if !ok {
		return
	}
	card.BundleID = r.PathValue("id")

	if err := h.st.Flashcards.Create(r.Context(), card); err != nil {
		storeError(w, err, "Flashcard")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, card)
}

// ReorderFlashcards handles PUT /admin/bundles/{id}/flashcards/order
func (h *BundleHandler) ReorderFlashcards(w http.ResponseWriter, r *http.Request) {
	var req models.ReorderRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.IDs) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ids is required")
		return
	}

	bundleID := r.PathValue("id")
	if err := h.st.Flashcards.Reorder(r.Context(), bundleID, req.IDs); err != nil {
		storeError(w, err, "Flashcard")
		return
	}

	cards, err := h.st.Flashcards.List(r.Context(), bundleID, 0)
	if err != nil {
		storeError(w, err, "Flashcard")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, cards)
}

// UpdateFlashcard handles PUT /admin/flashcards/{id}
func (h *BundleHandler) UpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	card, ok := decodeFlashcard(w, r)
	if !ok {
		return
	}
	card.ID = r.PathValue("id")

	current, err := h.st.Flashcards.Get(r.Context(), card.ID)
	if err != nil {
		storeError(w, err, "Flashcard")
		return
	}
	card.BundleID = current.BundleID
	if card.Position <= 0 {
		card.Position = current.Position
	}

	if err := h.st.Flashcards.Update(r.Context(), card); err != nil {
		storeError(w, err, "Flashcard")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, card)
}

// DeleteFlashcard handles DELETE /admin/flashcards/{id}
func (h *BundleHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	if err := h.st.Flashcards.Delete(r.Context(), r.PathValue("id")); err != nil {
		storeError(w, err, "Flashcard")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminListPricing handles GET /admin/pricing
func (h *BundleHandler) AdminListPricing(w http.ResponseWriter, r *http.Request) {
	prices, err := h.st.Pricing.List(r.Context(), "", false)
	if err != nil {
		storeError(w, err, "Pricing")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, prices)
}

// CreatePricing handles POST /admin/pricing
func (h *BundleHandler) CreatePricing(w http.ResponseWriter, r *http.Request) {
	price, ok := decodePricing(w, r)
	if !ok {
		return
	}

	if err := h.st.Pricing.Create(r.Context(), price); err != nil {
		storeError(w, err, "Pricing for this city and duration")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, price)
}

// UpdatePricing handles PUT /admin/pricing/{id}
func (h *BundleHandler) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	price, ok := decodePricing(w, r)
	if !ok {
		return
	}
	price.ID = r.PathValue("id")

	if err := h.st.Pricing.Update(r.Context(), price); err != nil {
		storeError(w, err, "Pricing")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, price)
}

// DeletePricing handles DELETE /admin/pricing/{id}
func (h *BundleHandler) DeletePricing(w http.ResponseWriter, r *http.Request) {
	if err := h.st.Pricing.Delete(r.Context(), r.PathValue("id")); err != nil {
		storeError(w, err, "Pricing")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BundleHandler) decodeBundle(w http.ResponseWriter, r *http.Request) (*models.Bundle, bool) {
	var req models.BundleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}

	req.Title = strings.TrimSpace(req.Title)
	req.City = strings.ToLower(strings.TrimSpace(req.City))
	if req.Title == "" || req.City == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title and city are required")
		return nil, false
	}
	s, ok := resolveSlug(w, req.Slug, req.Title)
	if !ok {
		return nil, false
	}

	return &models.Bundle{
		Slug:        s,
		City:        req.City,
		Title:       req.Title,
		Description: req.Description,
		Topic:       req.Topic,
		CoverImage:  req.CoverImage,
		Published:   req.Published,
		SortOrder:   req.SortOrder,
	}, true
}

func decodeFlashcard(w http.ResponseWriter, r *http.Request) (*models.Flashcard, bool) {
	var req models.FlashcardRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}

	req.Front = strings.TrimSpace(req.Front)
	req.Back = strings.TrimSpace(req.Back)
	if req.Front == "" || req.Back == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "front and back are required")
		return nil, false
	}

	return &models.Flashcard{
		Position: req.Position,
		Front:    req.Front,
		Back:     req.Back,
		ImageURL: req.ImageURL,
	}, true
}

func decodePricing(w http.ResponseWriter, r *http.Request) (*models.CityPricing, bool) {
	var req models.CityPricingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}

	req.City = strings.ToLower(strings.TrimSpace(req.City))
	if req.City == "" || req.DurationDays < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "city and duration_days are required")
		return nil, false
	}
	if req.PriceCents < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "price_cents cannot be negative")
		return nil, false
	}

	return &models.CityPricing{
		City:         req.City,
		DurationDays: req.DurationDays,
		PriceCents:   req.PriceCents,
		Label:        req.Label,
		Active:       boolOr(req.Active, true),
	}, true
}
