// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/danielhkuo/paris-guide/auth"
	"github.com/danielhkuo/paris-guide/checkout"
	"github.com/danielhkuo/paris-guide/cliparse"
	"github.com/danielhkuo/paris-guide/middleware"
	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/store"
)

// MuseumGuidesConfigKey is the guide config holding museum prices and languages
const MuseumGuidesConfigKey = "museum-guides"

type museumGuideConfig struct {
	Museums map[string]struct {
		PriceCents int64    `json:"price_cents"`
		Languages  []string `json:"languages"`
	} `json:"museums"`
}

// MuseumGuideAccess is what the audio guide app gets for a valid access code
type MuseumGuideAccess struct {
	Museum      string    `json:"museum"`
	Language    string    `json:"language"`
	PurchasedAt time.Time `json:"purchased_at"`
}

type MuseumHandler struct {
	st  *store.Store
	cfg cliparse.Config
	now func() time.Time
}

func NewMuseumHandler(st *store.Store, cfg cliparse.Config) *MuseumHandler {
	return &MuseumHandler{st: st, cfg: cfg, now: time.Now}
}

// Purchase handles POST /museum-guides/purchase
// Payment is simulated; the buyer gets an access code straight away.
func (h *MuseumHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req models.MuseumGuideRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	museum := strings.ToLower(strings.TrimSpace(req.Museum))
	if museum == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "museum is required")
		return
	}
	language := strings.ToLower(strings.TrimSpace(req.Language))
	if language == "" {
		language = "en"
	}

	gc, err := h.st.GuideConfigs.Get(r.Context(), MuseumGuidesConfigKey)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Museum guides are not on sale")
		return
	}
	if err != nil {
		storeError(w, err, "Guide config")
		return
	}

	var conf museumGuideConfig
	if err := json.Unmarshal(gc.Config, &conf); err != nil {
		slog.Error("invalid museum guide config", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Museum guide pricing is misconfigured")
		return
	}
	offer, ok := conf.Museums[museum]
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Museum guide not found")
		return
	}
	if len(offer.Languages) > 0 && !slices.Contains(offer.Languages, language) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Language not available for this museum")
		return
	}

	receipt, err := checkout.Simulate(offer.PriceCents, h.now())
	if err != nil {
		slog.Error("simulated payment failed", "museum", museum, "error", err)
		middleware.ErrorResponse(w, http.StatusPaymentRequired, "Payment failed")
		return
	}

	code, err := auth.GenerateAccessCode()
	if err != nil {
		slog.Error("failed to generate access code", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate access code")
		return
	}

	purchase := &models.MuseumGuidePurchase{
		Email:       email,
		Museum:      museum,
		Language:    language,
		AmountCents: offer.PriceCents,
		Currency:    models.CurrencyEUR,
		Status:      receipt.Status,
		AccessCode:  code,
	}
	if err := h.st.Museum.Create(r.Context(), purchase); err != nil {
		storeError(w, err, "Museum guide purchase")
		return
	}

	slog.Info("museum guide purchased",
		"purchase_id", purchase.ID,
		"museum", museum,
		"language", language,
		"payment_reference", receipt.Reference,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.MuseumGuideResponse{
		PurchaseID: purchase.ID,
		AccessCode: code,
	})
}

// Access handles GET /museum-guides/{code}
func (h *MuseumHandler) Access(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.PathValue("code")))
	purchase, err := h.st.Museum.GetByCode(r.Context(), code)
	if err != nil {
		storeError(w, err, "Access code")
		return
	}
	if purchase.Status != models.OrderPaid {
		middleware.ErrorResponse(w, http.StatusForbidden, "This guide has not been paid for")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, MuseumGuideAccess{
		Museum:      purchase.Museum,
		Language:    purchase.Language,
		PurchasedAt: purchase.CreatedAt,
	})
}

// AdminListPurchases handles GET /admin/museum-purchases
func (h *MuseumHandler) AdminListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.st.Museum.List(r.Context())
	if err != nil {
		storeError(w, err, "Museum guide purchase")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, purchases)
}
