// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/paris-guide/auth"
	"github.com/danielhkuo/paris-guide/cliparse"
	"github.com/danielhkuo/paris-guide/middleware"
	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/pagebuilder"
	"github.com/danielhkuo/paris-guide/slug"
	"github.com/danielhkuo/paris-guide/store"
)

// PageSettingsResponse carries the resolved page-builder settings of a page
type PageSettingsResponse struct {
	Page     string               `json:"page"`
	Settings pagebuilder.Settings `json:"settings"`
}

type AdminHandler struct {
	st  *store.Store
	cfg cliparse.Config
	now func() time.Time
}

func NewAdminHandler(st *store.Store, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{st: st, cfg: cfg, now: time.Now}
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	profile, err := h.st.Profiles.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, auth.ErrInvalidPassword.Error())
		return
	}
	if err != nil {
		storeError(w, err, "Profile")
		return
	}

	if err := auth.CheckPassword(profile.PasswordHash, req.Password); err != nil {
		slog.Warn("failed admin login", "email", profile.Email, "remote", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusUnauthorized, auth.ErrInvalidPassword.Error())
		return
	}

	issued := h.now()
	token := auth.IssueSessionToken(profile.ID, h.cfg.TokenSecret, issued)

	slog.Info("admin logged in", "profile_id", profile.ID)
	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: issued.Add(auth.SessionTTL).UTC(),
		Profile:   *profile,
	})
}

// Me handles GET /admin/me
func (h *AdminHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "not signed in")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, profile)
}

// GetPage handles GET /admin/pages/{page}
// It returns the saved settings, or the defaults for a page never saved,
// disabled sections included.
func (h *AdminHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page := r.PathValue("page")
	settings, ok := h.resolvePage(w, r, page)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, PageSettingsResponse{Page: page, Settings: settings})
}

// PutPage handles PUT /admin/pages/{page}
func (h *AdminHandler) PutPage(w http.ResponseWriter, r *http.Request) {
	page := r.PathValue("page")
	if !slug.Valid(page) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid page name")
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, middleware.MaxJSONBody))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read body")
		return
	}
	settings, err := pagebuilder.Parse(raw)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	settings, err = pagebuilder.Normalize(settings)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	h.savePage(w, r, page, settings)
}

// PatchPage handles PATCH /admin/pages/{page}
// Sections are merged by ID into the current settings; a null prop deletes it.
func (h *AdminHandler) PatchPage(w http.ResponseWriter, r *http.Request) {
	page := r.PathValue("page")
	current, ok := h.resolvePage(w, r, page)
	if !ok {
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, middleware.MaxJSONBody))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read body")
		return
	}
	patch, err := pagebuilder.ParsePatch(raw)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	merged, err := pagebuilder.Merge(current, patch)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	h.savePage(w, r, page, merged)
}

func (h *AdminHandler) resolvePage(w http.ResponseWriter, r *http.Request, page string) (pagebuilder.Settings, bool) {
	if !slug.Valid(page) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid page name")
		return pagebuilder.Settings{}, false
	}

	stored, err := h.st.Pages.Get(r.Context(), page)
	if err != nil {
		storeError(w, err, "Page")
		return pagebuilder.Settings{}, false
	}

	settings, err := pagebuilder.Resolve(page, stored)
	if err != nil {
		slog.Error("stored page settings are invalid", "page", page, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Stored page settings are invalid")
		return pagebuilder.Settings{}, false
	}
	return settings, true
}

func (h *AdminHandler) savePage(w http.ResponseWriter, r *http.Request, page string, settings pagebuilder.Settings) {
	blob, err := json.Marshal(settings)
	if err != nil {
		slog.Error("failed to encode page settings", "page", page, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save page")
		return
	}
	if err := h.st.Pages.Put(r.Context(), page, blob); err != nil {
		storeError(w, err, "Page")
		return
	}

	slog.Info("page settings saved", "page", page, "sections", len(settings.Sections))
	middleware.JSONResponse(w, http.StatusOK, PageSettingsResponse{Page: page, Settings: settings})
}

// ListSiteText handles GET /admin/content
func (h *AdminHandler) ListSiteText(w http.ResponseWriter, r *http.Request) {
	texts, err := h.st.SiteText.List(r.Context())
	if err != nil {
		storeError(w, err, "Site text")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, texts)
}

// PutSiteText handles PUT /admin/content/{key}
func (h *AdminHandler) PutSiteText(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.PathValue("key"))
	if key == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "key is required")
		return
	}

	var req models.SiteTextRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	text := &models.SiteText{Key: key, Locale: localeOr(req.Locale), Value: req.Value}
	if err := h.st.SiteText.Put(r.Context(), text); err != nil {
		storeError(w, err, "Site text")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, text)
}

// DeleteSiteText handles DELETE /admin/content/{key}?locale=
func (h *AdminHandler) DeleteSiteText(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if err := h.st.SiteText.Delete(r.Context(), key, localeOr(r.URL.Query().Get("locale"))); err != nil {
		storeError(w, err, "Site text")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutGuideConfig handles PUT /admin/guide-configs/{key}
// The body is stored as-is and must be a JSON object.
func (h *AdminHandler) PutGuideConfig(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if !slug.Valid(key) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid config key")
		return
	}

	var raw json.RawMessage
	if err := middleware.ParseJSONBody(r, &raw); err != nil || !strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "config must be a JSON object")
		return
	}

	cfg, err := h.st.GuideConfigs.Put(r.Context(), key, raw)
	if err != nil {
		storeError(w, err, "Guide config")
		return
	}

	slog.Info("guide config saved", "key", key)
	middleware.JSONResponse(w, http.StatusOK, cfg)
}

// localeOr returns the lowercased locale, "en" when empty
func localeOr(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		return DefaultLocale
	}
	return locale
}
