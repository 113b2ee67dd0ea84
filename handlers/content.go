// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/paris-guide/calendar"
	"github.com/danielhkuo/paris-guide/cliparse"
	"github.com/danielhkuo/paris-guide/middleware"
	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/pagebuilder"
	"github.com/danielhkuo/paris-guide/slug"
	"github.com/danielhkuo/paris-guide/store"
)

const (
	// DefaultLocale is the language every site text key exists in
	DefaultLocale = "en"

	HomeFeaturedTours = 6
	HomeRecentPosts   = 3
	HomeCalendarDays  = 14
)

// HomeResponse is everything the landing page needs in one round trip
type HomeResponse struct {
	Page          pagebuilder.Settings `json:"page"`
	Text          map[string]string    `json:"text"`
	FeaturedTours []models.Tour        `json:"featured_tours"`
	Upcoming      []calendar.Day       `json:"upcoming"`
	RecentPosts   []models.Post        `json:"recent_posts"`
}

type ContentHandler struct {
	st  *store.Store
	cfg cliparse.Config
	now func() time.Time
}

func NewContentHandler(st *store.Store, cfg cliparse.Config) *ContentHandler {
	return &ContentHandler{st: st, cfg: cfg, now: time.Now}
}

// Home handles GET /home?locale=
// The five parts are loaded concurrently; any failure fails the request.
func (h *ContentHandler) Home(w http.ResponseWriter, r *http.Request) {
	locale := localeOr(r.URL.Query().Get("locale"))
	from, to, err := calendar.ParseRange("", h.now().In(calendar.Paris).AddDate(0, 0, HomeCalendarDays).Format(calendar.DateLayout), h.now())
	if err != nil {
		slog.Error("failed to compute home calendar range", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load home page")
		return
	}

	var resp HomeResponse
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		stored, err := h.st.Pages.Get(ctx, "home")
		if err != nil {
			return err
		}
		settings, err := pagebuilder.Resolve("home", stored)
		if err != nil {
			return err
		}
		resp.Page = pagebuilder.Published(settings)
		return nil
	})
	g.Go(func() error {
		texts, err := h.st.SiteText.Map(ctx, locale, DefaultLocale)
		resp.Text = texts
		return err
	})
	g.Go(func() error {
		tours, err := h.st.Tours.Featured(ctx, HomeFeaturedTours)
		resp.FeaturedTours = tours
		return err
	})
	g.Go(func() error {
		tours, err := h.st.WalkingTours.ListRange(ctx, from, to)
		if err != nil {
			return err
		}
		resp.Upcoming = calendar.GroupByDate(tours)
		return nil
	})
	g.Go(func() error {
		posts, _, err := h.st.Posts.ListPublished(ctx, "", HomeRecentPosts, 0)
		resp.RecentPosts = posts
		return err
	})

	if err := g.Wait(); err != nil {
		slog.Error("failed to load home page", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load home page")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetPage handles GET /pages/{page}
// Only enabled sections are returned.
func (h *ContentHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page := r.PathValue("page")
	if !slug.Valid(page) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Page not found")
		return
	}

	stored, err := h.st.Pages.Get(r.Context(), page)
	if err != nil {
		storeError(w, err, "Page")
		return
	}
	settings, err := pagebuilder.Resolve(page, stored)
	if err != nil {
		slog.Error("stored page settings are invalid", "page", page, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Stored page settings are invalid")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, PageSettingsResponse{
		Page:     page,
		Settings: pagebuilder.Published(settings),
	})
}

// SiteText handles GET /content?locale=
func (h *ContentHandler) SiteText(w http.ResponseWriter, r *http.Request) {
	texts, err := h.st.SiteText.Map(r.Context(), localeOr(r.URL.Query().Get("locale")), DefaultLocale)
	if err != nil {
		storeError(w, err, "Site text")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, texts)
}

// GuideConfig handles GET /guide-configs/{key}
func (h *ContentHandler) GuideConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.st.GuideConfigs.Get(r.Context(), r.PathValue("key"))
	if err != nil {
		storeError(w, err, "Guide config")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, cfg)
}
