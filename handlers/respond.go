// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/danielhkuo/paris-guide/calendar"
	"github.com/danielhkuo/paris-guide/middleware"
	"github.com/danielhkuo/paris-guide/slug"
	"github.com/danielhkuo/paris-guide/store"
)

// storeError writes the response for an error coming out of the store.
// what names the record ("Walking tour") for 404 messages.
func storeError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, store.ErrConflict):
		middleware.ErrorResponse(w, http.StatusConflict, what+" already exists")
	case errors.Is(err, store.ErrInvalidReference):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Referenced record does not exist")
	case errors.Is(err, store.ErrInvalidOrder):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrInvalidState):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrCapacityBelowBookings):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, calendar.ErrInvalidParticipants),
		errors.Is(err, calendar.ErrInvalidRange):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, calendar.ErrInsufficientCapacity),
		errors.Is(err, calendar.ErrTourClosed):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	default:
		slog.Error("store operation failed", "record", what, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}

// normalizeEmail trims and lowercases an address, returning "" if invalid
func normalizeEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return ""
	}
	return s
}

// resolveSlug fills in a slug from the title and writes 400 when neither works
func resolveSlug(w http.ResponseWriter, explicit, title string) (string, bool) {
	s, err := slug.Resolve(strings.TrimSpace(explicit), title)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug must be lowercase letters, digits and hyphens")
		return "", false
	}
	return s, true
}

// queryInt reads a positive integer query parameter, falling back to def
func queryInt(r *http.Request, name string, def, max int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return def
	}
	if max > 0 && v > max {
		return max
	}
	return v
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
