// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/paris-guide/auth"
	"github.com/danielhkuo/paris-guide/models"
)

type contextKey int

const profileKey contextKey = iota

// ProfileLookup loads the account a session token points at
type ProfileLookup func(ctx context.Context, id string) (*models.Profile, error)

// RequireAdmin only lets through requests carrying a valid
// "Authorization: Bearer <session>" for an admin account. The profile is
// available to the handler through ProfileFromContext.
func RequireAdmin(secret string, lookup ProfileLookup, now func() time.Time) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				ErrorResponse(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			profileID, err := auth.ParseSessionToken(token, secret, now())
			if err != nil {
				msg := "invalid session token"
				if errors.Is(err, auth.ErrTokenExpired) {
					msg = "session expired"
				}
				ErrorResponse(w, http.StatusUnauthorized, msg)
				return
			}

			profile, err := lookup(r.Context(), profileID)
			if err != nil || profile == nil {
				if err != nil {
					slog.Warn("session lookup failed", "profile_id", profileID, "error", err)
				}
				ErrorResponse(w, http.StatusUnauthorized, "invalid session token")
				return
			}
			if profile.Role != models.RoleAdmin {
				ErrorResponse(w, http.StatusForbidden, "admin access required")
				return
			}

			next(w, r.WithContext(context.WithValue(r.Context(), profileKey, profile)))
		}
	}
}

// ProfileFromContext returns the profile stored by RequireAdmin
func ProfileFromContext(ctx context.Context) (*models.Profile, bool) {
	p, ok := ctx.Value(profileKey).(*models.Profile)
	return p, ok
}

// BearerToken extracts the token from an Authorization header
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
