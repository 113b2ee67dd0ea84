// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs one line per request with method, path, status, duration_ms and the
client IP. Responses with a 5xx status are logged at warn level.

# CORS Middleware

Enable cross-origin requests from the front-end:

	handler := middleware.CORS(cfg.PublicBaseURL)(mux)

Preflight requests get 204. Allowed headers include Authorization,
X-Access-Token (city pass and Louvre guide access) and X-Checkout-Signature.

# Admin Sessions

Admin routes are wrapped with RequireAdmin, which checks the
"Authorization: Bearer <token>" header issued by POST /admin/login, loads the
profile and rejects non-admin accounts with 403:

	admin := middleware.RequireAdmin(cfg.TokenSecret, st.Profiles.Get, time.Now)
	mux.HandleFunc("GET /admin/me", middleware.WithLogging(admin(h.Me)))

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.CreateBookingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

Bodies larger than MaxJSONBody are rejected.

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Booking rows keep a salted hash of it, never the raw address.
*/
package middleware
