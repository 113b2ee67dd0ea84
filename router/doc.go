// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Paris Guide API.

# Route Registration

NewRouter creates a configured handler with all endpoints, wrapped in CORS
for the public site:

	handler := router.NewRouter(st, objects, cfg)

# Endpoints

Health:

	GET /health
	GET /

Content (public):

	GET /home                  - Landing page payload
	GET /pages/{page}          - Published page sections
	GET /content?locale=       - Site text
	GET /guide-configs/{key}   - Guide configuration
	GET /tours, /tours/{slug}  - Service catalogue
	GET /blog/posts, /blog/posts/{slug}, /blog/categories
	GET /map-points?category=
	GET /uploads/{key...}      - Uploaded images

Purchases (public):

	GET  /walking-tours/calendar       - Availability by day
	POST /walking-tours/{id}/bookings  - Book seats
	POST /newsletter/subscribe, /newsletter/unsubscribe
	GET  /pricing, /bundles, /bundles/{slug}
	POST /city-pass/purchase
	GET  /louvre-tours, /louvre-tours/{slug}
	POST /louvre-tours/{slug}/checkout - Hosted checkout redirect
	GET  /louvre-tours/{slug}/guide    - Full guide (X-Access-Token)
	POST /payments/webhook             - Checkout callback
	GET  /orders/{reference}           - Order status
	POST /museum-guides/purchase
	GET  /museum-guides/{code}         - Redeem an access code

Admin (Authorization: Bearer <token> from POST /admin/login):

	GET /admin/me
	GET|PUT|PATCH /admin/pages/{page}
	/admin/content, /admin/guide-configs
	/admin/tours, /admin/walking-tours, /admin/bookings
	/admin/posts, /admin/categories, /admin/subscribers
	/admin/bundles, /admin/flashcards, /admin/pricing
	/admin/louvre-tours, /admin/louvre-stops, /admin/orders
	/admin/museum-purchases, /admin/map-points, /admin/uploads

# Handler Initialization

Handlers receive the store and configuration:

	walkingHandler := handlers.NewWalkingTourHandler(st, cfg)
	uploadHandler := handlers.NewUploadHandler(objects, cfg)
*/
package router
