// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Paris Guide API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - ContentHandler: Home payload, published pages, site text, guide configs
  - AdminHandler: Login, page editor, site text and guide config editing
  - TourHandler: Service catalogue
  - WalkingTourHandler: Availability calendar, bookings, walking tour CRUD
  - BlogHandler: Posts and categories
  - NewsletterHandler: Subscriptions and CSV export
  - BundleHandler: Flashcard bundles, city pass pricing and purchase
  - LouvreHandler: Louvre tours, hosted checkout, webhook, guide access
  - MuseumHandler: Museum audio guide purchases
  - MapPointHandler: Map points
  - UploadHandler: Image uploads (takes a storage.ObjectStore instead of the store)

Handlers are created via constructor functions:

	walkingHandler := handlers.NewWalkingTourHandler(st, cfg)

# Bookings

A booking is checked against the tour's remaining seats before it is
written, and the seat count is incremented with a conditional update in the
same transaction. Two guests racing for the last seats cannot both succeed;
the loser gets 409.

# Louvre Checkout

	POST /louvre-tours/{slug}/checkout → pending order + redirect URL
	POST /payments/webhook             → signed callback marks paid/failed
	GET  /orders/{reference}           → status, access token once paid
	GET  /louvre-tours/{slug}/guide    → full stops with X-Access-Token

Replayed webhooks for an order already in the reported state return 200.
A callback that contradicts a settled order returns 409.

# Locked Content

Bundles show the first PreviewCards flashcards unless the request carries
the access token of a paid, unexpired city pass for the bundle's city.
Louvre tours show stop titles and rooms only until the guide is bought.

# Errors

Store errors are mapped to statuses in one place (storeError): not found
gives 404, unique violations 409, bad references 400, capacity and state
conflicts 409. Anything else is logged and returned as 500.
*/
package handlers
