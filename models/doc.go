// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and row types for the API.

Row types carry both db and json tags and are scanned directly by sqlx.
Money is held in integer euro cents; FormatPrice renders the display price
shown next to it ("€1,250.00").

# Constants

Walking tour status:

	TourScheduled, TourCancelled, TourCompleted

Booking status:

	BookingConfirmed, BookingCancelled

Order status and kind:

	OrderPending, OrderPaid, OrderFailed, OrderCancelled
	OrderLouvreTour, OrderCityPass

Profile roles:

	RoleAdmin, RoleCustomer
*/
package models
