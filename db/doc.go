// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Two drivers are supported, selected by DATABASE_TYPE:

  - postgres: github.com/lib/pq
  - sqlite: modernc.org/sqlite (pure Go; used for development and tests)

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

SQLite connections get foreign keys and a busy timeout enabled and are limited
to one open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - profile: admin and customer accounts
  - tours: service catalogue
  - walking_tours: dated departures with capacity
  - walking_tour_bookings: seats reserved by guests
  - blog_categories, posts: blog
  - newsletter_subscribers: mailing list
  - bundles, flashcards: city pass learning content
  - louvre_tours, louvre_tour_stops: Louvre digital guide
  - orders: paid purchases (Louvre guide, city pass)
  - museum_guide_purchases: museum audio guide codes
  - map_points: points on the interactive map
  - city_pricing: city pass price grid
  - landing_page_settings: page builder JSON per page
  - paris_guide_configs: free-form JSON configuration blobs
  - site_text_content: editable site copy per locale

# Relationships

	tours 1──* walking_tours 1──* walking_tour_bookings
	blog_categories 1──* posts
	bundles 1──* flashcards
	louvre_tours 1──* louvre_tour_stops
	orders *──1 bundles / louvre_tours / profile

# Errors

IsUniqueViolation and IsForeignKeyViolation recognise constraint errors from
both drivers so callers can map them to 409 responses.
*/
package db
