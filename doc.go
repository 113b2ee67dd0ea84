// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Paris Guide API server.

Paris Guide is the backend of a Paris tour-guide site: public content pages,
walking-tour bookings, the Louvre digital guide, museum audio guides, city
pass flashcard bundles, and the admin CMS behind them.

# Starting the Server

The server reads flags, environment variables, and a .env file:

	TOKEN_SECRET=... CHECKOUT_SECRET=... go run main.go

Or with flags:

	go run main.go -p 3318 -t postgres -d "postgres://..." -seed seed.yaml

SQLite is the default database, which is enough for local development:

	go run main.go -d ./paris.db

# Startup

On start the server opens the database, creates the schema if needed,
bootstraps the admin account from ADMIN_EMAIL / ADMIN_PASSWORD, applies the
seed file, and then serves HTTP until SIGINT or SIGTERM.

# Architecture

  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, admin sessions, JSON helpers
  - store: sqlx repositories over SQLite or PostgreSQL
  - calendar: walking-tour availability and capacity checks
  - pagebuilder: page section settings and merging
  - checkout: hosted checkout redirect and webhook signatures
  - storage: uploaded image storage
  - seed: YAML content seeding
  - models: Request/response and row types
  - auth: Passwords, session tokens, references
  - db: Connection and schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
