// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded first (github.com/joho/godotenv).
Variables already present in the environment are not overwritten by it.

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type (sqlite or postgres)
	-base-url         Public site URL
	-api-url          Public URL of this API
	-uploads          Upload directory
	-seed             YAML seed file
	-token-secret     Session token secret
	-checkout-secret  Checkout webhook secret

# Environment Variables

	PORT             → -p (default 3318)
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t (default sqlite)
	PUBLIC_BASE_URL  → -base-url (default http://localhost:3000)
	API_BASE_URL     → -api-url (default http://localhost:<port>)
	UPLOAD_DIR       → -uploads (default ./uploads)
	SEED_FILE        → -seed
	TOKEN_SECRET     → -token-secret
	CHECKOUT_SECRET  → -checkout-secret
	CHECKOUT_URL     hosted checkout page
	MAX_UPLOAD_MB    upload size cap (default 5)
	ADMIN_EMAIL      bootstrap admin account
	ADMIN_PASSWORD   bootstrap admin password

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if DATABASE_URL, TOKEN_SECRET or CHECKOUT_SECRET
is missing, or if only one of ADMIN_EMAIL / ADMIN_PASSWORD is set.
*/
package cliparse
