// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and token generation utilities.

# Admin Sessions

Admin passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password)

A successful login returns a signed session token:

	token := auth.IssueSessionToken(profileID, secret, time.Now())
	profileID, err := auth.ParseSessionToken(token, secret, time.Now())

The token carries the profile ID and an expiry (SessionTTL) signed with
HMAC-SHA256, so it can be validated without a session table.

# Purchases

Orders get a short upper-case reference from a UUID:

	ref := auth.GenerateReference()

Paid content is unlocked with a UUID access token, and museum guides with a
short alphanumeric access code:

	token := auth.GenerateAccessToken()
	code, err := auth.GenerateAccessCode()

# Checkout Callbacks

Hex HMAC-SHA256 signatures for the hosted checkout webhook:

	sig := auth.Sign(body, secret)
	ok := auth.VerifySignature(body, sig, secret)

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

For privacy-preserving fraud detection on bookings:

	hash := auth.HashIP(ipAddress, salt)
*/
package auth
