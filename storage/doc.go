// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package storage stores uploaded images (tour covers, flashcard pictures,
// Louvre stop photos) behind the ObjectStore interface. FileStore keeps them
// under the configured upload directory and the API serves them from
// /uploads/{key}.
package storage
