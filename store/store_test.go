// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/paris-guide/calendar"
	"github.com/danielhkuo/paris-guide/db"
	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, db.TypeSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.CreateSchema(ctx, conn))
	return store.New(conn)
}

func futureDate(days int) string {
	return time.Now().In(calendar.Paris).AddDate(0, 0, days).Format(calendar.DateLayout)
}

func createWalkingTour(t *testing.T, st *store.Store, seats int) *models.WalkingTour {
	t.Helper()

	wt := &models.WalkingTour{
		Title:           "Montmartre at dawn",
		Date:            futureDate(10),
		StartTime:       "09:30",
		Language:        "en",
		MaxParticipants: seats,
		PriceCents:      2500,
	}
	require.NoError(t, st.WalkingTours.Create(context.Background(), wt))
	return wt
}
