// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/paris-guide/auth"
	"github.com/danielhkuo/paris-guide/calendar"
	"github.com/danielhkuo/paris-guide/cliparse"
	"github.com/danielhkuo/paris-guide/db"
	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/store"
)

// TestDBURL is an in-memory SQLite database, fresh for every connection
const TestDBURL = ":memory:"

// TestAdminPassword is the password of the admin created by CreateTestAdmin
const TestAdminPassword = "correct horse battery staple"

// SetupTestDB creates a fresh test database with the full schema. It is
// closed when the test ends.
func SetupTestDB(t *testing.T) *store.Store {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(ctx, conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return store.New(conn)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    TestDBURL,
		DatabaseType:   db.TypeSQLite,
		TokenSecret:    "test-token-secret",
		CheckoutURL:    "https://checkout.test/pay",
		CheckoutSecret: "test-checkout-secret",
		PublicBaseURL:  "https://paris.test",
		MaxUploadMB:    1,
	}
}

// CreateTestAdmin creates an admin profile and returns it with a valid
// session token
func CreateTestAdmin(t *testing.T, st *store.Store, cfg cliparse.Config) (*models.Profile, string) {
	t.Helper()
	return createTestProfile(t, st, cfg, "admin@paris.test", models.RoleAdmin)
}

// CreateTestCustomer creates a non-admin profile and returns it with a
// session token
func CreateTestCustomer(t *testing.T, st *store.Store, cfg cliparse.Config) (*models.Profile, string) {
	t.Helper()
	return createTestProfile(t, st, cfg, "visitor@paris.test", models.RoleCustomer)
}

func createTestProfile(t *testing.T, st *store.Store, cfg cliparse.Config, email, role string) (*models.Profile, string) {
	t.Helper()

	hash, err := auth.HashPassword(TestAdminPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	p := &models.Profile{Email: email, PasswordHash: hash, FullName: "Test " + role, Role: role}
	if err := st.Profiles.Create(context.Background(), p); err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}

	return p, auth.IssueSessionToken(p.ID, cfg.TokenSecret, time.Now())
}

// AdminHeaders returns the Authorization header for a session token
func AdminHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// FutureDate returns the Paris calendar date days from today
func FutureDate(days int) string {
	return time.Now().In(calendar.Paris).AddDate(0, 0, days).Format(calendar.DateLayout)
}

// CreateTestWalkingTour schedules a departure daysAhead days from today
func CreateTestWalkingTour(t *testing.T, st *store.Store, daysAhead, seats int) *models.WalkingTour {
	t.Helper()

	wt := &models.WalkingTour{
		Title:           "Le Marais by night",
		Date:            FutureDate(daysAhead),
		StartTime:       "18:30",
		MeetingPoint:    "Place des Vosges",
		Language:        "en",
		MaxParticipants: seats,
		PriceCents:      3500,
		Status:          models.TourScheduled,
	}
	if err := st.WalkingTours.Create(context.Background(), wt); err != nil {
		t.Fatalf("Failed to create test walking tour: %v", err)
	}
	return wt
}

// CreateTestBundle creates a published bundle with cards flashcards
func CreateTestBundle(t *testing.T, st *store.Store, city string, cards int) *models.Bundle {
	t.Helper()
	ctx := context.Background()

	b := &models.Bundle{
		Slug:      city + "-essentials",
		City:      city,
		Title:     "Essentials",
		Topic:     "phrases",
		Published: true,
	}
	if err := st.Bundles.Create(ctx, b); err != nil {
		t.Fatalf("Failed to create test bundle: %v", err)
	}

	for i := range cards {
		c := &models.Flashcard{
			BundleID: b.ID,
			Front:    "Front " + string(rune('A'+i)),
			Back:     "Back " + string(rune('A'+i)),
		}
		if err := st.Flashcards.Create(ctx, c); err != nil {
			t.Fatalf("Failed to create test flashcard: %v", err)
		}
	}
	return b
}

// CreateTestLouvreTour creates a published Louvre tour with stops
func CreateTestLouvreTour(t *testing.T, st *store.Store, slug string, stops int) *models.LouvreTour {
	t.Helper()
	ctx := context.Background()

	lt := &models.LouvreTour{
		Slug:            slug,
		Title:           "Masterpieces in 90 minutes",
		PriceCents:      1490,
		DurationMinutes: 90,
		Published:       true,
	}
	if err := st.LouvreTours.Create(ctx, lt); err != nil {
		t.Fatalf("Failed to create test louvre tour: %v", err)
	}

	for i := range stops {
		s := &models.LouvreTourStop{
			LouvreTourID: lt.ID,
			Title:        "Stop " + string(rune('1'+i)),
			Description:  "What to look for",
			Room:         "Denon 711",
			AudioURL:     "https://paris.test/audio.mp3",
		}
		if err := st.LouvreTours.AddStop(ctx, s); err != nil {
			t.Fatalf("Failed to create test louvre stop: %v", err)
		}
	}
	return lt
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
