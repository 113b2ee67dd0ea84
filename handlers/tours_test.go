// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/testutil"
)

func createTestTour(t *testing.T, h *TourHandler, body models.TourRequest) models.Tour {
	t.Helper()
	req := testutil.MakeRequest("POST", "/admin/tours", body, nil)
	w := httptest.NewRecorder()
	h.CreateTour(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var tour models.Tour
	testutil.AssertJSON(t, w, &tour)
	return tour
}

func TestTourCatalogue(t *testing.T) {
	st := testutil.SetupTestDB(t)
	handler := NewTourHandler(st, testutil.GetTestConfig())

	inactive := false
	montmartre := createTestTour(t, handler, models.TourRequest{Title: "Montmartre & Sacré-Cœur", PriceCents: 125000, Featured: true})
	createTestTour(t, handler, models.TourRequest{Title: "Private Versailles", PriceCents: 45000, Active: &inactive})

	if montmartre.Slug != "montmartre-sacre-coeur" {
		t.Errorf("Expected folded slug, got %q", montmartre.Slug)
	}
	if montmartre.DisplayPrice != "€1,250.00" {
		t.Errorf("Expected display price €1,250.00, got %q", montmartre.DisplayPrice)
	}

	req := testutil.MakeRequest("GET", "/tours", nil, nil)
	w := httptest.NewRecorder()
	handler.ListTours(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var public []models.Tour
	testutil.AssertJSON(t, w, &public)
	if len(public) != 1 || public[0].ID != montmartre.ID {
		t.Fatalf("Expected only the active tour, got %+v", public)
	}

	req = testutil.MakeRequest("GET", "/admin/tours", nil, nil)
	w = httptest.NewRecorder()
	handler.AdminListTours(w, req)
	var all []models.Tour
	testutil.AssertJSON(t, w, &all)
	if len(all) != 2 {
		t.Errorf("Expected 2 tours for admin, got %d", len(all))
	}

	tests := []struct {
		name           string
		slug           string
		expectedStatus int
	}{
		{"active", "montmartre-sacre-coeur", http.StatusOK},
		{"inactive", "private-versailles", http.StatusNotFound},
		{"unknown", "catacombs", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/tours/"+tt.slug, nil, nil)
			req.SetPathValue("slug", tt.slug)
			w := httptest.NewRecorder()
			handler.GetTour(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestTourValidation(t *testing.T) {
	st := testutil.SetupTestDB(t)
	handler := NewTourHandler(st, testutil.GetTestConfig())
	createTestTour(t, handler, models.TourRequest{Title: "Latin Quarter"})

	tests := []struct {
		name           string
		body           models.TourRequest
		expectedStatus int
	}{
		{"missing title", models.TourRequest{PriceCents: 100}, http.StatusBadRequest},
		{"negative price", models.TourRequest{Title: "Seine", PriceCents: -1}, http.StatusBadRequest},
		{"bad slug", models.TourRequest{Title: "Seine", Slug: "Seine Cruise"}, http.StatusBadRequest},
		{"duplicate slug", models.TourRequest{Title: "Latin quarter!"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/admin/tours", tt.body, nil)
			w := httptest.NewRecorder()
			handler.CreateTour(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	req := testutil.MakeRequest("PUT", "/admin/tours/missing", models.TourRequest{Title: "Ghost"}, nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	handler.UpdateTour(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
