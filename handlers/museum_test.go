// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/store"
	"github.com/danielhkuo/paris-guide/testutil"
)

func seedMuseumGuides(t *testing.T, st *store.Store) {
	t.Helper()
	conf := json.RawMessage(`{"museums": {
		"orsay": {"price_cents": 990, "languages": ["en", "fr"]},
		"rodin": {"price_cents": 590}
	}}`)
	if _, err := st.GuideConfigs.Put(context.Background(), MuseumGuidesConfigKey, conf); err != nil {
		t.Fatalf("Failed to seed museum guide config: %v", err)
	}
}

func TestMuseumGuidePurchase(t *testing.T) {
	st := testutil.SetupTestDB(t)
	handler := NewMuseumHandler(st, testutil.GetTestConfig())
	seedMuseumGuides(t, st)

	tests := []struct {
		name           string
		body           models.MuseumGuideRequest
		expectedStatus int
		expectedCents  int64
	}{
		{"listed language", models.MuseumGuideRequest{Email: "ana@example.com", Museum: "Orsay", Language: "fr"}, http.StatusCreated, 990},
		{"default language", models.MuseumGuideRequest{Email: "ana@example.com", Museum: "orsay"}, http.StatusCreated, 990},
		{"any language", models.MuseumGuideRequest{Email: "ana@example.com", Museum: "rodin", Language: "ja"}, http.StatusCreated, 590},
		{"unlisted language", models.MuseumGuideRequest{Email: "ana@example.com", Museum: "orsay", Language: "de"}, http.StatusBadRequest, 0},
		{"unknown museum", models.MuseumGuideRequest{Email: "ana@example.com", Museum: "pompidou"}, http.StatusNotFound, 0},
		{"missing museum", models.MuseumGuideRequest{Email: "ana@example.com"}, http.StatusBadRequest, 0},
		{"bad email", models.MuseumGuideRequest{Email: "ana", Museum: "orsay"}, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/museum-guides/purchase", tt.body, nil)
			w := httptest.NewRecorder()
			handler.Purchase(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusCreated {
				return
			}
			var resp models.MuseumGuideResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.AccessCode == "" || resp.PurchaseID == "" {
				t.Fatalf("Expected purchase id and access code, got %+v", resp)
			}

			purchases, err := st.Museum.List(context.Background())
			if err != nil {
				t.Fatalf("Failed to list purchases: %v", err)
			}
			var found bool
			for _, p := range purchases {
				if p.ID != resp.PurchaseID {
					continue
				}
				found = true
				if p.AmountCents != tt.expectedCents {
					t.Errorf("Expected %d cents, got %d", tt.expectedCents, p.AmountCents)
				}
				if p.Status != models.OrderPaid {
					t.Errorf("Expected paid purchase, got %s", p.Status)
				}
			}
			if !found {
				t.Error("Purchase was not stored")
			}
		})
	}
}

func TestMuseumGuideNotOnSale(t *testing.T) {
	st := testutil.SetupTestDB(t)
	handler := NewMuseumHandler(st, testutil.GetTestConfig())

	body := models.MuseumGuideRequest{Email: "ana@example.com", Museum: "orsay"}
	req := testutil.MakeRequest("POST", "/museum-guides/purchase", body, nil)
	w := httptest.NewRecorder()
	handler.Purchase(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestMuseumGuideAccess(t *testing.T) {
	st := testutil.SetupTestDB(t)
	handler := NewMuseumHandler(st, testutil.GetTestConfig())
	seedMuseumGuides(t, st)

	body := models.MuseumGuideRequest{Email: "ana@example.com", Museum: "orsay", Language: "fr"}
	req := testutil.MakeRequest("POST", "/museum-guides/purchase", body, nil)
	w := httptest.NewRecorder()
	handler.Purchase(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var purchase models.MuseumGuideResponse
	testutil.AssertJSON(t, w, &purchase)

	tests := []struct {
		name           string
		code           string
		expectedStatus int
	}{
		{"valid code", purchase.AccessCode, http.StatusOK},
		{"lowercase code", strings.ToLower(purchase.AccessCode), http.StatusOK},
		{"unknown code", "NOPE", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/museum-guides/"+tt.code, nil, nil)
			req.SetPathValue("code", tt.code)
			w := httptest.NewRecorder()
			handler.Access(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusOK {
				return
			}
			var access MuseumGuideAccess
			testutil.AssertJSON(t, w, &access)
			if access.Museum != "orsay" || access.Language != "fr" {
				t.Errorf("Unexpected access payload %+v", access)
			}
		})
	}
}
