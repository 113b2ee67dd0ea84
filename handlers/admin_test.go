// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/danielhkuo/paris-guide/auth"
	"github.com/danielhkuo/paris-guide/middleware"
	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/pagebuilder"
	"github.com/danielhkuo/paris-guide/testutil"
)

func TestLogin(t *testing.T) {
	st := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAdminHandler(st, cfg)
	admin, _ := testutil.CreateTestAdmin(t, st, cfg)

	tests := []struct {
		name           string
		body           models.LoginRequest
		expectedStatus int
	}{
		{"valid credentials", models.LoginRequest{Email: "ADMIN@paris.test", Password: testutil.TestAdminPassword}, http.StatusOK},
		{"wrong password", models.LoginRequest{Email: admin.Email, Password: "guess"}, http.StatusUnauthorized},
		{"unknown email", models.LoginRequest{Email: "nobody@paris.test", Password: "guess"}, http.StatusUnauthorized},
		{"missing password", models.LoginRequest{Email: admin.Email}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/admin/login", tt.body, nil)
			w := httptest.NewRecorder()
			handler.Login(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusOK {
				return
			}
			var resp models.LoginResponse
			testutil.AssertJSON(t, w, &resp)

			profileID, err := auth.ParseSessionToken(resp.Token, cfg.TokenSecret, time.Now())
			if err != nil {
				t.Fatalf("Issued token does not parse: %v", err)
			}
			if profileID != admin.ID {
				t.Errorf("Expected token for %s, got %s", admin.ID, profileID)
			}
			if resp.Profile.Role != models.RoleAdmin {
				t.Errorf("Expected admin profile, got role %s", resp.Profile.Role)
			}
		})
	}
}

func TestMeRequiresAdmin(t *testing.T) {
	st := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAdminHandler(st, cfg)
	me := middleware.RequireAdmin(cfg.TokenSecret, st.Profiles.Get, time.Now)(handler.Me)

	admin, adminToken := testutil.CreateTestAdmin(t, st, cfg)
	_, customerToken := testutil.CreateTestCustomer(t, st, cfg)

	tests := []struct {
		name           string
		headers        map[string]string
		expectedStatus int
	}{
		{"admin", testutil.AdminHeaders(adminToken), http.StatusOK},
		{"customer", testutil.AdminHeaders(customerToken), http.StatusForbidden},
		{"forged", testutil.AdminHeaders(adminToken + "x"), http.StatusUnauthorized},
		{"none", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/admin/me", nil, tt.headers)
			w := httptest.NewRecorder()
			me(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK {
				var p models.Profile
				testutil.AssertJSON(t, w, &p)
				if p.ID != admin.ID {
					t.Errorf("Expected profile %s, got %s", admin.ID, p.ID)
				}
			}
		})
	}
}

func TestPageEditing(t *testing.T) {
	st := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	admin := NewAdminHandler(st, cfg)
	content := NewContentHandler(st, cfg)

	getAdmin := func() pagebuilder.Settings {
		req := testutil.MakeRequest("GET", "/admin/pages/home", nil, nil)
		req.SetPathValue("page", "home")
		w := httptest.NewRecorder()
		admin.GetPage(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp PageSettingsResponse
		testutil.AssertJSON(t, w, &resp)
		return resp.Settings
	}

	defaults := getAdmin()
	if len(defaults.Sections) != len(pagebuilder.Defaults("home").Sections) {
		t.Fatalf("Expected default home sections, got %d", len(defaults.Sections))
	}

	// Disable the blog section and retitle the hero
	patch := []byte(`{"sections":[
		{"id":"blog","enabled":false},
		{"id":"hero","props":{"title_key":"home.hero.summer","cta_href":null}}
	]}`)
	req := httptest.NewRequest("PATCH", "/admin/pages/home", bytes.NewReader(patch))
	req.SetPathValue("page", "home")
	w := httptest.NewRecorder()
	admin.PatchPage(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var patched PageSettingsResponse
	testutil.AssertJSON(t, w, &patched)
	for _, s := range patched.Settings.Sections {
		if s.ID != "hero" {
			continue
		}
		if _, ok := s.Props["cta_href"]; ok {
			t.Error("Expected null prop to be removed")
		}
	}

	saved := getAdmin()
	var hero, blog *pagebuilder.Section
	for i := range saved.Sections {
		switch saved.Sections[i].ID {
		case "hero":
			hero = &saved.Sections[i]
		case "blog":
			blog = &saved.Sections[i]
		}
	}
	if hero == nil || blog == nil {
		t.Fatal("Expected hero and blog sections to survive the patch")
	}
	if blog.Enabled {
		t.Error("Expected blog section to be disabled")
	}
	if hero.Props["title_key"] != "home.hero.summer" {
		t.Errorf("Expected patched hero title, got %v", hero.Props["title_key"])
	}
	if hero.Props["subtitle_key"] != "home.hero.subtitle" {
		t.Error("Expected untouched props to be kept")
	}
	if _, ok := hero.Props["cta_href"]; ok {
		t.Error("Expected deleted prop to stay deleted after re-read")
	}

	// The public view drops disabled sections
	req = testutil.MakeRequest("GET", "/pages/home", nil, nil)
	req.SetPathValue("page", "home")
	w = httptest.NewRecorder()
	content.GetPage(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var public PageSettingsResponse
	testutil.AssertJSON(t, w, &public)
	for _, s := range public.Settings.Sections {
		if s.ID == "blog" {
			t.Error("Disabled section must not be published")
		}
	}
	if len(public.Settings.Sections) != len(saved.Sections)-1 {
		t.Errorf("Expected %d published sections, got %d", len(saved.Sections)-1, len(public.Settings.Sections))
	}
}

func TestPageDeletionsPersist(t *testing.T) {
	st := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	admin := NewAdminHandler(st, cfg)
	content := NewContentHandler(st, cfg)

	send := func(method string, body string) {
		req := httptest.NewRequest(method, "/admin/pages/home", bytes.NewReader([]byte(body)))
		req.SetPathValue("page", "home")
		w := httptest.NewRecorder()
		if method == "PUT" {
			admin.PutPage(w, req)
		} else {
			admin.PatchPage(w, req)
		}
		testutil.AssertStatus(t, w, http.StatusOK)
	}
	read := func(public bool) pagebuilder.Settings {
		req := testutil.MakeRequest("GET", "/pages/home", nil, nil)
		req.SetPathValue("page", "home")
		w := httptest.NewRecorder()
		if public {
			content.GetPage(w, req)
		} else {
			admin.GetPage(w, req)
		}
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp PageSettingsResponse
		testutil.AssertJSON(t, w, &resp)
		return resp.Settings
	}
	section := func(s pagebuilder.Settings, id string) *pagebuilder.Section {
		for i := range s.Sections {
			if s.Sections[i].ID == id {
				return &s.Sections[i]
			}
		}
		return nil
	}

	send("PATCH", `{
		"sections":[{"id":"hero","props":{"cta_href":null}}],
		"remove":["blog"],
		"theme":{"accent":null}
	}`)

	for _, public := range []bool{false, true} {
		s := read(public)
		if section(s, "blog") != nil {
			t.Errorf("public=%v: removed section came back", public)
		}
		hero := section(s, "hero")
		if hero == nil {
			t.Fatalf("public=%v: hero section missing", public)
		}
		if v, ok := hero.Props["cta_href"]; ok {
			t.Errorf("public=%v: deleted prop came back: %v", public, v)
		}
		if v, ok := s.Theme["accent"]; ok {
			t.Errorf("public=%v: deleted theme key came back: %s", public, v)
		}
	}

	// A full replacement that leaves out a default section keeps it out
	send("PUT", `{"sections":[
		{"id":"hero","type":"hero","enabled":true,"order":0},
		{"id":"newsletter","type":"newsletter","enabled":true,"order":1}
	]}`)
	s := read(false)
	if len(s.Sections) != 2 || section(s, "about") != nil {
		t.Errorf("Expected only the replaced sections, got %+v", s.Sections)
	}
}

func TestPutPageValidation(t *testing.T) {
	st := testutil.SetupTestDB(t)
	handler := NewAdminHandler(st, testutil.GetTestConfig())

	tests := []struct {
		name           string
		page           string
		body           string
		expectedStatus int
	}{
		{"valid", "about", `{"sections":[{"id":"a","type":"about","enabled":true}]}`, http.StatusOK},
		{"unknown type", "about", `{"sections":[{"id":"a","type":"carousel"}]}`, http.StatusBadRequest},
		{"duplicate ids", "about", `{"sections":[{"id":"a","type":"about"},{"id":"a","type":"cta"}]}`, http.StatusBadRequest},
		{"invalid JSON", "about", `{"sections":`, http.StatusBadRequest},
		{"invalid page name", "About Us", `{}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("PUT", "/admin/pages/x", bytes.NewReader([]byte(tt.body)))
			req.SetPathValue("page", tt.page)
			w := httptest.NewRecorder()
			handler.PutPage(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestSiteTextFallback(t *testing.T) {
	st := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	admin := NewAdminHandler(st, cfg)
	content := NewContentHandler(st, cfg)

	put := func(key string, body models.SiteTextRequest) {
		req := testutil.MakeRequest("PUT", "/admin/content/"+key, body, nil)
		req.SetPathValue("key", key)
		w := httptest.NewRecorder()
		admin.PutSiteText(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	put("home.hero.title", models.SiteTextRequest{Value: "Discover Paris"})
	put("home.hero.title", models.SiteTextRequest{Locale: "FR", Value: "Découvrez Paris"})
	put("home.about.text", models.SiteTextRequest{Value: "Licensed guide"})

	req := testutil.MakeRequest("GET", "/content?locale=fr", nil, nil)
	w := httptest.NewRecorder()
	content.SiteText(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var texts map[string]string
	testutil.AssertJSON(t, w, &texts)
	if texts["home.hero.title"] != "Découvrez Paris" {
		t.Errorf("Expected French title, got %q", texts["home.hero.title"])
	}
	if texts["home.about.text"] != "Licensed guide" {
		t.Errorf("Expected English fallback, got %q", texts["home.about.text"])
	}

	req = testutil.MakeRequest("DELETE", "/admin/content/home.hero.title?locale=fr", nil, nil)
	req.SetPathValue("key", "home.hero.title")
	w = httptest.NewRecorder()
	admin.DeleteSiteText(w, req)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	req = testutil.MakeRequest("DELETE", "/admin/content/home.hero.title?locale=fr", nil, nil)
	req.SetPathValue("key", "home.hero.title")
	w = httptest.NewRecorder()
	admin.DeleteSiteText(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGuideConfigs(t *testing.T) {
	st := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	admin := NewAdminHandler(st, cfg)
	content := NewContentHandler(st, cfg)

	tests := []struct {
		name           string
		key            string
		body           string
		expectedStatus int
	}{
		{"object", "map-settings", `{"zoom": 13, "center": [48.8566, 2.3522]}`, http.StatusOK},
		{"array", "map-settings", `[1, 2]`, http.StatusBadRequest},
		{"not JSON", "map-settings", `zoom=13`, http.StatusBadRequest},
		{"bad key", "Map Settings", `{}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("PUT", "/admin/guide-configs/"+url.PathEscape(tt.key), bytes.NewReader([]byte(tt.body)))
			req.SetPathValue("key", tt.key)
			w := httptest.NewRecorder()
			admin.PutGuideConfig(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	req := testutil.MakeRequest("GET", "/guide-configs/map-settings", nil, nil)
	req.SetPathValue("key", "map-settings")
	w := httptest.NewRecorder()
	content.GuideConfig(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var gc models.GuideConfig
	testutil.AssertJSON(t, w, &gc)
	if !bytes.Contains(gc.Config, []byte(`"zoom"`)) {
		t.Errorf("Expected stored config, got %s", gc.Config)
	}

	req = testutil.MakeRequest("GET", "/guide-configs/missing", nil, nil)
	req.SetPathValue("key", "missing")
	w = httptest.NewRecorder()
	content.GuideConfig(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
