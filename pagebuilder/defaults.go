// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pagebuilder

// Defaults returns the built-in layout of a page. Unknown pages start empty.
func Defaults(page string) Settings {
	switch page {
	case "home":
		return Settings{
			Sections: []Section{
				{ID: "hero", Type: "hero", Enabled: true, Order: 0, Props: map[string]any{
					"title_key":    "home.hero.title",
					"subtitle_key": "home.hero.subtitle",
					"cta_href":     "/walking-tours",
				}},
				{ID: "about", Type: "about", Enabled: true, Order: 1, Props: map[string]any{
					"text_key": "home.about.text",
				}},
				{ID: "services", Type: "services", Enabled: true, Order: 2, Props: map[string]any{
					"featured_only": true,
				}},
				{ID: "tours", Type: "tours", Enabled: true, Order: 3, Props: map[string]any{
					"days_ahead": float64(14),
				}},
				{ID: "blog", Type: "blog", Enabled: true, Order: 4, Props: map[string]any{
					"limit": float64(3),
				}},
				{ID: "newsletter", Type: "newsletter", Enabled: true, Order: 5},
			},
			Theme: map[string]string{"accent": "#1d3557"},
		}
	case "about":
		return Settings{
			Sections: []Section{
				{ID: "hero", Type: "hero", Enabled: true, Order: 0, Props: map[string]any{
					"title_key": "about.hero.title",
				}},
				{ID: "about", Type: "about", Enabled: true, Order: 1, Props: map[string]any{
					"text_key": "about.body",
				}},
				{ID: "map", Type: "map", Enabled: true, Order: 2},
			},
		}
	case "pricing":
		return Settings{
			Sections: []Section{
				{ID: "hero", Type: "hero", Enabled: true, Order: 0, Props: map[string]any{
					"title_key": "pricing.hero.title",
				}},
				{ID: "pricing", Type: "pricing", Enabled: true, Order: 1, Props: map[string]any{
					"city": "paris",
				}},
				{ID: "cta", Type: "cta", Enabled: true, Order: 2},
			},
		}
	}
	return Settings{Sections: []Section{}}
}
