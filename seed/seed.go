// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/pagebuilder"
	"github.com/danielhkuo/paris-guide/slug"
	"github.com/danielhkuo/paris-guide/store"
)

// File is the YAML seed document
type File struct {
	// locale -> key -> text
	SiteText     map[string]map[string]string `yaml:"site_text"`
	Pricing      []Price                      `yaml:"pricing"`
	Categories   []Category                   `yaml:"categories"`
	Pages        map[string]any               `yaml:"pages"`
	GuideConfigs map[string]any               `yaml:"guide_configs"`
}

type Price struct {
	City         string `yaml:"city"`
	DurationDays int    `yaml:"duration_days"`
	PriceCents   int64  `yaml:"price_cents"`
	Label        string `yaml:"label"`
	Active       *bool  `yaml:"active"`
}

type Category struct {
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	SortOrder   int    `yaml:"sort_order"`
}

// Result counts what Apply wrote
type Result struct {
	SiteText     int
	Pricing      int
	Categories   int
	Pages        int
	GuideConfigs int
}

// LoadFile reads a seed document from disk
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

// Apply writes the seed into the store. It can run on every start: site text
// and pricing are upserted, while categories, pages and guide configs are
// only created when missing so admin edits survive a restart.
func Apply(ctx context.Context, st *store.Store, f *File) (Result, error) {
	var res Result

	for locale, texts := range f.SiteText {
		for key, value := range texts {
			err := st.SiteText.Put(ctx, &models.SiteText{Key: key, Locale: locale, Value: value})
			if err != nil {
				return res, err
			}
			res.SiteText++
		}
	}

	for _, p := range f.Pricing {
		if p.City == "" || p.DurationDays <= 0 || p.PriceCents < 0 {
			return res, fmt.Errorf("invalid pricing entry for %q (%d days)", p.City, p.DurationDays)
		}
		active := p.Active == nil || *p.Active
		err := st.Pricing.Upsert(ctx, &models.CityPricing{
			City:         p.City,
			DurationDays: p.DurationDays,
			PriceCents:   p.PriceCents,
			Label:        p.Label,
			Active:       active,
		})
		if err != nil {
			return res, err
		}
		res.Pricing++
	}

	for _, c := range f.Categories {
		s, err := slug.Resolve(c.Slug, c.Name)
		if err != nil {
			return res, fmt.Errorf("category %q: %w", c.Name, err)
		}
		err = st.Categories.Create(ctx, &models.BlogCategory{
			Slug:        s,
			Name:        c.Name,
			Description: c.Description,
			SortOrder:   c.SortOrder,
		})
		if errors.Is(err, store.ErrConflict) {
			continue
		}
		if err != nil {
			return res, err
		}
		res.Categories++
	}

	for page, raw := range f.Pages {
		existing, err := st.Pages.Get(ctx, page)
		if err != nil {
			return res, err
		}
		if existing != nil {
			continue
		}

		data, err := json.Marshal(raw)
		if err != nil {
			return res, fmt.Errorf("page %q: %w", page, err)
		}
		settings, err := pagebuilder.Parse(data)
		if err != nil {
			return res, fmt.Errorf("page %q: %w", page, err)
		}
		settings, err = pagebuilder.Normalize(settings)
		if err != nil {
			return res, fmt.Errorf("page %q: %w", page, err)
		}
		data, err = json.Marshal(settings)
		if err != nil {
			return res, fmt.Errorf("page %q: %w", page, err)
		}
		if err := st.Pages.Put(ctx, page, data); err != nil {
			return res, err
		}
		res.Pages++
	}

	for key, raw := range f.GuideConfigs {
		_, err := st.GuideConfigs.Get(ctx, key)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return res, err
		}

		data, err := json.Marshal(raw)
		if err != nil {
			return res, fmt.Errorf("guide config %q: %w", key, err)
		}
		if _, err := st.GuideConfigs.Put(ctx, key, data); err != nil {
			return res, err
		}
		res.GuideConfigs++
	}

	slog.Info("seed applied",
		"site_text", res.SiteText,
		"pricing", res.Pricing,
		"categories", res.Categories,
		"pages", res.Pages,
		"guide_configs", res.GuideConfigs,
	)
	return res, nil
}
