// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/paris-guide/models"
)

type PricingRepository struct {
	db *sqlx.DB
}

// List returns city pass prices ordered by city then duration
func (r *PricingRepository) List(ctx context.Context, city string, activeOnly bool) ([]models.CityPricing, error) {
	query := `SELECT * FROM city_pricing WHERE 1 = 1`
	args := []any{}
	if city != "" {
		query += ` AND city = ?`
		args = append(args, city)
	}
	if activeOnly {
		query += ` AND active = TRUE`
	}
	query += ` ORDER BY city, duration_days`

	prices := []models.CityPricing{}
	if err := r.db.SelectContext(ctx, &prices, r.db.Rebind(query), args...); err != nil {
		return nil, classify(err, "list pricing")
	}
	for i := range prices {
		prices[i].DisplayPrice = models.FormatPrice(prices[i].PriceCents)
	}
	return prices, nil
}

// GetActive looks up the sellable price for a city pass of the given length
func (r *PricingRepository) GetActive(ctx context.Context, city string, days int) (*models.CityPricing, error) {
	var p models.CityPricing
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`
		SELECT * FROM city_pricing WHERE city = ? AND duration_days = ? AND active = TRUE
	`), city, days)
	if err != nil {
		return nil, classify(err, "get pricing")
	}
	p.DisplayPrice = models.FormatPrice(p.PriceCents)
	return &p, nil
}

func (r *PricingRepository) Create(ctx context.Context, p *models.CityPricing) error {
	id, err := newID()
	if err != nil {
		return err
	}
	p.ID = id
	if p.Currency == "" {
		p.Currency = models.CurrencyEUR
	}
	p.DisplayPrice = models.FormatPrice(p.PriceCents)
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO city_pricing (id, city, duration_days, price_cents, currency, label, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.City, p.DurationDays, p.PriceCents, p.Currency, p.Label, p.Active)
	return classify(err, "create pricing")
}

// Upsert writes a price keyed on (city, duration_days), used by seeding
func (r *PricingRepository) Upsert(ctx context.Context, p *models.CityPricing) error {
	id, err := newID()
	if err != nil {
		return err
	}
	if p.Currency == "" {
		p.Currency = models.CurrencyEUR
	}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO city_pricing (id, city, duration_days, price_cents, currency, label, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (city, duration_days) DO UPDATE
		SET price_cents = excluded.price_cents, currency = excluded.currency,
		    label = excluded.label, active = excluded.active
	`), id, p.City, p.DurationDays, p.PriceCents, p.Currency, p.Label, p.Active)
	return classify(err, "upsert pricing")
}

func (r *PricingRepository) Update(ctx context.Context, p *models.CityPricing) error {
	if p.Currency == "" {
		p.Currency = models.CurrencyEUR
	}
	p.DisplayPrice = models.FormatPrice(p.PriceCents)
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE city_pricing
		SET city = ?, duration_days = ?, price_cents = ?, currency = ?, label = ?, active = ?
		WHERE id = ?
	`), p.City, p.DurationDays, p.PriceCents, p.Currency, p.Label, p.Active, p.ID)
	return expectRow(res, err, "update pricing")
}

func (r *PricingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM city_pricing WHERE id = ?`), id)
	return expectRow(res, err, "delete pricing")
}

// PageRepository stores the raw page-builder blob per page
type PageRepository struct {
	db *sqlx.DB
}

// Get returns the stored settings, or nil when the page was never saved
func (r *PageRepository) Get(ctx context.Context, page string) ([]byte, error) {
	var row models.PageSettingsRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT * FROM landing_page_settings WHERE page = ?`), page)
	if err != nil {
		err = classify(err, "get page settings")
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(row.Settings), nil
}

func (r *PageRepository) Put(ctx context.Context, page string, settings []byte) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO landing_page_settings (page, settings, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (page) DO UPDATE SET settings = excluded.settings, updated_at = excluded.updated_at
	`), page, string(settings), now())
	return classify(err, "save page settings")
}

type GuideConfigRepository struct {
	db *sqlx.DB
}

// guideConfigRow is the stored shape; config travels as text so both drivers
// treat it the same
type guideConfigRow struct {
	Key       string    `db:"key"`
	Config    string    `db:"config"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *GuideConfigRepository) Get(ctx context.Context, key string) (*models.GuideConfig, error) {
	var row guideConfigRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT * FROM paris_guide_configs WHERE key = ?`), key)
	if err != nil {
		return nil, classify(err, "get guide config")
	}
	return &models.GuideConfig{
		Key:       row.Key,
		Config:    json.RawMessage(row.Config),
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// Put replaces the config stored under key. The value must be valid JSON.
func (r *GuideConfigRepository) Put(ctx context.Context, key string, config json.RawMessage) (*models.GuideConfig, error) {
	if !json.Valid(config) {
		return nil, fmt.Errorf("guide config %q is not valid JSON", key)
	}
	cfg := &models.GuideConfig{Key: key, Config: config, UpdatedAt: now()}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO paris_guide_configs (key, config, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET config = excluded.config, updated_at = excluded.updated_at
	`), cfg.Key, string(cfg.Config), cfg.UpdatedAt)
	if err != nil {
		return nil, classify(err, "save guide config")
	}
	return cfg, nil
}

// SiteTextRepository holds the editable copy of the site, one row per key and locale
type SiteTextRepository struct {
	db *sqlx.DB
}

// Map returns key -> value for a locale. Keys missing in the locale fall back
// to fallback when it differs.
func (r *SiteTextRepository) Map(ctx context.Context, locale, fallback string) (map[string]string, error) {
	rows := []models.SiteText{}
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT * FROM site_text_content WHERE locale = ? OR locale = ?
	`), locale, fallback)
	if err != nil {
		return nil, classify(err, "list site text")
	}

	texts := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.Locale == fallback {
			if _, ok := texts[row.Key]; !ok {
				texts[row.Key] = row.Value
			}
		}
	}
	for _, row := range rows {
		if row.Locale == locale {
			texts[row.Key] = row.Value
		}
	}
	return texts, nil
}

func (r *SiteTextRepository) List(ctx context.Context) ([]models.SiteText, error) {
	rows := []models.SiteText{}
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM site_text_content ORDER BY key, locale`); err != nil {
		return nil, classify(err, "list site text")
	}
	return rows, nil
}

func (r *SiteTextRepository) Put(ctx context.Context, t *models.SiteText) error {
	t.UpdatedAt = now()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO site_text_content (key, locale, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (key, locale) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`), t.Key, t.Locale, t.Value, t.UpdatedAt)
	return classify(err, "save site text")
}

func (r *SiteTextRepository) Delete(ctx context.Context, key, locale string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM site_text_content WHERE key = ? AND locale = ?`), key, locale)
	return expectRow(res, err, "delete site text")
}
