// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/paris-guide/models"
)

// TourRepository manages the services catalogue
type TourRepository struct {
	db *sqlx.DB
}

func (r *TourRepository) List(ctx context.Context, activeOnly bool) ([]models.Tour, error) {
	query := `SELECT * FROM tours`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY sort_order, title`

	tours := []models.Tour{}
	if err := r.db.SelectContext(ctx, &tours, query); err != nil {
		return nil, classify(err, "list tours")
	}
	return withTourPrices(tours), nil
}

func (r *TourRepository) Featured(ctx context.Context, limit int) ([]models.Tour, error) {
	tours := []models.Tour{}
	err := r.db.SelectContext(ctx, &tours, r.db.Rebind(`
		SELECT * FROM tours
		WHERE active = TRUE AND featured = TRUE
		ORDER BY sort_order, title
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, classify(err, "list featured tours")
	}
	return withTourPrices(tours), nil
}

func (r *TourRepository) Get(ctx context.Context, id string) (*models.Tour, error) {
	var t models.Tour
	if err := r.db.GetContext(ctx, &t, r.db.Rebind(`SELECT * FROM tours WHERE id = ?`), id); err != nil {
		return nil, classify(err, "get tour")
	}
	t.DisplayPrice = models.FormatPrice(t.PriceCents)
	return &t, nil
}

func (r *TourRepository) GetActiveBySlug(ctx context.Context, slug string) (*models.Tour, error) {
	var t models.Tour
	err := r.db.GetContext(ctx, &t, r.db.Rebind(`SELECT * FROM tours WHERE slug = ? AND active = TRUE`), slug)
	if err != nil {
		return nil, classify(err, "get tour")
	}
	t.DisplayPrice = models.FormatPrice(t.PriceCents)
	return &t, nil
}

func (r *TourRepository) Create(ctx context.Context, t *models.Tour) error {
	id, err := newID()
	if err != nil {
		return err
	}
	t.ID = id
	t.CreatedAt = now()
	t.UpdatedAt = t.CreatedAt
	t.DisplayPrice = models.FormatPrice(t.PriceCents)
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO tours (id, slug, title, summary, description, duration_minutes, price_cents,
		                   image_url, featured, sort_order, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), t.ID, t.Slug, t.Title, t.Summary, t.Description, t.DurationMinutes, t.PriceCents,
		t.ImageURL, t.Featured, t.SortOrder, t.Active, t.CreatedAt, t.UpdatedAt)
	return classify(err, "create tour")
}

func (r *TourRepository) Update(ctx context.Context, t *models.Tour) error {
	t.UpdatedAt = now()
	t.DisplayPrice = models.FormatPrice(t.PriceCents)
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE tours
		SET slug = ?, title = ?, summary = ?, description = ?, duration_minutes = ?, price_cents = ?,
		    image_url = ?, featured = ?, sort_order = ?, active = ?, updated_at = ?
		WHERE id = ?
	`), t.Slug, t.Title, t.Summary, t.Description, t.DurationMinutes, t.PriceCents,
		t.ImageURL, t.Featured, t.SortOrder, t.Active, t.UpdatedAt, t.ID)
	return expectRow(res, err, "update tour")
}

func (r *TourRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM tours WHERE id = ?`), id)
	return expectRow(res, err, "delete tour")
}

func withTourPrices(tours []models.Tour) []models.Tour {
	for i := range tours {
		tours[i].DisplayPrice = models.FormatPrice(tours[i].PriceCents)
	}
	return tours
}
