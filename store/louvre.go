// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/paris-guide/models"
)

// LouvreTourRepository manages the Louvre digital guide and its stops
type LouvreTourRepository struct {
	db *sqlx.DB
}

func (r *LouvreTourRepository) List(ctx context.Context, publishedOnly bool) ([]models.LouvreTour, error) {
	query := `SELECT * FROM louvre_tours`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY title`

	tours := []models.LouvreTour{}
	if err := r.db.SelectContext(ctx, &tours, query); err != nil {
		return nil, classify(err, "list louvre tours")
	}
	for i := range tours {
		tours[i].DisplayPrice = models.FormatPrice(tours[i].PriceCents)
	}
	return tours, nil
}

func (r *LouvreTourRepository) Get(ctx context.Context, id string) (*models.LouvreTour, error) {
	var t models.LouvreTour
	if err := r.db.GetContext(ctx, &t, r.db.Rebind(`SELECT * FROM louvre_tours WHERE id = ?`), id); err != nil {
		return nil, classify(err, "get louvre tour")
	}
	t.DisplayPrice = models.FormatPrice(t.PriceCents)
	return &t, nil
}

func (r *LouvreTourRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.LouvreTour, error) {
	var t models.LouvreTour
	err := r.db.GetContext(ctx, &t, r.db.Rebind(`SELECT * FROM louvre_tours WHERE slug = ? AND published = TRUE`), slug)
	if err != nil {
		return nil, classify(err, "get louvre tour")
	}
	t.DisplayPrice = models.FormatPrice(t.PriceCents)
	return &t, nil
}

func (r *LouvreTourRepository) Create(ctx context.Context, t *models.LouvreTour) error {
	id, err := newID()
	if err != nil {
		return err
	}
	t.ID = id
	t.CreatedAt = now()
	t.UpdatedAt = t.CreatedAt
	t.DisplayPrice = models.FormatPrice(t.PriceCents)
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO louvre_tours (id, slug, title, description, price_cents, duration_minutes, cover_image,
		                          published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), t.ID, t.Slug, t.Title, t.Description, t.PriceCents, t.DurationMinutes, t.CoverImage,
		t.Published, t.CreatedAt, t.UpdatedAt)
	return classify(err, "create louvre tour")
}

func (r *LouvreTourRepository) Update(ctx context.Context, t *models.LouvreTour) error {
	t.UpdatedAt = now()
	t.DisplayPrice = models.FormatPrice(t.PriceCents)
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE louvre_tours
		SET slug = ?, title = ?, description = ?, price_cents = ?, duration_minutes = ?, cover_image = ?,
		    published = ?, updated_at = ?
		WHERE id = ?
	`), t.Slug, t.Title, t.Description, t.PriceCents, t.DurationMinutes, t.CoverImage,
		t.Published, t.UpdatedAt, t.ID)
	return expectRow(res, err, "update louvre tour")
}

func (r *LouvreTourRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM louvre_tours WHERE id = ?`), id)
	return expectRow(res, err, "delete louvre tour")
}

func (r *LouvreTourRepository) Stops(ctx context.Context, tourID string) ([]models.LouvreTourStop, error) {
	stops := []models.LouvreTourStop{}
	err := r.db.SelectContext(ctx, &stops, r.db.Rebind(`
		SELECT * FROM louvre_tour_stops WHERE louvre_tour_id = ? ORDER BY position, id
	`), tourID)
	if err != nil {
		return nil, classify(err, "list louvre stops")
	}
	return stops, nil
}

func (r *LouvreTourRepository) AddStop(ctx context.Context, s *models.LouvreTourStop) error {
	if s.Position <= 0 {
		var last int
		err := r.db.GetContext(ctx, &last, r.db.Rebind(`
			SELECT COALESCE(MAX(position), 0) FROM louvre_tour_stops WHERE louvre_tour_id = ?
		`), s.LouvreTourID)
		if err != nil {
			return classify(err, "find last position")
		}
		s.Position = last + 1
	}

	id, err := newID()
	if err != nil {
		return err
	}
	s.ID = id
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO louvre_tour_stops (id, louvre_tour_id, position, title, description, room, image_url, audio_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), s.ID, s.LouvreTourID, s.Position, s.Title, s.Description, s.Room, s.ImageURL, s.AudioURL)
	return classify(err, "create louvre stop")
}

func (r *LouvreTourRepository) UpdateStop(ctx context.Context, s *models.LouvreTourStop) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE louvre_tour_stops
		SET position = ?, title = ?, description = ?, room = ?, image_url = ?, audio_url = ?
		WHERE id = ?
	`), s.Position, s.Title, s.Description, s.Room, s.ImageURL, s.AudioURL, s.ID)
	return expectRow(res, err, "update louvre stop")
}

func (r *LouvreTourRepository) DeleteStop(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM louvre_tour_stops WHERE id = ?`), id)
	return expectRow(res, err, "delete louvre stop")
}
