// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/paris-guide/models"
)

type MapPointRepository struct {
	db *sqlx.DB
}

// List returns points for the interactive map. Empty category lists all.
func (r *MapPointRepository) List(ctx context.Context, category string) ([]models.MapPoint, error) {
	query := `SELECT * FROM map_points`
	args := []any{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY sort_order, name`

	points := []models.MapPoint{}
	if err := r.db.SelectContext(ctx, &points, r.db.Rebind(query), args...); err != nil {
		return nil, classify(err, "list map points")
	}
	return points, nil
}

func (r *MapPointRepository) Create(ctx context.Context, p *models.MapPoint) error {
	id, err := newID()
	if err != nil {
		return err
	}
	p.ID = id
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO map_points (id, name, description, category, latitude, longitude, image_url, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.Name, p.Description, p.Category, p.Latitude, p.Longitude, p.ImageURL, p.SortOrder)
	return classify(err, "create map point")
}

func (r *MapPointRepository) Update(ctx context.Context, p *models.MapPoint) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE map_points
		SET name = ?, description = ?, category = ?, latitude = ?, longitude = ?, image_url = ?, sort_order = ?
		WHERE id = ?
	`), p.Name, p.Description, p.Category, p.Latitude, p.Longitude, p.ImageURL, p.SortOrder, p.ID)
	return expectRow(res, err, "update map point")
}

func (r *MapPointRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM map_points WHERE id = ?`), id)
	return expectRow(res, err, "delete map point")
}
