// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/paris-guide/models"
)

type BundleRepository struct {
	db *sqlx.DB
}

const bundleColumns = `b.id, b.slug, b.city, b.title, b.description, b.topic, b.cover_image,
	b.published, b.sort_order, b.created_at,
	(SELECT COUNT(*) FROM flashcards f WHERE f.bundle_id = b.id) AS card_count`

// List returns bundles with their card counts. Empty city lists all cities.
func (r *BundleRepository) List(ctx context.Context, city string, publishedOnly bool) ([]models.Bundle, error) {
	var conds []string
	var args []any
	if city != "" {
		conds = append(conds, `LOWER(b.city) = LOWER(?)`)
		args = append(args, city)
	}
	if publishedOnly {
		conds = append(conds, `b.published = TRUE`)
	}
	query := `SELECT ` + bundleColumns + ` FROM bundles b`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY b.sort_order, b.title`

	bundles := []models.Bundle{}
	if err := r.db.SelectContext(ctx, &bundles, r.db.Rebind(query), args...); err != nil {
		return nil, classify(err, "list bundles")
	}
	return bundles, nil
}

func (r *BundleRepository) Get(ctx context.Context, id string) (*models.Bundle, error) {
	var b models.Bundle
	err := r.db.GetContext(ctx, &b, r.db.Rebind(`SELECT `+bundleColumns+` FROM bundles b WHERE b.id = ?`), id)
	if err != nil {
		return nil, classify(err, "get bundle")
	}
	return &b, nil
}

func (r *BundleRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Bundle, error) {
	var b models.Bundle
	err := r.db.GetContext(ctx, &b, r.db.Rebind(`SELECT `+bundleColumns+` FROM bundles b WHERE b.slug = ? AND b.published = TRUE`), slug)
	if err != nil {
		return nil, classify(err, "get bundle")
	}
	return &b, nil
}

func (r *BundleRepository) Create(ctx context.Context, b *models.Bundle) error {
	id, err := newID()
	if err != nil {
		return err
	}
	b.ID = id
	b.CreatedAt = now()
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO bundles (id, slug, city, title, description, topic, cover_image, published, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), b.ID, b.Slug, b.City, b.Title, b.Description, b.Topic, b.CoverImage, b.Published, b.SortOrder, b.CreatedAt)
	return classify(err, "create bundle")
}

func (r *BundleRepository) Update(ctx context.Context, b *models.Bundle) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE bundles
		SET slug = ?, city = ?, title = ?, description = ?, topic = ?, cover_image = ?, published = ?, sort_order = ?
		WHERE id = ?
	`), b.Slug, b.City, b.Title, b.Description, b.Topic, b.CoverImage, b.Published, b.SortOrder, b.ID)
	return expectRow(res, err, "update bundle")
}

func (r *BundleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM bundles WHERE id = ?`), id)
	return expectRow(res, err, "delete bundle")
}

type FlashcardRepository struct {
	db *sqlx.DB
}

// List returns the cards of a bundle in position order; limit <= 0 returns all
func (r *FlashcardRepository) List(ctx context.Context, bundleID string, limit int) ([]models.Flashcard, error) {
	query := `SELECT * FROM flashcards WHERE bundle_id = ? ORDER BY position, id`
	args := []any{bundleID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	cards := []models.Flashcard{}
	if err := r.db.SelectContext(ctx, &cards, r.db.Rebind(query), args...); err != nil {
		return nil, classify(err, "list flashcards")
	}
	return cards, nil
}

func (r *FlashcardRepository) Get(ctx context.Context, id string) (*models.Flashcard, error) {
	var c models.Flashcard
	if err := r.db.GetContext(ctx, &c, r.db.Rebind(`SELECT * FROM flashcards WHERE id = ?`), id); err != nil {
		return nil, classify(err, "get flashcard")
	}
	return &c, nil
}

// Create adds a card. Position 0 appends it after the last card.
func (r *FlashcardRepository) Create(ctx context.Context, c *models.Flashcard) error {
	if c.Position <= 0 {
		var last int
		err := r.db.GetContext(ctx, &last, r.db.Rebind(`SELECT COALESCE(MAX(position), 0) FROM flashcards WHERE bundle_id = ?`), c.BundleID)
		if err != nil {
			return classify(err, "find last position")
		}
		c.Position = last + 1
	}

	id, err := newID()
	if err != nil {
		return err
	}
	c.ID = id
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO flashcards (id, bundle_id, position, front, back, image_url) VALUES (?, ?, ?, ?, ?, ?)
	`), c.ID, c.BundleID, c.Position, c.Front, c.Back, c.ImageURL)
	return classify(err, "create flashcard")
}

func (r *FlashcardRepository) Update(ctx context.Context, c *models.Flashcard) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE flashcards SET position = ?, front = ?, back = ?, image_url = ? WHERE id = ?
	`), c.Position, c.Front, c.Back, c.ImageURL, c.ID)
	return expectRow(res, err, "update flashcard")
}

func (r *FlashcardRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM flashcards WHERE id = ?`), id)
	return expectRow(res, err, "delete flashcard")
}

// ErrInvalidOrder is returned when a reorder list is not a permutation of the
// bundle's flashcards
var ErrInvalidOrder = errors.New("ids must list every flashcard of the bundle exactly once")

// Reorder sets positions 1..n following ids. The ids must name every card of
// the bundle exactly once.
func (r *FlashcardRepository) Reorder(ctx context.Context, bundleID string, ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s listed twice", ErrInvalidOrder, id)
		}
		seen[id] = struct{}{}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(err, "begin transaction")
	}
	defer tx.Rollback()

	var total int
	err = tx.GetContext(ctx, &total, tx.Rebind(`SELECT COUNT(*) FROM flashcards WHERE bundle_id = ?`), bundleID)
	if err != nil {
		return classify(err, "count flashcards")
	}
	if total != len(ids) {
		return fmt.Errorf("%w: got %d ids for %d flashcards", ErrInvalidOrder, len(ids), total)
	}

	for i, id := range ids {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE flashcards SET position = ? WHERE id = ? AND bundle_id = ?
		`), i+1, id, bundleID)
		if err := expectRow(res, err, "reorder flashcards"); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: flashcard %s", ErrNotFound, id)
			}
			return err
		}
	}
	return classify(tx.Commit(), "commit reorder")
}
