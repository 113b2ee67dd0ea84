// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/paris-guide/models"
)

type SubscriberRepository struct {
	db *sqlx.DB
}

// Subscribe adds an email to the newsletter. A previously unsubscribed address
// is reactivated; an active one gives ErrConflict.
func (r *SubscriberRepository) Subscribe(ctx context.Context, s *models.Subscriber) error {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))

	var existing models.Subscriber
	err := r.db.GetContext(ctx, &existing, r.db.Rebind(`SELECT * FROM newsletter_subscribers WHERE email = ?`), s.Email)
	if err == nil {
		if existing.Active {
			return ErrConflict
		}
		_, err = r.db.ExecContext(ctx, r.db.Rebind(`
			UPDATE newsletter_subscribers
			SET active = TRUE, unsubscribed_at = NULL, locale = ?, source = ?
			WHERE id = ?
		`), s.Locale, s.Source, existing.ID)
		if err != nil {
			return classify(err, "reactivate subscriber")
		}
		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
		s.Active = true
		return nil
	}
	if err = classify(err, "get subscriber"); !errors.Is(err, ErrNotFound) {
		return err
	}

	id, err := newID()
	if err != nil {
		return err
	}
	s.ID = id
	s.Active = true
	s.CreatedAt = now()
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO newsletter_subscribers (id, email, locale, source, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), s.ID, s.Email, s.Locale, s.Source, s.Active, s.CreatedAt)
	// A concurrent signup for the same address hits the unique index
	return classify(err, "create subscriber")
}

func (r *SubscriberRepository) Unsubscribe(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE newsletter_subscribers SET active = FALSE, unsubscribed_at = ?
		WHERE email = ? AND active = TRUE
	`), now(), strings.ToLower(strings.TrimSpace(email)))
	return expectRow(res, err, "unsubscribe")
}

func (r *SubscriberRepository) List(ctx context.Context, activeOnly bool) ([]models.Subscriber, error) {
	query := `SELECT * FROM newsletter_subscribers`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	subs := []models.Subscriber{}
	if err := r.db.SelectContext(ctx, &subs, query); err != nil {
		return nil, classify(err, "list subscribers")
	}
	return subs, nil
}

func (r *SubscriberRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM newsletter_subscribers WHERE id = ?`), id)
	return expectRow(res, err, "delete subscriber")
}
