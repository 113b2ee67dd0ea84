// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/paris-guide/models"
)

type OrderRepository struct {
	db *sqlx.DB
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	id, err := newID()
	if err != nil {
		return err
	}
	o.ID = id
	o.CreatedAt = now()
	if o.Currency == "" {
		o.Currency = models.CurrencyEUR
	}
	if o.Status == "" {
		o.Status = models.OrderPending
	}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO orders (id, reference, profile_id, email, kind, bundle_id, louvre_tour_id, city,
		                    amount_cents, currency, status, access_token, expires_at, created_at, paid_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), o.ID, o.Reference, o.ProfileID, o.Email, o.Kind, o.BundleID, o.LouvreTourID, o.City,
		o.AmountCents, o.Currency, o.Status, o.AccessToken, o.ExpiresAt, o.CreatedAt, o.PaidAt)
	return classify(err, "create order")
}

func (r *OrderRepository) GetByReference(ctx context.Context, ref string) (*models.Order, error) {
	var o models.Order
	if err := r.db.GetContext(ctx, &o, r.db.Rebind(`SELECT * FROM orders WHERE reference = ?`), ref); err != nil {
		return nil, classify(err, "get order")
	}
	return &o, nil
}

func (r *OrderRepository) GetByAccessToken(ctx context.Context, token string) (*models.Order, error) {
	var o models.Order
	err := r.db.GetContext(ctx, &o, r.db.Rebind(`SELECT * FROM orders WHERE access_token = ? AND status = ?`), token, models.OrderPaid)
	if err != nil {
		return nil, classify(err, "get order")
	}
	return &o, nil
}

// Settle moves a pending order to a final status. Paid orders receive the
// access token. Orders that already left pending give ErrInvalidState.
func (r *OrderRepository) Settle(ctx context.Context, ref, status string, accessToken *string, at time.Time) (*models.Order, error) {
	switch status {
	case models.OrderPaid, models.OrderFailed, models.OrderCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown order status %q", ErrInvalidState, status)
	}

	var paidAt *time.Time
	if status == models.OrderPaid {
		paidAt = &at
	} else {
		accessToken = nil
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE orders SET status = ?, access_token = ?, paid_at = ?
		WHERE reference = ? AND status = ?
	`), status, accessToken, paidAt, ref, models.OrderPending)
	if err := expectRow(res, err, "settle order"); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		existing, getErr := r.GetByReference(ctx, ref)
		if getErr != nil {
			return nil, getErr
		}
		return existing, fmt.Errorf("%w: order is already %s", ErrInvalidState, existing.Status)
	}

	return r.GetByReference(ctx, ref)
}

// List returns orders, newest first. Empty status lists all.
func (r *OrderRepository) List(ctx context.Context, status string) ([]models.Order, error) {
	query := `SELECT * FROM orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	orders := []models.Order{}
	if err := r.db.SelectContext(ctx, &orders, r.db.Rebind(query), args...); err != nil {
		return nil, classify(err, "list orders")
	}
	return orders, nil
}

type MuseumGuideRepository struct {
	db *sqlx.DB
}

func (r *MuseumGuideRepository) Create(ctx context.Context, p *models.MuseumGuidePurchase) error {
	id, err := newID()
	if err != nil {
		return err
	}
	p.ID = id
	p.CreatedAt = now()
	if p.Currency == "" {
		p.Currency = models.CurrencyEUR
	}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO museum_guide_purchases (id, email, museum, language, amount_cents, currency, status, access_code, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.Email, p.Museum, p.Language, p.AmountCents, p.Currency, p.Status, p.AccessCode, p.CreatedAt)
	return classify(err, "create museum guide purchase")
}

func (r *MuseumGuideRepository) GetByCode(ctx context.Context, code string) (*models.MuseumGuidePurchase, error) {
	var p models.MuseumGuidePurchase
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`SELECT * FROM museum_guide_purchases WHERE access_code = ?`), code)
	if err != nil {
		return nil, classify(err, "get museum guide purchase")
	}
	return &p, nil
}

func (r *MuseumGuideRepository) List(ctx context.Context) ([]models.MuseumGuidePurchase, error) {
	purchases := []models.MuseumGuidePurchase{}
	err := r.db.SelectContext(ctx, &purchases, `SELECT * FROM museum_guide_purchases ORDER BY created_at DESC`)
	if err != nil {
		return nil, classify(err, "list museum guide purchases")
	}
	return purchases, nil
}
