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

type ProfileRepository struct {
	db *sqlx.DB
}

func (r *ProfileRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`SELECT * FROM profile WHERE id = ?`), id)
	if err != nil {
		return nil, classify(err, "get profile")
	}
	return &p, nil
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`SELECT * FROM profile WHERE email = ?`), strings.ToLower(email))
	if err != nil {
		return nil, classify(err, "get profile")
	}
	return &p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	id, err := newID()
	if err != nil {
		return err
	}
	p.ID = id
	p.Email = strings.ToLower(p.Email)
	p.CreatedAt = now()
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO profile (id, email, password_hash, full_name, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), p.ID, p.Email, p.PasswordHash, p.FullName, p.Role, p.CreatedAt)
	return classify(err, "create profile")
}

// EnsureAdmin creates the admin account, or resets its password and role if
// the email is already registered
func (r *ProfileRepository) EnsureAdmin(ctx context.Context, email, passwordHash string) (*models.Profile, error) {
	existing, err := r.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		p := &models.Profile{Email: email, PasswordHash: passwordHash, FullName: "Administrator", Role: models.RoleAdmin}
		if err := r.Create(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	}
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE profile SET password_hash = ?, role = ? WHERE id = ?
	`), passwordHash, models.RoleAdmin, existing.ID)
	if err != nil {
		return nil, classify(err, "update admin profile")
	}
	existing.PasswordHash = passwordHash
	existing.Role = models.RoleAdmin
	return existing, nil
}
