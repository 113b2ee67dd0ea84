// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/paris-guide/auth"
	"github.com/danielhkuo/paris-guide/db"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrInvalidReference = errors.New("referenced record does not exist")
	ErrInvalidState     = errors.New("invalid state transition")
)

// Store groups the repositories of every table
type Store struct {
	db *sqlx.DB

	Profiles     *ProfileRepository
	Tours        *TourRepository
	WalkingTours *WalkingTourRepository
	Bookings     *BookingRepository
	Categories   *CategoryRepository
	Posts        *PostRepository
	Subscribers  *SubscriberRepository
	Bundles      *BundleRepository
	Flashcards   *FlashcardRepository
	LouvreTours  *LouvreTourRepository
	Orders       *OrderRepository
	Museum       *MuseumGuideRepository
	MapPoints    *MapPointRepository
	Pricing      *PricingRepository
	Pages        *PageRepository
	GuideConfigs *GuideConfigRepository
	SiteText     *SiteTextRepository
}

func New(conn *sqlx.DB) *Store {
	return &Store{
		db:           conn,
		Profiles:     &ProfileRepository{db: conn},
		Tours:        &TourRepository{db: conn},
		WalkingTours: &WalkingTourRepository{db: conn},
		Bookings:     &BookingRepository{db: conn},
		Categories:   &CategoryRepository{db: conn},
		Posts:        &PostRepository{db: conn},
		Subscribers:  &SubscriberRepository{db: conn},
		Bundles:      &BundleRepository{db: conn},
		Flashcards:   &FlashcardRepository{db: conn},
		LouvreTours:  &LouvreTourRepository{db: conn},
		Orders:       &OrderRepository{db: conn},
		Museum:       &MuseumGuideRepository{db: conn},
		MapPoints:    &MapPointRepository{db: conn},
		Pricing:      &PricingRepository{db: conn},
		Pages:        &PageRepository{db: conn},
		GuideConfigs: &GuideConfigRepository{db: conn},
		SiteText:     &SiteTextRepository{db: conn},
	}
}

// DB exposes the connection for health checks
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Ping checks the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func newID() (string, error) {
	return auth.GenerateID(16)
}

func now() time.Time {
	return time.Now().UTC()
}

// classify turns driver errors into the package sentinels
func classify(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case db.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s", ErrConflict, what)
	case db.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %s", ErrInvalidReference, what)
	}
	return fmt.Errorf("failed to %s: %w", what, err)
}

// expectRow maps "no rows affected" to ErrNotFound
func expectRow(res sql.Result, err error, what string) error {
	if err != nil {
		return classify(err, what)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
