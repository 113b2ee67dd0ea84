// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/paris-guide/calendar"
	"github.com/danielhkuo/paris-guide/models"
)

// ErrCapacityBelowBookings is returned when an edit would leave a departure
// with fewer seats than are already sold
var ErrCapacityBelowBookings = errors.New("max_participants is below current bookings")

type WalkingTourRepository struct {
	db *sqlx.DB
}

// ListRange returns departures with from <= date <= to, ordered for the calendar
func (r *WalkingTourRepository) ListRange(ctx context.Context, from, to string) ([]models.WalkingTour, error) {
	tours := []models.WalkingTour{}
	err := r.db.SelectContext(ctx, &tours, r.db.Rebind(`
		SELECT * FROM walking_tours
		WHERE date >= ? AND date <= ?
		ORDER BY date, start_time
	`), from, to)
	if err != nil {
		return nil, classify(err, "list walking tours")
	}
	return tours, nil
}

func (r *WalkingTourRepository) Get(ctx context.Context, id string) (*models.WalkingTour, error) {
	var t models.WalkingTour
	if err := r.db.GetContext(ctx, &t, r.db.Rebind(`SELECT * FROM walking_tours WHERE id = ?`), id); err != nil {
		return nil, classify(err, "get walking tour")
	}
	return &t, nil
}

func (r *WalkingTourRepository) Create(ctx context.Context, t *models.WalkingTour) error {
	id, err := newID()
	if err != nil {
		return err
	}
	t.ID = id
	t.CurrentBookings = 0
	t.CreatedAt = now()
	if t.Status == "" {
		t.Status = models.TourScheduled
	}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO walking_tours (id, tour_id, title, date, start_time, meeting_point, language,
		                           max_participants, current_bookings, price_cents, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), t.ID, t.TourID, t.Title, t.Date, t.StartTime, t.MeetingPoint, t.Language,
		t.MaxParticipants, t.CurrentBookings, t.PriceCents, t.Status, t.CreatedAt)
	return classify(err, "create walking tour")
}

// Update edits a departure. current_bookings is never written here; it only
// moves through bookings and cancellations.
func (r *WalkingTourRepository) Update(ctx context.Context, t *models.WalkingTour) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE walking_tours
		SET tour_id = ?, title = ?, date = ?, start_time = ?, meeting_point = ?, language = ?,
		    max_participants = ?, price_cents = ?, status = ?
		WHERE id = ? AND current_bookings <= ?
	`), t.TourID, t.Title, t.Date, t.StartTime, t.MeetingPoint, t.Language,
		t.MaxParticipants, t.PriceCents, t.Status, t.ID, t.MaxParticipants)
	err = expectRow(res, err, "update walking tour")
	if errors.Is(err, ErrNotFound) {
		// Tell "missing" apart from "capacity guard failed"
		if _, getErr := r.Get(ctx, t.ID); getErr == nil {
			return ErrCapacityBelowBookings
		}
	}
	return err
}

func (r *WalkingTourRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var confirmed int
	err = tx.GetContext(ctx, &confirmed, tx.Rebind(`
		SELECT COUNT(*) FROM walking_tour_bookings WHERE walking_tour_id = ? AND status = ?
	`), id, models.BookingConfirmed)
	if err != nil {
		return classify(err, "count bookings")
	}
	if confirmed > 0 {
		return fmt.Errorf("%w: walking tour has %d confirmed bookings", ErrInvalidState, confirmed)
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM walking_tours WHERE id = ?`), id)
	if err := expectRow(res, err, "delete walking tour"); err != nil {
		return err
	}
	return classify(tx.Commit(), "commit delete")
}

// BookingRepository manages seats on walking tours
type BookingRepository struct {
	db *sqlx.DB
}

// Create books seats on a departure. Inside one transaction it re-reads the
// tour, runs check against that fresh row, then increments current_bookings
// only while current_bookings + participants <= max_participants, so two
// concurrent bookers cannot jointly overbook. Returns the tour as it stands
// after the booking.
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking, check func(models.WalkingTour) error) (*models.WalkingTour, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var tour models.WalkingTour
	err = tx.GetContext(ctx, &tour, tx.Rebind(`SELECT * FROM walking_tours WHERE id = ?`), b.WalkingTourID)
	if err != nil {
		return nil, classify(err, "get walking tour")
	}
	if err := check(tour); err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE walking_tours
		SET current_bookings = current_bookings + ?
		WHERE id = ? AND status = ? AND current_bookings + ? <= max_participants
	`), b.Participants, tour.ID, models.TourScheduled, b.Participants)
	if err := expectRow(res, err, "reserve seats"); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, calendar.ErrInsufficientCapacity
		}
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	b.ID = id
	b.TotalCents = tour.PriceCents * int64(b.Participants)
	b.Status = models.BookingConfirmed
	b.CreatedAt = now()
	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO walking_tour_bookings (id, walking_tour_id, guest_name, guest_email, guest_phone,
		                                   participants, total_cents, status, notes, ip_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), b.ID, b.WalkingTourID, b.GuestName, b.GuestEmail, b.GuestPhone,
		b.Participants, b.TotalCents, b.Status, b.Notes, b.IPHash, b.CreatedAt)
	if err != nil {
		return nil, classify(err, "create booking")
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	tour.CurrentBookings += b.Participants
	return &tour, nil
}

func (r *BookingRepository) Get(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := r.db.GetContext(ctx, &b, r.db.Rebind(`SELECT * FROM walking_tour_bookings WHERE id = ?`), id)
	if err != nil {
		return nil, classify(err, "get booking")
	}
	return &b, nil
}

func (r *BookingRepository) ListForTour(ctx context.Context, walkingTourID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := r.db.SelectContext(ctx, &bookings, r.db.Rebind(`
		SELECT * FROM walking_tour_bookings
		WHERE walking_tour_id = ?
		ORDER BY created_at
	`), walkingTourID)
	if err != nil {
		return nil, classify(err, "list bookings")
	}
	return bookings, nil
}

// Cancel marks a booking cancelled and releases its seats
func (r *BookingRepository) Cancel(ctx context.Context, id string) (*models.Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var b models.Booking
	err = tx.GetContext(ctx, &b, tx.Rebind(`SELECT * FROM walking_tour_bookings WHERE id = ?`), id)
	if err != nil {
		return nil, classify(err, "get booking")
	}
	if b.Status == models.BookingCancelled {
		return nil, fmt.Errorf("%w: booking already cancelled", ErrInvalidState)
	}

	// The status guard makes a concurrent cancel of the same booking miss,
	// so its seats are only released once.
	cancelledAt := now()
	res, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE walking_tour_bookings SET status = ?, cancelled_at = ? WHERE id = ? AND status <> ?
	`), models.BookingCancelled, cancelledAt, b.ID, models.BookingCancelled)
	if err := expectRow(res, err, "cancel booking"); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: booking already cancelled", ErrInvalidState)
		}
		return nil, err
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE walking_tours
		SET current_bookings = CASE WHEN current_bookings >= ? THEN current_bookings - ? ELSE 0 END
		WHERE id = ?
	`), b.Participants, b.Participants, b.WalkingTourID)
	if err != nil {
		return nil, classify(err, "release seats")
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	b.Status = models.BookingCancelled
	b.CancelledAt = &cancelledAt
	return &b, nil
}
