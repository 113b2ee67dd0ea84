package models

import (
	"encoding/json"
	"time"
)

// Walking tour status constants
const (
	TourScheduled = "scheduled"
	TourCancelled = "cancelled"
	TourCompleted = "completed"
)

// Booking status constants
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Order status constants
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderFailed    = "failed"
	OrderCancelled = "cancelled"
)

// Order kinds
const (
	OrderLouvreTour = "louvre_tour"
	OrderCityPass   = "city_pass"
)

// Profile roles
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Currency used for every price on the site
const CurrencyEUR = "EUR"

// Domain types

// Tour is an entry in the services catalogue shown on the marketing pages.
type Tour struct {
	ID              string    `db:"id" json:"id"`
	Slug            string    `db:"slug" json:"slug"`
	Title           string    `db:"title" json:"title"`
	Summary         string    `db:"summary" json:"summary"`
	Description     string    `db:"description" json:"description"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	PriceCents      int64     `db:"price_cents" json:"price_cents"`
	ImageURL        string    `db:"image_url" json:"image_url"`
	Featured        bool      `db:"featured" json:"featured"`
	SortOrder       int       `db:"sort_order" json:"sort_order"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
	DisplayPrice    string    `db:"-" json:"display_price"`
}

// WalkingTour is one dated departure with a fixed number of seats.
// Date is YYYY-MM-DD and StartTime HH:MM, both Paris local time.
type WalkingTour struct {
	ID              string    `db:"id" json:"id"`
	TourID          *string   `db:"tour_id" json:"tour_id,omitempty"`
	Title           string    `db:"title" json:"title"`
	Date            string    `db:"date" json:"date"`
	StartTime       string    `db:"start_time" json:"start_time"`
	MeetingPoint    string    `db:"meeting_point" json:"meeting_point"`
	Language        string    `db:"language" json:"language"`
	MaxParticipants int       `db:"max_participants" json:"max_participants"`
	CurrentBookings int       `db:"current_bookings" json:"current_bookings"`
	PriceCents      int64     `db:"price_cents" json:"price_cents"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type Booking struct {
	ID            string     `db:"id" json:"id"`
	WalkingTourID string     `db:"walking_tour_id" json:"walking_tour_id"`
	GuestName     string     `db:"guest_name" json:"guest_name"`
	GuestEmail    string     `db:"guest_email" json:"guest_email"`
	GuestPhone    string     `db:"guest_phone" json:"guest_phone"`
	Participants  int        `db:"participants" json:"participants"`
	TotalCents    int64      `db:"total_cents" json:"total_cents"`
	Status        string     `db:"status" json:"status"`
	Notes         string     `db:"notes" json:"notes"`
	IPHash        *string    `db:"ip_hash" json:"-"` // Never expose in JSON
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	CancelledAt   *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
}

type BlogCategory struct {
	ID          string `db:"id" json:"id"`
	Slug        string `db:"slug" json:"slug"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	SortOrder   int    `db:"sort_order" json:"sort_order"`
}

type Post struct {
	ID          string     `db:"id" json:"id"`
	Slug        string     `db:"slug" json:"slug"`
	Title       string     `db:"title" json:"title"`
	Excerpt     string     `db:"excerpt" json:"excerpt"`
	Content     string     `db:"content" json:"content,omitempty"`
	CoverImage  string     `db:"cover_image" json:"cover_image"`
	CategoryID  *string    `db:"category_id" json:"category_id,omitempty"`
	Author      string     `db:"author" json:"author"`
	Published   bool       `db:"published" json:"published"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

type Subscriber struct {
	ID             string     `db:"id" json:"id"`
	Email          string     `db:"email" json:"email"`
	Locale         string     `db:"locale" json:"locale"`
	Source         string     `db:"source" json:"source"`
	Active         bool       `db:"active" json:"active"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UnsubscribedAt *time.Time `db:"unsubscribed_at" json:"unsubscribed_at,omitempty"`
}

// Bundle is a named group of flashcards for a learning topic.
type Bundle struct {
	ID          string    `db:"id" json:"id"`
	Slug        string    `db:"slug" json:"slug"`
	City        string    `db:"city" json:"city"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Topic       string    `db:"topic" json:"topic"`
	CoverImage  string    `db:"cover_image" json:"cover_image"`
	Published   bool      `db:"published" json:"published"`
	SortOrder   int       `db:"sort_order" json:"sort_order"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	CardCount   int       `db:"card_count" json:"card_count"`
}

type Flashcard struct {
	ID       string `db:"id" json:"id"`
	BundleID string `db:"bundle_id" json:"bundle_id"`
	Position int    `db:"position" json:"position"`
	Front    string `db:"front" json:"front"`
	Back     string `db:"back" json:"back"`
	ImageURL string `db:"image_url" json:"image_url"`
}

type LouvreTour struct {
	ID              string    `db:"id" json:"id"`
	Slug            string    `db:"slug" json:"slug"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	PriceCents      int64     `db:"price_cents" json:"price_cents"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	CoverImage      string    `db:"cover_image" json:"cover_image"`
	Published       bool      `db:"published" json:"published"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
	DisplayPrice    string    `db:"-" json:"display_price"`
}

type LouvreTourStop struct {
	ID           string `db:"id" json:"id"`
	LouvreTourID string `db:"louvre_tour_id" json:"louvre_tour_id"`
	Position     int    `db:"position" json:"position"`
	Title        string `db:"title" json:"title"`
	Description  string `db:"description" json:"description,omitempty"`
	Room         string `db:"room" json:"room,omitempty"`
	ImageURL     string `db:"image_url" json:"image_url,omitempty"`
	AudioURL     string `db:"audio_url" json:"audio_url,omitempty"`
}

type Order struct {
	ID           string     `db:"id" json:"id"`
	Reference    string     `db:"reference" json:"reference"`
	ProfileID    *string    `db:"profile_id" json:"profile_id,omitempty"`
	Email        string     `db:"email" json:"email"`
	Kind         string     `db:"kind" json:"kind"`
	BundleID     *string    `db:"bundle_id" json:"bundle_id,omitempty"`
	LouvreTourID *string    `db:"louvre_tour_id" json:"louvre_tour_id,omitempty"`
	City         *string    `db:"city" json:"city,omitempty"`
	AmountCents  int64      `db:"amount_cents" json:"amount_cents"`
	Currency     string     `db:"currency" json:"currency"`
	Status       string     `db:"status" json:"status"`
	AccessToken  *string    `db:"access_token" json:"-"` // Never expose in JSON
	ExpiresAt    *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	PaidAt       *time.Time `db:"paid_at" json:"paid_at,omitempty"`
}

type MuseumGuidePurchase struct {
	ID          string    `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	Museum      string    `db:"museum" json:"museum"`
	Language    string    `db:"language" json:"language"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Currency    string    `db:"currency" json:"currency"`
	Status      string    `db:"status" json:"status"`
	AccessCode  string    `db:"access_code" json:"access_code"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type MapPoint struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Category    string  `db:"category" json:"category"`
	Latitude    float64 `db:"latitude" json:"latitude"`
	Longitude   float64 `db:"longitude" json:"longitude"`
	ImageURL    string  `db:"image_url" json:"image_url"`
	SortOrder   int     `db:"sort_order" json:"sort_order"`
}

type CityPricing struct {
	ID           string `db:"id" json:"id"`
	City         string `db:"city" json:"city"`
	DurationDays int    `db:"duration_days" json:"duration_days"`
	PriceCents   int64  `db:"price_cents" json:"price_cents"`
	Currency     string `db:"currency" json:"currency"`
	Label        string `db:"label" json:"label"`
	Active       bool   `db:"active" json:"active"`
	DisplayPrice string `db:"-" json:"display_price"`
}

type PageSettingsRow struct {
	Page      string    `db:"page"`
	Settings  string    `db:"settings"`
	UpdatedAt time.Time `db:"updated_at"`
}

type GuideConfig struct {
	Key       string          `db:"key" json:"key"`
	Config    json.RawMessage `db:"config" json:"config"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

type Profile struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"` // Never expose in JSON
	FullName     string    `db:"full_name" json:"full_name"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type SiteText struct {
	Key       string    `db:"key" json:"key"`
	Locale    string    `db:"locale" json:"locale"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
