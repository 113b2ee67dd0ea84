package models

import "time"

// Request types

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TourRequest struct {
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	Summary         string `json:"summary"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceCents      int64  `json:"price_cents"`
	ImageURL        string `json:"image_url"`
	Featured        bool   `json:"featured"`
	SortOrder       int    `json:"sort_order"`
	Active          *bool  `json:"active"`
}

type WalkingTourRequest struct {
	TourID          *string `json:"tour_id"`
	Title           string  `json:"title"`
	Date            string  `json:"date"`
	StartTime       string  `json:"start_time"`
	MeetingPoint    string  `json:"meeting_point"`
	Language        string  `json:"language"`
	MaxParticipants int     `json:"max_participants"`
	PriceCents      int64   `json:"price_cents"`
	Status          string  `json:"status"`
}

type CreateBookingRequest struct {
	GuestName    string `json:"guest_name"`
	GuestEmail   string `json:"guest_email"`
	GuestPhone   string `json:"guest_phone"`
	Participants int    `json:"participants"`
	Notes        string `json:"notes"`
}

type CategoryRequest struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

type PostRequest struct {
	Slug       string  `json:"slug"`
	Title      string  `json:"title"`
	Excerpt    string  `json:"excerpt"`
	Content    string  `json:"content"`
	CoverImage string  `json:"cover_image"`
	CategoryID *string `json:"category_id"`
	Author     string  `json:"author"`
	Published  bool    `json:"published"`
}

type SubscribeRequest struct {
	Email  string `json:"email"`
	Locale string `json:"locale"`
	Source string `json:"source"`
}

type BundleRequest struct {
	Slug        string `json:"slug"`
	City        string `json:"city"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Topic       string `json:"topic"`
	CoverImage  string `json:"cover_image"`
	Published   bool   `json:"published"`
	SortOrder   int    `json:"sort_order"`
}

type FlashcardRequest struct {
	Position int    `json:"position"`
	Front    string `json:"front"`
	Back     string `json:"back"`
	ImageURL string `json:"image_url"`
}

type ReorderRequest struct {
	IDs []string `json:"ids"`
}

type LouvreTourRequest struct {
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	PriceCents      int64  `json:"price_cents"`
	DurationMinutes int    `json:"duration_minutes"`
	CoverImage      string `json:"cover_image"`
	Published       bool   `json:"published"`
}

type LouvreStopRequest struct {
	Position    int    `json:"position"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Room        string `json:"room"`
	ImageURL    string `json:"image_url"`
	AudioURL    string `json:"audio_url"`
}

type CheckoutRequest struct {
	Email string `json:"email"`
}

type CheckoutWebhook struct {
	Reference string `json:"reference"`
	Status    string `json:"status"` // paid | failed | cancelled
}

type CityPassRequest struct {
	Email        string `json:"email"`
	City         string `json:"city"`
	DurationDays int    `json:"duration_days"`
}

type MuseumGuideRequest struct {
	Email    string `json:"email"`
	Museum   string `json:"museum"`
	Language string `json:"language"`
}

type MapPointRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ImageURL    string  `json:"image_url"`
	SortOrder   int     `json:"sort_order"`
}

type CityPricingRequest struct {
	City         string `json:"city"`
	DurationDays int    `json:"duration_days"`
	PriceCents   int64  `json:"price_cents"`
	Label        string `json:"label"`
	Active       *bool  `json:"active"`
}

type SiteTextRequest struct {
	Locale string `json:"locale"`
	Value  string `json:"value"`
}

// Response types

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Profile   Profile   `json:"profile"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type BookingResponse struct {
	BookingID    string `json:"booking_id"`
	TotalCents   int64  `json:"total_cents"`
	DisplayTotal string `json:"display_total"`
	SeatsLeft    int    `json:"seats_left"`
}

type PostList struct {
	Posts   []Post `json:"posts"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Total   int    `json:"total"`
}

type BundleDetail struct {
	Bundle     Bundle      `json:"bundle"`
	Flashcards []Flashcard `json:"flashcards"`
	Preview    bool        `json:"preview"`
}

type LouvreTourDetail struct {
	Tour  LouvreTour       `json:"tour"`
	Stops []LouvreTourStop `json:"stops"`
}

type CheckoutResponse struct {
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirect_url"`
}

type PurchaseResponse struct {
	Reference   string     `json:"reference"`
	AccessToken string     `json:"access_token"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type MuseumGuideResponse struct {
	PurchaseID string `json:"purchase_id"`
	AccessCode string `json:"access_code"`
}

type UploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
