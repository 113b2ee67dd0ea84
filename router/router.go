// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/paris-guide/cliparse"
	"github.com/danielhkuo/paris-guide/handlers"
	"github.com/danielhkuo/paris-guide/middleware"
	"github.com/danielhkuo/paris-guide/storage"
	"github.com/danielhkuo/paris-guide/store"
)

func NewRouter(st *store.Store, objects storage.ObjectStore, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	contentHandler := handlers.NewContentHandler(st, cfg)
	tourHandler := handlers.NewTourHandler(st, cfg)
	walkingHandler := handlers.NewWalkingTourHandler(st, cfg)
	blogHandler := handlers.NewBlogHandler(st, cfg)
	newsletterHandler := handlers.NewNewsletterHandler(st, cfg)
	bundleHandler := handlers.NewBundleHandler(st, cfg)
	louvreHandler := handlers.NewLouvreHandler(st, cfg)
	museumHandler := handlers.NewMuseumHandler(st, cfg)
	mapHandler := handlers.NewMapPointHandler(st, cfg)
	adminHandler := handlers.NewAdminHandler(st, cfg)
	uploadHandler := handlers.NewUploadHandler(objects, cfg)

	requireAdmin := middleware.RequireAdmin(cfg.TokenSecret, st.Profiles.Get, time.Now)
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(requireAdmin(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Site content (public)
	mux.HandleFunc("GET /home", middleware.WithLogging(contentHandler.Home))
	mux.HandleFunc("GET /pages/{page}", middleware.WithLogging(contentHandler.GetPage))
	mux.HandleFunc("GET /content", middleware.WithLogging(contentHandler.SiteText))
	mux.HandleFunc("GET /guide-configs/{key}", middleware.WithLogging(contentHandler.GuideConfig))
	mux.HandleFunc("GET /tours", middleware.WithLogging(tourHandler.ListTours))
	mux.HandleFunc("GET /tours/{slug}", middleware.WithLogging(tourHandler.GetTour))
	mux.HandleFunc("GET /blog/posts", middleware.WithLogging(blogHandler.ListPosts))
	mux.HandleFunc("GET /blog/posts/{slug}", middleware.WithLogging(blogHandler.GetPost))
	mux.HandleFunc("GET /blog/categories", middleware.WithLogging(blogHandler.ListCategories))
	mux.HandleFunc("GET /map-points", middleware.WithLogging(mapHandler.ListMapPoints))
	mux.HandleFunc("GET /uploads/{key...}", middleware.WithLogging(uploadHandler.Serve))

	// Walking tours and bookings (public)
	mux.HandleFunc("GET /walking-tours/calendar", middleware.WithLogging(walkingHandler.Calendar))
	mux.HandleFunc("POST /walking-tours/{id}/bookings", middleware.WithLogging(walkingHandler.CreateBooking))

	// Newsletter (public)
	mux.HandleFunc("POST /newsletter/subscribe", middleware.WithLogging(newsletterHandler.Subscribe))
	mux.HandleFunc("POST /newsletter/unsubscribe", middleware.WithLogging(newsletterHandler.Unsubscribe))

	// City pass and flashcard bundles (public)
	mux.HandleFunc("GET /pricing", middleware.WithLogging(bundleHandler.ListPricing))
	mux.HandleFunc("GET /bundles", middleware.WithLogging(bundleHandler.ListBundles))
	mux.HandleFunc("GET /bundles/{slug}", middleware.WithLogging(bundleHandler.GetBundle))
	mux.HandleFunc("POST /city-pass/purchase", middleware.WithLogging(bundleHandler.PurchaseCityPass))

	// Louvre digital guide and checkout (public)
	mux.HandleFunc("GET /louvre-tours", middleware.WithLogging(louvreHandler.ListTours))
	mux.HandleFunc("GET /louvre-tours/{slug}", middleware.WithLogging(louvreHandler.GetTour))
	mux.HandleFunc("POST /louvre-tours/{slug}/checkout", middleware.WithLogging(louvreHandler.Checkout))
	mux.HandleFunc("GET /louvre-tours/{slug}/guide", middleware.WithLogging(louvreHandler.Guide))
	mux.HandleFunc("POST /payments/webhook", middleware.WithLogging(louvreHandler.Webhook))
	mux.HandleFunc("GET /orders/{reference}", middleware.WithLogging(louvreHandler.OrderStatus))

	// Museum guide (public)
	mux.HandleFunc("POST /museum-guides/purchase", middleware.WithLogging(museumHandler.Purchase))
	mux.HandleFunc("GET /museum-guides/{code}", middleware.WithLogging(museumHandler.Access))

	// Admin session
	mux.HandleFunc("POST /admin/login", middleware.WithLogging(adminHandler.Login))
	mux.HandleFunc("GET /admin/me", admin(adminHandler.Me))

	// Admin: page builder, site text, guide configs
	mux.HandleFunc("GET /admin/pages/{page}", admin(adminHandler.GetPage))
	mux.HandleFunc("PUT /admin/pages/{page}", admin(adminHandler.PutPage))
	mux.HandleFunc("PATCH /admin/pages/{page}", admin(adminHandler.PatchPage))
	mux.HandleFunc("GET /admin/content", admin(adminHandler.ListSiteText))
	mux.HandleFunc("PUT /admin/content/{key}", admin(adminHandler.PutSiteText))
	mux.HandleFunc("DELETE /admin/content/{key}", admin(adminHandler.DeleteSiteText))
	mux.HandleFunc("PUT /admin/guide-configs/{key}", admin(adminHandler.PutGuideConfig))

	// Admin: service catalogue
	mux.HandleFunc("GET /admin/tours", admin(tourHandler.AdminListTours))
	mux.HandleFunc("POST /admin/tours", admin(tourHandler.CreateTour))
	mux.HandleFunc("PUT /admin/tours/{id}", admin(tourHandler.UpdateTour))
	mux.HandleFunc("DELETE /admin/tours/{id}", admin(tourHandler.DeleteTour))

	// Admin: walking tours and bookings
	mux.HandleFunc("GET /admin/walking-tours", admin(walkingHandler.AdminListWalkingTours))
	mux.HandleFunc("POST /admin/walking-tours", admin(walkingHandler.CreateWalkingTour))
	mux.HandleFunc("PUT /admin/walking-tours/{id}", admin(walkingHandler.UpdateWalkingTour))
	mux.HandleFunc("DELETE /admin/walking-tours/{id}", admin(walkingHandler.DeleteWalkingTour))
	mux.HandleFunc("GET /admin/walking-tours/{id}/bookings", admin(walkingHandler.ListBookings))
	mux.HandleFunc("POST /admin/bookings/{id}/cancel", admin(walkingHandler.CancelBooking))

	// Admin: blog
	mux.HandleFunc("GET /admin/posts", admin(blogHandler.AdminListPosts))
	mux.HandleFunc("GET /admin/posts/{id}", admin(blogHandler.AdminGetPost))
	mux.HandleFunc("POST /admin/posts", admin(blogHandler.CreatePost))
	mux.HandleFunc("PUT /admin/posts/{id}", admin(blogHandler.UpdatePost))
	mux.HandleFunc("DELETE /admin/posts/{id}", admin(blogHandler.DeletePost))
	mux.HandleFunc("GET /admin/categories", admin(blogHandler.ListCategories))
	mux.HandleFunc("POST /admin/categories", admin(blogHandler.CreateCategory))
	mux.HandleFunc("PUT /admin/categories/{id}", admin(blogHandler.UpdateCategory))
	mux.HandleFunc("DELETE /admin/categories/{id}", admin(blogHandler.DeleteCategory))

	// Admin: subscribers
	mux.HandleFunc("GET /admin/subscribers", admin(newsletterHandler.ListSubscribers))
	mux.HandleFunc("GET /admin/subscribers/export", admin(newsletterHandler.ExportSubscribers))
	mux.HandleFunc("DELETE /admin/subscribers/{id}", admin(newsletterHandler.DeleteSubscriber))

	// Admin: bundles, flashcards, pricing
	mux.HandleFunc("GET /admin/bundles", admin(bundleHandler.AdminListBundles))
	mux.HandleFunc("POST /admin/bundles", admin(bundleHandler.CreateBundle))
	mux.HandleFunc("PUT /admin/bundles/{id}", admin(bundleHandler.UpdateBundle))
	mux.HandleFunc("DELETE /admin/bundles/{id}", admin(bundleHandler.DeleteBundle))
	mux.HandleFunc("GET /admin/bundles/{id}/flashcards", admin(bundleHandler.ListFlashcards))
	mux.HandleFunc("POST /admin/bundles/{id}/flashcards", admin(bundleHandler.CreateFlashcard))
	mux.HandleFunc("PUT /admin/bundles/{id}/flashcards/order", admin(bundleHandler.ReorderFlashcards))
	mux.HandleFunc("PUT /admin/flashcards/{id}", admin(bundleHandler.UpdateFlashcard))
	mux.HandleFunc("DELETE /admin/flashcards/{id}", admin(bundleHandler.DeleteFlashcard))
	mux.HandleFunc("GET /admin/pricing", admin(bundleHandler.AdminListPricing))
	mux.HandleFunc("POST /admin/pricing", admin(bundleHandler.CreatePricing))
	mux.HandleFunc("PUT /admin/pricing/{id}", admin(bundleHandler.UpdatePricing))
	mux.HandleFunc("DELETE /admin/pricing/{id}", admin(bundleHandler.DeletePricing))

	// Admin: Louvre tours, orders, museum purchases
	mux.HandleFunc("GET /admin/louvre-tours", admin(louvreHandler.AdminListTours))
	mux.HandleFunc("GET /admin/louvre-tours/{id}", admin(louvreHandler.AdminGetTour))
	mux.HandleFunc("POST /admin/louvre-tours", admin(louvreHandler.CreateTour))
	mux.HandleFunc("PUT /admin/louvre-tours/{id}", admin(louvreHandler.UpdateTour))
	mux.HandleFunc("DELETE /admin/louvre-tours/{id}", admin(louvreHandler.DeleteTour))
	mux.HandleFunc("POST /admin/louvre-tours/{id}/stops", admin(louvreHandler.AddStop))
	mux.HandleFunc("PUT /admin/louvre-stops/{id}", admin(louvreHandler.UpdateStop))
	mux.HandleFunc("DELETE /admin/louvre-stops/{id}", admin(louvreHandler.DeleteStop))
	mux.HandleFunc("GET /admin/orders", admin(louvreHandler.AdminListOrders))
	mux.HandleFunc("GET /admin/museum-purchases", admin(museumHandler.AdminListPurchases))

	// Admin: map points and uploads
	mux.HandleFunc("GET /admin/map-points", admin(mapHandler.ListMapPoints))
	mux.HandleFunc("POST /admin/map-points", admin(mapHandler.CreateMapPoint))
	mux.HandleFunc("PUT /admin/map-points/{id}", admin(mapHandler.UpdateMapPoint))
	mux.HandleFunc("DELETE /admin/map-points/{id}", admin(mapHandler.DeleteMapPoint))
	mux.HandleFunc("POST /admin/uploads", admin(uploadHandler.Upload))
	mux.HandleFunc("DELETE /admin/uploads/{key...}", admin(uploadHandler.DeleteUpload))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
			return
		}
		w.Write([]byte("paris-guide API v1"))
	})

	return middleware.CORS(cfg.PublicBaseURL)(mux)
}
