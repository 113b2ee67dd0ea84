package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/paris-guide/auth"
	"github.com/danielhkuo/paris-guide/cliparse"
	"github.com/danielhkuo/paris-guide/db"
	"github.com/danielhkuo/paris-guide/router"
	"github.com/danielhkuo/paris-guide/seed"
	"github.com/danielhkuo/paris-guide/storage"
	"github.com/danielhkuo/paris-guide/store"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Connect and verify
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(ctx, dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	st := store.New(dbConn)

	if cfg.AdminEmail != "" {
		hash, err := auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			slog.Error("admin password hashing failed", "error", err)
			os.Exit(1)
		}
		admin, err := st.Profiles.EnsureAdmin(ctx, cfg.AdminEmail, hash)
		if err != nil {
			slog.Error("admin account setup failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Admin account ready", "email", admin.Email)
	}

	if cfg.SeedFile != "" {
		f, err := seed.LoadFile(cfg.SeedFile)
		if err != nil {
			slog.Error("seed file invalid", "path", cfg.SeedFile, "error", err)
			os.Exit(1)
		}
		if _, err := seed.Apply(ctx, st, f); err != nil {
			slog.Error("seeding failed", "path", cfg.SeedFile, "error", err)
			os.Exit(1)
		}
	}

	objects, err := storage.NewFileStore(
		cfg.UploadDir,
		cfg.APIBaseURL+"/uploads",
		int64(cfg.MaxUploadMB)<<20,
	)
	if err != nil {
		slog.Error("upload storage unavailable", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	// Create router
	handler := router.NewRouter(st, objects, cfg)

	// Create server
	server := http.Server{
		Handler:           handler,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
