// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/paris-guide/cliparse"
	"github.com/danielhkuo/paris-guide/middleware"
	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/slug"
	"github.com/danielhkuo/paris-guide/storage"
)

// DefaultUploadPrefix is used when the form has no prefix field
const DefaultUploadPrefix = "images"

type UploadHandler struct {
	objects storage.ObjectStore
	cfg     cliparse.Config
}

func NewUploadHandler(objects storage.ObjectStore, cfg cliparse.Config) *UploadHandler {
	return &UploadHandler{objects: objects, cfg: cfg}
}

// Upload handles POST /admin/uploads (multipart: file, optional prefix)
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(h.cfg.MaxUploadMB) << 20
	// Room for the multipart framing around the file
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+64<<10)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, storage.ErrTooLarge.Error())
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Expected a multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	prefix := strings.TrimSpace(r.FormValue("prefix"))
	if prefix == "" {
		prefix = DefaultUploadPrefix
	}
	if !slug.Valid(prefix) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "prefix must be lowercase letters, digits and hyphens")
		return
	}

	obj, err := h.objects.Put(r.Context(), prefix, file)
	if err != nil {
		storageError(w, err)
		return
	}

	slog.Info("upload stored", "key", obj.Key, "content_type", obj.ContentType, "size", obj.Size)
	middleware.JSONResponse(w, http.StatusCreated, models.UploadResponse{
		Key: obj.Key,
		URL: h.objects.URL(obj.Key),
	})
}

// DeleteUpload handles DELETE /admin/uploads/{key...}
func (h *UploadHandler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if err := h.objects.Delete(r.Context(), key); err != nil {
		storageError(w, err)
		return
	}

	slog.Info("upload deleted", "key", key)
	w.WriteHeader(http.StatusNoContent)
}

// Serve handles GET /uploads/{key...}
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	rc, obj, err := h.objects.Open(r.Context(), r.PathValue("key"))
	if err != nil {
		storageError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("failed to stream upload", "key", obj.Key, "error", err)
	}
}

func storageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidKey):
		middleware.ErrorResponse(w, http.StatusNotFound, "Upload not found")
	case errors.Is(err, storage.ErrTooLarge):
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, storage.ErrTooLarge.Error())
	case errors.Is(err, storage.ErrUnsupportedType):
		middleware.ErrorResponse(w, http.StatusUnsupportedMediaType, storage.ErrUnsupportedType.Error())
	default:
		slog.Error("object storage failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
	}
}
