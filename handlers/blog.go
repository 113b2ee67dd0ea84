// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/paris-guide/cliparse"
	"github.com/danielhkuo/paris-guide/middleware"
	"github.com/danielhkuo/paris-guide/models"
	"github.com/danielhkuo/paris-guide/store"
)

const (
	DefaultPostsPerPage = 10
	MaxPostsPerPage     = 50
)

type BlogHandler struct {
	st  *store.Store
	cfg cliparse.Config
}

func NewBlogHandler(st *store.Store, cfg cliparse.Config) *BlogHandler {
	return &BlogHandler{st: st, cfg: cfg}
}

// ListPosts handles GET /blog/posts?category=&page=&per_page=
func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1, 0)
	perPage := queryInt(r, "per_page", DefaultPostsPerPage, MaxPostsPerPage)

	posts, total, err := h.st.Posts.ListPublished(r.Context(), r.URL.Query().Get("category"), perPage, (page-1)*perPage)
	if err != nil {
		storeError(w, err, "Post")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PostList{
		Posts:   posts,
		Page:    page,
		PerPage: perPage,
		Total:   total,
	})
}

// GetPost handles GET /blog/posts/{slug}
func (h *BlogHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.st.Posts.GetPublishedBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		storeError(w, err, "Post")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, post)
}

// ListCategories handles GET /blog/categories and GET /admin/categories
func (h *BlogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.st.Categories.List(r.Context())
	if err != nil {
		storeError(w, err, "Category")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, cats)
}

// AdminListPosts handles GET /admin/posts, drafts included
func (h *BlogHandler) AdminListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.st.Posts.ListAll(r.Context())
	if err != nil {
		storeError(w, err, "Post")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, posts)
}

// AdminGetPost handles GET /admin/posts/{id}
func (h *BlogHandler) AdminGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.st.Posts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, err, "Post")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, post)
}

// CreatePost handles POST /admin/posts
func (h *BlogHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.decodePost(w, r)
	if !ok {
		return
	}
	if post.Author == "" {
		if p, ok := middleware.ProfileFromContext(r.Context()); ok {
			post.Author = p.FullName
		}
	}

	if err := h.st.Posts.Create(r.Context(), post); err != nil {
		storeError(w, err, "Post")
		return
	}

	slog.Info("post created", "post_id", post.ID, "slug", post.Slug, "published", post.Published)
	middleware.JSONResponse(w, http.StatusCreated, post)
}

// UpdatePost handles PUT /admin/posts/{id}
func (h *BlogHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.decodePost(w, r)
	if !ok {
		return
	}
	post.ID = r.PathValue("id")

	if err := h.st.Posts.Update(r.Context(), post); err != nil {
		storeError(w, err, "Post")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, post)
}

// DeletePost handles DELETE /admin/posts/{id}
func (h *BlogHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.st.Posts.Delete(r.Context(), id); err != nil {
		storeError(w, err, "Post")
		return
	}

	slog.Info("post deleted", "post_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// CreateCategory handles POST /admin/categories
func (h *BlogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.decodeCategory(w, r)
	if !ok {
		return
	}

	if err := h.st.Categories.Create(r.Context(), cat); err != nil {
		storeError(w, err, "Category")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, cat)
}

// UpdateCategory handles PUT /admin/categories/{id}
func (h *BlogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.decodeCategory(w, r)
	if !ok {
		return
	}
	cat.ID = r.PathValue("id")

	if err := h.st.Categories.Update(r.Context(), cat); err != nil {
		storeError(w, err, "Category")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, cat)
}

// DeleteCategory handles DELETE /admin/categories/{id}
func (h *BlogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.st.Categories.Delete(r.Context(), r.PathValue("id")); err != nil {
		storeError(w, err, "Category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BlogHandler) decodePost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	var req models.PostRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return nil, false
	}
	s, ok := resolveSlug(w, req.Slug, req.Title)
	if !ok {
		return nil, false
	}
	if req.CategoryID != nil && *req.CategoryID == "" {
		req.CategoryID = nil
	}

	return &models.Post{
		Slug:       s,
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		CategoryID: req.CategoryID,
		Author:     strings.TrimSpace(req.Author),
		Published:  req.Published,
	}, true
}

func (h *BlogHandler) decodeCategory(w http.ResponseWriter, r *http.Request) (*models.BlogCategory, bool) {
	var req models.CategoryRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return nil, false
	}
	s, ok := resolveSlug(w, req.Slug, req.Name)
	if !ok {
		return nil, false
	}

	return &models.BlogCategory{
		Slug:        s,
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	}, true
}
