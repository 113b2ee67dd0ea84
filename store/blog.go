// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/paris-guide/models"
)

type CategoryRepository struct {
	db *sqlx.DB
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.BlogCategory, error) {
	cats := []models.BlogCategory{}
	if err := r.db.SelectContext(ctx, &cats, `SELECT * FROM blog_categories ORDER BY sort_order, name`); err != nil {
		return nil, classify(err, "list categories")
	}
	return cats, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.BlogCategory) error {
	id, err := newID()
	if err != nil {
		return err
	}
	c.ID = id
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO blog_categories (id, slug, name, description, sort_order) VALUES (?, ?, ?, ?, ?)
	`), c.ID, c.Slug, c.Name, c.Description, c.SortOrder)
	return classify(err, "create category")
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.BlogCategory) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE blog_categories SET slug = ?, name = ?, description = ?, sort_order = ? WHERE id = ?
	`), c.Slug, c.Name, c.Description, c.SortOrder, c.ID)
	return expectRow(res, err, "update category")
}

// Delete removes a category; its posts become uncategorised
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(err, "begin transaction")
	}
	defer tx.Rollback()

	// SQLite without foreign keys enabled ignores ON DELETE SET NULL
	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE posts SET category_id = NULL WHERE category_id = ?`), id); err != nil {
		return classify(err, "detach posts")
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM blog_categories WHERE id = ?`), id)
	if err := expectRow(res, err, "delete category"); err != nil {
		return err
	}
	return classify(tx.Commit(), "commit category delete")
}

type PostRepository struct {
	db *sqlx.DB
}

// Listing queries leave out the body
const postListColumns = `p.id, p.slug, p.title, p.excerpt, p.cover_image, p.category_id, p.author,
	p.published, p.published_at, p.created_at, p.updated_at`

// ListPublished pages through published posts, newest first. An empty
// categorySlug lists every category.
func (r *PostRepository) ListPublished(ctx context.Context, categorySlug string, limit, offset int) ([]models.Post, int, error) {
	where := ` WHERE p.published = TRUE`
	args := []any{}
	if categorySlug != "" {
		where += ` AND c.slug = ?`
		args = append(args, categorySlug)
	}
	from := ` FROM posts p LEFT JOIN blog_categories c ON c.id = p.category_id`

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*)`+from+where), args...); err != nil {
		return nil, 0, classify(err, "count posts")
	}

	posts := []models.Post{}
	query := `SELECT ` + postListColumns + from + where + ` ORDER BY p.published_at DESC, p.id LIMIT ? OFFSET ?`
	if err := r.db.SelectContext(ctx, &posts, r.db.Rebind(query), append(args, limit, offset)...); err != nil {
		return nil, 0, classify(err, "list posts")
	}
	return posts, total, nil
}

// ListAll returns every post including drafts, for the admin editor
func (r *PostRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	err := r.db.SelectContext(ctx, &posts, `SELECT `+postListColumns+` FROM posts p ORDER BY p.updated_at DESC`)
	if err != nil {
		return nil, classify(err, "list posts")
	}
	return posts, nil
}

func (r *PostRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var p models.Post
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`SELECT * FROM posts WHERE slug = ? AND published = TRUE`), slug)
	if err != nil {
		return nil, classify(err, "get post")
	}
	return &p, nil
}

func (r *PostRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := r.db.GetContext(ctx, &p, r.db.Rebind(`SELECT * FROM posts WHERE id = ?`), id); err != nil {
		return nil, classify(err, "get post")
	}
	return &p, nil
}

func (r *PostRepository) Create(ctx context.Context, p *models.Post) error {
	id, err := newID()
	if err != nil {
		return err
	}
	p.ID = id
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	if p.Published && p.PublishedAt == nil {
		p.PublishedAt = &p.CreatedAt
	}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO posts (id, slug, title, excerpt, content, cover_image, category_id, author,
		                   published, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.Slug, p.Title, p.Excerpt, p.Content, p.CoverImage, p.CategoryID, p.Author,
		p.Published, p.PublishedAt, p.CreatedAt, p.UpdatedAt)
	return classify(err, "create post")
}

// Update saves a post. The first time it is published, published_at is set.
func (r *PostRepository) Update(ctx context.Context, p *models.Post) error {
	current, err := r.Get(ctx, p.ID)
	if err != nil {
		return err
	}
	p.CreatedAt = current.CreatedAt
	p.PublishedAt = current.PublishedAt
	p.UpdatedAt = now()
	if p.Published && p.PublishedAt == nil {
		p.PublishedAt = &p.UpdatedAt
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE posts
		SET slug = ?, title = ?, excerpt = ?, content = ?, cover_image = ?, category_id = ?, author = ?,
		    published = ?, published_at = ?, updated_at = ?
		WHERE id = ?
	`), p.Slug, p.Title, p.Excerpt, p.Content, p.CoverImage, p.CategoryID, p.Author,
		p.Published, p.PublishedAt, p.UpdatedAt, p.ID)
	return expectRow(res, err, "update post")
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM posts WHERE id = ?`), id)
	return expectRow(res, err, "delete post")
}
