// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("object not found")
	ErrTooLarge        = errors.New("upload exceeds size limit")
	ErrUnsupportedType = errors.New("only image uploads are accepted")
	ErrInvalidKey      = errors.New("invalid object key")
)

// Extensions for the image types we accept, keyed by sniffed content type
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Object is a stored upload
type Object struct {
	Key         string
	ContentType string
	Size        int64
}

// ObjectStore keeps uploaded media. Keys look like "<prefix>/<uuid><ext>".
type ObjectStore interface {
	Put(ctx context.Context, prefix string, r io.Reader) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, Object, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// FileStore is an ObjectStore on the local filesystem
type FileStore struct {
	root     string
	baseURL  string
	maxBytes int64
}

// NewFileStore creates root if needed. baseURL is the public prefix objects
// are served under, e.g. "http://localhost:3318/uploads".
func NewFileStore(root, baseURL string, maxBytes int64) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &FileStore{
		root:     root,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		maxBytes: maxBytes,
	}, nil
}

func (s *FileStore) Put(ctx context.Context, prefix string, r io.Reader) (Object, error) {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" || !validKey(prefix) {
		return Object{}, fmt.Errorf("%w: prefix %q", ErrInvalidKey, prefix)
	}

	// One byte past the limit tells us the upload is too large
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return Object{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return Object{}, ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageTypes[contentType]
	if !ok {
		return Object{}, fmt.Errorf("%w: got %s", ErrUnsupportedType, contentType)
	}

	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	key := path.Join(prefix, uuid.NewString()+ext)
	full := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Object{}, fmt.Errorf("failed to create object dir: %w", err)
	}

	// Write to a temp file first so readers never see a partial object
	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return Object{}, fmt.Errorf("failed to create object: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		return Object{}, fmt.Errorf("failed to write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Object{}, fmt.Errorf("failed to write object: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return Object{}, fmt.Errorf("failed to store object: %w", err)
	}

	return Object{Key: key, ContentType: contentType, Size: int64(len(data))}, nil
}

func (s *FileStore) Open(ctx context.Context, key string) (io.ReadCloser, Object, error) {
	full, err := s.path(key)
	if err != nil {
		return nil, Object{}, err
	}

	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, Object{}, ErrNotFound
	}
	if err != nil {
		return nil, Object{}, fmt.Errorf("failed to open object: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, Object{}, fmt.Errorf("failed to stat object: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, Object{}, ErrNotFound
	}

	contentType := "application/octet-stream"
	for ct, ext := range imageTypes {
		if strings.EqualFold(path.Ext(key), ext) {
			contentType = ct
			break
		}
	}

	return f, Object{Key: key, ContentType: contentType, Size: info.Size()}, nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *FileStore) URL(key string) string {
	return s.baseURL + "/" + key
}

// path resolves a key inside root, refusing anything that escapes it
func (s *FileStore) path(key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return false
	}
	if path.Clean(key) != key {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." || strings.HasPrefix(part, ".") {
			return false
		}
	}
	return true
}
