// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Smallest valid PNG header, enough for content sniffing
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newStore(t *testing.T, maxBytes int64) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), "http://localhost:3318/uploads/", maxBytes)
	require.NoError(t, err)
	return s
}

func TestPutOpenDelete(t *testing.T) {
	s := newStore(t, 1024)
	ctx := context.Background()

	obj, err := s.Put(ctx, "tours", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj.Key, "tours/"))
	assert.True(t, strings.HasSuffix(obj.Key, ".png"))
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, int64(len(pngHeader)), obj.Size)
	assert.Equal(t, "http://localhost:3318/uploads/"+obj.Key, s.URL(obj.Key))

	rc, info, err := s.Open(ctx, obj.Key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
	assert.Equal(t, "image/png", info.ContentType)

	require.NoError(t, s.Delete(ctx, obj.Key))
	_, _, err = s.Open(ctx, obj.Key)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, obj.Key), ErrNotFound)
}

func TestPutRejects(t *testing.T) {
	s := newStore(t, 16)
	ctx := context.Background()

	_, err := s.Put(ctx, "tours", bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = s.Put(ctx, "tours", strings.NewReader("plain text"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = s.Put(ctx, "../etc", bytes.NewReader(pngHeader[:8]))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestOpenRejectsTraversal(t *testing.T) {
	s := newStore(t, 1024)
	ctx := context.Background()

	for _, key := range []string{"../secret", "/etc/passwd", "tours/../../x", "", ".hidden/a.png"} {
		_, _, err := s.Open(ctx, key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}
