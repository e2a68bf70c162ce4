package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "https://cdn.example.com/"})
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "gallery/2026/10/a.jpg", strings.NewReader("img"), "image/jpeg"))

	ok, err := s.Exists(ctx, "gallery/2026/10/a.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Get(ctx, "gallery/2026/10/a.jpg")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "img", string(data))

	url, err := s.GetURL(ctx, "gallery/2026/10/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/gallery/2026/10/a.jpg", url)

	require.NoError(t, s.Delete(ctx, "gallery/2026/10/a.jpg"))
	require.NoError(t, s.Delete(ctx, "gallery/2026/10/a.jpg"))
	ok, _ = s.Exists(ctx, "gallery/2026/10/a.jpg")
	assert.False(t, ok)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	err = s.Save(context.Background(), "../../etc/passwd", strings.NewReader("x"), "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestObjectPath(t *testing.T) {
	p := ObjectPath("rooms", ".PNG", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(p, "rooms/2026/03/"))
	assert.True(t, strings.HasSuffix(p, ".png"))
}

func TestNewStorageRejectsUnknownType(t *testing.T) {
	_, err := NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)
}
