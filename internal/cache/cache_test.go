package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/stylekit/internal/domain"
)

// TestEntry_IsExpired tests entry expiration
func TestEntry_IsExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		entry    *Entry
		expected bool
	}{
		{
			name:     "not expired",
			entry:    &Entry{ExpiresAt: now.Add(1 * time.Hour)},
			expected: false,
		},
		{
			name:     "expired",
			entry:    &Entry{ExpiresAt: now.Add(-1 * time.Hour)},
			expected: true,
		},
		{
			name:     "expires exactly now",
			entry:    &Entry{ExpiresAt: now},
			expected: true,
		},
		{
			name:     "never expires",
			entry:    &Entry{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.IsExpired(now))
		})
	}
}

func TestGenerateKey(t *testing.T) {
	t.Run("consistent for same URL", func(t *testing.T) {
		assert.Equal(t, GenerateKey("https://example.com/style.toml"), GenerateKey("https://example.com/style.toml"))
	})

	t.Run("different for different URLs", func(t *testing.T) {
		assert.NotEqual(t, GenerateKey("https://example.com/a.toml"), GenerateKey("https://example.com/b.toml"))
	})

	t.Run("sha256 hex length", func(t *testing.T) {
		assert.Len(t, GenerateKey("gh://owner/repo/style.toml"), 64)
		assert.Len(t, GenerateKey(":not-a-url"), 64)
	})

	t.Run("host case and default port are ignored", func(t *testing.T) {
		assert.Equal(t,
			GenerateKey(RequestKey("GET", "https://example.com/style.toml")),
			GenerateKey(RequestKey("get", "HTTPS://EXAMPLE.com:443/style.toml#frag")),
		)
	})

	t.Run("method is part of the key", func(t *testing.T) {
		assert.NotEqual(t,
			GenerateKey(RequestKey("GET", "https://example.com/style.toml")),
			GenerateKey(RequestKey("HEAD", "https://example.com/style.toml")),
		)
	})
}

func TestEncodeDecodeEntry(t *testing.T) {
	fetched := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	entry := &Entry{
		URL:         "https://example.com/style.toml",
		Content:     []byte("[tool.stylekit]\nstyle = []\n"),
		ContentType: "text/plain",
		FetchedAt:   fetched,
		ExpiresAt:   fetched.Add(time.Hour),
	}

	data, err := EncodeEntry(entry)
	require.NoError(t, err)

	decoded, err := DecodeEntry(data)
	require.NoError(t, err)
	assert.Equal(t, entry.URL, decoded.URL)
	assert.Equal(t, entry.Content, decoded.Content)
	assert.Equal(t, entry.ContentType, decoded.ContentType)
	assert.True(t, entry.FetchedAt.Equal(decoded.FetchedAt))
	assert.True(t, entry.ExpiresAt.Equal(decoded.ExpiresAt))

	_, err = DecodeEntry([]byte("not zstd"))
	assert.Error(t, err)
}

func TestBadgerCache_RequiresDirectory(t *testing.T) {
	_, err := NewBadgerCache(Options{})
	assert.Error(t, err)
}

func TestBadgerCache_GetSetDelete(t *testing.T) {
	c, err := NewBadgerCache(Options{InMemory: true})
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	key := "GET https://example.com/style.toml"

	_, err = c.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.False(t, c.Has(ctx, key))

	require.NoError(t, c.Set(ctx, key, []byte("content"), time.Hour))
	assert.True(t, c.Has(ctx, key))

	value, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), value)

	require.NoError(t, c.Set(ctx, key, []byte("updated"), 0))
	value, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("updated"), value)

	require.NoError(t, c.Delete(ctx, key))
	assert.False(t, c.Has(ctx, key))
	assert.NoError(t, c.Delete(ctx, "GET https://example.com/missing"))
}

func TestBadgerCache_ClearAndStats(t *testing.T) {
	c, err := NewBadgerCache(Options{InMemory: true})
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	assert.Equal(t, int64(2), c.Size())
	assert.Equal(t, int64(2), c.Stats().Entries)
	assert.Empty(t, c.Directory())

	require.NoError(t, c.Clear())
	assert.Equal(t, int64(0), c.Size())
}

func TestBadgerCache_SharedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "styles")
	ctx := context.Background()

	first, err := NewBadgerCache(Options{Directory: dir})
	require.NoError(t, err)

	second, err := NewBadgerCache(Options{Directory: dir})
	require.NoError(t, err, "a second handle on the same directory must not hit badger's lock")

	require.NoError(t, first.Set(ctx, "key", []byte("shared"), 0))
	value, err := second.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("shared"), value)

	require.NoError(t, first.Close())
	require.NoError(t, first.Close(), "closing twice is a no-op")

	value, err = second.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("shared"), value)
	require.NoError(t, second.Close())

	reopened, err := NewBadgerCache(Options{Directory: dir})
	require.NoError(t, err)
	defer reopened.Close()

	value, err = reopened.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("shared"), value)
	assert.Equal(t, dir, reopened.Directory())
}
