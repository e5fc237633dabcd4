package fetchers

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/stylekit/internal/domain"
	"github.com/quantmind-br/stylekit/internal/style/presets"
)

func TestBundleFetcher_Metadata(t *testing.T) {
	f := NewBundleFetcher(nil)
	assert.Equal(t, "bundle", f.Name())
	assert.False(t, f.RequiresConnection())
	assert.Equal(t, []string{"py", "pypackage"}, f.Protocols())
	assert.Empty(t, f.Domains())
}

func TestBundleFetcher_BuiltinPresets(t *testing.T) {
	f := NewBundleFetcher(nil)
	assert.Contains(t, BundleNames(), presets.Name)

	for _, raw := range []string{
		"py://stylekit/python/black.toml",
		"py://stylekit.python/black.toml",
		"pypackage://stylekit.python/black.toml",
		"py://StyleKit/python/black.toml",
	} {
		t.Run(raw, func(t *testing.T) {
			info, err := f.Fetch(context.Background(), raw)
			require.NoError(t, err)
			assert.Contains(t, info.Content, "line-length = 120")
			assert.False(t, info.HasPath())
		})
	}
}

func TestBundleFetcher_RegisteredBundle(t *testing.T) {
	RegisterBundle("acme", fstest.MapFS{
		"styles/strict.toml": {Data: []byte("strict = true")},
	})

	info, err := NewBundleFetcher(nil).Fetch(context.Background(), "py://acme.styles/strict.toml")
	require.NoError(t, err)
	assert.Equal(t, "strict = true", info.Content)

	fsys, ok := LookupBundle("ACME")
	require.True(t, ok)
	assert.NotNil(t, fsys)
}

func TestBundleFetcher_Errors(t *testing.T) {
	f := NewBundleFetcher(nil)

	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"unknown bundle", "py://missing/base.toml", domain.ErrNotFound},
		{"unknown resource", "py://stylekit/missing.toml", domain.ErrNotFound},
		{"no bundle name", "py:///base.toml", domain.ErrInvalidURL},
		{"no resource", "py://stylekit", domain.ErrInvalidURL},
		{"escaping path", "py://stylekit/../../etc/passwd", domain.ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var fetchErr *domain.FetchError
			assert.ErrorAs(t, err, &fetchErr)
		})
	}
}
