package style

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/quantmind-br/stylekit/internal/cache"
	"github.com/quantmind-br/stylekit/internal/domain"
	"github.com/quantmind-br/stylekit/internal/fetcher"
)

func newTestManager(t *testing.T, opts Options) *Manager {
	t.Helper()
	if opts.CacheOption == "" {
		opts.CacheOption = "never"
	}
	m, err := NewManager(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestManager_Fetch_OfflineSkipsNetworkFetcher(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No Fetch expectation: any call fails the test
	remote := newStubFetcher(ctrl, "remote", []string{"https"}, []string{"styles.example.com"}, true)

	m := newTestManager(t, Options{Offline: true, Fetchers: []domain.StyleFetcher{remote}})

	info, err := m.Fetch(context.Background(), "https://styles.example.com/base.toml")
	require.NoError(t, err)
	assert.Equal(t, domain.StyleInfo{}, info)
	assert.True(t, info.IsEmpty())
	assert.False(t, info.HasPath())
}

func TestManager_Fetch_OfflineStillRunsLocalFetcher(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := newStubFetcher(ctrl, "local", []string{"custom"}, nil, false)
	want := domain.StyleInfo{Path: "/x.toml", Content: "x = 1"}
	local.EXPECT().Fetch(gomock.Any(), "custom://thing/x.toml").Return(want, nil)

	m := newTestManager(t, Options{Offline: true, Fetchers: []domain.StyleFetcher{local}})

	info, err := m.Fetch(context.Background(), "custom://thing/x.toml")
	require.NoError(t, err)
	assert.Equal(t, want, info)
}

func TestManager_Fetch_OnlineReturnsResultVerbatim(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := newStubFetcher(ctrl, "remote", nil, []string{"styles.example.com"}, true)
	want := domain.StyleInfo{Content: "remote = true"}
	remote.EXPECT().Fetch(gomock.Any(), "https://styles.example.com/base.toml").Return(want, nil)

	m := newTestManager(t, Options{Fetchers: []domain.StyleFetcher{remote}})

	info, err := m.Fetch(context.Background(), "https://styles.example.com/base.toml")
	require.NoError(t, err)
	assert.Equal(t, want, info)
}

func TestManager_Fetch_PropagatesFetcherError(t *testing.T) {
	ctrl := gomock.NewController(t)
	boom := domain.NewFetchError("custom://x", 0, errors.New("boom"))
	f := newStubFetcher(ctrl, "custom", []string{"custom"}, nil, false)
	f.EXPECT().Fetch(gomock.Any(), "custom://x").Return(domain.StyleInfo{}, boom)

	m := newTestManager(t, Options{Fetchers: []domain.StyleFetcher{f}})

	_, err := m.Fetch(context.Background(), "custom://x")
	assert.Same(t, boom, err)
}

func TestManager_Fetch_DomainBeatsScheme(t *testing.T) {
	ctrl := gomock.NewController(t)
	byDomain := newStubFetcher(ctrl, "domain", nil, []string{"styles.example.com"}, false)
	byDomain.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(domain.StyleInfo{Content: "domain"}, nil)

	m := newTestManager(t, Options{Fetchers: []domain.StyleFetcher{byDomain}})

	info, err := m.Fetch(context.Background(), "https://styles.example.com/base.toml")
	require.NoError(t, err)
	assert.Equal(t, "domain", info.Content)
}

func TestManager_Fetch_UnsupportedProtocol(t *testing.T) {
	m := newTestManager(t, Options{})

	_, err := m.Fetch(context.Background(), "FTP://files.example.com/style.toml")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedProtocol)

	var unsupported *domain.UnsupportedProtocolError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "ftp", unsupported.Scheme)
}

func TestManager_Fetch_LocalAndBundled(t *testing.T) {
	memfs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memfs, "/work/style.toml", []byte("local = 1"), 0644))

	m := newTestManager(t, Options{Fs: memfs, BaseDir: "/work", Offline: true})

	info, err := m.Fetch(context.Background(), "style.toml")
	require.NoError(t, err)
	assert.Equal(t, domain.StyleInfo{Path: "/work/style.toml", Content: "local = 1"}, info)

	info, err = m.Fetch(context.Background(), "py://stylekit/python/black.toml")
	require.NoError(t, err)
	assert.False(t, info.HasPath())
	assert.Contains(t, info.Content, "line-length")

	// Offline: GitHub is skipped without touching the network
	info, err = m.Fetch(context.Background(), "gh://owner/repo/style.toml")
	require.NoError(t, err)
	assert.True(t, info.IsEmpty())
}

func TestManager_Fetch_ColonInFileName(t *testing.T) {
	memfs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memfs, "/work/team:base.toml", []byte("team = 1"), 0644))

	m := newTestManager(t, Options{Fs: memfs, BaseDir: "/work", Offline: true})

	info, err := m.Fetch(context.Background(), "team:base.toml")
	require.NoError(t, err)
	assert.Equal(t, domain.StyleInfo{Path: "/work/team:base.toml", Content: "team = 1"}, info)
}

func TestManager_FetchAll(t *testing.T) {
	memfs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memfs, "/work/a.toml", []byte("a"), 0644))
	require.NoError(t, afero.WriteFile(memfs, "/work/b.toml", []byte("b"), 0644))

	m := newTestManager(t, Options{Fs: memfs, BaseDir: "/work"})

	infos, err := m.FetchAll(context.Background(), "a.toml", "b.toml")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "a", infos[0].Content)
	assert.Equal(t, "b", infos[1].Content)

	infos, err = m.FetchAll(context.Background(), "a.toml", "missing.toml", "b.toml")
	require.Error(t, err)
	assert.Len(t, infos, 1)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{"https relative", "https://example.com/styles/base.toml", "python.toml", "https://example.com/styles/python.toml"},
		{"https parent", "https://example.com/styles/base.toml", "../other.toml", "https://example.com/other.toml"},
		{"py relative", "py://stylekit/python/black.toml", "isort.toml", "py://stylekit/python/isort.toml"},
		{"gh relative", "gh://owner/repo@v1/styles/base.toml", "extra.toml", "gh://owner/repo@v1/styles/extra.toml"},
		{"absolute url ref", "https://example.com/a.toml", "gh://o/r/b.toml", "gh://o/r/b.toml"},
		{"local relative", "/work/styles/base.toml", "python.toml", filepath.Join("/work/styles", "python.toml")},
		{"local absolute ref", "/work/styles/base.toml", "/etc/style.toml", "/etc/style.toml"},
		{"drive ref", "/work/base.toml", "C:/styles/x.toml", "C:/styles/x.toml"},
		{"empty ref", "/work/base.toml", "", ""},
		{"empty base", "", "x.toml", "x.toml"},
		{"colon file ref", "/work/styles/base.toml", "team:extra.toml", filepath.Join("/work/styles", "team:extra.toml")},
		{"colon file base", "team:base.toml", "extra.toml", "extra.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.base, tt.ref))
		})
	}
}

func TestManager_ResolveMatchesPackageResolve(t *testing.T) {
	m := newTestManager(t, Options{})
	assert.Equal(t, Resolve("py://stylekit/base.toml", "x.toml"), m.Resolve("py://stylekit/base.toml", "x.toml"))
}

func TestNewManager_State(t *testing.T) {
	dir := t.TempDir()

	m, err := NewManager(Options{CacheDir: dir, CacheOption: "2 hours", Offline: true})
	require.NoError(t, err)
	defer m.Close()

	assert.True(t, m.Offline())
	assert.Equal(t, dir, m.CacheDir())
	assert.Equal(t, "2 hours", m.CacheOption())
	assert.Equal(t, cache.ModeExpires, m.Policy().Mode)
	assert.True(t, m.Policy().CacheControl())
	assert.DirExists(t, filepath.Join(dir, fetcher.CacheSubdir))

	fetchers := m.Fetchers()
	assert.Contains(t, fetchers, "github.com")
	assert.Equal(t, "github", fetchers["github.com"].Name())
}

func TestNewManager_SharedCacheDirectory(t *testing.T) {
	dir := t.TempDir()

	first, err := NewManager(Options{CacheDir: dir})
	require.NoError(t, err)
	second, err := NewManager(Options{CacheDir: dir})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, first.Session().(*fetcher.Session).Cache().Set(ctx, "shared", []byte("v"), 0))
	assert.True(t, second.Session().(*fetcher.Session).Cache().Has(ctx, "shared"))

	require.NoError(t, first.Close())
	assert.True(t, second.Session().(*fetcher.Session).Cache().Has(ctx, "shared"))
	require.NoError(t, second.Close())
}

func TestNewManager_ZeroRetriesMakesOneRequest(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	m := newTestManager(t, Options{MaxRetries: 0})

	_, err := m.Fetch(context.Background(), server.URL+"/style.toml")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestNewManager_NeverPolicyOpensNoStore(t *testing.T) {
	dir := t.TempDir()

	m := newTestManager(t, Options{CacheDir: dir, CacheOption: "never"})
	assert.Equal(t, cache.ModeNever, m.Policy().Mode)
	assert.False(t, m.Policy().CacheControl())
	assert.NoDirExists(t, filepath.Join(dir, fetcher.CacheSubdir))
}

func TestNewManager_InvalidCacheOptionFallsBackToForever(t *testing.T) {
	m := newTestManager(t, Options{CacheOption: "sometimes"})
	assert.Equal(t, cache.ModeForever, m.Policy().Mode)
	assert.False(t, m.Policy().Valid)
}
