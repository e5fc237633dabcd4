package fetchers

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/quantmind-br/stylekit/internal/domain"
	"github.com/quantmind-br/stylekit/internal/style/presets"
	"github.com/quantmind-br/stylekit/internal/utils"
)

// Ensure BundleFetcher implements domain.StyleFetcher
var _ domain.StyleFetcher = (*BundleFetcher)(nil)

var (
	bundlesMu sync.RWMutex
	bundles   = map[string]fs.FS{}
)

func init() {
	RegisterBundle(presets.Name, presets.FS())
}

// RegisterBundle makes fsys addressable as py://name/... A later
// registration under the same name replaces the earlier one.
func RegisterBundle(name string, fsys fs.FS) {
	bundlesMu.Lock()
	defer bundlesMu.Unlock()
	bundles[strings.ToLower(name)] = fsys
}

// LookupBundle returns the bundle registered under name
func LookupBundle(name string) (fs.FS, bool) {
	bundlesMu.RLock()
	defer bundlesMu.RUnlock()
	fsys, ok := bundles[strings.ToLower(name)]
	return fsys, ok
}

// BundleNames returns the registered bundle names, sorted
func BundleNames() []string {
	bundlesMu.RLock()
	defer bundlesMu.RUnlock()
	names := make([]string, 0, len(bundles))
	for name := range bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BundleFetcher reads styles shipped inside registered bundles
type BundleFetcher struct {
	logger *utils.Logger
}

// NewBundleFetcher creates a BundleFetcher
func NewBundleFetcher(logger *utils.Logger) *BundleFetcher {
	return &BundleFetcher{logger: utils.OrNop(logger).WithFetcher("bundle")}
}

func (f *BundleFetcher) Name() string             { return "bundle" }
func (f *BundleFetcher) RequiresConnection() bool { return false }
func (f *BundleFetcher) Domains() []string        { return nil }

func (f *BundleFetcher) Protocols() []string {
	return []string{domain.SchemePy.String(), domain.SchemePyPackage.String()}
}

// Fetch reads a bundled resource. The host names the bundle; dots in the
// host select directories inside it, so py://stylekit.python/black.toml
// and py://stylekit/python/black.toml name the same file.
func (f *BundleFetcher) Fetch(ctx context.Context, raw string) (domain.StyleInfo, error) {
	if err := ctx.Err(); err != nil {
		return domain.StyleInfo{}, err
	}

	name, resource, err := splitBundleURL(raw)
	if err != nil {
		return domain.StyleInfo{}, domain.NewFetchError(raw, 0, err)
	}

	fsys, ok := LookupBundle(name)
	if !ok {
		return domain.StyleInfo{}, domain.NewFetchError(raw, 0, fmt.Errorf("bundle %q: %w", name, domain.ErrNotFound))
	}

	data, err := fs.ReadFile(fsys, resource)
	if err != nil {
		return domain.StyleInfo{}, domain.NewFetchError(raw, 0, fmt.Errorf("%s in bundle %q: %w", resource, name, domain.ErrNotFound))
	}

	f.logger.Debug().Str("bundle", name).Str("resource", resource).Msg("Read bundled style")
	return domain.StyleInfo{Content: string(data)}, nil
}

func splitBundleURL(raw string) (name, resource string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}

	segments := strings.Split(strings.ToLower(u.Host), ".")
	if segments[0] == "" {
		return "", "", fmt.Errorf("%w: missing bundle name in %q", domain.ErrInvalidURL, raw)
	}

	elems := append(segments[1:], strings.Trim(u.Path, "/"))
	resource = path.Clean(path.Join(elems...))
	if resource == "." || !fs.ValidPath(resource) {
		return "", "", fmt.Errorf("%w: missing resource in %q", domain.ErrInvalidURL, raw)
	}
	return segments[0], resource, nil
}
