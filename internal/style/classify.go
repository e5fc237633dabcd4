package style

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/net/idna"

	"github.com/quantmind-br/stylekit/internal/domain"
	"github.com/quantmind-br/stylekit/internal/utils"
)

// Classify splits a style identifier into the keys used for fetcher lookup.
// Identifiers of the form scheme://..., with a scheme of two or more
// letters, yield the lower-cased IDNA-normalized hostname (possibly empty)
// and the lower-cased scheme. Everything else, including drive-letter
// paths such as C:\styles and names like team:base.toml, is a local file
// reference and yields ("", "file").
func Classify(identifier string) (host, scheme string) {
	u, ok := parseURL(identifier)
	if !ok {
		return "", domain.FileScheme
	}

	host = strings.ToLower(u.Hostname())
	if host != "" {
		if ascii, err := idna.Lookup.ToASCII(host); err == nil {
			host = ascii
		}
	}
	return host, strings.ToLower(u.Scheme)
}

// hasURLScheme reports whether s is a URL rather than a local path
func hasURLScheme(s string) bool {
	_, ok := parseURL(s)
	return ok
}

func parseURL(s string) (*url.URL, bool) {
	u, err := url.Parse(s)
	if err != nil || len(u.Scheme) < 2 {
		return nil, false
	}
	return u, strings.HasPrefix(s[len(u.Scheme):], "://")
}

var builtinSchemes sync.Once

// registerBuiltinSchemes makes the built-in protocols resolvable by
// utils.JoinURL without building a registry
func registerBuiltinSchemes() {
	builtinSchemes.Do(func() {
		for _, build := range variants {
			for _, scheme := range build(nil, Dependencies{}).Protocols() {
				utils.RegisterScheme(scheme)
			}
		}
	})
}

// Resolve interprets ref, found inside the style named base, relative to
// base. References carrying their own scheme and absolute paths are
// returned unchanged.
func Resolve(base, ref string) string {
	if ref == "" || base == "" || hasURLScheme(ref) {
		return ref
	}

	if hasURLScheme(base) {
		registerBuiltinSchemes()
		return utils.JoinURL(base, ref)
	}

	if filepath.IsAbs(ref) || utils.IsDrivePath(ref) || strings.HasPrefix(ref, "~") {
		return ref
	}
	return filepath.Join(filepath.Dir(utils.ExpandPath(base)), ref)
}
