package utils

import (
	"net/url"
	"sort"
	"strings"
	"sync"
)

// Process-wide scheme tables consulted by JoinURL. A scheme listed in
// usesRelative supports relative-reference resolution; one listed in
// usesNetloc is written with the "//host" network-location syntax.
var (
	schemeMu     sync.RWMutex
	usesRelative = map[string]struct{}{}
	usesNetloc   = map[string]struct{}{}
	registered   = map[string]struct{}{}
)

func init() {
	for _, s := range []string{"", "file", "ftp", "http", "https", "sftp", "ws", "wss"} {
		usesRelative[s] = struct{}{}
		usesNetloc[s] = struct{}{}
	}
}

// RegisterScheme makes scheme resolvable by JoinURL. It is idempotent:
// registering the same scheme again is a no-op and reports false.
func RegisterScheme(scheme string) bool {
	scheme = strings.ToLower(scheme)

	schemeMu.RLock()
	_, done := registered[scheme]
	schemeMu.RUnlock()
	if done {
		return false
	}

	schemeMu.Lock()
	defer schemeMu.Unlock()
	if _, done := registered[scheme]; done {
		return false
	}
	registered[scheme] = struct{}{}
	usesRelative[scheme] = struct{}{}
	usesNetloc[scheme] = struct{}{}
	return true
}

// UsesRelative reports whether scheme supports relative resolution
func UsesRelative(scheme string) bool {
	schemeMu.RLock()
	defer schemeMu.RUnlock()
	_, ok := usesRelative[strings.ToLower(scheme)]
	return ok
}

// UsesNetloc reports whether scheme uses network-location syntax
func UsesNetloc(scheme string) bool {
	schemeMu.RLock()
	defer schemeMu.RUnlock()
	_, ok := usesNetloc[strings.ToLower(scheme)]
	return ok
}

// RegisteredSchemes returns the schemes added through RegisterScheme, sorted
func RegisteredSchemes() []string {
	schemeMu.RLock()
	defer schemeMu.RUnlock()
	out := make([]string, 0, len(registered))
	for s := range registered {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// JoinURL resolves ref against base. The reference is returned unchanged
// when it is absolute, when either side fails to parse, or when the base
// scheme does not support relative resolution.
func JoinURL(base, ref string) string {
	if base == "" {
		return ref
	}
	if ref == "" {
		return base
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}

	if refURL.Scheme != "" {
		return ref
	}
	if !UsesRelative(baseURL.Scheme) {
		return ref
	}
	// Without netloc syntax a "//x" reference cannot name a host
	if refURL.Host != "" && !UsesNetloc(baseURL.Scheme) {
		return ref
	}

	return baseURL.ResolveReference(refURL).String()
}
