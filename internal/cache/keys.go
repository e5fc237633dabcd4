package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// GenerateKey generates a cache key from a request key or URL.
// The key is a SHA256 hash of the normalized value.
func GenerateKey(raw string) string {
	normalized := normalizeForKey(raw)
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}

// RequestKey identifies a request in the store, so that entries for the same
// URL fetched with different methods never collide
func RequestKey(method, rawURL string) string {
	return strings.ToUpper(method) + " " + rawURL
}

// normalizeForKey normalizes the URL part of a key for consistent hashing.
// Scheme and host are case-insensitive; fragments never reach the server.
func normalizeForKey(raw string) string {
	prefix := ""
	rawURL := raw
	if i := strings.IndexByte(raw, ' '); i > 0 {
		prefix, rawURL = raw[:i+1], raw[i+1:]
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if (u.Scheme == "http" && u.Port() == "80") ||
		(u.Scheme == "https" && u.Port() == "443") {
		u.Host = u.Hostname()
	}

	if u.Path == "" && u.Host != "" {
		u.Path = "/"
	}

	u.Fragment = ""

	return prefix + u.String()
}
