package domain

import (
	"context"
	"time"
)

// StyleFetcher retrieves style documents for the schemes and domains it declares.
// The dispatcher only relies on these capabilities and never inspects the
// fetcher beyond them.
type StyleFetcher interface {
	// Name returns the fetcher name used in logs
	Name() string
	// RequiresConnection reports whether fetching needs network access
	RequiresConnection() bool
	// Protocols returns the URL schemes handled by the fetcher
	Protocols() []string
	// Domains returns the literal host names handled by the fetcher
	Domains() []string
	// Fetch retrieves the style identified by url
	Fetch(ctx context.Context, url string) (StyleInfo, error)
}

// Session is a cache-aware HTTP session shared by the network fetchers
type Session interface {
	// Get fetches a URL, serving it from cache when allowed
	Get(ctx context.Context, url string) (*Response, error)
	// GetWithHeaders fetches a URL with extra request headers
	GetWithHeaders(ctx context.Context, url string, headers map[string]string) (*Response, error)
	// Close releases resources
	Close() error
}

// Cache defines the interface for content caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL, a non-positive TTL never expires
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}
