package cache

import (
	"time"

	"github.com/quantmind-br/stylekit/internal/domain"
	"github.com/quantmind-br/stylekit/internal/utils"
)

// Ensure BadgerCache implements domain.Cache
var _ domain.Cache = (*BadgerCache)(nil)

// Entry is a cached style response with its metadata
type Entry struct {
	URL         string    `json:"url"`
	Content     []byte    `json:"content"`
	ContentType string    `json:"content_type"`
	FetchedAt   time.Time `json:"fetched_at"`
	// ExpiresAt is zero for entries that never expire
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// IsExpired reports whether the entry is stale at now
func (e *Entry) IsExpired(now time.Time) bool {
	if e.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(e.ExpiresAt)
}

// Options contains cache configuration options
type Options struct {
	Directory string
	InMemory  bool
	// Logger receives badger's own log output when set
	Logger *utils.Logger
}

// Stats describes the store contents
type Stats struct {
	Entries  int64
	LSMSize  int64
	VlogSize int64
}
