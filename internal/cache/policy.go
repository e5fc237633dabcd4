package cache

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Mode is the caching behaviour selected by a cache policy
type Mode int

const (
	// ModeForever caches responses indefinitely
	ModeForever Mode = iota
	// ModeNever disables caching
	ModeNever
	// ModeExpires caches responses for a finite duration
	ModeExpires
)

// String returns the policy keyword for the mode
func (m Mode) String() string {
	switch m {
	case ModeNever:
		return "never"
	case ModeExpires:
		return "expires"
	default:
		return "forever"
	}
}

const (
	// NeverExpire marks entries that are kept until removed
	NeverExpire time.Duration = -1
	// DoNotCache expires entries immediately, so nothing is stored
	DoNotCache time.Duration = 0
)

// Policy is a parsed cache option
type Policy struct {
	Mode        Mode
	ExpireAfter time.Duration
	// Valid is false when the raw option was not understood and the
	// default policy was substituted
	Valid bool
}

// CacheControl reports whether server Cache-Control headers may override
// the local expiration. Only an explicit finite expiration opts in.
func (p Policy) CacheControl() bool {
	return p.Mode == ModeExpires
}

// String renders the policy in the form ParsePolicy accepts
func (p Policy) String() string {
	if p.Mode == ModeExpires {
		return p.ExpireAfter.String()
	}
	return p.Mode.String()
}

var cacheUnitPattern = regexp.MustCompile(`(?i)(\d+)\s+(minute|hour|day|week)s?\b`)

var cacheUnits = map[string]time.Duration{
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
}

// ForeverPolicy is the policy used for an empty or unrecognized option
func ForeverPolicy() Policy {
	return Policy{Mode: ModeForever, ExpireAfter: NeverExpire, Valid: true}
}

// ParsePolicy translates a raw cache option into a Policy.
//
//	""  / "forever"     cache indefinitely
//	"never"             do not cache
//	"<n> <unit>"        minute(s), hour(s), day(s) or week(s)
//	"1h30m"             any positive Go duration
//
// Anything else yields the forever policy with Valid set to false.
func ParsePolicy(raw string) Policy {
	clean := strings.ToLower(strings.TrimSpace(raw))

	switch clean {
	case "", "forever":
		return ForeverPolicy()
	case "never":
		return Policy{Mode: ModeNever, ExpireAfter: DoNotCache, Valid: true}
	}

	if m := cacheUnitPattern.FindStringSubmatch(clean); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			return Policy{Mode: ModeExpires, ExpireAfter: time.Duration(n) * cacheUnits[m[2]], Valid: true}
		}
	}

	if d, err := time.ParseDuration(clean); err == nil && d > 0 {
		return Policy{Mode: ModeExpires, ExpireAfter: d, Valid: true}
	}

	p := ForeverPolicy()
	p.Valid = false
	return p
}
