package fetcher

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/quantmind-br/stylekit/internal/cache"
)

type cacheDirectives struct {
	noStore   bool
	noCache   bool
	maxAge    time.Duration
	hasMaxAge bool
}

func parseCacheControl(value string) cacheDirectives {
	var d cacheDirectives
	for _, part := range strings.Split(value, ",") {
		name, arg, _ := strings.Cut(strings.TrimSpace(part), "=")
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "no-store":
			d.noStore = true
		case "no-cache":
			d.noCache = true
		case "max-age":
			secs, err := strconv.Atoi(strings.Trim(strings.TrimSpace(arg), `"`))
			if err == nil {
				d.maxAge = time.Duration(secs) * time.Second
				d.hasMaxAge = true
			}
		}
	}
	return d
}

// Expiration decides how long a response may be stored. ok is false when
// the response must not be stored at all. Server headers are honoured only
// when the policy opts into cache control; otherwise the policy alone decides.
func Expiration(p cache.Policy, headers http.Header, now time.Time) (ttl time.Duration, ok bool) {
	switch p.Mode {
	case cache.ModeNever:
		return cache.DoNotCache, false
	case cache.ModeForever:
		return cache.NeverExpire, true
	}

	if p.CacheControl() && headers != nil {
		d := parseCacheControl(headers.Get("Cache-Control"))
		if d.noStore || d.noCache {
			return cache.DoNotCache, false
		}
		if d.hasMaxAge {
			if d.maxAge <= 0 {
				return cache.DoNotCache, false
			}
			return d.maxAge, true
		}
		if raw := headers.Get("Expires"); raw != "" {
			t, err := http.ParseTime(raw)
			if err != nil {
				return cache.DoNotCache, false
			}
			remaining := t.Sub(now)
			if remaining <= 0 {
				return cache.DoNotCache, false
			}
			return remaining, true
		}
	}

	if p.ExpireAfter <= 0 {
		return cache.DoNotCache, false
	}
	return p.ExpireAfter, true
}
