package fetcher

import (
	"github.com/quantmind-br/stylekit/pkg/version"
)

// DefaultUserAgent identifies stylekit to style servers
func DefaultUserAgent() string {
	return "stylekit/" + version.Short()
}

// DefaultHeaders returns the headers sent with every style request
func DefaultHeaders(userAgent string) map[string]string {
	if userAgent == "" {
		userAgent = DefaultUserAgent()
	}

	return map[string]string{
		"User-Agent": userAgent,
		"Accept":     "text/plain, application/toml, application/json, text/*;q=0.9, */*;q=0.8",
	}
}
