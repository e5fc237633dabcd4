package domain

import (
	"net/http"
	"strings"
)

// Scheme is a URL scheme recognized by the style fetchers
type Scheme string

const (
	SchemeHTTP      Scheme = "http"
	SchemeHTTPS     Scheme = "https"
	SchemePy        Scheme = "py"
	SchemePyPackage Scheme = "pypackage"
	SchemeGH        Scheme = "gh"
	SchemeGitHub    Scheme = "github"
)

// FileScheme is the classification given to anything that is not a URL.
// It is not part of the Scheme enumeration; only the file fetcher claims it.
const FileScheme = "file"

// Schemes lists every recognized scheme
var Schemes = []Scheme{
	SchemeHTTP,
	SchemeHTTPS,
	SchemePy,
	SchemePyPackage,
	SchemeGH,
	SchemeGitHub,
}

// ParseScheme lower-cases s and reports whether it is a recognized scheme
func ParseScheme(s string) (Scheme, bool) {
	lower := Scheme(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Schemes {
		if lower == known {
			return known, true
		}
	}
	return lower, false
}

// String returns the scheme as a plain string
func (s Scheme) String() string {
	return string(s)
}

// StyleInfo is the result of fetching a style document.
// Path is empty when the style is not addressable on the local filesystem.
type StyleInfo struct {
	Path    string
	Content string
}

// HasPath reports whether the style resolved to a local file
func (s StyleInfo) HasPath() bool {
	return s.Path != ""
}

// IsEmpty reports whether nothing was fetched (the offline result)
func (s StyleInfo) IsEmpty() bool {
	return s.Path == "" && s.Content == ""
}

// Response represents an HTTP response
type Response struct {
	StatusCode  int
	Body        []byte
	Headers     http.Header
	ContentType string
	URL         string
	FromCache   bool
}
