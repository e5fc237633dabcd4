// Package fetchers contains the style fetcher variants: local files,
// plain HTTP(S), GitHub-hosted files and embedded style bundles.
//
// Each variant implements domain.StyleFetcher. Variants that need the
// network report RequiresConnection and receive the shared caching
// session; the others never see it.
package fetchers
