package fetchers

import (
	"context"
	"fmt"

	"github.com/quantmind-br/stylekit/internal/domain"
	"github.com/quantmind-br/stylekit/internal/fetcher"
	"github.com/quantmind-br/stylekit/internal/utils"
)

// Ensure HTTPFetcher implements domain.StyleFetcher
var _ domain.StyleFetcher = (*HTTPFetcher)(nil)

// HTTPFetcher downloads styles over plain HTTP(S)
type HTTPFetcher struct {
	session domain.Session
	logger  *utils.Logger
}

// NewHTTPFetcher creates an HTTPFetcher using session
func NewHTTPFetcher(session domain.Session, logger *utils.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		session: session,
		logger:  utils.OrNop(logger).WithFetcher("http"),
	}
}

func (f *HTTPFetcher) Name() string             { return "http" }
func (f *HTTPFetcher) RequiresConnection() bool { return true }
func (f *HTTPFetcher) Domains() []string        { return nil }

func (f *HTTPFetcher) Protocols() []string {
	return []string{domain.SchemeHTTP.String(), domain.SchemeHTTPS.String()}
}

// Fetch downloads url; the result carries no path
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (domain.StyleInfo, error) {
	content, err := download(ctx, f.session, url, nil)
	if err != nil {
		return domain.StyleInfo{}, err
	}

	f.logger.Debug().Str("url", url).Int("bytes", len(content)).Msg("Downloaded style")
	return domain.StyleInfo{Content: content}, nil
}

// download GETs url through session and decodes the body to UTF-8
func download(ctx context.Context, session domain.Session, url string, headers map[string]string) (string, error) {
	if session == nil {
		return "", domain.NewFetchError(url, 0, fmt.Errorf("no session configured"))
	}

	resp, err := session.GetWithHeaders(ctx, url, headers)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", domain.NewFetchError(url, resp.StatusCode, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	return fetcher.DecodeText(resp.Body, resp.ContentType), nil
}
