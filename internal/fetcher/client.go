package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/quantmind-br/stylekit/internal/cache"
	"github.com/quantmind-br/stylekit/internal/domain"
	"github.com/quantmind-br/stylekit/internal/utils"
)

// Ensure Session implements domain.Session
var _ domain.Session = (*Session)(nil)

// CacheSubdir is the directory under the cache root holding style responses
const CacheSubdir = "styles"

// Session is an HTTP client that persists responses according to a cache policy
type Session struct {
	tlsClient tls_client.HttpClient
	userAgent string
	retrier   *Retrier
	cache     domain.Cache
	ownsCache bool
	policy    cache.Policy
	logger    *utils.Logger
	now       func() time.Time
}

// SessionOptions contains options for creating a Session
type SessionOptions struct {
	// CacheDir is the cache root; responses live in CacheDir/styles
	CacheDir string
	Policy   cache.Policy
	// Cache replaces the badger store opened from CacheDir
	Cache   domain.Cache
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt
	MaxRetries int
	UserAgent  string
	ProxyURL   string
	Logger     *utils.Logger
}

// DefaultSessionOptions returns default session options
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		Policy:     cache.ForeverPolicy(),
		Timeout:    30 * time.Second,
		MaxRetries: 3,
	}
}

// NewSession creates a cache-backed HTTP session. No store is opened
// for the "never" policy.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	tlsOpts := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(int(opts.Timeout.Seconds())),
		tls_client.WithClientProfile(profiles.Chrome_131),
		tls_client.WithRandomTLSExtensionOrder(),
	}
	if opts.ProxyURL != "" {
		tlsOpts = append(tlsOpts, tls_client.WithProxyUrl(opts.ProxyURL))
	}

	tlsClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), tlsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tls client: %w", err)
	}

	logger := utils.OrNop(opts.Logger).WithComponent("session")

	s := &Session{
		tlsClient: tlsClient,
		userAgent: opts.UserAgent,
		retrier: NewRetrier(RetrierOptions{
			MaxRetries:      opts.MaxRetries,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     10 * time.Second,
			Multiplier:      2.0,
		}),
		cache:  opts.Cache,
		policy: opts.Policy,
		logger: logger,
		now:    time.Now,
	}

	if s.cache == nil && opts.Policy.Mode != cache.ModeNever && opts.CacheDir != "" {
		store, err := cache.NewBadgerCache(cache.Options{
			Directory: filepath.Join(opts.CacheDir, CacheSubdir),
			Logger:    opts.Logger,
		})
		if err != nil {
			return nil, err
		}
		s.cache = store
		s.ownsCache = true
	}

	logger.Debug().
		Str("policy", opts.Policy.String()).
		Bool("cache_control", opts.Policy.CacheControl()).
		Bool("cached", s.cachingEnabled()).
		Msg("Session ready")

	return s, nil
}

// Policy returns the cache policy the session was built with
func (s *Session) Policy() cache.Policy {
	return s.policy
}

// Cache returns the backing store, nil when caching is disabled
func (s *Session) Cache() domain.Cache {
	return s.cache
}

// Get fetches content from a URL
func (s *Session) Get(ctx context.Context, url string) (*domain.Response, error) {
	return s.GetWithHeaders(ctx, url, nil)
}

// GetWithHeaders fetches content with custom headers
func (s *Session) GetWithHeaders(ctx context.Context, url string, extraHeaders map[string]string) (*domain.Response, error) {
	key := cache.RequestKey(http.MethodGet, url)

	if s.cachingEnabled() {
		if cached, ok := s.lookup(ctx, key, url); ok {
			return cached, nil
		}
	}

	resp, err := RetryWithValue(ctx, s.retrier, func() (*domain.Response, error) {
		return s.doRequest(ctx, url, extraHeaders)
	})
	if err != nil {
		return nil, err
	}

	if s.cachingEnabled() {
		s.store(ctx, key, resp)
	}

	return resp, nil
}

// doRequest performs the actual HTTP request
func (s *Session) doRequest(ctx context.Context, targetURL string, extraHeaders map[string]string) (*domain.Response, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range DefaultHeaders(s.userAgent) {
		req.Header.Set(k, v)
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := s.tlsClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			err = fmt.Errorf("%w: %w", domain.ErrTimeout, err)
		}
		return nil, &domain.FetchError{
			URL: targetURL,
			Err: fmt.Errorf("request failed: %w", err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		fetchErr := &domain.FetchError{
			URL:        targetURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			fetchErr.Err = fmt.Errorf("HTTP %d: %w", resp.StatusCode, domain.ErrRateLimited)
		}
		if ShouldRetryStatus(resp.StatusCode) {
			return nil, &domain.RetryableError{
				Err:        fetchErr,
				RetryAfter: int(ParseRetryAfter(resp.Header.Get("Retry-After"), s.now()).Seconds()),
			}
		}
		return nil, fetchErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	httpHeaders := make(http.Header, len(resp.Header))
	for k, v := range resp.Header {
		httpHeaders[k] = v
	}

	return &domain.Response{
		StatusCode:  resp.StatusCode,
		Body:        body,
		Headers:     httpHeaders,
		ContentType: resp.Header.Get("Content-Type"),
		URL:         targetURL,
		FromCache:   false,
	}, nil
}

// Close releases the store when the session opened it
func (s *Session) Close() error {
	if s.ownsCache && s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

// isTimeout reports a client-side timeout, not a cancelled or expired
// caller context
func isTimeout(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (s *Session) cachingEnabled() bool {
	return s.cache != nil && s.policy.Mode != cache.ModeNever
}

// lookup returns a still valid cached response
func (s *Session) lookup(ctx context.Context, key, url string) (*domain.Response, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	entry, err := cache.DecodeEntry(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("Dropping unreadable cache entry")
		_ = s.cache.Delete(ctx, key)
		return nil, false
	}
	if entry.IsExpired(s.now()) {
		_ = s.cache.Delete(ctx, key)
		return nil, false
	}

	s.logger.Debug().Str("url", url).Msg("Cache hit")

	headers := make(http.Header)
	if entry.ContentType != "" {
		headers.Set("Content-Type", entry.ContentType)
	}
	return &domain.Response{
		StatusCode:  http.StatusOK,
		Body:        entry.Content,
		Headers:     headers,
		ContentType: entry.ContentType,
		URL:         url,
		FromCache:   true,
	}, true
}

// store persists resp unless the policy or the server forbids it
func (s *Session) store(ctx context.Context, key string, resp *domain.Response) {
	now := s.now()
	ttl, ok := Expiration(s.policy, resp.Headers, now)
	if !ok {
		s.logger.Debug().Str("url", resp.URL).Msg("Response not cacheable")
		return
	}

	entry := &cache.Entry{
		URL:         resp.URL,
		Content:     resp.Body,
		ContentType: resp.ContentType,
		FetchedAt:   now,
	}
	storeTTL := time.Duration(0)
	if ttl != cache.NeverExpire {
		entry.ExpiresAt = now.Add(ttl)
		storeTTL = ttl
	}

	data, err := cache.EncodeEntry(entry)
	if err == nil {
		err = s.cache.Set(ctx, key, data, storeTTL)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("url", resp.URL).Msg("Failed to cache response")
	}
}
