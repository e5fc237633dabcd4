package style

import (
	"context"
	"time"

	"github.com/spf13/afero"

	"github.com/quantmind-br/stylekit/internal/cache"
	"github.com/quantmind-br/stylekit/internal/domain"
	"github.com/quantmind-br/stylekit/internal/fetcher"
	"github.com/quantmind-br/stylekit/internal/git"
	"github.com/quantmind-br/stylekit/internal/utils"
)

// Options contains options for creating a Manager
type Options struct {
	// Offline skips every fetcher that requires a connection
	Offline bool
	// CacheDir is the cache root; responses are stored under CacheDir/styles
	CacheDir string
	// CacheOption is the raw cache policy: "forever", "never" or a duration
	CacheOption string

	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt; zero
	// disables retrying
	MaxRetries  int
	UserAgent   string
	GitHubToken string
	// BaseDir anchors relative local style paths
	BaseDir string

	// Session replaces the caching session built from the options above
	Session   domain.Session
	Fs        afero.Fs
	GitClient git.Client
	// Fetchers are registered after the built-in variants
	Fetchers []domain.StyleFetcher
	Logger   *utils.Logger
}

// Manager dispatches style identifiers to the fetcher responsible for them
type Manager struct {
	offline     bool
	cacheDir    string
	cacheOption string
	policy      cache.Policy

	session     domain.Session
	ownsSession bool
	registry    *Registry
	logger      *utils.Logger
}

// NewManager builds the session and the fetcher registry
func NewManager(opts Options) (*Manager, error) {
	logger := utils.OrNop(opts.Logger)
	cacheDir := utils.ExpandPath(opts.CacheDir)

	policy := cache.ParsePolicy(opts.CacheOption)
	if !policy.Valid {
		logger.Warn().
			Str("cache_option", opts.CacheOption).
			Str("using", policy.String()).
			Msg("Unrecognized cache option")
	}

	m := &Manager{
		offline:     opts.Offline,
		cacheDir:    cacheDir,
		cacheOption: opts.CacheOption,
		policy:      policy,
		session:     opts.Session,
		logger:      logger.WithComponent("manager"),
	}

	if m.session == nil {
		sessionOpts := fetcher.DefaultSessionOptions()
		sessionOpts.CacheDir = cacheDir
		sessionOpts.Policy = policy
		sessionOpts.UserAgent = opts.UserAgent
		sessionOpts.Logger = opts.Logger
		if opts.Timeout > 0 {
			sessionOpts.Timeout = opts.Timeout
		}
		if opts.MaxRetries >= 0 {
			sessionOpts.MaxRetries = opts.MaxRetries
		}

		session, err := fetcher.NewSession(sessionOpts)
		if err != nil {
			return nil, err
		}
		m.session = session
		m.ownsSession = true
	}

	m.registry = BuildRegistry(m.session, Dependencies{
		Fs:          opts.Fs,
		BaseDir:     opts.BaseDir,
		GitHubToken: opts.GitHubToken,
		GitClient:   opts.GitClient,
		Logger:      opts.Logger,
	})
	for _, f := range opts.Fetchers {
		m.registry.Add(f)
	}

	m.logger.Debug().
		Bool("offline", m.offline).
		Str("cache_dir", m.cacheDir).
		Str("policy", policy.String()).
		Strs("keys", m.registry.Keys()).
		Msg("Style manager ready")

	return m, nil
}

// Fetch retrieves the style named by identifier. Offline, a fetcher that
// needs the network is skipped and an empty StyleInfo is returned with a
// nil error. Fetcher errors are returned unchanged.
func (m *Manager) Fetch(ctx context.Context, identifier string) (domain.StyleInfo, error) {
	host, scheme := Classify(identifier)

	f, ok := m.registry.Lookup(host, scheme)
	if !ok {
		return domain.StyleInfo{}, domain.NewUnsupportedProtocolError(scheme)
	}

	if m.offline && f.RequiresConnection() {
		m.logger.Debug().
			Str("style", identifier).
			Str("fetcher", f.Name()).
			Msg("offline, skipping")
		return domain.StyleInfo{}, nil
	}

	return f.Fetch(ctx, identifier)
}

// FetchAll fetches identifiers in order and stops at the first error
func (m *Manager) FetchAll(ctx context.Context, identifiers ...string) ([]domain.StyleInfo, error) {
	results := make([]domain.StyleInfo, 0, len(identifiers))
	for _, id := range identifiers {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		info, err := m.Fetch(ctx, id)
		if err != nil {
			return results, err
		}
		results = append(results, info)
	}
	return results, nil
}

// Resolve interprets ref relative to base. It uses no manager state; see
// the package-level Resolve.
func (m *Manager) Resolve(base, ref string) string {
	return Resolve(base, ref)
}

// Offline reports whether network fetchers are skipped
func (m *Manager) Offline() bool {
	return m.offline
}

// CacheDir returns the cache root
func (m *Manager) CacheDir() string {
	return m.cacheDir
}

// CacheOption returns the raw cache policy the manager was built with
func (m *Manager) CacheOption() string {
	return m.cacheOption
}

// Policy returns the parsed cache policy
func (m *Manager) Policy() cache.Policy {
	return m.policy
}

// Session returns the shared session handed to network fetchers
func (m *Manager) Session() domain.Session {
	return m.session
}

// Fetchers returns a copy of the registry, keyed by scheme or domain
func (m *Manager) Fetchers() map[string]domain.StyleFetcher {
	return m.registry.Entries()
}

// Registry returns the fetcher registry
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Close releases the session when the manager created it
func (m *Manager) Close() error {
	if m.ownsSession && m.session != nil {
		return m.session.Close()
	}
	return nil
}
