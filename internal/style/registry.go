package style

import (
	"sort"

	"github.com/spf13/afero"

	"github.com/quantmind-br/stylekit/internal/domain"
	"github.com/quantmind-br/stylekit/internal/git"
	"github.com/quantmind-br/stylekit/internal/style/fetchers"
	"github.com/quantmind-br/stylekit/internal/utils"
)

// Registry maps schemes and domains, in a single namespace, to fetchers
type Registry struct {
	entries  map[string]domain.StyleFetcher
	fetchers []domain.StyleFetcher
	logger   *utils.Logger
}

// Dependencies carries what the built-in fetcher variants need besides
// the shared session
type Dependencies struct {
	Fs          afero.Fs
	BaseDir     string
	GitHubToken string
	GitClient   git.Client
	Logger      *utils.Logger
}

// variantBuilder constructs one of the closed set of built-in fetchers.
// The session is nil when the fetcher is built to learn what it declares.
type variantBuilder func(session domain.Session, deps Dependencies) domain.StyleFetcher

var variants = []variantBuilder{
	func(_ domain.Session, deps Dependencies) domain.StyleFetcher {
		return fetchers.NewFileFetcher(fetchers.FileOptions{
			Fs:      deps.Fs,
			BaseDir: deps.BaseDir,
			Logger:  deps.Logger,
		})
	},
	func(session domain.Session, deps Dependencies) domain.StyleFetcher {
		return fetchers.NewHTTPFetcher(session, deps.Logger)
	},
	func(session domain.Session, deps Dependencies) domain.StyleFetcher {
		var branches *git.BranchResolver
		if deps.GitClient != nil {
			branches = git.NewBranchResolver(deps.GitClient, deps.Logger)
		}
		return fetchers.NewGitHubFetcher(fetchers.GitHubOptions{
			Session:  session,
			Branches: branches,
			Token:    deps.GitHubToken,
			Logger:   deps.Logger,
		})
	},
	func(_ domain.Session, deps Dependencies) domain.StyleFetcher {
		return fetchers.NewBundleFetcher(deps.Logger)
	},
}

// NewRegistry creates an empty registry
func NewRegistry(logger *utils.Logger) *Registry {
	return &Registry{
		entries: make(map[string]domain.StyleFetcher),
		logger:  utils.OrNop(logger).WithComponent("registry"),
	}
}

// BuildRegistry constructs one instance of every built-in variant and
// indexes it by its protocols and domains
func BuildRegistry(session domain.Session, deps Dependencies) *Registry {
	return buildRegistry(variants, session, deps)
}

// buildRegistry hands the session only to fetchers that declare they
// require a connection
func buildRegistry(builders []variantBuilder, session domain.Session, deps Dependencies) *Registry {
	r := NewRegistry(deps.Logger)
	for _, build := range builders {
		f := build(nil, deps)
		if f.RequiresConnection() && session != nil {
			f = build(session, deps)
		}
		r.Add(f)
	}
	return r
}

// Add indexes f under each protocol and domain it declares. Every protocol
// is also registered with the process-wide URL scheme table. A key that is
// already taken is reassigned to f.
func (r *Registry) Add(f domain.StyleFetcher) {
	r.fetchers = append(r.fetchers, f)

	for _, scheme := range f.Protocols() {
		if utils.RegisterScheme(scheme) {
			r.logger.Debug().Str("scheme", scheme).Msg("Registered URL scheme")
		}
		r.put(scheme, f)
	}
	for _, d := range f.Domains() {
		r.put(d, f)
	}
}

func (r *Registry) put(key string, f domain.StyleFetcher) {
	if prev, ok := r.entries[key]; ok && prev != f {
		r.logger.Warn().
			Str("key", key).
			Str("previous", prev.Name()).
			Str("fetcher", f.Name()).
			Msg("Fetcher key claimed twice, keeping the latest")
	}
	r.entries[key] = f
}

// Lookup returns the fetcher for host, falling back to scheme
func (r *Registry) Lookup(host, scheme string) (domain.StyleFetcher, bool) {
	if host != "" {
		if f, ok := r.entries[host]; ok {
			return f, true
		}
	}
	f, ok := r.entries[scheme]
	return f, ok
}

// Keys returns every registered scheme and domain, sorted
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns a copy of the key to fetcher mapping
func (r *Registry) Entries() map[string]domain.StyleFetcher {
	out := make(map[string]domain.StyleFetcher, len(r.entries))
	for k, v := range r.entries {
		out[k] = v
	}
	return out
}

// Fetchers returns the fetchers in registration order
func (r *Registry) Fetchers() []domain.StyleFetcher {
	out := make([]domain.StyleFetcher, len(r.fetchers))
	copy(out, r.fetchers)
	return out
}
