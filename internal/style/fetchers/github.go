package fetchers

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/quantmind-br/stylekit/internal/domain"
	"github.com/quantmind-br/stylekit/internal/git"
	"github.com/quantmind-br/stylekit/internal/utils"
)

// Ensure GitHubFetcher implements domain.StyleFetcher
var _ domain.StyleFetcher = (*GitHubFetcher)(nil)

const (
	// GitHubDomain is claimed by the GitHub fetcher regardless of scheme
	GitHubDomain = "github.com"
	// RawGitHubHost serves file contents at a given ref
	RawGitHubHost = "raw.githubusercontent.com"
	// TokenEnv is read when a URL carries no token
	TokenEnv = "GITHUB_TOKEN"
)

// GitHubURL is a reference to a file in a GitHub repository
type GitHubURL struct {
	Owner string
	Repo  string
	// Ref is a branch, tag or commit; empty selects the default branch
	Ref  string
	Path string
	// Token is the raw token as written in the URL, possibly "$NAME"
	Token string
}

// ParseGitHubURL accepts gh://[token@]owner/repo[@ref]/path (also with the
// github scheme) and https://github.com/owner/repo/blob/ref/path
func ParseGitHubURL(raw string) (*GitHubURL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}

	g := &GitHubURL{}
	if u.User != nil {
		g.Token = u.User.Username()
	}
	parts := splitPath(u.Path)

	switch scheme, _ := domain.ParseScheme(u.Scheme); scheme {
	case domain.SchemeGH, domain.SchemeGitHub:
		if u.Host == "" || len(parts) < 2 {
			return nil, fmt.Errorf("%w: expected %s://owner/repo/path, got %q", domain.ErrInvalidURL, u.Scheme, raw)
		}
		g.Owner = u.Host
		g.Repo, g.Ref, _ = strings.Cut(parts[0], "@")
		g.Path = strings.Join(parts[1:], "/")

	case domain.SchemeHTTP, domain.SchemeHTTPS:
		host := strings.ToLower(u.Hostname())
		if host != GitHubDomain && host != "www."+GitHubDomain {
			return nil, fmt.Errorf("%w: not a GitHub URL: %q", domain.ErrInvalidURL, raw)
		}
		if len(parts) < 5 || (parts[2] != "blob" && parts[2] != "raw") {
			return nil, fmt.Errorf("%w: expected https://github.com/owner/repo/blob/ref/path, got %q", domain.ErrInvalidURL, raw)
		}
		g.Owner = parts[0]
		g.Repo = parts[1]
		g.Ref = parts[3]
		g.Path = strings.Join(parts[4:], "/")

	default:
		return nil, fmt.Errorf("%w: unsupported GitHub scheme %q", domain.ErrInvalidURL, u.Scheme)
	}

	g.Repo = strings.TrimSuffix(g.Repo, ".git")
	if g.Owner == "" || g.Repo == "" || g.Path == "" {
		return nil, fmt.Errorf("%w: incomplete GitHub URL %q", domain.ErrInvalidURL, raw)
	}
	return g, nil
}

func splitPath(p string) []string {
	var parts []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// RepoURL returns the clone URL of the repository
func (g *GitHubURL) RepoURL() string {
	return fmt.Sprintf("https://%s/%s/%s.git", GitHubDomain, g.Owner, g.Repo)
}

// RawURL returns the raw content URL at ref
func (g *GitHubURL) RawURL(ref string) string {
	return fmt.Sprintf("https://%s/%s/%s/%s/%s", RawGitHubHost, g.Owner, g.Repo, ref, g.Path)
}

// ResolveToken expands a "$NAME" token from the environment. Without a
// token in the URL, fallback is used, then GITHUB_TOKEN.
func (g *GitHubURL) ResolveToken(fallback string) string {
	token := g.Token
	if strings.HasPrefix(token, "$") {
		token = os.Getenv(token[1:])
	}
	if token == "" {
		token = fallback
	}
	if token == "" {
		token = os.Getenv(TokenEnv)
	}
	return token
}

// GitHubFetcher downloads styles stored in GitHub repositories
type GitHubFetcher struct {
	session  domain.Session
	branches *git.BranchResolver
	token    string
	logger   *utils.Logger
}

// GitHubOptions contains options for creating a GitHubFetcher
type GitHubOptions struct {
	Session domain.Session
	// Branches discovers default branches; defaults to a go-git resolver
	Branches *git.BranchResolver
	// Token is used when a URL carries none
	Token  string
	Logger *utils.Logger
}

// NewGitHubFetcher creates a GitHubFetcher
func NewGitHubFetcher(opts GitHubOptions) *GitHubFetcher {
	branches := opts.Branches
	if branches == nil {
		branches = git.NewBranchResolver(git.NewClient(), opts.Logger)
	}
	return &GitHubFetcher{
		session:  opts.Session,
		branches: branches,
		token:    opts.Token,
		logger:   utils.OrNop(opts.Logger).WithFetcher("github"),
	}
}

func (f *GitHubFetcher) Name() string             { return "github" }
func (f *GitHubFetcher) RequiresConnection() bool { return true }
func (f *GitHubFetcher) Domains() []string        { return []string{GitHubDomain} }

func (f *GitHubFetcher) Protocols() []string {
	return []string{domain.SchemeGH.String(), domain.SchemeGitHub.String()}
}

// Fetch downloads the file named by a GitHub URL
func (f *GitHubFetcher) Fetch(ctx context.Context, raw string) (domain.StyleInfo, error) {
	g, err := ParseGitHubURL(raw)
	if err != nil {
		return domain.StyleInfo{}, domain.NewFetchError(raw, 0, err)
	}

	token := g.ResolveToken(f.token)
	ref := g.Ref
	if ref == "" {
		ref = f.branches.Resolve(ctx, g.RepoURL(), token)
	}

	var headers map[string]string
	if token != "" {
		headers = map[string]string{"Authorization": "token " + token}
	}

	rawURL := g.RawURL(ref)
	content, err := download(ctx, f.session, rawURL, headers)
	if err != nil {
		return domain.StyleInfo{}, err
	}

	f.logger.Debug().
		Str("repo", g.Owner+"/"+g.Repo).
		Str("ref", ref).
		Str("path", g.Path).
		Msg("Downloaded GitHub style")

	return domain.StyleInfo{Content: content}, nil
}
