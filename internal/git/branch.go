package git

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/quantmind-br/stylekit/internal/utils"
)

// FallbackBranch is used when the default branch cannot be discovered
const FallbackBranch = "main"

// DefaultBranch returns the branch HEAD points to on the remote
func DefaultBranch(ctx context.Context, client Client, url, token string) (string, error) {
	refs, err := client.ListRemote(ctx, url, TokenAuth(token))
	if err != nil {
		return "", fmt.Errorf("ls-remote %s: %w", url, err)
	}

	var head *plumbing.Reference
	for _, ref := range refs {
		if ref.Name() == plumbing.HEAD {
			head = ref
			break
		}
	}
	if head == nil {
		return "", fmt.Errorf("ls-remote %s: no HEAD advertised", url)
	}

	if head.Type() == plumbing.SymbolicReference {
		return head.Target().Short(), nil
	}

	// Without the symref capability HEAD is a bare hash; pick the branch
	// sharing it, preferring the conventional names.
	var candidates []string
	for _, ref := range refs {
		if ref.Name().IsBranch() && ref.Hash() == head.Hash() {
			candidates = append(candidates, ref.Name().Short())
		}
	}
	for _, preferred := range []string{"main", "master"} {
		for _, c := range candidates {
			if c == preferred {
				return c, nil
			}
		}
	}
	if len(candidates) > 0 {
		return candidates[0], nil
	}
	return "", fmt.Errorf("ls-remote %s: HEAD matches no branch", url)
}

// BranchResolver memoizes default branch lookups per repository
type BranchResolver struct {
	client Client
	logger *utils.Logger

	mu       sync.Mutex
	branches map[string]string
}

// NewBranchResolver creates a BranchResolver backed by client
func NewBranchResolver(client Client, logger *utils.Logger) *BranchResolver {
	if client == nil {
		client = NewClient()
	}
	return &BranchResolver{
		client:   client,
		logger:   utils.OrNop(logger).WithComponent("git"),
		branches: make(map[string]string),
	}
}

// Resolve returns the default branch of url, or FallbackBranch when the
// remote cannot be queried. Failures are not memoized.
func (r *BranchResolver) Resolve(ctx context.Context, url, token string) string {
	r.mu.Lock()
	if branch, ok := r.branches[url]; ok {
		r.mu.Unlock()
		return branch
	}
	r.mu.Unlock()

	branch, err := DefaultBranch(ctx, r.client, url, token)
	if err != nil {
		r.logger.Warn().Err(err).Str("fallback", FallbackBranch).Msg("Could not discover default branch")
		return FallbackBranch
	}

	r.mu.Lock()
	r.branches[url] = branch
	r.mu.Unlock()

	r.logger.Debug().Str("repo", url).Str("branch", branch).Msg("Discovered default branch")
	return branch
}
