package fetchers

import (
	"context"
	"net/http"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/quantmind-br/stylekit/internal/domain"
)

type recordedRequest struct {
	url     string
	headers map[string]string
}

// fakeSession serves canned bodies keyed by URL
type fakeSession struct {
	bodies   map[string]string
	status   int
	err      error
	requests []recordedRequest
}

func (s *fakeSession) Get(ctx context.Context, url string) (*domain.Response, error) {
	return s.GetWithHeaders(ctx, url, nil)
}

func (s *fakeSession) GetWithHeaders(_ context.Context, url string, headers map[string]string) (*domain.Response, error) {
	s.requests = append(s.requests, recordedRequest{url: url, headers: headers})
	if s.err != nil {
		return nil, s.err
	}
	body, ok := s.bodies[url]
	if !ok {
		return nil, domain.NewFetchError(url, http.StatusNotFound, domain.ErrNotFound)
	}
	status := s.status
	if status == 0 {
		status = http.StatusOK
	}
	return &domain.Response{
		StatusCode:  status,
		Body:        []byte(body),
		ContentType: "text/plain; charset=utf-8",
		URL:         url,
	}, nil
}

func (s *fakeSession) Close() error { return nil }

// fakeGit advertises HEAD pointing at branch
type fakeGit struct {
	branch string
	err    error
	urls   []string
}

func (g *fakeGit) ListRemote(_ context.Context, url string, _ transport.AuthMethod) ([]*plumbing.Reference, error) {
	g.urls = append(g.urls, url)
	if g.err != nil {
		return nil, g.err
	}
	return []*plumbing.Reference{
		plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(g.branch)),
	}, nil
}
