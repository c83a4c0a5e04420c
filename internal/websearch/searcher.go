// Package websearch provides best-effort live web context for queries.
// Results are formatted "Title: snippet (url)" in provider relevance order.
package websearch

import "context"

// Searcher returns up to n formatted result strings for a query.
type Searcher interface {
	// Search returns formatted results. Backends return an error when they
	// cannot serve the query (missing credential, HTTP failure); the Chain
	// absorbs those.
	Search(ctx context.Context, query string, n int) ([]string, error)

	// Name returns the backend identifier.
	Name() string
}

// Chain tries each backend in order and returns the first successful result
// set. Web search is optional context, so a fully failed chain yields an
// empty slice and no error.
type Chain struct {
	backends []Searcher
	logf     func(format string, args ...any)
}

var _ Searcher = (*Chain)(nil)

// NewChain creates a Chain over the given backends. logf receives diagnostic
// messages for absorbed backend failures; nil disables them.
func NewChain(logf func(format string, args ...any), backends ...Searcher) *Chain {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Chain{backends: backends, logf: logf}
}

// Search never returns an error: every backend failure is absorbed.
func (c *Chain) Search(ctx context.Context, query string, n int) ([]string, error) {
	for _, b := range c.backends {
		results, err := b.Search(ctx, query, n)
		if err != nil {
			c.logf("web search backend %s failed: %v", b.Name(), err)
			continue
		}
		return results, nil
	}
	return nil, nil
}

// Name identifies the chain by its backends.
func (c *Chain) Name() string {
	return "chain"
}
