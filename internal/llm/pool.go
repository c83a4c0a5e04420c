package llm

import "context"

// GenerationResult is the outcome of one generation request. Success=false
// always pairs with an empty response and a non-empty error.
type GenerationResult struct {
	Response  string `json:"response"`
	ModelUsed string `json:"model_used"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// Pool selects among the wrapped providers for each request. Provider order
// is the priority order used by "auto".
type Pool struct {
	providers []Provider
	logf      func(format string, args ...any)
}

// NewPool creates a Pool over the given providers. logf receives diagnostics
// for errors absorbed by the auto fallback; nil disables them.
func NewPool(logf func(format string, args ...any), providers ...Provider) *Pool {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Pool{providers: providers, logf: logf}
}

// Availability reports which providers are usable.
func (p *Pool) Availability() map[string]bool {
	out := make(map[string]bool, len(p.providers))
	for _, prov := range p.providers {
		out[prov.Name()] = prov.Available()
	}
	return out
}

func (p *Pool) byName(name string) Provider {
	for _, prov := range p.providers {
		if prov.Name() == name {
			return prov
		}
	}
	return nil
}

// Generate answers the query with the preferred provider. "auto" walks the
// priority order: the first available provider is tried, and if it fails the
// next available one answers instead, absorbing the first error. A named
// provider gets no fallback; naming an unavailable or unknown provider fails
// immediately without touching any backend.
func (p *Pool) Generate(ctx context.Context, query, contextText, preferred string, temperature float64) GenerationResult {
	if preferred != "auto" {
		prov := p.byName(preferred)
		if prov == nil || !prov.Available() {
			return failure(&UnavailableError{Model: preferred})
		}
		return p.call(ctx, prov, query, contextText, temperature)
	}

	var candidates []Provider
	for _, prov := range p.providers {
		if prov.Available() {
			candidates = append(candidates, prov)
		}
	}
	if len(candidates) == 0 {
		return failure(ErrNoServices)
	}

	result := p.call(ctx, candidates[0], query, contextText, temperature)
	if result.Success {
		return result
	}
	if len(candidates) < 2 {
		// First-priority failure with no fallback left means the chain is
		// exhausted. A lower-priority provider reached directly keeps its
		// own error.
		if candidates[0] == p.providers[0] {
			return failure(ErrNoServices)
		}
		return result
	}

	p.logf("provider %s failed, falling back to %s: %s",
		candidates[0].Name(), candidates[1].Name(), result.Error)
	return p.call(ctx, candidates[1], query, contextText, temperature)
}

func (p *Pool) call(ctx context.Context, prov Provider, query, contextText string, temperature float64) GenerationResult {
	text, err := prov.Generate(ctx, query, contextText, temperature)
	if err != nil {
		return failure(err)
	}
	return GenerationResult{
		Response:  text,
		ModelUsed: prov.Name(),
		Success:   true,
	}
}

func failure(err error) GenerationResult {
	return GenerationResult{Success: false, Error: err.Error()}
}
