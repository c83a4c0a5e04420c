// Package llm wraps independent text-generation backends behind one
// interface and selects among them per request.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Provider defines the interface for LLM generation backends.
type Provider interface {
	// Name returns the name of this provider ("openai", "gemini").
	Name() string

	// Available reports whether the provider can be used. It is computed
	// from credential presence at construction time, not a live check.
	Available() bool

	// Generate produces an answer for the query, optionally grounded in the
	// given context text. temperature is the sampling control in [0,1].
	Generate(ctx context.Context, query, contextText string, temperature float64) (string, error)
}

// ErrNoServices is returned when no provider is usable for a request.
var ErrNoServices = errors.New("no LLM services available")

// ProviderError carries the upstream message from a failed generation call.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// UnavailableError reports a request for a provider that has no credential
// or is not recognized at all.
type UnavailableError struct {
	Model string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("preferred model %q not available", e.Model)
}

// buildPrompt assembles the generation prompt. Context, when present, is
// prepended so the model can ground its answer in it.
func buildPrompt(query, contextText string) string {
	if contextText != "" {
		return fmt.Sprintf("Context: %s\n\nQuestion: %s\n\nAnswer:", contextText, query)
	}
	return fmt.Sprintf("Question: %s\n\nAnswer:", query)
}

const systemPrompt = "You are a helpful AI assistant. Answer based on the provided context when available."
