package websearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubSearcher struct {
	name    string
	results []string
	err     error
	calls   int
}

func (s *stubSearcher) Search(_ context.Context, _ string, _ int) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *stubSearcher) Name() string { return s.name }

func TestChainUsesFirstBackend(t *testing.T) {
	first := &stubSearcher{name: "first", results: []string{"a", "b"}}
	second := &stubSearcher{name: "second", results: []string{"c"}}
	chain := NewChain(nil, first, second)

	results, err := chain.Search(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected first backend's results, got %v", results)
	}
	if second.calls != 0 {
		t.Error("second backend should not be tried when first succeeds")
	}
}

func TestChainFallsBackOnError(t *testing.T) {
	first := &stubSearcher{name: "first", err: errors.New("credentials missing")}
	second := &stubSearcher{name: "second", results: []string{"c"}}

	var logged []string
	chain := NewChain(func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}, first, second)

	results, err := chain.Search(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0] != "c" {
		t.Fatalf("expected fallback results, got %v", results)
	}
	if len(logged) != 1 {
		t.Errorf("expected 1 diagnostic log, got %d", len(logged))
	}
}

func TestChainNeverErrors(t *testing.T) {
	first := &stubSearcher{name: "first", err: errors.New("down")}
	second := &stubSearcher{name: "second", err: errors.New("also down")}
	chain := NewChain(nil, first, second)

	results, err := chain.Search(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("chain must absorb backend errors, got %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results when all backends fail, got %v", results)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Error("both backends should have been attempted")
	}
}

func TestSerpAPISearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("engine"); got != "google" {
			t.Errorf("expected engine=google, got %q", got)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("expected api key in query, got %q", got)
		}
		fmt.Fprint(w, `{"organic_results":[
			{"title":"Go","snippet":"An open source language","link":"https://go.dev"},
			{"title":"Tour","snippet":"Learn Go","link":"https://go.dev/tour"},
			{"title":"Extra","snippet":"Too many","link":"https://example.com"}
		]}`)
	}))
	defer server.Close()

	s := NewSerpAPISearcher("test-key", server.URL)
	results, err := s.Search(context.Background(), "golang", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	want := "Go: An open source language (https://go.dev)"
	if results[0] != want {
		t.Errorf("got %q, want %q", results[0], want)
	}
}

func TestSerpAPIMissingKey(t *testing.T) {
	s := NewSerpAPISearcher("", "")
	if _, err := s.Search(context.Background(), "q", 3); err == nil {
		t.Error("expected error when api key missing")
	}
}

func TestBraveSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/res/v1/web/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("X-Subscription-Token"); got != "brave-key" {
			t.Errorf("expected subscription token header, got %q", got)
		}
		fmt.Fprint(w, `{"web":{"results":[
			{"title":"Result","description":"A description","url":"https://example.org"}
		]}}`)
	}))
	defer server.Close()

	b := NewBraveSearcher("brave-key", server.URL)
	results, err := b.Search(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	want := "Result: A description (https://example.org)"
	if results[0] != want {
		t.Errorf("got %q, want %q", results[0], want)
	}
}

func TestBraveHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	b := NewBraveSearcher("brave-key", server.URL)
	if _, err := b.Search(context.Background(), "query", 3); err == nil {
		t.Error("expected error on non-200 status")
	}
}
