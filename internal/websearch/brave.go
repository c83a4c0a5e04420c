package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
)

const defaultBraveBaseURL = "https://api.search.brave.com"

// BraveSearcher queries the Brave Search API.
type BraveSearcher struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewBraveSearcher creates a Brave backend. baseURL defaults to the public
// Brave Search endpoint if empty.
func NewBraveSearcher(apiKey, baseURL string) *BraveSearcher {
	if baseURL == "" {
		baseURL = defaultBraveBaseURL
	}
	return &BraveSearcher{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

func (b *BraveSearcher) Name() string {
	return "brave"
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
		} `json:"results"`
	} `json:"web"`
}

func (b *BraveSearcher) Search(ctx context.Context, query string, n int) ([]string, error) {
	if b.apiKey == "" {
		return nil, fmt.Errorf("brave api key not set")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(n))

	reqURL := b.baseURL + "/res/v1/web/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create brave request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave returned status %d", resp.StatusCode)
	}

	var data braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode brave response: %w", err)
	}

	var results []string
	for i, item := range data.Web.Results {
		if i >= n {
			break
		}
		results = append(results, fmt.Sprintf("%s: %s (%s)", item.Title, item.Description, item.URL))
	}
	return results, nil
}

// FromEnv builds the standard SerpAPI-then-Brave chain from environment
// credentials. A missing credential simply makes that backend fail over.
func FromEnv(logf func(format string, args ...any)) *Chain {
	return NewChain(logf,
		NewSerpAPISearcher(os.Getenv("SERPAPI_API_KEY"), ""),
		NewBraveSearcher(os.Getenv("BRAVE_API_KEY"), ""),
	)
}
