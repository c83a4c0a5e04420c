package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const defaultSerpAPIBaseURL = "https://serpapi.com"

// SerpAPISearcher queries Google results through SerpAPI.
type SerpAPISearcher struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewSerpAPISearcher creates a SerpAPI backend. baseURL defaults to the
// public SerpAPI endpoint if empty.
func NewSerpAPISearcher(apiKey, baseURL string) *SerpAPISearcher {
	if baseURL == "" {
		baseURL = defaultSerpAPIBaseURL
	}
	return &SerpAPISearcher{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

func (s *SerpAPISearcher) Name() string {
	return "serpapi"
}

type serpAPIResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic_results"`
}

func (s *SerpAPISearcher) Search(ctx context.Context, query string, n int) ([]string, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("serpapi key not set")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", s.apiKey)
	params.Set("num", strconv.Itoa(n))
	params.Set("engine", "google")

	reqURL := s.baseURL + "/search.json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create serpapi request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi returned status %d", resp.StatusCode)
	}

	var data serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode serpapi response: %w", err)
	}

	var results []string
	for i, item := range data.OrganicResults {
		if i >= n {
			break
		}
		results = append(results, fmt.Sprintf("%s: %s (%s)", item.Title, item.Snippet, item.Link))
	}
	return results, nil
}
