package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

var errNoChoices = errors.New("response contained no candidates")

// geminiModelVariants is the in-provider fallback order: the first variant
// that answers wins.
var geminiModelVariants = []string{
	"gemini-1.5-pro",
	"gemini-1.5-flash",
	"gemini-pro",
}

// GeminiProvider implements Provider using the Google Gemini API via direct
// HTTP. It tries an ordered list of model variants internally and
// short-circuits on the first success.
type GeminiProvider struct {
	apiKey    string
	baseURL   string
	variants  []string
	client    *http.Client
	available bool
}

// NewGeminiProvider creates a new Gemini provider. baseURL defaults to the
// public Generative Language endpoint if empty.
func NewGeminiProvider(apiKey, baseURL string) *GeminiProvider {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	return &GeminiProvider{
		apiKey:    apiKey,
		baseURL:   baseURL,
		variants:  geminiModelVariants,
		client:    &http.Client{},
		available: apiKey != "",
	}
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) Available() bool {
	return p.available
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content *geminiContent `json:"content"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Generate tries each model variant in order, returning the first answer.
// If every variant fails, the variant errors are aggregated.
func (p *GeminiProvider) Generate(ctx context.Context, query, contextText string, temperature float64) (string, error) {
	var failures []string
	for _, model := range p.variants {
		text, err := p.generateWithModel(ctx, model, query, contextText, temperature)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", model, err))
			continue
		}
		return text, nil
	}
	return "", &ProviderError{
		Provider: "Gemini",
		Err:      fmt.Errorf("all models unavailable (%s)", strings.Join(failures, "; ")),
	}
}

func (p *GeminiProvider) generateWithModel(ctx context.Context, model, query, contextText string, temperature float64) (string, error) {
	apiReq := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: buildPrompt(query, contextText)}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     temperature,
			MaxOutputTokens: 1000,
		},
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", p.baseURL, model, p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal gemini response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("gemini API error (%s): %s", apiResp.Error.Status, apiResp.Error.Message)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	if len(apiResp.Candidates) == 0 || apiResp.Candidates[0].Content == nil {
		return "", errNoChoices
	}

	var content string
	for _, part := range apiResp.Candidates[0].Content.Parts {
		content += part.Text
	}
	return content, nil
}
