package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider implements Provider using the OpenAI Chat Completions API.
type OpenAIProvider struct {
	client    *openai.Client
	model     string
	available bool
}

// NewOpenAIProvider creates a new OpenAI provider. An empty API key produces
// an unavailable provider rather than an error: credential absence is a
// normal condition handled by the selection policy.
func NewOpenAIProvider(apiKey string, model string) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{
		client:    openai.NewClient(apiKey),
		model:     model,
		available: apiKey != "",
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Available() bool {
	return p.available
}

func (p *OpenAIProvider) Generate(ctx context.Context, query, contextText string, temperature float64) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(query, contextText)},
		},
		MaxTokens:   1000,
		Temperature: float32(temperature),
	})
	if err != nil {
		return "", &ProviderError{Provider: "OpenAI", Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: "OpenAI", Err: errNoChoices}
	}
	return resp.Choices[0].Message.Content, nil
}
