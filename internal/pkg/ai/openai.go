package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gitsage/gitmsg/internal/pkg/config"
	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider using the chat completions API.
type OpenAIProvider struct {
	settings   config.ProviderSettings
	httpClient *http.Client
}

// NewOpenAIProvider creates an OpenAI adapter. Empty model and endpoint fall
// back to the defaults.
func NewOpenAIProvider(settings config.ProviderSettings, httpClient *http.Client) *OpenAIProvider {
	settings.Model = orDefault(settings.Model, config.DefaultOpenAIModel)
	settings.Endpoint = orDefault(settings.Endpoint, config.DefaultOpenAIEndpoint)
	return &OpenAIProvider{settings: settings, httpClient: httpClient}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return KindOpenAI.String()
}

// Validate checks that an API key is configured.
func (p *OpenAIProvider) Validate() error {
	return requireSetting(p.Name(), "api_key", p.settings.APIKey)
}

// Generate sends prompt as a single user message.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	clientConfig := openai.DefaultConfig(p.settings.APIKey)
	clientConfig.BaseURL = strings.TrimRight(p.settings.Endpoint, "/")
	clientConfig.HTTPClient = p.httpClient
	client := openai.NewClientWithConfig(clientConfig)

	req := openai.ChatCompletionRequest{
		Model: p.settings.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}

	apperrors.LogAPIRequest(p.Name(), p.settings.Endpoint, p.settings.Model, len(prompt))
	start := time.Now()

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", p.wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.NewMalformedResponseError(p.Name(), errors.New("response has no choices"))
	}
	content := resp.Choices[0].Message.Content
	apperrors.LogAPIResponse(p.Name(), http.StatusOK, len(content), time.Since(start))

	return strings.TrimSpace(content), nil
}

func (p *OpenAIProvider) wrapError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return apperrors.NewMalformedResponseError(p.Name(), err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		apperrors.LogAPIResponse(p.Name(), apiErr.HTTPStatusCode, 0, 0)
		return apperrors.NewNetworkError(p.Name(), err).
			WithContext("status", apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return apperrors.NewNetworkError(p.Name(), err).
			WithContext("status", reqErr.HTTPStatusCode)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(err)
	}

	return apperrors.NewNetworkError(p.Name(), err)
}
