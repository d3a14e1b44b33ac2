package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/gitsage/gitmsg/internal/pkg/config"
	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
)

// AnthropicAPIVersion is sent as the anthropic-version header.
const AnthropicAPIVersion = "2023-06-01"

// AnthropicProvider implements Provider using the Messages API.
type AnthropicProvider struct {
	settings   config.ProviderSettings
	httpClient *http.Client
}

// NewAnthropicProvider creates an Anthropic adapter.
func NewAnthropicProvider(settings config.ProviderSettings, httpClient *http.Client) *AnthropicProvider {
	settings.Model = orDefault(settings.Model, config.DefaultAnthropicModel)
	settings.Endpoint = orDefault(settings.Endpoint, config.DefaultAnthropicURL)
	return &AnthropicProvider{settings: settings, httpClient: httpClient}
}

// Name returns the provider name.
func (p *AnthropicProvider) Name() string {
	return KindAnthropic.String()
}

// Validate checks that an API key is configured.
func (p *AnthropicProvider) Validate() error {
	return requireSetting(p.Name(), "api_key", p.settings.APIKey)
}

// Generate sends prompt as a single user text block.
func (p *AnthropicProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	client := anthropic.NewClient(
		option.WithAPIKey(p.settings.APIKey),
		option.WithBaseURL(p.settings.Endpoint),
		option.WithHTTPClient(p.httpClient),
		option.WithMaxRetries(0),
		option.WithHeader("anthropic-version", AnthropicAPIVersion),
	)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.settings.Model),
		MaxTokens: MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	apperrors.LogAPIRequest(p.Name(), p.settings.Endpoint, p.settings.Model, len(prompt))
	start := time.Now()

	message, err := client.Messages.New(ctx, params)
	if err != nil {
		return "", p.wrapError(err)
	}

	if len(message.Content) == 0 {
		return "", apperrors.NewMalformedResponseError(p.Name(), errors.New("response has no content blocks"))
	}
	text := message.Content[0].Text
	apperrors.LogAPIResponse(p.Name(), http.StatusOK, len(text), time.Since(start))

	return strings.TrimSpace(text), nil
}

func (p *AnthropicProvider) wrapError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		apperrors.LogAPIResponse(p.Name(), apiErr.StatusCode, 0, 0)
		return apperrors.NewNetworkError(p.Name(), err).
			WithContext("status", apiErr.StatusCode)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return apperrors.NewMalformedResponseError(p.Name(), err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(err)
	}

	return apperrors.NewNetworkError(p.Name(), err)
}
