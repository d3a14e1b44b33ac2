package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gitsage/gitmsg/internal/pkg/config"
	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
)

// OllamaAPIPath is the generate endpoint relative to the Ollama server.
const OllamaAPIPath = "/api/generate"

// OllamaProvider implements Provider for a local Ollama server.
type OllamaProvider struct {
	settings   config.ProviderSettings
	httpClient *http.Client
}

// OllamaGenerateRequest is the body of a non-streaming generate call.
type OllamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// OllamaGenerateResponse is the subset of the generate reply gitmsg reads.
type OllamaGenerateResponse struct {
	Model    string  `json:"model"`
	Response *string `json:"response"`
	Done     bool    `json:"done"`
	Error    string  `json:"error,omitempty"`
}

// NewOllamaProvider creates an Ollama adapter. Only the model falls back to a
// default; the endpoint must be configured (the config layer supplies
// http://localhost:11434 unless the user clears it).
func NewOllamaProvider(settings config.ProviderSettings, httpClient *http.Client) *OllamaProvider {
	settings.Model = orDefault(settings.Model, config.DefaultOllamaModel)
	return &OllamaProvider{settings: settings, httpClient: httpClient}
}

// Name returns the provider name.
func (p *OllamaProvider) Name() string {
	return KindOllama.String()
}

// Validate checks that an endpoint is configured and looks like an HTTP URL.
func (p *OllamaProvider) Validate() error {
	if err := requireSetting(p.Name(), "endpoint", p.settings.Endpoint); err != nil {
		return err
	}
	if !strings.HasPrefix(p.settings.Endpoint, "http://") && !strings.HasPrefix(p.settings.Endpoint, "https://") {
		return apperrors.NewInvalidConfigError("ollama.endpoint must start with http:// or https://")
	}
	return nil
}

// Generate sends prompt to the generate API with streaming disabled.
func (p *OllamaProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	url := strings.TrimRight(p.settings.Endpoint, "/") + OllamaAPIPath
	payload := OllamaGenerateRequest{
		Model:  p.settings.Model,
		Prompt: prompt,
		Stream: false,
	}

	body, err := postJSON(ctx, p.httpClient, p.Name(), url, url, p.settings.Model, nil, payload, len(prompt))
	if err != nil {
		appErr := apperrors.GetAppError(err)
		if appErr != nil && appErr.Code == apperrors.ErrNetworkError && strings.Contains(err.Error(), "connection refused") {
			appErr.WithSuggestion("Please ensure Ollama is running using 'ollama serve'")
		}
		return "", err
	}

	var resp OllamaGenerateResponse
	if err := decodeJSON(p.Name(), body, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", apperrors.NewMalformedResponseError(p.Name(), errors.New(resp.Error))
	}
	if resp.Response == nil {
		return "", apperrors.NewMalformedResponseError(p.Name(), errors.New("response field missing"))
	}

	return strings.TrimSpace(*resp.Response), nil
}
