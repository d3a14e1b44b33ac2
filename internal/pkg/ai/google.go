package ai

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gitsage/gitmsg/internal/pkg/config"
	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
)

// GoogleProvider implements Provider using the generateContent API.
type GoogleProvider struct {
	settings   config.ProviderSettings
	httpClient *http.Client
}

type googlePart struct {
	Text string `json:"text"`
}

type googleContent struct {
	Parts []googlePart `json:"parts"`
}

type googleRequest struct {
	Contents []googleContent `json:"contents"`
}

type googleResponse struct {
	Candidates []struct {
		Content googleContent `json:"content"`
	} `json:"candidates"`
}

// NewGoogleProvider creates a Google adapter.
func NewGoogleProvider(settings config.ProviderSettings, httpClient *http.Client) *GoogleProvider {
	settings.Model = orDefault(settings.Model, config.DefaultGoogleModel)
	settings.Endpoint = orDefault(settings.Endpoint, config.DefaultGoogleEndpoint)
	return &GoogleProvider{settings: settings, httpClient: httpClient}
}

// Name returns the provider name.
func (p *GoogleProvider) Name() string {
	return KindGoogle.String()
}

// Validate checks that an API key is configured.
func (p *GoogleProvider) Validate() error {
	return requireSetting(p.Name(), "api_key", p.settings.APIKey)
}

// requestURL returns the generateContent URL. The key travels in the query.
func (p *GoogleProvider) requestURL() (full, redacted string) {
	base := strings.TrimRight(p.settings.Endpoint, "/") +
		"/v1beta/models/" + url.PathEscape(p.settings.Model) + ":generateContent"
	return base + "?key=" + url.QueryEscape(p.settings.APIKey), base
}

// Generate sends prompt as a single content part.
func (p *GoogleProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	full, redacted := p.requestURL()
	payload := googleRequest{
		Contents: []googleContent{{Parts: []googlePart{{Text: prompt}}}},
	}

	body, err := postJSON(ctx, p.httpClient, p.Name(), full, redacted, p.settings.Model, nil, payload, len(prompt))
	if err != nil {
		return "", err
	}

	var resp googleResponse
	if err := decodeJSON(p.Name(), body, &resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.NewMalformedResponseError(p.Name(), errors.New("response has no candidate text"))
	}

	return strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text), nil
}
