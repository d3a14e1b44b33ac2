package ai

import (
	"context"
	"net/http"
	"strings"

	"github.com/gitsage/gitmsg/internal/pkg/config"
	"github.com/tidwall/gjson"
)

// CustomFallbackMessage is returned when a custom endpoint's reply carries
// none of the recognised fields.
const CustomFallbackMessage = "Unable to parse response"

// customResponseFields are probed in order; the first truthy one wins.
var customResponseFields = []string{"message", "response", "text"}

// CustomProvider implements Provider for an arbitrary HTTP endpoint whose
// response shape is not known in advance.
type CustomProvider struct {
	settings   config.ProviderSettings
	httpClient *http.Client
}

type customRequest struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

// NewCustomProvider creates a custom adapter.
func NewCustomProvider(settings config.ProviderSettings, httpClient *http.Client) *CustomProvider {
	return &CustomProvider{settings: settings, httpClient: httpClient}
}

// Name returns the provider name.
func (p *CustomProvider) Name() string {
	return KindCustom.String()
}

// Validate checks that an endpoint is configured.
func (p *CustomProvider) Validate() error {
	return requireSetting(p.Name(), "endpoint", p.settings.Endpoint)
}

// Generate posts prompt to the endpoint, adding a bearer token when an API
// key is configured.
func (p *CustomProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	var headers map[string]string
	if p.settings.APIKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + p.settings.APIKey}
	}

	payload := customRequest{Prompt: prompt, MaxTokens: MaxTokens}
	body, err := postJSON(ctx, p.httpClient, p.Name(), p.settings.Endpoint, p.settings.Endpoint, p.settings.Model, headers, payload, len(prompt))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(ExtractCustomMessage(body)), nil
}

// ExtractCustomMessage picks the message out of an open JSON document.
// Strings are returned as their value and other JSON values as raw text.
func ExtractCustomMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return CustomFallbackMessage
	}
	for _, field := range customResponseFields {
		r := gjson.GetBytes(body, field)
		if !truthy(r) {
			continue
		}
		if r.Type == gjson.String {
			return r.Str
		}
		return r.Raw
	}
	return CustomFallbackMessage
}

func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}
