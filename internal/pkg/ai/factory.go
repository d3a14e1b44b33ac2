package ai

import (
	"context"

	"github.com/gitsage/gitmsg/internal/pkg/config"
	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
)

// ProviderKind enumerates the supported providers.
type ProviderKind int

const (
	KindOpenAI ProviderKind = iota
	KindAnthropic
	KindGoogle
	KindOllama
	KindCustom
)

// Kinds lists every provider kind in display order.
var Kinds = []ProviderKind{KindOpenAI, KindAnthropic, KindGoogle, KindOllama, KindCustom}

// String returns the configuration identifier of the kind.
func (k ProviderKind) String() string {
	switch k {
	case KindOpenAI:
		return "openai"
	case KindAnthropic:
		return "anthropic"
	case KindGoogle:
		return "google"
	case KindOllama:
		return "ollama"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParseProviderKind maps a configured identifier to its kind by exact match.
func ParseProviderKind(id string) (ProviderKind, error) {
	for _, k := range Kinds {
		if k.String() == id {
			return k, nil
		}
	}
	return 0, apperrors.NewUnknownProviderError(id)
}

// SettingsFor returns the settings block of kind.
func SettingsFor(kind ProviderKind, p config.Providers) config.ProviderSettings {
	switch kind {
	case KindOpenAI:
		return p.OpenAI
	case KindAnthropic:
		return p.Anthropic
	case KindGoogle:
		return p.Google
	case KindOllama:
		return p.Ollama
	case KindCustom:
		return p.Custom
	default:
		return config.ProviderSettings{}
	}
}

// NewProvider constructs the adapter for kind.
func NewProvider(kind ProviderKind, settings config.ProviderSettings, opts ...Option) (Provider, error) {
	o := buildOptions(opts)

	switch kind {
	case KindOpenAI:
		return NewOpenAIProvider(settings, o.httpClient), nil
	case KindAnthropic:
		return NewAnthropicProvider(settings, o.httpClient), nil
	case KindGoogle:
		return NewGoogleProvider(settings, o.httpClient), nil
	case KindOllama:
		return NewOllamaProvider(settings, o.httpClient), nil
	case KindCustom:
		return NewCustomProvider(settings, o.httpClient), nil
	default:
		return nil, apperrors.NewUnknownProviderError(kind.String())
	}
}

// Dispatch sends prompt to the provider named id and returns its message.
// Adapter errors are returned unchanged; there is no retry or fallback.
func Dispatch(ctx context.Context, prompt, id string, providers config.Providers, opts ...Option) (string, error) {
	kind, err := ParseProviderKind(id)
	if err != nil {
		return "", err
	}

	provider, err := NewProvider(kind, SettingsFor(kind, providers), opts...)
	if err != nil {
		return "", err
	}

	return provider.Generate(ctx, prompt)
}
