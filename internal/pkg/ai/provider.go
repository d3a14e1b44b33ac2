// Package ai builds commit-message prompts and sends them to text-generation
// providers.
package ai

import (
	"context"
	"net/http"
)

// Request parameters shared by the adapters that accept them.
const (
	MaxTokens   = 200
	Temperature = 0.7
)

// Provider generates a commit message from a prompt.
type Provider interface {
	// Generate sends prompt to the provider and returns the trimmed text.
	Generate(ctx context.Context, prompt string) (string, error)
	// Name returns the provider identifier.
	Name() string
	// Validate checks the required settings without touching the network.
	Validate() error
}

type options struct {
	httpClient *http.Client
}

// Option configures adapters built by NewProvider and Dispatch.
type Option func(*options)

// WithHTTPClient makes adapters send requests through c.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

func buildOptions(opts []Option) options {
	// No timeout: a slow provider is bounded by the caller's context.
	o := options{httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
