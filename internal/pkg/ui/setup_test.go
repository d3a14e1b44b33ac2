package ui

import (
	"path/filepath"
	"testing"

	"github.com/gitsage/gitmsg/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The huh forms need a TTY; these tests cover the logic around them.

func TestValidateAPIKey(t *testing.T) {
	assert.Error(t, validateAPIKey("123"))
	assert.Error(t, validateAPIKey("   12  "))
	assert.NoError(t, validateAPIKey("12345"))
	assert.NoError(t, validateAPIKey("longer_key_value"))
}

func TestValidateEndpoint(t *testing.T) {
	required := validateEndpoint(true)
	optional := validateEndpoint(false)

	assert.Error(t, required(""))
	assert.NoError(t, optional(""))
	assert.Error(t, optional("localhost:11434"))
	assert.NoError(t, required("http://localhost:11434"))
	assert.NoError(t, required("https://llm.internal/generate"))
}

func TestProviderDefaults(t *testing.T) {
	for _, opt := range setupProviders {
		model, endpoint := providerDefaults(opt.Value)
		if opt.Value == "custom" {
			assert.Empty(t, model)
			assert.Empty(t, endpoint)
			continue
		}
		assert.NotEmpty(t, model, opt.Value)
		assert.NotEmpty(t, endpoint, opt.Value)
	}
}

func TestRequiresAPIKey(t *testing.T) {
	assert.True(t, requiresAPIKey("openai"))
	assert.True(t, requiresAPIKey("anthropic"))
	assert.True(t, requiresAPIKey("google"))
	assert.False(t, requiresAPIKey("ollama"))
	assert.False(t, requiresAPIKey("custom"))
}

func TestSetupAnswers_Settings(t *testing.T) {
	a := setupAnswers{Provider: "anthropic", APIKey: " sk-ant-123 ", Model: "claude-3-haiku-20240307"}
	assert.Equal(t, [][2]string{
		{"provider", "anthropic"},
		{"anthropic.api_key", "sk-ant-123"},
		{"anthropic.model", "claude-3-haiku-20240307"},
	}, a.settings())

	// Ollama clears any stale key.
	a = setupAnswers{Provider: "ollama", Model: "llama2", Endpoint: "http://localhost:11434"}
	assert.Contains(t, a.settings(), [2]string{"ollama.api_key", ""})
}

func TestSaveSetup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	mgr, err := config.NewManager(path)
	require.NoError(t, err)

	err = saveSetup(mgr, setupAnswers{
		Provider: "custom",
		Endpoint: "https://llm.internal/generate",
	})
	require.NoError(t, err)

	cfg, err := mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Provider)
	assert.Equal(t, "https://llm.internal/generate", cfg.Custom.Endpoint)
	assert.True(t, cfg.Security.WarningAcknowledged)
	assert.FileExists(t, path)
}
