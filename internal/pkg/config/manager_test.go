package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
)

// genAlphaString generates lowercase strings with length between minLen and maxLen.
func genAlphaString(minLen, maxLen int) gopter.Gen {
	return gen.IntRange(minLen, maxLen).FlatMap(func(length interface{}) gopter.Gen {
		n := length.(int)
		return gen.SliceOfN(n, gen.Rune()).Map(func(runes []rune) string {
			for i := range runes {
				runes[i] = 'a' + (runes[i] % 26)
			}
			return string(runes)
		})
	}, reflect.TypeOf(""))
}

func stubDotEnv(t *testing.T) {
	t.Helper()
	orig := loadDotEnv
	loadDotEnv = func(...string) error { return nil }
	t.Cleanup(func() { loadDotEnv = orig })
}

func newTestManager(t *testing.T) *ViperManager {
	t.Helper()
	stubDotEnv(t)
	mgr, err := NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	return mgr
}

// Precedence: overrides > env > file > defaults.
func TestConfigPrecedence_Property(t *testing.T) {
	stubDotEnv(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(42)

	properties := gopter.NewProperties(parameters)

	properties.Property("env vars override file values", prop.ForAll(
		func(fileValue, envValue string) bool {
			configPath := filepath.Join(t.TempDir(), "config.yaml")

			mgr, err := NewManager(configPath)
			if err != nil {
				t.Logf("Failed to create manager: %v", err)
				return false
			}
			if err := mgr.Set("anthropic.model", fileValue); err != nil {
				t.Logf("Failed to set file value: %v", err)
				return false
			}

			os.Setenv("GITMSG_ANTHROPIC_MODEL", envValue)
			defer os.Unsetenv("GITMSG_ANTHROPIC_MODEL")

			mgr2, err := NewManager(configPath)
			if err != nil {
				return false
			}
			cfg, err := mgr2.Load()
			if err != nil {
				t.Logf("Failed to load config: %v", err)
				return false
			}
			return cfg.Anthropic.Model == envValue
		},
		genAlphaString(3, 15),
		genAlphaString(3, 15),
	))

	properties.Property("file values override defaults", prop.ForAll(
		func(fileValue string) bool {
			os.Unsetenv("GITMSG_OLLAMA_MODEL")

			mgr, err := NewManager(filepath.Join(t.TempDir(), "config.yaml"))
			if err != nil {
				return false
			}
			if err := mgr.Set("ollama.model", fileValue); err != nil {
				t.Logf("Failed to set file value: %v", err)
				return false
			}
			cfg, err := mgr.Load()
			if err != nil {
				return false
			}
			return cfg.Ollama.Model == fileValue
		},
		genAlphaString(3, 25),
	))

	properties.Property("overrides beat env values", prop.ForAll(
		func(envValue, flagValue string) bool {
			os.Setenv("GITMSG_COMMIT_STYLE", envValue)
			defer os.Unsetenv("GITMSG_COMMIT_STYLE")

			mgr, err := NewManager(filepath.Join(t.TempDir(), "config.yaml"))
			if err != nil {
				return false
			}
			mgr.SetOverride("commit.style", flagValue)
			cfg, err := mgr.Load()
			if err != nil {
				return false
			}
			return cfg.Commit.Style == flagValue
		},
		genAlphaString(3, 15),
		genAlphaString(3, 15),
	))

	properties.TestingRun(t)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range envKeys {
		t.Setenv(EnvPrefix+"_"+envName(key), "")
		os.Unsetenv(EnvPrefix + "_" + envName(key))
	}
	mgr := newTestManager(t)

	cfg, err := mgr.Load()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "conventional", cfg.Commit.Style)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAI.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.Endpoint)
	assert.Equal(t, "claude-3-sonnet-20240229", cfg.Anthropic.Model)
	assert.Equal(t, "gemini-pro", cfg.Google.Model)
	assert.Equal(t, "llama2", cfg.Ollama.Model)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.Endpoint)
	assert.Empty(t, cfg.Custom.Endpoint)
	assert.Empty(t, cfg.OpenAI.APIKey)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 60, cfg.Cache.TTLMinutes)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 1000, cfg.History.MaxEntries)
	assert.False(t, cfg.Security.WarningAcknowledged)
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func TestInit_CreatesFileWith0600(t *testing.T) {
	mgr := newTestManager(t)

	require.NoError(t, mgr.Init())
	assert.True(t, mgr.ConfigExists())

	info, err := os.Stat(mgr.GetConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	assert.Error(t, mgr.Init(), "second Init should refuse to overwrite")
}

func TestSetAndGet(t *testing.T) {
	mgr := newTestManager(t)

	require.NoError(t, mgr.Set("custom.endpoint", "http://localhost:8080/generate"))
	require.NoError(t, mgr.Set("history.max_entries", "25"))
	require.NoError(t, mgr.Set("cache.enabled", "true"))

	got, err := mgr.Get("custom.endpoint")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/generate", got)

	cfg, err := mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.History.MaxEntries)
	assert.True(t, cfg.Cache.Enabled)

	assert.Error(t, mgr.Set("cache.enabled", "not-a-bool"))

	_, err = mgr.Get("nope.missing")
	assert.Error(t, err)
}

func TestSetOverrideDoesNotPersist(t *testing.T) {
	stubDotEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	mgr, err := NewManager(configPath)
	require.NoError(t, err)
	require.NoError(t, mgr.Init())

	mgr.SetOverride("provider", "ollama")
	cfg, err := mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Provider)

	mgr2, err := NewManager(configPath)
	require.NoError(t, err)
	cfg2, err := mgr2.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultProvider, cfg2.Provider)
}

func TestAcknowledgeSecurityWarning(t *testing.T) {
	stubDotEnv(t)
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	mgr, err := NewManager(configPath)
	require.NoError(t, err)
	require.NoError(t, mgr.AcknowledgeSecurityWarning())

	mgr2, err := NewManager(configPath)
	require.NoError(t, err)
	cfg, err := mgr2.Load()
	require.NoError(t, err)
	assert.True(t, cfg.Security.WarningAcknowledged)
}

func TestSet_WritesOnlyFileContents(t *testing.T) {
	stubDotEnv(t)
	t.Setenv("GITMSG_OPENAI_API_KEY", "sk-envonlysecret000000000000")
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	mgr, err := NewManager(configPath)
	require.NoError(t, err)
	mgr.SetOverride("provider", "anthropic")
	mgr.SetOverride("commit.style", "detailed")

	require.NoError(t, mgr.AcknowledgeSecurityWarning())

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-envonlysecret")
	assert.NotContains(t, string(data), "anthropic")
	assert.NotContains(t, string(data), "detailed")
	assert.Contains(t, string(data), "warning_acknowledged: true")

	require.NoError(t, mgr.Set("custom.endpoint", "http://localhost:9000"))
	data, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-envonlysecret")
	assert.Contains(t, string(data), "warning_acknowledged: true", "earlier keys survive")
	assert.Contains(t, string(data), "http://localhost:9000")

	cfg, err := mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider, "override still applies in process")
	assert.Equal(t, "sk-envonlysecret000000000000", cfg.OpenAI.APIKey)
}

func TestInit_IgnoresEnvironment(t *testing.T) {
	stubDotEnv(t)
	t.Setenv("GITMSG_ANTHROPIC_API_KEY", "sk-ant-envonly")
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	mgr, err := NewManager(configPath)
	require.NoError(t, err)
	mgr.SetOverride("provider", "ollama")
	require.NoError(t, mgr.Init())

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-ant-envonly")
	assert.Contains(t, string(data), "provider: "+DefaultProvider)
}

func TestLoad_CorruptFile(t *testing.T) {
	stubDotEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("provider: [openai\n  : :"), 0600))

	mgr, err := NewManager(configPath)
	require.NoError(t, err)

	_, err = mgr.Load()
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConfigCorruption))

	err = mgr.Set("provider", "ollama")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConfigCorruption))
}

func TestNewManager_DotEnvErrors(t *testing.T) {
	orig := loadDotEnv
	t.Cleanup(func() { loadDotEnv = orig })

	loadDotEnv = func(...string) error { return os.ErrNotExist }
	_, err := NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	assert.NoError(t, err, "a missing .env is not an error")

	loadDotEnv = func(...string) error { return errors.New("line 3: unexpected character") }
	_, err = NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	assert.Error(t, err)
}

func TestConfigProviders(t *testing.T) {
	cfg := &Config{
		OpenAI: ProviderSettings{APIKey: "k1"},
		Custom: ProviderSettings{Endpoint: "http://x"},
	}
	p := cfg.Providers()
	assert.Equal(t, "k1", p.OpenAI.APIKey)
	assert.Equal(t, "http://x", p.Custom.Endpoint)
}
