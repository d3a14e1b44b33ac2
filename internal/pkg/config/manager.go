package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
)

const (
	// DefaultConfigDir is the directory under the home directory holding gitmsg state.
	DefaultConfigDir = ".gitmsg"
	// DefaultConfigFileExt is the default config file extension.
	DefaultConfigFileExt = "yaml"
	// EnvPrefix prefixes every environment variable gitmsg reads.
	EnvPrefix = "GITMSG"
)

// Default values shared with the setup wizard.
const (
	DefaultProvider        = "openai"
	DefaultStyle           = "conventional"
	DefaultOpenAIModel     = "gpt-3.5-turbo"
	DefaultOpenAIEndpoint  = "https://api.openai.com/v1"
	DefaultAnthropicModel  = "claude-3-sonnet-20240229"
	DefaultAnthropicURL    = "https://api.anthropic.com/"
	DefaultGoogleModel     = "gemini-pro"
	DefaultGoogleEndpoint  = "https://generativelanguage.googleapis.com"
	DefaultOllamaModel     = "llama2"
	DefaultOllamaEndpoint  = "http://localhost:11434"
	DefaultHistoryEntries  = 1000
	DefaultCacheTTLMinutes = 60
)

// loadDotEnv is a variable to allow stubbing in tests.
var loadDotEnv = godotenv.Load

// envKeys lists every key bound to an environment variable.
var envKeys = []string{
	"provider",
	"commit.style",
	"openai.api_key", "openai.model", "openai.endpoint",
	"anthropic.api_key", "anthropic.model", "anthropic.endpoint",
	"google.api_key", "google.model", "google.endpoint",
	"ollama.model", "ollama.endpoint",
	"custom.api_key", "custom.endpoint",
	"ui.color_enabled", "ui.input_file",
	"history.enabled", "history.max_entries", "history.file_path",
	"cache.enabled", "cache.ttl_minutes",
	"security.warning_acknowledged",
}

// ViperManager implements the Manager interface using Viper.
type ViperManager struct {
	v          *viper.Viper
	configPath string
}

// NewManager creates a new configuration manager.
// If configPath is empty, it uses the default path (~/.gitmsg/config.yaml).
// A .env file in the working directory is loaded first; it never overrides
// variables already present in the environment.
func NewManager(configPath string) (*ViperManager, error) {
	if err := loadDotEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType(DefaultConfigFileExt)

	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(homeDir, DefaultConfigDir, "config.yaml")
	}
	v.SetConfigFile(configPath)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// AutomaticEnv does not see nested keys during Unmarshal; bind each one.
	for _, key := range envKeys {
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}

	return &ViperManager{
		v:          v,
		configPath: configPath,
	}, nil
}

// defaultValues returns the default for every known key.
func defaultValues() map[string]interface{} {
	homeDir, _ := os.UserHomeDir()
	return map[string]interface{}{
		"provider":     DefaultProvider,
		"commit.style": DefaultStyle,

		"openai.api_key":  "",
		"openai.model":    DefaultOpenAIModel,
		"openai.endpoint": DefaultOpenAIEndpoint,

		"anthropic.api_key":  "",
		"anthropic.model":    DefaultAnthropicModel,
		"anthropic.endpoint": DefaultAnthropicURL,

		"google.api_key":  "",
		"google.model":    DefaultGoogleModel,
		"google.endpoint": DefaultGoogleEndpoint,

		"ollama.model":    DefaultOllamaModel,
		"ollama.endpoint": DefaultOllamaEndpoint,

		"custom.api_key":  "",
		"custom.endpoint": "",

		"ui.color_enabled": true,
		"ui.input_file":    "",

		"history.enabled":     true,
		"history.max_entries": DefaultHistoryEntries,
		"history.file_path":   filepath.Join(homeDir, DefaultConfigDir, "history.json"),

		"cache.enabled":     false,
		"cache.ttl_minutes": DefaultCacheTTLMinutes,

		"security.warning_acknowledged": false,
	}
}

// setDefaults registers defaultValues on v.
func setDefaults(v *viper.Viper) {
	for key, value := range defaultValues() {
		v.SetDefault(key, value)
	}
}

// GetConfigPath returns the path to the configuration file.
func (m *ViperManager) GetConfigPath() string {
	return m.configPath
}

// readConfig reads the config file, treating a missing file as empty.
func (m *ViperManager) readConfig() error {
	return readConfigFile(m.v, m.configPath)
}

// readConfigFile reads path into v. A missing file is empty; a file that
// does not parse is ErrConfigCorruption.
func readConfigFile(v *viper.Viper, path string) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		var parseErr viper.ConfigParseError
		if errors.As(err, &parseErr) {
			return apperrors.Wrap(err, apperrors.ErrConfigCorruption,
				fmt.Sprintf("config file %s is not valid YAML", path)).
				WithSuggestion("Fix the file by hand or remove it and run 'gitmsg config init'")
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// fileOnly returns a viper holding just what is on disk at m.configPath:
// no defaults, environment or overrides.
func (m *ViperManager) fileOnly() (*viper.Viper, error) {
	fv := viper.New()
	fv.SetConfigType(DefaultConfigFileExt)
	fv.SetConfigFile(m.configPath)
	if err := readConfigFile(fv, m.configPath); err != nil {
		return nil, err
	}
	return fv, nil
}

// writeFile writes v to the config path with user-only permissions.
func (m *ViperManager) writeFile(v *viper.Viper) error {
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := v.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Chmod(m.configPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}
	return nil
}

// Load loads the configuration from file, environment, and defaults.
// Priority: overrides (flags) > env > file > defaults
func (m *ViperManager) Load() (*Config, error) {
	if err := m.readConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Init creates a new configuration file holding the default values.
// Environment values and flag overrides are not written.
func (m *ViperManager) Init() error {
	if _, err := os.Stat(m.configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", m.configPath)
	}

	dv := viper.New()
	dv.SetConfigType(DefaultConfigFileExt)
	for key, value := range defaultValues() {
		dv.Set(key, value)
	}
	return m.writeFile(dv)
}

// Set sets a configuration value by key and persists it.
// Supports nested keys using dot notation (e.g., "openai.model").
// Only the file's own contents plus key are written back.
func (m *ViperManager) Set(key string, value string) error {
	fv, err := m.fileOnly()
	if err != nil {
		return err
	}

	existing := fv.Get(key)
	if existing == nil {
		existing = defaultValues()[key]
	}
	convertedValue, err := convertValue(value, existing)
	if err != nil {
		return fmt.Errorf("failed to convert value for key %s: %w", key, err)
	}

	fv.Set(key, convertedValue)
	if err := m.writeFile(fv); err != nil {
		return err
	}

	m.v.Set(key, convertedValue)
	return nil
}

// convertValue converts a string value to the type of the existing value.
func convertValue(value string, existingValue interface{}) (interface{}, error) {
	switch existingValue.(type) {
	case nil:
		return value, nil
	case bool:
		return strconv.ParseBool(value)
	case int, int64:
		return strconv.ParseInt(value, 10, 64)
	case float32, float64:
		return strconv.ParseFloat(value, 64)
	case []interface{}, []string:
		return strings.Split(value, ","), nil
	default:
		return value, nil
	}
}

// Get retrieves a configuration value by key.
func (m *ViperManager) Get(key string) (string, error) {
	if err := m.readConfig(); err != nil {
		return "", err
	}

	if !m.v.IsSet(key) {
		return "", fmt.Errorf("key not found: %s", key)
	}

	return fmt.Sprintf("%v", m.v.Get(key)), nil
}

// List returns all configuration values as a nested map.
func (m *ViperManager) List() map[string]interface{} {
	_ = m.readConfig()
	return m.v.AllSettings()
}

// SetOverride sets a temporary override for a configuration key.
// This is used for command-line flag overrides that shouldn't persist.
func (m *ViperManager) SetOverride(key string, value interface{}) {
	m.v.Set(key, value)
}

// ConfigExists checks if the configuration file exists.
func (m *ViperManager) ConfigExists() bool {
	_, err := os.Stat(m.configPath)
	return err == nil
}

// AcknowledgeSecurityWarning marks the first-use notice as acknowledged.
func (m *ViperManager) AcknowledgeSecurityWarning() error {
	return m.Set("security.warning_acknowledged", "true")
}
