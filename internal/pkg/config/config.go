// Package config provides configuration management for gitmsg.
package config

// Config represents the complete gitmsg configuration.
type Config struct {
	// Provider selects the active text-generation provider.
	Provider  string           `mapstructure:"provider"`
	Commit    CommitConfig     `mapstructure:"commit"`
	OpenAI    ProviderSettings `mapstructure:"openai"`
	Anthropic ProviderSettings `mapstructure:"anthropic"`
	Google    ProviderSettings `mapstructure:"google"`
	Ollama    ProviderSettings `mapstructure:"ollama"`
	Custom    ProviderSettings `mapstructure:"custom"`
	UI        UIConfig         `mapstructure:"ui"`
	History   HistoryConfig    `mapstructure:"history"`
	Cache     CacheConfig      `mapstructure:"cache"`
	Security  SecurityConfig   `mapstructure:"security"`
}

// CommitConfig contains prompt-related settings.
type CommitConfig struct {
	Style string `mapstructure:"style"`
}

// ProviderSettings holds the fields a single provider may need. Which of
// them are required depends on the provider.
type ProviderSettings struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Endpoint string `mapstructure:"endpoint"`
}

// Providers returns the per-provider settings blocks.
func (c *Config) Providers() Providers {
	return Providers{
		OpenAI:    c.OpenAI,
		Anthropic: c.Anthropic,
		Google:    c.Google,
		Ollama:    c.Ollama,
		Custom:    c.Custom,
	}
}

// Providers groups the settings of every supported provider.
type Providers struct {
	OpenAI    ProviderSettings
	Anthropic ProviderSettings
	Google    ProviderSettings
	Ollama    ProviderSettings
	Custom    ProviderSettings
}

// UIConfig contains UI-related settings.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled"`
	// InputFile overrides the file standing in for the commit-input field.
	InputFile string `mapstructure:"input_file"`
}

// HistoryConfig contains history-related settings.
type HistoryConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	MaxEntries int    `mapstructure:"max_entries"`
	FilePath   string `mapstructure:"file_path"`
}

// CacheConfig contains response cache settings.
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLMinutes int  `mapstructure:"ttl_minutes"`
}

// SecurityConfig contains security-related settings.
type SecurityConfig struct {
	// WarningAcknowledged indicates if the user has acknowledged the first-use notice.
	WarningAcknowledged bool `mapstructure:"warning_acknowledged"`
}

// Manager defines the interface for configuration management.
type Manager interface {
	Load() (*Config, error)
	Set(key string, value string) error
	Get(key string) (string, error)
	Init() error
	List() map[string]interface{}
	GetConfigPath() string
}
