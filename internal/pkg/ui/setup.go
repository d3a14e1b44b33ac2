package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/gitsage/gitmsg/internal/pkg/config"
)

// setupProviders are the wizard's provider choices, in display order.
var setupProviders = []huh.Option[string]{
	huh.NewOption("OpenAI", "openai"),
	huh.NewOption("Anthropic", "anthropic"),
	huh.NewOption("Google Gemini", "google"),
	huh.NewOption("Ollama (Local)", "ollama"),
	huh.NewOption("Custom endpoint", "custom"),
}

// setupAnswers is what the wizard collected.
type setupAnswers struct {
	Provider string
	APIKey   string
	Model    string
	Endpoint string
}

// providerDefaults returns the pre-filled model and endpoint for provider.
func providerDefaults(provider string) (model, endpoint string) {
	switch provider {
	case "openai":
		return config.DefaultOpenAIModel, config.DefaultOpenAIEndpoint
	case "anthropic":
		return config.DefaultAnthropicModel, config.DefaultAnthropicURL
	case "google":
		return config.DefaultGoogleModel, config.DefaultGoogleEndpoint
	case "ollama":
		return config.DefaultOllamaModel, config.DefaultOllamaEndpoint
	default:
		return "", ""
	}
}

// requiresAPIKey reports whether the wizard must ask for a key. Custom
// endpoints take an optional one.
func requiresAPIKey(provider string) bool {
	switch provider {
	case "openai", "anthropic", "google":
		return true
	default:
		return false
	}
}

func validateAPIKey(s string) error {
	if len(strings.TrimSpace(s)) < 5 {
		return errors.New("api key too short")
	}
	return nil
}

func validateEndpoint(required bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			if required {
				return errors.New("endpoint cannot be empty")
			}
			return nil
		}
		if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
			return errors.New("endpoint must start with http:// or https://")
		}
		return nil
	}
}

// settings returns the config keys to write, in order.
func (a setupAnswers) settings() [][2]string {
	out := [][2]string{{"provider", a.Provider}}
	if a.APIKey != "" || a.Provider == "ollama" {
		out = append(out, [2]string{a.Provider + ".api_key", strings.TrimSpace(a.APIKey)})
	}
	if a.Model != "" {
		out = append(out, [2]string{a.Provider + ".model", strings.TrimSpace(a.Model)})
	}
	if a.Endpoint != "" {
		out = append(out, [2]string{a.Provider + ".endpoint", strings.TrimSpace(a.Endpoint)})
	}
	return out
}

// saveSetup writes the answers and acknowledges the first-use notice, since
// the user has just chosen where their diffs go.
func saveSetup(cfgMgr *config.ViperManager, a setupAnswers) error {
	for _, kv := range a.settings() {
		if err := cfgMgr.Set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to set %s: %w", kv[0], err)
		}
	}
	return cfgMgr.AcknowledgeSecurityWarning()
}

// RunInteractiveSetup runs the first-run wizard and saves its answers.
func RunInteractiveSetup(cfgMgr *config.ViperManager, out io.Writer) error {
	fmt.Fprintln(out, "No configuration found. Let's set up gitmsg!")
	fmt.Fprintln(out)

	// The directory may already exist.
	_ = cfgMgr.Init()

	var a setupAnswers

	err := huh.NewSelect[string]().
		Title("Select AI Provider").
		Options(setupProviders...).
		Value(&a.Provider).
		Run()
	if err != nil {
		return err
	}

	a.Model, a.Endpoint = providerDefaults(a.Provider)

	fields := []huh.Field{}

	if a.Provider != "ollama" {
		key := huh.NewInput().
			Title("API Key").
			Value(&a.APIKey).
			Password(true)
		if requiresAPIKey(a.Provider) {
			key = key.Description("Enter your API key").Validate(validateAPIKey)
		} else {
			key = key.Description("Optional bearer token")
		}
		fields = append(fields, key)
	}

	fields = append(fields,
		huh.NewInput().
			Title("Model Name").
			Description("Model to use").
			Value(&a.Model).
			Validate(func(s string) error {
				if a.Provider != "custom" && strings.TrimSpace(s) == "" {
					return errors.New("model name cannot be empty")
				}
				return nil
			}),
		huh.NewInput().
			Title("API Endpoint").
			Description("Base URL of the provider API").
			Value(&a.Endpoint).
			Validate(validateEndpoint(a.Provider == "custom" || a.Provider == "ollama")),
	)

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return err
	}

	if err := saveSetup(cfgMgr, a); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nConfiguration saved to %s\n", cfgMgr.GetConfigPath())
	fmt.Fprintln(out, "Setup complete! You can now use gitmsg.")
	fmt.Fprintln(out)
	return nil
}
