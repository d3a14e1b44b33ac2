package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gitsage/gitmsg/internal/pkg/config"
	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
	"github.com/gitsage/gitmsg/internal/pkg/security"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gitmsg configuration",
		Long: `Manage gitmsg configuration settings.

Use subcommands to initialize, view, or modify configuration values.
Configuration is stored in ~/.gitmsg/config.yaml by default. Every key can
also be set through a GITMSG_ environment variable, for example
GITMSG_OPENAI_API_KEY or GITMSG_COMMIT_STYLE.`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigSetCmd())
	configCmd.AddCommand(newConfigGetCmd())
	configCmd.AddCommand(newConfigListCmd())

	return configCmd
}

func newConfigManager(cmd *cobra.Command) (*config.ViperManager, error) {
	configPath, _ := cmd.Flags().GetString("config")
	mgr, err := config.NewManager(configPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
	}
	return mgr, nil
}

// newConfigInitCmd creates the 'config init' subcommand.
func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long: `Create a new configuration file at ~/.gitmsg/config.yaml with default values.

The configuration file will be created with permissions 0600 (user read/write only)
for security, as it may contain API keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			if err := mgr.Init(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration file created at %s\n", mgr.GetConfigPath())
			fmt.Fprintln(out, "Edit this file to set your API key and customize settings.")
			return nil
		},
	}
}

// newConfigSetCmd creates the 'config set' subcommand.
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value by key.

Supports nested keys using dot notation.

Examples:
  gitmsg config set provider anthropic
  gitmsg config set anthropic.api_key sk-ant-xxx
  gitmsg config set commit.style detailed
  gitmsg config set ollama.endpoint http://localhost:11434
  gitmsg config set custom.endpoint https://llm.internal/generate`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			if err := mgr.Set(key, value); err != nil {
				return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to set "+key)
			}

			displayValue := value
			if security.IsSecretKey(key) {
				displayValue = security.MaskAPIKey(value)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, displayValue)
			return nil
		},
	}
}

// newConfigGetCmd creates the 'config get' subcommand.
func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Print the effective value of a configuration key, after defaults, the
config file and GITMSG_ environment variables are applied.

API keys are masked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			value, err := mgr.Get(args[0])
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrInvalidArguments, "unknown configuration key")
			}
			if security.IsSecretKey(args[0]) && value != "" {
				value = security.MaskAPIKey(value)
			}

			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

// newConfigListCmd creates the 'config list' subcommand.
func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `Display all current configuration values.

API keys are masked for security, showing only the last 4 characters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			printSettings(cmd.OutOrStdout(), "", security.MaskSettings(mgr.List()))
			return nil
		},
	}
}

// printSettings prints nested settings in sorted key order, indenting each level.
func printSettings(w io.Writer, indent string, settings map[string]interface{}) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch v := settings[key].(type) {
		case map[string]interface{}:
			fmt.Fprintf(w, "%s%s:\n", indent, key)
			printSettings(w, indent+"  ", v)
		default:
			fmt.Fprintf(w, "%s%s: %v\n", indent, key, v)
		}
	}
}
