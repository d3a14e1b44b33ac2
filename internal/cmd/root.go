// Package cmd contains the CLI command definitions for gitmsg.
package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the gitmsg CLI.
func NewRootCmd(version, commitHash, date string) *cobra.Command {
	flags := &GenerateFlags{}

	rootCmd := &cobra.Command{
		Use:   "gitmsg",
		Short: "AI-powered git commit message generator",
		Long: `gitmsg generates a git commit message from your staged changes.

It sends the staged diff to the configured text-generation provider
(OpenAI, Anthropic, Google Gemini, Ollama or a custom HTTP endpoint) and
lets you use, commit, copy or edit the result.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Default action is generate
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags)
		},
	}

	rootCmd.SetVersionTemplate(`gitmsg {{.Version}}
Commit: ` + commitHash + `
Built:  ` + date + "\n")

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.gitmsg/config.yaml)")
	rootCmd.PersistentFlags().String("provider", "", "Provider to use (openai, anthropic, google, ollama, custom)")
	rootCmd.PersistentFlags().String("model", "", "Model to use for this run")
	rootCmd.PersistentFlags().String("style", "", "Commit style (conventional, simple, detailed)")

	addGenerateFlags(rootCmd, flags)

	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewHistoryCmd())

	return rootCmd
}

// surfacedError marks an error the UI has already shown to the user.
type surfacedError struct {
	err error
}

func (e *surfacedError) Error() string { return e.err.Error() }
func (e *surfacedError) Unwrap() error { return e.err }

// AlreadyReported reports whether err has been shown to the user by the
// command that returned it.
func AlreadyReported(err error) bool {
	var s *surfacedError
	return errors.As(err, &s)
}
