package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitsage/gitmsg/internal/pkg/history"
)

const (
	// DefaultHistoryLimit is the default number of history entries to display.
	DefaultHistoryLimit = 20
)

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "View generated message history",
		Long: `View the history of generated commit messages and the action taken on each.

By default, displays the most recent 20 entries. Use --limit to change the number of entries shown.

Examples:
  gitmsg history           # Show last 20 entries
  gitmsg history --limit 5 # Show last 5 entries
  gitmsg history clear     # Clear all history`,
		Args: cobra.NoArgs,
		RunE: runHistoryList,
	}

	historyCmd.Flags().IntP("limit", "l", DefaultHistoryLimit, "Number of entries to display")

	historyCmd.AddCommand(newHistoryClearCmd())

	return historyCmd
}

// runHistoryList displays the history entries.
func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	out := cmd.OutOrStdout()

	cfgMgr, err := newConfigManager(cmd)
	if err != nil {
		return err
	}
	cfg, err := cfgMgr.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.History.Enabled {
		fmt.Fprintln(out, "History is disabled. Enable it with: gitmsg config set history.enabled true")
		return nil
	}

	historyMgr := history.NewFileManager(cfg.History.FilePath, cfg.History.MaxEntries)

	entries, err := historyMgr.List(limit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No history entries found.")
		return nil
	}

	fmt.Fprintf(out, "Showing %d most recent entries:\n\n", len(entries))

	// Most recent first
	for i := len(entries) - 1; i >= 0; i-- {
		printHistoryEntry(out, entries[i], len(entries)-i)
	}

	return nil
}

// printHistoryEntry formats and prints a single history entry.
func printHistoryEntry(w io.Writer, entry *history.Entry, index int) {
	timestamp := entry.Timestamp.Format(time.RFC3339)

	action := entry.Action
	if entry.Cached {
		action += ", cached"
	}
	fmt.Fprintf(w, "[%d] %s (%s)\n", index, timestamp, action)

	if entry.Provider != "" || entry.Model != "" {
		fmt.Fprintf(w, "    Provider: %s", entry.Provider)
		if entry.Model != "" {
			fmt.Fprintf(w, " (%s)", entry.Model)
		}
		fmt.Fprintln(w)
	}
	if entry.Style != "" {
		fmt.Fprintf(w, "    Style: %s\n", entry.Style)
	}
	if entry.Repository != "" {
		fmt.Fprintf(w, "    Repository: %s\n", entry.Repository)
	}

	for _, warning := range entry.Warnings {
		fmt.Fprintf(w, "    Warning: %s\n", warning)
	}

	fmt.Fprintln(w, "    Message:")
	for _, line := range strings.Split(entry.Message, "\n") {
		fmt.Fprintf(w, "      %s\n", line)
	}

	fmt.Fprintln(w)
}

// newHistoryClearCmd creates the 'history clear' subcommand.
func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all history entries",
		Long: `Delete all entries from the history file.

This action cannot be undone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgMgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}
			cfg, err := cfgMgr.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			historyMgr := history.NewFileManager(cfg.History.FilePath, cfg.History.MaxEntries)
			if err := historyMgr.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "History cleared successfully.")
			return nil
		},
	}
}
