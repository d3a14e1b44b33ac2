package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/gitsage/gitmsg/internal/app"
	"github.com/gitsage/gitmsg/internal/pkg/ai"
	"github.com/gitsage/gitmsg/internal/pkg/cache"
	"github.com/gitsage/gitmsg/internal/pkg/config"
	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
	"github.com/gitsage/gitmsg/internal/pkg/git"
	"github.com/gitsage/gitmsg/internal/pkg/history"
	"github.com/gitsage/gitmsg/internal/pkg/host"
	"github.com/gitsage/gitmsg/internal/pkg/security"
	"github.com/gitsage/gitmsg/internal/pkg/ui"
)

// cacheFileName is the response cache file, next to the config file.
const cacheFileName = "cache.json"

// GenerateFlags holds the flags for the generate command.
type GenerateFlags struct {
	Action    string
	InputFile string
	DryRun    bool
	NoCache   bool
}

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	flags := &GenerateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a commit message for the staged changes",
		Long: `Generate a commit message from your staged changes and choose what to do
with it:

  use     write it to the commit-input file
  commit  run git commit -m "<message>" in the repository root
  copy    copy it to the clipboard
  edit    edit it, then write it to the commit-input file

The commit-input file defaults to .git/GITMSG_EDITMSG; use it with
'git commit -F .git/GITMSG_EDITMSG' or point --input-file elsewhere.

Examples:
  gitmsg generate                   # Interactive picker
  gitmsg generate --action copy     # Copy without prompting
  gitmsg generate --dry-run         # Print the message only
  gitmsg generate --style detailed  # Summary line plus bullet points`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags)
		},
	}

	addGenerateFlags(cmd, flags)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command, flags *GenerateFlags) {
	cmd.Flags().StringVarP(&flags.Action, "action", "a", "", "Apply an action without prompting (use, commit, copy, edit)")
	cmd.Flags().StringVar(&flags.InputFile, "input-file", "", "Commit-input file (default: <git dir>/GITMSG_EDITMSG)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Print the generated message and exit")
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "Bypass the response cache")
}

// runGenerate executes the generate command logic.
func runGenerate(cmd *cobra.Command, flags *GenerateFlags) error {
	ctx := cmd.Context()

	verbose, _ := cmd.Flags().GetBool("verbose")
	apperrors.SetVerbose(verbose)
	apperrors.SetOutput(cmd.ErrOrStderr())

	var (
		action      host.Action
		interactive = flags.Action == "" && !flags.DryRun
	)
	if flags.Action != "" {
		a, err := host.ParseAction(flags.Action)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrInvalidArguments, "invalid --action")
		}
		action = a
	}

	cfgMgr, cfg, err := loadConfig(cmd, interactive)
	if err != nil {
		return err
	}
	if flags.InputFile != "" {
		cfg.UI.InputFile = flags.InputFile
	}

	if err := confirmFirstUse(cmd.ErrOrStderr(), cfgMgr, cfg, interactive); err != nil {
		return err
	}

	if verbose {
		apperrors.Info("Using provider: %s", cfg.Provider)
		apperrors.Info("Using style: %s", cfg.Commit.Style)
		if kind, err := ai.ParseProviderKind(cfg.Provider); err == nil {
			settings := ai.SettingsFor(kind, cfg.Providers())
			apperrors.Info("Using model: %s", settings.Model)
			if settings.APIKey != "" {
				apperrors.Info("API key: %s", security.MaskAPIKey(settings.APIKey))
			}
		}
	}

	var surface host.UI
	if flags.Action != "" {
		surface = ui.NewNonInteractiveUI(action, cfg.UI.ColorEnabled)
	} else {
		surface = ui.NewTerminalUI(cfg.UI.ColorEnabled)
	}

	var cacheMgr cache.Manager
	if cfg.Cache.Enabled {
		path := filepath.Join(filepath.Dir(cfgMgr.GetConfigPath()), cacheFileName)
		rc, err := cache.NewResponseCache(path, time.Duration(cfg.Cache.TTLMinutes)*time.Minute)
		if err != nil {
			apperrors.Warn("Response cache disabled: %v", err)
		} else {
			cacheMgr = rc
		}
	}

	var historyMgr history.Manager
	if cfg.History.Enabled {
		historyMgr = history.NewFileManager(cfg.History.FilePath, cfg.History.MaxEntries)
	}

	svc := app.NewGenerateService(
		cfg,
		git.NewClient().WithInputFile(cfg.UI.InputFile),
		surface,
		ui.SystemClipboard{},
		app.DefaultDispatch(),
		cacheMgr,
		historyMgr,
		app.GenerateOptions{
			NoCache: flags.NoCache,
			DryRun:  flags.DryRun,
			Out:     cmd.OutOrStdout(),
		},
	)

	if err := svc.Run(ctx); err != nil {
		return &surfacedError{err: err}
	}
	return nil
}

// loadConfig loads configuration with the per-run flag overrides applied.
// Flags take priority over env, file and defaults, and are never persisted.
// When no config file exists and the run is interactive, the setup wizard
// runs first.
func loadConfig(cmd *cobra.Command, interactive bool) (*config.ViperManager, *config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		apperrors.Debug("Using custom config path: %s", configPath)
	}

	cfgMgr, err := config.NewManager(configPath)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
	}

	if !cfgMgr.ConfigExists() && interactive {
		if err := ui.RunInteractiveSetup(cfgMgr, cmd.ErrOrStderr()); err != nil {
			return nil, nil, fmt.Errorf("setup failed: %w", err)
		}
	}

	cfg, err := cfgMgr.Load()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to load config")
	}

	provider, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	style, _ := cmd.Flags().GetString("style")

	overrides := flagOverrides(cfg.Provider, provider, model, style)
	if len(overrides) == 0 {
		return cfgMgr, cfg, nil
	}
	for key, value := range overrides {
		cfgMgr.SetOverride(key, value)
		apperrors.Debug("%s overridden via flag: %s", key, value)
	}

	cfg, err = cfgMgr.Load()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to load config")
	}
	return cfgMgr, cfg, nil
}

// flagOverrides maps the --provider, --model and --style flags to config
// keys. --model applies to whichever provider is active for this run.
func flagOverrides(current, provider, model, style string) map[string]string {
	out := map[string]string{}
	if provider != "" {
		out["provider"] = provider
		current = provider
	}
	if model != "" {
		out[current+".model"] = model
	}
	if style != "" {
		out["commit.style"] = style
	}
	return out
}

// confirmFirstUse shows the data-sharing notice once, before the first run
// that sends the diff off this machine. A non-interactive run acknowledges
// the notice only into an existing config file; without one the notice is
// shown again next time.
func confirmFirstUse(w io.Writer, cfgMgr *config.ViperManager, cfg *config.Config, interactive bool) error {
	if cfg.Security.WarningAcknowledged {
		return nil
	}
	kind, err := ai.ParseProviderKind(cfg.Provider)
	if err != nil {
		// Dispatch reports the unknown provider.
		return nil
	}
	if !security.SendsDiffOffMachine(cfg.Provider, ai.SettingsFor(kind, cfg.Providers()).Endpoint) {
		return nil
	}

	fmt.Fprint(w, security.FirstUseWarning)

	if interactive {
		confirmed := false
		err := huh.NewConfirm().
			Title("Do you understand and wish to continue?").
			Affirmative("Yes").
			Negative("No").
			Value(&confirmed).
			Run()
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		if !confirmed {
			return apperrors.New(apperrors.ErrInvalidArguments, "security notice not acknowledged - operation cancelled")
		}
	} else {
		fmt.Fprintln(w, "Auto-acknowledging security notice (non-interactive run)")
		if !cfgMgr.ConfigExists() {
			fmt.Fprintln(w)
			return nil
		}
	}

	if err := cfgMgr.AcknowledgeSecurityWarning(); err != nil {
		apperrors.Warn("Failed to save security acknowledgment: %v", err)
	}

	fmt.Fprintln(w, security.FirstUseAcknowledgment)
	fmt.Fprintln(w)
	return nil
}
