// Package app wires the generate command: read the staged diff, ask the
// configured provider for a message, let the user pick what to do with it.
package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gitsage/gitmsg/internal/pkg/ai"
	"github.com/gitsage/gitmsg/internal/pkg/cache"
	"github.com/gitsage/gitmsg/internal/pkg/config"
	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
	"github.com/gitsage/gitmsg/internal/pkg/history"
	"github.com/gitsage/gitmsg/internal/pkg/host"
	"github.com/gitsage/gitmsg/internal/pkg/message"
)

// User-facing text of the generate command.
const (
	MsgNoStagedChanges = "No staged changes found. Please stage your changes first."
	ProgressTitle      = "Generating commit message..."
	PlaceholderPrefix  = "Generated: "
)

// DispatchFunc sends a prompt to the provider identified by providerID.
type DispatchFunc func(ctx context.Context, prompt, providerID string, providers config.Providers) (string, error)

// DefaultDispatch dispatches through ai.Dispatch.
func DefaultDispatch(opts ...ai.Option) DispatchFunc {
	return func(ctx context.Context, prompt, providerID string, providers config.Providers) (string, error) {
		return ai.Dispatch(ctx, prompt, providerID, providers, opts...)
	}
}

// GenerateOptions tune a single run.
type GenerateOptions struct {
	// NoCache bypasses the response cache.
	NoCache bool
	// DryRun writes the message to Out and skips the picker.
	DryRun bool
	Out    io.Writer
}

// GenerateService runs the generate command.
type GenerateService struct {
	cfg      *config.Config
	vcs      host.VCS
	ui       host.UI
	router   *Router
	dispatch DispatchFunc
	cache    cache.Manager
	history  history.Manager
	opts     GenerateOptions
	inFlight atomic.Bool
}

// NewGenerateService creates a GenerateService. cacheMgr and historyMgr may
// be nil to disable caching and history.
func NewGenerateService(
	cfg *config.Config,
	vcs host.VCS,
	ui host.UI,
	clipboard host.Clipboard,
	dispatch DispatchFunc,
	cacheMgr cache.Manager,
	historyMgr history.Manager,
	opts GenerateOptions,
) *GenerateService {
	if dispatch == nil {
		dispatch = DefaultDispatch()
	}
	return &GenerateService{
		cfg:      cfg,
		vcs:      vcs,
		ui:       ui,
		router:   NewRouter(ui, clipboard),
		dispatch: dispatch,
		cache:    cacheMgr,
		history:  historyMgr,
		opts:     opts,
	}
}

// Run generates a message for the staged changes and routes the user's
// choice. Errors are shown once through the UI and returned.
func (s *GenerateService) Run(ctx context.Context) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		err := apperrors.NewInvocationInFlightError()
		s.ui.Error("Error: " + err.Error())
		return err
	}
	defer s.inFlight.Store(false)

	if err := s.run(ctx); err != nil {
		s.ui.Error("Error: " + apperrors.SanitizeErrorMessage(err.Error()))
		return err
	}
	return nil
}

func (s *GenerateService) run(ctx context.Context) error {
	repo, err := s.vcs.FirstRepository(ctx)
	if err != nil {
		return err
	}

	diff, err := repo.Diff(ctx, true)
	if err != nil {
		return err
	}
	if strings.TrimSpace(diff) == "" {
		s.ui.Warn(MsgNoStagedChanges)
		return nil
	}

	var (
		msg    string
		cached bool
	)
	err = s.ui.WithProgress(ctx, ProgressTitle, func(ctx context.Context) error {
		var genErr error
		msg, cached, genErr = s.generate(ctx, diff)
		return genErr
	})
	if err != nil {
		return err
	}

	warnings := message.Check(msg, s.cfg.Commit.Style)
	for _, w := range warnings {
		apperrors.Debug("generated message: %s", w)
	}

	if s.opts.DryRun {
		if s.opts.Out != nil {
			fmt.Fprintln(s.opts.Out, msg)
		}
		return nil
	}

	action, ok, err := s.ui.PickAction(ctx, PlaceholderPrefix+msg, host.DefaultActionItems())
	if err != nil {
		return err
	}
	if !ok {
		apperrors.Debug("action picker dismissed")
		return nil
	}

	if err := s.router.Route(ctx, repo, msg, action); err != nil {
		return err
	}

	s.record(repo, diff, msg, action, cached, warnings)
	return nil
}

// generate builds the prompt and dispatches it, consulting the cache first
// when one is configured.
func (s *GenerateService) generate(ctx context.Context, diff string) (string, bool, error) {
	style := ai.Style(s.cfg.Commit.Style)
	prompt := ai.BuildPrompt(diff, style)
	providers := s.cfg.Providers()

	var key string
	if s.cache != nil && !s.opts.NoCache {
		key = cache.GenerateCacheKey(prompt, s.cfg.Provider, s.model())
		if msg, ok := s.cache.Get(key); ok {
			apperrors.Debug("cache hit for %s", s.cfg.Provider)
			return msg, true, nil
		}
	}

	start := time.Now()
	msg, err := s.dispatch(ctx, prompt, s.cfg.Provider, providers)
	if err != nil {
		return "", false, err
	}
	apperrors.Debug("generated %d characters with %s in %s", len(msg), s.cfg.Provider, time.Since(start))

	if key != "" {
		if err := s.cache.Set(key, msg); err != nil {
			apperrors.Warn("failed to cache response: %v", err)
		}
	}
	return msg, false, nil
}

// model returns the model configured for the active provider, or "" when
// the provider is unknown.
func (s *GenerateService) model() string {
	kind, err := ai.ParseProviderKind(s.cfg.Provider)
	if err != nil {
		return ""
	}
	return ai.SettingsFor(kind, s.cfg.Providers()).Model
}

func (s *GenerateService) record(repo host.Repository, diff, msg string, action host.Action, cached bool, warnings []string) {
	if s.history == nil {
		return
	}
	entry := &history.Entry{
		Message:    msg,
		Provider:   s.cfg.Provider,
		Model:      s.model(),
		Style:      s.cfg.Commit.Style,
		Action:     action.String(),
		Repository: repo.Root(),
		DiffChars:  len([]rune(ai.TruncateDiff(diff))),
		Cached:     cached,
		Warnings:   warnings,
	}
	if err := s.history.Save(entry); err != nil {
		apperrors.Warn("failed to save history: %v", err)
	}
}
