package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gitsage/gitmsg/internal/pkg/host"
	"github.com/gitsage/gitmsg/internal/pkg/terminal"
)

// NonInteractiveUI implements host.UI without prompting. The picker always
// returns Action, and input prompts accept their pre-filled value. It is
// used with --action and in scripts.
type NonInteractiveUI struct {
	Action host.Action
	Out    io.Writer
	styles *styles
}

var _ host.UI = (*NonInteractiveUI)(nil)

// NewNonInteractiveUI creates a NonInteractiveUI writing to stderr.
func NewNonInteractiveUI(action host.Action, colorEnabled bool) *NonInteractiveUI {
	return &NonInteractiveUI{
		Action: action,
		Out:    os.Stderr,
		styles: newStyles(colorEnabled),
	}
}

// PickAction prints placeholder and returns the preset action.
func (u *NonInteractiveUI) PickAction(ctx context.Context, placeholder string, items []host.ActionItem) (host.Action, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	fmt.Fprintln(u.Out, u.styles.title.Render(placeholder))
	for _, item := range items {
		if item.Action == u.Action {
			return u.Action, true, nil
		}
	}
	return 0, false, nil
}

// PromptInput accepts opts.Value unchanged.
func (u *NonInteractiveUI) PromptInput(ctx context.Context, opts host.InputOptions) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	return opts.Value, true, nil
}

func (u *NonInteractiveUI) Info(message string) {
	fmt.Fprintln(u.Out, u.styles.success.Render("✓ "+message))
}

func (u *NonInteractiveUI) Warn(message string) {
	fmt.Fprintln(u.Out, u.styles.warning.Render("⚠ "+message))
}

func (u *NonInteractiveUI) Error(message string) {
	fmt.Fprintln(u.Out, u.styles.errorStyle.Render("✗ "+message))
}

// WithProgress prints title and runs fn.
func (u *NonInteractiveUI) WithProgress(ctx context.Context, title string, fn func(context.Context) error) error {
	fmt.Fprintln(u.Out, u.styles.description.Render(title))
	return fn(ctx)
}

// CreateTerminal opens a shell session on the process's streams.
func (u *NonInteractiveUI) CreateTerminal(name, dir string) (host.Terminal, error) {
	t := terminal.New(name, dir)
	t.OnExit = func(command string, status uint8) {
		u.Error(fmt.Sprintf("%s exited with status %d", name, status))
	}
	return t, nil
}
