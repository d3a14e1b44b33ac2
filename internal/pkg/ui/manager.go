package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
	"github.com/gitsage/gitmsg/internal/pkg/host"
	"github.com/gitsage/gitmsg/internal/pkg/terminal"
)

// TerminalUI implements host.UI on an interactive terminal. Prompts and
// notices go to Out (stderr by default) so stdout stays free for the
// terminal sessions it opens.
type TerminalUI struct {
	In     io.Reader
	Out    io.Writer
	styles *styles
}

var _ host.UI = (*TerminalUI)(nil)

// NewTerminalUI creates a TerminalUI on the process's stdin and stderr.
func NewTerminalUI(colorEnabled bool) *TerminalUI {
	return &TerminalUI{
		In:     os.Stdin,
		Out:    os.Stderr,
		styles: newStyles(colorEnabled),
	}
}

// PickAction shows the action picker and blocks until the user chooses or
// dismisses it.
func (u *TerminalUI) PickAction(ctx context.Context, placeholder string, items []host.ActionItem) (host.Action, bool, error) {
	p := tea.NewProgram(
		newActionSelectModel(placeholder, items, u.styles),
		tea.WithContext(ctx),
		tea.WithInput(u.In),
		tea.WithOutput(u.Out),
	)

	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return 0, false, ctx.Err()
		}
		return 0, false, fmt.Errorf("action picker failed: %w", err)
	}

	m, ok := final.(actionSelectModel)
	if !ok || !m.chosen {
		return 0, false, nil
	}
	return m.selected, true, nil
}

// PromptInput asks for text pre-filled with opts.Value. Messages spanning
// several lines are edited in a multi-line field.
func (u *TerminalUI) PromptInput(ctx context.Context, opts host.InputOptions) (string, bool, error) {
	value := opts.Value

	var field huh.Field
	if strings.Contains(value, "\n") {
		field = huh.NewText().
			Title(opts.Prompt).
			Placeholder(opts.Placeholder).
			Value(&value)
	} else {
		field = huh.NewInput().
			Title(opts.Prompt).
			Placeholder(opts.Placeholder).
			Value(&value)
	}

	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(u.In).
		WithOutput(u.Out)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", false, nil
		}
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", false, fmt.Errorf("input prompt failed: %w", err)
	}
	return value, true, nil
}

// Info shows an informational notice.
func (u *TerminalUI) Info(message string) {
	fmt.Fprintln(u.Out, u.styles.success.Render("✓ "+message))
}

// Warn shows a warning notice.
func (u *TerminalUI) Warn(message string) {
	fmt.Fprintln(u.Out, u.styles.warning.Render("⚠ "+message))
}

// Error shows an error notice.
func (u *TerminalUI) Error(message string) {
	fmt.Fprintln(u.Out, u.styles.errorStyle.Render("✗ "+message))
}

// WithProgress shows a spinner titled title until fn returns.
func (u *TerminalUI) WithProgress(ctx context.Context, title string, fn func(context.Context) error) error {
	s := startSpinner(title, u.Out, u.styles)
	err := fn(ctx)
	s.Stop()
	return err
}

// CreateTerminal opens a shell session whose failures are reported as
// error notices.
func (u *TerminalUI) CreateTerminal(name, dir string) (host.Terminal, error) {
	if dir == "" {
		return nil, apperrors.NewHostActionError("creating terminal", errors.New("no working directory"))
	}

	t := terminal.New(name, dir)
	t.Header = func(name string) string {
		return u.styles.terminal.Render(name)
	}
	t.OnExit = func(command string, status uint8) {
		u.Error(fmt.Sprintf("%s exited with status %d", name, status))
	}
	return t, nil
}
