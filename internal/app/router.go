package app

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
	"github.com/gitsage/gitmsg/internal/pkg/host"
)

// Messages shown after each action succeeds.
const (
	MsgApplied       = "Commit message applied!"
	MsgCommandSent   = "Commit command sent to terminal!"
	MsgCopied        = "Commit message copied to clipboard!"
	MsgEditedApplied = "Edited commit message applied!"
)

// CommitTerminalName is the name of the terminal that runs git commit.
const CommitTerminalName = "Git Commit"

// Router performs the action the user picked for a generated message.
type Router struct {
	ui        host.UI
	clipboard host.Clipboard
}

// NewRouter creates a Router.
func NewRouter(ui host.UI, clipboard host.Clipboard) *Router {
	return &Router{ui: ui, clipboard: clipboard}
}

// Route applies action to message in repo.
func (r *Router) Route(ctx context.Context, repo host.Repository, message string, action host.Action) error {
	apperrors.LogAction(action.String(), len(message))

	switch action {
	case host.ActionUse:
		if err := repo.InputBox().SetValue(message); err != nil {
			return apperrors.NewHostActionError("applying commit message", err)
		}
		r.ui.Info(MsgApplied)

	case host.ActionCommit:
		term, err := r.ui.CreateTerminal(CommitTerminalName, repo.Root())
		if err != nil {
			return err
		}
		term.Show()
		if err := term.SendText(CommitCommand(message)); err != nil {
			return err
		}
		r.ui.Info(MsgCommandSent)

	case host.ActionCopy:
		if err := r.clipboard.WriteText(message); err != nil {
			return err
		}
		r.ui.Info(MsgCopied)

	case host.ActionEdit:
		edited, ok, err := r.ui.PromptInput(ctx, host.InputOptions{
			Value:       message,
			Prompt:      "Edit commit message",
			Placeholder: "Enter your commit message",
		})
		if err != nil {
			return err
		}
		if !ok || edited == "" {
			apperrors.Debug("edit cancelled, commit input left unchanged")
			return nil
		}
		if err := repo.InputBox().SetValue(edited); err != nil {
			return apperrors.NewHostActionError("applying edited commit message", err)
		}
		r.ui.Info(MsgEditedApplied)

	default:
		return apperrors.New(apperrors.ErrInvalidArguments, fmt.Sprintf("unknown action: %s", action))
	}

	return nil
}

// CommitCommand builds the git commit command line for message. Only double
// quotes are escaped: backticks, $ and backslashes reach the shell as typed.
func CommitCommand(message string) string {
	return `git commit -m "` + strings.ReplaceAll(message, `"`, `\"`) + `"`
}
