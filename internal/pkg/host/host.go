// Package host declares the capabilities gitmsg consumes from its
// surroundings: the repository, the user interface, a terminal and the
// clipboard. The core packages depend only on these interfaces.
package host

import (
	"context"
	"fmt"
	"strings"
)

// VCS gives access to the version-control repositories known to the host.
type VCS interface {
	// FirstRepository returns the first known repository.
	FirstRepository(ctx context.Context) (Repository, error)
}

// Repository is a single working tree.
type Repository interface {
	Root() string
	// Diff returns the textual diff of the staged (or unstaged) changes.
	Diff(ctx context.Context, staged bool) (string, error)
	// InputBox is the field holding the pending commit message.
	InputBox() InputBox
}

// InputBox is the editable field holding the pending commit message.
type InputBox interface {
	Value() (string, error)
	SetValue(value string) error
}

// UI is the interactive surface: picker, text input, toasts and progress.
type UI interface {
	// PickAction shows items and returns the chosen action. ok is false
	// when the user dismissed the picker.
	PickAction(ctx context.Context, placeholder string, items []ActionItem) (action Action, ok bool, err error)
	// PromptInput asks for a single line of text. ok is false when the user
	// cancelled.
	PromptInput(ctx context.Context, opts InputOptions) (value string, ok bool, err error)
	Info(message string)
	Warn(message string)
	Error(message string)
	// WithProgress runs fn while a progress indicator titled title is shown.
	WithProgress(ctx context.Context, title string, fn func(context.Context) error) error
	// CreateTerminal opens a terminal session named name rooted at dir.
	CreateTerminal(name, dir string) (Terminal, error)
}

// Terminal is a shell session that accepts command lines.
type Terminal interface {
	Show()
	SendText(command string) error
}

// Clipboard is the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// InputOptions configures UI.PromptInput.
type InputOptions struct {
	Value       string
	Prompt      string
	Placeholder string
}

// Action is what the user chose to do with a generated message.
type Action int

const (
	ActionUse Action = iota
	ActionCommit
	ActionCopy
	ActionEdit
)

// Actions lists every action in picker order.
var Actions = []Action{ActionUse, ActionCommit, ActionCopy, ActionEdit}

// String returns the action tag.
func (a Action) String() string {
	switch a {
	case ActionUse:
		return "use"
	case ActionCommit:
		return "commit"
	case ActionCopy:
		return "copy"
	case ActionEdit:
		return "edit"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ParseAction maps a tag such as "copy" to its Action.
func ParseAction(tag string) (Action, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, a := range Actions {
		if a.String() == tag {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q (want use, commit, copy or edit)", tag)
}

// ActionItem is one entry of the action picker.
type ActionItem struct {
	Action      Action
	Label       string
	Description string
}

// DefaultActionItems returns the four picker entries.
func DefaultActionItems() []ActionItem {
	return []ActionItem{
		{Action: ActionUse, Label: "✓ Use this message", Description: "Apply to git commit input"},
		{Action: ActionCommit, Label: "▶ Commit and Run", Description: "Execute git commit in terminal"},
		{Action: ActionCopy, Label: "⧉ Copy to Clipboard", Description: "Copy message to clipboard"},
		{Action: ActionEdit, Label: "✎ Edit Message", Description: "Modify before using"},
	}
}
