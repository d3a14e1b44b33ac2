// Package terminal runs command lines sent to a host.Terminal through an
// in-process POSIX shell interpreter.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ShellTerminal implements host.Terminal. Each SendText call is parsed as a
// bash command line and run in Dir with the terminal's standard streams.
type ShellTerminal struct {
	Name   string
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Env    []string

	// OnExit is called when a command exits with a non-zero status. The
	// status is not returned from SendText: a terminal does not report it
	// back to whoever typed the command.
	OnExit func(command string, status uint8)
	// Header renders the banner printed by Show.
	Header func(name string) string
}

// New creates a terminal attached to the process's standard streams.
func New(name, dir string) *ShellTerminal {
	return &ShellTerminal{
		Name:   name,
		Dir:    dir,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Env:    os.Environ(),
	}
}

// Show prints the terminal banner.
func (t *ShellTerminal) Show() {
	header := "── " + t.Name + " ──"
	if t.Header != nil {
		header = t.Header(t.Name)
	}
	fmt.Fprintln(t.Stdout, header)
}

// SendText echoes command and runs it to completion. It is not tied to the
// invocation context: an interrupt does not abort a command already sent,
// the same as text typed into a terminal. Use Run to bound it with a context.
func (t *ShellTerminal) SendText(command string) error {
	return t.Run(context.Background(), command)
}

// Run parses and executes command, honouring ctx cancellation.
func (t *ShellTerminal) Run(ctx context.Context, command string) error {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	prog, err := parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return apperrors.NewHostActionError("parsing terminal command", err)
	}

	runner, err := interp.New(
		interp.Dir(t.Dir),
		interp.Env(expand.ListEnviron(t.Env...)),
		interp.StdIO(t.Stdin, t.Stdout, t.Stderr),
	)
	if err != nil {
		return apperrors.NewHostActionError("starting terminal", err)
	}

	fmt.Fprintf(t.Stdout, "$ %s\n", command)

	err = runner.Run(ctx, prog)
	if err == nil {
		return nil
	}

	var status interp.ExitStatus
	if errors.As(err, &status) {
		apperrors.Debug("Terminal %q: command exited with status %d", t.Name, uint8(status))
		if t.OnExit != nil {
			t.OnExit(command, uint8(status))
		}
		return nil
	}
	return apperrors.NewHostActionError("running terminal command", err)
}
