// Package main is the entry point for the gitmsg CLI application.
// gitmsg generates git commit messages from staged changes with a
// text-generation provider.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gitsage/gitmsg/internal/cmd"
	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := cmd.NewRootCmd(version, commit, date)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !cmd.AlreadyReported(err) {
			if apperrors.IsVerbose() {
				fmt.Fprintln(os.Stderr, apperrors.FormatErrorVerbose(err))
			} else {
				fmt.Fprintln(os.Stderr, apperrors.FormatError(err))
			}
		}
		os.Exit(apperrors.GetExitCode(err))
	}
}
