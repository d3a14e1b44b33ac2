// Package git exposes the working tree gitmsg runs in as a host.VCS.
package git

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
	"github.com/gitsage/gitmsg/internal/pkg/host"
)

const (
	// GitCommandTimeout is the default timeout for git commands.
	GitCommandTimeout = 10 * time.Second

	// DefaultInputFileName is the commit-input file created inside the git
	// directory when no other file is configured.
	DefaultInputFileName = "GITMSG_EDITMSG"
)

// DefaultClient implements host.VCS by running the git binary.
type DefaultClient struct {
	// workDir is the working directory for git commands.
	// If empty, uses the current directory.
	workDir string
	// inputFile overrides the commit-input file. Relative paths are
	// resolved against the repository root.
	inputFile string
}

// NewClient creates a new DefaultClient.
func NewClient() *DefaultClient {
	return &DefaultClient{}
}

// NewClientWithWorkDir creates a new DefaultClient with a specific working directory.
func NewClientWithWorkDir(workDir string) *DefaultClient {
	return &DefaultClient{workDir: workDir}
}

// WithInputFile sets the file used as the commit-input field.
func (c *DefaultClient) WithInputFile(path string) *DefaultClient {
	c.inputFile = path
	return c
}

// run executes git with args in dir and returns its stdout.
func run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, GitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewTimeoutError(ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, apperrors.NewGitError(err, strings.TrimSpace(string(exitErr.Stderr))).
				WithContext("command", "git "+strings.Join(args, " "))
		}
		return nil, apperrors.NewGitError(err, "")
	}
	return output, nil
}

// FirstRepository returns the repository enclosing the working directory.
// A terminal session only ever knows one repository.
func (c *DefaultClient) FirstRepository(ctx context.Context) (host.Repository, error) {
	out, err := run(ctx, c.workDir, "rev-parse", "--show-toplevel", "--absolute-git-dir")
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrTimeout) {
			return nil, err
		}
		return nil, apperrors.NewNoRepositoryError(err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 2 {
		// Bare repositories have a git dir but no work tree.
		return nil, apperrors.NewNoRepositoryError(errors.New("repository has no working tree"))
	}
	root := filepath.Clean(strings.TrimSpace(lines[0]))
	gitDir := filepath.Clean(strings.TrimSpace(lines[1]))

	inputPath := filepath.Join(gitDir, DefaultInputFileName)
	if c.inputFile != "" {
		inputPath = c.inputFile
		if !filepath.IsAbs(inputPath) {
			inputPath = filepath.Join(root, inputPath)
		}
	}

	return &Repository{
		root:   root,
		gitDir: gitDir,
		input:  NewFileInputBox(inputPath),
	}, nil
}

// Repository implements host.Repository for a local working tree.
type Repository struct {
	root   string
	gitDir string
	input  *FileInputBox
}

// Root returns the top-level directory of the working tree.
func (r *Repository) Root() string {
	return r.root
}

// GitDir returns the absolute path of the .git directory.
func (r *Repository) GitDir() string {
	return r.gitDir
}

// Diff returns `git diff --cached` when staged is true and `git diff`
// otherwise. Color and external diff drivers are disabled so the text is
// what a provider should see.
func (r *Repository) Diff(ctx context.Context, staged bool) (string, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff"}
	if staged {
		args = append(args, "--cached")
	}

	out, err := run(ctx, r.root, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// InputBox returns the commit-input file of the repository.
func (r *Repository) InputBox() host.InputBox {
	return r.input
}
