package git

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
)

// FileInputBox stores the pending commit message in a file, in the format
// git uses for COMMIT_EDITMSG: message text first, then '#' comment lines.
type FileInputBox struct {
	path string
}

// NewFileInputBox creates an input box backed by path.
func NewFileInputBox(path string) *FileInputBox {
	return &FileInputBox{path: path}
}

// Path returns the backing file.
func (b *FileInputBox) Path() string {
	return b.path
}

// Value returns the message with comment lines removed. A missing file is
// an empty value.
func (b *FileInputBox) Value() (string, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to read commit input")
	}

	message, _ := splitComments(string(data))
	return strings.TrimSpace(message), nil
}

// SetValue replaces the message and keeps any comment lines already in the
// file, which is what a prepare-commit-msg hook expects.
func (b *FileInputBox) SetValue(value string) error {
	var comments string
	if data, err := os.ReadFile(b.path); err == nil {
		_, comments = splitComments(string(data))
	}

	content := strings.TrimRight(value, "\n") + "\n"
	if comments != "" {
		content += "\n" + comments
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to create commit input directory")
	}
	if err := os.WriteFile(b.path, []byte(content), 0644); err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to write commit input")
	}
	return nil
}

// splitComments separates non-comment lines from '#' comment lines.
func splitComments(content string) (message, comments string) {
	var msg, cmt []string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "#") {
			cmt = append(cmt, line)
			continue
		}
		msg = append(msg, line)
	}
	message = strings.Join(msg, "\n")
	if len(cmt) > 0 {
		comments = strings.Join(cmt, "\n") + "\n"
	}
	return message, comments
}
