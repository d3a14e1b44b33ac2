package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileInputBox_MissingFileIsEmpty(t *testing.T) {
	box := NewFileInputBox(filepath.Join(t.TempDir(), "none"))

	v, err := box.Value()
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestFileInputBox_SetValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "MSG")
	box := NewFileInputBox(path)

	require.NoError(t, box.SetValue("feat: add x\n\nbody"))

	v, err := box.Value()
	require.NoError(t, err)
	assert.Equal(t, "feat: add x\n\nbody", v)

	require.NoError(t, box.SetValue("fix: replace"))
	v, err = box.Value()
	require.NoError(t, err)
	assert.Equal(t, "fix: replace", v)
}

func TestFileInputBox_KeepsHookComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "COMMIT_EDITMSG")
	template := "\n# Please enter the commit message for your changes.\n# On branch main\n"
	require.NoError(t, os.WriteFile(path, []byte(template), 0644))

	box := NewFileInputBox(path)
	require.NoError(t, box.SetValue("docs: explain flags"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"docs: explain flags\n\n# Please enter the commit message for your changes.\n# On branch main\n",
		string(data))

	v, err := box.Value()
	require.NoError(t, err)
	assert.Equal(t, "docs: explain flags", v)
}
