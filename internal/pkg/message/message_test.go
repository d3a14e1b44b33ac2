package message

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSubject(t *testing.T) {
	tests := []struct {
		line string
		ok   bool
		want Subject
	}{
		{"feat: add login", true, Subject{Type: "feat", Text: "add login"}},
		{"fix(api): handle nil", true, Subject{Type: "fix", Scope: "api", Text: "handle nil"}},
		{"refactor(core)!: drop v1", true, Subject{Type: "refactor", Scope: "core", Breaking: true, Text: "drop v1"}},
		{"  docs:readme  ", true, Subject{Type: "docs", Text: "readme"}},
		{"Add login page", false, Subject{Text: "Add login page"}},
		{"Feat: capitalised", false, Subject{Text: "Feat: capitalised"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseSubject(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValidCommitType(t *testing.T) {
	for _, ct := range ValidCommitTypes {
		assert.True(t, IsValidCommitType(ct), ct)
	}
	assert.False(t, IsValidCommitType("feature"))
	assert.False(t, IsValidCommitType(""))
}

func TestCheck(t *testing.T) {
	long := "feat: " + strings.Repeat("x", MaxSubjectLength)

	tests := []struct {
		name  string
		msg   string
		style string
		want  []string
	}{
		{"conventional ok", "feat(ui): add picker", "conventional", nil},
		{"conventional plain text", "Add picker", "conventional", []string{"subject is not in <type>: <description> form"}},
		{"conventional bad type", "feature: add picker", "conventional", []string{"invalid commit type: feature (valid types: feat, fix, docs, style, refactor, test, chore, perf, ci, build, revert)"}},
		{"conventional empty subject", "fix:", "conventional", []string{"missing commit subject"}},
		{"conventional long", long, "conventional", []string{"subject line exceeds 72 characters (78 chars)"}},
		{"simple ok", "Add picker to the CLI", "simple", nil},
		{"simple multi-line", "Add picker\n\nMore", "simple", []string{"expected one line, got 3"}},
		{"detailed ok", "Add picker\n\n- bubbletea model\n- quick select keys", "detailed", nil},
		{"detailed star bullets", "Add picker\n* one", "detailed", nil},
		{"detailed no bullets", "Add picker\n\nSome prose.", "detailed", []string{"no bullet points after the summary line"}},
		{"unknown style", "anything at all", "haiku", nil},
		{"empty", "   ", "simple", []string{"message is empty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.msg, tt.style))
		})
	}
}
