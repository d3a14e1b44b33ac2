package ai

import (
	"bytes"
	"text/template"

	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
)

// MaxDiffChars is the number of diff characters embedded in a prompt.
const MaxDiffChars = 3000

// Style selects the instruction line placed before the diff.
type Style string

// Supported styles.
const (
	StyleConventional Style = "conventional"
	StyleSimple       Style = "simple"
	StyleDetailed     Style = "detailed"
)

// Styles lists the recognised styles in display order.
var Styles = []Style{StyleConventional, StyleSimple, StyleDetailed}

var styleInstructions = map[Style]string{
	StyleConventional: "Use Conventional Commits format (e.g., feat:, fix:, docs:, style:, refactor:, test:, chore:). Keep it concise and under 72 characters.",
	StyleSimple:       "Write a simple, clear one-line description of the changes.",
	StyleDetailed:     "Write a detailed commit message with a summary line followed by bullet points of key changes.",
}

// Instruction returns the instruction text for the style, or "" when the
// style is not recognised.
func (s Style) Instruction() string {
	return styleInstructions[s]
}

// Valid reports whether s is one of the recognised styles.
func (s Style) Valid() bool {
	_, ok := styleInstructions[s]
	return ok
}

const promptText = `You are a helpful assistant that generates git commit messages based on code changes.

{{.Instruction}}

Analyze these git diff changes and generate an appropriate commit message:

` + "```diff\n{{.Diff}}\n```" + `

Respond with ONLY the commit message, no explanations or additional text.`

var promptTemplate = template.Must(template.New("prompt").Parse(promptText))

type promptData struct {
	Instruction string
	Diff        string
}

// BuildPrompt renders the instruction prompt for diff in the given style.
// Only the first MaxDiffChars characters of diff are embedded.
func BuildPrompt(diff string, style Style) string {
	if !style.Valid() {
		apperrors.Debug("Unrecognised commit style %q, prompt carries no style instruction", string(style))
	}

	var buf bytes.Buffer
	// The template has no fallible actions for string fields.
	_ = promptTemplate.Execute(&buf, promptData{
		Instruction: style.Instruction(),
		Diff:        TruncateDiff(diff),
	})
	return buf.String()
}

// TruncateDiff returns the first MaxDiffChars characters of diff. Characters
// are counted as Unicode code points.
func TruncateDiff(diff string) string {
	if len(diff) <= MaxDiffChars {
		return diff
	}
	n := 0
	for i := range diff {
		if n == MaxDiffChars {
			return diff[:i]
		}
		n++
	}
	return diff
}
