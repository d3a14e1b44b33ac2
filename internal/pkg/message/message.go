// Package message checks a generated commit message against the commit
// style it was asked for. Findings are advisory: the message is never
// rewritten.
package message

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ValidCommitTypes contains all valid Conventional Commits types.
var ValidCommitTypes = []string{
	"feat", "fix", "docs", "style", "refactor",
	"test", "chore", "perf", "ci", "build", "revert",
}

// MaxSubjectLength is the recommended maximum length for commit subject lines.
const MaxSubjectLength = 72

// Format: <type>(<scope>)!: <subject> or <type>: <subject>
var conventionalSubjectRegex = regexp.MustCompile(`^([a-z]+)(\([^)]+\))?(!)?:\s*(.*)$`)

// Subject is the parsed first line of a commit message.
type Subject struct {
	Type     string
	Scope    string
	Breaking bool
	Text     string
}

// ParseSubject splits a Conventional Commits subject line. ok is false when
// line does not have the <type>: <subject> shape.
func ParseSubject(line string) (s Subject, ok bool) {
	m := conventionalSubjectRegex.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Subject{Text: strings.TrimSpace(line)}, false
	}
	return Subject{
		Type:     m[1],
		Scope:    strings.Trim(m[2], "()"),
		Breaking: m[3] == "!",
		Text:     strings.TrimSpace(m[4]),
	}, true
}

// IsValidCommitType checks if the given type is a valid Conventional Commits type.
func IsValidCommitType(commitType string) bool {
	return slices.Contains(ValidCommitTypes, commitType)
}

// Check returns the ways msg departs from style. Unknown styles are not
// checked.
func Check(msg, style string) []string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return []string{"message is empty"}
	}

	lines := strings.Split(msg, "\n")
	subject := strings.TrimSpace(lines[0])

	var findings []string
	switch style {
	case "conventional":
		s, ok := ParseSubject(subject)
		switch {
		case !ok:
			findings = append(findings, "subject is not in <type>: <description> form")
		case !IsValidCommitType(s.Type):
			findings = append(findings, fmt.Sprintf("invalid commit type: %s (valid types: %s)", s.Type, strings.Join(ValidCommitTypes, ", ")))
		case s.Text == "":
			findings = append(findings, "missing commit subject")
		}
		findings = append(findings, subjectLength(subject)...)

	case "simple":
		if len(lines) > 1 {
			findings = append(findings, fmt.Sprintf("expected one line, got %d", len(lines)))
		}
		findings = append(findings, subjectLength(subject)...)

	case "detailed":
		if !hasBullets(lines[1:]) {
			findings = append(findings, "no bullet points after the summary line")
		}
		findings = append(findings, subjectLength(subject)...)
	}
	return findings
}

func subjectLength(subject string) []string {
	if n := len([]rune(subject)); n > MaxSubjectLength {
		return []string{fmt.Sprintf("subject line exceeds %d characters (%d chars)", MaxSubjectLength, n)}
	}
	return nil
}

func hasBullets(lines []string) bool {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "• ") {
			return true
		}
	}
	return false
}
