package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gitsage/gitmsg/internal/pkg/host"
)

// actionSelectModel is the Bubble Tea model for the action picker.
type actionSelectModel struct {
	placeholder string
	items       []host.ActionItem
	cursor      int
	selected    host.Action
	chosen      bool
	done        bool
	styles      *styles
}

func newActionSelectModel(placeholder string, items []host.ActionItem, st *styles) actionSelectModel {
	return actionSelectModel{
		placeholder: placeholder,
		items:       items,
		styles:      st,
	}
}

func (m actionSelectModel) Init() tea.Cmd {
	return nil
}

func (m actionSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := key.String(); k {
	case "ctrl+c", "esc", "q":
		m.done = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.items) == 0 {
			return m, nil
		}
		return m.choose(m.cursor)
	default:
		// 1-9 quick select
		if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			if idx := int(k[0] - '1'); idx < len(m.items) {
				return m.choose(idx)
			}
		}
	}
	return m, nil
}

func (m actionSelectModel) choose(idx int) (tea.Model, tea.Cmd) {
	m.cursor = idx
	m.selected = m.items[idx].Action
	m.chosen = true
	m.done = true
	return m, tea.Quit
}

func (m actionSelectModel) View() string {
	if m.done {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.styles.title.Render(m.placeholder))
	sb.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		style := m.styles.normal
		if m.cursor == i {
			cursor = "▸ "
			style = m.styles.selected
		}

		sb.WriteString(fmt.Sprintf("%s%d. %s", cursor, i+1, style.Render(item.Label)))
		sb.WriteString(m.styles.description.Render(" - " + item.Description))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.description.Render("↑/↓ or j/k to move • Enter to select • 1-4 quick select • Esc to dismiss"))

	return sb.String()
}
