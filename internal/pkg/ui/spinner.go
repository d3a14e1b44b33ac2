package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// spinnerModel is the Bubble Tea model for the progress spinner.
type spinnerModel struct {
	spinner  spinner.Model
	text     string
	quitting bool
}

// spinnerQuitMsg signals the spinner to quit.
type spinnerQuitMsg struct{}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerQuitMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.text)
}

// bubbleSpinner runs a spinner program in the background until stopped.
type bubbleSpinner struct {
	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

func startSpinner(text string, out io.Writer, st *styles) *bubbleSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = st.spinner

	program := tea.NewProgram(
		spinnerModel{spinner: s, text: text},
		tea.WithOutput(out),
		tea.WithInput(nil),
	)

	bs := &bubbleSpinner{program: program, done: make(chan struct{})}
	go func() {
		defer close(bs.done)
		_, _ = program.Run()
	}()
	return bs
}

// Stop quits the spinner and waits until it has cleared its line.
func (s *bubbleSpinner) Stop() {
	s.once.Do(func() {
		s.program.Send(spinnerQuitMsg{})
		<-s.done
	})
}
