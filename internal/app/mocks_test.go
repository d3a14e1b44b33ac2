package app

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gitsage/gitmsg/internal/pkg/host"
)

// MockVCS is a mock implementation of host.VCS
type MockVCS struct {
	mock.Mock
}

func (m *MockVCS) FirstRepository(ctx context.Context) (host.Repository, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(host.Repository), args.Error(1)
}

// MockRepository is a mock implementation of host.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Root() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockRepository) Diff(ctx context.Context, staged bool) (string, error) {
	args := m.Called(ctx, staged)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) InputBox() host.InputBox {
	args := m.Called()
	return args.Get(0).(host.InputBox)
}

// MockInputBox is a mock implementation of host.InputBox
type MockInputBox struct {
	mock.Mock
}

func (m *MockInputBox) Value() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockInputBox) SetValue(value string) error {
	args := m.Called(value)
	return args.Error(0)
}

// MockUI is a mock implementation of host.UI
type MockUI struct {
	mock.Mock
}

func (m *MockUI) PickAction(ctx context.Context, placeholder string, items []host.ActionItem) (host.Action, bool, error) {
	args := m.Called(ctx, placeholder, items)
	return args.Get(0).(host.Action), args.Bool(1), args.Error(2)
}

func (m *MockUI) PromptInput(ctx context.Context, opts host.InputOptions) (string, bool, error) {
	args := m.Called(ctx, opts)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockUI) Info(message string) {
	m.Called(message)
}

func (m *MockUI) Warn(message string) {
	m.Called(message)
}

func (m *MockUI) Error(message string) {
	m.Called(message)
}

// WithProgress runs fn directly after recording the call.
func (m *MockUI) WithProgress(ctx context.Context, title string, fn func(context.Context) error) error {
	m.Called(ctx, title)
	return fn(ctx)
}

func (m *MockUI) CreateTerminal(name, dir string) (host.Terminal, error) {
	args := m.Called(name, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(host.Terminal), args.Error(1)
}

// MockTerminal is a mock implementation of host.Terminal
type MockTerminal struct {
	mock.Mock
}

func (m *MockTerminal) Show() {
	m.Called()
}

func (m *MockTerminal) SendText(command string) error {
	args := m.Called(command)
	return args.Error(0)
}

// MockClipboard is a mock implementation of host.Clipboard
type MockClipboard struct {
	mock.Mock
}

func (m *MockClipboard) WriteText(text string) error {
	args := m.Called(text)
	return args.Error(0)
}
