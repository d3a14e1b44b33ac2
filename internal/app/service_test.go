package app

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gitsage/gitmsg/internal/pkg/ai"
	"github.com/gitsage/gitmsg/internal/pkg/cache"
	"github.com/gitsage/gitmsg/internal/pkg/config"
	apperrors "github.com/gitsage/gitmsg/internal/pkg/errors"
	"github.com/gitsage/gitmsg/internal/pkg/history"
	"github.com/gitsage/gitmsg/internal/pkg/host"
)

const stagedDiff = "diff --git a/x.go b/x.go\n+func X() {}\n"

type fakeDispatcher struct {
	calls   int32
	prompts []string
	ids     []string
	reply   string
	err     error
	mu      sync.Mutex
}

func (f *fakeDispatcher) dispatch(ctx context.Context, prompt, id string, _ config.Providers) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.ids = append(f.ids, id)
	f.mu.Unlock()
	return f.reply, f.err
}

type fakeHistory struct {
	entries []*history.Entry
	err     error
}

func (h *fakeHistory) Save(e *history.Entry) error {
	if h.err != nil {
		return h.err
	}
	h.entries = append(h.entries, e)
	return nil
}

func (h *fakeHistory) List(int) ([]*history.Entry, error) {
	return h.entries, nil
}

func (h *fakeHistory) Clear() error {
	h.entries = nil
	return nil
}

type serviceFixture struct {
	cfg      *config.Config
	vcs      *MockVCS
	repo     *MockRepository
	box      *MockInputBox
	ui       *MockUI
	cb       *MockClipboard
	dispatch *fakeDispatcher
	history  *fakeHistory
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		cfg: &config.Config{
			Provider: "openai",
			Commit:   config.CommitConfig{Style: "conventional"},
			OpenAI:   config.ProviderSettings{APIKey: "sk-test", Model: "gpt-4o-mini"},
		},
		vcs:      new(MockVCS),
		repo:     new(MockRepository),
		box:      new(MockInputBox),
		ui:       new(MockUI),
		cb:       new(MockClipboard),
		dispatch: &fakeDispatcher{reply: "feat: add X"},
		history:  &fakeHistory{},
	}
	f.repo.On("Root").Return("/work/repo").Maybe()
	f.repo.On("InputBox").Return(f.box).Maybe()
	f.ui.On("WithProgress", mock.Anything, ProgressTitle).Return().Maybe()
	return f
}

func (f *serviceFixture) service(c cache.Manager, opts GenerateOptions) *GenerateService {
	return NewGenerateService(f.cfg, f.vcs, f.ui, f.cb, f.dispatch.dispatch, c, f.history, opts)
}

func TestRun_UseFlow(t *testing.T) {
	f := newServiceFixture()
	f.vcs.On("FirstRepository", mock.Anything).Return(f.repo, nil)
	f.repo.On("Diff", mock.Anything, true).Return(stagedDiff, nil)
	f.ui.On("PickAction", mock.Anything, "Generated: feat: add X", host.DefaultActionItems()).
		Return(host.ActionUse, true, nil)
	f.box.On("SetValue", "feat: add X").Return(nil)
	f.ui.On("Info", MsgApplied).Return()

	err := f.service(nil, GenerateOptions{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), f.dispatch.calls)
	assert.Equal(t, []string{"openai"}, f.dispatch.ids)
	assert.Equal(t, ai.BuildPrompt(stagedDiff, ai.StyleConventional), f.dispatch.prompts[0])
	f.ui.AssertCalled(t, "WithProgress", mock.Anything, ProgressTitle)
	f.ui.AssertNotCalled(t, "Error", mock.Anything)
	f.box.AssertExpectations(t)

	require.Len(t, f.history.entries, 1)
	e := f.history.entries[0]
	assert.Equal(t, "feat: add X", e.Message)
	assert.Equal(t, "openai", e.Provider)
	assert.Equal(t, "gpt-4o-mini", e.Model)
	assert.Equal(t, "conventional", e.Style)
	assert.Equal(t, "use", e.Action)
	assert.Equal(t, "/work/repo", e.Repository)
	assert.Equal(t, len(stagedDiff), e.DiffChars)
	assert.Empty(t, e.Warnings)
}

func TestRun_RecordsStyleWarnings(t *testing.T) {
	f := newServiceFixture()
	f.dispatch.reply = "Added X"
	f.vcs.On("FirstRepository", mock.Anything).Return(f.repo, nil)
	f.repo.On("Diff", mock.Anything, true).Return(stagedDiff, nil)
	f.ui.On("PickAction", mock.Anything, "Generated: Added X", mock.Anything).Return(host.ActionCopy, true, nil)
	f.cb.On("WriteText", "Added X").Return(nil)
	f.ui.On("Info", MsgCopied).Return()

	require.NoError(t, f.service(nil, GenerateOptions{}).Run(context.Background()))
	require.Len(t, f.history.entries, 1)
	assert.Equal(t, "Added X", f.history.entries[0].Message, "message is passed through unchanged")
	assert.Equal(t, []string{"subject is not in <type>: <description> form"}, f.history.entries[0].Warnings)
}

func TestRun_EmptyDiffWarns(t *testing.T) {
	for _, diff := range []string{"", "  \n\t\n"} {
		f := newServiceFixture()
		f.vcs.On("FirstRepository", mock.Anything).Return(f.repo, nil)
		f.repo.On("Diff", mock.Anything, true).Return(diff, nil)
		f.ui.On("Warn", MsgNoStagedChanges).Return()

		err := f.service(nil, GenerateOptions{}).Run(context.Background())
		require.NoError(t, err)
		assert.Zero(t, f.dispatch.calls)
		f.ui.AssertNotCalled(t, "PickAction", mock.Anything, mock.Anything, mock.Anything)
		f.ui.AssertNotCalled(t, "WithProgress", mock.Anything, mock.Anything)
		f.ui.AssertExpectations(t)
	}
}

func TestRun_NoRepository(t *testing.T) {
	f := newServiceFixture()
	f.vcs.On("FirstRepository", mock.Anything).Return(nil, apperrors.NewNoRepositoryError(errors.New("not a git repository")))
	f.ui.On("Error", mock.Anything).Return().Once()

	err := f.service(nil, GenerateOptions{}).Run(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNoRepository))
	assert.Zero(t, f.dispatch.calls)
	f.ui.AssertNumberOfCalls(t, "Error", 1)
}

func TestRun_DispatchErrorSurfacedOnce(t *testing.T) {
	f := newServiceFixture()
	f.dispatch.err = apperrors.NewUnknownProviderError("bard")
	f.vcs.On("FirstRepository", mock.Anything).Return(f.repo, nil)
	f.repo.On("Diff", mock.Anything, true).Return(stagedDiff, nil)
	f.ui.On("Error", "Error: unknown provider: bard").Return().Once()

	err := f.service(nil, GenerateOptions{}).Run(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrUnknownProvider))
	f.ui.AssertNumberOfCalls(t, "Error", 1)
	f.ui.AssertNotCalled(t, "PickAction", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.history.entries)
}

func TestRun_PickerDismissed(t *testing.T) {
	f := newServiceFixture()
	f.vcs.On("FirstRepository", mock.Anything).Return(f.repo, nil)
	f.repo.On("Diff", mock.Anything, true).Return(stagedDiff, nil)
	f.ui.On("PickAction", mock.Anything, mock.Anything, mock.Anything).Return(host.Action(0), false, nil)

	require.NoError(t, f.service(nil, GenerateOptions{}).Run(context.Background()))
	f.box.AssertNotCalled(t, "SetValue", mock.Anything)
	f.ui.AssertNotCalled(t, "Error", mock.Anything)
	assert.Empty(t, f.history.entries)
}

func TestRun_RouteErrorSurfacedOnce(t *testing.T) {
	f := newServiceFixture()
	f.vcs.On("FirstRepository", mock.Anything).Return(f.repo, nil)
	f.repo.On("Diff", mock.Anything, true).Return(stagedDiff, nil)
	f.ui.On("PickAction", mock.Anything, mock.Anything, mock.Anything).Return(host.ActionCopy, true, nil)
	f.cb.On("WriteText", "feat: add X").Return(apperrors.NewHostActionError("copying to clipboard", errors.New("no xclip")))
	f.ui.On("Error", mock.Anything).Return().Once()

	err := f.service(nil, GenerateOptions{}).Run(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrHostActionFailed))
	f.ui.AssertNumberOfCalls(t, "Error", 1)
	assert.Empty(t, f.history.entries)
}

func TestRun_HistoryFailureIsNotFatal(t *testing.T) {
	f := newServiceFixture()
	f.history.err = errors.New("disk full")
	f.vcs.On("FirstRepository", mock.Anything).Return(f.repo, nil)
	f.repo.On("Diff", mock.Anything, true).Return(stagedDiff, nil)
	f.ui.On("PickAction", mock.Anything, mock.Anything, mock.Anything).Return(host.ActionCopy, true, nil)
	f.cb.On("WriteText", "feat: add X").Return(nil)
	f.ui.On("Info", MsgCopied).Return()

	require.NoError(t, f.service(nil, GenerateOptions{}).Run(context.Background()))
	f.ui.AssertNotCalled(t, "Error", mock.Anything)
}

func TestRun_DryRun(t *testing.T) {
	f := newServiceFixture()
	f.vcs.On("FirstRepository", mock.Anything).Return(f.repo, nil)
	f.repo.On("Diff", mock.Anything, true).Return(stagedDiff, nil)

	var out bytes.Buffer
	require.NoError(t, f.service(nil, GenerateOptions{DryRun: true, Out: &out}).Run(context.Background()))
	assert.Equal(t, "feat: add X\n", out.String())
	f.ui.AssertNotCalled(t, "PickAction", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_Cache(t *testing.T) {
	c, err := cache.NewResponseCache("", 0)
	require.NoError(t, err)

	f := newServiceFixture()
	f.vcs.On("FirstRepository", mock.Anything).Return(f.repo, nil)
	f.repo.On("Diff", mock.Anything, true).Return(stagedDiff, nil)
	f.ui.On("PickAction", mock.Anything, mock.Anything, mock.Anything).Return(host.Action(0), false, nil)

	svc := f.service(c, GenerateOptions{})
	require.NoError(t, svc.Run(context.Background()))
	require.NoError(t, svc.Run(context.Background()))
	assert.Equal(t, int32(1), f.dispatch.calls, "second run served from cache")

	bypass := f.service(c, GenerateOptions{NoCache: true})
	require.NoError(t, bypass.Run(context.Background()))
	assert.Equal(t, int32(2), f.dispatch.calls)
}

func TestRun_InvocationInFlight(t *testing.T) {
	f := newServiceFixture()
	release := make(chan struct{})
	entered := make(chan struct{})

	f.vcs.On("FirstRepository", mock.Anything).Return(f.repo, nil)
	f.repo.On("Diff", mock.Anything, true).Return(stagedDiff, nil)
	f.ui.On("PickAction", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(host.Action(0), false, nil).Once()

	svc := f.service(nil, GenerateOptions{})

	done := make(chan error, 1)
	go func() { done <- svc.Run(context.Background()) }()
	<-entered

	f.ui.On("Error", mock.Anything).Return().Once()
	err := svc.Run(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrInvocationInFlight))
	f.ui.AssertNumberOfCalls(t, "Error", 1)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), f.dispatch.calls)
}
