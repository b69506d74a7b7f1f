package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/patrickprogramme/transcopy/internal/config"
	"github.com/patrickprogramme/transcopy/internal/copier"
	"github.com/patrickprogramme/transcopy/internal/metrics"
	"github.com/patrickprogramme/transcopy/internal/page"
	"github.com/patrickprogramme/transcopy/internal/trigger"
	"github.com/patrickprogramme/transcopy/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lecturePage = `<html><body>
<nav><button role="tab"><span class="ud-btn-label">Transcript</span></button></nav>
<button data-purpose="transcript-toggle" aria-expanded="true">T</button>
<div data-purpose="transcript-panel">
  <div class="transcript--cue-container--a"><span>Hello</span></div>
  <div class="transcript--cue-container--a"><span>World</span></div>
</div>
</body></html>`

type fakeUI struct {
	mu      sync.Mutex
	notices []model.Notice
	infos   []string
	errs    []string
	presses chan struct{}
	exit    chan struct{}
}

func newFakeUI() *fakeUI {
	return &fakeUI{presses: make(chan struct{}, 1), exit: make(chan struct{})}
}

func (f *fakeUI) Notify(n model.Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, n)
}

func (f *fakeUI) Notices() []model.Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Notice(nil), f.notices...)
}

func (f *fakeUI) FABPresses(context.Context) <-chan struct{} { return f.presses }

func (f *fakeUI) WaitForExit(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.exit:
		return nil
	}
}

func (f *fakeUI) PrintInfo(_ context.Context, s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infos = append(f.infos, s)
}

func (f *fakeUI) PrintError(_ context.Context, s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, s)
}

func (f *fakeUI) Errors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.errs...)
}

// brokenPage échoue à chaque lecture.
type brokenPage struct{}

func (brokenPage) Origin() string { return "https://www.udemy.com" }

func (brokenPage) Snapshot(context.Context) (*goquery.Document, error) {
	return nil, errors.New("relais absent")
}

func (brokenPage) Click(context.Context, string) error { return page.ErrReadOnly }

type fakeClipboard struct {
	mu     sync.Mutex
	writes []string
}

func (f *fakeClipboard) WriteAll(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, text)
	return nil
}

func (f *fakeClipboard) Writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.writes...)
}

func newTestApp(t *testing.T, p page.Page) (*App, *fakeUI, *fakeClipboard) {
	t.Helper()
	cfg := config.Default(t.TempDir())
	tui := newFakeUI()
	clip := &fakeClipboard{}

	a, err := New(cfg, tui,
		WithPage(p),
		WithClipboard(clip),
		WithMetrics(metrics.NewMetrics(prometheus.NewRegistry())),
		WithCopierTimings(copier.Timings{Initial: 0, Retry: time.Millisecond, MaxAttempts: 2}),
		WithTriggerTimings(trigger.Timings{
			TabClickDelay:      time.Millisecond,
			FABOpenWait:        time.Millisecond,
			FABAlreadyOpenWait: time.Millisecond,
			Poll:               10 * time.Millisecond,
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, tui, clip
}

func TestCopyOnce_UsesSavedTemplate(t *testing.T) {
	ctx := context.Background()
	a, tui, clip := newTestApp(t, page.NewMemoryPage("https://www.udemy.com", lecturePage))

	_, err := a.Editor().Save(ctx, "Résumé :\n{{ transcript }}")
	require.NoError(t, err)

	outcome, err := a.CopyOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeCopied, outcome)
	assert.Equal(t, []string{"Résumé :\nHello\n\nWorld"}, clip.Writes())
	assert.Equal(t, []model.Notice{{Kind: model.NoticeSuccess, Message: model.MsgCopied}}, tui.Notices())
}

func TestTemplatePersistsAcrossApps(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default(t.TempDir())
	p := page.NewMemoryPage("https://www.udemy.com", lecturePage)

	first, err := New(cfg, newFakeUI(), WithPage(p), WithClipboard(&fakeClipboard{}),
		WithMetrics(metrics.NewMetrics(prometheus.NewRegistry())))
	require.NoError(t, err)
	_, err = first.Editor().Save(ctx, "persisted {{ transcript }}")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(cfg, newFakeUI(), WithPage(p), WithClipboard(&fakeClipboard{}),
		WithMetrics(metrics.NewMetrics(prometheus.NewRegistry())))
	require.NoError(t, err)
	defer second.Close()
	assert.Equal(t, "persisted {{ transcript }}", second.Editor().Load(ctx))
}

func TestExtract(t *testing.T) {
	a, _, clip := newTestApp(t, page.NewMemoryPage("", lecturePage))

	res, err := a.Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello\n\nWorld", res.Text)
	assert.Equal(t, model.StrategyCues, res.Strategy)
	assert.Empty(t, clip.Writes())
}

func TestStatus(t *testing.T) {
	a, _, _ := newTestApp(t, page.NewMemoryPage("https://www.udemy.com", lecturePage))

	st := a.Status(context.Background())
	require.NoError(t, st.SnapshotError)
	assert.True(t, st.TabAttached)
	assert.Equal(t, "html[0]/body[0]/nav[0]/button[0]", st.TabNode)
	assert.True(t, st.SidebarOpen)
	assert.True(t, st.PanelFound)
	assert.True(t, st.OriginStore)
	assert.Equal(t, "https://www.udemy.com", st.Origin)
	assert.Positive(t, st.TemplateChars)
}

func TestWatch_FABPress(t *testing.T) {
	a, tui, clip := newTestApp(t, page.NewMemoryPage("", lecturePage))

	done := make(chan error, 1)
	go func() { done <- a.Watch(context.Background()) }()

	tui.presses <- struct{}{}
	require.Eventually(t, func() bool { return len(clip.Writes()) == 1 }, 2*time.Second, 5*time.Millisecond)

	close(tui.exit)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return")
	}
}

func TestWatch_ReportsUnreachablePage(t *testing.T) {
	a, tui, _ := newTestApp(t, brokenPage{})

	done := make(chan error, 1)
	go func() { done <- a.Watch(context.Background()) }()

	require.Eventually(t, func() bool { return len(tui.Errors()) == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Contains(t, tui.Errors()[0], "relais absent")

	close(tui.exit)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return")
	}
}
