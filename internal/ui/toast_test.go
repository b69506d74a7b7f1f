package ui

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/patrickprogramme/transcopy/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingRenderer) Show(n model.Notice)  { r.add("show:" + n.Message) }
func (r *recordingRenderer) Leave(n model.Notice) { r.add("leave:" + n.Message) }
func (r *recordingRenderer) Hide()                { r.add("hide") }

func (r *recordingRenderer) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingRenderer) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestToast_ShowLeaveHide(t *testing.T) {
	r := &recordingRenderer{}
	toast := NewToast(r, 20*time.Millisecond, 10*time.Millisecond)

	toast.Notify(model.Notice{Kind: model.NoticeSuccess, Message: "ok"})

	require.Eventually(t, func() bool { return len(r.snapshot()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"show:ok", "leave:ok", "hide"}, r.snapshot())
}

func TestToast_NewNoticeReplacesPrevious(t *testing.T) {
	r := &recordingRenderer{}
	toast := NewToast(r, 50*time.Millisecond, 10*time.Millisecond)

	toast.Notify(model.Notice{Kind: model.NoticeSuccess, Message: "first"})
	toast.Notify(model.Notice{Kind: model.NoticeError, Message: "second"})

	require.Eventually(t, func() bool {
		ev := r.snapshot()
		return len(ev) > 0 && ev[len(ev)-1] == "hide"
	}, time.Second, 5*time.Millisecond)

	// la première notification ne doit jamais jouer sa sortie
	assert.Equal(t, []string{"show:first", "show:second", "leave:second", "hide"}, r.snapshot())
}

func TestToast_Close(t *testing.T) {
	r := &recordingRenderer{}
	toast := NewToast(r, time.Hour, time.Hour)

	toast.Notify(model.Notice{Kind: model.NoticeSuccess, Message: "x"})
	toast.Close()
	toast.Close()

	assert.Equal(t, []string{"show:x", "hide"}, r.snapshot())
}

func TestToast_Defaults(t *testing.T) {
	toast := NewToast(&recordingRenderer{}, 0, 0)
	assert.Equal(t, DefaultVisible, toast.visible)
	assert.Equal(t, DefaultExit, toast.exit)
}

func TestTerminal_FABPresses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	term := newTerminal(strings.NewReader("\n"))
	presses := term.FABPresses(ctx)
	require.Equal(t, presses, term.FABPresses(ctx), "la lecture de stdin ne démarre qu'une fois")

	select {
	case _, ok := <-presses:
		require.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("no press")
	}

	// fin de l'entrée : canal fermé
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-presses:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestTerminal_WaitForExitReleasesInput(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	r, w := io.Pipe()
	defer w.Close()

	term := newTerminal(r)
	presses := term.FABPresses(ctx)

	cancel()
	require.ErrorIs(t, term.WaitForExit(ctx), context.Canceled)

	// la lecture bloquée sur le pipe est libérée : canal fermé
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-presses:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestLine_FABPressesClosed(t *testing.T) {
	_, ok := <-NewLine().FABPresses(context.Background())
	assert.False(t, ok)
}
