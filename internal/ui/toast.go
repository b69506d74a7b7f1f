package ui

import (
	"sync"
	"time"

	"github.com/patrickprogramme/transcopy/pkg/model"
)

// Durées d'affichage d'une notification
const (
	DefaultVisible = 3000 * time.Millisecond
	DefaultExit    = 300 * time.Millisecond
)

// Renderer dessine la notification : Show l'affiche, Leave joue la sortie, Hide l'efface.
type Renderer interface {
	Show(n model.Notice)
	Leave(n model.Notice)
	Hide()
}

// Toast : au plus une notification visible. Chaque Notify incrémente la
// génération ; les minuteries d'une génération dépassée ne font rien.
type Toast struct {
	r       Renderer
	visible time.Duration
	exit    time.Duration

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

func NewToast(r Renderer, visible, exit time.Duration) *Toast {
	if visible <= 0 {
		visible = DefaultVisible
	}
	if exit <= 0 {
		exit = DefaultExit
	}
	return &Toast{r: r, visible: visible, exit: exit}
}

func (t *Toast) Notify(n model.Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	gen := t.gen
	if t.timer != nil {
		t.timer.Stop()
	}
	t.r.Show(n)
	t.timer = time.AfterFunc(t.visible, func() { t.leave(gen, n) })
}

func (t *Toast) leave(gen uint64, n model.Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return
	}
	t.r.Leave(n)
	t.timer = time.AfterFunc(t.exit, func() { t.hide(gen) })
}

func (t *Toast) hide(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return
	}
	t.r.Hide()
	t.timer = nil
}

// Close efface la notification courante et annule les minuteries.
func (t *Toast) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
		t.r.Hide()
	}
}
