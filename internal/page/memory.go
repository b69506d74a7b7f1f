package page

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// MemoryPage est une page en mémoire : le HTML est remplacé par SetHTML,
// les clics utilisateur injectés par UserClick. Sert aux tests et aux démos.
type MemoryPage struct {
	mu      sync.Mutex
	origin  string
	raw     string
	clicked []string
	onClick func(m *MemoryPage, selector string)

	changeSubs map[chan Change]struct{}
	clickSubs  map[chan UserClick]struct{}
}

func NewMemoryPage(origin, raw string) *MemoryPage {
	return &MemoryPage{
		origin:     origin,
		raw:        raw,
		changeSubs: make(map[chan Change]struct{}),
		clickSubs:  make(map[chan UserClick]struct{}),
	}
}

// OnClick installe un hook appelé après chaque clic simulé (hors verrou),
// typiquement pour faire apparaître le panneau.
func (m *MemoryPage) OnClick(fn func(m *MemoryPage, selector string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onClick = fn
}

func (m *MemoryPage) Origin() string { return m.origin }

func (m *MemoryPage) Snapshot(_ context.Context) (*goquery.Document, error) {
	m.mu.Lock()
	raw := m.raw
	m.mu.Unlock()
	return Parse(raw)
}

func (m *MemoryPage) Click(ctx context.Context, selector string) error {
	doc, err := m.Snapshot(ctx)
	if err != nil {
		return err
	}
	if doc.Find(selector).Length() == 0 {
		return fmt.Errorf("%w: %s", ErrNoMatch, selector)
	}

	m.mu.Lock()
	m.clicked = append(m.clicked, selector)
	hook := m.onClick
	m.mu.Unlock()

	if hook != nil {
		hook(m, selector)
	}
	return nil
}

// Clicked renvoie les sélecteurs cliqués par le programme.
func (m *MemoryPage) Clicked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.clicked...)
}

// SetHTML remplace le DOM et notifie les abonnés.
func (m *MemoryPage) SetHTML(raw string) {
	m.mu.Lock()
	m.raw = raw
	subs := make([]chan Change, 0, len(m.changeSubs))
	for ch := range m.changeSubs {
		subs = append(subs, ch)
	}
	m.mu.Unlock()

	ev := Change{At: time.Now()}
	for _, ch := range subs {
		select {
		case ch <- ev:
		default: // un signal en attente suffit
		}
	}
}

// UserClick simule un clic de l'utilisateur sur l'élément désigné.
func (m *MemoryPage) UserClick(selector string) {
	m.mu.Lock()
	subs := make([]chan UserClick, 0, len(m.clickSubs))
	for ch := range m.clickSubs {
		subs = append(subs, ch)
	}
	m.mu.Unlock()

	ev := UserClick{Selector: selector, At: time.Now()}
	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (m *MemoryPage) Watch(ctx context.Context) (<-chan Change, error) {
	ch := make(chan Change, 1)
	m.mu.Lock()
	m.changeSubs[ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.changeSubs, ch)
		m.mu.Unlock()
	}()
	return ch, nil
}

func (m *MemoryPage) Clicks(ctx context.Context) (<-chan UserClick, error) {
	ch := make(chan UserClick, 16)
	m.mu.Lock()
	m.clickSubs[ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.clickSubs, ch)
		m.mu.Unlock()
	}()
	return ch, nil
}
