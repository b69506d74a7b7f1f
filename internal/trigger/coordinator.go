// Package trigger détecte les actions de l'utilisateur (onglet Transcript,
// bouton flottant) et lance la copie.
package trigger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/patrickprogramme/transcopy/internal/metrics"
	"github.com/patrickprogramme/transcopy/internal/page"
	"github.com/patrickprogramme/transcopy/internal/ui"
	"github.com/patrickprogramme/transcopy/pkg/model"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

// Timings des déclencheurs
type Timings struct {
	TabClickDelay      time.Duration
	FABOpenWait        time.Duration
	FABAlreadyOpenWait time.Duration
	Poll               time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		TabClickDelay:      100 * time.Millisecond,
		FABOpenWait:        1000 * time.Millisecond,
		FABAlreadyOpenWait: 300 * time.Millisecond,
		Poll:               1000 * time.Millisecond,
	}
}

// Copier est satisfait par *copier.Copier.
type Copier interface {
	Copy(ctx context.Context) (model.Outcome, error)
	Busy() bool
}

// handler attaché à un onglet, identifié par sa clé de nœud.
type handler struct {
	key        string
	attachedAt time.Time
}

type Coordinator struct {
	page     page.Page
	copier   Copier
	notifier ui.Notifier
	timings  Timings
	metrics  *metrics.Metrics
	log      zerolog.Logger

	mu       sync.Mutex
	handlers map[string]*handler

	fabOnce sync.Once
	fab     <-chan struct{}

	wg sync.WaitGroup
}

type Option func(*Coordinator)

func WithTimings(t Timings) Option {
	return func(c *Coordinator) { c.timings = t }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

func New(p page.Page, cp Copier, n ui.Notifier, opts ...Option) *Coordinator {
	c := &Coordinator{
		page:     p,
		copier:   cp,
		notifier: n,
		timings:  DefaultTimings(),
		log:      zerolog.Nop(),
		handlers: make(map[string]*handler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timings.Poll <= 0 {
		c.timings.Poll = DefaultTimings().Poll
	}
	return c
}

// Sync (ré)attache le handler de l'onglet Transcript. Le handler précédent
// est retiré avant l'ajout : appeler Sync plusieurs fois laisse un seul handler.
// Onglet absent : les handlers existants sont détachés.
func (c *Coordinator) Sync(ctx context.Context) error {
	doc, err := c.page.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("trigger: snapshot: %w", err)
	}
	c.syncDoc(doc)
	return nil
}

// syncDoc applique Sync sur un snapshot déjà lu.
func (c *Coordinator) syncDoc(doc *goquery.Document) {
	tab := FindTranscriptTab(doc)

	c.mu.Lock()
	defer c.mu.Unlock()

	if tab == nil {
		for key := range c.handlers {
			c.detach(key)
			c.log.Info().Str("node", key).Msg("transcript tab gone, handler detached")
		}
		return
	}

	key := page.NodeKey(tab.Get(0))
	prev, known := c.handlers[key]
	for k := range c.handlers {
		if k != key {
			// l'onglet a été remplacé par un autre nœud
			c.detach(k)
		}
	}
	attachedAt := time.Now()
	if known {
		attachedAt = prev.attachedAt
	}
	delete(c.handlers, key)
	c.handlers[key] = &handler{key: key, attachedAt: attachedAt}

	if !known {
		c.log.Info().Str("node", key).Msg("transcript tab found, handler attached")
		if c.metrics != nil {
			c.metrics.TriggerAttachments.Inc()
		}
	}
}

// detach retire le handler de key. c.mu doit être tenu.
func (c *Coordinator) detach(key string) {
	h, ok := c.handlers[key]
	if !ok {
		return
	}
	delete(c.handlers, key)
	c.log.Debug().Str("node", key).Dur("attached_for", time.Since(h.attachedAt)).Msg("handler detached")
	if c.metrics != nil {
		c.metrics.TriggerDetachments.Inc()
	}
}

// Attached renvoie la clé de nœud de l'onglet actuellement suivi.
func (c *Coordinator) Attached() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.handlers {
		return key, true
	}
	return "", false
}

// Dispatch traite un clic utilisateur : si la cible ou l'un de ses ancêtres
// porte un handler, la copie est lancée après TabClickDelay.
// Les handlers sont d'abord resynchronisés sur le snapshot du clic.
func (c *Coordinator) Dispatch(ctx context.Context, click page.UserClick) (bool, error) {
	doc, err := c.page.Snapshot(ctx)
	if err != nil {
		return false, fmt.Errorf("trigger: snapshot: %w", err)
	}
	c.syncDoc(doc)

	target := doc.Find(click.Selector).First()
	if target.Length() == 0 {
		return false, fmt.Errorf("trigger: %w: %s", page.ErrNoMatch, click.Selector)
	}

	c.mu.Lock()
	var h *handler
	for n := target.Get(0); n != nil && n.Type == html.ElementNode; n = n.Parent {
		if found, ok := c.handlers[page.NodeKey(n)]; ok {
			h = found
			break
		}
	}
	c.mu.Unlock()

	if h == nil {
		return false, nil
	}
	c.log.Debug().Str("node", h.key).Str("target", click.Selector).Msg("transcript tab clicked")
	c.fire(ctx, "tab", func(ctx context.Context) {
		if err := sleep(ctx, c.timings.TabClickDelay); err != nil {
			return
		}
		c.copy(ctx)
	})
	return true, nil
}

// Wait attend la fin des handlers en cours.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) fire(ctx context.Context, source string, fn func(ctx context.Context)) {
	if c.metrics != nil {
		c.metrics.TriggerFires.WithLabelValues(source).Inc()
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn(ctx)
	}()
}

func (c *Coordinator) copy(ctx context.Context) model.Outcome {
	outcome, err := c.copier.Copy(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		c.log.Error().Err(err).Str("outcome", string(outcome)).Msg("copy failed")
	}
	return outcome
}

func (c *Coordinator) notify(kind model.NoticeKind, msg string) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(model.Notice{Kind: kind, Message: msg})
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
