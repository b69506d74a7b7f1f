// Package copier orchestre une copie : attente, tentatives d'extraction,
// fusion dans le modèle, presse-papier et notification.
package copier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/patrickprogramme/transcopy/internal/clipboard"
	"github.com/patrickprogramme/transcopy/internal/extract"
	"github.com/patrickprogramme/transcopy/internal/metrics"
	"github.com/patrickprogramme/transcopy/internal/page"
	"github.com/patrickprogramme/transcopy/internal/templatestore"
	"github.com/patrickprogramme/transcopy/internal/ui"
	"github.com/patrickprogramme/transcopy/pkg/model"
	"github.com/rs/zerolog"
)

// Timings règle l'attente initiale et les nouvelles tentatives.
type Timings struct {
	Initial     time.Duration
	Retry       time.Duration
	MaxAttempts int
}

// DefaultTimings : 500 ms puis jusqu'à 5 tentatives espacées de 300 ms.
func DefaultTimings() Timings {
	return Timings{
		Initial:     500 * time.Millisecond,
		Retry:       300 * time.Millisecond,
		MaxAttempts: 5,
	}
}

// Extractor est satisfait par *extract.Extractor.
type Extractor interface {
	Extract(doc *goquery.Document) (string, model.Strategy, bool)
}

// TemplateSource est satisfait par *templatestore.Store.
type TemplateSource interface {
	Get(ctx context.Context) string
}

// Result décrit une recherche de transcription.
type Result struct {
	Text     string
	Strategy model.Strategy
	Attempts int
}

type Copier struct {
	page      page.Page
	extractor Extractor
	templates TemplateSource
	clip      clipboard.Writer
	notifier  ui.Notifier

	guard   Guard
	timings Timings
	metrics *metrics.Metrics
	log     zerolog.Logger
}

type Option func(*Copier)

func WithTimings(t Timings) Option {
	return func(c *Copier) { c.timings = t }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Copier) { c.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Copier) { c.log = l }
}

func New(p page.Page, ex Extractor, templates TemplateSource, clip clipboard.Writer, n ui.Notifier, opts ...Option) *Copier {
	c := &Copier{
		page:      p,
		extractor: ex,
		templates: templates,
		clip:      clip,
		notifier:  n,
		timings:   DefaultTimings(),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timings.MaxAttempts <= 0 {
		c.timings.MaxAttempts = 1
	}
	return c
}

// Busy indique si une copie est en cours.
func (c *Copier) Busy() bool {
	return c.guard.Busy()
}

// Copy exécute le flux complet. Busy est renvoyé sans rien faire si une copie
// est déjà en cours. L'erreur n'est non nulle que pour Failed.
func (c *Copier) Copy(ctx context.Context) (outcome model.Outcome, err error) {
	release, ok := c.guard.TryAcquire()
	if !ok {
		c.log.Debug().Msg("copy already in progress, ignored")
		c.metrics.RecordCopy(model.OutcomeBusy, 0, 0)
		return model.OutcomeBusy, nil
	}
	defer release()

	start := time.Now()
	var res Result
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("copy flow panicked")
			c.notify(model.NoticeError, model.MsgCopyFailed)
			outcome, err = model.OutcomeFailed, fmt.Errorf("copier: panic: %v", r)
		}
		c.metrics.RecordCopy(outcome, res.Attempts, time.Since(start))
	}()

	res, err = c.Find(ctx)
	switch {
	case errors.Is(err, extract.ErrNotFound):
		c.log.Info().Int("attempts", res.Attempts).Msg("transcript not found")
		c.notify(model.NoticeError, model.MsgNotFound)
		return model.OutcomeNotFound, nil
	case err != nil:
		// annulation : pas de notification
		return model.OutcomeFailed, fmt.Errorf("copier: %w", err)
	}
	c.metrics.RecordExtraction(res.Strategy)

	text := templatestore.Merge(c.templates.Get(ctx), res.Text)
	if err := c.clip.WriteAll(text); err != nil {
		c.log.Error().Err(err).Msg("clipboard write failed")
		c.notify(model.NoticeError, model.MsgCopyFailed)
		return model.OutcomeFailed, fmt.Errorf("copier: %w", err)
	}

	c.log.Info().
		Str("strategy", string(res.Strategy)).
		Int("attempts", res.Attempts).
		Int("chars", len(text)).
		Msg("transcript copied")
	c.notify(model.NoticeSuccess, model.MsgCopied)
	return model.OutcomeCopied, nil
}

// Find attend Initial puis tente jusqu'à MaxAttempts extractions, avec Retry
// d'attente après chaque échec. Une erreur de snapshot compte comme un échec.
// Renvoie extract.ErrNotFound si rien n'a été trouvé.
func (c *Copier) Find(ctx context.Context) (Result, error) {
	if err := sleep(ctx, c.timings.Initial); err != nil {
		return Result{}, err
	}
	for attempt := 1; attempt <= c.timings.MaxAttempts; attempt++ {
		doc, err := c.page.Snapshot(ctx)
		if err != nil {
			c.log.Warn().Err(err).Int("attempt", attempt).Msg("snapshot failed")
		} else if text, strategy, ok := c.extractor.Extract(doc); ok {
			return Result{Text: text, Strategy: strategy, Attempts: attempt}, nil
		}
		if err := sleep(ctx, c.timings.Retry); err != nil {
			return Result{Attempts: attempt}, err
		}
	}
	return Result{Attempts: c.timings.MaxAttempts}, extract.ErrNotFound
}

func (c *Copier) notify(kind model.NoticeKind, msg string) {
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
