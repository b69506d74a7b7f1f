package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/patrickprogramme/transcopy/internal/clipboard"
	"github.com/patrickprogramme/transcopy/internal/config"
	"github.com/patrickprogramme/transcopy/internal/copier"
	"github.com/patrickprogramme/transcopy/internal/extract"
	"github.com/patrickprogramme/transcopy/internal/logging"
	"github.com/patrickprogramme/transcopy/internal/metrics"
	"github.com/patrickprogramme/transcopy/internal/page"
	"github.com/patrickprogramme/transcopy/internal/settings"
	"github.com/patrickprogramme/transcopy/internal/templatestore"
	"github.com/patrickprogramme/transcopy/internal/trigger"
	"github.com/patrickprogramme/transcopy/internal/ui"
	"github.com/patrickprogramme/transcopy/pkg/model"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// App orchestre les différentes dépendances (page, magasins, presse-papier, UI...)
type App struct {
	cfg *config.Config
	ui  ui.Interface
	log zerolog.Logger

	page      page.Page
	store     *templatestore.Store
	origins   *templatestore.OriginStore // nil si le magasin d'origine est indisponible
	clip      clipboard.Writer
	extractor *extract.Extractor
	copier    *copier.Copier
	coord     *trigger.Coordinator
	editor    *settings.Editor
	metrics   *metrics.Metrics

	copierTimings  copier.Timings
	triggerTimings trigger.Timings
}

// Option permet d'injecter des implémentations (tests, intégrations).
type Option func(*App)

func WithPage(p page.Page) Option {
	return func(a *App) { a.page = p }
}

func WithClipboard(w clipboard.Writer) Option {
	return func(a *App) { a.clip = w }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

func WithCopierTimings(t copier.Timings) Option {
	return func(a *App) { a.copierTimings = t }
}

func WithTriggerTimings(t trigger.Timings) Option {
	return func(a *App) { a.triggerTimings = t }
}

// New construit l'application à partir de la configuration.
// Fermer avec Close.
func New(cfg *config.Config, uiClient ui.Interface, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: config nil")
	}
	a := &App{
		cfg:            cfg,
		ui:             uiClient,
		log:            logging.WithComponent("app"),
		metrics:        metrics.DefaultMetrics,
		copierTimings:  copier.DefaultTimings(),
		triggerTimings: trigger.DefaultTimings(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.page == nil {
		p, err := newPage(cfg, logging.WithComponent("page"))
		if err != nil {
			return nil, err
		}
		a.page = p
	}
	if a.clip == nil {
		a.clip = newClipboard(cfg)
	}

	a.store, a.origins = newTemplateStore(cfg, a.page.Origin(), logging.WithComponent("templatestore"))
	a.extractor = extract.New()
	a.copier = copier.New(a.page, a.extractor, a.store, a.clip, uiClient,
		copier.WithTimings(a.copierTimings),
		copier.WithMetrics(a.metrics),
		copier.WithLogger(logging.WithComponent("copier")),
	)
	a.coord = trigger.New(a.page, a.copier, uiClient,
		trigger.WithTimings(a.triggerTimings),
		trigger.WithMetrics(a.metrics),
		trigger.WithLogger(logging.WithComponent("trigger")),
	)
	a.editor = settings.NewEditor(a.store, a.metrics)
	return a, nil
}

// Close libère le magasin d'origine.
func (a *App) Close() error {
	if a.origins == nil {
		return nil
	}
	return a.origins.Close()
}

// Editor expose l'éditeur de modèle (commandes template).
func (a *App) Editor() *settings.Editor {
	return a.editor
}

// Watch surveille la page jusqu'à Ctrl+C : onglet Transcript et bouton
// flottant (Entrée) déclenchent la copie.
func (a *App) Watch(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.coord.InstallFAB(a.ui.FABPresses(runCtx))

	done := make(chan error, 1)
	go func() { done <- a.coord.Run(runCtx) }()

	a.ui.PrintInfo(ctx, fmt.Sprintf("Surveillance de la page (%s, origine %q)", a.cfg.Page.Source, a.page.Origin()))
	if _, err := a.page.Snapshot(runCtx); err != nil {
		// la surveillance continue : le poll retentera la lecture
		a.ui.PrintError(ctx, fmt.Sprintf("Page inaccessible pour l'instant : %v", err))
	}
	err := a.ui.WaitForExit(ctx)

	cancel()
	if runErr := <-done; runErr != nil {
		a.log.Error().Err(runErr).Msg("coordinator stopped")
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// CopyOnce exécute une fois le flux du bouton flottant.
func (a *App) CopyOnce(ctx context.Context) (model.Outcome, error) {
	return a.coord.HandleFAB(ctx)
}

// Extract cherche la transcription sans la copier.
func (a *App) Extract(ctx context.Context) (copier.Result, error) {
	return a.copier.Find(ctx)
}

// Status résume l'état de la page et des déclencheurs.
type Status struct {
	ConfigPath    string
	Source        string
	Origin        string
	SnapshotError error
	TabAttached   bool
	TabNode       string
	SidebarOpen   bool
	PanelFound    bool
	TemplateChars int
	OriginStore   bool
}

// Status lit un snapshot et synchronise les déclencheurs une fois.
func (a *App) Status(ctx context.Context) Status {
	st := Status{
		ConfigPath:    a.cfg.Path(),
		Source:        a.cfg.Page.Source,
		Origin:        a.page.Origin(),
		TemplateChars: len(a.store.Get(ctx)),
		OriginStore:   a.origins != nil,
	}
	doc, err := a.page.Snapshot(ctx)
	if err != nil {
		st.SnapshotError = err
		return st
	}
	if err := a.coord.Sync(ctx); err != nil {
		st.SnapshotError = err
	}
	st.TabNode, st.TabAttached = a.coord.Attached()
	st.SidebarOpen = trigger.IsSidebarOpen(doc)
	st.PanelFound = a.extractor.Panel(doc.Selection) != nil
	return st
}

// Popup sert la page de réglages (et /metrics) jusqu'à l'annulation de ctx.
func (a *App) Popup(ctx context.Context, addr string, onReady func(url string)) error {
	if addr == "" {
		addr = a.cfg.Popup.Addr
	}
	var metricsHandler http.Handler = promhttp.Handler()
	h := settings.NewHandler(a.editor, logging.WithComponent("popup"), metricsHandler)
	return settings.ListenAndServe(ctx, addr, h, logging.WithComponent("popup"), onReady)
}

// newClipboard : presse-papier système, ou stdout si désactivé.
func newClipboard(cfg *config.Config) clipboard.Writer {
	if !cfg.Clipboard.Enabled {
		return clipboard.NewStream(os.Stdout)
	}
	return clipboard.System{}
}
