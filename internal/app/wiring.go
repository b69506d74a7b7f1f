package app

import (
	"fmt"

	"github.com/patrickprogramme/transcopy/internal/config"
	"github.com/patrickprogramme/transcopy/internal/fetch"
	"github.com/patrickprogramme/transcopy/internal/page"
	"github.com/patrickprogramme/transcopy/internal/templatestore"
	"github.com/rs/zerolog"
)

// newPage choisit l'implémentation de page selon page.source.
func newPage(cfg *config.Config, log zerolog.Logger) (page.Page, error) {
	switch cfg.Page.Source {
	case config.SourceFile:
		return page.NewFilePage(cfg.Page.SnapshotPath, cfg.Page.EventsPath, cfg.Page.ActionsPath, cfg.Page.Origin, log), nil
	case config.SourceHTTP:
		return page.NewHTTPPage(cfg.Page.URL, cfg.Page.Origin, fetch.New()), nil
	default:
		return nil, fmt.Errorf("app: page.source inconnue : %q", cfg.Page.Source)
	}
}

// newTemplateStore : fichier de réglages en primaire (le magasin
// « privilégié »), magasin d'origine sqlite en secondaire. Si sqlite ne
// s'ouvre pas, le secondaire est en mémoire.
func newTemplateStore(cfg *config.Config, origin string, log zerolog.Logger) (*templatestore.Store, *templatestore.OriginStore) {
	var primary templatestore.Backend
	if cfg.Storage.SettingsPath != "" {
		primary = templatestore.NewFileBackend(cfg.Storage.SettingsPath)
	}

	var fallback templatestore.Backend = templatestore.NewMemory()
	var origins *templatestore.OriginStore
	if cfg.Storage.OriginDBPath != "" {
		s, err := templatestore.OpenOriginStore(cfg.Storage.OriginDBPath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Storage.OriginDBPath).Msg("origin store unavailable, using memory")
		} else {
			origins = s
			fallback = s.Scope(origin)
		}
	}

	store := templatestore.New(primary, fallback,
		templatestore.WithKey(cfg.Storage.Key),
		templatestore.WithLogger(log),
	)
	return store, origins
}
