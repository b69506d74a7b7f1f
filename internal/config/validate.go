package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Validate vérifie la cohérence de la section page.
// Retourne des warnings (non-fataux) et une erreur si la config est inutilisable.
func (c *Config) Validate() (warnings []string, err error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}

	switch c.Page.Source {
	case SourceFile:
		if strings.TrimSpace(c.Page.SnapshotPath) == "" {
			return warnings, fmt.Errorf("page.snapshot_path est vide")
		}
		if _, serr := os.Stat(c.Page.SnapshotPath); serr != nil {
			if os.IsNotExist(serr) {
				// le relais navigateur n'a peut-être pas encore écrit son premier snapshot
				warnings = append(warnings, fmt.Sprintf("snapshot introuvable pour l'instant : %s", c.Page.SnapshotPath))
			} else {
				return warnings, fmt.Errorf("impossible d'accéder au snapshot %s : %w", c.Page.SnapshotPath, serr)
			}
		}
	case SourceHTTP:
		if _, perr := url.ParseRequestURI(c.Page.URL); perr != nil {
			return warnings, fmt.Errorf("page.url invalide %q : %w", c.Page.URL, perr)
		}
	default:
		return warnings, fmt.Errorf("page.source inconnue : %q (attendu %s ou %s)", c.Page.Source, SourceFile, SourceHTTP)
	}

	if c.Page.Origin == "" {
		warnings = append(warnings, "page.origin vide : le magasin d'origine sera partagé par toutes les pages")
	}
	return warnings, nil
}
