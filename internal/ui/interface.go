package ui

import (
	"context"

	"github.com/patrickprogramme/transcopy/pkg/model"
)

// Notifier affiche une notification transitoire ; une nouvelle remplace la précédente.
type Notifier interface {
	Notify(n model.Notice)
}

type Interface interface {
	Notifier

	// FABPresses renvoie un signal par appui sur le bouton flottant
	// (Entrée dans le terminal). Le canal est fermé quand l'entrée est épuisée.
	FABPresses(ctx context.Context) <-chan struct{}

	// WaitForExit bloque jusqu'à ce qu'un signal d'annulation soit reçu via ctx (Ctrl+C).
	WaitForExit(ctx context.Context) error

	PrintInfo(ctx context.Context, s string)
	PrintError(ctx context.Context, s string)
}
