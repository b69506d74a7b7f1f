// Package clipboard écrit le texte final dans le presse-papier système,
// ou sur un flux quand le presse-papier est désactivé (serveur, CI).
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrEmpty : on ne copie jamais un texte vide.
var ErrEmpty = errors.New("clipboard: le texte à copier ne peut pas être vide")

// Writer est la destination du texte copié.
type Writer interface {
	WriteAll(text string) error
}

// System écrit dans le presse-papier de l'OS via atotto/clipboard.
type System struct{}

func (System) WriteAll(text string) error {
	if text == "" {
		return ErrEmpty
	}
	if clipboard.Unsupported {
		return errors.New("clipboard: aucun utilitaire de presse-papier disponible")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

// Stream écrit le texte sur w, suivi d'un retour à la ligne.
type Stream struct {
	mu sync.Mutex
	w  io.Writer
}

func NewStream(w io.Writer) *Stream {
	return &Stream{w: w}
}

func (s *Stream) WriteAll(text string) error {
	if text == "" {
		return ErrEmpty
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, text+"\n"); err != nil {
		return fmt.Errorf("clipboard: écriture du flux : %w", err)
	}
	return nil
}
