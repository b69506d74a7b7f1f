// Package templatestore persiste le modèle de prompt (une seule chaîne) dans
// deux magasins : un primaire et un secondaire sur lequel toutes les écritures
// sont recopiées, pour que deux contextes qui ne partagent pas le primaire
// lisent la même valeur.
package templatestore

import (
	"context"
	"fmt"
	"strings"

	"github.com/patrickprogramme/transcopy/internal/assets"
	"github.com/rs/zerolog"
)

// DefaultKey : clé historique sous laquelle le modèle est rangé.
const DefaultKey = "udemy-transcript-template"

// Placeholder est le jeton remplacé par la transcription.
const Placeholder = "{{ transcript }}"

// Backend est un magasin clé/valeur minimal.
// found=false avec err=nil signifie que la clé n'existe pas.
type Backend interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Store lit et écrit le modèle. Get ne renvoie jamais d'erreur.
type Store struct {
	primary  Backend
	fallback Backend
	key      string
	def      string
	log      zerolog.Logger
}

// Option configure un Store.
type Option func(*Store)

// WithKey remplace la clé de stockage.
func WithKey(key string) Option {
	return func(s *Store) {
		if strings.TrimSpace(key) != "" {
			s.key = key
		}
	}
}

// WithDefault remplace le modèle par défaut.
func WithDefault(def string) Option {
	return func(s *Store) { s.def = def }
}

// WithLogger attache un logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New construit un Store. primary peut être nil (capacité absente) ;
// fallback ne doit pas l'être : utiliser NewMemory() à défaut.
func New(primary, fallback Backend, opts ...Option) *Store {
	if fallback == nil {
		fallback = NewMemory()
	}
	s := &Store{
		primary:  primary,
		fallback: fallback,
		key:      DefaultKey,
		def:      assets.DefaultTemplate(),
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Key renvoie la clé utilisée.
func (s *Store) Key() string { return s.key }

// Default renvoie le modèle par défaut.
func (s *Store) Default() string { return s.def }

// Get renvoie le modèle persistant s'il existe et n'est pas vide, sinon le défaut.
// Ordre : primaire, puis secondaire, puis défaut.
func (s *Store) Get(ctx context.Context) string {
	if s.primary != nil {
		v, found, err := s.primary.Get(ctx, s.key)
		switch {
		case err != nil:
			s.log.Debug().Err(err).Msg("primary store unavailable, falling back")
		case found && v != "":
			return v
		}
	}

	v, found, err := s.fallback.Get(ctx, s.key)
	if err != nil {
		s.log.Warn().Err(err).Msg("fallback store unavailable, using default template")
		return s.def
	}
	if found && v != "" {
		return v
	}
	return s.def
}

// Set écrit dans le primaire (erreur ignorée) puis recopie toujours dans le secondaire.
// Seule une erreur du secondaire est renvoyée.
func (s *Store) Set(ctx context.Context, value string) error {
	if s.primary != nil {
		if err := s.primary.Set(ctx, s.key, value); err != nil {
			s.log.Debug().Err(err).Msg("primary store write failed")
		}
	}
	if err := s.fallback.Set(ctx, s.key, value); err != nil {
		return fmt.Errorf("templatestore: write fallback: %w", err)
	}
	return nil
}

// Merge remplace la première occurrence littérale de Placeholder par transcript.
// Sans jeton, le modèle est renvoyé tel quel.
func Merge(template, transcript string) string {
	return strings.Replace(template, Placeholder, transcript, 1)
}
