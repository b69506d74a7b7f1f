// Package settings : édition du modèle de prompt (panneau CLI et popup HTTP).
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/patrickprogramme/transcopy/internal/metrics"
	"github.com/patrickprogramme/transcopy/pkg/model"
)

// ErrEmptyTemplate : la saisie est vide après trim, rien n'est enregistré.
var ErrEmptyTemplate = errors.New("settings: template cannot be empty")

// TemplateStore est satisfait par *templatestore.Store.
type TemplateStore interface {
	Get(ctx context.Context) string
	Set(ctx context.Context, value string) error
	Default() string
}

// Editor porte la logique commune aux deux surfaces de réglage.
type Editor struct {
	store   TemplateStore
	metrics *metrics.Metrics
}

func NewEditor(store TemplateStore, m *metrics.Metrics) *Editor {
	return &Editor{store: store, metrics: m}
}

// Load renvoie le modèle courant (ou le modèle par défaut).
func (e *Editor) Load(ctx context.Context) string {
	return e.store.Get(ctx)
}

// Reset renvoie le texte par défaut à afficher. Rien n'est enregistré :
// il faut ensuite Save.
func (e *Editor) Reset() (string, model.Notice) {
	return e.store.Default(), model.Notice{Kind: model.NoticeSuccess, Message: model.MsgTemplateReset}
}

// Save enregistre input après trim.
func (e *Editor) Save(ctx context.Context, input string) (model.Notice, error) {
	value := strings.TrimSpace(input)
	if value == "" {
		e.record("empty")
		return model.Notice{Kind: model.NoticeError, Message: model.MsgTemplateEmpty}, ErrEmptyTemplate
	}
	if err := e.store.Set(ctx, value); err != nil {
		e.record("error")
		return model.Notice{Kind: model.NoticeError, Message: model.MsgTemplateSaveFailed}, fmt.Errorf("settings: %w", err)
	}
	e.record("saved")
	return model.Notice{Kind: model.NoticeSuccess, Message: model.MsgTemplateSaved}, nil
}

func (e *Editor) record(result string) {
	if e.metrics == nil {
		return
	}
	e.metrics.TemplateSaves.WithLabelValues(result).Inc()
}
