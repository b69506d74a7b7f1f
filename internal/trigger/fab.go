package trigger

import (
	"context"
	"errors"
	"fmt"

	"github.com/patrickprogramme/transcopy/internal/page"
	"github.com/patrickprogramme/transcopy/pkg/model"
)

// InstallFAB branche la source d'appuis du bouton flottant. Seul le premier
// appel est pris en compte.
func (c *Coordinator) InstallFAB(presses <-chan struct{}) bool {
	installed := false
	c.fabOnce.Do(func() {
		c.mu.Lock()
		c.fab = presses
		c.mu.Unlock()
		installed = true
	})
	return installed
}

func (c *Coordinator) fabPresses() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fab
}

// HandleFAB : ouvre la barre latérale si besoin puis copie.
// Ne fait rien si une copie est déjà en cours.
func (c *Coordinator) HandleFAB(ctx context.Context) (model.Outcome, error) {
	if c.copier.Busy() {
		return model.OutcomeBusy, nil
	}

	doc, err := c.page.Snapshot(ctx)
	if err != nil {
		c.notify(model.NoticeError, model.MsgCopyFailed)
		return model.OutcomeFailed, fmt.Errorf("trigger: snapshot: %w", err)
	}

	wait := c.timings.FABAlreadyOpenWait
	if !IsSidebarOpen(doc) {
		if doc.Find(ToggleSelector).Length() == 0 {
			c.notify(model.NoticeError, model.MsgToggleMissing)
			return model.OutcomeNotFound, nil
		}
		err := c.page.Click(ctx, ToggleSelector)
		switch {
		case errors.Is(err, page.ErrReadOnly):
			// page en lecture seule : on tente quand même la copie
			c.log.Warn().Msg("page is read-only, transcript sidebar cannot be opened")
		case errors.Is(err, page.ErrNoMatch):
			c.notify(model.NoticeError, model.MsgToggleMissing)
			return model.OutcomeNotFound, nil
		case err != nil:
			c.notify(model.NoticeError, model.MsgCopyFailed)
			return model.OutcomeFailed, fmt.Errorf("trigger: open sidebar: %w", err)
		default:
			wait = c.timings.FABOpenWait
		}
	}

	if err := sleep(ctx, wait); err != nil {
		return model.OutcomeFailed, err
	}
	return c.copy(ctx), nil
}
