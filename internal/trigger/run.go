package trigger

import (
	"context"
	"errors"
	"time"

	"github.com/patrickprogramme/transcopy/internal/page"
)

// Run est la boucle d'événements : changements de structure, minuterie de
// sécurité, clics utilisateur et bouton flottant. Retourne à l'annulation de
// ctx, après la fin des handlers en cours.
func (c *Coordinator) Run(ctx context.Context) error {
	defer c.wg.Wait()

	ticker := time.NewTicker(c.timings.Poll)
	defer ticker.Stop()

	changes := c.watch(ctx)
	clicks := c.clicks(ctx)
	fab := c.fabPresses()

	c.syncLogged(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case _, ok := <-changes:
			if !ok {
				// abonnement perdu : reprise au prochain tick
				changes = nil
				continue
			}
			c.syncLogged(ctx)

		case <-ticker.C:
			if changes == nil {
				changes = c.watch(ctx)
			}
			if clicks == nil {
				clicks = c.clicks(ctx)
			}
			c.syncLogged(ctx)

		case click, ok := <-clicks:
			if !ok {
				clicks = nil
				continue
			}
			if _, err := c.Dispatch(ctx, click); err != nil {
				c.log.Debug().Err(err).Str("selector", click.Selector).Msg("user click ignored")
			}

		case _, ok := <-fab:
			if !ok {
				fab = nil
				continue
			}
			c.fire(ctx, "fab", func(ctx context.Context) {
				if _, err := c.HandleFAB(ctx); err != nil && !errors.Is(err, context.Canceled) {
					c.log.Error().Err(err).Msg("floating button action failed")
				}
			})
		}
	}
}

func (c *Coordinator) syncLogged(ctx context.Context) {
	if err := c.Sync(ctx); err != nil && ctx.Err() == nil {
		c.log.Debug().Err(err).Msg("sync skipped")
	}
}

func (c *Coordinator) watch(ctx context.Context) <-chan page.Change {
	w, ok := c.page.(page.Watcher)
	if !ok {
		return nil
	}
	ch, err := w.Watch(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("structure watch unavailable, polling only")
		return nil
	}
	return ch
}

func (c *Coordinator) clicks(ctx context.Context) <-chan page.UserClick {
	s, ok := c.page.(page.ClickSource)
	if !ok {
		return nil
	}
	ch, err := s.Clicks(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("user click stream unavailable")
		return nil
	}
	return ch
}
