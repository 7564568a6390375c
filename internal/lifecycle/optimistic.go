package lifecycle

import (
	"context"
	"slices"

	"github.com/MrSnakeDoc/khub/internal/domain"
	"github.com/MrSnakeDoc/khub/internal/logger"
)

// change is one tentative mutation: apply runs on the local list right away,
// remote confirms it, and the snapshot taken before apply is restored when
// remote fails.
type change struct {
	// what names the operation in logs and banners, e.g. "archive resource".
	what string
	// keys are reserved in the single-flight guard for the whole change.
	keys []string
	// prompt, when set, must be confirmed before anything happens.
	prompt *Prompt
	apply  func([]domain.Resource) []domain.Resource
	remote func(ctx context.Context) error
}

// tentative runs a change: reserve, confirm, snapshot, apply, call, and
// either keep the mutation or roll it back.
func (c *Controller) tentative(ctx context.Context, ch change) error {
	release, err := c.guard.acquire(ch.keys)
	if err != nil {
		c.logger.Debug("change rejected, another one is in flight",
			logger.String("operation", ch.what),
			logger.Error(err))
		return err
	}
	defer release()

	if ch.prompt != nil {
		if err := c.confirmPrompt(ctx, *ch.prompt); err != nil {
			return err
		}
	}

	snap := c.list.Snapshot()
	if ch.apply != nil {
		c.list.Mutate(ch.apply)
	}

	if err := ch.remote(ctx); err != nil {
		if c.list.Restore(snap, ch.keys) {
			c.logger.Info("rolled back optimistic change",
				logger.String("operation", ch.what),
				logger.Strings("keys", ch.keys))
		} else {
			c.logger.Debug("rollback skipped, list was reloaded",
				logger.String("operation", ch.what))
		}
		c.fail(ch.what, err)
		return err
	}
	return nil
}

func (c *Controller) confirmPrompt(ctx context.Context, p Prompt) error {
	if c.confirm == nil {
		return errNoConfirmer
	}
	if err := c.confirm.Confirm(ctx, p); err != nil {
		c.logger.Debug("action not confirmed",
			logger.String("action", string(p.Action)),
			logger.Error(err))
		return err
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────
// List mutations
// ─────────────────────────────────────────────────────────────────

func removeIDs(ids ...string) func([]domain.Resource) []domain.Resource {
	return func(list []domain.Resource) []domain.Resource {
		return slices.DeleteFunc(list, func(r domain.Resource) bool { return slices.Contains(ids, r.ID) })
	}
}

func updateID(id string, fn func(*domain.Resource)) func([]domain.Resource) []domain.Resource {
	return func(list []domain.Resource) []domain.Resource {
		for i := range list {
			if list[i].ID == id {
				fn(&list[i])
			}
		}
		return list
	}
}

func clearAll(_ []domain.Resource) []domain.Resource {
	return []domain.Resource{}
}
