package lifecycle

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/MrSnakeDoc/khub/internal/domain"
	huberrors "github.com/MrSnakeDoc/khub/internal/errors"
	"github.com/MrSnakeDoc/khub/internal/logger"
)

func collectionKey(id string) string { return "collection:" + id }

// Collections fetches the collections and caches them on the list.
func (c *Controller) Collections(ctx context.Context) ([]domain.Collection, error) {
	cols, err := c.remote.ListCollections(ctx)
	if err != nil {
		c.fail("load collections", err)
		return nil, err
	}
	c.list.SetCollections(cols)
	return cols, nil
}

// CreateCollection creates a collection and appends it to the cache.
func (c *Controller) CreateCollection(ctx context.Context, name string) (domain.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Collection{}, huberrors.ValidationWithDetails("name is required", map[string]string{"name": "is required"})
	}
	col, err := c.remote.CreateCollection(ctx, name)
	if err != nil {
		c.fail("create collection", err)
		return domain.Collection{}, err
	}
	c.list.SetCollections(append(c.list.Collections(), col))
	c.logger.Info("collection created", logger.String("id", col.ID), logger.String("name", col.Name))
	return col, nil
}

// DeleteCollection removes the collection and its references from loaded
// resources. Member resources themselves are kept.
func (c *Controller) DeleteCollection(ctx context.Context, id string) error {
	before := c.list.Collections()
	if !slices.ContainsFunc(before, func(col domain.Collection) bool { return col.ID == id }) {
		return huberrors.NotFound("collection " + id + " not found")
	}

	var members []string
	for _, r := range c.list.All() {
		if hasCollection(r, id) {
			members = append(members, r.ID)
		}
	}

	c.list.SetCollections(slices.DeleteFunc(slices.Clone(before), func(col domain.Collection) bool { return col.ID == id }))
	err := c.tentative(ctx, change{
		what: "delete collection",
		keys: append([]string{collectionKey(id)}, members...),
		apply: func(list []domain.Resource) []domain.Resource {
			for i := range list {
				list[i].Collections = slices.DeleteFunc(list[i].Collections, func(ref domain.CollectionRef) bool { return ref.ID == id })
			}
			return list
		},
		remote: func(ctx context.Context) error { return c.remote.DeleteCollection(ctx, id) },
	})
	if err != nil {
		c.list.SetCollections(before)
	}
	return err
}

// AddToCollection adds one loaded resource to a collection.
func (c *Controller) AddToCollection(ctx context.Context, collectionID, resourceID string) error {
	col, err := c.collection(collectionID)
	if err != nil {
		return err
	}
	r, ok := c.list.Get(resourceID)
	if !ok {
		return huberrors.NotFound("resource " + resourceID + " is not in the current view")
	}
	if hasCollection(r, collectionID) {
		return nil
	}
	return c.tentative(ctx, change{
		what: "add to collection",
		keys: []string{resourceID},
		apply: updateID(resourceID, func(r *domain.Resource) {
			r.Collections = append(r.Collections, domain.CollectionRef{ID: col.ID, Name: col.Name})
		}),
		remote: func(ctx context.Context) error { return c.remote.AddToCollection(ctx, collectionID, resourceID) },
	})
}

// RemoveFromCollection drops one loaded resource from a collection.
func (c *Controller) RemoveFromCollection(ctx context.Context, collectionID, resourceID string) error {
	if _, ok := c.list.Get(resourceID); !ok {
		return huberrors.NotFound("resource " + resourceID + " is not in the current view")
	}
	return c.tentative(ctx, change{
		what: "remove from collection",
		keys: []string{resourceID},
		apply: updateID(resourceID, func(r *domain.Resource) {
			r.Collections = slices.DeleteFunc(r.Collections, func(ref domain.CollectionRef) bool { return ref.ID == collectionID })
		}),
		remote: func(ctx context.Context) error { return c.remote.RemoveFromCollection(ctx, collectionID, resourceID) },
	})
}

// AddSelectionToCollection adds every selected resource in one request.
func (c *Controller) AddSelectionToCollection(ctx context.Context, collectionID string) error {
	col, err := c.collection(collectionID)
	if err != nil {
		return err
	}
	ids := c.selection.IDs()
	if len(ids) == 0 {
		return huberrors.Validation("no resources selected")
	}
	ref := domain.CollectionRef{ID: col.ID, Name: col.Name}
	err = c.tentative(ctx, change{
		what: fmt.Sprintf("add %d resources to collection", len(ids)),
		keys: ids,
		apply: func(list []domain.Resource) []domain.Resource {
			for i := range list {
				if slices.Contains(ids, list[i].ID) && !hasCollection(list[i], col.ID) {
					list[i].Collections = append(list[i].Collections, ref)
				}
			}
			return list
		},
		remote: func(ctx context.Context) error { return c.remote.AddManyToCollection(ctx, collectionID, ids) },
	})
	if err == nil {
		c.selection.Clear()
	}
	return err
}

func (c *Controller) collection(id string) (domain.Collection, error) {
	for _, col := range c.list.Collections() {
		if col.ID == id {
			return col, nil
		}
	}
	return domain.Collection{}, huberrors.NotFound("collection " + id + " not found")
}

func hasCollection(r domain.Resource, id string) bool {
	return slices.ContainsFunc(r.Collections, func(ref domain.CollectionRef) bool { return ref.ID == id })
}
