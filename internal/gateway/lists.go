package gateway

import (
	"context"
	"slices"
	"strings"

	"github.com/goliatone/go-firmsite/entities"
	"github.com/goliatone/go-firmsite/internal/reconcile"
)

// List edits one entity list of the state by id, keeping order.
type List[T entities.Entity] struct {
	g     *Gateway
	key   string
	field func(*entities.State) *[]T
}

func newList[T entities.Entity](g *Gateway, key string, field func(*entities.State) *[]T) List[T] {
	return List[T]{g: g, key: key, field: field}
}

func (g *Gateway) Articles() List[entities.Article] {
	return newList(g, reconcile.KeyArticles, func(s *entities.State) *[]entities.Article { return &s.Articles })
}

func (g *Gateway) Slides() List[entities.Slide] {
	return newList(g, reconcile.KeySlides, func(s *entities.State) *[]entities.Slide { return &s.Slides })
}

func (g *Gateway) Timelines() List[entities.TimelineCard] {
	return newList(g, reconcile.KeyTimelines, func(s *entities.State) *[]entities.TimelineCard { return &s.Timelines })
}

func (g *Gateway) Forms() List[entities.FormDefinition] {
	return newList(g, reconcile.KeyForms, func(s *entities.State) *[]entities.FormDefinition { return &s.Forms })
}

func (g *Gateway) TeamMembers() List[entities.TeamMember] {
	return newList(g, reconcile.KeyTeamMembers, func(s *entities.State) *[]entities.TeamMember { return &s.TeamMembers })
}

func (g *Gateway) MenuItems() List[entities.MenuItem] {
	return newList(g, reconcile.KeyMenuItems, func(s *entities.State) *[]entities.MenuItem { return &s.MenuItems })
}

// Key returns the wire name of the list.
func (l List[T]) Key() string {
	return l.key
}

// All returns a copy of the list.
func (l List[T]) All() []T {
	state := l.g.Snapshot()
	return *l.field(&state)
}

// Get returns the item with id.
func (l List[T]) Get(id string) (T, bool) {
	for _, item := range l.All() {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Add appends item. Its id must be set and unused.
func (l List[T]) Add(ctx context.Context, item T) error {
	return l.edit(ctx, func(items []T) ([]T, error) {
		if err := requireID(item); err != nil {
			return nil, err
		}
		if indexOf(items, item.EntityID()) >= 0 {
			return nil, ErrDuplicateID
		}
		return append(items, item), nil
	})
}

// Update replaces the item with the same id in place.
func (l List[T]) Update(ctx context.Context, item T) error {
	return l.edit(ctx, func(items []T) ([]T, error) {
		idx := indexOf(items, item.EntityID())
		if idx < 0 {
			return nil, ErrNotFound
		}
		items[idx] = item
		return items, nil
	})
}

// Upsert updates the item when its id exists and appends it otherwise.
func (l List[T]) Upsert(ctx context.Context, item T) (created bool, err error) {
	err = l.edit(ctx, func(items []T) ([]T, error) {
		if err := requireID(item); err != nil {
			return nil, err
		}
		if idx := indexOf(items, item.EntityID()); idx >= 0 {
			items[idx] = item
			return items, nil
		}
		created = true
		return append(items, item), nil
	})
	return created, err
}

// Remove deletes the item with id, keeping the order of the rest.
func (l List[T]) Remove(ctx context.Context, id string) error {
	return l.edit(ctx, func(items []T) ([]T, error) {
		idx := indexOf(items, id)
		if idx < 0 {
			return nil, ErrNotFound
		}
		return slices.Delete(items, idx, idx+1), nil
	})
}

// Replace swaps the whole list.
func (l List[T]) Replace(ctx context.Context, items []T) error {
	return l.edit(ctx, func([]T) ([]T, error) {
		return slices.Clone(nonNil(items)), nil
	})
}

func (l List[T]) edit(ctx context.Context, fn func([]T) ([]T, error)) error {
	_, err := l.g.mutate(ctx, SourceLocal, []string{l.key}, func(state *entities.State) error {
		field := l.field(state)
		next, err := fn(*field)
		if err != nil {
			return err
		}
		*field = nonNil(next)
		// Deep copy so items handed in by the caller are not shared.
		*state = state.Clone()
		return nil
	})
	return err
}

func requireID[T entities.Entity](item T) error {
	if strings.TrimSpace(item.EntityID()) == "" {
		return ErrMissingID
	}
	return nil
}

func indexOf[T entities.Entity](items []T, id string) int {
	return slices.IndexFunc(items, func(item T) bool { return item.EntityID() == id })
}
