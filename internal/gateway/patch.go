package gateway

import (
	"slices"

	"github.com/goliatone/go-firmsite/entities"
	"github.com/goliatone/go-firmsite/internal/reconcile"
)

// Patch names the top-level keys to replace. Nil fields are left untouched;
// a pointer to an empty slice clears the list.
type Patch struct {
	CurrentCategory *entities.Category
	IsAdminLoggedIn *bool
	Config          *entities.SiteConfig
	Slides          *[]entities.Slide
	Timelines       *[]entities.TimelineCard
	Articles        *[]entities.Article
	MenuItems       *[]entities.MenuItem
	Forms           *[]entities.FormDefinition
	TeamMembers     *[]entities.TeamMember
}

// Keys lists the wire names of the keys the patch replaces.
func (p Patch) Keys() []string {
	keys := []string{}
	add := func(set bool, key string) {
		if set {
			keys = append(keys, key)
		}
	}
	add(p.CurrentCategory != nil, reconcile.KeyCurrentCategory)
	add(p.IsAdminLoggedIn != nil, reconcile.KeyIsAdminLoggedIn)
	add(p.Config != nil, reconcile.KeyConfig)
	add(p.Slides != nil, reconcile.KeySlides)
	add(p.Timelines != nil, reconcile.KeyTimelines)
	add(p.Articles != nil, reconcile.KeyArticles)
	add(p.MenuItems != nil, reconcile.KeyMenuItems)
	add(p.Forms != nil, reconcile.KeyForms)
	add(p.TeamMembers != nil, reconcile.KeyTeamMembers)
	return keys
}

// Empty reports whether the patch replaces nothing.
func (p Patch) Empty() bool {
	return len(p.Keys()) == 0
}

// apply copies every provided value onto state. Slices are deep-copied so
// the caller keeps ownership of its arguments.
func (p Patch) apply(state *entities.State) {
	if p.CurrentCategory != nil {
		state.CurrentCategory = *p.CurrentCategory
	}
	if p.IsAdminLoggedIn != nil {
		state.IsAdminLoggedIn = *p.IsAdminLoggedIn
	}
	if p.Config != nil {
		state.Config = *p.Config
	}
	patched := entities.State{}
	if p.Slides != nil {
		patched.Slides = nonNil(*p.Slides)
	}
	if p.Timelines != nil {
		patched.Timelines = nonNil(*p.Timelines)
	}
	if p.Articles != nil {
		patched.Articles = nonNil(*p.Articles)
	}
	if p.MenuItems != nil {
		patched.MenuItems = nonNil(*p.MenuItems)
	}
	if p.Forms != nil {
		patched.Forms = nonNil(*p.Forms)
	}
	if p.TeamMembers != nil {
		patched.TeamMembers = nonNil(*p.TeamMembers)
	}
	patched = patched.Clone()
	if p.Slides != nil {
		state.Slides = patched.Slides
	}
	if p.Timelines != nil {
		state.Timelines = patched.Timelines
	}
	if p.Articles != nil {
		state.Articles = patched.Articles
	}
	if p.MenuItems != nil {
		state.MenuItems = patched.MenuItems
	}
	if p.Forms != nil {
		state.Forms = patched.Forms
	}
	if p.TeamMembers != nil {
		state.TeamMembers = patched.TeamMembers
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// Ptr returns a pointer to value, for building patches inline.
func Ptr[T any](value T) *T {
	return &value
}

// SlicePtr returns a pointer to a copy of items.
func SlicePtr[T any](items []T) *[]T {
	copied := slices.Clone(nonNil(items))
	return &copied
}
