package entities

import "slices"

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Slides = slices.Clone(s.Slides)
	out.Timelines = cloneEach(s.Timelines, TimelineCard.clone)
	out.Articles = cloneEach(s.Articles, Article.clone)
	out.MenuItems = slices.Clone(s.MenuItems)
	out.Forms = cloneEach(s.Forms, FormDefinition.clone)
	out.TeamMembers = slices.Clone(s.TeamMembers)
	return out
}

func (a Article) clone() Article {
	a.Categories = slices.Clone(a.Categories)
	a.Tabs = slices.Clone(a.Tabs)
	return a
}

func (t TimelineCard) clone() TimelineCard {
	t.Category = slices.Clone(t.Category)
	return t
}

func (f FormDefinition) clone() FormDefinition {
	f.Fields = cloneEach(f.Fields, func(field FormField) FormField {
		field.Options = slices.Clone(field.Options)
		return field
	})
	return f
}

func cloneEach[T any](items []T, fn func(T) T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}
