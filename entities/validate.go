package entities

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validate checks list id uniqueness and every contained entity.
func (s State) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Config),
		validation.Field(&s.Slides, validation.By(uniqueIDs[Slide])),
		validation.Field(&s.Timelines, validation.By(uniqueIDs[TimelineCard])),
		validation.Field(&s.Articles, validation.By(uniqueIDs[Article])),
		validation.Field(&s.MenuItems, validation.By(uniqueIDs[MenuItem])),
		validation.Field(&s.Forms, validation.By(uniqueIDs[FormDefinition])),
		validation.Field(&s.TeamMembers, validation.By(uniqueIDs[TeamMember])),
	)
}

func (c SiteConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Theme, validation.In(ThemeDark, ThemeLight)),
		validation.Field(&c.ContactEmail, is.EmailFormat),
		validation.Field(&c.LeadsEmail, is.EmailFormat),
	)
}

func (a Article) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.Required),
		validation.Field(&a.Title, validation.Required),
	)
}

func (t TimelineCard) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.ID, validation.Required),
		validation.Field(&t.Title, validation.Required),
	)
}

func (s Slide) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.ID, validation.Required),
		validation.Field(&s.Order, validation.Min(0)),
	)
}

func (f FormDefinition) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.ID, validation.Required),
		validation.Field(&f.Title, validation.Required),
		validation.Field(&f.SubmitEmail, is.EmailFormat),
		validation.Field(&f.Fields, validation.By(uniqueIDs[FormField])),
	)
}

func (f FormField) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.ID, validation.Required),
		validation.Field(&f.Label, validation.Required),
		validation.Field(&f.Type, validation.Required, validation.By(func(value any) error {
			if t, _ := value.(FieldType); !t.Valid() {
				return validation.NewError("entities.field_type_invalid", fmt.Sprintf("unsupported field type %q", t))
			}
			return nil
		})),
		validation.Field(&f.Options,
			validation.When(f.Type.RequiresOptions(), validation.Required).
				Else(validation.Empty),
		),
	)
}

func (m TeamMember) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, validation.Required),
		validation.Field(&m.FullName, validation.Required),
		validation.Field(&m.Email, is.EmailFormat),
	)
}

func (m MenuItem) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, validation.Required),
		validation.Field(&m.Label, validation.Required),
		validation.Field(&m.Cat, validation.Required),
	)
}

func uniqueIDs[T Entity](value any) error {
	items, _ := value.([]T)
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		id := item.EntityID()
		if _, dup := seen[id]; dup {
			return validation.NewError("entities.id_duplicate", fmt.Sprintf("duplicate id %q", id))
		}
		seen[id] = struct{}{}
	}
	return nil
}
