package statecmd

import (
	"slices"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-firmsite/entities"
	"github.com/google/uuid"
)

const (
	upsertArticleMessageType      = "firmsite.state.article.upsert"
	upsertFormMessageType         = "firmsite.state.form.upsert"
	upsertTeamMemberMessageType   = "firmsite.state.team_member.upsert"
	upsertSlideMessageType        = "firmsite.state.slide.upsert"
	upsertTimelineMessageType     = "firmsite.state.timeline.upsert"
	upsertMenuItemMessageType     = "firmsite.state.menu_item.upsert"
	updateSiteConfigMessageType   = "firmsite.state.config.update"
	removeEntityMessageType       = "firmsite.state.entity.remove"
	updateIntegrationsMessageType = "firmsite.state.integrations.update"
	loginMessageType              = "firmsite.state.session.login"
	logoutMessageType             = "firmsite.state.session.logout"
	setCategoryMessageType        = "firmsite.state.session.category"
)

// EntityKind names a content list of the site state.
type EntityKind string

const (
	KindArticle    EntityKind = "article"
	KindSlide      EntityKind = "slide"
	KindTimeline   EntityKind = "timeline"
	KindForm       EntityKind = "form"
	KindTeamMember EntityKind = "team_member"
	KindMenuItem   EntityKind = "menu_item"
)

// EntityKinds lists every removable kind.
func EntityKinds() []EntityKind {
	return []EntityKind{KindArticle, KindSlide, KindTimeline, KindForm, KindTeamMember, KindMenuItem}
}

// UpsertArticleCommand creates or replaces an article. An empty ID creates a
// new article with a generated id.
type UpsertArticleCommand struct {
	Article entities.Article `json:"article"`
	ActorID uuid.UUID        `json:"actor_id,omitempty"`
}

// Type implements command.Message.
func (UpsertArticleCommand) Type() string { return upsertArticleMessageType }

// Validate checks the article before it reaches the gateway.
func (m UpsertArticleCommand) Validate() error {
	article := m.Article
	return validation.ValidateStruct(&article,
		validation.Field(&article.Title, validation.Required),
		validation.Field(&article.Categories, validation.Each(validation.In(knownCategories()...))),
		validation.Field(&article.ImageURL, is.URL),
		validation.Field(&article.VideoURL, is.URL),
	)
}

// UpsertFormCommand creates or replaces a form definition. Fields without
// an id get one derived from their label.
type UpsertFormCommand struct {
	Form    entities.FormDefinition `json:"form"`
	ActorID uuid.UUID               `json:"actor_id,omitempty"`
}

// Type implements command.Message.
func (UpsertFormCommand) Type() string { return upsertFormMessageType }

// Validate checks the form definition shape.
func (m UpsertFormCommand) Validate() error {
	form := m.Form
	return validation.ValidateStruct(&form,
		validation.Field(&form.Title, validation.Required),
		validation.Field(&form.SubmitEmail, is.EmailFormat),
		validation.Field(&form.Fields, validation.By(validateFieldShapes), validation.Skip),
	)
}

// UpsertTeamMemberCommand creates or replaces a team member profile.
type UpsertTeamMemberCommand struct {
	Member  entities.TeamMember `json:"member"`
	ActorID uuid.UUID           `json:"actor_id,omitempty"`
}

// Type implements command.Message.
func (UpsertTeamMemberCommand) Type() string { return upsertTeamMemberMessageType }

// Validate checks the profile before it reaches the gateway.
func (m UpsertTeamMemberCommand) Validate() error {
	member := m.Member
	return validation.ValidateStruct(&member,
		validation.Field(&member.FullName, validation.Required),
		validation.Field(&member.Email, is.EmailFormat),
		validation.Field(&member.ImageURL, is.URL),
	)
}

// UpsertSlideCommand creates or replaces a hero slide.
type UpsertSlideCommand struct {
	Slide   entities.Slide `json:"slide"`
	ActorID uuid.UUID      `json:"actor_id,omitempty"`
}

// Type implements command.Message.
func (UpsertSlideCommand) Type() string { return upsertSlideMessageType }

// Validate checks the slide before it reaches the gateway.
func (m UpsertSlideCommand) Validate() error {
	slide := m.Slide
	return validation.ValidateStruct(&slide,
		validation.Field(&slide.ImageURL, validation.Required, is.URL),
		validation.Field(&slide.Category, validation.In(knownCategories()...)),
		validation.Field(&slide.Order, validation.Min(0)),
	)
}

// UpsertTimelineCommand creates or replaces a timeline card.
type UpsertTimelineCommand struct {
	Card    entities.TimelineCard `json:"card"`
	ActorID uuid.UUID             `json:"actor_id,omitempty"`
}

// Type implements command.Message.
func (UpsertTimelineCommand) Type() string { return upsertTimelineMessageType }

// Validate checks the card before it reaches the gateway.
func (m UpsertTimelineCommand) Validate() error {
	card := m.Card
	return validation.ValidateStruct(&card,
		validation.Field(&card.Title, validation.Required),
		validation.Field(&card.Category, validation.Each(validation.In(knownCategories()...))),
		validation.Field(&card.ImageURL, is.URL),
	)
}

// UpsertMenuItemCommand creates or replaces a navigation entry.
type UpsertMenuItemCommand struct {
	Item    entities.MenuItem `json:"item"`
	ActorID uuid.UUID         `json:"actor_id,omitempty"`
}

// Type implements command.Message.
func (UpsertMenuItemCommand) Type() string { return upsertMenuItemMessageType }

// Validate requires a label and a known target category.
func (m UpsertMenuItemCommand) Validate() error {
	item := m.Item
	return validation.ValidateStruct(&item,
		validation.Field(&item.Label, validation.Required),
		validation.Field(&item.Cat, validation.Required, validation.In(knownCategories()...)),
	)
}

// SiteConfigChanges lists the site settings to overwrite. Nil fields keep
// their current value. Integrations have their own command.
type SiteConfigChanges struct {
	OfficeName    *string         `json:"officeName,omitempty"`
	LogoURL       *string         `json:"logoUrl,omitempty"`
	ContactEmail  *string         `json:"contactEmail,omitempty"`
	LeadsEmail    *string         `json:"leadsEmail,omitempty"`
	Phone         *string         `json:"phone,omitempty"`
	Address       *string         `json:"address,omitempty"`
	Theme         *entities.Theme `json:"theme,omitempty"`
	AdminPassword *string         `json:"adminPassword,omitempty"`
}

// Apply writes the non-nil changes onto site.
func (c SiteConfigChanges) Apply(site *entities.SiteConfig) {
	for _, change := range []struct {
		from *string
		to   *string
	}{
		{c.OfficeName, &site.OfficeName},
		{c.LogoURL, &site.LogoURL},
		{c.ContactEmail, &site.ContactEmail},
		{c.LeadsEmail, &site.LeadsEmail},
		{c.Phone, &site.Phone},
		{c.Address, &site.Address},
		{c.AdminPassword, &site.AdminPassword},
	} {
		if change.from != nil {
			*change.to = *change.from
		}
	}
	if c.Theme != nil {
		site.Theme = *c.Theme
	}
}

// Keys names the changed settings using their JSON keys.
func (c SiteConfigChanges) Keys() []string {
	var keys []string
	for key, set := range map[string]bool{
		"officeName":    c.OfficeName != nil,
		"logoUrl":       c.LogoURL != nil,
		"contactEmail":  c.ContactEmail != nil,
		"leadsEmail":    c.LeadsEmail != nil,
		"phone":         c.Phone != nil,
		"address":       c.Address != nil,
		"theme":         c.Theme != nil,
		"adminPassword": c.AdminPassword != nil,
	} {
		if set {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}

// UpdateSiteConfigCommand edits office details, theme and the admin password.
type UpdateSiteConfigCommand struct {
	Changes SiteConfigChanges `json:"changes"`
	ActorID uuid.UUID         `json:"actor_id,omitempty"`
}

// Type implements command.Message.
func (UpdateSiteConfigCommand) Type() string { return updateSiteConfigMessageType }

// Validate requires at least one change and checks formats of the set ones.
// The admin password can be changed but not cleared.
func (m UpdateSiteConfigCommand) Validate() error {
	if len(m.Changes.Keys()) == 0 {
		return validation.NewError("firmsite.state.config_unchanged", "no settings to update")
	}
	c := m.Changes
	return validation.ValidateStruct(&c,
		validation.Field(&c.OfficeName, validation.NilOrNotEmpty),
		validation.Field(&c.LogoURL, is.URL),
		validation.Field(&c.ContactEmail, is.EmailFormat),
		validation.Field(&c.LeadsEmail, is.EmailFormat),
		validation.Field(&c.Theme, validation.NilOrNotEmpty, validation.In(entities.ThemeDark, entities.ThemeLight)),
		validation.Field(&c.AdminPassword, validation.NilOrNotEmpty),
	)
}

// RemoveEntityCommand deletes one entity from the list named by Kind.
type RemoveEntityCommand struct {
	Kind    EntityKind `json:"kind"`
	ID      string     `json:"id"`
	ActorID uuid.UUID  `json:"actor_id,omitempty"`
}

// Type implements command.Message.
func (RemoveEntityCommand) Type() string { return removeEntityMessageType }

// Validate ensures the kind is known and the id is present.
func (m RemoveEntityCommand) Validate() error {
	kinds := make([]any, 0, len(EntityKinds()))
	for _, kind := range EntityKinds() {
		kinds = append(kinds, kind)
	}
	return validation.ValidateStruct(&m,
		validation.Field(&m.Kind, validation.Required, validation.In(kinds...)),
		validation.Field(&m.ID, validation.Required),
	)
}

// UpdateIntegrationsCommand replaces the integration credentials of the
// site configuration.
type UpdateIntegrationsCommand struct {
	Integrations entities.Integrations `json:"integrations"`
	ActorID      uuid.UUID             `json:"actor_id,omitempty"`
}

// Type implements command.Message.
func (UpdateIntegrationsCommand) Type() string { return updateIntegrationsMessageType }

// Validate checks endpoint and payment link formats. Payment links accept
// "#" as the not-configured marker.
func (m UpdateIntegrationsCommand) Validate() error {
	in := m.Integrations
	return validation.ValidateStruct(&in,
		validation.Field(&in.SupabaseURL, is.URL),
		validation.Field(&in.GoogleSheetsURL, is.URL),
		validation.Field(&in.PaymentLinkWill, validation.By(paymentLink)),
		validation.Field(&in.PaymentLinkPOA, validation.By(paymentLink)),
		validation.Field(&in.PaymentLinkConsultation, validation.By(paymentLink)),
	)
}

// LoginCommand attempts an admin login.
type LoginCommand struct {
	Password string `json:"password"`
}

// Type implements command.Message.
func (LoginCommand) Type() string { return loginMessageType }

// Validate requires a password.
func (m LoginCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Password, validation.Required),
	)
}

// LogoutCommand ends the admin session.
type LogoutCommand struct{}

// Type implements command.Message.
func (LogoutCommand) Type() string { return logoutMessageType }

// Validate satisfies command.Message.
func (LogoutCommand) Validate() error { return nil }

// SetCategoryCommand changes the visible section.
type SetCategoryCommand struct {
	Category entities.Category `json:"category"`
}

// Type implements command.Message.
func (SetCategoryCommand) Type() string { return setCategoryMessageType }

// Validate requires a known category.
func (m SetCategoryCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Category, validation.Required, validation.In(knownCategories()...)),
	)
}

func knownCategories() []any {
	categories := entities.Categories()
	out := make([]any, 0, len(categories))
	for _, category := range categories {
		out = append(out, category)
	}
	return out
}

// validateFieldShapes checks labels and types only; ids are assigned by the
// handler.
func validateFieldShapes(value any) error {
	fields, _ := value.([]entities.FormField)
	errs := validation.Errors{}
	for i, field := range fields {
		err := validation.ValidateStruct(&field,
			validation.Field(&field.Label, validation.Required),
			validation.Field(&field.Type, validation.Required, validation.By(func(any) error {
				if !field.Type.Valid() {
					return validation.NewError("firmsite.state.field_type_invalid", "unsupported field type")
				}
				return nil
			})),
		)
		if err != nil {
			errs[strconv.Itoa(i)] = err
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func paymentLink(value any) error {
	link, _ := value.(string)
	link = strings.TrimSpace(link)
	if link == "" || link == "#" {
		return nil
	}
	return is.URL.Validate(link)
}
