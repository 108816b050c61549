// Package statecmd exposes site state edits as go-command messages executed
// through the mutation gateway.
package statecmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-firmsite/entities"
	"github.com/goliatone/go-firmsite/internal/commands"
	"github.com/goliatone/go-firmsite/internal/gateway"
	"github.com/goliatone/go-firmsite/internal/logging"
	"github.com/goliatone/go-firmsite/pkg/interfaces"
	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned by the login handler when the password
// does not match.
var ErrInvalidCredentials = errors.New("statecmd: invalid admin credentials")

// Option configures the handler bundle.
type Option func(*config)

type config struct {
	sink    interfaces.ActivitySink
	logger  interfaces.Logger
	now     func() time.Time
	timeout time.Duration
}

// WithActivitySink emits an activity record for every admin edit.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(c *config) {
		c.sink = sink
	}
}

// WithLogger sets the logger shared by every handler.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the clock used for activity timestamps and command durations.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithTimeout overrides the per-command execution timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.timeout = timeout
	}
}

// Handlers bundles every state command handler.
type Handlers struct {
	UpsertArticle      *commands.Handler[UpsertArticleCommand]
	UpsertForm         *commands.Handler[UpsertFormCommand]
	UpsertTeamMember   *commands.Handler[UpsertTeamMemberCommand]
	UpsertSlide        *commands.Handler[UpsertSlideCommand]
	UpsertTimeline     *commands.Handler[UpsertTimelineCommand]
	UpsertMenuItem     *commands.Handler[UpsertMenuItemCommand]
	UpdateSiteConfig   *commands.Handler[UpdateSiteConfigCommand]
	RemoveEntity       *commands.Handler[RemoveEntityCommand]
	UpdateIntegrations *commands.Handler[UpdateIntegrationsCommand]
	Login              *commands.Handler[LoginCommand]
	Logout             *commands.Handler[LogoutCommand]
	SetCategory        *commands.Handler[SetCategoryCommand]
}

// NewHandlers wires the handlers to the gateway.
func NewHandlers(gw *gateway.Gateway, opts ...Option) *Handlers {
	cfg := config{
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	activity := activityRecorder{
		sink:   cfg.sink,
		logger: cfg.logger,
		now:    cfg.now,
		tenant: siteTenant(func() string { return gw.Snapshot().Config.OfficeName }),
	}

	return &Handlers{
		UpsertArticle: commands.NewHandler(func(ctx context.Context, msg UpsertArticleCommand) error {
			article := msg.Article
			if strings.TrimSpace(article.ID) == "" {
				article.ID = entities.NewID()
			}
			if err := article.Validate(); err != nil {
				return err
			}
			created, err := gw.Articles().Upsert(ctx, article)
			if err != nil {
				return err
			}
			activity.record(ctx, msg.ActorID, upsertVerb(created), string(KindArticle), article.ID, map[string]any{
				"title": article.Title,
			})
			return nil
		}, handlerOptions(cfg, "state.article.upsert", func(msg UpsertArticleCommand) map[string]any {
			return idFields(msg.Article.ID, msg.ActorID)
		})...),

		UpsertForm: commands.NewHandler(func(ctx context.Context, msg UpsertFormCommand) error {
			form := msg.Form
			if strings.TrimSpace(form.ID) == "" {
				form.ID = entities.NewID()
			}
			form.Fields = assignFieldIDs(form.Fields)
			if err := form.Validate(); err != nil {
				return err
			}
			created, err := gw.Forms().Upsert(ctx, form)
			if err != nil {
				return err
			}
			activity.record(ctx, msg.ActorID, upsertVerb(created), string(KindForm), form.ID, map[string]any{
				"title":  form.Title,
				"fields": len(form.Fields),
			})
			return nil
		}, handlerOptions(cfg, "state.form.upsert", func(msg UpsertFormCommand) map[string]any {
			return idFields(msg.Form.ID, msg.ActorID)
		})...),

		UpsertTeamMember: commands.NewHandler(func(ctx context.Context, msg UpsertTeamMemberCommand) error {
			member := msg.Member
			if strings.TrimSpace(member.ID) == "" {
				member.ID = entities.NewID()
			}
			if err := member.Validate(); err != nil {
				return err
			}
			created, err := gw.TeamMembers().Upsert(ctx, member)
			if err != nil {
				return err
			}
			activity.record(ctx, msg.ActorID, upsertVerb(created), string(KindTeamMember), member.ID, map[string]any{
				"full_name": member.FullName,
			})
			return nil
		}, handlerOptions(cfg, "state.team_member.upsert", func(msg UpsertTeamMemberCommand) map[string]any {
			return idFields(msg.Member.ID, msg.ActorID)
		})...),

		UpsertSlide: commands.NewHandler(func(ctx context.Context, msg UpsertSlideCommand) error {
			slide := msg.Slide
			if strings.TrimSpace(slide.ID) == "" {
				slide.ID = entities.NewID()
			}
			if err := slide.Validate(); err != nil {
				return err
			}
			created, err := gw.Slides().Upsert(ctx, slide)
			if err != nil {
				return err
			}
			activity.record(ctx, msg.ActorID, upsertVerb(created), string(KindSlide), slide.ID, map[string]any{
				"title": slide.Title,
				"order": slide.Order,
			})
			return nil
		}, handlerOptions(cfg, "state.slide.upsert", func(msg UpsertSlideCommand) map[string]any {
			return idFields(msg.Slide.ID, msg.ActorID)
		})...),

		UpsertTimeline: commands.NewHandler(func(ctx context.Context, msg UpsertTimelineCommand) error {
			card := msg.Card
			if strings.TrimSpace(card.ID) == "" {
				card.ID = entities.NewID()
			}
			if err := card.Validate(); err != nil {
				return err
			}
			created, err := gw.Timelines().Upsert(ctx, card)
			if err != nil {
				return err
			}
			activity.record(ctx, msg.ActorID, upsertVerb(created), string(KindTimeline), card.ID, map[string]any{
				"title": card.Title,
			})
			return nil
		}, handlerOptions(cfg, "state.timeline.upsert", func(msg UpsertTimelineCommand) map[string]any {
			return idFields(msg.Card.ID, msg.ActorID)
		})...),

		UpsertMenuItem: commands.NewHandler(func(ctx context.Context, msg UpsertMenuItemCommand) error {
			item := msg.Item
			if strings.TrimSpace(item.ID) == "" {
				item.ID = entities.NewID()
			}
			if err := item.Validate(); err != nil {
				return err
			}
			created, err := gw.MenuItems().Upsert(ctx, item)
			if err != nil {
				return err
			}
			activity.record(ctx, msg.ActorID, upsertVerb(created), string(KindMenuItem), item.ID, map[string]any{
				"label": item.Label,
				"cat":   item.Cat,
			})
			return nil
		}, handlerOptions(cfg, "state.menu_item.upsert", func(msg UpsertMenuItemCommand) map[string]any {
			return idFields(msg.Item.ID, msg.ActorID)
		})...),

		UpdateSiteConfig: commands.NewHandler(func(ctx context.Context, msg UpdateSiteConfigCommand) error {
			_, err := gw.UpdateConfig(ctx, func(site *entities.SiteConfig) error {
				msg.Changes.Apply(site)
				return site.Validate()
			})
			if err != nil {
				return err
			}
			// only key names; the admin password never reaches the sink
			activity.record(ctx, msg.ActorID, VerbUpdate, "config", "", map[string]any{
				"changed": msg.Changes.Keys(),
			})
			return nil
		}, handlerOptions(cfg, "state.config.update", func(msg UpdateSiteConfigCommand) map[string]any {
			fields := idFields("", msg.ActorID)
			fields["changed"] = msg.Changes.Keys()
			return fields
		})...),

		RemoveEntity: commands.NewHandler(func(ctx context.Context, msg RemoveEntityCommand) error {
			if err := removeEntity(ctx, gw, msg.Kind, msg.ID); err != nil {
				return err
			}
			activity.record(ctx, msg.ActorID, VerbDelete, string(msg.Kind), msg.ID, nil)
			return nil
		}, handlerOptions(cfg, "state.entity.remove", func(msg RemoveEntityCommand) map[string]any {
			fields := idFields(msg.ID, msg.ActorID)
			fields["kind"] = msg.Kind
			return fields
		})...),

		UpdateIntegrations: commands.NewHandler(func(ctx context.Context, msg UpdateIntegrationsCommand) error {
			_, err := gw.UpdateConfig(ctx, func(site *entities.SiteConfig) error {
				site.Integrations = msg.Integrations
				return nil
			})
			if err != nil {
				return err
			}
			activity.record(ctx, msg.ActorID, VerbUpdate, "integrations", "", map[string]any{
				"configured": configuredIntegrations(msg.Integrations),
			})
			return nil
		}, handlerOptions(cfg, "state.integrations.update", func(msg UpdateIntegrationsCommand) map[string]any {
			return idFields("", msg.ActorID)
		})...),

		Login: commands.NewHandler(func(ctx context.Context, msg LoginCommand) error {
			ok, err := gw.Login(ctx, msg.Password)
			if err != nil {
				return err
			}
			if !ok {
				return ErrInvalidCredentials
			}
			activity.record(ctx, uuid.Nil, VerbLogin, "session", "", nil)
			return nil
		}, handlerOptions[LoginCommand](cfg, "state.session.login", nil)...),

		Logout: commands.NewHandler(func(ctx context.Context, _ LogoutCommand) error {
			if err := gw.Logout(ctx); err != nil {
				return err
			}
			activity.record(ctx, uuid.Nil, VerbLogout, "session", "", nil)
			return nil
		}, handlerOptions[LogoutCommand](cfg, "state.session.logout", nil)...),

		SetCategory: commands.NewHandler(func(ctx context.Context, msg SetCategoryCommand) error {
			return gw.SetCategory(ctx, msg.Category)
		}, handlerOptions(cfg, "state.session.category", func(msg SetCategoryCommand) map[string]any {
			return map[string]any{"category": msg.Category}
		})...),
	}
}

// RegisterWith hands every handler to a host registry.
func (h *Handlers) RegisterWith(registry commands.Registry) error {
	for _, handler := range h.All() {
		if err := registry.RegisterCommand(handler); err != nil {
			return fmt.Errorf("statecmd: register %T: %w", handler, err)
		}
	}
	return nil
}

// Subscribe binds every handler to the go-command dispatcher and returns a
// function that removes the bindings.
func (h *Handlers) Subscribe() (unsubscribe func()) {
	subs := []commands.Subscription{
		dispatcher.SubscribeCommand(h.UpsertArticle),
		dispatcher.SubscribeCommand(h.UpsertForm),
		dispatcher.SubscribeCommand(h.UpsertTeamMember),
		dispatcher.SubscribeCommand(h.UpsertSlide),
		dispatcher.SubscribeCommand(h.UpsertTimeline),
		dispatcher.SubscribeCommand(h.UpsertMenuItem),
		dispatcher.SubscribeCommand(h.UpdateSiteConfig),
		dispatcher.SubscribeCommand(h.RemoveEntity),
		dispatcher.SubscribeCommand(h.UpdateIntegrations),
		dispatcher.SubscribeCommand(h.Login),
		dispatcher.SubscribeCommand(h.Logout),
		dispatcher.SubscribeCommand(h.SetCategory),
	}
	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}
}

// All lists every handler in registration order.
func (h *Handlers) All() []any {
	return []any{
		h.UpsertArticle,
		h.UpsertForm,
		h.UpsertTeamMember,
		h.UpsertSlide,
		h.UpsertTimeline,
		h.UpsertMenuItem,
		h.UpdateSiteConfig,
		h.RemoveEntity,
		h.UpdateIntegrations,
		h.Login,
		h.Logout,
		h.SetCategory,
	}
}

func handlerOptions[T command.Message](cfg config, operation string, fields func(T) map[string]any) []commands.HandlerOption[T] {
	opts := []commands.HandlerOption[T]{
		commands.WithLogger[T](cfg.logger),
		commands.WithOperation[T](operation),
		commands.WithClock[T](cfg.now),
	}
	if fields != nil {
		opts = append(opts, commands.WithMessageFields(fields))
	}
	if cfg.timeout > 0 {
		opts = append(opts, commands.WithTimeout[T](cfg.timeout))
	}
	return opts
}

func removeEntity(ctx context.Context, gw *gateway.Gateway, kind EntityKind, id string) error {
	switch kind {
	case KindArticle:
		return gw.Articles().Remove(ctx, id)
	case KindSlide:
		return gw.Slides().Remove(ctx, id)
	case KindTimeline:
		return gw.Timelines().Remove(ctx, id)
	case KindForm:
		return gw.Forms().Remove(ctx, id)
	case KindTeamMember:
		return gw.TeamMembers().Remove(ctx, id)
	case KindMenuItem:
		return gw.MenuItems().Remove(ctx, id)
	default:
		return fmt.Errorf("statecmd: unknown entity kind %q", kind)
	}
}

func assignFieldIDs(fields []entities.FormField) []entities.FormField {
	if fields == nil {
		return nil
	}
	out := make([]entities.FormField, len(fields))
	seen := make(map[string]int, len(fields))
	for i, field := range fields {
		if strings.TrimSpace(field.ID) == "" {
			field.ID = entities.FieldIDFromLabel(field.Label)
		}
		if n := seen[field.ID]; n > 0 {
			seen[field.ID] = n + 1
			field.ID = fmt.Sprintf("%s-%d", field.ID, n+1)
		} else {
			seen[field.ID] = 1
		}
		out[i] = field
	}
	return out
}

func upsertVerb(created bool) string {
	if created {
		return VerbCreate
	}
	return VerbUpdate
}

func idFields(id string, actor uuid.UUID) map[string]any {
	fields := map[string]any{}
	if id = strings.TrimSpace(id); id != "" {
		fields["id"] = id
	}
	if actor != uuid.Nil {
		fields["actor_id"] = actor
	}
	return fields
}

func configuredIntegrations(in entities.Integrations) []string {
	var out []string
	for name, value := range map[string]string{
		"supabase":     in.SupabaseURL,
		"gemini":       in.GeminiAPIKey,
		"unsplash":     in.UnsplashAccessKey,
		"googleSheets": in.GoogleSheetsURL,
	} {
		if strings.TrimSpace(value) != "" {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
