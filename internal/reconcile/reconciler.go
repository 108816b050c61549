package reconcile

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-firmsite/entities"
	"github.com/goliatone/go-firmsite/internal/logging"
	"github.com/goliatone/go-firmsite/pkg/interfaces"
)

// Reconciler merges compiled-in defaults, the local snapshot and remote
// documents into a single state. It performs no I/O.
type Reconciler struct {
	migrator *Migrator
	landing  entities.Category
	logger   interfaces.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithMigrator overrides the migration table.
func WithMigrator(m *Migrator) Option {
	return func(r *Reconciler) {
		if m != nil {
			r.migrator = m
		}
	}
}

// WithLandingCategory overrides the category used when none was persisted.
func WithLandingCategory(category entities.Category) Option {
	return func(r *Reconciler) {
		if category != "" {
			r.landing = category
		}
	}
}

// WithLogger sets the logger used for migration and decode failures.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New builds a reconciler using Migrations() and entities.LandingCategory.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{
		migrator: Migrations(),
		landing:  entities.LandingCategory,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Reconcile builds the startup state. Every top-level key present in the
// snapshot replaces the default, except config and config.integrations which
// are overlaid key by key. The snapshot is migrated first. The admin session
// is always reset and the current category falls back to the landing
// category when none was persisted.
func (r *Reconciler) Reconcile(defaults entities.State, snapshot Document, found bool) entities.State {
	state := defaults.Clone()
	persistedCategory := ""

	if found && snapshot != nil {
		persistedCategory, _ = snapshot[KeyCurrentCategory].(string)
		state = r.overlay(defaults, snapshot, "state.reconcile")
	}

	state.IsAdminLoggedIn = false
	if persistedCategory != "" {
		state.CurrentCategory = entities.Category(persistedCategory)
	} else {
		state.CurrentCategory = r.landing
	}
	return state
}

// OverlayRemote applies a remote document onto current with the same rules
// as Reconcile. The session fields of current are kept whatever the remote
// document carries.
func (r *Reconciler) OverlayRemote(current entities.State, remote Document) entities.State {
	if len(remote) == 0 {
		return current.Clone()
	}
	out := r.overlay(current, remote, "state.remote_overlay")
	out.IsAdminLoggedIn = current.IsAdminLoggedIn
	out.CurrentCategory = current.CurrentCategory
	return out
}

func (r *Reconciler) overlay(base entities.State, top Document, event string) entities.State {
	logger := logging.Ensure(r.logger)

	migrated, version, err := r.migrator.Migrate(top, top.Version())
	if err != nil {
		logger.Warn(event+".migrate_failed", "error", err, "from_version", top.Version())
		migrated = top
	} else if version > r.migrator.Target() {
		logger.Warn(event+".newer_version", "version", version, "target", r.migrator.Target())
	}

	baseDoc, err := FromState(base, r.migrator.Target())
	if err != nil {
		logger.Error(event+".encode_failed", "error", err)
		return base.Clone()
	}

	merged := overlayDocument(baseDoc, migrated)
	out, failures := decodeOnto(base, merged)
	if theme := out.Config.Theme; theme != entities.ThemeDark && theme != entities.ThemeLight {
		if failures == nil {
			failures = map[string]error{}
		}
		failures[KeyConfig+".theme"] = fmt.Errorf("unknown theme %q", theme)
		out.Config.Theme = base.Config.Theme
	}
	if len(failures) > 0 {
		keys := make([]string, 0, len(failures))
		for key := range failures {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			logger.Warn(event+".field_rejected", "key", key, "error", failures[key])
		}
	}
	return out
}

// overlayDocument returns base with every non-null key of top applied.
func overlayDocument(base, top Document) Document {
	out := base.Clone()
	for key, value := range top {
		if key == SchemaVersionKey || value == nil {
			continue
		}
		if key == KeyConfig {
			baseConfig, okBase := out[KeyConfig].(map[string]any)
			topConfig, okTop := value.(map[string]any)
			if okBase && okTop {
				out[KeyConfig] = overlayConfig(baseConfig, topConfig)
				continue
			}
		}
		out[key] = cloneValue(value)
	}
	return out
}

func overlayConfig(base, top map[string]any) map[string]any {
	out := cloneMap(base)
	for key, value := range top {
		if value == nil {
			continue
		}
		if key == keyIntegrations {
			baseIntegrations, okBase := out[keyIntegrations].(map[string]any)
			topIntegrations, okTop := value.(map[string]any)
			if okBase && okTop {
				merged := cloneMap(baseIntegrations)
				for k, v := range topIntegrations {
					if v != nil {
						merged[k] = cloneValue(v)
					}
				}
				out[keyIntegrations] = merged
				continue
			}
		}
		out[key] = cloneValue(value)
	}
	return out
}
