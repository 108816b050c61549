package reconcile

import (
	"errors"
	"fmt"
)

// CurrentVersion is the schema version written by this release.
const CurrentVersion = 1

var (
	ErrMigratorNotConfigured = errors.New("reconcile: migrator not configured")
	ErrMigrationInvalid      = errors.New("reconcile: migration registration invalid")
	ErrMigrationMissing      = errors.New("reconcile: migration step missing")
	ErrMigrationCycle        = errors.New("reconcile: migration cycle detected")
)

// MigrationFunc transforms a document between schema versions.
type MigrationFunc func(Document) (Document, error)

// Migration describes a single hop.
type Migration struct {
	From  int
	To    int
	Name  string
	Apply MigrationFunc
}

// Migrator applies ordered migration hops to documents.
type Migrator struct {
	steps  map[int]Migration
	target int
}

// NewMigrator builds a migrator targeting version target.
func NewMigrator(target int) *Migrator {
	return &Migrator{steps: map[int]Migration{}, target: target}
}

// Migrations returns the migrator carrying every known hop up to
// CurrentVersion.
func Migrations() *Migrator {
	m := NewMigrator(CurrentVersion)
	_ = m.Register(Migration{From: 0, To: 1, Name: "article-categories", Apply: migrateArticleCategories})
	return m
}

// Target returns the version documents are migrated to.
func (m *Migrator) Target() int {
	if m == nil {
		return 0
	}
	return m.target
}

// Register adds a migration hop.
func (m *Migrator) Register(step Migration) error {
	if m == nil {
		return ErrMigratorNotConfigured
	}
	if step.Apply == nil || step.To <= step.From {
		return ErrMigrationInvalid
	}
	if m.steps == nil {
		m.steps = map[int]Migration{}
	}
	m.steps[step.From] = step
	return nil
}

// Migrate walks doc from version from up to the target. Documents already
// at or past the target are returned unchanged. The input is never mutated.
func (m *Migrator) Migrate(doc Document, from int) (Document, int, error) {
	if m == nil {
		return nil, from, ErrMigratorNotConfigured
	}
	if from >= m.target {
		return doc, from, nil
	}
	seen := map[int]struct{}{}
	current := from
	out := doc.Clone()
	for current < m.target {
		if _, ok := seen[current]; ok {
			return nil, from, ErrMigrationCycle
		}
		seen[current] = struct{}{}
		step, ok := m.steps[current]
		if !ok {
			return nil, from, fmt.Errorf("%w: from version %d", ErrMigrationMissing, current)
		}
		next, err := step.Apply(out)
		if err != nil {
			return nil, from, fmt.Errorf("reconcile: migration %s: %w", step.Name, err)
		}
		out = next.Clone()
		current = step.To
	}
	out[SchemaVersionKey] = current
	return out, current, nil
}

// migrateArticleCategories copies the singular legacy category into the
// categories list for articles that have none. The legacy field is kept.
func migrateArticleCategories(doc Document) (Document, error) {
	items, ok := doc[KeyArticles].([]any)
	if !ok {
		return doc, nil
	}
	for _, item := range items {
		article, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if existing, has := article["categories"]; has && existing != nil {
			continue
		}
		category, _ := article["category"].(string)
		if category == "" {
			continue
		}
		article["categories"] = []any{category}
	}
	return doc, nil
}
