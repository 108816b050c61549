package reconcile

import (
	"errors"
	"testing"
)

func TestArticleCategoryMigrationIdempotent(t *testing.T) {
	doc := Document{
		KeyArticles: []any{
			map[string]any{"id": "1", "category": "WILLS"},
			map[string]any{"id": "2", "category": "POA", "categories": []any{"FAMILY"}},
			map[string]any{"id": "3"},
		},
	}

	once, err := migrateArticleCategories(doc.Clone())
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	twice, err := migrateArticleCategories(once.Clone())
	if err != nil {
		t.Fatalf("migrate twice: %v", err)
	}

	for _, out := range []Document{once, twice} {
		articles := out[KeyArticles].([]any)
		first := articles[0].(map[string]any)
		if cats := first["categories"].([]any); len(cats) != 1 || cats[0] != "WILLS" {
			t.Fatalf("expected [WILLS], got %v", cats)
		}
		if first["category"] != "WILLS" {
			t.Fatalf("expected legacy field kept")
		}
		second := articles[1].(map[string]any)
		if cats := second["categories"].([]any); len(cats) != 1 || cats[0] != "FAMILY" {
			t.Fatalf("expected existing categories kept, got %v", cats)
		}
		if _, ok := articles[2].(map[string]any)["categories"]; ok {
			t.Fatalf("expected article without category untouched")
		}
	}
}

func TestMigratorStampsVersion(t *testing.T) {
	out, version, err := Migrations().Migrate(Document{}, 0)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if version != CurrentVersion || out.Version() != CurrentVersion {
		t.Fatalf("expected version %d, got %d / %d", CurrentVersion, version, out.Version())
	}
}

func TestMigratorSkipsCurrentAndNewer(t *testing.T) {
	doc := Document{SchemaVersionKey: float64(CurrentVersion + 3)}
	out, version, err := Migrations().Migrate(doc, doc.Version())
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if version != CurrentVersion+3 || out.Version() != CurrentVersion+3 {
		t.Fatalf("expected document left at its version, got %d", version)
	}
}

func TestMigratorMissingStep(t *testing.T) {
	m := NewMigrator(2)
	if err := m.Register(Migration{From: 0, To: 1, Name: "noop", Apply: func(d Document) (Document, error) { return d, nil }}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := m.Migrate(Document{}, 0); !errors.Is(err, ErrMigrationMissing) {
		t.Fatalf("expected ErrMigrationMissing, got %v", err)
	}
}

func TestMigratorRejectsInvalidRegistration(t *testing.T) {
	m := NewMigrator(1)
	if err := m.Register(Migration{From: 1, To: 1, Apply: migrateArticleCategories}); !errors.Is(err, ErrMigrationInvalid) {
		t.Fatalf("expected ErrMigrationInvalid, got %v", err)
	}
	if err := m.Register(Migration{From: 0, To: 1}); !errors.Is(err, ErrMigrationInvalid) {
		t.Fatalf("expected ErrMigrationInvalid for nil func, got %v", err)
	}
}
