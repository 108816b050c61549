package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-firmsite/entities"
	"github.com/goliatone/go-firmsite/internal/reconcile"
	"github.com/goliatone/go-firmsite/pkg/testsupport"
)

type failingRepository struct {
	*MemoryRepository
	err error
}

func (r failingRepository) Get(context.Context, string) ([]byte, error) {
	return nil, r.err
}

func newAdapter(t *testing.T, repo Repository) *Adapter {
	t.Helper()
	adapter, err := NewAdapter(repo, Key("app_data", "v1.6"))
	if err != nil {
		t.Fatalf("NewAdapter() error = %v", err)
	}
	return adapter
}

func TestAdapterLoadMissing(t *testing.T) {
	adapter := newAdapter(t, NewMemoryRepository())
	if doc, ok := adapter.Load(context.Background()); ok || doc != nil {
		t.Fatalf("expected no saved state, got %v", doc)
	}
}

func TestAdapterLoadRejectsBadPayloads(t *testing.T) {
	cases := map[string]string{
		"invalid json":    `{"articles":[`,
		"not an object":   `[1,2,3]`,
		"wrong list":      `{"articles":"nope"}`,
		"config string":   `{"config":"dark"}`,
		"category number": `{"currentCategory":3}`,
		"negative schema": `{"schemaVersion":-1}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			repo := NewMemoryRepository()
			adapter := newAdapter(t, repo)
			if err := repo.Upsert(context.Background(), adapter.Key(), []byte(payload)); err != nil {
				t.Fatalf("seed: %v", err)
			}
			if _, ok := adapter.Load(context.Background()); ok {
				t.Fatalf("expected payload %s rejected", payload)
			}
		})
	}
}

func TestAdapterLoadReadFailure(t *testing.T) {
	adapter := newAdapter(t, failingRepository{MemoryRepository: NewMemoryRepository(), err: errors.New("disk gone")})
	if _, ok := adapter.Load(context.Background()); ok {
		t.Fatalf("expected read failure to report no state")
	}
}

func TestAdapterSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter := newAdapter(t, NewMemoryRepository())

	state := entities.DefaultState()
	state.IsAdminLoggedIn = true
	state.CurrentCategory = entities.CategoryWills

	if err := adapter.Save(ctx, state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !state.IsAdminLoggedIn {
		t.Fatalf("expected caller state untouched")
	}

	doc, ok := adapter.Load(ctx)
	if !ok {
		t.Fatalf("expected saved state")
	}
	if doc[reconcile.KeyIsAdminLoggedIn] != false {
		t.Fatalf("expected isAdminLoggedIn persisted as false, got %v", doc[reconcile.KeyIsAdminLoggedIn])
	}
	if doc.Version() != reconcile.CurrentVersion {
		t.Fatalf("expected schema version %d, got %d", reconcile.CurrentVersion, doc.Version())
	}
	if doc[reconcile.KeyCurrentCategory] != "WILLS" {
		t.Fatalf("expected current category persisted, got %v", doc[reconcile.KeyCurrentCategory])
	}

	restored := reconcile.New().Reconcile(entities.DefaultState(), doc, true)
	if restored.IsAdminLoggedIn {
		t.Fatalf("expected session reset after reload")
	}
	if len(restored.Articles) != len(state.Articles) {
		t.Fatalf("expected articles restored")
	}
}

func TestAdapterVersionedKeyIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	old, err := NewAdapter(repo, Key("app_data", "v1.5"))
	if err != nil {
		t.Fatalf("NewAdapter() error = %v", err)
	}
	if err := old.Save(ctx, entities.DefaultState()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	current := newAdapter(t, repo)
	if _, ok := current.Load(ctx); ok {
		t.Fatalf("expected snapshot under a previous version to be ignored")
	}
}

func TestAdapterClear(t *testing.T) {
	ctx := context.Background()
	adapter := newAdapter(t, NewMemoryRepository())
	if err := adapter.Clear(ctx); err != nil {
		t.Fatalf("Clear() on empty store error = %v", err)
	}
	if err := adapter.Save(ctx, entities.DefaultState()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := adapter.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok := adapter.Load(ctx); ok {
		t.Fatalf("expected no state after clear")
	}
}

func TestAdapterLoadKeepsArticlesWhenValuesAreBad(t *testing.T) {
	const article = `{"id":"custom","categories":["WILLS"],"title":"Custom","abstract":"","imageUrl":"","tabs":[]}`
	cases := map[string]string{
		"null category":    `{"currentCategory":null,"articles":[` + article + `]}`,
		"empty theme":      `{"config":{"theme":""},"articles":[` + article + `]}`,
		"unknown theme":    `{"config":{"theme":"neon"},"articles":[` + article + `]}`,
		"slide without id": `{"slides":[{"title":"x"}],"articles":[` + article + `]}`,
		"session string":   `{"isAdminLoggedIn":"yes","articles":[` + article + `]}`,
		"null list":        `{"slides":null,"articles":[` + article + `]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := NewMemoryRepository()
			adapter := newAdapter(t, repo)
			if err := repo.Upsert(ctx, adapter.Key(), []byte(payload)); err != nil {
				t.Fatalf("seed: %v", err)
			}

			doc, ok := adapter.Load(ctx)
			if !ok {
				t.Fatalf("expected payload %s to load", payload)
			}
			defaults := entities.DefaultState()
			state := reconcile.New().Reconcile(defaults, doc, ok)
			if len(state.Articles) != 1 || state.Articles[0].ID != "custom" {
				t.Fatalf("expected stored articles to survive, got %+v", state.Articles)
			}
			if state.CurrentCategory != entities.LandingCategory {
				t.Fatalf("expected landing category, got %s", state.CurrentCategory)
			}
			if state.Config.Theme != defaults.Config.Theme {
				t.Fatalf("expected default theme, got %q", state.Config.Theme)
			}
		})
	}
}

func TestAdapterLoadsLegacySnapshot(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	adapter := newAdapter(t, repo)
	if err := repo.Upsert(ctx, adapter.Key(), testsupport.LoadFixture(t, "testdata/legacy_snapshot.json")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	doc, ok := adapter.Load(ctx)
	if !ok {
		t.Fatal("expected legacy snapshot to load")
	}
	if doc.Version() != 0 {
		t.Fatalf("expected unversioned snapshot, got %d", doc.Version())
	}

	state := reconcile.New().Reconcile(entities.DefaultState(), doc, ok)
	if state.IsAdminLoggedIn {
		t.Fatal("expected admin session reset")
	}
	if state.CurrentCategory != entities.CategoryWills {
		t.Fatalf("expected persisted category kept, got %s", state.CurrentCategory)
	}
	article, found := state.ArticleByID("a1")
	if !found || len(article.Categories) != 1 || article.Categories[0] != entities.CategoryPOA {
		t.Fatalf("expected legacy category migrated, got %+v", article)
	}
	if state.Config.OfficeName != "Cohen & Co" || state.Config.AdminPassword != entities.DefaultAdminPassword {
		t.Fatalf("expected config overlaid on defaults, got %+v", state.Config)
	}
}
