package entities_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-firmsite/entities"
)

func TestDefaultStateIsValid(t *testing.T) {
	state := entities.DefaultState()
	if err := state.Validate(); err != nil {
		t.Fatalf("default state invalid: %v", err)
	}
	if state.CurrentCategory != entities.LandingCategory {
		t.Fatalf("expected landing category %s, got %s", entities.LandingCategory, state.CurrentCategory)
	}
	if state.IsAdminLoggedIn {
		t.Fatal("default state must not be logged in")
	}
}

func TestValidateRejectsDuplicateIDs(t *testing.T) {
	state := entities.DefaultState()
	state.Articles = append(state.Articles, state.Articles[0])

	err := state.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate id") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestFormFieldOptionsRequiredOnlyForSelect(t *testing.T) {
	cases := []struct {
		name    string
		field   entities.FormField
		wantErr bool
	}{
		{"select with options", entities.FormField{ID: "a", Label: "A", Type: entities.FieldSelect, Options: []string{"x"}}, false},
		{"select without options", entities.FormField{ID: "a", Label: "A", Type: entities.FieldSelect}, true},
		{"text with options", entities.FormField{ID: "a", Label: "A", Type: entities.FieldText, Options: []string{"x"}}, true},
		{"text without options", entities.FormField{ID: "a", Label: "A", Type: entities.FieldText}, false},
		{"unknown type", entities.FormField{ID: "a", Label: "A", Type: "date"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.field.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRequiresOptions(t *testing.T) {
	for _, ft := range entities.FieldTypes() {
		if got := ft.RequiresOptions(); got != (ft == entities.FieldSelect) {
			t.Fatalf("%s.RequiresOptions() = %v", ft, got)
		}
	}
}

func TestParseLinkTo(t *testing.T) {
	cases := []struct {
		in     string
		kind   entities.LinkKind
		formID string
	}{
		{"", entities.LinkNone, ""},
		{"wills-generator", entities.LinkWillsGenerator, ""},
		{"form-abc", entities.LinkForm, "abc"},
		{"form-", entities.LinkOpaque, ""},
		{"https://example.com", entities.LinkOpaque, ""},
	}
	for _, tc := range cases {
		kind, formID := entities.ParseLinkTo(tc.in)
		if kind != tc.kind || formID != tc.formID {
			t.Fatalf("ParseLinkTo(%q) = %v,%q; want %v,%q", tc.in, kind, formID, tc.kind, tc.formID)
		}
	}
}

func TestResolveLinkDegradesOnDanglingForm(t *testing.T) {
	state := entities.DefaultState()

	kind, form := state.ResolveLink(entities.TimelineCard{LinkTo: entities.FormLink("form-poa")})
	if kind != entities.LinkForm || form == nil || form.ID != "form-poa" {
		t.Fatalf("expected form link, got %v %v", kind, form)
	}

	kind, form = state.ResolveLink(entities.TimelineCard{LinkTo: entities.FormLink("missing")})
	if kind != entities.LinkNone || form != nil {
		t.Fatalf("expected dangling form to resolve to none, got %v %v", kind, form)
	}
}

func TestHelpArticleDangling(t *testing.T) {
	state := entities.DefaultState()
	if _, ok := state.HelpArticle(entities.FormField{HelpArticleID: "3"}); !ok {
		t.Fatal("expected help article 3 to resolve")
	}
	if _, ok := state.HelpArticle(entities.FormField{HelpArticleID: "404"}); ok {
		t.Fatal("expected dangling help article to be reported missing")
	}
}

func TestCloneIsDeep(t *testing.T) {
	state := entities.DefaultState()
	clone := state.Clone()

	clone.Articles[0].Tabs[0].Title = "changed"
	clone.Articles[0].Categories[0] = entities.CategoryFamily
	clone.Forms[0].Fields[3].Options[0] = "changed"
	clone.Timelines[0].Category[0] = entities.CategoryFamily

	if state.Articles[0].Tabs[0].Title == "changed" ||
		state.Articles[0].Categories[0] == entities.CategoryFamily ||
		state.Forms[0].Fields[3].Options[0] == "changed" ||
		state.Timelines[0].Category[0] == entities.CategoryFamily {
		t.Fatal("clone shares memory with original")
	}
}

func TestArticlesIn(t *testing.T) {
	state := entities.DefaultState()
	wills := state.ArticlesIn(entities.CategoryWills)
	if len(wills) != 1 || wills[0].ID != "1" {
		t.Fatalf("unexpected wills articles %+v", wills)
	}
}

func TestCategoryLabels(t *testing.T) {
	for _, c := range entities.Categories() {
		if !c.Known() || c.Label() == "" || c.Label() == string(c) {
			t.Fatalf("category %s missing label", c)
		}
	}
	if entities.Category("OTHER").Label() != "OTHER" {
		t.Fatal("unknown category should label as itself")
	}
}

func TestFieldIDFromLabel(t *testing.T) {
	if id := entities.FieldIDFromLabel("Full Name"); id == "" || strings.Contains(id, " ") {
		t.Fatalf("unexpected id %q", id)
	}
	if id := entities.FieldIDFromLabel("שם מלא"); id == "" {
		t.Fatal("expected a non-empty id for hebrew label")
	}
}
