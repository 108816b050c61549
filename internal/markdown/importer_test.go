package markdown

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-firmsite/entities"
	"github.com/goliatone/go-firmsite/internal/logging"
)

func TestImportFileBuildsTabs(t *testing.T) {
	importer := NewImporter(logging.NoOp())

	article, err := importer.ImportFile(filepath.Join("testdata", "articles", "wills.md"))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if article.ID != "wills" {
		t.Fatalf("expected id from file name, got %q", article.ID)
	}
	if article.Title != "עריכת צוואה" {
		t.Fatalf("expected frontmatter title, got %q", article.Title)
	}
	if len(article.Categories) != 2 || article.Categories[0] != entities.CategoryWills || article.Categories[1] != entities.CategoryHome {
		t.Fatalf("unexpected categories %v", article.Categories)
	}
	if article.Abstract != "צוואה מסדירה את חלוקת הרכוש.\nהיא נכנסת לתוקף לאחר פטירה." {
		t.Fatalf("unexpected abstract %q", article.Abstract)
	}
	if len(article.Tabs) != 2 {
		t.Fatalf("expected 2 tabs, got %+v", article.Tabs)
	}
	first := article.Tabs[0]
	if first.Title != "סוגי צוואות" {
		t.Fatalf("unexpected tab title %q", first.Title)
	}
	paragraphs := strings.Split(first.Content, "\n\n")
	if len(paragraphs) != 2 || !strings.Contains(paragraphs[1], "• צוואה בכתב יד") {
		t.Fatalf("unexpected tab content %q", first.Content)
	}
	if article.Tabs[1].Title != "מתי לעדכן" {
		t.Fatalf("expected emphasis stripped from heading, got %q", article.Tabs[1].Title)
	}
	if article.Quote != "צוואה חוסכת מחלוקות" || article.ImageURL != "https://images.example/wills.jpg" {
		t.Fatalf("unexpected metadata %+v", article)
	}
}

func TestParseUsesHeadingAndIntroTab(t *testing.T) {
	importer := NewImporter(nil)

	article, err := importer.ImportFile(filepath.Join("testdata", "articles", "poa.md"))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if article.ID != "poa-guide" || article.Title != "ייפוי כוח מתמשך" {
		t.Fatalf("unexpected article %+v", article)
	}
	if article.Abstract != "מדריך קצר" {
		t.Fatalf("unexpected abstract %q", article.Abstract)
	}
	if len(article.Tabs) != 2 || article.Tabs[0].Title != IntroTabTitle || article.Tabs[0].Content != "פתיח לפני הכותרות." {
		t.Fatalf("expected intro tab first, got %+v", article.Tabs)
	}
	if len(article.Categories) != 1 || article.Categories[0] != entities.CategoryPOA {
		t.Fatalf("unexpected categories %v", article.Categories)
	}
}

func TestParseErrors(t *testing.T) {
	importer := NewImporter(nil)

	if _, err := importer.Parse([]byte("plain text only")); !errors.Is(err, ErrTitleMissing) {
		t.Fatalf("expected ErrTitleMissing, got %v", err)
	}
	if _, err := importer.Parse([]byte("# Title only\n")); !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
	if _, err := importer.Parse([]byte("---\ntitle: [broken\n---\nbody")); err == nil {
		t.Fatal("expected frontmatter error")
	}
}

func TestImportDirSkipsHiddenAndCollectsErrors(t *testing.T) {
	importer := NewImporter(nil)

	articles, err := importer.ImportDir(filepath.Join("testdata", "articles"))
	if !errors.Is(err, ErrTitleMissing) {
		t.Fatalf("expected broken.md to report ErrTitleMissing, got %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].ID != "poa-guide" || articles[1].ID != "wills" {
		t.Fatalf("expected lexical order, got %s, %s", articles[0].ID, articles[1].ID)
	}
}

func TestParseBodyFlattensBlocks(t *testing.T) {
	body := ParseBody([]byte("intro\n\n## One\n\n> quoted\n\n```\ncode line\n```\n\n### Sub\n\ntext\n"))
	if len(body.Preamble) != 1 || body.Preamble[0] != "intro" {
		t.Fatalf("unexpected preamble %v", body.Preamble)
	}
	if len(body.Sections) != 1 {
		t.Fatalf("expected one section, got %+v", body.Sections)
	}
	want := []string{"quoted", "code line", "Sub", "text"}
	got := body.Sections[0].Paragraphs
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("paragraph %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
