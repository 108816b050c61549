// Package markdown imports articles from markdown files with a YAML
// frontmatter block.
package markdown

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-firmsite/entities"
	"github.com/goliatone/go-firmsite/internal/logging"
	"github.com/goliatone/go-firmsite/pkg/interfaces"
)

var (
	ErrTitleMissing = errors.New("markdown importer: article title is required")
	ErrNoContent    = errors.New("markdown importer: article has no content")
)

// Importer converts markdown documents into articles.
type Importer struct {
	logger interfaces.Logger
}

// NewImporter builds an Importer.
func NewImporter(logger interfaces.Logger) *Importer {
	return &Importer{logger: logging.Ensure(logger)}
}

// Parse converts one document. The title comes from the frontmatter, or
// the first level-1 heading. Text before the first level-2 heading becomes
// the abstract when the frontmatter has none, and an intro tab otherwise.
func (i *Importer) Parse(source []byte) (entities.Article, error) {
	meta, rawBody, err := ParseFrontMatter(source)
	if err != nil {
		return entities.Article{}, err
	}
	body := ParseBody(rawBody)

	article := entities.Article{
		ID:         meta.ID,
		Title:      meta.Title,
		Abstract:   meta.Abstract,
		Categories: meta.Categories,
		ImageURL:   meta.ImageURL,
		VideoURL:   meta.VideoURL,
		Quote:      meta.Quote,
		Tabs:       []entities.Tab{},
	}
	if article.Title == "" {
		article.Title = body.Heading
	}
	if article.Title == "" {
		return entities.Article{}, ErrTitleMissing
	}

	preamble := strings.Join(body.Preamble, "\n\n")
	switch {
	case preamble == "":
	case article.Abstract == "":
		article.Abstract = preamble
	default:
		article.Tabs = append(article.Tabs, entities.Tab{Title: IntroTabTitle, Content: preamble})
	}
	for _, section := range body.Sections {
		article.Tabs = append(article.Tabs, entities.Tab{
			Title:   section.Title,
			Content: section.Content(),
		})
	}
	if article.Abstract == "" && len(article.Tabs) == 0 {
		return entities.Article{}, ErrNoContent
	}

	for _, category := range article.Categories {
		if !category.Known() {
			i.logger.Warn("markdown.import.category_unknown", "category", category, "title", article.Title)
		}
	}
	return article, nil
}

// ImportFile reads and parses path. Without a frontmatter id, the file
// name stem becomes the article id so re-importing updates in place.
func (i *Importer) ImportFile(path string) (entities.Article, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return entities.Article{}, fmt.Errorf("markdown importer: read %s: %w", path, err)
	}
	article, err := i.Parse(source)
	if err != nil {
		return entities.Article{}, fmt.Errorf("%s: %w", path, err)
	}
	if article.ID == "" {
		article.ID = fileID(path)
	}
	i.logger.Debug("markdown.import.parsed", "path", path, "id", article.ID, "tabs", len(article.Tabs))
	return article, nil
}

// ImportDir imports every .md file under dir in lexical path order. Files
// that fail to parse are reported together after the rest are imported.
func (i *Importer) ImportDir(dir string) ([]entities.Article, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("markdown importer: walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	articles := make([]entities.Article, 0, len(paths))
	var errs []error
	for _, path := range paths {
		article, err := i.ImportFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		articles = append(articles, article)
	}
	return articles, errors.Join(errs...)
}

func fileID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
