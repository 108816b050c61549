package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-firmsite/entities"
)

// FrontMatter is the article metadata block of a markdown file.
type FrontMatter struct {
	ID         string
	Title      string
	Abstract   string
	Categories []entities.Category
	ImageURL   string
	VideoURL   string
	Quote      string
	Custom     map[string]any
}

// ParseFrontMatter splits source into its metadata and markdown body. A
// file without a frontmatter block yields empty metadata and the whole
// source as body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return envelopeToFrontMatter(meta), body, nil
}

type frontMatterEnvelope struct {
	ID         string         `yaml:"id"`
	Title      string         `yaml:"title"`
	Abstract   string         `yaml:"abstract"`
	Summary    string         `yaml:"summary"`
	Categories []string       `yaml:"categories"`
	Category   string         `yaml:"category"`
	ImageURL   string         `yaml:"imageUrl"`
	VideoURL   string         `yaml:"videoUrl"`
	Quote      string         `yaml:"quote"`
	Custom     map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) FrontMatter {
	categories := make([]entities.Category, 0, len(env.Categories)+1)
	seen := map[entities.Category]struct{}{}
	for _, raw := range append(env.Categories, env.Category) {
		category := entities.Category(strings.ToUpper(strings.TrimSpace(raw)))
		if category == "" {
			continue
		}
		if _, dup := seen[category]; dup {
			continue
		}
		seen[category] = struct{}{}
		categories = append(categories, category)
	}

	abstract := env.Abstract
	if strings.TrimSpace(abstract) == "" {
		abstract = env.Summary
	}

	custom := make(map[string]any, len(env.Custom))
	for key, value := range env.Custom {
		custom[key] = value
	}

	return FrontMatter{
		ID:         strings.TrimSpace(env.ID),
		Title:      strings.TrimSpace(env.Title),
		Abstract:   strings.TrimSpace(abstract),
		Categories: categories,
		ImageURL:   strings.TrimSpace(env.ImageURL),
		VideoURL:   strings.TrimSpace(env.VideoURL),
		Quote:      strings.TrimSpace(env.Quote),
		Custom:     custom,
	}
}
