package entities

import "strings"

// WillsGeneratorLink is the LinkTo sentinel that opens the wills wizard.
const WillsGeneratorLink = "wills-generator"

const formLinkPrefix = "form-"

// LinkKind classifies a TimelineCard.LinkTo value.
type LinkKind int

const (
	LinkNone LinkKind = iota
	LinkWillsGenerator
	LinkForm
	LinkOpaque
)

// ParseLinkTo classifies a LinkTo value. For LinkForm the referenced form id
// is returned.
func ParseLinkTo(value string) (LinkKind, string) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return LinkNone, ""
	case value == WillsGeneratorLink:
		return LinkWillsGenerator, ""
	case strings.HasPrefix(value, formLinkPrefix) && len(value) > len(formLinkPrefix):
		return LinkForm, strings.TrimPrefix(value, formLinkPrefix)
	}
	return LinkOpaque, ""
}

// FormLink builds the LinkTo value that references formID.
func FormLink(formID string) string {
	return formLinkPrefix + formID
}

// ArticleByID looks up an article. A dangling reference returns ok=false.
func (s State) ArticleByID(id string) (Article, bool) {
	return findByID(s.Articles, id)
}

// FormByID looks up a form. A dangling reference returns ok=false.
func (s State) FormByID(id string) (FormDefinition, bool) {
	return findByID(s.Forms, id)
}

// ResolveLink resolves a timeline card link. Links to missing forms and
// opaque values resolve to LinkNone so callers simply render no action.
func (s State) ResolveLink(card TimelineCard) (LinkKind, *FormDefinition) {
	kind, formID := ParseLinkTo(card.LinkTo)
	switch kind {
	case LinkWillsGenerator:
		return kind, nil
	case LinkForm:
		if form, ok := s.FormByID(formID); ok {
			return kind, &form
		}
	}
	return LinkNone, nil
}

// HelpArticle returns the help article of a field when the reference
// resolves.
func (s State) HelpArticle(field FormField) (Article, bool) {
	if field.HelpArticleID == "" {
		return Article{}, false
	}
	return s.ArticleByID(field.HelpArticleID)
}

// ArticlesIn returns the articles tagged with category, in list order.
func (s State) ArticlesIn(category Category) []Article {
	var out []Article
	for _, article := range s.Articles {
		for _, c := range article.Categories {
			if c == category {
				out = append(out, article)
				break
			}
		}
	}
	return out
}

func findByID[T Entity](items []T, id string) (T, bool) {
	for _, item := range items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
