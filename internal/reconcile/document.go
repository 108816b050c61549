package reconcile

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-firmsite/entities"
)

// Document is a decoded JSON state object. Keys follow the wire names of
// entities.State plus SchemaVersionKey.
type Document map[string]any

// Top-level keys of a state document.
const (
	KeyCurrentCategory = "currentCategory"
	KeyIsAdminLoggedIn = "isAdminLoggedIn"
	KeyConfig          = "config"
	KeySlides          = "slides"
	KeyTimelines       = "timelines"
	KeyArticles        = "articles"
	KeyMenuItems       = "menuItems"
	KeyForms           = "forms"
	KeyTeamMembers     = "teamMembers"

	// SchemaVersionKey records the migration version a document was written
	// at. Documents without it are version 0.
	SchemaVersionKey = "schemaVersion"

	keyIntegrations = "integrations"
)

// ContentKeys are the keys exchanged with remote backends; session fields
// are excluded.
var ContentKeys = []string{KeyArticles, KeyTimelines, KeySlides, KeyForms, KeyTeamMembers, KeyMenuItems, KeyConfig}

// FromState encodes state as a document stamped with version.
func FromState(state entities.State, version int) (Document, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("reconcile: encode state: %w", err)
	}
	doc, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	doc[SchemaVersionKey] = version
	return doc, nil
}

// Parse decodes raw JSON into a document. Anything other than a JSON object
// is rejected.
func Parse(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("reconcile: parse document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("reconcile: document is not an object")
	}
	return doc, nil
}

// Version returns the schema version stamped on the document, 0 when absent
// or malformed.
func (d Document) Version() int {
	switch v := d[SchemaVersionKey].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	}
	return 0
}

// Only returns a copy restricted to keys that are present.
func (d Document) Only(keys ...string) Document {
	out := make(Document, len(keys))
	for _, key := range keys {
		if value, ok := d[key]; ok {
			out[key] = cloneValue(value)
		}
	}
	return out
}

// Clone deep-copies the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(cloneMap(d))
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneMap(v)
	case Document:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	}
	return value
}

type fieldDecoder func(dst *entities.State, raw json.RawMessage) error

func decodeField[T any](field func(*entities.State) *T) fieldDecoder {
	return func(dst *entities.State, raw json.RawMessage) error {
		var value T
		if err := json.Unmarshal(raw, &value); err != nil {
			return err
		}
		*field(dst) = value
		return nil
	}
}

var fieldDecoders = map[string]fieldDecoder{
	KeyCurrentCategory: decodeField(func(s *entities.State) *entities.Category { return &s.CurrentCategory }),
	KeyIsAdminLoggedIn: decodeField(func(s *entities.State) *bool { return &s.IsAdminLoggedIn }),
	KeyConfig:          decodeField(func(s *entities.State) *entities.SiteConfig { return &s.Config }),
	KeySlides:          decodeField(func(s *entities.State) *[]entities.Slide { return &s.Slides }),
	KeyTimelines:       decodeField(func(s *entities.State) *[]entities.TimelineCard { return &s.Timelines }),
	KeyArticles:        decodeField(func(s *entities.State) *[]entities.Article { return &s.Articles }),
	KeyMenuItems:       decodeField(func(s *entities.State) *[]entities.MenuItem { return &s.MenuItems }),
	KeyForms:           decodeField(func(s *entities.State) *[]entities.FormDefinition { return &s.Forms }),
	KeyTeamMembers:     decodeField(func(s *entities.State) *[]entities.TeamMember { return &s.TeamMembers }),
}

// decodeOnto decodes each known key of doc onto base independently. A key
// whose value does not match the entity shape keeps the base value and is
// reported in the returned map.
func decodeOnto(base entities.State, doc Document) (entities.State, map[string]error) {
	out := base.Clone()
	var failures map[string]error
	for key, decode := range fieldDecoders {
		value, ok := doc[key]
		if !ok {
			continue
		}
		raw, err := json.Marshal(value)
		if err == nil {
			err = decode(&out, raw)
		}
		if err != nil {
			if failures == nil {
				failures = map[string]error{}
			}
			failures[key] = err
		}
	}
	return out, failures
}
