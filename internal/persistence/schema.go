package persistence

import "github.com/goliatone/go-firmsite/internal/validation"

// list keys may be null; the reconciler skips null keys.
var listOrNull = map[string]any{"type": []any{"array", "null"}}

// snapshotSchema describes the shape a stored snapshot must have to be
// trusted at startup. It checks structure only. Field values, including list
// items, are decoded and rejected key by key by the reconciler.
var snapshotSchema = validation.MustCompile(map[string]any{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type":    "object",
	"properties": map[string]any{
		"schemaVersion":   map[string]any{"type": "integer", "minimum": 0},
		"currentCategory": map[string]any{"type": []any{"string", "null"}},
		"config": map[string]any{
			"type": []any{"object", "null"},
			"properties": map[string]any{
				"integrations": map[string]any{"type": []any{"object", "null"}},
			},
		},
		"slides":      listOrNull,
		"timelines":   listOrNull,
		"articles":    listOrNull,
		"menuItems":   listOrNull,
		"forms":       listOrNull,
		"teamMembers": listOrNull,
	},
})
