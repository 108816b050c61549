package entities

import (
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// NewID returns a fresh entity id.
func NewID() string {
	return uuid.NewString()
}

// FieldIDFromLabel derives a form field id from its label. Labels that do
// not normalize to a slug (Hebrew-only labels, for instance) get a random
// suffix.
func FieldIDFromLabel(label string) string {
	if normalized, err := slug.Normalize(label); err == nil && normalized != "" {
		return normalized
	}
	return "field-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
}
