package entities

// Category identifies a section of the site. Unknown values survive
// decoding so records from newer releases are not rejected.
type Category string

const (
	CategoryHome        Category = "HOME"
	CategoryRealEstate  Category = "REAL_ESTATE"
	CategoryWills       Category = "WILLS"
	CategoryPOA         Category = "POA"
	CategoryInheritance Category = "INHERITANCE"
	CategoryFamily      Category = "FAMILY"
	CategoryCorporate   Category = "CORPORATE"
	CategoryStore       Category = "STORE"
	CategoryContact     Category = "CONTACT"
)

// LandingCategory is shown when no valid category was persisted.
const LandingCategory = CategoryStore

// CategoryLabels maps each category to its Hebrew display label.
var CategoryLabels = map[Category]string{
	CategoryHome:        "ראשי",
	CategoryRealEstate:  "נדל\"ן",
	CategoryWills:       "צוואות",
	CategoryPOA:         "ייפוי כוח מתמשך",
	CategoryInheritance: "ירושות",
	CategoryFamily:      "דיני משפחה",
	CategoryCorporate:   "חברות ומסחר",
	CategoryStore:       "חנות",
	CategoryContact:     "צור קשר",
}

// Categories lists the known categories in menu order.
func Categories() []Category {
	return []Category{
		CategoryHome,
		CategoryRealEstate,
		CategoryWills,
		CategoryPOA,
		CategoryInheritance,
		CategoryFamily,
		CategoryCorporate,
		CategoryStore,
		CategoryContact,
	}
}

// Label returns the display label, or the raw value for unknown categories.
func (c Category) Label() string {
	if label, ok := CategoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Known reports whether c is one of the compiled-in categories.
func (c Category) Known() bool {
	_, ok := CategoryLabels[c]
	return ok
}
