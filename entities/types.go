// Package entities defines the content types of the firm site and the
// aggregate state that owns them.
package entities

// State is the single aggregate owning every content list and the site
// configuration. CurrentCategory and IsAdminLoggedIn are session fields.
type State struct {
	CurrentCategory Category         `json:"currentCategory"`
	IsAdminLoggedIn bool             `json:"isAdminLoggedIn"`
	Config          SiteConfig       `json:"config"`
	Slides          []Slide          `json:"slides"`
	Timelines       []TimelineCard   `json:"timelines"`
	Articles        []Article        `json:"articles"`
	MenuItems       []MenuItem       `json:"menuItems"`
	Forms           []FormDefinition `json:"forms"`
	TeamMembers     []TeamMember     `json:"teamMembers"`
}

// Theme selects the site palette.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// SiteConfig holds office identity, contact details and integration
// credentials.
type SiteConfig struct {
	OfficeName    string       `json:"officeName"`
	LogoURL       string       `json:"logoUrl"`
	ContactEmail  string       `json:"contactEmail"`
	LeadsEmail    string       `json:"leadsEmail"`
	Phone         string       `json:"phone"`
	Address       string       `json:"address"`
	Theme         Theme        `json:"theme"`
	AdminPassword string       `json:"adminPassword"`
	Integrations  Integrations `json:"integrations"`
}

// Integrations carries credentials and endpoints for external services.
// Every key is always serialized, empty when unset.
type Integrations struct {
	SupabaseURL             string `json:"supabaseUrl"`
	SupabaseKey             string `json:"supabaseKey"`
	GeminiAPIKey            string `json:"geminiApiKey"`
	UnsplashAccessKey       string `json:"unsplashAccessKey"`
	GoogleSheetsURL         string `json:"googleSheetsUrl"`
	PaymentLinkWill         string `json:"paymentLinkWill"`
	PaymentLinkPOA          string `json:"paymentLinkPoa"`
	PaymentLinkConsultation string `json:"paymentLinkConsultation"`
}

// Tab is one titled section of an article body. Content may span several
// paragraphs separated by line breaks.
type Tab struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Article is a long-form legal content entry. Category is the single
// category carried by records saved before multi-category support; it is
// kept when present and never written for new articles.
type Article struct {
	ID         string     `json:"id"`
	Categories []Category `json:"categories"`
	Category   Category   `json:"category,omitempty"`
	Title      string     `json:"title"`
	Abstract   string     `json:"abstract"`
	ImageURL   string     `json:"imageUrl"`
	VideoURL   string     `json:"videoUrl,omitempty"`
	Quote      string     `json:"quote,omitempty"`
	Tabs       []Tab      `json:"tabs"`
}

// TimelineCard is a news/timeline carousel card shown under one or more
// categories.
type TimelineCard struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl"`
	Category    []Category `json:"category"`
	LinkTo      string     `json:"linkTo,omitempty"`
}

// Slide is a hero slider entry; lower Order renders first.
type Slide struct {
	ID         string   `json:"id"`
	ImageURL   string   `json:"imageUrl"`
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle"`
	Category   Category `json:"category"`
	Order      int      `json:"order"`
	ButtonText string   `json:"buttonText,omitempty"`
	ButtonLink string   `json:"buttonLink,omitempty"`
}

// FormDefinition is an admin-built form whose submissions are mailed to
// SubmitEmail.
type FormDefinition struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Category    Category    `json:"category"`
	SubmitEmail string      `json:"submitEmail"`
	Fields      []FormField `json:"fields"`
}

// FormField is a single input of a FormDefinition. HelpArticleID is a weak
// reference into State.Articles.
type FormField struct {
	ID            string    `json:"id"`
	Type          FieldType `json:"type"`
	Label         string    `json:"label"`
	Required      bool      `json:"required"`
	Options       []string  `json:"options,omitempty"`
	HelpArticleID string    `json:"helpArticleId,omitempty"`
}

// TeamMember is an attorney or staff profile.
type TeamMember struct {
	ID             string `json:"id"`
	FullName       string `json:"fullName"`
	Role           string `json:"role"`
	Specialization string `json:"specialization"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	ImageURL       string `json:"imageUrl"`
	Bio            string `json:"bio"`
}

// MenuItem is a navigation entry that activates Cat.
type MenuItem struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Cat   Category `json:"cat"`
}

// Entity is implemented by every list element of State.
type Entity interface {
	EntityID() string
}

func (a Article) EntityID() string        { return a.ID }
func (t TimelineCard) EntityID() string   { return t.ID }
func (s Slide) EntityID() string          { return s.ID }
func (f FormDefinition) EntityID() string { return f.ID }
func (m TeamMember) EntityID() string     { return m.ID }
func (m MenuItem) EntityID() string       { return m.ID }
func (f FormField) EntityID() string      { return f.ID }
