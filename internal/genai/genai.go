// Package genai drafts legal articles through the Gemini generateContent
// API. Every failure path yields a deterministic mock draft.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-firmsite/entities"
	"github.com/goliatone/go-firmsite/internal/logging"
	"github.com/goliatone/go-firmsite/internal/util"
	"github.com/goliatone/go-firmsite/pkg/interfaces"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"

	defaultTimeout = 30 * time.Second

	// MinKeyLength is the shortest API key worth sending.
	MinKeyLength = 10
)

// Draft sources.
const (
	SourceGemini = "gemini"
	SourceMock   = "mock"
)

// Draft is a generated article body.
type Draft struct {
	Title    string         `json:"title"`
	Abstract string         `json:"abstract"`
	Quote    string         `json:"quote"`
	Tabs     []entities.Tab `json:"tabs"`
	Source   string         `json:"-"`
}

// Article turns the draft into a new article under category. The id is
// left empty for the caller to assign.
func (d Draft) Article(category entities.Category) entities.Article {
	article := entities.Article{
		Title:    d.Title,
		Abstract: d.Abstract,
		Quote:    d.Quote,
		Tabs:     append([]entities.Tab(nil), d.Tabs...),
	}
	if category != "" {
		article.Categories = []entities.Category{category}
	}
	return article
}

// Option configures a Generator.
type Option func(*Generator)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Generator) {
		if client != nil {
			g.client = client
		}
	}
}

// WithBaseURL points the generator at another API host.
func WithBaseURL(baseURL string) Option {
	return func(g *Generator) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			g.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// WithModel selects the model name.
func WithModel(model string) Option {
	return func(g *Generator) {
		if trimmed := strings.TrimSpace(model); trimmed != "" {
			g.model = trimmed
		}
	}
}

// WithLogger sets the generator logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Generator calls the generative API.
type Generator struct {
	client  *http.Client
	baseURL string
	model   string
	logger  interfaces.Logger
}

// New builds a generator. timeout applies when no client is supplied.
func New(timeout time.Duration, opts ...Option) *Generator {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	g := &Generator{
		client:  &http.Client{Timeout: timeout},
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate drafts an article about topic for category. It never fails;
// keys shorter than MinKeyLength and every request error yield MockDraft.
func (g *Generator) Generate(ctx context.Context, topic string, category entities.Category, apiKey string) Draft {
	topic = strings.TrimSpace(topic)
	apiKey = strings.TrimSpace(apiKey)
	logger := logging.WithFields(g.logger, map[string]any{
		"category": category,
		"model":    g.model,
		"topic":    util.Truncate(topic, 40),
	})
	if len(apiKey) < MinKeyLength {
		logger.Debug("genai.generate.mock", "reason", "missing_key")
		return MockDraft(topic, category)
	}

	draft, err := g.generate(ctx, topic, category, apiKey)
	if err != nil {
		logger.Warn("genai.generate.failed", "error", err)
		return MockDraft(topic, category)
	}
	logger.Info("genai.generate.completed", "tabs", len(draft.Tabs))
	return draft
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	Temperature      float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (g *Generator) generate(ctx context.Context, topic string, category entities.Category, apiKey string) (Draft, error) {
	endpoint, err := url.JoinPath(g.baseURL, "v1beta", "models", g.model+":generateContent")
	if err != nil {
		return Draft{}, err
	}
	body, err := json.Marshal(generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: Prompt(topic, category)}},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			Temperature:      0.7,
		},
	})
	if err != nil {
		return Draft{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Draft{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	var reply generateResponse
	if err := util.DoJSON(ctx, g.client, req, &reply); err != nil {
		return Draft{}, err
	}
	if len(reply.Candidates) == 0 || len(reply.Candidates[0].Content.Parts) == 0 {
		return Draft{}, fmt.Errorf("genai: empty response")
	}
	return parseDraft(reply.Candidates[0].Content.Parts[0].Text)
}

func parseDraft(text string) (Draft, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var draft Draft
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &draft); err != nil {
		return Draft{}, fmt.Errorf("genai: decode draft: %w", err)
	}
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		return Draft{}, fmt.Errorf("genai: draft has no title")
	}
	tabs := draft.Tabs[:0]
	for _, tab := range draft.Tabs {
		if strings.TrimSpace(tab.Title) == "" && strings.TrimSpace(tab.Content) == "" {
			continue
		}
		tabs = append(tabs, tab)
	}
	if len(tabs) == 0 {
		return Draft{}, fmt.Errorf("genai: draft has no tabs")
	}
	draft.Tabs = tabs
	draft.Source = SourceGemini
	return draft, nil
}

// Prompt is the instruction sent for topic and category.
func Prompt(topic string, category entities.Category) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a professional article in Hebrew for an Israeli law firm website about %q", topic)
	if category != "" {
		fmt.Fprintf(&b, " in the practice area %q", category.Label())
	}
	b.WriteString(". Reply with JSON only, shaped as ")
	b.WriteString(`{"title": string, "abstract": string, "quote": string, "tabs": [{"title": string, "content": string}]}`)
	b.WriteString(". Use three to four tabs; separate paragraphs inside content with line breaks.")
	return b.String()
}

// MockDraft is the deterministic draft returned when generation is not
// possible.
func MockDraft(topic string, category entities.Category) Draft {
	if topic == "" {
		topic = "נושא משפטי"
	}
	area := category.Label()
	if area == "" {
		area = "משפט"
	}
	return Draft{
		Title:    topic,
		Abstract: fmt.Sprintf("סקירה כללית בנושא %s בתחום %s.", topic, area),
		Quote:    "ייעוץ משפטי מוקדם חוסך זמן, כסף ועוגמת נפש.",
		Tabs: []entities.Tab{
			{
				Title:   "רקע",
				Content: fmt.Sprintf("מאמר זה סוקר את עיקרי הנושא %s.\nהמידע כללי ואינו מהווה ייעוץ משפטי.", topic),
			},
			{
				Title:   "מה חשוב לדעת",
				Content: "כל מקרה נבחן לגופו.\nמומלץ לאסוף את המסמכים הרלוונטיים לפני הפגישה.",
			},
			{
				Title:   "איך נוכל לעזור",
				Content: "צרו קשר עם המשרד לתיאום פגישת ייעוץ.",
			},
		},
		Source: SourceMock,
	}
}
