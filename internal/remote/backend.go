package remote

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-firmsite/entities"
	"github.com/goliatone/go-firmsite/internal/logging"
	"github.com/goliatone/go-firmsite/internal/reconcile"
	"github.com/goliatone/go-firmsite/pkg/interfaces"
)

const (
	defaultTimeout = 15 * time.Second
	defaultTable   = "app_state"
	defaultRowID   = 1
	defaultBucket  = "images"

	// DefaultMaxUploadSize caps image uploads at 5MB.
	DefaultMaxUploadSize int64 = 5 << 20
)

// Backend names.
const (
	NameSupabase = "supabase"
	NameSheets   = "sheets"
	NameDisabled = "disabled"
)

var (
	ErrInvalidImage  = errors.New("remote: file is not an image")
	ErrImageTooLarge = errors.New("remote: image exceeds the upload size limit")
)

// Backend loads and saves the shared state document and hosts images.
// Load failures never surface as errors; they report no data.
type Backend interface {
	Name() string
	Enabled() bool
	LoadState(ctx context.Context) (reconcile.Document, bool)
	SaveState(ctx context.Context, state entities.State) error
	UploadImage(ctx context.Context, upload Upload) (string, bool)
}

// Upload is an image selected for upload.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Options tunes backend construction.
type Options struct {
	HTTPClient    *http.Client
	Timeout       time.Duration
	Table         string
	RowID         int
	Bucket        string
	MaxUploadSize int64
	Logger        interfaces.Logger
	Now           func() time.Time
}

// Option mutates Options.
type Option func(*Options)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) { o.HTTPClient = client }
}

// WithTimeout sets the client timeout when no client is supplied.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) { o.Timeout = timeout }
}

// WithTable sets the Supabase table and row holding the state document.
func WithTable(table string, rowID int) Option {
	return func(o *Options) {
		o.Table = table
		o.RowID = rowID
	}
}

// WithBucket sets the Supabase storage bucket for images.
func WithBucket(bucket string) Option {
	return func(o *Options) { o.Bucket = bucket }
}

// WithMaxUploadSize overrides the image size limit.
func WithMaxUploadSize(size int64) Option {
	return func(o *Options) { o.MaxUploadSize = size }
}

// WithLogger sets the backend logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithNow overrides the clock used for cache busting and upload paths.
func WithNow(now func() time.Time) Option {
	return func(o *Options) { o.Now = now }
}

func buildOptions(opts []Option) Options {
	o := Options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: o.Timeout}
	}
	if strings.TrimSpace(o.Table) == "" {
		o.Table = defaultTable
	}
	if o.RowID <= 0 {
		o.RowID = defaultRowID
	}
	if strings.TrimSpace(o.Bucket) == "" {
		o.Bucket = defaultBucket
	}
	if o.MaxUploadSize <= 0 {
		o.MaxUploadSize = DefaultMaxUploadSize
	}
	o.Logger = logging.Ensure(o.Logger)
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Select picks the backend for the configured integrations: Supabase when
// both its URL and key are set, else the legacy webhook when its URL is a
// Google Apps Script macro, else a disabled backend.
func Select(integrations entities.Integrations, opts ...Option) Backend {
	o := buildOptions(opts)
	supabaseURL := strings.TrimSpace(integrations.SupabaseURL)
	supabaseKey := strings.TrimSpace(integrations.SupabaseKey)
	if supabaseURL != "" && supabaseKey != "" {
		return newSupabase(supabaseURL, supabaseKey, o)
	}
	if IsLegacyWebhookURL(integrations.GoogleSheetsURL) {
		return newSheets(strings.TrimSpace(integrations.GoogleSheetsURL), o)
	}
	return Disabled{}
}

// IsLegacyWebhookURL reports whether raw is a Google Apps Script macro URL.
func IsLegacyWebhookURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme == "https" &&
		strings.EqualFold(parsed.Host, "script.google.com") &&
		strings.HasPrefix(parsed.Path, "/macros/")
}

// ContentDocument returns the content portion of state exchanged with
// remote backends. Session fields are never sent.
func ContentDocument(state entities.State) (reconcile.Document, error) {
	doc, err := reconcile.FromState(state, reconcile.CurrentVersion)
	if err != nil {
		return nil, err
	}
	return doc.Only(reconcile.ContentKeys...), nil
}

// Disabled is the backend used when no remote is configured.
type Disabled struct{}

func (Disabled) Name() string  { return NameDisabled }
func (Disabled) Enabled() bool { return false }

func (Disabled) LoadState(context.Context) (reconcile.Document, bool) { return nil, false }

func (Disabled) SaveState(context.Context, entities.State) error { return nil }

func (Disabled) UploadImage(context.Context, Upload) (string, bool) { return "", false }
