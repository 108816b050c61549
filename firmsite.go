// Package firmsite is the runtime of a law firm marketing site: it loads and
// reconciles the site state, serialises every edit through one gateway,
// persists snapshots locally and mirrors them to an optional remote backend.
package firmsite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-firmsite/entities"
	statecmd "github.com/goliatone/go-firmsite/internal/commands/state"
	synccmd "github.com/goliatone/go-firmsite/internal/commands/sync"
	"github.com/goliatone/go-firmsite/internal/forms"
	"github.com/goliatone/go-firmsite/internal/gateway"
	"github.com/goliatone/go-firmsite/internal/genai"
	"github.com/goliatone/go-firmsite/internal/imagesearch"
	"github.com/goliatone/go-firmsite/internal/logging"
	"github.com/goliatone/go-firmsite/internal/markdown"
	"github.com/goliatone/go-firmsite/internal/payments"
	"github.com/goliatone/go-firmsite/internal/persistence"
	"github.com/goliatone/go-firmsite/internal/reconcile"
	"github.com/goliatone/go-firmsite/internal/remote"
	"github.com/goliatone/go-firmsite/pkg/interfaces"
	"github.com/google/uuid"
)

var (
	// ErrRemoteDisabled is returned by remote operations when no backend is configured.
	ErrRemoteDisabled = errors.New("firmsite: remote backend is not configured")
	// ErrUploadFailed is returned when the backend did not accept an image.
	ErrUploadFailed = errors.New("firmsite: image upload failed")
)

// SyncResult reports the outcome of a background remote sync.
type SyncResult struct {
	Backend string
	Applied bool
	Err     error
}

// Option customises Open.
type Option func(*options)

type options struct {
	loggerProvider interfaces.LoggerProvider
	repository     persistence.Repository
	httpClient     *http.Client
	activitySink   interfaces.ActivitySink
	defaults       *entities.State
	now            func() time.Time
}

// WithLoggerProvider overrides the provider built from cfg.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *options) {
		o.loggerProvider = provider
	}
}

// WithRepository supplies the snapshot repository. The caller keeps
// ownership and Close does not release it.
func WithRepository(repo persistence.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithHTTPClient shares one client between the remote backend, the draft
// generator and the image search.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithActivitySink receives an activity record per admin edit when the
// activity feature is enabled.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(o *options) {
		o.activitySink = sink
	}
}

// WithDefaults replaces the built-in default state.
func WithDefaults(state entities.State) Option {
	return func(o *options) {
		o.defaults = &state
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Module is the assembled runtime.
type Module struct {
	cfg      Config
	opts     options
	provider interfaces.LoggerProvider
	logger   interfaces.Logger

	adapter    *persistence.Adapter
	closer     io.Closer
	reconciler *reconcile.Reconciler
	gateway    *gateway.Gateway
	commands   *statecmd.Handlers
	generator  *genai.Generator
	images     *imagesearch.Searcher
	forms      *forms.Service
	importer   *markdown.Importer

	remoteMu     sync.Mutex
	remote       remote.Backend
	remoteFor    entities.Integrations
	remoteLoaded bool

	syncs     sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// Open validates cfg, loads and reconciles the local snapshot and assembles
// the services around the gateway. The remote backend is not contacted;
// call StartRemoteSync once the initial state is on screen.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	provider := o.loggerProvider
	if provider == nil {
		built, err := newLoggerProvider(cfg)
		if err != nil {
			return nil, err
		}
		provider = built
	}

	m := &Module{
		cfg:      cfg,
		opts:     o,
		provider: provider,
		logger:   logging.ModuleLogger(provider, logging.RootModule),
	}

	repo, closer := o.repository, io.Closer(nil)
	if repo == nil {
		opened, c, err := persistence.Open(ctx, cfg.Storage, cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("firmsite: open storage: %w", err)
		}
		repo, closer = opened, c
	}
	m.closer = closer

	adapter, err := persistence.NewAdapter(repo,
		persistence.Key(cfg.Storage.KeyPrefix, cfg.Storage.Version),
		persistence.WithLogger(logging.ModuleLogger(provider, logging.PersistenceModule)),
		persistence.WithSchemaVersion(reconcile.CurrentVersion),
	)
	if err != nil {
		m.releaseStorage()
		return nil, err
	}
	m.adapter = adapter

	m.reconciler = reconcile.New(
		reconcile.WithLogger(logging.ModuleLogger(provider, logging.ReconcileModule)),
	)
	defaults := entities.DefaultState()
	if o.defaults != nil {
		defaults = o.defaults.Clone()
	}
	snapshot, found := adapter.Load(ctx)
	initial := m.reconciler.Reconcile(defaults, snapshot, found)

	m.gateway = gateway.New(initial, adapter,
		gateway.WithLogger(logging.ModuleLogger(provider, logging.GatewayModule)),
		gateway.WithQueueSize(cfg.Gateway.WriteQueue),
		gateway.WithReconciler(m.reconciler),
	)

	cmdOpts := []statecmd.Option{
		statecmd.WithLogger(logging.ModuleLogger(provider, "firmsite.commands")),
		statecmd.WithTimeout(cfg.Commands.Timeout),
		statecmd.WithClock(o.now),
	}
	if cfg.Features.Activity && o.activitySink != nil {
		cmdOpts = append(cmdOpts, statecmd.WithActivitySink(o.activitySink))
	}
	m.commands = statecmd.NewHandlers(m.gateway, cmdOpts...)

	genOpts := []genai.Option{
		genai.WithBaseURL(cfg.GenAI.BaseURL),
		genai.WithModel(cfg.GenAI.Model),
		genai.WithLogger(logging.ModuleLogger(provider, logging.GenAIModule)),
	}
	imgOpts := []imagesearch.Option{
		imagesearch.WithBaseURL(cfg.Images.BaseURL),
		imagesearch.WithPerPage(cfg.Images.PerPage),
		imagesearch.WithLogger(logging.ModuleLogger(provider, logging.ImagesModule)),
	}
	if o.httpClient != nil {
		genOpts = append(genOpts, genai.WithHTTPClient(o.httpClient))
		imgOpts = append(imgOpts, imagesearch.WithHTTPClient(o.httpClient))
	}
	m.generator = genai.New(cfg.GenAI.Timeout, genOpts...)
	m.images = imagesearch.New(cfg.Images.Timeout, imgOpts...)

	m.forms = forms.New(
		forms.WithSubmitter(func() forms.Submitter {
			return forms.WebhookSubmitter(m.gateway.Snapshot().Config.Integrations, m.remoteOptions()...)
		}),
		forms.WithLogger(logging.ModuleLogger(provider, logging.FormsModule)),
		forms.WithClock(o.now),
	)
	m.importer = markdown.NewImporter(logging.ModuleLogger(provider, logging.MarkdownModule))

	m.logger.Info("firmsite.open",
		"storage", cfg.Storage.Provider,
		"key", adapter.Key(),
		"snapshot_found", found,
		"backend", m.Remote().Name(),
	)
	return m, nil
}

func (m *Module) remoteOptions() []remote.Option {
	opts := []remote.Option{
		remote.WithTimeout(m.cfg.Remote.Timeout),
		remote.WithTable(m.cfg.Remote.Table, m.cfg.Remote.RowID),
		remote.WithBucket(m.cfg.Remote.Bucket),
		remote.WithMaxUploadSize(m.cfg.Remote.MaxUploadSize),
		remote.WithLogger(logging.ModuleLogger(m.provider, logging.RemoteModule)),
		remote.WithNow(m.opts.now),
	}
	if m.opts.httpClient != nil {
		opts = append(opts, remote.WithHTTPClient(m.opts.httpClient))
	}
	return opts
}

// Config returns the configuration the module was opened with.
func (m *Module) Config() Config {
	return m.cfg
}

// State returns a copy of the current state.
func (m *Module) State() entities.State {
	return m.gateway.Snapshot()
}

// Gateway returns the mutation gateway.
func (m *Module) Gateway() *gateway.Gateway {
	return m.gateway
}

// Commands returns the state command handlers.
func (m *Module) Commands() *statecmd.Handlers {
	return m.commands
}

// Generator returns the article draft generator.
func (m *Module) Generator() *genai.Generator {
	return m.generator
}

// Images returns the image search client.
func (m *Module) Images() *imagesearch.Searcher {
	return m.images
}

// Forms returns the form submission service.
func (m *Module) Forms() *forms.Service {
	return m.forms
}

// Importer returns the markdown article importer.
func (m *Module) Importer() *markdown.Importer {
	return m.importer
}

// Remote returns the backend selected by the current integrations. The
// backend is rebuilt only when the integrations change.
func (m *Module) Remote() remote.Backend {
	integrations := m.gateway.Snapshot().Config.Integrations

	m.remoteMu.Lock()
	defer m.remoteMu.Unlock()
	if m.remoteLoaded && m.remoteFor == integrations {
		return m.remote
	}
	m.remote = remote.Select(integrations, m.remoteOptions()...)
	m.remoteFor = integrations
	m.remoteLoaded = true
	return m.remote
}

// StartRemoteSync fetches the remote document in the background and
// overlays it through the gateway. The channel delivers one result and is
// closed. A disabled backend or feature reports immediately.
func (m *Module) StartRemoteSync(ctx context.Context) <-chan SyncResult {
	out := make(chan SyncResult, 1)
	backend := m.Remote()
	if !m.cfg.Features.RemoteSync || !backend.Enabled() {
		out <- SyncResult{Backend: backend.Name()}
		close(out)
		return out
	}
	if ctx == nil {
		ctx = context.Background()
	}

	m.syncs.Add(1)
	go func() {
		defer m.syncs.Done()
		defer close(out)

		logger := logging.WithFields(m.logger, map[string]any{"backend": backend.Name()})
		applied, err := synccmd.Pull(ctx, m.gateway, backend)
		switch {
		case err != nil:
			logger.Warn("firmsite.remote_sync.failed", "error", err)
		case applied:
			logger.Info("firmsite.remote_sync.applied")
		default:
			logger.Info("firmsite.remote_sync.skipped")
		}
		out <- SyncResult{Backend: backend.Name(), Applied: applied, Err: err}
	}()
	return out
}

// PushRemote saves the current state to the remote backend.
func (m *Module) PushRemote(ctx context.Context) error {
	backend := m.Remote()
	if !backend.Enabled() {
		return ErrRemoteDisabled
	}
	return backend.SaveState(ctx, m.gateway.Snapshot())
}

// UploadImage validates upload and stores it with the remote backend,
// returning the public URL.
func (m *Module) UploadImage(ctx context.Context, upload remote.Upload) (string, error) {
	upload, err := remote.ValidateUpload(upload, m.cfg.Remote.MaxUploadSize)
	if err != nil {
		return "", err
	}
	backend := m.Remote()
	if !backend.Enabled() {
		return "", ErrRemoteDisabled
	}
	url, ok := backend.UploadImage(ctx, upload)
	if !ok {
		return "", ErrUploadFailed
	}
	return url, nil
}

// GenerateArticle drafts an article about topic and adds it to the state.
// A draft is always produced; without a usable key it is the mock draft.
func (m *Module) GenerateArticle(ctx context.Context, topic string, category entities.Category, actor uuid.UUID) (entities.Article, error) {
	key := m.gateway.Snapshot().Config.Integrations.GeminiAPIKey
	article := m.generator.Generate(ctx, topic, category, key).Article(category)
	article.ID = entities.NewID()
	err := m.commands.UpsertArticle.Execute(ctx, statecmd.UpsertArticleCommand{Article: article, ActorID: actor})
	if err != nil {
		return entities.Article{}, err
	}
	return article, nil
}

// ImportArticles parses a markdown file, or every markdown file below a
// directory, and upserts the articles. Articles imported before a failure
// are kept.
func (m *Module) ImportArticles(ctx context.Context, path string, actor uuid.UUID) ([]entities.Article, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var articles []entities.Article
	var importErr error
	if info.IsDir() {
		articles, importErr = m.importer.ImportDir(path)
	} else {
		article, err := m.importer.ImportFile(path)
		if err != nil {
			return nil, err
		}
		articles = []entities.Article{article}
	}

	stored := make([]entities.Article, 0, len(articles))
	for _, article := range articles {
		if err := m.commands.UpsertArticle.Execute(ctx, statecmd.UpsertArticleCommand{Article: article, ActorID: actor}); err != nil {
			return stored, errors.Join(importErr, fmt.Errorf("import %s: %w", article.ID, err))
		}
		stored = append(stored, article)
	}
	return stored, importErr
}

// SearchImages queries the image search with the configured access key.
func (m *Module) SearchImages(ctx context.Context, query string) []imagesearch.Image {
	key := m.gateway.Snapshot().Config.Integrations.UnsplashAccessKey
	return m.images.Search(ctx, query, key)
}

// SubmitForm validates and delivers a public form submission.
func (m *Module) SubmitForm(ctx context.Context, formID string, values forms.Values) (forms.Result, error) {
	return m.forms.SubmitByID(ctx, m.gateway.Snapshot(), formID, values)
}

// PaymentLink returns the checkout link for product, "#" when none is set.
func (m *Module) PaymentLink(product payments.ProductID) string {
	return payments.Link(m.gateway.Snapshot().Config.Integrations, product)
}

// Reset removes the local snapshot. The in-memory state is untouched until
// the module is opened again.
func (m *Module) Reset(ctx context.Context) error {
	return m.adapter.Clear(ctx)
}

// Close waits for background syncs and queued writes, then releases the
// storage opened by Open.
func (m *Module) Close(ctx context.Context) error {
	m.closeOnce.Do(func() {
		m.syncs.Wait()
		if err := m.gateway.Close(ctx); err != nil {
			m.closeErr = err
		}
		if err := m.releaseStorage(); err != nil {
			m.closeErr = errors.Join(m.closeErr, err)
		}
	})
	return m.closeErr
}

func (m *Module) releaseStorage() error {
	if m.closer == nil {
		return nil
	}
	err := m.closer.Close()
	m.closer = nil
	if err != nil {
		return fmt.Errorf("firmsite: close storage: %w", err)
	}
	return nil
}

// ParseCategory maps user input to a known category, ignoring case.
func ParseCategory(value string) (entities.Category, bool) {
	value = strings.TrimSpace(value)
	for _, category := range entities.Categories() {
		if strings.EqualFold(string(category), value) {
			return category, true
		}
	}
	return "", false
}
