package gateway

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/goliatone/go-firmsite/entities"
	"github.com/goliatone/go-firmsite/internal/logging"
	"github.com/goliatone/go-firmsite/internal/reconcile"
	"github.com/goliatone/go-firmsite/pkg/interfaces"
)

var (
	ErrClosed          = errors.New("gateway: closed")
	ErrNotFound        = errors.New("gateway: entity not found")
	ErrDuplicateID     = errors.New("gateway: entity id already exists")
	ErrMissingID       = errors.New("gateway: entity id is required")
	ErrUnknownCategory = errors.New("gateway: unknown category")
	ErrNoReconciler    = errors.New("gateway: remote overlay requires a reconciler")
)

const (
	defaultQueueSize   = 64
	defaultSaveTimeout = 10 * time.Second
)

// Persister stores full state snapshots.
type Persister interface {
	Save(ctx context.Context, state entities.State) error
}

// RemoteOverlayer merges a remote document into the current state.
type RemoteOverlayer interface {
	OverlayRemote(current entities.State, remote reconcile.Document) entities.State
}

// ChangeEvent reports which top-level keys a mutation replaced.
type ChangeEvent struct {
	Keys   []string
	Source string
}

// Change sources.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// Gateway is the single writer of application state. Every mutation
// replaces whole top-level keys and schedules a snapshot write; writes run
// on one goroutine in the order mutations were applied.
type Gateway struct {
	mu     sync.RWMutex
	state  entities.State
	closed bool

	persister   Persister
	overlayer   RemoteOverlayer
	queue       chan entities.State
	done        chan struct{}
	saveTimeout time.Duration
	logger      interfaces.Logger

	watchMu  sync.Mutex
	watchers map[uint64]chan ChangeEvent
	nextID   uint64
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the gateway logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithQueueSize sets how many pending writes may queue before mutations
// wait for the writer.
func WithQueueSize(size int) Option {
	return func(g *Gateway) {
		if size > 0 {
			g.queue = make(chan entities.State, size)
		}
	}
}

// WithSaveTimeout bounds each snapshot write.
func WithSaveTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		if timeout > 0 {
			g.saveTimeout = timeout
		}
	}
}

// WithReconciler enables OverlayRemote.
func WithReconciler(overlayer RemoteOverlayer) Option {
	return func(g *Gateway) {
		g.overlayer = overlayer
	}
}

// New starts a gateway owning a copy of initial. A nil persister keeps
// state in memory only.
func New(initial entities.State, persister Persister, opts ...Option) *Gateway {
	g := &Gateway{
		state:       initial.Clone(),
		persister:   persister,
		queue:       make(chan entities.State, defaultQueueSize),
		done:        make(chan struct{}),
		saveTimeout: defaultSaveTimeout,
		logger:      logging.NoOp(),
		watchers:    map[uint64]chan ChangeEvent{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	go g.writer()
	return g
}

func (g *Gateway) writer() {
	defer close(g.done)
	for state := range g.queue {
		if g.persister == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), g.saveTimeout)
		if err := g.persister.Save(ctx, state); err != nil {
			g.logger.Error("state.persist.failed", "error", err)
		}
		cancel()
	}
}

// Snapshot returns a deep copy of the current state.
func (g *Gateway) Snapshot() entities.State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state.Clone()
}

// Apply replaces the keys provided in patch and returns the new state.
func (g *Gateway) Apply(ctx context.Context, patch Patch) (entities.State, error) {
	keys := patch.Keys()
	return g.mutate(ctx, SourceLocal, keys, func(state *entities.State) error {
		patch.apply(state)
		return nil
	})
}

// UpdateConfig edits the site configuration in place.
func (g *Gateway) UpdateConfig(ctx context.Context, fn func(*entities.SiteConfig) error) (entities.State, error) {
	return g.mutate(ctx, SourceLocal, []string{reconcile.KeyConfig}, func(state *entities.State) error {
		cfg := state.Config
		if err := fn(&cfg); err != nil {
			return err
		}
		state.Config = cfg
		return nil
	})
}

// SetCategory changes the category being browsed.
func (g *Gateway) SetCategory(ctx context.Context, category entities.Category) error {
	if !category.Known() {
		return ErrUnknownCategory
	}
	_, err := g.Apply(ctx, Patch{CurrentCategory: &category})
	return err
}

// Login opens the admin session when password matches the configured admin
// password. An empty password never matches.
func (g *Gateway) Login(ctx context.Context, password string) (bool, error) {
	ok := false
	_, err := g.mutate(ctx, SourceLocal, []string{reconcile.KeyIsAdminLoggedIn}, func(state *entities.State) error {
		ok = password != "" && password == state.Config.AdminPassword
		if !ok {
			return errLoginRejected
		}
		state.IsAdminLoggedIn = true
		return nil
	})
	if errors.Is(err, errLoginRejected) {
		return false, nil
	}
	return ok, err
}

var errLoginRejected = errors.New("gateway: login rejected")

// Logout closes the admin session.
func (g *Gateway) Logout(ctx context.Context) error {
	_, err := g.Apply(ctx, Patch{IsAdminLoggedIn: Ptr(false)})
	return err
}

// IsAdmin reports whether the admin session is open.
func (g *Gateway) IsAdmin() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state.IsAdminLoggedIn
}

// OverlayRemote merges a remote document into the state. Session fields are
// kept by the reconciler.
func (g *Gateway) OverlayRemote(ctx context.Context, doc reconcile.Document) (entities.State, error) {
	if g.overlayer == nil {
		return entities.State{}, ErrNoReconciler
	}
	keys := []string{}
	for _, key := range reconcile.ContentKeys {
		if value, ok := doc[key]; ok && value != nil {
			keys = append(keys, key)
		}
	}
	return g.mutate(ctx, SourceRemote, keys, func(state *entities.State) error {
		*state = g.overlayer.OverlayRemote(*state, doc)
		return nil
	})
}

// mutate runs fn on a working copy and commits it when fn succeeds. The
// write is queued while the lock is held so queue order matches commit order.
func (g *Gateway) mutate(ctx context.Context, source string, keys []string, fn func(*entities.State) error) (entities.State, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return entities.State{}, err
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return entities.State{}, ErrClosed
	}
	working := g.state.Clone()
	if err := fn(&working); err != nil {
		g.mu.Unlock()
		return entities.State{}, err
	}
	g.state = working
	g.queue <- working.Clone()
	out := working.Clone()
	g.mu.Unlock()

	g.broadcast(ChangeEvent{Keys: slices.Clone(keys), Source: source})
	return out, nil
}

// Subscribe delivers change events until ctx is cancelled. Slow subscribers
// miss events rather than blocking writers.
func (g *Gateway) Subscribe(ctx context.Context) <-chan ChangeEvent {
	ch := make(chan ChangeEvent, 8)
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		close(ch)
		return ch
	}
	g.watchMu.Lock()
	id := g.nextID
	g.nextID++
	g.watchers[id] = ch
	g.watchMu.Unlock()

	go func() {
		<-ctx.Done()
		g.watchMu.Lock()
		delete(g.watchers, id)
		close(ch)
		g.watchMu.Unlock()
	}()
	return ch
}

func (g *Gateway) broadcast(evt ChangeEvent) {
	g.watchMu.Lock()
	defer g.watchMu.Unlock()
	for _, ch := range g.watchers {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Close stops accepting mutations and waits for queued writes to finish or
// ctx to end.
func (g *Gateway) Close(ctx context.Context) error {
	g.mu.Lock()
	if !g.closed {
		g.closed = true
		close(g.queue)
	}
	g.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
