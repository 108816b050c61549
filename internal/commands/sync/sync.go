// Package synccmd exposes remote pull and push as go-command handlers that
// can also run from cron or a CLI.
package synccmd

import (
	"context"
	"errors"
	"strings"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-firmsite/internal/commands"
	"github.com/goliatone/go-firmsite/internal/gateway"
	"github.com/goliatone/go-firmsite/internal/logging"
	"github.com/goliatone/go-firmsite/internal/remote"
	"github.com/goliatone/go-firmsite/pkg/interfaces"
)

const (
	pullRemoteMessageType = "firmsite.sync.pull"
	pushRemoteMessageType = "firmsite.sync.push"

	// DefaultPullCron refreshes the local state from the remote backend.
	DefaultPullCron = "@every 15m"
)

// ErrRemoteDisabled is returned by push when no backend is configured.
var ErrRemoteDisabled = errors.New("synccmd: remote backend is not configured")

// BackendFunc returns the backend for the current integrations.
type BackendFunc func() remote.Backend

// Pull loads the remote document and overlays it through the gateway. It
// reports false when the backend had nothing to apply.
func Pull(ctx context.Context, gw *gateway.Gateway, backend remote.Backend) (bool, error) {
	if backend == nil || !backend.Enabled() {
		return false, nil
	}
	doc, ok := backend.LoadState(ctx)
	if !ok {
		return false, nil
	}
	if _, err := gw.OverlayRemote(ctx, doc); err != nil {
		return false, err
	}
	return true, nil
}

// PullRemoteCommand merges the remote state into the local state.
type PullRemoteCommand struct{}

// Type implements command.Message.
func (PullRemoteCommand) Type() string { return pullRemoteMessageType }

// Validate satisfies command.Message.
func (PullRemoteCommand) Validate() error { return nil }

// PushRemoteCommand saves the local state to the remote backend.
type PushRemoteCommand struct{}

// Type implements command.Message.
func (PushRemoteCommand) Type() string { return pushRemoteMessageType }

// Validate satisfies command.Message.
func (PushRemoteCommand) Validate() error { return nil }

// Option customises the sync handlers.
type Option func(*config)

type config struct {
	logger     interfaces.Logger
	timeout    time.Duration
	cronConfig command.HandlerConfig
}

// WithLogger sets the handler logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout overrides the execution timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.timeout = timeout
	}
}

// WithCronExpression overrides the pull schedule.
func WithCronExpression(expression string) Option {
	return func(c *config) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			c.cronConfig.Expression = trimmed
		}
	}
}

// PullRemoteHandler runs PullRemoteCommand.
type PullRemoteHandler struct {
	*commands.Handler[PullRemoteCommand]
	cronConfig command.HandlerConfig
}

// PushRemoteHandler runs PushRemoteCommand.
type PushRemoteHandler struct {
	*commands.Handler[PushRemoteCommand]
}

func newConfig(opts []Option) config {
	cfg := config{
		logger:     logging.NoOp(),
		cronConfig: command.HandlerConfig{Expression: DefaultPullCron},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// NewPullRemoteHandler builds the pull handler.
func NewPullRemoteHandler(gw *gateway.Gateway, backend BackendFunc, opts ...Option) *PullRemoteHandler {
	cfg := newConfig(opts)
	handlerOpts := []commands.HandlerOption[PullRemoteCommand]{
		commands.WithLogger[PullRemoteCommand](cfg.logger),
		commands.WithOperation[PullRemoteCommand]("sync.pull"),
	}
	if cfg.timeout > 0 {
		handlerOpts = append(handlerOpts, commands.WithTimeout[PullRemoteCommand](cfg.timeout))
	}
	return &PullRemoteHandler{
		Handler: commands.NewHandler(func(ctx context.Context, _ PullRemoteCommand) error {
			selected := backend()
			applied, err := Pull(ctx, gw, selected)
			if err != nil {
				return err
			}
			logging.WithFields(cfg.logger, map[string]any{
				"backend": selected.Name(),
				"applied": applied,
			}).Debug("sync.command.pull.completed")
			return nil
		}, handlerOpts...),
		cronConfig: cfg.cronConfig,
	}
}

// NewPushRemoteHandler builds the push handler.
func NewPushRemoteHandler(gw *gateway.Gateway, backend BackendFunc, opts ...Option) *PushRemoteHandler {
	cfg := newConfig(opts)
	handlerOpts := []commands.HandlerOption[PushRemoteCommand]{
		commands.WithLogger[PushRemoteCommand](cfg.logger),
		commands.WithOperation[PushRemoteCommand]("sync.push"),
	}
	if cfg.timeout > 0 {
		handlerOpts = append(handlerOpts, commands.WithTimeout[PushRemoteCommand](cfg.timeout))
	}
	return &PushRemoteHandler{
		Handler: commands.NewHandler(func(ctx context.Context, _ PushRemoteCommand) error {
			selected := backend()
			if !selected.Enabled() {
				return ErrRemoteDisabled
			}
			return selected.SaveState(ctx, gw.Snapshot())
		}, handlerOpts...),
	}
}

// CronHandler satisfies command.CronCommand.
func (h *PullRemoteHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), PullRemoteCommand{})
	}
}

// CronOptions satisfies command.CronCommand.
func (h *PullRemoteHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

// CLIHandler exposes the pull handler to CLI integrations.
func (h *PullRemoteHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for remote pull.
func (h *PullRemoteHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"sync", "pull"},
		Group:       "sync",
		Description: "Merge the remote site state into the local snapshot",
	}
}

// CLIHandler exposes the push handler to CLI integrations.
func (h *PushRemoteHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for remote push.
func (h *PushRemoteHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"sync", "push"},
		Group:       "sync",
		Description: "Save the local site state to the remote backend",
	}
}
