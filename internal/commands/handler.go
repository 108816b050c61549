// Package commands adapts firmsite state mutations to go-command. Every
// handler validates its message, bounds execution with a timeout, logs the
// outcome and tags failures with go-errors categories.
package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-firmsite/internal/logging"
	"github.com/goliatone/go-firmsite/pkg/interfaces"
)

// DefaultTimeout bounds a single command when no timeout is configured.
const DefaultTimeout = 15 * time.Second

// HandlerOption configures a Handler.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler implements command.Commander[T] around a plain function.
type Handler[T command.Message] struct {
	run       command.CommandFunc[T]
	logger    interfaces.Logger
	operation string
	fields    func(T) map[string]any
	timeout   time.Duration
	now       func() time.Time
}

// NewHandler wraps fn. It panics when fn is nil.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: nil command function")
	}
	h := &Handler[T]{
		run:     fn,
		logger:  logging.NoOp(),
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = logging.Ensure(logger)
	}
}

// WithOperation names the operation in log entries.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields derives extra log fields from each message.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.fields = fn
	}
}

// WithTimeout overrides DefaultTimeout. Zero or negative disables the bound.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

// WithClock replaces time.Now for duration reporting.
func WithClock[T command.Message](now func() time.Time) HandlerOption[T] {
	return func(h *Handler[T]) {
		if now != nil {
			h.now = now
		}
	}
}

// Operation returns the configured operation name.
func (h *Handler[T]) Operation() string {
	return h.operation
}

// Execute validates msg and runs the wrapped function.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return invalidMessage(err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return interrupted(err)
	}

	fields := h.logFields(msg)
	ctx = logging.ContextWithFields(ctx, fields)
	logger := logging.WithFields(h.logger, logging.ContextFields(ctx))

	started := h.now()
	err := classify(h.run(ctx, msg))
	if err == nil && ctx.Err() != nil {
		err = interrupted(ctx.Err())
	}
	elapsed := h.now().Sub(started)

	if err != nil {
		logger.Error("command.failed", "duration", elapsed, "error", err)
		return err
	}
	logger.Debug("command.completed", "duration", elapsed)
	return nil
}

func (h *Handler[T]) logFields(msg T) map[string]any {
	fields := map[string]any{"command": command.GetMessageType(msg)}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.fields != nil {
		for key, value := range h.fields(msg) {
			fields[key] = value
		}
	}
	return fields
}
