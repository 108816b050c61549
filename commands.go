package firmsite

import (
	"errors"

	command "github.com/goliatone/go-command"
	synccmd "github.com/goliatone/go-firmsite/internal/commands/sync"
	"github.com/goliatone/go-firmsite/internal/logging"
	"github.com/goliatone/go-firmsite/internal/remote"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are handed to the host.
type RegistrationOptions struct {
	Registry      CommandRegistry
	Dispatcher    CommandDispatcher
	CronRegistrar CronRegistrar
	// PullCron overrides the schedule of the remote pull handler.
	PullCron string
}

// RegistrationResult captures the handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// RegisterCommands hands the state and sync handlers to the configured
// registry, dispatcher and cron integrations. Every handler is attempted;
// failures are joined.
func (m *Module) RegisterCommands(opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{}
	var errs error

	register := func(handler any) {
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}
		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
		if opts.CronRegistrar != nil {
			if cronCmd, ok := handler.(command.CronCommand); ok {
				if err := opts.CronRegistrar(cronCmd.CronOptions(), cronCmd.CronHandler()); err != nil {
					errs = errors.Join(errs, err)
				}
			}
		}
	}

	for _, handler := range m.commands.All() {
		register(handler)
	}

	syncOpts := []synccmd.Option{
		synccmd.WithLogger(logging.ModuleLogger(m.provider, "firmsite.commands.sync")),
		synccmd.WithTimeout(m.cfg.Commands.Timeout),
		synccmd.WithCronExpression(opts.PullCron),
	}
	backend := func() remote.Backend { return m.Remote() }
	if m.cfg.Features.RemoteSync {
		register(synccmd.NewPullRemoteHandler(m.gateway, backend, syncOpts...))
	}
	register(synccmd.NewPushRemoteHandler(m.gateway, backend, syncOpts...))

	return result, errs
}
