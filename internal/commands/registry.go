package commands

// Registry receives command handlers, typically a host application's
// command bus.
type Registry interface {
	RegisterCommand(handler any) error
}

// Subscription is an active dispatcher binding.
type Subscription interface {
	Unsubscribe()
}
