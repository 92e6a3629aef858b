package kernel

// Event is a mutable lifecycle record passed through the dispatcher around
// every stage transition. Events are dispatched as pointers; observers may
// mutate or annotate them and the dispatched result is authoritative for the
// operation that emitted it.
type Event interface {
	// Type returns the event type in reverse domain notation.
	Type() string
}

// EventType constants for the lifecycle events emitted by the kernel.
// Following the CloudEvents convention, these use reverse domain notation.
const (
	// Bootstrap phase events
	EventTypeBootstrapStarting = "com.embedkit.kernel.bootstrap.starting"
	EventTypeUnitBootstrapping = "com.embedkit.kernel.bootstrap.unit"
	EventTypeBootstrapped      = "com.embedkit.kernel.bootstrap.completed"

	// Init phase events
	EventTypeInitStarting         = "com.embedkit.kernel.init.starting"
	EventTypeProviderInitializing = "com.embedkit.kernel.provider.initializing"
	EventTypeInited               = "com.embedkit.kernel.init.completed"
	EventTypeStarted              = "com.embedkit.kernel.started"

	// Registration events
	EventTypeProviderRegistering = "com.embedkit.kernel.provider.registering"

	// Terminate phase events
	EventTypeTerminateStarting = "com.embedkit.kernel.terminate.starting"
	EventTypeTerminated        = "com.embedkit.kernel.terminate.completed"
)

// BootstrapStartingEvent is dispatched before any bootstrap unit runs.
// Observers may filter, reorder or replace Units, including injecting
// Sequence groups; the dispatched list is flattened and becomes the list the
// kernel actually processes.
type BootstrapStartingEvent struct {
	Units []Bootstrapper
}

func (*BootstrapStartingEvent) Type() string { return EventTypeBootstrapStarting }

// UnitBootstrappingEvent is dispatched for each bootstrap unit before its
// hook runs. Setting Skip prevents the hook from being invoked without
// aborting the surrounding bootstrap.
type UnitBootstrappingEvent struct {
	Unit Bootstrapper
	Skip bool
}

func (*UnitBootstrappingEvent) Type() string { return EventTypeUnitBootstrapping }

// BootstrappedEvent is dispatched once all bootstrap units have completed.
type BootstrappedEvent struct{}

func (*BootstrappedEvent) Type() string { return EventTypeBootstrapped }

// InitStartingEvent is dispatched before any provider is initialized.
type InitStartingEvent struct{}

func (*InitStartingEvent) Type() string { return EventTypeInitStarting }

// ProviderInitializingEvent is dispatched before a provider's Init hook runs.
type ProviderInitializingEvent struct {
	Provider ServiceProvider
}

func (*ProviderInitializingEvent) Type() string { return EventTypeProviderInitializing }

// InitedEvent is dispatched once every provider has been initialized.
type InitedEvent struct{}

func (*InitedEvent) Type() string { return EventTypeInited }

// StartedEvent is dispatched when the kernel reaches the running stage.
type StartedEvent struct{}

func (*StartedEvent) Type() string { return EventTypeStarted }

// ProviderRegisteringEvent is dispatched before a provider's Register hook
// runs. Setting Skip causes Register to return without registering the
// provider.
type ProviderRegisteringEvent struct {
	Provider ServiceProvider
	Skip     bool
}

func (*ProviderRegisteringEvent) Type() string { return EventTypeProviderRegistering }

// TerminateStartingEvent is dispatched before the container is flushed.
type TerminateStartingEvent struct{}

func (*TerminateStartingEvent) Type() string { return EventTypeTerminateStarting }

// TerminatedEvent is dispatched after termination completes.
type TerminatedEvent struct{}

func (*TerminatedEvent) Type() string { return EventTypeTerminated }

// Dispatcher delivers a lifecycle event synchronously to its observers and
// returns the event, possibly mutated or replaced by them. Implementations
// must invoke observers in registration order.
type Dispatcher interface {
	Dispatch(event Event) Event
}

// dispatch sends e through the configured dispatcher. With no dispatcher set,
// dispatch is a no-op returning the event unchanged.
func (k *Kernel) dispatch(e Event) Event {
	if k.dispatcher == nil {
		return e
	}
	return k.dispatcher.Dispatch(e)
}
