// Package kernel provides an embeddable application kernel built on top of a
// dependency-injection container. The kernel drives a fixed sequence of
// startup stages (bootstrap, init, running, terminate), maintains the ordered
// registry of service providers hooking into those stages, and guards the
// container against resolution while a provider's registration wiring is in
// an inconsistent intermediate state.
//
// Basic usage:
//
//	k, err := kernel.New(kernel.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := k.Register(&MyProvider{}, false); err != nil {
//		log.Fatal(err)
//	}
//	if err := k.Bootstrap([]kernel.Bootstrapper{}); err != nil {
//		log.Fatal(err)
//	}
//	if err := k.Init(); err != nil {
//		log.Fatal(err)
//	}
//	defer k.Terminate()
package kernel

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/embedkit/kernel/config"
	"github.com/embedkit/kernel/container"
)

// Service names the kernel publishes into its container.
const (
	// ServiceKernel resolves to the kernel instance itself.
	ServiceKernel = "kernel"

	// ServiceDispatcher resolves to the current event dispatcher.
	ServiceDispatcher = "kernel.dispatcher"

	// ServiceDebugLevel resolves to the current debug level value.
	ServiceDebugLevel = "kernel.debugLevel"
)

// Kernel orchestrates the application lifecycle. Its lifecycle operations
// (Bootstrap, Init, Register, Terminate) are not internally synchronized and
// must be driven sequentially from a single orchestrating goroutine. The read
// accessors (Process, IsBootstrapped, IsInited, DebugLevel, Providers,
// Dispatcher) and the diagnostics handler snapshot state under a lock and are
// safe to call from host goroutines while the lifecycle is in motion.
type Kernel struct {
	cnt        *container.Container
	dispatcher Dispatcher
	logger     Logger

	// mu guards the mutable lifecycle state below for readers on host
	// goroutines; lifecycle writes take it exclusively.
	mu            sync.RWMutex
	process       Process
	bootstrapped  bool
	inited        bool
	registering   bool
	debugLevel    int
	providers     []ServiceProvider
	mainGoroutine uint64
}

// activeInstance holds the process-wide kernel designated as the implicit
// target for ambient lookups. Optional: set via AsActiveInstance, cleared by
// Terminate only when self-referential.
var activeInstance atomic.Pointer[Kernel]

// Active returns the kernel currently designated as the process-wide active
// instance, or nil if none is designated.
func Active() *Kernel {
	return activeInstance.Load()
}

// Option configures a kernel during construction.
type Option func(*Kernel) error

// WithLogger sets the kernel logger. Without it, kernel logs are discarded.
func WithLogger(logger Logger) Option {
	return func(k *Kernel) error {
		k.logger = logger
		return nil
	}
}

// WithDispatcher sets the lifecycle event dispatcher and publishes it into
// the container, as SetDispatcher does.
func WithDispatcher(d Dispatcher) Option {
	return func(k *Kernel) error {
		if d == nil {
			return ErrNilDispatcher
		}
		k.SetDispatcher(d)
		return nil
	}
}

// WithDebugLevel sets the initial debug level and publishes it into the
// container, as SetDebugLevel does.
func WithDebugLevel(level int) Option {
	return func(k *Kernel) error {
		k.SetDebugLevel(level)
		return nil
	}
}

// WithConfig applies settings loaded by the config package: the debug level
// is published into the container and, if requested, the kernel is
// designated as the process-wide active instance.
func WithConfig(cfg *config.Config) Option {
	return func(k *Kernel) error {
		if cfg == nil {
			return ErrNilConfig
		}
		k.SetDebugLevel(cfg.DebugLevel)
		if cfg.ActivateInstance {
			activeInstance.Store(k)
		}
		return nil
	}
}

// AsActiveInstance designates the constructed kernel as the process-wide
// active instance, replacing any previous designation.
func AsActiveInstance() Option {
	return func(k *Kernel) error {
		activeInstance.Store(k)
		return nil
	}
}

// New constructs a kernel in the construct stage. The goroutine calling New
// is recorded as the kernel's main goroutine.
func New(opts ...Option) (*Kernel, error) {
	k := &Kernel{
		cnt:           container.New(),
		logger:        nopLogger{},
		process:       ProcessConstruct,
		mainGoroutine: goroutineID(),
	}
	k.cnt.SetGuard(k.resolveGuard)
	k.cnt.Instance(ServiceKernel, k)
	k.cnt.TypeName(reflect.TypeOf(k), ServiceKernel)

	for _, opt := range opts {
		if err := opt(k); err != nil {
			return nil, fmt.Errorf("failed to apply kernel option: %w", err)
		}
	}
	return k, nil
}

// Process returns the current lifecycle stage.
func (k *Kernel) Process() Process {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.process
}

// IsBootstrapped reports whether Bootstrap has completed.
func (k *Kernel) IsBootstrapped() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.bootstrapped
}

// IsInited reports whether Init has completed.
func (k *Kernel) IsInited() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.inited
}

// Container returns the kernel's service container.
func (k *Kernel) Container() *container.Container {
	return k.cnt
}

// Logger returns the kernel logger.
func (k *Kernel) Logger() Logger {
	return k.logger
}

// DebugLevel returns the current debug level.
func (k *Kernel) DebugLevel() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.debugLevel
}

// SetDebugLevel stores the debug level and re-publishes it into the container
// under ServiceDebugLevel so components can resolve it instead of holding a
// kernel reference.
func (k *Kernel) SetDebugLevel(level int) {
	k.mu.Lock()
	k.debugLevel = level
	k.mu.Unlock()
	k.cnt.Instance(ServiceDebugLevel, level)
}

// SetDispatcher stores the event dispatcher for internal dispatch and
// publishes it into the container under ServiceDispatcher, including the
// type-to-service-name mapping for Dispatcher.
func (k *Kernel) SetDispatcher(d Dispatcher) {
	k.mu.Lock()
	k.dispatcher = d
	k.mu.Unlock()
	k.cnt.Instance(ServiceDispatcher, d)
	k.cnt.TypeName(reflect.TypeOf((*Dispatcher)(nil)).Elem(), ServiceDispatcher)
}

// Dispatcher returns the current event dispatcher, or nil if none is set.
func (k *Kernel) Dispatcher() Dispatcher {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.dispatcher
}

// Resolve resolves a service from the container. The reentrancy guard runs
// first: resolution fails while a provider's Register hook is executing.
func (k *Kernel) Resolve(name string) (any, error) {
	svc, err := k.cnt.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("kernel resolve: %w", err)
	}
	return svc, nil
}

// resolveGuard is installed as the container's guard hook. It rejects any
// resolution attempted while a provider's Register hook is wiring bindings.
func (k *Kernel) resolveGuard(service string) error {
	k.mu.RLock()
	registering := k.registering
	k.mu.RUnlock()
	if registering {
		return fmt.Errorf("%w: %s", ErrResolveDuringRegistration, service)
	}
	return nil
}
