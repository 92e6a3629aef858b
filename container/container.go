// Package container provides the dependency-injection container the kernel
// orchestrates: named bindings with singleton or transient semantics, stored
// instance values, aliases, a type-to-service-name mapping, and a guard hook
// invoked before every resolution attempt.
package container

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Static errors for container package
var (
	ErrServiceNotFound   = errors.New("service not found")
	ErrNilFactory        = errors.New("factory is nil")
	ErrAliasCycle        = errors.New("alias cycle detected")
	ErrTypeNotMapped     = errors.New("no service name mapped for type")
	ErrServiceWrongType  = errors.New("service doesn't satisfy required type")
	ErrFactoryReturnsNil = errors.New("factory returned nil service")
)

// Factory constructs a service instance. Factories may resolve other
// services through the container they receive.
type Factory func(c *Container) (any, error)

// Guard is invoked before every resolution attempt with the name of the
// service being resolved. A non-nil return aborts the resolution.
type Guard func(service string) error

type binding struct {
	factory  Factory
	shared   bool
	instance any
	resolved bool
}

// Container is a map-based service container. Bindings are registered by
// name; resolution walks aliases, consults the guard, and caches shared
// instances. All methods are safe for concurrent use: the container outlives
// the single-threaded kernel lifecycle and may be read from host goroutines.
type Container struct {
	mu       sync.RWMutex
	bindings map[string]*binding
	aliases  map[string]string
	types    map[reflect.Type]string
	guard    Guard
}

// New creates an empty container.
func New() *Container {
	return &Container{
		bindings: make(map[string]*binding),
		aliases:  make(map[string]string),
		types:    make(map[reflect.Type]string),
	}
}

// SetGuard installs the resolution guard hook. A nil guard disables guarding.
func (c *Container) SetGuard(g Guard) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.guard = g
}

// Singleton registers a factory whose result is constructed once and cached.
func (c *Container) Singleton(name string, factory Factory) error {
	return c.register(name, factory, true)
}

// Bind registers a transient factory invoked on every resolution.
func (c *Container) Bind(name string, factory Factory) error {
	return c.register(name, factory, false)
}

func (c *Container) register(name string, factory Factory, shared bool) error {
	if factory == nil {
		return fmt.Errorf("%w: %s", ErrNilFactory, name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings[name] = &binding{factory: factory, shared: shared}
	delete(c.aliases, name)
	return nil
}

// Instance stores an already-constructed value under the given name,
// replacing any prior binding.
func (c *Container) Instance(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings[name] = &binding{instance: value, resolved: true, shared: true}
	delete(c.aliases, name)
}

// Alias makes alias resolve to target. Aliases may chain.
func (c *Container) Alias(alias, target string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aliases[alias] = target
}

// TypeName maps a reflect.Type to a service name so callers holding only a
// type can find the service registered for it.
func (c *Container) TypeName(t reflect.Type, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[t] = name
}

// NameForType returns the service name mapped for the given type.
func (c *Container) NameForType(t reflect.Type) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.types[t]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTypeNotMapped, t)
	}
	return name, nil
}

// Has reports whether a binding or alias exists for name.
func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, err := c.canonical(name)
	if err != nil {
		return false
	}
	_, ok := c.bindings[name]
	return ok
}

// Resolve returns the service registered under name. The guard hook runs
// before any lookup; shared bindings are constructed once and cached.
func (c *Container) Resolve(name string) (any, error) {
	c.mu.RLock()
	guard := c.guard
	c.mu.RUnlock()
	if guard != nil {
		if err := guard(name); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	canonical, err := c.canonical(name)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	b, ok := c.bindings[canonical]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}
	if b.resolved && b.shared {
		instance := b.instance
		c.mu.Unlock()
		return instance, nil
	}
	factory := b.factory
	c.mu.Unlock()

	// Factory runs outside the lock so it can resolve its own dependencies.
	instance, err := factory(c)
	if err != nil {
		return nil, fmt.Errorf("failed to build service '%s': %w", name, err)
	}
	if instance == nil {
		return nil, fmt.Errorf("%w: %s", ErrFactoryReturnsNil, name)
	}

	if b.shared {
		c.mu.Lock()
		if !b.resolved {
			b.instance = instance
			b.resolved = true
		}
		instance = b.instance
		c.mu.Unlock()
	}
	return instance, nil
}

// canonical walks the alias chain. Callers must hold at least a read lock.
func (c *Container) canonical(name string) (string, error) {
	seen := make(map[string]struct{})
	for {
		target, ok := c.aliases[name]
		if !ok {
			return name, nil
		}
		if _, dup := seen[name]; dup {
			return "", fmt.Errorf("%w: %s", ErrAliasCycle, name)
		}
		seen[name] = struct{}{}
		name = target
	}
}

// Flush releases all bindings, aliases and type mappings. The guard is kept
// so a flushed container stays guarded.
func (c *Container) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings = make(map[string]*binding)
	c.aliases = make(map[string]string)
	c.types = make(map[reflect.Type]string)
}

// As resolves a service by name and asserts it to T.
func As[T any](c *Container, name string) (T, error) {
	var zero T
	svc, err := c.Resolve(name)
	if err != nil {
		return zero, err
	}
	typed, ok := svc.(T)
	if !ok {
		return zero, fmt.Errorf("%w: service '%s' of type %T", ErrServiceWrongType, name, svc)
	}
	return typed, nil
}
