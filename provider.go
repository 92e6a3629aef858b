package kernel

import (
	"fmt"
)

// ServiceProvider is a pluggable unit that hooks into the kernel lifecycle
// in two phases: Register wires bindings into the container, Init performs
// post-registration setup. Providers are identified by reference; the same
// instance may not be registered twice unless the prior entry is forcibly
// replaced.
type ServiceProvider interface {
	// Register wires the provider's bindings into the container. It runs
	// under the reentrancy guard: resolving services from the container
	// inside Register fails.
	Register(k *Kernel) error

	// Init performs post-registration setup. Resolution is permitted here.
	Init(k *Kernel) error
}

// Register adds a provider to the kernel. Without force, registering an
// identity-equal provider twice fails; with force the prior entry is removed
// first. Registration is closed while providers are initializing and once
// termination has begun. A register-provider event is dispatched first and
// may mark the registration skipped. The provider's Register hook runs under
// the reentrancy guard; if the kernel has already completed Init, the
// provider is initialized immediately after registration.
func (k *Kernel) Register(p ServiceProvider, force bool) error {
	if p == nil {
		return ErrNilProvider
	}
	if k.process == ProcessIniting || k.process > ProcessRunning {
		return fmt.Errorf("%w: current stage %s", ErrRegistrationClosed, k.process)
	}

	if idx := k.providerIndex(p); idx >= 0 {
		if !force {
			return fmt.Errorf("%w: %T", ErrProviderAlreadyRegistered, p)
		}
		k.mu.Lock()
		k.providers = append(k.providers[:idx], k.providers[idx+1:]...)
		k.mu.Unlock()
		k.logger.Debug("Replacing registered provider", "provider", fmt.Sprintf("%T", p))
	}

	event := &ProviderRegisteringEvent{Provider: p}
	if dispatched, ok := k.dispatch(event).(*ProviderRegisteringEvent); ok {
		event = dispatched
	}
	if event.Skip {
		k.logger.Debug("Provider registration skipped by observer", "provider", fmt.Sprintf("%T", p))
		return nil
	}

	if err := k.runRegisterHook(event.Provider); err != nil {
		return fmt.Errorf("register provider %T failed: %w", event.Provider, err)
	}
	k.mu.Lock()
	k.providers = append(k.providers, event.Provider)
	k.mu.Unlock()
	k.logger.Debug("Registered provider", "provider", fmt.Sprintf("%T", event.Provider))

	// Late registration after startup still gets initialized.
	if k.inited {
		return k.initProvider(event.Provider)
	}
	return nil
}

// IsRegistered reports whether an identity-equal provider is registered.
// Pure query, no side effects.
func (k *Kernel) IsRegistered(p ServiceProvider) (bool, error) {
	if p == nil {
		return false, ErrNilProvider
	}
	return k.providerIndex(p) >= 0, nil
}

// Providers returns the registered providers in registration order.
func (k *Kernel) Providers() []ServiceProvider {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([]ServiceProvider, len(k.providers))
	copy(out, k.providers)
	return out
}

func (k *Kernel) providerIndex(p ServiceProvider) int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	for i, registered := range k.providers {
		if registered == p {
			return i
		}
	}
	return -1
}

// runRegisterHook invokes the provider's Register hook with the reentrancy
// guard set. The flag is cleared on every exit path, including a failing
// hook, so it can never leak set.
func (k *Kernel) runRegisterHook(p ServiceProvider) error {
	k.mu.Lock()
	k.registering = true
	k.mu.Unlock()
	defer func() {
		k.mu.Lock()
		k.registering = false
		k.mu.Unlock()
	}()
	return p.Register(k)
}

// initProvider dispatches the init-provider event, then invokes the
// provider's Init hook. Errors propagate with no retry.
func (k *Kernel) initProvider(p ServiceProvider) error {
	k.dispatch(&ProviderInitializingEvent{Provider: p})
	if err := p.Init(k); err != nil {
		return fmt.Errorf("init provider %T failed: %w", p, err)
	}
	return nil
}
