package kernel

import (
	"fmt"
)

// Init initializes every registered provider in registration order and moves
// the kernel into the running stage. It requires a completed bootstrap and
// runs at most once; providers registered after Init completes are
// initialized at registration time instead. A provider Init failure
// propagates immediately; already-initialized providers are not rolled back.
func (k *Kernel) Init() error {
	if !k.bootstrapped {
		return fmt.Errorf("%w: current stage %s", ErrNotBootstrapped, k.process)
	}
	if k.process != ProcessBootstrapped {
		return fmt.Errorf("%w: current stage %s", ErrAlreadyInited, k.process)
	}

	k.advance(ProcessInit)
	k.dispatch(&InitStartingEvent{})

	k.advance(ProcessIniting)
	for _, p := range k.providers {
		if err := k.initProvider(p); err != nil {
			return err
		}
	}

	k.mu.Lock()
	k.inited = true
	k.mu.Unlock()
	k.advance(ProcessInited)
	k.dispatch(&InitedEvent{})

	k.advance(ProcessRunning)
	k.dispatch(&StartedEvent{})
	k.logger.Info("Kernel running", "providers", len(k.providers))
	return nil
}

// Terminate ends the kernel lifecycle: it dispatches the terminate events,
// flushes all container bindings, and clears the process-wide active
// designation if this instance holds it. Terminate is callable from any
// reached stage and carries no idempotence guard; calling it again
// re-dispatches the terminate events and re-flushes the already-empty
// container, while Process stays at terminated.
func (k *Kernel) Terminate() {
	k.advance(ProcessTerminate)
	k.dispatch(&TerminateStartingEvent{})

	k.advance(ProcessTerminating)
	k.cnt.Flush()
	activeInstance.CompareAndSwap(k, nil)

	k.advance(ProcessTerminated)
	k.dispatch(&TerminatedEvent{})
	k.logger.Info("Kernel terminated")
}
