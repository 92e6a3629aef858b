package kernel

import (
	"fmt"
	"reflect"
)

// Bootstrapper is a one-shot startup unit run before any provider is
// initialized. Units are identified by reference: the same instance may not
// appear twice within one Bootstrap call.
type Bootstrapper interface {
	// Bootstrap performs an arbitrary startup action.
	Bootstrap(k *Kernel) error
}

// Sequence groups bootstrap units so related units can be passed around as
// one value. Bootstrap flattens nested sequences in declaration order before
// processing, so grouping never changes execution order. A Sequence is only
// a grouping construct; its own Bootstrap hook is never invoked by the
// kernel.
type Sequence []Bootstrapper

// Bootstrap runs the grouped units directly, for callers using a Sequence
// outside a kernel bootstrap.
func (s Sequence) Bootstrap(k *Kernel) error {
	for _, unit := range s {
		if unit == nil {
			continue
		}
		if err := unit.Bootstrap(k); err != nil {
			return err
		}
	}
	return nil
}

// flattenUnits expands nested Sequence groups into a flat, order-preserving
// unit list. This is a plain iterative drain over an explicit work stack, not
// a scheduling construct.
func flattenUnits(units []Bootstrapper) []Bootstrapper {
	type frame struct {
		units []Bootstrapper
		next  int
	}

	out := make([]Bootstrapper, 0, len(units))
	stack := []frame{{units: units}}
	for len(stack) > 0 {
		top := len(stack) - 1
		if stack[top].next >= len(stack[top].units) {
			stack = stack[:top]
			continue
		}
		unit := stack[top].units[stack[top].next]
		stack[top].next++

		if seq, ok := unit.(Sequence); ok {
			stack = append(stack, frame{units: seq})
			continue
		}
		out = append(out, unit)
	}
	return out
}

// Bootstrap runs the given units in order. It may only be called once, on a
// kernel still in the construct stage. The before-boot event carries the
// flattened unit list and the dispatched result is the list actually
// processed, so observers can filter, reorder or replace units; groups
// injected by observers are flattened again before processing. Nil entries
// are skipped silently; an identity-equal unit appearing twice is a fatal
// configuration error. A per-unit event is dispatched before each hook and
// may mark the unit skipped. Any hook failure propagates immediately and
// aborts the remaining sequence; completed units are not rolled back.
func (k *Kernel) Bootstrap(units []Bootstrapper) error {
	if units == nil {
		return ErrNilBootstrapUnits
	}
	if k.bootstrapped || k.process != ProcessConstruct {
		return fmt.Errorf("%w: current stage %s", ErrAlreadyBootstrapped, k.process)
	}

	k.advance(ProcessBootstrap)
	start := &BootstrapStartingEvent{Units: flattenUnits(units)}
	if dispatched, ok := k.dispatch(start).(*BootstrapStartingEvent); ok {
		start = dispatched
	}
	// Observers may inject Sequence groups; flatten the dispatched list again
	// so the processed list only ever holds leaf units.
	flattened := flattenUnits(start.Units)

	k.advance(ProcessBootstrapping)
	seen := make(map[any]struct{}, len(flattened))
	for _, unit := range flattened {
		if unit == nil {
			continue
		}
		if key, ok := unitIdentity(unit); ok {
			if _, dup := seen[key]; dup {
				return fmt.Errorf("%w: %T", ErrDuplicateBootstrapUnit, unit)
			}
			seen[key] = struct{}{}
		}

		unitEvent := &UnitBootstrappingEvent{Unit: unit}
		if dispatched, ok := k.dispatch(unitEvent).(*UnitBootstrappingEvent); ok {
			unitEvent = dispatched
		}
		if unitEvent.Skip {
			k.logger.Debug("Bootstrap unit skipped by observer", "unit", fmt.Sprintf("%T", unit))
			continue
		}

		if err := unit.Bootstrap(k); err != nil {
			return fmt.Errorf("bootstrap unit %T failed: %w", unit, err)
		}
	}

	k.advance(ProcessBootstrapped)
	k.mu.Lock()
	k.bootstrapped = true
	k.mu.Unlock()
	k.dispatch(&BootstrappedEvent{})
	k.logger.Info("Kernel bootstrapped", "units", len(flattened))
	return nil
}

// unitIdentity returns the duplicate-detection key for a unit. Pointer-like
// units are identified by reference; comparable value units by value. A unit
// with no usable identity is exempt from duplicate detection rather than a
// runtime fault.
func unitIdentity(u Bootstrapper) (any, bool) {
	v := reflect.ValueOf(u)
	switch v.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.Map, reflect.Slice, reflect.Func, reflect.UnsafePointer:
		return v.Pointer(), true
	}
	if v.Type().Comparable() {
		return u, true
	}
	return nil, false
}
