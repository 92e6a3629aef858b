package kernel

import (
	"errors"
)

// Kernel errors
var (
	// Argument errors
	ErrNilBootstrapUnits = errors.New("bootstrap units slice is nil")
	ErrNilProvider       = errors.New("service provider is nil")

	// Lifecycle ordering errors
	ErrAlreadyBootstrapped = errors.New("bootstrap may only run once, from the construct stage")
	ErrNotBootstrapped     = errors.New("init requires a completed bootstrap")
	ErrAlreadyInited       = errors.New("init may only run once")
	ErrRegistrationClosed  = errors.New("provider registration is closed in the current stage")

	// Duplicate errors
	ErrDuplicateBootstrapUnit    = errors.New("bootstrap unit appears twice in one bootstrap")
	ErrProviderAlreadyRegistered = errors.New("service provider already registered")

	// Reentrancy guard errors
	ErrResolveDuringRegistration = errors.New("container resolution is forbidden while a provider registers")

	// Construction errors
	ErrNilDispatcher = errors.New("dispatcher is nil")
	ErrNilConfig     = errors.New("config is nil")
)
