package kernel

// Process identifies the lifecycle stage a kernel instance is in.
// Stages form a strict linear progression; a kernel only ever moves toward
// higher ordinals and callers observe a non-decreasing sequence.
type Process int

const (
	// ProcessConstruct is the initial stage of a freshly constructed kernel.
	ProcessConstruct Process = iota

	// ProcessBootstrap marks entry into the bootstrap operation.
	ProcessBootstrap

	// ProcessBootstrapping is set while bootstrap units are running.
	ProcessBootstrapping

	// ProcessBootstrapped is set once all bootstrap units have completed.
	ProcessBootstrapped

	// ProcessInit marks entry into the init operation.
	ProcessInit

	// ProcessIniting is set while registered providers are being initialized.
	ProcessIniting

	// ProcessInited is set once every provider has been initialized.
	ProcessInited

	// ProcessRunning is the steady state after a successful init.
	ProcessRunning

	// ProcessTerminate marks entry into the terminate operation.
	ProcessTerminate

	// ProcessTerminating is set while the container is being flushed.
	ProcessTerminating

	// ProcessTerminated is the final stage; no lifecycle operation runs past it.
	ProcessTerminated
)

var processNames = map[Process]string{
	ProcessConstruct:     "construct",
	ProcessBootstrap:     "bootstrap",
	ProcessBootstrapping: "bootstrapping",
	ProcessBootstrapped:  "bootstrapped",
	ProcessInit:          "init",
	ProcessIniting:       "initing",
	ProcessInited:        "inited",
	ProcessRunning:       "running",
	ProcessTerminate:     "terminate",
	ProcessTerminating:   "terminating",
	ProcessTerminated:    "terminated",
}

// String returns the stage name.
func (p Process) String() string {
	if name, ok := processNames[p]; ok {
		return name
	}
	return "unknown"
}

// advance moves the kernel to stage s. The stage ordinal never decreases:
// advancing to a stage the kernel has already passed is a no-op, which keeps
// Process monotonic even when Terminate is invoked more than once.
func (k *Kernel) advance(s Process) {
	k.mu.Lock()
	if s <= k.process {
		k.mu.Unlock()
		return
	}
	k.process = s
	k.mu.Unlock()
	k.logger.Debug("Kernel stage advanced", "stage", s.String())
}
