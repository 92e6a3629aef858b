package kernel

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
)

// runtimeCounter backs GetRuntimeID. Process-wide, so identifiers are unique
// across every kernel instance in the process.
var runtimeCounter atomic.Int64

// GetRuntimeID returns a process-wide unique identifier. The first value is
// 1, values are strictly increasing, and the counter is safe under
// concurrent callers: no two calls ever observe the same value and no value
// is reused.
func GetRuntimeID() int64 {
	return runtimeCounter.Add(1)
}

// IsMainGoroutine reports whether the calling goroutine is the one that
// constructed this kernel. Pure read, safe to call from any goroutine.
func (k *Kernel) IsMainGoroutine() bool {
	return goroutineID() == k.mainGoroutine
}

// goroutineID extracts the current goroutine's id from the stack header
// ("goroutine 123 [running]:"). The runtime exposes no direct accessor.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
