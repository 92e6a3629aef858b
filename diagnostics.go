package kernel

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// diagnosticsState is the JSON document served by the diagnostics handler.
type diagnosticsState struct {
	Process      string   `json:"process"`
	Bootstrapped bool     `json:"bootstrapped"`
	Inited       bool     `json:"inited"`
	DebugLevel   int      `json:"debugLevel"`
	Providers    []string `json:"providers"`
}

// DiagnosticsHandler returns a read-only HTTP handler the host application
// may mount to inspect kernel state. The kernel itself never listens; serving
// the handler is entirely the host's concern. Responses snapshot the state
// under a read lock, so the handler may be served while lifecycle operations
// are still running on the orchestrating goroutine.
//
// Routes:
//
//	GET /state     - full kernel state snapshot
//	GET /process   - current lifecycle stage
//	GET /providers - registered provider type names, in registration order
func (k *Kernel) DiagnosticsHandler() http.Handler {
	r := chi.NewRouter()

	r.Get("/state", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, k.diagnosticsState())
	})
	r.Get("/process", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, map[string]string{"process": k.Process().String()})
	})
	r.Get("/providers", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, map[string][]string{"providers": k.providerNames()})
	})

	return r
}

// diagnosticsState snapshots the kernel state under the read lock, so the
// handler is safe to serve while lifecycle operations are in motion.
func (k *Kernel) diagnosticsState() diagnosticsState {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return diagnosticsState{
		Process:      k.process.String(),
		Bootstrapped: k.bootstrapped,
		Inited:       k.inited,
		DebugLevel:   k.debugLevel,
		Providers:    k.providerNamesLocked(),
	}
}

func (k *Kernel) providerNames() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.providerNamesLocked()
}

func (k *Kernel) providerNamesLocked() []string {
	names := make([]string, len(k.providers))
	for i, p := range k.providers {
		names[i] = fmt.Sprintf("%T", p)
	}
	return names
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
