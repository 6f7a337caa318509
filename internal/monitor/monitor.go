// Package monitor exposes an optional, never-blocking local HTTP view
// into a running Simulator or Hardware process, grounded on the corpus's
// monitoring.Monitor: github.com/gorilla/mux for routing, a plain JSON
// status endpoint, github.com/syifan/goseth for a reflective state dump,
// github.com/shirou/gopsutil/v3/process for resource stats, and
// net/http/pprof wired in for side effect.
package monitor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime/pprof"
	"sync"
	"time"

	// Registers the standard pprof handlers on http.DefaultServeMux;
	// Handler forwards /debug/pprof/ to that mux.
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/syifan/goseth"
)

// Snapshot is the current observable state of the scheduler or responder
// loop, updated once per step and read by the /status handler behind
// mu. It is the one piece of shared state the monitor introduces.
type Snapshot struct {
	StepID             int64   `json:"step_id"`
	LastRTTNs          int64   `json:"last_rtt_ns"`
	TimeoutCount       int64   `json:"timeout_count"`
	DeadlineMissCount  int64   `json:"deadline_miss_count"`
	LastDeadlineMissMs float64 `json:"last_deadline_miss_ms"`
}

// Monitor serves a read-only debug view over an in-memory Snapshot plus
// whatever arbitrary state struct the caller registers for reflective
// dumping via /debug/state.
type Monitor struct {
	mu    sync.RWMutex
	snap  Snapshot
	state any
}

// New creates an unstarted Monitor.
func New() *Monitor {
	return &Monitor{}
}

// Update replaces the current snapshot. Safe to call from the scheduler
// or responder's own goroutine once per step.
func (m *Monitor) Update(snap Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
}

// RegisterState attaches an arbitrary state value to be reflectively
// dumped by /debug/state, matching the corpus's
// listComponentDetails/goseth.Serializer pairing.
func (m *Monitor) RegisterState(state any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

// Handler builds the monitor's full route table.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/status", m.handleStatus)
	r.HandleFunc("/debug/state", m.handleState)
	r.HandleFunc("/debug/resources", m.handleResources)
	r.HandleFunc("/debug/profile", m.handleProfile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
	return r
}

// ListenAndServe starts the monitor's HTTP server on addr, blocking
// until it errors or is shut down. Intended to be run on its own
// goroutine.
func (m *Monitor) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, m.Handler())
}

func (m *Monitor) handleStatus(w http.ResponseWriter, _ *http.Request) {
	m.mu.RLock()
	snap := m.snap
	m.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

func (m *Monitor) handleState(w http.ResponseWriter, _ *http.Request) {
	m.mu.RLock()
	state := m.state
	m.mu.RUnlock()

	if state == nil {
		http.Error(w, "no state registered", http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(state)
	serializer.SetMaxDepth(1)

	if err := serializer.Serialize(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type resourceResponse struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemoryRSS  uint64  `json:"memory_rss"`
}

func (m *Monitor) handleResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memInfo, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rsp := resourceResponse{CPUPercent: cpuPercent, MemoryRSS: memInfo.RSS}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		fmt.Fprintf(os.Stderr, "monitor: encode resources: %v\n", err)
	}
}

// handleProfile collects a one-second CPU profile and re-parses it with
// google/pprof/profile before returning it as JSON, matching the
// corpus's own collectProfile handler.
func (m *Monitor) handleProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	time.Sleep(time.Second)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(prof); err != nil {
		fmt.Fprintf(os.Stderr, "monitor: encode profile: %v\n", err)
	}
}
