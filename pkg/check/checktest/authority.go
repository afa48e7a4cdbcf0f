// Package checktest provides an in-memory stand-in for the remote
// leaderboard authority, for tests and the demo command.
package checktest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/ogulcanaydogan/benchmark-result-client/internal/canon"
)

// Authority is an http.Handler implementing the check endpoint. Per
// config-key slot it remembers the fingerprint of every results payload it
// has seen: resubmitting an identical payload yields "duplicate", a new
// payload yields "accepted". When KnownTasks is non-nil, submissions naming
// a task outside it are rejected.
type Authority struct {
	// KnownTasks, when set, is the accepted task taxonomy.
	KnownTasks []string

	mu    sync.Mutex
	slots map[string]map[string]struct{} // config_key -> seen results fingerprints
	calls int
}

type checkRequest struct {
	SubmissionID string             `json:"submission_id"`
	ConfigKey    string             `json:"config_key"`
	Task         *string            `json:"task"`
	Results      map[string]float64 `json:"results"`
}

// Calls returns how many check requests the authority has served.
func (a *Authority) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func (a *Authority) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	var req checkRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "decode request", http.StatusBadRequest)
		return
	}
	if req.ConfigKey == "" || len(req.Results) == 0 {
		http.Error(w, "missing config_key or results", http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++

	if req.Task != nil && a.KnownTasks != nil && !contains(a.KnownTasks, *req.Task) {
		writeStatus(w, "rejected", fmt.Sprintf("unknown task %q", *req.Task))
		return
	}

	fingerprint, _, err := canon.Fingerprint(req.Results)
	if err != nil {
		http.Error(w, "fingerprint results", http.StatusBadRequest)
		return
	}
	if a.slots == nil {
		a.slots = make(map[string]map[string]struct{})
	}
	seen := a.slots[req.ConfigKey]
	if seen == nil {
		seen = make(map[string]struct{})
		a.slots[req.ConfigKey] = seen
	}
	if _, dup := seen[fingerprint]; dup {
		writeStatus(w, "duplicate", "")
		return
	}
	seen[fingerprint] = struct{}{}
	writeStatus(w, "accepted", "")
}

func writeStatus(w http.ResponseWriter, status, reason string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status, "reason": reason})
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
