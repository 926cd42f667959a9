package main

import (
	"encoding/json"
	"net/http"

	"github.com/rickgao/servctl/internal/health"
)

// snapshotSource is the read side of the health sampler.
type snapshotSource interface {
	Current() health.Snapshot
}

// clientCounter reports connected websocket clients.
type clientCounter interface {
	Len() int
}

type healthResponse struct {
	Status   string          `json:"status"`
	Instance string          `json:"instance"`
	Clients  int             `json:"clients"`
	Snapshot health.Snapshot `json:"snapshot"`
}

// newHealthHandler serves the last sampled snapshot as JSON.
// It responds 503 when the host is over any threshold.
func newHealthHandler(instance string, source snapshotSource, clients clientCounter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		snap := source.Current()
		resp := healthResponse{
			Status:   "healthy",
			Instance: instance,
			Clients:  clients.Len(),
			Snapshot: snap,
		}
		if snap.Unhealthy() {
			resp.Status = "unhealthy"
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(resp)
	})
}
