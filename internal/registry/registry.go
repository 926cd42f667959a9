package registry

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/servctl/internal/outbox"
)

// NewID mints a connection identity: a random 128-bit token rendered as
// 32 lowercase hex characters.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Entry is the registry's record for one live connection.
type Entry struct {
	ConnectedAt time.Time
	RemoteAddr  string

	// nil once the send side has been released
	outbound *outbox.Queue[string]
}

// NewEntry creates an entry that delivers into out.
func NewEntry(out *outbox.Queue[string], remoteAddr string) *Entry {
	return &Entry{
		ConnectedAt: time.Now(),
		RemoteAddr:  remoteAddr,
		outbound:    out,
	}
}

// Registry is a concurrent map from identity to Entry.
type Registry struct {
	mu      sync.Mutex
	clients map[string]*Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		clients: make(map[string]*Entry),
	}
}

// Insert registers an entry under id, replacing any previous entry.
func (r *Registry) Insert(id string, e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.clients[id]; ok && old != e {
		old.release()
	}
	r.clients[id] = e
}

// Remove deletes id and closes its outbox so the forwarder can drain and exit.
// Returns false if id was not registered.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.clients[id]
	if !ok {
		return false
	}
	delete(r.clients, id)
	e.release()
	return true
}

// Send enqueues text on id's outbox.
// Returns false if id is unknown or its outbox is already closed.
func (r *Registry) Send(id, text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.clients[id]
	if !ok || e.outbound == nil {
		return false
	}
	return e.outbound.Send(text)
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.clients[id]
	return ok
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Clients returns a copy of the registered entries' metadata keyed by id.
func (r *Registry) Clients() map[string]ClientInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]ClientInfo, len(r.clients))
	for id, e := range r.clients {
		info := ClientInfo{
			ConnectedAt: e.ConnectedAt,
			RemoteAddr:  e.RemoteAddr,
		}
		if e.outbound != nil {
			info.Pending = e.outbound.Len()
		}
		out[id] = info
	}
	return out
}

// ClientInfo is a read-only view of an Entry.
type ClientInfo struct {
	ConnectedAt time.Time `json:"connected_at"`
	RemoteAddr  string    `json:"remote_addr"`
	Pending     int       `json:"pending"`
}

// release closes and drops the send side. Must be called with lock held.
func (e *Entry) release() {
	if e.outbound != nil {
		e.outbound.Close()
		e.outbound = nil
	}
}
