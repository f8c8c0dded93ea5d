package app

import (
	"sort"
	"sync"

	"github.com/dkeye/presence/internal/core"
	"github.com/dkeye/presence/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	Signal   core.SignalConnection
	Cancel   func()
	Rooms    map[domain.RoomID]struct{}
	Canceled bool
}

// Registry tracks open connections and the rooms each one has joined.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.ConnID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.ConnID]*sessionEntry),
	}
}

// Connect registers sid with an empty room set. Re-registering replaces the entry.
func (r *Registry) Connect(sid domain.ConnID, sc core.SignalConnection, cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{
		Signal: sc,
		Cancel: cancel,
		Rooms:  make(map[domain.RoomID]struct{}),
	}
	log.Info().Str("module", "app.registry").Str("conn", string(sid)).Msg("connection registered")
}

// Join records room membership for sid. It reports false when sid is unknown
// or already joined to room.
func (r *Registry) Join(sid domain.ConnID, room domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return false
	}
	if _, joined := e.Rooms[room]; joined {
		return false
	}
	e.Rooms[room] = struct{}{}
	log.Info().Str("module", "app.registry").Str("conn", string(sid)).Str("room", string(room)).Msg("joined room")
	return true
}

// Disconnect purges sid and returns the rooms it had joined, sorted.
func (r *Registry) Disconnect(sid domain.ConnID) ([]domain.RoomID, bool) {
	r.mu.Lock()
	e, ok := r.sessions[sid]
	if ok {
		delete(r.sessions, sid)
	}
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	log.Info().Str("module", "app.registry").Str("conn", string(sid)).Int("rooms", len(e.Rooms)).Msg("connection removed")
	return sortedRooms(e.Rooms), true
}

func (r *Registry) Session(sid domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Signal, true
	}
	return nil, false
}

func (r *Registry) RoomsOf(sid domain.ConnID) []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil
	}
	return sortedRooms(e.Rooms)
}

// Cancel tears down the transport of sid. The adapter reports the
// disconnect afterwards through the usual path. Only the first call for a
// session reports true.
func (r *Registry) Cancel(sid domain.ConnID) bool {
	r.mu.Lock()
	e, ok := r.sessions[sid]
	if !ok || e.Canceled {
		r.mu.Unlock()
		return false
	}
	e.Canceled = true
	r.mu.Unlock()
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("conn", string(sid)).Msg("canceled session")
	return true
}

func (r *Registry) Canceled(sid domain.ConnID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	return ok && e.Canceled
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func sortedRooms(set map[domain.RoomID]struct{}) []domain.RoomID {
	out := make([]domain.RoomID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
