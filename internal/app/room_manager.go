package app

import (
	"sort"
	"sync"

	"github.com/dkeye/presence/internal/core"
	"github.com/dkeye/presence/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomManagerImpl keeps one membership set per room. The listener count of a
// room is the size of that set; rooms are created on first join and dropped
// once the last member leaves.
type RoomManagerImpl struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]core.RoomService
}

func NewRoomManager() *RoomManagerImpl {
	return &RoomManagerImpl{rooms: make(map[domain.RoomID]core.RoomService)}
}

func (f *RoomManagerImpl) Get(id domain.RoomID) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[id]
	return room, ok
}

// Join adds sid to the room and returns the new listener count.
func (f *RoomManagerImpl) Join(id domain.RoomID, sid domain.ConnID, sc core.SignalConnection) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		room = core.NewRoomService(&domain.Room{ID: id})
		f.rooms[id] = room
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room created")
	}
	n, _ := room.AddMember(sid, sc)
	return n
}

// Leave removes sid from the room and returns the count left behind.
// Unknown rooms and non-members are a no-op reporting the current count.
func (f *RoomManagerImpl) Leave(id domain.RoomID, sid domain.ConnID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return 0
	}
	n, _ := room.RemoveMember(sid)
	if n == 0 {
		delete(f.rooms, id)
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room released")
	}
	return n
}

// Count returns 0 for rooms that have no record.
func (f *RoomManagerImpl) Count(id domain.RoomID) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if room, ok := f.rooms[id]; ok {
		return room.MemberCount()
	}
	return 0
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for id, r := range f.rooms {
		out = append(out, core.RoomInfo{ID: id, Count: r.MemberCount()})
	}
	f.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *RoomManagerImpl) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.rooms)
}
