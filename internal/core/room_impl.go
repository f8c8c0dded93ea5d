package core

import (
	"maps"
	"sync"

	"github.com/dkeye/presence/internal/domain"
	"github.com/rs/zerolog/log"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room  *domain.Room
	mu    sync.RWMutex
	bySID map[domain.ConnID]SignalConnection
}

func NewRoomService(room *domain.Room) RoomService {
	return &roomImpl{
		room:  room,
		bySID: make(map[domain.ConnID]SignalConnection),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySID)
}

func (r *roomImpl) AddMember(sid domain.ConnID, sc SignalConnection) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.bySID[sid]
	r.bySID[sid] = sc
	if !exists {
		log.Debug().Str("module", "core.room").Str("room", string(r.room.ID)).Str("conn", string(sid)).Msg("member added")
	}
	return len(r.bySID), !exists
}

func (r *roomImpl) RemoveMember(sid domain.ConnID) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySID[sid]; !ok {
		return len(r.bySID), false
	}
	delete(r.bySID, sid)
	log.Debug().Str("module", "core.room").Str("room", string(r.room.ID)).Str("conn", string(sid)).Msg("member removed")
	return len(r.bySID), true
}

// Broadcast offers data to every member once. Delivery is at-most-once:
// members whose queue is full or closed are reported in Dropped and skipped.
func (r *roomImpl) Broadcast(data Frame) PublishResult {
	r.mu.RLock()
	snapshot := make(map[domain.ConnID]SignalConnection, len(r.bySID))
	maps.Copy(snapshot, r.bySID)
	r.mu.RUnlock()

	res := PublishResult{}
	for sid, sc := range snapshot {
		if err := sc.TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.room.ID)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
