package orch

import (
	"fmt"

	"github.com/dkeye/presence/internal/core"
	"github.com/dkeye/presence/internal/domain"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) OnConnect(sid domain.ConnID, sc core.SignalConnection, cancel func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Registry.Connect(sid, sc, cancel)
	o.syncGauges()
}

// OnJoin adds sid to room and broadcasts the new count to every member,
// including sid. Joining a room twice keeps a single membership but still
// answers with updateCount.
func (o *Orchestrator) OnJoin(sid domain.ConnID, room domain.RoomID) error {
	if room == "" {
		o.Metrics.Malformed.Inc()
		return fmt.Errorf("join from %s: %w", sid, domain.ErrEmptyRoomID)
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	sc, ok := o.Registry.Session(sid)
	if !ok {
		return fmt.Errorf("join %s: %w", room, domain.ErrUnknownConnection)
	}
	o.Registry.Join(sid, room)
	n := o.Rooms.Join(room, sid, sc)
	o.Metrics.Joins.Inc()
	o.syncGauges()
	log.Info().Str("module", "orch").Str("conn", string(sid)).Str("room", string(room)).Int("count", n).Msg("join")

	o.broadcast(room, core.EventUpdateCount, n)
	return nil
}

// OnDisconnect leaves every joined room, broadcasting the decremented count
// to the members left behind, then forgets sid. Safe to call more than once.
func (o *Orchestrator) OnDisconnect(sid domain.ConnID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	rooms, ok := o.Registry.Disconnect(sid)
	if !ok {
		return
	}
	for _, room := range rooms {
		n := o.Rooms.Leave(room, sid)
		log.Info().Str("module", "orch").Str("conn", string(sid)).Str("room", string(room)).Int("count", n).Msg("leave on disconnect")
		o.broadcast(room, core.EventUpdateCount, n)
	}
	o.syncGauges()
}

func (o *Orchestrator) Count(room domain.RoomID) int {
	return o.Rooms.Count(room)
}

func (o *Orchestrator) ListRooms() []core.RoomInfo {
	return o.Rooms.List()
}

func (o *Orchestrator) RoomsOf(sid domain.ConnID) []domain.RoomID {
	return o.Registry.RoomsOf(sid)
}
