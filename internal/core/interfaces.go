package core

import "github.com/dkeye/presence/internal/domain"

// Frame is a raw encoded payload ready for the wire.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend offers f to the outbound queue without blocking.
	TrySend(Frame) error
	Close()
}

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []domain.ConnID
}

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int

	// AddMember returns the count after the call and whether sid was new.
	AddMember(sid domain.ConnID, sc SignalConnection) (int, bool)
	// RemoveMember returns the count after the call and whether sid was present.
	RemoveMember(sid domain.ConnID) (int, bool)
	Broadcast(data Frame) PublishResult
}

type RoomInfo struct {
	ID    domain.RoomID `json:"room"`
	Count int           `json:"count"`
}

type RoomManager interface {
	Get(id domain.RoomID) (RoomService, bool)
	Join(id domain.RoomID, sid domain.ConnID, sc SignalConnection) int
	Leave(id domain.RoomID, sid domain.ConnID) int
	Count(id domain.RoomID) int
	List() []RoomInfo
	Len() int
}
