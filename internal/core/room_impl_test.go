package core

import (
	"errors"
	"sync"
	"testing"

	"github.com/dkeye/presence/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	frames  []Frame
	sendErr error
}

func (r *recorder) TrySend(f Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sendErr != nil {
		return r.sendErr
	}
	r.frames = append(r.frames, f)
	return nil
}

func (r *recorder) Close() {}

func (r *recorder) received() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

func TestRoom_AddMemberIsIdempotent(t *testing.T) {
	room := NewRoomService(&domain.Room{ID: "r1"})
	rec := &recorder{}

	n, added := room.AddMember("a", rec)
	assert.Equal(t, 1, n)
	assert.True(t, added)

	n, added = room.AddMember("a", rec)
	assert.Equal(t, 1, n)
	assert.False(t, added)
	assert.Equal(t, 1, room.MemberCount())
}

func TestRoom_RemoveMemberNeverNegative(t *testing.T) {
	room := NewRoomService(&domain.Room{ID: "r1"})

	n, removed := room.RemoveMember("ghost")
	assert.Equal(t, 0, n)
	assert.False(t, removed)

	room.AddMember("a", &recorder{})
	n, removed = room.RemoveMember("a")
	assert.Equal(t, 0, n)
	assert.True(t, removed)

	n, removed = room.RemoveMember("a")
	assert.Equal(t, 0, n)
	assert.False(t, removed)
}

func TestRoom_Broadcast(t *testing.T) {
	tests := []struct {
		name        string
		members     map[domain.ConnID]*recorder
		wantSent    int
		wantDropped []domain.ConnID
	}{
		{
			name:    "empty room is a no-op",
			members: map[domain.ConnID]*recorder{},
		},
		{
			name: "all members receive",
			members: map[domain.ConnID]*recorder{
				"a": {},
				"b": {},
			},
			wantSent: 2,
		},
		{
			name: "failed send is dropped not retried",
			members: map[domain.ConnID]*recorder{
				"a":    {},
				"slow": {sendErr: errors.New("backpressure")},
			},
			wantSent:    1,
			wantDropped: []domain.ConnID{"slow"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := NewRoomService(&domain.Room{ID: "r1"})
			for sid, rec := range tt.members {
				room.AddMember(sid, rec)
			}

			res := room.Broadcast(Frame("hello"))

			assert.Equal(t, tt.wantSent, res.SendTo)
			assert.ElementsMatch(t, tt.wantDropped, res.Dropped)
			for sid, rec := range tt.members {
				if rec.sendErr != nil {
					assert.Empty(t, rec.received(), "member %s", sid)
					continue
				}
				require.Len(t, rec.received(), 1, "member %s", sid)
				assert.Equal(t, Frame("hello"), rec.received()[0])
			}
		})
	}
}
