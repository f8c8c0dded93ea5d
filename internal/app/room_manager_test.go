package app

import (
	"fmt"
	"testing"

	"github.com/dkeye/presence/internal/core"
	"github.com/dkeye/presence/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopConn struct{}

func (nopConn) TrySend(core.Frame) error { return nil }
func (nopConn) Close()                   {}

func TestRoomManager_JoinLeaveNeverNegative(t *testing.T) {
	m := NewRoomManager()
	const n = 10

	for i := 0; i < n; i++ {
		got := m.Join("R", domain.ConnID(fmt.Sprintf("c%d", i)), nopConn{})
		assert.Equal(t, i+1, got)
	}
	for i := 0; i < n; i++ {
		got := m.Leave("R", domain.ConnID(fmt.Sprintf("c%d", i)))
		assert.GreaterOrEqual(t, got, 0)
		assert.Equal(t, n-i-1, got)
	}

	assert.Equal(t, 0, m.Count("R"))
	assert.Equal(t, 0, m.Len(), "empty room is released")
}

func TestRoomManager_DoubleJoinCountsOnce(t *testing.T) {
	m := NewRoomManager()

	assert.Equal(t, 1, m.Join("R", "a", nopConn{}))
	assert.Equal(t, 1, m.Join("R", "a", nopConn{}))
	assert.Equal(t, 0, m.Leave("R", "a"))
	assert.Equal(t, 0, m.Leave("R", "a"))
}

func TestRoomManager_CountUnknownRoomIsZero(t *testing.T) {
	m := NewRoomManager()
	assert.Equal(t, 0, m.Count("nowhere"))
	assert.Equal(t, 0, m.Leave("nowhere", "a"))

	_, ok := m.Get("nowhere")
	assert.False(t, ok)
}

func TestRoomManager_List(t *testing.T) {
	m := NewRoomManager()
	m.Join("b", "c1", nopConn{})
	m.Join("a", "c1", nopConn{})
	m.Join("a", "c2", nopConn{})

	got := m.List()
	require.Len(t, got, 2)
	assert.Equal(t, []core.RoomInfo{{ID: "a", Count: 2}, {ID: "b", Count: 1}}, got)
}
