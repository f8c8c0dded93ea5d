package signal

import (
	"github.com/dkeye/presence/internal/core"
	"github.com/dkeye/presence/internal/domain"
)

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.sendJSON(conn, core.EventPong, nil)
}

func (ctl *SignalWSController) handleWhoAmI(sid domain.ConnID, conn *WsSignalConn) {
	rooms := ctl.Orch.RoomsOf(sid)
	if rooms == nil {
		rooms = []domain.RoomID{}
	}
	resp := struct {
		ID    domain.ConnID   `json:"id"`
		Rooms []domain.RoomID `json:"rooms"`
	}{
		ID:    sid,
		Rooms: rooms,
	}
	ctl.sendJSON(conn, core.EventWhoAmI, resp)
}
