package signal

import (
	"encoding/json"

	"github.com/dkeye/presence/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoin(sid domain.ConnID, data json.RawMessage) {
	var room string
	if err := json.Unmarshal(data, &room); err != nil {
		ctl.Orch.Metrics.Malformed.Inc()
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(sid)).Msg("bad join payload")
		return
	}
	if err := ctl.Orch.OnJoin(sid, domain.RoomID(room)); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(sid)).Msg("join dropped")
	}
}

func (ctl *SignalWSController) handleReaction(sid domain.ConnID, data json.RawMessage) {
	var r domain.Reaction
	if err := json.Unmarshal(data, &r); err != nil {
		ctl.Orch.Metrics.Malformed.Inc()
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(sid)).Msg("bad reaction payload")
		return
	}
	if ctl.limiter != nil && !ctl.limiter.Allow(sid) {
		log.Debug().Str("module", "signal").Str("conn", string(sid)).Msg("reaction rate limited")
		return
	}
	if err := ctl.Orch.OnReaction(sid, r); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("reaction dropped")
	}
}
