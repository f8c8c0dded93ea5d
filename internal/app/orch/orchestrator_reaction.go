package orch

import (
	"fmt"

	"github.com/dkeye/presence/internal/core"
	"github.com/dkeye/presence/internal/domain"
	"github.com/rs/zerolog/log"
)

// OnReaction fans the emoji out to the room. The sender does not have to be
// a member of it.
func (o *Orchestrator) OnReaction(sid domain.ConnID, r domain.Reaction) error {
	if err := r.Validate(); err != nil {
		o.Metrics.Malformed.Inc()
		return fmt.Errorf("reaction from %s: %w", sid, err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	o.Metrics.Reactions.Inc()
	log.Debug().Str("module", "orch").Str("conn", string(sid)).Str("room", string(r.RoomID)).Msg("reaction")
	o.broadcast(r.RoomID, core.EventNewReaction, r.Emoji)
	return nil
}
