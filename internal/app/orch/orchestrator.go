package orch

import (
	"sync"

	"github.com/dkeye/presence/internal/app"
	"github.com/dkeye/presence/internal/core"
	"github.com/dkeye/presence/internal/domain"
	"github.com/dkeye/presence/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Orchestrator is the presence and broadcast hub. All inbound events are
// handled one at a time under mu, so a membership change and the count it
// broadcasts are never interleaved with another event. Sends made under mu
// only enqueue; socket writes happen in the adapter's write pumps.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomManager
	Policy   app.Policy
	Metrics  *metrics.Metrics

	mu sync.Mutex
}

func New(reg *app.Registry, rooms core.RoomManager, policy app.Policy, m *metrics.Metrics) *Orchestrator {
	if policy == nil {
		policy = app.DropPolicy{}
	}
	if m == nil {
		m = metrics.New()
	}
	return &Orchestrator{
		Registry: reg,
		Rooms:    rooms,
		Policy:   policy,
		Metrics:  m,
	}
}

// broadcast delivers one event to the members of id at call time.
// At-most-once: no acknowledgement, no retry. Must be called with mu held.
func (o *Orchestrator) broadcast(id domain.RoomID, event string, data any) {
	room, ok := o.Rooms.Get(id)
	if !ok {
		return
	}
	frame, err := core.Encode(event, id, data)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(id)).Msg("encode broadcast")
		return
	}

	res := room.Broadcast(frame)
	for _, slow := range res.Dropped {
		o.Metrics.DroppedSends.Inc()
		if o.Registry.Canceled(slow) {
			continue
		}
		switch o.Policy.OnBackPressure(id, slow) {
		case app.KickMember:
			if o.Registry.Cancel(slow) {
				o.Metrics.KickedMembers.Inc()
				log.Warn().Str("module", "orch").Str("conn", string(slow)).Str("room", string(id)).Msg("kicked slow member")
			}
		case app.DropFrame, app.NoAction:
		}
	}
}

func (o *Orchestrator) syncGauges() {
	o.Metrics.Connections.Set(float64(o.Registry.Len()))
	o.Metrics.Rooms.Set(float64(o.Rooms.Len()))
}
