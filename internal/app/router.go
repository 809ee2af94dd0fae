package app

import (
	"encoding/json"
	"errors"

	"github.com/dkeye/liveroom/internal/core"
	"github.com/dkeye/liveroom/internal/domain"
	"github.com/rs/zerolog/log"
)

// Router delivers envelopes to room members. Delivery is fire-and-forget:
// closed members are skipped and a failed send never aborts the fan-out.
type Router struct {
	Registry *Registry
	Rooms    core.RoomDirectory
	Policy   Policy
}

func NewRouter(reg *Registry, rooms core.RoomDirectory, policy Policy) *Router {
	return &Router{Registry: reg, Rooms: rooms, Policy: policy}
}

// Route sends env to the member addressed by env.To, or to every member
// except sender when env.To is empty. sender may be nil.
func (r *Router) Route(roomID domain.RoomID, sender core.SignalConnection, env domain.Envelope) core.PublishResult {
	if env.To != "" {
		return r.unicast(roomID, env)
	}
	return r.Broadcast(roomID, sender, env)
}

// Broadcast sends env to every open member of roomID except sender.
func (r *Router) Broadcast(roomID domain.RoomID, sender core.SignalConnection, env domain.Envelope) core.PublishResult {
	res := core.PublishResult{}
	members := r.Rooms.Members(roomID)
	if len(members) == 0 {
		return res
	}
	frame, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("module", "app.router").Str("type", env.Type).Msg("marshal envelope")
		return res
	}
	for _, m := range members {
		if sender != nil && m.ID() == sender.ID() {
			continue
		}
		r.deliver(m, frame, &res)
	}
	r.applyPolicy(roomID, res)
	log.Debug().Str("module", "app.router").Str("room", string(roomID)).Str("type", env.Type).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *Router) unicast(roomID domain.RoomID, env domain.Envelope) core.PublishResult {
	res := core.PublishResult{}
	for _, m := range r.Rooms.Members(roomID) {
		_, u, ok := r.Registry.Lookup(m)
		if !ok || u.ID != env.To {
			continue
		}
		frame, err := json.Marshal(env)
		if err != nil {
			log.Error().Err(err).Str("module", "app.router").Str("type", env.Type).Msg("marshal envelope")
			return res
		}
		r.deliver(m, frame, &res)
		r.applyPolicy(roomID, res)
		return res
	}
	log.Debug().Str("module", "app.router").Str("room", string(roomID)).Str("to", string(env.To)).Str("type", env.Type).Msg("target not in room, dropped")
	return res
}

// Send delivers env to a single connection.
func (r *Router) Send(conn core.SignalConnection, env domain.Envelope) error {
	frame, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return conn.TrySend(frame)
}

func (r *Router) deliver(m core.SignalConnection, frame core.Frame, res *core.PublishResult) {
	if m.IsClosed() {
		res.Skipped++
		return
	}
	err := m.TrySend(frame)
	switch {
	case err == nil:
		res.SendTo++
	case errors.Is(err, core.ErrBackpressure):
		res.Dropped = append(res.Dropped, m)
	default:
		res.Skipped++
	}
}

func (r *Router) applyPolicy(roomID domain.RoomID, res core.PublishResult) {
	if r.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch r.Policy.OnBackPressure(roomID, slow) {
		case KickMember:
			log.Warn().Str("module", "app.router").Str("room", string(roomID)).Str("conn", string(slow.ID())).Msg("slow member kicked")
			slow.Close()
		case DropFrame:
			log.Warn().Str("module", "app.router").Str("room", string(roomID)).Str("conn", string(slow.ID())).Msg("frame dropped for slow member")
		case NoAction:
		}
	}
}
