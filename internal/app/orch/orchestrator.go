package orch

import (
	"github.com/dkeye/liveroom/internal/app"
	"github.com/dkeye/liveroom/internal/core"
	"github.com/dkeye/liveroom/internal/domain"
	"github.com/rs/zerolog/log"
)

// Orchestrator drives room lifecycle transitions and the notices that go
// with them. It is transport independent.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomDirectory
	Router   *app.Router
}

func New(reg *app.Registry, rooms core.RoomDirectory, router *app.Router) *Orchestrator {
	return &Orchestrator{Registry: reg, Rooms: rooms, Router: router}
}

// Identity returns the room and user bound to conn.
func (o *Orchestrator) Identity(conn core.SignalConnection) (domain.RoomID, domain.User, bool) {
	return o.Registry.Lookup(conn)
}

// AnnounceHost tells every member of roomID, including the host, who the
// host is.
func (o *Orchestrator) AnnounceHost(roomID domain.RoomID, host domain.UserID) {
	env := domain.NewEnvelope(domain.KindHostUpdated, roomID)
	if err := env.SetData(domain.HostData{HostID: host}); err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("host-updated payload")
		return
	}
	o.Router.Broadcast(roomID, nil, env)
}

// Send delivers env to conn, logging instead of failing.
func (o *Orchestrator) Send(conn core.SignalConnection, env domain.Envelope) {
	if err := o.Router.Send(conn, env); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("conn", string(conn.ID())).Str("type", env.Type).Msg("send failed")
	}
}
