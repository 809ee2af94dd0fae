package signal

import (
	"github.com/dkeye/liveroom/internal/core"
	"github.com/dkeye/liveroom/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleChat(conn core.SignalConnection, env domain.Envelope) {
	ctl.stampAndBroadcast(conn, env)
}

func (ctl *SignalWSController) handleToggle(conn core.SignalConnection, env domain.Envelope) {
	ctl.stampAndBroadcast(conn, env)
}

// stampAndBroadcast replaces the claimed sender with the bound identity and
// fans the envelope out to everyone else in the room.
func (ctl *SignalWSController) stampAndBroadcast(conn core.SignalConnection, env domain.Envelope) {
	roomID, user, ok := ctl.Orch.Identity(conn)
	if !ok {
		log.Debug().Str("module", "signal").Str("conn", string(conn.ID())).Str("type", env.Type).Msg("no room for connection")
		return
	}
	env.StampIdentity(user)
	env.RoomID = roomID
	env.To = ""
	ctl.Orch.Router.Broadcast(roomID, conn, env)
}
