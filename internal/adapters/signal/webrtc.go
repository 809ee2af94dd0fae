package signal

import (
	"github.com/dkeye/liveroom/internal/core"
	"github.com/dkeye/liveroom/internal/domain"
	"github.com/rs/zerolog/log"
)

// handleRelay forwards offer, answer and ice-candidate envelopes untouched:
// to the addressed peer when "to" is set, otherwise to the rest of the room.
func (ctl *SignalWSController) handleRelay(conn core.SignalConnection, env domain.Envelope) {
	roomID, _, ok := ctl.Orch.Identity(conn)
	if !ok {
		log.Debug().Str("module", "signal").Str("conn", string(conn.ID())).Str("type", env.Type).Msg("relay: no room for connection")
		return
	}
	ctl.Orch.Router.Route(roomID, conn, env)
}
