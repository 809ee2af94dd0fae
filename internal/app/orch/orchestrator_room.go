package orch

import (
	"github.com/dkeye/liveroom/internal/core"
	"github.com/dkeye/liveroom/internal/domain"
	"github.com/rs/zerolog/log"
)

// Create makes user the host of roomID, creating the room if needed. A
// connection bound to another room leaves it first. It returns the host
// that was displaced, if any.
func (o *Orchestrator) Create(conn core.SignalConnection, roomID domain.RoomID, user domain.User) domain.UserID {
	o.leaveOther(conn, roomID)
	return o.Rooms.CreateRoom(roomID, conn, user)
}

// Join adds conn to roomID without touching an existing host and returns
// the current host.
func (o *Orchestrator) Join(conn core.SignalConnection, roomID domain.RoomID, user domain.User) domain.UserID {
	o.leaveOther(conn, roomID)
	o.Rooms.JoinRoom(roomID, conn, user)
	host, _ := o.Rooms.GetHost(roomID)
	return host
}

func (o *Orchestrator) leaveOther(conn core.SignalConnection, target domain.RoomID) {
	if roomID, _, ok := o.Registry.Lookup(conn); ok && roomID != target {
		log.Info().Str("module", "orch").Str("conn", string(conn.ID())).Str("from_room", string(roomID)).Str("to_room", string(target)).Msg("switching rooms")
		o.Leave(conn)
	}
}

// Leave announces the departure of conn to the rest of its room, removes it
// and announces the new host if the leaver held the role.
func (o *Orchestrator) Leave(conn core.SignalConnection) {
	roomID, user, ok := o.Registry.Lookup(conn)
	if !ok {
		return
	}

	left := domain.NewEnvelope(domain.KindUserLeft, roomID)
	left.StampIdentity(user)
	o.Router.Broadcast(roomID, conn, left)

	res, ok := o.Rooms.LeaveRoom(conn)
	if !ok {
		return
	}
	if res.HostChanged && !res.RoomClosed {
		o.AnnounceHost(roomID, res.NewHost)
	}
}

// OnDisconnect runs the leave path for a closed or failed connection.
func (o *Orchestrator) OnDisconnect(conn core.SignalConnection) {
	log.Info().Str("module", "orch").Str("conn", string(conn.ID())).Msg("disconnect")
	o.Leave(conn)
}
