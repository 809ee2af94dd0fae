package signal

import (
	"github.com/dkeye/liveroom/internal/core"
	"github.com/dkeye/liveroom/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleCreateRoom(conn core.SignalConnection, env domain.Envelope) {
	if env.RoomID == "" {
		log.Warn().Str("module", "signal").Str("conn", string(conn.ID())).Msg("create-room without roomId")
		return
	}
	user := domain.NewUser(string(env.From), env.Username)

	log.Info().Str("module", "signal").Str("conn", string(conn.ID())).Str("room", string(env.RoomID)).Str("user", string(user.ID)).Msg("create-room")
	prevHost := ctl.Orch.Create(conn, env.RoomID, user)

	ctl.announceJoin(conn, env.RoomID, user)
	ctl.sendUsersList(conn, env.RoomID, user.ID)
	ctl.sendJoinSuccess(conn, env.RoomID, user, user.ID)

	if prevHost != "" && prevHost != user.ID {
		log.Info().Str("module", "signal").Str("room", string(env.RoomID)).Str("prev_host", string(prevHost)).Str("host", string(user.ID)).Msg("host taken over by create-room")
		ctl.Orch.AnnounceHost(env.RoomID, user.ID)
	}
}

func (ctl *SignalWSController) handleJoin(conn core.SignalConnection, env domain.Envelope) {
	if env.RoomID == "" {
		log.Warn().Str("module", "signal").Str("conn", string(conn.ID())).Msg("join without roomId")
		return
	}
	user := domain.NewUser(string(env.From), env.Username)

	log.Info().Str("module", "signal").Str("conn", string(conn.ID())).Str("room", string(env.RoomID)).Str("user", string(user.ID)).Msg("join")
	host := ctl.Orch.Join(conn, env.RoomID, user)

	ctl.announceJoin(conn, env.RoomID, user)
	ctl.sendUsersList(conn, env.RoomID, user.ID)
	ctl.sendJoinSuccess(conn, env.RoomID, user, host)
	ctl.Orch.AnnounceHost(env.RoomID, host)
}

func (ctl *SignalWSController) announceJoin(conn core.SignalConnection, roomID domain.RoomID, user domain.User) {
	joined := domain.NewEnvelope(domain.KindUserJoined, roomID)
	joined.StampIdentity(user)
	ctl.Orch.Router.Broadcast(roomID, conn, joined)
}

func (ctl *SignalWSController) sendUsersList(conn core.SignalConnection, roomID domain.RoomID, self domain.UserID) {
	list := domain.NewEnvelope(domain.KindUsersList, roomID)
	if err := list.SetData(ctl.Orch.Rooms.UsersExcluding(roomID, self)); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("users-list payload")
		return
	}
	ctl.Orch.Send(conn, list)
}

func (ctl *SignalWSController) sendJoinSuccess(conn core.SignalConnection, roomID domain.RoomID, user domain.User, host domain.UserID) {
	isHost := host == user.ID
	resp := domain.NewEnvelope(domain.KindJoinSuccess, roomID)
	resp.StampIdentity(user)
	if err := resp.SetData(domain.HostData{IsHost: &isHost, HostID: host}); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("join-success payload")
		return
	}
	ctl.Orch.Send(conn, resp)
}
