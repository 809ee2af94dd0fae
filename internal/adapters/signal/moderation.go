package signal

import (
	"github.com/dkeye/liveroom/internal/core"
	"github.com/dkeye/liveroom/internal/domain"
	"github.com/rs/zerolog/log"
)

// hostContext resolves the sender's room and identity and checks that it
// currently holds the host role. Rejections are logged, never answered.
func (ctl *SignalWSController) hostContext(conn core.SignalConnection, env domain.Envelope) (domain.RoomID, domain.User, bool) {
	roomID, user, ok := ctl.Orch.Identity(conn)
	if !ok {
		return "", domain.User{}, false
	}
	if !ctl.Orch.Rooms.IsHost(roomID, user.ID) {
		log.Warn().Str("module", "signal").Str("room", string(roomID)).Str("user", string(user.ID)).Str("type", env.Type).Msg("non-host attempted host action")
		return "", domain.User{}, false
	}
	if env.To == "" {
		log.Warn().Str("module", "signal").Str("room", string(roomID)).Str("type", env.Type).Msg("host action without target")
		return "", domain.User{}, false
	}
	return roomID, user, true
}

func (ctl *SignalWSController) handleMuteUser(conn core.SignalConnection, env domain.Envelope) {
	roomID, host, ok := ctl.hostContext(conn, env)
	if !ok {
		return
	}
	target, targetUser, ok := ctl.Orch.Rooms.FindMember(roomID, env.To)
	if !ok {
		log.Debug().Str("module", "signal").Str("room", string(roomID)).Str("to", string(env.To)).Msg("mute: target not in room")
		return
	}

	env.StampIdentity(host)
	env.RoomID = roomID
	ctl.Orch.Send(target, env)

	muted := domain.NewEnvelope(domain.KindUserMuted, roomID)
	muted.StampIdentity(targetUser)
	if err := muted.SetData(domain.AudioData{AudioEnabled: false}); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("user-muted payload")
		return
	}
	ctl.Orch.Router.Broadcast(roomID, nil, muted)
}

func (ctl *SignalWSController) handleKickUser(conn core.SignalConnection, env domain.Envelope) {
	roomID, host, ok := ctl.hostContext(conn, env)
	if !ok {
		return
	}
	target, _, ok := ctl.Orch.Rooms.FindMember(roomID, env.To)
	if !ok {
		log.Debug().Str("module", "signal").Str("room", string(roomID)).Str("to", string(env.To)).Msg("kick: target not in room")
		return
	}

	env.StampIdentity(host)
	env.RoomID = roomID
	ctl.Orch.Send(target, env)
	log.Info().Str("module", "signal").Str("room", string(roomID)).Str("host", string(host.ID)).Str("target", string(env.To)).Msg("kick")
	target.Close()
}

func (ctl *SignalWSController) handleMakeHost(conn core.SignalConnection, env domain.Envelope) {
	roomID, host, ok := ctl.hostContext(conn, env)
	if !ok {
		return
	}
	if err := ctl.Orch.MakeHost(roomID, host.ID, env.To); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("room", string(roomID)).Str("to", string(env.To)).Msg("make-host rejected")
	}
}
