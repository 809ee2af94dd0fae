package signal

import "github.com/dkeye/liveroom/internal/domain"

// routes is the dispatch table for inbound kinds. Kinds missing here,
// outbound kinds included, are dropped as unknown.
func (ctl *SignalWSController) routes() map[domain.Kind]handlerFunc {
	return map[domain.Kind]handlerFunc{
		domain.KindCreateRoom:   ctl.handleCreateRoom,
		domain.KindJoin:         ctl.handleJoin,
		domain.KindOffer:        ctl.handleRelay,
		domain.KindAnswer:       ctl.handleRelay,
		domain.KindICECandidate: ctl.handleRelay,
		domain.KindChat:         ctl.handleChat,
		domain.KindToggleVideo:  ctl.handleToggle,
		domain.KindToggleAudio:  ctl.handleToggle,
		domain.KindMuteUser:     ctl.handleMuteUser,
		domain.KindKickUser:     ctl.handleKickUser,
		domain.KindMakeHost:     ctl.handleMakeHost,
	}
}

func rateLimited(k domain.Kind) bool {
	switch k {
	case domain.KindChat, domain.KindToggleVideo, domain.KindToggleAudio:
		return true
	}
	return false
}
