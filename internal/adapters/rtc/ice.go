package rtc

import (
	"github.com/dkeye/liveroom/internal/config"
	"github.com/pion/webrtc/v4"
)

// ICEServers builds the STUN/TURN list clients should use for their peer
// connections. The relay itself never opens one.
func ICEServers(cfg *config.Config) []webrtc.ICEServer {
	servers := make([]webrtc.ICEServer, 0, 2)
	if len(cfg.STUNURLs) > 0 {
		servers = append(servers, webrtc.ICEServer{URLs: append([]string(nil), cfg.STUNURLs...)})
	}
	if len(cfg.TURNURLs) > 0 {
		servers = append(servers, webrtc.ICEServer{
			URLs:       append([]string(nil), cfg.TURNURLs...),
			Username:   cfg.TURNUsername,
			Credential: cfg.TURNCredential,
		})
	}
	return servers
}

// DefaultWebRTCConfig is the client configuration advertised by the relay.
func DefaultWebRTCConfig(cfg *config.Config) webrtc.Configuration {
	return webrtc.Configuration{
		ICEServers: ICEServers(cfg),
	}
}
