package signal

import (
	"context"
	"time"

	"github.com/dkeye/liveroom/internal/core"
	"github.com/dkeye/liveroom/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *wsSignalConn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("conn", string(c.id)).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.cfg.WriteTimeout)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.cfg.WriteTimeout)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("writePump ping error")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, c *wsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(c.id)).Msg("readPump closing")
		ctl.OnClose(c)
		c.Close()
		cancel()
	}()

	pongWait := ctl.cfg.PongWait()
	c.conn.SetReadLimit(ctl.cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if ctx.Err() != nil {
			return
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("readPump read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		ctl.HandleMessage(c, data)
	}
}

// HandleMessage decodes one inbound frame and dispatches it by kind.
// Malformed, unknown and rate-limited messages are logged and dropped.
func (ctl *SignalWSController) HandleMessage(conn core.SignalConnection, data []byte) {
	env, err := domain.DecodeEnvelope(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(conn.ID())).Msg("bad envelope")
		return
	}

	kind := env.Kind()
	h, ok := ctl.handlers[kind]
	if !ok {
		log.Warn().Str("module", "signal").Str("conn", string(conn.ID())).Str("type", env.Type).Msg("unknown signal")
		return
	}
	if rateLimited(kind) && !ctl.limiter.Allow(conn.ID()) {
		log.Warn().Str("module", "signal").Str("conn", string(conn.ID())).Str("type", env.Type).Msg("rate limited")
		return
	}
	log.Debug().Str("module", "signal").Str("conn", string(conn.ID())).Str("type", env.Type).Str("room", string(env.RoomID)).Msg("signal")
	h(conn, env)
}
