package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/liveroom/internal/app/orch"
	"github.com/dkeye/liveroom/internal/config"
	"github.com/dkeye/liveroom/internal/core"
	"github.com/dkeye/liveroom/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type handlerFunc func(conn core.SignalConnection, env domain.Envelope)

type SignalWSController struct {
	Orch *orch.Orchestrator

	cfg      *config.Config
	limiter  *ConnRateLimiter
	handlers map[domain.Kind]handlerFunc
}

func NewSignalWSController(o *orch.Orchestrator, cfg *config.Config) *SignalWSController {
	ctl := &SignalWSController{
		Orch:    o,
		cfg:     cfg,
		limiter: NewConnRateLimiter(cfg.ChatRate, cfg.ChatBurst),
	}
	ctl.handlers = ctl.routes()
	return ctl
}

type wsSignalConn struct {
	id   core.ConnID
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWSSignalConn(ws *websocket.Conn, buffer int) *wsSignalConn {
	return &wsSignalConn{
		id:   core.ConnID(uuid.NewString()),
		conn: ws,
		send: make(chan core.Frame, buffer),
	}
}

func (c *wsSignalConn) ID() core.ConnID { return c.id }

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnectionClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

// Close stops accepting frames. The write pump flushes what is queued and
// then closes the socket, which ends the read pump.
func (c *wsSignalConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *wsSignalConn) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 10 * time.Second,
	CheckOrigin:      func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := c.GetString("client_token")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", sid).Msg("ws upgrade")
		return
	}

	conn := newWSSignalConn(ws, ctl.cfg.SendBuffer)
	log.Info().Str("module", "signal").Str("sid", sid).Str("conn", string(conn.ID())).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, conn)
}

// OnClose runs once per connection after its read side ends.
func (ctl *SignalWSController) OnClose(conn core.SignalConnection) {
	ctl.limiter.Forget(conn.ID())
	ctl.Orch.OnDisconnect(conn)
}
