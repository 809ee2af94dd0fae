package signal

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/dkeye/liveroom/internal/app"
	"github.com/dkeye/liveroom/internal/app/orch"
	"github.com/dkeye/liveroom/internal/config"
	"github.com/dkeye/liveroom/internal/core"
	"github.com/dkeye/liveroom/internal/domain"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	id core.ConnID

	mu     sync.Mutex
	frames []core.Frame
	closed bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: core.ConnID(id)}
}

func (c *fakeConn) ID() core.ConnID { return c.id }

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrConnectionClosed
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeConn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	c.frames = nil
	c.mu.Unlock()
}

func (c *fakeConn) envelopes(t *testing.T) []domain.Envelope {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Envelope, 0, len(c.frames))
	for _, f := range c.frames {
		var env domain.Envelope
		require.NoError(t, json.Unmarshal(f, &env))
		out = append(out, env)
	}
	return out
}

func types(envs []domain.Envelope) []string {
	out := make([]string, 0, len(envs))
	for _, e := range envs {
		out = append(out, e.Type)
	}
	return out
}

type harness struct {
	ctl   *SignalWSController
	reg   *app.Registry
	rooms *app.RoomManager
}

func newHarness(cfg *config.Config) *harness {
	if cfg == nil {
		cfg = &config.Config{}
	}
	reg := app.NewRegistry()
	rooms := app.NewRoomManager(reg)
	o := orch.New(reg, rooms, app.NewRouter(reg, rooms, app.SimplePolicy{Action: app.DropFrame}))
	return &harness{ctl: NewSignalWSController(o, cfg), reg: reg, rooms: rooms}
}

func (h *harness) send(conn core.SignalConnection, raw string) {
	h.ctl.HandleMessage(conn, []byte(raw))
}

func resetAll(conns ...*fakeConn) {
	for _, c := range conns {
		c.reset()
	}
}
