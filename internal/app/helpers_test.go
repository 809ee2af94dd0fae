package app

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/dkeye/liveroom/internal/core"
	"github.com/dkeye/liveroom/internal/domain"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	id core.ConnID

	mu     sync.Mutex
	frames []core.Frame
	closed bool
	full   bool
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
	if c.full {
		return core.ErrBackpressure
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

func user(id string) domain.User {
	return domain.NewUser(id, "")
}
