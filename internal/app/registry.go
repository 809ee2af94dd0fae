package app

import (
	"sync"

	"github.com/dkeye/liveroom/internal/core"
	"github.com/dkeye/liveroom/internal/domain"
	"github.com/rs/zerolog/log"
)

type binding struct {
	RoomID domain.RoomID
	User   domain.User
}

// Registry maps a live connection to the room and identity it declared.
// Pure bookkeeping: no routing, no authorization.
type Registry struct {
	mu       sync.RWMutex
	bindings map[core.ConnID]binding
}

func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[core.ConnID]binding),
	}
}

// Bind records the association, replacing any earlier one for conn.
func (r *Registry) Bind(conn core.SignalConnection, roomID domain.RoomID, user domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[conn.ID()] = binding{RoomID: roomID, User: user}
	log.Debug().Str("module", "app.registry").Str("conn", string(conn.ID())).Str("room", string(roomID)).Str("user", string(user.ID)).Msg("bound connection")
}

// Unbind removes and returns the association of conn.
func (r *Registry) Unbind(conn core.SignalConnection) (domain.RoomID, domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bindings[conn.ID()]
	if !ok {
		return "", domain.User{}, false
	}
	delete(r.bindings, conn.ID())
	log.Debug().Str("module", "app.registry").Str("conn", string(conn.ID())).Str("room", string(b.RoomID)).Msg("unbound connection")
	return b.RoomID, b.User, true
}

func (r *Registry) Lookup(conn core.SignalConnection) (domain.RoomID, domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[conn.ID()]
	if !ok {
		return "", domain.User{}, false
	}
	return b.RoomID, b.User, true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}
