package app

import (
	"sort"
	"sync"

	"github.com/dkeye/liveroom/internal/core"
	"github.com/dkeye/liveroom/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomManager is the room directory. The rooms map has its own lock; each
// room is serialized by its own mutex. Lock order: room, then registry.
type RoomManager struct {
	mu       sync.RWMutex
	rooms    map[domain.RoomID]*room
	registry *Registry
}

func NewRoomManager(reg *Registry) *RoomManager {
	return &RoomManager{
		rooms:    make(map[domain.RoomID]*room),
		registry: reg,
	}
}

var _ core.RoomDirectory = (*RoomManager)(nil)

func (m *RoomManager) getOrCreate(id domain.RoomID) *room {
	m.mu.RLock()
	r, ok := m.rooms[id]
	m.mu.RUnlock()
	if ok {
		return r
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok = m.rooms[id]; ok {
		return r
	}
	r = newRoom(id)
	m.rooms[id] = r
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room created")
	return r
}

// acquire returns the live room for id, creating it if needed, with its
// mutex held. A room destroyed between lookup and lock is skipped.
func (m *RoomManager) acquire(id domain.RoomID) *room {
	for {
		r := m.getOrCreate(id)
		r.mu.Lock()
		if !r.closed {
			return r
		}
		r.mu.Unlock()
	}
}

// lookup returns the live room for id with its mutex held, or nil.
func (m *RoomManager) lookup(id domain.RoomID) *room {
	m.mu.RLock()
	r, ok := m.rooms[id]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	return r
}

// detach removes conn from whatever other room it is bound to, so a
// connection is never a member of two rooms.
func (m *RoomManager) detach(conn core.SignalConnection, target domain.RoomID) {
	if prev, _, ok := m.registry.Lookup(conn); ok && prev != target {
		m.LeaveRoom(conn)
	}
}

func (m *RoomManager) CreateRoom(id domain.RoomID, conn core.SignalConnection, user domain.User) domain.UserID {
	m.detach(conn, id)

	r := m.acquire(id)
	defer r.mu.Unlock()

	prev := r.host
	r.put(conn, user)
	r.host = user.ID
	m.registry.Bind(conn, id, user)
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("user", string(user.ID)).Str("prev_host", string(prev)).Msg("room host set by create")
	return prev
}

func (m *RoomManager) JoinRoom(id domain.RoomID, conn core.SignalConnection, user domain.User) {
	m.detach(conn, id)

	r := m.acquire(id)
	defer r.mu.Unlock()

	r.put(conn, user)
	if r.host == "" {
		r.host = user.ID
	}
	m.registry.Bind(conn, id, user)
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("user", string(user.ID)).Int("members", len(r.members)).Msg("member joined")
}

func (m *RoomManager) LeaveRoom(conn core.SignalConnection) (core.LeaveResult, bool) {
	id, _, ok := m.registry.Lookup(conn)
	if !ok {
		return core.LeaveResult{}, false
	}
	r := m.lookup(id)
	if r == nil {
		m.registry.Unbind(conn)
		return core.LeaveResult{}, false
	}

	gone, hostChanged, ok := r.remove(conn)
	m.registry.Unbind(conn)
	if !ok {
		r.mu.Unlock()
		return core.LeaveResult{}, false
	}
	res := core.LeaveResult{
		RoomID:      id,
		User:        gone.user,
		HostChanged: hostChanged,
		NewHost:     r.host,
	}
	if len(r.members) == 0 {
		r.closed = true
		res.RoomClosed = true
	}
	r.mu.Unlock()

	if res.RoomClosed {
		m.mu.Lock()
		if m.rooms[id] == r {
			delete(m.rooms, id)
		}
		m.mu.Unlock()
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room closed")
	}
	log.Info().
		Str("module", "app.rooms").
		Str("room", string(id)).
		Str("user", string(gone.user.ID)).
		Bool("host_changed", hostChanged).
		Str("new_host", string(res.NewHost)).
		Msg("member left")
	return res, true
}

func (m *RoomManager) GetHost(id domain.RoomID) (domain.UserID, bool) {
	r := m.lookup(id)
	if r == nil {
		return "", false
	}
	defer r.mu.Unlock()
	return r.host, r.host != ""
}

func (m *RoomManager) IsHost(id domain.RoomID, uid domain.UserID) bool {
	host, ok := m.GetHost(id)
	return ok && host == uid
}

// SetHost assigns the host role to a current member of the room.
func (m *RoomManager) SetHost(id domain.RoomID, uid domain.UserID) error {
	r := m.lookup(id)
	if r == nil {
		return core.ErrRoomNotFound
	}
	defer r.mu.Unlock()
	if r.indexOfUser(uid) < 0 {
		return core.ErrInvalidHostTarget
	}
	r.host = uid
	return nil
}

// TransferHost moves the host role from -> to in one step, failing if from
// is no longer the host or to is not a member.
func (m *RoomManager) TransferHost(id domain.RoomID, from, to domain.UserID) error {
	r := m.lookup(id)
	if r == nil {
		return core.ErrRoomNotFound
	}
	defer r.mu.Unlock()
	if r.host == "" || r.host != from {
		return core.ErrNotHost
	}
	if r.indexOfUser(to) < 0 {
		return core.ErrInvalidHostTarget
	}
	r.host = to
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("from", string(from)).Str("to", string(to)).Msg("host transferred")
	return nil
}

func (m *RoomManager) Members(id domain.RoomID) []core.SignalConnection {
	r := m.lookup(id)
	if r == nil {
		return nil
	}
	defer r.mu.Unlock()
	out := make([]core.SignalConnection, 0, len(r.members))
	for _, mb := range r.members {
		out = append(out, mb.conn)
	}
	return out
}

func (m *RoomManager) UsersExcluding(id domain.RoomID, exclude domain.UserID) []domain.User {
	out := make([]domain.User, 0)
	r := m.lookup(id)
	if r == nil {
		return out
	}
	defer r.mu.Unlock()
	for _, mb := range r.members {
		if mb.user.ID != exclude {
			out = append(out, mb.user)
		}
	}
	return out
}

func (m *RoomManager) FindMember(id domain.RoomID, uid domain.UserID) (core.SignalConnection, domain.User, bool) {
	r := m.lookup(id)
	if r == nil {
		return nil, domain.User{}, false
	}
	defer r.mu.Unlock()
	i := r.indexOfUser(uid)
	if i < 0 {
		return nil, domain.User{}, false
	}
	return r.members[i].conn, r.members[i].user, true
}

func (m *RoomManager) Snapshot(id domain.RoomID) (domain.RoomSnapshot, bool) {
	r := m.lookup(id)
	if r == nil {
		return domain.RoomSnapshot{}, false
	}
	defer r.mu.Unlock()
	snap := domain.RoomSnapshot{ID: id, HostID: r.host, Members: make([]domain.User, 0, len(r.members))}
	for _, mb := range r.members {
		snap.Members = append(snap.Members, mb.user)
	}
	return snap, true
}

func (m *RoomManager) List() []domain.RoomInfo {
	m.mu.RLock()
	rooms := make([]*room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	out := make([]domain.RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		r.mu.Lock()
		if !r.closed {
			out = append(out, r.info())
		}
		r.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
