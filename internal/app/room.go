package app

import (
	"sync"

	"github.com/dkeye/liveroom/internal/core"
	"github.com/dkeye/liveroom/internal/domain"
)

type member struct {
	conn core.SignalConnection
	user domain.User
}

// room is the per-room state. All fields are guarded by mu; the directory
// holds mu across every membership or host change so the member list and the
// registry never disagree.
type room struct {
	id domain.RoomID

	mu      sync.Mutex
	members []member // join order
	host    domain.UserID
	closed  bool // set once the room was removed from the directory
}

func newRoom(id domain.RoomID) *room {
	return &room{id: id}
}

func (r *room) indexOf(conn core.SignalConnection) int {
	for i, m := range r.members {
		if m.conn.ID() == conn.ID() {
			return i
		}
	}
	return -1
}

func (r *room) indexOfUser(uid domain.UserID) int {
	for i, m := range r.members {
		if m.user.ID == uid {
			return i
		}
	}
	return -1
}

// put adds conn or, when already a member, refreshes its identity in place
// so it keeps its join position.
func (r *room) put(conn core.SignalConnection, user domain.User) {
	if i := r.indexOf(conn); i >= 0 {
		if r.host == r.members[i].user.ID {
			r.host = user.ID
		}
		r.members[i].user = user
		return
	}
	r.members = append(r.members, member{conn: conn, user: user})
}

// remove drops conn and, if it held the host role, promotes the
// earliest-joined remaining member.
func (r *room) remove(conn core.SignalConnection) (m member, hostChanged bool, ok bool) {
	i := r.indexOf(conn)
	if i < 0 {
		return member{}, false, false
	}
	m = r.members[i]
	r.members = append(r.members[:i], r.members[i+1:]...)

	if m.user.ID != r.host {
		return m, false, true
	}
	r.host = ""
	if len(r.members) > 0 {
		r.host = r.members[0].user.ID
	}
	return m, true, true
}

func (r *room) info() domain.RoomInfo {
	return domain.RoomInfo{ID: r.id, MemberCount: len(r.members), HostID: r.host}
}
