package core

import (
	"errors"

	"github.com/dkeye/liveroom/internal/domain"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrInvalidHostTarget = errors.New("invalid host target")
	ErrNotHost           = errors.New("not the room host")
)

// PublishResult reports delivery stats/backpressure to the caller.
type PublishResult struct {
	SendTo  int
	Skipped int
	Dropped []SignalConnection
}

// LeaveResult describes the room state change caused by a departure.
type LeaveResult struct {
	RoomID      domain.RoomID
	User        domain.User
	HostChanged bool
	NewHost     domain.UserID
	RoomClosed  bool
}

// RoomDirectory owns room membership and host assignment.
// It never touches transport resources.
type RoomDirectory interface {
	// CreateRoom adds conn to roomID and makes user the host. It returns the
	// host that was displaced, if any.
	CreateRoom(roomID domain.RoomID, conn SignalConnection, user domain.User) (prevHost domain.UserID)
	// JoinRoom adds conn to roomID without altering an existing host.
	JoinRoom(roomID domain.RoomID, conn SignalConnection, user domain.User)
	LeaveRoom(conn SignalConnection) (LeaveResult, bool)

	GetHost(roomID domain.RoomID) (domain.UserID, bool)
	IsHost(roomID domain.RoomID, userID domain.UserID) bool
	SetHost(roomID domain.RoomID, userID domain.UserID) error
	TransferHost(roomID domain.RoomID, from, to domain.UserID) error

	Members(roomID domain.RoomID) []SignalConnection
	UsersExcluding(roomID domain.RoomID, exclude domain.UserID) []domain.User
	FindMember(roomID domain.RoomID, userID domain.UserID) (SignalConnection, domain.User, bool)

	Snapshot(roomID domain.RoomID) (domain.RoomSnapshot, bool)
	List() []domain.RoomInfo
}
