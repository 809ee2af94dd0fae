package domain

type RoomID string

// RoomInfo is a read-only summary of a live room.
type RoomInfo struct {
	ID          RoomID `json:"roomId"`
	MemberCount int    `json:"memberCount"`
	HostID      UserID `json:"hostId,omitempty"`
}

// RoomSnapshot lists the members of a room in join order.
type RoomSnapshot struct {
	ID      RoomID `json:"roomId"`
	HostID  UserID `json:"hostId,omitempty"`
	Members []User `json:"members"`
}
