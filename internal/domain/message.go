package domain

import (
	"encoding/json"
	"errors"
)

var ErrMissingType = errors.New("envelope missing type")

// Kind is the closed set of envelope types the relay understands.
type Kind int

const (
	KindUnknown Kind = iota

	// inbound
	KindCreateRoom
	KindJoin
	KindOffer
	KindAnswer
	KindICECandidate
	KindChat
	KindToggleVideo
	KindToggleAudio
	KindMuteUser
	KindKickUser
	KindMakeHost

	// outbound, relay-generated
	KindUserJoined
	KindUserLeft
	KindUsersList
	KindJoinSuccess
	KindHostUpdated
	KindUserMuted
)

var kindNames = [...]string{
	KindUnknown:      "unknown",
	KindCreateRoom:   "create-room",
	KindJoin:         "join",
	KindOffer:        "offer",
	KindAnswer:       "answer",
	KindICECandidate: "ice-candidate",
	KindChat:         "chat",
	KindToggleVideo:  "toggle-video",
	KindToggleAudio:  "toggle-audio",
	KindMuteUser:     "mute-user",
	KindKickUser:     "kick-user",
	KindMakeHost:     "make-host",
	KindUserJoined:   "user-joined",
	KindUserLeft:     "user-left",
	KindUsersList:    "users-list",
	KindJoinSuccess:  "join-success",
	KindHostUpdated:  "host-updated",
	KindUserMuted:    "user-muted",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		if Kind(k) == KindUnknown {
			continue
		}
		m[name] = Kind(k)
	}
	return m
}()

// ParseKind maps a wire type string to its Kind, or KindUnknown.
func ParseKind(s string) Kind {
	if k, ok := kindByName[s]; ok {
		return k
	}
	return KindUnknown
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// Inbound reports whether clients may send this kind to the relay.
func (k Kind) Inbound() bool {
	return k >= KindCreateRoom && k <= KindMakeHost
}

// Envelope is the wire message. Data is relayed verbatim and never
// interpreted by the relay.
type Envelope struct {
	Type     string          `json:"type"`
	From     UserID          `json:"from,omitempty"`
	To       UserID          `json:"to,omitempty"`
	RoomID   RoomID          `json:"roomId,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	Content  string          `json:"content,omitempty"`
	Username string          `json:"username,omitempty"`
}

func NewEnvelope(kind Kind, roomID RoomID) Envelope {
	return Envelope{Type: kind.String(), RoomID: roomID}
}

func (e Envelope) Kind() Kind { return ParseKind(e.Type) }

// SetData replaces Data with the JSON encoding of v.
func (e *Envelope) SetData(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e.Data = b
	return nil
}

// StampIdentity overwrites the sender fields with the bound identity so
// clients cannot speak for someone else.
func (e *Envelope) StampIdentity(u User) {
	e.From = u.ID
	e.Username = u.Username
}

// DecodeEnvelope parses one inbound text frame.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, err
	}
	if env.Type == "" {
		return Envelope{}, ErrMissingType
	}
	return env, nil
}

// HostData is the payload of join-success and host-updated.
type HostData struct {
	IsHost *bool  `json:"isHost,omitempty"`
	HostID UserID `json:"hostId"`
}

// AudioData is the payload of user-muted.
type AudioData struct {
	AudioEnabled bool `json:"audioEnabled"`
}
