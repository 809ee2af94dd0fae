package app

import (
	"fmt"

	"github.com/dkeye/liveroom/internal/core"
	"github.com/dkeye/liveroom/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a member whose send buffer is full.
type Policy interface {
	OnBackPressure(roomID domain.RoomID, member core.SignalConnection) BackpressureAction
}

// SimplePolicy applies the same action to every slow member.
type SimplePolicy struct {
	Action BackpressureAction
}

func (p SimplePolicy) OnBackPressure(domain.RoomID, core.SignalConnection) BackpressureAction {
	return p.Action
}

// ParsePolicy maps the backpressure_policy config value to a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "drop":
		return SimplePolicy{Action: DropFrame}, nil
	case "kick":
		return SimplePolicy{Action: KickMember}, nil
	default:
		return nil, fmt.Errorf("unknown backpressure policy %q", name)
	}
}
