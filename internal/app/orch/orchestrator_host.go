package orch

import (
	"fmt"

	"github.com/dkeye/liveroom/internal/domain"
)

// MakeHost hands the host role of roomID from the current host to target
// and announces it to every member.
func (o *Orchestrator) MakeHost(roomID domain.RoomID, current, target domain.UserID) error {
	if err := o.Rooms.TransferHost(roomID, current, target); err != nil {
		return fmt.Errorf("make host %s in %s: %w", target, roomID, err)
	}
	o.AnnounceHost(roomID, target)
	return nil
}
