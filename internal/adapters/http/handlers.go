package http

import (
	"net/http"

	"github.com/dkeye/liveroom/internal/adapters/rtc"
	"github.com/dkeye/liveroom/internal/app/orch"
	"github.com/dkeye/liveroom/internal/config"
	"github.com/dkeye/liveroom/internal/domain"
	"github.com/gin-gonic/gin"
)

type handlers struct {
	orch *orch.Orchestrator
	cfg  *config.Config
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"rooms":       len(h.orch.Rooms.List()),
		"connections": h.orch.Registry.Count(),
	})
}

// GET /api/rooms
func (h *handlers) listRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.orch.Rooms.List()})
}

// GET /api/rooms/:id
func (h *handlers) getRoom(c *gin.Context) {
	snap, ok := h.orch.Rooms.Snapshot(domain.RoomID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GET /api/ice-servers
func (h *handlers) iceServers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"iceServers": rtc.ICEServers(h.cfg)})
}
