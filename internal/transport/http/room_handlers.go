package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/tutorcall-signal/internal/core"
)

// RoomHandlers exposes read-only views of the room registry.
type RoomHandlers struct {
	registry *core.Registry
	log      *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(registry *core.Registry, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		registry: registry,
		log:      logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RoomResponse reports how many peers currently wait in a room.
type RoomResponse struct {
	RoomID    string `json:"roomId"`
	Occupancy int    `json:"occupancy"`
	Capacity  int    `json:"capacity"`
}

// StatsResponse summarizes the registry.
type StatsResponse struct {
	Rooms int `json:"rooms"`
	Peers int `json:"peers"`
}

// GetRoom returns occupancy for a room id. Unknown rooms report zero.
// GET /api/rooms/:id
func (h *RoomHandlers) GetRoom(c *gin.Context) {
	roomID := c.Param("id")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "room id is required"})
		return
	}

	c.JSON(http.StatusOK, RoomResponse{
		RoomID:    roomID,
		Occupancy: h.registry.Occupancy(roomID),
		Capacity:  core.RoomCapacity,
	})
}

// Stats returns registry-wide counters.
// GET /api/stats
func (h *RoomHandlers) Stats(c *gin.Context) {
	stats := h.registry.Stats()
	h.log.Debug().Int("rooms", stats.Rooms).Int("peers", stats.Peers).Msg("stats requested")
	c.JSON(http.StatusOK, StatsResponse{Rooms: stats.Rooms, Peers: stats.Peers})
}
