package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/linechat/internal/core"
)

// APIHandlers serves read-only views of the chat state.
type APIHandlers struct {
	hub   Hub
	peers *Peers
	log   *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(hub Hub, peers *Peers, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		hub:   hub,
		peers: peers,
		log:   logger,
	}
}

// StatsResponse represents the stats response body.
type StatsResponse struct {
	Connections int `json:"connections"`
	Online      int `json:"online"`
}

// Roster returns the same entries as the [USERS] frame.
// GET /api/roster
func (h *APIHandlers) Roster(c *gin.Context) {
	roster := core.RosterFrame(h.hub.Roster())
	h.log.Debug().Int("online", len(roster)).Msg("roster requested")
	c.JSON(http.StatusOK, roster)
}

// Stats returns connection counters.
// GET /api/stats
func (h *APIHandlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, StatsResponse{
		Connections: h.peers.Len(),
		Online:      len(h.hub.Roster()),
	})
}
