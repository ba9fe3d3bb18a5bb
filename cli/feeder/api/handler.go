package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daniil11ru/skytrack-feeder/cli/feeder/types"
)

// StatusProvider отдаёт снимок петли сбора и последний кадр.
type StatusProvider interface {
	Snapshot() types.FeederStatus
	LastPayload() *types.TelemetryPayload
}

type Handler struct {
	Feed StatusProvider
}

func NewHandler(feed StatusProvider) *Handler {
	return &Handler{Feed: feed}
}

func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.Feed.Snapshot())
}

func (h *Handler) GetTelemetry(c *gin.Context) {
	payload := h.Feed.LastPayload()
	if payload == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "кадры ещё не получены"})
		return
	}

	c.JSON(http.StatusOK, payload)
}
