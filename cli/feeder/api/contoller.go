package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	Handler *Handler

	engine *gin.Engine
}

func NewController(handler *Handler) *Controller {
	router := gin.Default()

	router.GET("/status", handler.GetStatus)
	router.GET("/telemetry", handler.GetTelemetry)

	return &Controller{Handler: handler, engine: router}
}

// Run блокирует до остановки сервера, адрес только локальный.
func (c *Controller) Run(port int32) error {
	return c.engine.Run(fmt.Sprintf("127.0.0.1:%d", port))
}
