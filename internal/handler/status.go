package handler

import (
	"github.com/deppfellow/marketing-dashboard/internal/platform"
	"github.com/deppfellow/marketing-dashboard/internal/server"
	"github.com/labstack/echo/v4"
)

type StatusHandler struct {
	Handler
}

func NewStatusHandler(s *server.Server) *StatusHandler {
	return &StatusHandler{Handler: NewHandler(s)}
}

// GetStatus reports which platforms have a usable client. It never fails.
func (h *StatusHandler) GetStatus(c echo.Context, _ *StatusRequest) (platform.Status, error) {
	return h.server.Platforms.Status(), nil
}
