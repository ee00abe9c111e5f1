package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/B-Paul-JC/task-manager-server/internal/metrics"
	"github.com/B-Paul-JC/task-manager-server/internal/realtime"
)

func (s *Server) handleWebSocket(c echo.Context) error {
	ip := c.RealIP()

	ok, reason := s.limits.Acquire(ip)
	if !ok {
		metrics.WebSocketConnectionsRejected.WithLabelValues(string(reason)).Inc()
		slog.Warn("WebSocket connection rejected", "ip", ip, "reason", reason)
		status := http.StatusServiceUnavailable
		if reason == LimitReasonRate {
			status = http.StatusTooManyRequests
		}
		return c.JSON(status, map[string]string{"error": "connection limit reached"})
	}
	defer s.limits.Release(ip)

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote an HTTP error response.
		slog.Warn("WebSocket upgrade failed", "ip", ip, "error", err)
		return nil
	}

	// Blocks until the transport closes; the session handles its own teardown.
	realtime.ServeConn(s.hub, s.store, s.auth, conn)
	return nil
}
