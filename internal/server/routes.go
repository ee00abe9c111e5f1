package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Task/team CRUD, POST-only to match the existing clients
	api := s.echo.Group("/api")
	api.POST("/tasks/create", s.handleCreateTask)
	api.POST("/tasks/get", s.handleGetTasks)
	api.POST("/tasks/update", s.handleUpdateTask)
	api.POST("/tasks/delete", s.handleDeleteTask)
	api.POST("/teams/add", s.handleAddTeam)
	api.POST("/teams/get", s.handleGetTeam)
	api.POST("/teams/delete", s.handleDeleteTeam)
	api.POST("/teams/all", s.handleGetAllTeams)

	// Realtime endpoint
	s.echo.GET("/ws", s.handleWebSocket)
}
