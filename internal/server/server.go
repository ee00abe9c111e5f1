// Package server exposes the HTTP surface: the task/team CRUD API, the
// WebSocket endpoint feeding the realtime hub, and observability routes.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/B-Paul-JC/task-manager-server/internal/config"
	"github.com/B-Paul-JC/task-manager-server/internal/domain"
	"github.com/B-Paul-JC/task-manager-server/internal/realtime"
)

// postgresHealthChecker is a minimal interface for PostgreSQL health checks
type postgresHealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	store     domain.Store
	hub       *realtime.Hub
	auth      realtime.Authenticator
	limits    *ConnectionLimits
	upgrader  websocket.Upgrader
	db        postgresHealthChecker
	startTime time.Time
}

func NewServer(cfg *config.Config, store domain.Store, hub *realtime.Hub, db postgresHealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	srv := &Server{
		echo:   e,
		config: cfg,
		store:  store,
		hub:    hub,
		auth:   realtime.PresenceAuthenticator{},
		limits: NewConnectionLimits(
			cfg.MaxWebSocketConnections,
			cfg.MaxConnectionsPerIP,
			cfg.ConnectionRate,
			cfg.ConnectionBurst,
		),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     NewCheckOrigin(cfg.AppURL, cfg.AppEnv == "development"),
		},
		db:        db,
		startTime: time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
