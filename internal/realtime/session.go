package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/B-Paul-JC/task-manager-server/internal/domain"
	"github.com/B-Paul-JC/task-manager-server/internal/metrics"
)

const storeTimeout = 10 * time.Second

// Store is the slice of the persistent collaborator the session layer
// needs. All calls are asynchronous with respect to the read loop so one
// connection's pending fetch never blocks another connection's commands.
type Store interface {
	FetchTeams(ctx context.Context) ([]domain.Team, error)
	FetchTasksByTeamAndStatus(ctx context.Context, teamID, status string) ([]domain.Task, error)
	InsertTask(ctx context.Context, task domain.NewTask) (int64, error)
	UpdateTaskStatus(ctx context.Context, taskID int64, status string) error
}

// Authenticator decides whether a handshake token is acceptable. The
// default implementation checks presence only; real credential verification
// plugs in here.
type Authenticator interface {
	Verify(token string) bool
}

// PresenceAuthenticator accepts any non-empty token.
type PresenceAuthenticator struct{}

// Verify implements Authenticator.
func (PresenceAuthenticator) Verify(token string) bool {
	return token != ""
}

// Session drives one client connection: it owns the inbound read loop and
// the handshake gate. All outbound traffic goes through the hub.
type Session struct {
	hub   *Hub
	store Store
	auth  Authenticator
	id    uuid.UUID
	conn  *websocket.Conn
	log   *slog.Logger
}

// ServeConn registers the connection with the hub and processes its command
// stream until the transport closes. Blocks; the caller owns the goroutine.
func ServeConn(hub *Hub, store Store, auth Authenticator, conn *websocket.Conn) {
	id := hub.Register(conn)
	s := &Session{
		hub:   hub,
		store: store,
		auth:  auth,
		id:    id,
		conn:  conn,
		log:   slog.With("connection_id", id.String()),
	}
	defer hub.Unregister(id)
	s.readLoop()
}

func (s *Session) readLoop() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.log.Debug("Connection closed", "error", err)
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongDeadline))

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.hub.Send(s.id, ErrorEvent("malformed message"))
			continue
		}

		switch env.Event {
		case EventHandshake:
			s.handleHandshake(env.Data)
		case EventSubscribe:
			s.handleSubscribe(env.Data, false)
		case EventUnsubscribe:
			s.handleSubscribe(env.Data, true)
		case EventGetTasks:
			s.handleGetTasks(env.Data)
		case EventUpdateTask:
			s.handleUpdateTask(env.Data)
		case EventCreateTask:
			s.handleCreateTask(env.Data)
		default:
			s.hub.Send(s.id, ErrorEvent("unknown event: "+env.Event))
		}
	}
}

// handleHandshake gates the connection. A missing or rejected token is
// terminal: the client gets one error event and the transport goes away.
func (s *Session) handleHandshake(data json.RawMessage) {
	var p handshakePayload
	if err := json.Unmarshal(data, &p); err != nil {
		s.hub.Send(s.id, ErrorEvent("malformed handshake"))
		return
	}

	if p.Auth == "" || !s.auth.Verify(p.Auth) {
		metrics.HubHandshakesTotal.WithLabelValues("rejected").Inc()
		s.log.Info("Handshake rejected")
		s.hub.Send(s.id, ErrorEvent("Invalid handshake"))
		s.hub.Unregister(s.id)
		return
	}

	if !s.hub.Handshake(s.id, p.Auth) {
		return
	}

	go s.pushTeams()
}

func (s *Session) pushTeams() {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	teams, err := s.store.FetchTeams(ctx)
	if err != nil {
		s.log.Warn("Team fetch failed", "error", err)
		s.hub.Send(s.id, ErrorEvent("Error retrieving teams"))
		return
	}
	s.hub.Send(s.id, TeamsEvent(teams))
}

func (s *Session) handleSubscribe(data json.RawMessage, leave bool) {
	var p subscribePayload
	if err := json.Unmarshal(data, &p); err != nil || p.TaskType == "" || p.TeamID == "" {
		s.hub.Send(s.id, ErrorEvent("taskType and teamId are required"))
		return
	}

	// Authentication is enforced inside the hub so the check and the
	// membership mutation happen in one serialization domain.
	if leave {
		s.hub.Unsubscribe(s.id, p.TaskType, p.TeamID)
	} else {
		s.hub.Subscribe(s.id, p.TaskType, p.TeamID)
	}
}

func (s *Session) handleGetTasks(data json.RawMessage) {
	if !s.hub.Authenticated(s.id) {
		s.hub.Send(s.id, ErrorEvent("not authenticated"))
		return
	}

	var p getTasksPayload
	if err := json.Unmarshal(data, &p); err != nil || p.TeamID == "" || p.TaskType == "" {
		s.hub.Send(s.id, ErrorEvent("teamId and taskType are required"))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		tasks, err := s.store.FetchTasksByTeamAndStatus(ctx, p.TeamID, p.TaskType)
		if err != nil {
			s.log.Warn("Task fetch failed", "team_id", p.TeamID, "error", err)
			s.hub.Send(s.id, ErrorEvent("Error retrieving tasks"))
			return
		}
		s.hub.Send(s.id, TasksEvent(tasks))
	}()
}

func (s *Session) handleUpdateTask(data json.RawMessage) {
	if !s.hub.Authenticated(s.id) {
		s.hub.Send(s.id, ErrorEvent("not authenticated"))
		return
	}

	var p updateTaskPayload
	if err := json.Unmarshal(data, &p); err != nil || p.TeamID == "" || p.TaskID == 0 || !domain.ValidStatus(p.Status) {
		s.hub.Send(s.id, ErrorEvent("teamId, taskId and a valid status are required"))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		if err := s.store.UpdateTaskStatus(ctx, p.TaskID, p.Status); err != nil {
			s.log.Warn("Task update failed", "task_id", p.TaskID, "error", err)
			s.hub.Send(s.id, ErrorEvent("Error updating task"))
			return
		}
		s.hub.RelayTaskMutation(p.TeamID, p.TaskType, TaskMutationEvent(p.TaskID, p.Status))
	}()
}

func (s *Session) handleCreateTask(data json.RawMessage) {
	if !s.hub.Authenticated(s.id) {
		s.hub.Send(s.id, ErrorEvent("not authenticated"))
		return
	}

	var p domain.NewTask
	if err := json.Unmarshal(data, &p); err != nil || p.Title == "" || p.TeamAssigned == "" {
		s.hub.Send(s.id, ErrorEvent("title and teamId are required"))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		if _, err := s.store.InsertTask(ctx, p); err != nil {
			s.log.Warn("Task insert failed", "team_id", p.TeamAssigned, "error", err)
			s.hub.Send(s.id, ErrorEvent("Error creating task"))
		}
	}()
}
