package realtime

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/B-Paul-JC/task-manager-server/internal/metrics"
)

const (
	commandTimeout = 5 * time.Second
	stopTimeout    = 10 * time.Second
)

// connection is one live client session: its handle, transport writer,
// token, and authentication state. Room memberships live in the directory.
type connection struct {
	id            uuid.UUID
	writer        *clientWriter
	token         string
	authenticated bool
}

// hubCmd is the command interface for the Hub actor.
type hubCmd interface{ isHubCmd() }

type baseHubCmd struct{}

func (baseHubCmd) isHubCmd() {}

type registerCmd struct {
	baseHubCmd
	conn         *websocket.Conn
	replyChannel chan uuid.UUID
}

type unregisterCmd struct {
	baseHubCmd
	id uuid.UUID
}

type handshakeCmd struct {
	baseHubCmd
	id           uuid.UUID
	token        string
	replyChannel chan bool
}

type authenticatedCmd struct {
	baseHubCmd
	id           uuid.UUID
	replyChannel chan bool
}

type subscribeCmd struct {
	baseHubCmd
	id       uuid.UUID
	taskType string
	teamID   string
	leave    bool
}

type sendCmd struct {
	baseHubCmd
	id    uuid.UUID
	event Event
}

type publishCmd struct {
	baseHubCmd
	roomKey string
	event   Event
}

type membersCmd struct {
	baseHubCmd
	roomKey      string
	replyChannel chan []uuid.UUID
}

type clientCountCmd struct {
	baseHubCmd
	replyChannel chan int
}

type stopCmd struct {
	baseHubCmd
}

// Hub is the connection registry, room directory, and broadcast engine in
// one serialization domain. A single goroutine owns all state and consumes
// typed commands from a buffered channel, so registry and directory
// mutations are atomic with respect to publish reads.
type Hub struct {
	cmdCh       chan hubCmd
	clock       clockwork.Clock
	connections map[uuid.UUID]*connection
	directory   *directory
	done        chan struct{}
}

// NewHub creates a hub and starts its actor goroutine.
func NewHub(clock clockwork.Clock) *Hub {
	h := &Hub{
		cmdCh:       make(chan hubCmd, 256),
		clock:       clock,
		connections: make(map[uuid.UUID]*connection),
		directory:   newDirectory(),
		done:        make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.done)

	depthTicker := h.clock.NewTicker(1 * time.Second)
	defer depthTicker.Stop()

	for {
		select {
		case <-depthTicker.Chan():
			metrics.HubCommandChannelDepth.Set(float64(len(h.cmdCh)))
		case cmd := <-h.cmdCh:
			switch c := cmd.(type) {
			case registerCmd:
				c.replyChannel <- h.handleRegister(c.conn)
			case unregisterCmd:
				h.handleUnregister(c.id)
			case handshakeCmd:
				c.replyChannel <- h.handleHandshake(c.id, c.token)
			case authenticatedCmd:
				conn, ok := h.connections[c.id]
				c.replyChannel <- ok && conn.authenticated
			case subscribeCmd:
				h.handleSubscribe(c)
			case sendCmd:
				h.handleSend(c.id, c.event)
			case publishCmd:
				h.handlePublish(c.roomKey, c.event)
			case membersCmd:
				c.replyChannel <- h.directory.membersOf(c.roomKey)
			case clientCountCmd:
				c.replyChannel <- len(h.connections)
			case stopCmd:
				h.handleStop()
				return
			default:
				slog.Warn("Hub received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
			}
		}
	}
}

func (h *Hub) handleRegister(wsConn *websocket.Conn) uuid.UUID {
	id := uuid.New()
	h.connections[id] = &connection{
		id:     id,
		writer: newClientWriter(wsConn, h.clock),
	}
	metrics.HubConnectedClients.Set(float64(len(h.connections)))
	slog.Debug("Client registered", "connection_id", id.String(), "total_clients", len(h.connections))
	return id
}

func (h *Hub) handleUnregister(id uuid.UUID) {
	conn, ok := h.connections[id]
	if !ok {
		return
	}

	h.directory.leaveAll(id)
	delete(h.connections, id)
	conn.writer.close()

	metrics.HubConnectedClients.Set(float64(len(h.connections)))
	metrics.HubActiveRooms.Set(float64(h.directory.roomCount()))
	slog.Debug("Client unregistered", "connection_id", id.String(), "remaining_clients", len(h.connections))
}

func (h *Hub) handleHandshake(id uuid.UUID, token string) bool {
	conn, ok := h.connections[id]
	if !ok {
		return false
	}

	if token == "" {
		metrics.HubHandshakesTotal.WithLabelValues("rejected").Inc()
		h.handleSend(id, ErrorEvent("Invalid handshake"))
		return false
	}

	conn.token = token
	conn.authenticated = true
	metrics.HubHandshakesTotal.WithLabelValues("accepted").Inc()
	h.handleSend(id, HandshakeAck())
	slog.Debug("Handshake accepted", "connection_id", id.String())
	return true
}

func (h *Hub) handleSubscribe(c subscribeCmd) {
	conn, ok := h.connections[c.id]
	if !ok {
		return
	}
	if !conn.authenticated {
		h.handleSend(c.id, ErrorEvent("not authenticated"))
		return
	}

	roomKey := RoomKey(c.taskType, c.teamID)
	if c.leave {
		h.directory.leave(roomKey, c.id)
	} else {
		h.directory.join(roomKey, c.id)
	}
	metrics.HubActiveRooms.Set(float64(h.directory.roomCount()))
	slog.Debug("Room membership changed", "connection_id", c.id.String(), "room", roomKey, "leave", c.leave)
}

func (h *Hub) handleSend(id uuid.UUID, event Event) {
	conn, ok := h.connections[id]
	if !ok {
		// Response for a connection that already went away; drop it.
		return
	}

	data, err := event.encode()
	if err != nil {
		slog.Error("Failed to marshal event", "event", event.Name, "error", err)
		return
	}

	if !conn.writer.enqueue(data) {
		slog.Warn("Disconnecting slow client", "connection_id", id.String())
		metrics.HubSlowClientsEvicted.Inc()
		h.handleUnregister(id)
	}
}

func (h *Hub) handlePublish(roomKey string, event Event) {
	members := h.directory.membersOf(roomKey)
	if len(members) == 0 {
		return
	}

	data, err := event.encode()
	if err != nil {
		slog.Error("Failed to marshal event", "event", event.Name, "error", err)
		return
	}

	metrics.HubEventsPublishedTotal.WithLabelValues(event.Name).Inc()

	var slow []uuid.UUID
	for _, id := range members {
		conn, ok := h.connections[id]
		if !ok {
			continue
		}
		if conn.writer.enqueue(data) {
			metrics.HubEventDeliveriesTotal.Inc()
		} else {
			slow = append(slow, id)
		}
	}

	for _, id := range slow {
		slog.Warn("Disconnecting slow client", "connection_id", id.String(), "room", roomKey)
		metrics.HubSlowClientsEvicted.Inc()
		h.handleUnregister(id)
	}
}

func (h *Hub) handleStop() {
	slog.Info("Hub shutting down", "clients", len(h.connections), "rooms", h.directory.roomCount())
	for id := range h.connections {
		h.handleUnregister(id)
	}
}

// --- Public API ---

// Register admits a new transport connection in the unauthenticated state
// and returns its handle. Handles are unique for the hub's lifetime.
func (h *Hub) Register(conn *websocket.Conn) uuid.UUID {
	replyCh := make(chan uuid.UUID, 1)
	h.cmdCh <- registerCmd{conn: conn, replyChannel: replyCh}
	return <-replyCh
}

// Unregister tears down the connection: removes it from every room and
// closes its writer. Idempotent.
func (h *Hub) Unregister(id uuid.UUID) {
	h.cmdCh <- unregisterCmd{id: id}
}

// Handshake validates token presence for the connection. On success the
// connection becomes authenticated and receives the handshake ack; on
// failure it receives an error event and the caller must drop the
// transport. Token verification beyond presence is the Authenticator's job.
func (h *Hub) Handshake(id uuid.UUID, token string) bool {
	replyCh := make(chan bool, 1)
	h.cmdCh <- handshakeCmd{id: id, token: token, replyChannel: replyCh}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case ok := <-replyCh:
		return ok
	case <-timer.Chan():
		slog.Warn("Handshake command timed out", "timeout", commandTimeout)
		return false
	}
}

// Authenticated reports whether the connection passed the handshake.
func (h *Hub) Authenticated(id uuid.UUID) bool {
	replyCh := make(chan bool, 1)
	h.cmdCh <- authenticatedCmd{id: id, replyChannel: replyCh}
	return <-replyCh
}

// Subscribe joins the room derived from taskType and teamID. Rejected with
// an error event when the connection is not authenticated.
func (h *Hub) Subscribe(id uuid.UUID, taskType, teamID string) {
	h.cmdCh <- subscribeCmd{id: id, taskType: taskType, teamID: teamID}
}

// Unsubscribe leaves the room derived from taskType and teamID.
func (h *Hub) Unsubscribe(id uuid.UUID, taskType, teamID string) {
	h.cmdCh <- subscribeCmd{id: id, taskType: taskType, teamID: teamID, leave: true}
}

// Send delivers an event to a single connection, best effort. Events for
// connections that already closed are dropped.
func (h *Hub) Send(id uuid.UUID, event Event) {
	h.cmdCh <- sendCmd{id: id, event: event}
}

// Publish fans the event out to every current member of the room. Delivery
// per member is best effort and independent; failures never reach the
// publisher.
func (h *Hub) Publish(roomKey string, event Event) {
	h.cmdCh <- publishCmd{roomKey: roomKey, event: event}
}

// RelayTaskMutation derives the room key and publishes the event to it.
// Used both by client mutation commands and by the synthetic generator.
func (h *Hub) RelayTaskMutation(teamID, taskType string, event Event) {
	h.Publish(RoomKey(taskType, teamID), event)
}

// Members returns a snapshot of the room's current member handles.
func (h *Hub) Members(roomKey string) []uuid.UUID {
	replyCh := make(chan []uuid.UUID, 1)
	h.cmdCh <- membersCmd{roomKey: roomKey, replyChannel: replyCh}
	return <-replyCh
}

// ClientCount returns the number of registered connections.
func (h *Hub) ClientCount() int {
	replyCh := make(chan int, 1)
	h.cmdCh <- clientCountCmd{replyChannel: replyCh}
	return <-replyCh
}

// Stop closes every connection and shuts the actor down. Blocks until the
// hub goroutine exits or the stop timeout is reached.
func (h *Hub) Stop() {
	h.cmdCh <- stopCmd{}

	timer := h.clock.NewTimer(stopTimeout)
	defer timer.Stop()

	select {
	case <-h.done:
		slog.Info("Hub stopped gracefully")
	case <-timer.Chan():
		slog.Warn("Hub stop timeout exceeded", "timeout", stopTimeout)
	}
}
