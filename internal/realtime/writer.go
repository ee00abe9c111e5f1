package realtime

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/B-Paul-JC/task-manager-server/internal/metrics"
)

const (
	writeDeadline     = 5 * time.Second
	pingInterval      = 30 * time.Second
	pongDeadline      = 60 * time.Second
	messageBufferSize = 16
)

// clientWriter serializes all writes to one WebSocket connection. The hub
// goroutine is the sole producer on sendChannel; closing the channel flushes
// the remaining messages, writes a close frame, and closes the transport.
type clientWriter struct {
	connection  *websocket.Conn
	clock       clockwork.Clock
	sendChannel chan []byte
}

func newClientWriter(connection *websocket.Conn, clock clockwork.Clock) *clientWriter {
	cw := &clientWriter{
		connection:  connection,
		clock:       clock,
		sendChannel: make(chan []byte, messageBufferSize),
	}
	cw.configurePongHandler()
	go cw.run(websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closing"))
	return cw
}

func (cw *clientWriter) run(closeMsg []byte) {
	ticker := cw.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	defer cw.connection.Close()

	for {
		select {
		case msg, ok := <-cw.sendChannel:
			if !ok {
				// Drained; say goodbye properly before the deferred close.
				cw.updateWriteDeadline()
				_ = cw.connection.WriteMessage(websocket.CloseMessage, closeMsg)
				return
			}
			start := cw.clock.Now()
			cw.updateWriteDeadline()
			if err := cw.connection.WriteMessage(websocket.TextMessage, msg); err != nil {
				cw.discard()
				return
			}
			metrics.WebSocketMessageSendDuration.Observe(cw.clock.Since(start).Seconds())
		case <-ticker.Chan():
			cw.updateWriteDeadline()
			if err := cw.connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				metrics.WebSocketPingFailures.Inc()
				cw.discard()
				return
			}
		}
	}
}

// enqueue attempts a non-blocking send. Returns false when the buffer is
// full, which marks the client as slow.
func (cw *clientWriter) enqueue(msg []byte) bool {
	select {
	case cw.sendChannel <- msg:
		return true
	default:
		return false
	}
}

// close signals the writer to flush and shut down. Must only be called by
// the hub goroutine, exactly once per writer.
func (cw *clientWriter) close() {
	close(cw.sendChannel)
}

// discard drains sendChannel after a write failure so that close() never
// leaves the hub's final messages dangling and the channel can be collected.
func (cw *clientWriter) discard() {
	go func() {
		for range cw.sendChannel { //nolint:revive // draining until closed
		}
	}()
}

func (cw *clientWriter) configurePongHandler() {
	cw.updateReadDeadline()
	cw.connection.SetPongHandler(func(string) error {
		cw.updateReadDeadline()
		return nil
	})
}

func (cw *clientWriter) updateWriteDeadline() {
	_ = cw.connection.SetWriteDeadline(cw.clock.Now().Add(writeDeadline))
}

func (cw *clientWriter) updateReadDeadline() {
	_ = cw.connection.SetReadDeadline(cw.clock.Now().Add(pongDeadline))
}
