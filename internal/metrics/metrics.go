package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Realtime hub metrics
var (
	// HubConnectedClients tracks the number of live WebSocket connections
	HubConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_connected_clients",
			Help: "Number of live WebSocket connections",
		},
	)

	// HubActiveRooms tracks the number of rooms with at least one member
	HubActiveRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_active_rooms",
			Help: "Number of rooms with at least one member",
		},
	)

	// HubEventsPublishedTotal tracks events published to rooms by event name
	HubEventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_events_published_total",
			Help: "Events published to rooms by event name",
		},
		[]string{"event"},
	)

	// HubEventDeliveriesTotal tracks per-member event deliveries
	HubEventDeliveriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_event_deliveries_total",
			Help: "Per-member event deliveries across all rooms",
		},
	)

	// HubSlowClientsEvicted tracks clients dropped because their send buffer was full
	HubSlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_slow_clients_evicted_total",
			Help: "Clients dropped because their send buffer was full",
		},
	)

	// HubHandshakesTotal tracks handshake attempts by outcome (accepted/rejected)
	HubHandshakesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_handshakes_total",
			Help: "Handshake attempts by outcome",
		},
		[]string{"outcome"},
	)

	// HubCommandChannelDepth tracks current hub command channel depth
	HubCommandChannelDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_command_channel_depth",
			Help: "Current hub command channel depth",
		},
	)
)

// WebSocket endpoint metrics
var (
	// WebSocketConnectionsRejected tracks connections rejected at the door by reason
	WebSocketConnectionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_connections_rejected_total",
			Help: "WebSocket connections rejected by limit reason",
		},
		[]string{"reason"},
	)

	// WebSocketMessageSendDuration tracks the time spent writing a single frame
	WebSocketMessageSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websocket_message_send_duration_seconds",
			Help:    "Time spent writing a single WebSocket frame",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)

	// WebSocketPingFailures tracks keepalive ping write failures
	WebSocketPingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_ping_failures_total",
			Help: "Keepalive ping write failures",
		},
	)
)

// Store metrics
var (
	// StoreRequestDuration tracks store call latency by operation
	StoreRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_request_duration_seconds",
			Help:    "Store call duration by operation",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"operation"},
	)

	// StoreBreakerState tracks the store circuit breaker state (0=closed, 1=half-open, 2=open)
	StoreBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_breaker_state",
			Help: "Store circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)
