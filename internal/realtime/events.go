package realtime

import (
	"encoding/json"

	"github.com/B-Paul-JC/task-manager-server/internal/domain"
)

// Event names exchanged with clients.
const (
	EventHandshake   = "handshake"
	EventError       = "error"
	EventTeams       = "teams"
	EventSubscribe   = "subscribe"
	EventUnsubscribe = "unsubscribe"
	EventGetTasks    = "getTasks"
	EventTasks       = "tasks"
	EventUpdateTask  = "updateTask"
	EventCreateTask  = "createTask"
	EventTasksUpdate = "tasksUpdate"
)

// Event is a single message exchanged with a client: a name plus a
// semantically typed payload. Events are transient, never persisted.
type Event struct {
	Name string
	Data any
}

func (e Event) encode() ([]byte, error) {
	return json.Marshal(struct {
		Event string `json:"event"`
		Data  any    `json:"data,omitempty"`
	}{e.Name, e.Data})
}

// envelope is the inbound wire frame; Data is decoded per event name.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// --- Inbound payloads ---

type handshakePayload struct {
	Auth string `json:"auth"`
}

type subscribePayload struct {
	TaskType string `json:"taskType"`
	TeamID   string `json:"teamId"`
}

type getTasksPayload struct {
	TeamID   string `json:"teamId"`
	TaskType string `json:"taskType"`
}

type updateTaskPayload struct {
	TeamID   string `json:"teamId"`
	TaskType string `json:"taskType"`
	TaskID   int64  `json:"taskId"`
	Status   string `json:"status"`
}

// --- Outbound payloads ---

type errorPayload struct {
	Error string `json:"error"`
}

type handshakeAckPayload struct {
	Success bool `json:"success"`
}

type tasksUpdatePayload struct {
	New  bool   `json:"new"`
	Type string `json:"type"`
}

type taskMutationPayload struct {
	TaskID int64  `json:"taskId"`
	Status string `json:"status"`
}

// ErrorEvent builds an error event with the given message.
func ErrorEvent(message string) Event {
	return Event{Name: EventError, Data: errorPayload{Error: message}}
}

// HandshakeAck is the success acknowledgment sent after a valid handshake.
func HandshakeAck() Event {
	return Event{Name: EventHandshake, Data: handshakeAckPayload{Success: true}}
}

// TeamsEvent wraps a team list fetched from the store.
func TeamsEvent(teams []domain.Team) Event {
	return Event{Name: EventTeams, Data: teams}
}

// TasksEvent wraps a task list fetched from the store.
func TasksEvent(tasks []domain.Task) Event {
	return Event{Name: EventTasks, Data: tasks}
}

// TasksUpdateEvent is the synthetic generator's room notification.
func TasksUpdateEvent(isNew bool, taskType string) Event {
	return Event{Name: EventTasksUpdate, Data: tasksUpdatePayload{New: isNew, Type: taskType}}
}

// TaskMutationEvent notifies a room that one task changed status.
func TaskMutationEvent(taskID int64, status string) Event {
	return Event{Name: EventTasksUpdate, Data: taskMutationPayload{TaskID: taskID, Status: status}}
}
