// Package domain holds the core task-tracking types shared across the
// application: team and task records, status/priority enumerations, and the
// store interfaces the realtime and HTTP layers consume.
package domain

import "time"

// Task status values as stored in team_tasks.status.
const (
	StatusCompleted  = "COMPLETED"
	StatusInProgress = "IN PROGRESS"
	StatusPending    = "PENDING"
	StatusPostponed  = "POSTPONED"
	StatusCancelled  = "CANCELLED"
	StatusDeleted    = "DELETED"
)

// TaskStatuses lists the statuses a live task can carry. DELETED is the
// soft-delete marker and is deliberately excluded.
var TaskStatuses = []string{
	StatusCompleted,
	StatusInProgress,
	StatusPending,
	StatusPostponed,
	StatusCancelled,
}

// Task priority values as stored in team_tasks.priority.
const (
	PriorityUrgent    = "URGENT"
	PriorityImportant = "IMPORTANT"
	PriorityMedium    = "MEDIUM IMPORTANCE"
	PriorityLow       = "LOW IMPORTANCE"
	PriorityOptional  = "OPTIONAL"
)

// Team is a read-only team summary.
type Team struct {
	ID      string `json:"teamId"`
	Name    string `json:"teamName"`
	Address string `json:"teamAddress,omitempty"`
}

// Task is a single row from team_tasks projected for clients.
type Task struct {
	ID             int64      `json:"taskId"`
	Title          string     `json:"taskTitle"`
	Description    string     `json:"taskDescription"`
	TeamAssigned   string     `json:"teamAssigned"`
	Status         string     `json:"taskStatus"`
	Priority       string     `json:"taskPriority"`
	CreationDate   *time.Time `json:"taskCreationDate,omitempty"`
	StartDate      *time.Time `json:"taskStartDate,omitempty"`
	CompletionDate *time.Time `json:"taskCompletionDate,omitempty"`
	Deadline       *time.Time `json:"taskDeadline,omitempty"`
}

// NewTask carries the fields required to create a task.
type NewTask struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	TeamAssigned string     `json:"teamId"`
	Priority     string     `json:"priority"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

// ValidStatus reports whether s is one of the live task statuses.
func ValidStatus(s string) bool {
	for _, known := range TaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}
