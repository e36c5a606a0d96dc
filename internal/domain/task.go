package domain

import (
	"time"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Valid task statuses. The enum is open: any literal may replace any other,
// there is no enforced transition graph.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskStatusValues lists every valid status literal, in declaration order.
// Used for error messages and the database check constraint.
func TaskStatusValues() []TaskStatus {
	return []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}
}

// IsValid reports whether s is one of the known status literals.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// ParseTaskStatus converts a raw string into a TaskStatus.
// Returns ErrInvalidTaskStatus if the string is not a known literal.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidTaskStatus
	}
	return status, nil
}

// Task represents a unit of work owned by a user.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	UserID      int64      `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// User is the resolved owner, populated on read paths by the store.
	User *User `json:"user,omitempty"`
}

// TaskPatch describes a partial update to a task. Nil fields are left
// untouched by the store.
type TaskPatch struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Status      *TaskStatus `json:"status"`
	UserID      *int64      `json:"userId"`
}

// NewTask creates a Task with the given fields and sets the timestamps.
// An empty status defaults to pending. The ID is assigned by the store.
// Returns an error if validation fails.
func NewTask(title, description string, status TaskStatus, userID int64) (*Task, error) {
	if status == "" {
		status = TaskStatusPending
	}

	now := time.Now().UTC()
	task := &Task{
		Title:       title,
		Description: description,
		Status:      status,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
//
// Note that the owning user's existence is not checked here; referential
// integrity is enforced by the store's foreign key.
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrTitleRequired
	}

	if t.UserID == 0 {
		return ErrUserIDRequired
	}

	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}

	return nil
}
