package domain

import (
	"errors"
	"time"
)

var ErrTaskNotFound = errors.New("task not found")

// DateLayout is the wire and storage layout of a task due date.
const DateLayout = "2006-01-02"

// TaskType - kind of academic work
type TaskType string

const (
	TaskTypeAssignment TaskType = "assignment"
	TaskTypeExam       TaskType = "exam"
	TaskTypeLecture    TaskType = "lecture"
	TaskTypeProject    TaskType = "project"
)

// Priority - how urgent the task is
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Status - workflow state of a task
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists the workflow states in board order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// TaskFields - the editable part of a task record
type TaskFields struct {
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Type        TaskType   `db:"type" json:"type"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	Priority    Priority   `db:"priority" json:"priority"`
	Status      Status     `db:"status" json:"status"`
}

// Task - a persisted task record owned by one user
type Task struct {
	ID          string     `db:"id" json:"id"`
	OwnerID     string     `db:"user_id" json:"owner_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Type        TaskType   `db:"type" json:"type"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	Priority    Priority   `db:"priority" json:"priority"`
	Status      Status     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Fields returns the editable fields of the record.
func (t Task) Fields() TaskFields {
	return TaskFields{
		Title:       t.Title,
		Description: t.Description,
		Type:        t.Type,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Status:      t.Status,
	}
}

// Apply overwrites the editable fields of the record.
func (t *Task) Apply(f TaskFields) {
	t.Title = f.Title
	t.Description = f.Description
	t.Type = f.Type
	t.DueDate = f.DueDate
	t.Priority = f.Priority
	t.Status = f.Status
}

// DueDateString returns the due date as YYYY-MM-DD, or "" when unset.
func (t Task) DueDateString() string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format(DateLayout)
}
