package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidTask = errors.New("invalid task")

// Draft - editable task fields as entered by the user, not yet validated
type Draft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        TaskType `json:"type"`
	DueDate     string   `json:"due_date"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
}

// NewDraft returns a draft with the default field values.
func NewDraft() Draft {
	return Draft{
		Type:     TaskTypeAssignment,
		Priority: PriorityMedium,
		Status:   StatusPending,
	}
}

// DraftFrom copies the editable fields of an existing task.
func DraftFrom(t Task) Draft {
	return Draft{
		Title:       t.Title,
		Description: t.Description,
		Type:        t.Type,
		DueDate:     t.DueDateString(),
		Priority:    t.Priority,
		Status:      t.Status,
	}
}

// Fields validates the draft and converts it to storable task fields.
// Every error wraps ErrInvalidTask.
func (d Draft) Fields() (TaskFields, error) {
	if strings.TrimSpace(d.Title) == "" {
		return TaskFields{}, fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if !d.Type.Valid() {
		return TaskFields{}, fmt.Errorf("%w: unknown type %q", ErrInvalidTask, d.Type)
	}
	if !d.Priority.Valid() {
		return TaskFields{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidTask, d.Priority)
	}
	if !d.Status.Valid() {
		return TaskFields{}, fmt.Errorf("%w: unknown status %q", ErrInvalidTask, d.Status)
	}

	var due *time.Time
	if s := strings.TrimSpace(d.DueDate); s != "" {
		parsed, err := time.Parse(DateLayout, s)
		if err != nil {
			return TaskFields{}, fmt.Errorf("%w: due date %q is not YYYY-MM-DD", ErrInvalidTask, d.DueDate)
		}
		due = &parsed
	}

	return TaskFields{
		Title:       d.Title,
		Description: d.Description,
		Type:        d.Type,
		DueDate:     due,
		Priority:    d.Priority,
		Status:      d.Status,
	}, nil
}
