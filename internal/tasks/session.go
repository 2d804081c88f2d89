package tasks

import (
	"context"
	"fmt"

	"studyboard/internal/domain"
)

// SessionState is the lifecycle state of an edit session.
type SessionState int

const (
	SessionClosed SessionState = iota
	SessionCreating
	SessionEditing
)

func (s SessionState) String() string {
	switch s {
	case SessionCreating:
		return "creating"
	case SessionEditing:
		return "editing"
	case SessionClosed:
		return "closed"
	default:
		return "closed"
	}
}

// Field names a draft field for Session.SetField.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldType        Field = "type"
	FieldDueDate     Field = "due_date"
	FieldPriority    Field = "priority"
	FieldStatus      Field = "status"
)

// Committer persists a draft. *Store implements it.
type Committer interface {
	Create(ctx context.Context, draft domain.Draft, ownerID string) (Snapshot, error)
	Update(ctx context.Context, id string, draft domain.Draft) (Snapshot, error)
}

// Session holds one task draft while it is being composed or edited.
// Nothing is persisted until Commit.
type Session struct {
	ownerID   string
	state     SessionState
	editingID string
	draft     domain.Draft
}

func NewSession(ownerID string) *Session {
	return &Session{ownerID: ownerID}
}

// Start opens a new draft with default values.
func (s *Session) Start() {
	s.state = SessionCreating
	s.editingID = ""
	s.draft = domain.NewDraft()
}

// StartFrom opens a draft pre-populated from an existing task.
func (s *Session) StartFrom(t domain.Task) {
	s.state = SessionEditing
	s.editingID = t.ID
	s.draft = domain.DraftFrom(t)
}

// SetField updates one draft field. Values are not validated until Commit.
func (s *Session) SetField(name Field, value string) error {
	if s.state == SessionClosed {
		return ErrSessionClosed
	}

	switch name {
	case FieldTitle:
		s.draft.Title = value
	case FieldDescription:
		s.draft.Description = value
	case FieldType:
		s.draft.Type = domain.TaskType(value)
	case FieldDueDate:
		s.draft.DueDate = value
	case FieldPriority:
		s.draft.Priority = domain.Priority(value)
	case FieldStatus:
		s.draft.Status = domain.Status(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// Commit persists the draft. On success the session closes. When the write
// landed but the reload after it failed, the session closes as well and the
// error is returned, so resubmitting cannot store the task twice. Any other
// failure leaves the session open with the draft intact.
func (s *Session) Commit(ctx context.Context, c Committer) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)

	switch s.state {
	case SessionCreating:
		snap, err = c.Create(ctx, s.draft, s.ownerID)
	case SessionEditing:
		snap, err = c.Update(ctx, s.editingID, s.draft)
	default:
		return Snapshot{}, ErrSessionClosed
	}
	if err != nil {
		if MutationApplied(err) {
			s.close()
		}
		return snap, err
	}

	s.close()
	return snap, nil
}

// Cancel discards the draft.
func (s *Session) Cancel() {
	s.close()
}

func (s *Session) close() {
	s.state = SessionClosed
	s.editingID = ""
	s.draft = domain.Draft{}
}

func (s *Session) State() SessionState {
	return s.state
}

// EditingID returns the id of the task being edited, or "".
func (s *Session) EditingID() string {
	return s.editingID
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() domain.Draft {
	return s.draft
}
