package tasks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"studyboard/internal/domain"
)

// RemoteStore is the persisted task collection the Store synchronizes with.
// List returns the owner's tasks newest first. Update fails with
// domain.ErrTaskNotFound when the id does not exist; Delete is unconditional.
type RemoteStore interface {
	Create(ctx context.Context, ownerID string, fields domain.TaskFields) (string, error)
	List(ctx context.Context, ownerID string) ([]domain.Task, error)
	Update(ctx context.Context, id string, fields domain.TaskFields) error
	Delete(ctx context.Context, id string) error
}

// Snapshot is an immutable view of one owner's task set at load time.
type Snapshot struct {
	OwnerID  string
	Tasks    []domain.Task
	LoadedAt time.Time
}

func (s Snapshot) clone() Snapshot {
	s.Tasks = slices.Clone(s.Tasks)
	return s
}

// Store holds the current owner's task set. Every mutation goes through the
// remote store and is followed by a full reload; the local set is never
// patched. Calls are not serialized: when two mutations overlap, the snapshot
// of whichever reload finishes last is kept.
type Store struct {
	remote RemoteStore
	snap   atomic.Pointer[Snapshot]
	now    func() time.Time
}

func NewStore(remote RemoteStore) *Store {
	s := &Store{remote: remote, now: time.Now}
	s.snap.Store(&Snapshot{})
	return s
}

// NewStoreForOwner creates a store bound to ownerID with an empty snapshot,
// so Update and Delete can run without a prior Load.
func NewStoreForOwner(remote RemoteStore, ownerID string) *Store {
	s := &Store{remote: remote, now: time.Now}
	s.snap.Store(&Snapshot{OwnerID: ownerID})
	return s
}

// Snapshot returns a copy of the current task set.
func (s *Store) Snapshot() Snapshot {
	return s.snap.Load().clone()
}

// OwnerID returns the owner the store currently reloads for.
func (s *Store) OwnerID() string {
	return s.snap.Load().OwnerID
}

// Load replaces the snapshot with the owner's full task set. On failure the
// previous snapshot is kept.
func (s *Store) Load(ctx context.Context, ownerID string) (Snapshot, error) {
	if ownerID == "" {
		return s.Snapshot(), ErrNoOwner
	}

	list, err := s.remote.List(ctx, ownerID)
	if err != nil {
		return s.Snapshot(), syncErr("list", err)
	}

	next := &Snapshot{
		OwnerID:  ownerID,
		Tasks:    slices.Clone(list),
		LoadedAt: s.now(),
	}
	s.snap.Store(next)
	return next.clone(), nil
}

// Create stores a new task for ownerID and reloads. The new id is only
// observable through the reloaded set.
func (s *Store) Create(ctx context.Context, draft domain.Draft, ownerID string) (Snapshot, error) {
	fields, err := draft.Fields()
	if err != nil {
		return s.Snapshot(), err
	}
	if ownerID == "" {
		return s.Snapshot(), ErrNoOwner
	}

	if _, err := s.remote.Create(ctx, ownerID, fields); err != nil {
		return s.Snapshot(), syncErr("create", err)
	}
	return s.reload(ctx, ownerID)
}

// Update overwrites the editable fields of task id and reloads.
func (s *Store) Update(ctx context.Context, id string, draft domain.Draft) (Snapshot, error) {
	fields, err := draft.Fields()
	if err != nil {
		return s.Snapshot(), err
	}
	owner := s.OwnerID()
	if owner == "" {
		return s.Snapshot(), ErrNoOwner
	}

	if err := s.remote.Update(ctx, id, fields); err != nil {
		if errors.Is(err, ErrNotFound) {
			return s.Snapshot(), fmt.Errorf("update task %s: %w", id, err)
		}
		return s.Snapshot(), syncErr("update", err)
	}
	return s.reload(ctx, owner)
}

// Delete removes task id and reloads.
func (s *Store) Delete(ctx context.Context, id string) (Snapshot, error) {
	owner := s.OwnerID()
	if owner == "" {
		return s.Snapshot(), ErrNoOwner
	}

	if err := s.remote.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return s.Snapshot(), fmt.Errorf("delete task %s: %w", id, err)
		}
		return s.Snapshot(), syncErr("delete", err)
	}
	return s.reload(ctx, owner)
}

// reload runs the Load that follows a successful mutation.
func (s *Store) reload(ctx context.Context, ownerID string) (Snapshot, error) {
	snap, err := s.Load(ctx, ownerID)
	var se *SyncError
	if errors.As(err, &se) {
		se.Applied = true
	}
	return snap, err
}

// Find returns the task with the given id from the current snapshot.
func (s *Store) Find(id string) (domain.Task, bool) {
	for _, t := range s.snap.Load().Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}
