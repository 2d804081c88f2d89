package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"studyboard/internal/domain"
	"studyboard/internal/tasks"

	"github.com/google/uuid"
)

type memoryTask struct {
	task domain.Task
	seq  int64
}

// MemoryTaskRepository keeps task records in process memory. It is used when
// the server runs without a database and as the store behind tests.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	seq   int64
	tasks map[string]memoryTask
	now   func() time.Time
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		tasks: make(map[string]memoryTask),
		now:   time.Now,
	}
}

// NewMemoryTaskRepositoryWithClock creates a repository that stamps records with now.
func NewMemoryTaskRepositoryWithClock(now func() time.Time) *MemoryTaskRepository {
	r := NewMemoryTaskRepository()
	r.now = now
	return r
}

func (r *MemoryTaskRepository) Create(_ context.Context, ownerID string, f domain.TaskFields) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	t := domain.Task{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.Apply(cloneFields(f))

	r.seq++
	r.tasks[t.ID] = memoryTask{task: t, seq: r.seq}
	return t.ID, nil
}

func (r *MemoryTaskRepository) List(_ context.Context, ownerID string) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var owned []memoryTask
	for _, mt := range r.tasks {
		if mt.task.OwnerID == ownerID {
			owned = append(owned, mt)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		a, b := owned[i], owned[j]
		if !a.task.CreatedAt.Equal(b.task.CreatedAt) {
			return a.task.CreatedAt.After(b.task.CreatedAt)
		}
		return a.seq > b.seq
	})

	res := make([]domain.Task, 0, len(owned))
	for _, mt := range owned {
		t := mt.task
		t.DueDate = cloneDate(t.DueDate)
		res = append(res, t)
	}
	return res, nil
}

func (r *MemoryTaskRepository) Update(ctx context.Context, id string, f domain.TaskFields) error {
	return r.update(ctx, id, "", f)
}

func (r *MemoryTaskRepository) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id, "")
}

// ForOwner returns a view of the repository limited to ownerID's tasks.
func (r *MemoryTaskRepository) ForOwner(ownerID string) tasks.RemoteStore {
	return &memoryOwnerTasks{repo: r, ownerID: ownerID}
}

func (r *MemoryTaskRepository) update(_ context.Context, id, ownerID string, f domain.TaskFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mt, ok := r.tasks[id]
	if !ok || (ownerID != "" && mt.task.OwnerID != ownerID) {
		return domain.ErrTaskNotFound
	}
	mt.task.Apply(cloneFields(f))
	mt.task.UpdatedAt = r.now().UTC()
	r.tasks[id] = mt
	return nil
}

func (r *MemoryTaskRepository) delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mt, ok := r.tasks[id]
	if !ok || (ownerID != "" && mt.task.OwnerID != ownerID) {
		return nil
	}
	delete(r.tasks, id)
	return nil
}

type memoryOwnerTasks struct {
	repo    *MemoryTaskRepository
	ownerID string
}

func (o *memoryOwnerTasks) Create(ctx context.Context, ownerID string, f domain.TaskFields) (string, error) {
	if ownerID != o.ownerID {
		return "", ErrOwnerMismatch
	}
	return o.repo.Create(ctx, ownerID, f)
}

func (o *memoryOwnerTasks) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	if ownerID != o.ownerID {
		return nil, ErrOwnerMismatch
	}
	return o.repo.List(ctx, ownerID)
}

func (o *memoryOwnerTasks) Update(ctx context.Context, id string, f domain.TaskFields) error {
	if o.ownerID == "" {
		return domain.ErrTaskNotFound
	}
	return o.repo.update(ctx, id, o.ownerID, f)
}

func (o *memoryOwnerTasks) Delete(ctx context.Context, id string) error {
	if o.ownerID == "" {
		return nil
	}
	return o.repo.delete(ctx, id, o.ownerID)
}

func cloneFields(f domain.TaskFields) domain.TaskFields {
	f.DueDate = cloneDate(f.DueDate)
	return f
}

func cloneDate(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
