package tasks_test

import (
	"context"
	"errors"
	"testing"

	"studyboard/internal/domain"
	"studyboard/internal/repository"
	"studyboard/internal/tasks"
)

func TestSession_StartUsesDefaults(t *testing.T) {
	s := tasks.NewSession(owner)
	if s.State() != tasks.SessionClosed {
		t.Fatalf("new session state = %s", s.State())
	}

	s.Start()
	if s.State() != tasks.SessionCreating || s.EditingID() != "" {
		t.Fatalf("state = %s, editing %q", s.State(), s.EditingID())
	}
	if s.Draft() != domain.NewDraft() {
		t.Fatalf("draft = %+v", s.Draft())
	}
}

func TestSession_CommitCreates(t *testing.T) {
	ctx := context.Background()
	store := tasks.NewStore(repository.NewMemoryTaskRepository())

	s := tasks.NewSession(owner)
	s.Start()
	for field, value := range map[tasks.Field]string{
		tasks.FieldTitle:       "Midterm",
		tasks.FieldDescription: "chapters 1-5",
		tasks.FieldType:        "exam",
		tasks.FieldDueDate:     "2025-04-10",
		tasks.FieldPriority:    "high",
	} {
		if err := s.SetField(field, value); err != nil {
			t.Fatalf("set %s: %v", field, err)
		}
	}

	snap, err := s.Commit(ctx, store)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if s.State() != tasks.SessionClosed || s.Draft() != (domain.Draft{}) {
		t.Fatalf("session not closed after commit: %s %+v", s.State(), s.Draft())
	}
	if len(snap.Tasks) != 1 {
		t.Fatalf("tasks = %d", len(snap.Tasks))
	}
	got := snap.Tasks[0]
	if got.Title != "Midterm" || got.Type != domain.TaskTypeExam || got.Priority != domain.PriorityHigh ||
		got.Status != domain.StatusPending || got.DueDateString() != "2025-04-10" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestSession_BlankTitleKeepsDraft(t *testing.T) {
	ctx := context.Background()
	store := tasks.NewStore(repository.NewMemoryTaskRepository())

	s := tasks.NewSession(owner)
	s.Start()
	_ = s.SetField(tasks.FieldTitle, "   ")
	_ = s.SetField(tasks.FieldDescription, "notes")
	before := s.Draft()

	_, err := s.Commit(ctx, store)
	if !errors.Is(err, tasks.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if s.State() != tasks.SessionCreating {
		t.Fatalf("state = %s, want creating", s.State())
	}
	if s.Draft() != before {
		t.Fatalf("draft changed: %+v", s.Draft())
	}

	// fixing the title lets the same session commit
	_ = s.SetField(tasks.FieldTitle, "Notes")
	if _, err := s.Commit(ctx, store); err != nil {
		t.Fatalf("commit after fix: %v", err)
	}
}

func TestSession_EditCommitsUpdate(t *testing.T) {
	ctx := context.Background()
	store := tasks.NewStore(repository.NewMemoryTaskRepository())
	snap, err := store.Create(ctx, draft("Lab Report"), owner)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	task := snap.Tasks[0]

	s := tasks.NewSession(owner)
	s.StartFrom(task)
	if s.State() != tasks.SessionEditing || s.EditingID() != task.ID {
		t.Fatalf("state = %s, editing %q", s.State(), s.EditingID())
	}
	if s.Draft().Title != "Lab Report" {
		t.Fatalf("draft not populated: %+v", s.Draft())
	}

	_ = s.SetField(tasks.FieldStatus, string(domain.StatusCompleted))
	snap, err = s.Commit(ctx, store)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if snap.Tasks[0].Status != domain.StatusCompleted || snap.Tasks[0].ID != task.ID {
		t.Fatalf("task not updated: %+v", snap.Tasks[0])
	}
}

func TestSession_EditMissingTaskStaysOpen(t *testing.T) {
	ctx := context.Background()
	store := tasks.NewStoreForOwner(repository.NewMemoryTaskRepository(), owner)

	s := tasks.NewSession(owner)
	s.StartFrom(domain.Task{ID: "gone", Title: "ghost", Type: domain.TaskTypeLecture,
		Priority: domain.PriorityLow, Status: domain.StatusPending})

	_, err := s.Commit(ctx, store)
	if !errors.Is(err, tasks.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if s.State() != tasks.SessionEditing || s.EditingID() != "gone" {
		t.Fatalf("session closed after failure: %s", s.State())
	}
}

func TestSession_InvalidEnumFailsAtCommit(t *testing.T) {
	s := tasks.NewSession(owner)
	s.Start()
	_ = s.SetField(tasks.FieldTitle, "x")
	if err := s.SetField(tasks.FieldPriority, "urgent"); err != nil {
		t.Fatalf("set field should not validate: %v", err)
	}

	store := tasks.NewStore(repository.NewMemoryTaskRepository())
	if _, err := s.Commit(context.Background(), store); !errors.Is(err, tasks.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSession_Cancel(t *testing.T) {
	repo := repository.NewMemoryTaskRepository()
	s := tasks.NewSession(owner)
	s.Start()
	_ = s.SetField(tasks.FieldTitle, "never saved")
	s.Cancel()

	if s.State() != tasks.SessionClosed || s.Draft() != (domain.Draft{}) {
		t.Fatalf("cancel left state %s %+v", s.State(), s.Draft())
	}
	list, _ := repo.List(context.Background(), owner)
	if len(list) != 0 {
		t.Fatal("cancel persisted the draft")
	}
}

func TestSession_ClosedOperations(t *testing.T) {
	s := tasks.NewSession(owner)
	if err := s.SetField(tasks.FieldTitle, "x"); !errors.Is(err, tasks.ErrSessionClosed) {
		t.Fatalf("set on closed: %v", err)
	}
	store := tasks.NewStore(repository.NewMemoryTaskRepository())
	if _, err := s.Commit(context.Background(), store); !errors.Is(err, tasks.ErrSessionClosed) {
		t.Fatalf("commit on closed: %v", err)
	}
}

func TestSession_UnknownField(t *testing.T) {
	s := tasks.NewSession(owner)
	s.Start()
	if err := s.SetField("colour", "red"); !errors.Is(err, tasks.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestSession_RestartReplacesDraft(t *testing.T) {
	s := tasks.NewSession(owner)
	s.Start()
	_ = s.SetField(tasks.FieldTitle, "abandoned")

	task := domain.Task{ID: "t9", Title: "existing", Type: domain.TaskTypeProject,
		Priority: domain.PriorityHigh, Status: domain.StatusInProgress}
	s.StartFrom(task)
	if s.Draft().Title != "existing" || s.EditingID() != "t9" {
		t.Fatalf("draft not replaced: %+v", s.Draft())
	}

	s.Start()
	if s.Draft().Title != "" || s.EditingID() != "" || s.State() != tasks.SessionCreating {
		t.Fatalf("start did not reset: %+v", s.Draft())
	}
}

func TestSession_ReloadFailureAfterCreateCloses(t *testing.T) {
	ctx := context.Background()
	remote := &flakyRemote{RemoteStore: repository.NewMemoryTaskRepository(), fail: map[string]bool{}}
	store := tasks.NewStore(remote)

	s := tasks.NewSession(owner)
	s.Start()
	_ = s.SetField(tasks.FieldTitle, "Lab Report")

	remote.fail["list"] = true
	_, err := s.Commit(ctx, store)
	if !tasks.MutationApplied(err) {
		t.Fatalf("expected applied SyncError, got %v", err)
	}
	if s.State() != tasks.SessionClosed {
		t.Fatalf("state = %s, want closed", s.State())
	}
	if _, err := s.Commit(ctx, store); !errors.Is(err, tasks.ErrSessionClosed) {
		t.Fatalf("second commit: %v", err)
	}

	remote.fail["list"] = false
	snap, err := store.Load(ctx, owner)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(snap.Tasks))
	}
}

func TestSession_CreateFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	remote := &flakyRemote{RemoteStore: repository.NewMemoryTaskRepository(), fail: map[string]bool{"create": true}}
	store := tasks.NewStore(remote)

	s := tasks.NewSession(owner)
	s.Start()
	_ = s.SetField(tasks.FieldTitle, "Lab Report")
	before := s.Draft()

	_, err := s.Commit(ctx, store)
	var syncErr *tasks.SyncError
	if !errors.As(err, &syncErr) || syncErr.Op != "create" || syncErr.Applied {
		t.Fatalf("expected create SyncError, got %v", err)
	}
	if s.State() != tasks.SessionCreating || s.Draft() != before {
		t.Fatalf("session lost the draft: %s %+v", s.State(), s.Draft())
	}

	remote.fail["create"] = false
	snap, err := s.Commit(ctx, store)
	if err != nil || len(snap.Tasks) != 1 {
		t.Fatalf("retry: %v, %d tasks", err, len(snap.Tasks))
	}
}
