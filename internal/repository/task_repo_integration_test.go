package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"studyboard/internal/db"
	"studyboard/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	pool, err := db.Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(context.Background(), pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func testUser(t *testing.T, pool *pgxpool.Pool) *domain.User {
	t.Helper()
	u := &domain.User{Email: "it-" + uuid.NewString() + "@example.com", PasswordHash: "x"}
	if err := NewUserRepository(pool).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestTaskRepository_CRUD(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewTaskRepository(pool)
	u := testUser(t, pool)

	due := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	f := fields("Integration essay")
	f.DueDate = &due

	id, err := repo.Create(ctx, u.ID, f)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := repo.Create(ctx, u.ID, fields("second"))
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	list, err := repo.List(ctx, u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != second || list[1].ID != id {
		t.Fatalf("unexpected list order: %+v", list)
	}
	if list[1].DueDateString() != "2025-09-01" || list[1].OwnerID != u.ID {
		t.Fatalf("stored fields: %+v", list[1])
	}

	f.Status = domain.StatusCompleted
	if err := repo.Update(ctx, id, f); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.Update(ctx, uuid.NewString(), f); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("update missing: %v", err)
	}
	if err := repo.Update(ctx, "not-a-uuid", f); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("update malformed id: %v", err)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete again: %v", err)
	}

	list, _ = repo.List(ctx, u.ID)
	if len(list) != 1 || list[0].ID != second {
		t.Fatalf("after delete: %+v", list)
	}
}

func TestTaskRepository_ForOwner(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewTaskRepository(pool)
	alice, bob := testUser(t, pool), testUser(t, pool)

	id, err := repo.ForOwner(alice.ID).Create(ctx, alice.ID, fields("alice"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bobs := repo.ForOwner(bob.ID)
	if err := bobs.Update(ctx, id, fields("bob")); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("foreign update: %v", err)
	}
	if err := bobs.Delete(ctx, id); err != nil {
		t.Fatalf("foreign delete: %v", err)
	}
	list, _ := repo.List(ctx, alice.ID)
	if len(list) != 1 || list[0].Title != "alice" {
		t.Fatalf("alice's task touched: %+v", list)
	}
}

func TestUserRepository_Integration(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewUserRepository(pool)
	u := testUser(t, pool)

	if err := repo.Create(ctx, &domain.User{Email: u.Email, PasswordHash: "y"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate: %v", err)
	}
	got, err := repo.GetByID(ctx, u.ID)
	if err != nil || got.Email != u.Email {
		t.Fatalf("get by id: %+v %v", got, err)
	}
	if _, err := repo.GetByEmail(ctx, "missing-"+uuid.NewString()+"@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing email: %v", err)
	}
}
