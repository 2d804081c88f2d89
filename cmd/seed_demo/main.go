package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"studyboard/internal/db"
	"studyboard/internal/domain"
	"studyboard/internal/repository"
	"studyboard/internal/service"
	"studyboard/internal/tasks"
)

const demoEmail, demoPassword = "demo@studyboard.local", "demo1234"

func main() {
	// expects DATABASE_URL and JWT_SECRET env vars
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	service.InitJWT(secret, 24*time.Hour)
	auditSvc := service.NewAuditService(repository.NewAuditRepository(pool))
	authSvc := service.NewAuthService(repository.NewUserRepository(pool), service.NewMemoryRevoker(), auditSvc)

	sess, snap, err := seed(ctx, authSvc, repository.NewTaskRepository(pool))
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("demo user id=%s email=%s tasks=%d\n", sess.User.ID, sess.User.Email, len(snap.Tasks))
	log.Printf("token=%s\n", sess.Token)
}

// seed signs in the demo account, creating it on first run, and gives it
// sample tasks when it has none.
func seed(ctx context.Context, auth *service.AuthService, source service.TaskSource) (*service.Session, tasks.Snapshot, error) {
	sess, err := auth.Register(ctx, demoEmail, demoPassword, demoPassword)
	if errors.Is(err, repository.ErrEmailTaken) {
		sess, err = auth.Login(ctx, demoEmail, demoPassword)
	}
	if err != nil {
		return nil, tasks.Snapshot{}, fmt.Errorf("demo user: %w", err)
	}

	owner := sess.User.ID
	store := tasks.NewStoreForOwner(source.ForOwner(owner), owner)
	snap, err := store.Load(ctx, owner)
	if err != nil {
		return nil, tasks.Snapshot{}, fmt.Errorf("load tasks: %w", err)
	}
	if len(snap.Tasks) > 0 {
		return sess, snap, nil
	}

	due := time.Now().AddDate(0, 0, 7).Format(domain.DateLayout)
	samples := []domain.Draft{
		{Title: "Read Ch.3", Type: domain.TaskTypeLecture, Priority: domain.PriorityLow, Status: domain.StatusPending},
		{Title: "Lab Report", Description: "Titration lab", Type: domain.TaskTypeAssignment, DueDate: due, Priority: domain.PriorityHigh, Status: domain.StatusInProgress},
		{Title: "Midterm", Type: domain.TaskTypeExam, DueDate: due, Priority: domain.PriorityHigh, Status: domain.StatusPending},
	}
	for _, d := range samples {
		if snap, err = store.Create(ctx, d, owner); err != nil {
			return nil, tasks.Snapshot{}, fmt.Errorf("create %q: %w", d.Title, err)
		}
	}
	return sess, snap, nil
}
