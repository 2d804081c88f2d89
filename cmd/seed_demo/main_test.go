package main

import (
	"context"
	"testing"
	"time"

	"studyboard/internal/repository"
	"studyboard/internal/service"

	"golang.org/x/crypto/bcrypt"
)

func TestSeed_Idempotent(t *testing.T) {
	service.InitJWT("test-secret", time.Hour)
	auth := service.NewAuthServiceWithCost(
		repository.NewMemoryUserRepository(),
		service.NewMemoryRevoker(),
		service.NewAuditService(repository.NewMemoryAuditRepository()),
		bcrypt.MinCost,
	)
	source := repository.NewMemoryTaskRepository()
	ctx := context.Background()

	first, snap, err := seed(ctx, auth, source)
	if err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if len(snap.Tasks) != 3 {
		t.Fatalf("seeded %d tasks, want 3", len(snap.Tasks))
	}
	if first.Token == "" || first.User.Email != demoEmail {
		t.Fatalf("unexpected session %+v", first)
	}

	second, snap, err := seed(ctx, auth, source)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Fatalf("second run created a new user %s", second.User.ID)
	}
	if len(snap.Tasks) != 3 {
		t.Fatalf("second run left %d tasks, want 3", len(snap.Tasks))
	}
}
