package policies

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/infra/pgtestutil"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/policies"
)

func TestPolicies_CRUD(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	p := policies.Policy{
		ID:           uuid.NewString(),
		Name:         "quarterly mint",
		Operation:    policies.OpMint,
		Status:       policies.StatusActive,
		GoldReward:   15,
		SilverReward: 47,
		BronzeReward: 94,
	}

	err := repo.Create(context.Background(), &p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if p.CreatedAt.IsZero() {
		t.Fatal("created_at not populated")
	}

	// Get inside a transaction, as the mint engine does
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	got, err := repo.Get(tx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.Name != p.Name || got.GoldReward != 15 || got.Status != policies.StatusActive {
		t.Fatalf("policy mismatch: %+v", got)
	}

	_, err = repo.Get(tx, uuid.NewString())
	if !errors.Is(err, policies.ErrPolicyNotFound) {
		t.Fatalf("want ErrPolicyNotFound, got %v", err)
	}

	err = tx.Commit()
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(list) != 1 {
		t.Fatalf("list: want 1, got %d", len(list))
	}

	err = repo.Delete(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	err = repo.Delete(context.Background(), p.ID)
	if !errors.Is(err, policies.ErrPolicyNotFound) {
		t.Fatalf("second delete: want ErrPolicyNotFound, got %v", err)
	}
}

func TestPolicies_Get_RollbackSafe(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	p := policies.Policy{
		ID:        uuid.NewString(),
		Name:      "draft rule",
		Operation: policies.OpDistribution,
		Status:    policies.StatusDraft,
	}

	err := repo.Create(context.Background(), &p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	_, err = repo.Get(tx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// rolling back a read-only tx leaves the row in place
	err = tx.Rollback()
	if err != nil {
		t.Fatalf("rollback: %v", err)
	}

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(list) != 1 {
		t.Fatalf("list after rollback: want 1, got %d", len(list))
	}
}
