// Package policies defines the store contract for distribution policies:
// administrator-defined rules naming an operation, a lifecycle status, and
// fixed per-tier reward amounts.
package policies

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/werms"
)

var ErrPolicyNotFound = errors.New("policy not found")

// Operation values.
const (
	OpMint         = "mint"
	OpDistribution = "distribution"
	OpBurn         = "burn"
)

// Status values.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusDraft    = "draft"
)

type Policy struct {
	ID               string
	Name             string
	Operation        string
	Status           string
	GoldReward       int64
	SilverReward     int64
	BronzeReward     int64
	ApprovalRequired bool
	EffectiveFrom    *time.Time
	ExpiresAt        *time.Time
	CreatedAt        time.Time
}

// Rewards returns the policy's fixed per-tier amounts as a holding.
func (p *Policy) Rewards() werms.Holding {
	return werms.Holding{
		werms.TierGold:   p.GoldReward,
		werms.TierSilver: p.SilverReward,
		werms.TierBronze: p.BronzeReward,
	}
}

type Policies interface {
	// Get loads a policy inside a mint transaction.
	Get(tx *sql.Tx, id string) (*Policy, error)

	Create(ctx context.Context, p *Policy) error
	List(ctx context.Context) ([]Policy, error)
	Delete(ctx context.Context, id string) error
}
