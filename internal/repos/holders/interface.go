// Package holders defines the store contract for ledger holders: employees
// and the singleton bank entity, each owning per-tier coin holdings and
// lifetime-earned counters.
package holders

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/werms"
)

// BankHolderID is the reserved id of the singleton bank holder.
const BankHolderID = "bank"

var (
	ErrHolderNotFound    = errors.New("holder not found")
	ErrInsufficientCoins = errors.New("insufficient coins")
)

// Holder is an employee or the bank, as stored.
type Holder struct {
	ID          string
	Kind        string // "employee" or "bank"
	Email       string
	SlackHandle string
	DisplayName string
	CreatedAt   time.Time
}

// Accounts bundles a holder's current coins and lifetime-earned counters.
type Accounts struct {
	Coins    werms.Holding
	Lifetime werms.Holding
}

type Holders interface {
	// GetByHandle resolves a holder by slack handle, outside any transaction.
	GetByHandle(ctx context.Context, handle string) (*Holder, error)

	// GetAccounts reads a holder's current and lifetime holdings.
	GetAccounts(ctx context.Context, holderID string) (Accounts, error)

	// ResolveByEmail and ResolveByHandle resolve holders inside a transfer
	// transaction. Both return ErrHolderNotFound when no row matches.
	ResolveByEmail(tx *sql.Tx, email string) (*Holder, error)
	ResolveByHandle(tx *sql.Tx, handle string) (*Holder, error)

	// LockAccounts locks the holder's holding rows (FOR UPDATE) and returns
	// their current state. Holders without holding rows get empty accounts.
	LockAccounts(tx *sql.Tx, holderID string) (Accounts, error)

	// DecreaseCoins removes coins from one tier. The update is guarded: it
	// fails with ErrInsufficientCoins rather than driving a count negative.
	DecreaseCoins(tx *sql.Tx, holderID string, tier werms.Tier, amount int64) error

	// IncreaseCoins adds coins to one tier, creating the holding row if
	// absent, and bumps lifetime_earned by lifetimeDelta.
	IncreaseCoins(tx *sql.Tx, holderID string, tier werms.Tier, amount, lifetimeDelta int64) error
}
