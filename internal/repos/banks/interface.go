// Package banks defines the store contract for bank entities and their
// per-tier supply counters. Counters only ever grow; the mint engine is the
// single writer.
package banks

import (
	"database/sql"
	"errors"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/werms"
)

var ErrNoDefaultBank = errors.New("no default bank")

type Bank struct {
	ID        string
	Name      string
	IsDefault bool
}

// Supply is the running total of coins ever minted for one tier.
type Supply struct {
	Digital  int64
	Physical int64
}

type Banks interface {
	// GetDefault resolves the bank flagged as default, inside a mint
	// transaction. Returns ErrNoDefaultBank if no row is flagged.
	GetDefault(tx *sql.Tx) (*Bank, error)

	// AddSupply increments a tier's digital and physical totals, creating
	// the counter row on first mint.
	AddSupply(tx *sql.Tx, bankID string, tier werms.Tier, digital, physical int64) error
}
