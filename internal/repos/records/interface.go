// Package records defines the append-only transaction log contract. One
// record is written per tier-amount moved; records are never updated or
// deleted.
package records

import (
	"context"
	"database/sql"
	"time"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/werms"
)

// Record is one completed tier-amount movement.
type Record struct {
	ID             string
	SenderID       *string // nil means system/mint
	ReceiverID     string
	SenderEmail    string
	ReceiverHandle string
	Tier           werms.Tier
	Amount         int64
	Value          float64
	Note           string
	PolicyID       *string
	Source         string
	Status         string
	CreatedAt      time.Time
}

// Query selects records for one holder, newest first.
type Query struct {
	EmployeeID  string
	SlackHandle string
	Limit       int
	Offset      int
}

type Records interface {
	// Append inserts the given records inside the caller's transaction, so a
	// failed balance write and its log entries roll back together.
	Append(tx *sql.Tx, recs []Record) error

	// List returns records matching the query, newest first.
	List(ctx context.Context, q Query) ([]Record, error)
}
