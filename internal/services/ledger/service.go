// Package ledger implements the werm ledger core: peer-to-peer transfers,
// policy-driven minting, balance aggregation, transaction history, and policy
// administration. Every balance mutation runs inside a single database
// transaction with row locks, so concurrent operations on the same holder or
// supply counter serialize instead of losing updates.
package ledger

import (
	"context"
	"database/sql"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/infra/pgutils"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/banks"
	pgbanks "github.com/Isaiasulevich/werms-bank-sub000/internal/repos/banks/postgres"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/holders"
	pgholders "github.com/Isaiasulevich/werms-bank-sub000/internal/repos/holders/postgres"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/policies"
	pgpolicies "github.com/Isaiasulevich/werms-bank-sub000/internal/repos/policies/postgres"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/records"
	pgrecords "github.com/Isaiasulevich/werms-bank-sub000/internal/repos/records/postgres"
)

// txRunner runs fn inside a store transaction. Production wiring uses
// pgutils.WithTx; tests substitute a pass-through.
type txRunner func(ctx context.Context, fn func(*sql.Tx) error) error

type Service struct {
	runTx    txRunner
	holders  holders.Holders
	records  records.Records
	policies policies.Policies
	banks    banks.Banks
}

// New wires the service against Postgres-backed repositories on the given
// connection pool.
func New(db *sql.DB) *Service {
	return &Service{
		runTx: func(ctx context.Context, fn func(*sql.Tx) error) error {
			return pgutils.WithTx(ctx, db, fn)
		},
		holders:  pgholders.New(db),
		records:  pgrecords.New(db),
		policies: pgpolicies.New(db),
		banks:    pgbanks.New(db),
	}
}
