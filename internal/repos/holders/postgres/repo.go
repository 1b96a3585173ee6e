package holders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/holders"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/werms"
)

var _ holders.Holders = (*holdersRepo)(nil)

type holdersRepo struct{ db *sql.DB }

func New(db *sql.DB) *holdersRepo {
	return &holdersRepo{db: db}
}

const holderColumns = `id, kind, COALESCE(email, ''), COALESCE(slack_handle, ''), display_name, created_at`

func scanHolder(row *sql.Row) (*holders.Holder, error) {
	var h holders.Holder

	err := row.Scan(&h.ID, &h.Kind, &h.Email, &h.SlackHandle, &h.DisplayName, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, holders.ErrHolderNotFound
		}

		return nil, fmt.Errorf("scan holder: %w", err)
	}

	return &h, nil
}

func (r *holdersRepo) GetByHandle(ctx context.Context, handle string) (*holders.Holder, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+holderColumns+`
		FROM holders
		WHERE slack_handle = $1
	`, handle)

	return scanHolder(row)
}

func (r *holdersRepo) ResolveByEmail(tx *sql.Tx, email string) (*holders.Holder, error) {
	row := tx.QueryRow(`
		SELECT `+holderColumns+`
		FROM holders
		WHERE email = $1
	`, email)

	return scanHolder(row)
}

func (r *holdersRepo) ResolveByHandle(tx *sql.Tx, handle string) (*holders.Holder, error) {
	row := tx.QueryRow(`
		SELECT `+holderColumns+`
		FROM holders
		WHERE slack_handle = $1
	`, handle)

	return scanHolder(row)
}

func (r *holdersRepo) GetAccounts(ctx context.Context, holderID string) (holders.Accounts, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT tier, coins, lifetime_earned
		FROM holdings
		WHERE holder_id = $1
	`, holderID)
	if err != nil {
		return holders.Accounts{}, fmt.Errorf("query holdings: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

func (r *holdersRepo) LockAccounts(tx *sql.Tx, holderID string) (holders.Accounts, error) {
	rows, err := tx.Query(`
		SELECT tier, coins, lifetime_earned
		FROM holdings
		WHERE holder_id = $1
		FOR UPDATE
	`, holderID)
	if err != nil {
		return holders.Accounts{}, fmt.Errorf("lock holdings: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

func scanAccounts(rows *sql.Rows) (holders.Accounts, error) {
	acc := holders.Accounts{
		Coins:    werms.Holding{},
		Lifetime: werms.Holding{},
	}

	for rows.Next() {
		var (
			tier     string
			coins    int64
			lifetime int64
		)

		err := rows.Scan(&tier, &coins, &lifetime)
		if err != nil {
			return holders.Accounts{}, fmt.Errorf("scan holding: %w", err)
		}

		acc.Coins[werms.Tier(tier)] = coins
		acc.Lifetime[werms.Tier(tier)] = lifetime
	}

	err := rows.Err()
	if err != nil {
		return holders.Accounts{}, fmt.Errorf("iterate holdings: %w", err)
	}

	return acc, nil
}

func (r *holdersRepo) DecreaseCoins(tx *sql.Tx, holderID string, tier werms.Tier, amount int64) error {
	res, err := tx.Exec(`
		UPDATE holdings
		SET coins = coins - $3
		WHERE holder_id = $1
		  AND tier = $2
		  AND coins >= $3
	`, holderID, string(tier), amount)
	if err != nil {
		return fmt.Errorf("decrease coins: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return holders.ErrInsufficientCoins
	}

	return nil
}

func (r *holdersRepo) IncreaseCoins(tx *sql.Tx, holderID string, tier werms.Tier, amount, lifetimeDelta int64) error {
	_, err := tx.Exec(`
		INSERT INTO holdings (holder_id, tier, coins, lifetime_earned)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (holder_id, tier) DO UPDATE
		SET coins = holdings.coins + EXCLUDED.coins,
		    lifetime_earned = holdings.lifetime_earned + EXCLUDED.lifetime_earned
	`, holderID, string(tier), amount, lifetimeDelta)
	if err != nil {
		return fmt.Errorf("increase coins: %w", err)
	}

	return nil
}
