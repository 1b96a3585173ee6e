package banks

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/banks"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/werms"
)

var _ banks.Banks = (*banksRepo)(nil)

type banksRepo struct{ db *sql.DB }

func New(db *sql.DB) *banksRepo {
	return &banksRepo{db: db}
}

func (r *banksRepo) GetDefault(tx *sql.Tx) (*banks.Bank, error) {
	var b banks.Bank

	err := tx.QueryRow(`
		SELECT id, name, is_default
		FROM banks
		WHERE is_default
	`).Scan(&b.ID, &b.Name, &b.IsDefault)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, banks.ErrNoDefaultBank
		}

		return nil, fmt.Errorf("get default bank: %w", err)
	}

	return &b, nil
}

func (r *banksRepo) AddSupply(tx *sql.Tx, bankID string, tier werms.Tier, digital, physical int64) error {
	_, err := tx.Exec(`
		INSERT INTO bank_supply (bank_id, tier, digital, physical)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (bank_id, tier) DO UPDATE
		SET digital = bank_supply.digital + EXCLUDED.digital,
		    physical = bank_supply.physical + EXCLUDED.physical
	`, bankID, string(tier), digital, physical)
	if err != nil {
		return fmt.Errorf("add supply: %w", err)
	}

	return nil
}
