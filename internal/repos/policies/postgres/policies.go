package policies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/policies"
)

var _ policies.Policies = (*policiesRepo)(nil)

type policiesRepo struct{ db *sql.DB }

func New(db *sql.DB) *policiesRepo {
	return &policiesRepo{db: db}
}

const policyColumns = `id, name, operation, status, gold_reward, silver_reward, bronze_reward,
	approval_required, effective_from, expires_at, created_at`

func (r *policiesRepo) Get(tx *sql.Tx, id string) (*policies.Policy, error) {
	row := tx.QueryRow(`
		SELECT `+policyColumns+`
		FROM policies
		WHERE id = $1
	`, id)

	var p policies.Policy

	err := row.Scan(
		&p.ID, &p.Name, &p.Operation, &p.Status,
		&p.GoldReward, &p.SilverReward, &p.BronzeReward,
		&p.ApprovalRequired, &p.EffectiveFrom, &p.ExpiresAt, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, policies.ErrPolicyNotFound
		}

		return nil, fmt.Errorf("scan policy: %w", err)
	}

	return &p, nil
}

func (r *policiesRepo) Create(ctx context.Context, p *policies.Policy) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO policies
			(id, name, operation, status, gold_reward, silver_reward, bronze_reward,
			 approval_required, effective_from, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`,
		p.ID, p.Name, p.Operation, p.Status,
		p.GoldReward, p.SilverReward, p.BronzeReward,
		p.ApprovalRequired, p.EffectiveFrom, p.ExpiresAt,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert policy: %w", err)
	}

	return nil
}

func (r *policiesRepo) List(ctx context.Context) ([]policies.Policy, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+policyColumns+`
		FROM policies
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query policies: %w", err)
	}
	defer rows.Close()

	var out []policies.Policy

	for rows.Next() {
		var p policies.Policy

		err := rows.Scan(
			&p.ID, &p.Name, &p.Operation, &p.Status,
			&p.GoldReward, &p.SilverReward, &p.BronzeReward,
			&p.ApprovalRequired, &p.EffectiveFrom, &p.ExpiresAt, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan policy: %w", err)
		}

		out = append(out, p)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate policies: %w", err)
	}

	return out, nil
}

func (r *policiesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM policies
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete policy: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return policies.ErrPolicyNotFound
	}

	return nil
}
