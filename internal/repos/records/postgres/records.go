package records

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/records"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/werms"
)

var _ records.Records = (*recordsRepo)(nil)

type recordsRepo struct{ db *sql.DB }

func New(db *sql.DB) *recordsRepo {
	return &recordsRepo{db: db}
}

func (r *recordsRepo) Append(tx *sql.Tx, recs []records.Record) error {
	for _, rec := range recs {
		_, err := tx.Exec(`
			INSERT INTO werm_transactions
				(id, sender_id, receiver_id, sender_email, receiver_handle,
				 tier, amount, value, note, policy_id, source, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`,
			rec.ID, rec.SenderID, rec.ReceiverID, rec.SenderEmail, rec.ReceiverHandle,
			string(rec.Tier), rec.Amount, rec.Value, rec.Note, rec.PolicyID, rec.Source, rec.Status,
		)
		if err != nil {
			return fmt.Errorf("insert transaction record: %w", err)
		}
	}

	return nil
}

func (r *recordsRepo) List(ctx context.Context, q records.Query) ([]records.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sender_id, receiver_id, sender_email, receiver_handle,
		       tier, amount, value, note, policy_id, source, status, created_at
		FROM werm_transactions
		WHERE ($1 = '' OR sender_id = $1 OR receiver_id = $1)
		  AND ($2 = '' OR receiver_handle = $2
		       OR sender_id IN (SELECT id FROM holders WHERE slack_handle = $2))
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4
	`, q.EmployeeID, q.SlackHandle, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("query transaction records: %w", err)
	}
	defer rows.Close()

	var out []records.Record

	for rows.Next() {
		var (
			rec  records.Record
			tier string
		)

		err := rows.Scan(
			&rec.ID, &rec.SenderID, &rec.ReceiverID, &rec.SenderEmail, &rec.ReceiverHandle,
			&tier, &rec.Amount, &rec.Value, &rec.Note, &rec.PolicyID, &rec.Source, &rec.Status, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction record: %w", err)
		}

		rec.Tier = werms.Tier(tier)
		out = append(out, rec)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate transaction records: %w", err)
	}

	return out, nil
}
