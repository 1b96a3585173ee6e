package ledger

import (
	"context"
	"fmt"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/records"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/werms"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// Balance returns the aggregated balance and lifetime-earned view for the
// holder behind a slack handle.
func (s *Service) Balance(ctx context.Context, handle string) (*HolderBalance, error) {
	if handle == "" {
		return nil, fmt.Errorf("%w: handle required", ErrValidation)
	}

	holder, err := s.holders.GetByHandle(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}

	acc, err := s.holders.GetAccounts(ctx, holder.ID)
	if err != nil {
		return nil, fmt.Errorf("balance accounts: %w", err)
	}

	return &HolderBalance{
		HolderID:    holder.ID,
		DisplayName: holder.DisplayName,
		SlackHandle: holder.SlackHandle,
		Balance:     werms.Aggregate(acc.Coins),
		Lifetime:    werms.Aggregate(acc.Lifetime),
	}, nil
}

// History lists a holder's transaction records, newest first. Exactly one of
// employee id or slack handle selects the holder.
func (s *Service) History(ctx context.Context, q records.Query) ([]records.Record, error) {
	if (q.EmployeeID == "") == (q.SlackHandle == "") {
		return nil, fmt.Errorf("%w: exactly one of employeeId or slackHandle required", ErrValidation)
	}

	if q.Limit <= 0 {
		q.Limit = defaultHistoryLimit
	}

	if q.Limit > maxHistoryLimit {
		q.Limit = maxHistoryLimit
	}

	if q.Offset < 0 {
		q.Offset = 0
	}

	recs, err := s.records.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	return recs, nil
}
