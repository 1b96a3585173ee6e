package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/holders"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/records"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/werms"
)

// Transfer moves coins between two holders as one atomic unit:
//
// 1) Resolve sender and receiver; they must be two distinct holders.
// 2) Lock both holders' holding rows (FOR UPDATE, id order).
// 3) Validate every requested tier against the sender's locked counts.
// 4) Apply decrements, increments, and the receiver's lifetime counters.
// 5) Append one transaction record per tier moved.
//
// Everything happens in a single database transaction, so a failure at any
// step (including record logging) rolls the whole transfer back.
func (s *Service) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	err := validateTransferInput(in)
	if err != nil {
		return nil, err
	}

	var result *TransferResult

	err = s.runTx(ctx, func(tx *sql.Tx) error {
		sender, receiver, err := s.resolvePair(tx, in)
		if err != nil {
			return err
		}

		senderAcc, err := s.lockPair(tx, sender.ID, receiver.ID)
		if err != nil {
			return err
		}

		// All-or-nothing: reject before any write.
		for _, tier := range werms.Tiers {
			amount := in.Amounts[tier]
			if amount > 0 && senderAcc.Coins[tier] < amount {
				return &InsufficientBalanceError{
					Tier:      tier,
					Requested: amount,
					Available: senderAcc.Coins[tier],
				}
			}
		}

		recs := make([]records.Record, 0, len(werms.Tiers))
		note := in.Note
		if note == "" {
			note = noteFallback
		}

		source := in.Source
		if source == "" {
			source = transferSource
		}

		for _, tier := range werms.Tiers {
			amount := in.Amounts[tier]
			if amount == 0 {
				continue
			}

			err = s.holders.DecreaseCoins(tx, sender.ID, tier, amount)
			if err != nil {
				return fmt.Errorf("decrease sender %s: %w", tier, err)
			}

			// Receiving a transfer counts toward lifetime earned; sending
			// does not reduce it.
			err = s.holders.IncreaseCoins(tx, receiver.ID, tier, amount, amount)
			if err != nil {
				return fmt.Errorf("increase receiver %s: %w", tier, err)
			}

			senderID := sender.ID
			recs = append(recs, records.Record{
				ID:             uuid.NewString(),
				SenderID:       &senderID,
				ReceiverID:     receiver.ID,
				SenderEmail:    sender.Email,
				ReceiverHandle: receiver.SlackHandle,
				Tier:           tier,
				Amount:         amount,
				Value:          float64(amount) * werms.UnitValue(tier),
				Note:           note,
				Source:         source,
				Status:         StatusCompleted,
			})
		}

		err = s.records.Append(tx, recs)
		if err != nil {
			return fmt.Errorf("append transfer records: %w", err)
		}

		result = &TransferResult{
			SenderHandle:   sender.SlackHandle,
			ReceiverHandle: receiver.SlackHandle,
			Amounts:        in.Amounts.Clone(),
			Note:           note,
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	return result, nil
}

func validateTransferInput(in TransferInput) error {
	if (in.SenderEmail == "") == (in.SenderHandle == "") {
		return fmt.Errorf("%w: exactly one of sender email or handle required", ErrValidation)
	}

	if in.ReceiverHandle == "" {
		return fmt.Errorf("%w: receiver handle required", ErrValidation)
	}

	var positive bool

	for tier, amount := range in.Amounts {
		if !werms.IsTier(string(tier)) {
			return fmt.Errorf("%w: unknown tier %q", ErrValidation, tier)
		}

		if amount < 0 {
			return fmt.Errorf("%w: negative amount for %s", ErrValidation, tier)
		}

		if amount > 0 {
			positive = true
		}
	}

	if !positive {
		return fmt.Errorf("%w: no amounts to transfer", ErrValidation)
	}

	return nil
}

func (s *Service) resolvePair(tx *sql.Tx, in TransferInput) (sender, receiver *holders.Holder, err error) {
	if in.SenderEmail != "" {
		sender, err = s.holders.ResolveByEmail(tx, in.SenderEmail)
	} else {
		sender, err = s.holders.ResolveByHandle(tx, in.SenderHandle)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("resolve sender: %w", err)
	}

	receiver, err = s.holders.ResolveByHandle(tx, in.ReceiverHandle)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve receiver: %w", err)
	}

	if sender.ID == receiver.ID {
		return nil, nil, fmt.Errorf("%w: sender and receiver must differ", ErrValidation)
	}

	return sender, receiver, nil
}

// lockPair locks both holders' holding rows in holder-id order so two
// opposing transfers cannot deadlock, and returns the sender's accounts.
func (s *Service) lockPair(tx *sql.Tx, senderID, receiverID string) (holders.Accounts, error) {
	first, second := senderID, receiverID
	if second < first {
		first, second = second, first
	}

	var senderAcc holders.Accounts

	for _, id := range []string{first, second} {
		acc, err := s.holders.LockAccounts(tx, id)
		if err != nil {
			return holders.Accounts{}, fmt.Errorf("lock holdings %s: %w", id, err)
		}

		if id == senderID {
			senderAcc = acc
		}
	}

	return senderAcc, nil
}
