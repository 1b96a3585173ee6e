package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/holders"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/policies"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/records"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/werms"
)

// Mint creates new coins into the default bank's holdings and supply
// counters. Amounts come either from an active mint policy or directly from
// the caller, never both. Supply counters, the bank's balance, and the audit
// records commit or roll back together.
func (s *Service) Mint(ctx context.Context, in MintInput) (*MintResult, error) {
	if (in.PolicyID == "") == (len(in.Amounts) == 0) {
		return nil, fmt.Errorf("%w: must specify policy or amounts", ErrValidation)
	}

	var result *MintResult

	err := s.runTx(ctx, func(tx *sql.Tx) error {
		bank, err := s.banks.GetDefault(tx)
		if err != nil {
			return fmt.Errorf("resolve default bank: %w", err)
		}

		amounts := in.Amounts
		source := SourceApp

		var policyID *string

		if in.PolicyID != "" {
			policy, err := s.loadMintPolicy(tx, in.PolicyID)
			if err != nil {
				return err
			}

			amounts = policy.Rewards()
			source = SourcePolicy
			policyID = &policy.ID
		}

		err = validateMintAmounts(amounts)
		if err != nil {
			return err
		}

		recs := make([]records.Record, 0, len(werms.Tiers))

		for _, tier := range werms.Tiers {
			amount := amounts[tier]
			if amount == 0 {
				continue
			}

			// Every mint is counted as both digital and physical issuance.
			err = s.banks.AddSupply(tx, bank.ID, tier, amount, amount)
			if err != nil {
				return fmt.Errorf("add %s supply: %w", tier, err)
			}

			err = s.holders.IncreaseCoins(tx, holders.BankHolderID, tier, amount, 0)
			if err != nil {
				return fmt.Errorf("credit bank %s: %w", tier, err)
			}

			recs = append(recs, records.Record{
				ID:             uuid.NewString(),
				SenderID:       nil, // system mint
				ReceiverID:     holders.BankHolderID,
				ReceiverHandle: holders.BankHolderID,
				Tier:           tier,
				Amount:         amount,
				Value:          float64(amount) * werms.UnitValue(tier),
				Note:           "mint",
				PolicyID:       policyID,
				Source:         source,
				Status:         StatusCompleted,
			})
		}

		err = s.records.Append(tx, recs)
		if err != nil {
			return fmt.Errorf("append mint records: %w", err)
		}

		result = &MintResult{
			BankID:   bank.ID,
			Minted:   amounts.Clone(),
			PolicyID: in.PolicyID,
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mint: %w", err)
	}

	return result, nil
}

func (s *Service) loadMintPolicy(tx *sql.Tx, id string) (*policies.Policy, error) {
	p, err := s.policies.Get(tx, id)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	if p.Operation != policies.OpMint {
		return nil, fmt.Errorf("%w: policy operation is %q, want mint", ErrValidation, p.Operation)
	}

	if p.Status != policies.StatusActive {
		return nil, fmt.Errorf("%w: policy status is %q, want active", ErrValidation, p.Status)
	}

	now := time.Now()
	if p.EffectiveFrom != nil && now.Before(*p.EffectiveFrom) {
		return nil, fmt.Errorf("%w: policy not yet effective", ErrValidation)
	}

	if p.ExpiresAt != nil && now.After(*p.ExpiresAt) {
		return nil, fmt.Errorf("%w: policy expired", ErrValidation)
	}

	return p, nil
}

func validateMintAmounts(amounts werms.Holding) error {
	var positive bool

	for tier, amount := range amounts {
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
		return fmt.Errorf("%w: nothing to mint", ErrValidation)
	}

	return nil
}
