package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/policies"
)

// CreatePolicy validates and persists a new distribution policy, assigning
// its id.
func (s *Service) CreatePolicy(ctx context.Context, p *policies.Policy) error {
	if p.Name == "" {
		return fmt.Errorf("%w: policy name required", ErrValidation)
	}

	switch p.Operation {
	case policies.OpMint, policies.OpDistribution, policies.OpBurn:
	default:
		return fmt.Errorf("%w: unknown policy operation %q", ErrValidation, p.Operation)
	}

	switch p.Status {
	case policies.StatusActive, policies.StatusInactive, policies.StatusDraft:
	default:
		return fmt.Errorf("%w: unknown policy status %q", ErrValidation, p.Status)
	}

	if p.GoldReward < 0 || p.SilverReward < 0 || p.BronzeReward < 0 {
		return fmt.Errorf("%w: rewards must be non-negative", ErrValidation)
	}

	if p.EffectiveFrom != nil && p.ExpiresAt != nil && p.ExpiresAt.Before(*p.EffectiveFrom) {
		return fmt.Errorf("%w: expiry before effective date", ErrValidation)
	}

	p.ID = uuid.NewString()

	err := s.policies.Create(ctx, p)
	if err != nil {
		return fmt.Errorf("create policy: %w", err)
	}

	return nil
}

// ListPolicies returns all policies, newest first.
func (s *Service) ListPolicies(ctx context.Context) ([]policies.Policy, error) {
	out, err := s.policies.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}

	return out, nil
}

// DeletePolicy removes a policy. Deletion has no cascading effect on
// transaction records that reference it.
func (s *Service) DeletePolicy(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: policy id required", ErrValidation)
	}

	err := s.policies.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete policy: %w", err)
	}

	return nil
}
