package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/holders"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/werms"
)

func seedPair() *fakeHolders {
	fh := newFakeHolders()
	fh.add(holders.Holder{
		ID: "emp-alice", Kind: "employee",
		Email: "alice@werms.dev", SlackHandle: "@alice", DisplayName: "Alice",
	}, werms.Holding{werms.TierGold: 5, werms.TierSilver: 4, werms.TierBronze: 20},
		werms.Holding{werms.TierGold: 5, werms.TierSilver: 4, werms.TierBronze: 20})
	fh.add(holders.Holder{
		ID: "emp-bob", Kind: "employee",
		Email: "bob@werms.dev", SlackHandle: "@bob", DisplayName: "Bob",
	}, werms.Holding{werms.TierBronze: 3}, werms.Holding{werms.TierBronze: 3})

	return fh
}

func TestTransfer_Success(t *testing.T) {
	t.Parallel()

	fh := seedPair()
	fr := &fakeRecords{}
	svc := newFakeService(fh, fr, newFakePolicies(), newFakeBanks(nil))

	result, err := svc.Transfer(context.Background(), TransferInput{
		SenderEmail:    "alice@werms.dev",
		ReceiverHandle: "@bob",
		Amounts:        werms.Holding{werms.TierGold: 2, werms.TierBronze: 5},
		Note:           "release day",
		Source:         SourceApp,
	})
	require.NoError(t, err)

	// sender decremented, receiver incremented
	assert.Equal(t, int64(3), fh.coins("emp-alice")[werms.TierGold])
	assert.Equal(t, int64(15), fh.coins("emp-alice")[werms.TierBronze])
	assert.Equal(t, int64(2), fh.coins("emp-bob")[werms.TierGold])
	assert.Equal(t, int64(8), fh.coins("emp-bob")[werms.TierBronze])

	// lifetime earned moves only on the receiver
	assert.Equal(t, int64(5), fh.lifetime("emp-alice")[werms.TierGold])
	assert.Equal(t, int64(2), fh.lifetime("emp-bob")[werms.TierGold])
	assert.Equal(t, int64(8), fh.lifetime("emp-bob")[werms.TierBronze])

	// one record per tier moved
	require.Len(t, fr.appended, 2)
	for _, rec := range fr.appended {
		require.NotNil(t, rec.SenderID)
		assert.Equal(t, "emp-alice", *rec.SenderID)
		assert.Equal(t, "emp-bob", rec.ReceiverID)
		assert.Equal(t, "alice@werms.dev", rec.SenderEmail)
		assert.Equal(t, "@bob", rec.ReceiverHandle)
		assert.Equal(t, "release day", rec.Note)
		assert.Equal(t, SourceApp, rec.Source)
		assert.Equal(t, StatusCompleted, rec.Status)
		assert.InDelta(t, float64(rec.Amount)*werms.UnitValue(rec.Tier), rec.Value, 1e-9)
		assert.NotEmpty(t, rec.ID)
	}

	assert.Equal(t, "@alice", result.SenderHandle)
	assert.Equal(t, "@bob", result.ReceiverHandle)
	assert.Equal(t, "release day", result.Note)
}

func TestTransfer_ConservesTotalPerTier(t *testing.T) {
	t.Parallel()

	fh := seedPair()
	svc := newFakeService(fh, &fakeRecords{}, newFakePolicies(), newFakeBanks(nil))

	before := werms.Holding{}
	for _, tier := range werms.Tiers {
		before[tier] = fh.coins("emp-alice")[tier] + fh.coins("emp-bob")[tier]
	}

	_, err := svc.Transfer(context.Background(), TransferInput{
		SenderHandle:   "@alice",
		ReceiverHandle: "@bob",
		Amounts:        werms.Holding{werms.TierSilver: 4, werms.TierBronze: 1},
		Source:         SourceSlack,
	})
	require.NoError(t, err)

	for _, tier := range werms.Tiers {
		after := fh.coins("emp-alice")[tier] + fh.coins("emp-bob")[tier]
		assert.Equal(t, before[tier], after, "tier %s", tier)
	}
}

func TestTransfer_InsufficientBalance(t *testing.T) {
	t.Parallel()

	fh := seedPair()
	fr := &fakeRecords{}
	svc := newFakeService(fh, fr, newFakePolicies(), newFakeBanks(nil))

	aliceBefore := fh.coins("emp-alice")
	bobBefore := fh.coins("emp-bob")

	// gold is covered, silver is not: the whole transfer must be rejected
	_, err := svc.Transfer(context.Background(), TransferInput{
		SenderEmail:    "alice@werms.dev",
		ReceiverHandle: "@bob",
		Amounts:        werms.Holding{werms.TierGold: 1, werms.TierSilver: 99},
	})

	var insufficient *InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, werms.TierSilver, insufficient.Tier)
	assert.Equal(t, int64(99), insufficient.Requested)
	assert.Equal(t, int64(4), insufficient.Available)

	// no partial effect on either holder, no records
	assert.Equal(t, aliceBefore, fh.coins("emp-alice"))
	assert.Equal(t, bobBefore, fh.coins("emp-bob"))
	assert.Empty(t, fr.appended)
}

func TestTransfer_InverseRoundTrip(t *testing.T) {
	t.Parallel()

	fh := seedPair()
	svc := newFakeService(fh, &fakeRecords{}, newFakePolicies(), newFakeBanks(nil))

	aliceBefore := fh.coins("emp-alice")
	bobBefore := fh.coins("emp-bob")

	amounts := werms.Holding{werms.TierGold: 1, werms.TierBronze: 2}

	_, err := svc.Transfer(context.Background(), TransferInput{
		SenderHandle: "@alice", ReceiverHandle: "@bob", Amounts: amounts,
	})
	require.NoError(t, err)

	_, err = svc.Transfer(context.Background(), TransferInput{
		SenderHandle: "@bob", ReceiverHandle: "@alice", Amounts: amounts,
	})
	require.NoError(t, err)

	// compare per tier: a zero entry left behind by the round trip counts
	// the same as an absent key
	aliceAfter := fh.coins("emp-alice")
	bobAfter := fh.coins("emp-bob")

	for _, tier := range werms.Tiers {
		assert.Equal(t, aliceBefore[tier], aliceAfter[tier], "alice %s", tier)
		assert.Equal(t, bobBefore[tier], bobAfter[tier], "bob %s", tier)
	}
}

func TestTransfer_NoteFallback(t *testing.T) {
	t.Parallel()

	fr := &fakeRecords{}
	svc := newFakeService(seedPair(), fr, newFakePolicies(), newFakeBanks(nil))

	result, err := svc.Transfer(context.Background(), TransferInput{
		SenderHandle:   "@alice",
		ReceiverHandle: "@bob",
		Amounts:        werms.Holding{werms.TierBronze: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, noteFallback, result.Note)
	require.Len(t, fr.appended, 1)
	assert.Equal(t, noteFallback, fr.appended[0].Note)
	assert.Equal(t, transferSource, fr.appended[0].Source)
}

func TestTransfer_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   TransferInput
	}{
		{
			name: "no_sender",
			in:   TransferInput{ReceiverHandle: "@bob", Amounts: werms.Holding{werms.TierBronze: 1}},
		},
		{
			name: "both_sender_fields",
			in: TransferInput{
				SenderEmail: "alice@werms.dev", SenderHandle: "@alice",
				ReceiverHandle: "@bob", Amounts: werms.Holding{werms.TierBronze: 1},
			},
		},
		{
			name: "no_receiver",
			in:   TransferInput{SenderHandle: "@alice", Amounts: werms.Holding{werms.TierBronze: 1}},
		},
		{
			name: "empty_amounts",
			in:   TransferInput{SenderHandle: "@alice", ReceiverHandle: "@bob", Amounts: werms.Holding{}},
		},
		{
			name: "zero_amount_only",
			in: TransferInput{
				SenderHandle: "@alice", ReceiverHandle: "@bob",
				Amounts: werms.Holding{werms.TierGold: 0},
			},
		},
		{
			name: "negative_amount",
			in: TransferInput{
				SenderHandle: "@alice", ReceiverHandle: "@bob",
				Amounts: werms.Holding{werms.TierGold: -1},
			},
		},
		{
			name: "unknown_tier",
			in: TransferInput{
				SenderHandle: "@alice", ReceiverHandle: "@bob",
				Amounts: werms.Holding{werms.Tier("platinum"): 1},
			},
		},
		{
			name: "self_transfer",
			in: TransferInput{
				SenderHandle: "@alice", ReceiverHandle: "@alice",
				Amounts: werms.Holding{werms.TierBronze: 1},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fh := seedPair()
			fr := &fakeRecords{}
			svc := newFakeService(fh, fr, newFakePolicies(), newFakeBanks(nil))

			_, err := svc.Transfer(context.Background(), tt.in)

			require.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, fr.appended)
		})
	}
}

func TestTransfer_UnknownHolders(t *testing.T) {
	t.Parallel()

	svc := newFakeService(seedPair(), &fakeRecords{}, newFakePolicies(), newFakeBanks(nil))

	_, err := svc.Transfer(context.Background(), TransferInput{
		SenderEmail: "ghost@werms.dev", ReceiverHandle: "@bob",
		Amounts: werms.Holding{werms.TierBronze: 1},
	})
	require.ErrorIs(t, err, holders.ErrHolderNotFound)

	_, err = svc.Transfer(context.Background(), TransferInput{
		SenderHandle: "@alice", ReceiverHandle: "@ghost",
		Amounts: werms.Holding{werms.TierBronze: 1},
	})
	require.ErrorIs(t, err, holders.ErrHolderNotFound)
}
