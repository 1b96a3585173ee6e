package ledger

import (
	"errors"
	"fmt"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/werms"
)

// Source tags recorded on transaction records.
const (
	SourceApp    = "app"
	SourceSlack  = "slack"
	SourcePolicy = "policy"
)

// StatusCompleted is the only status written today; the column exists so a
// future approval flow can park records as pending.
const StatusCompleted = "completed"

// transferSource is recorded on peer-to-peer movements.
const transferSource = "peer-transfer"

// noteFallback replaces empty transfer notes.
const noteFallback = "no reason provided"

// ErrValidation tags caller mistakes: malformed input, wrong policy state,
// empty amounts. Handlers map it to 400.
var ErrValidation = errors.New("validation failed")

// InsufficientBalanceError rejects a transfer that would drive one of the
// sender's tiers negative. Validation happens against locked rows before any
// write, so a rejected transfer leaves both holders untouched.
type InsufficientBalanceError struct {
	Tier      werms.Tier
	Requested int64
	Available int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: requested %d, have %d", e.Tier, e.Requested, e.Available)
}

// TransferInput names the two holders and the amounts to move. Exactly one of
// SenderEmail or SenderHandle identifies the sender: the dashboard sends
// email, the slack bot sends a handle.
type TransferInput struct {
	SenderEmail  string
	SenderHandle string

	ReceiverHandle string
	Amounts        werms.Holding
	Note           string
	Source         string
}

// TransferResult echoes the applied transfer for reply formatting.
type TransferResult struct {
	SenderHandle   string
	ReceiverHandle string
	Amounts        werms.Holding
	Note           string
}

// MintInput carries exactly one of a policy reference or explicit amounts.
type MintInput struct {
	PolicyID string
	Amounts  werms.Holding
}

// MintResult reports what was actually minted.
type MintResult struct {
	BankID   string
	Minted   werms.Holding
	PolicyID string
}

// HolderBalance is the aggregated read-path view of one holder.
type HolderBalance struct {
	HolderID    string
	DisplayName string
	SlackHandle string
	Balance     werms.Balance
	Lifetime    werms.Balance
}
