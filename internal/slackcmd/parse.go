// Package slackcmd turns Slack slash-command text into transfer requests and
// formats the replies the bot sends back.
package slackcmd

import (
	"strconv"
	"strings"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/werms"
)

// HandleMarker prefixes the receiver token in a transfer command.
const HandleMarker = "@"

// NoReason is recorded on transfers whose command carried no trailing note.
const NoReason = "no reason provided"

// TransferRequest is the structured form of a parsed transfer command.
// Amounts may be empty; amount validation happens downstream in the ledger
// service, not here.
type TransferRequest struct {
	ReceiverHandle string
	Amounts        werms.Holding
	Reason         string
}

// Parse decodes free-text like "@alice 5 gold 3 silver thanks" into a
// TransferRequest. Returns false when the text does not start with a handle
// token.
//
// Grammar, in order:
//  1. first token must start with "@" and names the receiver;
//  2. a single bare integer not followed by a tier name is shorthand for that
//     many bronze coins;
//  3. otherwise (integer, tier) pairs are consumed while they parse, with
//     repeated tiers summed;
//  4. whatever remains, joined and trimmed, is the optional reason.
func Parse(raw string) (*TransferRequest, bool) {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 || !strings.HasPrefix(tokens[0], HandleMarker) {
		return nil, false
	}

	req := &TransferRequest{
		ReceiverHandle: tokens[0],
		Amounts:        werms.Holding{},
	}

	rest := tokens[1:]

	if len(rest) > 0 {
		n, err := strconv.ParseInt(rest[0], 10, 64)

		switch {
		case err == nil && (len(rest) == 1 || !werms.IsTier(rest[1])):
			// shorthand: "@bob 10" means 10 bronze
			req.Amounts[werms.DefaultTier] += n
			rest = rest[1:]
		case err == nil:
			for len(rest) >= 2 {
				amount, perr := strconv.ParseInt(rest[0], 10, 64)
				if perr != nil || !werms.IsTier(rest[1]) {
					break
				}

				req.Amounts[werms.Tier(rest[1])] += amount
				rest = rest[2:]
			}
		}
	}

	req.Reason = strings.TrimSpace(strings.Join(rest, " "))

	return req, true
}
