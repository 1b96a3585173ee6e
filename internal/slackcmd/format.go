package slackcmd

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/werms"
)

// Ephemeral builds a reply visible only to the command's author. Used for
// every error path so failures never broadcast to the channel.
func Ephemeral(text string) slack.Msg {
	return slack.Msg{ResponseType: slack.ResponseTypeEphemeral, Text: text}
}

// Broadcast builds a reply posted to the channel.
func Broadcast(text string) slack.Msg {
	return slack.Msg{ResponseType: slack.ResponseTypeInChannel, Text: text}
}

// FormatAmounts renders a holding like "5 gold, 3 silver" in descending tier
// order, skipping zero tiers.
func FormatAmounts(amounts werms.Holding) string {
	parts := make([]string, 0, len(werms.Tiers))

	for _, t := range werms.Tiers {
		if amounts[t] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", amounts[t], t))
		}
	}

	return strings.Join(parts, ", ")
}

// FormatTransferMessage renders the broadcast announcement for a completed
// transfer.
func FormatTransferMessage(senderHandle, receiverHandle string, amounts werms.Holding, reason string) string {
	if reason == "" {
		reason = NoReason
	}

	return fmt.Sprintf(
		":coin: %s sent %s to %s: %q",
		senderHandle, FormatAmounts(amounts), receiverHandle, reason,
	)
}

// FormatBalanceMessage renders the ephemeral reply for a balance check.
func FormatBalanceMessage(handle string, b werms.Balance) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Balance for %s:\n", handle)

	for _, t := range werms.Tiers {
		tb := b.Tiers[t]
		fmt.Fprintf(&sb, "• %s: %d (%.2f AUD)\n", t, tb.Count, tb.TotalValue)
	}

	fmt.Fprintf(&sb, "Total: %d coins, %.2f AUD", b.TotalCoins, b.TotalValue)

	return sb.String()
}
