package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/slack-go/slack"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/holders"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/services/ledger"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/slackcmd"
)

// SlackTransferCommandHandler handles POST /slack/transfer-command, the
// slash-command webhook. Slack expects a 200 with a message body for every
// command-level failure; only signature and transport problems get non-200
// statuses. Internal errors never leak into the reply text.
func (h *HandlerProvider) SlackTransferCommandHandler(w http.ResponseWriter, r *http.Request) {
	if h.slackSigningSecret != "" {
		verifier, err := slack.NewSecretsVerifier(r.Header, h.slackSigningSecret)
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing slack signature headers")
			return
		}

		// SlashCommandParse consumes the body through the tee, so the
		// verifier sees exactly the signed bytes.
		r.Body = io.NopCloser(io.TeeReader(r.Body, &verifier))

		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed slash command")
			return
		}

		err = verifier.Ensure()
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid slack signature")
			return
		}

		h.runSlackCommand(w, r, cmd)

		return
	}

	// No signing secret configured (local dev): accept unsigned commands.
	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed slash command")
		return
	}

	h.runSlackCommand(w, r, cmd)
}

func (h *HandlerProvider) runSlackCommand(w http.ResponseWriter, r *http.Request, cmd slack.SlashCommand) {
	senderHandle := slackcmd.HandleMarker + cmd.UserName

	text := strings.TrimSpace(cmd.Text)
	if text == "" || text == "balance" {
		h.replySlackBalance(w, r, senderHandle)
		return
	}

	req, ok := slackcmd.Parse(text)
	if !ok {
		writeJSON(w, http.StatusOK, slackcmd.Ephemeral(
			"Usage: `@receiver [amount [tier]]... [reason]`, e.g. `@alice 5 gold 3 silver thanks`",
		))

		return
	}

	result, err := h.svc.Transfer(r.Context(), ledger.TransferInput{
		SenderHandle:   senderHandle,
		ReceiverHandle: req.ReceiverHandle,
		Amounts:        req.Amounts,
		Note:           req.Reason,
		Source:         ledger.SourceSlack,
	})
	if err != nil {
		writeJSON(w, http.StatusOK, slackcmd.Ephemeral(slackTransferError(err)))
		return
	}

	writeJSON(w, http.StatusOK, slackcmd.Broadcast(slackcmd.FormatTransferMessage(
		result.SenderHandle, result.ReceiverHandle, result.Amounts, result.Note,
	)))
}

func (h *HandlerProvider) replySlackBalance(w http.ResponseWriter, r *http.Request, handle string) {
	bal, err := h.svc.Balance(r.Context(), handle)
	if err != nil {
		if errors.Is(err, holders.ErrHolderNotFound) {
			writeJSON(w, http.StatusOK, slackcmd.Ephemeral("You don't have a werms account yet."))
			return
		}

		slog.Error("slack balance lookup failed", "error", err)
		writeJSON(w, http.StatusOK, slackcmd.Ephemeral("Something went wrong, try again later."))

		return
	}

	writeJSON(w, http.StatusOK, slackcmd.Ephemeral(slackcmd.FormatBalanceMessage(handle, bal.Balance)))
}

// slackTransferError maps domain failures onto user-facing reply text.
func slackTransferError(err error) string {
	var insufficient *ledger.InsufficientBalanceError

	switch {
	case errors.As(err, &insufficient):
		return insufficient.Error()
	case errors.Is(err, holders.ErrHolderNotFound):
		return "Couldn't find that person. Check the handle and try again."
	case errors.Is(err, ledger.ErrValidation):
		return "That command didn't make sense: " + err.Error()
	default:
		slog.Error("slack transfer failed", "error", err)
		return "Something went wrong, try again later."
	}
}
