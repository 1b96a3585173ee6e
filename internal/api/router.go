package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs the router with all API endpoints registered.
func NewRouter(svc Service, slackSigningSecret string) http.Handler {
	h := NewHandler(svc, slackSigningSecret)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/slack/transfer-command", h.SlackTransferCommandHandler)

	r.Post("/mint", h.MintHandler)
	r.Get("/balance", h.GetBalanceHandler)
	r.Get("/transactions", h.ListTransactionsHandler)

	r.Get("/policies", h.ListPoliciesHandler)
	r.Post("/policies", h.CreatePolicyHandler)
	r.Delete("/policies/{policyId}", h.DeletePolicyHandler)

	return r
}
