package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/banks"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/holders"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/policies"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/records"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/services/ledger"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/werms"
)

// Service is the slice of the ledger service the handlers use. Tests
// substitute a stub.
type Service interface {
	Transfer(ctx context.Context, in ledger.TransferInput) (*ledger.TransferResult, error)
	Mint(ctx context.Context, in ledger.MintInput) (*ledger.MintResult, error)
	Balance(ctx context.Context, handle string) (*ledger.HolderBalance, error)
	History(ctx context.Context, q records.Query) ([]records.Record, error)
	CreatePolicy(ctx context.Context, p *policies.Policy) error
	ListPolicies(ctx context.Context) ([]policies.Policy, error)
	DeletePolicy(ctx context.Context, id string) error
}

// HandlerProvider wraps the ledger service and exposes HTTP handlers.
type HandlerProvider struct {
	svc                Service
	slackSigningSecret string
}

// NewHandler returns a new handler provider.
func NewHandler(svc Service, slackSigningSecret string) *HandlerProvider {
	return &HandlerProvider{svc: svc, slackSigningSecret: slackSigningSecret}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors onto status codes. Store errors stay
// generic; validation messages are safe to echo.
func writeServiceError(w http.ResponseWriter, err error) {
	var insufficient *ledger.InsufficientBalanceError

	switch {
	case errors.Is(err, ledger.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &insufficient):
		writeError(w, http.StatusConflict, insufficient.Error())
	case errors.Is(err, holders.ErrHolderNotFound):
		writeError(w, http.StatusNotFound, "holder not found")
	case errors.Is(err, policies.ErrPolicyNotFound):
		writeError(w, http.StatusNotFound, "policy not found")
	case errors.Is(err, banks.ErrNoDefaultBank):
		writeError(w, http.StatusNotFound, "no default bank")
	case errors.Is(err, holders.ErrInsufficientCoins):
		writeError(w, http.StatusConflict, "insufficient balance")
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "empty body")
			return false
		}

		writeError(w, http.StatusBadRequest, "invalid JSON")

		return false
	}

	return true
}

// --- Mint ---

type mintRequest struct {
	PolicyID string           `json:"policyId"`
	Amounts  map[string]int64 `json:"amounts"`
}

// MintHandler handles POST /mint.
func (h *HandlerProvider) MintHandler(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if !decodeBody(w, r, &req) {
		return
	}

	// reject non-uuid ids before they reach the uuid column
	if req.PolicyID != "" {
		_, err := uuid.Parse(req.PolicyID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid policyId")
			return
		}
	}

	amounts := werms.Holding{}
	for tier, amount := range req.Amounts {
		amounts[werms.Tier(tier)] = amount
	}

	result, err := h.svc.Mint(r.Context(), ledger.MintInput{
		PolicyID: req.PolicyID,
		Amounts:  amounts,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bankId":   result.BankID,
		"minted":   result.Minted,
		"policyId": result.PolicyID,
	})
}

// --- Balance ---

// GetBalanceHandler handles GET /balance?handle=...
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	handle := r.URL.Query().Get("handle")
	if handle == "" {
		writeError(w, http.StatusBadRequest, "handle query parameter required")
		return
	}

	bal, err := h.svc.Balance(r.Context(), handle)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"holderId":    bal.HolderID,
		"displayName": bal.DisplayName,
		"slackHandle": bal.SlackHandle,
		"balance":     bal.Balance,
		"lifetime":    bal.Lifetime,
	})
}

// --- Transactions ---

type transactionResponse struct {
	ID             string    `json:"id"`
	SenderID       *string   `json:"senderId"`
	ReceiverID     string    `json:"receiverId"`
	SenderEmail    string    `json:"senderEmail"`
	ReceiverHandle string    `json:"receiverHandle"`
	Tier           string    `json:"tier"`
	Amount         int64     `json:"amount"`
	Value          float64   `json:"value"`
	Note           string    `json:"note"`
	PolicyID       *string   `json:"policyId"`
	Source         string    `json:"source"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ListTransactionsHandler handles GET /transactions.
func (h *HandlerProvider) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	q := records.Query{
		EmployeeID:  r.URL.Query().Get("employeeId"),
		SlackHandle: r.URL.Query().Get("slackHandle"),
	}

	var err error

	q.Limit, err = queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	q.Offset, err = queryInt(r, "offset")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	recs, err := h.svc.History(r.Context(), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]transactionResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, transactionResponse{
			ID:             rec.ID,
			SenderID:       rec.SenderID,
			ReceiverID:     rec.ReceiverID,
			SenderEmail:    rec.SenderEmail,
			ReceiverHandle: rec.ReceiverHandle,
			Tier:           string(rec.Tier),
			Amount:         rec.Amount,
			Value:          rec.Value,
			Note:           rec.Note,
			PolicyID:       rec.PolicyID,
			Source:         rec.Source,
			Status:         rec.Status,
			CreatedAt:      rec.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": out})
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}

	return strconv.Atoi(raw)
}

// --- Policies ---

type policyRequest struct {
	Name             string     `json:"name"`
	Operation        string     `json:"operation"`
	Status           string     `json:"status"`
	GoldReward       int64      `json:"goldReward"`
	SilverReward     int64      `json:"silverReward"`
	BronzeReward     int64      `json:"bronzeReward"`
	ApprovalRequired bool       `json:"approvalRequired"`
	EffectiveFrom    *time.Time `json:"effectiveFrom"`
	ExpiresAt        *time.Time `json:"expiresAt"`
}

type policyResponse struct {
	ID string `json:"id"`
	policyRequest
	CreatedAt time.Time `json:"createdAt"`
}

func toPolicyResponse(p policies.Policy) policyResponse {
	return policyResponse{
		ID: p.ID,
		policyRequest: policyRequest{
			Name:             p.Name,
			Operation:        p.Operation,
			Status:           p.Status,
			GoldReward:       p.GoldReward,
			SilverReward:     p.SilverReward,
			BronzeReward:     p.BronzeReward,
			ApprovalRequired: p.ApprovalRequired,
			EffectiveFrom:    p.EffectiveFrom,
			ExpiresAt:        p.ExpiresAt,
		},
		CreatedAt: p.CreatedAt,
	}
}

// CreatePolicyHandler handles POST /policies.
func (h *HandlerProvider) CreatePolicyHandler(w http.ResponseWriter, r *http.Request) {
	var req policyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p := policies.Policy{
		Name:             req.Name,
		Operation:        req.Operation,
		Status:           req.Status,
		GoldReward:       req.GoldReward,
		SilverReward:     req.SilverReward,
		BronzeReward:     req.BronzeReward,
		ApprovalRequired: req.ApprovalRequired,
		EffectiveFrom:    req.EffectiveFrom,
		ExpiresAt:        req.ExpiresAt,
	}

	err := h.svc.CreatePolicy(r.Context(), &p)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPolicyResponse(p))
}

// ListPoliciesHandler handles GET /policies.
func (h *HandlerProvider) ListPoliciesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListPolicies(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]policyResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPolicyResponse(p))
	}

	writeJSON(w, http.StatusOK, map[string]any{"policies": out})
}

// DeletePolicyHandler handles DELETE /policies/{policyId}.
func (h *HandlerProvider) DeletePolicyHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "policyId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing policyId")
		return
	}

	// a malformed id cannot name an existing policy
	_, err := uuid.Parse(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "policy not found")
		return
	}

	err = h.svc.DeletePolicy(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
