package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/banks"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/holders"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/policies"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/repos/records"
	"github.com/Isaiasulevich/werms-bank-sub000/internal/werms"
)

// newFakeService wires a Service against in-memory stores and a pass-through
// transaction runner. The *sql.Tx handed to repos is nil and ignored by the
// fakes.
func newFakeService(h *fakeHolders, r *fakeRecords, p *fakePolicies, b *fakeBanks) *Service {
	return &Service{
		runTx: func(_ context.Context, fn func(*sql.Tx) error) error {
			return fn(nil)
		},
		holders:  h,
		records:  r,
		policies: p,
		banks:    b,
	}
}

// --- holders ---

type fakeHolders struct {
	byID     map[string]*holders.Holder
	accounts map[string]holders.Accounts
}

func newFakeHolders() *fakeHolders {
	return &fakeHolders{
		byID:     map[string]*holders.Holder{},
		accounts: map[string]holders.Accounts{},
	}
}

func (f *fakeHolders) add(h holders.Holder, coins, lifetime werms.Holding) {
	hc := h
	f.byID[h.ID] = &hc
	f.accounts[h.ID] = holders.Accounts{Coins: coins.Clone(), Lifetime: lifetime.Clone()}
}

func (f *fakeHolders) find(match func(*holders.Holder) bool) (*holders.Holder, error) {
	for _, h := range f.byID {
		if match(h) {
			hc := *h
			return &hc, nil
		}
	}

	return nil, holders.ErrHolderNotFound
}

func (f *fakeHolders) GetByHandle(_ context.Context, handle string) (*holders.Holder, error) {
	return f.find(func(h *holders.Holder) bool { return h.SlackHandle == handle })
}

func (f *fakeHolders) GetAccounts(_ context.Context, holderID string) (holders.Accounts, error) {
	return f.cloneAccounts(holderID), nil
}

func (f *fakeHolders) ResolveByEmail(_ *sql.Tx, email string) (*holders.Holder, error) {
	return f.find(func(h *holders.Holder) bool { return h.Email == email })
}

func (f *fakeHolders) ResolveByHandle(_ *sql.Tx, handle string) (*holders.Holder, error) {
	return f.find(func(h *holders.Holder) bool { return h.SlackHandle == handle })
}

func (f *fakeHolders) LockAccounts(_ *sql.Tx, holderID string) (holders.Accounts, error) {
	return f.cloneAccounts(holderID), nil
}

func (f *fakeHolders) cloneAccounts(holderID string) holders.Accounts {
	acc, ok := f.accounts[holderID]
	if !ok {
		return holders.Accounts{Coins: werms.Holding{}, Lifetime: werms.Holding{}}
	}

	return holders.Accounts{Coins: acc.Coins.Clone(), Lifetime: acc.Lifetime.Clone()}
}

func (f *fakeHolders) DecreaseCoins(_ *sql.Tx, holderID string, tier werms.Tier, amount int64) error {
	acc := f.accounts[holderID]
	if acc.Coins[tier] < amount {
		return holders.ErrInsufficientCoins
	}

	acc.Coins[tier] -= amount

	return nil
}

func (f *fakeHolders) IncreaseCoins(_ *sql.Tx, holderID string, tier werms.Tier, amount, lifetimeDelta int64) error {
	acc, ok := f.accounts[holderID]
	if !ok {
		acc = holders.Accounts{Coins: werms.Holding{}, Lifetime: werms.Holding{}}
		f.accounts[holderID] = acc
	}

	acc.Coins[tier] += amount
	acc.Lifetime[tier] += lifetimeDelta

	return nil
}

func (f *fakeHolders) coins(holderID string) werms.Holding {
	return f.accounts[holderID].Coins.Clone()
}

func (f *fakeHolders) lifetime(holderID string) werms.Holding {
	return f.accounts[holderID].Lifetime.Clone()
}

// --- records ---

type fakeRecords struct {
	appended  []records.Record
	lastQuery records.Query
	listOut   []records.Record
}

func (f *fakeRecords) Append(_ *sql.Tx, recs []records.Record) error {
	f.appended = append(f.appended, recs...)
	return nil
}

func (f *fakeRecords) List(_ context.Context, q records.Query) ([]records.Record, error) {
	f.lastQuery = q
	return f.listOut, nil
}

// --- policies ---

type fakePolicies struct {
	byID    map[string]policies.Policy
	created []policies.Policy
	deleted []string
}

func newFakePolicies() *fakePolicies {
	return &fakePolicies{byID: map[string]policies.Policy{}}
}

func (f *fakePolicies) Get(_ *sql.Tx, id string) (*policies.Policy, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, policies.ErrPolicyNotFound
	}

	return &p, nil
}

func (f *fakePolicies) Create(_ context.Context, p *policies.Policy) error {
	p.CreatedAt = time.Now()
	f.byID[p.ID] = *p
	f.created = append(f.created, *p)

	return nil
}

func (f *fakePolicies) List(_ context.Context) ([]policies.Policy, error) {
	out := make([]policies.Policy, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}

	return out, nil
}

func (f *fakePolicies) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return policies.ErrPolicyNotFound
	}

	delete(f.byID, id)
	f.deleted = append(f.deleted, id)

	return nil
}

// --- banks ---

type supplyKey struct {
	bankID string
	tier   werms.Tier
}

type fakeBanks struct {
	def    *banks.Bank
	supply map[supplyKey]banks.Supply
}

func newFakeBanks(def *banks.Bank) *fakeBanks {
	return &fakeBanks{def: def, supply: map[supplyKey]banks.Supply{}}
}

func (f *fakeBanks) GetDefault(_ *sql.Tx) (*banks.Bank, error) {
	if f.def == nil {
		return nil, banks.ErrNoDefaultBank
	}

	b := *f.def

	return &b, nil
}

func (f *fakeBanks) AddSupply(_ *sql.Tx, bankID string, tier werms.Tier, digital, physical int64) error {
	if f.def == nil || f.def.ID != bankID {
		return fmt.Errorf("unknown bank %q", bankID)
	}

	key := supplyKey{bankID: bankID, tier: tier}
	s := f.supply[key]
	s.Digital += digital
	s.Physical += physical
	f.supply[key] = s

	return nil
}
