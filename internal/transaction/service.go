package transaction

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/calendar"
	"github.com/MrJamesThe3rd/pennywise/internal/currency"
)

// Repository loads and saves the whole transaction collection.
//
//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	Load(ctx context.Context) ([]*Transaction, error)
	Save(ctx context.Context, txs []*Transaction) error
}

// Service owns the in-memory transaction collection. The collection stays the
// source of truth for the session even when a save fails.
type Service struct {
	repo  Repository
	clock calendar.Clock

	mu  sync.RWMutex
	txs []*Transaction
}

func NewService(repo Repository, clock calendar.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

// Load replaces the in-memory collection with the persisted one.
func (s *Service) Load(ctx context.Context) error {
	txs, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}

	s.mu.Lock()
	s.txs = txs
	s.mu.Unlock()

	return nil
}

// Add stores a new transaction under a fresh ID. The returned transaction is
// kept even when the error wraps ErrPersist.
func (s *Service) Add(ctx context.Context, d Draft) (*Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.newLocked(d)
	s.txs = append(s.txs, tx)

	return tx.clone(), s.saveLocked(ctx)
}

// Update merges p into the transaction with the given id. An unknown id is a no-op.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil
	}

	p.apply(s.txs[i])

	return s.saveLocked(ctx)
}

// Delete removes the transaction with the given id. An unknown id is a no-op.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil
	}

	s.txs = slices.Delete(s.txs, i, i+1)

	return s.saveLocked(ctx)
}

// ClearAll removes every transaction.
func (s *Service) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txs = nil

	return s.saveLocked(ctx)
}

func (s *Service) Get(id uuid.UUID) (*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, ErrNotFound
	}

	return s.txs[i].clone(), nil
}

func (s *Service) Exists(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.indexLocked(id) >= 0
}

// All returns every transaction in insertion order.
func (s *Service) All() []*Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Transaction, len(s.txs))
	for i, tx := range s.txs {
		out[i] = tx.clone()
	}

	return out
}

// Filtered returns the transactions matching f, most recent first.
func (s *Service) Filtered(f Filter) []*Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Transaction, 0, len(s.txs))

	for _, tx := range s.txs {
		if f.matches(tx) {
			out = append(out, tx.clone())
		}
	}

	slices.SortStableFunc(out, func(a, b *Transaction) int {
		return b.Date.Compare(a.Date)
	})

	return out
}

// Recent returns at most n transactions, most recent first.
func (s *Service) Recent(n int) []*Transaction {
	txs := s.Filtered(Filter{})
	return txs[:min(n, len(txs))]
}

// ByCategory returns the transactions of a category in insertion order.
func (s *Service) ByCategory(category string) []*Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Transaction

	for _, tx := range s.txs {
		if tx.Category == category {
			out = append(out, tx.clone())
		}
	}

	return out
}

// Totals are realized sums for one currency scope.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// Totals sums realized transactions in currency c. currency.Any adds raw
// amounts across all currencies without conversion.
func (s *Service) Totals(c currency.Code) Totals {
	now := s.clock.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}

	for _, tx := range s.txs {
		if c != currency.Any && tx.Currency != c {
			continue
		}

		if !calendar.OnOrBeforeToday(tx.Date, now) {
			continue
		}

		switch tx.Type {
		case TypeIncome:
			t.Income = t.Income.Add(tx.Amount)
		case TypeExpense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}

	t.Balance = t.Income.Sub(t.Expense)

	return t
}

func (s *Service) TotalIncome(c currency.Code) decimal.Decimal  { return s.Totals(c).Income }
func (s *Service) TotalExpense(c currency.Code) decimal.Decimal { return s.Totals(c).Expense }
func (s *Service) Balance(c currency.Code) decimal.Decimal      { return s.Totals(c).Balance }

// UsedCurrencies lists currencies with at least one realized income, in display
// priority order. Unknown codes follow in the order they were first seen.
func (s *Service) UsedCurrencies() []currency.Code {
	now := s.clock.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[currency.Code]struct{})

	var out []currency.Code

	for _, tx := range s.txs {
		if tx.Type != TypeIncome || !calendar.OnOrBeforeToday(tx.Date, now) {
			continue
		}

		if _, ok := seen[tx.Currency]; ok {
			continue
		}

		seen[tx.Currency] = struct{}{}
		out = append(out, tx.Currency)
	}

	slices.SortStableFunc(out, func(a, b currency.Code) int {
		return cmp.Compare(currency.Priority(a), currency.Priority(b))
	})

	return out
}

type ImportResult struct {
	Imported  []*Transaction
	New       []Draft
	Conflicts []Conflict
}

type Conflict struct {
	Incoming Draft
	Existing *Transaction
}

type dupKey struct {
	Date     string
	Amount   string
	Type     Type
	Currency currency.Code
	Note     string
}

func keyOf(date time.Time, amount decimal.Decimal, typ Type, c currency.Code, note string) dupKey {
	return dupKey{
		Date:     date.Format(time.DateOnly),
		Amount:   amount.String(),
		Type:     typ,
		Currency: c,
		Note:     note,
	}
}

// ImportBatch adds drafts unless some of them look like existing transactions.
// When conflicts are found nothing is written and the caller decides via CreateBatch.
func (s *Service) ImportBatch(ctx context.Context, drafts []Draft) (*ImportResult, error) {
	if len(drafts) == 0 {
		return &ImportResult{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lookup := make(map[dupKey]*Transaction, len(s.txs))
	for _, tx := range s.txs {
		lookup[keyOf(tx.Date, tx.Amount, tx.Type, tx.Currency, tx.Note)] = tx
	}

	var newDrafts []Draft

	var conflicts []Conflict

	for _, d := range drafts {
		existing, found := lookup[keyOf(d.Date, d.Amount, d.Type, d.Currency, d.Note)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: d, Existing: existing.clone()})
			continue
		}

		newDrafts = append(newDrafts, d)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newDrafts, Conflicts: conflicts}, nil
	}

	imported := s.appendLocked(newDrafts)
	if err := s.saveLocked(ctx); err != nil {
		return &ImportResult{Imported: imported}, fmt.Errorf("import batch: %w", err)
	}

	return &ImportResult{Imported: imported}, nil
}

// CreateBatch adds every draft with a single save.
func (s *Service) CreateBatch(ctx context.Context, drafts []Draft) ([]*Transaction, error) {
	if len(drafts) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := s.appendLocked(drafts)
	if err := s.saveLocked(ctx); err != nil {
		return created, fmt.Errorf("create batch: %w", err)
	}

	return created, nil
}

func (s *Service) appendLocked(drafts []Draft) []*Transaction {
	out := make([]*Transaction, len(drafts))

	for i, d := range drafts {
		tx := s.newLocked(d)
		s.txs = append(s.txs, tx)
		out[i] = tx.clone()
	}

	return out
}

func (s *Service) newLocked(d Draft) *Transaction {
	id := uuid.New()
	for s.indexLocked(id) >= 0 {
		id = uuid.New()
	}

	return &Transaction{
		ID:       id,
		Type:     d.Type,
		Amount:   d.Amount,
		Currency: d.Currency,
		Category: d.Category,
		Date:     d.Date,
		Note:     d.Note,
	}
}

func (s *Service) indexLocked(id uuid.UUID) int {
	return slices.IndexFunc(s.txs, func(tx *Transaction) bool { return tx.ID == id })
}

func (s *Service) saveLocked(ctx context.Context) error {
	snapshot := make([]*Transaction, len(s.txs))
	for i, tx := range s.txs {
		snapshot[i] = tx.clone()
	}

	if err := s.repo.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	return nil
}

func (f Filter) matches(tx *Transaction) bool {
	if f.DateFrom != nil {
		from := calendar.StartOfDay(*f.DateFrom, f.DateFrom.Location())
		if tx.Date.Before(from) {
			return false
		}
	}

	if f.DateTo != nil {
		next := calendar.StartOfDay(*f.DateTo, f.DateTo.Location()).AddDate(0, 0, 1)
		if !tx.Date.Before(next) {
			return false
		}
	}

	if f.Category != nil && tx.Category != *f.Category {
		return false
	}

	if f.Type != nil && tx.Type != *f.Type {
		return false
	}

	return true
}
