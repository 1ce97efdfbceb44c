// Package registry holds the in-memory session state: the four planning
// registries plus the scenario parameters. Mutation goes only through the
// defined create/update/delete operations; projections read a consistent
// snapshot taken at invocation time.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hoppemairon/gestor-plantio/internal/config"
	"github.com/hoppemairon/gestor-plantio/internal/model"
	"github.com/hoppemairon/gestor-plantio/pkg/constants"
)

// ErrNotFound reports an operation against an id no registry holds.
var ErrNotFound = errors.New("record not found")

// Entry pairs a stored value with its generated identifier.
type Entry[T any] struct {
	ID    string `json:"id"`
	Value T      `json:"value"`
}

// collection is an insertion-ordered id-keyed set of records.
type collection[T any] struct {
	items map[string]T
	order []string
}

func newCollection[T any]() collection[T] {
	return collection[T]{items: make(map[string]T)}
}

func (c *collection[T]) add(value T) string {
	id := newID()
	c.items[id] = value
	c.order = append(c.order, id)
	return id
}

func (c *collection[T]) update(id string, value T) error {
	if _, ok := c.items[id]; !ok {
		return fmt.Errorf("%w: id %q", ErrNotFound, id)
	}
	c.items[id] = value
	return nil
}

func (c *collection[T]) delete(id string) error {
	if _, ok := c.items[id]; !ok {
		return fmt.Errorf("%w: id %q", ErrNotFound, id)
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *collection[T]) clear() {
	c.items = make(map[string]T)
	c.order = nil
}

func (c *collection[T]) list() []Entry[T] {
	entries := make([]Entry[T], 0, len(c.order))
	for _, id := range c.order {
		entries = append(entries, Entry[T]{ID: id, Value: c.items[id]})
	}
	return entries
}

func (c *collection[T]) values() []T {
	values := make([]T, 0, len(c.order))
	for _, id := range c.order {
		values = append(values, c.items[id])
	}
	return values
}

func newID() string {
	return uuid.NewString()[:constants.RegistryIDLength]
}

// Store is the session state object. The zero value is not usable; create
// one with NewStore.
type Store struct {
	mu                 sync.RWMutex
	plantings          collection[model.Planting]
	expenses           collection[model.Expense]
	loans              collection[model.Loan]
	additionalRevenues collection[model.AdditionalRevenue]
	params             config.Parameters
}

// NewStore creates an empty session with the given scenario parameters.
func NewStore(params config.Parameters) *Store {
	params.Clamp()
	return &Store{
		plantings:          newCollection[model.Planting](),
		expenses:           newCollection[model.Expense](),
		loans:              newCollection[model.Loan](),
		additionalRevenues: newCollection[model.AdditionalRevenue](),
		params:             params,
	}
}

// Seed loads every entry of the plan into the store. Entries are assumed
// validated by the plan loader.
func (s *Store) Seed(plan *config.Plan) error {
	for _, p := range plan.Plantings {
		if _, err := s.AddPlanting(p); err != nil {
			return err
		}
	}
	for _, e := range plan.Expenses {
		if _, err := s.AddExpense(e); err != nil {
			return err
		}
	}
	for _, l := range plan.Loans {
		if _, err := s.AddLoan(l); err != nil {
			return err
		}
	}
	for _, r := range plan.AdditionalRevenues {
		if _, err := s.AddAdditionalRevenue(r); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot holds a consistent read-only view of the registries for one
// synchronous computation.
type Snapshot struct {
	Plantings          []model.Planting
	Expenses           []model.Expense
	Loans              []model.Loan
	AdditionalRevenues []model.AdditionalRevenue
	Parameters         config.Parameters
}

// Snapshot returns the current registries and parameters.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Plantings:          s.plantings.values(),
		Expenses:           s.expenses.values(),
		Loans:              s.loans.values(),
		AdditionalRevenues: s.additionalRevenues.values(),
		Parameters:         s.params,
	}
}

// Parameters returns the current scenario parameters.
func (s *Store) Parameters() config.Parameters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// SetParameters replaces the scenario parameters, clamping them to their
// valid ranges.
func (s *Store) SetParameters(params config.Parameters) {
	params.Clamp()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = params
}

// AddPlanting validates and stores a planting, returning its id.
func (s *Store) AddPlanting(p model.Planting) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plantings.add(p), nil
}

// UpdatePlanting validates and replaces the planting with the given id.
func (s *Store) UpdatePlanting(id string, p model.Planting) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plantings.update(id, p)
}

// DeletePlanting removes the planting with the given id.
func (s *Store) DeletePlanting(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plantings.delete(id)
}

// Plantings lists all plantings in insertion order.
func (s *Store) Plantings() []Entry[model.Planting] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plantings.list()
}

// ClearPlantings removes every planting.
func (s *Store) ClearPlantings() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plantings.clear()
}

// AddExpense validates and stores an expense, returning its id.
func (s *Store) AddExpense(e model.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expenses.add(e), nil
}

// UpdateExpense validates and replaces the expense with the given id.
func (s *Store) UpdateExpense(id string, e model.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expenses.update(id, e)
}

// DeleteExpense removes the expense with the given id.
func (s *Store) DeleteExpense(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expenses.delete(id)
}

// Expenses lists all expenses in insertion order.
func (s *Store) Expenses() []Entry[model.Expense] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expenses.list()
}

// ClearExpenses removes every expense.
func (s *Store) ClearExpenses() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses.clear()
}

// AddLoan validates and stores a loan, returning its id.
func (s *Store) AddLoan(l model.Loan) (string, error) {
	if err := l.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loans.add(l), nil
}

// UpdateLoan validates and replaces the loan with the given id.
func (s *Store) UpdateLoan(id string, l model.Loan) error {
	if err := l.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loans.update(id, l)
}

// DeleteLoan removes the loan with the given id.
func (s *Store) DeleteLoan(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loans.delete(id)
}

// Loans lists all loans in insertion order.
func (s *Store) Loans() []Entry[model.Loan] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loans.list()
}

// ClearLoans removes every loan.
func (s *Store) ClearLoans() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loans.clear()
}

// AddAdditionalRevenue validates and stores an additional revenue,
// returning its id.
func (s *Store) AddAdditionalRevenue(r model.AdditionalRevenue) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.additionalRevenues.add(r), nil
}

// UpdateAdditionalRevenue validates and replaces the additional revenue
// with the given id.
func (s *Store) UpdateAdditionalRevenue(id string, r model.AdditionalRevenue) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.additionalRevenues.update(id, r)
}

// DeleteAdditionalRevenue removes the additional revenue with the given id.
func (s *Store) DeleteAdditionalRevenue(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.additionalRevenues.delete(id)
}

// AdditionalRevenues lists all additional revenues in insertion order.
func (s *Store) AdditionalRevenues() []Entry[model.AdditionalRevenue] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.additionalRevenues.list()
}

// ClearAdditionalRevenues removes every additional revenue.
func (s *Store) ClearAdditionalRevenues() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.additionalRevenues.clear()
}

// ClearAll resets every registry, leaving the scenario parameters in place.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plantings.clear()
	s.expenses.clear()
	s.loans.clear()
	s.additionalRevenues.clear()
}
