// Package debts holds the user's working list of debts for the session.
package debts

import (
	"context"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/warp/debt-planner/payoff"
)

// Repository is the debt list the planner simulates over.
type Repository interface {
	Add(ctx context.Context, d payoff.Debt) (payoff.Debt, error)
	Remove(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (payoff.Debt, error)
	List(ctx context.Context) ([]payoff.Debt, error)
	Replace(ctx context.Context, ds []payoff.Debt) error
	Reset(ctx context.Context) error
	Version() uint64
}

// =============================================================================
// MEMORY REPOSITORY - Lives as long as the process
// =============================================================================

// Memory keeps debts in insertion order. Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	order   []string
	byID    map[string]payoff.Debt
	version uint64
}

func NewMemory() *Memory {
	return &Memory{byID: make(map[string]payoff.Debt)}
}

// Add validates and stores d, assigning a UUID when the ID is empty.
func (m *Memory) Add(_ context.Context, d payoff.Debt) (payoff.Debt, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if err := Validate(d); err != nil {
		return payoff.Debt{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[d.ID]; ok {
		return payoff.Debt{}, ErrDuplicateDebt
	}
	m.addLocked(d)
	return d, nil
}

func (m *Memory) addLocked(d payoff.Debt) {
	m.byID[d.ID] = d
	m.order = append(m.order, d.ID)
	m.version++
}

func (m *Memory) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return ErrDebtNotFound
	}
	delete(m.byID, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.version++
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (payoff.Debt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.byID[id]
	if !ok {
		return payoff.Debt{}, ErrDebtNotFound
	}
	return d, nil
}

// List returns a copy of every debt in insertion order.
func (m *Memory) List(_ context.Context) ([]payoff.Debt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]payoff.Debt, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.byID[id])
	}
	return result, nil
}

// Replace swaps the whole list atomically. Nothing changes if any debt is
// invalid or IDs collide within ds.
func (m *Memory) Replace(_ context.Context, ds []payoff.Debt) error {
	seen := make(map[string]bool, len(ds))
	prepared := make([]payoff.Debt, 0, len(ds))
	for _, d := range ds {
		d.Name = strings.TrimSpace(d.Name)
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		if err := Validate(d); err != nil {
			return err
		}
		if seen[d.ID] {
			return ErrDuplicateDebt
		}
		seen[d.ID] = true
		prepared = append(prepared, d)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.byID = make(map[string]payoff.Debt, len(prepared))
	m.order = nil
	for _, d := range prepared {
		m.addLocked(d)
	}
	m.version++
	return nil
}

func (m *Memory) Reset(ctx context.Context) error {
	return m.Replace(ctx, nil)
}

// Version increments on every mutation. Callers use it to notice that a
// cached plan is stale.
func (m *Memory) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the fields a debt needs before it can be simulated.
func Validate(d payoff.Debt) error {
	switch {
	case d.Name == "":
		return &ValidationError{Field: "name", Message: "is required"}
	case !finite(d.Balance) || d.Balance < 0:
		return &ValidationError{Field: "balance", Message: "must be a non-negative amount"}
	case !finite(d.InterestRate) || d.InterestRate < 0:
		return &ValidationError{Field: "interest_rate", Message: "must be a non-negative percentage"}
	case !finite(d.MinimumPayment) || d.MinimumPayment < 0:
		return &ValidationError{Field: "minimum_payment", Message: "must be a non-negative amount"}
	case d.DueDay < 1 || d.DueDay > 31:
		return &ValidationError{Field: "due_day", Message: "must be between 1 and 31"}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
