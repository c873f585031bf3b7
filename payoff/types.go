/*
Package payoff simulates month-by-month repayment of a set of debts.

PURPOSE:
  Given a list of debts, a repayment strategy, an extra monthly amount and a
  start date, the simulator produces the full schedule of monthly snapshots
  until every debt is retired. Everything else in this repository (the debt
  repository, exports, the HTTP API) calls into this package and renders
  its output.

KEY CONCEPTS IN THIS FILE (types.go):
  - Debt: a balance-bearing obligation with rate, minimum payment, due day
  - MonthlyPayment: what was paid to one debt in one month
  - MonthlySnapshot: the recorded state of one simulated month

NUMERIC MODEL:
  All money is float64. No rounding happens during simulation; rounding to
  cents is a display concern (see report/money.go). A debt counts as retired
  once its balance is at or below RetiredEpsilon.

SEE ALSO:
  - simulator.go: Simulate
  - strategy.go: Strategy and ordering
  - summary.go: Metrics derived from a schedule
*/
package payoff

import "time"

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// RetiredEpsilon is the balance at or below which a debt is considered paid off.
	RetiredEpsilon = 0.01

	// MaxMonths is the last month index the simulator will produce.
	// A schedule therefore never holds more than MaxMonths+1 snapshots.
	MaxMonths = 600
)

// =============================================================================
// DEBT
// =============================================================================

// Debt is a single borrowing obligation.
// DueDay is informational only; the simulator never reads it.
type Debt struct {
	ID             string  `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Balance        float64 `json:"balance" yaml:"balance"`
	InterestRate   float64 `json:"interest_rate" yaml:"interest_rate"` // annual, percent
	MinimumPayment float64 `json:"minimum_payment" yaml:"minimum_payment"`
	DueDay         int     `json:"due_day" yaml:"due_day"`
}

// MonthlyInterest returns one month of simple interest on the current balance.
func (d Debt) MonthlyInterest() float64 {
	return d.Balance * (d.InterestRate / 100) / 12
}

// Retired reports whether the balance is within RetiredEpsilon of zero.
func (d Debt) Retired() bool {
	return d.Balance <= RetiredEpsilon
}

// =============================================================================
// SCHEDULE
// =============================================================================

// MonthlyPayment records the amount paid to one debt in one month.
// Amount includes any extra payment; IsExtra is set when part of it was.
type MonthlyPayment struct {
	DebtID  string  `json:"debt_id"`
	Amount  float64 `json:"amount"`
	IsExtra bool    `json:"is_extra"`
}

// MonthlySnapshot is one simulated month.
type MonthlySnapshot struct {
	Month          int              `json:"month"`
	Date           time.Time        `json:"date"`
	TotalBalance   float64          `json:"total_balance"`
	Payments       []MonthlyPayment `json:"payments"`
	RemainingDebts int              `json:"remaining_debts"`
	Debts          []Debt           `json:"debts"` // surviving debts after this month
}

// Payment returns the payment made to debtID this month, if any.
func (s MonthlySnapshot) Payment(debtID string) (MonthlyPayment, bool) {
	for _, p := range s.Payments {
		if p.DebtID == debtID {
			return p, true
		}
	}
	return MonthlyPayment{}, false
}

// TotalPaid sums every payment in the month.
func (s MonthlySnapshot) TotalPaid() float64 {
	var total float64
	for _, p := range s.Payments {
		total += p.Amount
	}
	return total
}
