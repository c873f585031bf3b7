/*
simulator.go - Month-by-month payoff simulation

ALGORITHM (per month, until no debt is open or MaxMonths is passed):
  1. Accrue one month of simple interest on every open debt
  2. Pay each debt's minimum, capped at its post-interest balance
  3. Rank the debts still carrying a balance with the strategy
  4. Put the whole extra amount on the first-ranked debt, capped at its
     balance, merged into that debt's payment record
  5. Drop retired debts and re-sort the survivors for next month
  6. Emit the snapshot

The ranking is recomputed every month because balances move. Working state
is a slice of Debt values; each snapshot receives its own copy.

NON-RESOLVING INPUTS:
  A debt whose interest outgrows its payments never retires. The loop is
  bounded by MaxMonths and simply stops there; callers can detect this with
  Resolved().
*/
package payoff

import "time"

// Simulate produces the payoff schedule for debts under strategy.
//
// It never mutates debts and never fails: an empty list yields an empty
// schedule and non-resolving inputs are cut off after month MaxMonths.
func Simulate(debts []Debt, strategy Strategy, monthlyExtra float64, start time.Time) []MonthlySnapshot {
	if len(debts) == 0 {
		return nil
	}

	open := make([]Debt, len(debts))
	copy(open, debts)
	strategy.Sort(open)

	var schedule []MonthlySnapshot
	for month := 0; len(open) > 0 && month <= MaxMonths; month++ {
		payments := make([]MonthlyPayment, 0, len(open))

		for i := range open {
			open[i].Balance += open[i].MonthlyInterest()
			minimum := min(open[i].MinimumPayment, open[i].Balance)
			open[i].Balance -= minimum
			payments = append(payments, MonthlyPayment{DebtID: open[i].ID, Amount: minimum})
		}

		strategy.Sort(open)

		if monthlyExtra > 0 {
			if target := firstOpen(open); target >= 0 {
				extra := min(monthlyExtra, open[target].Balance)
				open[target].Balance -= extra
				mergeExtra(payments, open[target].ID, extra)
			}
		}

		open = retire(open)
		strategy.Sort(open)

		schedule = append(schedule, snapshot(month, start, open, payments))
	}
	return schedule
}

// Resolved reports whether the schedule ends with every debt retired.
// It is false only when the simulation was cut off by MaxMonths.
func Resolved(schedule []MonthlySnapshot) bool {
	if len(schedule) == 0 {
		return true
	}
	return schedule[len(schedule)-1].RemainingDebts == 0
}

// firstOpen returns the index of the first debt still above the epsilon,
// or -1. A debt cleared by its own minimum cannot absorb the extra.
func firstOpen(debts []Debt) int {
	for i, d := range debts {
		if !d.Retired() {
			return i
		}
	}
	return -1
}

func mergeExtra(payments []MonthlyPayment, debtID string, extra float64) {
	for i := range payments {
		if payments[i].DebtID == debtID {
			payments[i].Amount += extra
			payments[i].IsExtra = true
			return
		}
	}
}

// retire filters out debts at or below RetiredEpsilon.
func retire(debts []Debt) []Debt {
	kept := debts[:0]
	for _, d := range debts {
		if !d.Retired() {
			kept = append(kept, d)
		}
	}
	return kept
}

func snapshot(month int, start time.Time, open []Debt, payments []MonthlyPayment) MonthlySnapshot {
	state := make([]Debt, len(open))
	copy(state, open)

	var total float64
	for _, d := range state {
		total += d.Balance
	}

	return MonthlySnapshot{
		Month:          month,
		Date:           start.AddDate(0, month, 0),
		TotalBalance:   total,
		Payments:       payments,
		RemainingDebts: len(state),
		Debts:          state,
	}
}
