package payoff

import "time"

// =============================================================================
// SUMMARY - Figures the presentation layer derives from a schedule
// =============================================================================

// Summary condenses a schedule into the headline numbers shown to the user.
type Summary struct {
	Strategy        Strategy  `json:"strategy"`
	MonthlyExtra    float64   `json:"monthly_extra"`
	Months          int       `json:"months"`
	DebtFreeDate    time.Time `json:"debt_free_date"`
	InitialBalance  float64   `json:"initial_balance"`
	TotalPaid       float64   `json:"total_paid"`
	TotalInterest   float64   `json:"total_interest"`
	InterestPercent float64   `json:"interest_percent"` // TotalInterest over InitialBalance, in percent
	Resolved        bool      `json:"resolved"`
}

// BalancePoint is one point of the balance-over-time chart.
type BalancePoint struct {
	Month        int       `json:"month"`
	Date         time.Time `json:"date"`
	TotalBalance float64   `json:"total_balance"`
}

// Summarize derives the headline numbers for a schedule produced from debts.
// Total interest is everything paid minus the starting balances.
func Summarize(debts []Debt, schedule []MonthlySnapshot) Summary {
	var s Summary
	for _, d := range debts {
		s.InitialBalance += d.Balance
	}
	for _, snap := range schedule {
		s.TotalPaid += snap.TotalPaid()
	}
	s.TotalInterest = s.TotalPaid - s.InitialBalance
	if s.InitialBalance > 0 {
		s.InterestPercent = s.TotalInterest / s.InitialBalance * 100
	}
	s.Months = len(schedule)
	if len(schedule) > 0 {
		s.DebtFreeDate = schedule[len(schedule)-1].Date
	}
	s.Resolved = Resolved(schedule)
	return s
}

// BalanceSeries maps each month to its remaining total balance.
func BalanceSeries(schedule []MonthlySnapshot) []BalancePoint {
	points := make([]BalancePoint, len(schedule))
	for i, snap := range schedule {
		points[i] = BalancePoint{Month: snap.Month, Date: snap.Date, TotalBalance: snap.TotalBalance}
	}
	return points
}

// Compare simulates every strategy with the same inputs and returns one
// summary per strategy, in the order of Strategies.
func Compare(debts []Debt, monthlyExtra float64, start time.Time) []Summary {
	out := make([]Summary, 0, len(Strategies))
	for _, strategy := range Strategies {
		s := Summarize(debts, Simulate(debts, strategy, monthlyExtra, start))
		s.Strategy = strategy
		s.MonthlyExtra = monthlyExtra
		out = append(out, s)
	}
	return out
}
