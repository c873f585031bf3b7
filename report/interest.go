package report

import "github.com/warp/debt-planner/payoff"

// InterestLine is one debt's share of the starting balance and of the
// interest it would accrue over a year at its current balance.
type InterestLine struct {
	DebtID         string  `json:"debt_id"`
	DebtName       string  `json:"debt_name"`
	Balance        float64 `json:"balance"`
	InterestRate   float64 `json:"interest_rate"`
	AnnualInterest float64 `json:"annual_interest"`
	BalanceShare   float64 `json:"balance_share"`  // percent of TotalBalance
	InterestShare  float64 `json:"interest_share"` // percent of TotalAnnual
}

// InterestSummary is the per-debt interest breakdown plus its totals.
type InterestSummary struct {
	Lines        []InterestLine `json:"lines"`
	TotalBalance float64        `json:"total_balance"`
	TotalAnnual  float64        `json:"total_annual_interest"`
}

// InterestBreakdown computes simple annual interest (balance times rate) for
// each debt, in input order. Shares are zero when their total is zero.
func InterestBreakdown(debts []payoff.Debt) InterestSummary {
	out := InterestSummary{Lines: make([]InterestLine, 0, len(debts))}
	for _, d := range debts {
		annual := d.Balance * d.InterestRate / 100
		out.TotalBalance += d.Balance
		out.TotalAnnual += annual
		out.Lines = append(out.Lines, InterestLine{
			DebtID:         d.ID,
			DebtName:       d.Name,
			Balance:        d.Balance,
			InterestRate:   d.InterestRate,
			AnnualInterest: annual,
		})
	}

	for i := range out.Lines {
		if out.TotalBalance > 0 {
			out.Lines[i].BalanceShare = out.Lines[i].Balance / out.TotalBalance * 100
		}
		if out.TotalAnnual > 0 {
			out.Lines[i].InterestShare = out.Lines[i].AnnualInterest / out.TotalAnnual * 100
		}
	}
	return out
}
