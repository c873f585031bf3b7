/*
Package advisor classifies debts for advisory text.

PURPOSE:
  A read-only analysis over the raw debt list, independent of the payoff
  schedule. Debts are flagged against fixed thresholds relative to the
  average interest rate and the total balance of the set.

THRESHOLDS:
  HighInterest:   rate > 1.5 x average rate
  Consolidation:  rate > average rate        AND balance < 30% of total
  QuickWins:      balance < 10% of total     AND balance < 6 x minimum payment
  Refinancing:    rate > 1.3 x average rate  AND balance > 20% of total

SEE ALSO:
  - suggestions.go: Localized messages built from an Analysis
*/
package advisor

import "github.com/warp/debt-planner/payoff"

const (
	highInterestFactor   = 1.5
	refinanceRateFactor  = 1.3
	consolidationShare   = 0.3
	quickWinShare        = 0.1
	quickWinMinimumTimes = 6
	refinanceShare       = 0.2
)

// Analysis groups debts by the advice that applies to them.
// A debt may appear in several groups.
type Analysis struct {
	AverageRate   float64       `json:"average_rate"`
	TotalDebt     float64       `json:"total_debt"`
	HighInterest  []payoff.Debt `json:"high_interest"`
	Consolidation []payoff.Debt `json:"consolidation"`
	QuickWins     []payoff.Debt `json:"quick_wins"`
	Refinancing   []payoff.Debt `json:"refinancing"`
}

// Analyze classifies debts. An empty list yields an empty analysis.
func Analyze(debts []payoff.Debt) Analysis {
	a := Analysis{
		HighInterest:  []payoff.Debt{},
		Consolidation: []payoff.Debt{},
		QuickWins:     []payoff.Debt{},
		Refinancing:   []payoff.Debt{},
	}
	if len(debts) == 0 {
		return a
	}

	var rateSum float64
	for _, d := range debts {
		rateSum += d.InterestRate
		a.TotalDebt += d.Balance
	}
	a.AverageRate = rateSum / float64(len(debts))

	for _, d := range debts {
		if d.InterestRate > a.AverageRate*highInterestFactor {
			a.HighInterest = append(a.HighInterest, d)
		}
		if d.InterestRate > a.AverageRate && d.Balance < a.TotalDebt*consolidationShare {
			a.Consolidation = append(a.Consolidation, d)
		}
		if d.Balance < a.TotalDebt*quickWinShare && d.Balance < d.MinimumPayment*quickWinMinimumTimes {
			a.QuickWins = append(a.QuickWins, d)
		}
		if d.InterestRate > a.AverageRate*refinanceRateFactor && d.Balance > a.TotalDebt*refinanceShare {
			a.Refinancing = append(a.Refinancing, d)
		}
	}
	return a
}
