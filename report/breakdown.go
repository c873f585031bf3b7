/*
Package report renders payoff schedules as documents.

PURPOSE:
  The export side of the planner: a per-month, per-debt breakdown of
  minimum versus extra payments, written out as PDF or XLSX.

SPLITTING PAYMENTS:
  The schedule only stores the total paid and whether any of it was extra.
  The regular part is the debt's stated minimum, capped at what was paid;
  whatever is left over is extra.

SEE ALSO:
  - pdf.go:  WritePDF (github.com/go-pdf/fpdf)
  - xlsx.go: WriteXLSX (github.com/xuri/excelize/v2)
*/
package report

import (
	"time"

	"github.com/warp/debt-planner/payoff"
)

// Plan is everything an export needs.
type Plan struct {
	Debts        []payoff.Debt
	Schedule     []payoff.MonthlySnapshot
	Strategy     payoff.Strategy
	MonthlyExtra float64
	StartDate    time.Time
}

// Summary derives the headline numbers for the plan.
func (p Plan) Summary() payoff.Summary {
	s := payoff.Summarize(p.Debts, p.Schedule)
	s.Strategy = p.Strategy
	s.MonthlyExtra = p.MonthlyExtra
	return s
}

// PaymentLine is one debt's payment in one month, split into regular and extra.
type PaymentLine struct {
	DebtID   string  `json:"debt_id"`
	DebtName string  `json:"debt_name"`
	Amount   float64 `json:"amount"`
	Regular  float64 `json:"regular"`
	Extra    float64 `json:"extra"`
}

// MonthBreakdown lists the payment lines for one month.
type MonthBreakdown struct {
	Month        int           `json:"month"`
	Date         time.Time     `json:"date"`
	TotalBalance float64       `json:"total_balance"`
	Lines        []PaymentLine `json:"lines"`
}

// Breakdown splits every payment of the schedule into regular and extra parts.
// Payments to debts not present in debts are reported as all regular.
func Breakdown(debts []payoff.Debt, schedule []payoff.MonthlySnapshot) []MonthBreakdown {
	byID := make(map[string]payoff.Debt, len(debts))
	for _, d := range debts {
		byID[d.ID] = d
	}

	out := make([]MonthBreakdown, 0, len(schedule))
	for _, snap := range schedule {
		month := MonthBreakdown{
			Month:        snap.Month,
			Date:         snap.Date,
			TotalBalance: snap.TotalBalance,
			Lines:        make([]PaymentLine, 0, len(snap.Payments)),
		}
		for _, p := range snap.Payments {
			line := PaymentLine{DebtID: p.DebtID, Amount: p.Amount, Regular: p.Amount}
			if d, ok := byID[p.DebtID]; ok {
				line.DebtName = d.Name
				line.Regular = min(d.MinimumPayment, p.Amount)
				line.Extra = p.Amount - line.Regular
			}
			month.Lines = append(month.Lines, line)
		}
		out = append(out, month)
	}
	return out
}
