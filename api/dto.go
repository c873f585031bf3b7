/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the payoff model from the external API contract: dates travel as
  YYYY-MM-DD strings and money is rounded to cents on the way out.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in handlers and the debts package, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
  - report/breakdown.go: minimum/extra split used by PaymentDTO
*/
package api

import (
	"time"

	"github.com/warp/debt-planner/advisor"
	"github.com/warp/debt-planner/payoff"
	"github.com/warp/debt-planner/report"
	"github.com/warp/debt-planner/store/sqlstore"
)

const dateLayout = "2006-01-02"

// =============================================================================
// DEBTS
// =============================================================================

// DebtDTO represents a debt in API requests and responses.
type DebtDTO struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Balance        float64 `json:"balance"`
	InterestRate   float64 `json:"interest_rate"`
	MinimumPayment float64 `json:"minimum_payment"`
	DueDay         int     `json:"due_day"`
}

// =============================================================================
// PLANS
// =============================================================================

// PlanRequest is the body of the plan, compare and export endpoints.
// Omitting debts plans over the stored debts.
type PlanRequest struct {
	Debts        []DebtDTO `json:"debts,omitempty"`
	Strategy     string    `json:"strategy"`
	MonthlyExtra float64   `json:"monthly_extra"`
	StartDate    string    `json:"start_date,omitempty"`
}

// PaymentDTO is one debt's payment within a month.
type PaymentDTO struct {
	DebtID   string  `json:"debt_id"`
	DebtName string  `json:"debt_name"`
	Amount   float64 `json:"amount"`
	Minimum  float64 `json:"minimum"`
	Extra    float64 `json:"extra"`
	IsExtra  bool    `json:"is_extra"`
}

// SnapshotDTO is one month of the schedule.
type SnapshotDTO struct {
	Month          int          `json:"month"`
	Date           string       `json:"date"`
	TotalBalance   float64      `json:"total_balance"`
	RemainingDebts int          `json:"remaining_debts"`
	Payments       []PaymentDTO `json:"payments"`
}

// SummaryDTO carries the headline numbers of a plan.
type SummaryDTO struct {
	Strategy        string  `json:"strategy"`
	MonthlyExtra    float64 `json:"monthly_extra"`
	Months          int     `json:"months"`
	DebtFreeDate    string  `json:"debt_free_date,omitempty"`
	InitialBalance  float64 `json:"initial_balance"`
	TotalPaid       float64 `json:"total_paid"`
	TotalInterest   float64 `json:"total_interest"`
	InterestPercent float64 `json:"interest_percent"`
	Resolved        bool    `json:"resolved"`
}

// InterestLineDTO is one debt's yearly interest and its shares, in percent.
type InterestLineDTO struct {
	DebtID         string  `json:"debt_id"`
	DebtName       string  `json:"debt_name"`
	AnnualInterest float64 `json:"annual_interest"`
	InterestShare  float64 `json:"interest_share"`
	BalanceShare   float64 `json:"balance_share"`
}

// InterestBreakdownDTO is the per-debt interest chart data.
type InterestBreakdownDTO struct {
	TotalBalance        float64           `json:"total_balance"`
	TotalAnnualInterest float64           `json:"total_annual_interest"`
	Debts               []InterestLineDTO `json:"debts"`
}

// BalancePointDTO is one point of the balance chart.
type BalancePointDTO struct {
	Month        int     `json:"month"`
	Date         string  `json:"date"`
	TotalBalance float64 `json:"total_balance"`
}

// PlanResponse is the result of POST /api/plan.
type PlanResponse struct {
	RunID         string               `json:"run_id"`
	Cached        bool                 `json:"cached"`
	StartDate     string               `json:"start_date"`
	Summary       SummaryDTO           `json:"summary"`
	Interest      InterestBreakdownDTO `json:"interest"`
	BalanceSeries []BalancePointDTO    `json:"balance_series"`
	Schedule      []SnapshotDTO        `json:"schedule"`
}

// CompareResponse holds one summary per strategy.
type CompareResponse struct {
	Summaries   []SummaryDTO `json:"summaries"`
	Recommended string       `json:"recommended,omitempty"`
	Savings     float64      `json:"interest_savings"`
}

// =============================================================================
// SUGGESTIONS / HISTORY / SCENARIOS
// =============================================================================

// SuggestionsResponse is the result of GET /api/suggestions.
type SuggestionsResponse struct {
	Language    string           `json:"language"`
	Suggestions []string         `json:"suggestions"`
	Analysis    advisor.Analysis `json:"analysis"`
}

// RunDTO is a stored plan run.
type RunDTO struct {
	ID             string  `json:"id"`
	Strategy       string  `json:"strategy"`
	MonthlyExtra   float64 `json:"monthly_extra"`
	StartDate      string  `json:"start_date"`
	DebtCount      int     `json:"debt_count"`
	InitialBalance float64 `json:"initial_balance"`
	Months         int     `json:"months"`
	TotalInterest  float64 `json:"total_interest"`
	DebtFreeDate   string  `json:"debt_free_date,omitempty"`
	Resolved       bool    `json:"resolved"`
	CreatedAt      string  `json:"created_at"`
}

// ScenarioDTO describes a demo debt set.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DebtCount   int    `json:"debt_count"`
}

// LoadScenarioRequest is the body of POST /api/scenarios/load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toDebtDTO(d payoff.Debt) DebtDTO {
	return DebtDTO{
		ID:             d.ID,
		Name:           d.Name,
		Balance:        d.Balance,
		InterestRate:   d.InterestRate,
		MinimumPayment: d.MinimumPayment,
		DueDay:         d.DueDay,
	}
}

func fromDebtDTO(d DebtDTO) payoff.Debt {
	return payoff.Debt{
		ID:             d.ID,
		Name:           d.Name,
		Balance:        d.Balance,
		InterestRate:   d.InterestRate,
		MinimumPayment: d.MinimumPayment,
		DueDay:         d.DueDay,
	}
}

func toSummaryDTO(s payoff.Summary) SummaryDTO {
	return SummaryDTO{
		Strategy:        string(s.Strategy),
		MonthlyExtra:    report.RoundCents(s.MonthlyExtra),
		Months:          s.Months,
		DebtFreeDate:    formatDate(s.DebtFreeDate),
		InitialBalance:  report.RoundCents(s.InitialBalance),
		TotalPaid:       report.RoundCents(s.TotalPaid),
		TotalInterest:   report.RoundCents(s.TotalInterest),
		InterestPercent: report.RoundCents(s.InterestPercent),
		Resolved:        s.Resolved,
	}
}

func toInterestDTO(is report.InterestSummary) InterestBreakdownDTO {
	out := InterestBreakdownDTO{
		TotalBalance:        report.RoundCents(is.TotalBalance),
		TotalAnnualInterest: report.RoundCents(is.TotalAnnual),
		Debts:               make([]InterestLineDTO, len(is.Lines)),
	}
	for i, line := range is.Lines {
		out.Debts[i] = InterestLineDTO{
			DebtID:         line.DebtID,
			DebtName:       line.DebtName,
			AnnualInterest: report.RoundCents(line.AnnualInterest),
			InterestShare:  report.RoundCents(line.InterestShare),
			BalanceShare:   report.RoundCents(line.BalanceShare),
		}
	}
	return out
}

func toScheduleDTOs(debts []payoff.Debt, schedule []payoff.MonthlySnapshot) []SnapshotDTO {
	months := report.Breakdown(debts, schedule)
	out := make([]SnapshotDTO, len(months))
	for i, m := range months {
		payments := make([]PaymentDTO, len(m.Lines))
		for j, line := range m.Lines {
			payments[j] = PaymentDTO{
				DebtID:   line.DebtID,
				DebtName: line.DebtName,
				Amount:   report.RoundCents(line.Amount),
				Minimum:  report.RoundCents(line.Regular),
				Extra:    report.RoundCents(line.Extra),
				IsExtra:  schedule[i].Payments[j].IsExtra,
			}
		}
		out[i] = SnapshotDTO{
			Month:          m.Month,
			Date:           formatDate(m.Date),
			TotalBalance:   report.RoundCents(m.TotalBalance),
			RemainingDebts: schedule[i].RemainingDebts,
			Payments:       payments,
		}
	}
	return out
}

func toBalancePointDTOs(points []payoff.BalancePoint) []BalancePointDTO {
	out := make([]BalancePointDTO, len(points))
	for i, p := range points {
		out[i] = BalancePointDTO{Month: p.Month, Date: formatDate(p.Date), TotalBalance: report.RoundCents(p.TotalBalance)}
	}
	return out
}

func toRunDTO(r sqlstore.Run) RunDTO {
	return RunDTO{
		ID:             r.ID,
		Strategy:       r.Strategy,
		MonthlyExtra:   r.MonthlyExtra,
		StartDate:      formatDate(r.StartDate),
		DebtCount:      r.DebtCount,
		InitialBalance: r.InitialBalance,
		Months:         r.Months,
		TotalInterest:  r.TotalInterest,
		DebtFreeDate:   formatDate(r.DebtFreeDate),
		Resolved:       r.Resolved,
		CreatedAt:      r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
