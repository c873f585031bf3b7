package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/warp/debt-planner/payoff"
)

// Page layout in millimetres (A4 portrait).
const (
	pdfMargin     = 20.0
	pdfLineHeight = 6.0
	pdfColDebt    = 80.0
	pdfColPayment = 45.0
	pdfColExtra   = 45.0
)

var (
	colorText      = [3]int{80, 80, 100}
	colorAccent    = [3]int{0, 150, 255}
	colorHighlight = [3]int{255, 100, 100}
	colorMuted     = [3]int{120, 120, 140}
)

// StrategyLabel is the display name of a strategy.
func StrategyLabel(s payoff.Strategy) string {
	switch s {
	case payoff.StrategySnowball:
		return "Snowball (smallest balance first)"
	case payoff.StrategyAvalanche:
		return "Avalanche (highest interest first)"
	}
	return string(s)
}

// pdfReport wraps fpdf with the few helpers the schedule layout needs.
type pdfReport struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// WritePDF writes the payoff plan as an A4 PDF document.
func WritePDF(w io.Writer, plan Plan) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle("Debt Payoff Plan", true)
	pdf.AddPage()

	r := &pdfReport{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	r.header(plan)
	r.summary(plan.Summary())
	r.interest(InterestBreakdown(plan.Debts))
	r.schedule(plan)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func (r *pdfReport) text(s string, size float64, bold bool, color [3]int) {
	style := ""
	if bold {
		style = "B"
	}
	r.pdf.SetFont("Helvetica", style, size)
	r.pdf.SetTextColor(color[0], color[1], color[2])
	r.pdf.CellFormat(0, pdfLineHeight, r.tr(s), "", 1, "L", false, 0, "")
}

func (r *pdfReport) row(label, value string) {
	r.pdf.SetFont("Helvetica", "", 10)
	r.pdf.SetTextColor(colorMuted[0], colorMuted[1], colorMuted[2])
	r.pdf.CellFormat(60, pdfLineHeight, r.tr(label), "", 0, "L", false, 0, "")
	r.pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
	r.pdf.CellFormat(0, pdfLineHeight, r.tr(value), "", 1, "L", false, 0, "")
}

func (r *pdfReport) header(plan Plan) {
	r.text("Debt Payoff Plan", 20, true, colorAccent)
	r.pdf.Ln(4)
	r.row("Strategy", StrategyLabel(plan.Strategy))
	r.row("Extra monthly payment", FormatMoney(plan.MonthlyExtra))
	r.row("Start date", FormatDate(plan.StartDate))
	r.row("Debts", fmt.Sprintf("%d", len(plan.Debts)))
	r.pdf.Ln(4)
}

func (r *pdfReport) summary(s payoff.Summary) {
	r.text("Summary", 14, true, colorAccent)
	r.row("Months to debt-free", fmt.Sprintf("%d", s.Months))
	r.row("Debt-free date", FormatDate(s.DebtFreeDate))
	r.row("Starting balance", FormatMoney(s.InitialBalance))
	r.row("Total paid", FormatMoney(s.TotalPaid))
	r.row("Total interest", FormatMoney(s.TotalInterest))
	r.row("Interest over principal", FormatPercent(s.InterestPercent))
	if !s.Resolved {
		r.text(fmt.Sprintf("Payments do not clear every debt within %d months.", payoff.MaxMonths+1), 10, true, colorHighlight)
	}
	r.pdf.Ln(4)
}

func (r *pdfReport) interest(is InterestSummary) {
	if len(is.Lines) == 0 {
		return
	}
	r.text("Interest Breakdown", 14, true, colorAccent)
	r.row("Annual interest at current balances", FormatMoney(is.TotalAnnual))
	for _, line := range is.Lines {
		name := line.DebtName
		if name == "" {
			name = line.DebtID
		}
		r.row(name, fmt.Sprintf("%s a year, %s of interest, %s of balance",
			FormatMoney(line.AnnualInterest), FormatPercent(line.InterestShare), FormatPercent(line.BalanceShare)))
	}
	r.pdf.Ln(4)
}

func (r *pdfReport) schedule(plan Plan) {
	r.text("Payment Schedule", 14, true, colorAccent)

	for _, month := range Breakdown(plan.Debts, plan.Schedule) {
		r.pdf.Ln(2)
		r.text(fmt.Sprintf("%s  -  remaining %s", FormatMonth(month.Date), FormatMoney(month.TotalBalance)), 11, true, colorText)

		r.pdf.SetFont("Helvetica", "B", 9)
		r.pdf.SetTextColor(colorMuted[0], colorMuted[1], colorMuted[2])
		r.pdf.CellFormat(pdfColDebt, pdfLineHeight, "Debt", "B", 0, "L", false, 0, "")
		r.pdf.CellFormat(pdfColPayment, pdfLineHeight, "Minimum Payment", "B", 0, "R", false, 0, "")
		r.pdf.CellFormat(pdfColExtra, pdfLineHeight, "Extra", "B", 1, "R", false, 0, "")

		r.pdf.SetFont("Helvetica", "", 9)
		for _, line := range month.Lines {
			name := line.DebtName
			if name == "" {
				name = line.DebtID
			}
			r.pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
			r.pdf.CellFormat(pdfColDebt, pdfLineHeight, r.tr(name), "", 0, "L", false, 0, "")
			r.pdf.CellFormat(pdfColPayment, pdfLineHeight, FormatMoney(line.Regular), "", 0, "R", false, 0, "")
			extra := ""
			if line.Extra > 0 {
				extra = FormatMoney(line.Extra)
				r.pdf.SetTextColor(colorHighlight[0], colorHighlight[1], colorHighlight[2])
			}
			r.pdf.CellFormat(pdfColExtra, pdfLineHeight, extra, "", 1, "R", false, 0, "")
		}
	}
}
