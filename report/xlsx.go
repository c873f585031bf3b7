package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary  = "Summary"
	sheetSchedule = "Schedule"
)

var (
	scheduleHeaders = []string{"Month", "Date", "Debt", "Payment", "Minimum", "Extra", "Remaining Balance"}
	interestHeaders = []string{"Debt", "Balance", "Interest Rate (%)", "Annual Interest", "Share of Balance (%)", "Share of Interest (%)"}
)

// WriteXLSX writes the plan as a workbook with a Summary and a Schedule sheet.
func WriteXLSX(w io.Writer, plan Plan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeSummarySheet(f, plan); err != nil {
		return err
	}

	index, err := f.NewSheet(sheetSchedule)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeScheduleSheet(f, plan); err != nil {
		return err
	}
	f.SetActiveSheet(index)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, plan Plan) error {
	s := plan.Summary()
	rows := [][]any{
		{"Strategy", StrategyLabel(plan.Strategy)},
		{"Extra monthly payment", RoundCents(plan.MonthlyExtra)},
		{"Start date", plan.StartDate.Format("2006-01-02")},
		{"Debts", len(plan.Debts)},
		{"Months to debt-free", s.Months},
		{"Debt-free date", FormatDate(s.DebtFreeDate)},
		{"Starting balance", RoundCents(s.InitialBalance)},
		{"Total paid", RoundCents(s.TotalPaid)},
		{"Total interest", RoundCents(s.TotalInterest)},
		{"Fully resolved", s.Resolved},
		{"Interest over principal (%)", RoundCents(s.InterestPercent)},
	}

	// Per-debt interest table, one blank row below the headline figures
	is := InterestBreakdown(plan.Debts)
	rows = append(rows, []any{"Annual interest at current balances", RoundCents(is.TotalAnnual)}, nil)
	header := make([]any, len(interestHeaders))
	for i, h := range interestHeaders {
		header[i] = h
	}
	rows = append(rows, header)
	for _, line := range is.Lines {
		name := line.DebtName
		if name == "" {
			name = line.DebtID
		}
		rows = append(rows, []any{
			name,
			RoundCents(line.Balance),
			line.InterestRate,
			RoundCents(line.AnnualInterest),
			RoundCents(line.BalanceShare),
			RoundCents(line.InterestShare),
		})
	}

	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	return nil
}

func writeScheduleSheet(f *excelize.File, plan Plan) error {
	for i, header := range scheduleHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetSchedule, cell, header)
	}

	row := 2
	for _, month := range Breakdown(plan.Debts, plan.Schedule) {
		for _, line := range month.Lines {
			name := line.DebtName
			if name == "" {
				name = line.DebtID
			}
			values := []any{
				month.Month + 1,
				month.Date.Format("2006-01-02"),
				name,
				RoundCents(line.Amount),
				RoundCents(line.Regular),
				RoundCents(line.Extra),
				RoundCents(month.TotalBalance),
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(sheetSchedule, cell, &values); err != nil {
				return fmt.Errorf("failed to write schedule row: %w", err)
			}
			row++
		}
	}
	return nil
}
