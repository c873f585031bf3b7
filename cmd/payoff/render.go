package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/warp/debt-planner/payoff"
	"github.com/warp/debt-planner/report"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB")).Bold(true)
	extraStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54A")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6CBFE6")).Padding(0, 1)
)

func renderSummary(s payoff.Summary) string {
	rows := [][2]string{
		{"Strategy", report.StrategyLabel(s.Strategy)},
		{"Extra payment", report.FormatMoney(s.MonthlyExtra)},
		{"Months", fmt.Sprintf("%d", s.Months)},
		{"Debt-free", report.FormatDate(s.DebtFreeDate)},
		{"Starting balance", report.FormatMoney(s.InitialBalance)},
		{"Total paid", report.FormatMoney(s.TotalPaid)},
		{"Total interest", report.FormatMoney(s.TotalInterest)},
		{"Interest / principal", report.FormatPercent(s.InterestPercent)},
	}

	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(r[0]))
	}

	lines := []string{titleStyle.Render("Payoff plan")}
	for _, r := range rows {
		lines = append(lines, labelStyle.Width(labelWidth+2).Render(r[0])+valueStyle.Render(r[1]))
	}
	if !s.Resolved {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("Not paid off within %d months: raise minimum payments or the extra amount.", payoff.MaxMonths)))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// renderInterest lists each debt's yearly interest at today's balance.
func renderInterest(ds []payoff.Debt) string {
	is := report.InterestBreakdown(ds)
	if len(is.Lines) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Interest breakdown"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-24s %12s %10s %10s", "Debt", "Per year", "Interest", "Balance")))
	b.WriteString("\n")
	for _, line := range is.Lines {
		name := line.DebtName
		if name == "" {
			name = line.DebtID
		}
		fmt.Fprintf(&b, "%-24s %12s %10s %10s\n", truncate(name, 24), report.FormatMoney(line.AnnualInterest),
			report.FormatPercent(line.InterestShare), report.FormatPercent(line.BalanceShare))
	}
	b.WriteString(valueStyle.Render(fmt.Sprintf("%-24s %12s", "Total", report.FormatMoney(is.TotalAnnual))))
	return b.String()
}

// renderSchedule prints one line per debt per month, limited to limit months.
func renderSchedule(ds []payoff.Debt, schedule []payoff.MonthlySnapshot, limit int) string {
	months := report.Breakdown(ds, schedule)
	if limit > 0 && len(months) > limit {
		months = months[:limit]
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Schedule"))
	b.WriteString("\n")
	header := fmt.Sprintf("%-10s %-24s %12s %12s %12s", "Month", "Debt", "Payment", "Extra", "Remaining")
	b.WriteString(labelStyle.Render(header))
	b.WriteString("\n")

	for _, m := range months {
		for i, line := range m.Lines {
			month, remaining := "", ""
			if i == 0 {
				month = report.FormatMonth(m.Date)
				remaining = report.FormatMoney(m.TotalBalance)
			}
			name := line.DebtName
			if name == "" {
				name = line.DebtID
			}
			var extra string
			if line.Extra > 0 {
				extra = extraStyle.Render(fmt.Sprintf("%12s", report.FormatMoney(line.Extra)))
			} else {
				extra = fmt.Sprintf("%12s", "-")
			}
			fmt.Fprintf(&b, "%-10s %-24s %12s %s %12s\n", month, truncate(name, 24), report.FormatMoney(line.Amount), extra, remaining)
		}
	}
	if hidden := len(schedule) - len(months); hidden > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("... %d more months", hidden)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderComparison(summaries []payoff.Summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Strategy comparison"))
	b.WriteString("\n")
	for _, s := range summaries {
		fmt.Fprintf(&b, "%-36s %4d months  %s interest\n",
			report.StrategyLabel(s.Strategy), s.Months, valueStyle.Render(report.FormatMoney(s.TotalInterest)))
	}
	return b.String()
}

func renderSuggestions(lines []string) string {
	if len(lines) == 0 {
		return mutedStyle.Render("No suggestions for this debt mix.")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Suggestions"))
	for _, l := range lines {
		b.WriteString("\n  • ")
		b.WriteString(l)
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
