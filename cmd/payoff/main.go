/*
main.go - Command-line payoff planner

PURPOSE:
  Plans a payoff schedule for a YAML debt file without running the server.
  Prints the summary, the schedule and advice, and optionally writes PDF
  and XLSX reports.

COMMAND-LINE FLAGS:
  -debts     YAML debt file (required)
  -strategy  snowball | avalanche (default: avalanche)
  -extra     Extra monthly payment (default: 0)
  -start     First month, YYYY-MM-DD (default: first day of next month)
  -months    Schedule rows to print, 0 for all (default: 12)
  -compare   Also print a strategy comparison
  -lang      Advice language, en | es
  -pdf       Write a PDF report to this path
  -xlsx      Write a spreadsheet report to this path

DEBT FILE:
  debts:
    - name: Visa
      balance: 4200
      interest_rate: 21.99
      minimum_payment: 126
      due_day: 5
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/warp/debt-planner/advisor"
	"github.com/warp/debt-planner/debts"
	"github.com/warp/debt-planner/payoff"
	"github.com/warp/debt-planner/planner"
	"github.com/warp/debt-planner/report"
)

type options struct {
	debtsPath string
	strategy  string
	extra     float64
	start     string
	months    int
	compare   bool
	lang      string
	pdfPath   string
	xlsxPath  string
}

type debtFile struct {
	Debts []payoff.Debt `yaml:"debts"`
}

func main() {
	var opts options
	flag.StringVar(&opts.debtsPath, "debts", "", "YAML debt file")
	flag.StringVar(&opts.strategy, "strategy", string(payoff.StrategyAvalanche), "snowball or avalanche")
	flag.Float64Var(&opts.extra, "extra", 0, "extra monthly payment")
	flag.StringVar(&opts.start, "start", "", "first month (YYYY-MM-DD)")
	flag.IntVar(&opts.months, "months", 12, "schedule rows to print, 0 for all")
	flag.BoolVar(&opts.compare, "compare", false, "print a strategy comparison")
	flag.StringVar(&opts.lang, "lang", "en", "advice language (en, es)")
	flag.StringVar(&opts.pdfPath, "pdf", "", "write a PDF report")
	flag.StringVar(&opts.xlsxPath, "xlsx", "", "write a spreadsheet report")
	flag.Parse()

	log.SetFlags(0)
	if err := run(context.Background(), os.Stdout, opts); err != nil {
		log.Fatalf("payoff: %v", err)
	}
}

func run(ctx context.Context, out io.Writer, opts options) error {
	if opts.debtsPath == "" {
		return errors.New("-debts is required")
	}
	ds, err := loadDebts(opts.debtsPath)
	if err != nil {
		return err
	}

	repo := debts.NewMemory()
	if err := repo.Replace(ctx, ds); err != nil {
		return fmt.Errorf("debt file %s: %w", opts.debtsPath, err)
	}

	req := planner.PlanRequest{Strategy: opts.strategy, MonthlyExtra: opts.extra}
	if opts.start != "" {
		start, err := time.Parse("2006-01-02", opts.start)
		if err != nil {
			return fmt.Errorf("invalid -start: %w", err)
		}
		req.StartDate = start
	}

	p := planner.New(repo)
	res, err := p.Plan(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, renderSummary(res.Summary))
	fmt.Fprintln(out, renderInterest(res.Debts))
	fmt.Fprintln(out, renderSchedule(res.Debts, res.Schedule, opts.months))

	if opts.compare {
		summaries, err := p.Compare(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, renderComparison(summaries))
	}

	_, lines, err := p.Suggestions(ctx, advisor.ParseLanguage(opts.lang))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, renderSuggestions(lines))

	plan := report.Plan{
		Debts:        res.Debts,
		Schedule:     res.Schedule,
		Strategy:     res.Summary.Strategy,
		MonthlyExtra: res.Summary.MonthlyExtra,
		StartDate:    res.StartDate,
	}
	if opts.pdfPath != "" {
		if err := writeFile(opts.pdfPath, plan, report.WritePDF); err != nil {
			return err
		}
		fmt.Fprintln(out, mutedStyle.Render("PDF written to "+opts.pdfPath))
	}
	if opts.xlsxPath != "" {
		if err := writeFile(opts.xlsxPath, plan, report.WriteXLSX); err != nil {
			return err
		}
		fmt.Fprintln(out, mutedStyle.Render("Spreadsheet written to "+opts.xlsxPath))
	}
	return nil
}

func loadDebts(path string) ([]payoff.Debt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read debt file: %w", err)
	}
	var f debtFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse debt file %s: %w", path, err)
	}
	return f.Debts, nil
}

func writeFile(path string, plan report.Plan, write func(io.Writer, report.Plan) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, plan); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
