/*
planner.go - Plan orchestration over the payoff simulator

PURPOSE:
  Ties the debt repository, schedule cache and plan history together
  around payoff.Simulate. Handlers and the CLI call this instead of the
  simulator directly.

FLOW (Plan):
  1. Validate strategy and extra payment
  2. Resolve debts (request body, else repository)
  3. Look up the schedule cache by content key
  4. Simulate on miss and fill the cache
  5. Record a run in the history store, if one is configured

FAILURE POLICY:
  Cache and history failures are logged and never fail the plan. The
  simulator is pure; only request validation and repository errors are
  returned to the caller.

SEE ALSO:
  - payoff/simulator.go: the month loop
  - cache/cache.go: content-addressed keys
  - store/sqlstore/sqlstore.go: plan_runs table
*/
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/warp/debt-planner/advisor"
	"github.com/warp/debt-planner/cache"
	"github.com/warp/debt-planner/debts"
	"github.com/warp/debt-planner/payoff"
	"github.com/warp/debt-planner/store/sqlstore"
)

var (
	ErrNegativeExtra = errors.New("monthly extra payment cannot be negative")
	ErrInvalidExtra  = errors.New("monthly extra payment must be a finite number")
)

// RunStore records computed plans. *sqlstore.Store satisfies it.
type RunStore interface {
	SaveRun(ctx context.Context, r sqlstore.Run) error
}

// =============================================================================
// PLANNER
// =============================================================================

// Planner computes payoff plans for the debts in a repository.
type Planner struct {
	Debts    debts.Repository
	Cache    cache.Cache // optional
	Runs     RunStore    // optional
	Strategy payoff.Strategy

	now func() time.Time
}

// New returns a planner over repo. Cache and run store are attached by the caller.
func New(repo debts.Repository) *Planner {
	return &Planner{
		Debts:    repo,
		Strategy: payoff.StrategyAvalanche,
		now:      time.Now,
	}
}

// PlanRequest describes one plan computation. Nil Debts means "use the repository".
type PlanRequest struct {
	Debts        []payoff.Debt
	Strategy     string
	MonthlyExtra float64
	StartDate    time.Time
}

// PlanResult is a computed plan.
type PlanResult struct {
	RunID     string
	CacheKey  string
	Cached    bool
	Debts     []payoff.Debt
	StartDate time.Time
	Schedule  []payoff.MonthlySnapshot
	Summary   payoff.Summary
}

// Plan simulates req and returns the schedule with its summary.
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	strategy, ds, start, err := p.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	key := cache.Key(ds, strategy, req.MonthlyExtra, start)
	schedule, cached := p.lookup(ctx, key)
	if !cached {
		schedule = payoff.Simulate(ds, strategy, req.MonthlyExtra, start)
		p.store(ctx, key, schedule)
	}

	summary := payoff.Summarize(ds, schedule)
	summary.Strategy = strategy
	summary.MonthlyExtra = req.MonthlyExtra

	result := &PlanResult{
		RunID:     uuid.NewString(),
		CacheKey:  key,
		Cached:    cached,
		Debts:     ds,
		StartDate: start,
		Schedule:  schedule,
		Summary:   summary,
	}
	p.record(ctx, result)

	if !summary.Resolved {
		log.Printf("[Planner] Plan %s did not resolve within %d months", result.RunID, payoff.MaxMonths)
	}
	return result, nil
}

// Compare summarizes every strategy for the same debts, extra and start date.
func (p *Planner) Compare(ctx context.Context, req PlanRequest) ([]payoff.Summary, error) {
	req.Strategy = ""
	_, ds, start, err := p.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return payoff.Compare(ds, req.MonthlyExtra, start), nil
}

// Suggestions analyzes the repository's debts and renders advice in lang.
func (p *Planner) Suggestions(ctx context.Context, lang advisor.Language) (advisor.Analysis, []string, error) {
	ds, err := p.Debts.List(ctx)
	if err != nil {
		return advisor.Analysis{}, nil, fmt.Errorf("failed to list debts: %w", err)
	}
	analysis := advisor.Analyze(ds)
	return analysis, advisor.Suggestions(analysis, lang), nil
}

// DefaultStartDate is the first day of the month after now.
func DefaultStartDate(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
}

// =============================================================================
// INTERNALS
// =============================================================================

func (p *Planner) prepare(ctx context.Context, req PlanRequest) (payoff.Strategy, []payoff.Debt, time.Time, error) {
	strategy := p.Strategy
	if req.Strategy != "" {
		s, err := payoff.ParseStrategy(req.Strategy)
		if err != nil {
			return "", nil, time.Time{}, err
		}
		strategy = s
	}

	if math.IsNaN(req.MonthlyExtra) || math.IsInf(req.MonthlyExtra, 0) {
		return "", nil, time.Time{}, ErrInvalidExtra
	}
	if req.MonthlyExtra < 0 {
		return "", nil, time.Time{}, ErrNegativeExtra
	}

	ds := req.Debts
	if ds == nil {
		list, err := p.Debts.List(ctx)
		if err != nil {
			return "", nil, time.Time{}, fmt.Errorf("failed to list debts: %w", err)
		}
		ds = list
	} else {
		ds = make([]payoff.Debt, len(req.Debts))
		for i, d := range req.Debts {
			if d.ID == "" {
				d.ID = fmt.Sprintf("debt-%d", i+1)
			}
			if err := debts.Validate(d); err != nil {
				return "", nil, time.Time{}, err
			}
			ds[i] = d
		}
	}

	start := req.StartDate
	if start.IsZero() {
		start = DefaultStartDate(p.now())
	}
	return strategy, ds, start, nil
}

func (p *Planner) lookup(ctx context.Context, key string) ([]payoff.MonthlySnapshot, bool) {
	if p.Cache == nil || key == "" {
		return nil, false
	}
	data, ok, err := p.Cache.Get(ctx, key)
	if err != nil {
		log.Printf("[Planner] Cache read failed for %s: %v", key, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var schedule []payoff.MonthlySnapshot
	if err := json.Unmarshal(data, &schedule); err != nil {
		log.Printf("[Planner] Discarding unreadable cache entry %s: %v", key, err)
		return nil, false
	}
	return schedule, true
}

func (p *Planner) store(ctx context.Context, key string, schedule []payoff.MonthlySnapshot) {
	if p.Cache == nil || key == "" {
		return
	}
	data, err := json.Marshal(schedule)
	if err != nil {
		log.Printf("[Planner] Failed to encode schedule for cache: %v", err)
		return
	}
	if err := p.Cache.Set(ctx, key, data); err != nil {
		log.Printf("[Planner] Cache write failed for %s: %v", key, err)
	}
}

func (p *Planner) record(ctx context.Context, result *PlanResult) {
	if p.Runs == nil {
		return
	}
	s := result.Summary
	run := sqlstore.Run{
		ID:             result.RunID,
		Strategy:       string(s.Strategy),
		MonthlyExtra:   s.MonthlyExtra,
		StartDate:      result.StartDate,
		DebtCount:      len(result.Debts),
		InitialBalance: s.InitialBalance,
		Months:         s.Months,
		TotalInterest:  s.TotalInterest,
		DebtFreeDate:   s.DebtFreeDate,
		Resolved:       s.Resolved,
		CacheKey:       result.CacheKey,
		CreatedAt:      p.now(),
	}
	if err := p.Runs.SaveRun(ctx, run); err != nil {
		log.Printf("[Planner] Failed to record run %s: %v", run.ID, err)
	}
}
