package payoff_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/debt-planner/payoff"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func jan2024() time.Time {
	return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func debt(id string, balance, rate, minimum float64) payoff.Debt {
	return payoff.Debt{ID: id, Name: id, Balance: balance, InterestRate: rate, MinimumPayment: minimum, DueDay: 15}
}

func mixedDebts() []payoff.Debt {
	return []payoff.Debt{
		debt("card", 3200, 22.9, 90),
		debt("store", 640, 26.5, 35),
		debt("auto", 11800, 6.4, 310),
		debt("student", 18500, 4.5, 190),
	}
}

// startOfMonth returns the debts as they stood before month n was processed.
func startOfMonth(initial []payoff.Debt, schedule []payoff.MonthlySnapshot, n int) []payoff.Debt {
	if n == 0 {
		return initial
	}
	return schedule[n-1].Debts
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestSimulate_SingleDebt_TwelvePercent(t *testing.T) {
	// GIVEN: 1200 at 12% with a 100 minimum and no extra
	debts := []payoff.Debt{debt("a", 1200, 12, 100)}

	// WHEN: Simulating from 2024-01-01
	schedule := payoff.Simulate(debts, payoff.StrategySnowball, 0, jan2024())

	// THEN: First month is 1200 + 12 interest - 100 payment
	require.NotEmpty(t, schedule)
	assert.InDelta(t, 1112, schedule[0].TotalBalance, 1e-9)
	assert.Equal(t, 0, schedule[0].Month)
	assert.Equal(t, jan2024(), schedule[0].Date)

	// THEN: Paid off in 13 months, last payment on 2025-01-01
	assert.Len(t, schedule, 13)
	last := schedule[len(schedule)-1]
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), last.Date)
	assert.Equal(t, 0, last.RemainingDebts)
	assert.Empty(t, last.Debts)
	assert.Zero(t, last.TotalBalance)

	p, ok := last.Payment("a")
	require.True(t, ok)
	assert.Less(t, p.Amount, 100.0, "final payment is only what is left")
	assert.False(t, p.IsExtra)
}

func TestSimulate_Snowball_SmallDebtRetiredBeforeLargeGetsExtra(t *testing.T) {
	// GIVEN: A(500, 20%, 50) and B(5000, 10%, 100), 100 extra, snowball
	debts := []payoff.Debt{debt("B", 5000, 10, 100), debt("A", 500, 20, 50)}

	schedule := payoff.Simulate(debts, payoff.StrategySnowball, 100, jan2024())
	require.NotEmpty(t, schedule)

	// THEN: Every month B takes extra, A was already gone at month start
	aRetired := false
	for _, snap := range schedule {
		pb, _ := snap.Payment("B")
		if pb.IsExtra {
			assert.True(t, aRetired, "month %d: B received extra while A still open", snap.Month)
		}
		if !aRetired {
			pa, ok := snap.Payment("A")
			require.True(t, ok)
			assert.True(t, pa.IsExtra, "month %d: A should receive the extra", snap.Month)
		}
		aRetired = !containsDebt(snap.Debts, "A")
	}
	assert.True(t, aRetired)
	assert.True(t, payoff.Resolved(schedule))
}

func containsDebt(debts []payoff.Debt, id string) bool {
	for _, d := range debts {
		if d.ID == id {
			return true
		}
	}
	return false
}

// =============================================================================
// EDGE CASES
// =============================================================================

func TestSimulate_EmptyInput(t *testing.T) {
	for _, s := range payoff.Strategies {
		assert.Empty(t, payoff.Simulate(nil, s, 250, jan2024()))
		assert.Empty(t, payoff.Simulate([]payoff.Debt{}, s, 0, time.Time{}))
	}
}

func TestSimulate_DustBalanceIsRetired(t *testing.T) {
	// GIVEN: A payment that leaves half a cent
	debts := []payoff.Debt{debt("dust", 100.005, 0, 100)}

	schedule := payoff.Simulate(debts, payoff.StrategyAvalanche, 0, jan2024())

	// THEN: The debt is gone after the first month
	require.Len(t, schedule, 1)
	assert.Equal(t, 0, schedule[0].RemainingDebts)
	assert.Empty(t, schedule[0].Debts)
}

func TestSimulate_ZeroBalanceDebtRecordsZeroPayment(t *testing.T) {
	debts := []payoff.Debt{debt("paid", 0, 15, 40)}

	schedule := payoff.Simulate(debts, payoff.StrategySnowball, 50, jan2024())

	require.Len(t, schedule, 1)
	p, ok := schedule[0].Payment("paid")
	require.True(t, ok)
	assert.Zero(t, p.Amount)
	assert.False(t, p.IsExtra, "a retired debt cannot absorb the extra")
}

func TestSimulate_NonResolvingStopsAtCeiling(t *testing.T) {
	// GIVEN: Interest (20/month) larger than the minimum (10/month)
	debts := []payoff.Debt{debt("grows", 1000, 24, 10)}

	schedule := payoff.Simulate(debts, payoff.StrategySnowball, 0, jan2024())

	// THEN: Months 0..600 are produced and the debt is still open
	require.Len(t, schedule, payoff.MaxMonths+1)
	last := schedule[len(schedule)-1]
	assert.Equal(t, payoff.MaxMonths, last.Month)
	assert.Equal(t, 1, last.RemainingDebts)
	assert.Greater(t, last.TotalBalance, 1000.0)
	assert.False(t, payoff.Resolved(schedule))

	// Payments are still recorded even though they never cover interest
	p, _ := last.Payment("grows")
	assert.Equal(t, 10.0, p.Amount)
}

func TestSimulate_DateUsesCalendarMonthAddition(t *testing.T) {
	start := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	debts := []payoff.Debt{debt("a", 1000, 0, 100)}

	schedule := payoff.Simulate(debts, payoff.StrategySnowball, 0, start)

	require.Len(t, schedule, 10)
	// Feb 31st normalizes to Mar 2nd in a leap year
	assert.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), schedule[1].Date)
	assert.Equal(t, time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), schedule[2].Date)
}

func TestSimulate_DoesNotMutateInput(t *testing.T) {
	debts := mixedDebts()
	before := make([]payoff.Debt, len(debts))
	copy(before, debts)

	_ = payoff.Simulate(debts, payoff.StrategyAvalanche, 300, jan2024())

	assert.Equal(t, before, debts)
}

func TestSimulate_SnapshotsAreIndependent(t *testing.T) {
	schedule := payoff.Simulate(mixedDebts(), payoff.StrategySnowball, 200, jan2024())
	require.Greater(t, len(schedule), 2)

	want := schedule[1].Debts[0].Balance
	schedule[0].Debts[0].Balance = -1
	schedule[0].Payments[0].Amount = -1

	assert.Equal(t, want, schedule[1].Debts[0].Balance)
	assert.NotEqual(t, -1.0, schedule[1].Payments[0].Amount)
}

func TestSimulate_ExtraMergedIntoSinglePaymentRecord(t *testing.T) {
	debts := []payoff.Debt{debt("a", 2000, 10, 50), debt("b", 900, 18, 40)}

	schedule := payoff.Simulate(debts, payoff.StrategyAvalanche, 75, jan2024())
	require.NotEmpty(t, schedule)

	first := schedule[0]
	assert.Len(t, first.Payments, 2, "one record per debt")

	b, ok := first.Payment("b")
	require.True(t, ok)
	assert.True(t, b.IsExtra)
	assert.InDelta(t, 115, b.Amount, 1e-9)

	a, _ := first.Payment("a")
	assert.False(t, a.IsExtra)
	assert.InDelta(t, 50, a.Amount, 1e-9)
}

func TestSimulate_ExtraSkipsDebtClearedByMinimum(t *testing.T) {
	// GIVEN: A tiny debt whose minimum exceeds its balance, and a large one
	debts := []payoff.Debt{debt("tiny", 30, 0, 50), debt("big", 1000, 12, 20)}

	// WHEN: Snowball with 100 extra
	schedule := payoff.Simulate(debts, payoff.StrategySnowball, 100, jan2024())
	require.NotEmpty(t, schedule)
	first := schedule[0]

	// THEN: The tiny debt is paid its balance only, without the extra
	tiny, ok := first.Payment("tiny")
	require.True(t, ok)
	assert.InDelta(t, 30, tiny.Amount, 1e-9)
	assert.False(t, tiny.IsExtra)

	// THEN: The extra goes to the big debt in the same month
	big, ok := first.Payment("big")
	require.True(t, ok)
	assert.InDelta(t, 120, big.Amount, 1e-9)
	assert.True(t, big.IsExtra)

	assert.False(t, containsDebt(first.Debts, "tiny"))
	assert.InDelta(t, 890, first.TotalBalance, 1e-9)
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestSimulate_TerminatesForReasonableMinimums(t *testing.T) {
	cases := []struct {
		name  string
		debts []payoff.Debt
		extra float64
	}{
		{"single low rate", []payoff.Debt{debt("a", 10000, 5, 200)}, 0},
		{"mixed minimums only", mixedDebts(), 0},
		{"mixed with extra", mixedDebts(), 400},
		{"zero rates", []payoff.Debt{debt("a", 5000, 0, 100), debt("b", 300, 0, 25)}, 0},
		{"two percent minimums", []payoff.Debt{debt("a", 8000, 9.9, 160), debt("b", 2500, 7, 50)}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, s := range payoff.Strategies {
				schedule := payoff.Simulate(tc.debts, s, tc.extra, jan2024())
				assert.Less(t, len(schedule), payoff.MaxMonths, "strategy %s", s)
				assert.True(t, payoff.Resolved(schedule), "strategy %s", s)
			}
		})
	}
}

func TestSimulate_TotalBalanceNeverIncreases(t *testing.T) {
	for _, s := range payoff.Strategies {
		for _, extra := range []float64{0, 50, 500} {
			schedule := payoff.Simulate(mixedDebts(), s, extra, jan2024())
			for i := 1; i < len(schedule); i++ {
				assert.LessOrEqual(t, schedule[i].TotalBalance, schedule[i-1].TotalBalance,
					"strategy %s extra %v month %d", s, extra, i)
			}
			for i := 1; i < len(schedule); i++ {
				for _, d := range schedule[i].Debts {
					prev := findDebt(t, schedule[i-1].Debts, d.ID)
					assert.LessOrEqual(t, d.Balance, prev.Balance)
				}
			}
		}
	}
}

func TestSimulate_PaymentsConserveBalancePlusInterest(t *testing.T) {
	for _, s := range payoff.Strategies {
		debts := mixedDebts()
		schedule := payoff.Simulate(debts, s, 250, jan2024())

		var initial, interest, paid float64
		for _, d := range debts {
			initial += d.Balance
		}
		for n, snap := range schedule {
			for _, d := range startOfMonth(debts, schedule, n) {
				interest += d.MonthlyInterest()
			}
			paid += snap.TotalPaid()
		}

		// Retired dust (at most one epsilon per debt) is never paid
		assert.InDelta(t, initial+interest, paid, payoff.RetiredEpsilon*float64(len(debts)), "strategy %s", s)
	}
}

func TestSimulate_PaymentNeverExceedsBalancePlusInterest(t *testing.T) {
	debts := mixedDebts()
	schedule := payoff.Simulate(debts, payoff.StrategySnowball, 900, jan2024())

	for n, snap := range schedule {
		for _, d := range startOfMonth(debts, schedule, n) {
			p, ok := snap.Payment(d.ID)
			require.True(t, ok, "month %d: missing payment for %s", n, d.ID)
			assert.LessOrEqual(t, p.Amount, d.Balance+d.MonthlyInterest()+1e-9)
		}
		for _, d := range snap.Debts {
			assert.GreaterOrEqual(t, d.Balance, 0.0)
		}
	}
}

func TestSimulate_ExtraTargetFollowsStrategy(t *testing.T) {
	// Distinct balances and distinct rates keep every ranking unambiguous
	debts := []payoff.Debt{
		debt("a", 4100, 11, 80),
		debt("b", 1300, 24, 45),
		debt("c", 7600, 17, 150),
		debt("d", 2750, 6, 60),
	}

	for _, s := range payoff.Strategies {
		schedule := payoff.Simulate(debts, s, 150, jan2024())

		for n, snap := range schedule {
			// Reconstruct balances after minimums for this month
			var best *payoff.Debt
			for _, d := range startOfMonth(debts, schedule, n) {
				d := d
				d.Balance += d.MonthlyInterest()
				d.Balance -= min(d.MinimumPayment, d.Balance)
				if d.Retired() {
					continue
				}
				if best == nil || s.Less(d, *best) {
					best = &d
				}
			}
			if best == nil {
				continue
			}

			p, ok := snap.Payment(best.ID)
			require.True(t, ok)
			assert.True(t, p.IsExtra, "strategy %s month %d: extra should go to %s", s, n, best.ID)

			extras := 0
			for _, pay := range snap.Payments {
				if pay.IsExtra {
					extras++
				}
			}
			assert.Equal(t, 1, extras, "strategy %s month %d", s, n)
		}
	}
}

func findDebt(t *testing.T, debts []payoff.Debt, id string) payoff.Debt {
	t.Helper()
	for _, d := range debts {
		if d.ID == id {
			return d
		}
	}
	t.Fatalf("debt %s not found", id)
	return payoff.Debt{}
}
