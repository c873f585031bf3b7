package payoff

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Strategy selects the order in which debts are ranked each month.
// The first-ranked open debt receives the whole extra payment.
type Strategy string

const (
	// StrategySnowball pays the smallest balance first (fastest payoff first).
	// Ties go to the higher interest rate.
	StrategySnowball Strategy = "snowball"

	// StrategyAvalanche pays the highest interest rate first (highest cost first).
	// Ties go to the smaller balance.
	StrategyAvalanche Strategy = "avalanche"
)

// Strategies lists every supported strategy in display order.
var Strategies = []Strategy{StrategySnowball, StrategyAvalanche}

// ErrUnknownStrategy is returned by ParseStrategy for unrecognized names.
var ErrUnknownStrategy = errors.New("unknown payoff strategy")

// ParseStrategy maps a user-supplied name onto a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "snowball", "fastest-payoff-first":
		return StrategySnowball, nil
	case "avalanche", "highest-cost-first":
		return StrategyAvalanche, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Less reports whether a ranks ahead of b under the strategy.
// Anything that is not StrategySnowball orders like StrategyAvalanche.
func (s Strategy) Less(a, b Debt) bool {
	if s == StrategySnowball {
		if a.Balance == b.Balance {
			return a.InterestRate > b.InterestRate
		}
		return a.Balance < b.Balance
	}
	if a.InterestRate == b.InterestRate {
		return a.Balance < b.Balance
	}
	return a.InterestRate > b.InterestRate
}

// Sort orders debts in place. The sort is stable so equal keys keep their
// previous relative order from month to month.
func (s Strategy) Sort(debts []Debt) {
	sort.SliceStable(debts, func(i, j int) bool {
		return s.Less(debts[i], debts[j])
	})
}

func (s Strategy) String() string { return string(s) }
