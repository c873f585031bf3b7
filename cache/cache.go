/*
Package cache memoizes payoff schedules.

PURPOSE:
  A schedule only changes when the debts, the strategy, the extra amount or
  the start date change. Key() hashes exactly those inputs so a repeated
  request is served without re-running the simulation.

IMPLEMENTATIONS:
  - Memory: process-local map with TTL
  - Redis:  shared cache through go-redis

KEY FORMAT:
  payoff:schedule:<16 hex digits of xxhash64>
*/
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/warp/debt-planner/payoff"
)

const keyPrefix = "payoff:schedule:"

// Cache stores encoded schedules by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// keyInput is the canonical form hashed by Key. Field order is fixed by the
// struct so the encoding is stable.
type keyInput struct {
	Debts    []payoff.Debt   `json:"debts"`
	Strategy payoff.Strategy `json:"strategy"`
	Extra    float64         `json:"extra"`
	Start    string          `json:"start"`
}

// Key derives the cache key for one simulation input.
func Key(debts []payoff.Debt, strategy payoff.Strategy, extra float64, start time.Time) string {
	if debts == nil {
		debts = []payoff.Debt{}
	}
	raw, err := json.Marshal(keyInput{
		Debts:    debts,
		Strategy: strategy,
		Extra:    extra,
		Start:    start.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		// NaN or Inf; such inputs are not cached.
		return ""
	}
	return fmt.Sprintf("%s%016x", keyPrefix, xxhash.Sum64(raw))
}
