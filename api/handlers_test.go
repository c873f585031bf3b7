/*
handlers_test.go - HTTP tests for the planner API

Tests for:
- Debt CRUD status codes
- Plan, compare and export endpoints
- Suggestions, run history and scenarios
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/debt-planner/cache"
	"github.com/warp/debt-planner/debts"
	"github.com/warp/debt-planner/planner"
	"github.com/warp/debt-planner/store/sqlstore"
)

type testServer struct {
	router http.Handler
	store  *sqlstore.Store
	repo   *debts.Memory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := sqlstore.New(sqlstore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	repo := debts.NewMemory()
	p := planner.New(repo)
	p.Cache = cache.NewMemory(time.Hour)
	p.Runs = store

	h := NewHandler(p, store)
	return &testServer{router: NewRouter(h, nil), store: store, repo: repo}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func cardDTO() DebtDTO {
	return DebtDTO{ID: "card", Name: "Card", Balance: 1200, InterestRate: 12, MinimumPayment: 100, DueDay: 5}
}

// =============================================================================
// DEBTS
// =============================================================================

func TestDebts_CRUD(t *testing.T) {
	ts := newTestServer(t)

	// GIVEN: A new debt
	rec := ts.do(t, http.MethodPost, "/api/debts", cardDTO())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[DebtDTO](t, rec)
	assert.Equal(t, "card", created.ID)

	// WHEN: It is read back
	rec = ts.do(t, http.MethodGet, "/api/debts/card", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, cardDTO(), decode[DebtDTO](t, rec))

	rec = ts.do(t, http.MethodGet, "/api/debts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]DebtDTO](t, rec), 1)

	// THEN: Deleting it empties the list
	rec = ts.do(t, http.MethodDelete, "/api/debts/card", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/debts", nil)
	assert.Empty(t, decode[[]DebtDTO](t, rec))
}

func TestDebts_ErrorStatuses(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/api/debts", cardDTO())

	rec := ts.do(t, http.MethodPost, "/api/debts", cardDTO())
	assert.Equal(t, http.StatusConflict, rec.Code)

	bad := cardDTO()
	bad.ID = "bad"
	bad.DueDay = 40
	rec = ts.do(t, http.MethodPost, "/api/debts", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Details, "due_day")

	rec = ts.do(t, http.MethodGet, "/api/debts/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/debts/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/debts", strings.NewReader("{not json"))
	recorder := httptest.NewRecorder()
	ts.router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

// =============================================================================
// PLANS
// =============================================================================

func TestPlan_SingleDebt(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/api/debts", cardDTO())

	// WHEN: Planning with no extra from a fixed start date
	rec := ts.do(t, http.MethodPost, "/api/plan", PlanRequest{Strategy: "snowball", StartDate: "2024-01-01"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[PlanResponse](t, rec)

	// THEN: 13 months, first month balance 1112, dates in YYYY-MM-DD
	assert.Equal(t, 13, resp.Summary.Months)
	assert.Equal(t, "2025-01-01", resp.Summary.DebtFreeDate)
	assert.True(t, resp.Summary.Resolved)
	require.Len(t, resp.Schedule, 13)
	assert.Equal(t, "2024-01-01", resp.Schedule[0].Date)
	assert.Equal(t, 1112.0, resp.Schedule[0].TotalBalance)
	assert.Equal(t, 100.0, resp.Schedule[0].Payments[0].Minimum)
	assert.Zero(t, resp.Schedule[0].Payments[0].Extra)
	assert.Len(t, resp.BalanceSeries, 13)
	assert.InDelta(t, 84.78, resp.Summary.TotalInterest, 0.01)
	assert.InDelta(t, 7.07, resp.Summary.InterestPercent, 0.01)
	assert.NotEmpty(t, resp.RunID)

	// THEN: The interest breakdown covers the card at 12% a year
	assert.Equal(t, 144.0, resp.Interest.TotalAnnualInterest)
	require.Len(t, resp.Interest.Debts, 1)
	assert.Equal(t, "card", resp.Interest.Debts[0].DebtID)
	assert.Equal(t, 100.0, resp.Interest.Debts[0].InterestShare)
}

func TestPlan_RequestDebtsAndCache(t *testing.T) {
	ts := newTestServer(t)
	body := PlanRequest{
		Debts:        []DebtDTO{cardDTO(), {Name: "Loan", Balance: 5000, InterestRate: 6, MinimumPayment: 150, DueDay: 1}},
		Strategy:     "avalanche",
		MonthlyExtra: 200,
		StartDate:    "2024-03-01",
	}

	first := decode[PlanResponse](t, ts.do(t, http.MethodPost, "/api/plan", body))
	second := decode[PlanResponse](t, ts.do(t, http.MethodPost, "/api/plan", body))

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Summary, second.Summary)

	// Extra goes to the higher rate debt first
	p := first.Schedule[0].Payments
	require.Len(t, p, 2)
	for _, pay := range p {
		if pay.DebtID == "card" {
			assert.True(t, pay.IsExtra)
			assert.Equal(t, 200.0, pay.Extra)
		}
	}
}

func TestPlan_DefaultStartDateIsNextMonth(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/api/debts", cardDTO())

	resp := decode[PlanResponse](t, ts.do(t, http.MethodPost, "/api/plan", nil))

	start, err := time.Parse(dateLayout, resp.StartDate)
	require.NoError(t, err)
	assert.Equal(t, 1, start.Day())
	assert.True(t, start.After(time.Now()))
}

func TestPlan_BadRequests(t *testing.T) {
	ts := newTestServer(t)

	cases := map[string]PlanRequest{
		"negative extra":   {MonthlyExtra: -5},
		"unknown strategy": {Strategy: "lottery"},
		"bad date":         {StartDate: "03/01/2024"},
		"invalid debt":     {Debts: []DebtDTO{{Name: "", Balance: 10, DueDay: 1}}},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/plan", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestPlan_EmptyRepository(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/plan", PlanRequest{})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[PlanResponse](t, rec)
	assert.Empty(t, resp.Schedule)
	assert.Zero(t, resp.Summary.Months)
	assert.Zero(t, resp.Summary.InterestPercent)
	assert.Empty(t, resp.Interest.Debts)
}

func TestComparePlans(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "credit-cards"})

	rec := ts.do(t, http.MethodPost, "/api/plan/compare", PlanRequest{MonthlyExtra: 150, StartDate: "2024-01-01"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[CompareResponse](t, rec)

	require.Len(t, resp.Summaries, 2)
	assert.Equal(t, "snowball", resp.Summaries[0].Strategy)
	assert.Equal(t, "avalanche", resp.Summaries[1].Strategy)
	assert.Equal(t, "avalanche", resp.Recommended)
	assert.GreaterOrEqual(t, resp.Savings, 0.0)
}

func TestExports(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/api/debts", cardDTO())

	rec := ts.do(t, http.MethodPost, "/api/plan/export/pdf", PlanRequest{StartDate: "2024-01-01"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "debt-payoff-plan.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = ts.do(t, http.MethodPost, "/api/plan/export/xlsx", PlanRequest{StartDate: "2024-01-01"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")

	rec = ts.do(t, http.MethodPost, "/api/plan/export/pdf", PlanRequest{MonthlyExtra: -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// SUGGESTIONS / HISTORY / SCENARIOS
// =============================================================================

func TestSuggestions_Languages(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "mixed-household"})

	en := decode[SuggestionsResponse](t, ts.do(t, http.MethodGet, "/api/suggestions", nil))
	es := decode[SuggestionsResponse](t, ts.do(t, http.MethodGet, "/api/suggestions?lang=es", nil))

	assert.Equal(t, "en", en.Language)
	assert.Equal(t, "es", es.Language)
	assert.NotEmpty(t, en.Suggestions)
	assert.Len(t, es.Suggestions, len(en.Suggestions))
	assert.NotEqual(t, en.Suggestions[0], es.Suggestions[0])
	assert.Equal(t, 18650.0, en.Analysis.TotalDebt)
}

func TestRuns_History(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/api/debts", cardDTO())

	plan := decode[PlanResponse](t, ts.do(t, http.MethodPost, "/api/plan", PlanRequest{StartDate: "2024-01-01"}))
	ts.do(t, http.MethodPost, "/api/plan", PlanRequest{StartDate: "2024-02-01"})

	rec := ts.do(t, http.MethodGet, "/api/runs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]RunDTO](t, rec), 2)

	rec = ts.do(t, http.MethodGet, "/api/runs?limit=1", nil)
	assert.Len(t, decode[[]RunDTO](t, rec), 1)

	rec = ts.do(t, http.MethodGet, "/api/runs/"+plan.RunID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	run := decode[RunDTO](t, rec)
	assert.Equal(t, 13, run.Months)
	assert.Equal(t, "2024-01-01", run.StartDate)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/runs/nope", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/runs?limit=x", nil).Code)
}

func TestScenarios(t *testing.T) {
	ts := newTestServer(t)

	list := decode[[]ScenarioDTO](t, ts.do(t, http.MethodGet, "/api/scenarios", nil))
	require.Len(t, list, len(scenarios))
	assert.Equal(t, 3, list[0].DebtCount)

	rec := ts.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "underwater"})
	require.Equal(t, http.StatusOK, rec.Code)

	current := decode[ScenarioDTO](t, ts.do(t, http.MethodGet, "/api/scenarios/current", nil))
	assert.Equal(t, "underwater", current.ID)

	// The underwater card never resolves: bounded by the month ceiling
	plan := decode[PlanResponse](t, ts.do(t, http.MethodPost, "/api/plan", PlanRequest{}))
	assert.False(t, plan.Summary.Resolved)
	assert.Equal(t, 601, plan.Summary.Months)

	rec = ts.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list2, err := ts.repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list2)
}

func TestScenarios_ConcurrentLoadAndRead(t *testing.T) {
	// GIVEN: Clients loading and reading scenarios at the same time
	ts := newTestServer(t)
	ids := []string{"credit-cards", "student-and-auto", "mixed-household"}

	// WHEN: They all run in parallel
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(2)
		go func(id string) {
			defer wg.Done()
			ts.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: id})
		}(ids[i%len(ids)])
		go func() {
			defer wg.Done()
			ts.do(t, http.MethodGet, "/api/scenarios/current", nil)
		}()
	}
	wg.Wait()

	// THEN: The current scenario is one of those loaded
	current := decode[ScenarioDTO](t, ts.do(t, http.MethodGet, "/api/scenarios/current", nil))
	assert.Contains(t, ids, current.ID)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
