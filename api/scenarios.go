/*
scenarios.go - Demo debt sets for testing and demonstrations

PURPOSE:

	Provides pre-built debt sets that replace the repository contents with
	realistic data. Each set highlights a different planning situation.

AVAILABLE SCENARIOS:

	credit-cards:      Three cards with similar rates, snowball vs avalanche close
	student-and-auto:  Large low-rate loans plus one expensive card
	mixed-household:   Full household with a quick win and a refinance candidate
	underwater:        A card whose minimum does not cover interest (never resolves)

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "mixed-household"}

NOTE:

	Loading a scenario replaces all stored debts.

SEE ALSO:
  - handlers.go: Handler and error helpers
  - debts/memory.go: Replace and Reset
*/
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/warp/debt-planner/payoff"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ScenarioDTO
	debts []payoff.Debt
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "credit-cards",
			Name:        "Credit Cards",
			Description: "Three revolving cards with similar rates",
		},
		debts: []payoff.Debt{
			{ID: "cc-visa", Name: "Visa", Balance: 4200, InterestRate: 21.99, MinimumPayment: 126, DueDay: 5},
			{ID: "cc-master", Name: "Mastercard", Balance: 1850, InterestRate: 19.49, MinimumPayment: 55, DueDay: 12},
			{ID: "cc-store", Name: "Department store", Balance: 640, InterestRate: 26.99, MinimumPayment: 35, DueDay: 28},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "student-and-auto",
			Name:        "Student & Auto Loans",
			Description: "Large amortizing loans plus one expensive card",
		},
		debts: []payoff.Debt{
			{ID: "sl-federal", Name: "Federal student loan", Balance: 24500, InterestRate: 5.5, MinimumPayment: 265, DueDay: 1},
			{ID: "auto", Name: "Auto loan", Balance: 14800, InterestRate: 7.9, MinimumPayment: 360, DueDay: 15},
			{ID: "cc-rewards", Name: "Rewards card", Balance: 2300, InterestRate: 24.9, MinimumPayment: 69, DueDay: 20},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "mixed-household",
			Name:        "Mixed Household",
			Description: "Cards, a personal loan and medical debt with a quick win",
		},
		debts: []payoff.Debt{
			{ID: "hh-card", Name: "Credit card", Balance: 6800, InterestRate: 23.5, MinimumPayment: 204, DueDay: 3},
			{ID: "hh-personal", Name: "Personal loan", Balance: 9500, InterestRate: 11.0, MinimumPayment: 310, DueDay: 10},
			{ID: "hh-medical", Name: "Medical bill", Balance: 450, InterestRate: 0, MinimumPayment: 90, DueDay: 18},
			{ID: "hh-furniture", Name: "Furniture financing", Balance: 1900, InterestRate: 29.99, MinimumPayment: 95, DueDay: 25},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "underwater",
			Name:        "Underwater Card",
			Description: "Minimum payment below monthly interest; the plan hits the month ceiling",
		},
		debts: []payoff.Debt{
			{ID: "uw-card", Name: "Maxed card", Balance: 15000, InterestRate: 29.99, MinimumPayment: 300, DueDay: 7},
		},
	},
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

func (h *Handler) scenario() string {
	h.scenarioMu.RLock()
	defer h.scenarioMu.RUnlock()
	return h.currentScenario
}

func (h *Handler) setScenario(id string) {
	h.scenarioMu.Lock()
	h.currentScenario = id
	h.scenarioMu.Unlock()
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = s.ScenarioDTO
		dtos[i].DebtCount = len(s.debts)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentScenario returns the last loaded scenario, or null.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	s, ok := findScenario(h.scenario())
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	dto := s.ScenarioDTO
	dto.DebtCount = len(s.debts)
	writeJSON(w, http.StatusOK, dto)
}

// LoadScenario replaces the stored debts with a demo set.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, ok := findScenario(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	if err := h.Debts.Replace(r.Context(), s.debts); err != nil {
		writeDomainError(w, "Failed to load scenario", err)
		return
	}
	h.setScenario(s.ID)
	log.Printf("[Scenarios] Loaded %s (%d debts)", s.ID, len(s.debts))

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "loaded",
		"scenario": s.ID,
		"debts":    len(s.debts),
	})
}

// ResetDebts clears every stored debt.
func (h *Handler) ResetDebts(w http.ResponseWriter, r *http.Request) {
	if err := h.Debts.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset debts", err)
		return
	}
	h.setScenario("")
	log.Println("[Scenarios] Debts reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
