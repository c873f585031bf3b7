/*
handlers.go - HTTP API handlers for the debt payoff planner

PURPOSE:
  Exposes the debt repository, the planner and the report writers via a
  REST API. Handles HTTP request/response, JSON serialization, and
  delegates to the planner.

ENDPOINTS:
  Debts:
    GET    /api/debts                List debts
    POST   /api/debts                Add a debt
    GET    /api/debts/{id}           Get one debt
    DELETE /api/debts/{id}           Remove a debt

  Plans:
    POST   /api/plan                 Schedule + summary
    POST   /api/plan/compare         Summary for every strategy
    POST   /api/plan/export/pdf      PDF report
    POST   /api/plan/export/xlsx     Spreadsheet report

  Advice / history:
    GET    /api/suggestions?lang=    Advisory text
    GET    /api/runs?limit=          Recent plan runs
    GET    /api/runs/{id}            One plan run

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (duplicate debt ID)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo debt sets
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/debt-planner/advisor"
	"github.com/warp/debt-planner/debts"
	"github.com/warp/debt-planner/payoff"
	"github.com/warp/debt-planner/planner"
	"github.com/warp/debt-planner/report"
	"github.com/warp/debt-planner/store/sqlstore"
)

// RunHistory reads stored plan runs. *sqlstore.Store satisfies it.
type RunHistory interface {
	ListRuns(ctx context.Context, limit int) ([]sqlstore.Run, error)
	GetRun(ctx context.Context, id string) (*sqlstore.Run, error)
}

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Debts   debts.Repository
	Planner *planner.Planner
	Runs    RunHistory // nil disables /api/runs

	Language     advisor.Language
	HistoryLimit int

	// Track currently loaded scenario
	scenarioMu      sync.RWMutex
	currentScenario string
}

// NewHandler creates a handler around a planner and its repository.
func NewHandler(p *planner.Planner, runs RunHistory) *Handler {
	return &Handler{
		Debts:        p.Debts,
		Planner:      p,
		Runs:         runs,
		Language:     advisor.English,
		HistoryLimit: 50,
	}
}

// =============================================================================
// DEBT HANDLERS
// =============================================================================

// ListDebts returns all stored debts in insertion order.
func (h *Handler) ListDebts(w http.ResponseWriter, r *http.Request) {
	list, err := h.Debts.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list debts", err)
		return
	}

	dtos := make([]DebtDTO, len(list))
	for i, d := range list {
		dtos[i] = toDebtDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetDebt returns one debt.
func (h *Handler) GetDebt(w http.ResponseWriter, r *http.Request) {
	d, err := h.Debts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Debt not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toDebtDTO(d))
}

// CreateDebt adds a debt. The ID is generated when omitted.
func (h *Handler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	var req DebtDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	d, err := h.Debts.Add(r.Context(), fromDebtDTO(req))
	if err != nil {
		writeDomainError(w, "Failed to add debt", err)
		return
	}
	writeJSON(w, http.StatusCreated, toDebtDTO(d))
}

// DeleteDebt removes a debt.
func (h *Handler) DeleteDebt(w http.ResponseWriter, r *http.Request) {
	if err := h.Debts.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to remove debt", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PLAN HANDLERS
// =============================================================================

// Plan computes the month-by-month schedule.
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	res, ok := h.computePlan(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, PlanResponse{
		RunID:         res.RunID,
		Cached:        res.Cached,
		StartDate:     formatDate(res.StartDate),
		Summary:       toSummaryDTO(res.Summary),
		Interest:      toInterestDTO(report.InterestBreakdown(res.Debts)),
		BalanceSeries: toBalancePointDTOs(payoff.BalanceSeries(res.Schedule)),
		Schedule:      toScheduleDTOs(res.Debts, res.Schedule),
	})
}

// ComparePlans summarizes every strategy for the same inputs.
func (h *Handler) ComparePlans(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePlanRequest(w, r)
	if !ok {
		return
	}

	summaries, err := h.Planner.Compare(r.Context(), req)
	if err != nil {
		writeDomainError(w, "Failed to compare strategies", err)
		return
	}

	resp := CompareResponse{Summaries: make([]SummaryDTO, len(summaries))}
	best := -1
	for i, s := range summaries {
		resp.Summaries[i] = toSummaryDTO(s)
		if s.Months > 0 && (best < 0 || s.TotalInterest < summaries[best].TotalInterest) {
			best = i
		}
	}
	if best >= 0 {
		resp.Recommended = string(summaries[best].Strategy)
		var worst float64
		for _, s := range summaries {
			worst = max(worst, s.TotalInterest)
		}
		resp.Savings = report.RoundCents(worst - summaries[best].TotalInterest)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ExportPDF renders the plan as a PDF document.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "application/pdf", "pdf", report.WritePDF)
}

// ExportXLSX renders the plan as a spreadsheet.
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", report.WriteXLSX)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, contentType, ext string, write func(w io.Writer, p report.Plan) error) {
	res, ok := h.computePlan(w, r)
	if !ok {
		return
	}

	plan := report.Plan{
		Debts:        res.Debts,
		Schedule:     res.Schedule,
		Strategy:     res.Summary.Strategy,
		MonthlyExtra: res.Summary.MonthlyExtra,
		StartDate:    res.StartDate,
	}

	// Render fully before writing headers so a failure can still be a 500.
	var buf bytes.Buffer
	if err := write(&buf, plan); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render report", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="debt-payoff-plan.%s"`, ext))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) computePlan(w http.ResponseWriter, r *http.Request) (*planner.PlanResult, bool) {
	req, ok := decodePlanRequest(w, r)
	if !ok {
		return nil, false
	}

	res, err := h.Planner.Plan(r.Context(), req)
	if err != nil {
		writeDomainError(w, "Failed to compute plan", err)
		return nil, false
	}
	return res, true
}

func decodePlanRequest(w http.ResponseWriter, r *http.Request) (planner.PlanRequest, bool) {
	var body PlanRequest
	// An empty body plans the stored debts with defaults.
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return planner.PlanRequest{}, false
	}

	req := planner.PlanRequest{
		Strategy:     body.Strategy,
		MonthlyExtra: body.MonthlyExtra,
	}
	if body.Debts != nil {
		req.Debts = make([]payoff.Debt, len(body.Debts))
		for i, d := range body.Debts {
			req.Debts[i] = fromDebtDTO(d)
		}
	}
	if body.StartDate != "" {
		start, err := time.Parse(dateLayout, body.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start_date (expected YYYY-MM-DD)", err)
			return planner.PlanRequest{}, false
		}
		req.StartDate = start
	}
	return req, true
}

// =============================================================================
// SUGGESTIONS / HISTORY
// =============================================================================

// GetSuggestions returns advisory text for the stored debts.
func (h *Handler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	lang := h.Language
	if q := r.URL.Query().Get("lang"); q != "" {
		lang = advisor.ParseLanguage(q)
	}

	analysis, lines, err := h.Planner.Suggestions(r.Context(), lang)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to analyze debts", err)
		return
	}
	writeJSON(w, http.StatusOK, SuggestionsResponse{
		Language:    string(lang),
		Suggestions: lines,
		Analysis:    analysis,
	})
}

// ListRuns returns the most recent plan runs.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.Runs == nil {
		writeJSON(w, http.StatusOK, []RunDTO{})
		return
	}

	limit := h.HistoryLimit
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = min(n, h.HistoryLimit)
	}

	runs, err := h.Runs.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRun returns one stored plan run.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.Runs == nil {
		writeError(w, http.StatusNotFound, "Run history is disabled", nil)
		return
	}

	run, err := h.Runs.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get run", err)
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "Run not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(*run))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps repository and planner errors to a status code.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, statusFor(err), message, err)
}

func statusFor(err error) int {
	switch {
	case debts.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, debts.ErrDuplicateDebt):
		return http.StatusConflict
	case debts.IsClientError(err),
		errors.Is(err, planner.ErrNegativeExtra),
		errors.Is(err, planner.ErrInvalidExtra),
		errors.Is(err, payoff.ErrUnknownStrategy):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
