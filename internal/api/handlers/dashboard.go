package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/lmcosta/financas-familia/internal/api/middleware"
	"github.com/lmcosta/financas-familia/internal/domain"
	"github.com/lmcosta/financas-familia/internal/insights"
	"github.com/lmcosta/financas-familia/internal/store"
)

// DashboardHandler serves the computed dashboard endpoints: budget rule,
// allocation, goal alerts and the month-end projection.
type DashboardHandler struct {
	store store.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewDashboardHandler creates the handler.
func NewDashboardHandler(st store.Store, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{store: st, log: log, now: time.Now}
}

// monthRange resolves the optional ?month=YYYY-MM parameter to the month's
// first and last day, defaulting to the current month.
func (h *DashboardHandler) monthRange(r *http.Request) (start, end time.Time, ok bool) {
	param := r.URL.Query().Get("month")
	if param == "" {
		now := h.now().UTC()
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		parsed, err := time.Parse("2006-01", param)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		start = parsed
	}
	end = start.AddDate(0, 1, 0).Add(-24 * time.Hour)
	return start, end, true
}

// BudgetRule handles GET /api/dashboard/budget-rule?month=YYYY-MM.
func (h *DashboardHandler) BudgetRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	start, end, ok := h.monthRange(r)
	if !ok {
		middleware.WriteError(w, http.StatusBadRequest, "Parâmetro month inválido, use YYYY-MM")
		return
	}

	profile, err := h.store.GetProfile(ctx, identity.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load profile")
		middleware.WriteError(w, http.StatusInternalServerError, "Erro ao calcular orçamento")
		return
	}
	income := 0.0
	if profile != nil {
		income = profile.MonthlyIncome
	}

	categories, err := h.store.ListCategories(ctx, identity.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list categories")
		middleware.WriteError(w, http.StatusInternalServerError, "Erro ao calcular orçamento")
		return
	}

	txs, err := h.store.ListTransactionsByDateRange(ctx, identity.UserID, start, end)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Erro ao calcular orçamento")
		return
	}

	spend := insights.MonthlySpendByGroup(txs, categories)
	result := insights.BudgetRule(income, spend)

	middleware.WriteJSON(w, http.StatusOK, struct {
		Month string `json:"mes"`
		insights.BudgetRuleResult
	}{start.Format("2006-01"), result})
}

// Allocation handles GET /api/dashboard/allocation.
func (h *DashboardHandler) Allocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	profile, err := h.store.GetProfile(ctx, identity.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load profile")
		middleware.WriteError(w, http.StatusInternalServerError, "Erro ao calcular alocação")
		return
	}
	var targets map[domain.InvestmentType]float64
	if profile != nil {
		targets = profile.AllocationTargets
	}

	holdings, err := h.store.ListInvestments(ctx, identity.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list investments")
		middleware.WriteError(w, http.StatusInternalServerError, "Erro ao calcular alocação")
		return
	}

	entries, suggestions := insights.Allocation(holdings, targets)

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"carteira":  entries,
		"sugestoes": suggestions,
	})
}

// GoalAlerts handles GET /api/dashboard/goal-alerts.
func (h *DashboardHandler) GoalAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	goals, err := h.store.ListGoals(ctx, identity.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list goals")
		middleware.WriteError(w, http.StatusInternalServerError, "Erro ao calcular alertas")
		return
	}

	alerts := insights.GoalAlerts(goals, h.now())

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"alertas": alerts,
	})
}

// Projection handles GET /api/dashboard/projection?month=YYYY-MM.
func (h *DashboardHandler) Projection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	start, end, ok := h.monthRange(r)
	if !ok {
		middleware.WriteError(w, http.StatusBadRequest, "Parâmetro month inválido, use YYYY-MM")
		return
	}

	profile, err := h.store.GetProfile(ctx, identity.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load profile")
		middleware.WriteError(w, http.StatusInternalServerError, "Erro ao calcular projeção")
		return
	}
	income := 0.0
	if profile != nil {
		income = profile.MonthlyIncome
	}

	txs, err := h.store.ListTransactionsByDateRange(ctx, identity.UserID, start, end)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Erro ao calcular projeção")
		return
	}

	budgets, err := h.store.ListBudgets(ctx, identity.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list budgets")
		middleware.WriteError(w, http.StatusInternalServerError, "Erro ao calcular projeção")
		return
	}

	input := projectionInput(h.now().UTC(), start, end, income, txs, budgets)
	projection := insights.ProjectMonthEnd(input)

	middleware.WriteJSON(w, http.StatusOK, struct {
		Month string `json:"mes"`
		insights.Projection
	}{start.Format("2006-01"), projection})
}

// projectionInput aggregates a month's raw data into the projection inputs.
// For past months the whole month is elapsed; for the current month only the
// days up to today count toward the daily average. History comes from stored
// month records, capped at the six most recent.
func projectionInput(now, start, end time.Time, income float64, txs []domain.Transaction, budgets []domain.Budget) insights.ProjectionInput {
	daysInMonth := end.Day()

	day := daysInMonth
	if now.Year() == start.Year() && now.Month() == start.Month() {
		day = now.Day()
	}

	expenses := 0.0
	for _, t := range txs {
		if t.Kind == domain.KindExpense || t.Kind == domain.KindInvestment {
			expenses += t.Amount
		}
	}

	avg := 0.0
	if day > 0 {
		avg = expenses / float64(day)
	}

	monthKey := start.Format("2006-01")
	var history []insights.MonthOutcome
	for _, b := range budgets {
		if b.Month == monthKey {
			continue
		}
		projSpend := b.Projected.Essentials + b.Projected.Lifestyle + b.Projected.Investments
		realSpend := b.Realized.Essentials + b.Realized.Lifestyle + b.Realized.Investments
		history = append(history, insights.MonthOutcome{
			Projected: income - projSpend,
			Actual:    income - realSpend,
		})
		if len(history) == 6 {
			break
		}
	}

	return insights.ProjectionInput{
		DayOfMonth:      day,
		DaysInMonth:     daysInMonth,
		Income:          income,
		ExpensesToDate:  expenses,
		AvgDailyExpense: avg,
		History:         history,
	}
}
