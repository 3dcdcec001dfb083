package insights

// MonthOutcome is one prior month's projected and actual balance.
type MonthOutcome struct {
	Projected float64 `json:"projetado"`
	Actual    float64 `json:"realizado"`
}

// ProjectionInput is everything the month-end projection needs, already
// aggregated by the caller.
type ProjectionInput struct {
	DayOfMonth      int
	DaysInMonth     int
	Income          float64
	ExpensesToDate  float64
	AvgDailyExpense float64
	History         []MonthOutcome
}

// ProjectionStatus classifies the projected end-of-month balance.
type ProjectionStatus string

const (
	ProjectionOK      ProjectionStatus = "ok"
	ProjectionWarning ProjectionStatus = "warning"
	ProjectionDanger  ProjectionStatus = "danger"
)

// Projection is the month-end extrapolation.
type Projection struct {
	RemainingDays          int              `json:"dias_restantes"`
	ProjectedAdditional    float64          `json:"gasto_adicional_projetado"`
	ProjectedTotalExpenses float64          `json:"gasto_total_projetado"`
	ProjectedBalance       float64          `json:"saldo_projetado"`
	Status                 ProjectionStatus `json:"status"`

	// ComparisonPercent is the difference against the historical average
	// balance; nil when history is empty or averages to zero.
	ComparisonPercent *float64 `json:"comparacao_historica,omitempty"`
}

// ProjectMonthEnd extrapolates the daily spending rate to the end of the
// month. A projected balance in the red is danger; anything under 10% of
// income is a tight warning; the rest is on track.
func ProjectMonthEnd(in ProjectionInput) Projection {
	remaining := in.DaysInMonth - in.DayOfMonth
	if remaining < 0 {
		remaining = 0
	}

	additional := in.AvgDailyExpense * float64(remaining)
	totalExpenses := in.ExpensesToDate + additional
	balance := in.Income - totalExpenses

	status := ProjectionOK
	switch {
	case balance < 0:
		status = ProjectionDanger
	case balance < in.Income*0.10:
		status = ProjectionWarning
	}

	p := Projection{
		RemainingDays:          remaining,
		ProjectedAdditional:    additional,
		ProjectedTotalExpenses: totalExpenses,
		ProjectedBalance:       balance,
		Status:                 status,
	}

	if len(in.History) > 0 {
		sum := 0.0
		for _, m := range in.History {
			sum += m.Actual
		}
		avg := sum / float64(len(in.History))
		if avg != 0 {
			diff := (balance - avg) / avg * 100
			p.ComparisonPercent = &diff
		}
	}

	return p
}
