package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/lmcosta/financas-familia/internal/domain"
)

// AlertLevel grades a goal alert. Danger outranks warning outranks info.
type AlertLevel string

const (
	AlertDanger  AlertLevel = "danger"
	AlertWarning AlertLevel = "warning"
	AlertInfo    AlertLevel = "info"
)

var alertPriority = map[AlertLevel]int{
	AlertDanger:  0,
	AlertWarning: 1,
	AlertInfo:    2,
}

// GoalAlert is one urgency-ranked notification about a goal.
type GoalAlert struct {
	GoalID        string     `json:"meta_id"`
	GoalName      string     `json:"meta"`
	Level         AlertLevel `json:"nivel"`
	Message       string     `json:"mensagem"`
	Progress      float64    `json:"progresso"`
	DaysRemaining *int       `json:"dias_restantes,omitempty"`
}

// GoalAlerts derives alerts for the active goals, ranks them danger first and
// returns at most three. Goals that tie on level keep their input order. The
// first matching rule wins per goal:
//
//  1. deadline already passed → danger
//  2. at most 7 days left and not done → danger
//  3. at most 30 days left and under 80% → warning
//  4. no pressing deadline but progress in [90,100) → info
func GoalAlerts(goals []domain.Goal, now time.Time) []GoalAlert {
	var alerts []GoalAlert

	for _, g := range goals {
		if !g.Active {
			continue
		}

		progress := Percentage(g.CurrentAmount, g.TargetAmount)

		var days *int
		if g.Deadline != nil {
			d := int(math.Ceil(g.Deadline.Sub(now).Hours() / 24))
			days = &d
		}

		alert := GoalAlert{GoalID: g.ID, GoalName: g.Name, Progress: progress, DaysRemaining: days}

		switch {
		case days != nil && *days < 0:
			alert.Level = AlertDanger
			alert.Message = fmt.Sprintf("Prazo da meta %q expirado", g.Name)
		case days != nil && *days <= 7 && progress < 100:
			alert.Level = AlertDanger
			alert.Message = fmt.Sprintf("%s para a meta %q", formatDays(*days), g.Name)
		case days != nil && *days <= 30 && progress < 80:
			alert.Level = AlertWarning
			alert.Message = fmt.Sprintf("%d dias restantes para a meta %q", *days, g.Name)
		case (days == nil || *days > 30) && progress >= 90 && progress < 100:
			alert.Level = AlertInfo
			alert.Message = fmt.Sprintf("Quase lá! Meta %q em %.0f%%", g.Name, progress)
		default:
			continue
		}

		alerts = append(alerts, alert)
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alertPriority[alerts[i].Level] < alertPriority[alerts[j].Level]
	})

	if len(alerts) > 3 {
		alerts = alerts[:3]
	}
	return alerts
}

func formatDays(n int) string {
	if n == 1 {
		return "1 dia restante"
	}
	return fmt.Sprintf("%d dias restantes", n)
}
