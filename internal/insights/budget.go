package insights

import (
	"github.com/lmcosta/financas-familia/internal/domain"
)

// Fixed 50/30/20 targets, as a share of total monthly income.
const (
	EssentialsTarget  = 0.50
	LifestyleTarget   = 0.30
	InvestmentsTarget = 0.20
)

// GroupStatus says how a bucket compares to its target.
type GroupStatus string

const (
	StatusOK       GroupStatus = "ok"
	StatusExceeded GroupStatus = "exceeded"
	StatusBelow    GroupStatus = "below"
)

// GroupResult is one bucket of the 50/30/20 analysis.
type GroupResult struct {
	Projected        float64     `json:"projetado"`
	Realized         float64     `json:"realizado"`
	DeviationPercent float64     `json:"desvio_percentual"`
	Status           GroupStatus `json:"status"`
}

// BudgetRuleResult is the full 50/30/20 analysis for one month.
type BudgetRuleResult struct {
	Essentials  GroupResult `json:"essenciais"`
	Lifestyle   GroupResult `json:"estilo_vida"`
	Investments GroupResult `json:"investimentos"`
	HealthScore float64     `json:"pontuacao_saude"`
}

// BudgetRule computes the 50/30/20 allocation against actual income and
// spending. With zero income every projected amount is 0, every deviation is
// defined as 0 and the score stays at 100: no target means no violation.
func BudgetRule(income float64, spend domain.GroupAmounts) BudgetRuleResult {
	essentials := groupResult(income*EssentialsTarget, spend.Essentials, false)
	lifestyle := groupResult(income*LifestyleTarget, spend.Lifestyle, false)
	investments := groupResult(income*InvestmentsTarget, spend.Investments, true)

	score := 100.0
	if essentials.DeviationPercent > 0 {
		score -= min(30, essentials.DeviationPercent)
	}
	if lifestyle.DeviationPercent > 0 {
		score -= min(20, lifestyle.DeviationPercent)
	}
	if investments.DeviationPercent < 0 {
		score -= min(30, -investments.DeviationPercent)
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return BudgetRuleResult{
		Essentials:  essentials,
		Lifestyle:   lifestyle,
		Investments: investments,
		HealthScore: score,
	}
}

// groupResult derives one bucket. For spending buckets going over the target
// is the bad case; for investments it is staying under.
func groupResult(projected, realized float64, invert bool) GroupResult {
	deviation := 0.0
	if projected > 0 {
		deviation = (realized - projected) / projected * 100
	}

	status := StatusOK
	if invert {
		if realized < projected {
			status = StatusBelow
		}
	} else {
		if realized > projected {
			status = StatusExceeded
		}
	}

	return GroupResult{
		Projected:        projected,
		Realized:         realized,
		DeviationPercent: deviation,
		Status:           status,
	}
}

// MonthlySpendByGroup buckets a month's expense and investment transactions
// into the three 50/30/20 groups using the owner's categories. Transactions
// without a known category land in domain.DefaultGroup.
func MonthlySpendByGroup(txs []domain.Transaction, categories []domain.Category) domain.GroupAmounts {
	var spend domain.GroupAmounts
	for _, t := range txs {
		if t.Kind != domain.KindExpense && t.Kind != domain.KindInvestment {
			continue
		}
		switch domain.GroupOf(t.CategoryID, categories) {
		case domain.GroupEssential:
			spend.Essentials += t.Amount
		case domain.GroupInvestment:
			spend.Investments += t.Amount
		default:
			spend.Lifestyle += t.Amount
		}
	}
	return spend
}
