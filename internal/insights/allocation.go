package insights

import (
	"fmt"
	"sort"

	"github.com/lmcosta/financas-familia/internal/domain"
)

// Tolerance bands for rebalancing advice, in percentage points. Inside the
// balanced band nothing is said; between the two bands nothing is said either,
// so advice does not flip-flop on small drifts.
const (
	balancedBand = 2.0
	actionBand   = 5.0
)

// AllocationEntry is one asset class of the portfolio breakdown.
type AllocationEntry struct {
	Type           domain.InvestmentType `json:"tipo"`
	Value          float64               `json:"valor"`
	PercentOfTotal float64               `json:"percentual"`
	TargetPercent  *float64              `json:"alvo,omitempty"`
	Deviation      float64               `json:"desvio"`
}

// SuggestionLevel grades a rebalancing suggestion.
type SuggestionLevel string

const (
	SuggestionWarning SuggestionLevel = "warning"
	SuggestionInfo    SuggestionLevel = "info"
	SuggestionSuccess SuggestionLevel = "success"
)

// Suggestion is one piece of rebalancing advice.
type Suggestion struct {
	Level   SuggestionLevel       `json:"nivel"`
	Type    domain.InvestmentType `json:"tipo,omitempty"`
	Message string                `json:"mensagem"`
}

// Allocation computes the current allocation per asset class against the
// configured targets and derives rebalancing suggestions. Classes with a
// target but no holdings still show up, at zero value. A portfolio worth
// zero produces 0% everywhere rather than a division error.
func Allocation(holdings []domain.Investment, targets map[domain.InvestmentType]float64) ([]AllocationEntry, []Suggestion) {
	valueByType := make(map[domain.InvestmentType]float64)
	total := 0.0
	for _, h := range holdings {
		valueByType[h.Type] += h.CurrentPrice
		total += h.CurrentPrice
	}
	for typ := range targets {
		if _, ok := valueByType[typ]; !ok {
			valueByType[typ] = 0
		}
	}

	types := make([]domain.InvestmentType, 0, len(valueByType))
	for typ := range valueByType {
		types = append(types, typ)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	entries := make([]AllocationEntry, 0, len(types))
	var suggestions []Suggestion

	for _, typ := range types {
		value := valueByType[typ]
		entry := AllocationEntry{
			Type:           typ,
			Value:          value,
			PercentOfTotal: Percentage(value, total),
		}

		if target, ok := targets[typ]; ok {
			t := target
			entry.TargetPercent = &t
			entry.Deviation = entry.PercentOfTotal - target

			switch {
			case entry.Deviation > actionBand:
				suggestions = append(suggestions, Suggestion{
					Level:   SuggestionWarning,
					Type:    typ,
					Message: fmt.Sprintf("%s está %.1f pontos acima do alvo, considere rebalancear", typ, entry.Deviation),
				})
			case entry.Deviation < -actionBand:
				suggestions = append(suggestions, Suggestion{
					Level:   SuggestionInfo,
					Type:    typ,
					Message: fmt.Sprintf("%s está abaixo do alvo, direcione o próximo aporte para cá", typ),
				})
			}
			// |deviation| <= balancedBand is balanced; between the bands we
			// deliberately stay quiet.
		}

		entries = append(entries, entry)
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, Suggestion{
			Level:   SuggestionSuccess,
			Message: "Carteira bem balanceada",
		})
	}

	return entries, suggestions
}
