package insights

import (
	"testing"

	"github.com/lmcosta/financas-familia/internal/domain"
)

func holdings(values map[domain.InvestmentType]float64) []domain.Investment {
	var hs []domain.Investment
	for typ, v := range values {
		hs = append(hs, domain.Investment{Type: typ, CurrentPrice: v})
	}
	return hs
}

func findEntry(t *testing.T, entries []AllocationEntry, typ domain.InvestmentType) AllocationEntry {
	t.Helper()
	for _, e := range entries {
		if e.Type == typ {
			return e
		}
	}
	t.Fatalf("no entry for type %s", typ)
	return AllocationEntry{}
}

func TestAllocationPercentages(t *testing.T) {
	entries, _ := Allocation(holdings(map[domain.InvestmentType]float64{
		domain.InvestStocks: 600,
		domain.InvestBonds:  400,
	}), nil)

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if e := findEntry(t, entries, domain.InvestStocks); e.PercentOfTotal != 60 {
		t.Errorf("stocks percent = %v, want 60", e.PercentOfTotal)
	}
	if e := findEntry(t, entries, domain.InvestBonds); e.PercentOfTotal != 40 {
		t.Errorf("bonds percent = %v, want 40", e.PercentOfTotal)
	}
}

func TestAllocationZeroTotal(t *testing.T) {
	entries, _ := Allocation(nil, map[domain.InvestmentType]float64{domain.InvestStocks: 70})

	e := findEntry(t, entries, domain.InvestStocks)
	if e.PercentOfTotal != 0 {
		t.Errorf("percent with zero total = %v, want 0", e.PercentOfTotal)
	}
	if e.Value != 0 {
		t.Errorf("value = %v, want 0", e.Value)
	}
	if e.TargetPercent == nil || *e.TargetPercent != 70 {
		t.Errorf("target = %v, want 70", e.TargetPercent)
	}
}

func TestAllocationSuggestions(t *testing.T) {
	tests := []struct {
		name      string
		stocksPct float64 // actual share of stocks, target fixed at 50
		wantLevel SuggestionLevel
		wantNone  bool
	}{
		{"balanced within 2 points", 51, "", true},
		{"dead zone above", 54, "", true},
		{"dead zone below", 46.5, "", true},
		{"overweight past 5 points", 60, SuggestionWarning, false},
		{"underweight past 5 points", 40, SuggestionInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Two classes; only stocks has a target so only it can suggest.
			_, suggestions := Allocation(holdings(map[domain.InvestmentType]float64{
				domain.InvestStocks: tt.stocksPct,
				domain.InvestBonds:  100 - tt.stocksPct,
			}), map[domain.InvestmentType]float64{domain.InvestStocks: 50})

			if tt.wantNone {
				if len(suggestions) != 1 || suggestions[0].Level != SuggestionSuccess {
					t.Fatalf("want single 'well balanced' suggestion, got %+v", suggestions)
				}
				return
			}

			if len(suggestions) != 1 {
				t.Fatalf("got %d suggestions, want 1: %+v", len(suggestions), suggestions)
			}
			if suggestions[0].Level != tt.wantLevel {
				t.Errorf("level = %v, want %v", suggestions[0].Level, tt.wantLevel)
			}
			if suggestions[0].Type != domain.InvestStocks {
				t.Errorf("type = %v, want stocks", suggestions[0].Type)
			}
		})
	}
}

func TestAllocationMultipleSuggestionsSuppressSuccess(t *testing.T) {
	_, suggestions := Allocation(holdings(map[domain.InvestmentType]float64{
		domain.InvestStocks: 80,
		domain.InvestBonds:  20,
	}), map[domain.InvestmentType]float64{
		domain.InvestStocks: 50,
		domain.InvestBonds:  50,
	})

	if len(suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2: %+v", len(suggestions), suggestions)
	}
	for _, s := range suggestions {
		if s.Level == SuggestionSuccess {
			t.Errorf("success message emitted alongside real suggestions")
		}
	}
}
