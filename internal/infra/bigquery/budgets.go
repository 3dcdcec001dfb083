package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/lmcosta/financas-familia/internal/domain"
)

// budgetRow is the orcamentos table layout. The two per-group triples are
// flattened into columns; one row per owner per month.
type budgetRow struct {
	UserID string `bigquery:"user_id"`
	Month  string `bigquery:"mes"`

	ProjectedEssentials  float64 `bigquery:"proj_essenciais"`
	ProjectedLifestyle   float64 `bigquery:"proj_estilo_vida"`
	ProjectedInvestments float64 `bigquery:"proj_investimentos"`

	RealizedEssentials  float64 `bigquery:"real_essenciais"`
	RealizedLifestyle   float64 `bigquery:"real_estilo_vida"`
	RealizedInvestments float64 `bigquery:"real_investimentos"`
}

func (r budgetRow) toDomain() domain.Budget {
	return domain.Budget{
		OwnerID: r.UserID,
		Month:   r.Month,
		Projected: domain.GroupAmounts{
			Essentials:  r.ProjectedEssentials,
			Lifestyle:   r.ProjectedLifestyle,
			Investments: r.ProjectedInvestments,
		},
		Realized: domain.GroupAmounts{
			Essentials:  r.RealizedEssentials,
			Lifestyle:   r.RealizedLifestyle,
			Investments: r.RealizedInvestments,
		},
	}
}

// ListBudgets returns the owner's stored month records, newest month first.
func (s *Store) ListBudgets(ctx context.Context, ownerID string) ([]domain.Budget, error) {
	q := s.client.Query(`
		SELECT user_id, mes,
		       proj_essenciais, proj_estilo_vida, proj_investimentos,
		       real_essenciais, real_estilo_vida, real_investimentos
		FROM ` + s.qualified(budgetsTable) + `
		WHERE user_id = @owner_id
		ORDER BY mes DESC
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "owner_id", Value: ownerID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListBudgets: query read: %w", err)
	}

	var budgets []domain.Budget
	for {
		var r budgetRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListBudgets: iter next: %w", err)
		}
		budgets = append(budgets, r.toDomain())
	}

	return budgets, nil
}

// UpsertBudget replaces the owner's record for the budget's month. Used by the
// month-end archive job, which may re-run for the same month.
func (s *Store) UpsertBudget(ctx context.Context, ownerID string, b domain.Budget) error {
	err := s.runDML(ctx, `
		DELETE FROM `+s.qualified(budgetsTable)+`
		WHERE user_id = @owner_id AND mes = @month
	`, []bigquery.QueryParameter{
		{Name: "owner_id", Value: ownerID},
		{Name: "month", Value: b.Month},
	})
	if err != nil {
		return fmt.Errorf("UpsertBudget: clearing month: %w", err)
	}

	row := &budgetRow{
		UserID:               ownerID,
		Month:                b.Month,
		ProjectedEssentials:  b.Projected.Essentials,
		ProjectedLifestyle:   b.Projected.Lifestyle,
		ProjectedInvestments: b.Projected.Investments,
		RealizedEssentials:   b.Realized.Essentials,
		RealizedLifestyle:    b.Realized.Lifestyle,
		RealizedInvestments:  b.Realized.Investments,
	}

	inserter := s.table(budgetsTable).Inserter()
	if err := inserter.Put(ctx, []*budgetRow{row}); err != nil {
		return fmt.Errorf("UpsertBudget: inserting row: %w", err)
	}

	return nil
}
