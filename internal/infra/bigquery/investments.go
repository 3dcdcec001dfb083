package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/lmcosta/financas-familia/internal/domain"
)

// investmentRow is the investimentos table layout.
type investmentRow struct {
	InvestmentID  string              `bigquery:"investimento_id"`
	UserID        string              `bigquery:"user_id"`
	Name          string              `bigquery:"nome"`
	Kind          string              `bigquery:"tipo"`
	Institution   bigquery.NullString `bigquery:"instituicao"`
	PurchasePrice float64             `bigquery:"valor_compra"`
	CurrentPrice  float64             `bigquery:"valor_atual"`
	PurchaseDate  civil.Date          `bigquery:"data_compra"`
	MaturityDate  bigquery.NullDate   `bigquery:"data_vencimento"`
}

func (r investmentRow) toDomain() domain.Investment {
	inv := domain.Investment{
		ID:            r.InvestmentID,
		OwnerID:       r.UserID,
		Name:          r.Name,
		Type:          domain.InvestmentType(r.Kind),
		Institution:   r.Institution.StringVal,
		PurchasePrice: r.PurchasePrice,
		CurrentPrice:  r.CurrentPrice,
		PurchaseDate:  r.PurchaseDate.In(time.UTC),
	}
	if r.MaturityDate.Valid {
		maturity := r.MaturityDate.Date.In(time.UTC)
		inv.MaturityDate = &maturity
	}
	return inv
}

func investmentToRow(i domain.Investment) *investmentRow {
	r := &investmentRow{
		InvestmentID:  i.ID,
		UserID:        i.OwnerID,
		Name:          i.Name,
		Kind:          string(i.Type),
		Institution:   bigquery.NullString{StringVal: i.Institution, Valid: i.Institution != ""},
		PurchasePrice: i.PurchasePrice,
		CurrentPrice:  i.CurrentPrice,
		PurchaseDate:  civil.DateOf(i.PurchaseDate),
	}
	if i.MaturityDate != nil {
		r.MaturityDate = bigquery.NullDate{Date: civil.DateOf(*i.MaturityDate), Valid: true}
	}
	return r
}

// ListInvestments returns every holding belonging to the owner.
func (s *Store) ListInvestments(ctx context.Context, ownerID string) ([]domain.Investment, error) {
	q := s.client.Query(`
		SELECT investimento_id, user_id, nome, tipo, instituicao,
		       valor_compra, valor_atual, data_compra, data_vencimento
		FROM ` + s.qualified(investmentsTable) + `
		WHERE user_id = @owner_id
		ORDER BY data_compra DESC
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "owner_id", Value: ownerID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListInvestments: query read: %w", err)
	}

	var investments []domain.Investment
	for {
		var r investmentRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListInvestments: iter next: %w", err)
		}
		investments = append(investments, r.toDomain())
	}

	return investments, nil
}

// InsertInvestments streams the holdings in with fresh ids and the owner
// stamped.
func (s *Store) InsertInvestments(ctx context.Context, ownerID string, investments []domain.Investment) error {
	if len(investments) == 0 {
		return nil
	}

	rows := make([]*investmentRow, 0, len(investments))
	for _, i := range investments {
		i.ID = uuid.NewString()
		i.OwnerID = ownerID
		rows = append(rows, investmentToRow(i))
	}

	inserter := s.table(investmentsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertInvestments: inserting rows: %w", err)
	}

	return nil
}
