package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/lmcosta/financas-familia/internal/domain"
)

// accountRow is the contas table layout.
type accountRow struct {
	AccountID      string  `bigquery:"conta_id"`
	UserID         string  `bigquery:"user_id"`
	Name           string  `bigquery:"nome"`
	AccountType    string  `bigquery:"tipo"`
	OpeningBalance float64 `bigquery:"saldo_inicial"`
	Active         bool    `bigquery:"ativa"`
}

func (r accountRow) toDomain() domain.Account {
	return domain.Account{
		ID:             r.AccountID,
		OwnerID:        r.UserID,
		Name:           r.Name,
		Type:           domain.AccountType(r.AccountType),
		OpeningBalance: r.OpeningBalance,
		Active:         r.Active,
	}
}

func accountToRow(a domain.Account) *accountRow {
	return &accountRow{
		AccountID:      a.ID,
		UserID:         a.OwnerID,
		Name:           a.Name,
		AccountType:    string(a.Type),
		OpeningBalance: a.OpeningBalance,
		Active:         a.Active,
	}
}

// ListAccounts returns every account belonging to the owner.
func (s *Store) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	q := s.client.Query(`
		SELECT conta_id, user_id, nome, tipo, saldo_inicial, ativa
		FROM ` + s.qualified(accountsTable) + `
		WHERE user_id = @owner_id
		ORDER BY nome
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "owner_id", Value: ownerID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAccounts: query read: %w", err)
	}

	var accounts []domain.Account
	for {
		var r accountRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListAccounts: iter next: %w", err)
		}
		accounts = append(accounts, r.toDomain())
	}

	return accounts, nil
}

// InsertAccounts streams the accounts in with fresh ids and the owner stamped.
func (s *Store) InsertAccounts(ctx context.Context, ownerID string, accounts []domain.Account) error {
	if len(accounts) == 0 {
		return nil
	}

	rows := make([]*accountRow, 0, len(accounts))
	for _, a := range accounts {
		a.ID = uuid.NewString()
		a.OwnerID = ownerID
		rows = append(rows, accountToRow(a))
	}

	inserter := s.table(accountsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertAccounts: inserting rows: %w", err)
	}

	return nil
}
