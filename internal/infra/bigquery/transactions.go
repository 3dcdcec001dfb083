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

// transactionRow is the transacoes table layout.
type transactionRow struct {
	TransactionID string              `bigquery:"transacao_id"`
	UserID        string              `bigquery:"user_id"`
	Description   string              `bigquery:"descricao"`
	Amount        float64             `bigquery:"valor"`
	Kind          string              `bigquery:"tipo"`
	Date          civil.Date          `bigquery:"data"`
	CategoryID    bigquery.NullString `bigquery:"categoria_id"`
	AccountID     bigquery.NullString `bigquery:"conta_id"`
	Member        bigquery.NullString `bigquery:"membro"`
	Tags          []string            `bigquery:"tags"`
	Notes         bigquery.NullString `bigquery:"observacoes"`

	InstallmentNum bigquery.NullInt64 `bigquery:"parcela_num"`
	InstallmentOf  bigquery.NullInt64 `bigquery:"parcela_de"`
	Recurring      bool               `bigquery:"recorrente"`

	CreatedTS time.Time `bigquery:"created_ts"`
}

func (r transactionRow) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:             r.TransactionID,
		OwnerID:        r.UserID,
		Description:    r.Description,
		Amount:         r.Amount,
		Kind:           domain.TransactionKind(r.Kind),
		Date:           r.Date.In(time.UTC),
		CategoryID:     r.CategoryID.StringVal,
		AccountID:      r.AccountID.StringVal,
		Member:         r.Member.StringVal,
		Tags:           r.Tags,
		Notes:          r.Notes.StringVal,
		InstallmentNum: int(r.InstallmentNum.Int64),
		InstallmentOf:  int(r.InstallmentOf.Int64),
		Recurring:      r.Recurring,
	}
}

func transactionToRow(t domain.Transaction, now time.Time) *transactionRow {
	return &transactionRow{
		TransactionID:  t.ID,
		UserID:         t.OwnerID,
		Description:    t.Description,
		Amount:         t.Amount,
		Kind:           string(t.Kind),
		Date:           civil.DateOf(t.Date),
		CategoryID:     bigquery.NullString{StringVal: t.CategoryID, Valid: t.CategoryID != ""},
		AccountID:      bigquery.NullString{StringVal: t.AccountID, Valid: t.AccountID != ""},
		Member:         bigquery.NullString{StringVal: t.Member, Valid: t.Member != ""},
		Tags:           t.Tags,
		Notes:          bigquery.NullString{StringVal: t.Notes, Valid: t.Notes != ""},
		InstallmentNum: bigquery.NullInt64{Int64: int64(t.InstallmentNum), Valid: t.InstallmentNum != 0},
		InstallmentOf:  bigquery.NullInt64{Int64: int64(t.InstallmentOf), Valid: t.InstallmentOf != 0},
		Recurring:      t.Recurring,
		CreatedTS:      now,
	}
}

const transactionColumns = `
	transacao_id, user_id, descricao, valor, tipo, data,
	categoria_id, conta_id, membro, tags, observacoes,
	parcela_num, parcela_de, recorrente, created_ts
`

// ListTransactions returns the owner's transactions, newest first.
func (s *Store) ListTransactions(ctx context.Context, ownerID string) ([]domain.Transaction, error) {
	q := s.client.Query(`
		SELECT ` + transactionColumns + `
		FROM ` + s.qualified(transactionsTable) + `
		WHERE user_id = @owner_id
		ORDER BY data DESC, created_ts DESC
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "owner_id", Value: ownerID},
	}

	return s.readTransactions(ctx, q, "ListTransactions")
}

// ListTransactionsByDateRange returns the owner's transactions dated within
// [start, end], newest first.
func (s *Store) ListTransactionsByDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]domain.Transaction, error) {
	q := s.client.Query(`
		SELECT ` + transactionColumns + `
		FROM ` + s.qualified(transactionsTable) + `
		WHERE user_id = @owner_id
		  AND data >= @start_date
		  AND data <= @end_date
		ORDER BY data DESC, created_ts DESC
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "owner_id", Value: ownerID},
		{Name: "start_date", Value: start.Format(dateFormat)},
		{Name: "end_date", Value: end.Format(dateFormat)},
	}

	return s.readTransactions(ctx, q, "ListTransactionsByDateRange")
}

func (s *Store) readTransactions(ctx context.Context, q *bigquery.Query, op string) ([]domain.Transaction, error) {
	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: query read: %w", op, err)
	}

	var txs []domain.Transaction
	for {
		var r transactionRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: iter next: %w", op, err)
		}
		txs = append(txs, r.toDomain())
	}

	return txs, nil
}

// InsertTransactions streams the transactions in with fresh ids and the owner
// stamped.
func (s *Store) InsertTransactions(ctx context.Context, ownerID string, txs []domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([]*transactionRow, 0, len(txs))
	for _, t := range txs {
		t.ID = uuid.NewString()
		t.OwnerID = ownerID
		rows = append(rows, transactionToRow(t, now))
	}

	inserter := s.table(transactionsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertTransactions: inserting rows: %w", err)
	}

	return nil
}
