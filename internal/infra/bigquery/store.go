// Package bigquery implements the persistence layer on BigQuery. One Store
// holds a shared client; every table lives in a single dataset and every row
// carries the owning user's id.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog"

	"github.com/lmcosta/financas-familia/internal/auth"
	"github.com/lmcosta/financas-familia/internal/store"
)

const (
	accountsTable     = "contas"
	categoriesTable   = "categorias"
	transactionsTable = "transacoes"
	investmentsTable  = "investimentos"
	goalsTable        = "metas"
	budgetsTable      = "orcamentos"
	profilesTable     = "usuarios"
	sessionsTable     = "sessoes"

	dateFormat = "2006-01-02"
)

// Store talks to the BigQuery dataset backing the API. It implements
// store.Store and auth.Verifier.
type Store struct {
	client    *bigquery.Client
	projectID string
	datasetID string
	log       zerolog.Logger
}

// New creates a Store with its own BigQuery client. Call Close when done.
func New(ctx context.Context, projectID, datasetID string, log zerolog.Logger) (*Store, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("bigquery client: %w", err)
	}
	return NewWithClient(client, projectID, datasetID, log), nil
}

// NewWithClient wraps an existing client, which the caller owns.
func NewWithClient(client *bigquery.Client, projectID, datasetID string, log zerolog.Logger) *Store {
	return &Store{
		client:    client,
		projectID: projectID,
		datasetID: datasetID,
		log:       log.With().Str("component", "bigquery").Logger(),
	}
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// table returns a handle with the fully qualified project and dataset, so the
// client's default project never leaks into queries.
func (s *Store) table(name string) *bigquery.Table {
	return s.client.DatasetInProject(s.projectID, s.datasetID).Table(name)
}

// qualified renders `project.dataset.table` for use inside query text.
func (s *Store) qualified(name string) string {
	return "`" + s.projectID + "." + s.datasetID + "." + name + "`"
}

// runDML runs a mutation query and waits for the job to finish.
func (s *Store) runDML(ctx context.Context, query string, params []bigquery.QueryParameter) error {
	q := s.client.Query(query)
	q.Parameters = params

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("run query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("wait for job: %w", err)
	}

	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}

	return nil
}

var _ store.Store = (*Store)(nil)
var _ auth.Verifier = (*Store)(nil)
