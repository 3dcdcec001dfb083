package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lmcosta/financas-familia/internal/backup"
	"github.com/lmcosta/financas-familia/internal/domain"
	"github.com/lmcosta/financas-familia/internal/insights"
)

// DraftStore is the slice of the data store the runner touches.
type DraftStore interface {
	GetProfile(ctx context.Context, ownerID string) (*domain.Profile, error)
	ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error)
	ListTransactionsByDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]domain.Transaction, error)
	InsertTransactions(ctx context.Context, ownerID string, txs []domain.Transaction) error
	UpsertBudget(ctx context.Context, ownerID string, b domain.Budget) error
}

// ReceiptParser is what the runner needs from the OCR layer.
type ReceiptParser interface {
	ParseReceipt(ctx context.Context, data []byte, mimeType string, categories []domain.Category) ([]domain.Transaction, error)
}

// SnapshotExporter is what the runner needs from the backup layer.
type SnapshotExporter interface {
	Export(ctx context.Context, ownerID, email string) (*backup.Snapshot, error)
}

// SnapshotArchiver is what the runner needs from the archive layer.
type SnapshotArchiver interface {
	Upload(ctx context.Context, ownerID string, snap *backup.Snapshot) (string, error)
}

// Runner executes jobs against the real dependencies. It is the Handler
// passed to the queue consumer.
type Runner struct {
	store    DraftStore
	parser   ReceiptParser
	exporter SnapshotExporter
	archiver SnapshotArchiver
	log      zerolog.Logger
	now      func() time.Time
}

// NewRunner wires the runner. archiver may be nil when no bucket is
// configured; archive jobs then fail with a clear error.
func NewRunner(st DraftStore, parser ReceiptParser, exporter SnapshotExporter, archiver SnapshotArchiver, log zerolog.Logger) *Runner {
	return &Runner{
		store:    st,
		parser:   parser,
		exporter: exporter,
		archiver: archiver,
		log:      log.With().Str("component", "jobs").Logger(),
		now:      time.Now,
	}
}

// Handle dispatches on the job kind.
func (r *Runner) Handle(ctx context.Context, job *Job) (string, error) {
	r.log.Info().
		Str("job_id", job.JobID).
		Str("kind", string(job.Kind)).
		Int("retry", job.RetryCount).
		Msg("Job started")

	switch job.Kind {
	case KindImportReceipt:
		return r.importReceipt(ctx, job)
	case KindArchiveSnapshot:
		return r.archiveSnapshot(ctx, job)
	default:
		return "", fmt.Errorf("unknown job kind: %s", job.Kind)
	}
}

func (r *Runner) importReceipt(ctx context.Context, job *Job) (string, error) {
	categories, err := r.store.ListCategories(ctx, job.OwnerID)
	if err != nil {
		return "", fmt.Errorf("importReceipt: listing categories: %w", err)
	}

	drafts, err := r.parser.ParseReceipt(ctx, job.Receipt, job.MIMEType, categories)
	if err != nil {
		return "", fmt.Errorf("importReceipt: %w", err)
	}

	if len(drafts) == 0 {
		return "nenhuma despesa encontrada no comprovante", nil
	}

	if err := r.store.InsertTransactions(ctx, job.OwnerID, drafts); err != nil {
		return "", fmt.Errorf("importReceipt: inserting drafts: %w", err)
	}

	return fmt.Sprintf("%d transações importadas", len(drafts)), nil
}

func (r *Runner) archiveSnapshot(ctx context.Context, job *Job) (string, error) {
	if r.archiver == nil {
		return "", fmt.Errorf("archiveSnapshot: no archive bucket configured")
	}

	snap, err := r.exporter.Export(ctx, job.OwnerID, job.Email)
	if err != nil {
		return "", fmt.Errorf("archiveSnapshot: %w", err)
	}

	uri, err := r.archiver.Upload(ctx, job.OwnerID, snap)
	if err != nil {
		return "", fmt.Errorf("archiveSnapshot: %w", err)
	}

	if err := r.closeMonth(ctx, job.OwnerID); err != nil {
		return "", fmt.Errorf("archiveSnapshot: %w", err)
	}

	return uri, nil
}

// closeMonth consolidates the previous calendar month into a stored budget
// record: projected amounts from the 50/30/20 split of the income, realized
// amounts from the actual spend. The record is what the projection reads back
// as history. Upsert semantics make re-runs for the same month harmless.
func (r *Runner) closeMonth(ctx context.Context, ownerID string) error {
	now := r.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	end := start.AddDate(0, 1, 0).Add(-24 * time.Hour)

	profile, err := r.store.GetProfile(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("closeMonth: loading profile: %w", err)
	}
	income := 0.0
	if profile != nil {
		income = profile.MonthlyIncome
	}

	categories, err := r.store.ListCategories(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("closeMonth: listing categories: %w", err)
	}

	txs, err := r.store.ListTransactionsByDateRange(ctx, ownerID, start, end)
	if err != nil {
		return fmt.Errorf("closeMonth: listing transactions: %w", err)
	}

	budget := domain.Budget{
		OwnerID: ownerID,
		Month:   start.Format("2006-01"),
		Projected: domain.GroupAmounts{
			Essentials:  income * insights.EssentialsTarget,
			Lifestyle:   income * insights.LifestyleTarget,
			Investments: income * insights.InvestmentsTarget,
		},
		Realized: insights.MonthlySpendByGroup(txs, categories),
	}

	if err := r.store.UpsertBudget(ctx, ownerID, budget); err != nil {
		return fmt.Errorf("closeMonth: %w", err)
	}

	r.log.Info().
		Str("owner_id", ownerID).
		Str("month", budget.Month).
		Msg("Month record consolidated")

	return nil
}
