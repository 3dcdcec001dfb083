package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lmcosta/financas-familia/internal/domain"
	"github.com/lmcosta/financas-familia/internal/store"
)

// Exporter assembles snapshots from the data store.
type Exporter struct {
	store store.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewExporter creates an exporter over the given store.
func NewExporter(st store.Store, log zerolog.Logger) *Exporter {
	return &Exporter{store: st, log: log, now: time.Now}
}

// Export fetches the owner's profile and all five collections concurrently,
// joins them into a payload and stamps version, timestamp and checksum.
// A failed read fails the whole export; a merely empty collection does not.
func (e *Exporter) Export(ctx context.Context, ownerID, email string) (*Snapshot, error) {
	var payload Payload

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := e.store.GetProfile(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}
		payload.Usuario = profile
		return nil
	})
	g.Go(func() error {
		accounts, err := e.store.ListAccounts(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("fetch accounts: %w", err)
		}
		payload.Contas = accounts
		return nil
	})
	g.Go(func() error {
		categories, err := e.store.ListCategories(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("fetch categories: %w", err)
		}
		payload.Categorias = categories
		return nil
	})
	g.Go(func() error {
		txs, err := e.store.ListTransactions(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("fetch transactions: %w", err)
		}
		payload.Transacoes = txs
		return nil
	})
	g.Go(func() error {
		investments, err := e.store.ListInvestments(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("fetch investments: %w", err)
		}
		payload.Investimentos = investments
		return nil
	})
	g.Go(func() error {
		goals, err := e.store.ListGoals(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("fetch goals: %w", err)
		}
		payload.Metas = goals
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("Export: %w", err)
	}

	// Empty collections serialize as [] rather than null.
	if payload.Contas == nil {
		payload.Contas = []domain.Account{}
	}
	if payload.Categorias == nil {
		payload.Categorias = []domain.Category{}
	}
	if payload.Transacoes == nil {
		payload.Transacoes = []domain.Transaction{}
	}
	if payload.Investimentos == nil {
		payload.Investimentos = []domain.Investment{}
	}
	if payload.Metas == nil {
		payload.Metas = []domain.Goal{}
	}

	checksum, err := Checksum(payload)
	if err != nil {
		return nil, fmt.Errorf("Export: %w", err)
	}

	snap := &Snapshot{
		Version:   Version,
		CreatedAt: e.now().UTC(),
		User:      UserRef{ID: ownerID, Email: email},
		Data:      payload,
		Checksum:  checksum,
	}

	e.log.Info().
		Str("owner_id", ownerID).
		Int("contas", len(payload.Contas)).
		Int("categorias", len(payload.Categorias)).
		Int("transacoes", len(payload.Transacoes)).
		Int("investimentos", len(payload.Investimentos)).
		Int("metas", len(payload.Metas)).
		Msg("Snapshot exported")

	return snap, nil
}
