package backup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lmcosta/financas-familia/internal/domain"
	"github.com/lmcosta/financas-familia/internal/store"
)

// ValidationError is a restore rejection the caller can show as-is. Handlers
// map it to 400; anything else becomes a generic 500.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// RestoreRequest is the incoming restore body: the export shape plus the
// preview and confirmation flags. Pointer fields distinguish absent from
// zero-valued, which the structural validation needs.
type RestoreRequest struct {
	Version       *string    `json:"version"`
	CreatedAt     *time.Time `json:"createdAt"`
	User          *UserRef   `json:"user"`
	Data          *Payload   `json:"data"`
	Checksum      *string    `json:"checksum"`
	Preview       bool       `json:"preview"`
	ConfirmDelete bool       `json:"confirmDelete"`
}

// BackupInfo is the snapshot metadata echoed back on preview.
type BackupInfo struct {
	Version      string    `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	OriginalUser string    `json:"originalUser"`
}

// PreviewResult is the non-destructive summary of a snapshot.
type PreviewResult struct {
	Success    bool           `json:"success"`
	Preview    bool           `json:"preview"`
	BackupInfo BackupInfo     `json:"backupInfo"`
	Counts     map[string]int `json:"counts"`
	Warning    string         `json:"warning"`
}

// ResourceReport counts what was restored per resource, with any insertion
// errors recorded instead of aborting sibling resources.
type ResourceReport struct {
	Restored int      `json:"restored"`
	Errors   []string `json:"errors"`
}

// RestoreReport is the terminal restore result.
type RestoreReport struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message"`
	Results map[string]ResourceReport `json:"results"`
	Note    string                    `json:"note"`
}

const relinkNote = "As transações foram restauradas sem vínculo de categoria e conta. Refaça os vínculos manualmente."

// Restorer validates snapshots and replays them into the store.
type Restorer struct {
	store store.Store
	log   zerolog.Logger
}

// NewRestorer creates a restorer over the given store.
func NewRestorer(st store.Store, log zerolog.Logger) *Restorer {
	return &Restorer{store: st, log: log}
}

// Run drives the restore pipeline for one request and returns either a
// *PreviewResult or a *RestoreReport. The stages run strictly in order:
// structural validation, checksum verification (before anything reads the
// data), version gate, then either the preview branch or the confirmation
// guard followed by the destructive replay.
func (r *Restorer) Run(ctx context.Context, ownerID string, req RestoreRequest) (interface{}, error) {
	if req.Version == nil || req.Data == nil || req.Checksum == nil {
		return nil, validationErrorf("Arquivo de backup inválido")
	}

	computed, err := Checksum(*req.Data)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	if computed != *req.Checksum {
		return nil, validationErrorf("Backup corrompido: checksum inválido")
	}

	if majorVersion(*req.Version) != majorVersion(Version) {
		return nil, validationErrorf("Backup na versão %s incompatível com a versão atual %s", *req.Version, Version)
	}

	if req.Preview {
		return r.preview(req), nil
	}

	if !req.ConfirmDelete {
		return nil, validationErrorf("Restaurar apaga os dados atuais. Envie confirmDelete: true para confirmar")
	}

	return r.execute(ctx, ownerID, *req.Data)
}

// preview summarizes the snapshot without touching the store.
func (r *Restorer) preview(req RestoreRequest) *PreviewResult {
	info := BackupInfo{Version: *req.Version}
	if req.CreatedAt != nil {
		info.CreatedAt = *req.CreatedAt
	}
	if req.User != nil {
		info.OriginalUser = req.User.Email
	}

	return &PreviewResult{
		Success:    true,
		Preview:    true,
		BackupInfo: info,
		Counts: map[string]int{
			"contas":        len(req.Data.Contas),
			"categorias":    len(req.Data.Categorias),
			"transacoes":    len(req.Data.Transacoes),
			"investimentos": len(req.Data.Investimentos),
			"metas":         len(req.Data.Metas),
		},
		Warning: "Restaurar este backup apaga todos os dados atuais da conta",
	}
}

// execute deletes the owner's current data children-first, then re-inserts
// the snapshot parents-first. There is no wrapping transaction: the store
// commits each statement on its own, so a failure partway leaves a mixed
// state that the report makes visible instead of hiding.
func (r *Restorer) execute(ctx context.Context, ownerID string, data Payload) (*RestoreReport, error) {
	deletes := []struct {
		resource string
		fn       func(context.Context, string) error
	}{
		{"transacoes", r.store.DeleteTransactions},
		{"investimentos", r.store.DeleteInvestments},
		{"metas", r.store.DeleteGoals},
		{"categorias", r.store.DeleteCategories},
		{"contas", r.store.DeleteAccounts},
	}
	for _, d := range deletes {
		if err := d.fn(ctx, ownerID); err != nil {
			return nil, fmt.Errorf("execute: deleting %s: %w", d.resource, err)
		}
	}

	results := make(map[string]ResourceReport)

	record := func(resource string, count int, err error) {
		rep := ResourceReport{Errors: []string{}}
		if err != nil {
			r.log.Error().Err(err).Str("resource", resource).Str("owner_id", ownerID).Msg("Restore insert failed")
			rep.Errors = append(rep.Errors, err.Error())
		} else {
			rep.Restored = count
		}
		results[resource] = rep
	}

	record("contas", len(data.Contas), r.store.InsertAccounts(ctx, ownerID, data.Contas))
	record("categorias", len(data.Categorias), r.store.InsertCategories(ctx, ownerID, data.Categorias))

	// The snapshot's category/account ids point at rows that no longer
	// exist (inserts above assigned fresh ids), so the links are nulled and
	// the caller is told to re-link by hand.
	txs := make([]domain.Transaction, len(data.Transacoes))
	for i, t := range data.Transacoes {
		t.CategoryID = ""
		t.AccountID = ""
		txs[i] = t
	}
	record("transacoes", len(txs), r.store.InsertTransactions(ctx, ownerID, txs))

	record("investimentos", len(data.Investimentos), r.store.InsertInvestments(ctx, ownerID, data.Investimentos))
	record("metas", len(data.Metas), r.store.InsertGoals(ctx, ownerID, data.Metas))

	if data.Usuario != nil {
		patch := domain.ProfilePatch{}
		if data.Usuario.Name != "" {
			name := data.Usuario.Name
			patch.Name = &name
		}
		if data.Usuario.MonthlyIncome != 0 {
			income := data.Usuario.MonthlyIncome
			patch.MonthlyIncome = &income
		}
		if !patch.Empty() {
			if err := r.store.PatchProfile(ctx, ownerID, patch); err != nil {
				r.log.Error().Err(err).Str("owner_id", ownerID).Msg("Restore profile patch failed")
				results["usuario"] = ResourceReport{Errors: []string{err.Error()}}
			} else {
				results["usuario"] = ResourceReport{Restored: 1, Errors: []string{}}
			}
		}
	}

	r.log.Info().Str("owner_id", ownerID).Interface("results", results).Msg("Restore finished")

	return &RestoreReport{
		Success: true,
		Message: "Backup restaurado",
		Results: results,
		Note:    relinkNote,
	}, nil
}

// majorVersion extracts the leading component of a semantic version string.
func majorVersion(v string) string {
	if i := strings.IndexByte(v, '.'); i >= 0 {
		return v[:i]
	}
	return v
}
