package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/lmcosta/financas-familia/internal/api/middleware"
	"github.com/lmcosta/financas-familia/internal/backup"
	"github.com/lmcosta/financas-familia/internal/jobs"
)

// SnapshotExporter assembles a full snapshot for one owner.
type SnapshotExporter interface {
	Export(ctx context.Context, ownerID, email string) (*backup.Snapshot, error)
}

// SnapshotRestorer validates and replays a restore request.
type SnapshotRestorer interface {
	Run(ctx context.Context, ownerID string, req backup.RestoreRequest) (interface{}, error)
}

// BackupHandler handles backup export and restore endpoints.
type BackupHandler struct {
	exporter  SnapshotExporter
	restorer  SnapshotRestorer
	publisher jobs.Publisher
	log       zerolog.Logger
	now       func() time.Time
}

// NewBackupHandler creates the handler. publisher may be nil; when set, each
// successful export also enqueues an off-site archive job.
func NewBackupHandler(exporter SnapshotExporter, restorer SnapshotRestorer, publisher jobs.Publisher, log zerolog.Logger) *BackupHandler {
	return &BackupHandler{
		exporter:  exporter,
		restorer:  restorer,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Export handles GET /api/backup/export. The response downloads as a
// date-stamped JSON file.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	snap, err := h.exporter.Export(ctx, identity.UserID, identity.Email)
	if err != nil {
		h.log.Error().Err(err).Str("owner_id", identity.UserID).Msg("Backup export failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Erro ao criar backup")
		return
	}

	if h.publisher != nil {
		job := &jobs.Job{
			Kind:    jobs.KindArchiveSnapshot,
			OwnerID: identity.UserID,
			Email:   identity.Email,
		}
		if err := h.publisher.Publish(ctx, job); err != nil {
			// The download succeeded; the off-site copy is best effort.
			h.log.Warn().Err(err).Str("owner_id", identity.UserID).Msg("Failed to enqueue archive job")
		}
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+backup.Filename(h.now())+`"`)
	middleware.WriteJSON(w, http.StatusOK, snap)
}

// Restore handles POST /api/backup/restore, covering the preview and the
// destructive branch.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	var req backup.RestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Arquivo de backup inválido")
		return
	}

	result, err := h.restorer.Run(ctx, identity.UserID, req)
	if err != nil {
		var verr *backup.ValidationError
		if errors.As(err, &verr) {
			middleware.WriteError(w, http.StatusBadRequest, verr.Message)
			return
		}
		h.log.Error().Err(err).Str("owner_id", identity.UserID).Msg("Backup restore failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Erro ao restaurar backup")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}
