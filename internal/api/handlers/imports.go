package handlers

import (
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/lmcosta/financas-familia/internal/api/middleware"
	"github.com/lmcosta/financas-familia/internal/jobs"
)

// maxReceiptBytes caps receipt uploads; anything larger is not a receipt.
const maxReceiptBytes = 10 << 20

// ImportsHandler accepts receipt uploads and answers job status queries.
type ImportsHandler struct {
	publisher jobs.Publisher
	jobStore  jobs.Store
	log       zerolog.Logger
}

// NewImportsHandler creates the handler.
func NewImportsHandler(publisher jobs.Publisher, jobStore jobs.Store, log zerolog.Logger) *ImportsHandler {
	return &ImportsHandler{
		publisher: publisher,
		jobStore:  jobStore,
		log:       log,
	}
}

// ImportReceipt handles POST /api/import/receipt. The body is the raw image
// or PDF; processing happens asynchronously and the response carries the job
// id to poll.
func (h *ImportsHandler) ImportReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxReceiptBytes+1))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Erro ao ler o arquivo enviado")
		return
	}
	if len(data) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Envie o comprovante no corpo da requisição")
		return
	}
	if len(data) > maxReceiptBytes {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Arquivo muito grande, limite de 10MB")
		return
	}

	mimeType := r.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	job := &jobs.Job{
		Kind:     jobs.KindImportReceipt,
		OwnerID:  identity.UserID,
		Email:    identity.Email,
		Receipt:  data,
		MIMEType: mimeType,
	}

	if err := h.publisher.Publish(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue receipt import")
		middleware.WriteError(w, http.StatusInternalServerError, "Erro ao importar comprovante")
		return
	}

	h.log.Info().
		Str("job_id", job.JobID).
		Str("owner_id", identity.UserID).
		Int("bytes", len(data)).
		Msg("Receipt import enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// GetJob handles GET /api/jobs/:jobID. Jobs are owner-scoped; asking about
// someone else's job looks the same as asking about a missing one.
func (h *ImportsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	job, err := h.jobStore.GetJob(ctx, jobID)
	if err != nil || job.OwnerID != identity.UserID {
		middleware.WriteError(w, http.StatusNotFound, "Tarefa não encontrada")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}
