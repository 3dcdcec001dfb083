package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/lmcosta/financas-familia/internal/api/middleware"
	"github.com/lmcosta/financas-familia/internal/domain"
	"github.com/lmcosta/financas-familia/internal/store"
)

// ResourcesHandler serves the plain data endpoints: accounts with computed
// balances and transaction listings.
type ResourcesHandler struct {
	store store.Store
	log   zerolog.Logger
}

// NewResourcesHandler creates the handler.
func NewResourcesHandler(st store.Store, log zerolog.Logger) *ResourcesHandler {
	return &ResourcesHandler{store: st, log: log}
}

// accountView is an account plus its derived balance.
type accountView struct {
	domain.Account
	Balance float64 `json:"saldo_atual"`
}

// ListAccounts handles GET /api/accounts. The balance of each account is
// derived from its transactions, never stored.
func (h *ResourcesHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	accounts, err := h.store.ListAccounts(ctx, identity.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list accounts")
		middleware.WriteError(w, http.StatusInternalServerError, "Erro ao listar contas")
		return
	}

	txs, err := h.store.ListTransactions(ctx, identity.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Erro ao listar contas")
		return
	}

	views := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, accountView{Account: a, Balance: a.Balance(txs)})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"contas": views,
		"count":  len(views),
	})
}

// ListTransactions handles GET /api/transactions with optional
// start_date/end_date filters (YYYY-MM-DD).
func (h *ResourcesHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	startParam := r.URL.Query().Get("start_date")
	endParam := r.URL.Query().Get("end_date")

	var txs []domain.Transaction
	var err error
	if startParam != "" || endParam != "" {
		start, perr := time.Parse("2006-01-02", startParam)
		if perr != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Parâmetro start_date inválido, use YYYY-MM-DD")
			return
		}
		end, perr := time.Parse("2006-01-02", endParam)
		if perr != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Parâmetro end_date inválido, use YYYY-MM-DD")
			return
		}
		txs, err = h.store.ListTransactionsByDateRange(ctx, identity.UserID, start, end)
	} else {
		txs, err = h.store.ListTransactions(ctx, identity.UserID)
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Erro ao listar transações")
		return
	}

	if txs == nil {
		txs = []domain.Transaction{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transacoes": txs,
		"count":      len(txs),
	})
}
