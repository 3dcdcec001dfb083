package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lmcosta/financas-familia/internal/domain"
	"github.com/lmcosta/financas-familia/internal/logger"
)

func TestListAccountsComputesBalances(t *testing.T) {
	st := newMockStore()
	st.accounts = []domain.Account{
		{ID: "a1", Name: "Corrente", Type: domain.AccountChecking, OpeningBalance: 1000, Active: true},
		{ID: "a2", Name: "Cartão", Type: domain.AccountCreditCard, Active: true},
	}
	st.txs = []domain.Transaction{
		{ID: "t1", AccountID: "a1", Amount: 500, Kind: domain.KindIncome, Date: time.Now()},
		{ID: "t2", AccountID: "a1", Amount: 200, Kind: domain.KindExpense, Date: time.Now()},
		{ID: "t3", AccountID: "a2", Amount: 150, Kind: domain.KindExpense, Date: time.Now()},
	}

	h := NewResourcesHandler(st, logger.New("test"))
	rec := httptest.NewRecorder()
	h.ListAccounts(rec, authedRequest(http.MethodGet, "/api/accounts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Contas []struct {
			ID      string  `json:"id"`
			Balance float64 `json:"saldo_atual"`
		} `json:"contas"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 2 {
		t.Fatalf("count = %d", resp.Count)
	}

	balances := map[string]float64{}
	for _, c := range resp.Contas {
		balances[c.ID] = c.Balance
	}
	if balances["a1"] != 1300 {
		t.Errorf("a1 balance = %v, want 1300", balances["a1"])
	}
	if balances["a2"] != -150 {
		t.Errorf("a2 balance = %v, want -150", balances["a2"])
	}
}

func TestListTransactionsDateRange(t *testing.T) {
	st := newMockStore()
	st.txs = []domain.Transaction{
		{ID: "t1", Amount: 10, Kind: domain.KindExpense, Date: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)},
		{ID: "t2", Amount: 20, Kind: domain.KindExpense, Date: time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)},
	}

	h := NewResourcesHandler(st, logger.New("test"))
	rec := httptest.NewRecorder()
	h.ListTransactions(rec, authedRequest(http.MethodGet, "/api/transactions?start_date=2026-08-01&end_date=2026-08-31", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Transacoes []domain.Transaction `json:"transacoes"`
		Count      int                  `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || resp.Transacoes[0].ID != "t1" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestListTransactionsBadDates(t *testing.T) {
	h := NewResourcesHandler(newMockStore(), logger.New("test"))

	for _, target := range []string{
		"/api/transactions?start_date=ontem&end_date=2026-08-31",
		"/api/transactions?start_date=2026-08-01&end_date=hoje",
		"/api/transactions?start_date=2026-08-01", // missing end
	} {
		rec := httptest.NewRecorder()
		h.ListTransactions(rec, authedRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestListTransactionsEmptyIsList(t *testing.T) {
	h := NewResourcesHandler(newMockStore(), logger.New("test"))
	rec := httptest.NewRecorder()
	h.ListTransactions(rec, authedRequest(http.MethodGet, "/api/transactions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if string(resp["transacoes"]) != "[]" {
		t.Errorf("transacoes = %s, want []", resp["transacoes"])
	}
}
