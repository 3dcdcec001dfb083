package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/lmcosta/financas-familia/internal/domain"
)

var errTest = errors.New("store unavailable")

// mockStore backs handler tests: canned data per collection, per-operation
// failure injection and a record of mutating calls.
type mockStore struct {
	profile     *domain.Profile
	accounts    []domain.Account
	categories  []domain.Category
	txs         []domain.Transaction
	investments []domain.Investment
	goals       []domain.Goal
	budgets     []domain.Budget

	calls  []string
	failOn map[string]error
}

func newMockStore() *mockStore {
	return &mockStore{failOn: make(map[string]error)}
}

func (m *mockStore) fail(op string) error {
	return m.failOn[op]
}

func (m *mockStore) GetProfile(ctx context.Context, ownerID string) (*domain.Profile, error) {
	if err := m.fail("get:usuario"); err != nil {
		return nil, err
	}
	return m.profile, nil
}

func (m *mockStore) PatchProfile(ctx context.Context, ownerID string, patch domain.ProfilePatch) error {
	m.calls = append(m.calls, "patch:usuario")
	return m.fail("patch:usuario")
}

func (m *mockStore) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	if err := m.fail("list:contas"); err != nil {
		return nil, err
	}
	return m.accounts, nil
}

func (m *mockStore) ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error) {
	if err := m.fail("list:categorias"); err != nil {
		return nil, err
	}
	return m.categories, nil
}

func (m *mockStore) ListTransactions(ctx context.Context, ownerID string) ([]domain.Transaction, error) {
	if err := m.fail("list:transacoes"); err != nil {
		return nil, err
	}
	return m.txs, nil
}

func (m *mockStore) ListTransactionsByDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]domain.Transaction, error) {
	if err := m.fail("list:transacoes"); err != nil {
		return nil, err
	}
	var out []domain.Transaction
	for _, t := range m.txs {
		if t.Date.Before(start) || t.Date.After(end.Add(24*time.Hour)) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *mockStore) ListInvestments(ctx context.Context, ownerID string) ([]domain.Investment, error) {
	if err := m.fail("list:investimentos"); err != nil {
		return nil, err
	}
	return m.investments, nil
}

func (m *mockStore) ListGoals(ctx context.Context, ownerID string) ([]domain.Goal, error) {
	if err := m.fail("list:metas"); err != nil {
		return nil, err
	}
	return m.goals, nil
}

func (m *mockStore) ListBudgets(ctx context.Context, ownerID string) ([]domain.Budget, error) {
	if err := m.fail("list:orcamentos"); err != nil {
		return nil, err
	}
	return m.budgets, nil
}

func (m *mockStore) UpsertBudget(ctx context.Context, ownerID string, b domain.Budget) error {
	m.calls = append(m.calls, "upsert:orcamentos")
	return m.fail("upsert:orcamentos")
}

func (m *mockStore) InsertAccounts(ctx context.Context, ownerID string, accounts []domain.Account) error {
	m.calls = append(m.calls, "insert:contas")
	return m.fail("insert:contas")
}

func (m *mockStore) InsertCategories(ctx context.Context, ownerID string, categories []domain.Category) error {
	m.calls = append(m.calls, "insert:categorias")
	return m.fail("insert:categorias")
}

func (m *mockStore) InsertTransactions(ctx context.Context, ownerID string, txs []domain.Transaction) error {
	m.calls = append(m.calls, "insert:transacoes")
	return m.fail("insert:transacoes")
}

func (m *mockStore) InsertInvestments(ctx context.Context, ownerID string, investments []domain.Investment) error {
	m.calls = append(m.calls, "insert:investimentos")
	return m.fail("insert:investimentos")
}

func (m *mockStore) InsertGoals(ctx context.Context, ownerID string, goals []domain.Goal) error {
	m.calls = append(m.calls, "insert:metas")
	return m.fail("insert:metas")
}

func (m *mockStore) DeleteTransactions(ctx context.Context, ownerID string) error {
	m.calls = append(m.calls, "delete:transacoes")
	return m.fail("delete:transacoes")
}

func (m *mockStore) DeleteInvestments(ctx context.Context, ownerID string) error {
	m.calls = append(m.calls, "delete:investimentos")
	return m.fail("delete:investimentos")
}

func (m *mockStore) DeleteGoals(ctx context.Context, ownerID string) error {
	m.calls = append(m.calls, "delete:metas")
	return m.fail("delete:metas")
}

func (m *mockStore) DeleteCategories(ctx context.Context, ownerID string) error {
	m.calls = append(m.calls, "delete:categorias")
	return m.fail("delete:categorias")
}

func (m *mockStore) DeleteAccounts(ctx context.Context, ownerID string) error {
	m.calls = append(m.calls, "delete:contas")
	return m.fail("delete:contas")
}
