// Package store defines the persistence boundary. Implementations live in
// internal/infra; consumers (handlers, backup, insights assembly) only see
// these interfaces, which keeps them mockable in tests.
package store

import (
	"context"
	"time"

	"github.com/lmcosta/financas-familia/internal/domain"
)

// Store is the owner-scoped persistence surface. Every method filters by the
// owner id; callers never see another user's rows.
type Store interface {
	// GetProfile returns nil without error when the profile does not exist.
	GetProfile(ctx context.Context, ownerID string) (*domain.Profile, error)
	// PatchProfile applies a partial update; nil patch fields are untouched.
	PatchProfile(ctx context.Context, ownerID string, patch domain.ProfilePatch) error

	ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error)
	ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error)
	// ListTransactions returns the owner's transactions, newest first.
	ListTransactions(ctx context.Context, ownerID string) ([]domain.Transaction, error)
	ListTransactionsByDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]domain.Transaction, error)
	ListInvestments(ctx context.Context, ownerID string) ([]domain.Investment, error)
	ListGoals(ctx context.Context, ownerID string) ([]domain.Goal, error)
	ListBudgets(ctx context.Context, ownerID string) ([]domain.Budget, error)
	// UpsertBudget replaces the owner's record for the budget's month.
	UpsertBudget(ctx context.Context, ownerID string, b domain.Budget) error

	// Inserts assign fresh identifiers and stamp the owner id; identifiers
	// present on the inputs are ignored.
	InsertAccounts(ctx context.Context, ownerID string, accounts []domain.Account) error
	InsertCategories(ctx context.Context, ownerID string, categories []domain.Category) error
	InsertTransactions(ctx context.Context, ownerID string, txs []domain.Transaction) error
	InsertInvestments(ctx context.Context, ownerID string, investments []domain.Investment) error
	InsertGoals(ctx context.Context, ownerID string, goals []domain.Goal) error

	DeleteTransactions(ctx context.Context, ownerID string) error
	DeleteInvestments(ctx context.Context, ownerID string) error
	DeleteGoals(ctx context.Context, ownerID string) error
	DeleteCategories(ctx context.Context, ownerID string) error
	DeleteAccounts(ctx context.Context, ownerID string) error
}
