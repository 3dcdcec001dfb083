package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// The delete operations below each clear one table for one owner. Restore
// calls them children first (transactions before the categories and accounts
// they reference); the ordering lives in the caller, not here.

func (s *Store) deleteByOwner(ctx context.Context, table, ownerID string) error {
	return s.runDML(ctx, `
		DELETE FROM `+s.qualified(table)+`
		WHERE user_id = @owner_id
	`, []bigquery.QueryParameter{
		{Name: "owner_id", Value: ownerID},
	})
}

// DeleteTransactions removes every transaction belonging to the owner.
func (s *Store) DeleteTransactions(ctx context.Context, ownerID string) error {
	if err := s.deleteByOwner(ctx, transactionsTable, ownerID); err != nil {
		return fmt.Errorf("DeleteTransactions: %w", err)
	}
	return nil
}

// DeleteInvestments removes every holding belonging to the owner.
func (s *Store) DeleteInvestments(ctx context.Context, ownerID string) error {
	if err := s.deleteByOwner(ctx, investmentsTable, ownerID); err != nil {
		return fmt.Errorf("DeleteInvestments: %w", err)
	}
	return nil
}

// DeleteGoals removes every goal belonging to the owner.
func (s *Store) DeleteGoals(ctx context.Context, ownerID string) error {
	if err := s.deleteByOwner(ctx, goalsTable, ownerID); err != nil {
		return fmt.Errorf("DeleteGoals: %w", err)
	}
	return nil
}

// DeleteCategories removes every category belonging to the owner.
func (s *Store) DeleteCategories(ctx context.Context, ownerID string) error {
	if err := s.deleteByOwner(ctx, categoriesTable, ownerID); err != nil {
		return fmt.Errorf("DeleteCategories: %w", err)
	}
	return nil
}

// DeleteAccounts removes every account belonging to the owner.
func (s *Store) DeleteAccounts(ctx context.Context, ownerID string) error {
	if err := s.deleteByOwner(ctx, accountsTable, ownerID); err != nil {
		return fmt.Errorf("DeleteAccounts: %w", err)
	}
	return nil
}
