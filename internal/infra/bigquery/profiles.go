package bigquery

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/lmcosta/financas-familia/internal/domain"
)

// profileRow is the usuarios table layout. Allocation targets are stored as a
// JSON object keyed by asset class; a missing value means no targets set.
type profileRow struct {
	UserID            string              `bigquery:"user_id"`
	Email             string              `bigquery:"email"`
	Name              string              `bigquery:"nome"`
	Household         bigquery.NullString `bigquery:"familia"`
	MonthlyIncome     float64             `bigquery:"renda_mensal"`
	AllocationTargets bigquery.NullString `bigquery:"alvos_alocacao"`
}

func (r profileRow) toDomain() (*domain.Profile, error) {
	p := &domain.Profile{
		ID:            r.UserID,
		Email:         r.Email,
		Name:          r.Name,
		Household:     r.Household.StringVal,
		MonthlyIncome: r.MonthlyIncome,
	}
	if r.AllocationTargets.Valid && r.AllocationTargets.StringVal != "" {
		if err := json.Unmarshal([]byte(r.AllocationTargets.StringVal), &p.AllocationTargets); err != nil {
			return nil, fmt.Errorf("decoding allocation targets: %w", err)
		}
	}
	return p, nil
}

// GetProfile returns the owner's profile, or nil without error when the
// profile does not exist.
func (s *Store) GetProfile(ctx context.Context, ownerID string) (*domain.Profile, error) {
	q := s.client.Query(`
		SELECT user_id, email, nome, familia, renda_mensal, alvos_alocacao
		FROM ` + s.qualified(profilesTable) + `
		WHERE user_id = @owner_id
		LIMIT 1
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "owner_id", Value: ownerID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetProfile: query read: %w", err)
	}

	var r profileRow
	err = it.Next(&r)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetProfile: iter next: %w", err)
	}

	p, err := r.toDomain()
	if err != nil {
		return nil, fmt.Errorf("GetProfile: %w", err)
	}
	return p, nil
}

// PatchProfile applies the non-nil patch fields to the owner's profile row.
// An empty patch is a no-op.
func (s *Store) PatchProfile(ctx context.Context, ownerID string, patch domain.ProfilePatch) error {
	if patch.Empty() {
		return nil
	}

	set := ""
	params := []bigquery.QueryParameter{
		{Name: "owner_id", Value: ownerID},
	}
	if patch.Name != nil {
		set += "nome = @name"
		params = append(params, bigquery.QueryParameter{Name: "name", Value: *patch.Name})
	}
	if patch.MonthlyIncome != nil {
		if set != "" {
			set += ", "
		}
		set += "renda_mensal = @monthly_income"
		params = append(params, bigquery.QueryParameter{Name: "monthly_income", Value: *patch.MonthlyIncome})
	}

	err := s.runDML(ctx, `
		UPDATE `+s.qualified(profilesTable)+`
		SET `+set+`
		WHERE user_id = @owner_id
	`, params)
	if err != nil {
		return fmt.Errorf("PatchProfile: %w", err)
	}

	return nil
}
