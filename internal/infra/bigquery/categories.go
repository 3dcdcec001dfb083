package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/lmcosta/financas-familia/internal/domain"
)

// categoryRow is the categorias table layout.
type categoryRow struct {
	CategoryID   string               `bigquery:"categoria_id"`
	UserID       string               `bigquery:"user_id"`
	Name         string               `bigquery:"nome"`
	Kind         string               `bigquery:"tipo"`
	Group        string               `bigquery:"grupo"`
	Color        bigquery.NullString  `bigquery:"cor"`
	Icon         bigquery.NullString  `bigquery:"icone"`
	MonthlyLimit bigquery.NullFloat64 `bigquery:"limite_mensal"`
}

func (r categoryRow) toDomain() domain.Category {
	c := domain.Category{
		ID:      r.CategoryID,
		OwnerID: r.UserID,
		Name:    r.Name,
		Kind:    domain.CategoryKind(r.Kind),
		Group:   domain.Group(r.Group),
		Color:   r.Color.StringVal,
		Icon:    r.Icon.StringVal,
	}
	if r.MonthlyLimit.Valid {
		limit := r.MonthlyLimit.Float64
		c.MonthlyLimit = &limit
	}
	return c
}

func categoryToRow(c domain.Category) *categoryRow {
	r := &categoryRow{
		CategoryID: c.ID,
		UserID:     c.OwnerID,
		Name:       c.Name,
		Kind:       string(c.Kind),
		Group:      string(c.Group),
		Color:      bigquery.NullString{StringVal: c.Color, Valid: c.Color != ""},
		Icon:       bigquery.NullString{StringVal: c.Icon, Valid: c.Icon != ""},
	}
	if c.MonthlyLimit != nil {
		r.MonthlyLimit = bigquery.NullFloat64{Float64: *c.MonthlyLimit, Valid: true}
	}
	return r
}

// ListCategories returns every category belonging to the owner.
func (s *Store) ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error) {
	q := s.client.Query(`
		SELECT categoria_id, user_id, nome, tipo, grupo, cor, icone, limite_mensal
		FROM ` + s.qualified(categoriesTable) + `
		WHERE user_id = @owner_id
		ORDER BY nome
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "owner_id", Value: ownerID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListCategories: query read: %w", err)
	}

	var categories []domain.Category
	for {
		var r categoryRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListCategories: iter next: %w", err)
		}
		categories = append(categories, r.toDomain())
	}

	return categories, nil
}

// InsertCategories streams the categories in with fresh ids and the owner
// stamped.
func (s *Store) InsertCategories(ctx context.Context, ownerID string, categories []domain.Category) error {
	if len(categories) == 0 {
		return nil
	}

	rows := make([]*categoryRow, 0, len(categories))
	for _, c := range categories {
		c.ID = uuid.NewString()
		c.OwnerID = ownerID
		rows = append(rows, categoryToRow(c))
	}

	inserter := s.table(categoriesTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertCategories: inserting rows: %w", err)
	}

	return nil
}
