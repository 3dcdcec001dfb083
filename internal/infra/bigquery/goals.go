package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/lmcosta/financas-familia/internal/domain"
)

// goalRow is the metas table layout.
type goalRow struct {
	GoalID        string              `bigquery:"meta_id"`
	UserID        string              `bigquery:"user_id"`
	Name          string              `bigquery:"nome"`
	TargetAmount  float64             `bigquery:"valor_alvo"`
	CurrentAmount float64             `bigquery:"valor_atual"`
	Deadline      bigquery.NullDate   `bigquery:"prazo"`
	CategoryID    bigquery.NullString `bigquery:"categoria_id"`
	Active        bool                `bigquery:"ativa"`
}

func (r goalRow) toDomain() domain.Goal {
	g := domain.Goal{
		ID:            r.GoalID,
		OwnerID:       r.UserID,
		Name:          r.Name,
		TargetAmount:  r.TargetAmount,
		CurrentAmount: r.CurrentAmount,
		CategoryID:    r.CategoryID.StringVal,
		Active:        r.Active,
	}
	if r.Deadline.Valid {
		deadline := r.Deadline.Date.In(time.UTC)
		g.Deadline = &deadline
	}
	return g
}

func goalToRow(g domain.Goal) *goalRow {
	r := &goalRow{
		GoalID:        g.ID,
		UserID:        g.OwnerID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		CategoryID:    bigquery.NullString{StringVal: g.CategoryID, Valid: g.CategoryID != ""},
		Active:        g.Active,
	}
	if g.Deadline != nil {
		r.Deadline = bigquery.NullDate{Date: civil.DateOf(*g.Deadline), Valid: true}
	}
	return r
}

// ListGoals returns every goal belonging to the owner, nearest deadline first.
func (s *Store) ListGoals(ctx context.Context, ownerID string) ([]domain.Goal, error) {
	q := s.client.Query(`
		SELECT meta_id, user_id, nome, valor_alvo, valor_atual, prazo, categoria_id, ativa
		FROM ` + s.qualified(goalsTable) + `
		WHERE user_id = @owner_id
		ORDER BY prazo IS NULL, prazo
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "owner_id", Value: ownerID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListGoals: query read: %w", err)
	}

	var goals []domain.Goal
	for {
		var r goalRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListGoals: iter next: %w", err)
		}
		goals = append(goals, r.toDomain())
	}

	return goals, nil
}

// InsertGoals streams the goals in with fresh ids and the owner stamped.
func (s *Store) InsertGoals(ctx context.Context, ownerID string, goals []domain.Goal) error {
	if len(goals) == 0 {
		return nil
	}

	rows := make([]*goalRow, 0, len(goals))
	for _, g := range goals {
		g.ID = uuid.NewString()
		g.OwnerID = ownerID
		rows = append(rows, goalToRow(g))
	}

	inserter := s.table(goalsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertGoals: inserting rows: %w", err)
	}

	return nil
}
