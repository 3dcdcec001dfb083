package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/lmcosta/financas-familia/internal/auth"
)

// sessionRow is the sessoes table layout.
type sessionRow struct {
	Token     string    `bigquery:"token"`
	UserID    string    `bigquery:"user_id"`
	Email     string    `bigquery:"email"`
	ExpiresTS time.Time `bigquery:"expires_ts"`
}

// VerifySession resolves a bearer token to the identity it was issued for.
// Unknown and expired tokens both come back as auth.ErrInvalidSession.
func (s *Store) VerifySession(ctx context.Context, token string) (auth.Identity, error) {
	q := s.client.Query(`
		SELECT token, user_id, email, expires_ts
		FROM ` + s.qualified(sessionsTable) + `
		WHERE token = @token
		  AND expires_ts > CURRENT_TIMESTAMP()
		LIMIT 1
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "token", Value: token},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("VerifySession: query read: %w", err)
	}

	var r sessionRow
	err = it.Next(&r)
	if err == iterator.Done {
		return auth.Identity{}, auth.ErrInvalidSession
	}
	if err != nil {
		return auth.Identity{}, fmt.Errorf("VerifySession: iter next: %w", err)
	}

	return auth.Identity{UserID: r.UserID, Email: r.Email}, nil
}
