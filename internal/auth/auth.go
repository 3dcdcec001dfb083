// Package auth defines the session boundary: a bearer token goes in, a
// verified owner identity comes out. How sessions are minted is out of this
// codebase's hands.
package auth

import (
	"context"
	"errors"
)

// ErrInvalidSession is returned for unknown or expired tokens.
var ErrInvalidSession = errors.New("invalid or expired session")

// Identity is the verified user behind a request.
type Identity struct {
	UserID string
	Email  string
}

// Verifier turns a bearer token into a verified identity.
type Verifier interface {
	VerifySession(ctx context.Context, token string) (Identity, error)
}
