// Package backup serializes one owner's full dataset into a versioned,
// checksummed snapshot and replays a snapshot back into storage.
package backup

import (
	"fmt"
	"time"

	"github.com/lmcosta/financas-familia/internal/domain"
)

// Version is the snapshot format version. Only the major component gates
// restore compatibility.
const Version = "1.0.0"

// Payload is the full exported dataset. The wire keys match what the web
// client has always produced, so old backup files keep restoring.
type Payload struct {
	Usuario       *domain.Profile      `json:"usuario"`
	Contas        []domain.Account     `json:"contas"`
	Categorias    []domain.Category    `json:"categorias"`
	Transacoes    []domain.Transaction `json:"transacoes"`
	Investimentos []domain.Investment  `json:"investimentos"`
	Metas         []domain.Goal        `json:"metas"`
}

// UserRef identifies the snapshot's owner at export time.
type UserRef struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Snapshot is the downloadable backup file.
type Snapshot struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	User      UserRef   `json:"user"`
	Data      Payload   `json:"data"`
	Checksum  string    `json:"checksum"`
}

// Filename is the date-stamped name the snapshot downloads as.
func Filename(now time.Time) string {
	return fmt.Sprintf("backup-financas-%s.json", now.Format("2006-01-02"))
}
