package backup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lmcosta/financas-familia/internal/logger"
)

func TestExportAssemblesSnapshot(t *testing.T) {
	st := newMockStore()
	sample := samplePayload()
	st.profile = sample.Usuario
	st.accounts = sample.Contas
	st.categories = sample.Categorias
	st.txs = sample.Transacoes
	st.investments = sample.Investimentos
	st.goals = sample.Metas

	e := NewExporter(st, logger.New("test"))
	e.now = func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) }

	snap, err := e.Export(context.Background(), "u1", "ana@example.com")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if snap.Version != Version {
		t.Errorf("version = %s, want %s", snap.Version, Version)
	}
	if snap.User.ID != "u1" || snap.User.Email != "ana@example.com" {
		t.Errorf("user = %+v", snap.User)
	}
	if len(snap.Data.Transacoes) != 1 || len(snap.Data.Contas) != 1 {
		t.Errorf("payload collections missing: %+v", snap.Data)
	}

	want, err := Checksum(snap.Data)
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	if snap.Checksum != want {
		t.Errorf("checksum = %s, want %s", snap.Checksum, want)
	}
}

func TestExportEmptyCollectionsDefaultToEmptyLists(t *testing.T) {
	st := newMockStore() // everything nil

	e := NewExporter(st, logger.New("test"))
	snap, err := e.Export(context.Background(), "u1", "ana@example.com")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if snap.Data.Usuario != nil {
		t.Errorf("usuario = %+v, want nil for missing profile", snap.Data.Usuario)
	}
	if snap.Data.Contas == nil || snap.Data.Categorias == nil || snap.Data.Transacoes == nil ||
		snap.Data.Investimentos == nil || snap.Data.Metas == nil {
		t.Error("collections must default to empty slices, not nil")
	}
}

func TestExportFailsWhenAnyReadFails(t *testing.T) {
	for _, op := range []string{"get:usuario", "list:contas", "list:categorias", "list:transacoes", "list:investimentos", "list:metas"} {
		t.Run(op, func(t *testing.T) {
			st := newMockStore()
			st.failOn[op] = errors.New("store unavailable")

			e := NewExporter(st, logger.New("test"))
			if _, err := e.Export(context.Background(), "u1", ""); err == nil {
				t.Errorf("Export succeeded despite %s failing", op)
			}
		})
	}
}

func TestExportRoundTripsThroughRestoreValidation(t *testing.T) {
	st := newMockStore()
	st.profile = samplePayload().Usuario
	st.txs = samplePayload().Transacoes

	e := NewExporter(st, logger.New("test"))
	snap, err := e.Export(context.Background(), "u1", "ana@example.com")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	r := NewRestorer(newMockStore(), logger.New("test"))
	req := RestoreRequest{
		Version:   &snap.Version,
		CreatedAt: &snap.CreatedAt,
		User:      &snap.User,
		Data:      &snap.Data,
		Checksum:  &snap.Checksum,
		Preview:   true,
	}
	res, err := r.Run(context.Background(), "u1", req)
	if err != nil {
		t.Fatalf("Run(preview) rejected a fresh export: %v", err)
	}
	if _, ok := res.(*PreviewResult); !ok {
		t.Fatalf("result = %T, want *PreviewResult", res)
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC)
	if got := Filename(now); got != "backup-financas-2026-09-01.json" {
		t.Errorf("Filename() = %q", got)
	}
}
