package backup

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lmcosta/financas-familia/internal/domain"
	"github.com/lmcosta/financas-familia/internal/logger"
)

func validRequest(t *testing.T) RestoreRequest {
	t.Helper()
	data := samplePayload()
	checksum, err := Checksum(data)
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	version := Version
	createdAt := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	return RestoreRequest{
		Version:   &version,
		CreatedAt: &createdAt,
		User:      &UserRef{ID: "u1", Email: "ana@example.com"},
		Data:      &data,
		Checksum:  &checksum,
	}
}

func runRestore(t *testing.T, st *mockStore, req RestoreRequest) (interface{}, error) {
	t.Helper()
	r := NewRestorer(st, logger.New("test"))
	return r.Run(context.Background(), "owner-1", req)
}

func TestRestoreRejectsStructurallyInvalid(t *testing.T) {
	base := validRequest(t)

	tests := []struct {
		name   string
		mutate func(*RestoreRequest)
	}{
		{"missing version", func(r *RestoreRequest) { r.Version = nil }},
		{"missing data", func(r *RestoreRequest) { r.Data = nil }},
		{"missing checksum", func(r *RestoreRequest) { r.Checksum = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newMockStore()
			req := base
			tt.mutate(&req)

			_, err := runRestore(t, st, req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if len(st.calls) != 0 {
				t.Errorf("store touched on invalid request: %v", st.calls)
			}
		})
	}
}

func TestRestoreRejectsTamperedChecksum(t *testing.T) {
	st := newMockStore()
	req := validRequest(t)
	tampered := flipHexDigit((*req.Checksum)[0]) + (*req.Checksum)[1:]
	req.Checksum = &tampered
	req.ConfirmDelete = true

	_, err := runRestore(t, st, req)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if !strings.Contains(verr.Message, "checksum") {
		t.Errorf("message = %q, want checksum mention", verr.Message)
	}
	if len(st.calls) != 0 {
		t.Errorf("no deletion may happen on checksum mismatch, got calls %v", st.calls)
	}
}

func TestRestoreRejectsTamperedData(t *testing.T) {
	st := newMockStore()
	req := validRequest(t)
	// Checksum was computed before this mutation.
	req.Data.Transacoes[0].Amount += 1000
	req.ConfirmDelete = true

	_, err := runRestore(t, st, req)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(st.calls) != 0 {
		t.Errorf("store touched: %v", st.calls)
	}
}

func TestRestoreRejectsMajorVersionMismatch(t *testing.T) {
	st := newMockStore()
	req := validRequest(t)
	old := "2.0.0"
	req.Version = &old
	req.ConfirmDelete = true

	_, err := runRestore(t, st, req)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if !strings.Contains(verr.Message, "2.0.0") || !strings.Contains(verr.Message, Version) {
		t.Errorf("message %q must name both versions", verr.Message)
	}
}

func TestRestoreAcceptsMinorVersionDifference(t *testing.T) {
	st := newMockStore()
	req := validRequest(t)
	minor := "1.4.7"
	req.Version = &minor
	req.ConfirmDelete = true

	if _, err := runRestore(t, st, req); err != nil {
		t.Fatalf("minor/patch difference must not gate restore: %v", err)
	}
}

func TestRestorePreviewIsNonDestructive(t *testing.T) {
	st := newMockStore()
	req := validRequest(t)
	req.Preview = true

	res, err := runRestore(t, st, req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	preview, ok := res.(*PreviewResult)
	if !ok {
		t.Fatalf("result = %T, want *PreviewResult", res)
	}

	if !preview.Success || !preview.Preview {
		t.Errorf("flags = %+v", preview)
	}
	if preview.BackupInfo.OriginalUser != "ana@example.com" {
		t.Errorf("original user = %q", preview.BackupInfo.OriginalUser)
	}
	wantCounts := map[string]int{"contas": 1, "categorias": 1, "transacoes": 1, "investimentos": 1, "metas": 1}
	for k, want := range wantCounts {
		if preview.Counts[k] != want {
			t.Errorf("counts[%s] = %d, want %d", k, preview.Counts[k], want)
		}
	}
	if preview.Warning == "" {
		t.Error("preview must warn about data deletion")
	}
	if len(st.calls) != 0 {
		t.Errorf("preview mutated the store: %v", st.calls)
	}
}

func TestRestoreRequiresConfirmation(t *testing.T) {
	st := newMockStore()
	req := validRequest(t) // ConfirmDelete unset

	_, err := runRestore(t, st, req)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if !strings.Contains(verr.Message, "confirmDelete") {
		t.Errorf("message %q must instruct resending with confirmDelete", verr.Message)
	}
	if len(st.calls) != 0 {
		t.Errorf("zero rows may be touched without confirmation, got %v", st.calls)
	}
}

func TestRestoreOrdering(t *testing.T) {
	st := newMockStore()
	req := validRequest(t)
	req.ConfirmDelete = true

	res, err := runRestore(t, st, req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := res.(*RestoreReport); !ok {
		t.Fatalf("result = %T, want *RestoreReport", res)
	}

	want := []string{
		"delete:transacoes",
		"delete:investimentos",
		"delete:metas",
		"delete:categorias",
		"delete:contas",
		"insert:contas",
		"insert:categorias",
		"insert:transacoes",
		"insert:investimentos",
		"insert:metas",
		"patch:usuario",
	}
	if len(st.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", st.calls, want)
	}
	for i := range want {
		if st.calls[i] != want[i] {
			t.Errorf("calls[%d] = %s, want %s", i, st.calls[i], want[i])
		}
	}
}

func TestRestoreNullsTransactionLinks(t *testing.T) {
	st := newMockStore()
	req := validRequest(t)
	req.ConfirmDelete = true

	if _, err := runRestore(t, st, req); err != nil {
		t.Fatalf("Run: %v", err)
	}

	txs, ok := st.inserted["transacoes"].([]domain.Transaction)
	if !ok || len(txs) == 0 {
		t.Fatalf("no transactions inserted")
	}
	for _, tx := range txs {
		if tx.CategoryID != "" || tx.AccountID != "" {
			t.Errorf("transaction %s kept links category=%q account=%q", tx.ID, tx.CategoryID, tx.AccountID)
		}
	}
}

func TestRestorePartialInsertFailure(t *testing.T) {
	st := newMockStore()
	st.failOn["insert:categorias"] = errors.New("quota exceeded")
	req := validRequest(t)
	req.ConfirmDelete = true

	res, err := runRestore(t, st, req)
	if err != nil {
		t.Fatalf("one resource failing must not abort the restore: %v", err)
	}
	report := res.(*RestoreReport)

	cat := report.Results["categorias"]
	if cat.Restored != 0 || len(cat.Errors) != 1 {
		t.Errorf("categorias report = %+v", cat)
	}
	for _, resource := range []string{"contas", "transacoes", "investimentos", "metas"} {
		rep := report.Results[resource]
		if rep.Restored != 1 || len(rep.Errors) != 0 {
			t.Errorf("%s report = %+v, want 1 restored", resource, rep)
		}
	}
	if report.Note == "" {
		t.Error("report must carry the re-linking note")
	}
}

func TestRestoreDeleteFailureAborts(t *testing.T) {
	st := newMockStore()
	st.failOn["delete:metas"] = errors.New("store down")
	req := validRequest(t)
	req.ConfirmDelete = true

	_, err := runRestore(t, st, req)
	if err == nil {
		t.Fatal("delete failure must abort the restore")
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		t.Error("delete failure is not a validation error")
	}
	for _, call := range st.calls {
		if strings.HasPrefix(call, "insert:") {
			t.Errorf("insert ran after failed delete: %v", st.calls)
		}
	}
}

func TestRestoreProfilePatch(t *testing.T) {
	t.Run("name and income", func(t *testing.T) {
		st := newMockStore()
		req := validRequest(t)
		req.ConfirmDelete = true

		if _, err := runRestore(t, st, req); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if st.patched == nil {
			t.Fatal("profile not patched")
		}
		if st.patched.Name == nil || *st.patched.Name != "Ana" {
			t.Errorf("patched name = %v", st.patched.Name)
		}
		if st.patched.MonthlyIncome == nil || *st.patched.MonthlyIncome != 8000 {
			t.Errorf("patched income = %v", st.patched.MonthlyIncome)
		}
	})

	t.Run("no profile in snapshot", func(t *testing.T) {
		st := newMockStore()
		req := validRequest(t)
		req.Data.Usuario = nil
		checksum, err := Checksum(*req.Data)
		if err != nil {
			t.Fatal(err)
		}
		req.Checksum = &checksum
		req.ConfirmDelete = true

		if _, err := runRestore(t, st, req); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if st.patched != nil {
			t.Errorf("profile patched without snapshot data: %+v", st.patched)
		}
	})
}

// flipHexDigit returns a different hex digit so the tampered checksum stays
// well-formed.
func flipHexDigit(b byte) string {
	if b == 'f' {
		return "0"
	}
	return "f"
}
