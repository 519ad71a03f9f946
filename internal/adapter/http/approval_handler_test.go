package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"regexp"
	"strings"
	"testing"

	"mathrent/internal/domain/loan"
	"mathrent/internal/domain/uow"
	"mathrent/internal/testutil/sqlitedb"
	"mathrent/internal/testutil/uowmock"
	"mathrent/internal/usecase/approval"
	loanuc "mathrent/internal/usecase/loan"

	"go.uber.org/zap/zaptest"
)

func (en *env) setStatus(t *testing.T, loanID string, body map[string]any) (int, []byte) {
	t.Helper()
	rec := en.do(t, en.approval.UpdateStatus, call{method: stdhttp.MethodPut, path: "/loans/" + loanID + "/status", loanID: loanID, body: body, as: &en.staff})
	return rec.Code, rec.Body.Bytes()
}

func TestUpdateStatus_ApproveThenReturn(t *testing.T) {
	en := newEnv(t)
	it := sqlitedb.SeedItem(t, en.db, "Proyektor", 2)
	dto := en.createLoan(t, map[string]any{"loan_date": "2025-03-10", "items": []map[string]any{{"kind": "barang", "resource_id": it.ID, "quantity": 2}}})

	rec := en.do(t, en.approval.UpdateStatus, call{method: stdhttp.MethodPut, path: "/loans/" + dto.LoanID + "/status", loanID: dto.LoanID, as: &en.staff,
		body: map[string]any{"status": "disetujui", "notes": "ambil di TU"}})
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("approve: status = %d body=%s", rec.Code, rec.Body.String())
	}
	got := decode[loanuc.LoanDTO](t, rec)
	if got.Status != loan.StatusApproved || got.Notes != "ambil di TU" {
		t.Fatalf("unexpected dto: %+v", got)
	}
	if got.VerificationCode == nil || !regexp.MustCompile(`^[A-Z0-9]{8}$`).MatchString(*got.VerificationCode) {
		t.Fatalf("verification code = %v", got.VerificationCode)
	}
	if got.ApproverID == nil || *got.ApproverID != en.staff.ID {
		t.Fatalf("approver = %v, want %d", got.ApproverID, en.staff.ID)
	}
	if got.Items[0].Resource.Status != "dipinjam" {
		t.Fatalf("item status after approve = %s", got.Items[0].Resource.Status)
	}

	code, _ := en.setStatus(t, dto.LoanID, map[string]any{"status": "dikembalikan"})
	if code != stdhttp.StatusOK {
		t.Fatalf("return: status = %d", code)
	}
	var stock int
	en.db.Table("items").Select("stock").Where("id = ?", it.ID).Scan(&stock)
	if stock != 2 {
		t.Fatalf("stock after return = %d, want 2", stock)
	}
}

func TestUpdateStatus_InvalidTransitionIsConflict(t *testing.T) {
	en := newEnv(t)
	ss := sqlitedb.SeedSession(t, en.db, "Kalkulus I")
	dto := en.createLoan(t, map[string]any{"loan_date": "2025-03-10", "items": []map[string]any{{"kind": "absen", "resource_id": ss.ID}}})

	if code, _ := en.setStatus(t, dto.LoanID, map[string]any{"status": "ditolak"}); code != stdhttp.StatusOK {
		t.Fatalf("reject: status = %d", code)
	}
	code, body := en.setStatus(t, dto.LoanID, map[string]any{"status": "disetujui"})
	if code != stdhttp.StatusConflict {
		t.Fatalf("approve rejected loan: status = %d, want 409", code)
	}
	if !strings.Contains(string(body), `\"ditolak\"`) {
		t.Fatalf("error should name the current status: %s", body)
	}
	var er TransitionErrorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if er.From != loan.StatusRejected || er.To != loan.StatusApproved || er.Allowed == nil || len(er.Allowed) != 0 {
		t.Fatalf("unexpected body: %+v", er)
	}
}

func TestUpdateStatus_ConflictListsAllowedStatuses(t *testing.T) {
	en := newEnv(t)
	ss := sqlitedb.SeedSession(t, en.db, "Kalkulus I")
	dto := en.createLoan(t, map[string]any{"loan_date": "2025-03-10", "items": []map[string]any{{"kind": "absen", "resource_id": ss.ID}}})

	code, body := en.setStatus(t, dto.LoanID, map[string]any{"status": "dikembalikan"})
	if code != stdhttp.StatusConflict {
		t.Fatalf("return pending loan: status = %d, want 409", code)
	}
	var er TransitionErrorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []loan.Status{loan.StatusApproved, loan.StatusRejected}
	if er.From != loan.StatusPending || len(er.Allowed) != 2 || er.Allowed[0] != want[0] || er.Allowed[1] != want[1] {
		t.Fatalf("unexpected body: %+v", er)
	}
}

func TestUpdateStatus_ValidationError(t *testing.T) {
	en := newEnv(t)
	id := strings.Repeat("a", 32)
	code, body := en.setStatus(t, id, map[string]any{"status": "approved"})
	if code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", code)
	}
	if !strings.Contains(string(body), "disetujui") {
		t.Fatalf("details should list the accepted statuses: %s", body)
	}
}

func TestUpdateStatus_StudentForbidden(t *testing.T) {
	en := newEnv(t)
	ss := sqlitedb.SeedSession(t, en.db, "Kalkulus I")
	dto := en.createLoan(t, map[string]any{"loan_date": "2025-03-10", "items": []map[string]any{{"kind": "absen", "resource_id": ss.ID}}})

	rec := en.do(t, en.approval.UpdateStatus, call{method: stdhttp.MethodPut, path: "/loans/" + dto.LoanID + "/status", loanID: dto.LoanID, as: &en.student,
		body: map[string]any{"status": "disetujui"}})
	if rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	en := newEnv(t)
	if code, _ := en.setStatus(t, strings.Repeat("b", 32), map[string]any{"status": "disetujui"}); code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
}

func TestUpdateStatus_InternalErrorIsHidden(t *testing.T) {
	en := newEnv(t)
	tx := uowmock.New().WithWithinLoanTx(func(ctx context.Context, loanID string, fn func(uow.Repos, *loan.Loan) error) error {
		return errors.New("dial tcp 10.0.0.5:3306: connection refused")
	})
	h := NewApprovalHandler(approval.NewUsecase(tx, zaptest.NewLogger(t)), zaptest.NewLogger(t))

	rec := en.do(t, h.UpdateStatus, call{method: stdhttp.MethodPut, path: "/x", loanID: strings.Repeat("c", 32), as: &en.staff,
		body: map[string]any{"status": "disetujui"}})
	if rec.Code != stdhttp.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
}
