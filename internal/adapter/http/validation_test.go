package http

import (
	"errors"
	"strings"
	"testing"
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestNIMValidation(t *testing.T) {
	type P struct {
		NIM string `json:"nim" validate:"nim"`
	}
	cv := NewValidator()

	for _, s := range []string{"H011211001", "H081221099", "H071231026"} {
		if err := cv.Validate(P{NIM: s}); err != nil {
			t.Fatalf("expected valid nim %q, got err: %v", s, err)
		}
	}
	for _, s := range []string{"", "H0112", "X011211001", "H011211100", "h011211001"} {
		err := cv.Validate(P{NIM: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "nim", "student number") {
			t.Fatalf("expected nim message for %q, got: %+v", s, fe)
		}
	}
}

func TestKindAndStatusValidation(t *testing.T) {
	type P struct {
		Kind   string `json:"kind"   validate:"kind"`
		Status string `json:"status" validate:"loanstatus"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{Kind: "kelas", Status: "disetujui"}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	err := cv.Validate(P{Kind: "lab", Status: "approved"})
	if err == nil {
		t.Fatalf("expected errors")
	}
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "kind", "barang, kelas, absen") {
		t.Fatalf("missing kind message: %+v", fe)
	}
	if !containsFieldMsg(fe, "status", "dikembalikan") {
		t.Fatalf("missing status message: %+v", fe)
	}
}

func TestNestedFieldNamesUseWireNames(t *testing.T) {
	cv := NewValidator()
	req := createLoanReq{
		LoanDate: "10-03-2025",
		Items:    []lineItemReq{{Kind: "barang", ResourceID: 1}, {Kind: "nope"}},
	}
	fe := ToFieldErrors(cv.Validate(req))

	if !containsFieldMsg(fe, "loan_date", "YYYY-MM-DD") {
		t.Fatalf("missing loan_date message: %+v", fe)
	}
	if !containsFieldMsg(fe, "items[1].kind", "barang, kelas, absen") {
		t.Fatalf("missing items[1].kind message: %+v", fe)
	}
	if !containsFieldMsg(fe, "items[1].resource_id", "is required") {
		t.Fatalf("missing items[1].resource_id message: %+v", fe)
	}
}

func TestQueryFieldNames(t *testing.T) {
	fe := ToFieldErrors(NewValidator().Validate(listLoansReq{Status: "x", DateTo: "2025/03/10"}))
	if !containsFieldMsg(fe, "status", "pending") || !containsFieldMsg(fe, "date_to", "YYYY-MM-DD") {
		t.Fatalf("unexpected details: %+v", fe)
	}
}

func TestToFieldErrors_NonValidatorError(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 || fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected: %+v", fe)
	}
}
