package http

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"mathrent/internal/adapter/middleware"
	"mathrent/internal/adapter/repository/mysql"
	"mathrent/internal/domain/uow"
	"mathrent/internal/domain/user"
	"mathrent/internal/testutil/sqlitedb"
	"mathrent/internal/usecase/approval"
	"mathrent/internal/usecase/loan"
	"mathrent/internal/usecase/report"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

// env wires real usecases over an in-memory database.
type env struct {
	e        *echo.Echo
	db       *gorm.DB
	loans    *LoanHandler
	approval *ApprovalHandler
	reports  *ReportHandler
	student  user.Principal
	other    user.Principal
	staff    user.Principal
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := sqlitedb.Open(t)
	log := zaptest.NewLogger(t)
	repos := uow.Repos{
		Loans:   mysql.NewLoanRepository(db),
		Catalog: mysql.NewCatalogRepository(db),
		Users:   mysql.NewUserRepository(db),
	}
	tx := mysql.NewGormUoW(db)
	return &env{
		e:        newEchoWithValidator(),
		db:       db,
		loans:    NewLoanHandler(loan.NewUsecase(repos, tx, log), log),
		approval: NewApprovalHandler(approval.NewUsecase(tx, log), log),
		reports:  NewReportHandler(report.NewUsecase(repos), log),
		student:  sqlitedb.SeedUser(t, db, "H011211001", "Andi", user.RoleStudent).Principal(),
		other:    sqlitedb.SeedUser(t, db, "H081221002", "Budi", user.RoleStudent).Principal(),
		staff:    sqlitedb.SeedUser(t, db, "STAFF001", "Bu Sari", user.RoleStaff).Principal(),
	}
}

type call struct {
	method string
	path   string
	body   any
	raw    string
	loanID string
	as     *user.Principal
}

func (en *env) do(t *testing.T, h echo.HandlerFunc, cl call) *httptest.ResponseRecorder {
	t.Helper()
	var req = httptest.NewRequest(cl.method, cl.path, nil)
	switch {
	case cl.raw != "":
		req = httptest.NewRequest(cl.method, cl.path, bytes.NewReader([]byte(cl.raw)))
	case cl.body != nil:
		req = httptest.NewRequest(cl.method, cl.path, mustJSON(cl.body))
	}
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := en.e.NewContext(req, rec)
	if cl.loanID != "" {
		c.SetParamNames("loan_id")
		c.SetParamValues(cl.loanID)
	}
	if cl.as != nil {
		middleware.WithPrincipal(c, *cl.as, nil)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return out
}

func hasFieldDetail(details []FieldError, field, contains string) bool {
	return containsFieldMsg(details, field, contains)
}
