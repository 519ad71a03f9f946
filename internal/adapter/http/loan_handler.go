package http

import (
	"net/http"

	"mathrent/internal/domain/catalog"
	loanDomain "mathrent/internal/domain/loan"
	"mathrent/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type LoanHandler struct {
	uc  *loan.Usecase
	log *zap.Logger
}

func NewLoanHandler(uc *loan.Usecase, log *zap.Logger) *LoanHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoanHandler{uc: uc, log: log.Named("http.loan")}
}

type lineItemReq struct {
	Kind       string    `json:"kind"        validate:"required,kind"`
	ResourceID uint64    `json:"resource_id" validate:"required"`
	Quantity   *int      `json:"quantity"`
	StartTime  *wireTime `json:"start_time"`
	EndTime    *wireTime `json:"end_time"`
}

type createLoanReq struct {
	LoanDate string        `json:"loan_date" validate:"required,datetime=2006-01-02"`
	Notes    string        `json:"notes"     validate:"max=1000"`
	Items    []lineItemReq `json:"items"     validate:"dive"`
}

type updateLoanReq struct {
	LoanDate *string `json:"loan_date" validate:"omitempty,datetime=2006-01-02"`
	Notes    *string `json:"notes"     validate:"omitempty,max=1000"`
}

type listLoansReq struct {
	Page     int    `query:"page"`
	PerPage  int    `query:"per_page"`
	Status   string `query:"status"    validate:"omitempty,loanstatus"`
	DateFrom string `query:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `query:"date_to"   validate:"omitempty,datetime=2006-01-02"`
	Q        string `query:"q"         validate:"max=100"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthenticated(c)
	}
	var req createLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	in := loan.CreateLoanInput{LoanDate: parseDate(req.LoanDate), Notes: req.Notes}
	for _, it := range req.Items {
		in.Items = append(in.Items, loan.LineItemInput{
			Kind:       catalog.Kind(it.Kind),
			ResourceID: it.ResourceID,
			Quantity:   it.Quantity,
			StartTime:  it.StartTime.ptr(),
			EndTime:    it.EndTime.ptr(),
		})
	}
	dto, err := h.uc.Create(c.Request().Context(), p, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthenticated(c)
	}
	var req listLoansReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	in := loan.ListInput{
		DateFrom: optionalDate(req.DateFrom),
		DateTo:   optionalDate(req.DateTo),
		Query:    req.Q,
		Page:     req.Page,
		PerPage:  req.PerPage,
	}
	if req.Status != "" {
		st := loanDomain.Status(req.Status)
		in.Status = &st
	}
	page, err := h.uc.List(c.Request().Context(), p, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthenticated(c)
	}
	loanID, ok, err := loanIDParam(c)
	if !ok {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), p, loanID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthenticated(c)
	}
	loanID, ok, err := loanIDParam(c)
	if !ok {
		return err
	}
	var req updateLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	in := loan.UpdateLoanInput{Notes: req.Notes}
	if req.LoanDate != nil {
		d := parseDate(*req.LoanDate)
		in.LoanDate = &d
	}
	dto, err := h.uc.Update(c.Request().Context(), p, loanID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthenticated(c)
	}
	loanID, ok, err := loanIDParam(c)
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.Request().Context(), p, loanID); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
