package http

import (
	"net/http"

	"mathrent/internal/domain/loan"
	"mathrent/internal/usecase/approval"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ApprovalHandler struct {
	uc  *approval.Usecase
	log *zap.Logger
}

func NewApprovalHandler(uc *approval.Usecase, log *zap.Logger) *ApprovalHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ApprovalHandler{uc: uc, log: log.Named("http.approval")}
}

type updateStatusReq struct {
	Status string `json:"status" validate:"required,loanstatus"`
	Notes  string `json:"notes"  validate:"max=1000"`
}

func (h *ApprovalHandler) UpdateStatus(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthenticated(c)
	}
	// Validate path param
	loanID, ok, err := loanIDParam(c)
	if !ok {
		return err
	}
	// Bind + validate body payload JSON
	var req updateStatusReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	dto, err := h.uc.Transition(c.Request().Context(), p, loanID, approval.TransitionInput{
		Status: loan.Status(req.Status),
		Notes:  req.Notes,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
