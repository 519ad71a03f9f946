package http

import (
	"net/http"

	"mathrent/internal/usecase/report"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ReportHandler struct {
	uc  *report.Usecase
	log *zap.Logger
}

func NewReportHandler(uc *report.Usecase, log *zap.Logger) *ReportHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportHandler{uc: uc, log: log.Named("http.report")}
}

type pagingReq struct {
	Page    int `query:"page"`
	PerPage int `query:"per_page"`
}

func (h *ReportHandler) Pending(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthenticated(c)
	}
	var req pagingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	page, err := h.uc.Pending(c.Request().Context(), p, req.Page, req.PerPage)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ReportHandler) Today(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthenticated(c)
	}
	var req pagingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	page, err := h.uc.Today(c.Request().Context(), p, req.Page, req.PerPage)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ReportHandler) Stats(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthenticated(c)
	}
	st, err := h.uc.Stats(c.Request().Context(), p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *ReportHandler) Available(c echo.Context) error {
	av, err := h.uc.Available(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, av)
}
