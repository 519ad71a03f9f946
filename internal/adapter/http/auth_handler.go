package http

import (
	"net/http"

	"mathrent/internal/adapter/middleware"
	"mathrent/internal/usecase/auth"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthHandler struct {
	uc  *auth.Usecase
	log *zap.Logger
}

func NewAuthHandler(uc *auth.Usecase, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{uc: uc, log: log.Named("http.auth")}
}

type registerReq struct {
	NIM      string `json:"nim"      validate:"required,nim"`
	Name     string `json:"name"     validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginReq struct {
	NIM      string `json:"nim"      validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Register(c.Request().Context(), auth.RegisterInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// CreateStaff provisions a staff account. Mounted behind ProvisionKey.
func (h *AuthHandler) CreateStaff(c echo.Context) error {
	var req registerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.CreateStaff(c.Request().Context(), auth.RegisterInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// ValidateNIM always answers 200; validity is in the body.
func (h *AuthHandler) ValidateNIM(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.ValidateNIM(c.Param("nim")))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Login(c.Request().Context(), req.NIM, req.Password)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return unauthenticated(c)
	}
	dto, err := h.uc.Me(c.Request().Context(), p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.uc.Logout(c.Request().Context(), middleware.ClaimsFrom(c)); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
