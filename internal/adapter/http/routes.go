package http

import (
	"mathrent/internal/adapter/middleware"
	"mathrent/internal/domain/user"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Router struct {
	Health   *Handler
	Auth     *AuthHandler
	Loans    *LoanHandler
	Approval *ApprovalHandler
	Reports  *ReportHandler

	// StaffProvisionKey mounts POST /auth/create-staff when non-empty.
	StaffProvisionKey string
}

// Register mounts every route. idem guards the mutating loan routes and
// runs after authentication, since keys are scoped per user.
func (r Router) Register(e *echo.Echo, authn middleware.Authenticator, idem echo.MiddlewareFunc, log *zap.Logger) {
	authed := middleware.Auth(authn, log)
	staff := middleware.RequireRole(user.RoleStaff)
	student := middleware.RequireRole(user.RoleStudent)

	e.GET("/health", r.Health.Health)

	e.POST("/auth/register", r.Auth.Register)
	e.POST("/auth/login", r.Auth.Login)
	e.GET("/auth/validate-nim/:nim", r.Auth.ValidateNIM)
	if r.StaffProvisionKey != "" {
		e.POST("/auth/create-staff", r.Auth.CreateStaff, middleware.ProvisionKey(r.StaffProvisionKey, log))
	}
	e.GET("/auth/me", r.Auth.Me, authed)
	e.POST("/auth/logout", r.Auth.Logout, authed)

	loans := e.Group("/loans", authed)
	loans.POST("", r.Loans.CreateLoan, student, idem)
	loans.GET("", r.Loans.ListLoans)
	loans.GET("/pending", r.Reports.Pending, staff)
	loans.GET("/today", r.Reports.Today, staff)
	loans.GET("/stats", r.Reports.Stats, staff)
	loans.GET("/available", r.Reports.Available)
	loans.GET("/:loan_id", r.Loans.GetLoan)
	loans.PUT("/:loan_id", r.Loans.UpdateLoan, idem)
	loans.DELETE("/:loan_id", r.Loans.DeleteLoan)
	loans.PUT("/:loan_id/status", r.Approval.UpdateStatus, staff, idem)
}
