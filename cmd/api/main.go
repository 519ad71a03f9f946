package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "mathrent/internal/adapter/http"
	"mathrent/internal/adapter/middleware"
	"mathrent/internal/adapter/repository/mysql"
	"mathrent/internal/config"
	"mathrent/internal/domain/uow"
	"mathrent/internal/infrastructure/cache"
	"mathrent/internal/infrastructure/db"
	"mathrent/internal/infrastructure/logging"
	"mathrent/internal/usecase/approval"
	"mathrent/internal/usecase/auth"
	"mathrent/internal/usecase/loan"
	"mathrent/internal/usecase/report"
	"mathrent/pkg/token"
)

func main() {
	cfg := config.Load()
	log, err := logging.New(cfg.AppEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), log)
	if err != nil {
		log.Fatal("open mysql", zap.Error(err))
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal("open redis", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	repos := uow.Repos{
		Loans:   mysql.NewLoanRepository(gdb),
		Catalog: mysql.NewCatalogRepository(gdb),
		Users:   mysql.NewUserRepository(gdb),
	}
	tx := mysql.NewGormUoW(gdb)
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL())
	authUC := auth.NewUsecase(repos.Users, tokens, cache.NewDenylist(rdb), log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.RequestID(), middleware.RequestLogger(log), echomw.Recover())

	httpadp.Router{
		Health: httpadp.NewHandler(map[string]httpadp.Check{
			"mysql": db.Ping(gdb),
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Auth:     httpadp.NewAuthHandler(authUC, log),
		Loans:    httpadp.NewLoanHandler(loan.NewUsecase(repos, tx, log), log),
		Approval: httpadp.NewApprovalHandler(approval.NewUsecase(tx, log), log),
		Reports:  httpadp.NewReportHandler(report.NewUsecase(repos), log),

		StaffProvisionKey: cfg.StaffProvisionKey,
	}.Register(e, authUC, middleware.Idempotency(rdb, cfg.IdempTTL(), log), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	log.Info("stopped")
}
