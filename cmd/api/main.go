package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	httpadp "credit-approval/internal/adapter/http"
	mw "credit-approval/internal/adapter/middleware"
	repo "credit-approval/internal/adapter/repository/mysql"
	"credit-approval/internal/config"
	"credit-approval/internal/infrastructure/cache"
	"credit-approval/internal/infrastructure/db"
	"credit-approval/internal/infrastructure/metrics"
	"credit-approval/internal/logging"
	ucCustomer "credit-approval/internal/usecase/customer"
	ucLoan "credit-approval/internal/usecase/loan"
	"credit-approval/pkg/id"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	gdb, err := db.OpenGorm(cfg.MySQLDSN(), cfg.DBLogLevel)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			return err
		}
		log.Info("schema migrated")
	}

	rdb, err := cache.OpenRedis(ctx, cache.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB, PoolSize: cfg.RedisPoolSize})
	if err != nil {
		return err
	}
	defer rdb.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cache.RegisterPoolMetrics(reg, rdb)

	e := newServer(cfg, log, gdb, rdb, reg)

	errc := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		log.Info("listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}

func newServer(cfg *config.Config, log *slog.Logger, gdb *gorm.DB, rdb redis.Cmdable, reg *prometheus.Registry) *echo.Echo {
	// numbers on the wire, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true

	m := metrics.New(reg)

	customers := repo.NewCustomerRepository(gdb)
	loans := repo.NewLoanRepository(gdb)
	tx := repo.NewGormUoW(gdb)

	customerUC := ucCustomer.NewUsecase(customers, log)
	loanUC := ucLoan.NewUsecase(customers, loans, tx, log, m)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: id.NewID32}),
		middleware.Logger(),
		middleware.Recover(),
		mw.Latency(m),
	)

	checks := []httpadp.Check{
		{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	}
	if sqlDB, err := gdb.DB(); err == nil {
		checks = append(checks, httpadp.Check{Name: "mysql", Ping: sqlDB.PingContext})
	}

	httpadp.Register(e, httpadp.Routes{
		Health:    httpadp.NewHandler(checks...),
		Customers: httpadp.NewCustomerHandler(customerUC, log),
		Loans:     httpadp.NewLoanHandler(loanUC, log),
		Metrics:   m.Handler(),
		Idempotency: mw.IdempotencyMiddleware(rdb, mw.IdempotencyConfig{
			TTL:     cfg.IdempotencyTTL(),
			Log:     log,
			Metrics: m,
		}),
	})
	return e
}
