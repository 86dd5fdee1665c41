// Command ingest seeds customers and loans from the two spreadsheets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"gorm.io/gorm"

	"credit-approval/internal/adapter/repository/mysql"
	"credit-approval/internal/adapter/spreadsheet"
	"credit-approval/internal/config"
	"credit-approval/internal/infrastructure/db"
	"credit-approval/internal/infrastructure/metrics"
	"credit-approval/internal/logging"
	"credit-approval/internal/usecase/ingest"
)

type options struct {
	customers string
	loans     string
	force     bool
	workers   int
	// pushgateway receives the ingest counters when set.
	pushgateway string
}

const pushJob = "credit_ingest"

func parseFlags(args []string, defaultWorkers int, out io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&o.customers, "customers", "customer_data.xlsx", "customer workbook")
	fs.StringVar(&o.loans, "loans", "loan_data.xlsx", "loan workbook")
	fs.BoolVar(&o.force, "force", false, "import even when customers already exist")
	fs.IntVar(&o.workers, "workers", defaultWorkers, "concurrent row transactions")
	fs.StringVar(&o.pushgateway, "pushgateway", "", "Prometheus Pushgateway URL for the import counters")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.customers == "" {
		return o, errors.New("-customers is required")
	}
	if o.workers < 1 {
		return o, fmt.Errorf("-workers must be positive, got %d", o.workers)
	}
	return o, nil
}

func main() {
	cfg := config.Load()
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	opts, err := parseFlags(os.Args[1:], cfg.IngestWorkers, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), cfg.DBLogLevel)
	if err != nil {
		log.Error("open database", slog.Any("err", err))
		os.Exit(1)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Error("migrate", slog.Any("err", err))
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	runErr := run(ctx, gdb, opts, log, m)
	if err := publish(ctx, opts.pushgateway, reg); err != nil {
		log.Warn("push metrics", slog.String("url", opts.pushgateway), slog.Any("err", err))
	}
	if runErr != nil {
		log.Error("ingest failed", slog.Any("err", runErr))
		os.Exit(1)
	}
}

// publish pushes everything in g to the gateway at url. An empty url is a no-op.
func publish(ctx context.Context, url string, g prometheus.Gatherer) error {
	if url == "" {
		return nil
	}
	return push.New(url, pushJob).Gatherer(g).PushContext(ctx)
}

func run(ctx context.Context, gdb *gorm.DB, opts options, log *slog.Logger, m *metrics.Metrics) error {
	in := ingest.NewIngestor(mysql.NewGormUoW(gdb), mysql.NewCustomerRepository(gdb), opts.workers, log, m)

	seeded, err := in.HasCustomers(ctx)
	if err != nil {
		return fmt.Errorf("count customers: %w", err)
	}
	if seeded && !opts.force {
		log.Info("customers already present, skipping import (use -force to re-import)")
		return nil
	}

	customers, err := spreadsheet.ReadCustomersFile(opts.customers)
	if err != nil {
		return fmt.Errorf("read %s: %w", opts.customers, err)
	}
	report, err := in.ImportCustomers(ctx, customers)
	if err != nil {
		return err
	}
	logReport(log, report)

	if opts.loans == "" {
		return nil
	}
	loans, err := spreadsheet.ReadLoansFile(opts.loans)
	if err != nil {
		return fmt.Errorf("read %s: %w", opts.loans, err)
	}
	report, err = in.ImportLoans(ctx, loans)
	if err != nil {
		return err
	}
	logReport(log, report)
	return nil
}

func logReport(log *slog.Logger, r ingest.Report) {
	log.Info("import finished",
		slog.String("sheet", r.Sheet),
		slog.Int("created", r.Created),
		slog.Int("updated", r.Updated),
		slog.Int("skipped", r.Skipped),
		slog.Int("invalid", r.Invalid),
	)
}
