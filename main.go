// FILE: main.go
// Package main – Program entrypoint.
//
// Boot sequence:
//   1) loadDotEnv()            – hydrate process env from .env (no override)
//   2) cfg := loadConfig(path) – file + GAP_* env overrides, validated
//   3) initLogger(cfg.Log)     – logrus to stdout and rotated file
//   4) runBacktest             – ingest ticks, replay through the engine
//   5) report, ledger export, metrics textfile
//   6) optionally serve /metrics and /healthz until interrupted
//
// Flags:
//   -config <file>        strategy config (.toml | .yaml | .yml)
//   -env <file>           dotenv file (default .env)
//   -ticks <csv>          tick data (overrides data.tick_data)
//   -trans <csv>          transaction data (overrides data.trans_data)
//   -ledger-db <file>     SQLite ledger export (overrides output.ledger_db)
//   -metrics-out <file>   Prometheus textfile (overrides output.metrics_file)
//   -metrics-addr <addr>  serve metrics after the run, e.g. :9102
//
// Example:
//   go run . -config strategy.toml -ticks 601012.SH.Tick.csv

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	// ---- Flags ----
	var (
		configPath  string
		envPath     string
		ticksPath   string
		transPath   string
		ledgerPath  string
		metricsOut  string
		metricsAddr string
	)
	flag.StringVar(&configPath, "config", "strategy.toml", "Strategy config file (.toml, .yaml, .yml)")
	flag.StringVar(&envPath, "env", ".env", "dotenv file loaded before the config")
	flag.StringVar(&ticksPath, "ticks", "", "Tick CSV (overrides data.tick_data)")
	flag.StringVar(&transPath, "trans", "", "Transaction CSV (overrides data.trans_data)")
	flag.StringVar(&ledgerPath, "ledger-db", "", "SQLite file for the final ledger")
	flag.StringVar(&metricsOut, "metrics-out", "", "Prometheus textfile written after the run")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Serve /metrics on this address after the run")
	flag.Parse()

	// ---- Environment & Config ----
	loadDotEnv(envPath)
	cfg, err := loadConfig(configPath)
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	overrideString(&cfg.Data.TickData, ticksPath)
	overrideString(&cfg.Data.TransData, transPath)
	overrideString(&cfg.Output.LedgerDB, ledgerPath)
	overrideString(&cfg.Output.MetricsFile, metricsOut)
	overrideString(&cfg.Output.MetricsAddr, metricsAddr)
	if cfg.Data.TickData == "" {
		logrus.Fatal("config: no tick data (set data.tick_data or -ticks)")
	}

	closer, err := initLogger(cfg.Log)
	if err != nil {
		logrus.Fatalf("logger: %v", err)
	}
	defer closer.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// ---- Run ----
	eng, err := runBacktest(ctx, cfg)
	if err != nil {
		logrus.Fatalf("backtest: %v", err)
	}
	orders := eng.Orders()
	logReport(Summarize(orders), cfg.Data.PriceScale)

	// ---- Artifacts ----
	if cfg.Output.LedgerDB != "" {
		if err := exportLedger(ctx, cfg.Output.LedgerDB, orders, cfg.Data.PriceScale); err != nil {
			logrus.Fatalf("ledger export: %v", err)
		}
		logrus.Infof("ledger written to %s", cfg.Output.LedgerDB)
	}
	if cfg.Output.MetricsFile != "" {
		if err := writeMetricsFile(cfg.Output.MetricsFile); err != nil {
			logrus.Fatalf("metrics: %v", err)
		}
	}
	if cfg.Output.MetricsAddr != "" {
		serveMetrics(ctx, cfg.Output.MetricsAddr)
	}
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// serveMetrics exposes the finished run for scraping until ctx is done.
func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logrus.Infof("serving metrics on %s/metrics (Ctrl-C to exit)", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server: %v", err)
		}
	}()
	<-ctx.Done()

	shutdownCtx, c := context.WithTimeout(context.Background(), 2*time.Second)
	defer c()
	_ = srv.Shutdown(shutdownCtx)
}
