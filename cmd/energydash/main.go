// Command energydash loads the Eurostat emissions, renewables and energy
// tables and either prints one computed view as JSON or serves the
// dashboard API.
//
//	energydash -config energydash.yaml -country Germany -from 2010 -to 2020
//	energydash -config energydash.yaml -serve :8080
//
// A config with server.addr serves by default; report flags (-country, -from,
// -to, -charts) print a report instead unless -serve is given.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"energydash/internal/chart"
	"energydash/internal/config"
	"energydash/internal/dashboard"
	"energydash/internal/loader"
	"energydash/internal/metrics"
	"energydash/internal/metrics/datadog"
	"energydash/internal/metrics/prompush"
	"energydash/internal/webui"

	// register all backends with the storage factory.
	_ "energydash/internal/storage/all"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}

// run is main without process globals; it returns the exit code.
func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("energydash", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f, err := config.LoadFlags(fs, getenv, args)
	if err != nil {
		return 2
	}

	log, err := newLogger(f.Verbose)
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	f.ApplyTo(&cfg)

	issues := config.ValidateDashboard(cfg)
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Error("configuration is invalid", zap.String("config", f.ConfigPath))
		return 1
	}
	if f.Validate {
		log.Info("configuration is valid", zap.String("config", f.ConfigPath))
		return 0
	}

	flush := setupMetrics(cfg.Metrics, log)
	defer flush()

	start := time.Now()
	base, err := loader.NewMemo(loader.New(log)).Get(ctx, cfg)
	metrics.RecordStep("load", "", err, time.Since(start))
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return 1
	}

	// ApplyTo leaves Server.Addr empty when report flags were given.
	if cfg.Server.Addr != "" {
		srv := webui.NewServer(webui.Config{
			Addr:         cfg.Server.Addr,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
			Sessions: dashboard.SessionLimits{
				MaxIdle: time.Duration(cfg.Server.SessionIdleSeconds) * time.Second,
				Max:     cfg.Server.MaxSessions,
			},
			Chart:        chart.Options{Title: cfg.Title},
		}, base, log)
		if err := srv.ListenAndServe(ctx); err != nil {
			log.Error("server stopped", zap.Error(err))
			return 1
		}
		return 0
	}

	return report(base, f, cfg, log, stdout)
}

// report prints one view (or its chart descriptions) as indented JSON.
func report(base *dashboard.Base, f *config.Flags, cfg config.Dashboard, log *zap.Logger, stdout io.Writer) int {
	sel, ok := base.DefaultSelection()
	if f.Country != "" {
		sel.Country = f.Country
	}
	if f.From != 0 {
		sel.From = f.From
	}
	if f.To != 0 {
		sel.To = f.To
	}
	if ok || f.Country != "" {
		n, err := base.Normalize(sel)
		if err != nil {
			log.Error("invalid selection", zap.Error(err))
			return 1
		}
		sel = n
	}

	start := time.Now()
	view := dashboard.Compute(base, sel)
	metrics.RecordStep("compute", "", nil, time.Since(start))
	log.Info("computed",
		zap.String("country", sel.Country),
		zap.Int("from", sel.From),
		zap.Int("to", sel.To),
		zap.Int("rows", len(view.Joined)),
	)

	var out any = view
	if f.Charts {
		out = chart.Build(view, chart.Options{Title: cfg.Title})
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error("encode report", zap.Error(err))
		return 1
	}
	return 0
}

// newLogger returns a production logger, or a development one when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// setupMetrics installs the configured backend and returns its flush func.
// Backend failures degrade to the no-op backend.
func setupMetrics(m config.Metrics, log *zap.Logger) func() {
	job := m.Job
	if job == "" {
		job = "energydash"
	}

	var b metrics.Backend
	switch m.Backend {
	case "pushgateway":
		pb, err := prompush.NewBackend(job, m.PushgatewayURL)
		if err != nil {
			log.Warn("metrics: pushgateway backend unavailable; using nop", zap.Error(err))
			return func() {}
		}
		b = pb
	case "datadog":
		db, err := datadog.NewBackend(datadog.Config{
			Addr:       m.DatadogAddr,
			Namespace:  job + ".",
			GlobalTags: m.DatadogTags,
		})
		if err != nil {
			log.Warn("metrics: datadog backend unavailable; using nop", zap.Error(err))
			return func() {}
		}
		b = db
	default:
		log.Debug("metrics: disabled", zap.String("backend", m.Backend))
		return func() {}
	}

	log.Info("metrics enabled", zap.String("backend", m.Backend), zap.String("job", job))
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics: flush failed", zap.Error(err))
		}
	}
}
