// Command archiver copies every page of the orders API into the raw store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/crimson-sun/orderflow/internal/config"
	"github.com/crimson-sun/orderflow/internal/connector"
	"github.com/crimson-sun/orderflow/internal/logging"
	"github.com/crimson-sun/orderflow/internal/metrics"
	"github.com/crimson-sun/orderflow/internal/pipeline"
	"github.com/crimson-sun/orderflow/internal/store"
	"github.com/crimson-sun/orderflow/internal/store/postgres"

	// Register connector implementations.
	_ "github.com/crimson-sun/orderflow/internal/connector/cartpanda"
	_ "github.com/crimson-sun/orderflow/internal/connector/fixture"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.LoadDotenv(); err != nil {
		fmt.Fprintf(os.Stderr, "archiver: %v\n", err)
		return 1
	}
	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateArchive()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "archiver: %v\n", err)
		return 1
	}
	log := logging.Init(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := connector.Open(connector.ConnectorConfig{
		Provider:   cfg.Archive.Source,
		APIKey:     cfg.API.Token,
		Endpoint:   cfg.API.BaseURL,
		Shop:       cfg.API.Shop,
		Include:    cfg.API.Include,
		Dir:        cfg.Archive.FixtureDir,
		Timeout:    cfg.API.Timeout,
		MaxRetries: cfg.API.MaxRetries,
	})
	if err != nil {
		log.Error("open source", "source", cfg.Archive.Source, "error", err)
		return 1
	}

	raw, err := store.ParseTable(cfg.DB.RawTable)
	if err != nil {
		log.Error("raw table", "error", err)
		return 1
	}
	db, err := postgres.Open(ctx, cfg.DB.DSN, raw)
	if err != nil {
		log.Error("connect database", "error", err)
		return 1
	}
	defer db.Close()

	reg := metrics.NewRegistry()
	archiver := pipeline.NewArchiver(src, db, pipeline.ArchiveConfig{
		StartPage: cfg.Archive.StartPage,
		MaxPages:  cfg.Archive.MaxPages,
		PageDelay: cfg.Archive.PageDelay,
	}, pipeline.WithLogger(log), pipeline.WithMetrics(reg))

	sum, err := archiver.ArchiveAll(ctx)
	writeMetrics(log, reg, cfg.Metrics.Textfile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "archiver: aborted after %d pages (last page %d): %v\n", sum.Pages, sum.LastPage, err)
		return 1
	}
	fmt.Printf("archiver: stored %d pages (%d orders, stop: %s)\n", sum.Pages, sum.Orders, sum.StopReason)
	return 0
}

func writeMetrics(log *slog.Logger, reg *metrics.Registry, path string) {
	if path == "" {
		return
	}
	if err := reg.WriteTextfile(path); err != nil {
		log.Warn("write metrics", "error", err)
	}
}
