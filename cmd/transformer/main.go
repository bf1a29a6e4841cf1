// Command transformer flattens the raw store into the destination table.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/crimson-sun/orderflow/internal/config"
	"github.com/crimson-sun/orderflow/internal/engine"
	"github.com/crimson-sun/orderflow/internal/engine/mapping"
	"github.com/crimson-sun/orderflow/internal/logging"
	"github.com/crimson-sun/orderflow/internal/metrics"
	"github.com/crimson-sun/orderflow/internal/pipeline"
	"github.com/crimson-sun/orderflow/internal/store"
	"github.com/crimson-sun/orderflow/internal/store/postgres"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.LoadDotenv(); err != nil {
		fmt.Fprintf(os.Stderr, "transformer: %v\n", err)
		return 1
	}
	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateTransform()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "transformer: %v\n", err)
		return 1
	}
	log := logging.Init(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, err := mapping.Get(cfg.Transform.Mapping)
	if err != nil {
		log.Error("mapping", "error", err)
		return 1
	}
	raw, err := store.ParseTable(cfg.DB.RawTable)
	if err != nil {
		log.Error("raw table", "error", err)
		return 1
	}
	target, err := store.ParseTable(cfg.Transform.Table)
	if err != nil {
		log.Error("target table", "error", err)
		return 1
	}

	rejects, err := openRejects(cfg.Output)
	if err != nil {
		log.Error("reject sinks", "error", err)
		return 1
	}
	defer func() {
		if err := rejects.Close(); err != nil {
			log.Warn("close reject sinks", "error", err)
		}
	}()

	db, err := postgres.Open(ctx, cfg.DB.DSN, raw)
	if err != nil {
		log.Error("connect database", "error", err)
		return 1
	}
	defer db.Close()

	reg := metrics.NewRegistry()
	transformer := pipeline.NewTransformer(engine.New(m), db, db, target, rejects,
		pipeline.WithLogger(log), pipeline.WithMetrics(reg))

	sum, err := transformer.TransformAll(ctx)
	writeMetrics(log, reg, cfg.Metrics.Textfile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "transformer: aborted after %d rows inserted: %v\n", sum.Rows, err)
		return 1
	}
	fmt.Printf("transformer: inserted %d rows (%d existing, %d duplicates, %d rejects, %d pages)\n",
		sum.Rows, sum.Existing, sum.Duplicates, sum.Rejects, sum.Pages)
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
