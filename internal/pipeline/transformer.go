package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/orderflow/internal/engine"
	"github.com/crimson-sun/orderflow/internal/engine/dedup"
	"github.com/crimson-sun/orderflow/internal/model"
	"github.com/crimson-sun/orderflow/internal/output"
	"github.com/crimson-sun/orderflow/internal/output/multi"
	"github.com/crimson-sun/orderflow/internal/store"
)

// repeatsLogged caps the sample of overlapping keys logged at the end of a run.
const repeatsLogged = 5

// Transformer replays the raw store through the engine into the destination table.
type Transformer struct {
	common
	engine  *engine.Engine
	pages   store.PageReader
	rows    store.RowWriter
	table   store.Table
	rejects output.Output
}

// NewTransformer creates a Transformer. rejects may be nil to discard reports.
func NewTransformer(eng *engine.Engine, r store.PageReader, w store.RowWriter, table store.Table, rejects output.Output, opts ...Option) *Transformer {
	if rejects == nil {
		rejects = multi.New()
	}
	return &Transformer{common: newCommon(opts), engine: eng, pages: r, rows: w, table: table, rejects: rejects}
}

// TransformAll scans every raw page and inserts each derived row unless its
// key already exists. Summary.Rows is the number of rows inserted by this run.
// Malformed records are reported and skipped; a store failure aborts the run
// and leaves rows already written in place.
func (t *Transformer) TransformAll(ctx context.Context) (model.Summary, error) {
	start := t.now()
	sum := model.Summary{Stage: StageTransform, RunID: t.newID()}
	log := t.logger.With("stage", StageTransform, "run_id", sum.RunID)
	log.Info("transform started", "table", t.table.String(), "mapping", t.engine.Mapping().Version)

	err := t.run(ctx, log, &sum)
	sum.Duration = t.now().Sub(start)
	t.metrics.Finish(StageTransform, sum.Duration, err != nil, t.now())
	if err != nil {
		log.Error("transform aborted", "pages", sum.Pages, "rows", sum.Rows, "error", err)
		return sum, err
	}
	log.Info("transform finished", "pages", sum.Pages, "orders", sum.Orders, "rows", sum.Rows,
		"existing", sum.Existing, "duplicates", sum.Duplicates, "rejects", sum.Rejects, "duration", sum.Duration)
	return sum, nil
}

func (t *Transformer) run(ctx context.Context, log *slog.Logger, sum *model.Summary) error {
	cols, err := t.rows.Columns(ctx, t.table)
	if err != nil {
		return fmt.Errorf("pipeline transform: discover columns: %w", err)
	}
	plan, err := t.engine.Plan(t.table, cols)
	if err != nil {
		return fmt.Errorf("pipeline transform: %w", err)
	}
	if len(plan.Unmapped) > 0 {
		log.Warn("table columns without a mapping are left null", "columns", plan.Unmapped)
	}
	if len(plan.Unused) > 0 {
		log.Info("mapping columns missing from table are skipped", "columns", plan.Unused)
	}

	seen := dedup.New()
	err = t.pages.ScanPages(ctx, func(page model.RawPage) error {
		sum.Pages++
		t.metrics.PagesScanned.Inc()

		res := t.engine.Process(page, plan)
		sum.Orders += res.Orders
		for _, r := range res.Rejects {
			t.report(ctx, log, sum, r)
		}

		for _, row := range res.Rows {
			if !seen.Observe(row.Key) {
				sum.Duplicates++
			}
			inserted, err := t.rows.InsertRow(ctx, plan.Insert, row.Values)
			if errors.Is(err, store.ErrRejectedValue) {
				t.report(ctx, log, sum, model.Reject{
					Stage:      engine.Stage,
					Level:      model.LevelItem,
					RawID:      row.RawID,
					OrderIndex: row.OrderIndex,
					OrderID:    row.OrderID,
					ItemID:     row.ItemID,
					Reason:     err.Error(),
					At:         t.now(),
				})
				continue
			}
			if err != nil {
				return fmt.Errorf("insert %s from raw page %d: %w", row.Key, page.ID, err)
			}
			if inserted {
				sum.Rows++
				t.metrics.RowsInserted.Inc()
			} else {
				sum.Existing++
				t.metrics.RowsExisting.Inc()
			}
		}
		log.Debug("page transformed", "raw_id", page.ID, "orders", res.Orders, "rows", len(res.Rows), "rejects", len(res.Rejects))
		return nil
	})
	if err != nil {
		return fmt.Errorf("pipeline transform: %w", err)
	}

	if reps := seen.Repeats(repeatsLogged); len(reps) > 0 {
		keys := make([]string, len(reps))
		for i, r := range reps {
			keys[i] = r.Key
		}
		log.Info("keys seen on more than one raw page", "duplicates", seen.Duplicates(), "sample", keys)
	}
	return nil
}

// report logs and forwards a reject. A failing sink is logged; it never
// stops the run.
func (t *Transformer) report(ctx context.Context, log *slog.Logger, sum *model.Summary, r model.Reject) {
	sum.Rejects++
	t.metrics.Rejects.WithLabelValues(r.Level).Inc()
	log.Warn("record rejected", "level", r.Level, "raw_id", r.RawID, "order_index", r.OrderIndex,
		"order_id", r.OrderID, "item_id", r.ItemID, "column", r.Column, "reason", r.Reason)
	if err := t.rejects.Write(ctx, r); err != nil {
		log.Warn("reject report failed", "error", err)
	}
}
