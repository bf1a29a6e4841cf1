package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crimson-sun/orderflow/internal/connector"
	"github.com/crimson-sun/orderflow/internal/model"
	"github.com/crimson-sun/orderflow/internal/store"
)

// ArchiveConfig holds the archiver's paging settings.
type ArchiveConfig struct {
	StartPage int           // first page requested, default 1
	MaxPages  int           // 0 = unlimited
	PageDelay time.Duration // pause after every stored page
}

// Archiver fetches pages in order and stores each one before asking for the next.
type Archiver struct {
	common
	source connector.Source
	pages  store.PageWriter
	cfg    ArchiveConfig
}

// NewArchiver creates an Archiver reading src and writing w.
func NewArchiver(src connector.Source, w store.PageWriter, cfg ArchiveConfig, opts ...Option) *Archiver {
	if cfg.StartPage < 1 {
		cfg.StartPage = 1
	}
	return &Archiver{common: newCommon(opts), source: src, pages: w, cfg: cfg}
}

// ArchiveAll runs the page loop until the source is exhausted. Summary.Pages
// is the number of pages stored, also when an error is returned.
func (a *Archiver) ArchiveAll(ctx context.Context) (model.Summary, error) {
	start := a.now()
	sum := model.Summary{Stage: StageArchive, RunID: a.newID()}
	log := a.logger.With("stage", StageArchive, "run_id", sum.RunID)
	log.Info("archive started", "start_page", a.cfg.StartPage, "max_pages", a.cfg.MaxPages)

	err := a.run(ctx, log, &sum)
	sum.Duration = a.now().Sub(start)
	a.metrics.Finish(StageArchive, sum.Duration, err != nil, a.now())
	if err != nil {
		log.Error("archive aborted", "pages", sum.Pages, "last_page", sum.LastPage, "error", err)
		return sum, err
	}
	log.Info("archive finished", "pages", sum.Pages, "orders", sum.Orders,
		"last_page", sum.LastPage, "stop", sum.StopReason, "duration", sum.Duration)
	return sum, nil
}

func (a *Archiver) run(ctx context.Context, log *slog.Logger, sum *model.Summary) error {
	if err := a.pages.EnsureRawTable(ctx); err != nil {
		return fmt.Errorf("pipeline archive: %w", err)
	}

	for n := a.cfg.StartPage; ; n++ {
		began := time.Now()
		page, err := a.source.FetchPage(ctx, n)
		a.metrics.ArchiveFetchSec.Observe(time.Since(began).Seconds())
		if errors.Is(err, connector.ErrExhausted) {
			sum.StopReason = StopExhausted
			log.Info("end of pages", "page", n, "reason", err.Error())
			return nil
		}
		if err != nil {
			return fmt.Errorf("pipeline archive: fetch page %d: %w", n, err)
		}

		raw, err := a.pages.InsertPage(ctx, page.Body)
		if err != nil {
			return fmt.Errorf("pipeline archive: store page %d: %w", n, err)
		}
		sum.Pages++
		sum.Orders += page.Orders
		sum.LastPage = n
		a.metrics.ArchivePages.Inc()
		a.metrics.ArchiveBytes.Add(float64(len(page.Body)))
		log.Info("page stored", "page", n, "raw_id", raw.ID, "orders", page.Orders, "bytes", len(page.Body))

		if a.cfg.MaxPages > 0 && sum.Pages >= a.cfg.MaxPages {
			sum.StopReason = StopMaxPages
			return nil
		}
		if err := sleepCtx(ctx, a.cfg.PageDelay); err != nil {
			return fmt.Errorf("pipeline archive: after page %d: %w", n, err)
		}
	}
}
