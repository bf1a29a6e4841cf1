// Package metrics holds the pipeline's Prometheus metrics. Batch jobs have
// no scrape endpoint; the registry is written as a textfile at exit.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "orderflow"

// Registry owns a private Prometheus registry and the collectors both stages
// record into. Archive metrics stay zero in a transform run and vice versa.
type Registry struct {
	reg *prometheus.Registry

	ArchivePages    prometheus.Counter
	ArchiveFetchSec prometheus.Histogram
	ArchiveBytes    prometheus.Counter

	RowsInserted prometheus.Counter
	RowsExisting prometheus.Counter
	Rejects      *prometheus.CounterVec
	PagesScanned prometheus.Counter

	LastSuccess *prometheus.GaugeVec
	RunDuration *prometheus.GaugeVec
}

// NewRegistry creates a Registry with every collector registered.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	pages := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "archive_pages_total",
		Help: "Raw pages stored by the archiver."})
	fetch := prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "archive_fetch_seconds",
		Help: "Page fetch latency.", Buckets: prometheus.DefBuckets})
	bytes := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "archive_bytes_total",
		Help: "Bytes of raw page bodies stored."})
	inserted := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "transform_rows_inserted_total",
		Help: "Rows inserted by the transformer."})
	existing := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "transform_rows_existing_total",
		Help: "Rows skipped because the key already existed."})
	rejects := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "transform_rejects_total",
		Help: "Records skipped or fields nulled, by level."}, []string{"level"})
	scanned := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "transform_pages_scanned_total",
		Help: "Raw pages read by the transformer."})
	last := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: "last_success_timestamp_seconds",
		Help: "Unix time of the last successful run."}, []string{"stage"})
	dur := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: "run_duration_seconds",
		Help: "Duration of the last run."}, []string{"stage"})

	r.MustRegister(pages, fetch, bytes, inserted, existing, rejects, scanned, last, dur)
	return &Registry{
		reg:             r,
		ArchivePages:    pages,
		ArchiveFetchSec: fetch,
		ArchiveBytes:    bytes,
		RowsInserted:    inserted,
		RowsExisting:    existing,
		Rejects:         rejects,
		PagesScanned:    scanned,
		LastSuccess:     last,
		RunDuration:     dur,
	}
}

// Finish records the end of a stage run. The success timestamp only moves
// when the run did not fail.
func (r *Registry) Finish(stage string, took time.Duration, failed bool, now time.Time) {
	r.RunDuration.WithLabelValues(stage).Set(took.Seconds())
	if !failed {
		r.LastSuccess.WithLabelValues(stage).Set(float64(now.Unix()))
	}
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// WriteTextfile writes every metric to path in the text exposition format,
// atomically, for the node exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
