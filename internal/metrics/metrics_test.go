package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func find(t *testing.T, r *Registry, name string) *dto.MetricFamily {
	t.Helper()
	mfs, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestCounters(t *testing.T) {
	r := NewRegistry()
	r.ArchivePages.Add(3)
	r.Rejects.WithLabelValues("item").Inc()
	r.Rejects.WithLabelValues("item").Inc()

	if mf := find(t, r, "orderflow_archive_pages_total"); mf == nil || mf.GetMetric()[0].GetCounter().GetValue() != 3 {
		t.Fatalf("unexpected pages metric %v", mf)
	}
	mf := find(t, r, "orderflow_transform_rejects_total")
	if mf == nil {
		t.Fatal("rejects metric missing")
	}
	m := mf.GetMetric()[0]
	if m.GetLabel()[0].GetValue() != "item" || m.GetCounter().GetValue() != 2 {
		t.Fatalf("unexpected rejects metric %v", m)
	}
}

func TestFinish(t *testing.T) {
	r := NewRegistry()
	now := time.Unix(1700000000, 0)

	r.Finish("archive", 2*time.Second, true, now)
	if find(t, r, "orderflow_last_success_timestamp_seconds") != nil {
		t.Fatal("failed run must not set last success")
	}

	r.Finish("archive", 3*time.Second, false, now)
	last := find(t, r, "orderflow_last_success_timestamp_seconds")
	if last == nil || last.GetMetric()[0].GetGauge().GetValue() != 1700000000 {
		t.Fatalf("unexpected last success %v", last)
	}
	dur := find(t, r, "orderflow_run_duration_seconds")
	if dur == nil || dur.GetMetric()[0].GetGauge().GetValue() != 3 {
		t.Fatalf("unexpected duration %v", dur)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RowsInserted.Add(5)

	path := filepath.Join(t.TempDir(), "orderflow.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "orderflow_transform_rows_inserted_total 5") {
		t.Fatalf("textfile missing counter:\n%s", data)
	}
}

func TestWriteTextfileBadPath(t *testing.T) {
	r := NewRegistry()
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")); err == nil {
		t.Fatal("expected error")
	}
}
