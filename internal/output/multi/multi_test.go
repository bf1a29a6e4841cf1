package multi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crimson-sun/orderflow/internal/model"
)

// mockOutput records calls for test assertions.
type mockOutput struct {
	rejects []model.Reject
	closed  bool
	err     error // if set, Write and Close return this error
}

func (m *mockOutput) Write(_ context.Context, r model.Reject) error {
	m.rejects = append(m.rejects, r)
	return m.err
}

func (m *mockOutput) Close() error {
	m.closed = true
	return m.err
}

func testReject(reason string) model.Reject {
	return model.Reject{Stage: "transform", Level: model.LevelOrder, Reason: reason, At: time.Now()}
}

func TestFanOutDeliversToAll(t *testing.T) {
	a, b, c := &mockOutput{}, &mockOutput{}, &mockOutput{}
	m := New(a, b, c)

	if err := m.Write(context.Background(), testReject("order has no id")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, out := range []*mockOutput{a, b, c} {
		if len(out.rejects) != 1 {
			t.Fatalf("output %d: got %d rejects, want 1", i, len(out.rejects))
		}
		if out.rejects[0].Reason != "order has no id" {
			t.Errorf("output %d: got reason %q", i, out.rejects[0].Reason)
		}
	}
}

func TestErrorDoesNotPreventDelivery(t *testing.T) {
	failing := &mockOutput{err: errors.New("disk full")}
	healthy := &mockOutput{}
	m := New(failing, healthy)

	if err := m.Write(context.Background(), testReject("x")); err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(healthy.rejects) != 1 {
		t.Fatalf("healthy output got %d rejects, want 1", len(healthy.rejects))
	}
	if len(failing.rejects) != 1 {
		t.Fatalf("failing output got %d rejects, want 1", len(failing.rejects))
	}
}

func TestCloseCollectsErrors(t *testing.T) {
	a := &mockOutput{err: errors.New("err-a")}
	b := &mockOutput{err: errors.New("err-b")}
	m := New(a, b)

	err := m.Close()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !a.closed || !b.closed {
		t.Error("Close should be called on all outputs even when errors occur")
	}
}

func TestEmptyDiscards(t *testing.T) {
	m := New()
	if err := m.Write(context.Background(), testReject("x")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFailingSinkIsDisabled(t *testing.T) {
	failing := &mockOutput{err: errors.New("webhook down")}
	healthy := &mockOutput{}
	m := New(failing, nil, healthy)
	m.maxFailures = 3

	for i := 0; i < 5; i++ {
		err := m.Write(context.Background(), testReject("x"))
		if i < 3 && err == nil {
			t.Fatalf("write %d: expected error", i)
		}
		if i >= 3 && err != nil {
			t.Fatalf("write %d: disabled sink still reported %v", i, err)
		}
	}
	if len(failing.rejects) != 3 {
		t.Errorf("failing sink got %d writes, want 3", len(failing.rejects))
	}
	if len(healthy.rejects) != 5 {
		t.Errorf("healthy sink got %d rejects, want 5", len(healthy.rejects))
	}
	if m.Active() != 1 {
		t.Errorf("Active() = %d, want 1", m.Active())
	}

	failing.err = nil
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !failing.closed {
		t.Error("disabled sink must still be closed")
	}
}

func TestRecoveryResetsFailureCount(t *testing.T) {
	flaky := &mockOutput{}
	m := New(flaky)
	m.maxFailures = 2

	flaky.err = errors.New("timeout")
	m.Write(context.Background(), testReject("a"))
	flaky.err = nil
	m.Write(context.Background(), testReject("b"))
	flaky.err = errors.New("timeout")
	m.Write(context.Background(), testReject("c"))

	if m.Active() != 1 {
		t.Fatal("a sink that recovered in between must stay enabled")
	}
}
