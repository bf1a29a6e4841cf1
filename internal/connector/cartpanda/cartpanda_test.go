package cartpanda

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crimson-sun/orderflow/internal/connector"
	"github.com/crimson-sun/orderflow/internal/connector/httpclient"
)

func newSource(t *testing.T, endpoint string) connector.Source {
	t.Helper()
	src, err := New(connector.ConnectorConfig{
		APIKey:   "test-token",
		Endpoint: endpoint,
		Shop:     "aya-marketing",
		Include:  "items,transactions,customer",
		Timeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return src
}

func TestFetchPage_Request(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/aya-marketing/orders" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "3" {
			t.Errorf("expected page=3, got %q", got)
		}
		if got := r.URL.Query().Get("include"); got != "items,transactions,customer" {
			t.Errorf("unexpected include: %q", got)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"orders":[{"id":1},{"id":2}]}`))
	}))
	defer srv.Close()

	page, err := newSource(t, srv.URL).FetchPage(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Number != 3 || page.Orders != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestFetchPage_NotFoundIsExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	}))
	defer srv.Close()

	_, err := newSource(t, srv.URL).FetchPage(context.Background(), 9)
	if !errors.Is(err, connector.ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}

func TestFetchPage_ServerErrorAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		w.Write([]byte(`boom`))
	}))
	defer srv.Close()

	_, err := newSource(t, srv.URL).FetchPage(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, connector.ErrExhausted) {
		t.Fatal("5xx must not end pagination")
	}
	var apiErr *httpclient.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 500 {
		t.Fatalf("expected wrapped 500 APIError, got %v", err)
	}
}

func TestFetchPage_OmitsEmptyInclude(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	src, err := New(connector.ConnectorConfig{APIKey: "k", Endpoint: srv.URL + "/", Shop: "shop"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = src.FetchPage(context.Background(), 1)
	if !errors.Is(err, connector.ErrExhausted) {
		t.Fatalf("expected empty list to exhaust, got %v", err)
	}
	if rawQuery != "page=1" {
		t.Fatalf("unexpected query %q", rawQuery)
	}
}

func TestNew_RequiresKeyAndShop(t *testing.T) {
	if _, err := New(connector.ConnectorConfig{Shop: "s"}); err == nil {
		t.Fatal("expected missing key error")
	}
	if _, err := New(connector.ConnectorConfig{APIKey: "k"}); err == nil {
		t.Fatal("expected missing shop error")
	}
}

func TestRegistered(t *testing.T) {
	if _, err := connector.Get("cartpanda"); err != nil {
		t.Fatalf("cartpanda not registered: %v", err)
	}
}
