package testdata

import (
	"encoding/json"
	"testing"
)

func TestPagesAreValidJSON(t *testing.T) {
	for _, name := range []string{"page-1", "page-2", "page-list", "page-empty", "page-unknown"} {
		b, err := Page(name)
		if err != nil {
			t.Fatalf("Page(%s) error: %v", name, err)
		}
		if !json.Valid(b) {
			t.Errorf("Page(%s) is not valid JSON", name)
		}
	}
}

func TestPageMissing(t *testing.T) {
	if _, err := Page("page-404"); err == nil {
		t.Fatal("expected error for missing page")
	}
}
