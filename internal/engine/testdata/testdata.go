// Package testdata embeds captured order pages for engine and pipeline tests.
package testdata

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed pages/*.json
var pages embed.FS

// Page returns the embedded page "pages/<name>.json".
//
//	page-1       three orders: 1001 (3 items, billing Porto), 1002 refunded without billing, 1003 cancelled
//	page-2       re-fetch of 1001-11, order 1004 with two bad items, three malformed orders
//	page-list    bare list with order 1005 (chargeback, test)
//	page-empty   empty orders list
//	page-unknown object without an orders key
func Page(name string) (json.RawMessage, error) {
	b, err := pages.ReadFile("pages/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("testdata page %s: %w", name, err)
	}
	return json.RawMessage(b), nil
}

// MustPage is Page for test setup.
func MustPage(name string) json.RawMessage {
	b, err := Page(name)
	if err != nil {
		panic(err)
	}
	return b
}
