package model

import (
	"encoding/json"
	"time"
)

// Reject levels.
const (
	LevelPage  = "page"
	LevelOrder = "order"
	LevelItem  = "item"
	LevelField = "field"
)

// Reject describes a record the transformer skipped (or a field it nulled),
// with enough context to find it again in the raw store.
type Reject struct {
	Stage      string          `json:"stage"`
	Level      string          `json:"level"`
	RawID      int64           `json:"raw_id"`
	OrderIndex int             `json:"order_index"`
	OrderID    string          `json:"order_id,omitempty"`
	ItemID     string          `json:"item_id,omitempty"`
	Column     string          `json:"column,omitempty"`
	Reason     string          `json:"reason"`
	Raw        json.RawMessage `json:"raw,omitempty"`
	At         time.Time       `json:"at"`
}

// Summary is the terminal result of one stage run.
type Summary struct {
	Stage      string        `json:"stage"`
	RunID      string        `json:"run_id"`
	Pages      int           `json:"pages"`
	Orders     int           `json:"orders"`
	Rows       int           `json:"rows"`
	Existing   int           `json:"existing"`
	Duplicates int           `json:"duplicates"`
	Rejects    int           `json:"rejects"`
	LastPage   int           `json:"last_page,omitempty"`
	StopReason string        `json:"stop_reason,omitempty"`
	Duration   time.Duration `json:"duration"`
}
