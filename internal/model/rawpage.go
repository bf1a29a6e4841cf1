package model

import (
	"encoding/json"
	"time"
)

// RawPage is one archived API response, stored verbatim. It is never modified once written.
type RawPage struct {
	ID        int64           // server-assigned sequence id
	Data      json.RawMessage // opaque response body
	FetchedAt time.Time       // insertion timestamp
}
