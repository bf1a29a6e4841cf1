// Package dedup tracks composite keys seen during one transform run.
package dedup

// Repeat is a key observed more than once, with the number of sightings.
type Repeat struct {
	Key   string
	Count int
}

// Tracker records keys in first-occurrence order. It does not suppress
// writes: the destination conflict key does that. It only counts overlap
// between raw pages so the run summary can report it.
type Tracker struct {
	counts map[string]int
	order  []string
	dups   int
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{counts: make(map[string]int)}
}

// Observe records key and reports whether this is its first sighting.
func (t *Tracker) Observe(key string) bool {
	n := t.counts[key]
	t.counts[key] = n + 1
	if n == 0 {
		t.order = append(t.order, key)
		return true
	}
	t.dups++
	return false
}

// Len is the number of distinct keys.
func (t *Tracker) Len() int { return len(t.order) }

// Duplicates is the number of sightings beyond the first, over all keys.
func (t *Tracker) Duplicates() int { return t.dups }

// Repeats lists keys seen more than once, in first-occurrence order,
// capped at limit entries (limit <= 0 means no cap).
func (t *Tracker) Repeats(limit int) []Repeat {
	var out []Repeat
	for _, k := range t.order {
		if n := t.counts[k]; n > 1 {
			out = append(out, Repeat{Key: k, Count: n})
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}
