package book

import (
	"container/list"
	"time"
)

// Timeseries is a front-loaded deque of Deals ordered newest-first. A
// single list of (Deal, time) pairs keeps entries and timestamps in
// lockstep by construction, without hand-maintaining two parallel
// collections.
type Timeseries struct {
	entries *list.List // front = newest
}

type tsEntry struct {
	deal Deal
	at   time.Time
}

// NewTimeseries returns an empty series.
func NewTimeseries() *Timeseries {
	return &Timeseries{entries: list.New()}
}

// Add pushes a deal to the front. Callers are expected to add deals in
// non-decreasing time order (the book always stamps "now"), which is
// what keeps DrainUntil/After's early-break logic correct.
func (t *Timeseries) Add(d Deal) {
	t.entries.PushFront(tsEntry{deal: d, at: d.Time})
}

// DrainUntil removes every entry older than cutoff, walking from the
// oldest (back) end.
func (t *Timeseries) DrainUntil(cutoff time.Time) {
	for e := t.entries.Back(); e != nil; {
		prev := e.Prev()
		entry := e.Value.(tsEntry)
		if entry.at.Before(cutoff) {
			t.entries.Remove(e)
			e = prev
		} else {
			break
		}
	}
}

// After returns, newest-first, every deal strictly after the given
// time. Because entries are non-increasing in time from front to back,
// the walk can stop at the first entry that fails the predicate.
func (t *Timeseries) After(after time.Time) []Deal {
	var out []Deal
	for e := t.entries.Front(); e != nil; e = e.Next() {
		entry := e.Value.(tsEntry)
		if entry.at.After(after) {
			out = append(out, entry.deal)
		} else {
			break
		}
	}
	return out
}

// Len reports the number of deals currently retained.
func (t *Timeseries) Len() int {
	return t.entries.Len()
}
