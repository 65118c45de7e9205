// Package registry implements the TradeBook arena: a single owner of
// every Book, looked up by both the ephemeral numeric channel id and
// the stable pair name.
package registry

import (
	"sync"

	"github.com/dunnock/poloniexbook/internal/book"
	"github.com/dunnock/poloniexbook/internal/poloerr"
	"github.com/dunnock/poloniexbook/internal/stats"
)

// TradeBook owns every tracked Book in a single arena, indexed by
// channel id and by pair. Rebinding a pair to a new channel id on
// reconnect is index-stable: the slot is overwritten in place rather
// than appended as a duplicate.
//
// Apart from Books, which takes the mutex itself, TradeBook's methods
// are not internally synchronized: the lock is acquired per
// RecordUpdate by the caller (the Accountant processor), not per
// method call here, so that a long Initial snapshot does not
// monopolise the lock across every record it takes to apply. Lock/
// Unlock expose that single mutex for callers to hold across a
// read-modify-write sequence; Books must not be called while holding it.
type TradeBook struct {
	mu     sync.Mutex
	books  []*stats.BookWithStats
	byID   map[uint16]int
	byPair map[book.Pair]int
}

// New returns an empty registry.
func New() *TradeBook {
	return &TradeBook{
		byID:   make(map[uint16]int),
		byPair: make(map[book.Pair]int),
	}
}

// AddBook registers b under channelID, replacing whatever book was
// already tracked for b.Pair (whether or not the channel id has changed
// since the last Initial for that pair) and dropping any other channel
// id that pointed at that slot. The slot index is stable, so existing
// references obtained via BookByID remain valid only until the next
// AddBook for the same pair — callers always look up through the
// registry rather than caching a *BookWithStats across reconnects.
func (r *TradeBook) AddBook(b *book.Book, channelID uint16) {
	wrapped := stats.NewBookWithStats(b)
	if idx, ok := r.byPair[b.Pair]; ok {
		r.books[idx] = wrapped
		// The old channel id (if different) no longer points anywhere
		// useful; find and drop it so book_by_id can't resurrect a
		// stale book for a channel id the exchange has reused for
		// another pair after a reconnect.
		for id, existingIdx := range r.byID {
			if existingIdx == idx && id != channelID {
				delete(r.byID, id)
			}
		}
		r.byID[channelID] = idx
		return
	}

	idx := len(r.books)
	r.books = append(r.books, wrapped)
	r.byPair[b.Pair] = idx
	r.byID[channelID] = idx
}

// BookByID returns the capability handle for the book registered under
// channelID, or false if no Initial has ever registered that channel.
func (r *TradeBook) BookByID(channelID uint16) (book.Accounting, bool) {
	idx, ok := r.byID[channelID]
	if !ok {
		return nil, false
	}
	return r.books[idx], true
}

// BookByPair returns the capability handle for the book registered
// under pair, or false if that pair has never received an Initial.
func (r *TradeBook) BookByPair(pair book.Pair) (book.Accounting, bool) {
	idx, ok := r.byPair[pair]
	if !ok {
		return nil, false
	}
	return r.books[idx], true
}

// MustBookByID is BookByID wrapped in the poloerr taxonomy, for callers
// (the Accountant processor) that need an update-applied-to-unknown-
// book condition to surface as a semantic error rather than a bool.
func (r *TradeBook) MustBookByID(channelID uint16) (book.Accounting, error) {
	acc, ok := r.BookByID(channelID)
	if !ok {
		return nil, poloerr.WrongData("book id %d referenced before any Initial", channelID)
	}
	return acc, nil
}

// Books returns a stable-ordered snapshot of every registered book's
// stats-augmented handle, for callers (the 1-second ticker, the
// snapshot publisher) that iterate the whole arena.
func (r *TradeBook) Books() []*stats.BookWithStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*stats.BookWithStats, len(r.books))
	copy(out, r.books)
	return out
}

// Lock/Unlock expose the registry's single mutex directly so the
// Accountant processor can hold it for the duration of one RecordUpdate,
// rather than for the whole frame it came from.
func (r *TradeBook) Lock()   { r.mu.Lock() }
func (r *TradeBook) Unlock() { r.mu.Unlock() }
