package stats

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dunnock/poloniexbook/internal/book"
	"github.com/dunnock/poloniexbook/internal/tradestats"
)

// windowSize is the number of 1-second buckets folded into the rolling
// 1-minute trade aggregate.
const windowSize = 60

// dealRetention bounds how long raw deals are kept in the underlying
// Book's Timeseries once they are old enough to no longer contribute
// to any future 1s bucket.
const dealRetention = 600 * time.Second

// BookWithStats layers the sorted-vector depth projection and the
// rolling 1s/1m trade aggregate on top of a plain Book. It implements
// book.Accounting, so a registry can hold it wherever a bare *book.Book
// would otherwise go, once a pair starts being tracked for stats.
type BookWithStats struct {
	Book          *book.Book
	Stats         BookStats
	TradeSeries1s []tradestats.Stats // newest bucket at index 0, oldest at the tail
	TradeStats1m  tradestats.Stats
}

// NewBookWithStats wraps b, computing its initial projection from
// whatever snapshot is already present in b's maps.
func NewBookWithStats(b *book.Book) *BookWithStats {
	return &BookWithStats{
		Book:  b,
		Stats: NewBookStats(b),
	}
}

// BookRef satisfies book.Accounting.
func (w *BookWithStats) BookRef() *book.Book { return w.Book }

// UpdateSellOrders applies a sell-side order-book total update to both
// the underlying Book and its depth projection.
func (w *BookWithStats) UpdateSellOrders(rate string, amount float64) (float64, bool) {
	prev, hadPrev := w.Book.UpdateSellOrders(rate, amount)
	parsed, err := strconv.ParseFloat(rate, 64)
	if err != nil {
		// Book.Sell already reflects the update; the projection simply
		// can't track a level whose rate isn't numeric.
		return prev, hadPrev
	}
	w.Stats.UpdateSellOrders(parsed, amount, prev, hadPrev)
	return prev, hadPrev
}

// UpdateBuyOrders is the symmetric operation for the buy side.
func (w *BookWithStats) UpdateBuyOrders(rate string, amount float64) (float64, bool) {
	prev, hadPrev := w.Book.UpdateBuyOrders(rate, amount)
	parsed, err := strconv.ParseFloat(rate, 64)
	if err != nil {
		return prev, hadPrev
	}
	w.Stats.UpdateBuyOrders(parsed, amount, prev, hadPrev)
	return prev, hadPrev
}

// NewDeal records a trade against the underlying Book. The depth
// projection is untouched by trades; only UpdateStats1s folds deals
// into the rolling trade aggregate.
func (w *BookWithStats) NewDeal(id uint64, tid string, rate string, amount float64) (float64, error) {
	return w.Book.NewDeal(id, tid, rate, amount)
}

// ResetOrders clears both the Book's maps and the depth projection,
// leaving trade history untouched.
func (w *BookWithStats) ResetOrders() {
	w.Book.ResetOrders()
	w.Stats = BookStats{}
}

// UpdateStats1s folds every deal recorded in the fixed window (now-1s,
// now] into a new bucket, pushes it onto the rolling 1s window, adds it
// to the 1m total, and — once the window is full — subtracts the
// bucket falling out the back from the 1m total. It also drains deals
// older than dealRetention from the underlying Book, since nothing past
// that age can contribute to a future bucket. The window boundary is
// always now-1s rather than the time of the previous tick, so a delayed
// or skipped tick never folds more than one second of deals into a
// single bucket.
func (w *BookWithStats) UpdateStats1s(now time.Time) {
	cutoff := now.Add(-time.Second)
	deals := w.Book.Deals.After(cutoff)
	bucket := tradestats.FromDeals(deals)

	w.TradeSeries1s = append([]tradestats.Stats{bucket}, w.TradeSeries1s...)
	w.TradeStats1m = w.TradeStats1m.Add(bucket)
	if len(w.TradeSeries1s) > windowSize {
		expiring := w.TradeSeries1s[windowSize]
		w.TradeStats1m = w.TradeStats1m.Sub(expiring)
		w.TradeSeries1s = w.TradeSeries1s[:windowSize]
	}

	w.Book.Deals.DrainUntil(now.Add(-dealRetention))
}

// String renders the book's pair, its current depth projection, the
// most recent 1-second bucket, and the rolling 1-minute total, for
// human-readable diagnostics.
func (w *BookWithStats) String() string {
	var last tradestats.Stats
	if len(w.TradeSeries1s) > 0 {
		last = w.TradeSeries1s[0]
	}
	return fmt.Sprintf("%s %s | 1s %s | 1m %s", w.Book.Pair, w.Stats, last, w.TradeStats1m)
}

var _ book.Accounting = (*BookWithStats)(nil)
