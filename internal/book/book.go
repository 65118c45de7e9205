// Package book holds the per-pair order-book state: the two aggregated
// level maps keyed by the exact wire rate string, and a bounded deal
// history. This is the plain book half of a capability split — the
// stats-augmented wrapper lives in the sibling stats package.
package book

import (
	"strconv"
	"time"

	"github.com/dunnock/poloniexbook/internal/floatcmp"
)

// Deal is an executed trade. Amount is signed: negative means the sell
// side executed, positive means the buy side did — the sign is applied
// by the caller (the Accountant processor), not here.
type Deal struct {
	Time   time.Time
	ID     uint64
	TID    string
	Rate   float64
	Amount float64
}

// GetTime returns the time the deal was recorded.
func (d Deal) GetTime() time.Time { return d.Time }

// Book is the mutable per-pair state: aggregated resting volume on
// each side, keyed by the exact decimal string from the wire (the
// string is authoritative for identity; float64 parses are for stats
// only), plus recent deal history.
type Book struct {
	Pair        Pair
	Sell        map[string]float64
	Buy         map[string]float64
	Deals       *Timeseries
	LastUpdated time.Time
}

// New returns an empty book for pair.
func New(pair Pair) *Book {
	return &Book{
		Pair:  pair,
		Sell:  make(map[string]float64, 1000),
		Buy:   make(map[string]float64, 1000),
		Deals: NewTimeseries(),
	}
}

// NewFromSnapshot builds a book directly from decoded initial-snapshot
// maps. A zero amount is never stored, even in a snapshot.
func NewFromSnapshot(pair Pair, sell, buy map[string]float64) *Book {
	b := New(pair)
	for rate, amount := range sell {
		if !floatcmp.IsZero(amount) {
			b.Sell[rate] = amount
		}
	}
	for rate, amount := range buy {
		if !floatcmp.IsZero(amount) {
			b.Buy[rate] = amount
		}
	}
	return b
}

// UpdateSellOrders sets (or removes, on a zero amount) the aggregated
// size at rate. It returns the previous amount and whether one existed.
func (b *Book) UpdateSellOrders(rate string, amount float64) (prev float64, hadPrev bool) {
	b.LastUpdated = time.Now()
	prev, hadPrev = b.Sell[rate]
	if floatcmp.IsZero(amount) {
		delete(b.Sell, rate)
	} else {
		b.Sell[rate] = amount
	}
	return prev, hadPrev
}

// UpdateBuyOrders is the symmetric operation on the buy side.
func (b *Book) UpdateBuyOrders(rate string, amount float64) (prev float64, hadPrev bool) {
	b.LastUpdated = time.Now()
	prev, hadPrev = b.Buy[rate]
	if floatcmp.IsZero(amount) {
		delete(b.Buy, rate)
	} else {
		b.Buy[rate] = amount
	}
	return prev, hadPrev
}

// NewDeal parses rate, records a Deal at the current wall-clock time,
// and returns the parsed rate.
func (b *Book) NewDeal(id uint64, tid string, rate string, amount float64) (float64, error) {
	r, err := strconv.ParseFloat(rate, 64)
	if err != nil {
		return 0, err
	}
	b.Deals.Add(Deal{Time: time.Now(), ID: id, TID: tid, Rate: r, Amount: amount})
	return r, nil
}

// ResetOrders clears resting orders on both sides without touching deal
// history, returning a live book to an empty-orders condition. Nothing
// in this repo auto-triggers it; see DESIGN.md.
func (b *Book) ResetOrders() {
	b.Sell = make(map[string]float64, 1000)
	b.Buy = make(map[string]float64, 1000)
	b.LastUpdated = time.Now()
}

// Accounting is the capability contract shared by a plain Book and its
// stats-augmented wrapper, so every mutation automatically keeps
// derived statistics current wherever one is tracked. No nullable
// "plain book" decorator is needed since Book itself satisfies it too.
type Accounting interface {
	UpdateSellOrders(rate string, amount float64) (prev float64, hadPrev bool)
	UpdateBuyOrders(rate string, amount float64) (prev float64, hadPrev bool)
	NewDeal(id uint64, tid string, rate string, amount float64) (float64, error)
	ResetOrders()
	BookRef() *Book
}

// BookRef satisfies Accounting for the plain Book itself.
func (b *Book) BookRef() *Book { return b }
