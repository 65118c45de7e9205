// Package tradestats implements the additive trade aggregate that the
// 60-bucket rolling window in package stats is built from.
package tradestats

import (
	"fmt"

	"github.com/dunnock/poloniexbook/internal/book"
)

// Stats is the six-field additive aggregate. sum_sell/sum_buy are base-
// currency volume, *_dest is counter-currency volume (amount * rate).
type Stats struct {
	SumSell     float64
	SumSellDest float64
	SumBuy      float64
	SumBuyDest  float64
	NumSell     uint16
	NumBuy      uint16
}

// FromDeals folds a slice of deals into a fresh Stats, routing each
// deal into the sell or buy side by the sign of its amount.
func FromDeals(deals []book.Deal) Stats {
	var s Stats
	for _, d := range deals {
		s = s.AddDeal(d)
	}
	return s
}

// AddDeal folds one deal into s, returning the updated aggregate. A
// sell deal arrives with a negative signed amount; both sides
// accumulate magnitudes, so SumSell and SumBuy are directly comparable
// volumes.
func (s Stats) AddDeal(d book.Deal) Stats {
	if d.Amount > 0 {
		s.SumBuy += d.Amount
		s.SumBuyDest += d.Amount * d.Rate
		s.NumBuy++
	} else if d.Amount < 0 {
		s.SumSell -= d.Amount
		s.SumSellDest -= d.Amount * d.Rate
		s.NumSell++
	}
	return s
}

// Add combines two aggregates pointwise.
func (s Stats) Add(other Stats) Stats {
	return Stats{
		SumSell:     s.SumSell + other.SumSell,
		SumSellDest: s.SumSellDest + other.SumSellDest,
		SumBuy:      s.SumBuy + other.SumBuy,
		SumBuyDest:  s.SumBuyDest + other.SumBuyDest,
		NumSell:     s.NumSell + other.NumSell,
		NumBuy:      s.NumBuy + other.NumBuy,
	}
}

// Sub subtracts other from s pointwise. A subtraction that would leave
// either side's count at or below zero floors that side's sums and
// count to zero instead, guarding against float drift producing
// spurious negative residual volume once a full window has expired.
func (s Stats) Sub(other Stats) Stats {
	out := Stats{
		SumSell:     s.SumSell - other.SumSell,
		SumSellDest: s.SumSellDest - other.SumSellDest,
		SumBuy:      s.SumBuy - other.SumBuy,
		SumBuyDest:  s.SumBuyDest - other.SumBuyDest,
		NumSell:     s.NumSell - other.NumSell,
		NumBuy:      s.NumBuy - other.NumBuy,
	}
	if int(s.NumSell)-int(other.NumSell) <= 0 {
		out.NumSell = 0
		out.SumSell = 0
		out.SumSellDest = 0
	}
	if int(s.NumBuy)-int(other.NumBuy) <= 0 {
		out.NumBuy = 0
		out.SumBuy = 0
		out.SumBuyDest = 0
	}
	return out
}

func (s Stats) String() string {
	return fmt.Sprintf("SELL %.8f to %.8f num %d | BUY %.8f to %.8f num %d",
		s.SumSell, s.SumSellDest, s.NumSell, s.SumBuy, s.SumBuyDest, s.NumBuy)
}
