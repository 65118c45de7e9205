// Package stats builds the sorted-vector projection of a Book (best
// bid/ask, depth sums, skin/surface price depths) and layers the 1s/1m
// rolling trade-aggregate window on top.
package stats

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dunnock/poloniexbook/internal/book"
	"github.com/dunnock/poloniexbook/internal/floatcmp"
)

// BookStats is the derived, always-sorted view of one Book's two sides.
type BookStats struct {
	VecSell     []Record // ascending by rate
	VecBuy      []Record // descending by rate
	MinSell     float64
	MaxBuy      float64
	SumSell     float64
	SumBuy      float64
	SkinSell    float64
	SkinBuy     float64
	SurfaceSell float64
	SurfaceBuy  float64
}

func hashToVec(m map[string]float64) []Record {
	vec := make([]Record, 0, len(m))
	for rateStr, amount := range m {
		rate, err := strconv.ParseFloat(rateStr, 64)
		if err != nil {
			continue // unparsable rate keys are skipped for stats purposes
		}
		vec = append(vec, Record{Rate: rate, Amount: amount})
	}
	return vec
}

// NewBookStats builds a fresh projection from a Book. Snapshot levels
// deeper than 10x the best price on their side are trimmed from the
// returned vectors as "trash" — common on crypto snapshots — but remain
// in the book's own maps.
func NewBookStats(b *book.Book) BookStats {
	vecBuy := hashToVec(b.Buy)
	sort.Slice(vecBuy, func(i, j int) bool { return floatcmp.Compare(vecBuy[j].Rate, vecBuy[i].Rate) < 0 })
	maxBuy := 0.0
	if len(vecBuy) > 0 {
		maxBuy = vecBuy[0].Rate
	}
	if trashAt := firstIndexBelow(vecBuy, maxBuy/10.0); trashAt >= 0 {
		vecBuy = vecBuy[:trashAt]
	}
	sumBuy := sumAmounts(vecBuy)
	skinBuy := rateByAmount(vecBuy, sumBuy*0.1)
	surfaceBuy := rateByAmount(vecBuy, sumBuy*0.01)

	vecSell := hashToVec(b.Sell)
	sort.Slice(vecSell, func(i, j int) bool { return floatcmp.Compare(vecSell[i].Rate, vecSell[j].Rate) < 0 })
	minSell := 0.0
	if len(vecSell) > 0 {
		minSell = vecSell[0].Rate
	}
	if trashAt := firstIndexAbove(vecSell, minSell*10.0); trashAt >= 0 {
		vecSell = vecSell[:trashAt]
	}
	sumSell := sumAmounts(vecSell)
	skinSell := rateByAmount(vecSell, sumSell*0.1)
	surfaceSell := rateByAmount(vecSell, sumSell*0.01)

	return BookStats{
		VecBuy: vecBuy, VecSell: vecSell,
		MaxBuy: maxBuy, MinSell: minSell,
		SumBuy: sumBuy, SumSell: sumSell,
		SkinBuy: skinBuy, SkinSell: skinSell,
		SurfaceBuy: surfaceBuy, SurfaceSell: surfaceSell,
	}
}

func sumAmounts(vec []Record) float64 {
	var total float64
	for _, rec := range vec {
		total += rec.Amount
	}
	return total
}

// firstIndexBelow returns the first index in a descending-by-rate vec
// whose rate falls below floor, or -1 if none does.
func firstIndexBelow(vec []Record, floor float64) int {
	for i, rec := range vec {
		if rec.Rate < floor {
			return i
		}
	}
	return -1
}

// firstIndexAbove returns the first index in an ascending-by-rate vec
// whose rate exceeds ceiling, or -1 if none does.
func firstIndexAbove(vec []Record, ceiling float64) int {
	for i, rec := range vec {
		if rec.Rate > ceiling {
			return i
		}
	}
	return -1
}

// searchAscending locates rate in a vec sorted ascending by rate,
// returning the insertion point and whether rate is already present.
func searchAscending(vec []Record, rate float64) (idx int, found bool) {
	idx = sort.Search(len(vec), func(i int) bool { return floatcmp.Compare(vec[i].Rate, rate) >= 0 })
	found = idx < len(vec) && floatcmp.Compare(vec[idx].Rate, rate) == 0
	return idx, found
}

// searchDescending is the mirror for a vec sorted descending by rate.
func searchDescending(vec []Record, rate float64) (idx int, found bool) {
	idx = sort.Search(len(vec), func(i int) bool { return floatcmp.Compare(vec[i].Rate, rate) <= 0 })
	found = idx < len(vec) && floatcmp.Compare(vec[idx].Rate, rate) == 0
	return idx, found
}

// updateSortedVec is the shared insert/remove/overwrite step behind
// UpdateSellOrders/UpdateBuyOrders.
func updateSortedVec(vec []Record, idx int, found bool, stat *float64, rate, amount float64, statCmp bool) []Record {
	switch {
	case floatcmp.IsZero(amount):
		if found {
			vec = append(vec[:idx], vec[idx+1:]...)
		}
		if floatcmp.Equal(*stat, rate) || floatcmp.IsZero(*stat) {
			if len(vec) > 0 {
				*stat = vec[0].Rate
			} else {
				*stat = 0
			}
		}
	case amount > 0:
		if found {
			vec[idx].Amount = amount
		} else {
			vec = append(vec, Record{})
			copy(vec[idx+1:], vec[idx:])
			vec[idx] = Record{Rate: rate, Amount: amount}
		}
		if statCmp || floatcmp.IsZero(*stat) {
			*stat = rate
		}
	}
	return vec
}

// UpdateSellOrders incrementally folds one sell-side order-book update
// into the projection: prevAmount is the level's previous amount, if
// any (use 0 when there wasn't one).
func (s *BookStats) UpdateSellOrders(rate, amount float64, prevAmount float64, hadPrev bool) {
	idx, found := searchAscending(s.VecSell, rate)
	statCmp := s.MinSell > rate
	s.VecSell = updateSortedVec(s.VecSell, idx, found, &s.MinSell, rate, amount, statCmp)
	if hadPrev {
		s.SumSell = s.SumSell + amount - prevAmount
	} else {
		s.SumSell += amount
	}
	// Recompute only on crossing the current boundary from the favorable
	// side — deliberately not "fixed" to rebuild unconditionally; see
	// DESIGN.md's Open Question decision on skin/surface drift.
	if rate < s.SkinSell {
		s.SkinSell = rateByAmount(s.VecSell, s.SumSell*0.1)
	}
	if rate < s.SurfaceSell {
		s.SurfaceSell = rateByAmount(s.VecSell, s.SumSell*0.01)
	}
}

// UpdateBuyOrders is the symmetric operation on the descending buy vector.
func (s *BookStats) UpdateBuyOrders(rate, amount float64, prevAmount float64, hadPrev bool) {
	idx, found := searchDescending(s.VecBuy, rate)
	statCmp := s.MaxBuy < rate
	s.VecBuy = updateSortedVec(s.VecBuy, idx, found, &s.MaxBuy, rate, amount, statCmp)
	if hadPrev {
		s.SumBuy = s.SumBuy + amount - prevAmount
	} else {
		s.SumBuy += amount
	}
	if rate > s.SkinBuy {
		s.SkinBuy = rateByAmount(s.VecBuy, s.SumBuy*0.1)
	}
	if rate > s.SurfaceBuy {
		s.SurfaceBuy = rateByAmount(s.VecBuy, s.SumBuy*0.01)
	}
}

func (s BookStats) String() string {
	return fmt.Sprintf("(BUY max %.8f sum %.8f | SELL min %.8f sum %.8f)", s.MaxBuy, s.SumBuy, s.MinSell, s.SumSell)
}
