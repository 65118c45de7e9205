package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/dunnock/poloniexbook/internal/book"
)

func TestUpdateStats1sOnlyFoldsLastSecond(t *testing.T) {
	b := book.New(book.BTCBCH)
	w := NewBookWithStats(b)

	now := time.Now()
	b.Deals.Add(book.Deal{Time: now.Add(-30 * time.Second), ID: 1, Rate: 1, Amount: 1})
	b.Deals.Add(book.Deal{Time: now.Add(-500 * time.Millisecond), ID: 2, Rate: 1, Amount: 2})

	w.UpdateStats1s(now)

	if w.TradeSeries1s[0].NumBuy != 1 {
		t.Fatalf("expected only the deal within the last second to be folded, got num_buy=%d", w.TradeSeries1s[0].NumBuy)
	}
}

func TestUpdateStats1sWindowIsFixedNotTickDriven(t *testing.T) {
	b := book.New(book.BTCBCH)
	w := NewBookWithStats(b)

	start := time.Now()
	w.UpdateStats1s(start)

	// Deals are added in time order, as the book records them: one well
	// before the next tick's trailing second, two inside it.
	b.Deals.Add(book.Deal{Time: start.Add(1500 * time.Millisecond), ID: 3, Rate: 1, Amount: 1})
	b.Deals.Add(book.Deal{Time: start.Add(3200 * time.Millisecond), ID: 1, Rate: 1, Amount: 1})
	b.Deals.Add(book.Deal{Time: start.Add(3500 * time.Millisecond), ID: 2, Rate: 1, Amount: 1})

	// A delayed tick several seconds after the last one must still only
	// look back exactly one second, not the whole gap since start.
	w.UpdateStats1s(start.Add(4 * time.Second))

	if w.TradeSeries1s[0].NumBuy != 2 {
		t.Fatalf("expected both deals within the trailing second to fold, got num_buy=%d", w.TradeSeries1s[0].NumBuy)
	}

	w.UpdateStats1s(start.Add(4 * time.Second))
	if w.TradeSeries1s[0].NumBuy != 2 {
		t.Fatalf("a deal outside the trailing one-second window must not fold into the bucket, got num_buy=%d", w.TradeSeries1s[0].NumBuy)
	}
}

func TestBookWithStatsString(t *testing.T) {
	b := book.New(book.BTCBCH)
	w := NewBookWithStats(b)
	w.UpdateStats1s(time.Now())

	out := w.String()
	if !strings.Contains(out, "BTC_BCH") {
		t.Fatalf("expected pair name in String(), got %q", out)
	}
	if !strings.Contains(out, "1s") || !strings.Contains(out, "1m") {
		t.Fatalf("expected both 1s and 1m sections in String(), got %q", out)
	}
}
