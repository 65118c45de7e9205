package processor

import (
	"log"
	"strings"
	"testing"

	"github.com/dunnock/poloniexbook/internal/registry"
)

func TestAccountantAppliesInitialThenOrderAndTrade(t *testing.T) {
	reg := registry.New()
	a := NewAccountant(reg, nil)

	initial := `[189, 5130995, [["i", {"currencyPair": "BTC_BCH", "orderBook": [{"0.13161901": 0.23709568, "0.13164313": "0.17328089"}, {"0.13169621": 0.2331}]}]]]`
	if err := a.ProcessMessage(initial); err != nil {
		t.Fatalf("unexpected error on initial: %v", err)
	}

	acc, ok := reg.BookByID(189)
	if !ok {
		t.Fatalf("expected book 189 to be registered")
	}
	b := acc.BookRef()
	if b.Sell["0.13161901"] != 0.23709568 || b.Sell["0.13164313"] != 0.17328089 {
		t.Fatalf("unexpected sell side: %+v", b.Sell)
	}
	if b.Buy["0.13169621"] != 0.2331 {
		t.Fatalf("unexpected buy side: %+v", b.Buy)
	}
	stats := reg.Books()[0].Stats
	if stats.MinSell != 0.13161901 || stats.MaxBuy != 0.13169621 {
		t.Fatalf("unexpected best prices after snapshot: min_sell=%v max_buy=%v", stats.MinSell, stats.MaxBuy)
	}

	frame := `[189,4811424,[["o",1,"0.12906425","0.02691207"],["t","714116",0,"0.12906425","0.05946471",1504163848]]]`
	if err := a.ProcessMessage(frame); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Buy["0.12906425"] != 0.02691207 {
		t.Fatalf("expected buy total applied, got %+v", b.Buy)
	}
	if b.Deals.Len() != 1 {
		t.Fatalf("expected one recorded deal, got %d", b.Deals.Len())
	}
}

func TestAccountantUpdateToUnknownBookIsReportedNotFatal(t *testing.T) {
	reg := registry.New()
	a := NewAccountant(reg, nil)

	frame := `[999,1,[["o",0,"0.1","1.0"]]]`
	if err := a.ProcessMessage(frame); err != nil {
		t.Fatalf("a per-record error must not abort the frame: %v", err)
	}
}

func TestAccountantDecodeFailureAbortsWholeFrame(t *testing.T) {
	reg := registry.New()
	a := NewAccountant(reg, nil)

	if err := a.ProcessMessage(`[189,1]`); err == nil {
		t.Fatalf("expected a decode error for a malformed frame")
	}
}

func TestAccountantReplacesBookOnReconnectedChannel(t *testing.T) {
	reg := registry.New()
	a := NewAccountant(reg, nil)

	first := `[1, 1, [["i", {"currencyPair": "BTC_BCH", "orderBook": [{"0.1": 1}, {}]}]]]`
	second := `[2, 1, [["i", {"currencyPair": "BTC_BCH", "orderBook": [{"0.2": 2}, {}]}]]]`
	for _, frame := range []string{first, second} {
		if err := a.ProcessMessage(frame); err != nil {
			t.Fatalf("unexpected error on initial: %v", err)
		}
	}

	if _, ok := reg.BookByID(1); ok {
		t.Fatalf("expected the stale channel id to be dropped on rebind")
	}
	acc, ok := reg.BookByID(2)
	if !ok {
		t.Fatalf("expected the new channel id to resolve")
	}
	if acc.BookRef().Sell["0.2"] != 2 {
		t.Fatalf("expected the replacement book's state, got %+v", acc.BookRef().Sell)
	}
}

func TestLoggerStampsFrameWithSecondsDotMillis(t *testing.T) {
	var buf strings.Builder
	l := NewLogger(log.New(&buf, "", 0))

	if err := l.ProcessMessage("hello-frame"); err != nil {
		t.Fatalf("logger must never fail: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "hello-frame") {
		t.Fatalf("expected logged output to contain the frame, got %q", out)
	}
	if !strings.Contains(out, ".") {
		t.Fatalf("expected a seconds.millis stamp, got %q", out)
	}
}
