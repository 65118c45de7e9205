package wire

import (
	"testing"

	"github.com/dunnock/poloniexbook/internal/book"
)

func TestDecodeTradeAndOrderUpdate(t *testing.T) {
	frame := []byte(`[189,4811424,[["o",1,"0.12906425","0.02691207"],["t","714116",0,"0.12906425","0.05946471",1504163848]]]`)
	upd, err := Decode(frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.BookID != 189 || upd.RecordID != 4811424 {
		t.Fatalf("unexpected ids: %+v", upd)
	}
	if len(upd.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(upd.Records))
	}

	buyTotal, ok := upd.Records[0].(BuyTotalRecord)
	if !ok {
		t.Fatalf("expected BuyTotalRecord, got %T", upd.Records[0])
	}
	if buyTotal.Rate != "0.12906425" || buyTotal.Amount != 0.02691207 {
		t.Fatalf("unexpected buy total: %+v", buyTotal)
	}

	sell, ok := upd.Records[1].(SellRecord)
	if !ok {
		t.Fatalf("expected SellRecord, got %T", upd.Records[1])
	}
	if sell.Deal.ID != 1504163848 || sell.Deal.TID != "714116" ||
		sell.Deal.Rate != "0.12906425" || sell.Deal.Amount != 0.05946471 {
		t.Fatalf("unexpected deal: %+v", sell.Deal)
	}
}

func TestDecodeBadAmount(t *testing.T) {
	frame := []byte(`[189,4811424,[["o",1,"0.02691207","bad"]]]`)
	if _, err := Decode(frame); err == nil {
		t.Fatalf("expected a numeric parse error")
	}
}

func TestDecodeNotATriple(t *testing.T) {
	frame := []byte(`[189,4811424]`)
	if _, err := Decode(frame); err == nil {
		t.Fatalf("expected a malformed-frame error")
	}
}

func TestDecodeUnknownTag(t *testing.T) {
	frame := []byte(`[189,4811424,[["f",1,"0.120000","0.02691207"]]]`)
	if _, err := Decode(frame); err == nil {
		t.Fatalf("expected an unknown-tag error")
	}
}

func TestDecodeUnknownDirection(t *testing.T) {
	frame := []byte(`[189,4811424,[["o",3,"0.120000","0.02691207"]]]`)
	if _, err := Decode(frame); err == nil {
		t.Fatalf("expected an unknown-direction error")
	}
}

func TestDecodeInitialSnapshot(t *testing.T) {
	frame := []byte(`[189, 5130995, [["i", {"currencyPair": "BTC_BCH", "orderBook": [{"0.13161901": 0.23709568, "0.13164313": "0.17328089"}, {"0.13169621": 0.2331}]}]]]`)
	upd, err := Decode(frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	init, ok := upd.Records[0].(InitialRecord)
	if !ok {
		t.Fatalf("expected InitialRecord, got %T", upd.Records[0])
	}
	if init.Book.Pair != book.BTCBCH {
		t.Fatalf("expected BTCBCH, got %v", init.Book.Pair)
	}
	if init.Book.Sell["0.13161901"] != 0.23709568 || init.Book.Sell["0.13164313"] != 0.17328089 {
		t.Fatalf("unexpected sell side: %+v", init.Book.Sell)
	}
	if init.Book.Buy["0.13169621"] != 0.2331 {
		t.Fatalf("unexpected buy side: %+v", init.Book.Buy)
	}
}

func TestDecodeHeartbeatIsMalformed(t *testing.T) {
	frame := []byte(`[1010]`)
	if _, err := Decode(frame); err == nil {
		t.Fatalf("expected a malformed-frame error for a non-triple heartbeat")
	}
}

func TestDecodeUnknownPair(t *testing.T) {
	frame := []byte(`[189, 1, [["i", {"currencyPair": "NOT_A_PAIR", "orderBook": [{}, {}]}]]]`)
	if _, err := Decode(frame); err == nil {
		t.Fatalf("expected a decode error for an unknown pair")
	}
}
