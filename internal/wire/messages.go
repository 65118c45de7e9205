// Package wire parses the exchange's push-feed text frames into typed
// BookUpdate values. The wire shape is a 3-element JSON array
// [book_id, record_id, records], where each record is itself a tagged
// array dispatched on its first element ("i", "o", or "t").
package wire

import (
	"encoding/json"

	"github.com/dunnock/poloniexbook/internal/book"
	"github.com/dunnock/poloniexbook/internal/poloerr"
)

// TradeRecord is the payload of a "t" (trade) record.
type TradeRecord struct {
	ID     uint64 // the wire's unix-second timestamp field
	TID    string // the exchange's own trade id
	Rate   string
	Amount float64
}

// BookRecord is the payload of an "o" (order total) record.
type BookRecord struct {
	Rate   string
	Amount float64
}

// RecordUpdate is a closed sum type over the five record kinds the wire
// carries, realized as a marker interface over five concrete cases
// rather than inheritance.
type RecordUpdate interface {
	isRecordUpdate()
}

// InitialRecord is a full two-sided snapshot for one pair.
type InitialRecord struct{ Book *book.Book }

// SellTotalRecord says the aggregated sell size at Rate is now Amount
// (or removed, if Amount is zero).
type SellTotalRecord struct {
	Rate   string
	Amount float64
}

// BuyTotalRecord is the symmetric buy-side case.
type BuyTotalRecord struct {
	Rate   string
	Amount float64
}

// SellRecord is an executed sell-side trade.
type SellRecord struct{ Deal TradeRecord }

// BuyRecord is an executed buy-side trade.
type BuyRecord struct{ Deal TradeRecord }

func (InitialRecord) isRecordUpdate()   {}
func (SellTotalRecord) isRecordUpdate() {}
func (BuyTotalRecord) isRecordUpdate()  {}
func (SellRecord) isRecordUpdate()      {}
func (BuyRecord) isRecordUpdate()       {}

// BookUpdate is book_id, record_id, and the ordered records they carry.
type BookUpdate struct {
	BookID   uint16
	RecordID uint64
	Records  []RecordUpdate
}

// Decode parses a single UTF-8 text frame. Non-broadcasted exchange
// frames (e.g. heartbeats) have fewer than three top-level elements and
// are classified as malformed here, to be reported-and-dropped by the
// caller.
func Decode(frame []byte) (*BookUpdate, error) {
	var raw []any
	if err := json.Unmarshal(frame, &raw); err != nil {
		return nil, poloerr.JSON(err)
	}
	if len(raw) != 3 {
		return nil, poloerr.WrongData("book update is not a 3-element array (got %d)", len(raw))
	}

	bookID, err := expectUint16(raw[0], "book_id")
	if err != nil {
		return nil, err
	}
	recordID, err := expectUint64(raw[1], "record_id")
	if err != nil {
		return nil, err
	}
	recordsRaw, ok := raw[2].([]any)
	if !ok {
		return nil, poloerr.WrongData("records: expected array, got %T", raw[2])
	}

	records := make([]RecordUpdate, 0, len(recordsRaw))
	for _, r := range recordsRaw {
		rec, err := decodeRecord(r)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return &BookUpdate{BookID: bookID, RecordID: recordID, Records: records}, nil
}

func decodeRecord(v any) (RecordUpdate, error) {
	arr, ok := v.([]any)
	if !ok || len(arr) < 2 {
		return nil, poloerr.WrongData("record has less than 2 items: %v", v)
	}

	tag, ok := arr[0].(string)
	if !ok {
		return nil, poloerr.WrongData("record tag is not a string: %v", v)
	}

	switch tag {
	case "o":
		return decodeBookRecord(arr)
	case "t":
		return decodeTradeRecord(arr)
	case "i":
		return decodeInitialRecord(arr)
	default:
		return nil, poloerr.WrongData("record has unknown tag %q", tag)
	}
}

// ["o", dir, rate_string, amount_string_or_number]
func decodeBookRecord(v []any) (RecordUpdate, error) {
	if len(v) != 4 {
		return nil, poloerr.WrongData("book record does not have 4 items: %v", v)
	}
	dir, err := expectUint64(v[1], "book record direction")
	if err != nil {
		return nil, err
	}
	rate, err := expectString(v[2], "book record rate")
	if err != nil {
		return nil, err
	}
	amount, err := expectFloat64(v[3], "book record amount")
	if err != nil {
		return nil, err
	}
	switch dir {
	case 0:
		return SellTotalRecord{Rate: rate, Amount: amount}, nil
	case 1:
		return BuyTotalRecord{Rate: rate, Amount: amount}, nil
	default:
		return nil, poloerr.WrongData("book record has unknown direction %d", dir)
	}
}

// ["t", tid, dir, rate, amount, unix_seconds]
func decodeTradeRecord(v []any) (RecordUpdate, error) {
	if len(v) != 6 {
		return nil, poloerr.WrongData("trade record does not have 6 items: %v", v)
	}
	tid, err := expectString(v[1], "trade record tid")
	if err != nil {
		return nil, err
	}
	dir, err := expectUint64(v[2], "trade record direction")
	if err != nil {
		return nil, err
	}
	rate, err := expectString(v[3], "trade record rate")
	if err != nil {
		return nil, err
	}
	amount, err := expectFloat64(v[4], "trade record amount")
	if err != nil {
		return nil, err
	}
	id, err := expectUint64(v[5], "trade record id")
	if err != nil {
		return nil, err
	}
	rec := TradeRecord{ID: id, TID: tid, Rate: rate, Amount: amount}
	switch dir {
	case 0:
		return SellRecord{Deal: rec}, nil
	case 1:
		return BuyRecord{Deal: rec}, nil
	default:
		return nil, poloerr.WrongData("trade record has unknown direction %d", dir)
	}
}

// ["i", {"currencyPair": S, "orderBook": [sell_map, buy_map]}]
func decodeInitialRecord(v []any) (RecordUpdate, error) {
	if len(v) != 2 {
		return nil, poloerr.WrongData("initial record does not have 2 items: %v", v)
	}
	obj, ok := v[1].(map[string]any)
	if !ok {
		return nil, poloerr.WrongData("initial book is not an object: %v", v[1])
	}

	pairRaw, ok := obj["currencyPair"]
	if !ok {
		return nil, poloerr.WrongData("initial book missing currencyPair: %v", v[1])
	}
	pairName, err := expectString(pairRaw, "currencyPair")
	if err != nil {
		return nil, err
	}
	pair, err := book.ParsePair(pairName)
	if err != nil {
		return nil, err
	}

	orderBookRaw, ok := obj["orderBook"].([]any)
	if !ok || len(orderBookRaw) != 2 {
		return nil, poloerr.WrongData("initial book orderBook must be a 2-element array: %v", v[1])
	}

	sell, err := expectAmountMap(orderBookRaw[0], "orderBook[0]")
	if err != nil {
		return nil, err
	}
	buy, err := expectAmountMap(orderBookRaw[1], "orderBook[1]")
	if err != nil {
		return nil, err
	}

	return InitialRecord{Book: book.NewFromSnapshot(pair, sell, buy)}, nil
}
