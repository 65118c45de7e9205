// Package processor implements the two concrete consumers of the
// broadcast text-frame stream: Logger, which stamps and echoes every
// frame, and Accountant, which decodes each frame and applies it to
// the book registry.
package processor

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dunnock/poloniexbook/internal/registry"
	"github.com/dunnock/poloniexbook/internal/wire"
)

// maxLoggedFrame bounds how much of an offending frame is echoed to
// stderr on error.
const maxLoggedFrame = 200

// Processor is anything that can absorb one text frame, blocking for
// the duration of its own processing.
type Processor interface {
	ProcessMessage(frame string) error
}

// Logger stamps each frame with seconds.millis and writes it to
// standard output.
type Logger struct {
	out *log.Logger
}

// NewLogger returns a Logger writing through l. A nil l writes plain
// lines to standard output.
func NewLogger(l *log.Logger) *Logger {
	if l == nil {
		l = log.New(os.Stdout, "", 0)
	}
	return &Logger{out: l}
}

// ProcessMessage never fails: logging a frame has no failure mode
// short of the process itself being unable to write to stdout.
func (l *Logger) ProcessMessage(frame string) error {
	now := time.Now()
	l.out.Printf("%d.%03d %s", now.Unix(), now.Nanosecond()/1e6, frame)
	return nil
}

var _ Processor = (*Logger)(nil)

// Accountant decodes each frame into a wire.BookUpdate and applies its
// records to the registry, one RecordUpdate at a time under the
// registry's single mutex. A decode failure aborts the whole frame; a
// per-record application failure is reported to errOut and the loop
// continues with the next record.
type Accountant struct {
	registry *registry.TradeBook
	errOut   *log.Logger
}

// NewAccountant returns an Accountant applying updates to reg. A nil
// errOut uses the standard library's default logger.
func NewAccountant(reg *registry.TradeBook, errOut *log.Logger) *Accountant {
	if errOut == nil {
		errOut = log.Default()
	}
	return &Accountant{registry: reg, errOut: errOut}
}

// ProcessMessage decodes frame and applies every record in order.
func (a *Accountant) ProcessMessage(frame string) error {
	upd, err := wire.Decode([]byte(frame))
	if err != nil {
		return fmt.Errorf("decode %s: %w", truncate(frame), err)
	}

	for _, rec := range upd.Records {
		if err := a.applyRecord(upd.BookID, rec); err != nil {
			a.errOut.Printf("book %d record %d: %v", upd.BookID, upd.RecordID, err)
		}
	}
	return nil
}

func (a *Accountant) applyRecord(bookID uint16, rec wire.RecordUpdate) error {
	a.registry.Lock()
	defer a.registry.Unlock()

	switch r := rec.(type) {
	case wire.InitialRecord:
		a.registry.AddBook(r.Book, bookID)
		return nil

	case wire.SellTotalRecord:
		acc, err := a.registry.MustBookByID(bookID)
		if err != nil {
			return err
		}
		acc.UpdateSellOrders(r.Rate, r.Amount)
		return nil

	case wire.BuyTotalRecord:
		acc, err := a.registry.MustBookByID(bookID)
		if err != nil {
			return err
		}
		acc.UpdateBuyOrders(r.Rate, r.Amount)
		return nil

	case wire.SellRecord:
		acc, err := a.registry.MustBookByID(bookID)
		if err != nil {
			return err
		}
		// The wire carries the magnitude; a sell executes against the
		// book with a negative signed amount.
		_, err = acc.NewDeal(r.Deal.ID, r.Deal.TID, r.Deal.Rate, -r.Deal.Amount)
		return err

	case wire.BuyRecord:
		acc, err := a.registry.MustBookByID(bookID)
		if err != nil {
			return err
		}
		_, err = acc.NewDeal(r.Deal.ID, r.Deal.TID, r.Deal.Rate, r.Deal.Amount)
		return err

	default:
		return fmt.Errorf("unhandled record type %T", rec)
	}
}

func truncate(s string) string {
	if len(s) <= maxLoggedFrame {
		return s
	}
	return s[:maxLoggedFrame] + "...(truncated)"
}

var _ Processor = (*Accountant)(nil)
