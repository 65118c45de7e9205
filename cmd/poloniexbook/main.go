// Command poloniexbook subscribes to a set of trading pairs on the
// exchange push feed and maintains live order-book and trade statistics
// for each. Wiring is top-to-bottom: load env, init Redis, init
// processors, run, cleanup on exit.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dunnock/poloniexbook/internal/book"
	"github.com/dunnock/poloniexbook/internal/broadcast"
	"github.com/dunnock/poloniexbook/internal/config"
	"github.com/dunnock/poloniexbook/internal/processor"
	"github.com/dunnock/poloniexbook/internal/publish"
	"github.com/dunnock/poloniexbook/internal/registry"
	"github.com/dunnock/poloniexbook/internal/transport"
)

// defaultPairs is used when the process is started with no pair
// arguments: every pair in the closed wire-name table.
var defaultPairs = []string{
	"BTC_BCH", "BTC_ETH", "BTC_LTC", "BTC_ZEC",
	"USDT_BTC", "USDT_ETH", "USDT_LTC", "USDT_BCH", "USDT_ZEC", "USDT_XRP",
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()

	pairs := os.Args[1:]
	if len(pairs) == 0 {
		pairs = defaultPairs
		log.Println("⚠️  no pairs given on the command line, subscribing to the default set:", pairs)
	}
	for _, name := range pairs {
		if _, err := book.ParsePair(name); err != nil {
			log.Printf("❌ unsupported pair %q: %v", name, err)
			return 1
		}
	}

	pub, err := publish.Connect(cfg.RedisAddr)
	if err != nil {
		log.Println("⚠️  Redis unavailable — snapshot publishing disabled:", err)
	} else {
		log.Println("✅ Connected to Redis - book snapshots will be published")
	}
	defer pub.Close()

	reg := registry.New()
	bc := broadcast.New(cfg.BroadcastQueueDepth)

	logFrames := processor.NewLogger(nil)
	accountant := processor.NewAccountant(reg, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("📊 Initializing book registry and processors...")
	var wg doneGroup
	wg.goProcess(bc.Subscribe(), logFrames)
	wg.goProcess(bc.Subscribe(), accountant)

	tickerDone := make(chan struct{})
	go runTicker(ctx, reg, pub, cfg.StatsPublishInterval, tickerDone)

	log.Printf("📡 connecting to %s", cfg.SignalWSURL)
	tr := transport.New(cfg.SignalWSURL, pairs, bc)
	if err := tr.Run(ctx); err != nil {
		log.Printf("❌ transport error: %v", err)
		wg.wait()
		<-tickerDone
		return 1
	}

	wg.wait()
	<-tickerDone
	log.Println("✅ stream ended, all processors drained")
	return 0
}

// runTicker drives UpdateStats1s across every registered book once per
// second and, at the configured cadence, publishes a snapshot of each
// book's derived stats to Redis.
func runTicker(ctx context.Context, reg *registry.TradeBook, pub *publish.Publisher, publishEvery time.Duration, done chan<- struct{}) {
	defer close(done)

	statsTick := time.NewTicker(1 * time.Second)
	defer statsTick.Stop()
	publishTick := time.NewTicker(publishEvery)
	defer publishTick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-statsTick.C:
			for _, b := range reg.Books() {
				reg.Lock()
				b.UpdateStats1s(now)
				reg.Unlock()
			}
		case <-publishTick.C:
			pub.Tick(reg)
		}
	}
}

// doneGroup runs each processor's receive loop on its own goroutine and
// lets callers wait for every one to observe channel closure and
// return.
type doneGroup struct {
	chans []chan struct{}
}

func (g *doneGroup) goProcess(frames <-chan string, p processor.Processor) {
	done := make(chan struct{})
	g.chans = append(g.chans, done)
	go func() {
		defer close(done)
		for frame := range frames {
			if err := p.ProcessMessage(frame); err != nil {
				log.Printf("❌ %T: %v", p, err)
			}
		}
	}()
}

func (g *doneGroup) wait() {
	for _, done := range g.chans {
		<-done
	}
}
