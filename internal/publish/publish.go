// Package publish periodically serializes each tracked book's derived
// stats and publishes them on Redis pub/sub, giving an external reader
// a way to observe book state without holding the registry lock.
package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/dunnock/poloniexbook/internal/registry"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// channelPrefix names the Redis pub/sub channel each pair's snapshot is
// published on: "poloniex-book:<pair>".
const channelPrefix = "poloniex-book:"

// Snapshot is the wire shape published per book per tick.
type Snapshot struct {
	Pair        string    `msgpack:"pair"`
	Time        time.Time `msgpack:"time"`
	MinSell     float64   `msgpack:"min_sell"`
	MaxBuy      float64   `msgpack:"max_buy"`
	SumSell     float64   `msgpack:"sum_sell"`
	SumBuy      float64   `msgpack:"sum_buy"`
	SkinSell    float64   `msgpack:"skin_sell"`
	SkinBuy     float64   `msgpack:"skin_buy"`
	SurfaceSell float64   `msgpack:"surface_sell"`
	SurfaceBuy  float64   `msgpack:"surface_buy"`
}

// Publisher connects to Redis and publishes a Snapshot per registered
// book on every Tick call. A Publisher with no reachable Redis server
// degrades to a no-op rather than failing the whole process.
type Publisher struct {
	client *redis.Client
}

// Connect dials addr and pings it once. If addr is empty or the ping
// fails, Connect returns a disabled Publisher (every Tick is then a
// no-op) and a non-nil error the caller may log and otherwise ignore.
func Connect(addr string) (*Publisher, error) {
	if addr == "" {
		return &Publisher{}, fmt.Errorf("no redis address configured")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return &Publisher{}, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return &Publisher{client: client}, nil
}

// Close shuts down the underlying Redis connection, if one was made.
func (p *Publisher) Close() {
	if p.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	p.client.Shutdown(ctx)
	p.client.Close()
}

// Tick publishes one Snapshot per book currently held by reg. A
// disabled Publisher (no reachable Redis) is a no-op.
func (p *Publisher) Tick(reg *registry.TradeBook) {
	if p.client == nil {
		return
	}

	now := time.Now()
	for _, b := range reg.Books() {
		// Hold the registry lock only long enough to copy one book's
		// scalars, peeking between records the same way the Accountant
		// yields between them.
		reg.Lock()
		snap := Snapshot{
			Pair:        b.BookRef().Pair.String(),
			Time:        now,
			MinSell:     b.Stats.MinSell,
			MaxBuy:      b.Stats.MaxBuy,
			SumSell:     b.Stats.SumSell,
			SumBuy:      b.Stats.SumBuy,
			SkinSell:    b.Stats.SkinSell,
			SkinBuy:     b.Stats.SkinBuy,
			SurfaceSell: b.Stats.SurfaceSell,
			SurfaceBuy:  b.Stats.SurfaceBuy,
		}
		echo := b.String()
		reg.Unlock()
		fmt.Println("📊", echo)
		p.publishOne(snap)
	}
}

func (p *Publisher) publishOne(snap Snapshot) {
	payload, err := msgpack.Marshal(snap)
	if err != nil {
		fmt.Printf("❌ publish: failed to encode snapshot for %s: %v\n", snap.Pair, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := p.client.Publish(ctx, channelPrefix+snap.Pair, payload).Err(); err != nil {
		fmt.Printf("❌ publish: failed to publish snapshot for %s: %v\n", snap.Pair, err)
	}
}
