// Package transport dials the exchange's push endpoint, sends the
// subscribe handshake, and feeds raw text frames into a broadcaster,
// reconnecting with backoff.
package transport

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dunnock/poloniexbook/internal/broadcast"
	"github.com/gorilla/websocket"
)

// ReconnectDelay is how long Run waits before redialing after a
// connection error.
const ReconnectDelay = 5 * time.Second

// subscribeCommand is the handshake shape the exchange expects:
// {"command":"subscribe","channel":"<PAIR_WIRE_NAME>"}.
type subscribeCommand struct {
	Command string `json:"command"`
	Channel string `json:"channel"`
}

// Transport dials url, subscribes to every name in pairs, and publishes
// every received text frame to b, until ctx is cancelled.
type Transport struct {
	url   string
	pairs []string
	out   *broadcast.Broadcaster
}

// New returns a Transport that will publish frames onto out once Run
// is called.
func New(url string, pairs []string, out *broadcast.Broadcaster) *Transport {
	return &Transport{url: url, pairs: pairs, out: out}
}

// Run dials and redials url until ctx is cancelled, at which point it
// closes out so every subscribed processor can drain and exit. A
// connection error never aborts Run; it backs off and redials, so Run
// only ever returns nil, on an orderly ctx-driven shutdown.
func (t *Transport) Run(ctx context.Context) error {
	defer t.out.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := t.connectAndListen(ctx); err != nil {
			log.Printf("📡 transport: connection error: %v, reconnecting in %s", err, ReconnectDelay)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(ReconnectDelay):
			}
			continue
		}
		return nil
	}
}

func (t *Transport) connectAndListen(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, t.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", t.url, err)
	}
	defer conn.Close()

	for _, pair := range t.pairs {
		cmd := subscribeCommand{Command: "subscribe", Channel: pair}
		if err := conn.WriteJSON(cmd); err != nil {
			return fmt.Errorf("subscribe %s: %w", pair, err)
		}
	}
	log.Printf("📡 transport: subscribed to %v", t.pairs)

	closing, stopClosing := context.WithCancel(ctx)
	defer stopClosing()
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-closing.Done()
		if ctx.Err() != nil {
			conn.Close()
		}
	}()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-done:
				return nil
			default:
				return fmt.Errorf("read: %w", err)
			}
		}
		t.out.Publish(string(frame))
	}
}
