// Package config loads runtime configuration from a .env file and the
// environment: load a .env if present (warn, don't fail, if absent),
// then read each setting from the environment with a hardcoded
// fallback.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/dunnock/poloniexbook/internal/broadcast"
	"github.com/joho/godotenv"
)

// defaultSignalURL is the fallback-with-warning default websocket
// endpoint when SIGNAL_WS_URL isn't set.
const defaultSignalURL = "wss://api2.poloniex.com"

// Config holds every environment-derived setting cmd/poloniexbook needs.
type Config struct {
	// SignalWSURL is the exchange push endpoint to dial.
	SignalWSURL string
	// RedisAddr is the snapshot publisher's Redis target; empty
	// disables publishing.
	RedisAddr string
	// BroadcastQueueDepth is the per-subscriber channel depth.
	BroadcastQueueDepth int
	// StatsPublishInterval is the cadence for the snapshot publisher.
	StatsPublishInterval time.Duration
}

// Load reads .env (warning, not failing, if it is absent) and then
// layers real environment variables and hardcoded defaults on top.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using default values")
	}

	cfg := Config{
		SignalWSURL:          defaultSignalURL,
		BroadcastQueueDepth:  broadcast.DefaultQueueDepth,
		StatsPublishInterval: 5 * time.Second,
	}

	if v := os.Getenv("SIGNAL_WS_URL"); v != "" {
		cfg.SignalWSURL = v
		log.Println("📡 Using Signal WebSocket URL:", cfg.SignalWSURL)
	} else {
		log.Println("⚠️  SIGNAL_WS_URL not set, using default:", cfg.SignalWSURL)
	}

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")

	if v := os.Getenv("BROADCAST_QUEUE_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BroadcastQueueDepth = n
		} else {
			log.Printf("⚠️  BROADCAST_QUEUE_DEPTH=%q invalid, using default %d", v, cfg.BroadcastQueueDepth)
		}
	}

	if v := os.Getenv("STATS_PUBLISH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.StatsPublishInterval = d
		} else {
			log.Printf("⚠️  STATS_PUBLISH_INTERVAL=%q invalid, using default %s", v, cfg.StatsPublishInterval)
		}
	}

	return cfg
}
