package config

import (
	"testing"

	"github.com/dunnock/poloniexbook/internal/broadcast"
)

func TestLoadAppliesDefaultsWhenEnvUnset(t *testing.T) {
	for _, key := range []string{"SIGNAL_WS_URL", "REDIS_ADDR", "BROADCAST_QUEUE_DEPTH", "STATS_PUBLISH_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.SignalWSURL != defaultSignalURL {
		t.Fatalf("expected default signal url, got %q", cfg.SignalWSURL)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("expected redis publishing disabled by default, got %q", cfg.RedisAddr)
	}
	if cfg.BroadcastQueueDepth != broadcast.DefaultQueueDepth {
		t.Fatalf("expected default queue depth %d, got %d", broadcast.DefaultQueueDepth, cfg.BroadcastQueueDepth)
	}
}

func TestLoadHonorsOverrides(t *testing.T) {
	t.Setenv("SIGNAL_WS_URL", "wss://example.test/feed")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("BROADCAST_QUEUE_DEPTH", "250")
	t.Setenv("STATS_PUBLISH_INTERVAL", "2s")

	cfg := Load()
	if cfg.SignalWSURL != "wss://example.test/feed" {
		t.Fatalf("expected overridden signal url, got %q", cfg.SignalWSURL)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("expected overridden redis addr, got %q", cfg.RedisAddr)
	}
	if cfg.BroadcastQueueDepth != 250 {
		t.Fatalf("expected overridden queue depth, got %d", cfg.BroadcastQueueDepth)
	}
	if cfg.StatsPublishInterval.Seconds() != 2 {
		t.Fatalf("expected overridden publish interval, got %s", cfg.StatsPublishInterval)
	}
}
