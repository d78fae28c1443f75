package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "9090"
log:
  mode: prod
redis:
  addr: localhost:6379
  db: 2
quiz:
  ttl: 30s
countdown:
  interval: 500ms
seed: true
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Log.Mode != "prod" || cfg.Redis.DB != 2 || !cfg.Seed {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if got := TTLDuration(cfg.Countdown.Interval, time.Second); got != 500*time.Millisecond {
		t.Fatalf("expected 500ms interval, got %s", got)
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for empty, got %s", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for garbage, got %s", got)
	}
}
