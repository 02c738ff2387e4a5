package tradebot

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gohye/cardtrade/internal/domain/cards"
	"github.com/gohye/cardtrade/internal/domain/trading"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"

[bot]
token = "file-token"

[db]
host = "db.internal"
password = "from-file"

[storage]
driver = "postgres"
token_driver = "redis"

[packs]
capacity = 3
refill_interval = "6h"
min_hit_rarity = "ultra rare"

[trading]
request_accept_policy = "accepted"
`)
	t.Setenv("CARDTRADE_BOT_TOKEN", "env-token")
	t.Setenv("CARDTRADE_DB_PASSWORD", "s3cret")
	t.Setenv("CARDTRADE_REDIS_ADDR", "redis:6380")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Log.Level != slog.LevelDebug {
		t.Errorf("log level = %v", cfg.Log.Level)
	}
	if cfg.Bot.Token != "env-token" {
		t.Errorf("token = %q, env should win", cfg.Bot.Token)
	}
	if cfg.DB.Host != "db.internal" || cfg.DB.Password != "s3cret" || cfg.DB.Port != 5432 {
		t.Errorf("db = %+v", cfg.DB)
	}
	if cfg.Redis.Addr != "redis:6380" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}
	if cfg.AcceptPolicy() != trading.AcceptIntoAccepted {
		t.Errorf("policy = %q", cfg.AcceptPolicy())
	}

	pc, err := cfg.PacksDomain()
	if err != nil {
		t.Fatalf("PacksDomain: %v", err)
	}
	if pc.Bucket.Capacity != 3 || pc.Bucket.RefillInterval != 6*time.Hour {
		t.Errorf("bucket = %+v", pc.Bucket)
	}
	if pc.PackSize != 10 || pc.MinHitRarity != cards.RarityUltraRare {
		t.Errorf("packs = %+v", pc)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"driver", "[storage]\ndriver = \"sqlite\"", "storage.driver"},
		{"token driver needs postgres", "[storage]\ntoken_driver = \"postgres\"", "token_driver postgres"},
		{"rarity", "[packs]\nmin_hit_rarity = \"mythic\"", "min_hit_rarity"},
		{"policy", "[trading]\nrequest_accept_policy = \"instant\"", "request_accept_policy"},
		{"room code", "[trading]\nroom_code_length = 2", "room_code_length"},
		{"capacity", "[packs]\ncapacity = 0", "capacity"},
		{"node id", "[trading]\nnode_id = 1024", "node_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("got %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
