package tradebot

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	"github.com/gohye/cardtrade/internal/domain/cards"
	"github.com/gohye/cardtrade/internal/domain/packs"
	"github.com/gohye/cardtrade/internal/domain/trading"
	"github.com/pelletier/go-toml/v2"
)

const envPrefix = "CARDTRADE_"

// LoadConfig reads the TOML file at path and then applies CARDTRADE_*
// environment overrides, which is where secrets are expected to come from.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err = env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log     LogConfig     `toml:"log" envPrefix:"LOG_"`
	Bot     BotConfig     `toml:"bot" envPrefix:"BOT_"`
	DB      DBConfig      `toml:"db" envPrefix:"DB_"`
	Redis   RedisConfig   `toml:"redis" envPrefix:"REDIS_"`
	Storage StorageConfig `toml:"storage" envPrefix:"STORAGE_"`
	Packs   PacksConfig   `toml:"packs" envPrefix:"PACKS_"`
	Trading TradingConfig `toml:"trading" envPrefix:"TRADING_"`
	Notify  NotifyConfig  `toml:"notify" envPrefix:"NOTIFY_"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token" env:"TOKEN"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level" env:"LEVEL"`
	AddSource bool       `toml:"add_source" env:"ADD_SOURCE"`
}

type DBConfig struct {
	Host     string `toml:"host" env:"HOST"`
	Port     int    `toml:"port" env:"PORT"`
	User     string `toml:"user" env:"USER"`
	Password string `toml:"password" env:"PASSWORD"`
	Database string `toml:"database" env:"DATABASE"`
	PoolSize int    `toml:"pool_size" env:"POOL_SIZE"`
}

type RedisConfig struct {
	Addr     string   `toml:"addr" env:"ADDR"`
	Password string   `toml:"password" env:"PASSWORD"`
	DB       int      `toml:"db" env:"DB"`
	Prefix   string   `toml:"prefix" env:"PREFIX"`
	TTL      Duration `toml:"ttl" env:"TTL"`
}

type StorageDriver string

const (
	DriverMemory   StorageDriver = "memory"
	DriverPostgres StorageDriver = "postgres"
	DriverRedis    StorageDriver = "redis"
)

type StorageConfig struct {
	// Driver backs trades, requests, invites, ownership and the catalog.
	Driver StorageDriver `toml:"driver" env:"DRIVER"`
	// TokenDriver backs pack token buckets and may differ from Driver.
	TokenDriver StorageDriver `toml:"token_driver" env:"TOKEN_DRIVER"`
}

type PacksConfig struct {
	Capacity       int      `toml:"capacity" env:"CAPACITY"`
	RefillInterval Duration `toml:"refill_interval" env:"REFILL_INTERVAL"`
	PackSize       int      `toml:"pack_size" env:"PACK_SIZE"`
	MinHitRarity   string   `toml:"min_hit_rarity" env:"MIN_HIT_RARITY"`
}

type TradingConfig struct {
	RequestAcceptPolicy string `toml:"request_accept_policy" env:"REQUEST_ACCEPT_POLICY"`
	RoomCodeLength      int    `toml:"room_code_length" env:"ROOM_CODE_LENGTH"`
	// NodeID goes into every generated id; bot processes sharing a database
	// need distinct values.
	NodeID int `toml:"node_id" env:"NODE_ID"`
}

type NotifyConfig struct {
	Enabled bool    `toml:"enabled" env:"ENABLED"`
	DMRate  float64 `toml:"dm_rate" env:"DM_RATE"`
	DMBurst int     `toml:"dm_burst" env:"DM_BURST"`
}

// Duration reads "12h" style strings from TOML and the environment.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: slog.LevelInfo},
		DB: DBConfig{
			Host:     "localhost",
			Port:     5432,
			PoolSize: 10,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "cardtrade:packtokens",
		},
		Storage: StorageConfig{
			Driver:      DriverMemory,
			TokenDriver: DriverMemory,
		},
		Packs: PacksConfig{
			Capacity:       packs.DefaultCapacity,
			RefillInterval: Duration{packs.DefaultRefillInterval},
			PackSize:       packs.DefaultPackSize,
			MinHitRarity:   cards.RarityRare.String(),
		},
		Trading: TradingConfig{
			RequestAcceptPolicy: string(trading.AcceptIntoPending),
			RoomCodeLength:      trading.DefaultRoomCodeLength,
		},
		Notify: NotifyConfig{
			Enabled: true,
			DMRate:  1,
			DMBurst: 5,
		},
	}
}

func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case DriverMemory, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unsupported %q", c.Storage.Driver))
	}
	switch c.Storage.TokenDriver {
	case DriverMemory, DriverPostgres, DriverRedis:
	default:
		errs = append(errs, fmt.Errorf("storage.token_driver: unsupported %q", c.Storage.TokenDriver))
	}
	if c.Storage.TokenDriver == DriverPostgres && c.Storage.Driver != DriverPostgres {
		errs = append(errs, errors.New("storage.token_driver postgres needs storage.driver postgres"))
	}
	if _, err := c.PacksDomain(); err != nil {
		errs = append(errs, err)
	}
	if _, err := trading.ParseAcceptPolicy(c.Trading.RequestAcceptPolicy); err != nil {
		errs = append(errs, fmt.Errorf("trading.request_accept_policy: %w", err))
	}
	if c.Trading.RoomCodeLength < 4 || c.Trading.RoomCodeLength > 16 {
		errs = append(errs, fmt.Errorf("trading.room_code_length: %d outside 4..16", c.Trading.RoomCodeLength))
	}
	if c.Trading.NodeID < 0 || c.Trading.NodeID > trading.MaxNode {
		errs = append(errs, fmt.Errorf("trading.node_id: %d outside 0..%d", c.Trading.NodeID, trading.MaxNode))
	}
	if c.Notify.Enabled && (c.Notify.DMRate <= 0 || c.Notify.DMBurst <= 0) {
		errs = append(errs, errors.New("notify: dm_rate and dm_burst must be positive"))
	}
	return errors.Join(errs...)
}

// PacksDomain converts the packs section into the domain configuration.
func (c Config) PacksDomain() (packs.Config, error) {
	minRarity, ok := cards.ParseRarity(c.Packs.MinHitRarity)
	if !ok {
		return packs.Config{}, fmt.Errorf("packs.min_hit_rarity: unknown rarity %q", c.Packs.MinHitRarity)
	}
	cfg := packs.Config{
		Bucket: packs.BucketConfig{
			Capacity:       c.Packs.Capacity,
			RefillInterval: c.Packs.RefillInterval.Duration,
		},
		PackSize:     c.Packs.PackSize,
		MinHitRarity: minRarity,
	}
	if err := cfg.Bucket.Validate(); err != nil {
		return packs.Config{}, fmt.Errorf("packs: %w", err)
	}
	if cfg.PackSize <= 0 {
		return packs.Config{}, fmt.Errorf("packs.pack_size: %d must be positive", cfg.PackSize)
	}
	return cfg, nil
}

func (c Config) AcceptPolicy() trading.AcceptPolicy {
	p, err := trading.ParseAcceptPolicy(c.Trading.RequestAcceptPolicy)
	if err != nil {
		return trading.AcceptIntoPending
	}
	return p
}
