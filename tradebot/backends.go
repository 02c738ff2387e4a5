package tradebot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gohye/cardtrade/internal/domain/cards"
	"github.com/gohye/cardtrade/internal/domain/ownership"
	"github.com/gohye/cardtrade/internal/domain/packs"
	"github.com/gohye/cardtrade/internal/domain/trading"
	"github.com/gohye/cardtrade/internal/gateways/database/repositories"
	"github.com/gohye/cardtrade/internal/gateways/memory"
	redisstore "github.com/gohye/cardtrade/internal/gateways/redis"
	"github.com/gohye/cardtrade/internal/importer"
	"github.com/gohye/cardtrade/tradebot/database"
	goredis "github.com/redis/go-redis/v9"
)

// Backends are the stores selected by the storage section of the config.
type Backends struct {
	DB        *database.DB
	Store     trading.Store
	Ownership ownership.Repository
	Granter   ownership.Granter
	Catalog   cards.Repository
	Importer  importer.CatalogWriter
	Users     UserDirectory
	Tokens    packs.TokenStore

	closers []func()
}

func OpenBackends(ctx context.Context, cfg Config) (*Backends, error) {
	b := &Backends{}
	var mem *memory.Store

	switch cfg.Storage.Driver {
	case DriverPostgres:
		db, err := database.New(ctx, database.DBConfig{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			Database: cfg.DB.Database,
			PoolSize: cfg.DB.PoolSize,
		})
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		b.closers = append(b.closers, db.Close)
		if err := db.InitializeSchema(ctx); err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to initialize database schema: %w", err)
		}

		store := repositories.NewStore(db.BunDB())
		catalog := repositories.NewCardRepository(db.BunDB())
		b.DB = db
		b.Store = store
		b.Ownership = store.Ownership()
		b.Granter = store
		b.Catalog = catalog
		b.Importer = catalog
		b.Users = repositories.NewUserRepository(db.BunDB())

	case DriverMemory:
		mem = memory.NewStore()
		b.Store = mem
		b.Ownership = mem.Ownership()
		b.Granter = mem
		b.Catalog = mem
		b.Importer = mem
		b.Users = mem

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	switch cfg.Storage.TokenDriver {
	case DriverMemory:
		if mem == nil {
			mem = memory.NewStore()
		}
		b.Tokens = mem
	case DriverPostgres:
		b.Tokens = repositories.NewPackTokenRepository(b.DB.BunDB())
	case DriverRedis:
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			b.Close()
			return nil, fmt.Errorf("redis unreachable at %s: %w", cfg.Redis.Addr, err)
		}
		b.closers = append(b.closers, func() { rdb.Close() })
		b.Tokens = redisstore.NewTokenStore(rdb,
			redisstore.WithPrefix(cfg.Redis.Prefix),
			redisstore.WithTTL(cfg.Redis.TTL.Duration))
	default:
		b.Close()
		return nil, fmt.Errorf("unsupported token driver %q", cfg.Storage.TokenDriver)
	}

	slog.Info("Storage ready",
		slog.String("type", "sys"),
		slog.String("driver", string(cfg.Storage.Driver)),
		slog.String("token_driver", string(cfg.Storage.TokenDriver)))
	return b, nil
}

// Close releases connections in reverse order of opening.
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// Wire builds the domain services on top of the backends.
func (b *Bot) Wire(backends *Backends, notifier trading.Notifier) error {
	packCfg, err := b.Cfg.PacksDomain()
	if err != nil {
		return err
	}

	catalog := cards.NewService(backends.Catalog)
	ids := trading.NewIDGenerator(uint16(b.Cfg.Trading.NodeID))

	b.Cards = catalog
	b.Users = backends.Users
	b.Ownership = backends.Ownership
	b.Packs = packs.NewService(packCfg, backends.Tokens, catalog, backends.Granter)
	b.Trades = trading.NewTradeService(backends.Store, backends.Users, trading.NewSettler(), notifier, ids)
	b.Requests = trading.NewRequestService(backends.Store, backends.Users, notifier, ids, b.Cfg.AcceptPolicy())
	b.Rooms = trading.NewRoomService(backends.Store, backends.Users, notifier, ids,
		trading.RandomRoomCodes{Length: b.Cfg.Trading.RoomCodeLength})
	return nil
}
