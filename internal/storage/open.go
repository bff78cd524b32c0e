package storage

import (
	"context"
	"fmt"

	"github.com/annel0/arches-terrain/internal/config"
)

// Open создаёт TileStore по секции storage конфигурации
func Open(ctx context.Context, cfg config.StorageConfig) (TileStore, error) {
	switch cfg.Backend {
	case "", "badger":
		return NewBadgerTileStore(cfg.Path, cfg.InMemory)
	case "redis":
		rc := DefaultRedisConfig()
		rc.Addr = cfg.RedisAddr
		rc.DB = cfg.RedisDB
		rc.TTL = cfg.RedisTTL
		return NewRedisTileStore(ctx, rc)
	case "memory":
		return NewMemoryTileStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
