package cache

import (
	"context"
	"time"

	"github.com/annel0/arches-terrain/internal/storage"
)

// Invalidation — уведомление об устаревших тайлах.
// Tile == nil означает очистку всего кэша.
type Invalidation struct {
	Tile      *storage.TileKey `json:"tile,omitempty"`
	NodeID    string           `json:"node_id"`
	Timestamp time.Time        `json:"timestamp"`
}

// IsPurge сообщает, что инвалидируется весь кэш
func (i Invalidation) IsPurge() bool { return i.Tile == nil }

// Handler применяет полученную инвалидацию к локальному кэшу
type Handler func(ctx context.Context, inv Invalidation) error

// Invalidator рассылает инвалидации между узлами.
// Узел не получает собственные сообщения.
type Invalidator interface {
	NodeID() string
	Publish(ctx context.Context, inv Invalidation) error
	Subscribe(ctx context.Context, handler Handler) error
	Close() error
}
