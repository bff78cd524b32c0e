package storage

import (
	"context"
	"sync"
)

// MemoryTileStore — потокобезопасная in-memory реализация TileStore.
// Используется в тестах и как кэш по умолчанию для CLI.
type MemoryTileStore struct {
	mu    sync.RWMutex
	tiles map[TileKey]*TileRecord
}

// NewMemoryTileStore создаёт пустое хранилище
func NewMemoryTileStore() *MemoryTileStore {
	return &MemoryTileStore{tiles: make(map[TileKey]*TileRecord)}
}

func (m *MemoryTileStore) Save(ctx context.Context, rec *TileRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tiles[rec.Key] = rec.Clone()
	return nil
}

func (m *MemoryTileStore) Load(ctx context.Context, key TileKey) (*TileRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.tiles[key]
	if !ok {
		return nil, false, nil
	}
	return rec.Clone(), true, nil
}

func (m *MemoryTileStore) Delete(ctx context.Context, key TileKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tiles, key)
	return nil
}

func (m *MemoryTileStore) Purge(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.tiles)
	m.tiles = make(map[TileKey]*TileRecord)
	return n, nil
}

// Count возвращает количество тайлов
func (m *MemoryTileStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tiles)
}

func (m *MemoryTileStore) Close() error { return nil }
