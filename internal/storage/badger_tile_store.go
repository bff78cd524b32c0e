package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/annel0/arches-terrain/internal/logging"
	"github.com/dgraph-io/badger/v3"
)

// BadgerTileStore хранит сжатые тайлы в BadgerDB
type BadgerTileStore struct {
	db      *badger.DB
	dbPath  string
	codec   *codec
	mutex   sync.RWMutex
	isReady bool
}

// NewBadgerTileStore открывает хранилище в <dataPath>/tiles.
// При inMemory данные не пишутся на диск.
func NewBadgerTileStore(dataPath string, inMemory bool) (*BadgerTileStore, error) {
	dbPath := filepath.Join(dataPath, "tiles")
	opts := badger.DefaultOptions(dbPath)
	if inMemory {
		dbPath = ""
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Отключаем логирование BadgerDB

	c, err := newCodec()
	if err != nil {
		return nil, err
	}

	db, err := badger.Open(opts)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	logging.GetStorageLogger().Info("Tile store opened (path=%q, in_memory=%v)", dbPath, inMemory)

	return &BadgerTileStore{
		db:      db,
		dbPath:  dbPath,
		codec:   c,
		isReady: true,
	}, nil
}

// Close закрывает хранилище
func (s *BadgerTileStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isReady {
		return nil
	}

	s.isReady = false
	s.codec.close()
	return s.db.Close()
}

// Save сохраняет тайл
func (s *BadgerTileStore) Save(ctx context.Context, rec *TileRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return ErrNotReady
	}

	data, err := s.codec.encode(rec)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(rec.Key.String()), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}
	return nil
}

// Load загружает тайл
func (s *BadgerTileStore) Load(ctx context.Context, key TileKey) (*TileRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return nil, false, ErrNotReady
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key.String()))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	rec, err := s.codec.decode(data)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// Delete удаляет тайл
func (s *BadgerTileStore) Delete(ctx context.Context, key TileKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return ErrNotReady
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key.String()))
	})
}

// Purge удаляет все тайлы
func (s *BadgerTileStore) Purge(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return 0, ErrNotReady
	}

	prefix := []byte(tilePrefix)
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := s.db.DropPrefix(prefix); err != nil {
		return 0, fmt.Errorf("ошибка очистки BadgerDB: %w", err)
	}

	logging.GetStorageLogger().Debug("Purged %d tiles", count)
	return count, nil
}
