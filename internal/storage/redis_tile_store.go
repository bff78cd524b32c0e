package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/annel0/arches-terrain/internal/logging"
	"github.com/go-redis/redis/v8"
)

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr      string        // Адрес Redis сервера
	Password  string        // Пароль (пустой если не требуется)
	DB        int           // Номер базы данных
	KeyPrefix string        // Префикс для ключей
	TTL       time.Duration // Время жизни тайла, 0 — без истечения
}

// DefaultRedisConfig возвращает конфигурацию по умолчанию
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:      "localhost:6379",
		KeyPrefix: "terra:",
		TTL:       30 * time.Minute,
	}
}

// RedisTileStore хранит сжатые тайлы в Redis с TTL, общий кэш для нескольких инстансов
type RedisTileStore struct {
	client    *redis.Client
	codec     *codec
	keyPrefix string
	ttl       time.Duration
}

// NewRedisTileStore подключается к Redis и проверяет соединение
func NewRedisTileStore(ctx context.Context, config *RedisConfig) (*RedisTileStore, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c, err := newCodec()
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	logging.GetStorageLogger().Info("Connected to Redis at %s (ttl=%s)", config.Addr, config.TTL)

	return &RedisTileStore{
		client:    client,
		codec:     c,
		keyPrefix: config.KeyPrefix,
		ttl:       config.TTL,
	}, nil
}

func (s *RedisTileStore) key(k TileKey) string {
	return s.keyPrefix + k.String()
}

func (s *RedisTileStore) Save(ctx context.Context, rec *TileRecord) error {
	data, err := s.codec.encode(rec)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(rec.Key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save tile: %w", err)
	}
	return nil
}

func (s *RedisTileStore) Load(ctx context.Context, key TileKey) (*TileRecord, bool, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get tile: %w", err)
	}

	rec, err := s.codec.decode(data)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (s *RedisTileStore) Delete(ctx context.Context, key TileKey) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// Purge удаляет ключи с префиксом тайлов через SCAN, не блокируя Redis
func (s *RedisTileStore) Purge(ctx context.Context) (int, error) {
	pattern := s.keyPrefix + tilePrefix + "*"
	count := 0

	iter := s.client.Scan(ctx, 0, pattern, 256).Iterator()
	batch := make([]string, 0, 256)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			n, err := s.client.Del(ctx, batch...).Result()
			if err != nil {
				return count, err
			}
			count += int(n)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return count, err
	}
	if len(batch) > 0 {
		n, err := s.client.Del(ctx, batch...).Result()
		if err != nil {
			return count, err
		}
		count += int(n)
	}
	return count, nil
}

func (s *RedisTileStore) Close() error {
	s.codec.close()
	return s.client.Close()
}
