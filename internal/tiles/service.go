package tiles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/annel0/arches-terrain/internal/cache"
	"github.com/annel0/arches-terrain/internal/field"
	"github.com/annel0/arches-terrain/internal/logging"
	"github.com/annel0/arches-terrain/internal/storage"
	"github.com/annel0/arches-terrain/internal/terrain"
	"github.com/annel0/arches-terrain/internal/vec"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// ErrInvalidTileSize возвращается при неположительном размере тайла
var ErrInvalidTileSize = errors.New("tile size must be positive")

// Metrics — наблюдатель разбиения и кэша тайлов
type Metrics interface {
	terrain.Observer
	CacheHit()
	CacheMiss()
	ObserveTileBuild(seconds float64)
}

// Service отдаёт триангулированные тайлы агрегата, кэшируя их в TileStore.
// Тайл (x, y) покрывает [x*size, (x+1)*size] × [y*size, (y+1)*size].
type Service struct {
	arches     *terrain.Arches
	scene      int64
	store      storage.TileStore
	mesher     *terrain.Mesher
	size       float64
	resolution int
	workers    int
	metrics    Metrics
	inv        cache.Invalidator
	tracer     trace.Tracer
	builds     singleflight.Group
	logger     *logging.Logger
	now        func() time.Time
}

// Option настраивает Service
type Option func(*Service)

// WithMetrics подключает метрики кэша и разбиения
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithInvalidator рассылает инвалидации другим узлам
func WithInvalidator(inv cache.Invalidator) Option {
	return func(s *Service) { s.inv = inv }
}

// WithWorkers ограничивает параллелизм триангуляции
func WithWorkers(n int) Option {
	return func(s *Service) { s.workers = n }
}

// NewService создаёт сервис тайлов. scene — отпечаток параметров сцены
// (scene.Scene.Fingerprint), он отличает кэш разных сцен.
func NewService(a *terrain.Arches, scene int64, store storage.TileStore, size float64, resolution int, opts ...Option) (*Service, error) {
	if !(size > 0) {
		return nil, ErrInvalidTileSize
	}
	if resolution < 2 {
		return nil, fmt.Errorf("%w: resolution %d", terrain.ErrInvalidGrid, resolution)
	}

	s := &Service{
		arches:     a,
		scene:      scene,
		store:      store,
		size:       size,
		resolution: resolution,
		tracer:     otel.Tracer("github.com/annel0/arches-terrain/internal/tiles"),
		logger:     logging.GetTilesLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	mopts := []terrain.MesherOption{terrain.WithWorkers(s.workers)}
	if s.metrics != nil {
		mopts = append(mopts, terrain.WithObserver(s.metrics))
	}
	s.mesher = terrain.NewMesher(a, mopts...)
	return s, nil
}

// Size возвращает сторону тайла в мировых единицах
func (s *Service) Size() float64 { return s.size }

// Resolution возвращает число вершин сетки по стороне тайла
func (s *Service) Resolution() int { return s.resolution }

// TileBox возвращает область тайла
func (s *Service) TileBox(t vec.Vec2) field.Box2 {
	o := t.ToFloat().Mul(s.size)
	return field.NewBox2(o.X, o.Y, o.X+s.size, o.Y+s.size)
}

// TileAt возвращает координаты тайла, содержащего точку
func (s *Service) TileAt(p vec.Vec2Float) vec.Vec2 {
	return p.Mul(1 / s.size).ToVec2()
}

func (s *Service) key(t vec.Vec2) storage.TileKey {
	return storage.TileKey{Scene: s.scene, X: t.X, Y: t.Y, Resolution: s.resolution, Size: s.size}
}

// Get возвращает тайл из кэша или строит его. Второй результат — попадание в кэш.
// Одновременные запросы одного тайла строят его один раз; отменённый запрос
// перестаёт ждать, но сборка доводится до конца и попадает в кэш.
func (s *Service) Get(ctx context.Context, t vec.Vec2) (*storage.TileRecord, bool, error) {
	ctx, span := s.tracer.Start(ctx, "tiles.Get", trace.WithAttributes(
		attribute.Int("tile.x", t.X),
		attribute.Int("tile.y", t.Y),
		attribute.Int("tile.resolution", s.resolution),
	))
	defer span.End()

	key := s.key(t)
	rec, ok, err := s.store.Load(ctx, key)
	if err != nil {
		// Кэш недоступен — строим без него
		s.logger.Warn("tile cache load %s failed: %v", key, err)
	}
	if ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		if s.metrics != nil {
			s.metrics.CacheHit()
		}
		return rec, true, nil
	}

	span.SetAttributes(attribute.Bool("cache.hit", false))
	if s.metrics != nil {
		s.metrics.CacheMiss()
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	// Отмена одного запроса не прерывает общую сборку
	buildCtx := context.WithoutCancel(ctx)
	ch := s.builds.DoChan(key.String(), func() (interface{}, error) {
		return s.build(buildCtx, t, key)
	})

	select {
	case <-ctx.Done():
		span.RecordError(ctx.Err())
		span.SetStatus(codes.Error, ctx.Err().Error())
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, res.Err.Error())
			return nil, false, res.Err
		}
		return res.Val.(*storage.TileRecord), false, nil
	}
}

func (s *Service) build(ctx context.Context, t vec.Vec2, key storage.TileKey) (*storage.TileRecord, error) {
	start := s.now()

	mesh, err := s.mesher.Mesh(ctx, s.TileBox(t), s.resolution, s.resolution)
	if err != nil {
		return nil, fmt.Errorf("mesh tile %s: %w", key, err)
	}

	rec := &storage.TileRecord{
		Key:       key,
		Land:      mesh.Land,
		Water:     mesh.Water,
		CreatedAt: start.UTC(),
	}

	elapsed := s.now().Sub(start)
	if s.metrics != nil {
		s.metrics.ObserveTileBuild(elapsed.Seconds())
	}
	s.logger.Debug("Built tile %s: land=%d water=%d in %s", key, len(rec.Land), len(rec.Water), elapsed)

	if err := s.store.Save(ctx, rec); err != nil {
		s.logger.Warn("tile cache save %s failed: %v", key, err)
	}
	return rec, nil
}

// Invalidate удаляет один тайл из кэша и оповещает другие узлы
func (s *Service) Invalidate(ctx context.Context, t vec.Vec2) error {
	key := s.key(t)
	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	return s.publish(ctx, cache.Invalidation{Tile: &key})
}

// Purge очищает весь кэш тайлов и оповещает другие узлы
func (s *Service) Purge(ctx context.Context) (int, error) {
	n, err := s.store.Purge(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Tile cache purged: %d tiles", n)
	return n, s.publish(ctx, cache.Invalidation{})
}

func (s *Service) publish(ctx context.Context, inv cache.Invalidation) error {
	if s.inv == nil {
		return nil
	}
	if err := s.inv.Publish(ctx, inv); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}

// Listen применяет инвалидации других узлов к локальному кэшу до отмены ctx
func (s *Service) Listen(ctx context.Context) error {
	if s.inv == nil {
		return nil
	}
	return s.inv.Subscribe(ctx, s.applyRemote)
}

func (s *Service) applyRemote(ctx context.Context, inv cache.Invalidation) error {
	if inv.IsPurge() {
		n, err := s.store.Purge(ctx)
		if err == nil {
			s.logger.Info("Remote purge from %s: %d tiles", inv.NodeID, n)
		}
		return err
	}
	if inv.Tile.Scene != s.scene {
		return nil
	}
	s.logger.Debug("Remote invalidation from %s: %s", inv.NodeID, inv.Tile)
	return s.store.Delete(ctx, *inv.Tile)
}
