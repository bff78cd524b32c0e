package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/annel0/arches-terrain/internal/terrain"
)

// ErrNotReady возвращается после закрытия хранилища
var ErrNotReady = errors.New("хранилище не готово")

// TileKey идентифицирует тайл: отпечаток сцены, координаты, разрешение
// сетки и сторона тайла в мировых единицах
type TileKey struct {
	Scene      int64   `json:"scene"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Resolution int     `json:"resolution"`
	Size       float64 `json:"size"`
}

// String возвращает ключ в формате "tile:scene:x:y:res:size"
func (k TileKey) String() string {
	return fmt.Sprintf("%s%d:%d:%d:%d:%g", tilePrefix, k.Scene, k.X, k.Y, k.Resolution, k.Size)
}

const tilePrefix = "tile:"

// TileRecord — сохранённая триангуляция тайла
type TileRecord struct {
	Key       TileKey            `json:"key"`
	Land      []terrain.Triangle `json:"land"`
	Water     []terrain.Triangle `json:"water"`
	CreatedAt time.Time          `json:"created_at"`
}

// Clone возвращает копию записи с независимыми срезами
func (r *TileRecord) Clone() *TileRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Land = append([]terrain.Triangle(nil), r.Land...)
	c.Water = append([]terrain.Triangle(nil), r.Water...)
	return &c
}

// TileStore определяет интерфейс кэша готовых тайлов.
type TileStore interface {
	// Save сохраняет тайл, перезаписывая существующий.
	Save(ctx context.Context, rec *TileRecord) error

	// Load загружает тайл.
	// Возвращает:
	//   *TileRecord - запись (nil если не найдена)
	//   bool - true если тайл найден
	//   error - ошибка чтения
	Load(ctx context.Context, key TileKey) (*TileRecord, bool, error)

	// Delete удаляет тайл. Отсутствие ключа не является ошибкой.
	Delete(ctx context.Context, key TileKey) error

	// Purge удаляет все тайлы и возвращает их количество.
	Purge(ctx context.Context) (int, error)

	Close() error
}
