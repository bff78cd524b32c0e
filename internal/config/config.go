package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	Field     FieldConfig     `yaml:"field"`
	Noise     NoiseConfig     `yaml:"noise"`
	Scene     SceneConfig     `yaml:"scene"`
	Tiles     TilesConfig     `yaml:"tiles"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// FieldConfig — численные константы вычисления полей
type FieldConfig struct {
	GradientStep       float64 `yaml:"gradient_step"`
	ShorelineTolerance float64 `yaml:"shoreline_tolerance"`
	MaxBisectionSteps  int     `yaml:"max_bisection_steps"`
}

// NoiseConfig — параметры турбулентности
type NoiseConfig struct {
	Seed    int64   `yaml:"seed"`
	Alpha   float64 `yaml:"alpha"`
	Beta    float64 `yaml:"beta"`
	Octaves int32   `yaml:"octaves"`
}

// SceneConfig — параметры процедурной сцены
type SceneConfig struct {
	Seed            int64   `yaml:"seed"`
	Extent          float64 `yaml:"extent"`
	Islands         int     `yaml:"islands"`
	PeaksPerIsland  int     `yaml:"peaks_per_island"`
	IslandRadius    float64 `yaml:"island_radius"`
	PeakHeight      float64 `yaml:"peak_height"`
	SeaFloor        float64 `yaml:"sea_floor"`
	SeaLevel        float64 `yaml:"sea_level"`
	NoiseAmplitude  float64 `yaml:"noise_amplitude"`
	NoiseWavelength float64 `yaml:"noise_wavelength"`
	Lagoons         int     `yaml:"lagoons"`
}

// TilesConfig — параметры тайловой триангуляции
type TilesConfig struct {
	Size       float64 `yaml:"size"`
	Resolution int     `yaml:"resolution"`
	Workers    int     `yaml:"workers"`
}

// ServerConfig — сетевые параметры
type ServerConfig struct {
	RESTPort    int    `yaml:"rest_port"`
	AdminSecret string `yaml:"admin_secret"` // base64, пусто — admin API выключен
}

// StorageConfig — кэш тайлов
type StorageConfig struct {
	Backend   string        `yaml:"backend"` // badger | redis | memory
	Path      string        `yaml:"path"`
	InMemory  bool          `yaml:"in_memory"`
	RedisAddr string        `yaml:"redis_addr"`
	RedisDB   int           `yaml:"redis_db"`
	RedisTTL  time.Duration `yaml:"redis_ttl"`
	NATSURL   string        `yaml:"nats_url"` // пусто — инвалидации не рассылаются
	NodeID    string        `yaml:"node_id"`
}

// TelemetryConfig — OpenTelemetry
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// LoggingConfig — каталог и уровни логов
type LoggingConfig struct {
	Dir          string `yaml:"dir"`
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Field: FieldConfig{
			GradientStep:       1e-2,
			ShorelineTolerance: 0.01,
			MaxBisectionSteps:  64,
		},
		Noise: NoiseConfig{
			Seed:    1,
			Alpha:   2.0,
			Beta:    2.0,
			Octaves: 4,
		},
		Scene: SceneConfig{
			Seed:            12345,
			Extent:          1024,
			Islands:         6,
			PeaksPerIsland:  5,
			IslandRadius:    120,
			PeakHeight:      60,
			SeaFloor:        -30,
			SeaLevel:        0,
			NoiseAmplitude:  8,
			NoiseWavelength: 40,
			Lagoons:         2,
		},
		Tiles: TilesConfig{
			Size:       64,
			Resolution: 33,
			Workers:    0,
		},
		Server: ServerConfig{
			RESTPort: 0,
		},
		Storage: StorageConfig{
			Backend:   "badger",
			Path:      "data",
			InMemory:  false,
			RedisAddr: "localhost:6379",
			RedisTTL:  30 * time.Minute,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "terrad",
		},
		Logging: LoggingConfig{
			Dir:          "logs",
			ConsoleLevel: "INFO",
			FileLevel:    "DEBUG",
		},
	}
}

// Validate проверяет значения, которые нельзя исправить дефолтами
func (c *Config) Validate() error {
	var errs []error
	if !(c.Field.GradientStep > 0) {
		errs = append(errs, fmt.Errorf("field.gradient_step must be positive, got %g", c.Field.GradientStep))
	}
	if !(c.Field.ShorelineTolerance > 0) {
		errs = append(errs, fmt.Errorf("field.shoreline_tolerance must be positive, got %g", c.Field.ShorelineTolerance))
	}
	if c.Field.MaxBisectionSteps <= 0 {
		errs = append(errs, fmt.Errorf("field.max_bisection_steps must be positive, got %d", c.Field.MaxBisectionSteps))
	}
	if !(c.Scene.Extent > 0) {
		errs = append(errs, fmt.Errorf("scene.extent must be positive, got %g", c.Scene.Extent))
	}
	if c.Scene.Islands < 0 || c.Scene.PeaksPerIsland < 1 {
		errs = append(errs, errors.New("scene.islands must be >= 0 and scene.peaks_per_island >= 1"))
	}
	if !(c.Scene.IslandRadius > 0) {
		errs = append(errs, fmt.Errorf("scene.island_radius must be positive, got %g", c.Scene.IslandRadius))
	}
	if !(c.Scene.NoiseWavelength > 0) {
		errs = append(errs, fmt.Errorf("scene.noise_wavelength must be positive, got %g", c.Scene.NoiseWavelength))
	}
	if !(c.Tiles.Size > 0) {
		errs = append(errs, fmt.Errorf("tiles.size must be positive, got %g", c.Tiles.Size))
	}
	switch c.Storage.Backend {
	case "badger", "redis", "memory":
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be badger, redis or memory, got %q", c.Storage.Backend))
	}
	if c.Tiles.Resolution < 2 {
		errs = append(errs, fmt.Errorf("tiles.resolution must be >= 2, got %d", c.Tiles.Resolution))
	}
	return errors.Join(errs...)
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "TERRA_REST_PORT", 8088)
}

// GetAdminSecret возвращает секрет admin токенов: config -> env TERRA_ADMIN_SECRET
func (s *ServerConfig) GetAdminSecret() string {
	if s.AdminSecret != "" {
		return s.AdminSecret
	}
	return os.Getenv("TERRA_ADMIN_SECRET")
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV TERRA_CONFIG или возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("TERRA_CONFIG")
		if path == "" {
			return cfg, nil // конфиг не задан — используем дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}
