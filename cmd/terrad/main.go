package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/arches-terrain/internal/api"
	"github.com/annel0/arches-terrain/internal/auth"
	"github.com/annel0/arches-terrain/internal/cache"
	"github.com/annel0/arches-terrain/internal/config"
	"github.com/annel0/arches-terrain/internal/logging"
	"github.com/annel0/arches-terrain/internal/metrics"
	"github.com/annel0/arches-terrain/internal/observability"
	"github.com/annel0/arches-terrain/internal/scene"
	"github.com/annel0/arches-terrain/internal/storage"
	"github.com/annel0/arches-terrain/internal/tiles"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default: $TERRA_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	if err := setupLogging(cfg.Logging); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	if err := run(cfg); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
	logging.Info("👋 Сервер успешно остановлен")
}

func setupLogging(lc config.LoggingConfig) error {
	consoleLevel, err := logging.ParseLevel(lc.ConsoleLevel)
	if err != nil {
		return err
	}
	fileLevel, err := logging.ParseLevel(lc.FileLevel)
	if err != nil {
		return err
	}
	logging.Configure(logging.Options{Dir: lc.Dir, ConsoleLevel: consoleLevel, FileLevel: fileLevel})
	return logging.InitDefaultLogger("terrad")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info("🌋 Запуск terrad: seed=%d extent=%.0f", cfg.Scene.Seed, cfg.Scene.Extent)

	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Warn("telemetry shutdown: %v", err)
		}
	}()

	sc, err := scene.FromConfig(cfg)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("tile store: %w", err)
	}
	defer store.Close()

	tm, err := metrics.NewTerrainMetrics("terra", prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	topts := []tiles.Option{tiles.WithMetrics(tm), tiles.WithWorkers(cfg.Tiles.Workers)}
	if cfg.Storage.NATSURL != "" {
		nodeID := cfg.Storage.NodeID
		if nodeID == "" {
			nodeID = uuid.NewString()
		}
		inv, err := cache.NewNATSInvalidator(&cache.InvalidatorConfig{NATSURL: cfg.Storage.NATSURL}, nodeID)
		if err != nil {
			return fmt.Errorf("invalidator: %w", err)
		}
		defer func() {
			logging.Info("📨 Инвалидации тайлов: %v", inv.Stats())
			inv.Close()
		}()
		topts = append(topts, tiles.WithInvalidator(inv))
	}

	svc, err := tiles.NewService(sc.Arches, sc.Fingerprint, store, cfg.Tiles.Size, cfg.Tiles.Resolution, topts...)
	if err != nil {
		return fmt.Errorf("tiles: %w", err)
	}
	if err := svc.Listen(ctx); err != nil {
		return fmt.Errorf("tiles invalidation: %w", err)
	}

	var tokens *auth.TokenIssuer
	if secret := cfg.Server.GetAdminSecret(); secret != "" {
		if tokens, err = auth.NewTokenIssuer(secret); err != nil {
			return fmt.Errorf("admin secret: %w", err)
		}
		logging.Info("🔐 Admin API включён")
	}

	restPort := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	server, err := api.NewRestServer(api.Config{
		Port:   restPort,
		Scene:  sc,
		Tiles:  svc,
		Tokens: tokens,
	})
	if err != nil {
		return fmt.Errorf("rest server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	logging.Info("✅ REST API: http://localhost%s", restPort)
	logging.Info("   ❤️  Health check: http://localhost%s/health", restPort)
	logging.Info("   curl 'http://localhost%s/api/classify?x=100&y=100'", restPort)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logging.Info("📡 Получен сигнал завершения, останавливаемся...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Stop(shutdownCtx)
}
