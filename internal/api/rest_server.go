package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/annel0/arches-terrain/internal/auth"
	"github.com/annel0/arches-terrain/internal/logging"
	"github.com/annel0/arches-terrain/internal/middleware"
	"github.com/annel0/arches-terrain/internal/scene"
	"github.com/annel0/arches-terrain/internal/terrain"
	"github.com/annel0/arches-terrain/internal/tiles"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Ограничения на размер растра в одном запросе
const (
	minRaster = 2
	maxRaster = 1024

	maxBatchTriangles = 65536
)

// RestServer представляет REST API сервер
type RestServer struct {
	router     *gin.Engine
	httpServer *http.Server
	scene      *scene.Scene
	tiles      *tiles.Service
	mesher     *terrain.Mesher
	tokens     *auth.TokenIssuer
	port       string
	metrics    *ServerMetrics
	logger     *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port     string                // порт для запуска сервера
	Scene    *scene.Scene          // ландшафт, по которому отвечают запросы
	Tiles    *tiles.Service        // сервис тайлов
	Tokens   *auth.TokenIssuer     // nil — admin эндпоинты не регистрируются
	Registry prometheus.Registerer // по умолчанию prometheus.DefaultRegisterer
	Gatherer prometheus.Gatherer   // по умолчанию prometheus.DefaultGatherer
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) (*RestServer, error) {
	if config.Scene == nil || config.Tiles == nil {
		return nil, errors.New("api: scene and tiles service are required")
	}
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}

	// Устанавливаем режим релиза для gin
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logging.GetAPILogger()

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware("terra_api"))

	loggerMw := middleware.NewRequestLogger(logger)
	router.Use(loggerMw.Handler())

	promMw, err := middleware.NewPrometheusMiddleware("terra_api", config.Registry)
	if err != nil {
		return nil, err
	}
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, config.Gatherer)

	server := &RestServer{
		router:  router,
		scene:   config.Scene,
		tiles:   config.Tiles,
		mesher:  terrain.NewMesher(config.Scene.Arches),
		tokens:  config.Tokens,
		port:    config.Port,
		metrics: NewServerMetrics(),
		logger:  logger,
	}

	// Настраиваем маршруты
	server.setupRoutes()

	return server, nil
}

// Handler возвращает http.Handler (используется в тестах)
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	// Middleware для CORS
	rs.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	api := rs.router.Group("/api")
	{
		api.GET("/server", rs.handleServerInfo)
		api.GET("/bounds", rs.handleBounds)

		// Точечные запросы к полям
		api.GET("/layers/:layer", rs.handleLayer)
		api.GET("/normal", rs.handleNormal)
		api.GET("/classify", rs.handleClassify)
		api.GET("/traversal", rs.handleTraversal)

		// Геометрия
		api.POST("/shoreline", rs.handleShoreline)
		api.POST("/split", rs.handleSplit)
		api.POST("/split/batch", rs.handleSplitBatch)
		api.GET("/tiles/:x/:y", rs.handleTile)
		api.GET("/raster/:layer", rs.handleRaster)
	}

	// Административные эндпоинты (требуют JWT со scope admin)
	if rs.tokens != nil {
		admin := api.Group("/admin")
		admin.Use(rs.jwtMiddleware())
		{
			admin.DELETE("/tiles", rs.handlePurgeTiles)
			admin.DELETE("/tiles/:x/:y", rs.handleInvalidateTile)
		}
	}

	// Health check
	rs.router.GET("/health", rs.handleHealth)
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, GenericResponse{Success: false, Message: message})
}

// handleServerInfo возвращает информацию о сервере
func (rs *RestServer) handleServerInfo(c *gin.Context) {
	memoryMB, _ := rs.metrics.GetMemoryUsage()
	cpuPercent, err := rs.metrics.GetCPUUsage()
	if err != nil {
		rs.logger.Debug("cpu usage unavailable: %v", err)
	}

	respondOK(c, "Информация о сервере", map[string]interface{}{
		"name":        "terrad",
		"status":      "running",
		"uptime":      rs.metrics.GetUptime(),
		"memory_mb":   memoryMB,
		"cpu_percent": cpuPercent,
		"runtime":     rs.metrics.GetDetailedMemoryStats(),
		"scene_seed":  rs.scene.Seed,
		"scene_fp":    rs.scene.Fingerprint,
		"tile_size":   rs.tiles.Size(),
		"tile_res":    rs.tiles.Resolution(),
		"settings":    rs.scene.Arches.Settings(),
	})
}

// handleHealth проверка состояния сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// Start запускает REST сервер и блокируется до остановки
func (rs *RestServer) Start() error {
	rs.httpServer = &http.Server{
		Addr:              rs.port,
		Handler:           rs.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	rs.logger.Info("🚀 REST API listening on %s", rs.port)

	err := rs.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop выполняет graceful shutdown
func (rs *RestServer) Stop(ctx context.Context) error {
	if rs.httpServer == nil {
		return nil
	}
	rs.logger.Info("🛑 REST API stopping")
	return rs.httpServer.Shutdown(ctx)
}
