package metrics

import (
	"github.com/annel0/arches-terrain/internal/terrain"
	"github.com/prometheus/client_golang/prometheus"
)

// TerrainMetrics собирает метрики триангуляции и кэша тайлов.
//
// Метрики:
// * <ns>_triangle_splits_total{outcome} — counter
// * <ns>_shoreline_bisection_steps — histogram
// * <ns>_tile_cache_requests_total{result} — counter (hit/miss)
// * <ns>_tile_build_duration_seconds — histogram
type TerrainMetrics struct {
	splits        *prometheus.CounterVec
	bisection     prometheus.Histogram
	cacheRequests *prometheus.CounterVec
	tileBuild     prometheus.Histogram
}

// NewTerrainMetrics создаёт коллекторы и регистрирует их в reg
func NewTerrainMetrics(namespace string, reg prometheus.Registerer) (*TerrainMetrics, error) {
	m := &TerrainMetrics{
		splits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triangle_splits_total",
			Help:      "Число обработанных треугольников по исходу разбиения.",
		}, []string{"outcome"}),
		bisection: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "shoreline_bisection_steps",
			Help:      "Шаги дихотомии на один пересекающий берег треугольник.",
			Buckets:   prometheus.LinearBuckets(0, 4, 17),
		}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tile_cache_requests_total",
			Help:      "Обращения к кэшу тайлов.",
		}, []string{"result"}),
		tileBuild: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tile_build_duration_seconds",
			Help:      "Время построения тайла при промахе кэша.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}),
	}

	for _, c := range []prometheus.Collector{m.splits, m.bisection, m.cacheRequests, m.tileBuild} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveSplit реализует terrain.Observer
func (m *TerrainMetrics) ObserveSplit(outcome terrain.Outcome, bisectionSteps int) {
	m.splits.WithLabelValues(outcome.String()).Inc()
	if outcome == terrain.OutcomeShore {
		m.bisection.Observe(float64(bisectionSteps))
	}
}

// CacheHit отмечает попадание в кэш
func (m *TerrainMetrics) CacheHit() {
	m.cacheRequests.WithLabelValues("hit").Inc()
}

// CacheMiss отмечает промах кэша
func (m *TerrainMetrics) CacheMiss() {
	m.cacheRequests.WithLabelValues("miss").Inc()
}

// ObserveTileBuild записывает время построения тайла в секундах
func (m *TerrainMetrics) ObserveTileBuild(seconds float64) {
	m.tileBuild.Observe(seconds)
}

var _ terrain.Observer = (*TerrainMetrics)(nil)
