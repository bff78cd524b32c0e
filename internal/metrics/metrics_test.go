package metrics

import (
	"testing"

	"github.com/annel0/arches-terrain/internal/terrain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerrainMetrics_ObserveSplit(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewTerrainMetrics("terra", reg)
	require.NoError(t, err)

	m.ObserveSplit(terrain.OutcomeLand, 0)
	m.ObserveSplit(terrain.OutcomeShore, 9)
	m.ObserveSplit(terrain.OutcomeShore, 11)
	m.ObserveSplit(terrain.OutcomeSubmerged, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.splits.WithLabelValues("land")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.splits.WithLabelValues("shore")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.splits.WithLabelValues("submerged")))

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "terra_shoreline_bisection_steps" {
			h := f.GetMetric()[0].GetHistogram()
			assert.Equal(t, uint64(2), h.GetSampleCount(), "учитываются только береговые треугольники")
			assert.Equal(t, 20.0, h.GetSampleSum())
		}
	}
}

func TestTerrainMetrics_Cache(t *testing.T) {
	m, err := NewTerrainMetrics("terra", prometheus.NewRegistry())
	require.NoError(t, err)

	m.CacheMiss()
	m.CacheHit()
	m.CacheHit()
	m.ObserveTileBuild(0.02)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheRequests.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheRequests.WithLabelValues("miss")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.tileBuild))
}

func TestTerrainMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewTerrainMetrics("terra", reg)
	require.NoError(t, err)

	_, err = NewTerrainMetrics("terra", reg)
	assert.Error(t, err)
}
