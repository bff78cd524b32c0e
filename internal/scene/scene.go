package scene

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"

	"github.com/annel0/arches-terrain/internal/config"
	"github.com/annel0/arches-terrain/internal/field"
	"github.com/annel0/arches-terrain/internal/logging"
	"github.com/annel0/arches-terrain/internal/noise"
	"github.com/annel0/arches-terrain/internal/terrain"
	"github.com/annel0/arches-terrain/internal/vec"
	"github.com/cespare/xxhash/v2"
)

// Island описывает сгенерированный остров
type Island struct {
	Center vec.Vec2Float `json:"center"`
	Radius float64       `json:"radius"`
	Peaks  int           `json:"peaks"`
}

// Scene — собранный ландшафт и параметры, из которых он получен
type Scene struct {
	Arches  *terrain.Arches
	Box     field.Box2
	Islands []Island
	Seed    int64
	// Fingerprint — хэш всех параметров, из которых собрана сцена.
	// Сцены с одинаковым отпечатком дают одинаковую геометрию.
	Fingerprint int64
}

// fingerprint хэширует параметры сцены, шума и констант агрегата
func fingerprint(sc config.SceneConfig, nc config.NoiseConfig, settings terrain.Settings) (int64, error) {
	data, err := json.Marshal(struct {
		Scene    config.SceneConfig
		Noise    config.NoiseConfig
		Settings terrain.Settings
	}{sc, nc, settings})
	if err != nil {
		return 0, fmt.Errorf("scene fingerprint: %w", err)
	}
	return int64(xxhash.Sum64(data)), nil
}

// Веса примитивов в смеси
const (
	floorAlpha  = 1.0
	baseAlpha   = 4.0
	peakAlpha   = 3.0
	lagoonAlpha = 3.0
)

// Build собирает архипелаг: глубоководное дно, острова из плато и шумовых
// вершин, лагуны, песок и плоскость воды на уровне моря.
func Build(sc config.SceneConfig, nc config.NoiseConfig, settings terrain.Settings) (*Scene, error) {
	fp, err := fingerprint(sc, nc, settings)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(sc.Seed))
	turb := noise.NewTurbulence(nc.Alpha, nc.Beta, nc.Octaves, nc.Seed)

	box := field.NewBox2(0, 0, sc.Extent, sc.Extent)
	center := box.Center()
	cover := sc.Extent * 0.75 // больше половины диагонали

	floor, err := field.NewPlateauDisc(center, cover, sc.SeaFloor, sc.Extent*0.25, floorAlpha)
	if err != nil {
		return nil, fmt.Errorf("sea floor: %w", err)
	}
	bedrock := []field.Node{floor}

	water, err := field.NewPlateauDisc(center, cover, sc.SeaLevel, sc.Extent*0.25, 1)
	if err != nil {
		return nil, fmt.Errorf("water plane: %w", err)
	}

	var sand, foam []field.Node
	islands := make([]Island, 0, sc.Islands)
	r := sc.IslandRadius

	for i := 0; i < sc.Islands; i++ {
		c := vec.Vec2Float{
			X: r + rng.Float64()*math.Max(sc.Extent-2*r, 0),
			Y: r + rng.Float64()*math.Max(sc.Extent-2*r, 0),
		}

		base, err := field.NewPlateauDisc(c, r*0.5, sc.SeaLevel+sc.PeakHeight*0.25, r*0.5, baseAlpha)
		if err != nil {
			return nil, fmt.Errorf("island %d: %w", i, err)
		}
		bedrock = append(bedrock, base)

		for k := 0; k < sc.PeaksPerIsland; k++ {
			angle := rng.Float64() * 2 * math.Pi
			dist := rng.Float64() * r * 0.5
			h := sc.SeaLevel + sc.PeakHeight*(0.5+0.5*rng.Float64())
			pc := vec.Vec3Float{X: c.X + dist*math.Cos(angle), Y: c.Y + dist*math.Sin(angle), Z: h}

			peak, err := field.NewNoiseVertex(pc, turb, sc.NoiseAmplitude, sc.NoiseWavelength, r*0.6, peakAlpha)
			if err != nil {
				return nil, fmt.Errorf("island %d peak %d: %w", i, k, err)
			}
			bedrock = append(bedrock, peak)
		}

		// Лагуны не касаются центра острова
		for k := 0; k < sc.Lagoons; k++ {
			angle := rng.Float64() * 2 * math.Pi
			dist := r * (0.6 + 0.2*rng.Float64())
			lc := vec.Vec2Float{X: c.X + dist*math.Cos(angle), Y: c.Y + dist*math.Sin(angle)}

			lagoon, err := field.NewDisc(lc, sc.SeaLevel+sc.SeaFloor*0.1, r*0.15, lagoonAlpha)
			if err != nil {
				return nil, fmt.Errorf("island %d lagoon %d: %w", i, k, err)
			}
			bedrock = append(bedrock, lagoon.WithKernel(field.Quintic))
		}

		beach, err := field.NewPlateauDisc(c, r*0.8, sc.SeaLevel+0.5, r*0.3, 1)
		if err != nil {
			return nil, fmt.Errorf("island %d beach: %w", i, err)
		}
		sand = append(sand, beach)

		surf, err := field.NewPlateauDisc(c, r, sc.SeaLevel+0.1, r*0.1, 1)
		if err != nil {
			return nil, fmt.Errorf("island %d surf: %w", i, err)
		}
		foam = append(foam, surf)

		islands = append(islands, Island{Center: c, Radius: r, Peaks: sc.PeaksPerIsland})
	}

	root, err := field.NewBlend(bedrock...)
	if err != nil {
		return nil, err
	}

	opts := []terrain.Option{terrain.WithWater(water), terrain.WithSettings(settings)}
	if len(sand) > 0 {
		sandTree, err := field.NewBlend(sand...)
		if err != nil {
			return nil, err
		}
		foamTree, err := field.NewBlend(foam...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, terrain.WithSand(sandTree), terrain.WithFoam(foamTree))
	}

	arches, err := terrain.New(root, opts...)
	if err != nil {
		return nil, err
	}

	logging.GetTerrainLogger().Info("Scene built: seed=%d extent=%.0f islands=%d primitives=%d",
		sc.Seed, sc.Extent, len(islands), len(bedrock))

	return &Scene{
		Arches:      arches,
		Box:         box,
		Islands:     islands,
		Seed:        sc.Seed,
		Fingerprint: fp,
	}, nil
}

// FromConfig собирает сцену из полной конфигурации
func FromConfig(cfg *config.Config) (*Scene, error) {
	settings := terrain.Settings{
		GradientStep:       cfg.Field.GradientStep,
		ShorelineTolerance: cfg.Field.ShorelineTolerance,
		MaxBisectionSteps:  cfg.Field.MaxBisectionSteps,
	}
	return Build(cfg.Scene, cfg.Noise, settings)
}
