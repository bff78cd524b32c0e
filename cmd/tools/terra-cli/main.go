package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/annel0/arches-terrain/internal/auth"
	"github.com/annel0/arches-terrain/internal/config"
	"github.com/annel0/arches-terrain/internal/field"
	"github.com/annel0/arches-terrain/internal/logging"
	"github.com/annel0/arches-terrain/internal/scene"
	"github.com/annel0/arches-terrain/internal/terrain"
	"github.com/annel0/arches-terrain/internal/vec"
)

func main() {
	// CLI пишет только ошибки
	logging.SetDefaultLogger(logging.NewWriterLogger("cli", os.Stderr, logging.ERROR))
	logging.Configure(logging.Options{ConsoleLevel: logging.ERROR, FileLevel: logging.ERROR})

	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("terra-cli", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "Path to YAML config (default: $TERRA_CONFIG)")
		command    = fs.String("cmd", "height", "Command: height, classify, shoreline, split, mesh, raster, layers, token, secret")
		x          = fs.Float64("x", 0, "Point X")
		y          = fs.Float64("y", 0, "Point Y")
		layerName  = fs.String("layer", "bedrock", "Layer: bedrock, water, sand, foam")
		points     = fs.String("points", "", "Comma-separated coordinates: x1,y1,x2,y2[,x3,y3]")
		boxFlag    = fs.String("box", "", "Area x0,y0,x1,y1 (default: whole scene)")
		n          = fs.Int("n", 33, "Grid resolution per side")
		workers    = fs.Int("workers", 0, "Meshing goroutines (0 = GOMAXPROCS)")
		scope      = fs.String("scope", auth.ScopeAdmin, "Token scope")
		ttl        = fs.Duration("ttl", time.Hour, "Token lifetime")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	// secret не требует конфигурации
	if *command == "secret" {
		_, err := fmt.Fprintln(out, auth.GenerateSecureSecret())
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// token не требует сцены
	if *command == "token" {
		return issueToken(out, cfg, *scope, *ttl)
	}

	sc, err := scene.FromConfig(cfg)
	if err != nil {
		return err
	}
	a := sc.Arches
	p := vec.Vec2Float{X: *x, Y: *y}

	box := sc.Box
	if *boxFlag != "" {
		c, err := parseFloats(*boxFlag, 4)
		if err != nil {
			return fmt.Errorf("box: %w", err)
		}
		box = field.NewBox2(c[0], c[1], c[2], c[3])
	}

	switch *command {
	case "height":
		l, err := terrain.ParseLayer(*layerName)
		if err != nil {
			return err
		}
		s := a.Layer(l, p)
		return writeJSON(out, map[string]interface{}{
			"layer": l.String(), "point": p, "value": s.Value, "alpha": s.Alpha,
			"normal": a.Normal(p), "traversal": a.Traversal(p),
		})

	case "classify":
		return writeJSON(out, map[string]interface{}{
			"point": p, "material": a.Classify(p).String(), "excess": a.Excess(p),
		})

	case "shoreline":
		c, err := parseFloats(*points, 4)
		if err != nil {
			return fmt.Errorf("points: %w", err)
		}
		pt, err := a.FindShorelineChecked(vec.Vec2Float{X: c[0], Y: c[1]}, vec.Vec2Float{X: c[2], Y: c[3]})
		if err != nil {
			return err
		}
		return writeJSON(out, map[string]interface{}{"point": pt})

	case "split":
		c, err := parseFloats(*points, 6)
		if err != nil {
			return fmt.Errorf("points: %w", err)
		}
		res := a.SplitTriangle(
			vec.Vec3Float{X: c[0], Y: c[1]},
			vec.Vec3Float{X: c[2], Y: c[3]},
			vec.Vec3Float{X: c[4], Y: c[5]},
		)
		return writeJSON(out, res)

	case "mesh":
		m := terrain.NewMesher(a, terrain.WithWorkers(*workers))
		start := time.Now()
		mesh, err := m.Mesh(context.Background(), box, *n, *n)
		if err != nil {
			return err
		}
		return writeJSON(out, map[string]interface{}{
			"box":            box,
			"land":           len(mesh.Land),
			"water":          len(mesh.Water),
			"land_area":      mesh.LandArea(),
			"water_area":     mesh.WaterArea(),
			"elapsed_millis": time.Since(start).Milliseconds(),
		})

	case "raster":
		l, err := terrain.ParseLayer(*layerName)
		if err != nil {
			return err
		}
		hf, err := a.Rasterize(l, box, *n, *n)
		if err != nil {
			return err
		}
		return writeJSON(out, hf)

	case "layers":
		stack, err := a.LayerStack(box, *n, *n)
		if err != nil {
			return err
		}
		return writeJSON(out, stack)

	default:
		return fmt.Errorf("unknown command %q", *command)
	}
}

func issueToken(out io.Writer, cfg *config.Config, scope string, ttl time.Duration) error {
	secret := cfg.Server.GetAdminSecret()
	if secret == "" {
		return errors.New("admin secret is not configured (server.admin_secret or TERRA_ADMIN_SECRET)")
	}
	ti, err := auth.NewTokenIssuer(secret)
	if err != nil {
		return err
	}
	token, err := ti.Generate("terra-cli", scope, ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}

func parseFloats(s string, want int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != want {
		return nil, fmt.Errorf("expected %d comma-separated numbers, got %d", want, len(parts))
	}
	out := make([]float64, want)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
