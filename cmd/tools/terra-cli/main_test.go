package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/annel0/arches-terrain/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallScene пишет конфиг маленькой сцены и возвращает путь к нему
func smallScene(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terra.yaml")
	body := `
scene:
  extent: 128
  islands: 1
  peaks_per_island: 2
  island_radius: 30
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runJSON(t *testing.T, args ...string) map[string]interface{} {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, run(args, &out))

	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	return v
}

func TestRun_Classify(t *testing.T) {
	cfg := smallScene(t)
	v := runJSON(t, "-config", cfg, "-cmd", "classify", "-x", "0", "-y", "0")
	assert.Equal(t, "water", v["material"])
}

func TestRun_Height(t *testing.T) {
	cfg := smallScene(t)
	v := runJSON(t, "-config", cfg, "-cmd", "height", "-layer", "bedrock", "-x", "0", "-y", "0")
	assert.Equal(t, "bedrock", v["layer"])
	assert.InDelta(t, -30.0, v["value"], 1e-9)
}

func TestRun_Mesh(t *testing.T) {
	cfg := smallScene(t)
	v := runJSON(t, "-config", cfg, "-cmd", "mesh", "-n", "9", "-workers", "2")
	assert.InDelta(t, 128.0*128.0, v["land_area"], 1e-6)
	assert.Greater(t, v["water"], 0.0)
}

func TestRun_Raster(t *testing.T) {
	cfg := smallScene(t)
	v := runJSON(t, "-config", cfg, "-cmd", "raster", "-layer", "water", "-n", "3", "-box", "0,0,10,10")
	values, ok := v["values"].([]interface{})
	require.True(t, ok)
	assert.Len(t, values, 9)
}

func TestRun_Errors(t *testing.T) {
	cfg := smallScene(t)
	var out bytes.Buffer

	assert.Error(t, run([]string{"-config", cfg, "-cmd", "teleport"}, &out))
	assert.Error(t, run([]string{"-config", cfg, "-cmd", "split", "-points", "1,2,3"}, &out))
	assert.Error(t, run([]string{"-config", cfg, "-cmd", "height", "-layer", "lava"}, &out))
	assert.Error(t, run([]string{"-config", cfg, "-cmd", "shoreline", "-points", "0,0,1,0"}, &out), "обе точки в море")
}

func TestRun_Token(t *testing.T) {
	cfg := smallScene(t)
	secret := auth.GenerateSecureSecret()
	t.Setenv("TERRA_ADMIN_SECRET", secret)

	var out bytes.Buffer
	require.NoError(t, run([]string{"-config", cfg, "-cmd", "token"}, &out))

	ti, err := auth.NewTokenIssuer(secret)
	require.NoError(t, err)
	claims, err := ti.ValidateAdmin(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "terra-cli", claims.Subject)

	t.Setenv("TERRA_ADMIN_SECRET", "")
	assert.Error(t, run([]string{"-config", cfg, "-cmd", "token"}, &out))
}

func TestRun_Layers(t *testing.T) {
	cfg := smallScene(t)
	v := runJSON(t, "-config", cfg, "-cmd", "layers", "-n", "3", "-box", "0,0,10,10")

	for _, name := range []string{"bedrock", "water", "alpha"} {
		layer, ok := v[name].(map[string]interface{})
		require.True(t, ok, name)
		assert.Len(t, layer["values"], 9, name)
	}
	bedrock := v["bedrock"].(map[string]interface{})["values"].([]interface{})
	assert.InDelta(t, -30.0, bedrock[0], 1e-9, "угол сцены — дно")
}

func TestRun_Secret(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-cmd", "secret"}, &out))

	_, err := auth.NewTokenIssuer(strings.TrimSpace(out.String()))
	assert.NoError(t, err, "секрет подходит для выпуска токенов")
}
