package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/lanenav/internal/navgrid"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    mgl64.Vec2
		wantErr bool
	}{
		{in: "1.5,2", want: mgl64.Vec2{1.5, 2}},
		{in: " -3 , 4.25 ", want: mgl64.Vec2{-3, 4.25}},
		{in: "1.5", wantErr: true},
		{in: "a,2", wantErr: true},
		{in: "1,b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePoint(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, errBadPoint)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := RootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestReadLayout(t *testing.T) {
	path := writeFile(t, t.TempDir(), "map.txt", ".....\n\n..#..\r\n.....\n")

	rows, err := readLayout(path)
	require.NoError(t, err)
	assert.Equal(t, []string{".....", "..#..", "....."}, rows)

	_, err = loadGrid("", "", 1)
	assert.Error(t, err)
}

func TestEncodeThenPlan(t *testing.T) {
	dir := t.TempDir()
	layout := writeFile(t, dir, "map.txt", ".....\n..#..\n.....\n")
	bin := filepath.Join(dir, "grid.bin")

	_, err := execute(t, "encode", "--layout", layout, "--out", bin)
	require.NoError(t, err)

	g, err := navgrid.LoadFile(bin)
	require.NoError(t, err)
	assert.Equal(t, ".....\n..#..\n.....", g.String())

	geo := filepath.Join(dir, "plan.geojson")
	out, err := execute(t, "plan", "--grid", bin, "--from", "0.5,1.5", "--to", "4.5,1.5", "--geojson", geo)
	require.NoError(t, err)
	assert.Contains(t, out, "reachable:")
	assert.Contains(t, out, "0.5000,1.5000")
	assert.Contains(t, out, "4.5000,1.5000")

	data, err := os.ReadFile(geo)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "FeatureCollection", doc["type"])
}

func TestPlanUnreachable(t *testing.T) {
	layout := writeFile(t, t.TempDir(), "map.txt", "...\n###\n...\n")

	out, err := execute(t, "plan", "--layout", layout, "--from", "0.5,0.5", "--to", "2.5,2.5")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "unreachable"))
}

func TestPlanBadPoint(t *testing.T) {
	layout := writeFile(t, t.TempDir(), "map.txt", "...\n")

	_, err := execute(t, "plan", "--layout", layout, "--from", "0.5", "--to", "2.5,0.5")
	assert.ErrorIs(t, err, errBadPoint)
}

func TestScenarioCommand(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "s.yaml", `
name: corridor
layout: [".........."]
ticks: 30
dt: 0.5
agents: [{id: 1, x: 0.5, z: 0.5, speed: 2}]
commands: [{tick: 0, agent: 1, to: [9.5, 0.5]}]
`)
	geo := filepath.Join(dir, "s.geojson")

	out, err := execute(t, "scenario", file, "--geojson", geo)
	require.NoError(t, err)
	assert.Contains(t, out, "name: corridor")
	assert.Contains(t, out, "reason: arrived")
	assert.FileExists(t, geo)
}

func TestSimulateCommand(t *testing.T) {
	dir := t.TempDir()
	layout := writeFile(t, dir, "map.txt", "..........\n..........\n")
	bin := filepath.Join(dir, "grid.bin")
	_, err := execute(t, "encode", "--layout", layout, "--out", bin)
	require.NoError(t, err)

	overlay := filepath.Join(dir, "overlay.geojson")
	cfg := writeFile(t, dir, "navsim.yaml", "grid_path: "+bin+"\ntick_rate: 100\nvisualization:\n  enabled: true\n  output: "+overlay+"\n")

	_, err = execute(t, "simulate", "--config", cfg,
		"--spawn", "0.5,0.5", "--spawn", "0.5,1.5",
		"--goal", "9.5,1.5",
		"--duration", "100ms")
	require.NoError(t, err)
	assert.FileExists(t, overlay)
}

func TestParseViewport(t *testing.T) {
	v, err := parseViewport("")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = parseViewport("1,2:5,6.5")
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec2{1, 2}, v.Min)
	assert.Equal(t, mgl64.Vec2{5, 6.5}, v.Max)

	for _, bad := range []string{"1,2", "1,2:x,3", "5,5:1,1", "1,1:1,4"} {
		_, err := parseViewport(bad)
		assert.ErrorIs(t, err, errBadPoint, bad)
	}
}

// cellFeatures returns the x of every cell feature in a GeoJSON file.
func cellFeatures(t *testing.T, path string) []float64 {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	var xs []float64
	for _, f := range doc.Features {
		if f.Properties["kind"] == "waypoints" {
			continue
		}
		xs = append(xs, f.Properties["x"].(float64))
	}
	return xs
}

func TestPlanViewCropsGeoJSON(t *testing.T) {
	dir := t.TempDir()
	layout := writeFile(t, dir, "map.txt", ".....\n..#..\n.....\n")
	full := filepath.Join(dir, "full.geojson")
	cropped := filepath.Join(dir, "cropped.geojson")
	args := []string{"plan", "--layout", layout, "--from", "0.5,1.5", "--to", "4.5,1.5"}

	_, err := execute(t, append(args, "--geojson", full)...)
	require.NoError(t, err)
	_, err = execute(t, append(args, "--geojson", cropped, "--view", "2.2,0.2:4.8,2.8")...)
	require.NoError(t, err)

	all := cellFeatures(t, full)
	inView := cellFeatures(t, cropped)
	require.NotEmpty(t, inView)
	assert.Less(t, len(inView), len(all))
	for _, x := range inView {
		assert.GreaterOrEqual(t, x, 2.0)
	}

	_, err = execute(t, append(args, "--geojson", cropped, "--view", "3,3:1,1")...)
	assert.ErrorIs(t, err, errBadPoint)
}

func TestSimulateOverlayView(t *testing.T) {
	dir := t.TempDir()
	layout := writeFile(t, dir, "map.txt", "..........\n..........\n")
	bin := filepath.Join(dir, "grid.bin")
	_, err := execute(t, "encode", "--layout", layout, "--out", bin)
	require.NoError(t, err)

	overlay := filepath.Join(dir, "overlay.geojson")
	cfg := writeFile(t, dir, "navsim.yaml", "grid_path: "+bin+
		"\ntick_rate: 100\nvisualization:\n  enabled: true\n  output: "+overlay+
		"\n  view: [5.2, 0.2, 9.8, 1.8]\n")

	// The direct plan covers the start cell (0,0) and the goal cell (9,1).
	_, err = execute(t, "simulate", "--config", cfg,
		"--spawn", "0.5,0.5", "--goal", "9.5,1.5", "--duration", "50ms")
	require.NoError(t, err)
	assert.Equal(t, []float64{9}, cellFeatures(t, overlay))
}
