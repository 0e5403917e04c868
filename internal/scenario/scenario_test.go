package scenario

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detourYAML = `
name: pillar detour
layout:
  - "....."
  - "..#.."
  - "....."
ticks: 40
dt: 0.1
agents:
  - {id: 1, x: 0.5, z: 1.5, speed: 2}
commands:
  - {tick: 0, agent: 1, to: [4.5, 1.5]}
`

func TestParseDefaults(t *testing.T) {
	s, err := Parse([]byte("layout: [\"...\"]"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.CellSize)
	assert.Equal(t, 100, s.Ticks)
	assert.Equal(t, 0.1, s.DT)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"no layout", "ticks: 3", ErrInvalidLayout},
		{"bad cell size", "layout: [\".\"]\ncell_size: -1", ErrInvalidLayout},
		{"bad origin", "layout: [\".\"]\norigin: [1, 2]", ErrInvalidLayout},
		{"zero dt", "layout: [\".\"]\ndt: 0", ErrInvalidScenario},
		{"duplicate agent", "layout: [\".\"]\nagents: [{id: 1, speed: 1}, {id: 1, speed: 1}]", ErrInvalidScenario},
		{"no speed", "layout: [\".\"]\nagents: [{id: 1}]", ErrInvalidScenario},
		{"unknown agent", "layout: [\".\"]\ncommands: [{tick: 0, agent: 9, stop: true}]", ErrInvalidScenario},
		{"tick out of range", "layout: [\".\"]\nticks: 2\nagents: [{id: 1, speed: 1}]\ncommands: [{tick: 2, agent: 1, stop: true}]", ErrInvalidScenario},
		{"missing destination", "layout: [\".\"]\nagents: [{id: 1, speed: 1}]\ncommands: [{tick: 0, agent: 1}]", ErrInvalidScenario},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRunDetour(t *testing.T) {
	s, err := Parse([]byte(detourYAML))
	require.NoError(t, err)

	r, err := Run(s)
	require.NoError(t, err)

	require.Len(t, r.Plans, 1)
	assert.True(t, r.Plans[0].Reachable)
	assert.False(t, r.Plans[0].Direct)
	assert.Greater(t, len(r.Plans[0].Waypoints), 2)

	require.Len(t, r.Events, 2)
	assert.Equal(t, EventRecord{Tick: 0, Agent: 1, Kind: "started"}, r.Events[0])
	assert.Equal(t, "ended", r.Events[1].Kind)
	assert.Equal(t, "arrived", r.Events[1].Reason)
	assert.Greater(t, r.Events[1].Tick, 20, "about 4.3 units at 0.2 per tick")

	require.Len(t, r.Final, 1)
	assert.Equal(t, [2]float64{4.5, 1.5}, r.Final[0].Position)
	assert.False(t, r.Final[0].Moving)

	require.Len(t, r.Snapshots, 1)
	assert.NotEmpty(t, r.Snapshots[0].Visited)
}

func TestRunStop(t *testing.T) {
	s, err := Parse([]byte(`
layout: [".........."]
ticks: 10
dt: 0.1
agents: [{id: 1, x: 0.5, z: 0.5, speed: 1}]
commands:
  - {tick: 5, agent: 1, stop: true}
  - {tick: 0, agent: 1, to: [9.5, 0.5]}
`))
	require.NoError(t, err)

	r, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, []EventRecord{
		{Tick: 0, Agent: 1, Kind: "started"},
		{Tick: 5, Agent: 1, Kind: "ended", Reason: "stopped"},
	}, r.Events)
	assert.InDelta(t, 1.0, r.Final[0].Position[0], 1e-9)
	assert.InDelta(t, 0.5, r.Final[0].Position[1], 1e-9)
}

func TestRunPriority(t *testing.T) {
	s, err := Parse([]byte(`
layout: [".........."]
ticks: 20
dt: 0.5
agents: [{id: 1, x: 0.5, z: 0.5, speed: 2}]
commands:
  - {tick: 0, agent: 1, to: [9.5, 0.5], priority: 10}
  - {tick: 1, agent: 1, to: [0.5, 0.5]}
`))
	require.NoError(t, err)

	r, err := Run(s)
	require.NoError(t, err)

	require.Len(t, r.Plans, 2)
	assert.Equal(t, 10, r.Plans[0].Priority)
	assert.Equal(t, 0, r.Plans[1].Priority)

	assert.Equal(t, []EventRecord{
		{Tick: 0, Agent: 1, Kind: "started"},
		{Tick: 8, Agent: 1, Kind: "ended", Reason: "arrived"},
	}, r.Events, "user command cannot cancel the scripted path")
	assert.Equal(t, [2]float64{9.5, 0.5}, r.Final[0].Position)
}

func TestRunUnreachable(t *testing.T) {
	s, err := Parse([]byte(`
layout: ["...", "###", "..."]
ticks: 5
agents: [{id: 1, x: 0.5, z: 0.5, speed: 1}]
commands: [{tick: 0, agent: 1, to: [2.5, 2.5]}]
`))
	require.NoError(t, err)

	r, err := Run(s)
	require.NoError(t, err)

	require.Len(t, r.Plans, 1)
	assert.False(t, r.Plans[0].Reachable)
	assert.Empty(t, r.Plans[0].Waypoints)
	assert.Empty(t, r.Events)
	assert.Equal(t, [2]float64{0.5, 0.5}, r.Final[0].Position)
}

func TestRunInvalidLayout(t *testing.T) {
	s := Scenario{
		CellSize: 1,
		Layout:   []string{"...", ".."},
		Ticks:    1,
		DT:       0.1,
	}

	_, err := Run(s)
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestLoadFileAndWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detour.yaml")
	require.NoError(t, os.WriteFile(path, []byte(detourYAML), 0o600))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pillar detour", s.Name)

	r, err := Run(s)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf))
	out := buf.String()
	assert.Contains(t, out, "name: pillar detour")
	assert.Contains(t, out, "kind: started")
	assert.Contains(t, out, "reason: arrived")

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
