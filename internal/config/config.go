package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Visualization controls the debug overlay export.
type Visualization struct {
	Enabled bool      `yaml:"enabled"`
	Output  string    `yaml:"output"` // GeoJSON file written on shutdown
	View    []float64 `yaml:"view"`   // optional x0, z0, x1, z1 crop
}

// Navsim holds all configuration for the navigation simulator.
type Navsim struct {
	LogLevel string `yaml:"log_level"` // debug|info|warn|error

	// Grid
	GridPath  string `yaml:"grid_path"`
	WatchGrid bool   `yaml:"watch_grid"` // hot reload on file change

	// Movement
	TickRate int `yaml:"tick_rate"` // Hz

	// Planner
	MaxExpansions         int `yaml:"max_expansions"`          // 0 = unbounded
	NearestWalkableRadius int `yaml:"nearest_walkable_radius"` // cells, 0 disables fallback
	UserPriority          int `yaml:"user_priority"`
	ScriptedPriority      int `yaml:"scripted_priority"`

	// Carried for hosts embedding the planner; not read by it.
	UncancellableGracePeriod time.Duration `yaml:"uncancellable_grace_period"`

	Visualization Visualization `yaml:"visualization"`
}

// DefaultNavsim returns Navsim config with sensible defaults.
func DefaultNavsim() Navsim {
	return Navsim{
		LogLevel:                 "info",
		GridPath:                 "data/grid.bin",
		WatchGrid:                false,
		TickRate:                 30,
		MaxExpansions:            0,
		NearestWalkableRadius:    3,
		UserPriority:             0,
		ScriptedPriority:         10,
		UncancellableGracePeriod: 250 * time.Millisecond,
		Visualization: Visualization{
			Output: "navdebug.geojson",
		},
	}
}

// LoadNavsim loads simulator config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadNavsim(path string) (Navsim, error) {
	cfg := DefaultNavsim()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects values the simulator cannot run with.
func (c Navsim) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %d", c.TickRate)
	}
	if c.MaxExpansions < 0 {
		return fmt.Errorf("max_expansions must not be negative, got %d", c.MaxExpansions)
	}
	if c.NearestWalkableRadius < 0 {
		return fmt.Errorf("nearest_walkable_radius must not be negative, got %d", c.NearestWalkableRadius)
	}
	if v := c.Visualization.View; len(v) != 0 && (len(v) != 4 || v[2] <= v[0] || v[3] <= v[1]) {
		return fmt.Errorf("visualization.view must be [x0, z0, x1, z1] with x0 < x1 and z0 < z1, got %v", v)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
