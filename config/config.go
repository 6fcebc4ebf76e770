// Package config provides configuration loading for the colony simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Decay policies for a scent kind.
const (
	PolicyAbsolute = "absolute"
	PolicyRelative = "relative"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Map        MapConfig        `yaml:"map"`
	Population PopulationConfig `yaml:"population"`
	Agent      AgentConfig      `yaml:"agent"`
	Scent      ScentConfig      `yaml:"scent"`
	Food       FoodConfig       `yaml:"food"`
	Simulation SimulationConfig `yaml:"simulation"`
	Render     RenderConfig     `yaml:"render"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// MapConfig holds grid dimensions.
type MapConfig struct {
	Radius int `yaml:"radius"` // Outermost ring that has tiles
}

// PopulationConfig holds colony size.
type PopulationConfig struct {
	Agents int `yaml:"agents"`
}

// AgentConfig holds forager behavior parameters.
type AgentConfig struct {
	Speed             float64       `yaml:"speed"`              // Axis units per tick
	FollowProbability float64       `yaml:"follow_probability"` // Chance to follow the gradient instead of wandering
	WithdrawRate      float64       `yaml:"withdraw_rate"`      // Max food taken per pickup
	Deposit           DepositConfig `yaml:"deposit"`
	DepositDecay      float64       `yaml:"deposit_decay"` // Per-decision drop of the non-interest deposit
}

// DepositConfig holds the deposit strength an agent starts a trail with.
type DepositConfig struct {
	Food float64 `yaml:"food"`
	Home float64 `yaml:"home"`
}

// ScentConfig holds the scent kinds tracked on every tile.
type ScentConfig struct {
	Kinds []ScentKindConfig `yaml:"kinds"`
}

// ScentKindConfig describes one scent kind and its decay policy.
type ScentKindConfig struct {
	Name   string  `yaml:"name"`
	Policy string  `yaml:"policy"` // absolute or relative
	Delta  float64 `yaml:"delta"`  // absolute: subtracted per tick
	Factor float64 `yaml:"factor"` // relative: fraction removed per tick
	Floor  float64 `yaml:"floor"`  // levels at or below snap to zero
}

// FoodConfig holds food source parameters.
type FoodConfig struct {
	Piles     int     `yaml:"piles"`
	MinAmount float64 `yaml:"min_amount"`
	MaxAmount float64 `yaml:"max_amount"`
}

// SimulationConfig holds tick-level parameters.
type SimulationConfig struct {
	Epsilon         float64 `yaml:"epsilon"`          // Tile-center tolerance
	ParallelSensing bool    `yaml:"parallel_sensing"` // Fan scent sensing out to workers
	ParallelMin     int     `yaml:"parallel_min"`     // Sensing agents needed before going parallel
	Workers         int     `yaml:"workers"`          // 0 = GOMAXPROCS
}

// RenderConfig holds render snapshot parameters.
type RenderConfig struct {
	HexSize         float64 `yaml:"hex_size"`
	ScentSaturation float64 `yaml:"scent_saturation"` // Level mapped to full color intensity
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow     int `yaml:"stats_window"` // Ticks per stats window
	BookmarkHistory int `yaml:"bookmark_history"`
	PerfWindow      int `yaml:"perf_window"` // Ticks per perf sample
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	TrailBreakthrough TrailBreakthroughConfig `yaml:"trail_breakthrough"`
	ColonyStall       ColonyStallConfig       `yaml:"colony_stall"`
}

// TrailBreakthroughConfig holds trail breakthrough detection parameters.
type TrailBreakthroughConfig struct {
	Multiplier  float64 `yaml:"multiplier"`
	MinReturned float64 `yaml:"min_returned"`
}

// ColonyStallConfig holds colony stall detection parameters.
type ColonyStallConfig struct {
	Windows int `yaml:"windows"` // Consecutive windows without returns
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	KindIndex map[string]int // scent name -> index
	NumKinds  int
	Boundary  float64 // Axis magnitude a mover may not reach
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.NumKinds = len(c.Scent.Kinds)
	c.Derived.KindIndex = make(map[string]int, len(c.Scent.Kinds))
	for i, k := range c.Scent.Kinds {
		c.Derived.KindIndex[k.Name] = i
	}
	// Half a tile past the outermost ring.
	c.Derived.Boundary = float64(c.Map.Radius) + 0.5
}

// Validate refreshes the derived values, then checks value ranges and
// cross-field requirements. Call it after changing a loaded config.
func (c *Config) Validate() error {
	c.computeDerived()

	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Map.Radius >= 1, "map.radius must be >= 1, got %d", c.Map.Radius)
	check(c.Population.Agents >= 0, "population.agents must be >= 0, got %d", c.Population.Agents)
	check(c.Agent.Speed > 0 && c.Agent.Speed <= 1, "agent.speed must be in (0,1], got %g", c.Agent.Speed)
	check(c.Agent.FollowProbability >= 0 && c.Agent.FollowProbability <= 1,
		"agent.follow_probability must be in [0,1], got %g", c.Agent.FollowProbability)
	check(c.Agent.WithdrawRate > 0, "agent.withdraw_rate must be > 0, got %g", c.Agent.WithdrawRate)
	check(c.Agent.Deposit.Food >= 0 && c.Agent.Deposit.Home >= 0, "agent.deposit levels must be >= 0")
	check(c.Agent.DepositDecay >= 0, "agent.deposit_decay must be >= 0, got %g", c.Agent.DepositDecay)
	check(c.Food.Piles >= 0, "food.piles must be >= 0, got %d", c.Food.Piles)
	check(c.Food.MinAmount > 0 && c.Food.MaxAmount >= c.Food.MinAmount,
		"food amounts must satisfy 0 < min_amount <= max_amount, got %g..%g", c.Food.MinAmount, c.Food.MaxAmount)
	check(c.Simulation.Epsilon > 0 && c.Simulation.Epsilon < 0.5,
		"simulation.epsilon must be in (0,0.5), got %g", c.Simulation.Epsilon)
	check(c.Render.ScentSaturation > 0, "render.scent_saturation must be > 0, got %g", c.Render.ScentSaturation)
	check(c.Telemetry.StatsWindow > 0, "telemetry.stats_window must be > 0, got %d", c.Telemetry.StatsWindow)

	for _, name := range []string{"food", "home"} {
		_, ok := c.Derived.KindIndex[name]
		check(ok, "scent.kinds must include %q", name)
	}
	check(len(c.Derived.KindIndex) == len(c.Scent.Kinds), "scent.kinds has duplicate names")
	for _, k := range c.Scent.Kinds {
		switch k.Policy {
		case PolicyAbsolute:
			check(k.Delta >= 0, "scent kind %q: delta must be >= 0", k.Name)
		case PolicyRelative:
			check(k.Factor >= 0 && k.Factor <= 1, "scent kind %q: factor must be in [0,1]", k.Name)
		default:
			check(false, "scent kind %q: unknown policy %q", k.Name, k.Policy)
		}
		check(k.Floor >= 0, "scent kind %q: floor must be >= 0", k.Name)
	}

	return errors.Join(errs...)
}

// Clone returns a deep copy of c, derived values included.
func (c *Config) Clone() *Config {
	out := *c
	out.Scent.Kinds = append([]ScentKindConfig(nil), c.Scent.Kinds...)
	out.computeDerived()
	return &out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
