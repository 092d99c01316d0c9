package sim

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ResourceCap is the upper bound of the water meter.
const ResourceCap = 100

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Environment keys read by LoadEnvConfig.
const (
	EnvConfigPath = "WATERGAME_CONFIG"
	EnvSeed       = "WATERGAME_SEED"
)

// Duration is a time.Duration that reads and writes as a string ("50ms") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// FloatRange is an inclusive real interval.
type FloatRange struct {
	Min float64 `toml:"min"`
	Max float64 `toml:"max"`
}

// IntRange is an inclusive integer interval.
type IntRange struct {
	Min int `toml:"min"`
	Max int `toml:"max"`
}

// SpawnConfig tunes one entity kind.
type SpawnConfig struct {
	Chance float64    `toml:"chance"` // per fast tick
	Size   FloatRange `toml:"size"`
	Speed  FloatRange `toml:"speed"`  // px per fast tick
	Effect IntRange   `toml:"effect"` // value for collectibles, damage for hazards
}

// Config is fixed for the lifetime of a Session.
type Config struct {
	FieldWidth  float64 `toml:"field_width"`
	FieldHeight float64 `toml:"field_height"`

	FastTick Duration `toml:"fast_tick"`
	SlowTick Duration `toml:"slow_tick"`

	Collectible SpawnConfig `toml:"collectible"`
	Hazard      SpawnConfig `toml:"hazard"`

	MissPenalty     int `toml:"miss_penalty"`
	InitialResource int `toml:"initial_resource"`
	InitialTime     int `toml:"initial_time"` // seconds

	// Seed of 0 picks a time-based seed at session creation.
	Seed int64 `toml:"seed"`
}

// DefaultConfig returns the stock game tuning.
func DefaultConfig() Config {
	return Config{
		FieldWidth:  600,
		FieldHeight: 400,
		FastTick:    Duration{50 * time.Millisecond},
		SlowTick:    Duration{time.Second},
		Collectible: SpawnConfig{
			Chance: 0.10,
			Size:   FloatRange{Min: 15, Max: 25},
			Speed:  FloatRange{Min: 2, Max: 5},
			Effect: IntRange{Min: 5, Max: 14},
		},
		Hazard: SpawnConfig{
			Chance: 0.05,
			Size:   FloatRange{Min: 20, Max: 35},
			Speed:  FloatRange{Min: 1, Max: 3},
			Effect: IntRange{Min: 10, Max: 24},
		},
		MissPenalty:     2,
		InitialResource: ResourceCap,
		InitialTime:     60,
	}
}

// FastTicksPerSecond is how many fast ticks fit in one slow tick.
func (c Config) FastTicksPerSecond() int {
	n := int(c.SlowTick.Duration / c.FastTick.Duration)
	if n < 1 {
		return 1
	}
	return n
}

// Validate reports the first field that would make the session ill-defined.
func (c Config) Validate() error {
	if c.FieldWidth <= 0 || c.FieldHeight <= 0 {
		return fmt.Errorf("%w: field size %vx%v must be positive", ErrInvalidConfig, c.FieldWidth, c.FieldHeight)
	}
	if c.FastTick.Duration <= 0 {
		return fmt.Errorf("%w: fast_tick %v must be positive", ErrInvalidConfig, c.FastTick)
	}
	if c.SlowTick.Duration <= 0 {
		return fmt.Errorf("%w: slow_tick %v must be positive", ErrInvalidConfig, c.SlowTick)
	}
	if err := c.Collectible.validate("collectible", c.FieldWidth); err != nil {
		return err
	}
	if err := c.Hazard.validate("hazard", c.FieldWidth); err != nil {
		return err
	}
	if c.MissPenalty < 0 {
		return fmt.Errorf("%w: miss_penalty %d is negative", ErrInvalidConfig, c.MissPenalty)
	}
	if c.InitialResource < 0 || c.InitialResource > ResourceCap {
		return fmt.Errorf("%w: initial_resource %d outside [0,%d]", ErrInvalidConfig, c.InitialResource, ResourceCap)
	}
	if c.InitialTime <= 0 {
		return fmt.Errorf("%w: initial_time %d must be positive", ErrInvalidConfig, c.InitialTime)
	}
	return nil
}

func (sc SpawnConfig) validate(name string, fieldWidth float64) error {
	if sc.Chance < 0 || sc.Chance > 1 {
		return fmt.Errorf("%w: %s.chance %v outside [0,1]", ErrInvalidConfig, name, sc.Chance)
	}
	if sc.Size.Min <= 0 || sc.Size.Max < sc.Size.Min {
		return fmt.Errorf("%w: %s.size [%v,%v] is not a positive range", ErrInvalidConfig, name, sc.Size.Min, sc.Size.Max)
	}
	if sc.Size.Max > fieldWidth {
		return fmt.Errorf("%w: %s.size max %v wider than field %v", ErrInvalidConfig, name, sc.Size.Max, fieldWidth)
	}
	if sc.Speed.Min <= 0 || sc.Speed.Max < sc.Speed.Min {
		return fmt.Errorf("%w: %s.speed [%v,%v] is not a positive range", ErrInvalidConfig, name, sc.Speed.Min, sc.Speed.Max)
	}
	if sc.Effect.Min <= 0 || sc.Effect.Max < sc.Effect.Min {
		return fmt.Errorf("%w: %s.effect [%d,%d] is not a positive range", ErrInvalidConfig, name, sc.Effect.Min, sc.Effect.Max)
	}
	return nil
}

// LoadConfig reads a TOML file over DefaultConfig; keys absent from the file keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg as TOML.
func SaveConfig(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		return fmt.Errorf("save config %s: %w", path, err)
	}
	return f.Close()
}

// LoadEnvConfig resolves the config from the process environment, falling back to
// values in the given .env files. Real environment variables win over file values.
// WATERGAME_CONFIG names a TOML file; WATERGAME_SEED overrides the seed.
func LoadEnvConfig(envFiles ...string) (Config, error) {
	vars := map[string]string{}
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		fileVars, err := godotenv.Read(name)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", name, err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return vars[key]
	}

	cfg := DefaultConfig()
	if path := lookup(EnvConfigPath); path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return Config{}, err
		}
	}
	if raw := lookup(EnvSeed); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvSeed, raw, err)
		}
		cfg.Seed = seed
	}
	return cfg, nil
}
