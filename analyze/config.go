package analyze

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/signai/internal/analysis/absint"
	"github.com/gnolang/signai/internal/check"
	"github.com/gnolang/signai/internal/concrete"
)

// DefaultConfigPath is the configuration file looked up when none is given.
const DefaultConfigPath = ".signai.yaml"

// Config represents the overall configuration of an analysis run.
type Config struct {
	Name             string      `yaml:"name"`
	Slots            int         `yaml:"slots"`
	MaxIterations    int         `yaml:"max_iterations"`
	MaxSteps         int         `yaml:"max_steps"`
	Inputs           []int64     `yaml:"inputs,omitempty"`
	RecordInvariants bool        `yaml:"record_invariants"`
	Check            CheckConfig `yaml:"check"`
}

// CheckConfig configures random soundness campaigns.
type CheckConfig struct {
	Programs int   `yaml:"programs"`
	Depth    int   `yaml:"depth"`
	Vars     int   `yaml:"vars"`
	Seed     int64 `yaml:"seed"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	gen := check.DefaultGenConfig()
	return Config{
		Name:          "signai",
		Slots:         concrete.DefaultCapacity,
		MaxIterations: absint.DefaultMaxIterations,
		MaxSteps:      concrete.DefaultMaxSteps,
		Inputs:        []int64{0},
		Check: CheckConfig{
			Programs: 200,
			Depth:    gen.Depth,
			Vars:     gen.Vars,
			Seed:     gen.Seed,
		},
	}
}

// Validate reports the first nonsensical setting.
func (c Config) Validate() error {
	switch {
	case c.Slots <= 0:
		return fmt.Errorf("slots must be positive, got %d", c.Slots)
	case c.MaxIterations <= 0:
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	case c.MaxSteps <= 0:
		return fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps)
	case c.Check.Programs < 0:
		return fmt.Errorf("check.programs must not be negative, got %d", c.Check.Programs)
	case c.Check.Vars > c.Slots:
		return fmt.Errorf("check.vars (%d) exceeds slots (%d)", c.Check.Vars, c.Slots)
	}
	return nil
}

// GenConfig returns the generator settings for a soundness campaign.
func (c Config) GenConfig() check.GenConfig {
	gen := check.DefaultGenConfig()
	gen.Depth = c.Check.Depth
	gen.Vars = c.Check.Vars
	gen.Seed = c.Check.Seed
	return gen
}

// LoadConfig decodes the configuration file at path on top of the defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		path = DefaultConfigPath
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// WriteConfig stores config as YAML at path.
func WriteConfig(path string, config Config) error {
	if path == "" {
		path = DefaultConfigPath
	}
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}
