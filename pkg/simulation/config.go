package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed config.schema.json
var configSchema string

// schemaURL names the embedded schema in validation errors.
const schemaURL = "config.schema.json"

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`

	// TimeStep is the dt handed to World.Update on every tick
	TimeStep float64 `json:"timeStep"`
	// Seed makes agent creation reproducible, 0 draws one from the clock
	Seed uint64 `json:"seed"`

	Flock flock.Parameters `json:"flock"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:  1000,
		WorldHeight: 800,
		TimeStep:    1.0,
		Flock:       flock.DefaultParameters(),
	}
}

// Parameters returns a copy of the flock parameters.
func (c *Config) Parameters() flock.Parameters {
	return c.Flock.Clone()
}

// Domain is the rectangle described by the config, periodic when the flock wraps.
func (c *Config) Domain() geometry.Domain {
	return geometry.NewDomain(c.WorldWidth, c.WorldHeight, c.Flock.Boundary == flock.BoundaryWrap)
}

// Validate checks the world extent, the time step and the flock parameters.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Domain().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.TimeStep <= 0 {
		errs = append(errs, fmt.Errorf("timeStep %g must be positive", c.TimeStep))
	}
	if err := c.Flock.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NewWorld builds the simulation described by the config.
func (c *Config) NewWorld(opts ...flock.Option) *flock.World {
	if c.Seed != 0 {
		opts = append([]flock.Option{flock.WithSeed(c.Seed)}, opts...)
	}
	return flock.NewWorld(c.Domain(), c.Parameters(), opts...)
}

// LoadConfig loads configuration from a JSON or TOML file and validates it against the schema.
// An empty schemaFile uses the schema embedded in the binary.
// Keys absent from the file keep their DefaultConfig value.
func LoadConfig(configFile string, schemaFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := compileSchema(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File, TOML is converted to its JSON equivalent
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(configFile), ".toml") {
		if b, err = tomlToJSON(b); err != nil {
			return nil, fmt.Errorf("failed to decode config toml: %w", err)
		}
	}

	// 3. Validate
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Unmarshal over the defaults
	cfg := DefaultConfig()
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func compileSchema(schemaFile string) (*jsonschema.Schema, error) {
	if schemaFile == "" {
		return jsonschema.CompileString(schemaURL, configSchema)
	}
	return jsonschema.Compile(schemaFile)
}

func tomlToJSON(b []byte) ([]byte, error) {
	var m map[string]interface{}
	if err := toml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return json.Marshal(m)
}
