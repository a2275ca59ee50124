// Package config loads the YAML configuration: data file locations and
// extensions to the built-in override tables.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"armsatlas/internal/register"
)

type Config struct {
	Register  Register  `yaml:"register"`
	World     World     `yaml:"world"`
	DB        string    `yaml:"db"`
	Overrides Overrides `yaml:"overrides"`
}

type Register struct {
	CSV         string   `yaml:"csv"`
	UnitColumns []string `yaml:"unit_columns"`
}

type World struct {
	GeoJSON string `yaml:"geojson"`
}

// Overrides extends the built-in lookup tables. Entries here replace
// same-named defaults.
type Overrides struct {
	Countries       map[string]string `yaml:"countries"`
	FormerCountries map[string]string `yaml:"former_countries"`
	Organisations   map[string]string `yaml:"organisations"`
	RebelGroups     map[string]string `yaml:"rebel_groups"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Register: Register{CSV: "data/trade-register.csv"},
		World:    World{GeoJSON: "data/world.geojson"},
		DB:       "armsatlas.db",
	}
}

// Load reads a YAML config file over the defaults. Unknown fields are
// rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Tables merges the configured overrides onto the built-in lookup data.
func (c Config) Tables() register.Tables {
	return register.DefaultTables().Merge(register.Tables{
		CountryOverrides: c.Overrides.Countries,
		FormerCountries:  c.Overrides.FormerCountries,
		Organisations:    c.Overrides.Organisations,
		RebelOverrides:   c.Overrides.RebelGroups,
	})
}

// LoadOptions derives register ingestion options from the configuration.
func (c Config) LoadOptions() register.LoadOptions {
	opts := register.DefaultLoadOptions()
	if len(c.Register.UnitColumns) > 0 {
		opts.UnitColumns = c.Register.UnitColumns
	}
	return opts
}
