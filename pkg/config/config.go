// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/absmach/coapopts/pkg/duration"
	"github.com/absmach/coapopts/pkg/errors"
	"github.com/absmach/coapopts/pkg/option"
	"github.com/caarlos0/env/v11"
	"github.com/plgd-dev/go-coap/v3/message"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "COAPOPTS_"

// Config holds the application configuration.
type Config struct {
	// Observability
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT"   envDefault:"text"`
	MetricsAddr string `env:"METRICS_ADDR"`

	// Option definitions, in addition to the standard table.
	OptionsFile string   `env:"OPTIONS_FILE"`
	Options     []string `env:"OPTIONS"      envSeparator:";"`

	// Concurrency and timeouts. Durations use the d/h/m/s/ms/us/ns grammar.
	Workers         int               `env:"WORKERS"          envDefault:"4"`
	Timeout         duration.Duration `env:"TIMEOUT"          envDefault:"30s"`
	ShutdownTimeout duration.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load reads the configuration from COAPOPTS_* environment variables.
func Load() (Config, error) {
	return New(env.Options{Prefix: EnvPrefix})
}

// New reads the configuration with explicit env options.
func New(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse config")
	}
	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("failed to parse config: workers must be positive, got %d", cfg.Workers)
	}
	return cfg, nil
}

// Definitions returns the configured option definitions: the file entries
// first, then the inline ones.
func (c Config) Definitions() ([]option.Definition, error) {
	var defs []option.Definition
	if c.OptionsFile != "" {
		fileDefs, err := LoadFile(c.OptionsFile)
		if err != nil {
			return nil, err
		}
		defs = append(defs, fileDefs...)
	}
	for _, s := range c.Options {
		if strings.TrimSpace(s) == "" {
			continue
		}
		d, err := option.ParseDefinition(s)
		if err != nil {
			return nil, errors.Wrap(err, "invalid inline option")
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// Registry builds a registry holding the standard options plus the
// configured definitions.
func (c Config) Registry() (*option.Registry, error) {
	defs, err := c.Definitions()
	if err != nil {
		return nil, err
	}
	reg := option.NewStandardRegistry()
	for _, d := range defs {
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// File is the layout of an option definition file:
//
//	[[option]]
//	alias  = "Tenant"
//	number = 65000
//	format = "string"
//	min    = 1
//	max    = 16
//	single = true
type File struct {
	Options []FileOption `toml:"option"`
}

// FileOption is one [[option]] table. A missing max means unbounded.
type FileOption struct {
	Alias  string        `toml:"alias"`
	Number uint16        `toml:"number"`
	Format option.Format `toml:"format"`
	Min    int           `toml:"min"`
	Max    *int          `toml:"max"`
	Single bool          `toml:"single"`
}

// Definition converts the table to a validated definition.
func (o FileOption) Definition() (option.Definition, error) {
	d := option.Definition{
		Alias:       strings.TrimSpace(o.Alias),
		Number:      message.OptionID(o.Number),
		Format:      o.Format,
		SingleValue: o.Single,
		MinBytes:    o.Min,
		MaxBytes:    option.Unbounded,
	}
	if o.Max != nil {
		d.MaxBytes = *o.Max
	}
	if err := d.Validate(); err != nil {
		return option.Definition{}, err
	}
	return d, nil
}

// LoadFile reads option definitions from a TOML file.
func LoadFile(path string) ([]option.Definition, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("option file load failed (%s): %w", path, err)
	}
	return f.definitions(path, meta)
}

// ParseFile decodes option definitions from TOML text.
func ParseFile(data string) ([]option.Definition, error) {
	var f File
	meta, err := toml.Decode(data, &f)
	if err != nil {
		return nil, fmt.Errorf("option file parse failed: %w", err)
	}
	return f.definitions("", meta)
}

func (f File) definitions(path string, meta toml.MetaData) ([]option.Definition, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		where := "option file"
		if path != "" {
			where += " " + path
		}
		return nil, fmt.Errorf("%w: unknown key %q in %s", errors.ErrInvalidDefinition, undecoded[0].String(), where)
	}
	defs := make([]option.Definition, 0, len(f.Options))
	for i, o := range f.Options {
		d, err := o.Definition()
		if err != nil {
			return nil, fmt.Errorf("option[%d]: %w", i, err)
		}
		defs = append(defs, d)
	}
	return defs, nil
}
