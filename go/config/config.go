// Package config loads conversion settings from defaults, CHUNKPORT_*
// environment variables and an optional yaml file, in increasing precedence.
package config

import (
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/rmmh/chunkport/go/blocks"
)

// Format is how a target world stores blocks.
type Format string

const (
	FormatLegacy Format = "legacy"
	FormatModern Format = "modern"
)

type Config struct {
	Workers int

	Source blocks.Version
	Target blocks.Version
	Format Format
	// IDBits is the widest legacy id the target can store: 8, 12 or 16.
	IDBits int

	Lighting          bool
	PlaceholderMargin int

	IDTable        string
	SimpleMappings string
	LevelDat       string

	ReportPath string
	Listen     string
}

// Legacy reports whether the target is written as numeric ids.
func (c *Config) Legacy() bool { return c.Format == FormatLegacy }

func Default() *Config {
	return &Config{
		Workers:           runtime.NumCPU(),
		Source:            blocks.V1_12,
		Target:            blocks.V1_16,
		Format:            FormatModern,
		IDBits:            12,
		Lighting:          true,
		PlaceholderMargin: 16,
		Listen:            "localhost:8642",
	}
}

// Load reads configuration from path, which may be empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("workers", def.Workers)
	v.SetDefault("source.version", def.Source.String())
	v.SetDefault("target.version", def.Target.String())
	v.SetDefault("target.format", "")
	v.SetDefault("target.id_bits", def.IDBits)
	v.SetDefault("lighting", def.Lighting)
	v.SetDefault("placeholder_margin", def.PlaceholderMargin)
	v.SetDefault("id_table", "")
	v.SetDefault("simple_mappings", "")
	v.SetDefault("level_dat", "")
	v.SetDefault("report.path", "")
	v.SetDefault("listen", def.Listen)

	v.SetEnvPrefix("CHUNKPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	cfg := &Config{
		Workers:           v.GetInt("workers"),
		Format:            Format(strings.ToLower(v.GetString("target.format"))),
		IDBits:            v.GetInt("target.id_bits"),
		Lighting:          v.GetBool("lighting"),
		PlaceholderMargin: v.GetInt("placeholder_margin"),
		IDTable:           v.GetString("id_table"),
		SimpleMappings:    v.GetString("simple_mappings"),
		LevelDat:          v.GetString("level_dat"),
		ReportPath:        v.GetString("report.path"),
		Listen:            v.GetString("listen"),
	}
	var err error
	if cfg.Source, err = blocks.ParseVersion(v.GetString("source.version")); err != nil {
		return nil, errors.Wrap(err, "source.version")
	}
	if cfg.Target, err = blocks.ParseVersion(v.GetString("target.version")); err != nil {
		return nil, errors.Wrap(err, "target.version")
	}
	if cfg.Format == "" {
		cfg.Format = FormatLegacy
		if cfg.Target.Flattened() {
			cfg.Format = FormatModern
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return errors.Errorf("workers must be positive, got %d", c.Workers)
	}
	switch c.Format {
	case FormatLegacy:
		if c.Target.Flattened() {
			return errors.Errorf("target %s stores named states, not legacy ids", c.Target)
		}
	case FormatModern:
		if !c.Target.Flattened() {
			return errors.Errorf("target %s predates named block states", c.Target)
		}
	default:
		return errors.Errorf("target.format must be legacy or modern, got %q", c.Format)
	}
	if c.IDBits != 8 && c.IDBits != 12 && c.IDBits != 16 {
		return errors.Errorf("target.id_bits must be 8, 12 or 16, got %d", c.IDBits)
	}
	if c.PlaceholderMargin < 0 {
		return errors.Errorf("placeholder_margin must not be negative, got %d", c.PlaceholderMargin)
	}
	return nil
}
