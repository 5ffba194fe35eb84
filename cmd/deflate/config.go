package main

import (
	"fmt"
	"os"

	"github.com/chronos-tachyon/deflate"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const defaultChunkSize = 64 << 10

// Config holds the settings that may come from a YAML file.  Command-line
// flags override them.
type Config struct {
	Format    string `yaml:"format"`
	Strategy  string `yaml:"strategy"`
	ChunkSize int    `yaml:"chunkSize"`
	Sync      bool   `yaml:"sync"`
	LogLevel  string `yaml:"logLevel"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Format:    "zlib",
		Strategy:  "default",
		ChunkSize: defaultChunkSize,
		LogLevel:  "info",
	}
}

// ReadConfig reads a YAML config file.  Keys absent from the file keep
// their default values; unknown keys are an error.
func ReadConfig(path string) (cfg Config, err error) {
	cfg = DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	err = dec.Decode(&cfg)
	return
}

// Settings is a validated Config.
type Settings struct {
	Format    deflate.Format
	Strategy  deflate.Strategy
	ChunkSize int
	Sync      bool
	LogLevel  zerolog.Level
}

// Validate checks every field of cfg and reports all problems at once.
func (cfg Config) Validate() (Settings, error) {
	var s Settings
	var errs *multierror.Error

	if err := s.Format.Parse(cfg.Format); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("format: %w", err))
	}
	if err := s.Strategy.Parse(cfg.Strategy); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("strategy: %w", err))
	}
	if cfg.ChunkSize <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("chunkSize: %d is not positive", cfg.ChunkSize))
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("logLevel: %w", err))
	}

	s.ChunkSize = cfg.ChunkSize
	s.Sync = cfg.Sync
	s.LogLevel = level
	return s, errs.ErrorOrNil()
}
