// Package model holds the shared configuration types.
package model

import (
	"runtime"
	"time"
)

// Config is the full tool configuration, assembled from defaults, the
// optional config file, PLSQLNORM_* environment variables and CLI flags.
type Config struct {
	Normalize NormalizeConfig `yaml:"normalize" mapstructure:"normalize"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Encoding  EncodingConfig  `yaml:"encoding" mapstructure:"encoding"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// NormalizeConfig carries the default normalization behavior.
type NormalizeConfig struct {
	// Flags by name: uppercase, no-comments, no-spaces, no-literals,
	// comments-only, full.
	Flags []string `yaml:"flags" mapstructure:"flags"`
	// Lines limits normalization to the first N source lines; 0 means the
	// whole file.
	Lines int `yaml:"lines" mapstructure:"lines"`
}

// BatchConfig controls parallel processing of file sets.
type BatchConfig struct {
	Workers        int     `yaml:"workers" mapstructure:"workers"`
	OutputDir      string  `yaml:"output_dir" mapstructure:"output_dir"`
	FilesPerSecond float64 `yaml:"files_per_second" mapstructure:"files_per_second"` // 0 disables throttling
	Burst          int     `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig controls classification memoization.
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// EncodingConfig lists the encodings probed for non-UTF-8 input.
type EncodingConfig struct {
	Probables []string `yaml:"probables" mapstructure:"probables"`
}

// OutputConfig controls reporting.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Batch: BatchConfig{
			Workers:   runtime.NumCPU(),
			OutputDir: "./normalized",
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             15 * time.Minute,
			CleanupInterval: 30 * time.Minute,
		},
		Encoding: EncodingConfig{
			Probables: []string{"cp866", "cp1251", "koi8-r"},
		},
	}
}
