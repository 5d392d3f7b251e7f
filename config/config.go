package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dave/odt/globals"
	"github.com/spf13/viper"
)

// Config for the elevation profile builder
type Config struct {
	Tracks     []string        `mapstructure:"tracks"`     // track files, kml, kmz or gpx
	Output     string          `mapstructure:"output"`     // published profile
	Backup     string          `mapstructure:"backup"`     // copy of the previous profile
	Checkpoint string          `mapstructure:"checkpoint"` // resume state
	Elevation  ElevationConfig `mapstructure:"elevation"`
	Stitch     StitchConfig    `mapstructure:"stitch"`
	Report     ReportConfig    `mapstructure:"report"`
	Metrics    MetricsConfig   `mapstructure:"metrics"`
	Log        LogConfig       `mapstructure:"log"`
}

type ElevationConfig struct {
	Source           string        `mapstructure:"source"` // usgs or srtm
	URL              string        `mapstructure:"url"`
	InsecureTLS      bool          `mapstructure:"insecure_tls"`
	Concurrency      int           `mapstructure:"concurrency"`
	BatchSize        int           `mapstructure:"batch_size"`
	RetryLimit       int           `mapstructure:"retry_limit"`
	RetryDelay       time.Duration `mapstructure:"retry_delay"`
	AttemptTimeout   time.Duration `mapstructure:"attempt_timeout"`
	ProgressInterval time.Duration `mapstructure:"progress_interval"`
}

type StitchConfig struct {
	SeamThreshold float64 `mapstructure:"seam_threshold_m"`
}

type ReportConfig struct {
	Chart string `mapstructure:"chart"` // png path, empty to skip
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"` // prometheus textfile path, empty to skip
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the configuration from defaults, an optional odt.yaml (or the file at fpath) and ODT_
// environment variables, e.g. ODT_ELEVATION_CONCURRENCY.
func Load(fpath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("tracks", []string{
		"Region 1 Track.kml",
		"Region 2 Track.kml",
		"Region 3 Track.kml",
		"Region 4 Track.kml",
	})
	v.SetDefault("output", "public/elevation-profile.json")
	v.SetDefault("backup", "elevation-profile-backup.json")
	v.SetDefault("checkpoint", "elevation-checkpoint.json")
	v.SetDefault("elevation.source", "usgs")
	v.SetDefault("elevation.url", "https://epqs.nationalmap.gov/v1/json")
	v.SetDefault("elevation.insecure_tls", true)
	v.SetDefault("elevation.concurrency", 20)
	v.SetDefault("elevation.batch_size", 500)
	v.SetDefault("elevation.retry_limit", 5)
	v.SetDefault("elevation.retry_delay", time.Second)
	v.SetDefault("elevation.attempt_timeout", 20*time.Second)
	v.SetDefault("elevation.progress_interval", 5*time.Second)
	v.SetDefault("stitch.seam_threshold_m", globals.SEAM_THRESHOLD)
	v.SetDefault("report.chart", "")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if fpath != "" {
		v.SetConfigFile(fpath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %q: %w", fpath, err)
		}
	} else {
		v.SetConfigName("odt")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		_ = v.ReadInConfig() // OK if missing
	}

	v.SetEnvPrefix("ODT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if len(c.Tracks) == 0 {
		errs = append(errs, "tracks must list at least one file")
	}
	if c.Output == "" {
		errs = append(errs, "output is required")
	}
	if c.Checkpoint == "" {
		errs = append(errs, "checkpoint is required")
	}
	switch c.Elevation.Source {
	case "usgs":
		if c.Elevation.URL == "" {
			errs = append(errs, "elevation.url is required for the usgs source")
		}
	case "srtm":
	default:
		errs = append(errs, fmt.Sprintf("elevation.source must be usgs or srtm, got %q", c.Elevation.Source))
	}
	if c.Elevation.Concurrency < 1 {
		errs = append(errs, "elevation.concurrency must be positive")
	}
	if c.Elevation.BatchSize < 1 {
		errs = append(errs, "elevation.batch_size must be positive")
	}
	if c.Elevation.RetryLimit < 1 {
		errs = append(errs, "elevation.retry_limit must be positive")
	}
	if c.Elevation.RetryDelay < 0 {
		errs = append(errs, "elevation.retry_delay must not be negative")
	}
	if c.Elevation.AttemptTimeout <= 0 {
		errs = append(errs, "elevation.attempt_timeout must be positive")
	}
	if c.Stitch.SeamThreshold < 0 {
		errs = append(errs, "stitch.seam_threshold_m must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
