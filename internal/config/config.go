// Copyright 2025 The ocioperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads toolkit settings from an optional YAML file
// plus OCIOPERF_* environment variables.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	defaultSourceDir        = "data"
	defaultOutputDir        = "analysis_results"
	defaultCSVFile          = "ocio_test_results.csv"
	defaultLogLevel         = "info"
	defaultChartWidthInch   = 8.0
	defaultChartHeightInch  = 5.0
	defaultMaxPlausibleTime = 100000.0
	defaultOutlierThreshold = 2.0
	defaultMaxWorkers       = 4
)

// Config holds every tunable of the analysis toolkit.
type Config struct {
	// SourceDir holds the benchmark log files; OutputDir receives
	// every generated artifact.
	SourceDir string `mapstructure:"source_dir"`
	OutputDir string `mapstructure:"output_dir"`

	// CSVFile is the name of the interchange table, relative to
	// OutputDir.
	CSVFile string `mapstructure:"csv_file"`

	LogLevel string `mapstructure:"log_level"`

	// Chart geometry in inches.
	ChartWidthInch  float64 `mapstructure:"chart_width_inch"`
	ChartHeightInch float64 `mapstructure:"chart_height_inch"`

	// MaxPlausibleTime bounds sane timing values, in ms. Records
	// above it draw a validation warning.
	MaxPlausibleTime float64 `mapstructure:"max_plausible_time_ms"`

	// OutlierThreshold is the z-score above which a record counts
	// as an outlier.
	OutlierThreshold float64 `mapstructure:"outlier_threshold"`

	// MaxWorkers caps concurrent artifact generation.
	MaxWorkers int `mapstructure:"max_workers"`
}

// Load reads the configuration. configFile may be empty, in which
// case ocioperf.yaml is searched for in the working directory and
// every setting falls back to its default when no file exists.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OCIOPERF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("source_dir", defaultSourceDir)
	v.SetDefault("output_dir", defaultOutputDir)
	v.SetDefault("csv_file", defaultCSVFile)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("chart_width_inch", defaultChartWidthInch)
	v.SetDefault("chart_height_inch", defaultChartHeightInch)
	v.SetDefault("max_plausible_time_ms", defaultMaxPlausibleTime)
	v.SetDefault("outlier_threshold", defaultOutlierThreshold)
	v.SetDefault("max_workers", defaultMaxWorkers)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("ocioperf")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// A missing default config file is fine; defaults
			// apply.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("config validation failed: %s", strings.Join(problems, "; "))
	}
	return &cfg, nil
}

// Validate reports every problem with the configuration.
func (c *Config) Validate() []string {
	var problems []string
	if c.SourceDir == "" {
		problems = append(problems, "source_dir must not be empty")
	}
	if c.OutputDir == "" {
		problems = append(problems, "output_dir must not be empty")
	}
	if c.CSVFile == "" {
		problems = append(problems, "csv_file must not be empty")
	}
	levels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(levels, strings.ToLower(c.LogLevel)) {
		problems = append(problems, fmt.Sprintf("log_level %q must be one of: %s",
			c.LogLevel, strings.Join(levels, ", ")))
	}
	if c.ChartWidthInch <= 0 || c.ChartHeightInch <= 0 {
		problems = append(problems, "chart dimensions must be positive")
	}
	if c.MaxPlausibleTime <= 0 {
		problems = append(problems, "max_plausible_time_ms must be positive")
	}
	if c.OutlierThreshold <= 0 {
		problems = append(problems, "outlier_threshold must be positive")
	}
	if c.MaxWorkers < 1 {
		problems = append(problems, "max_workers must be at least 1")
	}
	return problems
}
