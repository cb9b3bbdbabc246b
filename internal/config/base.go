package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds everything the papers CLI reads from config files,
// environment variables and persistent flags.
type Config struct {
	// Filename of the database inside the repository root.
	DBFilename string `mapstructure:"db_filename" yaml:"db_filename"`

	// Directory of the default repository, used when no database file is
	// found in the working directory or its parents.
	DefaultRepo string `mapstructure:"default_repo" yaml:"default_repo"`

	// Defaults applied to every added paper.
	Defaults PaperDefaults `mapstructure:"defaults" yaml:"defaults"`

	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// PaperDefaults are tags and labels attached to every paper on add.
type PaperDefaults struct {
	Tags   []string `mapstructure:"tags"   yaml:"tags"`
	Labels []string `mapstructure:"labels" yaml:"labels"`
}

// Load unmarshals the effective viper state into a Config.
func Load() (*Config, error) {
	cfg := &Config{}

	setDefaults()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}
