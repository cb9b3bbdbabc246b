package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetDefault returns the built-in configuration.
func GetDefault() Config {
	return Config{
		DBFilename:  "papers.db",
		DefaultRepo: defaultRepoDir(),
		Defaults: PaperDefaults{
			Tags:   []string{},
			Labels: []string{},
		},
		Log: LogConfig{
			Level:      "INFO",
			TimeFormat: "2006-01-02 15:04:05",
			File:       "",
			NoColor:    false,
			JSON:       false,
			NoTerminal: false,
			Rotation: LogRotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
				Compress:   false,
			},
		},
	}
}

func setDefaults() {
	defaults := GetDefault()

	viper.SetDefault("db_filename", defaults.DBFilename)
	viper.SetDefault("default_repo", defaults.DefaultRepo)

	viper.SetDefault("defaults.tags", defaults.Defaults.Tags)
	viper.SetDefault("defaults.labels", defaults.Defaults.Labels)

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.time_format", defaults.Log.TimeFormat)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.no_color", defaults.Log.NoColor)
	viper.SetDefault("log.json", defaults.Log.JSON)
	viper.SetDefault("log.no_terminal", defaults.Log.NoTerminal)
	viper.SetDefault("log.rotation.max_size", defaults.Log.Rotation.MaxSize)
	viper.SetDefault("log.rotation.max_backups", defaults.Log.Rotation.MaxBackups)
	viper.SetDefault("log.rotation.max_age", defaults.Log.Rotation.MaxAge)
	viper.SetDefault("log.rotation.compress", defaults.Log.Rotation.Compress)
}

// defaultRepoDir is the per-user data directory for the default repo.
func defaultRepoDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "papers")
}
