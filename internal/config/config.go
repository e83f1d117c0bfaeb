// Package config handles rwxtool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Build   BuildConfig   `yaml:"build"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// BuildConfig holds settings applied while building models from scripts.
type BuildConfig struct {
	FlipTextureV     bool `yaml:"flip_texture_v"`    // Store V as 1-v
	StrictPrototypes bool `yaml:"strict_prototypes"` // Fail validation on unresolved instances
}

// ExportConfig holds glTF export settings.
type ExportConfig struct {
	Binary            bool `yaml:"binary"`
	IncludePrototypes bool `yaml:"include_prototypes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			FlipTextureV:     false,
			StrictPrototypes: true,
		},
		Export: ExportConfig{
			Binary:            true,
			IncludePrototypes: false,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}
