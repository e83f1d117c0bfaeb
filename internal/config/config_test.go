package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test build defaults
	if cfg.Build.FlipTextureV {
		t.Error("expected flip_texture_v to be false by default")
	}
	if !cfg.Build.StrictPrototypes {
		t.Error("expected strict_prototypes to be true by default")
	}

	// Test export defaults
	if !cfg.Export.Binary {
		t.Error("expected binary export by default")
	}
	if cfg.Export.IncludePrototypes {
		t.Error("expected include_prototypes to be false by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if cfg.Logging.MaxSizeMB != 50 {
		t.Errorf("expected max size 50, got %d", cfg.Logging.MaxSizeMB)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
build:
  flip_texture_v: true
  strict_prototypes: false

export:
  binary: false
  include_prototypes: true

logging:
  level: "debug"
  log_file: "rwxtool.log"
  max_backups: 9
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !cfg.Build.FlipTextureV {
		t.Error("expected flip_texture_v to be true")
	}
	if cfg.Build.StrictPrototypes {
		t.Error("expected strict_prototypes to be false")
	}
	if cfg.Export.Binary {
		t.Error("expected binary to be false")
	}
	if !cfg.Export.IncludePrototypes {
		t.Error("expected include_prototypes to be true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "rwxtool.log" {
		t.Errorf("expected log file 'rwxtool.log', got %s", cfg.Logging.LogFile)
	}
	if cfg.Logging.MaxBackups != 9 {
		t.Errorf("expected max backups 9, got %d", cfg.Logging.MaxBackups)
	}
	// Untouched keys keep their defaults.
	if cfg.Logging.MaxSizeMB != 50 {
		t.Errorf("expected max size 50, got %d", cfg.Logging.MaxSizeMB)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
build:
  flip_texture_v: not a bool
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	if runtime.GOOS == "linux" {
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	}

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "rwxtool.yaml")
	if err := os.WriteFile(configPath, []byte("export:\n  binary: false\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find rwxtool.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "explicit false overrides default",
			args: []string{"-glb=false", "-strict=false"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Export.Binary {
					t.Error("expected binary to be false")
				}
				if cfg.Build.StrictPrototypes {
					t.Error("expected strict_prototypes to be false")
				}
			},
		},
		{
			name: "unset flags keep config",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Export.Binary || !cfg.Build.StrictPrototypes {
					t.Error("expected defaults to survive")
				}
			},
		},
		{
			name: "build and export flags",
			args: []string{"-flip-v", "-prototypes", "-log", "out.log"},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Build.FlipTextureV {
					t.Error("expected flip_texture_v to be true")
				}
				if !cfg.Export.IncludePrototypes {
					t.Error("expected include_prototypes to be true")
				}
				if cfg.Logging.LogFile != "out.log" {
					t.Errorf("expected log file out.log, got %s", cfg.Logging.LogFile)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			f := RegisterFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("failed to parse flags: %v", err)
			}

			cfg := Default()
			f.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
export:
  binary: false
  include_prototypes: true
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", configPath, "-glb"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Binary comes from the flag, not the file.
	if !cfg.Export.Binary {
		t.Error("expected binary from flag")
	}
	// IncludePrototypes comes from the file since no flag overrides it.
	if !cfg.Export.IncludePrototypes {
		t.Error("expected include_prototypes from file")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Build.FlipTextureV = true
	cfg.Logging.Level = "warn"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded config %+v differs from saved %+v", loaded, cfg)
	}
}
