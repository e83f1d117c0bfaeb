package config

import "flag"

// Flags holds the command-line overrides shared by rwxtool commands.
type Flags struct {
	set *flag.FlagSet

	Config     *string
	Debug      *bool
	LogFile    *string
	FlipV      *bool
	Strict     *bool
	Binary     *bool
	Prototypes *bool
}

// RegisterFlags adds the config flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		set:        fs,
		Config:     fs.String("config", "", "Path to config file"),
		Debug:      fs.Bool("debug", false, "Enable debug logging"),
		LogFile:    fs.String("log", "", "Write logs to this file"),
		FlipV:      fs.Bool("flip-v", false, "Store texture V as 1-v"),
		Strict:     fs.Bool("strict", false, "Fail on unresolved prototype instances"),
		Binary:     fs.Bool("glb", false, "Write binary glTF"),
		Prototypes: fs.Bool("prototypes", false, "Export prototypes as unattached nodes"),
	}
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.Config
}

// apply applies flags that were set explicitly on the command line.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	f.set.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			if *f.Debug {
				cfg.Logging.Level = "debug"
			}
		case "log":
			cfg.Logging.LogFile = *f.LogFile
		case "flip-v":
			cfg.Build.FlipTextureV = *f.FlipV
		case "strict":
			cfg.Build.StrictPrototypes = *f.Strict
		case "glb":
			cfg.Export.Binary = *f.Binary
		case "prototypes":
			cfg.Export.IncludePrototypes = *f.Prototypes
		}
	})
}
