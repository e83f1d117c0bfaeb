// rwxtool is a CLI utility for building, converting and exporting RWX models.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/rwxforge/internal/config"
	"github.com/Faultbox/rwxforge/internal/export"
	"github.com/Faultbox/rwxforge/internal/logger"
	"github.com/Faultbox/rwxforge/pkg/builder"
	"github.com/Faultbox/rwxforge/pkg/formats"
	"github.com/Faultbox/rwxforge/pkg/model"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "convert":
		cmdConvert(args)
	case "export":
		cmdExport(args)
	case "validate", "check":
		cmdValidate(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`rwxtool - RWX model utility

Usage:
  rwxtool <command> [options]

Commands:
  info <model>                   Show model statistics
  convert <file.rwx> <out.yaml>  Build a model and save it as YAML
  export <model> <out.glb>       Export a model to glTF (.gltf) or GLB (.glb)
  validate <model>...            Build models and report errors

Models are read from .rwx scripts or from YAML saved by convert.

Options (all commands):
  -config <file>   Config file (default ./rwxtool.yaml)
  -debug           Enable debug logging
  -log <file>      Write logs to file
  -flip-v          Store texture V as 1-v
  -strict          Fail on unresolved prototype instances
  -glb             Write binary glTF
  -prototypes      Export prototypes as unattached nodes

Examples:
  rwxtool info chair.rwx
  rwxtool convert chair.rwx chair.yaml
  rwxtool export -flip-v chair.rwx chair.glb
  rwxtool validate models/*.rwx`)
}

// setup parses the common flags, loads config and starts logging.
func setup(name string, args []string) (*config.Config, []string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		fail(err)
	}

	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.FileConfig{
			Path:       cfg.Logging.LogFile,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		}
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		fail(err)
	}
	return cfg, fs.Args()
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	logger.Sync()
	os.Exit(1)
}

// loadModel builds path as an RWX script, or loads it as saved YAML.
func loadModel(path string, cfg *config.Config) (*model.Model, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return model.LoadFile(path)
	default:
		return formats.ParseRWXFile(path,
			builder.WithLogger(logger.Named("builder")),
			builder.WithFlipTextureV(cfg.Build.FlipTextureV))
	}
}

func cmdInfo(args []string) {
	cfg, rest := setup("info", args)
	defer logger.Sync()

	if len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rwxtool info <model>")
		os.Exit(1)
	}

	m, err := loadModel(rest[0], cfg)
	if err != nil {
		fail(err)
	}
	printInfo(os.Stdout, rest[0], m)
}

func printInfo(w io.Writer, name string, m *model.Model) {
	st := m.Stats()
	fmt.Fprintf(w, "Model:      %s\n", name)
	fmt.Fprintf(w, "Materials:  %d\n", st.Materials)
	fmt.Fprintf(w, "Clumps:     %d\n", st.Clumps)
	fmt.Fprintf(w, "Prototypes: %d\n", st.Prototypes)
	fmt.Fprintf(w, "Primitives: %d\n", st.Primitives)
	fmt.Fprintf(w, "Instances:  %d\n", st.Instances)
	fmt.Fprintf(w, "Vertices:   %d\n", st.Vertices)
	fmt.Fprintf(w, "Faces:      %d\n", st.Faces)
	fmt.Fprintf(w, "Triangles:  %d\n", st.Triangles)
	if m.AxisAlignment != model.AxisAlignmentNone {
		fmt.Fprintf(w, "Alignment:  %s\n", m.AxisAlignment)
	}

	if len(m.Prototypes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Prototypes:")
		for _, p := range m.Prototypes {
			fmt.Fprintf(w, "  %-20s %d vertices, %d primitives\n", p.Name, len(p.Vertices), len(p.Primitives))
		}
	}
}

func cmdConvert(args []string) {
	cfg, rest := setup("convert", args)
	defer logger.Sync()

	if len(rest) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: rwxtool convert <file.rwx> <out.yaml>")
		os.Exit(1)
	}

	m, err := loadModel(rest[0], cfg)
	if err != nil {
		fail(err)
	}
	if err := m.SaveFile(rest[1]); err != nil {
		fail(err)
	}
	logger.Info("model saved", zap.String("input", rest[0]), zap.String("output", rest[1]))
}

func cmdExport(args []string) {
	cfg, rest := setup("export", args)
	defer logger.Sync()

	if len(rest) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: rwxtool export <model> <out.glb>")
		os.Exit(1)
	}

	m, err := loadModel(rest[0], cfg)
	if err != nil {
		fail(err)
	}

	binary := cfg.Export.Binary
	switch strings.ToLower(filepath.Ext(rest[1])) {
	case ".glb":
		binary = true
	case ".gltf":
		binary = false
	}

	opts := export.Options{
		Binary:            binary,
		IncludePrototypes: cfg.Export.IncludePrototypes,
		Logger:            logger.Named("export"),
	}
	if err := export.WriteFile(rest[1], m, opts); err != nil {
		fail(err)
	}
	logger.Info("model exported",
		zap.String("input", rest[0]),
		zap.String("output", rest[1]),
		zap.Bool("binary", binary))
}

func cmdValidate(args []string) {
	cfg, rest := setup("validate", args)
	defer logger.Sync()

	if len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rwxtool validate <model>...")
		os.Exit(1)
	}

	failed := 0
	for _, path := range rest {
		if err := validate(path, cfg); err != nil {
			fmt.Printf("FAIL %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("ok   %s\n", path)
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d model(s) failed\n", failed, len(rest))
		logger.Sync()
		os.Exit(1)
	}
}

func validate(path string, cfg *config.Config) error {
	m, err := loadModel(path, cfg)
	if err != nil {
		return err
	}
	if cfg.Build.StrictPrototypes {
		return m.ResolveInstances()
	}
	return nil
}
