package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/df07/go-sky-pathtracer/pkg/config"
	"github.com/df07/go-sky-pathtracer/pkg/core"
	"github.com/df07/go-sky-pathtracer/pkg/output"
	"github.com/df07/go-sky-pathtracer/pkg/renderer"
	"github.com/df07/go-sky-pathtracer/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line
type options struct {
	configPath string
	verbose    bool
	help       bool
	overrides  config.Config
}

// parseFlags parses args. Only flags given explicitly end up in the overrides.
func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "Path to a TOML config file")
	sceneName := fs.String("scene", "", "Scene name ("+strings.Join(scene.ListScenes(), ", ")+") or path to a .yaml scene file")
	width := fs.Int("width", 0, "Image width in pixels")
	height := fs.Int("height", 0, "Image height in pixels")
	samples := fs.Int("samples", 0, "Samples per pixel")
	depth := fs.Int("depth", 0, "Maximum bounces per path (0 renders only black)")
	jitter := fs.Float64("jitter", 0.5, "Primary ray jitter in pixels (0 disables)")
	workers := fs.Int("workers", 0, "Number of parallel workers (0 = logical CPU count)")
	seed := fs.Int64("seed", 0, "Base random seed")
	passes := fs.Int("passes", 0, "Number of progressive passes")
	outputDir := fs.String("output", "", "Output directory")
	format := fs.String("format", "", "Output format: png or ppm")
	sun := fs.Bool("sun", false, "Add a sun to the sky")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose (debug) logging")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.help {
		fmt.Fprintln(stderr, "Sky Path Tracer")
		fmt.Fprintln(stderr, "Usage: pathtracer [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Output will be saved to <output>/<scene>/render_<timestamp>.<format>")
		return opts, flag.ErrHelp
	}

	fs.Visit(func(f *flag.Flag) {
		o := &opts.overrides
		switch f.Name {
		case "scene":
			o.Scene = *sceneName
		case "width":
			o.Width = *width
		case "height":
			o.Height = *height
		case "samples":
			o.Samples = *samples
		case "depth":
			o.MaxDepth = depth
		case "jitter":
			o.Jitter = jitter
		case "workers":
			o.Workers = *workers
		case "seed":
			o.Seed = *seed
		case "passes":
			o.Passes = *passes
		case "output":
			o.OutputDir = *outputDir
		case "format":
			o.Format = strings.ToLower(*format)
		case "sun":
			o.Sun = *sun
		}
	})

	return opts, nil
}

// loadConfig layers defaults, the optional config file and the command-line overrides
func loadConfig(opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		fileCfg, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
		if cfg, err = config.Merge(cfg, fileCfg); err != nil {
			return config.Config{}, err
		}
	}

	cfg, err := config.Merge(cfg, opts.overrides)
	if err != nil {
		return config.Config{}, err
	}
	return cfg, cfg.Validate()
}

// createScene resolves the scene and applies the render settings to it
func createScene(cfg config.Config) (*scene.Scene, error) {
	sc, err := scene.NewScene(cfg.Scene)
	if err != nil {
		return nil, err
	}
	if err := cfg.Apply(sc); err != nil {
		return nil, fmt.Errorf("scene %s: %w", sc.Name, err)
	}
	return sc, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded", "config", fmt.Sprintf("%+v", cfg))

	sc, err := createScene(cfg)
	if err != nil {
		return err
	}

	sampling := sc.SamplingConfig
	logger.Info("rendering",
		"scene", sc.Name,
		"width", sampling.Width,
		"height", sampling.Height,
		"samples", sampling.SamplesPerPixel,
		"depth", sampling.MaxDepth,
		"shapes", sc.GetPrimitiveCount())

	frame, stats, err := render(ctx, sc, cfg, renderer.NewSlogLogger(logger))
	if err != nil {
		return err
	}

	logger.Info("render statistics",
		"avgSamples", stats.AverageSamples,
		"minSamples", stats.MinSamples,
		"maxSamples", stats.MaxSamplesUsed,
		"avgBounces", stats.AverageBounces,
		"miss", stats.Terminations.Miss,
		"depthExhausted", stats.Terminations.DepthExhausted,
		"absorbed", stats.Terminations.Absorbed)

	path, err := output.Save(cfg.OutputDir, sc.Name, cfg.Format, frame, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Render saved as %s\n", path)
	return nil
}

// render runs the progressive renderer and returns the final pass
func render(ctx context.Context, sc *scene.Scene, cfg config.Config, logger core.Logger) (*renderer.Frame, renderer.RenderStats, error) {
	width, height := sc.SamplingConfig.Width, sc.SamplingConfig.Height
	pr := renderer.NewProgressiveRaytracer(sc, width, height, cfg.ProgressiveConfig(sc), logger)

	passChan, errChan := pr.RenderProgressive(ctx)

	var last *renderer.PassResult
	for result := range passChan {
		last = &result
	}
	if err := <-errChan; err != nil {
		return nil, renderer.RenderStats{}, err
	}
	if last == nil {
		return nil, renderer.RenderStats{}, errors.New("renderer produced no passes")
	}
	return last.Frame, last.Stats, nil
}
