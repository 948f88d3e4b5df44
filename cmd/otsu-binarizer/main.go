package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"otsu-binarizer/internal/config"
	"otsu-binarizer/internal/display"
	"otsu-binarizer/internal/display/fyneview"
	"otsu-binarizer/internal/logger"
	"otsu-binarizer/internal/opencv/memory"
	"otsu-binarizer/internal/opencv/safe"
	"otsu-binarizer/internal/pipeline"

	"github.com/google/uuid"
)

const (
	AppName    = "otsu-binarizer"
	AppVersion = "1.0.0"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.LookupEnv, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run returns the process exit code: 0 when the output was written and
// verified, 1 for every failure.
func run(ctx context.Context, args []string, lookup config.LookupFunc, stdout, stderr io.Writer) int {
	cfg := config.DefaultConfig()
	if err := cfg.ApplyEnv(lookup); err != nil {
		fmt.Fprintf(stderr, "%s: invalid environment: %v\n", AppName, err)
		return 1
	}

	if err := parseFlags(&cfg, args, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", AppName, err)
		return 1
	}

	if cfg.InputPath == "" {
		fmt.Fprintf(stderr, "%s: no input image; pass -input or a path argument\n", AppName)
		return 1
	}

	level := logger.ParseLevel(cfg.LogLevel, cfg.Debug)
	appLogger := logger.NewSplitLogger(stdout, stderr, level, !isTerminal(stdout)).
		With("run_id", uuid.NewString())

	appLogger.Debug("Main", "starting", map[string]interface{}{
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"log_level":  level.String(),
	})

	memMgr := memory.NewManager(appLogger)

	var presenter display.Presenter
	if cfg.ShowResult {
		p, err := newPresenter(cfg.DisplayBackend, cfg.MaxDisplayHeight, memMgr, appLogger)
		if err != nil {
			appLogger.Error("Main", err, nil)
			return 1
		}
		presenter = p
	}

	processor := pipeline.NewProcessor(appLogger, memMgr, presenter)
	result, err := processor.Run(ctx, cfg.InputPath, pipeline.Options{
		UseOtsu:        cfg.UseOtsu,
		FixedThreshold: cfg.FixedThreshold,
		PNGCompression: cfg.PNGCompression,
		ShowResult:     cfg.ShowResult,
	})
	if err != nil {
		fmt.Fprintf(stderr, "%s: processing failed\n", AppName)
		return 1
	}

	appLogger.Debug("Main", "done", map[string]interface{}{
		"output":     result.OutputPath,
		"elapsed_ms": result.Elapsed.Milliseconds(),
	})

	return 0
}

func parseFlags(cfg *config.Config, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.InputPath, "input", cfg.InputPath, "JPEG image to binarize (.jpg or .jpeg)")
	fs.BoolVar(&cfg.UseOtsu, "otsu", cfg.UseOtsu, "compute the threshold with Otsu's method")
	fs.Float64Var(&cfg.FixedThreshold, "threshold", cfg.FixedThreshold, "fixed threshold 0-255; setting it turns Otsu off unless -otsu is also given")
	fs.IntVar(&cfg.PNGCompression, "compression", cfg.PNGCompression, "PNG compression level 0-9")
	fs.BoolVar(&cfg.ShowResult, "show", cfg.ShowResult, "display original and result until a key is pressed")
	fs.IntVar(&cfg.MaxDisplayHeight, "max-height", cfg.MaxDisplayHeight, "maximum window height")
	fs.StringVar(&cfg.DisplayBackend, "display", cfg.DisplayBackend, "window backend: highgui or fyne")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [options] [image.jpg]\n", AppName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	// an explicit -threshold means fixed mode unless -otsu says otherwise
	if set["threshold"] && !set["otsu"] {
		cfg.UseOtsu = false
	}

	// -input beats a positional path, which beats BINARIZE_INPUT
	if fs.NArg() > 0 && !set["input"] {
		cfg.InputPath = fs.Arg(0)
	}

	return nil
}

// newPresenter picks the window backend by name.
func newPresenter(backend string, maxHeight int, memTracker safe.MemoryTracker, log display.Logger) (display.Presenter, error) {
	switch backend {
	case "", config.BackendHighGUI:
		return display.NewHighGUIPresenter(maxHeight, memTracker, log), nil
	case config.BackendFyne:
		return fyneview.New(maxHeight, memTracker, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidBackend, backend)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
