package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"otsu-binarizer/internal/debug/timing"
	"otsu-binarizer/internal/display"
	"otsu-binarizer/internal/opencv/memory"
	"otsu-binarizer/internal/opencv/safe"
	"otsu-binarizer/internal/processing/filters"
	"otsu-binarizer/internal/processing/threshold"
)

// Processor runs validate, load, grayscale, binarize, save, verify and the
// optional display step in that order. Any failure ends the run.
type Processor struct {
	loader    *imageLoader
	saver     imageWriter
	grayscale *filters.GrayscaleConverter
	binarizer *threshold.GlobalBinarizer
	presenter display.Presenter
	memory    *memory.Manager
	logger    Logger
}

// NewProcessor wires the stages. presenter may be nil when nothing is shown.
func NewProcessor(logger Logger, memMgr *memory.Manager, presenter display.Presenter) *Processor {
	if memMgr == nil {
		memMgr = memory.NewManager(nil)
	}

	return &Processor{
		loader:    &imageLoader{memTracker: memMgr, logger: logger},
		saver:     &imageSaver{logger: logger},
		grayscale: filters.NewGrayscaleConverter(memMgr),
		binarizer: threshold.NewGlobalBinarizer(memMgr),
		presenter: presenter,
		memory:    memMgr,
		logger:    logger,
	}
}

// Run binarizes inputPath into OutputPath(inputPath).
func (p *Processor) Run(ctx context.Context, inputPath string, opts Options) (result Result, err error) {
	params := threshold.Params{UseOtsu: opts.UseOtsu, Value: opts.FixedThreshold}
	tracker := timing.NewTracker()
	start := time.Now()
	stage := "validate"

	result = Result{
		InputPath: inputPath,
		Method:    params.Method(),
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrLibraryPanic, r)
		}

		result.Elapsed = time.Since(start)
		result.Stages = tracker.Stages()

		if err != nil {
			result.OutputPath = ""
			fields := map[string]interface{}{
				"input": absPath(inputPath),
				"stage": stage,
			}
			if errors.Is(err, ErrUnsupportedFormat) {
				fields["extension"] = filepath.Ext(inputPath)
			}
			p.logger.Error("Processor", err, fields)
		}

		if leaks := p.memory.Leaks(); len(leaks) > 0 {
			p.logger.Warning("Processor", "image buffers still allocated after run", map[string]interface{}{
				"tags": leaks,
			})
		}
	}()

	if err = params.Validate(); err != nil {
		return result, err
	}

	if err = p.step(ctx, tracker, stage, func() error {
		return ValidateInput(inputPath)
	}); err != nil {
		return result, err
	}

	var original *safe.Mat
	stage = "load"
	if err = p.step(ctx, tracker, stage, func() error {
		var loadErr error
		original, loadErr = p.loader.Load(inputPath)
		return loadErr
	}); err != nil {
		return result, err
	}
	defer original.Close()

	var gray *safe.Mat
	stage = "grayscale"
	if err = p.step(ctx, tracker, stage, func() error {
		var grayErr error
		gray, grayErr = p.grayscale.Apply(original)
		return grayErr
	}); err != nil {
		return result, err
	}
	defer gray.Close()

	var binary *safe.Mat
	var value float64
	stage = "binarize"
	if err = p.step(ctx, tracker, stage, func() error {
		var binErr error
		binary, value, binErr = p.binarizer.Apply(gray, params)
		return binErr
	}); err != nil {
		return result, err
	}
	defer binary.Close()

	p.logger.Info("Processor", "threshold applied", map[string]interface{}{
		"threshold": value,
		"method":    params.Method(),
	})

	outputPath := OutputPath(inputPath)
	stage = "save"
	if err = p.step(ctx, tracker, stage, func() error {
		return p.saver.SavePNG(outputPath, binary, opts.PNGCompression)
	}); err != nil {
		return result, err
	}

	var size int64
	stage = "verify"
	if err = p.step(ctx, tracker, stage, func() error {
		var verifyErr error
		size, verifyErr = VerifyOutput(outputPath)
		return verifyErr
	}); err != nil {
		return result, err
	}

	result.OutputPath = outputPath
	result.Width = binary.Cols()
	result.Height = binary.Rows()
	result.Threshold = value

	p.logger.Info("Processor", "binarization complete", map[string]interface{}{
		"input":      absPath(inputPath),
		"output":     absPath(outputPath),
		"width":      result.Width,
		"height":     result.Height,
		"threshold":  value,
		"method":     params.Method(),
		"size_bytes": size,
		"stages_ms":  tracker.Total().Milliseconds(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if !opts.ShowResult {
		return result, nil
	}

	if p.presenter == nil {
		p.logger.Warning("Processor", "display requested but no presenter configured", nil)
		return result, nil
	}

	stage = "display"
	err = p.step(ctx, tracker, stage, func() error {
		return p.presenter.Present(display.Frame{
			Title:     filepath.Base(inputPath),
			Original:  original,
			Binary:    binary,
			Threshold: value,
		})
	})

	return result, err
}

func (p *Processor) step(ctx context.Context, tracker TimingTracker, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("aborted before %s: %w", name, err)
	}

	stageCtx := tracker.StartTimingContext(ctx, name)
	err := fn()
	duration := tracker.EndTiming(stageCtx)

	p.logger.Debug("Processor", "stage finished", map[string]interface{}{
		"stage":       name,
		"duration_ms": duration.Milliseconds(),
		"ok":          err == nil,
	})

	return err
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
