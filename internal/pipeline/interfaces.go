package pipeline

import (
	"time"

	"otsu-binarizer/internal/debug/timing"
	"otsu-binarizer/internal/opencv/safe"
)

// imageWriter encodes a Mat to path.
type imageWriter interface {
	SavePNG(path string, mat *safe.Mat, compression int) error
}

// Options controls one run.
type Options struct {
	UseOtsu        bool
	FixedThreshold float64
	PNGCompression int
	ShowResult     bool
}

// Result describes a run. OutputPath is empty whenever Run returns an error.
type Result struct {
	InputPath  string
	OutputPath string
	Width      int
	Height     int
	Threshold  float64
	Method     string
	Elapsed    time.Duration
	Stages     []timing.Stage
}

// Succeeded reports whether the run produced an output file.
func (r Result) Succeeded() bool {
	return r.OutputPath != ""
}
