package threshold

import (
	"fmt"

	"otsu-binarizer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

const (
	MethodOtsu  = "otsu"
	MethodFixed = "fixed"

	foreground = 255
)

// Params selects between Otsu and a caller-supplied cutoff.
type Params struct {
	UseOtsu bool
	Value   float64
}

func (p Params) Method() string {
	if p.UseOtsu {
		return MethodOtsu
	}
	return MethodFixed
}

func (p Params) Validate() error {
	if p.UseOtsu {
		return nil
	}
	// written so that NaN fails too
	if !(p.Value >= 0 && p.Value <= 255) {
		return fmt.Errorf("fixed threshold must be between 0 and 255, got: %v", p.Value)
	}
	return nil
}

// GlobalBinarizer applies a single global threshold so that pixels strictly
// above it become 255 and every other pixel becomes 0.
type GlobalBinarizer struct {
	memTracker safe.MemoryTracker
}

func NewGlobalBinarizer(memTracker safe.MemoryTracker) *GlobalBinarizer {
	return &GlobalBinarizer{memTracker: memTracker}
}

// Apply returns the binary Mat and the threshold that produced it.
func (b *GlobalBinarizer) Apply(gray *safe.Mat, params Params) (*safe.Mat, float64, error) {
	if err := safe.ValidateSingleChannel(gray, "binarization"); err != nil {
		return nil, 0, err
	}

	if err := params.Validate(); err != nil {
		return nil, 0, err
	}

	dst, err := safe.NewMat(gray.Rows(), gray.Cols(), gocv.MatTypeCV8UC1, b.memTracker, "binary")
	if err != nil {
		return nil, 0, fmt.Errorf("destination Mat creation failed: %w", err)
	}

	thresholdType := gocv.ThresholdBinary
	if params.UseOtsu {
		thresholdType = gocv.ThresholdBinary | gocv.ThresholdOtsu
	}

	computed := gocv.Threshold(gray.GetMat(), dst.Ptr(), float32(params.Value), foreground, thresholdType)

	if !params.UseOtsu {
		// report the caller's value exactly rather than the float32 round trip
		return dst, params.Value, nil
	}

	return dst, float64(computed), nil
}
