package filters

import (
	"fmt"

	"otsu-binarizer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// GrayscaleConverter reduces colour images to a single luminance channel
type GrayscaleConverter struct {
	memTracker safe.MemoryTracker
}

// NewGrayscaleConverter creates a new grayscale converter
func NewGrayscaleConverter(memTracker safe.MemoryTracker) *GrayscaleConverter {
	return &GrayscaleConverter{memTracker: memTracker}
}

// Apply returns a new single-channel Mat. Gray input is cloned so the caller
// always owns the result.
func (g *GrayscaleConverter) Apply(input *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(input, "grayscale conversion"); err != nil {
		return nil, err
	}

	if input.Channels() == 1 {
		return input.Clone("gray")
	}

	return g.convertToGrayscale(input)
}

func (g *GrayscaleConverter) convertToGrayscale(src *safe.Mat) (*safe.Mat, error) {
	dst, err := safe.NewMat(src.Rows(), src.Cols(), gocv.MatTypeCV8UC1, g.memTracker, "gray")
	if err != nil {
		return nil, fmt.Errorf("destination Mat creation failed: %w", err)
	}

	srcMat := src.GetMat()

	switch src.Channels() {
	case 3:
		if err := convertColor(srcMat, dst.Ptr(), gocv.ColorBGRToGray); err != nil {
			dst.Close()
			return nil, err
		}
	case 4:
		// BGRA goes through BGR first
		tempBGR := gocv.NewMat()
		defer tempBGR.Close()
		if err := convertColor(srcMat, &tempBGR, gocv.ColorBGRAToBGR); err != nil {
			dst.Close()
			return nil, err
		}
		if err := convertColor(tempBGR, dst.Ptr(), gocv.ColorBGRToGray); err != nil {
			dst.Close()
			return nil, err
		}
	default:
		dst.Close()
		return nil, fmt.Errorf("unsupported channel count for grayscale conversion: %d", src.Channels())
	}

	return dst, nil
}

func convertColor(src gocv.Mat, dst *gocv.Mat, code gocv.ColorConversionCode) error {
	if err := gocv.CvtColor(src, dst, code); err != nil {
		return fmt.Errorf("color conversion %d failed: %w", code, err)
	}
	return nil
}
