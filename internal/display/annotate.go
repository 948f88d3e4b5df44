package display

import (
	"fmt"
	"image"
	"image/color"

	"otsu-binarizer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

var (
	thresholdOrigin = image.Pt(10, 30)
	sizeOrigin      = image.Pt(10, 65)
	thresholdColor  = color.RGBA{R: 0, G: 200, B: 0, A: 255}
	sizeColor       = color.RGBA{R: 230, G: 40, B: 40, A: 255}
)

const (
	fontScale     = 0.9
	fontThickness = 2
)

// Annotate renders the binary result as BGR and overlays the threshold and
// the output dimensions. The caller owns the returned Mat.
func Annotate(binary *safe.Mat, threshold float64, memTracker safe.MemoryTracker) (*safe.Mat, error) {
	if err := safe.ValidateColorConversion(binary, gocv.ColorGrayToBGR); err != nil {
		return nil, err
	}

	dst, err := safe.NewMat(binary.Rows(), binary.Cols(), gocv.MatTypeCV8UC3, memTracker, "annotated")
	if err != nil {
		return nil, fmt.Errorf("annotation Mat creation failed: %w", err)
	}

	if err := gocv.CvtColor(binary.GetMat(), dst.Ptr(), gocv.ColorGrayToBGR); err != nil {
		dst.Close()
		return nil, fmt.Errorf("gray to BGR conversion failed: %w", err)
	}

	lines := []struct {
		text   string
		origin image.Point
		color  color.RGBA
	}{
		{fmt.Sprintf("Threshold: %.1f", threshold), thresholdOrigin, thresholdColor},
		{fmt.Sprintf("Size: %dx%d", binary.Cols(), binary.Rows()), sizeOrigin, sizeColor},
	}

	for _, line := range lines {
		if err := gocv.PutText(dst.Ptr(), line.text, line.origin,
			gocv.FontHersheySimplex, fontScale, line.color, fontThickness); err != nil {
			dst.Close()
			return nil, fmt.Errorf("annotation %q failed: %w", line.text, err)
		}
	}

	return dst, nil
}
