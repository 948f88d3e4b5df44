package display

// DefaultMaxHeight is the tallest a window is opened at.
const DefaultMaxHeight = 800

// Size is a window size in pixels.
type Size struct {
	Width  int
	Height int
}

// Fit returns the factor and window size that bring height down to
// maxHeight, keeping the aspect ratio. Images already within bounds keep a
// factor of 1.0; nothing is ever enlarged.
func Fit(width, height, maxHeight int) (float64, Size) {
	if maxHeight <= 0 {
		maxHeight = DefaultMaxHeight
	}

	if height <= maxHeight {
		return 1.0, Size{Width: width, Height: height}
	}

	scale := float64(maxHeight) / float64(height)
	return scale, Size{
		Width:  int(float64(width) * scale),
		Height: maxHeight,
	}
}
