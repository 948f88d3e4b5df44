package display

import (
	"otsu-binarizer/internal/opencv/safe"
)

// Logger is the subset of the application logger the presenters use.
type Logger interface {
	Debug(component string, message string, fields map[string]interface{})
	Info(component string, message string, fields map[string]interface{})
}

// Frame is what gets shown after a successful run. Original and Binary stay
// owned by the caller.
type Frame struct {
	Title     string
	Original  *safe.Mat
	Binary    *safe.Mat
	Threshold float64
}

// Presenter shows a frame and blocks until the user dismisses it.
type Presenter interface {
	Present(frame Frame) error
}

// WindowTitles returns the original and result window titles for a file name.
func WindowTitles(title string) (string, string) {
	return "Original - " + title, "Binary - " + title
}

// ValidateFrame checks that both images are still open and that the result
// is single-channel.
func ValidateFrame(frame Frame) error {
	if err := safe.ValidateMatForOperation(frame.Original, "display original"); err != nil {
		return err
	}
	return safe.ValidateSingleChannel(frame.Binary, "display binary")
}
