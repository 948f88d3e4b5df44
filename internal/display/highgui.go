package display

import (
	"fmt"

	"otsu-binarizer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// HighGUIPresenter opens OpenCV windows and waits on WaitKey(0).
type HighGUIPresenter struct {
	maxHeight  int
	memTracker safe.MemoryTracker
	logger     Logger
}

func NewHighGUIPresenter(maxHeight int, memTracker safe.MemoryTracker, logger Logger) *HighGUIPresenter {
	return &HighGUIPresenter{
		maxHeight:  maxHeight,
		memTracker: memTracker,
		logger:     logger,
	}
}

func (p *HighGUIPresenter) Present(frame Frame) (err error) {
	if err := ValidateFrame(frame); err != nil {
		return err
	}

	annotated, err := Annotate(frame.Binary, frame.Threshold, p.memTracker)
	if err != nil {
		return err
	}
	defer annotated.Close()

	scale, size := Fit(frame.Original.Cols(), frame.Original.Rows(), p.maxHeight)
	originalTitle, binaryTitle := WindowTitles(frame.Title)

	p.logger.Debug("HighGUIPresenter", "opening windows", map[string]interface{}{
		"scale":  scale,
		"width":  size.Width,
		"height": size.Height,
	})

	original, err := openWindow(originalTitle, frame.Original, size)
	defer closeWindow(original, &err)
	if err != nil {
		return err
	}

	result, err := openWindow(binaryTitle, annotated, size)
	defer closeWindow(result, &err)
	if err != nil {
		return err
	}

	p.logger.Info("HighGUIPresenter", "press any key to close", nil)
	key := result.WaitKey(0)

	p.logger.Debug("HighGUIPresenter", "windows dismissed", map[string]interface{}{
		"key": key,
	})

	return nil
}

// openWindow always returns the window so the caller can close it, even when
// showing the image failed.
func openWindow(title string, img *safe.Mat, size Size) (*gocv.Window, error) {
	window := gocv.NewWindow(title)

	if err := window.SetWindowProperty(gocv.WindowPropertyAutosize, gocv.WindowNormal); err != nil {
		return window, fmt.Errorf("window %q: set property: %w", title, err)
	}
	if err := window.ResizeWindow(size.Width, size.Height); err != nil {
		return window, fmt.Errorf("window %q: resize: %w", title, err)
	}
	if err := window.IMShow(img.GetMat()); err != nil {
		return window, fmt.Errorf("window %q: show: %w", title, err)
	}

	return window, nil
}

func closeWindow(window *gocv.Window, errp *error) {
	if closeErr := window.Close(); closeErr != nil && *errp == nil {
		*errp = fmt.Errorf("close window: %w", closeErr)
	}
}
