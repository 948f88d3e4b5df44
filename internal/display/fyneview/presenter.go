// Package fyneview shows a frame in fyne windows. It lives apart from display
// so headless builds of the pipeline do not link the GLFW toolkit.
package fyneview

import (
	"fmt"
	"image"
	"sync"

	"otsu-binarizer/internal/display"
	"otsu-binarizer/internal/opencv/safe"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
)

const AppID = "com.imageprocessing.otsu-binarizer"

// Presenter shows both images in fyne windows. Any typed key quits the app,
// which closes every window.
type Presenter struct {
	maxHeight  int
	memTracker safe.MemoryTracker
	logger     display.Logger
}

func New(maxHeight int, memTracker safe.MemoryTracker, logger display.Logger) *Presenter {
	return &Presenter{
		maxHeight:  maxHeight,
		memTracker: memTracker,
		logger:     logger,
	}
}

func (p *Presenter) Present(frame display.Frame) error {
	if err := display.ValidateFrame(frame); err != nil {
		return err
	}

	annotated, err := display.Annotate(frame.Binary, frame.Threshold, p.memTracker)
	if err != nil {
		return err
	}
	defer annotated.Close()

	originalImg, err := frame.Original.ToImage()
	if err != nil {
		return fmt.Errorf("failed to convert original for display: %w", err)
	}

	annotatedImg, err := annotated.ToImage()
	if err != nil {
		return fmt.Errorf("failed to convert result for display: %w", err)
	}

	scale, size := display.Fit(frame.Original.Cols(), frame.Original.Rows(), p.maxHeight)
	originalTitle, binaryTitle := display.WindowTitles(frame.Title)

	p.logger.Debug("FynePresenter", "opening windows", map[string]interface{}{
		"scale":  scale,
		"width":  size.Width,
		"height": size.Height,
	})

	fyneApp := app.NewWithID(AppID)

	var once sync.Once
	quit := func() {
		once.Do(fyneApp.Quit)
	}

	originalWindow := newImageWindow(fyneApp, originalTitle, originalImg, size, quit)
	originalWindow.SetMaster()
	newImageWindow(fyneApp, binaryTitle, annotatedImg, size, quit)

	p.logger.Info("FynePresenter", "press any key to close", nil)
	fyneApp.Run()

	p.logger.Debug("FynePresenter", "windows dismissed", nil)
	return nil
}

func newImageWindow(fyneApp fyne.App, title string, img image.Image, size display.Size, quit func()) fyne.Window {
	picture := canvas.NewImageFromImage(img)
	picture.FillMode = canvas.ImageFillContain
	picture.ScaleMode = canvas.ImageScaleSmooth

	window := fyneApp.NewWindow(title)
	window.SetContent(picture)
	window.Resize(fyne.NewSize(float32(size.Width), float32(size.Height)))
	window.Canvas().SetOnTypedKey(func(*fyne.KeyEvent) { quit() })
	window.Canvas().SetOnTypedRune(func(rune) { quit() })
	window.Show()

	return window
}
