package pipeline

import (
	"fmt"

	"otsu-binarizer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

type imageLoader struct {
	memTracker safe.MemoryTracker
	logger     Logger
}

// Load decodes path as a 3-channel BGR image.
func (l *imageLoader) Load(path string) (*safe.Mat, error) {
	l.logger.Debug("ImageLoader", "loading image", map[string]interface{}{
		"path": path,
	})

	mat := gocv.IMRead(path, gocv.IMReadColor)
	safeMat, err := safe.Wrap(mat, l.memTracker, "original")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	l.logger.Info("ImageLoader", "image loaded", map[string]interface{}{
		"width":    safeMat.Cols(),
		"height":   safeMat.Rows(),
		"channels": safeMat.Channels(),
		"mat_id":   safeMat.ID(),
	})

	return safeMat, nil
}
