package pipeline

import (
	"fmt"
	"os"

	"otsu-binarizer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

type imageSaver struct {
	logger Logger
}

// SavePNG writes mat with the given zlib compression level.
func (s *imageSaver) SavePNG(path string, mat *safe.Mat, compression int) error {
	if err := safe.ValidateMatForOperation(mat, "png encode"); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	s.logger.Debug("ImageSaver", "saving image", map[string]interface{}{
		"path":        path,
		"compression": compression,
		"width":       mat.Cols(),
		"height":      mat.Rows(),
	})

	params := []int{int(gocv.IMWritePngCompression), compression}
	if ok := gocv.IMWriteWithParams(path, mat.GetMat(), params); !ok {
		return fmt.Errorf("%w: %s", ErrEncode, path)
	}

	s.logger.Debug("ImageSaver", "image saved", map[string]interface{}{
		"path": path,
	})

	return nil
}

// VerifyOutput stats path once; a missing or empty file is a failure even
// when the encoder reported success.
func VerifyOutput(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrOutputMissing, path, err)
	}

	if info.Size() == 0 {
		return 0, fmt.Errorf("%w: %s is empty", ErrOutputMissing, path)
	}

	return info.Size(), nil
}
