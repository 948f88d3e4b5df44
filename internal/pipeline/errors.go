package pipeline

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrFileNotFound      = errors.New("file not found")
	ErrDecode            = errors.New("cannot read image")
	ErrEncode            = errors.New("cannot save image")
	ErrOutputMissing     = errors.New("critical: output not created")
	ErrLibraryPanic      = errors.New("image library failure")
)
