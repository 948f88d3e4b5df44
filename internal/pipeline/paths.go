package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const outputPrefix = "binary_"

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
}

// ValidateInput accepts existing .jpg/.jpeg files. The extension match is
// case-sensitive.
func ValidateInput(path string) error {
	ext := filepath.Ext(path)
	if !supportedExtensions[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}

	return nil
}

// OutputPath derives <dir>/binary_<stem>.png from the input path.
func OutputPath(input string) string {
	dir := filepath.Dir(input)
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, outputPrefix+stem+".png")
}
