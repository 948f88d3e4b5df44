package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	BackendHighGUI = "highgui"
	BackendFyne    = "fyne"
)

var (
	ErrInvalidThreshold   = errors.New("threshold must be between 0 and 255")
	ErrInvalidCompression = errors.New("png compression must be between 0 and 9")
	ErrInvalidBackend     = errors.New("unknown display backend")
	ErrInvalidHeight      = errors.New("max display height must be positive")
)

// Config holds the options of a single binarization run
type Config struct {
	InputPath string

	// Thresholding
	UseOtsu        bool    // Compute the threshold from the histogram
	FixedThreshold float64 // Used when UseOtsu is false

	// Output
	PNGCompression int // 0 (none) to 9 (max)

	// Display
	ShowResult       bool
	MaxDisplayHeight int    // Windows are scaled down to at most this height
	DisplayBackend   string // highgui or fyne

	// Logging
	LogLevel string
	Debug    bool
}

// DefaultConfig returns Otsu thresholding, mid-range PNG compression and no display
func DefaultConfig() Config {
	return Config{
		UseOtsu:          true,
		FixedThreshold:   127,
		PNGCompression:   3,
		ShowResult:       false,
		MaxDisplayHeight: 800,
		DisplayBackend:   BackendHighGUI,
		LogLevel:         "info",
	}
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays BINARIZE_* variables plus LOG_LEVEL and DEBUG.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup("BINARIZE_INPUT"); ok {
		c.InputPath = v
	}

	if v, ok := lookup("BINARIZE_OTSU"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("BINARIZE_OTSU: %w", err)
		}
		c.UseOtsu = b
	}

	if v, ok := lookup("BINARIZE_THRESHOLD"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("BINARIZE_THRESHOLD: %w", err)
		}
		c.FixedThreshold = f
	}

	if v, ok := lookup("BINARIZE_SHOW"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("BINARIZE_SHOW: %w", err)
		}
		c.ShowResult = b
	}

	if v, ok := lookup("BINARIZE_MAX_DISPLAY_HEIGHT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BINARIZE_MAX_DISPLAY_HEIGHT: %w", err)
		}
		c.MaxDisplayHeight = n
	}

	if v, ok := lookup("BINARIZE_PNG_COMPRESSION"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BINARIZE_PNG_COMPRESSION: %w", err)
		}
		c.PNGCompression = n
	}

	if v, ok := lookup("BINARIZE_DISPLAY"); ok {
		c.DisplayBackend = strings.ToLower(strings.TrimSpace(v))
	}

	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = v
	}

	if v, ok := lookup("DEBUG"); ok {
		c.Debug = v == "1"
	}

	return nil
}

// thresholdInRange is false for NaN as well as out-of-range values.
func thresholdInRange(v float64) bool {
	return v >= 0 && v <= 255
}

// Validate checks ranges. The input path is checked later by the pipeline
// so that format and existence failures are reported the same way for every
// caller.
func (c Config) Validate() error {
	if !c.UseOtsu && !thresholdInRange(c.FixedThreshold) {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, c.FixedThreshold)
	}

	if c.PNGCompression < 0 || c.PNGCompression > 9 {
		return fmt.Errorf("%w: got %d", ErrInvalidCompression, c.PNGCompression)
	}

	if c.ShowResult {
		if c.MaxDisplayHeight <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidHeight, c.MaxDisplayHeight)
		}
		switch c.DisplayBackend {
		case BackendHighGUI, BackendFyne:
		default:
			return fmt.Errorf("%w: %q", ErrInvalidBackend, c.DisplayBackend)
		}
	}

	return nil
}
