package threshold

import (
	"math"
	"testing"

	"otsu-binarizer/internal/opencv/memory"
	"otsu-binarizer/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// ramp returns a 1x256 gray Mat holding every intensity once.
func ramp(t *testing.T, tracker safe.MemoryTracker) *safe.Mat {
	t.Helper()
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	mat, err := gocv.NewMatFromBytes(1, 256, gocv.MatTypeCV8UC1, data)
	if err != nil {
		t.Fatalf("NewMatFromBytes: %v", err)
	}
	// NewMatFromBytes shares data; clone so the Mat owns its pixels
	owned := mat.Clone()
	mat.Close()

	sm, err := safe.Wrap(owned, tracker, "ramp")
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	return sm
}

// bimodal returns a gray Mat split into a dark and a bright half.
func bimodal(t *testing.T, tracker safe.MemoryTracker) *safe.Mat {
	t.Helper()
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(40, 0, 0, 0), 10, 20, gocv.MatTypeCV8UC1)
	for row := 0; row < 10; row++ {
		for col := 10; col < 20; col++ {
			mat.SetUCharAt(row, col, 210)
		}
	}
	sm, err := safe.Wrap(mat, tracker, "bimodal")
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	return sm
}

func TestGlobalBinarizer_Fixed(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"zero", 0},
		{"middle", 100},
		{"fractional", 127.5},
		{"max", 255},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tracker := memory.NewManager(nil)
			gray := ramp(t, tracker)
			defer gray.Close()

			binary, used, err := NewGlobalBinarizer(tracker).Apply(gray, Params{Value: tc.value})
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			defer binary.Close()

			if used != tc.value {
				t.Errorf("threshold: got %v, want %v", used, tc.value)
			}

			pixels, err := binary.Bytes()
			if err != nil {
				t.Fatalf("Bytes: %v", err)
			}
			for i, v := range pixels {
				want := uint8(0)
				if float64(i) > tc.value {
					want = 255
				}
				if v != want {
					t.Fatalf("intensity %d: got %d, want %d", i, v, want)
				}
			}
		})
	}
}

func TestGlobalBinarizer_Otsu(t *testing.T) {
	tracker := memory.NewManager(nil)
	gray := bimodal(t, tracker)
	defer gray.Close()

	binarizer := NewGlobalBinarizer(tracker)
	binary, used, err := binarizer.Apply(gray, Params{UseOtsu: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	defer binary.Close()

	if used < 40 || used >= 210 {
		t.Errorf("Otsu threshold %v should separate 40 from 210", used)
	}

	pixels, err := binary.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	for i, v := range pixels {
		want := uint8(0)
		if i%20 >= 10 {
			want = 255
		}
		if v != want {
			t.Fatalf("pixel %d: got %d, want %d", i, v, want)
		}
	}

	again, usedAgain, err := binarizer.Apply(gray, Params{UseOtsu: true})
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	defer again.Close()
	if usedAgain != used {
		t.Errorf("Otsu threshold not deterministic: %v then %v", used, usedAgain)
	}
}

func TestGlobalBinarizer_Rejects(t *testing.T) {
	tracker := memory.NewManager(nil)
	gray := ramp(t, tracker)
	defer gray.Close()

	colour, err := safe.NewMat(4, 4, gocv.MatTypeCV8UC3, tracker, "colour")
	if err != nil {
		t.Fatalf("NewMat: %v", err)
	}
	defer colour.Close()

	binarizer := NewGlobalBinarizer(tracker)

	if _, _, err := binarizer.Apply(gray, Params{Value: -1}); err == nil {
		t.Error("expected error for negative threshold")
	}
	if _, _, err := binarizer.Apply(gray, Params{Value: 256}); err == nil {
		t.Error("expected error for threshold above 255")
	}
	if _, _, err := binarizer.Apply(gray, Params{Value: math.NaN()}); err == nil {
		t.Error("expected error for NaN threshold")
	}
	if _, _, err := binarizer.Apply(colour, Params{UseOtsu: true}); err == nil {
		t.Error("expected error for colour input")
	}

	if stats := tracker.GetStats(); stats.ActiveMats != 2 {
		t.Errorf("ActiveMats: got %d, want 2", stats.ActiveMats)
	}
}

func TestParams_Method(t *testing.T) {
	if got := (Params{UseOtsu: true}).Method(); got != MethodOtsu {
		t.Errorf("got %q, want %q", got, MethodOtsu)
	}
	if got := (Params{}).Method(); got != MethodFixed {
		t.Errorf("got %q, want %q", got, MethodFixed)
	}
}
