package safe

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestValidateColorConversion(t *testing.T) {
	tests := []struct {
		name    string
		matType gocv.MatType
		code    gocv.ColorConversionCode
		wantErr bool
	}{
		{"bgr to gray", gocv.MatTypeCV8UC3, gocv.ColorBGRToGray, false},
		{"gray to gray code", gocv.MatTypeCV8UC1, gocv.ColorBGRToGray, true},
		{"gray to bgr", gocv.MatTypeCV8UC1, gocv.ColorGrayToBGR, false},
		{"bgr to bgr code", gocv.MatTypeCV8UC3, gocv.ColorGrayToBGR, true},
		{"bgra to bgr", gocv.MatTypeCV8UC4, gocv.ColorBGRAToBGR, false},
		{"bgr with alpha code", gocv.MatTypeCV8UC3, gocv.ColorBGRAToBGR, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mat, err := NewMat(4, 4, tc.matType, nil, "src")
			if err != nil {
				t.Fatalf("NewMat: %v", err)
			}
			defer mat.Close()

			err = ValidateColorConversion(mat, tc.code)
			if tc.wantErr && err == nil {
				t.Error("expected channel mismatch error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateMatForOperation_ClosedMat(t *testing.T) {
	mat, err := NewMat(2, 2, gocv.MatTypeCV8UC1, nil, "closed")
	if err != nil {
		t.Fatalf("NewMat: %v", err)
	}
	mat.Close()
	mat.Close()

	if err := ValidateMatForOperation(mat, "test"); err == nil {
		t.Error("closed Mat should fail validation")
	}
	if err := ValidateMatForOperation(nil, "test"); err == nil {
		t.Error("nil Mat should fail validation")
	}
}

func TestValidateSingleChannel(t *testing.T) {
	colour, err := NewMat(2, 2, gocv.MatTypeCV8UC3, nil, "colour")
	if err != nil {
		t.Fatalf("NewMat: %v", err)
	}
	defer colour.Close()

	if err := ValidateSingleChannel(colour, "binarization"); err == nil {
		t.Error("3 channel Mat should be rejected")
	}
}
