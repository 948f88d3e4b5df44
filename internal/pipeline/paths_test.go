package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"jpg", "/data/scans/page1.jpg", "/data/scans/binary_page1.png"},
		{"jpeg", "/data/scans/page1.jpeg", "/data/scans/binary_page1.png"},
		{"relative", "pics/WechatIMG25.jpg", "pics/binary_WechatIMG25.png"},
		{"bare file", "photo.jpg", "binary_photo.png"},
		{"dots in stem", "/tmp/a.b.c.jpg", "/tmp/binary_a.b.c.png"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := OutputPath(tc.input)
			if got != tc.expect {
				t.Errorf("OutputPath(%q): got %q, want %q", tc.input, got, tc.expect)
			}
			if filepath.Dir(got) != filepath.Dir(tc.input) {
				t.Errorf("output dir %q differs from input dir %q", filepath.Dir(got), filepath.Dir(tc.input))
			}
			if filepath.Ext(got) != ".png" {
				t.Errorf("output extension: got %q, want .png", filepath.Ext(got))
			}
		})
	}
}

func TestValidateInput(t *testing.T) {
	dir := t.TempDir()

	touch := func(name string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}

	jpgDir := filepath.Join(dir, "folder.jpg")
	if err := os.Mkdir(jpgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	tests := []struct {
		name   string
		path   string
		expect error
	}{
		{"jpg exists", touch("ok.jpg"), nil},
		{"jpeg exists", touch("ok.jpeg"), nil},
		{"png rejected", touch("image.png"), ErrUnsupportedFormat},
		{"bmp rejected", touch("image.bmp"), ErrUnsupportedFormat},
		{"upper case extension rejected", touch("IMAGE.JPG"), ErrUnsupportedFormat},
		{"no extension", touch("noext"), ErrUnsupportedFormat},
		{"missing jpg", filepath.Join(dir, "missing.jpg"), ErrFileNotFound},
		{"directory", jpgDir, ErrFileNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateInput(tc.path)
			if tc.expect == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.expect) {
				t.Errorf("got %v, want %v", err, tc.expect)
			}
		})
	}
}

func TestVerifyOutput(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.png")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	full := filepath.Join(dir, "full.png")
	if err := os.WriteFile(full, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := VerifyOutput(filepath.Join(dir, "absent.png")); !errors.Is(err, ErrOutputMissing) {
		t.Errorf("missing file: got %v, want %v", err, ErrOutputMissing)
	}
	if _, err := VerifyOutput(empty); !errors.Is(err, ErrOutputMissing) {
		t.Errorf("empty file: got %v, want %v", err, ErrOutputMissing)
	}
	size, err := VerifyOutput(full)
	if err != nil {
		t.Fatalf("full file: %v", err)
	}
	if size != 4 {
		t.Errorf("size: got %d, want 4", size)
	}
}
