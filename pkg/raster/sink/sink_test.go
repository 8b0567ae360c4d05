package sink

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/matzehuels/gridtile/pkg/errors"
	"github.com/matzehuels/gridtile/pkg/raster"
)

func testCanvas() *raster.Canvas {
	cv := raster.NewCanvas(4, 4, raster.White)
	cv.SetPixel(0, 0, raster.Black)
	cv.SetPixel(3, 3, raster.Gray)
	return cv
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"bmp", false},
		{"tiff", false},
		{"jpeg", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) wrong code: %v", tt.format, err)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"out/gbw-1.png", FormatPNG, false},
		{"out/gbw-1.PNG", FormatPNG, false},
		{"gbw.bmp", FormatBMP, false},
		{"gbw.tif", FormatTIFF, false},
		{"gbw.tiff", FormatTIFF, false},
		{"gbw.jpg", "", true},
		{"gbw", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q, wantErr %v", tt.path, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestOutputPath(t *testing.T) {
	if got := OutputPath("puzzle_images", "gbw-7", FormatPNG); got != filepath.Join("puzzle_images", "gbw-7.png") {
		t.Errorf("OutputPath() = %q", got)
	}
	if got := OutputPath("", "gbw-7", FormatTIFF); got != "gbw-7.tif" {
		t.Errorf("OutputPath() = %q", got)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cv := testCanvas()
	decoders := map[string]func([]byte) (image.Image, error){
		FormatPNG:  func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) },
		FormatBMP:  func(b []byte) (image.Image, error) { return bmp.Decode(bytes.NewReader(b)) },
		FormatTIFF: func(b []byte) (image.Image, error) { return tiff.Decode(bytes.NewReader(b)) },
	}

	for format, decode := range decoders {
		t.Run(format, func(t *testing.T) {
			data, err := Bytes(cv, format)
			if err != nil {
				t.Fatalf("Bytes() error: %v", err)
			}
			img, err := decode(data)
			if err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
				t.Fatalf("bounds = %v", img.Bounds())
			}
			if r, _, _, _ := img.At(0, 0).RGBA(); r != 0 {
				t.Errorf("pixel (0,0) red = %d, want 0", r)
			}
			if r, _, _, _ := img.At(1, 0).RGBA(); r != 0xffff {
				t.Errorf("pixel (1,0) red = %d, want 0xffff", r)
			}
		})
	}
}

func TestEncodeScale(t *testing.T) {
	data, err := Bytes(testCanvas(), FormatPNG, WithScale(3))
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 12 {
		t.Fatalf("scaled bounds = %v, want 12x12", img.Bounds())
	}
	// The black corner pixel becomes a 3x3 block.
	for y := range 3 {
		for x := range 3 {
			if r, _, _, _ := img.At(x, y).RGBA(); r != 0 {
				t.Errorf("pixel (%d,%d) should be black", x, y)
			}
		}
	}
	if r, _, _, _ := img.At(3, 0).RGBA(); r != 0xffff {
		t.Error("pixel (3,0) should be white")
	}
}

func TestEncodeInvalidFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testCanvas(), "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Encode(gif) error = %v, want INVALID_FORMAT", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "gbw-1.png")
	if err := WriteFile(path, testCanvas()); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("written file is not a PNG: %v", err)
	}
}

func TestWriteFilePropagatesIOError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	// Parent "directory" is a regular file.
	err := WriteFile(filepath.Join(blocker, "out.png"), testCanvas())
	if err == nil {
		t.Fatal("expected an error writing below a regular file")
	}
	if errors.GetCode(err) != "" {
		t.Errorf("I/O errors should be propagated unchanged, got %v", err)
	}
}
