// Package sink encodes rendered canvases into image files.
//
// # Formats
//
//   - png: the default, lossless, what the publishing site serves
//   - bmp: uncompressed, for print tooling that wants raw pixels
//   - tiff: lossless, for print layouts
//
// BMP and TIFF come from golang.org/x/image; PNG from image/png.
//
// # Scaling
//
// [WithScale] enlarges the image by an integer factor using
// nearest-neighbour sampling, so cell edges and grid lines stay crisp:
//
//	err := sink.Encode(w, canvas, sink.FormatPNG, sink.WithScale(2))
//
// Encoder and I/O errors are returned to the caller; the sink never retries
// or falls back to another format.
package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/matzehuels/gridtile/pkg/errors"
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatPNG

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatBMP:  true,
	FormatTIFF: true,
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, bmp, tiff)", format)
	}
	return nil
}

// Ext returns the file extension for a format, including the dot.
func Ext(format string) string {
	if format == FormatTIFF {
		return ".tif"
	}
	return "." + format
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer image format from %q", path)
	}
}

// OutputPath returns "<dir>/<id><ext>" for a puzzle.
func OutputPath(dir, id, format string) string {
	return filepath.Join(dir, id+Ext(format))
}

// Option configures encoding.
type Option func(*encoder)

type encoder struct {
	scale int
}

// WithScale enlarges the output by an integer factor. Values below 1 are
// treated as 1.
func WithScale(n int) Option {
	return func(e *encoder) { e.scale = n }
}

// Encode writes img to w in format.
func Encode(w io.Writer, img image.Image, format string, opts ...Option) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}
	e := encoder{scale: 1}
	for _, opt := range opts {
		opt(&e)
	}

	if c, ok := img.(rgbaConverter); ok {
		img = c.RGBA()
	}
	img = scaled(img, e.scale)
	switch format {
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(w, img)
	}
}

// Bytes encodes img into memory.
func Bytes(img image.Image, format string, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes img to path. The format is inferred from the extension.
func WriteFile(path string, img image.Image, opts ...Option) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Bytes(img, format, opts...)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return WriteBytes(path, data)
}

// WriteBytes writes already encoded image data to path, creating parent
// directories as needed.
func WriteBytes(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// rgbaConverter is implemented by images that can hand encoders a concrete
// *image.RGBA, which the standard encoders handle without per-pixel At calls.
type rgbaConverter interface {
	RGBA() *image.RGBA
}

func scaled(img image.Image, n int) image.Image {
	if n <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*n, b.Dy()*n))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
