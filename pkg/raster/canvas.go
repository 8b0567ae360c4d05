package raster

import (
	"image"
	"image/color"
)

// Canvas is a height×width RGB pixel buffer. Pixels are stored row-major,
// three bytes each, with a stride of 3*width.
type Canvas struct {
	height, width int
	pix           []uint8
}

// NewCanvas allocates a canvas filled with c.
func NewCanvas(height, width int, c Color) *Canvas {
	cv := &Canvas{
		height: height,
		width:  width,
		pix:    make([]uint8, height*width*3),
	}
	cv.Fill(c)
	return cv
}

// Height returns the number of pixel rows.
func (cv *Canvas) Height() int { return cv.height }

// Width returns the number of pixel columns.
func (cv *Canvas) Width() int { return cv.width }

// Stride returns the byte distance between vertically adjacent pixels.
func (cv *Canvas) Stride() int { return cv.width * 3 }

// Pix returns the underlying buffer.
func (cv *Canvas) Pix() []uint8 { return cv.pix }

// IsSquare reports whether height equals width.
func (cv *Canvas) IsSquare() bool { return cv.height == cv.width }

// Fill paints every pixel with c.
func (cv *Canvas) Fill(c Color) {
	if len(cv.pix) == 0 {
		return
	}
	cv.pix[0], cv.pix[1], cv.pix[2] = c.R, c.G, c.B
	// Doubling copy: each pass duplicates the already-filled prefix.
	for n := 3; n < len(cv.pix); n *= 2 {
		copy(cv.pix[n:], cv.pix[:n])
	}
}

// Pixel returns the color at (row, col).
func (cv *Canvas) Pixel(row, col int) Color {
	i := row*cv.Stride() + col*3
	return Color{cv.pix[i], cv.pix[i+1], cv.pix[i+2]}
}

// SetPixel sets the color at (row, col).
func (cv *Canvas) SetPixel(row, col int, c Color) {
	i := row*cv.Stride() + col*3
	cv.pix[i], cv.pix[i+1], cv.pix[i+2] = c.R, c.G, c.B
}

// Blit copies src into cv with its top-left corner at (top, left).
// src must fit inside cv.
func (cv *Canvas) Blit(src *Canvas, top, left int) {
	rowBytes := src.Stride()
	for r := range src.height {
		d := (top+r)*cv.Stride() + left*3
		s := r * rowBytes
		copy(cv.pix[d:d+rowBytes], src.pix[s:s+rowBytes])
	}
}

// Equal reports whether both canvases have the same size and pixels.
func (cv *Canvas) Equal(o *Canvas) bool {
	if cv.height != o.height || cv.width != o.width {
		return false
	}
	for i := range cv.pix {
		if cv.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// ColorModel implements image.Image.
func (cv *Canvas) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (cv *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, cv.width, cv.height) }

// At implements image.Image. x is the column, y the row.
func (cv *Canvas) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= cv.width || y >= cv.height {
		return color.RGBA{}
	}
	p := cv.Pixel(y, x)
	return color.RGBA{p.R, p.G, p.B, 0xff}
}

// RGBA converts the canvas to an *image.RGBA.
func (cv *Canvas) RGBA() *image.RGBA {
	img := image.NewRGBA(cv.Bounds())
	for i, j := 0, 0; i < len(cv.pix); i, j = i+3, j+4 {
		img.Pix[j] = cv.pix[i]
		img.Pix[j+1] = cv.pix[i+1]
		img.Pix[j+2] = cv.pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}
