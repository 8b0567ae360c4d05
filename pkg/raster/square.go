package raster

// Square returns cv embedded in a square canvas of side max(height, width).
// The source is centred; when the difference is odd the extra pixel of
// slack goes to the bottom or right. Uncovered area is painted with fill.
// A canvas that is already square is returned as is.
func Square(cv *Canvas, fill Color) *Canvas {
	if cv.IsSquare() {
		return cv
	}
	dim := max(cv.height, cv.width)
	sq := NewCanvas(dim, dim, fill)
	sq.Blit(cv, (dim-cv.height)/2, (dim-cv.width)/2)
	return sq
}
