package rsi

import (
	"image"
	"image/draw"
	"math"
)

// GridSize returns the number of columns and rows of the sheet holding count
// frames. Columns are the square root of count rounded up, rows are count
// divided by columns rounded up: the sheet is as square as possible and wider
// than tall when it cannot be square.
func GridSize(count int) (columns, rows int) {
	if count <= 0 {
		return 0, 0
	}
	columns = int(math.Sqrt(float64(count)))
	for columns*columns < count {
		columns++
	}
	for columns > 1 && (columns-1)*(columns-1) >= count {
		columns--
	}
	rows = (count + columns - 1) / columns
	return columns, rows
}

// cellRect returns the rectangle covered by cell i of a sheet with the passed
// number of columns. Cells are placed row by row.
func cellRect(i, columns int, size image.Point) image.Rectangle {
	min := image.Pt((i%columns)*size.X, (i/columns)*size.Y)
	return image.Rectangle{Min: min, Max: min.Add(size)}
}

// paste copies src into dst so that src's top-left pixel lands on at.
//
// NRGBA sources are copied byte for byte; anything else goes through
// draw.Src.
func paste(dst *image.NRGBA, at image.Point, src image.Image) {
	sb := src.Bounds()
	r := image.Rectangle{Min: at, Max: at.Add(sb.Size())}.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	if s, ok := src.(*image.NRGBA); ok {
		n := r.Dx() * 4
		for y := 0; y < r.Dy(); y++ {
			di := dst.PixOffset(r.Min.X, r.Min.Y+y)
			si := s.PixOffset(sb.Min.X, sb.Min.Y+y)
			copy(dst.Pix[di:di+n], s.Pix[si:si+n])
		}
		return
	}
	draw.Draw(dst, r, src, sb.Min, draw.Src)
}

// crop returns a new image holding the pixels of src inside r, with its
// origin at (0, 0).
func crop(src image.Image, r image.Rectangle) *image.NRGBA {
	dst := image.NewNRGBA(image.Rectangle{Max: r.Size()})
	if s, ok := src.(*image.NRGBA); ok {
		n := r.Dx() * 4
		for y := 0; y < r.Dy(); y++ {
			di := dst.PixOffset(0, y)
			si := s.PixOffset(r.Min.X, r.Min.Y+y)
			copy(dst.Pix[di:di+n], s.Pix[si:si+n])
		}
		return dst
	}
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst
}
