// seehuhn.de/go/pdfmerge - merge the fonts of several PDF documents
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package testfont

// pather is implemented by the glyph types of Type1 and CFF fonts.
type pather interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
}

// drawBox draws a rectangle whose shape depends on the glyph index idx.
// The size parameter scales the whole outline, so that glyphs with the
// same index but different sizes have different charstrings.
func drawBox(path pather, idx int, size float64) {
	left := float64(50 + 10*(idx%5))
	right := left + size + float64(10*(idx%3))
	bottom := float64(-10 * (idx % 2))
	top := bottom + size + float64(10*(idx%4))

	path.MoveTo(left, bottom)
	path.LineTo(right, bottom)
	path.LineTo(right, top)
	path.LineTo(left, top)
}

func boxWidth(idx int, size float64) float64 {
	return 100 + size + float64(10*(idx%3))
}
