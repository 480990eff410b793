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

import (
	"bytes"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/postscript/psenc"
	"seehuhn.de/go/postscript/type1"
)

// Encoding returns a built-in encoding for the given glyph names.  Names
// from the standard encoding keep their standard code, all other names
// are placed in the first unused codes starting at 1.
func Encoding(names []string) []string {
	encoding := make([]string, 256)
	for i := range encoding {
		encoding[i] = ".notdef"
	}
	standard := make(map[string]int)
	for code, name := range psenc.StandardEncoding {
		if name != ".notdef" {
			standard[name] = code
		}
	}

	next := 1
	for _, name := range names {
		if code, ok := standard[name]; ok {
			encoding[code] = name
		}
	}
	for _, name := range names {
		if _, ok := standard[name]; ok {
			continue
		}
		for next < 256 && encoding[next] != ".notdef" {
			next++
		}
		if next < 256 {
			encoding[next] = name
		}
	}
	return encoding
}

// MakeType1 returns a Type 1 font with a box-shaped glyph for every name.
// Fonts with different sizes have different charstrings for the same
// glyph name.
func MakeType1(fontName string, names []string, size float64) *type1.Font {
	glyphs := map[string]*type1.Glyph{
		".notdef": {WidthX: 500},
	}
	for i, name := range names {
		g := &type1.Glyph{WidthX: boxWidth(i, size)}
		drawBox(g, i, size)
		g.ClosePath()
		glyphs[name] = g
	}

	return &type1.Font{
		FontInfo: &type1.FontInfo{
			FontName:   fontName,
			FullName:   fontName,
			FamilyName: fontName,
			Weight:     "Regular",
			Version:    "001.000",
			FontMatrix: matrix.Matrix{0.001, 0, 0, 0.001, 0, 0},
		},
		Outlines: &type1.Outlines{
			Glyphs: glyphs,
			Private: &type1.PrivateDict{
				BlueValues: []funit.Int16{-10, 0, 700, 710},
				BlueScale:  0.039625,
				BlueShift:  7,
				BlueFuzz:   1,
				StdHW:      20,
				StdVW:      20,
			},
			Encoding: Encoding(names),
		},
	}
}

// Type1Bytes returns the font in the format used for FontFile streams,
// together with the lengths of the clear-text and the encrypted portion.
func Type1Bytes(f *type1.Font) ([]byte, int, int) {
	buf := &bytes.Buffer{}
	l1, l2, err := f.WritePDF(buf)
	if err != nil {
		panic(err)
	}
	return buf.Bytes(), l1, l2
}
