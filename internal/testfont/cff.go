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

	"seehuhn.de/go/postscript/cid"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/postscript/type1"

	"seehuhn.de/go/sfnt/cff"
	"seehuhn.de/go/sfnt/glyph"
)

func privateDict() *type1.PrivateDict {
	return &type1.PrivateDict{
		BlueValues: []funit.Int16{-10, 0, 700, 710},
		BlueScale:  0.039625,
		BlueShift:  7,
		BlueFuzz:   1,
		StdHW:      20,
		StdVW:      20,
	}
}

// MakeCFF returns a simple CFF font with a box-shaped glyph for every name.
// The built-in encoding is the one returned by [Encoding].
func MakeCFF(fontName string, names []string, size float64) *cff.Font {
	glyphs := []*cff.Glyph{cff.NewGlyph(".notdef", 500)}
	for i, name := range names {
		g := cff.NewGlyph(name, boxWidth(i, size))
		drawBox(g, i, size)
		glyphs = append(glyphs, g)
	}

	gidOf := make(map[string]glyph.ID, len(glyphs))
	for gid, g := range glyphs {
		gidOf[g.Name] = glyph.ID(gid)
	}
	encoding := make([]glyph.ID, 256)
	for code, name := range Encoding(names) {
		encoding[code] = gidOf[name]
	}

	return &cff.Font{
		FontInfo: &type1.FontInfo{
			FontName:   fontName,
			FontMatrix: matrix.Matrix{0.001, 0, 0, 0.001, 0, 0},
		},
		Outlines: &cff.Outlines{
			Glyphs:   glyphs,
			Private:  []*type1.PrivateDict{privateDict()},
			FDSelect: func(glyph.ID) int { return 0 },
			Encoding: encoding,
		},
	}
}

// MakeCIDCFF returns a CID-keyed CFF font with nGlyphs box-shaped glyphs,
// where glyph i has CID i.  If alternate is set, consecutive glyphs use
// different font DICTs, which makes FDSelect format 0 the most compact
// representation.
func MakeCIDCFF(fontName string, nGlyphs int, size float64, alternate bool) *cff.Font {
	glyphs := []*cff.Glyph{cff.NewGlyph("", 500)}
	gidToCID := []cid.CID{0}
	for i := 1; i < nGlyphs; i++ {
		g := cff.NewGlyph("", boxWidth(i, size))
		drawBox(g, i, size)
		glyphs = append(glyphs, g)
		gidToCID = append(gidToCID, cid.CID(i))
	}

	private := []*type1.PrivateDict{privateDict()}
	fdSelect := func(glyph.ID) int { return 0 }
	if alternate {
		private = append(private, privateDict())
		fdSelect = func(gid glyph.ID) int { return int(gid) % 2 }
	}

	fontMatrices := make([]matrix.Matrix, len(private))
	for i := range fontMatrices {
		fontMatrices[i] = matrix.Identity
	}

	return &cff.Font{
		FontInfo: &type1.FontInfo{
			FontName:   fontName,
			FontMatrix: matrix.Matrix{0.001, 0, 0, 0.001, 0, 0},
		},
		Outlines: &cff.Outlines{
			Glyphs:   glyphs,
			Private:  private,
			FDSelect: fdSelect,
			ROS: &cid.SystemInfo{
				Registry: "Adobe",
				Ordering: "Identity",
			},
			GIDToCID:     gidToCID,
			FontMatrices: fontMatrices,
		},
	}
}

// CFFBytes returns the font in the format used for FontFile3 streams.
func CFFBytes(f *cff.Font) []byte {
	buf := &bytes.Buffer{}
	err := f.Write(buf)
	if err != nil {
		panic(err)
	}
	return buf.Bytes()
}
