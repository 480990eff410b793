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

// Package testfont provides small fonts for use in unit tests.
package testfont

import (
	"bytes"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"seehuhn.de/go/sfnt"
)

// MakeGlyfFont returns a font with glyf outlines.
func MakeGlyfFont() *sfnt.Font {
	return mustRead(goregular.TTF)
}

// MakeMonoFont returns a second font with glyf outlines, which has
// different glyph shapes from [MakeGlyfFont].
func MakeMonoFont() *sfnt.Font {
	return mustRead(gomono.TTF)
}

func mustRead(data []byte) *sfnt.Font {
	info, err := sfnt.Read(bytes.NewReader(data))
	if err != nil {
		panic(err)
	}
	return info
}

// TrueTypeBytes returns the font in the format used for FontFile2
// streams.
func TrueTypeBytes(info *sfnt.Font) []byte {
	buf := &bytes.Buffer{}
	_, err := info.WriteTrueTypePDF(buf)
	if err != nil {
		panic(err)
	}
	return buf.Bytes()
}
