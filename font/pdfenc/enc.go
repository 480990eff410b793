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

// Package pdfenc implements the standard encodings for simple PDF fonts,
// together with the mapping between glyph names and unicode text.
package pdfenc

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"seehuhn.de/go/postscript/psenc"
	"seehuhn.de/go/postscript/type1/names"
)

// An Encoding is a mapping from single byte codes to glyph names.
type Encoding struct {
	Encoding [256]string
	Has      map[string]bool
}

// Standard is the Adobe Standard Encoding for Latin text.
//
// See Appendix D.2 of PDF 32000-1:2008.
var Standard *Encoding

// WinAnsi is the PDF version of the standard Microsoft Windows specific
// encoding for Latin text in Western writing systems.
//
// See Appendix D.2 of PDF 32000-1:2008.
var WinAnsi *Encoding

// MacRoman is the PDF version of the MacOS standard encoding for Latin
// text in Western writing systems.
//
// See Appendix D.2 of PDF 32000-1:2008.
var MacRoman *Encoding

// latinNames gives the names used by the PDF Latin encodings where these
// differ from the Adobe Glyph List For New Fonts.  The empty string marks
// characters which the PDF encodings leave undefined.
var latinNames = map[rune]string{
	0x00A0: "space",
	0x00AD: "hyphen",
	0x00B2: "twosuperior",
	0x00B3: "threesuperior",
	0x00B9: "onesuperior",
	0x03A9: "Omega",
	0x2026: "ellipsis",
	0xF8FF: "",
	0xFB01: "fi",
	0xFB02: "fl",
}

func init() {
	Standard = newEncoding(psenc.StandardEncoding)
	WinAnsi = fromCharmap(charmap.Windows1252)
	MacRoman = fromCharmap(charmap.Macintosh)
	MacRoman.set(0xDB, "currency")
}

// Get returns the encoding with the given PDF name, for example
// "WinAnsiEncoding".  If the name is not known, nil is returned.
func Get(name string) *Encoding {
	switch name {
	case "StandardEncoding":
		return Standard
	case "WinAnsiEncoding":
		return WinAnsi
	case "MacRomanEncoding":
		return MacRoman
	}
	return nil
}

// Decode returns the text for the given code, or the empty string if the
// code is not mapped.
func (e *Encoding) Decode(code byte) string {
	return GlyphText(e.Encoding[code])
}

func (e *Encoding) set(code byte, name string) {
	e.Encoding[code] = name
	e.Has[name] = true
}

func newEncoding(names [256]string) *Encoding {
	e := &Encoding{
		Encoding: names,
		Has:      make(map[string]bool),
	}
	for i, name := range names {
		if name == "" {
			e.Encoding[i] = ".notdef"
		} else if name != ".notdef" {
			e.Has[name] = true
		}
	}
	return e
}

func fromCharmap(cm *charmap.Charmap) *Encoding {
	var names [256]string
	for i := range names {
		names[i] = ".notdef"
		if i < 32 || i == 127 {
			continue
		}
		r := cm.DecodeByte(byte(i))
		if r == utf8.RuneError {
			continue
		}
		if name, ok := latinNames[r]; ok {
			if name != "" {
				names[i] = name
			}
			continue
		}
		names[i] = GlyphName(r)
	}
	return newEncoding(names)
}

// GlyphText returns the text represented by a glyph name, following the
// Adobe Glyph List specification.  If the name cannot be interpreted, the
// empty string is returned.
func GlyphText(name string) string {
	return names.ToUnicode(name, "")
}

// GlyphName returns a glyph name for the rune r.
func GlyphName(r rune) string {
	return names.FromUnicode(string(r))
}
