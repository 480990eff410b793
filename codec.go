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

package pdfmerge

import (
	"seehuhn.de/go/pdfmerge/font/pdfenc"
)

// DecodeIdentity returns the glyph identity of a code of a resource.
// Glyphs with the same identity in different resources of the same merged
// font share one merged code.
//
// For composite fonts the identity is the text from the ToUnicode CMap.
// For simple fonts the identity is
//   - the glyph name, if the encoding has a Differences array,
//   - the character, if only a named base encoding is given,
//   - the ToUnicode text or the glyph name from the built-in encoding of the
//     font program, if there is no encoding.
//
// The second return value is false if no identity can be determined.
func DecodeIdentity(res *Resource, code uint32) (string, bool) {
	if res.Kind.IsComposite() {
		if res.ToUnicode == nil {
			return "", false
		}
		text, ok := res.ToUnicode.Lookup(code)
		return text, ok && text != ""
	}

	if code > 255 {
		return "", false
	}
	enc := res.Encoding
	switch {
	case enc.IsDictionary():
		return enc.GlyphName(byte(code))
	case enc != nil && enc.Base != "":
		text := enc.Decode(byte(code))
		return text, text != ""
	case res.ToUnicode != nil:
		text, ok := res.ToUnicode.Lookup(code)
		return text, ok && text != ""
	case int(code) < len(res.Builtin):
		name := res.Builtin[code]
		return name, name != "" && name != ".notdef"
	}
	return "", false
}

// Split splits a string operand of a text showing operator into codes.
// The second return value is false if the string does not consist of
// complete codes.
func Split(res *Resource, s []byte) ([]uint32, bool) {
	if !res.Kind.IsComposite() {
		codes := make([]uint32, len(s))
		for i, c := range s {
			codes[i] = uint32(c)
		}
		return codes, true
	}

	if len(s)%2 != 0 {
		return nil, false
	}
	codes := make([]uint32, len(s)/2)
	for i := range codes {
		codes[i] = uint32(s[2*i])<<8 | uint32(s[2*i+1])
	}
	return codes, true
}

// Text returns the unicode text for a code of a resource, or the empty
// string if the text is not known.
func Text(res *Resource, code uint32) string {
	if res.ToUnicode != nil {
		if text, ok := res.ToUnicode.Lookup(code); ok {
			return text
		}
	}
	if name, ok := res.glyphName(code); ok {
		if text := pdfenc.GlyphText(name); text != "" {
			return text
		}
	}
	if res.Encoding != nil && code < 256 {
		return res.Encoding.Decode(byte(code))
	}
	return ""
}
