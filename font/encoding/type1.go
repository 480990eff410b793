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

// Package encoding implements the /Encoding entries of simple PDF fonts.
package encoding

import (
	"errors"

	"seehuhn.de/go/pdfmerge/font/pdfenc"
	"seehuhn.de/go/pdfmerge/pdf"
)

// Simple describes the encoding of a simple font: an optional named base
// encoding, modified by an optional Differences array.
type Simple struct {
	// Base is the PDF name of the base encoding, for example
	// "WinAnsiEncoding".  The empty string indicates the built-in encoding
	// of the font program.
	Base pdf.Name

	// Differences maps codes to glyph names, overriding the base encoding.
	Differences map[byte]string

	// Builtin is the built-in encoding of the font program, if known.
	Builtin []string
}

// Extract reads the /Encoding entry of a simple font dictionary.
// If obj is null, nil is returned.
//
// Unknown base encoding names are treated like a missing base encoding.
// Malformed entries in the Differences array are skipped.
func Extract(r pdf.Getter, obj pdf.Object) (*Simple, error) {
	obj, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}

	switch obj := obj.(type) {
	case nil:
		return nil, nil
	case pdf.Name:
		if pdfenc.Get(string(obj)) == nil {
			return nil, ErrUnknownEncoding
		}
		return &Simple{Base: obj}, nil
	case pdf.Dict:
		e := &Simple{}
		baseEncName, _ := pdf.GetName(r, obj["BaseEncoding"])
		if pdfenc.Get(string(baseEncName)) != nil {
			e.Base = baseEncName
		}

		diffArray, err := pdf.GetArray(r, obj["Differences"])
		if err != nil {
			return nil, err
		}
		if diffArray != nil {
			e.Differences = make(map[byte]string)
			currentCode := pdf.Integer(-1)
			for _, item := range diffArray {
				item, err = pdf.Resolve(r, item)
				if err != nil {
					return nil, err
				}

				switch item := item.(type) {
				case pdf.Integer:
					currentCode = item
				case pdf.Name:
					if currentCode >= 0 && currentCode < 256 {
						e.Differences[byte(currentCode)] = string(item)
						currentCode++
					}
				}
			}
		}
		return e, nil
	default:
		return nil, &pdf.MalformedFileError{
			Err: errors.New("invalid /Encoding " + pdf.Format(obj)),
		}
	}
}

// IsDictionary reports whether the encoding includes an explicit table
// from codes to glyph names.
func (e *Simple) IsDictionary() bool {
	return e != nil && len(e.Differences) > 0
}

// GlyphName returns the glyph name for a code.  Differences take
// precedence over the base encoding, which in turn takes precedence over
// the built-in encoding.  The second return value is false if the code is
// not mapped or mapped to .notdef.
func (e *Simple) GlyphName(code byte) (string, bool) {
	if e == nil {
		return "", false
	}

	name, ok := e.Differences[code]
	if !ok {
		if base := pdfenc.Get(string(e.Base)); base != nil {
			name = base.Encoding[code]
		} else if int(code) < len(e.Builtin) {
			name = e.Builtin[code]
		}
	}
	if name == "" || name == ".notdef" {
		return "", false
	}
	return name, true
}

// ExplicitName returns the glyph name which the encoding entry of the font
// dictionary assigns to a code, from the Differences array or the named base
// encoding.  The built-in encoding of the font program is not consulted.
func (e *Simple) ExplicitName(code byte) (string, bool) {
	if e == nil {
		return "", false
	}
	name, ok := e.Differences[code]
	if !ok {
		if base := pdfenc.Get(string(e.Base)); base != nil {
			name = base.Encoding[code]
		}
	}
	if name == "" || name == ".notdef" {
		return "", false
	}
	return name, true
}

// CodeToName returns all mapped codes together with their glyph names.
func (e *Simple) CodeToName() map[byte]string {
	res := make(map[byte]string)
	for code := range 256 {
		if name, ok := e.GlyphName(byte(code)); ok {
			res[byte(code)] = name
		}
	}
	return res
}

// Decode returns the text for a code of a font which uses only a named
// base encoding.  The empty string is returned for unmapped codes.
func (e *Simple) Decode(code byte) string {
	name, ok := e.GlyphName(code)
	if !ok {
		return ""
	}
	return pdfenc.GlyphText(name)
}

// Differences constructs the /Differences array which maps every code in
// names to its glyph name, relative to the given base encoding.  If base
// is nil, every entry is listed.
func Differences(names map[byte]string, base *pdfenc.Encoding) pdf.Array {
	var diff pdf.Array
	lastDiff := 999
	for code := range 256 {
		glyphName, ok := names[byte(code)]
		if !ok || base != nil && glyphName == base.Encoding[code] {
			continue
		}

		if code != lastDiff+1 {
			diff = append(diff, pdf.Integer(code))
		}
		diff = append(diff, pdf.Name(glyphName))
		lastDiff = code
	}
	return diff
}

// AsPDF returns the /Encoding entry for a simple font which maps every
// code in names to its glyph name.  A named encoding is used where
// possible, otherwise an encoding dictionary with the smallest
// Differences array is constructed.
func AsPDF(names map[byte]string) pdf.Object {
	candidates := []pdf.Name{"WinAnsiEncoding", "MacRomanEncoding", "StandardEncoding"}

	var best pdf.Dict
	bestLen := 999
	for _, cand := range candidates {
		enc := pdfenc.Get(string(cand))
		diff := Differences(names, enc)
		if len(diff) == 0 && cand != "StandardEncoding" {
			return cand
		}
		if len(diff) < bestLen {
			best = pdf.Dict{
				"Type":        pdf.Name("Encoding"),
				"Differences": diff,
			}
			if cand != "StandardEncoding" {
				best["BaseEncoding"] = cand
			}
			bestLen = len(diff)
		}
	}
	return best
}

// ErrUnknownEncoding is returned by [Extract] for encoding names other than
// the standard Latin encodings.
var ErrUnknownEncoding = errors.New("unknown encoding name")
