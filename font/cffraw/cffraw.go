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

// Package cffraw inspects the raw structure of CFF font programs.
//
// Unlike a full CFF parser, this package keeps the charstrings as
// undecoded byte strings and records which on-disk formats were used for
// the charset, the encoding and the FDSelect table.  This information is
// needed to decide whether two embedded subsets of a font can be merged.
package cffraw

import (
	"errors"
	"fmt"

	"seehuhn.de/go/pdfmerge/font/pdfenc"
)

// Format values for predefined charsets and encodings.
const (
	Predefined = -1
	Absent     = -2
)

// Font holds the raw data of a CFF font.
type Font struct {
	FontName string

	// CharStrings holds the undecoded charstring of every glyph, indexed by
	// glyph ID.
	CharStrings [][]byte

	// Charset holds the SID (for simple fonts) or CID (for CID-keyed fonts)
	// of every glyph.  Glyph 0 always has SID/CID 0.
	Charset []int32

	// CharsetFormat is 0, 1 or 2 for charsets stored in the font, or
	// Predefined.
	CharsetFormat int

	// EncodingFormat is 0 or 1 for encodings stored in the font, Predefined
	// for the standard and expert encodings, or Absent for CID-keyed fonts.
	EncodingFormat int

	// FDSelectFormat is 0 or 3 for CID-keyed fonts, or Absent.
	FDSelectFormat int

	// FDSelect maps glyph IDs to font DICT indices, for CID-keyed fonts.
	FDSelect []uint8

	// FontDicts holds the raw Font DICTs of a CID-keyed font.
	FontDicts [][]byte

	encodingOffset int32
	encoding       []int // code -> GID
	strings        [][]byte
}

// Read decodes the raw structure of a CFF font.
func Read(data []byte) (*Font, error) {
	r := &reader{data: data}

	if len(data) < 4 {
		return nil, errTruncated
	}
	major, hdrSize, offSize := data[0], int(data[2]), data[3]
	if major != 1 || hdrSize < 4 || offSize < 1 || offSize > 4 {
		return nil, errors.New("not a CFF font")
	}
	if err := r.seek(hdrSize); err != nil {
		return nil, err
	}

	fontNames, err := readIndex(r)
	if err != nil {
		return nil, err
	}
	if len(fontNames) != 1 {
		return nil, ErrUnsupported
	}
	topDictIndex, err := readIndex(r)
	if err != nil {
		return nil, err
	}
	if len(topDictIndex) != 1 {
		return nil, invalidSince("invalid Top DICT INDEX")
	}
	stringIndex, err := readIndex(r)
	if err != nil {
		return nil, err
	}

	topDict, err := decodeDict(topDictIndex[0])
	if err != nil {
		return nil, err
	}
	if topDict.getInt(opCharstringType, 2) != 2 {
		return nil, ErrUnsupported
	}

	f := &Font{
		FontName:       string(fontNames[0]),
		strings:        stringIndex,
		EncodingFormat: Absent,
		FDSelectFormat: Absent,
	}

	csOffs := topDict.getInt(opCharStrings, 0)
	if csOffs <= 0 {
		return nil, invalidSince("missing CharStrings")
	}
	if err := r.seek(int(csOffs)); err != nil {
		return nil, err
	}
	f.CharStrings, err = readIndex(r)
	if err != nil {
		return nil, err
	}
	nGlyphs := len(f.CharStrings)
	if nGlyphs == 0 {
		return nil, invalidSince("no glyphs")
	}

	charsetOffs := topDict.getInt(opCharset, 0)
	if charsetOffs <= 2 {
		f.CharsetFormat = Predefined
		f.Charset = predefinedCharset(charsetOffs, nGlyphs)
	} else {
		if err := r.seek(int(charsetOffs)); err != nil {
			return nil, err
		}
		f.CharsetFormat, f.Charset, err = readCharset(r, nGlyphs)
		if err != nil {
			return nil, err
		}
	}

	_, isCIDKeyed := topDict[opROS]
	if isCIDKeyed {
		fdArrayOffs := topDict.getInt(opFDArray, 0)
		if fdArrayOffs <= 0 {
			return nil, invalidSince("missing FDArray")
		}
		if err := r.seek(int(fdArrayOffs)); err != nil {
			return nil, err
		}
		f.FontDicts, err = readIndex(r)
		if err != nil {
			return nil, err
		}
		fdSelectOffs := topDict.getInt(opFDSelect, 0)
		if fdSelectOffs <= 0 {
			return nil, invalidSince("missing FDSelect")
		}
		if err := r.seek(int(fdSelectOffs)); err != nil {
			return nil, err
		}
		f.FDSelectFormat, f.FDSelect, err = readFDSelect(r, nGlyphs, len(f.FontDicts))
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	f.encodingOffset = topDict.getInt(opEncoding, 0)
	if f.encodingOffset <= 1 {
		f.EncodingFormat = Predefined
	} else {
		if err := r.seek(int(f.encodingOffset)); err != nil {
			return nil, err
		}
		f.EncodingFormat, f.encoding, err = readEncoding(r, f.Charset)
		if err != nil {
			return nil, err
		}
	}

	return f, nil
}

// IsCIDKeyed reports whether the font is a CID-keyed CFF font.
func (f *Font) IsCIDKeyed() bool {
	return f.FDSelectFormat != Absent
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return len(f.CharStrings)
}

// FirstSID returns the SID of the first glyph after .notdef.
func (f *Font) FirstSID() (int32, bool) {
	if len(f.Charset) < 2 {
		return 0, false
	}
	return f.Charset[1], true
}

// GlyphName returns the name of a glyph in a simple CFF font.
// The empty string is returned for CID-keyed fonts and for glyph names
// which cannot be determined.
func (f *Font) GlyphName(gid int) string {
	if f.IsCIDKeyed() || gid < 0 || gid >= len(f.Charset) {
		return ""
	}
	return f.sidString(f.Charset[gid])
}

func (f *Font) sidString(sid int32) string {
	if sid < 0 {
		return ""
	}
	if sid < nStdStrings {
		return stdStrings[sid]
	}
	idx := int(sid - nStdStrings)
	if idx >= len(f.strings) {
		return ""
	}
	return string(f.strings[idx])
}

// CID returns the CID of a glyph.  For simple fonts, the glyph ID is
// returned.
func (f *Font) CID(gid int) int32 {
	if !f.IsCIDKeyed() {
		return int32(gid)
	}
	if gid < 0 || gid >= len(f.Charset) {
		return 0
	}
	return f.Charset[gid]
}

// GlyphsByName returns the charstrings of a simple CFF font, keyed by glyph
// name.
func (f *Font) GlyphsByName() map[string][]byte {
	res := make(map[string][]byte, len(f.CharStrings))
	for gid, cs := range f.CharStrings {
		if name := f.GlyphName(gid); name != "" {
			res[name] = cs
		}
	}
	return res
}

// GlyphsByCID returns the charstrings of a CID-keyed font, keyed by CID.
func (f *Font) GlyphsByCID() map[int32][]byte {
	res := make(map[int32][]byte, len(f.CharStrings))
	for gid, cs := range f.CharStrings {
		res[f.CID(gid)] = cs
	}
	return res
}

// BuiltinEncoding returns the glyph names of the built-in encoding of a
// simple CFF font, indexed by code.  Unmapped codes hold the empty string.
// For the expert encoding and for CID-keyed fonts, nil is returned.
func (f *Font) BuiltinEncoding() []string {
	if f.IsCIDKeyed() {
		return nil
	}
	res := make([]string, 256)
	switch {
	case f.EncodingFormat == Predefined && f.encodingOffset == 0:
		present := make(map[string]bool, len(f.Charset))
		for gid := range f.Charset {
			present[f.GlyphName(gid)] = true
		}
		for code, name := range pdfenc.Standard.Encoding {
			if name != ".notdef" && present[name] {
				res[code] = name
			}
		}
	case f.EncodingFormat == Predefined:
		return nil
	default:
		for code, gid := range f.encoding {
			if gid > 0 {
				res[code] = f.GlyphName(gid)
			}
		}
	}
	return res
}

func (f *Font) String() string {
	return fmt.Sprintf("CFF %q: %d glyphs", f.FontName, len(f.CharStrings))
}
