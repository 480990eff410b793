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

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"seehuhn.de/go/pdfmerge"
	"seehuhn.de/go/pdfmerge/font/cffraw"
	"seehuhn.de/go/pdfmerge/font/program"
	"seehuhn.de/go/pdfmerge/font/truetyperaw"
	"seehuhn.de/go/pdfmerge/font/type1raw"
)

// fontFile is a font program loaded from disk.
type fontFile struct {
	path   string
	res    *pdfmerge.Resource
	glyphs map[string][]byte
}

func (f *fontFile) name() string {
	return filepath.Base(f.path)
}

// loadFont reads a Type 1 (PFA or PFB), bare CFF or TrueType font file.
func loadFont(path string) (*fontFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	res := &pdfmerge.Resource{Program: data}
	glyphs := make(map[string][]byte)
	switch {
	case len(data) > 6 && data[0] == 0x80 && data[1] == 1:
		data, err = unwrapPFB(data)
		if err != nil {
			return nil, err
		}
		res.Program = data
		fallthrough
	case bytes.HasPrefix(data, []byte("%!")):
		raw, err := type1raw.Read(data)
		if err != nil {
			return nil, err
		}
		res.Kind, res.Subtype, res.BaseFont = program.Type1, "Type1", raw.FontName
		res.Type1 = raw
		for name, g := range raw.CharStrings {
			glyphs[name] = g
		}
	case len(data) > 4 && data[0] == 1 && data[1] == 0:
		raw, err := cffraw.Read(data)
		if err != nil {
			return nil, err
		}
		res.CFF = raw
		res.BaseFont = raw.FontName
		if raw.IsCIDKeyed() {
			res.Kind, res.Subtype = program.CIDFontType0, "Type0"
			for cid, g := range raw.GlyphsByCID() {
				glyphs[fmt.Sprintf("cid%d", cid)] = g
			}
		} else {
			res.Kind, res.Subtype = program.Type1C, "Type1"
			glyphs = raw.GlyphsByName()
		}
	case bytes.HasPrefix(data, []byte{0, 1, 0, 0}) || bytes.HasPrefix(data, []byte("true")):
		raw, err := truetyperaw.Read(data)
		if err != nil {
			return nil, err
		}
		res.Kind, res.Subtype = program.TrueType, "TrueType"
		res.TrueType = raw
		res.BaseFont = baseName(path)
		for gid, g := range raw.Glyphs {
			if len(g) > 0 {
				glyphs[fmt.Sprintf("gid%d", gid)] = g
			}
		}
	default:
		return nil, errUnknownFormat
	}

	tracer().Debugf("%s: %s with %d glyphs", path, res.Kind, len(glyphs))
	return &fontFile{path: path, res: res, glyphs: glyphs}, nil
}

// unwrapPFB removes the segment headers of a PFB file.
func unwrapPFB(data []byte) ([]byte, error) {
	var res []byte
	for len(data) >= 2 && data[0] == 0x80 {
		if data[1] == 3 {
			return res, nil
		}
		if len(data) < 6 {
			break
		}
		n := int(data[2]) | int(data[3])<<8 | int(data[4])<<16 | int(data[5])<<24
		data = data[6:]
		if n < 0 || n > len(data) {
			break
		}
		res = append(res, data[:n]...)
		data = data[n:]
	}
	if len(res) == 0 {
		return nil, errMalformedPFB
	}
	return res, nil
}

func baseName(path string) string {
	name := filepath.Base(path)
	return name[:len(name)-len(filepath.Ext(name))]
}

var (
	errUnknownFormat = errors.New("unknown font format")
	errMalformedPFB  = errors.New("malformed PFB file")
)
