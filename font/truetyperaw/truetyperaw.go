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


// Package truetyperaw gives access to the undecoded glyph records and the
// character maps of TrueType font programs.
//
// Unlike sfnt.Read, only the tables needed for merging are required, so
// that the stripped-down fonts embedded in PDF files can be read.
package truetyperaw

import (
	"bytes"
	"errors"
	"fmt"

	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/head"
	"seehuhn.de/go/sfnt/header"
	"seehuhn.de/go/sfnt/maxp"
)

// Font holds the raw data of a TrueType font.
type Font struct {
	// Glyphs holds the raw "glyf" record of every glyph, indexed by glyph
	// ID.  Empty glyphs have a nil record.
	Glyphs [][]byte

	// CMap holds the decoded subtables of the "cmap" table.  If the font
	// has no "cmap" table, CMap has no subtables.
	*CMap
}

// Read decodes the raw structure of a TrueType font.
func Read(data []byte) (*Font, error) {
	r := bytes.NewReader(data)
	info, err := header.Read(r)
	if err != nil {
		return nil, err
	}
	if info.ScalerType != header.ScalerTypeTrueType && info.ScalerType != header.ScalerTypeApple {
		return nil, errNotTrueType
	}

	headData, err := info.ReadTableBytes(r, "head")
	if err != nil {
		return nil, err
	}
	headInfo, err := head.Read(bytes.NewReader(headData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}

	maxpData, err := info.ReadTableBytes(r, "maxp")
	if err != nil {
		return nil, err
	}
	maxpInfo, err := maxp.Read(bytes.NewReader(maxpData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}

	enc := &glyf.Encoded{LocaFormat: headInfo.LocaFormat}
	enc.LocaData, err = info.ReadTableBytes(r, "loca")
	if err != nil {
		return nil, err
	}
	enc.GlyfData, err = info.ReadTableBytes(r, "glyf")
	if err != nil {
		return nil, err
	}
	glyphs, err := glyf.Decode(enc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if len(glyphs) < maxpInfo.NumGlyphs {
		return nil, errMalformed
	}
	glyphs = glyphs[:maxpInfo.NumGlyphs]

	f := &Font{
		Glyphs: make([][]byte, len(glyphs)),
	}
	for gid, g := range glyphs {
		if g != nil {
			f.Glyphs[gid] = glyf.Glyphs{g}.Encode().GlyfData
		}
	}

	var table cmap.Table
	cmapData, err := info.ReadTableBytes(r, "cmap")
	if err != nil && !header.IsMissing(err) {
		return nil, err
	}
	if cmapData != nil {
		table, err = cmap.Decode(cmapData)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errMalformed, err)
		}
	}
	f.CMap = NewCMap(table, len(f.Glyphs))

	return f, nil
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return len(f.Glyphs)
}

var (
	errMalformed   = errors.New("sfnt: malformed font")
	errNotTrueType = errors.New("sfnt: not a TrueType font")
)
