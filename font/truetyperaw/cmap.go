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


package truetyperaw

import (
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
)

// CMap selects glyphs through the subtables of a "cmap" table.  Subtables
// in formats which cannot be decoded are ignored.
type CMap struct {
	subtables map[encodingKey]cmap.Subtable
	numGlyphs int
}

type encodingKey struct {
	platformID, encodingID uint16
}

// NewCMap decodes the subtables of a "cmap" table, for a font with the
// given number of glyphs.  Codes are looked up as they are, without
// conversion to unicode.
func NewCMap(table cmap.Table, numGlyphs int) *CMap {
	c := &CMap{
		subtables: make(map[encodingKey]cmap.Subtable),
		numGlyphs: numGlyphs,
	}
	for key := range table {
		k := encodingKey{key.PlatformID, key.EncodingID}
		if _, seen := c.subtables[k]; seen {
			continue
		}
		sub, err := table.GetNoLang(key.PlatformID, key.EncodingID)
		if err != nil {
			continue
		}
		c.subtables[k] = sub
	}
	return c
}

// Subtable returns the cmap subtable for the given platform and encoding,
// or nil if there is no such subtable.
func (c *CMap) Subtable(platformID, encodingID uint16) cmap.Subtable {
	return c.subtables[encodingKey{platformID, encodingID}]
}

// AnyMaps reports whether any cmap subtable maps the code to a glyph other
// than .notdef.
func (c *CMap) AnyMaps(code uint32) bool {
	for _, sub := range c.subtables {
		if sub.Lookup(rune(code)) != 0 {
			return true
		}
	}
	return false
}

// SimpleGID returns the glyph used by a simple TrueType font for the given
// code.  The text is the unicode text of the glyph name the PDF encoding
// assigns to the code, or the empty string if there is no such name.
//
// The lookup order follows the PDF rules for simple TrueType fonts: a
// (3,1) subtable is used with the text, a (3,0) subtable with the code
// in the range 0xF000-0xF0FF, and a (1,0) subtable with the code itself.
// If no subtable maps the code, the code is used as the glyph ID.
func (c *CMap) SimpleGID(code byte, text string) glyph.ID {
	if sub := c.Subtable(3, 1); sub != nil {
		rr := []rune(text)
		if len(rr) == 1 {
			if gid := sub.Lookup(rr[0]); gid != 0 {
				return gid
			}
		}
	}
	if sub := c.Subtable(3, 0); sub != nil {
		for _, r := range []rune{0xF000 + rune(code), rune(code)} {
			if gid := sub.Lookup(r); gid != 0 {
				return gid
			}
		}
	}
	if sub := c.Subtable(1, 0); sub != nil {
		if gid := sub.Lookup(rune(code)); gid != 0 {
			return gid
		}
	}
	if int(code) < c.numGlyphs {
		return glyph.ID(code)
	}
	return 0
}
