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

package program

import (
	"bytes"
	"fmt"
	"slices"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/pdfmerge/font/truetyperaw"
)

// glyfSource is one ingested TrueType program.
type glyfSource struct {
	font     *sfnt.Font
	outlines *glyf.Outlines
}

// glyfRef identifies a glyph in one of the source programs.
type glyfRef struct {
	src int
	gid glyph.ID
}

// glyfMerger builds a new "glyf" based font from the glyphs of several
// TrueType programs.
//
// For simple fonts, glyph 0 is .notdef and the remaining glyphs follow in
// order of increasing code.  A "cmap" table maps the codes to glyphs.  For
// CIDFontType2 fonts the glyph ID equals the CID, and there is no "cmap"
// table.  Components of composite glyphs are appended at the end in both
// cases.
type glyfMerger struct {
	composite bool
	sources   []*glyfSource
	glyphs    map[uint32]glyfRef
}

func newGlyfMerger(composite bool) *glyfMerger {
	return &glyfMerger{
		composite: composite,
		glyphs:    make(map[uint32]glyfRef),
	}
}

func (m *glyfMerger) IngestProgram(data []byte, c *Contribution) error {
	if len(data) == 0 {
		return nil
	}

	info, err := sfnt.Read(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("sfnt: %w", err)
	}
	outlines, ok := info.Outlines.(*glyf.Outlines)
	if !ok {
		return fmt.Errorf("sfnt %s: %w", info.PostScriptName(), ErrWrongFormat)
	}

	encoding := truetyperaw.NewCMap(info.CMapTable, len(outlines.Glyphs))

	src := len(m.sources)
	m.sources = append(m.sources, &glyfSource{font: info, outlines: outlines})
	if c == nil {
		return nil
	}

	added := 0
	for merged, orig := range c.Codes {
		if _, seen := m.glyphs[merged]; seen {
			continue
		}

		var gid glyph.ID
		if m.composite {
			gid = glyph.ID(orig)
			if c.CIDToGID != nil {
				if int(orig) >= len(c.CIDToGID) {
					continue
				}
				gid = glyph.ID(c.CIDToGID[orig])
			}
		} else {
			gid = encoding.SimpleGID(byte(orig), c.Text[merged])
		}
		if gid == 0 || int(gid) >= len(outlines.Glyphs) {
			continue
		}

		m.glyphs[merged] = glyfRef{src: src, gid: gid}
		added++
	}
	tracer().Debugf("glyf %s: %d new glyphs", info.PostScriptName(), added)
	return nil
}

func (m *glyfMerger) FinalizeProgram() (*Program, error) {
	if len(m.sources) == 0 {
		return nil, nil
	}

	codes := make([]uint32, 0, len(m.glyphs))
	for code := range m.glyphs {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	// Reserve one glyph slot per code.
	var slots []glyfRef
	if m.composite {
		n := 1
		if len(codes) > 0 {
			n = int(codes[len(codes)-1]) + 1
		}
		if n > 0xFFFF {
			return nil, fmt.Errorf("glyf: CID %d out of range", n-1)
		}
		slots = make([]glyfRef, n)
		for i := range slots {
			slots[i].src = -1
		}
		for _, code := range codes {
			slots[code] = m.glyphs[code]
		}
	} else {
		slots = make([]glyfRef, 1, len(codes)+1)
		for _, code := range codes {
			slots = append(slots, m.glyphs[code])
		}
	}
	slots[0] = glyfRef{src: 0, gid: 0} // .notdef

	// Map the glyphs of the source fonts to their new glyph IDs, and
	// append the components of composite glyphs.
	newGID := make([]map[glyph.ID]glyph.ID, len(m.sources))
	for i := range newGID {
		newGID[i] = make(map[glyph.ID]glyph.ID)
	}
	for i, s := range slots {
		if s.src >= 0 {
			newGID[s.src][s.gid] = glyph.ID(i)
		}
	}
	for i := 0; i < len(slots); i++ {
		s := slots[i]
		if s.src < 0 || int(s.gid) >= len(m.sources[s.src].outlines.Glyphs) {
			continue
		}
		for _, comp := range m.sources[s.src].outlines.Glyphs[s.gid].Components() {
			if _, seen := newGID[s.src][comp]; seen {
				continue
			}
			if len(slots) >= 0xFFFF {
				return nil, fmt.Errorf("glyf: too many glyphs")
			}
			newGID[s.src][comp] = glyph.ID(len(slots))
			slots = append(slots, glyfRef{src: s.src, gid: comp})
		}
	}

	first := m.sources[0]
	o2 := *first.outlines
	o2.Glyphs = make(glyf.Glyphs, len(slots))
	o2.Widths = make([]funit.Int16, len(slots))
	o2.Names = nil
	for i, s := range slots {
		if s.src < 0 {
			continue
		}
		src := m.sources[s.src].outlines
		if int(s.gid) >= len(src.Glyphs) {
			continue
		}
		o2.Glyphs[i] = src.Glyphs[s.gid].FixComponents(newGID[s.src])
		if int(s.gid) < len(src.Widths) {
			o2.Widths[i] = src.Widths[s.gid]
		}
	}

	ttf := first.font.Clone()
	ttf.Outlines = &o2
	ttf.CMapTable = nil
	ttf.Gdef = nil
	ttf.Gsub = nil
	ttf.Gpos = nil

	kind := CIDFontType2
	if !m.composite {
		kind = TrueType

		// Make the codes available through the (1,0) and (3,0) subtables,
		// the latter in the 0xF000 range used by symbolic fonts.
		macRoman := cmap.Format4{}
		symbol := cmap.Format4{}
		for i, code := range codes {
			gid := glyph.ID(i + 1)
			macRoman[uint16(code)] = gid
			symbol[0xF000+uint16(code)] = gid
		}
		ttf.CMapTable = cmap.Table{
			{PlatformID: 1, EncodingID: 0}: macRoman.Encode(0),
			{PlatformID: 3, EncodingID: 0}: symbol.Encode(0),
		}
	}

	buf := &bytes.Buffer{}
	_, err := ttf.WriteTrueTypePDF(buf)
	if err != nil {
		return nil, fmt.Errorf("glyf: %w", err)
	}
	return &Program{Kind: kind, Data: buf.Bytes(), Length1: buf.Len()}, nil
}
