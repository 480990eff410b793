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

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/postscript/cid"
	"seehuhn.de/go/postscript/type1"

	"seehuhn.de/go/sfnt/cff"
	"seehuhn.de/go/sfnt/glyph"
)

func readCFF(data []byte) (*cff.Font, error) {
	font, err := cff.Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cff: %w", err)
	}
	return font, nil
}

// cffMerger forms the union of simple CFF programs, glyph by glyph name.
type cffMerger struct {
	font     *cff.Font
	gidOf    map[string]glyph.ID
	encoding map[uint32]string
}

func (m *cffMerger) IngestProgram(data []byte, c *Contribution) error {
	if m.encoding == nil {
		m.encoding = make(map[uint32]string)
	}
	if len(data) > 0 {
		src, err := readCFF(data)
		if err != nil {
			return err
		}
		if src.Outlines.IsCIDKeyed() {
			return fmt.Errorf("cff %s: %w", src.FontInfo.FontName, ErrWrongFormat)
		}
		m.addGlyphs(src)
	}

	if c != nil {
		for code, name := range c.Names {
			if code < 256 && name != "" {
				m.encoding[code] = name
			}
		}
	}
	return nil
}

func (m *cffMerger) addGlyphs(src *cff.Font) {
	if m.font == nil {
		m.font = &cff.Font{
			FontInfo: src.FontInfo,
			Outlines: &cff.Outlines{
				Private:  src.Outlines.Private[:1],
				FDSelect: func(glyph.ID) int { return 0 },
			},
		}
		m.gidOf = make(map[string]glyph.ID)
	}

	added := 0
	for gid, g := range src.Outlines.Glyphs {
		name := g.Name
		if gid == 0 {
			name = ".notdef"
		}
		if _, seen := m.gidOf[name]; seen {
			continue
		}
		m.gidOf[name] = glyph.ID(len(m.font.Outlines.Glyphs))
		m.font.Outlines.Glyphs = append(m.font.Outlines.Glyphs, g)
		added++
	}
	tracer().Debugf("cff %s: %d new glyphs", src.FontInfo.FontName, added)
}

func (m *cffMerger) FinalizeProgram() (*Program, error) {
	if m.font == nil {
		return nil, nil
	}

	encoding := make([]glyph.ID, 256)
	for code, name := range m.encoding {
		encoding[code] = m.gidOf[name]
	}
	m.font.Outlines.Encoding = encoding

	buf := &bytes.Buffer{}
	err := m.font.Write(buf)
	if err != nil {
		return nil, fmt.Errorf("cff: %w", err)
	}
	return &Program{Kind: Type1C, Data: buf.Bytes()}, nil
}

// cidGlyph is a glyph of a source font, chosen for a CID of the merged font.
type cidGlyph struct {
	glyph *cff.Glyph
	fd    int
}

// cidCFFMerger merges CFF based CIDFonts.  Every glyph of the merged font is
// stored under the merged CID, and keeps the private dictionary of its
// source font.
type cidCFFMerger struct {
	info     *type1.FontInfo
	ros      *cid.SystemInfo
	private  []*type1.PrivateDict
	matrices []matrix.Matrix
	glyphs   map[cid.CID]cidGlyph
	notdef   *cidGlyph
}

func (m *cidCFFMerger) IngestProgram(data []byte, c *Contribution) error {
	if len(data) == 0 {
		return nil
	}
	src, err := readCFF(data)
	if err != nil {
		return err
	}
	if m.glyphs == nil {
		m.glyphs = make(map[cid.CID]cidGlyph)
		m.info = src.FontInfo
		m.ros = src.Outlines.ROS
	}

	o := src.Outlines
	gidOf := make(map[cid.CID]glyph.ID, len(o.Glyphs))
	for gid := range o.Glyphs {
		if o.IsCIDKeyed() && gid < len(o.GIDToCID) {
			gidOf[o.GIDToCID[gid]] = glyph.ID(gid)
		} else {
			gidOf[cid.CID(gid)] = glyph.ID(gid)
		}
	}

	// The private dictionaries of every source font are kept.
	fdBase := len(m.private)
	m.private = append(m.private, o.Private...)
	for i := range o.Private {
		if i < len(o.FontMatrices) {
			m.matrices = append(m.matrices, o.FontMatrices[i])
		} else {
			m.matrices = append(m.matrices, matrix.Identity)
		}
	}
	fdSelect := func(gid glyph.ID) int {
		if o.FDSelect == nil {
			return fdBase
		}
		return fdBase + o.FDSelect(gid)
	}

	if m.notdef == nil && len(o.Glyphs) > 0 {
		m.notdef = &cidGlyph{glyph: o.Glyphs[0], fd: fdSelect(0)}
	}

	var added int
	if c != nil {
		for merged, orig := range c.Codes {
			if merged == 0 {
				continue
			}
			if _, seen := m.glyphs[cid.CID(merged)]; seen {
				continue
			}
			gid, ok := gidOf[cid.CID(orig)]
			if !ok {
				continue
			}
			m.glyphs[cid.CID(merged)] = cidGlyph{glyph: o.Glyphs[gid], fd: fdSelect(gid)}
			added++
		}
	}
	tracer().Debugf("cid cff %s: %d new glyphs", src.FontInfo.FontName, added)
	return nil
}

func (m *cidCFFMerger) FinalizeProgram() (*Program, error) {
	if m.notdef == nil {
		return nil, nil
	}

	cids := make([]cid.CID, 0, len(m.glyphs))
	for c := range m.glyphs {
		cids = append(cids, c)
	}
	slices.Sort(cids)

	glyphs := []*cff.Glyph{m.notdef.glyph}
	fds := []int{m.notdef.fd}
	gidToCID := []cid.CID{0}
	for _, c := range cids {
		g := m.glyphs[c]
		glyphs = append(glyphs, g.glyph)
		fds = append(fds, g.fd)
		gidToCID = append(gidToCID, c)
	}

	ros := m.ros
	if ros == nil {
		ros = &cid.SystemInfo{Registry: "Adobe", Ordering: "Identity"}
	}
	font := &cff.Font{
		FontInfo: m.info,
		Outlines: &cff.Outlines{
			Glyphs:       glyphs,
			Private:      m.private,
			FDSelect:     func(gid glyph.ID) int { return fds[gid] },
			ROS:          ros,
			GIDToCID:     gidToCID,
			FontMatrices: m.matrices,
		},
	}

	buf := &bytes.Buffer{}
	err := font.Write(buf)
	if err != nil {
		return nil, fmt.Errorf("cff: %w", err)
	}
	return &Program{Kind: CIDFontType0, Data: buf.Bytes()}, nil
}
