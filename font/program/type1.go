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

	"seehuhn.de/go/postscript/type1"
)

// type1Merger forms the union of Type 1 programs, glyph by glyph name.
type type1Merger struct {
	font     *type1.Font
	encoding map[uint32]string
}

func (m *type1Merger) IngestProgram(data []byte, c *Contribution) error {
	if m.encoding == nil {
		m.encoding = make(map[uint32]string)
	}
	if len(data) == 0 {
		m.recordNames(c)
		return nil
	}

	src, err := type1.Read(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("type1: %w", err)
	}

	if m.font == nil {
		m.font = &type1.Font{
			FontInfo: src.FontInfo,
			Outlines: &type1.Outlines{
				Glyphs:  make(map[string]*type1.Glyph),
				Private: src.Outlines.Private,
			},
		}
	}

	added := 0
	for name, g := range src.Outlines.Glyphs {
		if _, seen := m.font.Outlines.Glyphs[name]; seen {
			continue
		}
		m.font.Outlines.Glyphs[name] = g
		added++
	}
	tracer().Debugf("type1 %s: %d new glyphs", src.FontInfo.FontName, added)

	m.recordNames(c)
	return nil
}

func (m *type1Merger) recordNames(c *Contribution) {
	if c == nil {
		return
	}
	for code, name := range c.Names {
		if code < 256 && name != "" {
			m.encoding[code] = name
		}
	}
}

func (m *type1Merger) FinalizeProgram() (*Program, error) {
	if m.font == nil {
		return nil, nil
	}

	encoding := make([]string, 256)
	for i := range encoding {
		encoding[i] = ".notdef"
	}
	for code, name := range m.encoding {
		if _, ok := m.font.Outlines.Glyphs[name]; ok {
			encoding[code] = name
		}
	}
	m.font.Outlines.Encoding = encoding

	buf := &bytes.Buffer{}
	l1, l2, err := m.font.WritePDF(buf)
	if err != nil {
		return nil, fmt.Errorf("type1: %w", err)
	}
	return &Program{
		Kind:    Type1,
		Data:    buf.Bytes(),
		Length1: l1,
		Length2: l2,
	}, nil
}
