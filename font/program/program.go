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

// Package program combines embedded font programs.
//
// A [Merger] is fed the font programs of several font resources, one at a
// time, together with a [Contribution] which tells which glyphs of the
// program end up under which code of the merged font.  Once all resources
// are ingested, [Merger.FinalizeProgram] builds the combined program.
package program

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"seehuhn.de/go/pdfmerge/pdf"
)

func tracer() tracing.Trace {
	return tracing.Select("pdfmerge.program")
}

// Kind is the type of a font, as far as merging is concerned.
type Kind int

// These are the supported font kinds.
const (
	Type1        Kind = iota + 1 // simple font with a Type 1 program (FontFile)
	Type1C                       // simple font with a CFF program (FontFile3/Type1C)
	TrueType                     // simple font with a glyf program (FontFile2)
	CIDFontType0                 // composite font with a CFF program (FontFile3/CIDFontType0C)
	CIDFontType2                 // composite font with a glyf program (FontFile2)
)

func (k Kind) String() string {
	switch k {
	case Type1:
		return "Type1"
	case Type1C:
		return "Type1C"
	case TrueType:
		return "TrueType"
	case CIDFontType0:
		return "CIDFontType0"
	case CIDFontType2:
		return "CIDFontType2"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsComposite reports whether fonts of this kind use multi-byte codes.
func (k Kind) IsComposite() bool {
	return k == CIDFontType0 || k == CIDFontType2
}

// Program is a finished font program.
type Program struct {
	Kind Kind
	Data []byte

	// Length1 and Length2 are the lengths of the clear-text and binary parts
	// of a Type 1 program.  For TrueType programs, Length1 is the length of
	// the data.
	Length1, Length2 int
}

// Key returns the name of the font descriptor entry which refers to
// the program.
func (p *Program) Key() pdf.Name {
	switch p.Kind {
	case Type1:
		return "FontFile"
	case TrueType, CIDFontType2:
		return "FontFile2"
	default:
		return "FontFile3"
	}
}

// Subtype returns the value of the /Subtype entry of a FontFile3 stream, or
// the empty name for the other stream types.
func (p *Program) Subtype() pdf.Name {
	switch p.Kind {
	case Type1C:
		return "Type1C"
	case CIDFontType0:
		return "CIDFontType0C"
	default:
		return ""
	}
}

// Embed stores the program as a compressed font file stream in f.
func (p *Program) Embed(f *pdf.MemFile) (pdf.Reference, error) {
	dict := pdf.Dict{}
	switch p.Kind {
	case Type1:
		dict["Length1"] = pdf.Integer(p.Length1)
		dict["Length2"] = pdf.Integer(p.Length2)
		dict["Length3"] = pdf.Integer(0)
	case TrueType, CIDFontType2:
		dict["Length1"] = pdf.Integer(p.Length1)
	default:
		dict["Subtype"] = p.Subtype()
	}
	return f.AddStream(dict, p.Data, true)
}

// Contribution describes how the glyphs of one source font are used in the
// merged font.
type Contribution struct {
	// Codes maps codes of the merged font to codes of the source font.
	// For composite fonts, both sides are CIDs.
	Codes map[uint32]uint32

	// Names holds the glyph names of the codes of a simple font, keyed by
	// merged code.
	Names map[uint32]string

	// Text holds the text content of merged codes, where known.  This is
	// used to find glyphs through the "cmap" table of TrueType fonts.
	Text map[uint32]string

	// CIDToGID maps the CIDs of a CIDFontType2 source font to glyph IDs.
	// If this is nil, the identity mapping is used.
	CIDToGID []uint16
}

// A Merger accumulates the font programs of several source fonts.
type Merger interface {
	// IngestProgram adds the glyphs referenced by c from the given font
	// program.  If data is empty, the source font is not embedded and only
	// the code assignment is recorded.
	IngestProgram(data []byte, c *Contribution) error

	// FinalizeProgram returns the merged font program.  If none of the
	// ingested fonts was embedded, nil is returned.
	FinalizeProgram() (*Program, error)
}

// New returns a new Merger for fonts of the given kind.
func New(kind Kind) (Merger, error) {
	switch kind {
	case Type1:
		return &type1Merger{}, nil
	case Type1C:
		return &cffMerger{}, nil
	case CIDFontType0:
		return &cidCFFMerger{}, nil
	case TrueType:
		return newGlyfMerger(false), nil
	case CIDFontType2:
		return newGlyfMerger(true), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}
}

var (
	// ErrUnsupported indicates a font kind for which no merger exists.
	ErrUnsupported = errors.New("unsupported font kind")

	// ErrWrongFormat indicates a font program which does not match the kind
	// of the merger.
	ErrWrongFormat = errors.New("font program has the wrong format")
)
