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
	"fmt"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfmerge/font/program"
	"seehuhn.de/go/pdfmerge/font/tounicode"
)

// MergedFont is a font of the output document which combines the glyphs of
// one or more font resources.
//
// Once a merged code is assigned to a glyph identity, it never changes.
type MergedFont interface {
	// Name returns the name of the merged font.  This is the canonical key
	// of the ingested resources, possibly with a suffix "_n".
	Name() string

	Kind() program.Kind

	// Count returns the number of resources ingested so far.
	Count() int

	// Ingest folds a resource into the merged font.  If the resource cannot
	// be merged, an error is returned and the font is not changed.
	Ingest(res *Resource) error

	// Lookup returns the merged code for a glyph identity.
	Lookup(identity string) (uint32, bool)

	// MapChar returns the merged code of a glyph which represents the
	// given character.  The second return value is false if there is no
	// such glyph.
	MapChar(r rune) (uint32, bool)

	// Unchanged reports whether every code of the first ingested resource
	// is its own merged code.
	Unchanged() bool

	// Decode returns the glyph identity of a merged code.
	Decode(code uint32) (string, bool)

	// FirstChar and LastChar give the range of assigned merged codes.
	FirstChar() uint32
	LastChar() uint32

	// Widths returns the glyph widths for the codes FirstChar to LastChar.
	// Unassigned codes have width 0.
	Widths() []float64

	// Differences returns the glyph names of the merged codes of a simple
	// font.  For composite fonts, nil is returned.
	Differences() map[byte]string

	// BBox returns the union of the bounding boxes of the ingested
	// resources.
	BBox() rect.Rect

	// ToUnicode returns a ToUnicode CMap for the merged codes.
	ToUnicode() *tounicode.Info

	// SerializeProgram returns the merged font program.  The program is
	// built on the first call, later calls return the same result.  After
	// this, Ingest fails with ErrFinalized.  If none of the resources was
	// embedded, nil is returned.
	SerializeProgram() (*program.Program, error)
}

// NewMergedFont returns an empty merged font of the given kind.
func NewMergedFont(name string, kind program.Kind, opt *Options) (MergedFont, error) {
	merger, err := program.New(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFontProgram, err)
	}
	core := mergedCore{
		name:     name,
		kind:     kind,
		opt:      opt.withDefaults(),
		codes:    make(map[string]uint32),
		ids:      make(map[uint32]string),
		widths:   make(map[uint32]float64),
		names:    make(map[uint32]string),
		text:     make(map[uint32]string),
		byText:   make(map[string]uint32),
		outlines: make(map[string][]byte),
		merger:   merger,
	}
	if kind.IsComposite() {
		core.limit = 0xFFFF
		core.codeLen = 2
		core.next = 1 // CID 0 is .notdef
		return &compositeFont{core}, nil
	}
	core.limit = 256
	core.codeLen = 1
	return &simpleFont{core}, nil
}

// mergedCore holds the state shared by all merged font variants.
type mergedCore struct {
	name    string
	kind    program.Kind
	opt     *Options
	limit   uint32
	codeLen int
	count   int

	codes  map[string]uint32 // identity -> merged code
	ids    map[uint32]string // merged code -> identity
	widths map[uint32]float64
	names  map[uint32]string
	text   map[uint32]string
	byText map[string]uint32
	next   uint32

	// unchanged is set if the first resource kept all of its codes.
	unchanged bool

	outlines map[string][]byte
	bbox     rect.Rect

	merger    program.Merger
	finalized bool
	prog      *program.Program
	progErr   error
}

// assignment is a planned mapping from a code of a resource to a merged
// code.
type assignment struct {
	code, merged uint32
	identity     string
	isNew        bool
}

func (a assignment) String() string {
	return fmt.Sprintf("%d->%d %s", a.code, a.merged, a.identity)
}

func (f *mergedCore) Name() string       { return f.name }
func (f *mergedCore) Kind() program.Kind { return f.kind }
func (f *mergedCore) Count() int         { return f.count }

func (f *mergedCore) Lookup(identity string) (uint32, bool) {
	code, ok := f.codes[identity]
	return code, ok
}

func (f *mergedCore) MapChar(r rune) (uint32, bool) {
	if code, ok := f.codes[string(r)]; ok {
		return code, true
	}
	code, ok := f.byText[string(r)]
	return code, ok
}

func (f *mergedCore) Unchanged() bool {
	return f.count == 1 && f.unchanged
}

func (f *mergedCore) Decode(code uint32) (string, bool) {
	id, ok := f.ids[code]
	return id, ok
}

func (f *mergedCore) FirstChar() uint32 {
	if len(f.ids) == 0 {
		return 0
	}
	first := f.limit
	for code := range f.ids {
		first = min(first, code)
	}
	return first
}

func (f *mergedCore) LastChar() uint32 {
	var last uint32
	for code := range f.ids {
		last = max(last, code)
	}
	return last
}

func (f *mergedCore) Widths() []float64 {
	if len(f.ids) == 0 {
		return nil
	}
	first, last := f.FirstChar(), f.LastChar()
	res := make([]float64, last-first+1)
	for code, w := range f.widths {
		res[code-first] = w
	}
	return res
}

func (f *mergedCore) BBox() rect.Rect {
	return f.bbox
}

func (f *mergedCore) ToUnicode() *tounicode.Info {
	return tounicode.New(f.codeLen, f.text)
}

func (f *mergedCore) SerializeProgram() (*program.Program, error) {
	if !f.finalized {
		f.finalized = true
		f.prog, f.progErr = f.merger.FinalizeProgram()
		if f.progErr != nil {
			f.progErr = fontError(f.name, "serialize", f.progErr)
		}
	}
	return f.prog, f.progErr
}

// ingest implements the steps common to all variants.  The trusted
// function decides whether the width of a code of the resource is
// recorded.
func (f *mergedCore) ingest(res *Resource, trusted func(res *Resource, code uint32) bool) error {
	if f.finalized {
		return fontError(f.name, "ingest", ErrFinalized)
	}
	if res.Kind != f.kind {
		return fontError(f.name, "ingest", fmt.Errorf("%w: %s cannot be merged into %s",
			ErrIncompatibleGlyphData, res.Kind, f.kind))
	}

	glyphs := glyphData(res)
	if f.count > 0 && !GlyphDataCompatible(f.outlines, glyphs, f.opt) {
		return fontError(f.name, "ingest", fmt.Errorf("%w: %s", ErrIncompatibleGlyphData, res.BaseFont))
	}

	plan, err := f.plan(res)
	if err != nil {
		return err
	}

	c := &program.Contribution{
		Codes:    make(map[uint32]uint32, len(plan)),
		Names:    make(map[uint32]string),
		Text:     make(map[uint32]string),
		CIDToGID: res.CIDToGID,
	}
	for _, a := range plan {
		c.Codes[a.merged] = a.code
		if name, ok := res.glyphName(a.code); ok {
			c.Names[a.merged] = name
		}
		if text := Text(res, a.code); text != "" {
			c.Text[a.merged] = text
		}
	}
	err = f.merger.IngestProgram(res.Program, c)
	if err != nil {
		tracer().Errorf("%s: %v", res.BaseFont, err)
		return fontError(f.name, "ingest", fmt.Errorf("%w: %v", ErrUnreadableFontProgram, err))
	}

	// From here on, nothing can fail.
	added := 0
	for _, a := range plan {
		w := res.Width(a.code)
		isTrusted := trusted(res, a.code)
		if a.isNew {
			if _, seen := f.codes[a.identity]; !seen {
				f.codes[a.identity] = a.merged
			}
			f.ids[a.merged] = a.identity
			f.next = max(f.next, a.merged+1)
			if isTrusted {
				f.widths[a.merged] = w
			} else {
				f.widths[a.merged] = 0
			}
			added++
		} else if isTrusted && f.widths[a.merged] == 0 {
			f.widths[a.merged] = w
		}

		if name, ok := c.Names[a.merged]; ok {
			if _, seen := f.names[a.merged]; !seen {
				f.names[a.merged] = name
			}
		}
		if text, ok := c.Text[a.merged]; ok {
			if _, seen := f.text[a.merged]; !seen {
				f.text[a.merged] = text
			}
			if _, seen := f.byText[text]; !seen {
				f.byText[text] = a.merged
			}
		}
	}
	for key, g := range glyphs {
		if _, seen := f.outlines[key]; !seen {
			f.outlines[key] = g
		}
	}
	if bbox := res.FontBBox; bbox != nil {
		b := rect.Rect{LLx: bbox.LLx, LLy: bbox.LLy, URx: bbox.URx, URy: bbox.URy}
		if f.bbox.IsZero() {
			f.bbox = b
		} else {
			f.bbox = rect.Rect{
				LLx: min(f.bbox.LLx, b.LLx),
				LLy: min(f.bbox.LLy, b.LLy),
				URx: max(f.bbox.URx, b.URx),
				URy: max(f.bbox.URy, b.URy),
			}
		}
	}
	if f.count == 0 {
		f.unchanged = res.CodeLen == f.codeLen
		for _, a := range plan {
			if a.code != a.merged {
				tracer().Debugf("%s: code moved, %s", f.name, a)
				f.unchanged = false
				break
			}
		}
	}
	f.count++

	tracer().Debugf("%s: merged %s, %d of %d codes new", f.name, res.BaseFont, added, len(plan))
	return nil
}

// plan assigns merged codes to the codes of a resource, without changing
// the font.  A code keeps its value as merged code whenever that slot is
// free, even if another code of the same resource shows the same glyph.
// CID 0 is never assigned in composite fonts.
func (f *mergedCore) plan(res *Resource) ([]assignment, error) {
	codes := res.Codes()

	var plan []assignment
	planned := make(map[string]uint32)
	taken := make(map[uint32]bool)
	next := f.next
	free := func(code uint32) bool {
		_, used := f.ids[code]
		return !used && !taken[code] && code < f.limit && (f.codeLen == 1 || code != 0)
	}
	for _, code := range codes {
		id, ok := DecodeIdentity(res, code)
		if !ok {
			continue
		}

		if merged, ok := f.codes[id]; ok {
			plan = append(plan, assignment{code: code, merged: merged, identity: id})
			continue
		}
		if merged, ok := planned[id]; ok {
			if free(code) {
				merged = code
				next = max(next, merged+1)
				taken[merged] = true
				plan = append(plan, assignment{code: code, merged: merged, identity: id, isNew: true})
			} else {
				plan = append(plan, assignment{code: code, merged: merged, identity: id})
			}
			continue
		}

		merged := code
		if !free(merged) {
			merged = next
		}
		if merged >= f.limit {
			return nil, fontError(f.name, "ingest", fmt.Errorf("%w: %s", ErrCodeSpaceExhausted, res.BaseFont))
		}
		next = max(next, merged+1)
		planned[id] = merged
		taken[merged] = true
		plan = append(plan, assignment{code: code, merged: merged, identity: id, isNew: true})
	}

	if len(plan) == 0 && len(codes) > 0 {
		return nil, fontError(f.name, "ingest", fmt.Errorf("%w: %s", ErrMissingEncodingInfo, res.BaseFont))
	}
	return plan, nil
}

// simpleFont is a merged font with single byte codes.
type simpleFont struct {
	mergedCore
}

func (f *simpleFont) Ingest(res *Resource) error {
	return f.ingest(res, f.trusted)
}

// trusted decides whether the width of a code is kept.  A width is only
// trusted if the encoding dictionary names the glyph for the code.  The
// built-in encoding of the font program does not count.  Otherwise a width
// 0 is recorded, so that text set with a wrongly guessed glyph does not move.
func (f *simpleFont) trusted(res *Resource, code uint32) bool {
	if f.kind == program.Type1 || res.Subtype == "TrueType" {
		return true
	}
	if code <= 255 {
		if _, ok := res.Encoding.ExplicitName(byte(code)); ok {
			return true
		}
	}
	return res.usesZeroWidth()
}

func (f *simpleFont) Differences() map[byte]string {
	res := make(map[byte]string, len(f.names))
	for code, name := range f.names {
		res[byte(code)] = name
	}
	return res
}

// compositeFont is a merged font with two-byte codes.  Merged codes are
// CIDs, used with the Identity-H CMap.
type compositeFont struct {
	mergedCore
}

func (f *compositeFont) Ingest(res *Resource) error {
	return f.ingest(res, func(*Resource, uint32) bool { return true })
}

func (f *compositeFont) Differences() map[byte]string {
	return nil
}
