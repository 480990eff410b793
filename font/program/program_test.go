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
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/sfnt/cff"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/pdfmerge/font/cffraw"
	"seehuhn.de/go/pdfmerge/font/truetyperaw"
	"seehuhn.de/go/pdfmerge/font/type1raw"
	"seehuhn.de/go/pdfmerge/internal/testfont"
	"seehuhn.de/go/pdfmerge/pdf"
)

func mustNew(t *testing.T, kind Kind) Merger {
	t.Helper()
	m, err := New(kind)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestType1Union(t *testing.T) {
	data1, _, _ := testfont.Type1Bytes(testfont.MakeType1("Test", []string{"A", "B"}, 200))
	data2, _, _ := testfont.Type1Bytes(testfont.MakeType1("Test", []string{"A", "C"}, 200))

	// Codes 1 to 3 are unused in the standard encoding, so the merged font
	// needs an explicit encoding vector.
	m := mustNew(t, Type1)
	err := m.IngestProgram(data1, &Contribution{Names: map[uint32]string{1: "A", 2: "B"}})
	if err != nil {
		t.Fatal(err)
	}
	err = m.IngestProgram(data2, &Contribution{Names: map[uint32]string{1: "A", 3: "C"}})
	if err != nil {
		t.Fatal(err)
	}
	p, err := m.FinalizeProgram()
	if err != nil {
		t.Fatal(err)
	}
	if p.Kind != Type1 || p.Length1 == 0 || p.Length2 == 0 {
		t.Errorf("unexpected program header %v %d %d", p.Kind, p.Length1, p.Length2)
	}

	raw, err := type1raw.Read(p.Data)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for name := range raw.CharStrings {
		names = append(names, name)
	}
	slices.Sort(names)
	if d := cmp.Diff([]string{".notdef", "A", "B", "C"}, names); d != "" {
		t.Errorf("glyphs (-want +got):\n%s", d)
	}
	if raw.IsStandard || raw.Encoding == nil {
		t.Fatal("merged font uses the standard encoding")
	}
	if raw.Encoding[1] != "A" || raw.Encoding[2] != "B" || raw.Encoding[3] != "C" {
		t.Errorf("wrong encoding: %q %q %q", raw.Encoding[1], raw.Encoding[2], raw.Encoding[3])
	}
}

func TestType1StandardEncoding(t *testing.T) {
	data, _, _ := testfont.Type1Bytes(testfont.MakeType1("Test", []string{"A", "B"}, 200))

	m := mustNew(t, Type1)
	err := m.IngestProgram(data, &Contribution{Names: map[uint32]string{65: "A", 66: "B"}})
	if err != nil {
		t.Fatal(err)
	}
	p, err := m.FinalizeProgram()
	if err != nil {
		t.Fatal(err)
	}
	raw, err := type1raw.Read(p.Data)
	if err != nil {
		t.Fatal(err)
	}
	if !raw.IsStandard || raw.Encoding != nil {
		t.Errorf("A and B at their standard codes: IsStandard %t, Encoding %v",
			raw.IsStandard, raw.Encoding != nil)
	}
}

func TestCFFUnion(t *testing.T) {
	data1 := testfont.CFFBytes(testfont.MakeCFF("Test", []string{"A", "B"}, 200))
	data2 := testfont.CFFBytes(testfont.MakeCFF("Test", []string{"A", "C", "eacute"}, 200))

	m := mustNew(t, Type1C)
	if err := m.IngestProgram(data1, &Contribution{Names: map[uint32]string{65: "A", 66: "B"}}); err != nil {
		t.Fatal(err)
	}
	c2 := &Contribution{Names: map[uint32]string{65: "A", 67: "C", 1: "eacute"}}
	if err := m.IngestProgram(data2, c2); err != nil {
		t.Fatal(err)
	}
	p, err := m.FinalizeProgram()
	if err != nil {
		t.Fatal(err)
	}
	if p.Kind != Type1C || p.Subtype() != "Type1C" || p.Key() != "FontFile3" {
		t.Errorf("unexpected program kind %s", p.Kind)
	}

	raw, err := cffraw.Read(p.Data)
	if err != nil {
		t.Fatal(err)
	}
	if raw.NumGlyphs() != 5 {
		t.Errorf("got %d glyphs, want 5", raw.NumGlyphs())
	}
	byName := raw.GlyphsByName()
	for _, name := range []string{".notdef", "A", "B", "C", "eacute"} {
		if _, ok := byName[name]; !ok {
			t.Errorf("glyph %q missing", name)
		}
	}
	enc := raw.BuiltinEncoding()
	if enc[1] != "eacute" || enc[66] != "B" || enc[67] != "C" {
		t.Errorf("wrong encoding: %q %q %q", enc[1], enc[66], enc[67])
	}
}

func TestCFFWrongFormat(t *testing.T) {
	data := testfont.CFFBytes(testfont.MakeCIDCFF("Test", 4, 200, false))
	m := mustNew(t, Type1C)
	err := m.IngestProgram(data, nil)
	if !errors.Is(err, ErrWrongFormat) {
		t.Errorf("got %v, want %v", err, ErrWrongFormat)
	}
}

func TestCIDCFF(t *testing.T) {
	data1 := testfont.CFFBytes(testfont.MakeCIDCFF("Test", 5, 200, false))
	data2 := testfont.CFFBytes(testfont.MakeCIDCFF("Test", 5, 300, true))

	m := mustNew(t, CIDFontType0)
	if err := m.IngestProgram(data1, &Contribution{Codes: map[uint32]uint32{1: 1, 2: 2}}); err != nil {
		t.Fatal(err)
	}
	// CID 2 is already present and must not be replaced.
	if err := m.IngestProgram(data2, &Contribution{Codes: map[uint32]uint32{2: 2, 7: 3}}); err != nil {
		t.Fatal(err)
	}
	p, err := m.FinalizeProgram()
	if err != nil {
		t.Fatal(err)
	}
	if p.Subtype() != "CIDFontType0C" {
		t.Errorf("Subtype = %q", p.Subtype())
	}

	raw, err := cffraw.Read(p.Data)
	if err != nil {
		t.Fatal(err)
	}
	if !raw.IsCIDKeyed() {
		t.Fatal("merged font is not CID-keyed")
	}
	if d := cmp.Diff([]int32{0, 1, 2, 7}, raw.Charset); d != "" {
		t.Errorf("charset (-want +got):\n%s", d)
	}

	// Glyph widths differ between the two source fonts.
	src2, err := cff.Read(bytes.NewReader(data2))
	if err != nil {
		t.Fatal(err)
	}
	merged, err := cff.Read(bytes.NewReader(p.Data))
	if err != nil {
		t.Fatal(err)
	}
	if merged.Outlines.Glyphs[3].Width != src2.Outlines.Glyphs[3].Width {
		t.Errorf("CID 7 has width %v, want %v",
			merged.Outlines.Glyphs[3].Width, src2.Outlines.Glyphs[3].Width)
	}
	if len(raw.FontDicts) < 2 {
		t.Errorf("got %d font dicts, want at least 2", len(raw.FontDicts))
	}

	ros := merged.Outlines.ROS
	if ros == nil || ros.Registry != "Adobe" || ros.Ordering != "Identity" {
		t.Errorf("unexpected ROS %v", ros)
	}
}

func TestTrueTypeSimple(t *testing.T) {
	regular := testfont.TrueTypeBytes(testfont.MakeGlyfFont())
	mono := testfont.TrueTypeBytes(testfont.MakeMonoFont())

	m := mustNew(t, TrueType)
	c1 := &Contribution{
		Codes: map[uint32]uint32{65: 65, 66: 66},
		Text:  map[uint32]string{65: "A", 66: "B"},
	}
	if err := m.IngestProgram(regular, c1); err != nil {
		t.Fatal(err)
	}
	c2 := &Contribution{
		Codes: map[uint32]uint32{65: 65, 67: 67},
		Text:  map[uint32]string{65: "A", 67: "C"},
	}
	if err := m.IngestProgram(mono, c2); err != nil {
		t.Fatal(err)
	}
	p, err := m.FinalizeProgram()
	if err != nil {
		t.Fatal(err)
	}
	if p.Key() != "FontFile2" || p.Length1 != len(p.Data) {
		t.Errorf("unexpected program header %s %d", p.Key(), p.Length1)
	}

	out, err := truetyperaw.Read(p.Data)
	if err != nil {
		t.Fatal(err)
	}
	if out.NumGlyphs() != 4 {
		t.Errorf("got %d glyphs, want 4", out.NumGlyphs())
	}
	for i, code := range []byte{'A', 'B', 'C'} {
		if gid := out.SimpleGID(code, ""); gid != glyph.ID(i+1) {
			t.Errorf("code %q: GID %d, want %d", code, gid, i+1)
		}
	}

	// The glyph for "C" comes from the second font.
	monoRaw, _ := truetyperaw.Read(mono)
	gidC := monoRaw.SimpleGID('C', "C")
	if len(out.Glyphs[3]) == 0 || len(out.Glyphs[3]) != len(monoRaw.Glyphs[gidC]) {
		t.Errorf("glyph C has %d bytes, want %d", len(out.Glyphs[3]), len(monoRaw.Glyphs[gidC]))
	}
}

func TestTrueTypeComponents(t *testing.T) {
	info := testfont.MakeGlyfFont()
	outlines := info.Outlines.(*glyf.Outlines)
	data := testfont.TrueTypeBytes(info)
	raw, err := truetyperaw.Read(data)
	if err != nil {
		t.Fatal(err)
	}
	gid := raw.SimpleGID(0xC1, "Á")
	nComp := len(outlines.Glyphs[gid].Components())

	m := mustNew(t, TrueType)
	c := &Contribution{
		Codes: map[uint32]uint32{1: 0xC1},
		Text:  map[uint32]string{1: "Á"},
	}
	if err := m.IngestProgram(data, c); err != nil {
		t.Fatal(err)
	}
	p, err := m.FinalizeProgram()
	if err != nil {
		t.Fatal(err)
	}
	out, err := truetyperaw.Read(p.Data)
	if err != nil {
		t.Fatal(err)
	}
	if out.NumGlyphs() < 2+nComp {
		t.Errorf("got %d glyphs, want at least %d", out.NumGlyphs(), 2+nComp)
	}
	if out.SimpleGID(1, "") != 1 {
		t.Error("code 1 does not map to glyph 1")
	}
}

func TestCIDTrueType(t *testing.T) {
	data := testfont.TrueTypeBytes(testfont.MakeGlyfFont())
	raw, err := truetyperaw.Read(data)
	if err != nil {
		t.Fatal(err)
	}
	gidA := raw.SimpleGID('A', "A")

	m := mustNew(t, CIDFontType2)
	cidToGID := make([]uint16, 10)
	cidToGID[3] = uint16(gidA)
	if err := m.IngestProgram(data, &Contribution{Codes: map[uint32]uint32{5: 3}, CIDToGID: cidToGID}); err != nil {
		t.Fatal(err)
	}
	p, err := m.FinalizeProgram()
	if err != nil {
		t.Fatal(err)
	}
	if p.Kind != CIDFontType2 {
		t.Errorf("Kind = %s", p.Kind)
	}

	out, err := truetyperaw.Read(p.Data)
	if err != nil {
		t.Fatal(err)
	}
	if out.NumGlyphs() < 6 {
		t.Fatalf("got %d glyphs, want at least 6", out.NumGlyphs())
	}
	for gid := 1; gid < 5; gid++ {
		if len(out.Glyphs[gid]) != 0 {
			t.Errorf("glyph %d is not empty", gid)
		}
	}
	if d := cmp.Diff(len(raw.Glyphs[gidA]), len(out.Glyphs[5])); d != "" {
		t.Errorf("glyph 5 size (-want +got):\n%s", d)
	}
}

func TestNotEmbedded(t *testing.T) {
	for _, kind := range []Kind{Type1, Type1C, TrueType, CIDFontType0, CIDFontType2} {
		m := mustNew(t, kind)
		err := m.IngestProgram(nil, &Contribution{Names: map[uint32]string{65: "A"}})
		if err != nil {
			t.Errorf("%s: %v", kind, err)
		}
		p, err := m.FinalizeProgram()
		if p != nil || err != nil {
			t.Errorf("%s: got %v, %v", kind, p, err)
		}
	}

	_, err := New(Kind(99))
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("got %v, want %v", err, ErrUnsupported)
	}
}

func TestEmbed(t *testing.T) {
	f := pdf.NewMemFile()
	p := &Program{Kind: Type1, Data: []byte("%!PS"), Length1: 4}
	ref, err := p.Embed(f)
	if err != nil {
		t.Fatal(err)
	}
	stm, err := pdf.GetStream(f, ref)
	if err != nil {
		t.Fatal(err)
	}
	if stm.Dict["Length1"] != pdf.Integer(4) || stm.Dict["Length3"] != pdf.Integer(0) {
		t.Errorf("unexpected stream dict %s", stm.Dict)
	}
	data, err := pdf.ReadAll(f, ref)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%!PS" {
		t.Errorf("data = %q", data)
	}

	p = &Program{Kind: CIDFontType0}
	ref, _ = p.Embed(f)
	stm, _ = pdf.GetStream(f, ref)
	if stm.Dict["Subtype"] != pdf.Name("CIDFontType0C") {
		t.Errorf("Subtype = %v", stm.Dict["Subtype"])
	}
}
