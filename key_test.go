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
	"bytes"
	"testing"

	"seehuhn.de/go/pdfmerge/font/cffraw"
	"seehuhn.de/go/pdfmerge/font/program"
	"seehuhn.de/go/pdfmerge/font/tounicode"
	"seehuhn.de/go/pdfmerge/font/truetyperaw"
	"seehuhn.de/go/pdfmerge/internal/testfont"
)

func TestCanonicalKey(t *testing.T) {
	toUni := tounicode.New(2, map[uint32]string{1: "a"})

	regular, err := truetyperaw.Read(testfont.TrueTypeBytes(testfont.MakeGlyfFont()))
	if err != nil {
		t.Fatal(err)
	}

	// A font with a (1,0) cmap subtable which maps code 1.
	m, err := program.New(program.TrueType)
	if err != nil {
		t.Fatal(err)
	}
	err = m.IngestProgram(testfont.TrueTypeBytes(testfont.MakeGlyfFont()), &program.Contribution{
		Codes: map[uint32]uint32{1: 65},
		Text:  map[uint32]string{1: "A"},
	})
	if err != nil {
		t.Fatal(err)
	}
	p, err := m.FinalizeProgram()
	if err != nil {
		t.Fatal(err)
	}
	codeOne, err := truetyperaw.Read(p.Data)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		desc string
		res  *Resource
		want string
		ok   bool
	}{
		{
			desc: "Type1",
			res:  &Resource{Subtype: "Type1", Kind: program.Type1, BaseFont: "ABCDEF+Times Roman"},
			want: "TimesRoman_Type1",
			ok:   true,
		},
		{
			desc: "no name",
			res:  &Resource{Subtype: "Type1", Kind: program.Type1},
		},
		{
			desc: "tag only",
			res:  &Resource{Subtype: "Type1", Kind: program.Type1, BaseFont: "ABCDEF+"},
		},
		{
			desc: "Type1C with format 1 encoding and charset",
			res: &Resource{Subtype: "Type1", Kind: program.Type1C, BaseFont: "ABCDEF+Foo",
				CFF: &cffraw.Font{
					EncodingFormat: 1,
					CharsetFormat:  1,
					Charset:        []int32{0, 400},
					FDSelectFormat: cffraw.Absent,
				}},
			want: "Foo_Type1f1encf1cs",
			ok:   true,
		},
		{
			desc: "Type1C with standard strings",
			res: &Resource{Subtype: "Type1", Kind: program.Type1C, BaseFont: "Foo",
				CFF: &cffraw.Font{
					EncodingFormat: 0,
					CharsetFormat:  0,
					Charset:        []int32{0, 34},
					FDSelectFormat: cffraw.Absent,
				}},
			want: "Foo_Type1f0encstdcs",
			ok:   true,
		},
		{
			desc: "Type1C with predefined encoding",
			res: &Resource{Subtype: "Type1", Kind: program.Type1C, BaseFont: "Foo",
				CFF: &cffraw.Font{
					EncodingFormat: cffraw.Predefined,
					CharsetFormat:  2,
					Charset:        []int32{0, 391},
					FDSelectFormat: cffraw.Absent,
				}},
			want: "Foo_Type1",
			ok:   true,
		},
		{
			desc: "CIDFontType0 with FDSelect format 0",
			res: &Resource{Subtype: "Type0", Kind: program.CIDFontType0, BaseFont: "Foo",
				CFF: &cffraw.Font{FDSelectFormat: 0, EncodingFormat: cffraw.Absent}},
			want: "Foo_Type0format0",
			ok:   true,
		},
		{
			desc: "CIDFontType0 with FDSelect format 3",
			res: &Resource{Subtype: "Type0", Kind: program.CIDFontType0, BaseFont: "Foo",
				CFF: &cffraw.Font{FDSelectFormat: 3, EncodingFormat: cffraw.Absent}},
			want: "Foo_Type0",
			ok:   true,
		},
		{
			desc: "CIDFontType2 subset",
			res: &Resource{Subtype: "Type0", Kind: program.CIDFontType2, BaseFont: "ABCDEF+Foo",
				ToUnicode: toUni},
			want: "Foo_Type0",
			ok:   true,
		},
		{
			desc: "CIDFontType2 full font",
			res: &Resource{Subtype: "Type0", Kind: program.CIDFontType2, BaseFont: "Foo",
				ToUnicode: toUni},
			want: "Foo_Type0f3",
			ok:   true,
		},
		{
			desc: "CIDFontType2 without ToUnicode",
			res:  &Resource{Subtype: "Type0", Kind: program.CIDFontType2, BaseFont: "Foo"},
		},
		{
			desc: "TrueType subset",
			res: &Resource{Subtype: "TrueType", Kind: program.TrueType, BaseFont: "ABCDEF+Go",
				TrueType: regular},
			want: "Go_TrueType",
			ok:   true,
		},
		{
			desc: "TrueType subset mapping code 1",
			res: &Resource{Subtype: "TrueType", Kind: program.TrueType, BaseFont: "ABCDEF+Go",
				TrueType: codeOne},
			want: "Go_TrueTypecid",
			ok:   true,
		},
		{
			desc: "TrueType full font mapping code 1",
			res: &Resource{Subtype: "TrueType", Kind: program.TrueType, BaseFont: "Go",
				TrueType: codeOne},
			want: "Go_TrueType",
			ok:   true,
		},
	}
	for _, c := range cases {
		got, ok := CanonicalKey(c.res)
		if got != c.want || ok != c.ok {
			t.Errorf("%s: got %q %t, want %q %t", c.desc, got, ok, c.want, c.ok)
		}
	}
}

func TestGlyphDataCompatible(t *testing.T) {
	base := make([]byte, 30)
	for i := range base {
		base[i] = byte(i + 1)
	}
	headDiffers := bytes.Clone(base)
	for i := range 10 {
		headDiffers[i] = 0xFF
	}
	tailDiffers := bytes.Clone(base)
	for i := 25; i < 30; i++ {
		tailDiffers[i] = 0xFF
	}
	shifted := append([]byte{0xAA}, base...)
	twoDiffer := bytes.Clone(base)
	twoDiffer[3] = 0
	twoDiffer[28] = 0

	existing := map[string][]byte{"A": base}
	cases := []struct {
		desc      string
		candidate []byte
		opt       *Options
		want      bool
	}{
		{"first 10 bytes differ", headDiffers, nil, true},
		{"last 5 bytes differ", tailDiffers, nil, false},
		{"two bytes differ", twoDiffer, nil, true},
		{"identical", base, nil, true},
		{"extra leading byte", shifted, nil, true},
		{"head first, extra leading byte", shifted, &Options{MismatchBudget: 2, CompareDirection: HeadFirst}, false},
		{"head first, first 10 differ", headDiffers, &Options{MismatchBudget: 2, CompareDirection: HeadFirst}, false},
		{"head first, header skipped", headDiffers, &Options{MismatchBudget: 2, HeaderLen: 10, CompareDirection: HeadFirst}, true},
		{"no header window", headDiffers, &Options{MismatchBudget: 2}, false},
		{"header window too short", headDiffers, &Options{MismatchBudget: 2, HeaderLen: 7}, false},
		{"zero budget", twoDiffer, &Options{MismatchBudget: 0}, false},
		{"large budget", tailDiffers, &Options{MismatchBudget: 5}, true},
	}
	for _, c := range cases {
		candidate := map[string][]byte{"A": c.candidate, "B": {1, 2, 3}}
		got := GlyphDataCompatible(existing, candidate, c.opt)
		if got != c.want {
			t.Errorf("%s: got %t, want %t", c.desc, got, c.want)
		}
	}

	// Glyphs only present in one of the fonts are not compared.
	if !GlyphDataCompatible(existing, map[string][]byte{"B": tailDiffers}, nil) {
		t.Error("disjoint glyph sets reported as incompatible")
	}
}

func TestCountMismatches(t *testing.T) {
	a := []byte{1, 2, 3, 4, 5}
	b := []byte{9, 9, 1, 2, 3, 4, 5}
	if n := countMismatches(a, b, TailFirst, 0, 10); n != 0 {
		t.Errorf("tail first: %d mismatches", n)
	}
	if n := countMismatches(a, b, HeadFirst, 0, 10); n != 5 {
		t.Errorf("head first: %d mismatches", n)
	}
	if n := countMismatches(a, b, HeadFirst, 0, 2); n != 3 {
		t.Errorf("head first with limit: %d mismatches", n)
	}
	if n := countMismatches(a, b, HeadFirst, 2, 10); n != 3 {
		t.Errorf("head first with header: %d mismatches", n)
	}
	if n := countMismatches(a, b, TailFirst, 6, 10); n != 0 {
		t.Errorf("header longer than the data: %d mismatches", n)
	}
}
