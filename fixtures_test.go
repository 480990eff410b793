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
	"testing"

	"seehuhn.de/go/pdfmerge/font/tounicode"
	"seehuhn.de/go/pdfmerge/internal/testfont"
	"seehuhn.de/go/pdfmerge/pdf"
)

// testFont describes a font dictionary for use in tests.
type testFont struct {
	Subtype  pdf.Name
	BaseFont string

	// FontFile is the key of the font file stream, or empty if the font is
	// not embedded.
	FontFile    pdf.Name
	FileSubtype pdf.Name
	Data        []byte

	Encoding  pdf.Object
	FirstChar int
	Widths    []float64
	ToUnicode map[uint32]string
}

// add writes the font dictionary to f.
func (tf *testFont) add(t *testing.T, f *pdf.MemFile) pdf.Reference {
	t.Helper()

	fd := pdf.Dict{
		"Type":     pdf.Name("FontDescriptor"),
		"FontName": pdf.Name(tf.BaseFont),
		"Flags":    pdf.Integer(32),
		"FontBBox": pdf.Array{pdf.Integer(0), pdf.Integer(-200), pdf.Integer(1000), pdf.Integer(800)},
	}
	if tf.FontFile != "" {
		dict := pdf.Dict{}
		if tf.FileSubtype != "" {
			dict["Subtype"] = tf.FileSubtype
		}
		ref, err := f.AddStream(dict, tf.Data, true)
		if err != nil {
			t.Fatal(err)
		}
		fd[tf.FontFile] = ref
	}
	fdRef, err := f.Add(fd)
	if err != nil {
		t.Fatal(err)
	}

	widths := make(pdf.Array, len(tf.Widths))
	for i, w := range tf.Widths {
		widths[i] = pdf.Real(w)
	}
	dict := pdf.Dict{
		"Type":           pdf.Name("Font"),
		"Subtype":        tf.Subtype,
		"BaseFont":       pdf.Name(tf.BaseFont),
		"FirstChar":      pdf.Integer(tf.FirstChar),
		"LastChar":       pdf.Integer(tf.FirstChar + len(tf.Widths) - 1),
		"Widths":         widths,
		"FontDescriptor": fdRef,
	}
	if tf.Encoding != nil {
		dict["Encoding"] = tf.Encoding
	}
	if tf.ToUnicode != nil {
		ref, err := tounicode.New(1, tf.ToUnicode).Embed(f)
		if err != nil {
			t.Fatal(err)
		}
		dict["ToUnicode"] = ref
	}

	ref, err := f.Add(dict)
	if err != nil {
		t.Fatal(err)
	}
	return ref
}

// differences returns an encoding dictionary which maps consecutive codes,
// starting at first, to the given glyph names.
func differences(first int, names ...string) pdf.Dict {
	diff := pdf.Array{pdf.Integer(first)}
	for _, name := range names {
		diff = append(diff, pdf.Name(name))
	}
	return pdf.Dict{
		"Type":        pdf.Name("Encoding"),
		"Differences": diff,
	}
}

// type1Font returns an embedded Type 1 font with the given glyphs at codes
// 65, 66, ...  Fonts with the same size have identical outlines for glyph
// names at the same position in names.
func type1Font(baseFont string, size float64, names ...string) *testFont {
	data, _, _ := testfont.Type1Bytes(testfont.MakeType1(baseFont, names, size))
	widths := make([]float64, len(names))
	for i := range widths {
		widths[i] = 500 + float64(10*i)
	}
	return &testFont{
		Subtype:   "Type1",
		BaseFont:  baseFont,
		FontFile:  "FontFile",
		Data:      data,
		Encoding:  differences(65, names...),
		FirstChar: 65,
		Widths:    widths,
	}
}

// trueTypeFont returns an embedded TrueType font with the WinAnsi encoding
// for the codes 65, 66 and 67.
func trueTypeFont(baseFont string, data []byte) *testFont {
	return &testFont{
		Subtype:   "TrueType",
		BaseFont:  baseFont,
		FontFile:  "FontFile2",
		Data:      data,
		Encoding:  pdf.Name("WinAnsiEncoding"),
		FirstChar: 65,
		Widths:    []float64{600, 610, 620},
	}
}

// addCompositeFont adds a Type0 font with a CIDFontType2 descendant, using
// Identity-H and the given ToUnicode map.  CIDs equal glyph IDs.
func addCompositeFont(t *testing.T, f *pdf.MemFile, baseFont string, data []byte, toUni map[uint32]string) pdf.Reference {
	t.Helper()

	fd := pdf.Dict{
		"Type":     pdf.Name("FontDescriptor"),
		"FontName": pdf.Name(baseFont),
		"Flags":    pdf.Integer(4),
	}
	if data != nil {
		ref, err := f.AddStream(pdf.Dict{}, data, true)
		if err != nil {
			t.Fatal(err)
		}
		fd["FontFile2"] = ref
	}
	fdRef, err := f.Add(fd)
	if err != nil {
		t.Fatal(err)
	}

	cidFont := pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("CIDFontType2"),
		"BaseFont": pdf.Name(baseFont),
		"CIDSystemInfo": pdf.Dict{
			"Registry":   pdf.String("Adobe"),
			"Ordering":   pdf.String("Identity"),
			"Supplement": pdf.Integer(0),
		},
		"FontDescriptor": fdRef,
		"DW":             pdf.Integer(1000),
		"W":              pdf.Array{pdf.Integer(1), pdf.Array{pdf.Integer(400), pdf.Integer(410)}},
		"CIDToGIDMap":    pdf.Name("Identity"),
	}
	cidRef, err := f.Add(cidFont)
	if err != nil {
		t.Fatal(err)
	}

	toUniRef, err := tounicode.New(2, toUni).Embed(f)
	if err != nil {
		t.Fatal(err)
	}

	ref, err := f.Add(pdf.Dict{
		"Type":            pdf.Name("Font"),
		"Subtype":         pdf.Name("Type0"),
		"BaseFont":        pdf.Name(baseFont),
		"Encoding":        pdf.Name("Identity-H"),
		"DescendantFonts": pdf.Array{cidRef},
		"ToUnicode":       toUniRef,
	})
	if err != nil {
		t.Fatal(err)
	}
	return ref
}

func mustExtract(t *testing.T, r pdf.Getter, ref pdf.Reference) *Resource {
	t.Helper()
	res, err := ExtractResource(r, ref)
	if err != nil {
		t.Fatal(err)
	}
	return res
}
