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
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfmerge/content"
	"seehuhn.de/go/pdfmerge/internal/testfont"
	"seehuhn.de/go/pdfmerge/pdf"
)

// mergedSession returns a session where the fonts "AAAAAA+Test" (A, B at
// 65, 66) and "BBBBBB+Test" (A, C at 65, 66) are merged.  The page uses
// the second font as /F1.
func mergedSession(t *testing.T, contents string) (*Session, *SourcePage) {
	t.Helper()

	s := NewSession(nil)

	f1 := pdf.NewMemFile()
	ref1 := type1Font("AAAAAA+Test", 200, "A", "B").add(t, f1)
	_, err := s.RewritePage(&SourcePage{
		R:        f1,
		Fonts:    pdf.Dict{"F1": ref1},
		Contents: []byte("BT /F1 10 Tf (A) Tj ET"),
	})
	if err != nil {
		t.Fatal(err)
	}

	f2 := pdf.NewMemFile()
	ref2 := type1Font("BBBBBB+Test", 200, "A", "C").add(t, f2)
	page := &SourcePage{
		R:        f2,
		Fonts:    pdf.Dict{"F1": ref2},
		Contents: []byte(contents),
	}
	return s, page
}

// ops parses a content stream into its operations, in the formatted form.
func ops(t *testing.T, data []byte) []string {
	t.Helper()
	var res []string
	r := content.NewReader(bytes.NewReader(data))
	for {
		op, err := r.Next()
		if err != nil {
			break
		}
		res = append(res, content.Format(op))
	}
	return res
}

func TestRewriteOperators(t *testing.T) {
	s, page := mergedSession(t, `BT /F1 10 Tf (AB) Tj [(A) -50 (BA)] TJ 1 2 (B) " (BB) ' ET`)

	out, err := s.RewritePage(page)
	if err != nil {
		t.Fatal(err)
	}
	if out == nil {
		t.Fatal("page not rewritten")
	}

	want := []string{
		"BT",
		"/Test_Type1 10 Tf",
		"(AC) Tj",
		"[(A) -50 (CA)] TJ",
		`1 2 (C) "`,
		"(CC) '",
		"ET",
	}
	if d := cmp.Diff(want, ops(t, out.Content)); d != "" {
		t.Errorf("content (-want +got):\n%s", d)
	}
	if d := cmp.Diff(map[pdf.Name]string{"F1": "Test_Type1"}, out.Fonts); d != "" {
		t.Errorf("fonts (-want +got):\n%s", d)
	}
}

func TestRewriteUnmappedCode(t *testing.T) {
	// Code 70 is not part of the font, so the string is kept as it is.
	s, page := mergedSession(t, "BT /F1 10 Tf (BF) Tj (B) Tj ET")

	out, err := s.RewritePage(page)
	if err != nil {
		t.Fatal(err)
	}
	got := ops(t, out.Content)
	if got[2] != "(BF) Tj" || got[3] != "(C) Tj" {
		t.Errorf("unexpected content %q", got)
	}
}

func TestMergedCodeError(t *testing.T) {
	s, page := mergedSession(t, "")
	st := &rewriteState{
		s:        s,
		page:     page,
		targets:  make(map[pdf.Name]target),
		usedKeys: make(map[string]pdf.Name),
	}
	tg := st.selectFont("F1")
	if tg.font == nil {
		t.Fatal("font not merged")
	}

	if _, err := st.mergedCode(66); err != nil {
		t.Errorf("code 66: %v", err)
	}
	_, err := st.mergedCode(70)
	if !errors.Is(err, ErrAmbiguousGlyphIdentity) {
		t.Errorf("code 70: got %v, want ErrAmbiguousGlyphIdentity", err)
	}
}

func TestRewritePassThrough(t *testing.T) {
	data := "\x00EI\xffx"
	contents := "q /GS1 gs /Im1 Do /CS0 cs 0.5 /P1 scn /DeviceRGB CS " +
		"/OC /MC0 BDC EMC BI /W 1 /H 1 /BPC 8 ID " + data + " EI Q " +
		"BT /F1 10 Tf (B) Tj /F9 10 Tf (B) Tj ET"
	s, page := mergedSession(t, contents)

	out, err := s.RewritePage(page)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out.Content, []byte("ID "+data+"\nEI")) {
		t.Errorf("inline image data not preserved:\n%s", out.Content)
	}
	want := []pdf.Name{"CS0", "F9", "GS1", "Im1", "MC0", "P1"}
	if d := cmp.Diff(want, out.References); d != "" {
		t.Errorf("references (-want +got):\n%s", d)
	}

	got := ops(t, out.Content)
	if !strings.HasPrefix(got[len(got)-2], "(B) Tj") {
		t.Errorf("text after unknown font was changed: %q", got[len(got)-2])
	}
}

func TestRewriteNoFonts(t *testing.T) {
	s := NewSession(nil)
	out, err := s.RewritePage(&SourcePage{Contents: []byte("q 1 0 0 1 0 0 cm Q")})
	if err != nil {
		t.Fatal(err)
	}
	if out != nil {
		t.Errorf("got %v, want nil", out)
	}
}

func TestRewriteSingleSource(t *testing.T) {
	// With only one source font, codes are left alone.
	s := NewSession(nil)
	f := pdf.NewMemFile()
	ref := type1Font("AAAAAA+Test", 200, "A", "B").add(t, f)
	out, err := s.RewritePage(&SourcePage{
		R:        f,
		Fonts:    pdf.Dict{"F1": ref},
		Contents: []byte("BT /F1 10 Tf (\\000AB) Tj ET"),
	})
	if err != nil {
		t.Fatal(err)
	}
	got := ops(t, out.Content)
	if got[2] != `(\000AB) Tj` {
		t.Errorf("got %q", got[2])
	}
}

func TestRewriteDuplicateGlyph(t *testing.T) {
	s := NewSession(nil)
	f := pdf.NewMemFile()
	ref := (&testFont{
		Subtype:   "Type1",
		BaseFont:  "Test",
		Encoding:  differences(65, "A", "A"),
		FirstChar: 65,
		Widths:    []float64{500, 510},
	}).add(t, f)
	out, err := s.RewritePage(&SourcePage{
		R:        f,
		Fonts:    pdf.Dict{"F1": ref},
		Contents: []byte("BT /F1 10 Tf (AB) Tj ET"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := ops(t, out.Content); got[2] != "(AB) Tj" {
		t.Errorf("got %q", got[2])
	}

	used := s.UsedFonts()
	if len(used) != 1 {
		t.Fatalf("got %d fonts", len(used))
	}
	if d := cmp.Diff([]float64{500, 510}, used[0].Widths()); d != "" {
		t.Errorf("widths (-want +got):\n%s", d)
	}
}

func TestRewriteCompositeCodeZero(t *testing.T) {
	// A single source font, where code 0 must move away from CID 0.
	s := NewSession(nil)
	f := pdf.NewMemFile()
	ref := addCompositeFont(t, f, "Go", nil, map[uint32]string{0: "x", 1: "y"})
	out, err := s.RewritePage(&SourcePage{
		R:        f,
		Fonts:    pdf.Dict{"F1": ref},
		Contents: []byte("BT /F1 10 Tf <00000001> Tj ET"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := ops(t, out.Content); got[2] != "<00010002> Tj" {
		t.Errorf("got %q", got[2])
	}
}

func TestRewriteComposite(t *testing.T) {
	data := testfont.TrueTypeBytes(testfont.MakeGlyfFont())
	s := NewSession(nil)

	f1 := pdf.NewMemFile()
	ref1 := addCompositeFont(t, f1, "ABCDEF+Go", data, map[uint32]string{1: "x", 2: "y"})
	_, err := s.RewritePage(&SourcePage{
		R:        f1,
		Fonts:    pdf.Dict{"F1": ref1},
		Contents: []byte("BT /F1 10 Tf <00010002> Tj ET"),
	})
	if err != nil {
		t.Fatal(err)
	}

	f2 := pdf.NewMemFile()
	ref2 := addCompositeFont(t, f2, "GHIJKL+Go", data, map[uint32]string{1: "x", 2: "z"})
	out, err := s.RewritePage(&SourcePage{
		R:        f2,
		Fonts:    pdf.Dict{"F1": ref2},
		Contents: []byte("BT /F1 10 Tf <00010002> Tj [<0002> 100 <0001>] TJ ET"),
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"BT",
		"/Go_Type0 10 Tf",
		"<00010003> Tj",
		"[<0003> 100 <0001>] TJ",
		"ET",
	}
	if d := cmp.Diff(want, ops(t, out.Content)); d != "" {
		t.Errorf("content (-want +got):\n%s", d)
	}

	programs, err := s.SerializedFontPrograms()
	if err != nil {
		t.Fatal(err)
	}
	p := programs["Go_Type0"]
	if p == nil || p.Key() != "FontFile2" {
		t.Errorf("unexpected program %v", p)
	}
}
