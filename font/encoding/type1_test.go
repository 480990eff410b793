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

package encoding

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfmerge/pdf"
)

func TestExtract(t *testing.T) {
	r := pdf.NewMemFile()
	diffRef, _ := r.Add(pdf.Array{
		pdf.Integer(65), pdf.Name("B"), pdf.Name("C"),
		pdf.Integer(300), pdf.Name("ignored"),
		pdf.Integer(1), pdf.Name("uni0416"),
	})
	encDict := pdf.Dict{
		"Type":         pdf.Name("Encoding"),
		"BaseEncoding": pdf.Name("WinAnsiEncoding"),
		"Differences":  diffRef,
	}

	e, err := Extract(r, encDict)
	if err != nil {
		t.Fatal(err)
	}
	want := map[byte]string{65: "B", 66: "C", 1: "uni0416"}
	if d := cmp.Diff(want, e.Differences); d != "" {
		t.Errorf("differences (-want +got):\n%s", d)
	}
	if !e.IsDictionary() {
		t.Error("IsDictionary = false")
	}

	cases := []struct {
		code byte
		name string
		ok   bool
	}{
		{65, "B", true},
		{67, "C", true},
		{0x80, "Euro", true},
		{1, "uni0416", true},
		{2, "", false},
	}
	for _, c := range cases {
		name, ok := e.GlyphName(c.code)
		if name != c.name || ok != c.ok {
			t.Errorf("GlyphName(%d) = %q, %t", c.code, name, ok)
		}
	}
	if got := e.Decode(1); got != "Ж" {
		t.Errorf("Decode(1) = %q", got)
	}
}

func TestExtractNamed(t *testing.T) {
	e, err := Extract(nil, pdf.Name("MacRomanEncoding"))
	if err != nil {
		t.Fatal(err)
	}
	if e.IsDictionary() {
		t.Error("named encoding reported as dictionary")
	}
	if got := e.Decode(0x8E); got != "é" {
		t.Errorf("Decode(0x8E) = %q", got)
	}

	_, err = Extract(nil, pdf.Name("MacExpertEncoding"))
	if !errors.Is(err, ErrUnknownEncoding) {
		t.Errorf("unexpected error %v", err)
	}

	e, err = Extract(nil, nil)
	if e != nil || err != nil {
		t.Errorf("Extract(nil) = %v, %v", e, err)
	}
	if _, ok := e.GlyphName(65); ok {
		t.Error("nil encoding maps code 65")
	}
}

func TestBuiltin(t *testing.T) {
	builtin := make([]string, 256)
	builtin[5] = "alpha"
	e := &Simple{Builtin: builtin, Differences: map[byte]string{6: "beta"}}
	got := e.CodeToName()
	want := map[byte]string{5: "alpha", 6: "beta"}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("CodeToName (-want +got):\n%s", d)
	}
}

func TestExplicitName(t *testing.T) {
	builtin := make([]string, 256)
	builtin[66] = "B"
	e := &Simple{Builtin: builtin, Differences: map[byte]string{65: "A"}}
	if name, ok := e.ExplicitName(65); !ok || name != "A" {
		t.Errorf("ExplicitName(65) = %q, %t", name, ok)
	}
	if name, ok := e.ExplicitName(66); ok {
		t.Errorf("ExplicitName(66) = %q, built-in encoding used", name)
	}
	if _, ok := e.GlyphName(66); !ok {
		t.Error("GlyphName(66) ignores the built-in encoding")
	}

	e = &Simple{Base: "WinAnsiEncoding", Builtin: builtin}
	if name, ok := e.ExplicitName(0x80); !ok || name != "Euro" {
		t.Errorf("ExplicitName(0x80) = %q, %t", name, ok)
	}
}

func TestAsPDF(t *testing.T) {
	if got := AsPDF(map[byte]string{'A': "A", 0x80: "Euro"}); got != pdf.Name("WinAnsiEncoding") {
		t.Errorf("AsPDF = %s", pdf.Format(got))
	}

	got := AsPDF(map[byte]string{'A': "A", 'B': "B", 1: "g1", 2: "g2", 10: "x"})
	dict, ok := got.(pdf.Dict)
	if !ok {
		t.Fatalf("AsPDF = %s", pdf.Format(got))
	}
	wantDiff := pdf.Array{pdf.Integer(1), pdf.Name("g1"), pdf.Name("g2"), pdf.Integer(10), pdf.Name("x")}
	if d := cmp.Diff(wantDiff, dict["Differences"]); d != "" {
		t.Errorf("Differences (-want +got):\n%s", d)
	}
}
