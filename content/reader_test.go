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

package content

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfmerge/pdf"
)

func readAll(t *testing.T, in string) []*Operation {
	t.Helper()
	r := NewReader(strings.NewReader(in))
	var res []*Operation
	for {
		op, err := r.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
		res = append(res, op)
	}
	return res
}

func TestReader(t *testing.T) {
	in := `BT
/F1 12 Tf % select font
1 0 0 1 72.5 -7 Tm
(Hello \(world\)\101\n) Tj
[<0001> 3 <0002> -7.5 (x)] TJ
/P <</MCID 3>> BDC
true false null 3 w
ET`
	want := []*Operation{
		{Name: "BT"},
		{Name: "Tf", Args: []pdf.Object{pdf.Name("F1"), pdf.Integer(12)}},
		{Name: "Tm", Args: []pdf.Object{pdf.Integer(1), pdf.Integer(0), pdf.Integer(0), pdf.Integer(1), pdf.Real(72.5), pdf.Integer(-7)}},
		{Name: "Tj", Args: []pdf.Object{pdf.String("Hello (world)A\n")}},
		{Name: "TJ", Args: []pdf.Object{pdf.Array{
			pdf.String{0, 1}, pdf.Integer(3), pdf.String{0, 2}, pdf.Real(-7.5), pdf.String("x"),
		}}},
		{Name: "BDC", Args: []pdf.Object{pdf.Name("P"), pdf.Dict{"MCID": pdf.Integer(3)}}},
		{Name: "w", Args: []pdf.Object{pdf.Bool(true), pdf.Bool(false), nil, pdf.Integer(3)}},
		{Name: "ET"},
	}
	got := readAll(t, in)
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("operations differ (-want +got):\n%s", d)
	}
}

func TestReaderNames(t *testing.T) {
	got := readAll(t, "/A#20B /C#2 Tf")
	want := []*Operation{
		{Name: "Tf", Args: []pdf.Object{pdf.Name("A B"), pdf.Name("C#2")}},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("operations differ (-want +got):\n%s", d)
	}
}

func TestInlineImage(t *testing.T) {
	data := []byte{0x00, 'E', 'I', 0xff, 'x'}
	in := "q BI /W 1 /H 1 /BPC 8 ID " + string(data) + " EI Q"
	got := readAll(t, in)
	if len(got) != 4 {
		t.Fatalf("got %d operations, want 4", len(got))
	}
	if got[2].Name != "ID" || !bytes.Equal(got[2].Data, data) {
		t.Errorf("inline image = %q %q", got[2].Name, got[2].Data)
	}
	if got[3].Name != "Q" {
		t.Errorf("last operator = %q", got[3].Name)
	}

	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	for _, op := range got {
		if err := w.Write(op); err != nil {
			t.Fatal(err)
		}
	}
	w.Flush()
	again := readAll(t, buf.String())
	if d := cmp.Diff(got, again); d != "" {
		t.Errorf("round trip differs (-want +got):\n%s", d)
	}
}

func TestTrailingOperands(t *testing.T) {
	got := readAll(t, "BT 1 2")
	want := []*Operation{
		{Name: "BT"},
		{Args: []pdf.Object{pdf.Integer(1), pdf.Integer(2)}},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("operations differ (-want +got):\n%s", d)
	}
}

func TestMalformed(t *testing.T) {
	for _, in := range []string{"[1 2", "<< /A >>", "1 ]", "<12G4> Tj"} {
		r := NewReader(strings.NewReader(in))
		var err error
		for err == nil {
			_, err = r.Next()
		}
		var sErr *scannerError
		if !errors.As(err, &sErr) {
			t.Errorf("%q: expected scanner error, got %v", in, err)
		}
	}
}

func TestWriterFormat(t *testing.T) {
	op := &Operation{
		Name: "TJ",
		Args: []pdf.Object{pdf.Array{Raw("<0001>"), pdf.Integer(3), Raw(`(\001)`)}},
	}
	if got := Format(op); got != `[<0001> 3 (\001)] TJ` {
		t.Errorf("Format = %s", got)
	}
}
