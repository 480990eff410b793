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

package tounicode

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"seehuhn.de/go/pdfmerge/pdf"
)

const testCMap = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo << /Registry (Adobe) /Ordering (UCS) /Supplement 0 >> def
/CMapName /Test-UCS def
/CMapType 2 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
2 beginbfchar
<0003> <0020>
<0011> <00660069> % ligature
endbfchar
2 beginbfrange
<0024> <0026> <0041>
<0030> <0031> [<00E9> /Euro]
endbfrange
endcmap
CMapName currentdict /CMap defineresource pop
end
end
`

func TestRead(t *testing.T) {
	info, err := Read(strings.NewReader(testCMap))
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "Test-UCS" {
		t.Errorf("Name = %q", info.Name)
	}
	if info.CodeLen() != 2 {
		t.Errorf("CodeLen = %d", info.CodeLen())
	}

	want := map[uint32]string{
		0x03: " ",
		0x11: "fi",
		0x24: "A",
		0x25: "B",
		0x26: "C",
		0x30: "é",
		0x31: "€",
	}
	if d := cmp.Diff(want, info.Mappings()); d != "" {
		t.Errorf("mappings (-want +got):\n%s", d)
	}

	text, k, ok := info.Decode([]byte{0x00, 0x25, 0x00, 0x03})
	if text != "B" || k != 2 || !ok {
		t.Errorf("Decode = %q, %d, %t", text, k, ok)
	}
	if _, ok := info.Lookup(0x27); ok {
		t.Error("unmapped code 0x27 found")
	}
}

func TestSplit(t *testing.T) {
	info := &Info{
		CodeSpace: []CodeSpaceRange{
			{Low: []byte{0x00}, High: []byte{0x80}},
			{Low: []byte{0x81, 0x40}, High: []byte{0x9F, 0xFC}},
		},
	}
	codes, ok := info.Split([]byte{0x41, 0x81, 0x50, 0x42})
	if !ok {
		t.Error("valid string rejected")
	}
	if d := cmp.Diff([]uint32{0x41, 0x8150, 0x42}, codes); d != "" {
		t.Errorf("codes (-want +got):\n%s", d)
	}

	_, ok = info.Split([]byte{0xA0})
	if ok {
		t.Error("invalid string accepted")
	}

	// Without code space ranges the width is guessed from the mappings.
	info = &Info{Singles: []Single{{Code: 0x41, Text: "A"}}}
	codes, ok = info.Split([]byte("AB"))
	if !ok || len(codes) != 2 {
		t.Errorf("Split = %v, %t", codes, ok)
	}
}

func TestRoundTrip(t *testing.T) {
	info := New(2, map[uint32]string{1: "A", 2: "ffi", 300: "\U0001F600"})
	info.Ranges = []Range{{First: 0x100, Last: 0x102, Text: []string{"a"}}}

	buf := &bytes.Buffer{}
	if err := info.Write(buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<0001> <0041>") {
		t.Errorf("unexpected output:\n%s", buf)
	}

	info2, err := Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	opt := cmpopts.IgnoreUnexported(Info{})
	if d := cmp.Diff(info, info2, opt); d != "" {
		t.Errorf("round trip (-want +got):\n%s", d)
	}
	if text, _ := info2.Lookup(0x101); text != "b" {
		t.Errorf("Lookup(0x101) = %q", text)
	}
}

func TestExtract(t *testing.T) {
	f := pdf.NewMemFile()
	ref, err := f.AddStream(pdf.Dict{}, []byte(testCMap), true)
	if err != nil {
		t.Fatal(err)
	}
	info, err := Extract(f, ref)
	if err != nil {
		t.Fatal(err)
	}
	if text, _ := info.Lookup(0x11); text != "fi" {
		t.Errorf("Lookup(0x11) = %q", text)
	}

	info, err = Extract(f, nil)
	if info != nil || err != nil {
		t.Errorf("Extract(nil) = %v, %v", info, err)
	}
	if _, ok := info.Lookup(1); ok {
		t.Error("nil CMap maps a code")
	}
}

func TestInvalid(t *testing.T) {
	for _, in := range []string{"", "1 2 3", "begincmap <12", "/CMapType 1 def begincmap"} {
		_, err := Read(strings.NewReader(in))
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("%q: got %v", in, err)
		}
	}
}
