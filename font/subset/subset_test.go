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

package subset

import "testing"

func TestSplit(t *testing.T) {
	cases := []struct {
		in, tag, name string
	}{
		{"ABCDEF+Times-Roman", "ABCDEF", "Times-Roman"},
		{"Times-Roman", "", "Times-Roman"},
		{"ABCDE+Times-Roman", "", "ABCDE+Times-Roman"},
		{"abcdef+Times-Roman", "", "abcdef+Times-Roman"},
		{"ABCDEF+", "ABCDEF", ""},
	}
	for _, c := range cases {
		tag, name := Split(c.in)
		if tag != c.tag || name != c.name {
			t.Errorf("Split(%q) = %q, %q, want %q, %q", c.in, tag, name, c.tag, c.name)
		}
	}
}

func TestBaseName(t *testing.T) {
	cases := map[string]string{
		"KJHGFD+Myriad Pro": "MyriadPro",
		"Verdana":           "Verdana",
		"AAAAAA+Arial,Bold": "Arial,Bold",
	}
	for in, want := range cases {
		if got := BaseName(in); got != want {
			t.Errorf("BaseName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsValidTag(t *testing.T) {
	for tag, want := range map[string]bool{
		"ABCDEF":  true,
		"ABCDE":   false,
		"ABCDEFG": false,
		"ABCDeF":  false,
		"":        false,
	} {
		if got := IsValidTag(tag); got != want {
			t.Errorf("IsValidTag(%q) = %t", tag, got)
		}
	}
}
