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

package main

import (
	"sort"
	"strconv"

	"github.com/pterm/pterm"

	"seehuhn.de/go/pdfmerge"
)

func (intp *Intp) printFonts() {
	data := [][]string{{"#", "file", "font", "kind", "glyphs", "key"}}
	for i, f := range intp.fonts {
		key, ok := pdfmerge.CanonicalKey(f.res)
		if !ok {
			key = "-"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			f.name(),
			f.res.BaseFont,
			f.res.Kind.String(),
			strconv.Itoa(len(f.glyphs)),
			key,
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err.Error())
	}
}

// printCompat shows for every pair of fonts whether the shared glyph
// descriptions pass the mismatch heuristic.
func (intp *Intp) printCompat() {
	header := []string{""}
	for i := range intp.fonts {
		header = append(header, strconv.Itoa(i+1))
	}
	data := [][]string{header}
	for i, a := range intp.fonts {
		row := []string{strconv.Itoa(i + 1)}
		for j, b := range intp.fonts {
			var cell string
			switch {
			case i == j:
				cell = "-"
			case a.res.Kind != b.res.Kind:
				cell = "kind"
			case pdfmerge.GlyphDataCompatible(a.glyphs, b.glyphs, intp.opt):
				cell = "yes"
			default:
				cell = "no"
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}
	pterm.Printf("mismatch budget %d, %d header bytes skipped, %s\n",
		intp.opt.MismatchBudget, intp.opt.HeaderLen, intp.opt.CompareDirection)
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err.Error())
	}
}

func sortedNames[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
