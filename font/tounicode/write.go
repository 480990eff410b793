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
	"fmt"
	"io"
	"strings"
	"text/template"

	"seehuhn.de/go/pdfmerge/pdf"
)

// Write writes the ToUnicode CMap in the format used for PDF ToUnicode
// streams.
func (info *Info) Write(w io.Writer) error {
	tmpl := template.Must(template.New("tounicode").Funcs(template.FuncMap{
		"PDFName":      formatPDFName,
		"SingleChunks": chunks[Single],
		"Single":       info.formatSingle,
		"RangeChunks":  chunks[Range],
		"Range":        info.formatRange,
	}).Parse(toUnicodeTmpl))
	return tmpl.Execute(w, info)
}

// Embed adds the CMap as a stream to f and returns the reference.
func (info *Info) Embed(f *pdf.MemFile) (pdf.Reference, error) {
	buf := &bytes.Buffer{}
	if err := info.Write(buf); err != nil {
		return 0, err
	}
	return f.AddStream(pdf.Dict{}, buf.Bytes(), true)
}

func (info *Info) formatCharCode(code uint32) (string, error) {
	for _, r := range info.CodeSpace {
		n := len(r.Low)
		if n < 4 && code >= 1<<(8*n) {
			continue
		}
		buf := make([]byte, n)
		for i := n - 1; i >= 0; i-- {
			buf[i] = byte(code)
			code >>= 8
		}
		if r.Matches(buf) {
			return pdf.FormatHex(buf), nil
		}
	}
	return "", errors.New("code not in code space")
}

func formatText(s string) string {
	text, _ := utf16be.NewEncoder().String(s)
	return pdf.FormatHex([]byte(text))
}

func (info *Info) formatSingle(s Single) (string, error) {
	code, err := info.formatCharCode(s.Code)
	if err != nil {
		return "", err
	}
	return code + " " + formatText(s.Text), nil
}

func (info *Info) formatRange(r Range) (string, error) {
	a, err := info.formatCharCode(r.First)
	if err != nil {
		return "", err
	}
	b, err := info.formatCharCode(r.Last)
	if err != nil {
		return "", err
	}

	if len(r.Text) == 1 {
		return fmt.Sprintf("%s %s %s", a, b, formatText(r.Text[0])), nil
	}

	texts := make([]string, len(r.Text))
	for i, t := range r.Text {
		texts[i] = formatText(t)
	}
	return fmt.Sprintf("%s %s [%s]", a, b, strings.Join(texts, " ")), nil
}

func formatPDFName(name pdf.Name) (string, error) {
	buf := &bytes.Buffer{}
	err := name.PDF(buf)
	return buf.String(), err
}

const chunkSize = 100

func chunks[T any](x []T) [][]T {
	var res [][]T
	for len(x) >= chunkSize {
		res = append(res, x[:chunkSize])
		x = x[chunkSize:]
	}
	if len(x) > 0 {
		res = append(res, x)
	}
	return res
}

func bytesReader(data []byte) io.Reader {
	return bytes.NewReader(data)
}

var toUnicodeTmpl = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CMapType 2 def
/CMapName {{PDFName .Name}} def
/CIDSystemInfo <<
/Registry (Adobe)
/Ordering (UCS)
/Supplement 0
>> def
{{len .CodeSpace}} begincodespacerange
{{range .CodeSpace -}}
{{.}}
{{end -}}
endcodespacerange
{{range SingleChunks .Singles -}}
{{len .}} beginbfchar
{{range . -}}
{{Single .}}
{{end -}}
endbfchar
{{end -}}
{{range RangeChunks .Ranges -}}
{{len .}} beginbfrange
{{range . -}}
{{Range .}}
{{end -}}
endbfrange
{{end -}}
endcmap
CMapName currentdict /CMap defineresource pop
end
end
`
