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
	"bufio"
	"io"

	"seehuhn.de/go/pdfmerge/pdf"
)

// Raw is an operand which is written to the content stream exactly as
// given.  This is used for string operands where the caller needs control
// over the string syntax.
type Raw string

// PDF implements the [pdf.Object] interface.
func (x Raw) PDF(w io.Writer) error {
	_, err := io.WriteString(w, string(x))
	return err
}

// Writer writes operations to a content stream, one operation per line.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a new content stream writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes a single operation.
func (w *Writer) Write(op *Operation) error {
	for i, arg := range op.Args {
		if i > 0 {
			w.w.WriteByte(' ')
		}
		if arg == nil {
			w.w.WriteString("null")
			continue
		}
		err := arg.PDF(w.w)
		if err != nil {
			return err
		}
	}
	if op.Name != "" {
		if len(op.Args) > 0 {
			w.w.WriteByte(' ')
		}
		w.w.WriteString(string(op.Name))
	}
	if op.Name == "ID" {
		w.w.WriteByte(' ')
		w.w.Write(op.Data)
		w.w.WriteString("\nEI")
	}
	_, err := w.w.WriteString("\n")
	return err
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Format returns the text of a single operation, without a trailing
// newline.
func Format(op *Operation) string {
	res := ""
	for i, arg := range op.Args {
		if i > 0 {
			res += " "
		}
		res += pdf.Format(arg)
	}
	if op.Name != "" {
		if res != "" {
			res += " "
		}
		res += string(op.Name)
	}
	return res
}
