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
	"errors"
	"io"

	"seehuhn.de/go/pdfmerge/pdf"
)

// Operation is a single content stream operator together with its operands.
type Operation struct {
	Name pdf.Operator
	Args []pdf.Object

	// Data holds the image data of an inline image.  This is only used for
	// the "ID" operator, where Args holds the key/value pairs of the image
	// dictionary.
	Data []byte
}

// Reader splits a content stream into operations.
type Reader struct {
	s    *scanner
	args []pdf.Object
}

// NewReader returns a reader which reads operations from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{s: newScanner(r)}
}

// Next returns the next operation from the content stream.
// At the end of the stream, io.EOF is returned.  Operands which are not
// followed by an operator are returned as an operation with an empty name.
func (r *Reader) Next() (*Operation, error) {
	for {
		obj, err := r.s.Next()
		if err == io.EOF {
			if len(r.args) > 0 {
				op := &Operation{Args: r.args}
				r.args = nil
				return op, nil
			}
			return nil, io.EOF
		} else if err != nil {
			return nil, err
		}

		name, isOp := obj.(pdf.Operator)
		if !isOp {
			r.args = append(r.args, obj)
			continue
		}

		op := &Operation{Name: name, Args: r.args}
		r.args = nil
		if name == "ID" {
			op.Data, err = r.s.readInlineData()
			if err != nil {
				return nil, err
			}
		}
		return op, nil
	}
}

// Line returns the 1-based line number of the current read position.
func (r *Reader) Line() int {
	return r.s.line + 1
}

var errNotANumber = errors.New("not a number")
