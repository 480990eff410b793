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

package pdf

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Object represents an object in a PDF file.  There are nine native types of
// PDF objects, which implement this interface: [Array], [Bool], [Dict],
// [Integer], [Name], [Real], [Reference], [*Stream], and [String].
// Content streams additionally use [Operator].
type Object interface {
	// PDF writes the PDF file representation of the object to w.
	PDF(w io.Writer) error
}

// Bool represents a boolean value in a PDF file.
type Bool bool

// PDF implements the [Object] interface.
func (x Bool) PDF(w io.Writer) error {
	var s string
	if x {
		s = "true"
	} else {
		s = "false"
	}
	_, err := w.Write([]byte(s))
	return err
}

// Integer represents an integer constant in a PDF file.
type Integer int64

// PDF implements the [Object] interface.
func (x Integer) PDF(w io.Writer) error {
	s := strconv.FormatInt(int64(x), 10)
	_, err := w.Write([]byte(s))
	return err
}

// Real represents an real number in a PDF file.
type Real float64

// PDF implements the [Object] interface.
func (x Real) PDF(w io.Writer) error {
	s := strconv.FormatFloat(float64(x), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s = s + "."
	}
	_, err := w.Write([]byte(s))
	return err
}

// String represents a raw string in a PDF file.  The character set encoding,
// if any, is determined by the context.
type String []byte

// PDF implements the [Object] interface.
//
// Strings where most bytes are printable are written in literal syntax,
// all other strings use hex syntax.
func (x String) PDF(w io.Writer) error {
	l := []byte(x)

	var funny int
	for _, c := range l {
		if c < 32 || c >= 127 {
			funny++
		}
	}

	var s string
	if 3*funny <= len(l) {
		s = FormatLiteral(l)
	} else {
		s = FormatHex(l)
	}
	_, err := w.Write([]byte(s))
	return err
}

// FormatLiteral returns the literal string syntax for s.  Parentheses and
// backslashes are escaped, bytes outside the printable ASCII range are
// written as three-digit octal escapes.
func FormatLiteral(s []byte) string {
	level := 0
	balanced := true
	for _, c := range s {
		if c == '(' {
			level++
		} else if c == ')' {
			level--
			if level < 0 {
				balanced = false
				break
			}
		}
	}
	balanced = balanced && level == 0

	buf := &strings.Builder{}
	buf.WriteByte('(')
	for _, c := range s {
		switch {
		case c == '\\':
			buf.WriteString(`\\`)
		case (c == '(' || c == ')') && !balanced:
			buf.WriteByte('\\')
			buf.WriteByte(c)
		case c < 32 || c >= 127:
			fmt.Fprintf(buf, `\%03o`, c)
		default:
			buf.WriteByte(c)
		}
	}
	buf.WriteByte(')')
	return buf.String()
}

// FormatHex returns the hex string syntax for s, using upper case digits.
func FormatHex(s []byte) string {
	return fmt.Sprintf("<%X>", s)
}

// Name represents a name object in a PDF file.
type Name string

// PDF implements the [Object] interface.
func (x Name) PDF(w io.Writer) error {
	l := []byte(x)

	buf := &bytes.Buffer{}
	buf.WriteByte('/')
	for _, c := range l {
		if isSpace(c) || isDelimiter(c) || c < 0x21 || c > 0x7e || c == '#' {
			fmt.Fprintf(buf, "#%02x", c)
		} else {
			buf.WriteByte(c)
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Operator represents a content stream operator.  Operators only appear in
// content streams and CMap files, never as objects inside a PDF file.
type Operator string

// PDF implements the [Object] interface.
func (x Operator) PDF(w io.Writer) error {
	_, err := w.Write([]byte(x))
	return err
}

// Array represent an array of objects in a PDF file.
type Array []Object

func (x Array) String() string {
	return "<Array, " + strconv.Itoa(len(x)) + " elements>"
}

// PDF implements the [Object] interface.
func (x Array) PDF(w io.Writer) error {
	_, err := w.Write([]byte("["))
	if err != nil {
		return err
	}
	for i, val := range x {
		if i > 0 {
			_, err := w.Write([]byte(" "))
			if err != nil {
				return err
			}
		}
		err = writeObject(w, val)
		if err != nil {
			return err
		}
	}
	_, err = w.Write([]byte("]"))
	return err
}

// Dict represent a Dictionary object in a PDF file.
type Dict map[Name]Object

func (x Dict) String() string {
	res := []string{}
	tp, ok := x["Type"].(Name)
	if ok {
		res = append(res, string(tp)+" Dict")
	} else {
		res = append(res, "Dict")
	}
	if len(x) != 1 {
		res = append(res, strconv.FormatInt(int64(len(x)), 10)+" entries")
	} else {
		res = append(res, "1 entry")
	}
	return "<" + strings.Join(res, ", ") + ">"
}

// PDF implements the [Object] interface.
func (x Dict) PDF(w io.Writer) error {
	if x == nil {
		_, err := w.Write([]byte("null"))
		return err
	}

	keys := make([]Name, 0, len(x))
	for key, val := range x {
		if val == nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i int, j int) bool {
		return keys[i] < keys[j]
	})

	_, err := w.Write([]byte("<<"))
	if err != nil {
		return err
	}
	for _, name := range keys {
		_, err = w.Write([]byte("\n"))
		if err != nil {
			return err
		}
		err = name.PDF(w)
		if err != nil {
			return err
		}
		_, err = w.Write([]byte(" "))
		if err != nil {
			return err
		}
		err = writeObject(w, x[name])
		if err != nil {
			return err
		}
	}
	_, err = w.Write([]byte("\n>>"))
	return err
}

// Stream represent a stream object in a PDF file.
type Stream struct {
	Dict
	R io.Reader
}

func (x *Stream) String() string {
	res := []string{}
	tp, ok := x.Dict["Type"].(Name)
	if ok {
		res = append(res, string(tp)+" Stream")
	} else {
		res = append(res, "Stream")
	}
	switch filter := x.Dict["Filter"].(type) {
	case Name:
		res = append(res, string(filter))
	case Array:
		for _, f := range filter {
			if name, ok := f.(Name); ok {
				res = append(res, string(name))
			}
		}
	}
	return "<" + strings.Join(res, ", ") + ">"
}

// PDF implements the [Object] interface.
func (x *Stream) PDF(w io.Writer) error {
	err := x.Dict.PDF(w)
	if err != nil {
		return err
	}
	_, err = w.Write([]byte("\nstream\n"))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, x.R)
	if err != nil {
		return err
	}
	_, err = w.Write([]byte("\nendstream"))
	return err
}

// Reference represents a reference to an indirect object in a PDF file.
// The lower 32 bits represent the object number, the next 16 bits the
// generation number.
type Reference uint64

// NewReference constructs a reference from its number and generation.
func NewReference(number uint32, generation uint16) Reference {
	return Reference(uint64(number) | uint64(generation)<<32)
}

// Number returns the object number of the reference.
func (x Reference) Number() uint32 {
	return uint32(x)
}

// Generation returns the generation number of the reference.
func (x Reference) Generation() uint16 {
	return uint16(x >> 32)
}

func (x Reference) String() string {
	res := "obj_" + strconv.FormatInt(int64(x.Number()), 10)
	if gen := x.Generation(); gen > 0 {
		res += "@" + strconv.FormatUint(uint64(gen), 10)
	}
	return res
}

// PDF implements the [Object] interface.
func (x Reference) PDF(w io.Writer) error {
	if x>>48 != 0 {
		return fmt.Errorf("invalid reference: 0x%016x", uint64(x))
	}
	_, err := fmt.Fprintf(w, "%d %d R", x.Number(), x.Generation())
	return err
}

func writeObject(w io.Writer, obj Object) error {
	if obj == nil {
		_, err := w.Write([]byte("null"))
		return err
	}
	return obj.PDF(w)
}

// Format formats a PDF object as a string, in the same way as the
// it would be written to a PDF file.
func Format(obj Object) string {
	buf := &bytes.Buffer{}
	err := writeObject(buf, obj)
	if err != nil {
		return "<error: " + err.Error() + ">"
	}
	return buf.String()
}

func isSpace(c byte) bool {
	switch c {
	case 0, 9, 10, 12, 13, 32:
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
