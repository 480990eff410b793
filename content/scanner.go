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
	"fmt"
	"io"
	"math"
	"strconv"

	"seehuhn.de/go/pdfmerge/pdf"
)

// A scanner breaks a content stream into tokens.
type scanner struct {
	line int // 0-based
	col  int // 0-based

	src       io.Reader
	buf       []byte
	pos, used int
	ahead     []byte
	crSeen    bool

	// err is the first error returned by src.Read().
	// Once an error has been returned, all subsequent calls to .refill() will
	// return err.
	err error
}

// newScanner returns a new scanner that reads from r.
func newScanner(r io.Reader) *scanner {
	return &scanner{
		src: r,
		buf: make([]byte, 512),
	}
}

// Next returns the next token from the input.  Arrays and dictionaries are
// returned as a single token.
func (s *scanner) Next() (pdf.Object, error) {
	type stackEntry struct {
		isDict bool
		data   []pdf.Object
	}
	var stack []*stackEntry
	for {
		obj, err := s.next()
		if err == io.EOF && len(stack) > 0 {
			return nil, &scannerError{"unexpected end of input", s.line, s.col}
		} else if err != nil {
			return nil, err
		}

	retry:
		switch obj {
		case pdf.Operator("<<"):
			stack = append(stack, &stackEntry{isDict: true})
		case pdf.Operator(">>"):
			if len(stack) == 0 || !stack[len(stack)-1].isDict {
				return nil, s.errorf("unexpected '>>'")
			}
			entry := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(entry.data)%2 != 0 {
				return nil, s.errorf("odd number of dict entries")
			}
			dict := pdf.Dict{}
			for i := 0; i < len(entry.data); i += 2 {
				key, ok := entry.data[i].(pdf.Name)
				if !ok {
					return nil, s.errorf("unexpected dict key")
				}
				val := entry.data[i+1]
				if val == nil {
					continue
				}
				dict[key] = val
			}
			obj = dict
			goto retry
		case pdf.Operator("["):
			stack = append(stack, &stackEntry{})
		case pdf.Operator("]"):
			if len(stack) == 0 || stack[len(stack)-1].isDict {
				return nil, s.errorf("unexpected ']'")
			}
			entry := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			obj = pdf.Array(entry.data)
			goto retry
		default:
			if len(stack) == 0 {
				return obj, nil
			}
			stack[len(stack)-1].data = append(stack[len(stack)-1].data, obj)
		}
	}
}

func (s *scanner) next() (pdf.Object, error) {
	err := s.skipWhiteSpace()
	if err != nil {
		return nil, err
	}
	b, err := s.peek()
	if err != nil {
		return nil, err
	}
	switch b {
	case '(':
		return s.readString()
	case '<':
		bb := s.peekN(2)
		if string(bb) == "<<" {
			s.nextByte()
			s.nextByte()
			return pdf.Operator("<<"), nil
		}
		return s.readHexString()
	case '>':
		bb := s.peekN(2)
		if string(bb) == ">>" {
			s.nextByte()
			s.nextByte()
			return pdf.Operator(">>"), nil
		}
		return nil, s.errorf("unexpected '>'")
	case '/':
		s.nextByte()
		return s.readName()
	default:
		s.nextByte()
		opBytes := []byte{b}
		if class[b] == regular {
			for {
				b, err := s.peek()
				if err == io.EOF {
					break
				} else if err != nil {
					return nil, err
				}
				if class[b] != regular {
					break
				}
				s.nextByte()
				opBytes = append(opBytes, b)
			}
		}

		x, err := parseNumber(opBytes)
		if err == nil {
			return x, nil
		}

		switch string(opBytes) {
		case "false":
			return pdf.Bool(false), nil
		case "true":
			return pdf.Bool(true), nil
		case "null":
			return nil, nil
		}

		return pdf.Operator(opBytes), nil
	}
}

func (s *scanner) readString() (pdf.String, error) {
	s.nextByte() // '('

	var res []byte
	bracketLevel := 1
	ignoreLF := false
	for {
		b, err := s.nextByte()
		if err != nil {
			return nil, err
		}
		if ignoreLF && b == 10 {
			continue
		}
		ignoreLF = false
		switch b {
		case '(':
			bracketLevel++
			res = append(res, b)
		case ')':
			bracketLevel--
			if bracketLevel == 0 {
				return pdf.String(res), nil
			}
			res = append(res, b)
		case '\\':
			b, err = s.nextByte()
			if err != nil {
				return nil, err
			}
			switch b {
			case 'n':
				res = append(res, '\n')
			case 'r':
				res = append(res, '\r')
			case 't':
				res = append(res, '\t')
			case 'b':
				res = append(res, '\b')
			case 'f':
				res = append(res, '\f')
			case 10: // LF
				// ignore
			case 13: // CR or CR+LF
				ignoreLF = true
			case '0', '1', '2', '3', '4', '5', '6', '7':
				oct := b - '0'
				for range 2 {
					b, err = s.peek()
					if err == io.EOF {
						break
					} else if err != nil {
						return nil, err
					}
					if b < '0' || b > '7' {
						break
					}
					s.nextByte()
					oct = oct*8 + (b - '0')
				}
				res = append(res, oct)
			default: // includes '(', ')' and '\\'
				res = append(res, b)
			}
		default:
			res = append(res, b)
		}
	}
}

func (s *scanner) readHexString() (pdf.String, error) {
	s.nextByte() // '<'

	var res []byte
	first := true
	var hi byte
readLoop:
	for {
		b, err := s.nextByte()
		if err != nil {
			return nil, err
		}
		var lo byte
		switch {
		case b == '>':
			break readLoop
		case b <= 32:
			continue
		case b >= '0' && b <= '9':
			lo = b - '0'
		case b >= 'A' && b <= 'F':
			lo = b - 'A' + 10
		case b >= 'a' && b <= 'f':
			lo = b - 'a' + 10
		default:
			return nil, s.errorf("invalid hex digit %q", b)
		}
		if first {
			hi = lo << 4
			first = false
		} else {
			res = append(res, hi|lo)
			first = true
		}
	}
	if !first {
		res = append(res, hi)
	}

	return pdf.String(res), nil
}

// readName reads a PDF name object (without the leading slash).
func (s *scanner) readName() (pdf.Name, error) {
	var name []byte
	for {
		b, err := s.peek()
		if err == io.EOF {
			break
		} else if err != nil {
			return "", err
		}
		if class[b] != regular {
			break
		}
		s.nextByte()

		if b == '#' {
			hex := s.peekN(2)
			v, err := strconv.ParseUint(string(hex), 16, 8)
			if len(hex) == 2 && err == nil {
				s.nextByte()
				s.nextByte()
				b = byte(v)
			}
		}
		name = append(name, b)
	}
	return pdf.Name(name), nil
}

// readInlineData reads the binary data of an inline image, up to and
// including the terminating "EI" operator.  The single white-space byte
// after the "ID" operator must not have been consumed yet.
func (s *scanner) readInlineData() ([]byte, error) {
	b, err := s.nextByte()
	if err != nil {
		return nil, err
	}
	var data []byte
	if class[b] != space {
		data = append(data, b)
	}
	for {
		b, err := s.nextByte()
		if err != nil {
			return nil, s.errorf("unterminated inline image")
		}
		data = append(data, b)
		n := len(data)
		if n < 3 || data[n-2] != 'E' || data[n-1] != 'I' || class[data[n-3]] != space {
			continue
		}
		next, err := s.peek()
		if err == io.EOF || err == nil && class[next] != regular {
			return data[:n-3], nil
		}
	}
}

// skipWhiteSpace skips all input (including comments) until a non-whitespace
// character is found.
func (s *scanner) skipWhiteSpace() error {
	for {
		b, err := s.peek()
		if err != nil {
			return err
		}
		if class[b] == space {
			s.nextByte()
		} else if b == '%' {
			s.skipComment()
		} else {
			return nil
		}
	}
}

// skipComment skips everything from a % to the end of the line (both inclusive).
func (s *scanner) skipComment() {
	for {
		b, err := s.nextByte()
		if b == 10 || b == 13 || err != nil {
			break
		}
	}
}

func (s *scanner) peek() (byte, error) {
	if len(s.ahead) == 0 {
		b, err := s.readByte()
		if err != nil {
			return 0, err
		}
		s.ahead = append(s.ahead, b)
	}
	return s.ahead[0], nil
}

func (s *scanner) peekN(n int) []byte {
	for len(s.ahead) < n {
		b, err := s.readByte()
		if err != nil {
			return s.ahead
		}
		s.ahead = append(s.ahead, b)
	}
	return s.ahead[:n]
}

// nextByte returns the next byte from the input stream.
// The function updates the line and column numbers.
// This checks the read-ahead buffer first, and only calls .readByte() if
// necessary.
func (s *scanner) nextByte() (byte, error) {
	var b byte

	if len(s.ahead) > 0 {
		b = s.ahead[0]
		copy(s.ahead, s.ahead[1:])
		s.ahead = s.ahead[:len(s.ahead)-1]
	} else {
		var err error
		b, err = s.readByte()
		if err != nil {
			return 0, err
		}
	}

	if s.crSeen && b == 10 {
		// ignore LF after CR
	} else if b == 10 || b == 13 {
		s.line++
		s.col = 0
	} else {
		s.col++
	}
	s.crSeen = (b == 13)

	return b, nil
}

// readByte reads the next byte from the underlying reader.
// It is the callers responsibility to check the read-ahead buffer first.
func (s *scanner) readByte() (byte, error) {
	for s.pos >= s.used {
		err := s.refill()
		if err != nil {
			return 0, err
		}
	}

	b := s.buf[s.pos]
	s.pos++

	return b, nil
}

// refill reads more data from the underlying reader into the buffer.
// This is the only place where the underlying reader is called.
func (s *scanner) refill() error {
	if s.err != nil {
		return s.err
	}
	s.used = copy(s.buf, s.buf[s.pos:s.used])
	s.pos = 0

	n, err := s.src.Read(s.buf[s.used:])
	s.used += n
	if err != nil {
		s.err = err
		if n > 0 {
			err = nil
		}
	}
	return err
}

func (s *scanner) errorf(format string, args ...any) error {
	return &scannerError{fmt.Sprintf(format, args...), s.line, s.col}
}

func parseNumber(s []byte) (pdf.Object, error) {
	x, err := strconv.ParseInt(string(s), 10, 64)
	if err == nil {
		return pdf.Integer(x), nil
	}

	isSimple := len(s) > 0
	for i, c := range s {
		if i == 0 && (c == '+' || c == '-') {
			continue
		}
		if c == '.' {
			continue
		}
		if c < '0' || c > '9' {
			isSimple = false
			break
		}
	}

	if isSimple {
		y, err := strconv.ParseFloat(string(s), 64)
		if err == nil && !math.IsInf(y, 0) && !math.IsNaN(y) {
			return pdf.Real(y), nil
		}
	}

	return nil, errNotANumber
}

type scannerError struct {
	msg       string
	line, col int
}

func (err *scannerError) Error() string {
	return fmt.Sprintf("content stream %d:%d: %s", err.line+1, err.col+1, err.msg)
}

type characterClass byte

const (
	regular characterClass = iota
	space
	delimiter
)

var class = func() [256]characterClass {
	var c [256]characterClass
	for _, b := range []byte{0, 9, 10, 12, 13, 32} {
		c[b] = space
	}
	for _, b := range []byte("()<>[]{}/%") {
		c[b] = delimiter
	}
	return c
}()
