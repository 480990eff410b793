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

// Package type1raw extracts the undecoded glyph programs of Type 1 fonts.
//
// The clear-text portion of the font is tokenized to find the font name
// and the built-in encoding.  The eexec-encrypted portion is decrypted and
// the charstrings are returned with the charstring encryption removed, but
// otherwise unchanged.
package type1raw

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	"seehuhn.de/go/pdfmerge/content"
	"seehuhn.de/go/pdfmerge/pdf"
)

const (
	eexecKey      = 55665
	charStringKey = 4330
	defaultLenIV  = 4
)

// Font holds the raw data of a Type 1 font.
type Font struct {
	FontName string

	// Encoding is the built-in encoding of the font, indexed by code.
	// Unmapped codes hold ".notdef".  If the font uses StandardEncoding,
	// IsStandard is set and Encoding is nil.
	Encoding   []string
	IsStandard bool

	// CharStrings maps glyph names to the decrypted charstrings.
	CharStrings map[string][]byte
}

// Read decodes the raw structure of a Type 1 font in the format used for
// FontFile streams in PDF files.
func Read(data []byte) (*Font, error) {
	eexecIdx := bytes.Index(data, []byte("eexec"))
	if eexecIdx < 0 {
		return nil, errNoEexec
	}

	f := &Font{}
	err := f.readClearText(data[:eexecIdx])
	if err != nil {
		return nil, err
	}

	encStart := eexecIdx + 5
	for encStart < len(data) && isSpace(data[encStart]) {
		encStart++
	}
	encData := data[encStart:]
	if end := bytes.Index(encData, []byte("cleartomark")); end >= 0 {
		encData = encData[:end]
	}
	if isHexEncoded(encData) {
		encData = decodeHex(encData)
	}
	if len(encData) < 4 {
		return nil, errTruncated
	}
	private := decrypt(encData, eexecKey, 4)

	f.CharStrings, err = readCharStrings(private)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// readClearText tokenizes the clear-text portion of the font.
func (f *Font) readClearText(data []byte) error {
	r := content.NewReader(bytes.NewReader(data))
	for {
		op, err := r.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		switch op.Name {
		case "def":
			if len(op.Args) == 2 && op.Args[0] == pdf.Name("FontName") {
				if name, ok := op.Args[1].(pdf.Name); ok {
					f.FontName = string(name)
				}
			}
		case "StandardEncoding":
			if len(op.Args) == 1 && op.Args[0] == pdf.Name("Encoding") {
				f.IsStandard = true
			}
		case "array":
			if len(op.Args) == 2 && op.Args[0] == pdf.Name("Encoding") {
				f.Encoding = make([]string, 256)
				for i := range f.Encoding {
					f.Encoding[i] = ".notdef"
				}
			}
		case "put":
			if f.Encoding == nil || len(op.Args) != 2 {
				continue
			}
			code, ok1 := op.Args[0].(pdf.Integer)
			name, ok2 := op.Args[1].(pdf.Name)
			if ok1 && ok2 && code >= 0 && code < 256 {
				f.Encoding[code] = string(name)
			}
		}
	}
}

// readCharStrings scans the decrypted private portion of the font for the
// /CharStrings dictionary.  Each entry has the form
// "/name length RD <binary> ND", where RD and ND may be spelled "-|" and
// "|-".
func readCharStrings(private []byte) (map[string][]byte, error) {
	lenIV := defaultLenIV
	if idx := bytes.Index(private, []byte("/lenIV")); idx >= 0 {
		rest := bytes.TrimLeft(private[idx+6:], " \t\r\n")
		if n, k := leadingInt(rest); k > 0 {
			lenIV = n
		}
	}

	start := bytes.Index(private, []byte("/CharStrings"))
	if start < 0 {
		return nil, errNoCharStrings
	}
	begin := bytes.Index(private[start:], []byte("begin"))
	if begin < 0 {
		return nil, errNoCharStrings
	}
	rest := private[start+begin+5:]

	res := make(map[string][]byte)
	for {
		rest = bytes.TrimLeft(rest, " \t\r\n")
		if len(rest) == 0 || rest[0] != '/' {
			break
		}
		nameEnd := bytes.IndexAny(rest, " \t\r\n")
		if nameEnd < 0 {
			return nil, errTruncated
		}
		name := string(rest[1:nameEnd])
		rest = bytes.TrimLeft(rest[nameEnd:], " \t\r\n")

		length, k := leadingInt(rest)
		if k == 0 || length < 0 {
			return nil, errMalformed
		}
		rest = bytes.TrimLeft(rest[k:], " \t\r\n")

		// the RD token is followed by exactly one space
		tokEnd := bytes.IndexByte(rest, ' ')
		if tokEnd < 0 || tokEnd+1+length > len(rest) {
			return nil, errTruncated
		}
		rest = rest[tokEnd+1:]

		if lenIV >= 0 {
			res[name] = decrypt(rest[:length], charStringKey, lenIV)
		} else {
			res[name] = bytes.Clone(rest[:length])
		}
		rest = rest[length:]

		// skip the ND token
		rest = bytes.TrimLeft(rest, " \t\r\n")
		ndEnd := bytes.IndexAny(rest, " \t\r\n")
		if ndEnd < 0 {
			break
		}
		rest = rest[ndEnd:]
	}

	return res, nil
}

// decrypt applies the Type 1 decryption algorithm and removes the first
// skip bytes of the result.
func decrypt(data []byte, key uint16, skip int) []byte {
	const c1 = 52845
	const c2 = 22719

	r := key
	res := make([]byte, 0, max(len(data)-skip, 0))
	for i, b := range data {
		plain := b ^ byte(r>>8)
		if i >= skip {
			res = append(res, plain)
		}
		r = (uint16(b)+r)*c1 + c2
	}
	return res
}

func isHexEncoded(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	for _, c := range data[:4] {
		if !isHexDigit(c) {
			return false
		}
	}
	return true
}

func decodeHex(data []byte) []byte {
	res := make([]byte, 0, len(data)/2)
	var hi byte
	first := true
	for _, c := range data {
		if !isHexDigit(c) {
			continue
		}
		v, _ := strconv.ParseUint(string(c), 16, 8)
		if first {
			hi = byte(v)
		} else {
			res = append(res, hi<<4|byte(v))
		}
		first = !first
	}
	return res
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// leadingInt parses a decimal integer at the start of buf and returns the
// value together with the number of bytes used.
func leadingInt(buf []byte) (int, int) {
	k := 0
	if k < len(buf) && buf[k] == '-' {
		k++
	}
	for k < len(buf) && buf[k] >= '0' && buf[k] <= '9' {
		k++
	}
	n, err := strconv.Atoi(string(buf[:k]))
	if err != nil {
		return 0, 0
	}
	return n, k
}

var (
	errNoEexec       = errors.New("type1: missing eexec section")
	errNoCharStrings = errors.New("type1: missing CharStrings")
	errTruncated     = errors.New("type1: unexpected end of data")
	errMalformed     = errors.New("type1: malformed CharStrings entry")
)
