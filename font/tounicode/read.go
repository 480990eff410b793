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
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"

	"seehuhn.de/go/postscript"

	"seehuhn.de/go/pdfmerge/font/pdfenc"
	"seehuhn.de/go/pdfmerge/pdf"
)

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// Extract reads a ToUnicode CMap from a PDF stream.
// If obj is null, nil is returned.
func Extract(r pdf.Getter, obj pdf.Object) (*Info, error) {
	data, err := pdf.ReadAll(r, obj)
	if err != nil {
		return nil, err
	} else if data == nil {
		return nil, nil
	}
	return Read(bytesReader(data))
}

// Read parses a ToUnicode CMap.
//
// The CMap is executed by the PostScript interpreter.  Entries of the
// resulting code map which cannot be interpreted are skipped.
func Read(r io.Reader) (*Info, error) {
	raw, err := postscript.ReadCMap(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if tp, ok := raw["CMapType"].(postscript.Integer); ok && tp != 2 && tp != 0 {
		return nil, fmt.Errorf("%w: CMapType %d", ErrInvalid, tp)
	}
	codeMap, ok := raw["CodeMap"].(*postscript.CMapInfo)
	if !ok {
		return nil, fmt.Errorf("%w: no code map", ErrInvalid)
	}

	info := &Info{}
	if name, ok := raw["CMapName"].(postscript.Name); ok {
		info.Name = pdf.Name(name)
	}
	for _, r := range codeMap.CodeSpaceRanges {
		if len(r.Low) == 0 || len(r.Low) > 4 {
			continue
		}
		info.CodeSpace = append(info.CodeSpace, CodeSpaceRange{Low: r.Low, High: r.High})
	}
	for _, c := range codeMap.BfChars {
		code, ok := asCode(c.Src)
		if !ok {
			continue
		}
		text, ok := asText(c.Dst)
		if !ok {
			continue
		}
		info.Singles = append(info.Singles, Single{Code: code, Text: text})
	}
	for _, rm := range codeMap.BfRanges {
		first, ok1 := asCode(rm.Low)
		last, ok2 := asCode(rm.High)
		if !ok1 || !ok2 || first > last {
			continue
		}
		rng := Range{First: first, Last: last}
		switch dst := rm.Dst.(type) {
		case postscript.Array:
			for _, elem := range dst {
				text, _ := asText(elem)
				rng.Text = append(rng.Text, text)
			}
		default:
			text, ok := asText(dst)
			if !ok {
				continue
			}
			rng.Text = []string{text}
		}
		info.Ranges = append(info.Ranges, rng)
	}
	return info, nil
}

func asCode(s []byte) (uint32, bool) {
	if len(s) == 0 || len(s) > 4 {
		return 0, false
	}
	var code uint32
	for _, b := range s {
		code = code<<8 | uint32(b)
	}
	return code, true
}

func asText(obj postscript.Object) (string, bool) {
	switch obj := obj.(type) {
	case postscript.String:
		if len(obj)%2 != 0 {
			return "", false
		}
		text, err := utf16be.NewDecoder().Bytes(obj)
		if err != nil {
			return "", false
		}
		return string(text), true
	case postscript.Name:
		text := pdfenc.GlyphText(string(obj))
		return text, text != ""
	}
	return "", false
}

// ErrInvalid is returned by [Read] if the input is not a ToUnicode CMap.
var ErrInvalid = errors.New("invalid ToUnicode CMap")
