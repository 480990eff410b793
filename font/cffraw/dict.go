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

package cffraw

import "strconv"

type dictOp uint16

const (
	opCharset        dictOp = 15
	opEncoding       dictOp = 16
	opCharStrings    dictOp = 17
	opPrivate        dictOp = 18
	opCharstringType dictOp = 12<<8 + 6
	opROS            dictOp = 12<<8 + 30
	opFDArray        dictOp = 12<<8 + 36
	opFDSelect       dictOp = 12<<8 + 37
)

// cffDict holds the operands of a DICT.  Integers are stored as int32,
// real numbers as float64.
type cffDict map[dictOp][]any

func decodeDict(buf []byte) (cffDict, error) {
	res := cffDict{}
	var stack []any

	for len(buf) > 0 {
		b0 := buf[0]
		switch {
		case b0 == 12:
			if len(buf) < 2 {
				return nil, errCorruptDict
			}
			res[dictOp(b0)<<8+dictOp(buf[1])] = stack
			stack = nil
			buf = buf[2:]
		case b0 <= 21:
			res[dictOp(b0)] = stack
			stack = nil
			buf = buf[1:]
		case b0 == 28:
			if len(buf) < 3 {
				return nil, errCorruptDict
			}
			stack = append(stack, int32(int16(uint16(buf[1])<<8+uint16(buf[2]))))
			buf = buf[3:]
		case b0 == 29:
			if len(buf) < 5 {
				return nil, errCorruptDict
			}
			stack = append(stack,
				int32(uint32(buf[1])<<24+uint32(buf[2])<<16+uint32(buf[3])<<8+uint32(buf[4])))
			buf = buf[5:]
		case b0 == 30:
			tmp, x, err := decodeFloat(buf[1:])
			if err != nil {
				return nil, err
			}
			stack = append(stack, x)
			buf = tmp
		case b0 >= 32 && b0 <= 246:
			stack = append(stack, int32(b0)-139)
			buf = buf[1:]
		case b0 >= 247 && b0 <= 250:
			if len(buf) < 2 {
				return nil, errCorruptDict
			}
			stack = append(stack, int32(b0)*256+int32(buf[1])+(108-247*256))
			buf = buf[2:]
		case b0 >= 251 && b0 <= 254:
			if len(buf) < 2 {
				return nil, errCorruptDict
			}
			stack = append(stack, -int32(b0)*256-int32(buf[1])-(108-251*256))
			buf = buf[2:]
		default: // values 22–27, 31, and 255 are reserved
			return nil, errCorruptDict
		}
	}

	if len(stack) > 0 {
		return nil, errCorruptDict
	}
	return res, nil
}

// decodeFloat decodes a real number, without the leading 0x1e.
func decodeFloat(buf []byte) ([]byte, float64, error) {
	var s []byte

	first := true
	var next byte
	for {
		var nibble byte
		if first {
			if len(buf) == 0 {
				return nil, 0, errCorruptDict
			}
			next, buf = buf[0], buf[1:]
			nibble = next >> 4
			next = next & 15
			first = false
		} else {
			nibble = next
			first = true
		}

		switch nibble {
		case 0x0a:
			s = append(s, '.')
		case 0x0b:
			s = append(s, 'e')
		case 0x0c:
			s = append(s, 'e', '-')
		case 0x0d:
			return nil, 0, errCorruptDict
		case 0x0e:
			s = append(s, '-')
		case 0x0f:
			x, err := strconv.ParseFloat(string(s), 64)
			if err != nil {
				return nil, 0, errCorruptDict
			}
			return buf, x, nil
		default:
			s = append(s, '0'+nibble)
		}
	}
}

func (d cffDict) getInt(op dictOp, defVal int32) int32 {
	if len(d[op]) != 1 {
		return defVal
	}
	x, ok := d[op][0].(int32)
	if !ok {
		return defVal
	}
	return x
}

func (d cffDict) getPair(op dictOp) (int32, int32, bool) {
	xy := d[op]
	if len(xy) != 2 {
		return 0, 0, false
	}
	x, ok1 := xy[0].(int32)
	y, ok2 := xy[1].(int32)
	return x, y, ok1 && ok2
}

var errCorruptDict = invalidSince("corrupt DICT")
