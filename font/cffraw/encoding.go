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

// readEncoding reads a custom encoding of a simple CFF font.  The result
// maps codes to glyph IDs, with 0 marking unused codes.
func readEncoding(r *reader, charset []int32) (int, []int, error) {
	format, err := r.uint8()
	if err != nil {
		return 0, nil, err
	}

	res := make([]int, 256)
	current := 1
	switch format & 127 {
	case 0:
		nCodes, err := r.uint8()
		if err != nil {
			return 0, nil, err
		}
		if int(nCodes) >= len(charset) {
			return 0, nil, invalidSince("encoding too long")
		}
		codes, err := r.blob(int(nCodes))
		if err != nil {
			return 0, nil, err
		}
		for _, c := range codes {
			if res[c] != 0 {
				return 0, nil, invalidSince("invalid format 0 encoding")
			}
			res[c] = current
			current++
		}
	case 1:
		nRanges, err := r.uint8()
		if err != nil {
			return 0, nil, err
		}
		for range int(nRanges) {
			first, err := r.uint8()
			if err != nil {
				return 0, nil, err
			}
			nLeft, err := r.uint8()
			if err != nil {
				return 0, nil, err
			}
			if int(first)+int(nLeft) > 255 {
				return 0, nil, invalidSince("invalid format 1 encoding")
			}
			for j := int(first); j <= int(first)+int(nLeft); j++ {
				if current >= len(charset) {
					return 0, nil, invalidSince("encoding too long")
				} else if res[j] != 0 {
					return 0, nil, invalidSince("invalid format 1 encoding")
				}
				res[j] = current
				current++
			}
		}
	default:
		return 0, nil, invalidSince("unsupported encoding format")
	}

	if format&128 != 0 {
		lookup := make(map[int32]int, len(charset))
		for gid, sid := range charset {
			lookup[sid] = gid
		}
		nSups, err := r.uint8()
		if err != nil {
			return 0, nil, err
		}
		for range int(nSups) {
			code, err := r.uint8()
			if err != nil {
				return 0, nil, err
			}
			sid, err := r.uint16()
			if err != nil {
				return 0, nil, err
			}
			if gid := lookup[int32(sid)]; gid != 0 && res[code] == 0 {
				res[code] = gid
			}
		}
	}

	return int(format & 127), res, nil
}
