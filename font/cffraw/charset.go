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

// predefinedCharset returns the charset for the predefined charset
// offsets 0 (ISOAdobe), 1 (Expert) and 2 (ExpertSubset).  Only ISOAdobe
// is resolved to SIDs; glyphs of the expert charsets get SID -1.
func predefinedCharset(offs int32, nGlyphs int) []int32 {
	charset := make([]int32, nGlyphs)
	for gid := 1; gid < nGlyphs; gid++ {
		if offs == 0 && gid <= 228 {
			charset[gid] = int32(gid)
		} else {
			charset[gid] = -1
		}
	}
	return charset
}

func readCharset(r *reader, nGlyphs int) (int, []int32, error) {
	format, err := r.uint8()
	if err != nil {
		return 0, nil, err
	}

	charset := make([]int32, 1, nGlyphs)
	switch format {
	case 0:
		for len(charset) < nGlyphs {
			sid, err := r.uint16()
			if err != nil {
				return 0, nil, err
			}
			charset = append(charset, int32(sid))
		}
	case 1, 2:
		for len(charset) < nGlyphs {
			first, err := r.uint16()
			if err != nil {
				return 0, nil, err
			}
			var nLeft int
			if format == 1 {
				x, err := r.uint8()
				if err != nil {
					return 0, nil, err
				}
				nLeft = int(x)
			} else {
				x, err := r.uint16()
				if err != nil {
					return 0, nil, err
				}
				nLeft = int(x)
			}
			for i := 0; i <= nLeft && len(charset) < nGlyphs; i++ {
				charset = append(charset, int32(first)+int32(i))
			}
		}
	default:
		return 0, nil, invalidSince("unsupported charset format")
	}

	return int(format), charset, nil
}
