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

func readFDSelect(r *reader, nGlyphs, nPrivate int) (int, []uint8, error) {
	format, err := r.uint8()
	if err != nil {
		return 0, nil, err
	}

	res := make([]uint8, nGlyphs)
	switch format {
	case 0:
		buf, err := r.blob(nGlyphs)
		if err != nil {
			return 0, nil, err
		}
		for i, fd := range buf {
			if int(fd) >= nPrivate {
				return 0, nil, invalidSince("FDSelect out of range")
			}
			res[i] = fd
		}
	case 3:
		nRanges, err := r.uint16()
		if err != nil {
			return 0, nil, err
		}
		if nGlyphs > 0 && nRanges == 0 {
			return 0, nil, invalidSince("no FDSelect data found")
		}

		first, err := r.uint16()
		if err != nil {
			return 0, nil, err
		} else if first != 0 {
			return 0, nil, invalidSince("FDSelect is invalid")
		}
		for range int(nRanges) {
			fd, err := r.uint8()
			if err != nil {
				return 0, nil, err
			} else if int(fd) >= nPrivate {
				return 0, nil, invalidSince("FDSelect out of range")
			}
			next, err := r.uint16()
			if err != nil {
				return 0, nil, err
			} else if next <= first || int(next) > nGlyphs {
				return 0, nil, invalidSince("FDSelect is invalid")
			}
			for gid := first; gid < next; gid++ {
				res[gid] = fd
			}
			first = next
		}
		if int(first) != nGlyphs {
			return 0, nil, invalidSince("wrong FDSelect sentinel")
		}
	default:
		return 0, nil, invalidSince("unsupported FDSelect format")
	}

	return int(format), res, nil
}
