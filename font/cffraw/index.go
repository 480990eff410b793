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

// reader reads big-endian values from a byte slice.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) seek(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return invalidSince("offset out of range")
	}
	r.pos = pos
	return nil
}

func (r *reader) uint8() (uint8, error) {
	if r.pos >= len(r.data) {
		return 0, errTruncated
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) uint16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, errTruncated
	}
	x := uint16(r.data[r.pos])<<8 | uint16(r.data[r.pos+1])
	r.pos += 2
	return x, nil
}

func (r *reader) offset(size int) (uint32, error) {
	if size < 1 || size > 4 {
		return 0, invalidSince("invalid offset size")
	}
	if r.pos+size > len(r.data) {
		return 0, errTruncated
	}
	var x uint32
	for _, b := range r.data[r.pos : r.pos+size] {
		x = x<<8 | uint32(b)
	}
	r.pos += size
	return x, nil
}

func (r *reader) blob(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, errTruncated
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// readIndex reads a CFF INDEX.  The returned slices point into the
// underlying data.
func readIndex(r *reader) ([][]byte, error) {
	count, err := r.uint16()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	offSize, err := r.uint8()
	if err != nil {
		return nil, err
	}

	offsets := make([]uint32, count+1)
	prevOffset := uint32(1)
	for i := range offsets {
		offs, err := r.offset(int(offSize))
		if err != nil {
			return nil, err
		}
		if offs < prevOffset {
			return nil, invalidSince("invalid CFF INDEX")
		}
		offsets[i] = offs - 1
		prevOffset = offs
	}

	buf, err := r.blob(int(offsets[count]))
	if err != nil {
		return nil, err
	}

	res := make([][]byte, count)
	for i := range res {
		res[i] = buf[offsets[i]:offsets[i+1]]
	}
	return res, nil
}
