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

// Copyright 2020 Jochen Voss <voss@seehuhn.de>
//
// Some code here, e.g. the pngUpReader, is taken from
// https://pkg.go.dev/rsc.io/pdf .  Use of this source code is governed by a
// BSD-style license, which is reproduced here:
//
//     Copyright (c) 2009 The Go Authors. All rights reserved.
//
//     Redistribution and use in source and binary forms, with or without
//     modification, are permitted provided that the following conditions are
//     met:
//
//        * Redistributions of source code must retain the above copyright
//     notice, this list of conditions and the following disclaimer.
//        * Redistributions in binary form must reproduce the above
//     copyright notice, this list of conditions and the following disclaimer
//     in the documentation and/or other materials provided with the
//     distribution.
//        * Neither the name of Google Inc. nor the names of its
//     contributors may be used to endorse or promote products derived from
//     this software without specific prior written permission.
//
//     THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
//     "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
//     LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
//     A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
//     OWNER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
//     SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
//     LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
//     DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
//     THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
//     (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
//     OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

package pdf

import (
	"bufio"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// DecodeStream returns a reader for the decoded stream data.
// The filters given in the /Filter entry of the stream dictionary are
// applied in order.  FlateDecode and ASCIIHexDecode are supported.
func DecodeStream(r Getter, x *Stream) (io.Reader, error) {
	if x == nil {
		return nil, errors.New("missing stream")
	}

	filterObj, err := Resolve(r, x.Dict["Filter"])
	if err != nil {
		return nil, err
	}
	parmsObj, err := Resolve(r, x.Dict["DecodeParms"])
	if err != nil {
		return nil, err
	}

	var filters []Object
	var parms []Object
	switch f := filterObj.(type) {
	case nil:
		// pass
	case Name:
		filters = []Object{f}
		parms = []Object{parmsObj}
	case Array:
		filters = f
		if p, ok := parmsObj.(Array); ok {
			parms = p
		}
	default:
		return nil, &MalformedFileError{
			Err: fmt.Errorf("invalid /Filter %s", Format(filterObj)),
		}
	}

	var res io.Reader = x.R
	for i, f := range filters {
		var param Object
		if i < len(parms) {
			param, err = Resolve(r, parms[i])
			if err != nil {
				return nil, err
			}
		}
		f, err = Resolve(r, f)
		if err != nil {
			return nil, err
		}
		res = applyFilter(res, f, param)
	}
	return res, nil
}

// ReadAll resolves obj to a stream and returns the decoded stream data.
// If obj is null, nil is returned without error.
func ReadAll(r Getter, obj Object) ([]byte, error) {
	stm, err := GetStream(r, obj)
	if err != nil {
		return nil, err
	} else if stm == nil {
		return nil, nil
	}
	body, err := DecodeStream(r, stm)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(body)
}

func applyFilter(r io.Reader, name Object, param Object) io.Reader {
	n, ok := name.(Name)
	if !ok {
		return &errorReader{
			fmt.Errorf("invalid filter description %s", Format(name))}
	}
	switch string(n) {
	case "FlateDecode", "Fl":
		params := map[string]int{
			"Predictor": 1,
			"Columns":   1,
		}
		if pDict, ok := param.(Dict); ok {
			for key := range params {
				if val, ok := pDict[Name(key)].(Integer); ok {
					params[key] = int(val)
				}
			}
		}
		var zr io.Reader
		zr, err := zlib.NewReader(r)
		if err != nil {
			return &errorReader{err}
		}
		switch params["Predictor"] {
		case 1:
			// pass
		case 12:
			columns := params["Columns"]
			zr = &pngUpReader{
				r:    zr,
				hist: make([]byte, 1+columns),
				tmp:  make([]byte, 1+columns),
				pend: []byte{},
			}
		default:
			zr = &errorReader{fmt.Errorf("unsupported predictor %d",
				params["Predictor"])}
		}
		return zr
	case "ASCIIHexDecode", "AHx":
		return &asciiHexReader{r: bufio.NewReader(r)}
	default:
		return &errorReader{fmt.Errorf("unsupported filter %q", n)}
	}
}

type pngUpReader struct {
	r    io.Reader
	hist []byte
	tmp  []byte
	pend []byte
}

func (r *pngUpReader) Read(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if len(r.pend) > 0 {
			m := copy(b, r.pend)
			n += m
			b = b[m:]
			r.pend = r.pend[m:]
			continue
		}
		_, err := io.ReadFull(r.r, r.tmp)
		if err != nil {
			return n, err
		}
		if r.tmp[0] != 2 {
			return n, fmt.Errorf("malformed PNG-Up encoding")
		}
		for i, b := range r.tmp {
			r.hist[i] += b
		}
		r.pend = r.hist[1:]
	}
	return n, nil
}

type asciiHexReader struct {
	r    *bufio.Reader
	done bool
}

func (r *asciiHexReader) Read(b []byte) (int, error) {
	n := 0
	var digits [2]byte
	for n < len(b) && !r.done {
		k := 0
		for k < 2 {
			c, err := r.r.ReadByte()
			if err == io.EOF || c == '>' {
				r.done = true
				break
			} else if err != nil {
				return n, err
			}
			switch {
			case c >= '0' && c <= '9':
				digits[k] = c - '0'
			case c >= 'A' && c <= 'F':
				digits[k] = c - 'A' + 10
			case c >= 'a' && c <= 'f':
				digits[k] = c - 'a' + 10
			case c <= 32:
				continue
			default:
				return n, fmt.Errorf("invalid hex digit %q", c)
			}
			k++
		}
		switch k {
		case 2:
			b[n] = digits[0]<<4 | digits[1]
			n++
		case 1:
			b[n] = digits[0] << 4
			n++
		}
	}
	if n == 0 && r.done {
		return 0, io.EOF
	}
	return n, nil
}

type errorReader struct {
	err error
}

func (e *errorReader) Read([]byte) (int, error) {
	return 0, e.err
}
