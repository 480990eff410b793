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

// Package tounicode reads and writes ToUnicode CMaps.
package tounicode

import (
	"fmt"
	"sort"

	"seehuhn.de/go/pdfmerge/pdf"
)

// maxRange is the largest number of codes a single bfrange entry
// contributes to [Info.Mappings].
const maxRange = 1 << 16

// Info holds the information from a ToUnicode cmap.
type Info struct {
	Name      pdf.Name
	CodeSpace []CodeSpaceRange
	Singles   []Single
	Ranges    []Range

	lookup map[uint32]string
}

// CodeSpaceRange is one entry of a begincodespacerange section.  Low and
// High have the same length, which is the number of bytes of every code in
// the range.
type CodeSpaceRange struct {
	Low, High []byte
}

// Matches reports whether the first len(r.Low) bytes of s form a code in
// the range.
func (r CodeSpaceRange) Matches(s []byte) bool {
	if len(s) < len(r.Low) {
		return false
	}
	for i := range r.Low {
		if s[i] < r.Low[i] || s[i] > r.High[i] {
			return false
		}
	}
	return true
}

func (r CodeSpaceRange) String() string {
	return pdf.FormatHex(r.Low) + " " + pdf.FormatHex(r.High)
}

// Single specifies that character code Code represents the given unicode
// text.
type Single struct {
	Code uint32
	Text string
}

func (s Single) String() string {
	return fmt.Sprintf("%d: %q", s.Code, s.Text)
}

// Range describes a range of character codes.
// If Text has length one, the last rune of the text is incremented by one
// for each code in the range.  Otherwise Text lists the value for each code
// in the range.
type Range struct {
	First uint32
	Last  uint32
	Text  []string
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d: %q", r.First, r.Last, r.Text)
}

// at returns the text for a code inside the range.
func (r Range) at(code uint32) (string, bool) {
	if code < r.First || code > r.Last || len(r.Text) == 0 {
		return "", false
	}
	idx := int(code - r.First)
	if len(r.Text) > 1 {
		if idx >= len(r.Text) {
			return "", false
		}
		return r.Text[idx], true
	}
	rr := []rune(r.Text[0])
	if len(rr) == 0 {
		return "", false
	}
	rr[len(rr)-1] += rune(idx)
	return string(rr), true
}

// New returns a ToUnicode CMap which maps the given codes, all of which
// occupy codeLen bytes.
func New(codeLen int, m map[uint32]string) *Info {
	low := make([]byte, codeLen)
	high := make([]byte, codeLen)
	for i := range high {
		high[i] = 0xFF
	}
	info := &Info{
		Name:      "Adobe-Identity-UCS",
		CodeSpace: []CodeSpaceRange{{Low: low, High: high}},
	}
	for code, text := range m {
		info.Singles = append(info.Singles, Single{Code: code, Text: text})
	}
	sort.Slice(info.Singles, func(i, j int) bool {
		return info.Singles[i].Code < info.Singles[j].Code
	})
	return info
}

// CodeLen returns the number of bytes of the shortest code in the code
// space.  If no code space is declared, 1 is returned for CMaps with only
// single byte codes and 2 otherwise.
func (info *Info) CodeLen() int {
	best := 0
	for _, r := range info.CodeSpace {
		if best == 0 || len(r.Low) < best {
			best = len(r.Low)
		}
	}
	if best > 0 {
		return best
	}
	for _, s := range info.Singles {
		if s.Code > 0xFF {
			return 2
		}
	}
	for _, r := range info.Ranges {
		if r.Last > 0xFF {
			return 2
		}
	}
	return 1
}

// Split splits a string into character codes, using the code space ranges
// of the CMap.  The second return value is false if some bytes do not form
// a valid code.
func (info *Info) Split(s []byte) ([]uint32, bool) {
	var res []uint32
	ok := true
	for len(s) > 0 {
		n := info.codeLength(s)
		if n == 0 {
			ok = false
			n = min(info.CodeLen(), len(s))
		}
		var code uint32
		for _, b := range s[:n] {
			code = code<<8 | uint32(b)
		}
		res = append(res, code)
		s = s[n:]
	}
	return res, ok
}

// codeLength returns the length of the code at the start of s, or 0 if s
// does not start with a valid code.
func (info *Info) codeLength(s []byte) int {
	if len(info.CodeSpace) == 0 {
		n := info.CodeLen()
		if len(s) < n {
			return 0
		}
		return n
	}
	for _, r := range info.CodeSpace {
		if r.Matches(s) {
			return len(r.Low)
		}
	}
	return 0
}

// Lookup returns the unicode text for a character code.
func (info *Info) Lookup(code uint32) (string, bool) {
	if info == nil {
		return "", false
	}
	if info.lookup == nil {
		info.lookup = info.Mappings()
	}
	text, ok := info.lookup[code]
	return text, ok
}

// Decode decodes the first character code from s and returns the
// corresponding text together with the number of bytes consumed.
// If the code is not mapped, ok is false.
func (info *Info) Decode(s []byte) (text string, k int, ok bool) {
	k = info.codeLength(s)
	if k == 0 {
		return "", min(1, len(s)), false
	}
	var code uint32
	for _, b := range s[:k] {
		code = code<<8 | uint32(b)
	}
	text, ok = info.Lookup(code)
	return text, k, ok
}

// Mappings returns all mapped codes.  Entries of bfchar sections take
// precedence over bfrange sections.  Very large ranges are truncated.
func (info *Info) Mappings() map[uint32]string {
	res := make(map[uint32]string)
	for _, r := range info.Ranges {
		last := r.Last
		if last-r.First >= maxRange {
			last = r.First + maxRange - 1
		}
		for code := r.First; ; code++ {
			if text, ok := r.at(code); ok && text != "" {
				res[code] = text
			}
			if code == last {
				break
			}
		}
	}
	for _, s := range info.Singles {
		if s.Text != "" {
			res[s.Code] = s.Text
		}
	}
	return res
}
