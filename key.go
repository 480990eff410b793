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

package pdfmerge

import (
	"seehuhn.de/go/pdfmerge/font/cffraw"
	"seehuhn.de/go/pdfmerge/font/program"
	"seehuhn.de/go/pdfmerge/font/subset"
)

// firstCustomSID is the first string ID which does not refer to the CFF
// standard strings.
const firstCustomSID = 391

// CanonicalKey returns the name under which a resource is merged.
// Resources with the same key are candidates for merging.  The second
// return value is false if the resource cannot be merged at all.
//
// The key consists of the base font name, without subset tag and spaces,
// and the font dictionary subtype.  Tags describing structural properties
// of the font program are appended, since fonts which differ in these
// properties cannot be merged even if the glyphs look the same.
func CanonicalKey(res *Resource) (string, bool) {
	base := subset.BaseName(res.BaseFont)
	if base == "" {
		return "", false
	}
	name := base + "_" + string(res.Subtype)

	var extra string
	switch res.Kind {
	case program.CIDFontType0:
		if res.CFF != nil && res.CFF.IsCIDKeyed() && res.CFF.FDSelectFormat == 0 {
			extra = "format0"
		}
	case program.CIDFontType2:
		if res.ToUnicode == nil {
			return "", false
		}
		if !res.IsSubset() {
			extra = "f3"
		}
	case program.TrueType:
		if res.IsSubset() && res.TrueType != nil && res.TrueType.AnyMaps(1) {
			extra = "cid"
		}
	case program.Type1C:
		if res.CFF != nil {
			extra = cffTags(res.CFF)
		}
	}
	return name + extra, true
}

func cffTags(cff *cffraw.Font) string {
	var extra string
	switch cff.EncodingFormat {
	case 1:
		extra += "f1enc"
	case 0:
		extra += "f0enc"
	}
	if sid, ok := cff.FirstSID(); ok && sid < firstCustomSID {
		extra += "stdcs"
	}
	if cff.CharsetFormat == 1 {
		extra += "f1cs"
	}
	return extra
}

// glyphData returns the raw glyph descriptions of the embedded program of
// a resource.  Keys are glyph names for Type 1 and Type1C fonts, and glyph
// identities otherwise.  Empty glyphs are omitted.
func glyphData(res *Resource) map[string][]byte {
	data := make(map[string][]byte)
	add := func(key string, g []byte) {
		if key != "" && len(g) > 0 {
			data[key] = g
		}
	}

	switch {
	case res.Type1 != nil:
		for name, g := range res.Type1.CharStrings {
			add(name, g)
		}
	case res.CFF != nil && !res.Kind.IsComposite():
		for name, g := range res.CFF.GlyphsByName() {
			add(name, g)
		}
	case res.CFF != nil:
		byCID := res.CFF.GlyphsByCID()
		for _, code := range res.Codes() {
			if id, ok := DecodeIdentity(res, code); ok {
				add(id, byCID[int32(code)])
			}
		}
	case res.TrueType != nil:
		glyphs := res.TrueType.Glyphs
		for _, code := range res.Codes() {
			id, ok := DecodeIdentity(res, code)
			if !ok {
				continue
			}
			var gid int
			if res.Kind.IsComposite() {
				gid = int(code)
				if res.CIDToGID != nil {
					if int(code) >= len(res.CIDToGID) {
						continue
					}
					gid = int(res.CIDToGID[code])
				}
			} else {
				gid = int(res.TrueType.SimpleGID(byte(code), Text(res, code)))
			}
			if gid > 0 && gid < len(glyphs) {
				add(id, glyphs[gid])
			}
		}
	}
	return data
}

// GlyphDataCompatible reports whether the glyph descriptions of a candidate
// font agree with the glyph descriptions already collected for a merged
// font.  Only glyphs present in both maps are compared.
//
// This is a heuristic: two descriptions of a glyph are considered equal if,
// after skipping the first opt.HeaderLen bytes of each, they differ in at
// most opt.MismatchBudget byte positions.  Embeddings of the same font
// often differ in a few bytes, for example where the glyph width is
// encoded.
func GlyphDataCompatible(existing, candidate map[string][]byte, opt *Options) bool {
	opt = opt.withDefaults()
	for key, b2 := range candidate {
		b1, ok := existing[key]
		if !ok {
			continue
		}
		if countMismatches(b1, b2, opt.CompareDirection, opt.HeaderLen, opt.MismatchBudget) > opt.MismatchBudget {
			tracer().Debugf("glyph %q differs", key)
			return false
		}
	}
	return true
}

// countMismatches counts the positions where a and b differ, aligning the
// two sequences according to dir.  The first header bytes of each sequence
// are ignored.  Counting stops once the count exceeds limit.
func countMismatches(a, b []byte, dir CompareDirection, header, limit int) int {
	n := min(len(a), len(b)) - header
	count := 0
	for i := range max(n, 0) {
		var x, y byte
		if dir == HeadFirst {
			x, y = a[header+i], b[header+i]
		} else {
			x, y = a[len(a)-1-i], b[len(b)-1-i]
		}
		if x != y {
			count++
			if count > limit {
				break
			}
		}
	}
	return count
}
