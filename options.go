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

// CompareDirection specifies the order in which two glyph descriptions
// are compared by [GlyphDataCompatible].
type CompareDirection int

// These are the supported comparison directions.
const (
	// TailFirst aligns the two byte sequences at their ends.  Differences
	// at the start of glyph descriptions are common between embeddings of
	// the same font, for example because of differently encoded widths.
	TailFirst CompareDirection = iota

	// HeadFirst aligns the two byte sequences at their starts.
	HeadFirst
)

func (d CompareDirection) String() string {
	switch d {
	case TailFirst:
		return "tail-first"
	case HeadFirst:
		return "head-first"
	default:
		return "unknown"
	}
}

// Options controls the behaviour of a [Session].
// A nil *Options is equivalent to the default values.
type Options struct {
	// MismatchBudget is the number of differing bytes which are tolerated
	// per glyph description.  Negative values mean zero.  Since zero is a
	// valid budget, the default of 2 only applies to a nil *Options; use
	// [DefaultOptions] as a starting point to change the other fields.
	MismatchBudget int

	// HeaderLen is the number of bytes at the start of every glyph
	// description which are not compared.  Embeddings of the same font
	// often differ there, for example where the glyph width is encoded.
	// Zero compares whole descriptions; the default of 10 only applies to
	// a nil *Options, like MismatchBudget.  Negative values mean zero.
	HeaderLen int

	// CompareDirection is the direction in which glyph descriptions are
	// compared.  The default is TailFirst.
	CompareDirection CompareDirection

	// CacheCapacity is the number of extracted font resources kept in
	// memory.  The default is 10.
	CacheCapacity int

	// CacheStrategy selects what happens when the cache overflows.  The
	// default is ClearAll.
	CacheStrategy CacheStrategy
}

const (
	defaultMismatchBudget = 2
	defaultHeaderLen      = 10
	defaultCacheCapacity  = 10
)

// DefaultOptions returns a new Options struct with the default values.
func DefaultOptions() *Options {
	return &Options{
		MismatchBudget:   defaultMismatchBudget,
		HeaderLen:        defaultHeaderLen,
		CompareDirection: TailFirst,
		CacheCapacity:    defaultCacheCapacity,
		CacheStrategy:    ClearAll,
	}
}

// withDefaults returns a copy of opt where unset fields are replaced by the
// default values.
func (opt *Options) withDefaults() *Options {
	if opt == nil {
		return DefaultOptions()
	}
	res := *opt
	if res.MismatchBudget < 0 {
		res.MismatchBudget = 0
	}
	if res.HeaderLen < 0 {
		res.HeaderLen = 0
	}
	if res.CacheCapacity <= 0 {
		res.CacheCapacity = defaultCacheCapacity
	}
	return &res
}
