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

// Package pdfmerge merges the fonts of pages taken from several PDF
// documents.
//
// When pages from different source documents are combined into one output
// document, every source document typically embeds its own copy (or
// subset) of the fonts it uses.  A [Session] collects the font resources
// referenced by the source pages, merges resources which describe the same
// font into one [MergedFont], and rewrites the content streams of the
// pages so that the text operators refer to the merged fonts:
//
//	s := pdfmerge.NewSession(nil)
//	for _, page := range pages {
//	    res, err := s.RewritePage(page)
//	    if err != nil {
//	        return err
//	    }
//	    if res == nil {
//	        // no font was merged, keep the original content stream
//	        continue
//	    }
//	    ... use res.Content and res.Fonts ...
//	}
//	programs, err := s.SerializedFontPrograms()
//
// Two font resources are merged if they have the same canonical key (see
// [CanonicalKey]) and if their glyph data is compatible (see
// [GlyphDataCompatible]).  The compatibility test is a heuristic, which
// compares raw glyph descriptions from the end.  Its parameters can be set
// using [Options].
//
// Glyphs are identified across fonts by their glyph identity: the glyph
// name for fonts with an explicit encoding, and the text content otherwise.
// Once a glyph identity has been assigned a code in a merged font, this
// code never changes.
//
// A Session is not safe for concurrent use.
package pdfmerge

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("pdfmerge")
}
