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
	"errors"
	"fmt"
)

var (
	// ErrUnreadableFontProgram indicates that the embedded font program of a
	// font resource is malformed, or that the font type is not supported.
	// Such resources are never merged.
	ErrUnreadableFontProgram = errors.New("unreadable font program")

	// ErrAmbiguousGlyphIdentity indicates that a character code cannot be
	// mapped to a glyph identity.
	ErrAmbiguousGlyphIdentity = errors.New("ambiguous glyph identity")

	// ErrIncompatibleGlyphData indicates that a font resource has the same
	// canonical key as a merged font, but different glyph data.
	ErrIncompatibleGlyphData = errors.New("incompatible glyph data")

	// ErrMissingEncodingInfo indicates that a font resource lacks the
	// information needed to map codes to glyph identities.
	ErrMissingEncodingInfo = errors.New("missing encoding information")

	// ErrCodeSpaceExhausted indicates that the new glyphs of a font resource
	// do not fit into the 256 codes of a simple font.
	ErrCodeSpaceExhausted = errors.New("code space exhausted")

	// ErrNoCanonicalKey indicates a font resource which cannot be merged,
	// because no canonical key can be computed for it.
	ErrNoCanonicalKey = errors.New("no canonical key")

	// ErrFinalized is returned by operations which would modify a session
	// after the merged font programs have been serialized.
	ErrFinalized = errors.New("session is finalized")
)

// FontError records an error together with the font and the operation
// which caused it.
type FontError struct {
	Font string
	Op   string
	Err  error
}

func (err *FontError) Error() string {
	return fmt.Sprintf("font %q: %s: %v", err.Font, err.Op, err.Err)
}

func (err *FontError) Unwrap() error {
	return err.Err
}

func fontError(font, op string, err error) error {
	return &FontError{Font: font, Op: op, Err: err}
}
