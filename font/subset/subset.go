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

// Package subset handles the tags which identify subsetted fonts.
//
// A subset tag consists of exactly six upper-case letters, followed by a
// plus sign and the PostScript name of the font, for example
// "ABCDEF+Times-Roman".
package subset

import (
	"regexp"
	"strings"
)

// TagRegexp matches font names with a subset tag.  The first submatch is
// the tag, the second submatch is the font name.
var TagRegexp = regexp.MustCompile(`^([A-Z]{6})\+(.*)$`)

// Split separates a font name into its subset tag and the remaining name.
// If the name has no subset tag, tag is the empty string.
func Split(fontName string) (tag, name string) {
	if m := TagRegexp.FindStringSubmatch(fontName); m != nil {
		return m[1], m[2]
	}
	return "", fontName
}

// IsValidTag checks whether tag is a valid subset tag.
func IsValidTag(tag string) bool {
	if len(tag) != 6 {
		return false
	}
	for _, c := range tag {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// BaseName returns the font name with any subset tag removed.  Spaces are
// removed as well, since some producers write names like "Myriad Pro".
func BaseName(fontName string) string {
	_, name := Split(fontName)
	return strings.ReplaceAll(name, " ", "")
}
