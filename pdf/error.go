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

package pdf

import (
	"strconv"
	"strings"
)

// MalformedFileError indicates that a PDF file or one of the objects
// embedded in it could not be parsed.
type MalformedFileError struct {
	Pos int64
	Err error
	Loc []string
}

func (err *MalformedFileError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	tail := ""
	if err.Pos > 0 {
		tail = " (at byte " + strconv.FormatInt(err.Pos, 10) + ")"
	}
	loc := ""
	if len(err.Loc) > 0 {
		loc = " in " + strings.Join(err.Loc, ", ")
	}
	return "malformed PDF data" + loc + middle + tail
}

func (err *MalformedFileError) Unwrap() error {
	return err.Err
}

// Wrap adds location information to an error.  If err is a
// [MalformedFileError], the location is added to the existing error,
// otherwise err is returned unchanged.
func Wrap(err error, loc string) error {
	if e, ok := err.(*MalformedFileError); ok {
		e2 := *e
		e2.Loc = append([]string{loc}, e.Loc...)
		return &e2
	}
	return err
}
