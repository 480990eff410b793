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

	"seehuhn.de/go/pdfmerge/font/cffraw"
	"seehuhn.de/go/pdfmerge/font/encoding"
	"seehuhn.de/go/pdfmerge/font/pdfenc"
	"seehuhn.de/go/pdfmerge/font/program"
	"seehuhn.de/go/pdfmerge/font/subset"
	"seehuhn.de/go/pdfmerge/font/tounicode"
	"seehuhn.de/go/pdfmerge/font/truetyperaw"
	"seehuhn.de/go/pdfmerge/font/type1raw"
	"seehuhn.de/go/pdfmerge/pdf"
)

// Resource is a font resource of a source document, as far as merging is
// concerned.  Resources are read-only once extracted.
type Resource struct {
	// Ref is the reference of the font dictionary, or 0 for direct objects.
	Ref pdf.Reference

	// Subtype is the /Subtype of the font dictionary.
	Subtype pdf.Name

	// Kind is the font kind, determined by the subtype, the descendant font
	// and the type of the embedded program.
	Kind program.Kind

	// BaseFont is the PostScript name of the font, including the subset tag.
	BaseFont string

	// FirstChar, LastChar and Widths give the glyph widths of a simple font.
	FirstChar, LastChar uint32
	Widths              []float64
	MissingWidth        float64

	// Encoding is the /Encoding of a simple font, or nil if there is no
	// usable /Encoding entry.
	Encoding *encoding.Simple

	// Builtin is the built-in encoding of the embedded font program, if any.
	Builtin []string

	ToUnicode *tounicode.Info

	Flags    int
	FontBBox *pdf.Rectangle

	// Program holds the decoded embedded font program, or nil if the font
	// is not embedded.
	Program []byte

	// The following fields are only used for composite fonts.
	CIDSubtype pdf.Name
	CIDWidths  map[uint32]float64
	DW         float64
	CIDToGID   []uint16
	CodeLen    int

	// Raw views of the embedded program.  At most one of these is set.
	CFF      *cffraw.Font
	Type1    *type1raw.Font
	TrueType *truetyperaw.Font
}

// ExtractResource reads a font dictionary from a source document.
//
// The error wraps [ErrUnreadableFontProgram] if the font type is not
// supported or the embedded program cannot be parsed, and
// [ErrMissingEncodingInfo] for composite fonts which use a CMap other than
// Identity-H or Identity-V.
func ExtractResource(r pdf.Getter, obj pdf.Object) (*Resource, error) {
	ref, _ := obj.(pdf.Reference)
	dict, err := pdf.GetDict(r, obj)
	if err != nil {
		return nil, err
	} else if dict == nil {
		return nil, &pdf.MalformedFileError{
			Err: errors.New("missing font dictionary"),
		}
	}

	res := &Resource{Ref: ref}
	res.Subtype, _ = pdf.GetName(r, dict["Subtype"])
	baseFont, _ := pdf.GetName(r, dict["BaseFont"])
	res.BaseFont = string(baseFont)

	res.ToUnicode, err = tounicode.Extract(r, dict["ToUnicode"])
	if err != nil {
		// A broken ToUnicode map is ignored, like a missing one.
		tracer().Debugf("%s: ignoring ToUnicode: %v", res.BaseFont, err)
		res.ToUnicode = nil
	}

	switch res.Subtype {
	case "Type1", "MMType1", "TrueType":
		err = res.extractSimple(r, dict)
	case "Type0":
		err = res.extractComposite(r, dict)
	default:
		err = fmt.Errorf("%w: font subtype %q", ErrUnreadableFontProgram, res.Subtype)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (res *Resource) extractSimple(r pdf.Getter, dict pdf.Dict) error {
	res.CodeLen = 1

	fd, err := pdf.GetDict(r, dict["FontDescriptor"])
	if err != nil {
		return err
	}
	err = res.readDescriptor(r, fd)
	if err != nil {
		return err
	}

	switch {
	case res.Subtype == "TrueType":
		res.Kind = program.TrueType
	case fd != nil && fd["FontFile3"] != nil:
		res.Kind = program.Type1C
	default:
		res.Kind = program.Type1
	}
	err = res.readProgram(r, fd)
	if err != nil {
		return err
	}

	firstChar, _ := pdf.GetInt(r, dict["FirstChar"])
	widths, err := pdf.GetArray(r, dict["Widths"])
	if err != nil {
		return err
	}
	if firstChar < 0 || firstChar > 255 {
		firstChar = 0
	}
	res.FirstChar = uint32(firstChar)
	for _, w := range widths {
		x, err := pdf.GetNumber(r, w)
		if err != nil {
			x = res.MissingWidth
		}
		res.Widths = append(res.Widths, x)
	}
	res.LastChar = 255
	lastChar, err := pdf.GetInt(r, dict["LastChar"])
	if err == nil && dict["LastChar"] != nil && lastChar >= firstChar && lastChar <= 255 {
		res.LastChar = uint32(lastChar)
	}
	if len(widths) > 0 {
		res.LastChar = min(res.LastChar, res.FirstChar+uint32(len(widths))-1)
	}

	switch {
	case res.Type1 != nil && res.Type1.IsStandard:
		res.Builtin = pdfenc.Standard.Encoding[:]
	case res.Type1 != nil:
		res.Builtin = res.Type1.Encoding
	case res.CFF != nil:
		res.Builtin = res.CFF.BuiltinEncoding()
	}

	res.Encoding, err = encoding.Extract(r, dict["Encoding"])
	if errors.Is(err, encoding.ErrUnknownEncoding) {
		res.Encoding = nil
	} else if err != nil {
		return err
	}
	if res.Encoding != nil {
		res.Encoding.Builtin = res.Builtin
	}
	return nil
}

func (res *Resource) extractComposite(r pdf.Getter, dict pdf.Dict) error {
	res.CodeLen = 2

	cmapName, _ := pdf.GetName(r, dict["Encoding"])
	if cmapName != "Identity-H" && cmapName != "Identity-V" {
		return fmt.Errorf("%w: CMap %s", ErrMissingEncodingInfo, pdf.Format(dict["Encoding"]))
	}

	desc, err := pdf.GetArray(r, dict["DescendantFonts"])
	if err != nil {
		return err
	} else if len(desc) != 1 {
		return &pdf.MalformedFileError{
			Err: fmt.Errorf("expected one descendant font, got %d", len(desc)),
		}
	}
	cidFont, err := pdf.GetDict(r, desc[0])
	if err != nil {
		return err
	} else if cidFont == nil {
		return &pdf.MalformedFileError{Err: errors.New("missing CIDFont dictionary")}
	}

	res.CIDSubtype, _ = pdf.GetName(r, cidFont["Subtype"])
	switch res.CIDSubtype {
	case "CIDFontType0":
		res.Kind = program.CIDFontType0
	case "CIDFontType2":
		res.Kind = program.CIDFontType2
	default:
		return fmt.Errorf("%w: CIDFont subtype %q", ErrUnreadableFontProgram, res.CIDSubtype)
	}

	fd, err := pdf.GetDict(r, cidFont["FontDescriptor"])
	if err != nil {
		return err
	}
	err = res.readDescriptor(r, fd)
	if err != nil {
		return err
	}
	err = res.readProgram(r, fd)
	if err != nil {
		return err
	}

	res.DW = 1000
	if cidFont["DW"] != nil {
		dw, err := pdf.GetNumber(r, cidFont["DW"])
		if err == nil {
			res.DW = dw
		}
	}
	res.CIDWidths, err = decodeCIDWidths(r, cidFont["W"])
	if err != nil {
		return err
	}

	switch m := cidFont["CIDToGIDMap"].(type) {
	case nil, pdf.Name:
		// Identity
	default:
		data, err := pdf.ReadAll(r, m)
		if err != nil {
			return err
		}
		if data != nil {
			res.CIDToGID = make([]uint16, len(data)/2)
			for i := range res.CIDToGID {
				res.CIDToGID[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
			}
		}
	}
	return nil
}

// decodeCIDWidths reads the /W array of a CIDFont.  Malformed entries are
// skipped.
func decodeCIDWidths(r pdf.Getter, obj pdf.Object) (map[uint32]float64, error) {
	w, err := pdf.GetArray(r, obj)
	if err != nil {
		return nil, err
	}

	res := make(map[uint32]float64)
	for len(w) > 1 {
		first, err := pdf.GetInt(r, w[0])
		if err != nil || first < 0 {
			return res, nil
		}

		next, err := pdf.Resolve(r, w[1])
		if err != nil {
			return nil, err
		}
		if list, ok := next.(pdf.Array); ok {
			for i, x := range list {
				width, err := pdf.GetNumber(r, x)
				if err == nil {
					res[uint32(first)+uint32(i)] = width
				}
			}
			w = w[2:]
			continue
		}

		if len(w) < 3 {
			break
		}
		last, err1 := pdf.GetInt(r, next)
		width, err2 := pdf.GetNumber(r, w[2])
		if err1 == nil && err2 == nil && last >= first && last-first < 1<<16 {
			for cid := first; cid <= last; cid++ {
				res[uint32(cid)] = width
			}
		}
		w = w[3:]
	}
	return res, nil
}

func (res *Resource) readDescriptor(r pdf.Getter, fd pdf.Dict) error {
	if fd == nil {
		return nil
	}
	flags, _ := pdf.GetInt(r, fd["Flags"])
	res.Flags = int(flags)
	if fd["MissingWidth"] != nil {
		res.MissingWidth, _ = pdf.GetNumber(r, fd["MissingWidth"])
	}
	bbox, err := pdf.GetRectangle(r, fd["FontBBox"])
	if err == nil {
		res.FontBBox = bbox
	}
	return nil
}

// readProgram loads and inspects the embedded font program.
func (res *Resource) readProgram(r pdf.Getter, fd pdf.Dict) error {
	if fd == nil {
		return nil
	}

	var key pdf.Name
	switch res.Kind {
	case program.Type1:
		key = "FontFile"
	case program.TrueType, program.CIDFontType2:
		key = "FontFile2"
	default:
		key = "FontFile3"
	}
	if fd[key] == nil {
		return nil
	}

	stm, err := pdf.GetStream(r, fd[key])
	if err != nil {
		return err
	}
	if key == "FontFile3" {
		subtype, _ := pdf.GetName(r, stm.Dict["Subtype"])
		want := pdf.Name("Type1C")
		if res.Kind == program.CIDFontType0 {
			want = "CIDFontType0C"
		}
		if subtype != want {
			return res.unreadable(fmt.Errorf("FontFile3 subtype %q", subtype))
		}
	}

	data, err := pdf.ReadAll(r, stm)
	if err != nil {
		return res.unreadable(err)
	}
	res.Program = data

	switch res.Kind {
	case program.Type1:
		res.Type1, err = type1raw.Read(data)
	case program.Type1C, program.CIDFontType0:
		res.CFF, err = cffraw.Read(data)
	case program.TrueType, program.CIDFontType2:
		res.TrueType, err = truetyperaw.Read(data)
	}
	if err != nil {
		return res.unreadable(err)
	}
	return nil
}

func (res *Resource) unreadable(err error) error {
	tracer().Errorf("%s: unreadable font program: %v", res.BaseFont, err)
	return fmt.Errorf("%w: %s: %v", ErrUnreadableFontProgram, res.BaseFont, err)
}

// IsSubset reports whether the base font name carries a subset tag.
func (res *Resource) IsSubset() bool {
	tag, _ := subset.Split(res.BaseFont)
	return tag != ""
}

// Width returns the width of the glyph for a code, in PDF glyph space
// units.
func (res *Resource) Width(code uint32) float64 {
	if res.Kind.IsComposite() {
		if w, ok := res.CIDWidths[code]; ok {
			return w
		}
		return res.DW
	}

	if code >= res.FirstChar && code <= res.LastChar {
		idx := int(code - res.FirstChar)
		if idx < len(res.Widths) {
			return res.Widths[idx]
		}
	}
	return res.MissingWidth
}

// usesZeroWidth reports whether the width table of a simple font contains a
// zero width.  Such fonts use zero widths to mark unused codes, so the
// widths of the other codes can be trusted.
func (res *Resource) usesZeroWidth() bool {
	for _, w := range res.Widths {
		if w == 0 {
			return true
		}
	}
	return false
}

// glyphName returns the glyph name for a code of a simple font, taking the
// built-in encoding of the font program into account.
func (res *Resource) glyphName(code uint32) (string, bool) {
	if res.Kind.IsComposite() || code > 255 {
		return "", false
	}
	enc := res.Encoding
	if enc == nil {
		enc = &encoding.Simple{Builtin: res.Builtin}
	}
	return enc.GlyphName(byte(code))
}

// Codes returns the codes which are examined when the resource is merged.
// These are FirstChar to LastChar for simple fonts, and the codes mapped by
// the ToUnicode CMap for composite fonts.
func (res *Resource) Codes() []uint32 {
	if res.Kind.IsComposite() {
		if res.ToUnicode == nil {
			return nil
		}
		return sortedKeys(res.ToUnicode.Mappings())
	}

	codes := make([]uint32, 0, res.LastChar-res.FirstChar+1)
	for code := res.FirstChar; code <= res.LastChar; code++ {
		codes = append(codes, code)
	}
	return codes
}

func (res *Resource) String() string {
	return fmt.Sprintf("%s %s (%s)", res.Subtype, res.BaseFont, res.Kind)
}
