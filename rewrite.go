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
	"bytes"
	"fmt"
	"io"

	"seehuhn.de/go/pdfmerge/content"
	"seehuhn.de/go/pdfmerge/pdf"
)

// SourcePage is a page of a source document.
type SourcePage struct {
	// R is used to resolve references in Fonts.
	R pdf.Getter

	// Fonts is the /Font dictionary from the page resources.
	Fonts pdf.Dict

	// Contents is the decoded content stream of the page.
	Contents []byte
}

// Rewritten is the result of rewriting a page.
type Rewritten struct {
	// Content is the new content stream.
	Content []byte

	// Fonts maps the local font names of the source page to the names of
	// the merged fonts which replace them.
	Fonts map[pdf.Name]string

	// References lists the other resource names used by the content
	// stream, including fonts which were not merged.  These resources must
	// be copied from the source page.
	References []pdf.Name
}

// RewritePage rewrites the content stream of a page to use merged fonts.
// If no font of the page could be merged, nil is returned.
//
// Text which cannot be re-encoded for the merged font is kept unchanged.
// An error is only returned if the content stream cannot be parsed.
func (s *Session) RewritePage(page *SourcePage) (*Rewritten, error) {
	st := &rewriteState{
		s:        s,
		page:     page,
		targets:  make(map[pdf.Name]target),
		usedKeys: make(map[string]pdf.Name),
		fonts:    make(map[pdf.Name]string),
		refs:     make(map[pdf.Name]bool),
	}

	buf := &bytes.Buffer{}
	w := content.NewWriter(buf)
	rd := content.NewReader(bytes.NewReader(page.Contents))
	for {
		op, err := rd.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("content stream line %d: %w", rd.Line(), err)
		}
		err = w.Write(st.apply(op))
		if err != nil {
			return nil, err
		}
	}
	err := w.Flush()
	if err != nil {
		return nil, err
	}

	if len(st.fonts) == 0 {
		return nil, nil
	}
	return &Rewritten{
		Content:    buf.Bytes(),
		Fonts:      st.fonts,
		References: sortedKeys(st.refs),
	}, nil
}

// target is the merged font which replaces a local font.
type target struct {
	font MergedFont // nil if the local font is kept
	res  *Resource
}

// rewriteState holds the state of the content stream rewriter while it
// processes one page.
type rewriteState struct {
	s    *Session
	page *SourcePage

	// targets caches the outcome of resolving each local font name.
	targets map[pdf.Name]target

	// usedKeys records which local name introduced each canonical key on
	// this page.
	usedKeys map[string]pdf.Name

	// the font selected by the most recent Tf operator
	local pdf.Name
	font  MergedFont
	res   *Resource

	fonts map[pdf.Name]string
	refs  map[pdf.Name]bool
}

// apply returns the operation to emit in place of op.
func (st *rewriteState) apply(op *content.Operation) *content.Operation {
	args := op.Args
	switch op.Name {
	case "Tf":
		if len(args) != 2 {
			break
		}
		local, ok := args[0].(pdf.Name)
		if !ok {
			break
		}
		t := st.selectFont(local)
		if t.font == nil {
			st.refs[local] = true
			break
		}
		st.fonts[local] = t.font.Name()
		return &content.Operation{
			Name: op.Name,
			Args: []pdf.Object{pdf.Name(t.font.Name()), args[1]},
		}

	case "Tj", "'":
		if len(args) == 1 {
			return st.withArgs(op, st.rewriteString(args[0]))
		}

	case "\"":
		if len(args) == 3 {
			return st.withArgs(op, args[0], args[1], st.rewriteString(args[2]))
		}

	case "TJ":
		if len(args) != 1 {
			break
		}
		a, ok := args[0].(pdf.Array)
		if !ok {
			break
		}
		res := make(pdf.Array, len(a))
		for i, elem := range a {
			res[i] = st.rewriteString(elem)
		}
		return st.withArgs(op, res)

	case "Do", "gs", "sh", "cs", "CS":
		if len(args) > 0 {
			st.recordName(args[0])
		}
	case "scn", "SCN":
		if len(args) > 0 {
			st.recordName(args[len(args)-1])
		}
	case "BDC", "DP":
		if len(args) == 2 {
			st.recordName(args[1])
		}
	}
	return op
}

func (st *rewriteState) withArgs(op *content.Operation, args ...pdf.Object) *content.Operation {
	return &content.Operation{Name: op.Name, Args: args}
}

func (st *rewriteState) recordName(obj pdf.Object) {
	name, ok := obj.(pdf.Name)
	if !ok {
		return
	}
	switch name {
	case "DeviceGray", "DeviceRGB", "DeviceCMYK", "Pattern":
		return
	}
	st.refs[name] = true
}

// selectFont makes the given local font the current font.
func (st *rewriteState) selectFont(local pdf.Name) target {
	t, ok := st.targets[local]
	if !ok {
		t = st.resolve(local)
		st.targets[local] = t
	}
	st.local = local
	st.font = t.font
	st.res = t.res
	return t
}

// resolve finds the merged font for a local font name.  A zero target is
// returned if the font is kept unchanged.
func (st *rewriteState) resolve(local pdf.Name) target {
	obj := st.page.Fonts[local]
	if obj == nil {
		return target{}
	}
	r := st.page.R

	res, err := st.s.resource(r, obj)
	if err != nil {
		tracer().Debugf("font /%s: %v", local, err)
		return target{}
	}

	prev, seen := st.s.canonicalKey(r, obj, res)
	if prev.err != nil {
		tracer().Debugf("font /%s: %v", local, prev.err)
		return target{}
	}

	// Two different fonts of the page with the same key are not merged,
	// since their codes would clash.
	if other, used := st.usedKeys[prev.key]; used && other != local {
		tracer().Debugf("font /%s: %s is already used by /%s", local, prev.key, other)
		return target{}
	}

	var f MergedFont
	if seen {
		f = st.s.fonts[prev.name]
	} else {
		f, err = st.s.merge(r, obj, prev.key, res)
		if err != nil {
			tracer().Debugf("font /%s: %v", local, err)
			return target{}
		}
	}
	st.usedKeys[prev.key] = local
	return target{font: f, res: res}
}

// rewriteString re-encodes a string operand for the current merged font.
// If any code cannot be mapped, the operand is returned unchanged.
func (st *rewriteState) rewriteString(obj pdf.Object) pdf.Object {
	s, ok := obj.(pdf.String)
	if !ok || st.font == nil || st.font.Unchanged() {
		return obj
	}

	codes, ok := Split(st.res, s)
	if !ok {
		return obj
	}
	composite := st.font.Kind().IsComposite()
	out := make([]byte, 0, len(s))
	for _, code := range codes {
		merged, err := st.mergedCode(code)
		if err != nil {
			tracer().Debugf("/%s: %v", st.local, err)
			return obj
		}
		if composite {
			out = append(out, byte(merged>>8), byte(merged))
		} else {
			out = append(out, byte(merged))
		}
	}

	if composite {
		return content.Raw(pdf.FormatHex(out))
	}
	return content.Raw(pdf.FormatLiteral(out))
}

// mergedCode maps a code of the current source font to the merged font.
func (st *rewriteState) mergedCode(code uint32) (uint32, error) {
	if id, ok := DecodeIdentity(st.res, code); ok {
		if merged, ok := st.font.Lookup(id); ok {
			return merged, nil
		}
	}
	rr := []rune(Text(st.res, code))
	if len(rr) == 1 {
		if merged, ok := st.font.MapChar(rr[0]); ok {
			return merged, nil
		}
	}
	return 0, fontError(st.font.Name(), fmt.Sprintf("map code %d", code), ErrAmbiguousGlyphIdentity)
}
