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

	"seehuhn.de/go/pdfmerge/font/program"
	"seehuhn.de/go/pdfmerge/pdf"
)

// Session merges the fonts of the pages of several source documents.
// A Session is not safe for concurrent use.
type Session struct {
	opt *Options

	fonts map[string]MergedFont
	order []MergedFont
	byKey map[string][]MergedFont

	cache    *BoundedCache[resourceKey, *Resource]
	resolved map[resourceKey]resolution

	finalized bool
}

// resourceKey identifies a font dictionary in a source document.
// The Getter must be of a comparable type, for example a pointer.
type resourceKey struct {
	r   pdf.Getter
	ref pdf.Reference
}

// resolution records the outcome of merging a resource.
type resolution struct {
	key  string
	name string
	err  error
}

// NewSession creates a new session.  If opt is nil, the default options are
// used.
func NewSession(opt *Options) *Session {
	opt = opt.withDefaults()
	return &Session{
		opt:      opt,
		fonts:    make(map[string]MergedFont),
		byKey:    make(map[string][]MergedFont),
		cache:    NewBoundedCache[resourceKey, *Resource](opt.CacheCapacity, opt.CacheStrategy),
		resolved: make(map[resourceKey]resolution),
	}
}

// MergeOrCreateFont folds a resource into the merged font for the given
// canonical key.  If the resource is incompatible with every merged font
// for this key, a new merged font called "<key>_<n>" is created.
func (s *Session) MergeOrCreateFont(key string, res *Resource) (string, MergedFont, error) {
	if s.finalized {
		return "", nil, fontError(key, "merge", ErrFinalized)
	}

	candidates := s.byKey[key]
	for _, f := range candidates {
		err := f.Ingest(res)
		if err == nil {
			return f.Name(), f, nil
		}
		if !errors.Is(err, ErrIncompatibleGlyphData) && !errors.Is(err, ErrCodeSpaceExhausted) {
			return "", nil, err
		}
		tracer().Debugf("%s: %v", f.Name(), err)
	}

	name := key
	for n := len(candidates) + 1; s.fonts[name] != nil; n++ {
		name = fmt.Sprintf("%s_%d", key, n)
	}
	f, err := NewMergedFont(name, res.Kind, s.opt)
	if err != nil {
		return "", nil, err
	}
	err = f.Ingest(res)
	if err != nil {
		return "", nil, err
	}
	if len(candidates) > 0 {
		tracer().Infof("%s: %s does not fit into the existing fonts, creating %s",
			key, res.BaseFont, name)
	}

	s.fonts[name] = f
	s.order = append(s.order, f)
	s.byKey[key] = append(candidates, f)
	return name, f, nil
}

// UsedFonts returns the merged fonts of the session, in order of creation.
func (s *Session) UsedFonts() []MergedFont {
	res := make([]MergedFont, len(s.order))
	copy(res, s.order)
	return res
}

// Font returns the merged font with the given name, or nil.
func (s *Session) Font(name string) MergedFont {
	return s.fonts[name]
}

// SerializedFontPrograms finalizes the session and returns the merged font
// programs, keyed by font name.  Merged fonts where none of the resources
// had an embedded program are omitted.  After this call, no further
// resources can be merged.
func (s *Session) SerializedFontPrograms() (map[string]*program.Program, error) {
	s.finalized = true

	res := make(map[string]*program.Program, len(s.order))
	for _, f := range s.order {
		p, err := f.SerializeProgram()
		if err != nil {
			return nil, err
		}
		if p != nil {
			res[f.Name()] = p
		}
	}
	return res, nil
}

// resource returns the extracted font resource for obj.  Resources given by
// reference are kept in the session cache.
func (s *Session) resource(r pdf.Getter, obj pdf.Object) (*Resource, error) {
	ref, isRef := obj.(pdf.Reference)
	if !isRef {
		return ExtractResource(r, obj)
	}

	k := resourceKey{r: r, ref: ref}
	if res, ok := s.cache.Get(k); ok {
		return res, nil
	}
	res, err := ExtractResource(r, obj)
	if err != nil {
		return nil, err
	}
	s.cache.Put(k, res)
	return res, nil
}

// canonicalKey returns the canonical key of the resource obj.  Resources
// which were merged before report the name of their merged font.
func (s *Session) canonicalKey(r pdf.Getter, obj pdf.Object, res *Resource) (resolution, bool) {
	if ref, isRef := obj.(pdf.Reference); isRef {
		if prev, ok := s.resolved[resourceKey{r: r, ref: ref}]; ok {
			return prev, true
		}
	}
	key, ok := CanonicalKey(res)
	if !ok {
		return resolution{err: fontError(res.BaseFont, "resolve", ErrNoCanonicalKey)}, false
	}
	return resolution{key: key}, false
}

// merge folds the resource obj into a merged font.  Every font dictionary
// given by reference is ingested at most once.
func (s *Session) merge(r pdf.Getter, obj pdf.Object, key string, res *Resource) (MergedFont, error) {
	name, f, err := s.MergeOrCreateFont(key, res)
	if ref, isRef := obj.(pdf.Reference); isRef && !errors.Is(err, ErrFinalized) {
		s.resolved[resourceKey{r: r, ref: ref}] = resolution{key: key, name: name, err: err}
	}
	return f, err
}
