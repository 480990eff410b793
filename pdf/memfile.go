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
	"bytes"
	"compress/zlib"
	"errors"
	"io"
)

// MemFile is an in-memory collection of PDF objects.  It implements the
// [Getter] interface and is used to represent source documents which have
// already been loaded, as well as in tests.
type MemFile struct {
	objects map[Reference]Object
	streams map[Reference]*memStream
	next    uint32
}

type memStream struct {
	dict Dict
	data []byte
}

// NewMemFile creates a new, empty in-memory file.
func NewMemFile() *MemFile {
	return &MemFile{
		objects: make(map[Reference]Object),
		streams: make(map[Reference]*memStream),
		next:    1,
	}
}

// Alloc allocates a new object number.
func (f *MemFile) Alloc() Reference {
	ref := NewReference(f.next, 0)
	f.next++
	return ref
}

// Put stores obj under the given reference.  Streams are read into memory,
// so that every call to [MemFile.Get] returns a fresh reader.
func (f *MemFile) Put(ref Reference, obj Object) error {
	if stm, ok := obj.(*Stream); ok {
		data, err := io.ReadAll(stm.R)
		if err != nil {
			return err
		}
		delete(f.objects, ref)
		f.streams[ref] = &memStream{dict: stm.Dict, data: data}
		return nil
	}
	delete(f.streams, ref)
	f.objects[ref] = obj
	return nil
}

// Add allocates a new reference and stores obj under it.
func (f *MemFile) Add(obj Object) (Reference, error) {
	ref := f.Alloc()
	return ref, f.Put(ref, obj)
}

// AddStream stores data as a stream, compressed with FlateDecode when
// compress is true.
func (f *MemFile) AddStream(dict Dict, data []byte, compress bool) (Reference, error) {
	d := Dict{}
	for key, val := range dict {
		d[key] = val
	}
	if compress {
		buf := &bytes.Buffer{}
		zw := zlib.NewWriter(buf)
		if _, err := zw.Write(data); err != nil {
			return 0, err
		}
		if err := zw.Close(); err != nil {
			return 0, err
		}
		data = buf.Bytes()
		d["Filter"] = Name("FlateDecode")
	}
	d["Length"] = Integer(len(data))
	return f.Add(&Stream{Dict: d, R: bytes.NewReader(data)})
}

// Get implements the [Getter] interface.
func (f *MemFile) Get(ref Reference) (Object, error) {
	if stm, ok := f.streams[ref]; ok {
		return &Stream{Dict: stm.dict, R: bytes.NewReader(stm.data)}, nil
	}
	obj, ok := f.objects[ref]
	if !ok {
		return nil, &MalformedFileError{
			Err: errMissingObject,
			Loc: []string{"object " + ref.String()},
		}
	}
	return obj, nil
}

var errMissingObject = errors.New("object not found")
