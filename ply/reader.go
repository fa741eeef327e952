package ply

import (
	"io"
	"os"

	"github.com/gopherply/ply/ply/internal/errors"
)

// Reader walks a PLY file element by element: the header is parsed once by
// NewReader/Open, after which HasElement/LoadElement/NextElement step
// through the body in declared order. Any failure — a malformed header, a
// truncated body, a list whose length violates ConvertListToFixedSize —
// latches the Reader into an invalid state: every subsequent method is a
// no-op returning its zero value, the same contract bzip2.Reader gives a
// caller after a corrupted block.
type Reader struct {
	src    *byteSource
	closer io.Closer

	schema *Schema
	err    error

	cursor int // index into schema.Elements of the not-yet-consumed element
	loaded *LoadedElement
}

// Open opens path and parses its header.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := NewReader(f)
	r.closer = f
	if r.err != nil {
		f.Close()
		return r, r.err
	}
	return r, nil
}

// NewReader parses the header of r and returns a Reader positioned at the
// first element. A header error is both returned as r.Err() and latched, so
// a caller that presses on anyway simply observes HasElement false forever.
func NewReader(r io.Reader) (rd *Reader) {
	rd = &Reader{src: newByteSource(r)}
	defer errors.Recover(&rd.err)
	rd.schema = parseHeader(rd.src)
	return rd
}

// Valid reports whether the Reader has not yet latched an error.
func (r *Reader) Valid() bool { return r.err == nil && r.schema != nil }

// Err returns the first error the Reader encountered, if any.
func (r *Reader) Err() error { return r.err }

// Schema returns the parsed header. It is non-nil whenever the header
// parsed, even if the Reader is already invalid because of a later body
// error; it is nil if parsing the header itself failed.
func (r *Reader) Schema() *Schema { return r.schema }

// Close releases the underlying file, if the Reader owns one (via Open).
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// HasElement reports whether an element remains to be loaded or skipped.
func (r *Reader) HasElement() bool {
	return r.Valid() && r.cursor < len(r.schema.Elements)
}

// ElementIs reports whether the current (not yet consumed) element has the
// given name, without consuming it.
func (r *Reader) ElementIs(name string) bool {
	return r.HasElement() && r.schema.Elements[r.cursor].Name == name
}

// ElementSchema returns the schema of the current element without decoding
// its rows, or nil if no element remains.
func (r *Reader) ElementSchema() *Element {
	if !r.HasElement() {
		return nil
	}
	return &r.schema.Elements[r.cursor]
}

// LoadElement decodes the current element's rows into memory and returns
// them. Call NextElement afterward to advance the cursor past it. Returns
// nil if no element remains or decoding failed, in which case Err reports
// why.
func (r *Reader) LoadElement() *LoadedElement {
	if !r.HasElement() {
		return nil
	}
	defer errors.Recover(&r.err)
	el := &r.schema.Elements[r.cursor]
	block := loadElement(r.src, el, r.schema.Encoding)
	r.loaded = &LoadedElement{Element: el, block: block}
	return r.loaded
}

// NextElement discards the current element, loaded or not, and advances the
// cursor past it. An element that was never passed to LoadElement is
// skipped without retaining its rows: in one bulk skip for a binary element
// with no unconverted list, row by row otherwise. Returns false if no element
// remained, or if skipping it failed.
func (r *Reader) NextElement() bool {
	if !r.HasElement() {
		return false
	}
	defer errors.Recover(&r.err)
	el := &r.schema.Elements[r.cursor]
	if r.loaded == nil || r.loaded.Element != el {
		skipElement(r.src, el, r.schema.Encoding)
	}
	r.loaded = nil
	r.cursor++
	return r.err == nil
}

// GetElement skips forward from the current cursor until it finds an
// element named name, loads it, and returns it. It returns nil without
// advancing further if name does not occur at or after the cursor, or once
// the Reader has latched an error.
func (r *Reader) GetElement(name string) *LoadedElement {
	if !r.HasElement() {
		return nil
	}
	if idx := r.schema.FindElement(name); idx == InvalidIndex || int(idx) < r.cursor {
		return nil
	}
	for r.HasElement() {
		if r.schema.Elements[r.cursor].Name == name {
			return r.LoadElement()
		}
		if !r.NextElement() {
			return nil
		}
	}
	return nil
}
