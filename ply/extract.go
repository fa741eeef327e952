package ply

import (
	"encoding/binary"
	"math"

	"github.com/gopherply/ply/ply/internal/errors"
)

const pkgExtract = "ply"

// LoadedElement is the schema for one element together with its decoded row
// data, as returned by Reader.LoadElement (or Reader.GetElement). Every
// extraction method converts on the fly from the property's declared type
// to whatever PropertyType the caller asks for, so a consumer that wants
// float32 positions out of a file storing double x/y/z never has to know.
type LoadedElement struct {
	*Element
	block *rowBlock
}

// NumRows is an alias for Count, read from the currently loaded block.
func (e *LoadedElement) NumRows() int { return e.Count }

// columnsOf reports how many dstType-typed values a single row contributes
// for this property: one for a scalar, FixedListCount() for a property
// narrowed with ConvertListToFixedSize. Only called once IsFixedSize() has
// already been asserted true.
func columnsOf(p *Property) int {
	if p.IsList {
		return p.fixedListCount
	}
	return 1
}

// ExtractProperties extracts the given properties (as returned by FindPos,
// FindNormal, FindColor, FindIndices after ConvertListToFixedSize, ...) from
// every row, interleaved, as dstType-typed values. Every selected property
// must be fixed-size — a plain scalar or a list narrowed with
// ConvertListToFixedSize — contributing 1 or FixedListCount() columns to
// each row respectively; a row's columns are laid out in request order, so
// for all-scalar indices out[(row*len(indices)+j)*dstType.Size():] holds the
// j'th requested property of that row, same as before a converted list was
// involved. Panics ListProperty if any index names a true (unconverted)
// list property — use ExtractListProperty for those instead.
func (e *LoadedElement) ExtractProperties(indices []uint32, dstType PropertyType) []byte {
	itemSize := dstType.Size()
	rowCols := 0
	for _, idx := range indices {
		p := &e.Properties[idx]
		errors.Assert(p.IsFixedSize(), errors.ListProperty, pkgExtract,
			"property %q is a list", p.Name)
		rowCols += columnsOf(p)
	}

	out := make([]byte, e.Count*rowCols*itemSize)
	for r := 0; r < e.Count; r++ {
		row := e.block.row(e.Element, r)
		col := 0
		for _, idx := range indices {
			p := &e.Properties[idx]
			srcItemSize := p.Type.Size()
			n := columnsOf(p)
			for k := 0; k < n; k++ {
				src := row[p.offset+k*srcItemSize : p.offset+(k+1)*srcItemSize]
				dstOff := (r*rowCols + col) * itemSize
				convertScalar(out[dstOff:dstOff+itemSize], dstType, src, p.Type)
				col++
			}
		}
	}
	return out
}

// ExtractScalarAt extracts a single row's single non-list property as a
// dstType value.
func (e *LoadedElement) ExtractScalarAt(row int, prop uint32, dstType PropertyType) []byte {
	p := &e.Properties[prop]
	errors.Assert(!p.IsList, errors.ListProperty, pkgExtract, "property %q is a list", p.Name)
	r := e.block.row(e.Element, row)
	src := r[p.offset : p.offset+p.Type.Size()]
	out := make([]byte, dstType.Size())
	convertScalar(out, dstType, src, p.Type)
	return out
}

// SumOfListCounts totals the item count of a list property across every
// row: for a property narrowed with ConvertListToFixedSize this is just
// Count*N, otherwise it walks every row's stored count. Used to size the
// dest buffer passed to ExtractListProperty.
func (e *LoadedElement) SumOfListCounts(prop uint32) int {
	p := &e.Properties[prop]
	errors.Assert(p.IsList, errors.ListProperty, pkgExtract, "property %q is not a list", p.Name)
	if p.fixedListCount >= 0 {
		return e.Count * p.fixedListCount
	}
	total := 0
	for r := 0; r < e.Count; r++ {
		total += e.listCount(r, prop)
	}
	return total
}

// ExtractListProperty concatenates every row's list property payload, in
// row order, as dstType-typed values — the whole-element counterpart to
// ExtractScalarAt/ExtractProperties for a true or converted list. Caller
// sizes the result with SumOfListCounts(prop); use ExtractListPropertyAt for
// a single row's items.
func (e *LoadedElement) ExtractListProperty(prop uint32, dstType PropertyType) []byte {
	dstItemSize := dstType.Size()
	out := make([]byte, e.SumOfListCounts(prop)*dstItemSize)
	offset := 0
	for r := 0; r < e.Count; r++ {
		row := e.extractListPropertyAt(r, prop, dstType)
		offset += copy(out[offset:], row)
	}
	return out
}

// ExtractListPropertyAt extracts one row's list property, whether or not it
// was narrowed with ConvertListToFixedSize, as dstType-typed values.
func (e *LoadedElement) ExtractListPropertyAt(row int, prop uint32, dstType PropertyType) []byte {
	return e.extractListPropertyAt(row, prop, dstType)
}

func (e *LoadedElement) extractListPropertyAt(row int, prop uint32, dstType PropertyType) []byte {
	p := &e.Properties[prop]
	errors.Assert(p.IsList, errors.ListProperty, pkgExtract, "property %q is not a list", p.Name)

	r := e.block.row(e.Element, row)
	srcItemSize := p.Type.Size()

	var count int
	var items []byte
	if p.fixedListCount >= 0 {
		count = p.fixedListCount
		items = r[p.offset : p.offset+count*srcItemSize]
	} else {
		count, items = e.block.listSlot(r, p)
	}

	dstItemSize := dstType.Size()
	out := make([]byte, count*dstItemSize)
	for k := 0; k < count; k++ {
		src := items[k*srcItemSize : (k+1)*srcItemSize]
		dst := out[k*dstItemSize : (k+1)*dstItemSize]
		convertScalar(dst, dstType, src, p.Type)
	}
	return out
}

func (e *LoadedElement) listCount(row int, prop uint32) int {
	p := &e.Properties[prop]
	if p.fixedListCount >= 0 {
		return p.fixedListCount
	}
	r := e.block.row(e.Element, row)
	return int(leUint32(r[p.offset:]))
}

// RequiresTriangulation reports whether row's list property has more than
// three items and so needs fan triangulation rather than a single triangle.
func (e *LoadedElement) RequiresTriangulation(row int, prop uint32) bool {
	p := &e.Properties[prop]
	errors.Assert(p.IsList, errors.ListProperty, pkgExtract, "property %q is not a list", p.Name)
	return e.listCount(row, prop) > 3
}

// NumTriangles reports how many triangles ExtractTriangles will produce for
// row's polygon: n-2 for an n-gon with n>=3, zero for a degenerate (<3)
// vertex count.
func (e *LoadedElement) NumTriangles(row int, prop uint32) int {
	p := &e.Properties[prop]
	errors.Assert(p.IsList, errors.ListProperty, pkgExtract, "property %q is not a list", p.Name)
	n := e.listCount(row, prop)
	if n < 3 {
		return 0
	}
	return n - 2
}

// ExtractTriangles fan-triangulates row's vertex-index list property
// (typically found with FindIndices) into n-2 triangles of raw vertex
// indices, each in [0, numVerts) as required of a well-formed polygon;
// an index outside that range panics OutOfRange before positions is ever
// consulted. positions looks up the 3D position of a vertex index; it is
// consulted only to pick the fan's starting vertex, by testing every
// candidate start and keeping the one that maximizes the minimum triangle
// area produced, with ties broken in favor of the lowest start index. For a
// triangle (n==3) there is exactly one fan and positions is never called.
func (e *LoadedElement) ExtractTriangles(row int, prop uint32, numVerts uint32, positions func(v uint32) [3]float64) [][3]uint32 {
	raw := e.ExtractListPropertyAt(row, prop, UInt)
	n := len(raw) / 4
	verts := make([]uint32, n)
	for i := 0; i < n; i++ {
		v := binary.LittleEndian.Uint32(raw[i*4:])
		errors.Assert(v < numVerts, errors.OutOfRange, pkgExtract,
			"vertex index %d outside [0, %d)", v, numVerts)
		verts[i] = v
	}
	return triangulateFan(verts, positions)
}

func triangulateFan(verts []uint32, positions func(v uint32) [3]float64) [][3]uint32 {
	n := len(verts)
	if n < 3 {
		return nil
	}
	if n == 3 {
		return [][3]uint32{{verts[0], verts[1], verts[2]}}
	}

	bestK := 0
	bestMinArea := -1.0
	for k := 0; k < n; k++ {
		minArea := math.Inf(1)
		a := positions(verts[k])
		for i := 1; i < n-1; i++ {
			b := positions(verts[(k+i)%n])
			c := positions(verts[(k+i+1)%n])
			if area := triangleArea(a, b, c); area < minArea {
				minArea = area
			}
		}
		if minArea > bestMinArea {
			bestMinArea = minArea
			bestK = k
		}
	}

	tris := make([][3]uint32, 0, n-2)
	for i := 1; i < n-1; i++ {
		tris = append(tris, [3]uint32{verts[bestK], verts[(bestK+i)%n], verts[(bestK+i+1)%n]})
	}
	return tris
}

func triangleArea(a, b, c [3]float64) float64 {
	ux, uy, uz := b[0]-a[0], b[1]-a[1], b[2]-a[2]
	vx, vy, vz := c[0]-a[0], c[1]-a[1], c[2]-a[2]
	cx := uy*vz - uz*vy
	cy := uz*vx - ux*vz
	cz := ux*vy - uy*vx
	return 0.5 * math.Sqrt(cx*cx+cy*cy+cz*cz)
}
