package ply

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gopherply/ply/internal/testutil"
)

// TestReaderRandomizedRoundTrip generates a reproducible random mesh with
// testutil's deterministic PRNG, renders it as an ASCII PLY file, and checks
// that every vertex and face index comes back out of the Reader unchanged.
// The seed is fixed so a failure here is always reproducible across runs.
func TestReaderRandomizedRoundTrip(t *testing.T) {
	rnd := testutil.NewRand(42)
	const numVerts = 20
	const numFaces = 15

	verts := make([][3]float32, numVerts)
	for i := range verts {
		verts[i] = [3]float32{
			float32(rnd.Intn(2001)-1000) / 10,
			float32(rnd.Intn(2001)-1000) / 10,
			float32(rnd.Intn(2001)-1000) / 10,
		}
	}
	faces := make([][3]int, numFaces)
	for i := range faces {
		faces[i] = [3]int{rnd.Intn(numVerts), rnd.Intn(numVerts), rnd.Intn(numVerts)}
	}

	var sb strings.Builder
	sb.WriteString("ply\nformat ascii 1.0\n")
	fmt.Fprintf(&sb, "element vertex %d\n", numVerts)
	sb.WriteString("property float x\nproperty float y\nproperty float z\n")
	fmt.Fprintf(&sb, "element face %d\n", numFaces)
	sb.WriteString("property list uchar int vertex_indices\n")
	sb.WriteString("end_header\n")
	for _, v := range verts {
		fmt.Fprintf(&sb, "%g %g %g\n", v[0], v[1], v[2])
	}
	for _, f := range faces {
		fmt.Fprintf(&sb, "3 %d %d %d\n", f[0], f[1], f[2])
	}

	r := NewReader(strings.NewReader(sb.String()))

	vertex := r.LoadElement()
	if vertex == nil {
		t.Fatalf("LoadElement(vertex) failed: %v", r.Err())
	}
	var posIdx [3]uint32
	if !vertex.FindPos(&posIdx) {
		t.Fatal("FindPos failed")
	}
	got := vertex.ExtractProperties(posIdx[:], Float)
	for i, v := range verts {
		for j := 0; j < 3; j++ {
			off := (i*3 + j) * 4
			if gotV := float32(getFloat64(got[off:off+4], Float)); gotV != v[j] {
				t.Fatalf("vertex %d component %d = %v, want %v", i, j, gotV, v[j])
			}
		}
	}
	if !r.NextElement() {
		t.Fatalf("NextElement failed: %v", r.Err())
	}

	face := r.LoadElement()
	if face == nil {
		t.Fatalf("LoadElement(face) failed: %v", r.Err())
	}
	var idxProp uint32
	if !face.FindIndices(&idxProp) {
		t.Fatal("FindIndices failed")
	}
	for i, f := range faces {
		raw := face.ExtractListPropertyAt(i, idxProp, UInt)
		if len(raw) != 12 {
			t.Fatalf("face %d: len(raw) = %d, want 12", i, len(raw))
		}
		for j := 0; j < 3; j++ {
			if got := int(leUint32(raw[j*4:])); got != f[j] {
				t.Fatalf("face %d index %d = %d, want %d", i, j, got, f[j])
			}
		}
	}
}
