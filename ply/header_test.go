package ply

import (
	"strings"
	"testing"

	"github.com/gopherply/ply/ply/internal/errors"
)

const cubeHeader = `ply
format ascii 1.0
comment exported by a test fixture
obj_info units mm
element vertex 4
property float x
property float y
property float z
element face 2
property list uchar int vertex_indices
end_header
`

func TestParseHeaderASCII(t *testing.T) {
	schema := parseHeader(newByteSource(strings.NewReader(cubeHeader)))

	if schema.Encoding != ASCII {
		t.Fatalf("Encoding = %v, want ASCII", schema.Encoding)
	}
	if got := schema.Comments(); len(got) != 1 || got[0] != "exported by a test fixture" {
		t.Fatalf("Comments() = %v", got)
	}
	if got := schema.ObjInfo(); len(got) != 1 || got[0] != "units mm" {
		t.Fatalf("ObjInfo() = %v", got)
	}
	if len(schema.Elements) != 2 {
		t.Fatalf("len(Elements) = %d, want 2", len(schema.Elements))
	}

	vertex := &schema.Elements[0]
	if vertex.Name != "vertex" || vertex.Count != 4 || len(vertex.Properties) != 3 {
		t.Fatalf("vertex element = %+v", vertex)
	}
	if got, want := vertex.RowStride(), 12; got != want {
		t.Fatalf("vertex.RowStride() = %d, want %d", got, want)
	}

	face := &schema.Elements[1]
	if face.Name != "face" || face.Count != 2 || !face.HasLists() {
		t.Fatalf("face element = %+v", face)
	}
	if got, want := face.Properties[0].Name, "vertex_indices"; got != want {
		t.Fatalf("face property name = %q, want %q", got, want)
	}
	if face.Properties[0].Type != Int || face.Properties[0].CountType != UChar {
		t.Fatalf("face property types = %+v", face.Properties[0])
	}
}

func parseHeaderErr(t *testing.T, text string) errors.Kind {
	t.Helper()
	var err error
	func() {
		defer errors.Recover(&err)
		parseHeader(newByteSource(strings.NewReader(text)))
	}()
	if err == nil {
		t.Fatal("parseHeader did not fail")
	}
	return errors.KindOf(err)
}

func TestParseHeaderErrors(t *testing.T) {
	vectors := []struct {
		name string
		text string
		want errors.Kind
	}{
		{
			name: "bad magic",
			text: "nope\nformat ascii 1.0\nend_header\n",
			want: errors.MalformedHeader,
		},
		{
			name: "unknown format",
			text: "ply\nformat xml 1.0\nend_header\n",
			want: errors.MalformedHeader,
		},
		{
			name: "bad version",
			text: "ply\nformat ascii 2.0\nend_header\n",
			want: errors.UnsupportedVersion,
		},
		{
			name: "duplicate element",
			text: "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nelement vertex 1\nproperty float x\nend_header\n",
			want: errors.MalformedHeader,
		},
		{
			name: "property outside element",
			text: "ply\nformat ascii 1.0\nproperty float x\nend_header\n",
			want: errors.MalformedHeader,
		},
		{
			name: "unknown property type",
			text: "ply\nformat ascii 1.0\nelement vertex 1\nproperty quux x\nend_header\n",
			want: errors.MalformedHeader,
		},
		{
			name: "unrecognized line",
			text: "ply\nformat ascii 1.0\nbogus\nend_header\n",
			want: errors.MalformedHeader,
		},
	}
	for _, v := range vectors {
		t.Run(v.name, func(t *testing.T) {
			if got := parseHeaderErr(t, v.text); got != v.want {
				t.Fatalf("KindOf(err) = %v, want %v", got, v.want)
			}
		})
	}
}

func TestParseHeaderBlankLinesTolerated(t *testing.T) {
	text := "ply\n\nformat ascii 1.0\n\nelement vertex 1\nproperty float x\n\nend_header\n"
	schema := parseHeader(newByteSource(strings.NewReader(text)))
	if len(schema.Elements) != 1 {
		t.Fatalf("len(Elements) = %d, want 1", len(schema.Elements))
	}
}

func TestParseHeaderZeroPropertyElement(t *testing.T) {
	text := "ply\nformat ascii 1.0\nelement marker 5\nend_header\n"
	schema := parseHeader(newByteSource(strings.NewReader(text)))
	el := &schema.Elements[0]
	if el.RowStride() != 0 || el.HasLists() {
		t.Fatalf("zero-property element = %+v", el)
	}
}
