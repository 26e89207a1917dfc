package papercraft

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const plyQuad = `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
property uchar red
property uchar green
property uchar blue
end_header
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3 255 0 0
`

const plyVertexColors = `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
property uchar red
property uchar green
property uchar blue
element face 2
property list uchar int vertex_indices
end_header
0 0 0 0 0 255
1 0 0 0 0 255
0 1 0 0 0 255
1 1 0 10 20 30
3 0 1 2
3 1 3 2
`

func TestReadPLY(t *testing.T) {
	data, err := ReadPLY(strings.NewReader(plyQuad), false)
	if err != nil {
		t.Fatalf("ReadPLY() error = %v", err)
	}
	if len(data.Vertices) != 4 {
		t.Errorf("%d vertices, want 4", len(data.Vertices))
	}
	wantFaces := []Face{{V: [3]int{0, 1, 2}}, {V: [3]int{0, 2, 3}}}
	if !reflect.DeepEqual(data.Faces, wantFaces) {
		t.Errorf("faces = %+v, want %+v", data.Faces, wantFaces)
	}
	if !reflect.DeepEqual(data.Materials, map[int]string{0: "#ff0000"}) {
		t.Errorf("materials = %v", data.Materials)
	}

	reversed, err := ReadPLY(strings.NewReader(plyQuad), true)
	if err != nil {
		t.Fatalf("ReadPLY(reverse) error = %v", err)
	}
	wantFaces = []Face{{V: [3]int{3, 2, 1}}, {V: [3]int{3, 1, 0}}}
	if !reflect.DeepEqual(reversed.Faces, wantFaces) {
		t.Errorf("reversed faces = %+v, want %+v", reversed.Faces, wantFaces)
	}

	m := newTestMesh(t, data)
	if len(m.Groups()) != 1 || m.TriangleCount() != 2 {
		t.Errorf("mesh has %d groups and %d triangles", len(m.Groups()), m.TriangleCount())
	}
}

func TestReadPLYVertexColors(t *testing.T) {
	data, err := ReadPLY(strings.NewReader(plyVertexColors), false)
	if err != nil {
		t.Fatalf("ReadPLY() error = %v", err)
	}
	if len(data.Faces) != 2 {
		t.Fatalf("%d faces, want 2", len(data.Faces))
	}
	// colour of the first corner names the material
	if data.Materials[data.Faces[0].Material] != "#0000ff" || data.Materials[data.Faces[1].Material] != "#0000ff" {
		t.Errorf("materials = %v, faces = %+v", data.Materials, data.Faces)
	}
}

func TestReadPLYErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"binary", strings.Replace(plyQuad, "ascii", "binary_little_endian", 1)},
		{"negative vertex count", "ply\nformat ascii 1.0\nelement vertex -1\nend_header\n"},
		{"negative face count", strings.Replace(plyQuad, "element face 1", "element face -3", 1)},
		{"truncated vertices", plyQuad[:strings.Index(plyQuad, "1 1 0")]},
		{"truncated faces", strings.TrimSuffix(plyQuad, "4 0 1 2 3 255 0 0\n")},
		{"bad coordinate", strings.Replace(plyQuad, "1 1 0", "1 x 0", 1)},
		{"bad vertex index", strings.Replace(plyQuad, "4 0 1 2 3", "4 0 1 2 9", 1)},
		{"short face", strings.Replace(plyQuad, "4 0 1 2 3 255 0 0", "4 0 1 2 3", 1)},
		{"two corners", strings.Replace(plyQuad, "4 0 1 2 3 255 0 0", "2 0 1 255 0 0", 1)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadPLY(strings.NewReader(tc.input), false); err == nil {
				t.Error("ReadPLY() accepted bad input")
			}
		})
	}

	_, err := ReadPLY(strings.NewReader(strings.Replace(plyQuad, "4 0 1 2 3", "4 0 1 2 9", 1)), false)
	if !errors.Is(err, ErrInvalidFace) {
		t.Errorf("bad index error = %v, want ErrInvalidFace", err)
	}
}

func TestLoadPLYFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.ply")
	if err := os.WriteFile(path, []byte(plyQuad), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := LoadPLYFile(path, false)
	if err != nil {
		t.Fatalf("LoadPLYFile() error = %v", err)
	}
	if len(data.Faces) != 2 {
		t.Errorf("%d faces, want 2", len(data.Faces))
	}
	if _, err := LoadPLYFile(filepath.Join(t.TempDir(), "none.ply"), false); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}

func dxfFace(corners ...mgl64.Vec3) string {
	var sb strings.Builder
	sb.WriteString("0\n3DFACE\n8\n0\n62\n7\n")
	for i, c := range corners {
		for axis, v := range c {
			fmt.Fprintf(&sb, "%d\n%g\n", (axis+1)*10+i, v)
		}
	}
	return sb.String()
}

func TestReadDXFFaces(t *testing.T) {
	input := "0\nSECTION\n2\nENTITIES\n" +
		dxfFace(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 1, 0}, mgl64.Vec3{1, 1, 0}) +
		dxfFace(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}) +
		dxfFace(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 1}, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{0, 1, 1}) +
		"0\nENDSEC\n0\nEOF\n"

	data, err := ReadDXFFaces(strings.NewReader(input), false)
	if err != nil {
		t.Fatalf("ReadDXFFaces() error = %v", err)
	}
	if len(data.Vertices) != 8 {
		t.Errorf("%d vertices after welding, want 8", len(data.Vertices))
	}
	wantFaces := []Face{
		{V: [3]int{0, 1, 2}},
		{V: [3]int{0, 2, 3}},
		{V: [3]int{4, 5, 6}},
		{V: [3]int{4, 6, 7}},
	}
	if !reflect.DeepEqual(data.Faces, wantFaces) {
		t.Errorf("faces = %+v, want %+v", data.Faces, wantFaces)
	}

	m := newTestMesh(t, data)
	if m.EdgeCount() != 10 {
		t.Errorf("EdgeCount() = %d, want 10", m.EdgeCount())
	}

	if _, err := ReadDXFFaces(strings.NewReader("0\n3DFACE\n10\nabc\n"), false); err == nil {
		t.Error("ReadDXFFaces() accepted a bad coordinate")
	}
}
