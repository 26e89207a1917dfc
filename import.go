package papercraft

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// modelBuilder collects polygons into ModelData, fanning them into
// triangles and turning distinct colours into materials.
type modelBuilder struct {
	data      ModelData
	materials map[string]int
	weld      map[mgl64.Vec3]int
}

func newModelBuilder() *modelBuilder {
	return &modelBuilder{
		data:      ModelData{Materials: map[int]string{}},
		materials: map[string]int{},
		weld:      map[mgl64.Vec3]int{},
	}
}

func (b *modelBuilder) material(name string) int {
	if id, ok := b.materials[name]; ok {
		return id
	}
	id := len(b.materials)
	b.materials[name] = id
	b.data.Materials[id] = name
	return id
}

// vertex returns the index of p, adding it once per distinct position.
func (b *modelBuilder) vertex(p mgl64.Vec3) int {
	if i, ok := b.weld[p]; ok {
		return i
	}
	i := len(b.data.Vertices)
	b.data.Vertices = append(b.data.Vertices, p)
	b.weld[p] = i
	return i
}

func (b *modelBuilder) polygon(idx []int, material int, reverse bool) {
	if reverse {
		r := make([]int, len(idx))
		for i := range idx {
			r[i] = idx[len(idx)-1-i]
		}
		idx = r
	}
	for i := 2; i < len(idx); i++ {
		b.data.Faces = append(b.data.Faces, Face{
			V:        [3]int{idx[0], idx[i-1], idx[i]},
			Material: material,
		})
	}
}

func colorName(r, g, b uint64) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// LoadPLYFile reads an ASCII PLY model from disk.
func LoadPLYFile(fileName string, reverse bool) (ModelData, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return ModelData{}, fmt.Errorf("could not open PLY file %s: %w", fileName, err)
	}
	defer file.Close()

	data, err := ReadPLY(file, reverse)
	if err != nil {
		return ModelData{}, fmt.Errorf("error parsing PLY file %s: %w", fileName, err)
	}
	return data, nil
}

// ReadPLY parses an ASCII PLY stream. Polygons are fanned into triangles,
// vertex or face colours become materials. reverse flips the winding.
func ReadPLY(reader io.Reader, reverse bool) (ModelData, error) {
	scanner := bufio.NewScanner(reader)
	b := newModelBuilder()

	var vertexCount, faceCount int
	var hasVertexColor, hasFaceColor bool
	var currentElement string

header:
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "format":
			if len(parts) > 1 && parts[1] != "ascii" {
				return ModelData{}, fmt.Errorf("unsupported PLY format %q", parts[1])
			}
		case "element":
			if len(parts) == 3 {
				currentElement = parts[1]
				n, err := strconv.Atoi(parts[2])
				if err != nil || n < 0 {
					return ModelData{}, fmt.Errorf("bad element count %q", parts[2])
				}
				switch parts[1] {
				case "vertex":
					vertexCount = n
				case "face":
					faceCount = n
				}
			}
		case "property":
			if len(parts) > 2 && (parts[2] == "red" || parts[2] == "diffuse_red") {
				switch currentElement {
				case "vertex":
					hasVertexColor = true
				case "face":
					hasFaceColor = true
				}
			}
		case "end_header":
			break header
		}
	}

	type plyVertex struct {
		pos   mgl64.Vec3
		color string
	}
	vertices := make([]plyVertex, 0, vertexCount)
	for i := 0; i < vertexCount; i++ {
		if !scanner.Scan() {
			return ModelData{}, fmt.Errorf("unexpected end of file while reading vertices")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) < 3 || (hasVertexColor && len(parts) < 6) {
			return ModelData{}, fmt.Errorf("invalid vertex data on line %d", i)
		}
		var v plyVertex
		for k := 0; k < 3; k++ {
			f, err := strconv.ParseFloat(parts[k], 64)
			if err != nil {
				return ModelData{}, fmt.Errorf("vertex %d: %w", i, err)
			}
			v.pos[k] = f
		}
		if hasVertexColor {
			r, _ := strconv.ParseUint(parts[3], 10, 8)
			g, _ := strconv.ParseUint(parts[4], 10, 8)
			bl, _ := strconv.ParseUint(parts[5], 10, 8)
			v.color = colorName(r, g, bl)
		}
		vertices = append(vertices, v)
	}

	for i := 0; i < faceCount; i++ {
		if !scanner.Scan() {
			return ModelData{}, fmt.Errorf("unexpected end of file while reading faces")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			return ModelData{}, fmt.Errorf("empty face on line %d", i)
		}
		n, err := strconv.Atoi(parts[0])
		if err != nil || n < 3 {
			return ModelData{}, fmt.Errorf("invalid face data on line %d", i)
		}
		want := n + 1
		if hasFaceColor {
			want += 3
		}
		if len(parts) != want {
			return ModelData{}, fmt.Errorf("invalid face data on line %d", i)
		}

		idx := make([]int, n)
		for j := 0; j < n; j++ {
			vi, err := strconv.Atoi(parts[j+1])
			if err != nil || vi < 0 || vi >= len(vertices) {
				return ModelData{}, fmt.Errorf("face %d: bad vertex index %q: %w", i, parts[j+1], ErrInvalidFace)
			}
			idx[j] = b.vertex(vertices[vi].pos)
		}

		var name string
		switch {
		case hasFaceColor:
			r, _ := strconv.ParseUint(parts[n+1], 10, 8)
			g, _ := strconv.ParseUint(parts[n+2], 10, 8)
			bl, _ := strconv.ParseUint(parts[n+3], 10, 8)
			name = colorName(r, g, bl)
		case hasVertexColor:
			first, _ := strconv.Atoi(parts[1])
			name = vertices[first].color
		default:
			name = "default"
		}
		b.polygon(idx, b.material(name), reverse)
	}

	if err := scanner.Err(); err != nil {
		return ModelData{}, fmt.Errorf("error reading from PLY source: %w", err)
	}
	if len(b.data.Faces) == 0 {
		Logger().Warn("PLY model has no faces")
	}
	return b.data, nil
}

// LoadDXFFile reads the 3DFACE entities of a DXF file from disk.
func LoadDXFFile(fileName string, reverse bool) (ModelData, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return ModelData{}, fmt.Errorf("could not open DXF file %s: %w", fileName, err)
	}
	defer file.Close()

	data, err := ReadDXFFaces(file, reverse)
	if err != nil {
		return ModelData{}, fmt.Errorf("error parsing DXF file %s: %w", fileName, err)
	}
	return data, nil
}

// ReadDXFFaces reads 3DFACE entities as written by simple CAD exporters.
// Coinciding corners are welded so neighbouring faces share edges; a
// repeated fourth corner makes the face a triangle.
func ReadDXFFaces(reader io.Reader, reverse bool) (ModelData, error) {
	scanner := bufio.NewScanner(reader)
	b := newModelBuilder()
	mat := b.material("default")

	next := func() (string, string, bool) {
		if !scanner.Scan() {
			return "", "", false
		}
		code := strings.TrimSpace(scanner.Text())
		if !scanner.Scan() {
			return "", "", false
		}
		return code, strings.TrimSpace(scanner.Text()), true
	}

	code, value, ok := next()
	for ok {
		if code != "0" || value != "3DFACE" {
			code, value, ok = next()
			continue
		}
		var corners [4]mgl64.Vec3
		for {
			code, value, ok = next()
			if !ok || code == "0" {
				break
			}
			c, err := strconv.Atoi(code)
			if err != nil {
				return ModelData{}, fmt.Errorf("bad group code %q: %w", code, err)
			}
			// 10..13 X, 20..23 Y, 30..33 Z of the four corners
			axis, corner := c/10-1, c%10
			if c < 10 || c > 33 || corner > 3 {
				continue
			}
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return ModelData{}, fmt.Errorf("could not parse float value '%s': %w", value, err)
			}
			corners[corner][axis] = f
		}

		idx := []int{b.vertex(corners[0]), b.vertex(corners[1]), b.vertex(corners[2])}
		if corners[3] != corners[2] {
			idx = append(idx, b.vertex(corners[3]))
		}
		b.polygon(idx, mat, reverse)
	}

	if err := scanner.Err(); err != nil {
		return ModelData{}, fmt.Errorf("error reading from DXF source: %w", err)
	}
	return b.data, nil
}
