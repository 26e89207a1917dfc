package papercraft

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CubeModel returns an axis aligned cube of the given edge length with its
// corner at the origin, every square split into two triangles.
func CubeModel(size float64) ModelData {
	verts := []mgl64.Vec3{
		{0, 0, 0}, // 0
		{1, 0, 0}, // 1
		{1, 1, 0}, // 2
		{0, 1, 0}, // 3
		{0, 0, 1}, // 4
		{1, 0, 1}, // 5
		{1, 1, 1}, // 6
		{0, 1, 1}, // 7
	}
	for i := range verts {
		verts[i] = verts[i].Mul(size)
	}
	// counter-clockwise seen from outside
	quads := [][4]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // front
		{1, 2, 6, 5}, // right
		{2, 3, 7, 6}, // back
		{3, 0, 4, 7}, // left
	}
	data := ModelData{Vertices: verts, Materials: map[int]string{0: "paper"}}
	for _, q := range quads {
		data.Faces = append(data.Faces,
			Face{V: [3]int{q[0], q[1], q[2]}},
			Face{V: [3]int{q[0], q[2], q[3]}},
		)
	}
	return data
}

// TetrahedronModel returns the corner tetrahedron spanned by the unit axes
// scaled to size.
func TetrahedronModel(size float64) ModelData {
	verts := []mgl64.Vec3{
		{0, 0, 0},
		{size, 0, 0},
		{0, size, 0},
		{0, 0, size},
	}
	return ModelData{
		Vertices:  verts,
		Materials: map[int]string{0: "paper"},
		Faces: []Face{
			{V: [3]int{0, 2, 1}},
			{V: [3]int{0, 1, 3}},
			{V: [3]int{0, 3, 2}},
			{V: [3]int{1, 2, 3}},
		},
	}
}

// SphereModel returns a UV sphere centred on the origin. slices is the
// number of meridians (at least 3), stacks the number of bands (at least 2).
func SphereModel(radius float64, slices, stacks int) ModelData {
	if slices < 3 {
		slices = 3
	}
	if stacks < 2 {
		stacks = 2
	}
	data := ModelData{Materials: map[int]string{0: "paper"}}
	data.Vertices = append(data.Vertices, mgl64.Vec3{0, 0, radius})
	for i := 1; i < stacks; i++ {
		phi := math.Pi * float64(i) / float64(stacks)
		for j := 0; j < slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			data.Vertices = append(data.Vertices, mgl64.Vec3{
				radius * math.Sin(phi) * math.Cos(theta),
				radius * math.Sin(phi) * math.Sin(theta),
				radius * math.Cos(phi),
			})
		}
	}
	bottom := len(data.Vertices)
	data.Vertices = append(data.Vertices, mgl64.Vec3{0, 0, -radius})

	ring := func(i, j int) int { return 1 + (i-1)*slices + j%slices }

	for j := 0; j < slices; j++ {
		data.Faces = append(data.Faces, Face{V: [3]int{0, ring(1, j), ring(1, j+1)}})
	}
	for i := 1; i < stacks-1; i++ {
		for j := 0; j < slices; j++ {
			u0, u1 := ring(i, j), ring(i, j+1)
			l0, l1 := ring(i+1, j), ring(i+1, j+1)
			data.Faces = append(data.Faces,
				Face{V: [3]int{u0, l0, l1}},
				Face{V: [3]int{u0, l1, u1}},
			)
		}
	}
	for j := 0; j < slices; j++ {
		data.Faces = append(data.Faces, Face{V: [3]int{ring(stacks-1, j), bottom, ring(stacks-1, j+1)}})
	}
	return data
}
