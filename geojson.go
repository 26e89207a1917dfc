package papercraft

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func orbPoint(v mgl64.Vec2) orb.Point { return orb.Point{v[0], v[1]} }

// LayoutFeatures describes the flat layout as GeoJSON: one polygon per
// triangle, bottom group first, then one line per drawn fold.
func (m *Mesh) LayoutFeatures() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, g := range m.Groups() {
		for _, t := range g.tris {
			tr := &m.triangles[t]
			f := geojson.NewFeature(orb.Polygon{triangleRing(tr)})
			f.Properties["triangle"] = t
			f.Properties["group"] = uint64(g.id)
			f.Properties["depth"] = g.depth
			if name, ok := m.materials[m.faces[t].Material]; ok {
				f.Properties["material"] = name
			}
			fc.Append(f)
		}
	}
	for i := range m.edges {
		ed := &m.edges[i]
		if ed.IsCut() || ed.angle < m.settings.FoldMaxFlatAngle {
			continue
		}
		t, e := ed.tri[0], ed.triEdge[0]
		tr := &m.triangles[t]
		f := geojson.NewFeature(orb.LineString{orbPoint(tr.vtxRT[e]), orbPoint(tr.vtxRT[(e+1)%3])})
		f.Properties["edge"] = i
		f.Properties["fold"] = ed.fold.String()
		f.Properties["angle"] = ed.angle
		fc.Append(f)
	}
	return fc
}

// WriteGeoJSON encodes LayoutFeatures to w.
func (m *Mesh) WriteGeoJSON(w io.Writer) error {
	fc := m.LayoutFeatures()
	raw, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}
	Logger().Info("layout written as geojson", "features", len(fc.Features))
	return nil
}
