package papercraft

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/entity"
)

// DXF layer names used by SaveDXF.
const (
	LayerCut      = "CUT"
	LayerMountain = "MOUNTAIN"
	LayerValley   = "VALLEY"
	LayerFlap     = "FLAP"
)

// SaveDXF writes the flat layout as 2D line work: cut lines, mountain and
// valley folds and glue tabs, each on its own layer.
func (m *Mesh) SaveDXF(fileName string) error {
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0

	for _, l := range []struct {
		name string
		cl   color.ColorNumber
	}{
		{LayerCut, color.Red},
		{LayerMountain, color.Blue},
		{LayerValley, color.Green},
		{LayerFlap, color.Cyan},
	} {
		if _, err := d.AddLayer(l.name, l.cl, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("add layer %s: %w", l.name, err)
		}
	}

	var cuts, folds, flaps int
	for _, g := range m.Groups() {
		for _, t := range g.tris {
			tr := &m.triangles[t]
			for e := 0; e < 3; e++ {
				ed := m.edgeOf(t, e)
				a, b := tr.vtxRT[e], tr.vtxRT[(e+1)%3]
				switch {
				case ed.IsCut():
					if err := dxfLine(d, LayerCut, a, b); err != nil {
						return err
					}
					cuts++
				case ed.tri[0] == t && ed.angle >= m.settings.FoldMaxFlatAngle:
					layer := LayerValley
					if ed.fold == FoldMountain {
						layer = LayerMountain
					}
					if err := dxfLine(d, layer, a, b); err != nil {
						return err
					}
					folds++
				}
				if m.HasFlap(t, e) {
					if err := dxfPolyline(d, LayerFlap, m.FlapOutline(t, e)); err != nil {
						return err
					}
					flaps++
				}
			}
		}
	}

	if err := d.SaveAs(fileName); err != nil {
		return fmt.Errorf("could not save DXF file %s: %w", fileName, err)
	}
	Logger().Info("layout exported", "file", fileName, "cuts", cuts, "folds", folds, "flaps", flaps)
	return nil
}

func dxfLine(d *drawing.Drawing, layer string, a, b mgl64.Vec2) error {
	if err := d.ChangeLayer(layer); err != nil {
		return fmt.Errorf("change layer %s: %w", layer, err)
	}
	if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
		return fmt.Errorf("add line: %w", err)
	}
	return nil
}

func dxfPolyline(d *drawing.Drawing, layer string, pts []mgl64.Vec2) error {
	if err := d.ChangeLayer(layer); err != nil {
		return fmt.Errorf("change layer %s: %w", layer, err)
	}
	lwp := entity.NewLwPolyline(len(pts))
	for i, p := range pts {
		lwp.Vertices[i] = []float64{p[0], p[1]}
	}
	d.AddEntity(lwp)
	return nil
}
