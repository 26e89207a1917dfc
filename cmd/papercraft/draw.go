package main

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/smasonuk/papercraft"
)

var (
	whiteImage = ebiten.NewImage(3, 3)
	whiteSub   *ebiten.Image

	paperColor    = color.RGBA{R: 235, G: 230, B: 215, A: 255}
	selectedColor = color.RGBA{R: 250, G: 215, B: 160, A: 255}
	cutColor      = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	mountainColor = color.RGBA{R: 60, G: 80, B: 220, A: 255}
	valleyColor   = color.RGBA{R: 40, G: 160, B: 60, A: 255}
	flapColor     = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	joinColor     = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	breakColor    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	flapHighlight = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	rotateColor   = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	bandColor     = color.RGBA{R: 163, G: 210, B: 255, A: 160}
)

func init() {
	whiteImage.Fill(color.White)
	whiteSub = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// tint paints path vertices in clr and points them at the white texel.
func tint(vertices []ebiten.Vertex, clr color.RGBA) {
	r, g, b, a := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255, float32(clr.A)/255
	for i := range vertices {
		vertices[i].SrcX, vertices[i].SrcY = 1, 1
		vertices[i].ColorR, vertices[i].ColorG, vertices[i].ColorB, vertices[i].ColorA = r, g, b, a
	}
}

func polygonPath(xp, yp []float32, closed bool) *vector.Path {
	var path vector.Path
	path.MoveTo(xp[0], yp[0])
	for i := 1; i < len(xp); i++ {
		path.LineTo(xp[i], yp[i])
	}
	if closed {
		path.Close()
	}
	return &path
}

// fillPolygon fills the closed outline through the given points.
func fillPolygon(screen *ebiten.Image, xp, yp []float32, clr color.RGBA) {
	if len(xp) < 3 {
		return
	}
	vertices, indices := polygonPath(xp, yp, true).AppendVerticesAndIndicesForFilling(nil, nil)
	tint(vertices, clr)
	screen.DrawTriangles(vertices, indices, whiteSub, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// drawPolyline strokes an open path through the given points.
func drawPolyline(screen *ebiten.Image, xp, yp []float32, strokeWidth float32, clr color.RGBA) {
	if len(xp) < 2 {
		return
	}
	vertices, indices := polygonPath(xp, yp, false).AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{Width: strokeWidth})
	tint(vertices, clr)
	screen.DrawTriangles(vertices, indices, whiteSub, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// view maps layout coordinates (Y up) onto the screen (Y down).
type view struct {
	scale  float64
	offset mgl64.Vec2
}

func (v view) toScreen(p mgl64.Vec2) (float32, float32) {
	return float32(p[0]*v.scale + v.offset[0]), float32(-p[1]*v.scale + v.offset[1])
}

func (v view) toLayout(x, y int) mgl64.Vec2 {
	return mgl64.Vec2{
		(float64(x) - v.offset[0]) / v.scale,
		-(float64(y) - v.offset[1]) / v.scale,
	}
}

// fit centres the whole layout on a w by h screen.
func (v *view) fit(m *papercraft.Mesh, w, h int) {
	box := papercraft.EmptyAABBox()
	for _, g := range m.Groups() {
		b := g.AABBox()
		box = box.Extend(b.TopLeft()).Extend(b.RightDown())
	}
	if box.IsEmpty() || box.Width() == 0 || box.Height() == 0 {
		v.scale, v.offset = 1, mgl64.Vec2{float64(w) / 2, float64(h) / 2}
		return
	}
	v.scale = 0.9 * min(float64(w)/box.Width(), float64(h)/box.Height())
	cx, cy := (box.Left()+box.Right())/2, (box.Top()+box.Bottom())/2
	v.offset = mgl64.Vec2{float64(w)/2 - cx*v.scale, float64(h)/2 + cy*v.scale}
}

// placement is the preview transform of a group while it is dragged.
type placement struct {
	move   mgl64.Vec2
	rotate float64
	origin mgl64.Vec2
}

func (p placement) apply(v mgl64.Vec2) mgl64.Vec2 {
	if p.rotate != 0 {
		v = p.origin.Add(papercraft.Rotation(p.rotate).Mul2x1(v.Sub(p.origin)))
	}
	return v.Add(p.move)
}

func (g *Game) drawLayout(screen *ebiten.Image) {
	m := g.mesh
	selected := map[papercraft.GroupID]bool{}
	for _, id := range g.session.Selection() {
		selected[id] = true
	}
	move, rotate := g.session.Preview()

	for _, grp := range m.Groups() {
		var pl placement
		if selected[grp.ID()] && g.session.Mode() == papercraft.ModeSelect {
			pl.move = move
		}
		if g.grabbed == grp.ID() && g.session.Mode() == papercraft.ModeRotate {
			pl.rotate, pl.origin = rotate, grp.Position()
		}

		fill := paperColor
		if selected[grp.ID()] {
			fill = selectedColor
		}
		for _, t := range grp.Triangles() {
			tr := m.Triangle(t)
			var xp, yp [3]float32
			for i := 0; i < 3; i++ {
				xp[i], yp[i] = g.view.toScreen(pl.apply(tr.Vertex(i)))
			}
			fillPolygon(screen, xp[:], yp[:], fill)
		}
		for _, t := range grp.Triangles() {
			g.drawTriangleEdges(screen, t, pl)
		}
	}

	g.drawHighlight(screen)

	if band, ok := g.session.Band(); ok {
		x0, y0 := g.view.toScreen(band.TopLeft())
		x1, y1 := g.view.toScreen(band.RightDown())
		fillPolygon(screen, []float32{x0, x1, x1, x0}, []float32{y0, y0, y1, y1}, bandColor)
	}
}

func (g *Game) drawTriangleEdges(screen *ebiten.Image, t int, pl placement) {
	m := g.mesh
	tr := m.Triangle(t)
	flat := m.Settings().FoldMaxFlatAngle
	for e := 0; e < 3; e++ {
		ed := m.TriangleEdge(t, e)
		x0, y0 := g.view.toScreen(pl.apply(tr.Vertex(e)))
		x1, y1 := g.view.toScreen(pl.apply(tr.Vertex((e + 1) % 3)))
		switch {
		case ed.IsCut():
			vector.StrokeLine(screen, x0, y0, x1, y1, 1.5, cutColor, true)
		case ed.Angle() >= flat && ed.FoldType() == papercraft.FoldMountain:
			vector.StrokeLine(screen, x0, y0, x1, y1, 1, mountainColor, true)
		case ed.Angle() >= flat:
			vector.StrokeLine(screen, x0, y0, x1, y1, 1, valleyColor, true)
		}
		if m.HasFlap(t, e) {
			outline := m.FlapOutline(t, e)
			xp, yp := make([]float32, len(outline)), make([]float32, len(outline))
			for i, p := range outline {
				xp[i], yp[i] = g.view.toScreen(pl.apply(p))
			}
			fillPolygon(screen, xp, yp, flapColor)
			drawPolyline(screen, xp, yp, 1, cutColor)
		}
	}
}

func (g *Game) drawHighlight(screen *ebiten.Image) {
	h := g.session.Highlight()
	var clr color.RGBA
	switch h.Kind {
	case papercraft.HighlightJoin:
		clr = joinColor
	case papercraft.HighlightBreak:
		clr = breakColor
	case papercraft.HighlightFlap:
		clr = flapHighlight
	case papercraft.HighlightRotate:
		clr = rotateColor
	default:
		return
	}

	m := g.mesh
	mid := func(t, e int) (float32, float32, float32, float32, mgl64.Vec2) {
		tr := m.Triangle(t)
		a, b := tr.Vertex(e), tr.Vertex((e+1)%3)
		x0, y0 := g.view.toScreen(a)
		x1, y1 := g.view.toScreen(b)
		return x0, y0, x1, y1, a.Add(b).Mul(0.5)
	}

	x0, y0, x1, y1, m1 := mid(h.Triangle, h.Edge)
	vector.StrokeLine(screen, x0, y0, x1, y1, 3, clr, true)
	if h.OtherTriangle < 0 {
		return
	}
	x0, y0, x1, y1, m2 := mid(h.OtherTriangle, h.OtherEdge)
	vector.StrokeLine(screen, x0, y0, x1, y1, 3, clr, true)
	ax, ay := g.view.toScreen(m1)
	bx, by := g.view.toScreen(m2)
	vector.StrokeLine(screen, ax, ay, bx, by, 1, clr, true)
}
