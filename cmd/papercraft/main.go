package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/smasonuk/papercraft"
)

const (
	screenWidth  = 1024
	screenHeight = 768
)

type Game struct {
	mesh    *papercraft.Mesh
	session *papercraft.EditSession
	view    view

	layoutFile  string
	dxfFile     string
	geojsonFile string
	grabbed     papercraft.GroupID
	status      string
}

func NewGame(m *papercraft.Mesh, layoutFile, dxfFile, geojsonFile string) *Game {
	g := &Game{
		mesh:        m,
		session:     papercraft.NewEditSession(m),
		layoutFile:  layoutFile,
		dxfFile:     dxfFile,
		geojsonFile: geojsonFile,
	}
	g.view.fit(m, screenWidth, screenHeight)
	return g
}

func (g *Game) Update() error {
	modes := map[ebiten.Key]papercraft.Mode{
		ebiten.Key1: papercraft.ModeSelect,
		ebiten.Key2: papercraft.ModeSnap,
		ebiten.Key3: papercraft.ModeFlaps,
		ebiten.Key4: papercraft.ModeRotate,
	}
	for k, mode := range modes {
		if inpututil.IsKeyJustPressed(k) {
			g.session.SetMode(mode)
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyZ):
		g.session.Undo()
	case inpututil.IsKeyJustPressed(ebiten.KeyY):
		g.session.Redo()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.status = g.saveLayout()
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		if err := g.mesh.SaveDXF(g.dxfFile); err != nil {
			g.status = err.Error()
		} else {
			g.status = "exported " + g.dxfFile
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		g.status = g.saveGeoJSON()
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		g.view.fit(g.mesh, screenWidth, screenHeight)
	}

	x, y := ebiten.CursorPosition()
	p := g.view.toLayout(x, y)

	if _, dy := ebiten.Wheel(); dy != 0 {
		f := 1.1
		if dy < 0 {
			f = 1 / f
		}
		g.view.offset[0] = float64(x) - (float64(x)-g.view.offset[0])*f
		g.view.offset[1] = float64(y) - (float64(y)-g.view.offset[1])*f
		g.view.scale *= f
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		extend := ebiten.IsKeyPressed(ebiten.KeyShift)
		g.session.Press(p, extend)
		g.grabbed = 0
		if t, _, ok := g.mesh.StuffUnderCursor(p); ok {
			g.grabbed = g.mesh.GroupOf(t).ID()
		}
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		if g.session.Mode() == papercraft.ModeSnap {
			g.session.Click(p)
		}
		g.session.Release(p)
		g.grabbed = 0
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.session.Drag(p)
	default:
		g.session.Hover(p)
	}
	return nil
}

func (g *Game) saveLayout() string {
	f, err := os.Create(g.layoutFile)
	if err != nil {
		return err.Error()
	}
	defer f.Close()
	if err := g.mesh.WriteLayout(f); err != nil {
		return err.Error()
	}
	return "saved " + g.layoutFile
}

func (g *Game) saveGeoJSON() string {
	f, err := os.Create(g.geojsonFile)
	if err != nil {
		return err.Error()
	}
	defer f.Close()
	if err := g.mesh.WriteGeoJSON(f); err != nil {
		return err.Error()
	}
	return "exported " + g.geojsonFile
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 90, G: 90, B: 100, A: 255})
	g.drawLayout(screen)
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"mode: %s  groups: %d  undo: %d\n1-4 mode  Z/Y undo/redo  S save  E dxf  G geojson  F fit\n%s",
		g.session.Mode(), len(g.mesh.Groups()), g.mesh.History().Len(), g.status))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func loadModel(path, shape string) (papercraft.ModelData, error) {
	if path == "" {
		switch shape {
		case "cube":
			return papercraft.CubeModel(10), nil
		case "tetra":
			return papercraft.TetrahedronModel(10), nil
		case "sphere":
			return papercraft.SphereModel(10, 12, 6), nil
		}
		return papercraft.ModelData{}, fmt.Errorf("unknown shape %q", shape)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ply":
		return papercraft.LoadPLYFile(path, false)
	case ".dxf":
		return papercraft.LoadDXFFile(path, false)
	}
	return papercraft.ModelData{}, fmt.Errorf("unsupported model format %s", path)
}

func main() {
	modelPath := flag.String("model", "", "PLY or DXF model to unfold")
	shape := flag.String("shape", "cube", "built-in model when -model is empty: cube, tetra, sphere")
	settingsPath := flag.String("settings", "", "YAML settings file")
	layoutFile := flag.String("layout", "layout.json", "layout file loaded at start if present and written with S")
	dxfFile := flag.String("dxf", "layout.dxf", "DXF file written with E")
	geojsonFile := flag.String("geojson", "layout.geojson", "GeoJSON file written with G")
	debug := flag.Bool("debug", false, "log edits to stderr")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	papercraft.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	settings := papercraft.DefaultSettings()
	if *settingsPath != "" {
		s, err := papercraft.LoadSettings(*settingsPath)
		if err != nil {
			log.Fatalf("Error loading settings %s: %v", *settingsPath, err)
		}
		settings = s
	}

	data, err := loadModel(*modelPath, *shape)
	if err != nil {
		log.Fatalf("Error loading model: %v", err)
	}
	m, err := papercraft.NewMesh(data, papercraft.WithSettings(settings))
	if err != nil {
		log.Fatalf("Error building mesh: %v", err)
	}

	if f, err := os.Open(*layoutFile); err == nil {
		err = m.ReadLayout(f)
		f.Close()
		if err != nil {
			log.Printf("Ignoring layout %s: %v", *layoutFile, err)
		}
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("papercraft")
	if err := ebiten.RunGame(NewGame(m, *layoutFile, *dxfFile, *geojsonFile)); err != nil {
		log.Fatal(err)
	}
}
