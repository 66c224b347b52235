package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/jheller/magsim/internal/dipole"
	"github.com/jheller/magsim/internal/geom"
)

var (
	colBg      = rl.NewColor(10, 10, 10, 255)
	colGrid    = rl.NewColor(30, 30, 30, 255)
	colMagnet  = rl.NewColor(200, 60, 60, 255)
	colFerrite = rl.NewColor(80, 140, 255, 255)
	colArrow   = rl.NewColor(220, 220, 220, 255)
	colText    = rl.NewColor(140, 140, 140, 255)
)

const gridSpacing = 25

// Display is the windowed scene view. Elements are attached before Run;
// the window opens when Run is called and closes when the user quits.
type Display struct {
	width  int
	height int
	title  string
	mgr    *dipole.Manager
	paused bool
}

// NewDisplay validates the window dimensions and prepares a display with an
// empty scene.
func NewDisplay(width, height int, title string) (*Display, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("magsim: display dimensions must be positive, got %dx%d", width, height)
	}
	if title == "" {
		title = "Magnetism Simulation"
	}
	return &Display{
		width:  width,
		height: height,
		title:  title,
		mgr:    dipole.NewManager(),
	}, nil
}

// Attach adds an element to the scene. Attaching nil is a no-op and returns
// dipole.NoHandle.
func (d *Display) Attach(e dipole.Element) dipole.Handle {
	return d.mgr.Attach(e)
}

// Manager exposes the underlying scene, for callers that configure physics
// parameters before Run.
func (d *Display) Manager() *dipole.Manager {
	return d.mgr
}

// Run opens the window and blocks until it is closed, advancing the scene by
// dt once per frame at 60 FPS.
func (d *Display) Run(dt float64) {
	rl.InitWindow(int32(d.width), int32(d.height), d.title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	t := 0.0
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeySpace) {
			d.paused = !d.paused
		}

		if !d.paused {
			d.mgr.Tick(dt)
			t += dt
		}

		rl.BeginDrawing()
		rl.ClearBackground(colBg)
		d.drawGrid()
		d.drawElements()
		d.drawStatus(t)
		rl.EndDrawing()
	}
}

func (d *Display) drawGrid() {
	for x := int32(0); x < int32(d.width); x += gridSpacing {
		rl.DrawLine(x, 0, x, int32(d.height), colGrid)
	}
	for y := int32(0); y < int32(d.height); y += gridSpacing {
		rl.DrawLine(0, y, int32(d.width), y, colGrid)
	}
}

func (d *Display) drawElements() {
	for _, e := range d.mgr.Elements() {
		pos := e.Position()
		center := rl.NewVector2(float32(pos.X), float32(pos.Y))

		switch e.(type) {
		case *dipole.Ferrite:
			rl.DrawCircleLinesV(center, 10, colFerrite)
		default:
			rl.DrawCircleV(center, 8, colMagnet)
		}

		d.drawMoment(pos, e.MomentAngle())
	}
}

// drawMoment renders the dipole moment as an arrow. Screen y grows downward,
// so the mathematical angle is mirrored.
func (d *Display) drawMoment(pos geom.Vec2, angle float64) {
	const length = 22.0
	dir := geom.V(math.Cos(angle), -math.Sin(angle))
	tip := pos.Add(dir.Scale(length))

	start := rl.NewVector2(float32(pos.X), float32(pos.Y))
	end := rl.NewVector2(float32(tip.X), float32(tip.Y))
	rl.DrawLineEx(start, end, 2, colArrow)

	for _, side := range []float64{math.Pi * 3 / 4, -math.Pi * 3 / 4} {
		h := tip.Add(geom.V(math.Cos(angle+side), -math.Sin(angle+side)).Scale(7))
		rl.DrawLineEx(end, rl.NewVector2(float32(h.X), float32(h.Y)), 2, colArrow)
	}
}

func (d *Display) drawStatus(t float64) {
	status := fmt.Sprintf("t=%.2fs  %d elements", t, d.mgr.Len())
	if d.paused {
		status += "  [PAUSED]"
	}
	rl.DrawText(status, 10, int32(d.height)-24, 16, colText)
}
