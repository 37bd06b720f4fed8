// Command desktop runs the planner grid in a native window.
package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/b-hayes/room-planner-sub000/internal/config"
	"github.com/b-hayes/room-planner-sub000/internal/engine"
	"github.com/b-hayes/room-planner-sub000/internal/geom"
	"github.com/b-hayes/room-planner-sub000/internal/shape"
)

const (
	screenW = 1280
	screenH = 800

	// wheelStep converts ebiten wheel ticks to browser-style pixel deltas.
	wheelStep = 100
	focusTime = 0.4
)

var (
	colBackground = color.RGBA{245, 245, 240, 255}
	colTile       = color.RGBA{220, 220, 212, 255}
	colShape      = color.RGBA{90, 110, 140, 255}
	colSelected   = color.RGBA{230, 120, 40, 255}
	colHandle     = color.RGBA{40, 160, 90, 255}
)

type Game struct {
	grid    *engine.Grid
	buttons engine.Buttons
	cursorX int
	cursorY int
	width   int
	height  int
}

func readButtons() engine.Buttons {
	var b engine.Buttons
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		b |= engine.ButtonPrimary
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		b |= engine.ButtonSecondary
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		b |= engine.ButtonMiddle
	}
	return b
}

func readModifiers() (alt, shift bool) {
	alt = ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight)
	shift = ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	return alt, shift
}

func (g *Game) dispatch(in engine.Input) {
	if err := g.grid.Dispatch(in); err != nil {
		slog.Debug("input rejected", "kind", in.Kind, "error", err)
	}
}

func (g *Game) Update() error {
	mx, my := ebiten.CursorPosition()
	buttons := readButtons()
	alt, shift := readModifiers()
	x, y := float64(mx), float64(my)

	switch {
	case g.buttons == 0 && buttons != 0:
		g.dispatch(engine.Input{Kind: engine.InputPointerDown, X: x, Y: y, Buttons: buttons, AltKey: alt, ShiftKey: shift})
	case mx != g.cursorX || my != g.cursorY || buttons != g.buttons:
		if buttons != 0 || g.buttons == 0 {
			g.dispatch(engine.Input{Kind: engine.InputPointerMove, X: x, Y: y, Buttons: buttons, AltKey: alt})
		}
	}
	if g.buttons != 0 && buttons == 0 {
		g.dispatch(engine.Input{Kind: engine.InputPointerUp, X: x, Y: y})
	}
	g.buttons = buttons
	g.cursorX, g.cursorY = mx, my

	if xoff, yoff := ebiten.Wheel(); xoff != 0 || yoff != 0 {
		g.dispatch(engine.Input{Kind: engine.InputWheel, DeltaX: -xoff * wheelStep, DeltaY: -yoff * wheelStep, AltKey: alt, ShiftKey: shift})
	}

	g.handleKeys()
	g.grid.Advance(1 / float32(ebiten.TPS()))
	return nil
}

func (g *Game) handleKeys() {
	selected := g.grid.Selected()

	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		// New shape centred in the viewport, in world units.
		scale := g.grid.Scale()
		centre := geom.Point{X: float64(g.width) / 2, Y: float64(g.height) / 2}.Add(g.grid.Scroll()).Div(scale)
		pos := shape.DefaultPosition()
		pos.X = centre.X
		pos.Y = centre.Y
		if s, err := g.grid.NewShape("", pos); err != nil {
			slog.Warn("add shape", "error", err)
		} else {
			g.grid.Select(s.ID())
		}
	}
	if selected == "" {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		if err := g.grid.Focus(selected, focusTime, nil); err != nil {
			slog.Warn("focus", "error", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDelete) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		if err := g.grid.RemoveShape(selected); err != nil {
			slog.Warn("remove shape", "error", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.grid.Select("")
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	frame := g.grid.Frame()
	vp := frame.Viewport
	scroll := geom.Point{X: vp.ScrollX, Y: vp.ScrollY}

	drawTiles(screen, vp, float32(g.width), float32(g.height))

	for _, sf := range frame.Shapes {
		clr := colShape
		width := float32(1.5)
		if sf.Selected {
			clr = colSelected
			width = 2.5
		}
		m := sf.Placement.Matrix()
		corners := [4]geom.Point{
			{X: 0, Y: 0},
			{X: sf.Width, Y: 0},
			{X: sf.Width, Y: sf.Height},
			{X: 0, Y: sf.Height},
		}
		for i := range corners {
			a := m.Apply(corners[i]).Sub(scroll)
			b := m.Apply(corners[(i+1)%4]).Sub(scroll)
			vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, clr, true)
		}
		if sf.Selected {
			h := m.Apply(geom.Point{X: sf.Width / 2, Y: 15}).Sub(scroll)
			vector.StrokeCircle(screen, float32(h.X), float32(h.Y), 8, 1.5, colHandle, true)
		}
	}

	status := fmt.Sprintf("scale %.3f  scroll %.0f,%.0f  %s", vp.Scale, vp.ScrollX, vp.ScrollY, vp.State)
	if vp.Selected != "" {
		status += "  " + vp.Selected
	}
	ebitenutil.DebugPrintAt(screen, status, 8, 8)
	ebitenutil.DebugPrintAt(screen, "N new  F focus  Del remove  Esc deselect  Alt+drag pan  wheel zoom", 8, g.height-20)
}

func drawTiles(screen *ebiten.Image, vp engine.ViewportFrame, w, h float32) {
	tile := vp.TileSize
	if tile < 4 {
		return
	}
	ox := math.Mod(vp.BackgroundX, tile)
	oy := math.Mod(vp.BackgroundY, tile)
	for x := ox; x < float64(w); x += tile {
		vector.StrokeLine(screen, float32(x), 0, float32(x), h, 1, colTile, false)
	}
	for y := oy; y < float64(h); y += tile {
		vector.StrokeLine(screen, 0, float32(y), w, float32(y), 1, colTile, false)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		err := g.grid.SetMetrics(engine.Metrics{
			ClientWidth:  float64(outsideWidth),
			ClientHeight: float64(outsideHeight),
		})
		if err != nil {
			slog.Error("set metrics", "error", err)
		}
	}
	return outsideWidth, outsideHeight
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	grid, err := engine.New(cfg.Editor.Options()...)
	if err != nil {
		slog.Error("create grid", "error", err)
		os.Exit(1)
	}
	defer grid.Close()

	grid.On(engine.EventAll, func(n engine.Notification) {
		slog.Debug("notification", "kind", n.Kind, "payload", n.Payload)
	})

	for _, p := range []shape.Position{
		{X: 300, Y: 250, Width: 300, Height: 200},
		{X: 700, Y: 400, Width: 160, Height: 240, Rotation: 30},
	} {
		if _, err := grid.NewShape("", p); err != nil {
			slog.Error("seed shape", "error", err)
			os.Exit(1)
		}
	}

	ebiten.SetWindowTitle("Room Planner")
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowResizable(true)
	if err := ebiten.RunGame(&Game{grid: grid}); err != nil {
		slog.Error("run", "error", err)
		os.Exit(1)
	}
}
