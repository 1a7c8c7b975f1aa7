package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Grenadier-Sense/internal/tactical"
)

const (
	screenW = 1280
	screenH = 720
	logRows = 14
)

var (
	colBackground = color.RGBA{R: 24, G: 26, B: 28, A: 255}
	colObstacle   = color.RGBA{R: 90, G: 90, B: 96, A: 255}
	colCoverFree  = color.RGBA{R: 70, G: 120, B: 80, A: 255}
	colCoverHeld  = color.RGBA{R: 140, G: 190, B: 100, A: 255}
	colAgent      = color.RGBA{R: 80, G: 140, B: 220, A: 255}
	colTarget     = color.RGBA{R: 210, G: 70, B: 60, A: 255}
	colTargetDead = color.RGBA{R: 110, G: 60, B: 55, A: 255}
	colMemory     = color.RGBA{R: 220, G: 180, B: 60, A: 160}
	colPanel      = color.RGBA{R: 0, G: 0, B: 0, A: 180}
	colText       = color.RGBA{R: 220, G: 220, B: 220, A: 255}
)

// viewer steps a DecisionSim in real time and renders agents, the scripted
// hostile, cover claims and the decision log tail.
type viewer struct {
	sim      *tactical.DecisionSim
	face     text.Face
	paused   bool
	seed     int64
	prevKeys map[ebiten.Key]bool
}

func newViewer(seed int64) *viewer {
	return &viewer{
		sim:      buildSim(seed),
		face:     text.NewGoXFace(basicfont.Face7x13),
		seed:     seed,
		prevKeys: make(map[ebiten.Key]bool),
	}
}

// buildSim assembles the demo arena: two wall segments forming a choke, a
// flanking block, cover points behind each, three agents and a hostile.
func buildSim(seed int64) *tactical.DecisionSim {
	ds := tactical.NewDecisionSim(
		tactical.WithArenaSize(screenW, screenH),
		tactical.WithSeed(seed),
		tactical.WithVerbose(true),
		tactical.WithObstacle(560, 120, 30, 180),
		tactical.WithObstacle(560, 420, 30, 180),
		tactical.WithObstacle(880, 280, 160, 30),
		tactical.WithCoverPoint(530, 200),
		tactical.WithCoverPoint(530, 500),
		tactical.WithCoverPoint(850, 330),
		tactical.WithCoverPoint(620, 360),
		tactical.WithTarget(1050, 360),
		tactical.WithAgentAt(0, 120, 220),
		tactical.WithAgentAt(1, 120, 360),
		tactical.WithAgentAt(2, 120, 500),
	)
	ds.ShotsKill = true
	return ds
}

func (v *viewer) keyPressed(k ebiten.Key) bool {
	cur := ebiten.IsKeyPressed(k)
	was := v.prevKeys[k]
	v.prevKeys[k] = cur
	return cur && !was
}

func (v *viewer) Update() error {
	if v.keyPressed(ebiten.KeySpace) {
		v.paused = !v.paused
	}
	step := v.keyPressed(ebiten.KeyN)
	if v.keyPressed(ebiten.KeyR) {
		v.seed++
		v.sim = buildSim(v.seed)
	}

	if v.paused && !step {
		return nil
	}

	// The hostile fires every 1.5 seconds and drifts every 2.
	if v.sim.TargetAlive {
		if v.sim.Tick%90 == 0 {
			v.sim.TargetShoots()
		}
		if v.sim.Tick%120 == 0 {
			v.sim.WanderTarget(25)
		}
	}
	v.sim.Step()
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)

	for _, o := range v.sim.Obstacles {
		vector.FillRect(screen, float32(o.X), float32(o.Y), float32(o.W), float32(o.H), colObstacle, false)
	}

	for i, p := range v.sim.Arena.Points() {
		c := colCoverFree
		if v.sim.Arena.ClaimedBy(i) >= 0 {
			c = colCoverHeld
		}
		vector.StrokeCircle(screen, float32(p.X), float32(p.Y), 8, 1.5, c, false)
	}

	tc := colTarget
	if !v.sim.TargetAlive {
		tc = colTargetDead
	}
	vector.FillCircle(screen, float32(v.sim.TargetPos.X), float32(v.sim.TargetPos.Y), 7, tc, false)

	for _, ag := range v.sim.Agents {
		vector.FillCircle(screen, float32(ag.Pos.X), float32(ag.Pos.Y), 6, colAgent, false)

		// Dashed-out belief marker: where this agent thinks the hostile is.
		mem := ag.Memory()
		if mem.Actionable() {
			vector.StrokeLine(screen,
				float32(ag.Pos.X), float32(ag.Pos.Y),
				float32(mem.LastKnown.X), float32(mem.LastKnown.Y),
				1, colMemory, false)
			vector.StrokeCircle(screen, float32(mem.LastKnown.X), float32(mem.LastKnown.Y), 5, 1, colMemory, false)
		}

		label := fmt.Sprintf("%s %s g=%d", ag.Label, agentActionLabel(v.sim, ag), ag.Grenades)
		ebitenutil.DebugPrintAt(screen, label, int(ag.Pos.X)+10, int(ag.Pos.Y)-8)
	}

	v.drawLogPanel(screen)

	status := fmt.Sprintf("tick=%d  space=pause n=step r=reset", v.sim.Tick)
	if v.paused {
		status += "  [paused]"
	}
	ebitenutil.DebugPrintAt(screen, status, 8, 4)
}

func agentActionLabel(ds *tactical.DecisionSim, ag *tactical.Agent) string {
	act := ds.LastActions[ag.ID]
	if act == nil {
		return "idle"
	}
	return act.Name
}

// drawLogPanel renders the tail of the decision log in the bottom-left corner
// using the fixed-width face so columns line up.
func (v *viewer) drawLogPanel(screen *ebiten.Image) {
	entries := v.sim.Log.Tail(logRows)
	if len(entries) == 0 {
		return
	}
	const lineH = 14
	const padX, padY = 6, 4
	panelH := float32(len(entries)*lineH + padY*2)
	panelY := float32(screenH) - panelH
	vector.FillRect(screen, 0, panelY, 560, panelH, colPanel, false)

	for i, e := range entries {
		op := &text.DrawOptions{}
		op.GeoM.Translate(padX, float64(panelY)+float64(padY+i*lineH))
		op.ColorScale.ScaleWithColor(colText)
		text.Draw(screen, e.String(), v.face, op)
	}
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func main() {
	ebiten.SetWindowTitle("Grenadier Sense")
	ebiten.SetWindowSize(screenW, screenH)
	if err := ebiten.RunGame(newViewer(1)); err != nil {
		log.Fatal(err)
	}
}
