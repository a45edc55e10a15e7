package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/isle/game"
	"github.com/pthm-cable/isle/systems"
	"github.com/pthm-cable/isle/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Stats     game.Stats
	TimeScale float64
	FPS       int32
	Paused    bool
	RunID     string
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	s := data.Stats
	h.renderer.DrawPanel(4, 4, 470, 134)
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Creatures: %d | Food: %d | Trees: %d | Seeking: %d",
			s.Population, s.FoodAvailable, s.Trees, s.Seeking),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Births: %s | Deaths: %s | Meals: %s | Max gen: %d",
			humanize.Comma(int64(s.Births)), humanize.Comma(int64(s.Deaths)),
			humanize.Comma(int64(s.Eats)), s.MaxGeneration),
		10, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Time: %s | Tick: %s | Speed: %.1fx | FPS: %d",
			formatSimTime(s.Elapsed), humanize.Comma(int64(s.Tick)), data.TimeScale, data.FPS),
		10, 75, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Avg size %.2f | jump %.2f | speed %.2f | energy %.0f",
			s.AvgSize, s.AvgJumpPower, s.AvgSpeed, s.AvgEnergy),
		10, 95, 14, rl.Gray,
	)

	status, color := "Running", rl.Green
	switch {
	case s.Extinct:
		status, color = "EXTINCT - reset to continue", rl.Red
	case data.Paused:
		status, color = "PAUSED", rl.Yellow
	}
	rl.DrawText(status, 10, 115, 16, color)

	if data.RunID != "" {
		rl.DrawText("run "+data.RunID, 10, int32(rl.GetScreenHeight())-45, 10, rl.DarkGray)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// formatSimTime renders seconds as m:ss.
func formatSimTime(sec float64) string {
	d := time.Duration(sec * float64(time.Second))
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// PerfPanel renders the tick phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	p.renderer.DrawPanel(x-6, y-6, 230, 20+16+14*int32(len(telemetry.Phases)+1)+12)
	y = p.renderer.DrawSectionHeader(x, y, "Tick Phases")

	rl.DrawText(fmt.Sprintf("Tick: %s (p95 %s)", stats.AvgTickDuration.Round(time.Microsecond),
		stats.P95TickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, load := range systems.Breakdown(stats, true) {
		color := rl.LightGray
		switch {
		case load.Internal:
			color = rl.Gray
		case load.Pct > 50:
			color = rl.Red
		case load.Pct > 25:
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-10s %6.0fus %5.1f%%", load.Name, load.Avg, load.Pct), x, y, 12, color)
		y += 14
	}
	rl.DrawText(fmt.Sprintf("overhead %.1f%%", systems.OverheadPct(stats)), x, y, 12, rl.Gray)
}
