package ui

import (
	"fmt"
	"log/slog"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/isle/game"
)

// Controls is the world surface the control panel drives. *game.World
// satisfies it.
type Controls interface {
	Reset(creatureCount, treeCount int, islandRadius float32) error
	SetTimeScale(m float64)
	TimeScale() float64
	TogglePause() bool
	Paused() bool
	SpawnCreature(x, z float32) game.EntityRef
	SpawnFood(x, z, height float32) game.EntityRef
	SetShowStateIcons(show bool)
	ShowStateIcons() bool
}

// ControlPanel renders the raygui control panel: reset parameters, time
// scale, pause, spawning and the overlay toggles.
type ControlPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool

	// Parameters applied on the next reset
	creatures float32
	trees     float32
	radius    float32

	lastErr string
}

// NewControlPanel creates a control panel seeded with the current reset
// parameters.
func NewControlPanel(x, y, width int32, creatures, trees int, radius float32) *ControlPanel {
	return &ControlPanel{
		renderer:  NewRenderer(),
		x:         x,
		y:         y,
		width:     width,
		visible:   true,
		creatures: float32(creatures),
		trees:     float32(trees),
		radius:    radius,
	}
}

// Toggle switches panel visibility.
func (c *ControlPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlPanel) IsVisible() bool {
	return c.visible
}

// Contains reports whether a screen point is over the panel, so clicks
// there are not treated as world picks.
func (c *ControlPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x <= float32(c.x+c.width) &&
		y >= float32(c.y) && y <= float32(c.y+c.height())
}

func (c *ControlPanel) height() int32 {
	return 420
}

// Draw renders the panel and applies any control changes to ctrl.
// (targetX, targetZ) is where spawn buttons place new entities.
func (c *ControlPanel) Draw(ctrl Controls, overlays *OverlayRegistry, targetX, targetZ float32) {
	if !c.visible {
		return
	}

	r := c.renderer
	pad := r.Theme.Padding
	c.renderer.DrawPanel(c.x, c.y, c.width, c.height())

	x := float32(c.x + pad)
	y := float32(c.y + pad)
	w := float32(c.width - pad*2)
	sliderX := x + 70
	sliderW := w - 110

	rl.DrawText("Island", int32(x), int32(y), 16, rl.White)
	y += 24

	c.creatures = gui.SliderBar(rl.Rectangle{X: sliderX, Y: y, Width: sliderW, Height: 16},
		"Creatures", fmt.Sprintf("%.0f", c.creatures), c.creatures, 0, 200)
	y += 22
	c.trees = gui.SliderBar(rl.Rectangle{X: sliderX, Y: y, Width: sliderW, Height: 16},
		"Trees", fmt.Sprintf("%.0f", c.trees), c.trees, 0, 40)
	y += 22
	c.radius = gui.SliderBar(rl.Rectangle{X: sliderX, Y: y, Width: sliderW, Height: 16},
		"Radius", fmt.Sprintf("%.0f", c.radius), c.radius, 10, 150)
	y += 26

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 26}, "Reset Island") {
		c.lastErr = ""
		if err := ctrl.Reset(int(c.creatures+0.5), int(c.trees+0.5), c.radius); err != nil {
			c.lastErr = err.Error()
			slog.Warn("reset rejected", "error", err)
		}
	}
	y += 32
	if c.lastErr != "" {
		rl.DrawText(c.lastErr, int32(x), int32(y), 10, rl.Red)
		y += 14
	}

	rl.DrawText("Time", int32(x), int32(y), 16, rl.White)
	y += 24
	scale := gui.SliderBar(rl.Rectangle{X: sliderX, Y: y, Width: sliderW, Height: 16},
		"Speed", fmt.Sprintf("%.1fx", ctrl.TimeScale()), float32(ctrl.TimeScale()), 0.1, 10)
	if float64(scale) != ctrl.TimeScale() {
		ctrl.SetTimeScale(float64(scale))
	}
	y += 24

	pauseText := "Pause"
	if ctrl.Paused() {
		pauseText = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 26}, pauseText) {
		ctrl.TogglePause()
	}
	y += 36

	rl.DrawText("Spawn at target", int32(x), int32(y), 16, rl.White)
	y += 24
	half := (w - 6) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 26}, "Creature") {
		ctrl.SpawnCreature(targetX, targetZ)
	}
	if gui.Button(rl.Rectangle{X: x + half + 6, Y: y, Width: half, Height: 26}, "Food") {
		ctrl.SpawnFood(targetX, targetZ, 3)
	}
	y += 36

	rl.DrawText("Overlays", int32(x), int32(y), 16, rl.White)
	y += 22
	for _, desc := range overlays.All() {
		label := fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
		enabled := overlays.IsEnabled(desc.ID)
		if checked := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 12, Height: 12}, label, enabled); checked != enabled {
			overlays.SetEnabled(desc.ID, checked)
		}
		y += 18
	}

	// The world owns the state icon flag; the overlay mirrors it.
	if show := overlays.IsEnabled(OverlayStateIcons); show != ctrl.ShowStateIcons() {
		ctrl.SetShowStateIcons(show)
	}
}
