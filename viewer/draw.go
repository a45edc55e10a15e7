package viewer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/isle/camera"
	"github.com/pthm-cable/isle/components"
	"github.com/pthm-cable/isle/config"
	"github.com/pthm-cable/isle/game"
	"github.com/pthm-cable/isle/renderer"
	"github.com/pthm-cable/isle/systems"
	"github.com/pthm-cable/isle/ui"
)

// Palette
var (
	skyColor     = rl.Color{R: 150, G: 200, B: 230, A: 255}
	waterColor   = rl.Color{R: 40, G: 110, B: 160, A: 255}
	foamColor    = rl.Color{R: 220, G: 240, B: 250, A: 160}
	sandColor    = rl.Color{R: 214, G: 196, B: 140, A: 255}
	grassColor   = rl.Color{R: 96, G: 150, B: 72, A: 255}
	trunkColor   = rl.Color{R: 110, G: 80, B: 50, A: 255}
	canopyColor  = rl.Color{R: 60, G: 120, B: 55, A: 200}
	fruitColor   = rl.Color{R: 220, G: 60, B: 50, A: 255}
	groundFood   = rl.Color{R: 230, G: 150, B: 40, A: 255}
	selectColor  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	overlayColor = rl.Color{R: 255, G: 255, B: 255, A: 90}
)

var up = rl.Vector3{X: 0, Y: 1, Z: 0}

// Camera3D converts the orbit camera to a raylib camera.
func Camera3D(o *camera.Orbit) rl.Camera3D {
	x, y, z := o.Position()
	return rl.Camera3D{
		Position:   rl.Vector3{X: x, Y: y, Z: z},
		Target:     rl.Vector3{X: o.TargetX, Y: o.TargetY, Z: o.TargetZ},
		Up:         up,
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}

// Renderer draws the world in 3D.
type Renderer struct {
	cfg      *config.Config
	scene    *renderer.Scene
	overlays *ui.OverlayRegistry
}

// NewRenderer creates a renderer reading handles from scene.
func NewRenderer(cfg *config.Config, scene *renderer.Scene, overlays *ui.OverlayRegistry) *Renderer {
	return &Renderer{cfg: cfg, scene: scene, overlays: overlays}
}

// Draw renders the island and its entities. selected is the ID of the
// inspected creature, or -1.
func (r *Renderer) Draw(w *game.World, cam rl.Camera3D, selected int64, wallTime float32) {
	rl.ClearBackground(skyColor)
	rl.BeginMode3D(cam)

	r.drawIsland(w.IslandRadius(), wallTime)
	if r.overlays.IsEnabled(ui.OverlayUsableRadius) {
		rl.DrawCircle3D(rl.Vector3{Y: 0.02}, w.UsableRadius(), rl.Vector3{X: 1}, 90, overlayColor)
	}

	now := w.Stats().Elapsed
	trees := w.Trees()
	for _, t := range trees {
		r.drawTree(t, now)
	}
	for _, f := range w.Food() {
		r.drawFood(f, now)
	}
	for _, c := range w.Creatures() {
		r.drawCreature(w, c, now, int64(c.ID) == selected)
	}
	if r.overlays.IsEnabled(ui.OverlayEffects) {
		r.drawEffects()
	}

	rl.EndMode3D()

	if w.ShowStateIcons() {
		r.drawStateIcons(w, cam)
	}
}

// drawIsland draws the sea, a sand beach and the grassy usable area. The
// foam ring pulses with wall time.
func (r *Renderer) drawIsland(radius, t float32) {
	rl.DrawPlane(rl.Vector3{Y: -0.3}, rl.Vector2{X: radius * 8, Y: radius * 8}, waterColor)

	pulse := float32(math.Sin(float64(t)*1.5))*0.5 + 0.5
	rl.DrawCircle3D(rl.Vector3{Y: -0.25}, radius+1+pulse, rl.Vector3{X: 1}, 90, foamColor)

	rl.DrawCylinder(rl.Vector3{Y: -0.3}, radius, radius+0.5, 0.3, 64, sandColor)
	margin := float32(r.cfg.World.BoundaryMargin)
	rl.DrawCylinder(rl.Vector3{Y: -0.29}, radius-margin, radius-margin, 0.3, 64, grassColor)
}

func (r *Renderer) drawTree(t game.TreeView, now float64) {
	grow := r.scene.Grow(game.EntityRef{ID: t.ID, Kind: game.KindTree}, now)
	h := t.Height * grow
	base := rl.Vector3{X: t.X, Y: t.Y, Z: t.Z}

	rl.DrawCylinder(base, 0.25*grow, 0.4*grow, h, 8, trunkColor)
	canopy := rl.Vector3{X: t.X, Y: t.Y + h*0.85, Z: t.Z}
	rl.DrawSphere(canopy, t.Width/2*grow, canopyColor)

	if r.overlays.IsEnabled(ui.OverlayTreeCanopy) {
		rl.DrawCircle3D(rl.Vector3{X: t.X, Y: 0.05, Z: t.Z}, t.SpawnRadius, rl.Vector3{X: 1}, 90, overlayColor)
	}
}

func (r *Renderer) drawFood(f game.FoodView, now float64) {
	grow := r.scene.Grow(game.EntityRef{ID: f.ID, Kind: game.KindFood}, now)
	color := groundFood
	if f.OnTree {
		color = fruitColor
		if r.overlays.IsEnabled(ui.OverlayDropLines) {
			rl.DrawLine3D(rl.Vector3{X: f.X, Y: f.Y, Z: f.Z}, rl.Vector3{X: f.X, Z: f.Z}, overlayColor)
		}
	}
	rl.DrawSphere(rl.Vector3{X: f.X, Y: f.Y, Z: f.Z}, f.Radius*grow, color)
}

func (r *Renderer) drawCreature(w *game.World, c game.CreatureView, now float64, selected bool) {
	grow := r.scene.Grow(game.EntityRef{ID: c.ID, Kind: game.KindCreature}, now)
	pos := rl.Vector3{X: c.X, Y: c.Y, Z: c.Z}
	radius := c.Size / 2 * grow

	rl.DrawSphere(pos, radius, ui.ToColor(c.Color.R, c.Color.G, c.Color.B))

	// Shadow on the ground, smaller as the creature rises.
	lift := c.Y - radius
	shadow := radius / (1 + lift*0.3)
	rl.DrawCircle3D(rl.Vector3{X: c.X, Y: 0.03, Z: c.Z}, shadow, rl.Vector3{X: 1}, 90, rl.Color{A: 70})

	if selected {
		rl.DrawSphereWires(pos, radius*1.3, 6, 8, selectColor)
		if r.overlays.IsEnabled(ui.OverlayPerception) {
			p := systems.PerceptionRadius(c.Genome, w.Config())
			rl.DrawCircle3D(rl.Vector3{X: c.X, Y: 0.06, Z: c.Z}, p, rl.Vector3{X: 1}, 90, overlayColor)
		}
	}
}

func (r *Renderer) drawEffects() {
	for _, e := range r.scene.Effects() {
		ratio := e.Ratio()
		var color rl.Color
		switch e.Kind {
		case renderer.EffectBirth:
			color = rl.Color{R: 120, G: 230, B: 140}
		case renderer.EffectDeath:
			color = rl.Color{R: 100, G: 80, B: 60}
		case renderer.EffectEat:
			color = rl.Color{R: 255, G: 210, B: 80}
		case renderer.EffectJump:
			color = rl.Color{R: 200, G: 220, B: 255}
		}
		color.A = uint8(ratio * 200)
		rise := (1 - ratio) * 1.5
		rl.DrawCircle3D(rl.Vector3{X: e.X, Y: e.Y + rise, Z: e.Z}, 0.3+(1-ratio), rl.Vector3{X: 1}, 90, color)
	}
}

// drawStateIcons draws a marker above each creature in screen space.
func (r *Renderer) drawStateIcons(w *game.World, cam rl.Camera3D) {
	for _, c := range w.Creatures() {
		head := rl.Vector3{X: c.X, Y: c.Y + c.Size, Z: c.Z}
		p := rl.GetWorldToScreen(head, cam)
		color := rl.White
		if c.State == components.StateSeekingFood {
			color = rl.Orange
		}
		icon := c.State.Icon()
		rl.DrawText(icon, int32(p.X)-rl.MeasureText(icon, 16)/2, int32(p.Y)-16, 16, color)
	}
}
