// Package viewer is the raylib desktop front end: an orbiting 3D view of
// the island, the HUD, the creature inspector and the control panel.
package viewer

import (
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/isle/camera"
	"github.com/pthm-cable/isle/config"
	"github.com/pthm-cable/isle/game"
	"github.com/pthm-cable/isle/renderer"
	"github.com/pthm-cable/isle/ui"
)

const controlsLegend = "RMB drag: orbit | wheel: zoom | WASD: pan | LMB: select | Shift+LMB: food | C: creature | Space: pause | +/-: speed | Tab: panel | R: reset view"

// Viewer owns the window loop around a Runner.
type Viewer struct {
	runner *game.Runner
	world  *game.World
	cfg    *config.Config

	cam      *camera.Orbit
	scene    *renderer.Scene
	draw     *Renderer
	overlays *ui.OverlayRegistry

	hud       *ui.HUD
	perf      *ui.PerfPanel
	inspector *ui.Inspector
	controls  *ui.ControlPanel

	selected   int64 // creature ID, -1 for none
	showPerf   bool
	wallTime   float32
	lastRadius float32
}

// New builds a viewer. scene must be the Sink passed to the runner so it
// sees every spawn and removal.
func New(r *game.Runner, scene *renderer.Scene) *Viewer {
	w := r.World()
	cfg := w.Config()
	overlays := ui.NewOverlayRegistry()
	overlays.SetEnabled(ui.OverlayEffects, true)
	overlays.SetEnabled(ui.OverlayStateIcons, w.ShowStateIcons())

	screenW := int32(cfg.Screen.Width)
	return &Viewer{
		runner:     r,
		world:      w,
		cfg:        cfg,
		cam:        camera.NewOrbit(w.IslandRadius()),
		scene:      scene,
		draw:       NewRenderer(cfg, scene, overlays),
		overlays:   overlays,
		hud:        ui.NewHUD(),
		perf:       ui.NewPerfPanel(screenW-260, 150),
		inspector:  ui.NewInspector(screenW-260, 10, 250, float32(cfg.Creature.MaxEnergy)),
		controls:   ui.NewControlPanel(10, 145, 250, cfg.World.InitialCreatures, cfg.World.InitialTrees, w.IslandRadius()),
		selected:   -1,
		lastRadius: w.IslandRadius(),
	}
}

// Run opens the window and loops until it is closed or maxTicks ticks
// have run (0 = unlimited).
func (v *Viewer) Run(maxTicks uint64) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(int32(v.cfg.Screen.Width), int32(v.cfg.Screen.Height), "Isle")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(v.cfg.Screen.TargetFPS))

	slog.Info("viewer started", "run_id", v.runner.RunID())

	for !rl.WindowShouldClose() {
		dt := rl.GetFrameTime()
		v.wallTime += dt

		v.handleInput()
		v.runner.Step(float64(dt))
		v.scene.Update(dt)

		// A reset may change the island size.
		if r := v.world.IslandRadius(); r != v.lastRadius {
			v.cam.Fit(r)
			v.lastRadius = r
			v.selected = -1
		}

		v.render()

		if maxTicks > 0 && v.world.Stats().Tick >= maxTicks {
			slog.Info("max ticks reached", "tick", v.world.Stats().Tick)
			return
		}
	}
}

func (v *Viewer) handleInput() {
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		v.cam.Rotate(-d.X*0.005, d.Y*0.005)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(float32(math.Pow(0.9, float64(wheel))))
	}

	pan := v.cam.Distance * 0.01
	var right, forward float32
	if rl.IsKeyDown(rl.KeyW) {
		forward += pan
	}
	if rl.IsKeyDown(rl.KeyS) {
		forward -= pan
	}
	if rl.IsKeyDown(rl.KeyD) {
		right += pan
	}
	if rl.IsKeyDown(rl.KeyA) {
		right -= pan
	}
	if right != 0 || forward != 0 {
		v.cam.Pan(right, forward)
	}

	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		v.world.TogglePause()
	case rl.IsKeyPressed(rl.KeyEqual), rl.IsKeyPressed(rl.KeyKpAdd):
		v.world.SetTimeScale(math.Min(v.world.TimeScale()*2, 16))
	case rl.IsKeyPressed(rl.KeyMinus), rl.IsKeyPressed(rl.KeyKpSubtract):
		v.world.SetTimeScale(math.Max(v.world.TimeScale()/2, 0.125))
	case rl.IsKeyPressed(rl.KeyTab):
		v.controls.Toggle()
	case rl.IsKeyPressed(rl.KeyF):
		v.showPerf = !v.showPerf
	case rl.IsKeyPressed(rl.KeyR):
		v.cam.Reset()
	case rl.IsKeyPressed(rl.KeyC):
		if x, z, ok := v.groundUnderMouse(); ok {
			v.world.SpawnCreature(x, z)
		}
	default:
		if key := rl.GetKeyPressed(); key != 0 {
			v.overlays.HandleKeyPress(key)
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		m := rl.GetMousePosition()
		if v.controls.Contains(m.X, m.Y) {
			return
		}
		x, z, ok := v.groundUnderMouse()
		if !ok {
			return
		}
		if rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift) {
			v.world.SpawnFood(x, z, 4)
			return
		}
		v.selected = v.pick(x, z)
	}
}

// groundUnderMouse projects the mouse cursor onto the ground plane.
func (v *Viewer) groundUnderMouse() (x, z float32, ok bool) {
	ray := rl.GetScreenToWorldRay(rl.GetMousePosition(), Camera3D(v.cam))
	return camera.GroundPoint(
		ray.Position.X, ray.Position.Y, ray.Position.Z,
		ray.Direction.X, ray.Direction.Y, ray.Direction.Z,
		float32(v.cfg.Physics.GroundLevel),
	)
}

// pick returns the creature nearest (x, z) within a small radius, or -1.
func (v *Viewer) pick(x, z float32) int64 {
	best := int64(-1)
	bestD := float32(2.5 * 2.5)
	for _, c := range v.world.Creatures() {
		dx, dz := c.X-x, c.Z-z
		if d := dx*dx + dz*dz; d < bestD {
			bestD = d
			best = int64(c.ID)
		}
	}
	return best
}

func (v *Viewer) selectedCreature() (game.CreatureView, bool) {
	if v.selected < 0 {
		return game.CreatureView{}, false
	}
	for _, c := range v.world.Creatures() {
		if int64(c.ID) == v.selected {
			return c, true
		}
	}
	return game.CreatureView{}, false
}

func (v *Viewer) render() {
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())
	v.perf.SetPosition(screenW-260, screenH-160)
	v.inspector.SetPosition(screenW-260, 10)

	rl.BeginDrawing()
	defer rl.EndDrawing()

	v.draw.Draw(v.world, Camera3D(v.cam), v.selected, v.wallTime)

	v.hud.Draw(ui.HUDData{
		Title:     "Isle",
		Stats:     v.world.Stats(),
		TimeScale: v.world.TimeScale(),
		FPS:       rl.GetFPS(),
		Paused:    v.world.Paused(),
		RunID:     v.runner.RunID(),
	})
	v.controls.Draw(v.world, v.overlays, v.cam.TargetX, v.cam.TargetZ)

	if c, ok := v.selectedCreature(); ok {
		v.inspector.Draw(c)
	} else {
		v.selected = -1
	}
	if v.showPerf {
		v.perf.Draw(v.runner.Perf().Stats())
	}
	v.hud.DrawControls(screenH, controlsLegend)
}
