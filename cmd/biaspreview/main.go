// Fruit height preview tool - interactive histogram of where trees place
// fruit for a given height bias.
//
// Usage: go run ./cmd/biaspreview
package main

import (
	"fmt"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/isle/config"
	"github.com/pthm-cable/isle/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 600
	plotSize     = 520
	panelWidth   = windowWidth - plotSize - 40
	bins         = 40
)

// PreviewParams holds the sampled distribution's inputs.
type PreviewParams struct {
	Bias    float32
	Samples int
	Seed    int64
}

func main() {
	cfg := config.Default()

	rl.InitWindow(windowWidth, windowHeight, "Fruit Height Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := PreviewParams{
		Bias:    float32(cfg.Trees.FoodHeightBias),
		Samples: 20000,
		Seed:    1,
	}
	hist := make([]int, bins)
	lo, hi := float32(0), float32(1)
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			lo, hi = sample(hist, params, cfg.Trees.HeightMax)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawHistogram(hist, params.Samples)

		statsY := int32(plotSize + 25)
		rl.DrawText(fmt.Sprintf("Exponent: %.3f  Lowest: %.2f  Highest: %.2f (of %.1f)",
			systems.HeightExponent(float64(params.Bias)), lo, hi, cfg.Trees.HeightMax), 15, statsY, 16, rl.DarkGray)

		// Control panel
		panelX := float32(plotSize + 30)
		panelY := float32(10)

		rl.DrawText("Height Bias", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Bias (0 = ground, 1 = canopy top)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newBias := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "1",
			params.Bias, 0, 1,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Bias), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newBias != params.Bias {
			params.Bias = newBias
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Samples", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSamples := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1k", "100k",
			float32(params.Samples), 1000, 100000,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Samples), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newSamples) != params.Samples {
			params.Samples = int(newSamples)
			needsRegen = true
		}
		panelY += 45

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "New Seed") {
			params.Seed++
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset") {
			params.Bias = float32(cfg.Trees.FoodHeightBias)
			params.Samples = 20000
			needsRegen = true
		}

		rl.EndDrawing()
	}
}

// sample fills hist with BiasedHeight draws over [0, max] and returns the
// extremes seen.
func sample(hist []int, params PreviewParams, maxHeight float64) (lo, hi float32) {
	clear(hist)
	rng := rand.New(rand.NewSource(params.Seed))
	lo, hi = float32(maxHeight), 0
	for range params.Samples {
		h := systems.BiasedHeight(rng, 0, maxHeight, float64(params.Bias))
		lo, hi = min(lo, h), max(hi, h)
		bin := int(h / float32(maxHeight) * bins)
		if bin >= bins {
			bin = bins - 1
		}
		hist[bin]++
	}
	return lo, hi
}

// drawHistogram draws the bins as horizontal bars, ground at the bottom,
// so the plot reads like a tree.
func drawHistogram(hist []int, total int) {
	rl.DrawRectangleLines(10, 10, plotSize, plotSize, rl.DarkGray)
	if total == 0 {
		return
	}
	peak := 1
	for _, n := range hist {
		peak = max(peak, n)
	}
	barH := float32(plotSize) / bins
	for i, n := range hist {
		w := float32(n) / float32(peak) * (plotSize - 20)
		y := 10 + plotSize - float32(i+1)*barH
		rl.DrawRectangleRec(rl.Rectangle{X: 20, Y: y + 1, Width: w, Height: barH - 2}, rl.Color{R: 220, G: 60, B: 50, A: 255})
	}
	rl.DrawText("canopy", 20, 14, 12, rl.Gray)
	rl.DrawText("ground", 20, 10+plotSize-16, 12, rl.Gray)
}
