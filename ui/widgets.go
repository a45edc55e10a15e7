package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// normalize maps v into [0, 1] over rng.
func normalize(v float32, rng FieldRange) float32 {
	span := rng.Max - rng.Min
	if span <= 0 {
		return 0
	}
	n := (v - rng.Min) / span
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// drawBar draws the shared label, track and value text of a bar and
// returns the track geometry.
func (r *Renderer) drawBar(x, y int32, label, text string, width int32) (barX, barWidth int32) {
	barX = x + r.Theme.LabelWidth
	barWidth = width - r.Theme.LabelWidth - 50
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawText(text, barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return barX, barWidth
}

// DrawBar draws a progress bar for value over rng.
func (r *Renderer) DrawBar(x, y int32, label, text string, value float32, rng FieldRange, width int32) int32 {
	barX, barWidth := r.drawBar(x, y, label, text, width)
	fill := int32(float32(barWidth) * normalize(value, rng))
	rl.DrawRectangle(barX, y+2, fill, r.Theme.BarHeight, r.Theme.BarFill)
	return y + r.Theme.LineHeight + 2
}

// DrawEnergyBar draws a bar whose color drops from green to red as it
// empties.
func (r *Renderer) DrawEnergyBar(x, y int32, label, text string, value float32, rng FieldRange, width int32) int32 {
	barX, barWidth := r.drawBar(x, y, label, text, width)
	ratio := normalize(value, rng)

	barColor := r.Theme.BarFillHigh
	if ratio < 0.3 {
		barColor = r.Theme.BarFillLow
	} else if ratio < 0.6 {
		barColor = r.Theme.BarFillMedium
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*ratio), r.Theme.BarHeight, barColor)
	return y + r.Theme.LineHeight + 2
}

// DrawCenteredBar draws a bar that grows left or right from the middle of
// rng, for values with a natural midpoint such as a trait multiplier of 1.
func (r *Renderer) DrawCenteredBar(x, y int32, label, text string, value float32, rng FieldRange, width int32) int32 {
	barX, barWidth := r.drawBar(x, y, label, text, width)
	centerX := barX + barWidth/2
	rl.DrawLine(centerX, y+2, centerX, y+2+r.Theme.BarHeight, rl.Color{R: 80, G: 80, B: 80, A: 255})

	offset := normalize(value, rng) - 0.5
	fill := int32(float32(barWidth) * offset)
	if fill >= 0 {
		rl.DrawRectangle(centerX, y+2, fill, r.Theme.BarHeight, r.Theme.BarFillPositive)
	} else {
		rl.DrawRectangle(centerX+fill, y+2, -fill, r.Theme.BarHeight, r.Theme.BarFillNegative)
	}
	return y + r.Theme.LineHeight + 2
}

// DrawColorSwatch draws a color swatch.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, color rl.Color) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, 12, 12, color)
	return y + r.Theme.LineHeight
}

// FieldText returns the formatted value of a field.
func FieldText(fd FieldDescriptor, data any) string {
	if fd.TextGetter != nil {
		return fd.TextGetter(data)
	}
	if fd.Getter == nil {
		return ""
	}
	format := fd.Format
	if format == "" {
		format = "%.2f"
	}
	return fmt.Sprintf(format, fd.Getter(data))
}

// DrawField renders a field based on its descriptor.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	value := float32(0)
	if fd.Getter != nil {
		value = fd.Getter(data)
	}
	text := FieldText(fd, data)

	switch fd.Widget {
	case WidgetBar:
		return r.DrawBar(x, y, fd.Label, text, value, fd.Range, width)
	case WidgetEnergyBar:
		return r.DrawEnergyBar(x, y, fd.Label, text, value, fd.Range, width)
	case WidgetCenteredBar:
		return r.DrawCenteredBar(x, y, fd.Label, text, value, fd.Range, width)
	case WidgetColorSwatch:
		color := rl.White
		if fd.ColorGetter != nil {
			color = fd.ColorGetter(data)
		}
		return r.DrawColorSwatch(x, y, fd.Label, color)
	default:
		return r.DrawLabelValue(x, y, fd.Label, text)
	}
}

// DrawSection renders a section with header and fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		y = r.DrawField(x, y, fd, data, width)
	}
	return y + 4
}

// PanelHeight returns the height DrawPanelDescriptor will use.
func (r *Renderer) PanelHeight(pd PanelDescriptor) int32 {
	lines := int32(0)
	gaps := int32(0)
	for _, sd := range pd.Sections {
		if sd.Title != "" {
			lines++
		}
		for _, fd := range sd.Fields {
			lines++
			switch fd.Widget {
			case WidgetBar, WidgetEnergyBar, WidgetCenteredBar:
				gaps += 2
			}
		}
		gaps += 4
	}
	h := r.Theme.Padding*2 + lines*r.Theme.LineHeight + gaps
	if pd.Title != "" {
		h += r.Theme.LineHeight + 4
	}
	return h
}

// DrawPanelDescriptor draws a complete panel at (x, y) and returns the Y
// position below it.
func (r *Renderer) DrawPanelDescriptor(x, y, width int32, pd PanelDescriptor, data any) int32 {
	r.DrawPanel(x, y, width, r.PanelHeight(pd))
	cy := y + r.Theme.Padding
	if pd.Title != "" {
		rl.DrawText(pd.Title, x+r.Theme.Padding, cy, 16, rl.White)
		cy += r.Theme.LineHeight + 4
	}
	for _, sd := range pd.Sections {
		cy = r.DrawSection(x+r.Theme.Padding, cy, sd, data, width-r.Theme.Padding*2)
	}
	return y + r.PanelHeight(pd)
}
