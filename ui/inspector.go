package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/isle/game"
)

// traitRange is the display range for genome multipliers, centered on 1.
var traitRange = FieldRange{Min: 0.5, Max: 1.5}

func creature(data any) game.CreatureView {
	c, _ := data.(game.CreatureView)
	return c
}

func traitField(id, label string, get func(game.CreatureView) float32) FieldDescriptor {
	return FieldDescriptor{
		ID:     id,
		Label:  label,
		Widget: WidgetCenteredBar,
		Format: "x%.2f",
		Range:  traitRange,
		Getter: func(d any) float32 { return get(creature(d)) },
	}
}

// CreaturePanel describes the inspector layout for a game.CreatureView.
func CreaturePanel(maxEnergy float32) PanelDescriptor {
	return PanelDescriptor{
		Title: "Creature",
		Sections: []SectionDescriptor{
			{
				Fields: []FieldDescriptor{
					{ID: "id", Label: "ID", TextGetter: func(d any) string { return fmt.Sprintf("#%d", creature(d).ID) }},
					{ID: "generation", Label: "Generation", TextGetter: func(d any) string { return fmt.Sprintf("%d", creature(d).Generation) }},
					{ID: "state", Label: "State", TextGetter: func(d any) string { return creature(d).State.String() }},
					{
						ID:     "energy",
						Label:  "Energy",
						Widget: WidgetEnergyBar,
						Format: "%.0f",
						Range:  FieldRange{Min: 0, Max: maxEnergy},
						Getter: func(d any) float32 { return creature(d).Energy },
					},
					{
						ID:     "height",
						Label:  "Height",
						Format: "%.2f",
						Getter: func(d any) float32 { return creature(d).Y },
					},
				},
			},
			{
				Title: "Genome",
				Fields: []FieldDescriptor{
					traitField("speed", "Speed", func(c game.CreatureView) float32 { return c.Genome.Speed }),
					traitField("perception", "Perception", func(c game.CreatureView) float32 { return c.Genome.Perception }),
					traitField("efficiency", "Efficiency", func(c game.CreatureView) float32 { return c.Genome.Efficiency }),
					traitField("size", "Size", func(c game.CreatureView) float32 { return c.Genome.Size }),
					traitField("jump_power", "Jump", func(c game.CreatureView) float32 { return c.Genome.JumpPower }),
					{
						ID:     "hue",
						Label:  "Hue",
						Widget: WidgetColorSwatch,
						ColorGetter: func(d any) rl.Color {
							c := creature(d).Color
							return ToColor(c.R, c.G, c.B)
						},
					},
				},
			},
		},
	}
}

// Inspector renders the selected creature.
type Inspector struct {
	renderer *Renderer
	panel    PanelDescriptor
	x, y     int32
	width    int32
}

// NewInspector creates an inspector panel.
func NewInspector(x, y, width int32, maxEnergy float32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		panel:    CreaturePanel(maxEnergy),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector for c.
func (ins *Inspector) Draw(c game.CreatureView) int32 {
	return ins.renderer.DrawPanelDescriptor(ins.x, ins.y, ins.width, ins.panel, c)
}
