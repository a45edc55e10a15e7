package genetics

import "math"

// RGB is an 8-bit display color.
type RGB struct {
	R, G, B uint8
}

// Saturation and lightness ranges spanned by energy fraction 0..1.
const (
	minSaturation = 0.30
	maxSaturation = 0.85
	minLightness  = 0.25
	maxLightness  = 0.60

	// seekingDesaturation dims hungry creatures without breaking the
	// energy ordering.
	seekingDesaturation = 0.85
)

// Color maps the genome hue and the current energy fraction to a display
// color. Saturation and lightness grow monotonically with energy.
func (g Genome) Color(energyFraction float32, seeking bool) RGB {
	f := float64(clamp(energyFraction, 0, 1))
	s := minSaturation + (maxSaturation-minSaturation)*f
	l := minLightness + (maxLightness-minLightness)*f
	if seeking {
		s *= seekingDesaturation
	}
	return hslToRGB(float64(g.Hue), s, l)
}

// hslToRGB converts h in [0,1), s and l in [0,1].
func hslToRGB(h, s, l float64) RGB {
	c := (1 - math.Abs(2*l-1)) * s
	hp := h * 6
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	m := l - c/2
	return RGB{
		R: toByte(r + m),
		G: toByte(g + m),
		B: toByte(b + m),
	}
}

func toByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
