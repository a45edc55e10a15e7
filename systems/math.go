package systems

import "math"

// normalizeEpsilon is the length below which a direction is treated as zero.
const normalizeEpsilon = 1e-6

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// distanceSq2D returns the squared horizontal (x/z) distance between two points.
func distanceSq2D(x1, z1, x2, z2 float32) float32 {
	dx := x1 - x2
	dz := z1 - z2
	return dx*dx + dz*dz
}

// Distance2D returns the horizontal (x/z) distance between two points.
func Distance2D(x1, z1, x2, z2 float32) float32 {
	return float32(math.Sqrt(float64(distanceSq2D(x1, z1, x2, z2))))
}

// Distance3D returns the Euclidean distance between two points.
func Distance3D(x1, y1, z1, x2, y2, z2 float32) float32 {
	dx, dy, dz := x1-x2, y1-y2, z1-z2
	return float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
}

// Normalize2D returns the unit vector of (x, z), or zero when the vector is
// shorter than normalizeEpsilon.
func Normalize2D(x, z float32) (float32, float32) {
	l := float32(math.Sqrt(float64(x*x + z*z)))
	if l < normalizeEpsilon {
		return 0, 0
	}
	return x / l, z / l
}

// randomUnit2D draws a uniformly distributed horizontal unit vector.
func randomUnit2D(r float64) (float32, float32) {
	angle := r * 2 * math.Pi
	return float32(math.Cos(angle)), float32(math.Sin(angle))
}
