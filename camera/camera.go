// Package camera provides an orbit camera for viewing the island.
package camera

import "math"

// Orbit circles a target point on the island. Yaw turns around the vertical
// axis, pitch tilts above the ground plane and distance is measured from the
// target. The camera itself knows nothing about raylib.
type Orbit struct {
	// Target is the point the camera looks at, in world coordinates
	TargetX, TargetY, TargetZ float32

	// Angles in radians
	Yaw, Pitch float32

	Distance float32

	// Constraints
	MinDistance, MaxDistance float32
	MinPitch, MaxPitch       float32

	// Bound keeps the target within this radius of the island center.
	Bound float32
}

const (
	defaultYaw   = 0.6
	defaultPitch = 0.7
)

// NewOrbit creates a camera framing an island of the given radius.
func NewOrbit(islandRadius float32) *Orbit {
	o := &Orbit{
		MinPitch: 0.1,
		MaxPitch: 1.5,
	}
	o.Fit(islandRadius)
	return o
}

// Fit recomputes the distance limits for a new island radius and returns
// the camera to its default view.
func (o *Orbit) Fit(islandRadius float32) {
	o.MinDistance = 5
	o.MaxDistance = 4 * islandRadius
	if o.MaxDistance < o.MinDistance {
		o.MaxDistance = o.MinDistance
	}
	o.Bound = islandRadius
	o.Reset()
}

// Reset centers the target and restores the default angles and distance.
func (o *Orbit) Reset() {
	o.TargetX, o.TargetY, o.TargetZ = 0, 0, 0
	o.Yaw = defaultYaw
	o.Pitch = defaultPitch
	o.Distance = clamp(1.8*o.Bound, o.MinDistance, o.MaxDistance)
}

// Position returns the camera's eye position in world coordinates.
func (o *Orbit) Position() (x, y, z float32) {
	yaw, pitch := float64(o.Yaw), float64(o.Pitch)
	d := float64(o.Distance)
	horiz := d * math.Cos(pitch)
	x = o.TargetX + float32(horiz*math.Sin(yaw))
	y = o.TargetY + float32(d*math.Sin(pitch))
	z = o.TargetZ + float32(horiz*math.Cos(yaw))
	return x, y, z
}

// Rotate turns the camera by the given yaw and pitch deltas.
// Yaw wraps to [0, 2pi); pitch is clamped.
func (o *Orbit) Rotate(dyaw, dpitch float32) {
	o.Yaw = mod(o.Yaw+dyaw, 2*math.Pi)
	o.Pitch = clamp(o.Pitch+dpitch, o.MinPitch, o.MaxPitch)
}

// ZoomBy multiplies the distance by factor, clamped to the limits.
// Factors below 1 move the camera closer.
func (o *Orbit) ZoomBy(factor float32) {
	if !(factor > 0) {
		return
	}
	o.Distance = clamp(o.Distance*factor, o.MinDistance, o.MaxDistance)
}

// Forward returns the unit ground-plane direction the camera faces.
func (o *Orbit) Forward() (x, z float32) {
	yaw := float64(o.Yaw)
	return float32(-math.Sin(yaw)), float32(-math.Cos(yaw))
}

// Pan moves the target across the ground plane. right and forward are in
// world units relative to the current facing. The target stays within
// Bound of the island center.
func (o *Orbit) Pan(right, forward float32) {
	fx, fz := o.Forward()
	// right = forward x up
	rx, rz := -fz, fx

	o.TargetX += rx*right + fx*forward
	o.TargetZ += rz*right + fz*forward

	r := float32(math.Hypot(float64(o.TargetX), float64(o.TargetZ)))
	if r > o.Bound && r > 0 {
		s := o.Bound / r
		o.TargetX *= s
		o.TargetZ *= s
	}
}

// GroundPoint intersects a ray with the horizontal plane y = ground.
// ok is false when the ray is parallel to the plane or points away from it.
func GroundPoint(ox, oy, oz, dx, dy, dz, ground float32) (x, z float32, ok bool) {
	if absf(dy) < 1e-6 {
		return 0, 0, false
	}
	t := (ground - oy) / dy
	if t < 0 {
		return 0, 0, false
	}
	return ox + dx*t, oz + dz*t, true
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
