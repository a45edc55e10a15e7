// Package systems contains the per-entity update rules for the simulation.
package systems

import (
	"math"

	"github.com/pthm-cable/isle/components"
)

// Integrate advances one gravity-bound entity by dt: gravity while airborne,
// position from velocity, then ground collision. Bodies with gravity
// disabled are held in place.
func Integrate(pos *components.Position, vel *components.Velocity, body *components.Body, dt, gravity float32) {
	if !body.Gravity {
		return
	}

	if !body.Grounded {
		vel.Y -= gravity * dt
	}

	pos.X += vel.X * dt
	pos.Y += vel.Y * dt
	pos.Z += vel.Z * dt

	if pos.Y <= body.GroundHeight {
		pos.Y = body.GroundHeight
		vel.Y = 0
		body.Grounded = true
	} else {
		body.Grounded = false
	}
}

// ConfineToIsland keeps an entity within radius of the origin on the
// horizontal plane. An entity past the edge is clamped onto the boundary
// circle and, when moving outward, its horizontal velocity is reflected
// about the outward normal. Vertical velocity is untouched.
// Returns true if the boundary was hit.
func ConfineToIsland(pos *components.Position, vel *components.Velocity, radius float32) bool {
	d := float32(math.Sqrt(float64(pos.X*pos.X + pos.Z*pos.Z)))
	if d <= radius || d < normalizeEpsilon {
		return false
	}

	nx, nz := pos.X/d, pos.Z/d
	pos.X = nx * radius
	pos.Z = nz * radius

	if dot := vel.X*nx + vel.Z*nz; dot > 0 {
		vel.X -= 2 * dot * nx
		vel.Z -= 2 * dot * nz
	}
	return true
}

// InsideIsland reports whether (x, z) lies within radius of the origin.
func InsideIsland(x, z, radius float32) bool {
	return x*x+z*z <= radius*radius
}
