package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

func TestNewOrbit(t *testing.T) {
	cam := NewOrbit(50)

	if cam.TargetX != 0 || cam.TargetZ != 0 {
		t.Errorf("expected target at origin, got (%f, %f)", cam.TargetX, cam.TargetZ)
	}
	if cam.Distance < cam.MinDistance || cam.Distance > cam.MaxDistance {
		t.Errorf("distance %f outside [%f, %f]", cam.Distance, cam.MinDistance, cam.MaxDistance)
	}
	if cam.MaxDistance != 200 {
		t.Errorf("expected max distance 200, got %f", cam.MaxDistance)
	}
}

func TestPositionDistance(t *testing.T) {
	cam := NewOrbit(50)

	testCases := []struct{ yaw, pitch float32 }{
		{0, 0.5},
		{1.2, 0.1},
		{4, 1.4},
	}

	for _, tc := range testCases {
		cam.Yaw, cam.Pitch = tc.yaw, tc.pitch
		x, y, z := cam.Position()
		d := float32(math.Sqrt(float64(x*x + y*y + z*z)))
		if !near(d, cam.Distance) {
			t.Errorf("yaw %f pitch %f: eye at distance %f, want %f", tc.yaw, tc.pitch, d, cam.Distance)
		}
		if y <= 0 {
			t.Errorf("yaw %f pitch %f: eye below ground (y=%f)", tc.yaw, tc.pitch, y)
		}
	}
}

func TestForwardPointsAtTarget(t *testing.T) {
	cam := NewOrbit(50)
	cam.Yaw = 2.1

	x, _, z := cam.Position()
	fx, fz := cam.Forward()

	// Moving from the eye along forward must reduce ground distance to target.
	before := math.Hypot(float64(x), float64(z))
	after := math.Hypot(float64(x+fx), float64(z+fz))
	if after >= before {
		t.Errorf("forward (%f, %f) does not face the target", fx, fz)
	}
	if !near(fx*fx+fz*fz, 1) {
		t.Errorf("forward not unit length: (%f, %f)", fx, fz)
	}
}

func TestRotate(t *testing.T) {
	cam := NewOrbit(50)

	cam.Yaw = 6
	cam.Rotate(1, 0)
	if cam.Yaw < 0 || cam.Yaw >= 2*math.Pi {
		t.Errorf("yaw %f not wrapped to [0, 2pi)", cam.Yaw)
	}

	cam.Rotate(0, 10)
	if cam.Pitch != cam.MaxPitch {
		t.Errorf("pitch %f not clamped to max %f", cam.Pitch, cam.MaxPitch)
	}
	cam.Rotate(0, -10)
	if cam.Pitch != cam.MinPitch {
		t.Errorf("pitch %f not clamped to min %f", cam.Pitch, cam.MinPitch)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := NewOrbit(50)

	cam.ZoomBy(100)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("expected max distance %f, got %f", cam.MaxDistance, cam.Distance)
	}

	cam.ZoomBy(0.0001)
	if cam.Distance != cam.MinDistance {
		t.Errorf("expected min distance %f, got %f", cam.MinDistance, cam.Distance)
	}

	before := cam.Distance
	cam.ZoomBy(0)
	cam.ZoomBy(-2)
	if cam.Distance != before {
		t.Errorf("non-positive factor changed distance to %f", cam.Distance)
	}
}

func TestPanConfined(t *testing.T) {
	cam := NewOrbit(50)

	cam.Pan(3, 0)
	r := math.Hypot(float64(cam.TargetX), float64(cam.TargetZ))
	if !near(float32(r), 3) {
		t.Errorf("expected target 3 units from center, got %f", r)
	}

	cam.Pan(0, 500)
	r = math.Hypot(float64(cam.TargetX), float64(cam.TargetZ))
	if r > 50+1e-3 {
		t.Errorf("target escaped the island: r=%f", r)
	}

	cam.Reset()
	if cam.TargetX != 0 || cam.TargetZ != 0 || cam.Yaw != defaultYaw {
		t.Error("Reset did not restore the default view")
	}
}

func TestGroundPoint(t *testing.T) {
	tests := []struct {
		name           string
		oy, dy         float32
		wantX, wantZ   float32
		wantOK         bool
		ox, oz, dx, dz float32
	}{
		{name: "straight down", oy: 10, dy: -1, wantOK: true},
		{name: "diagonal", oy: 10, dx: 1, dy: -1, dz: 0.5, wantX: 10, wantZ: 5, wantOK: true},
		{name: "parallel", oy: 10, dx: 1, wantOK: false},
		{name: "pointing up", oy: 10, dy: 1, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, z, ok := GroundPoint(tt.ox, tt.oy, tt.oz, tt.dx, tt.dy, tt.dz, 0)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (!near(x, tt.wantX) || !near(z, tt.wantZ)) {
				t.Errorf("hit (%f, %f), want (%f, %f)", x, z, tt.wantX, tt.wantZ)
			}
		})
	}
}
