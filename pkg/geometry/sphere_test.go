package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

func newTestSphere(center core.Vec3, radius float64) *Sphere {
	return NewSphere(center, core.Vec3{}, radius, core.NewColor(200, 100, 50))
}

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := newTestSphere(core.NewVec3(0, 0, 0), 1.0)

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
	}{
		{"perpendicular offset", core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0)},
		{"parallel beyond radius", core.NewVec3(0, 1.5, -5), core.NewVec3(0, 0, 1)},
		{"pointing away", core.NewVec3(0, 0, -5), core.NewVec3(0, 0, -1)},
		{"sphere behind origin", core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.origin, tt.direction)
			if hit, isHit := sphere.Hit(ray); isHit {
				t.Errorf("Expected miss, but got hit at t=%f", hit.T)
			}
		})
	}
}

func TestSphere_Hit_TowardCenter(t *testing.T) {
	tests := []struct {
		name   string
		center core.Vec3
		radius float64
		origin core.Vec3
	}{
		{"unit sphere from camera", core.NewVec3(0, 0, 0), 1.0, core.NewVec3(0, 0, -5)},
		{"offset sphere", core.NewVec3(1, 2, 3), 1.0, core.NewVec3(4, 6, 3)},
		{"small sphere far away", core.NewVec3(0.3, -0.2, 0.7), 0.15, core.NewVec3(0, 0, -10)},
	}

	const tolerance = 1e-9
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := newTestSphere(tt.center, tt.radius)
			ray := core.NewRayTo(tt.origin, tt.center)

			hit, isHit := sphere.Hit(ray)
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			expectedT := tt.origin.Distance(tt.center) - tt.radius
			if math.Abs(hit.T-expectedT) > tolerance {
				t.Errorf("Expected t=%f, got t=%f", expectedT, hit.T)
			}

			expectedNormal := hit.Point.Subtract(tt.center).Normalize()
			if hit.Normal.Subtract(expectedNormal).Length() > tolerance {
				t.Errorf("Expected normal %v, got %v", expectedNormal, hit.Normal)
			}
			if math.Abs(hit.Normal.Length()-1) > tolerance {
				t.Errorf("Expected unit normal, got length %f", hit.Normal.Length())
			}
			// Outward normal faces back toward the ray origin
			if hit.Normal.Dot(ray.Direction) >= 0 {
				t.Errorf("Expected normal %v to face the ray origin", hit.Normal)
			}
		})
	}
}

func TestSphere_Hit_SurfaceOrigin(t *testing.T) {
	sphere := newTestSphere(core.NewVec3(0, 0, 0), 1.0)

	// Leaving the surface outward: the only roots are t=0 and t<0
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1))
	if hit, isHit := sphere.Hit(ray); isHit {
		t.Errorf("Expected no self-hit, got hit at t=%f", hit.T)
	}

	// Entering the surface: t=0 is rejected, the far side is reported
	ray = core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1))
	hit, isHit := sphere.Hit(ray)
	if !isHit {
		t.Fatal("Expected hit on far side, but got miss")
	}
	if hit.T != 2 || hit.Point != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected far-side hit at t=2 (0,0,1), got t=%f %v", hit.T, hit.Point)
	}
}

func TestSphere_Hit_FromInside(t *testing.T) {
	sphere := newTestSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	hit, isHit := sphere.Hit(ray)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.T-1.0) > 1e-9 {
		t.Errorf("Expected t=1, got t=%f", hit.T)
	}
	if hit.Normal != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected outward normal (0,0,1), got %v", hit.Normal)
	}
}

func TestSphere_Hit_Tangent(t *testing.T) {
	sphere := newTestSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(1, 0, -5), core.NewVec3(0, 0, 1))

	hit, isHit := sphere.Hit(ray)
	if !isHit {
		t.Fatal("Expected tangent hit, but got miss")
	}

	tolerance := 1e-9
	if math.Abs(hit.T-5) > tolerance {
		t.Errorf("Expected t=5, got t=%f", hit.T)
	}
	if hit.Point.Subtract(core.NewVec3(1, 0, 0)).Length() > tolerance {
		t.Errorf("Expected hit point (1,0,0), got %v", hit.Point)
	}
	if hit.Normal.Subtract(core.NewVec3(1, 0, 0)).Length() > tolerance {
		t.Errorf("Expected normal (1,0,0), got %v", hit.Normal)
	}
}

func TestSphere_Hit_DoesNotAllocate(t *testing.T) {
	sphere := newTestSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	allocs := testing.AllocsPerRun(100, func() {
		sphere.Hit(ray)
	})
	if allocs != 0 {
		t.Errorf("Expected no allocations per intersection, got %f", allocs)
	}
}
