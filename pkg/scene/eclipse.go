package scene

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
)

// NewEclipseScene creates a deterministic two-sphere scene in which a small
// moon sits between a large planet and the primary light, casting a visible
// shadow. The moon orbits the planet.
func NewEclipseScene(cameraZ float64) *Scene {
	planetCenter := core.NewVec3(0, 0, 0.5)
	planet := geometry.NewSphere(planetCenter, core.Vec3{}, 0.5, core.NewColor(70, 130, 180))

	s := NewScene(nil, cameraZ)

	// Step from the planet toward the primary light
	toLight := s.PrimaryLight().Direction
	moonCenter := planetCenter.Add(toLight.Multiply(0.85))
	moon := geometry.NewSphere(moonCenter, core.Vec3{}, 0.15, core.NewColor(220, 220, 200))

	s.Spheres = []*geometry.Sphere{planet, moon}
	s.Orbit = &Orbit{
		Anchor:    0,
		Satellite: 1,
		Radius:    moonCenter.Distance(planetCenter),
	}
	return s
}
