package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

const (
	// WorldRadius bounds randomized sphere placement and sizing
	WorldRadius = 2.0

	// DefaultCameraZ is the starting camera position on the z axis
	DefaultCameraZ = -5.0

	// Camera depth range. The camera sits in front of the world and looks toward +z.
	FarthestCameraZ = -50.0
	NearestCameraZ  = -1.0
)

// ValidateCameraZ reports an error for a camera depth outside [FarthestCameraZ, NearestCameraZ]
func ValidateCameraZ(z float64) error {
	if math.IsNaN(z) || z < FarthestCameraZ || z > NearestCameraZ {
		return fmt.Errorf("camera z must be between %g and %g, got %g", FarthestCameraZ, NearestCameraZ, z)
	}
	return nil
}

// Orbit moves one sphere on a circle around another in the z = const plane
type Orbit struct {
	Anchor    int     // Index of the sphere being orbited
	Satellite int     // Index of the sphere that moves
	Radius    float64 // Orbit radius
}

// Scene contains all the elements needed for rendering.
// Sphere index is identity: it is stable for the lifetime of the scene.
type Scene struct {
	Spheres    []*geometry.Sphere   // Spheres in the scene
	Camera     core.Vec3            // Camera position
	Lights     []lights.Directional // Lights; the first one is primary
	Background core.Color           // Color of pixels that hit nothing
	Orbit      *Orbit               // Optional animation; nil for a static scene
}

// NewScene creates a scene with the camera at (0, 0, cameraZ) and the default light rig
func NewScene(spheres []*geometry.Sphere, cameraZ float64) *Scene {
	return &Scene{
		Spheres:    spheres,
		Camera:     core.NewVec3(0, 0, cameraZ),
		Lights:     lights.DefaultLights(),
		Background: core.NewColor(0, 0, 0),
	}
}

// SetOrbit makes the satellite sphere circle the anchor at their current distance
func (s *Scene) SetOrbit(anchor, satellite int) error {
	if anchor < 0 || anchor >= len(s.Spheres) || satellite < 0 || satellite >= len(s.Spheres) {
		return fmt.Errorf("orbit indices (%d, %d) out of range for %d spheres", anchor, satellite, len(s.Spheres))
	}
	if anchor == satellite {
		return fmt.Errorf("a sphere cannot orbit itself (index %d)", anchor)
	}
	s.Orbit = &Orbit{
		Anchor:    anchor,
		Satellite: satellite,
		Radius:    s.Spheres[satellite].Center.Distance(s.Spheres[anchor].Center),
	}
	return nil
}

// Advance places the orbiting sphere at the given angle (radians) around its
// anchor. Only x and y change; z is held fixed. Static scenes are unchanged.
func (s *Scene) Advance(angle float64) {
	if s.Orbit == nil {
		return
	}
	anchor := s.Spheres[s.Orbit.Anchor].Center
	satellite := s.Spheres[s.Orbit.Satellite]
	satellite.Center.X = anchor.X + s.Orbit.Radius*math.Cos(angle)
	satellite.Center.Y = anchor.Y + s.Orbit.Radius*math.Sin(angle)
}

// SetCameraZ moves the camera along the z axis
func (s *Scene) SetCameraZ(z float64) {
	s.Camera = core.NewVec3(0, 0, z)
}

// PrimaryLight returns the light that drives shadow material selection
func (s *Scene) PrimaryLight() lights.Directional {
	return s.Lights[0]
}
