package geometry

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Hit describes where a ray meets a sphere
type Hit struct {
	T      float64   // Ray parameter of the intersection (always > 0)
	Point  core.Vec3 // Intersection point
	Normal core.Vec3 // Outward unit normal at Point
}

// Sphere represents a colored, movable sphere
type Sphere struct {
	Center core.Vec3  // Mutated between frames by the scene animator
	Motion core.Vec3  // Per-frame displacement hint; never applied by the sphere
	Radius float64    // Fixed after creation
	Color  core.Color // Display color used as the Phong surface color
}

// NewSphere creates a new sphere
func NewSphere(center, motion core.Vec3, radius float64, color core.Color) *Sphere {
	return &Sphere{
		Center: center,
		Motion: motion,
		Radius: radius,
		Color:  color,
	}
}

// Hit tests if a ray intersects with the sphere and returns the nearest
// intersection in front of the ray origin. Roots at t <= 0 are rejected so a
// surface never reports itself as hit from its own surface point.
func (s *Sphere) Hit(ray core.Ray) (Hit, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic t² + bt + c = 0; the leading coefficient is 1 for a unit direction
	b := 2 * ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*c
	if discriminant < 0 {
		return Hit{}, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first
	root := (-b - sqrtD) / 2
	if root <= 0 {
		root = (-b + sqrtD) / 2
		if root <= 0 {
			// Sphere is entirely behind the ray origin
			return Hit{}, false
		}
	}

	point := ray.At(root)
	return Hit{
		T:      root,
		Point:  point,
		Normal: point.Subtract(s.Center).Normalize(),
	}, true
}
