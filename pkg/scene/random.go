package scene

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
)

// Uniform returns a pseudo-random value in [min, max)
func Uniform(rng core.RandomSource, min, max float64) float64 {
	return rng.Float64()*(max-min) + min
}

// randomColor draws each channel uniformly over the full 0..255 range
func randomColor(rng core.RandomSource) core.Color {
	channel := func() float64 {
		return math.Min(core.MaxChannel, math.Floor(Uniform(rng, 0, 256)))
	}
	r := channel()
	g := channel()
	b := channel()
	return core.NewColor(r, g, b)
}

// NewRandomScene creates the two-sphere orbit scene: a center sphere on the
// z axis and a second sphere that orbits it at their initial distance.
func NewRandomScene(rng core.RandomSource, cameraZ float64) *Scene {
	// Center sphere: on the z axis, at rest
	center := core.NewVec3(0, 0, Uniform(rng, 0, WorldRadius/2))
	radius := Uniform(rng, WorldRadius/20, WorldRadius/10)
	anchor := geometry.NewSphere(center, core.Vec3{}, radius, randomColor(rng))

	// Orbiting sphere
	position := core.NewVec3(
		Uniform(rng, -WorldRadius/2, WorldRadius/2),
		Uniform(rng, -WorldRadius/2, WorldRadius/2),
		Uniform(rng, 0, WorldRadius/2),
	)
	motion := core.NewVec3(
		Uniform(rng, -WorldRadius/100, WorldRadius/200),
		Uniform(rng, -WorldRadius/100, WorldRadius/200),
		Uniform(rng, -WorldRadius/100, WorldRadius/200),
	)
	radius = Uniform(rng, WorldRadius/20, WorldRadius/10)
	satellite := geometry.NewSphere(position, motion, radius, randomColor(rng))

	s := NewScene([]*geometry.Sphere{anchor, satellite}, cameraZ)
	// Both indices exist, so SetOrbit cannot fail here
	_ = s.SetOrbit(0, 1)
	return s
}
