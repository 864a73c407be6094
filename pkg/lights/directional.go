package lights

import "github.com/df07/go-phong-raytracer/pkg/core"

// Directional is a light at infinite distance with constant intensity.
// Direction points from a lit surface toward the light.
type Directional struct {
	Color     core.Color
	Direction core.Vec3 // Unit length
}

// NewDirectional creates a directional light, normalizing the direction
func NewDirectional(color core.Color, direction core.Vec3) Directional {
	return Directional{
		Color:     color,
		Direction: direction.Normalize(),
	}
}

// DefaultLights returns the five-light rig used by the interactive renderer.
// The first entry is the primary light; single-light rendering uses it alone.
func DefaultLights() []Directional {
	return []Directional{
		NewDirectional(core.NewColor(250, 250, 250), core.NewVec3(-1, -1, -1)), // white key light
		NewDirectional(core.NewColor(255, 140, 0), core.NewVec3(1, 1, 1)),      // dark orange
		NewDirectional(core.NewColor(0, 191, 255), core.NewVec3(1, -1, -1)),    // deep sky blue
		NewDirectional(core.NewColor(255, 255, 224), core.NewVec3(-1, 1, 1)),   // light yellow
		NewDirectional(core.NewColor(128, 0, 128), core.NewVec3(1, 1, -1)),     // purple
	}
}
