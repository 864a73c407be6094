package scene

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
)

// oklchToRGB converts OKLCH color values to a color on the 0..255 scale
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Color {
	// Convert hue from degrees to radians
	hRad := h * math.Pi / 180.0

	// Convert from OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// First convert to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	// Cube the values
	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// Convert LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewColor(r, g, blue).Multiply(core.MaxChannel).Clamp()
}

// NewSphereGridScene creates a static gridSize x gridSize wall of spheres
// facing the camera, colored by hue across x and chroma across y
func NewSphereGridScene(gridSize int, cameraZ float64) *Scene {
	gridSize = max(1, gridSize)

	// Fit the grid inside the [-0.8, 0.8] square of the image plane
	targetArea := 1.6
	spacing := targetArea
	if gridSize > 1 {
		spacing = targetArea / float64(gridSize-1)
	}
	sphereRadius := math.Min(0.35, spacing*0.35)

	baseLightness := 0.7
	minChroma := 0.05
	maxChroma := 0.25

	spheres := make([]*geometry.Sphere, 0, gridSize*gridSize)
	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0
			y := float64(j)*spacing - targetArea/2.0
			if gridSize == 1 {
				x, y = 0, 0
			}

			hue := 0.0
			chroma := maxChroma
			if gridSize > 1 {
				hue = (float64(i) / float64(gridSize-1)) * 360.0
				chroma = minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			}

			spheres = append(spheres, geometry.NewSphere(
				core.NewVec3(x, y, 0),
				core.Vec3{},
				sphereRadius,
				oklchToRGB(baseLightness, chroma, hue),
			))
		}
	}

	return NewScene(spheres, cameraZ)
}
