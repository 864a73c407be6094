package material

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

// Phong shades surface points under a single directional light.
// The surface binding (SetObject) is mutable and is expected to be set
// immediately before each Shade call, so a Phong value must not be shared
// between goroutines.
type Phong struct {
	camera  core.Vec3
	light   lights.Directional
	surface core.Color
	coeffs  Coefficients
}

// NewPhong creates a shader for the given camera position and light
func NewPhong(camera core.Vec3, light lights.Directional) *Phong {
	return &Phong{
		camera: camera,
		light:  light,
		coeffs: Lit(),
	}
}

// NewPhongSet creates one shader per light, all sharing the same camera
func NewPhongSet(camera core.Vec3, rig []lights.Directional) []*Phong {
	shaders := make([]*Phong, len(rig))
	for i, light := range rig {
		shaders[i] = NewPhong(camera, light)
	}
	return shaders
}

// SetCamera moves the viewpoint used for the specular term
func (p *Phong) SetCamera(camera core.Vec3) {
	p.camera = camera
}

// SetLight replaces the shader's light
func (p *Phong) SetLight(light lights.Directional) {
	p.light = light
}

// SetObject binds the surface color and reflectance for the next Shade call
func (p *Phong) SetObject(surface core.Color, coeffs Coefficients) {
	p.surface = surface
	p.coeffs = coeffs
}

// Contribution returns the unclamped ambient + diffuse + specular color at
// point with unit normal. Use it when summing several lights.
func (p *Phong) Contribution(point, normal core.Vec3) core.Color {
	lightDir := p.light.Direction

	ambient := p.surface.Multiply(p.coeffs.Ambient)

	nDotL := max(0, normal.Dot(lightDir))
	diffuse := p.surface.Multiply(p.coeffs.Diffuse * nDotL)

	// Mirror the incoming light about the normal and compare with the view direction
	reflected := lightDir.Negate().Reflect(normal)
	view := p.camera.Subtract(point).Normalize()
	rDotV := max(0, reflected.Dot(view))
	specular := p.light.Color.Multiply(p.coeffs.Specular * math.Pow(rDotV, p.coeffs.Shininess))

	return ambient.Add(diffuse).Add(specular)
}

// Shade returns the displayable Phong color at point
func (p *Phong) Shade(point, normal core.Vec3) core.Color {
	return p.Contribution(point, normal).Clamp()
}

// ShadeAll sums the contributions of every shader and clamps the total once
func ShadeAll(shaders []*Phong, point, normal core.Vec3) core.Color {
	var total core.Color
	for _, shader := range shaders {
		total = total.Add(shader.Contribution(point, normal))
	}
	return total.Clamp()
}
