package loaders

import (
	"fmt"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// defaultReflectance is the sphere color used when no material is declared
var defaultReflectance = core.NewVec3(0.5, 0.5, 0.5)

// LoadScene loads a PBRT file and builds a renderable sphere scene from it.
// cameraZ is used when the file has no LookAt.
func LoadScene(filename string, cameraZ float64) (*scene.Scene, error) {
	pbrtScene, err := LoadPBRT(filename)
	if err != nil {
		return nil, err
	}
	s, err := BuildScene(pbrtScene, cameraZ)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// BuildScene converts parsed PBRT content into a scene. Only spheres and
// distant lights are supported; RGB values in [0, 1] are scaled to [0, 255].
// Without any LightSource the default light rig is used.
func BuildScene(pbrtScene *PBRTScene, cameraZ float64) (*scene.Scene, error) {
	if pbrtScene.LookAt != nil {
		if err := validateLookAt(pbrtScene); err != nil {
			return nil, err
		}
		cameraZ = pbrtScene.LookAt.Z
	}

	spheres := make([]*geometry.Sphere, 0, len(pbrtScene.Shapes))
	for i, instance := range pbrtScene.Shapes {
		sphere, err := buildSphere(instance)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		spheres = append(spheres, sphere)
	}
	if len(spheres) == 0 {
		return nil, fmt.Errorf("scene has no shapes")
	}

	s := scene.NewScene(spheres, cameraZ)

	if len(pbrtScene.LightSources) > 0 {
		s.Lights = s.Lights[:0]
		for i, stmt := range pbrtScene.LightSources {
			light, err := buildLight(stmt)
			if err != nil {
				return nil, fmt.Errorf("light %d: %w", i, err)
			}
			s.Lights = append(s.Lights, light)
		}
	}

	if pbrtScene.Orbit != nil {
		if err := buildOrbit(s, pbrtScene.Orbit); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// validateLookAt accepts the only view the renderer supports: an eye on the
// -z axis looking along +z with +y up
func validateLookAt(pbrtScene *PBRTScene) error {
	eye := *pbrtScene.LookAt
	if eye.X != 0 || eye.Y != 0 {
		return fmt.Errorf("camera must be on the z axis, got LookAt eye %v", eye)
	}
	if err := scene.ValidateCameraZ(eye.Z); err != nil {
		return fmt.Errorf("LookAt eye: %w", err)
	}
	if to := pbrtScene.LookAtTo; to != nil && (to.X != 0 || to.Y != 0 || to.Z <= eye.Z) {
		return fmt.Errorf("camera must look along +z, got LookAt target %v", *to)
	}
	if up := pbrtScene.LookAtUp; up != nil && (up.X != 0 || up.Z != 0 || up.Y <= 0) {
		return fmt.Errorf("camera up must be +y, got %v", *up)
	}
	return nil
}

// buildSphere creates a sphere centered at the accumulated translation
func buildSphere(instance ShapeInstance) (*geometry.Sphere, error) {
	if instance.Shape.Subtype != "sphere" {
		return nil, fmt.Errorf("unsupported shape %q", instance.Shape.Subtype)
	}

	radius := 1.0
	if r, ok, err := instance.Shape.GetFloatParam("radius"); err != nil {
		return nil, fmt.Errorf("invalid radius: %w", err)
	} else if ok {
		radius = r
	}
	if radius <= 0 {
		return nil, fmt.Errorf("sphere radius must be positive, got %g", radius)
	}

	motion, _, err := instance.Shape.GetVec3Param("motion")
	if err != nil {
		return nil, fmt.Errorf("invalid motion: %w", err)
	}

	reflectance := defaultReflectance
	if instance.Material != nil {
		rgb, ok, err := instance.Material.GetVec3Param("reflectance")
		if err != nil {
			return nil, fmt.Errorf("invalid material: %w", err)
		}
		if ok {
			reflectance = rgb
		}
	}

	return geometry.NewSphere(instance.Translation, motion, radius, scaleRGB(reflectance)), nil
}

// buildLight creates a directional light from a "distant" light source.
// PBRT distant light travels from "from" to "to", so the direction toward
// the light is from - to.
func buildLight(stmt PBRTStatement) (lights.Directional, error) {
	if stmt.Subtype != "distant" {
		return lights.Directional{}, fmt.Errorf("unsupported light %q (only distant lights)", stmt.Subtype)
	}

	radiance, err := vec3ParamOr(stmt, "L", core.NewVec3(1, 1, 1))
	if err != nil {
		return lights.Directional{}, err
	}
	from, err := vec3ParamOr(stmt, "from", core.NewVec3(0, 0, 0))
	if err != nil {
		return lights.Directional{}, err
	}
	to, err := vec3ParamOr(stmt, "to", core.NewVec3(0, 0, 1))
	if err != nil {
		return lights.Directional{}, err
	}

	direction := from.Subtract(to)
	if direction.LengthSquared() == 0 {
		return lights.Directional{}, fmt.Errorf("distant light has identical from and to points")
	}
	return lights.NewDirectional(scaleRGB(radiance), direction), nil
}

// vec3ParamOr returns the named parameter, or fallback when it is absent
func vec3ParamOr(stmt PBRTStatement, name string, fallback core.Vec3) (core.Vec3, error) {
	value, ok, err := stmt.GetVec3Param(name)
	if err != nil {
		return core.Vec3{}, err
	}
	if !ok {
		return fallback, nil
	}
	return value, nil
}

// buildOrbit applies an Orbit "circle" statement
func buildOrbit(s *scene.Scene, stmt *PBRTStatement) error {
	if stmt.Subtype != "circle" {
		return fmt.Errorf("unsupported orbit %q", stmt.Subtype)
	}
	anchor, ok, err := stmt.GetIntParam("anchor")
	if err != nil {
		return fmt.Errorf("orbit: %w", err)
	}
	if !ok {
		return fmt.Errorf("orbit requires \"integer anchor\"")
	}
	satellite, ok, err := stmt.GetIntParam("satellite")
	if err != nil {
		return fmt.Errorf("orbit: %w", err)
	}
	if !ok {
		return fmt.Errorf("orbit requires \"integer satellite\"")
	}
	return s.SetOrbit(anchor, satellite)
}

// scaleRGB maps an RGB triple in [0, 1] to the 0..255 color scale
func scaleRGB(rgb core.Vec3) core.Color {
	return core.NewColor(rgb.X, rgb.Y, rgb.Z).Multiply(core.MaxChannel)
}
