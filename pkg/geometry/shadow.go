package geometry

import "github.com/df07/go-phong-raytracer/pkg/core"

// InShadow reports whether point is occluded along lightDir by any sphere
// other than spheres[self]. lightDir points from the surface toward the light.
// The search stops at the first occluder; no nearest-occluder ordering is needed.
func InShadow(point, lightDir core.Vec3, self int, spheres []*Sphere) bool {
	shadowRay := core.NewRay(point, lightDir)

	for index, sphere := range spheres {
		if index == self {
			continue
		}
		if _, isHit := sphere.Hit(shadowRay); isHit {
			return true
		}
	}
	return false
}
