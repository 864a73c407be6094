package material

// Coefficients are the Phong reflectance parameters bound to a surface at
// shade time. They are not stored on spheres; the renderer picks them per
// pixel from the occlusion state.
type Coefficients struct {
	Ambient   float64 // ka
	Diffuse   float64 // kd
	Specular  float64 // ks
	Shininess float64 // Specular exponent
}

// Lit returns the coefficients for a point that receives direct light
func Lit() Coefficients {
	return Coefficients{Ambient: 0.4, Diffuse: 0.4, Specular: 0.4, Shininess: 10}
}

// Shadowed returns the coefficients for an occluded point: ambient only
func Shadowed() Coefficients {
	return Coefficients{Ambient: 0.4, Diffuse: 0, Specular: 0, Shininess: 1}
}

// ForOcclusion selects Shadowed or Lit coefficients
func ForOcclusion(occluded bool) Coefficients {
	if occluded {
		return Shadowed()
	}
	return Lit()
}
