package scene

// DefaultAngleStep is the orbit advance per animation tick, in radians
const DefaultAngleStep = 0.01

// Animator advances a scene's orbit between frames
type Animator struct {
	scene *Scene
	angle float64
	step  float64
}

// NewAnimator creates an animator starting at angle 0
func NewAnimator(s *Scene) *Animator {
	return &Animator{scene: s, step: DefaultAngleStep}
}

// SetStep changes the angle added per tick
func (a *Animator) SetStep(step float64) {
	a.step = step
}

// Tick increments the angle and repositions the orbiting sphere.
// It returns the new angle.
func (a *Animator) Tick() float64 {
	a.angle += a.step
	a.scene.Advance(a.angle)
	return a.angle
}

// Angle returns the current orbit angle
func (a *Animator) Angle() float64 {
	return a.angle
}

// Scene returns the animated scene
func (a *Animator) Scene() *Scene {
	return a.scene
}
