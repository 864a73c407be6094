package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// RandomSource is the pseudo-random source consumed by scene initialization.
// *math/rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}
